package scan

import (
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/ironsheep/a11y-scan-mcp/internal/detection"
)

// Status is the lifecycle state of a scan.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusQueued, StatusRunning, StatusDone, StatusError:
		return true
	}
	return false
}

// Terminal reports whether s is done or error.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusError
}

// ErrorKind classifies a failed scan by the stage that failed.
type ErrorKind string

const (
	KindRender   ErrorKind = "render"
	KindAnalysis ErrorKind = "analysis"
	KindArtifact ErrorKind = "artifact"
	KindInternal ErrorKind = "internal"
)

// MaxTraceLength is the longest error trace kept on a failed scan.
const MaxTraceLength = 500

// Scan is the status record of one scan.
type Scan struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Result    *Result   `json:"result,omitempty"`
	Error     *Error    `json:"error,omitempty"`
}

// Result is the outcome of a successful scan.
//
// Optional artifact paths are empty when the artifact could not be produced.
type Result struct {
	Issues                  []detection.Issue  `json:"issues"`
	ScreenshotPath          string             `json:"screenshotPath"`
	AnnotatedScreenshotPath string             `json:"annotatedScreenshotPath,omitempty"`
	ReportPath              string             `json:"reportPath,omitempty"`
	MarkdownReportPath      string             `json:"markdownReportPath,omitempty"`
	PageInfo                detection.PageInfo `json:"pageInfo"`
	Summary                 detection.Summary  `json:"summary"`
}

// Error describes a failed scan.
type Error struct {
	Message string    `json:"message"`
	Kind    ErrorKind `json:"kind"`

	// Trace is the detailed error rendering, cut to MaxTraceLength characters.
	Trace string `json:"errorDetails"`
}

// NewError builds an Error from err. The trace is the goerr "%+v" rendering (message,
// values and stack) truncated to MaxTraceLength.
func NewError(kind ErrorKind, err error) *Error {
	return &Error{
		Message: err.Error(),
		Kind:    kind,
		Trace:   Truncate(fmt.Sprintf("%+v", err), MaxTraceLength),
	}
}

// Truncate cuts s to at most limit runes.
func Truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}

// Update is a partial change to a scan record. Zero fields are left untouched.
type Update struct {
	// URL is only used when the update creates the record.
	URL string

	Status Status
	Result *Result
	Error  *Error
}

// Apply merges u into s and stamps UpdatedAt.
//
// Status changes must follow the lifecycle (ErrInvalidTransition otherwise). Once a scan
// is done or failed, any update touching status, result or error fails with ErrTerminal.
func (s *Scan) Apply(u Update, now time.Time) error {
	if s.Status.Terminal() && (u.Status != "" || u.Result != nil || u.Error != nil) {
		return goerr.Wrap(ErrTerminal, "scan is immutable",
			goerr.V("scan_id", s.ID),
			goerr.V("status", s.Status),
		)
	}

	if u.Status != "" && u.Status != s.Status {
		if err := CheckTransition(s.Status, u.Status); err != nil {
			return goerr.Wrap(err, "failed to update scan", goerr.V("scan_id", s.ID))
		}
		s.Status = u.Status
	}
	if u.Result != nil {
		s.Result = u.Result
	}
	if u.Error != nil {
		s.Error = u.Error
	}
	s.UpdatedAt = now
	return nil
}

// Clone returns a copy of s that can be changed without affecting s.
func (s *Scan) Clone() *Scan {
	if s == nil {
		return nil
	}
	c := *s
	if s.Result != nil {
		r := *s.Result
		r.Issues = append([]detection.Issue(nil), s.Result.Issues...)
		c.Result = &r
	}
	if s.Error != nil {
		e := *s.Error
		c.Error = &e
	}
	return &c
}

// Merge applies u to existing and returns the new record. A nil existing creates a
// queued record for id first. existing itself is never modified.
//
// Stores call Merge inside their per-key critical section.
func Merge(existing *Scan, id string, u Update, now time.Time) (*Scan, error) {
	var s *Scan
	if existing == nil {
		s = &Scan{
			ID:        id,
			URL:       u.URL,
			Status:    StatusQueued,
			CreatedAt: now,
			UpdatedAt: now,
		}
	} else {
		s = existing.Clone()
	}

	if err := s.Apply(u, now); err != nil {
		return nil, err
	}
	return s, nil
}
