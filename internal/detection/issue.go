package detection

import (
	"encoding/json"
	"fmt"
	"image"

	"github.com/ironsheep/a11y-scan-mcp/internal/imaging"
)

// Rule identifies the heuristic that produced an issue.
type Rule string

const (
	RuleLowContrast Rule = "low-contrast"
	RuleTargetSize  Rule = "target-size"
)

// Severity of an issue, from most to least severe: critical, serious, moderate, minor.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeveritySerious  Severity = "serious"
	SeverityModerate Severity = "moderate"
	SeverityMinor    Severity = "minor"
)

// Severities lists every severity from most to least severe.
var Severities = []Severity{SeverityCritical, SeveritySerious, SeverityModerate, SeverityMinor}

// BBox is an axis-aligned box in image pixels.
type BBox struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// BBoxFromRect converts an image rectangle (Max exclusive) to a BBox.
func BBoxFromRect(r image.Rectangle) BBox {
	return BBox{X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy()}
}

// Rect returns the box as an image rectangle.
func (b BBox) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.W, b.Y+b.H)
}

// Area returns W*H.
func (b BBox) Area() int {
	return b.W * b.H
}

// Overlaps reports whether two boxes share any area. Touching edges do not overlap.
func (b BBox) Overlaps(x, y, w, h int) bool {
	return b.X < x+w && b.X+b.W > x &&
		b.Y < y+h && b.Y+b.H > y
}

// Issue is one detected accessibility defect.
type Issue struct {
	// ID is unique within one analysis (e.g. "A11Y-LOWCON-0").
	ID string `json:"id"`

	Rule Rule `json:"rule"`

	// WCAG lists the success criteria the issue relates to, in order.
	WCAG []string `json:"wcag"`

	Severity Severity `json:"severity"`

	// Confidence ranges from 0 to 1.
	Confidence float64 `json:"confidence"`

	Message string `json:"message"`

	BBox BBox `json:"bbox"`

	// Details is *LowContrastDetails or *TargetSizeDetails depending on Rule.
	Details RuleDetails `json:"details"`
}

// RuleDetails is the rule-specific part of an Issue.
//
// The interface is sealed: only *LowContrastDetails and *TargetSizeDetails implement it.
type RuleDetails interface {
	Rule() Rule
	ElementInfo() *ElementContext
	setElement(el *ElementContext)
}

// Position locates an issue in pixels and as a percentage of the image size.
type Position struct {
	XPercent float64 `json:"x_percent"`
	YPercent float64 `json:"y_percent"`
	XPx      int     `json:"x_px"`
	YPx      int     `json:"y_px"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
}

// Size is a width/height pair in pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ElementContext is the DOM element attached to an issue by Enrich.
type ElementContext struct {
	Selector       string        `json:"selector"`
	Tag            string        `json:"tag"`
	Text           string        `json:"text"`
	Role           string        `json:"role"`
	AriaLabel      string        `json:"ariaLabel"`
	Href           string        `json:"href"`
	Type           string        `json:"type"`
	ComputedStyles ElementStyles `json:"computed_styles"`
}

// LowContrastDetails describes a low-contrast issue.
type LowContrastDetails struct {
	// ContrastRatio is rounded to two decimals.
	ContrastRatio   float64          `json:"contrast_ratio"`
	ForegroundColor imaging.RGBColor `json:"foreground_color"`
	BackgroundColor imaging.RGBColor `json:"background_color"`
	WCAGAAPass      bool             `json:"wcag_aa_pass"`
	WCAGAAAPass     bool             `json:"wcag_aaa_pass"`
	Position        Position         `json:"position"`
	Recommendation  string           `json:"recommendation"`
	HowToFix        []string         `json:"how_to_fix"`
	Element         *ElementContext  `json:"element,omitempty"`
}

func (d *LowContrastDetails) Rule() Rule                    { return RuleLowContrast }
func (d *LowContrastDetails) ElementInfo() *ElementContext  { return d.Element }
func (d *LowContrastDetails) setElement(el *ElementContext) { d.Element = el }

// TargetSizeDetails describes an undersized target issue.
type TargetSizeDetails struct {
	CurrentSize     Size            `json:"current_size"`
	RequiredSize    Size            `json:"required_size"`
	RecommendedSize Size            `json:"recommended_size"`
	Shortage        Size            `json:"shortage"`
	Position        Position        `json:"position"`
	WCAGLevel       string          `json:"wcag_level"`
	Recommendation  string          `json:"recommendation"`
	HowToFix        []string        `json:"how_to_fix"`
	Element         *ElementContext `json:"element,omitempty"`
}

func (d *TargetSizeDetails) Rule() Rule                    { return RuleTargetSize }
func (d *TargetSizeDetails) ElementInfo() *ElementContext  { return d.Element }
func (d *TargetSizeDetails) setElement(el *ElementContext) { d.Element = el }

// UnmarshalJSON decodes an issue, choosing the Details type from the rule field.
func (i *Issue) UnmarshalJSON(data []byte) error {
	type plain Issue
	var raw struct {
		plain
		Details json.RawMessage `json:"details"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*i = Issue(raw.plain)
	i.Details = nil

	switch raw.Rule {
	case RuleLowContrast:
		d := &LowContrastDetails{}
		if err := unmarshalDetails(raw.Details, d); err != nil {
			return err
		}
		i.Details = d
	case RuleTargetSize:
		d := &TargetSizeDetails{}
		if err := unmarshalDetails(raw.Details, d); err != nil {
			return err
		}
		i.Details = d
	default:
		return fmt.Errorf("unknown issue rule %q", raw.Rule)
	}
	return nil
}

func unmarshalDetails(data json.RawMessage, v any) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode issue details: %w", err)
	}
	return nil
}

// Analyzer turns a rendered image into issues.
//
// Implementations must be safe for concurrent use: one analyzer value is shared by every
// running scan.
type Analyzer interface {
	// Name identifies the analyzer in logs and errors.
	Name() string

	Analyze(img image.Image) ([]Issue, error)
}

// positionOf builds a Position for r inside an image of the given size.
func positionOf(r image.Rectangle, width, height int) Position {
	return Position{
		XPercent: percent(r.Min.X, width),
		YPercent: percent(r.Min.Y, height),
		XPx:      r.Min.X,
		YPx:      r.Min.Y,
		Width:    r.Dx(),
		Height:   r.Dy(),
	}
}

func percent(v, total int) float64 {
	if total <= 0 {
		return 0
	}
	return round(float64(v)/float64(total)*100, 1)
}
