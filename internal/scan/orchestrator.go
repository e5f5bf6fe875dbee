package scan

import (
	"context"
	"errors"
	"image"
	"sync"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"github.com/ironsheep/a11y-scan-mcp/internal/artifact"
	"github.com/ironsheep/a11y-scan-mcp/internal/detection"
	"github.com/ironsheep/a11y-scan-mcp/internal/imaging"
	"github.com/ironsheep/a11y-scan-mcp/internal/logging"
	"github.com/ironsheep/a11y-scan-mcp/internal/render"
)

// Renderer is the browser side of a scan.
type Renderer interface {
	Render(ctx context.Context, req render.Request) (*render.Output, error)
}

// Orchestrator runs scans: render, analyze, enrich, persist artifacts and publish status.
//
// Every submitted scan runs on its own goroutine. An Orchestrator is safe for concurrent
// use.
type Orchestrator struct {
	renderer  Renderer
	sink      StatusSink
	artifacts artifact.Store
	analyzers []detection.Analyzer
	viewport  render.Viewport
	newID     func() string

	publishAttempts int
	publishDelay    time.Duration

	mu      sync.Mutex
	handles map[string]*Handle
	// unpublished holds terminal records the sink never accepted.
	unpublished map[string]*Scan
	wg          sync.WaitGroup
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithAnalyzers replaces the default contrast and target-size analyzers.
func WithAnalyzers(analyzers ...detection.Analyzer) Option {
	return func(o *Orchestrator) { o.analyzers = analyzers }
}

// WithViewport sets the browser viewport used for every scan.
func WithViewport(v render.Viewport) Option {
	return func(o *Orchestrator) { o.viewport = v }
}

// WithPublishRetry sets how often a done or error status is written before giving up,
// and the delay before the first retry. Defaults are 3 attempts and 100ms.
func WithPublishRetry(attempts int, delay time.Duration) Option {
	return func(o *Orchestrator) {
		o.publishAttempts = attempts
		o.publishDelay = delay
	}
}

// WithIDFunc replaces the uuid scan id generator.
func WithIDFunc(f func() string) Option {
	return func(o *Orchestrator) { o.newID = f }
}

// New creates an Orchestrator.
func New(renderer Renderer, sink StatusSink, artifacts artifact.Store, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		renderer:  renderer,
		sink:      sink,
		artifacts: artifacts,
		analyzers: DefaultAnalyzers(),
		viewport:  render.DefaultViewport,
		newID:     uuid.NewString,

		publishAttempts: 3,
		publishDelay:    100 * time.Millisecond,

		handles:     make(map[string]*Handle),
		unpublished: make(map[string]*Scan),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Sink returns the status sink scans are published to.
func (o *Orchestrator) Sink() StatusSink {
	return o.sink
}

// Submit records a queued scan of url and starts it in the background.
//
// The scan keeps running after ctx is canceled; only the logger and clock of ctx are
// carried over.
func (o *Orchestrator) Submit(ctx context.Context, url string) (*Handle, error) {
	if url == "" {
		return nil, goerr.Wrap(ErrEmptyURL, "failed to submit scan")
	}

	id := o.newID()
	if _, err := o.sink.Set(ctx, id, Update{URL: url, Status: StatusQueued}); err != nil {
		return nil, goerr.Wrap(err, "failed to record queued scan", goerr.V("scan_id", id))
	}

	h := newHandle(id)
	o.mu.Lock()
	o.handles[id] = h
	o.mu.Unlock()

	bg := logging.Detach(ctx)
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		s := o.Run(bg, id, url)

		o.mu.Lock()
		delete(o.handles, id)
		o.mu.Unlock()
		h.finish(s)
	}()

	logging.From(ctx).Info("scan submitted", "scan_id", id, "url", url)
	return h, nil
}

// Get returns the current record of a scan. A finished scan whose terminal status could
// not be written to the sink is returned from memory.
func (o *Orchestrator) Get(ctx context.Context, id string) (*Scan, error) {
	o.mu.Lock()
	s, ok := o.unpublished[id]
	o.mu.Unlock()
	if ok {
		return s.Clone(), nil
	}
	return o.sink.Get(ctx, id)
}

// Screenshot returns the stored screenshot of a scan.
func (o *Orchestrator) Screenshot(ctx context.Context, id string) ([]byte, error) {
	data, err := o.artifacts.Get(ctx, artifact.Key(id, artifact.Screenshot))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load screenshot", goerr.V("scan_id", id))
	}
	return data, nil
}

// Wait blocks until the scan finishes or ctx ends. Scans that are not running in this
// process return their stored record immediately.
func (o *Orchestrator) Wait(ctx context.Context, id string) (*Scan, error) {
	o.mu.Lock()
	h, ok := o.handles[id]
	o.mu.Unlock()
	if ok {
		return h.Wait(ctx)
	}
	return o.Get(ctx, id)
}

// Drain waits for every submitted scan to finish or for ctx to end.
func (o *Orchestrator) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		o.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run executes one scan synchronously and returns its terminal record.
//
// Run never returns nil: when the sink cannot be written the record built locally is
// returned instead.
func (o *Orchestrator) Run(ctx context.Context, id, url string) (result *Scan) {
	logger := logging.From(ctx).With("scan_id", id, "url", url)
	ctx = logging.With(ctx, logger)

	now := logging.CtxTime(ctx)
	run := &run{
		o:     o,
		id:    id,
		local: &Scan{ID: id, URL: url, Status: StatusQueued, CreatedAt: now, UpdatedAt: now},
	}

	defer func() {
		if r := recover(); r != nil {
			err := goerr.New("scan panicked", goerr.V("panic", r))
			result = run.fail(ctx, KindInternal, err)
		}
	}()

	lc, err := newLifecycle(id, StatusQueued)
	if err != nil {
		return run.fail(ctx, KindInternal, err)
	}
	run.lc = lc

	if err := run.transition(ctx, Update{URL: url, Status: StatusRunning}); err != nil {
		return run.fail(ctx, KindInternal, err)
	}
	logger.Info("scan started")

	res, err := o.pipeline(ctx, id, url)
	if err != nil {
		var se *stageError
		if errors.As(err, &se) {
			return run.fail(ctx, se.kind, se.err)
		}
		return run.fail(ctx, KindInternal, err)
	}

	if err := run.transition(ctx, Update{Status: StatusDone, Result: res}); err != nil {
		return run.fail(ctx, KindInternal, err)
	}
	logger.Info("scan finished", "issues", res.Summary.Total, "elements", res.Summary.ElementsAnalyzed)
	return run.latest()
}

// AnalyzeScreenshot runs the analysis half of a scan on an existing PNG or JPEG.
// Artifacts are stored under the content id of data. pageURL is only used in reports.
func (o *Orchestrator) AnalyzeScreenshot(ctx context.Context, data []byte, elements []detection.PageElement, pageURL string) (*Result, error) {
	img, err := imaging.Decode(data)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to decode screenshot")
	}

	prefix := artifact.ContentID(data)
	res, err := o.analyzeImage(ctx, prefix, data, img, elements, detection.DefaultPageInfo(pageURL))
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	res.PageInfo.Viewport = detection.PageViewport{Width: b.Dx(), Height: b.Dy(), ScrollHeight: b.Dy()}
	SaveReports(ctx, o.artifacts, prefix, pageURL, img, res)
	return res, nil
}

func (o *Orchestrator) pipeline(ctx context.Context, id, url string) (*Result, error) {
	out, err := o.renderer.Render(ctx, render.Request{URL: url, Viewport: o.viewport})
	if err != nil {
		return nil, staged(KindRender, goerr.Wrap(err, "failed to render page", goerr.V("url", url)))
	}
	if out == nil || len(out.Screenshot) == 0 {
		return nil, staged(KindRender, goerr.New("renderer returned no screenshot", goerr.V("url", url)))
	}

	img, err := imaging.Decode(out.Screenshot)
	if err != nil {
		return nil, staged(KindRender, goerr.Wrap(err, "failed to decode screenshot", goerr.V("url", url)))
	}

	res, err := o.analyzeImage(ctx, id, out.Screenshot, img, out.Elements, out.PageInfo)
	if err != nil {
		return nil, err
	}

	SaveReports(ctx, o.artifacts, id, url, img, res)
	return res, nil
}

func (o *Orchestrator) analyzeImage(ctx context.Context, prefix string, data []byte, img image.Image, elements []detection.PageElement, info detection.PageInfo) (*Result, error) {
	screenshotPath, err := o.artifacts.Put(ctx, artifact.Key(prefix, artifact.Screenshot), data, artifact.ContentType(artifact.Screenshot))
	if err != nil {
		return nil, staged(KindArtifact, goerr.Wrap(err, "failed to store screenshot"))
	}

	issues, err := Analyze(ctx, img, o.analyzers)
	if err != nil {
		return nil, staged(KindAnalysis, err)
	}

	enriched, err := detection.Enrich(issues, elements)
	if err != nil {
		logging.From(ctx).Warn("element enrichment failed", "error", err)
	}
	logging.From(ctx).Debug("issues enriched", "enriched", enriched, "issues", len(issues))

	return &Result{
		Issues:         issues,
		ScreenshotPath: screenshotPath,
		PageInfo:       info,
		Summary:        detection.Summarize(issues, len(elements)),
	}, nil
}

// stageError tags a pipeline error with the kind reported on the failed scan.
type stageError struct {
	kind ErrorKind
	err  error
}

func staged(kind ErrorKind, err error) error {
	return &stageError{kind: kind, err: err}
}

func (e *stageError) Error() string { return e.err.Error() }
func (e *stageError) Unwrap() error { return e.err }

// run is the per-scan publishing state.
type run struct {
	o     *Orchestrator
	id    string
	lc    *lifecycle
	local *Scan

	// stored is the last record the sink returned.
	stored *Scan
}

// transition publishes u and then moves the lifecycle and the local record.
//
// A failed running update is logged and the scan goes on. A done or error update is
// retried; when it still fails the error is returned and nothing moves, so the caller
// can publish a failure instead.
func (r *run) transition(ctx context.Context, u Update) error {
	next := r.local.Clone()
	if err := next.Apply(u, logging.CtxTime(ctx)); err != nil {
		return err
	}

	s, err := r.publish(ctx, u)
	if err != nil {
		if u.Status.Terminal() {
			return goerr.Wrap(err, "failed to publish scan status", goerr.V("status", u.Status))
		}
		logging.From(ctx).Error("failed to publish scan status", "status", u.Status, "error", err)
	}

	if r.lc != nil {
		if err := r.lc.Send(eventFor[u.Status]); err != nil {
			return err
		}
	}
	r.local = next
	r.stored = s
	return nil
}

func (r *run) publish(ctx context.Context, u Update) (*Scan, error) {
	set := func(ctx context.Context) (*Scan, error) {
		return r.o.sink.Set(ctx, r.id, u)
	}
	if !u.Status.Terminal() {
		return set(ctx)
	}

	rt := retry.New[*Scan](retry.Config{
		MaxAttempts:        r.o.publishAttempts,
		InitialDelay:       r.o.publishDelay,
		BackoffPolicy:      retry.BackoffExponential,
		NonRetryableErrors: []error{ErrTerminal, ErrInvalidTransition},
		OnRetry: func(attempt int, err error) {
			logging.From(ctx).Warn("retrying scan status", "status", u.Status, "attempt", attempt, "error", err)
		},
	})
	return rt.Do(ctx, set)
}

func (r *run) fail(ctx context.Context, kind ErrorKind, err error) *Scan {
	logging.From(ctx).Error("scan failed", "kind", kind, "error", err)

	if r.local.Status.Terminal() {
		return r.latest()
	}
	if r.local.Status == StatusQueued {
		// Failing before the running update was published still goes through running.
		if terr := r.transition(ctx, Update{URL: r.local.URL, Status: StatusRunning}); terr != nil {
			logging.From(ctx).Error("failed to mark scan running", "error", terr)
		}
	}

	u := Update{Status: StatusError, Error: NewError(kind, err)}
	terr := r.transition(ctx, u)
	if terr != nil {
		logging.From(ctx).Error("failed to mark scan failed", "error", terr)
		// A bare record has the best chance with a sink that rejected the full one.
		u = Update{Status: StatusError, Error: &Error{Message: u.Error.Message, Kind: KindInternal}}
		terr = r.transition(ctx, u)
	}
	if terr != nil {
		logging.From(ctx).Error("scan status lost, keeping the final record in memory", "error", terr)
		r.local.Status = StatusError
		r.local.Error = u.Error
		r.local.UpdatedAt = logging.CtxTime(ctx)
		r.stored = nil

		r.o.mu.Lock()
		r.o.unpublished[r.id] = r.local.Clone()
		r.o.mu.Unlock()
	}
	return r.latest()
}

func (r *run) latest() *Scan {
	if r.stored != nil {
		return r.stored.Clone()
	}
	return r.local.Clone()
}
