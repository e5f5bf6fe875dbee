package render

import (
	"context"
	"sync"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/felixgeelhaar/fortify/timeout"
	"github.com/m-mizutani/goerr/v2"

	"github.com/ironsheep/a11y-scan-mcp/internal/detection"
	"github.com/ironsheep/a11y-scan-mcp/internal/logging"
)

// Chrome renders pages in a fresh headless Chrome per request.
type Chrome struct {
	opts Options
}

// NewChrome creates a Chrome renderer. Zero timeouts fall back to DefaultOptions.
func NewChrome(opts Options) *Chrome {
	return &Chrome{opts: opts.withDefaults()}
}

// Options returns the effective renderer settings.
func (c *Chrome) Options() Options { return c.opts }

func (c *Chrome) allocatorOptions(vp Viewport) []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.Flag("headless", c.opts.headless()),
		chromedp.WindowSize(vp.Width, vp.Height),
	)
	if c.opts.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(c.opts.ExecPath))
	}
	if c.opts.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(c.opts.UserAgent))
	}
	return opts
}

// Render loads req.URL and captures a full-page PNG, the page metadata and the
// interactive elements.
func (c *Chrome) Render(ctx context.Context, req Request) (*Output, error) {
	logger := logging.From(ctx).With("url", req.URL)
	vp := req.Viewport
	if vp.Width <= 0 || vp.Height <= 0 {
		vp = DefaultViewport
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, c.allocatorOptions(vp)...)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	networkIdle := make(chan struct{})
	var idleOnce sync.Once
	chromedp.ListenTarget(tabCtx, func(ev any) {
		if e, ok := ev.(*page.EventLifecycleEvent); ok && e.Name == "networkIdle" {
			idleOnce.Do(func() { close(networkIdle) })
		}
	})

	if err := chromedp.Run(tabCtx,
		chromedp.EmulateViewport(int64(vp.Width), int64(vp.Height)),
		page.SetLifecycleEventsEnabled(true),
	); err != nil {
		return nil, goerr.Wrap(err, "failed to start browser", goerr.V("url", req.URL))
	}

	if err := c.navigate(tabCtx, req.URL, networkIdle); err != nil {
		logger.Warn("page did not finish loading, continuing with partial content", "error", err)
	}

	elements := []detection.PageElement{}
	if err := chromedp.Run(tabCtx, chromedp.Evaluate(elementsScript, &elements)); err != nil {
		logger.Warn("failed to extract page elements", "error", err)
		elements = []detection.PageElement{}
	}

	info := detection.DefaultPageInfo(req.URL)
	if err := chromedp.Run(tabCtx, chromedp.Evaluate(pageInfoScript, &info)); err != nil {
		logger.Warn("failed to read page info", "error", err)
		info = detection.DefaultPageInfo(req.URL)
	}

	var shot []byte
	if err := chromedp.Run(tabCtx, chromedp.FullScreenshot(&shot, 100)); err != nil {
		return nil, goerr.Wrap(err, "failed to capture screenshot", goerr.V("url", req.URL))
	}

	logger.Debug("page rendered", "elements", len(elements), "screenshot_bytes", len(shot))
	return &Output{Screenshot: shot, PageInfo: info, Elements: elements}, nil
}

// navigate loads url within the navigation timeout, then waits for network idle within
// the idle timeout. Both waits are bounded; running out of time is reported, not fatal.
func (c *Chrome) navigate(ctx context.Context, url string, networkIdle <-chan struct{}) error {
	nav := timeout.New[struct{}](timeout.Config{DefaultTimeout: c.opts.NavigationTimeout})
	_, err := nav.Execute(ctx, c.opts.NavigationTimeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, chromedp.Run(ctx, chromedp.Navigate(url))
	})
	if err != nil {
		return goerr.Wrap(err, "navigation failed", goerr.V("url", url))
	}

	idle := timeout.New[struct{}](timeout.Config{DefaultTimeout: c.opts.NetworkIdleTimeout})
	_, err = idle.Execute(ctx, c.opts.NetworkIdleTimeout, func(ctx context.Context) (struct{}, error) {
		select {
		case <-networkIdle:
			return struct{}{}, nil
		case <-ctx.Done():
			return struct{}{}, ctx.Err()
		}
	})
	if err != nil {
		return goerr.Wrap(err, "network did not become idle",
			goerr.V("url", url),
			goerr.V("timeout", c.opts.NetworkIdleTimeout.String()),
		)
	}
	return nil
}
