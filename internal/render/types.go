package render

import (
	"context"
	"time"

	"github.com/ironsheep/a11y-scan-mcp/internal/detection"
)

// Viewport is the browser window size in CSS pixels.
type Viewport struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// DefaultViewport is a common laptop viewport.
var DefaultViewport = Viewport{Width: 1280, Height: 800}

// Request asks for one page to be rendered.
type Request struct {
	URL      string
	Viewport Viewport
}

// Output is everything captured from a rendered page.
type Output struct {
	// Screenshot is a full-page PNG.
	Screenshot []byte

	// PageInfo falls back to detection.DefaultPageInfo when the page cannot be queried.
	PageInfo detection.PageInfo

	// Elements is empty (never nil) when element extraction fails.
	Elements []detection.PageElement
}

// Renderer renders a page in a browser.
//
// Navigation problems are tolerated: as long as a screenshot can be taken the call
// succeeds with whatever the page managed to load. An error means no screenshot.
type Renderer interface {
	Render(ctx context.Context, req Request) (*Output, error)
}

// Options configures the Chrome renderer.
type Options struct {
	// ExecPath is the Chrome/Chromium binary. Empty means chromedp's lookup.
	ExecPath string `yaml:"exec_path"`

	// Headful shows the browser window. The zero value runs Chrome headless.
	Headful bool `yaml:"headful"`

	// NavigationTimeout bounds page navigation. Default 30s.
	NavigationTimeout time.Duration `yaml:"navigation_timeout"`

	// NetworkIdleTimeout bounds the wait for network idle after navigation. Default 10s.
	NetworkIdleTimeout time.Duration `yaml:"network_idle_timeout"`

	// UserAgent overrides the browser user agent when set.
	UserAgent string `yaml:"user_agent"`
}

// DefaultOptions returns the standard renderer settings.
func DefaultOptions() Options {
	return Options{
		NavigationTimeout:  30 * time.Second,
		NetworkIdleTimeout: 10 * time.Second,
	}
}

func (o Options) headless() bool { return !o.Headful }

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	d.ExecPath = o.ExecPath
	d.Headful = o.Headful
	d.UserAgent = o.UserAgent
	if o.NavigationTimeout > 0 {
		d.NavigationTimeout = o.NavigationTimeout
	}
	if o.NetworkIdleTimeout > 0 {
		d.NetworkIdleTimeout = o.NetworkIdleTimeout
	}
	return d
}
