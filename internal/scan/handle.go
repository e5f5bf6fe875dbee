package scan

import (
	"context"
	"sync"
)

// Handle tracks a submitted scan until it reaches a terminal status.
type Handle struct {
	id   string
	done chan struct{}
	once sync.Once
	scan *Scan
}

func newHandle(id string) *Handle {
	return &Handle{id: id, done: make(chan struct{})}
}

// ID returns the scan id.
func (h *Handle) ID() string { return h.id }

// Done is closed once the scan is done or failed.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Result returns the terminal record, or nil while the scan is still running.
func (h *Handle) Result() *Scan {
	select {
	case <-h.done:
		return h.scan.Clone()
	default:
		return nil
	}
}

// Wait blocks until the scan finishes or ctx ends.
func (h *Handle) Wait(ctx context.Context) (*Scan, error) {
	select {
	case <-h.done:
		return h.scan.Clone(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (h *Handle) finish(s *Scan) {
	h.once.Do(func() {
		h.scan = s
		close(h.done)
	})
}
