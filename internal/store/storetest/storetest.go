// Package storetest holds the test suite every scan.Store implementation must pass.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/gt"

	"github.com/ironsheep/a11y-scan-mcp/internal/detection"
	"github.com/ironsheep/a11y-scan-mcp/internal/logging"
	"github.com/ironsheep/a11y-scan-mcp/internal/scan"
)

// TestAll runs every store test case against s.
func TestAll(t *testing.T, s scan.Store) {
	t.Run("Lifecycle", func(t *testing.T) {
		TestLifecycle(t, s)
	})
	t.Run("GetMissing", func(t *testing.T) {
		TestGetMissing(t, s)
	})
	t.Run("SetCreatesMissing", func(t *testing.T) {
		TestSetCreatesMissing(t, s)
	})
	t.Run("TerminalIsImmutable", func(t *testing.T) {
		TestTerminalIsImmutable(t, s)
	})
	t.Run("InvalidTransition", func(t *testing.T) {
		TestInvalidTransition(t, s)
	})
	t.Run("ListNewestFirst", func(t *testing.T) {
		TestListNewestFirst(t, s)
	})
	t.Run("ConcurrentScans", func(t *testing.T) {
		TestConcurrentScans(t, s)
	})
}

func newID() string {
	return "scan-" + uuid.NewString()[:8]
}

func at(ts time.Time) context.Context {
	return logging.CtxWithTime(context.Background(), func() time.Time { return ts })
}

// TestLifecycle walks one scan through queued, running and done.
func TestLifecycle(t *testing.T, s scan.Store) {
	id := newID()
	t0 := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	queued, err := s.Set(at(t0), id, scan.Update{URL: "https://example.com", Status: scan.StatusQueued})
	gt.NoError(t, err)
	gt.V(t, queued.Status).Equal(scan.StatusQueued)
	gt.True(t, queued.CreatedAt.Equal(t0))

	_, err = s.Set(at(t0.Add(time.Second)), id, scan.Update{Status: scan.StatusRunning})
	gt.NoError(t, err)

	result := &scan.Result{
		Issues: []detection.Issue{{
			ID: "A11Y-SMALLTARGET-0", Rule: detection.RuleTargetSize, Severity: detection.SeveritySerious,
			BBox:    detection.BBox{X: 1, Y: 2, W: 20, H: 20},
			Details: &detection.TargetSizeDetails{CurrentSize: detection.Size{Width: 20, Height: 20}},
		}},
		ScreenshotPath: "/tmp/" + id + "/screenshot.png",
		PageInfo:       detection.DefaultPageInfo("https://example.com"),
		Summary:        detection.Summary{Total: 1, Serious: 1},
	}
	done, err := s.Set(at(t0.Add(2*time.Second)), id, scan.Update{Status: scan.StatusDone, Result: result})
	gt.NoError(t, err)
	gt.V(t, done.Status).Equal(scan.StatusDone)

	got, err := s.Get(context.Background(), id)
	gt.NoError(t, err)
	gt.V(t, got.ID).Equal(id)
	gt.V(t, got.URL).Equal("https://example.com")
	gt.V(t, got.Status).Equal(scan.StatusDone)
	gt.True(t, got.CreatedAt.Equal(t0))
	gt.True(t, got.UpdatedAt.Equal(t0.Add(2*time.Second)))
	gt.V(t, got.Result.ScreenshotPath).Equal(result.ScreenshotPath)
	gt.A(t, got.Result.Issues).Length(1)
	gt.V(t, got.Result.Issues[0].Details.(*detection.TargetSizeDetails).CurrentSize.Width).Equal(20)
	gt.V(t, got.Result.Summary.Serious).Equal(1)
}

// TestGetMissing checks the not-found error.
func TestGetMissing(t *testing.T, s scan.Store) {
	_, err := s.Get(context.Background(), newID())
	gt.Error(t, err)
	gt.True(t, errors.Is(err, scan.ErrNotFound))
}

// TestSetCreatesMissing checks that an update for an unknown id creates a queued record
// before applying the update.
func TestSetCreatesMissing(t *testing.T, s scan.Store) {
	id := newID()
	got, err := s.Set(context.Background(), id, scan.Update{URL: "https://example.org", Status: scan.StatusRunning})
	gt.NoError(t, err)
	gt.V(t, got.Status).Equal(scan.StatusRunning)
	gt.V(t, got.URL).Equal("https://example.org")
}

// TestTerminalIsImmutable checks that done and error records reject further changes.
func TestTerminalIsImmutable(t *testing.T, s scan.Store) {
	ctx := context.Background()
	id := newID()

	_, err := s.Set(ctx, id, scan.Update{URL: "https://example.com", Status: scan.StatusRunning})
	gt.NoError(t, err)
	failed := scan.NewError(scan.KindRender, errors.New("boom"))
	_, err = s.Set(ctx, id, scan.Update{Status: scan.StatusError, Error: failed})
	gt.NoError(t, err)

	_, err = s.Set(ctx, id, scan.Update{Status: scan.StatusDone, Result: &scan.Result{}})
	gt.True(t, errors.Is(err, scan.ErrTerminal))
	_, err = s.Set(ctx, id, scan.Update{Error: scan.NewError(scan.KindInternal, errors.New("again"))})
	gt.True(t, errors.Is(err, scan.ErrTerminal))

	got, err := s.Get(ctx, id)
	gt.NoError(t, err)
	gt.V(t, got.Status).Equal(scan.StatusError)
	gt.V(t, got.Error.Kind).Equal(scan.KindRender)
	gt.V(t, got.Error.Message).Equal("boom")
	gt.V(t, got.Result).Equal((*scan.Result)(nil))
}

// TestInvalidTransition checks that a queued scan cannot jump to done.
func TestInvalidTransition(t *testing.T, s scan.Store) {
	ctx := context.Background()
	id := newID()

	_, err := s.Set(ctx, id, scan.Update{URL: "https://example.com", Status: scan.StatusQueued})
	gt.NoError(t, err)
	_, err = s.Set(ctx, id, scan.Update{Status: scan.StatusDone})
	gt.True(t, errors.Is(err, scan.ErrInvalidTransition))

	got, err := s.Get(ctx, id)
	gt.NoError(t, err)
	gt.V(t, got.Status).Equal(scan.StatusQueued)
}

// TestListNewestFirst checks List ordering.
func TestListNewestFirst(t *testing.T, s scan.Store) {
	base := time.Date(2030, 5, 1, 0, 0, 0, 0, time.UTC)
	ids := []string{newID(), newID(), newID()}
	for i, id := range ids {
		_, err := s.Set(at(base.Add(time.Duration(i)*time.Minute)), id, scan.Update{URL: "https://example.com", Status: scan.StatusQueued})
		gt.NoError(t, err)
	}

	list, err := s.List(context.Background())
	gt.NoError(t, err)
	gt.True(t, len(list) >= 3)

	// Other cases use earlier timestamps, so these three lead the list.
	gt.V(t, list[0].ID).Equal(ids[2])
	gt.V(t, list[1].ID).Equal(ids[1])
	gt.V(t, list[2].ID).Equal(ids[0])
}

// TestConcurrentScans runs several scans through the store at once.
func TestConcurrentScans(t *testing.T, s scan.Store) {
	ctx := context.Background()
	const n = 8

	ids := make([]string, n)
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		ids[i] = newID()
		wg.Add(1)
		go func(id string, i int) {
			defer wg.Done()
			for _, u := range []scan.Update{
				{URL: fmt.Sprintf("https://example.com/%d", i), Status: scan.StatusQueued},
				{Status: scan.StatusRunning},
				{Status: scan.StatusDone, Result: &scan.Result{ScreenshotPath: id}},
			} {
				if _, err := s.Set(ctx, id, u); err != nil {
					errs <- err
					return
				}
			}
		}(ids[i], i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		gt.NoError(t, err)
	}

	for _, id := range ids {
		got, err := s.Get(ctx, id)
		gt.NoError(t, err)
		gt.V(t, got.Status).Equal(scan.StatusDone)
		gt.V(t, got.Result.ScreenshotPath).Equal(id)
	}
}
