package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/ironsheep/a11y-scan-mcp/internal/logging"
	"github.com/ironsheep/a11y-scan-mcp/internal/scan"
)

// Store keeps scans in a map. Records are copied on the way in and out.
type Store struct {
	mu    sync.RWMutex
	scans map[string]*scan.Scan
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{scans: make(map[string]*scan.Scan)}
}

func (s *Store) Set(ctx context.Context, id string, u scan.Update) (*scan.Scan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := scan.Merge(s.scans[id], id, u, logging.CtxTime(ctx))
	if err != nil {
		return nil, err
	}
	s.scans[id] = next
	return next.Clone(), nil
}

func (s *Store) Get(ctx context.Context, id string) (*scan.Scan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	found, ok := s.scans[id]
	if !ok {
		return nil, goerr.Wrap(scan.ErrNotFound, "scan not found", goerr.V("scan_id", id))
	}
	return found.Clone(), nil
}

func (s *Store) List(ctx context.Context) ([]*scan.Scan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*scan.Scan, 0, len(s.scans))
	for _, v := range s.scans {
		out = append(out, v.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
