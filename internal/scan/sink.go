package scan

import "context"

// StatusSink is the keyed store the orchestrator publishes scan status to.
//
// Implementations must make each Set atomic per id: concurrent scans write different
// ids, and callers poll with Get while scans run.
type StatusSink interface {
	// Set merges u into the record for id (creating it when missing) and stamps UpdatedAt.
	// It returns the stored record.
	Set(ctx context.Context, id string, u Update) (*Scan, error)

	// Get returns the record for id or ErrNotFound.
	Get(ctx context.Context, id string) (*Scan, error)
}

// Store is a StatusSink that can also list scans.
type Store interface {
	StatusSink

	// List returns every scan, newest first.
	List(ctx context.Context) ([]*Scan, error)
}
