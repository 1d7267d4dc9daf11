package catalog

import "context"

// CollectionStore persists whole per-kind document collections.
//
// LoadAll returns an empty collection (and no error) for a kind that was
// never saved, and treats a persisted collection it cannot decode the same
// way, so one bad file or row never takes the catalog down. SaveAll
// replaces the stored collection wholesale. The service re-reads through
// this interface on every operation; implementations must not assume any
// cross-call caching.
type CollectionStore interface {
	LoadAll(ctx context.Context, kind Kind) ([]Document, error)
	SaveAll(ctx context.Context, kind Kind, docs []Document) error
}
