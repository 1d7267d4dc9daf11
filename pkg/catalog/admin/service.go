package admin

import (
	"context"

	"github.com/webdevsint/coffee-lab-api/pkg/catalog"
)

// Service defines read-only reporting operations over the catalog
// collections. These operations scan whole collections and are intended
// for dashboards and operational tooling, not request-path use.
//
// Endpoints using this service should sit behind the admin
// authentication middleware.
type Service interface {
	// Counts returns the number of documents in every collection.
	Counts(ctx context.Context) (map[catalog.Kind]int, error)

	// Stats returns per-collection counts plus the timestamp of the
	// newest document in each collection that carries one.
	Stats(ctx context.Context) (*Stats, error)
}

// New creates a reporting service that reads from the provided store.
func New(store catalog.CollectionStore) Service {
	return &service{store: store}
}
