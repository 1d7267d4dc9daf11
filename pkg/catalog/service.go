package catalog

import "context"

// Service defines the main interface for the catalog library. Each
// operation re-reads the backing collection through the CollectionStore,
// so documents written by another process (the admin CLI, for instance)
// are visible on the next call without any cache invalidation.
//
// Concurrent writers are not coordinated: two simultaneous mutations of
// the same collection can lose one of the writes. The catalog is built for
// a single-admin deployment where that trade is acceptable.
type Service interface {
	// GetAll returns every document of the kind in stored (creation) order.
	GetAll(ctx context.Context, kind Kind) ([]Document, error)

	// GetByIDOrSlug returns the first document whose id or slug equals
	// identifier. Stored documents are returned as-is, with no
	// re-normalization.
	GetByIDOrSlug(ctx context.Context, kind Kind, identifier string) (Document, error)

	// Create normalizes the field bag into a full document, assigns its id
	// and slug, and appends it to the collection. The returned document is
	// the persisted one.
	Create(ctx context.Context, kind Kind, fields map[string]interface{}) (Document, error)

	// Update merges the normalized patch over the matched document. Fields
	// absent from the bag are untouched; id and slug never change.
	Update(ctx context.Context, kind Kind, identifier string, fields map[string]interface{}) (Document, error)

	// Delete removes the matched document and returns it, so callers can
	// reconcile anything referenced by the document (uploaded images in
	// particular) after the fact.
	Delete(ctx context.Context, kind Kind, identifier string) (Document, error)
}
