package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/webdevsint/coffee-lab-api/pkg/catalog"
)

// service implements the Service interface
type service struct {
	store catalog.CollectionStore
}

// Ensure service implements Service
var _ Service = (*service)(nil)

// docTimeLayouts are the timestamp formats documents carry: orders use
// a millisecond RFC 3339 createdAt, blogs a day/month/year date.
var docTimeLayouts = []string{
	"2006-01-02T15:04:05.000Z07:00",
	time.RFC3339,
	"02/01/2006",
}

// Counts returns the number of documents in every collection
func (s *service) Counts(ctx context.Context) (map[catalog.Kind]int, error) {
	counts := make(map[catalog.Kind]int, len(catalog.Kinds()))
	for _, kind := range catalog.Kinds() {
		docs, err := s.store.LoadAll(ctx, kind)
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", kind, err)
		}
		counts[kind] = len(docs)
	}
	return counts, nil
}

// Stats returns aggregated statistics about the catalog collections
func (s *service) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		ByKind:     make(map[catalog.Kind]KindStats, len(catalog.Kinds())),
		ComputedAt: time.Now(),
	}

	for _, kind := range catalog.Kinds() {
		docs, err := s.store.LoadAll(ctx, kind)
		if err != nil {
			return nil, fmt.Errorf("stats for %s: %w", kind, err)
		}

		ks := KindStats{Count: len(docs)}
		for _, doc := range docs {
			if ts, ok := docTimestamp(doc); ok && ts.After(ks.Newest) {
				ks.Newest = ts
			}
		}

		stats.ByKind[kind] = ks
		stats.TotalCount += len(docs)
	}

	return stats, nil
}

// docTimestamp extracts a document's creation time from its createdAt
// or date field.
func docTimestamp(doc catalog.Document) (time.Time, bool) {
	for _, field := range []string{"createdAt", "date"} {
		raw, ok := doc[field].(string)
		if !ok || raw == "" {
			continue
		}
		for _, layout := range docTimeLayouts {
			if ts, err := time.Parse(layout, raw); err == nil {
				return ts, true
			}
		}
	}
	return time.Time{}, false
}
