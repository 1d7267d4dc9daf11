package admin

import (
	"time"

	"github.com/webdevsint/coffee-lab-api/pkg/catalog"
)

// KindStats summarizes one collection.
type KindStats struct {
	Count int `json:"count"`
	// Newest is the creation time of the most recent document, taken
	// from its createdAt or date field. Zero when no document carries
	// a parseable timestamp.
	Newest time.Time `json:"newest,omitempty"`
}

// Stats aggregates collection statistics for the whole catalog.
type Stats struct {
	TotalCount int                        `json:"totalCount"`
	ByKind     map[catalog.Kind]KindStats `json:"byKind"`
	ComputedAt time.Time                  `json:"computedAt"`
}
