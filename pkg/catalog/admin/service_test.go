package admin_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webdevsint/coffee-lab-api/pkg/catalog"
	"github.com/webdevsint/coffee-lab-api/pkg/catalog/admin"
	"github.com/webdevsint/coffee-lab-api/pkg/catalog/repo/memory"
)

func seedStore(t *testing.T) catalog.CollectionStore {
	t.Helper()
	ctx := context.Background()
	store := memory.New()

	require.NoError(t, store.SaveAll(ctx, catalog.KindBeans, []catalog.Document{
		{"id": "aaaa1111", "slug": "kenya-aa", "name": "Kenya AA"},
		{"id": "bbbb2222", "slug": "colombia", "name": "Colombia"},
	}))
	require.NoError(t, store.SaveAll(ctx, catalog.KindOrders, []catalog.Document{
		{"id": "cccc3333", "createdAt": "2026-03-07T10:30:00.000Z"},
		{"id": "dddd4444", "createdAt": "2026-03-09T08:00:00.000Z"},
		{"id": "eeee5555", "createdAt": "garbage"},
	}))
	require.NoError(t, store.SaveAll(ctx, catalog.KindBlogs, []catalog.Document{
		{"id": "ffff6666", "date": "15/02/2026", "title": "Brewing Basics"},
	}))
	return store
}

func TestCounts(t *testing.T) {
	svc := admin.New(seedStore(t))

	counts, err := svc.Counts(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, counts[catalog.KindBeans])
	assert.Equal(t, 3, counts[catalog.KindOrders])
	assert.Equal(t, 1, counts[catalog.KindBlogs])
	assert.Equal(t, 0, counts[catalog.KindSyrups])
	assert.Len(t, counts, len(catalog.Kinds()))
}

func TestStats(t *testing.T) {
	svc := admin.New(seedStore(t))

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 6, stats.TotalCount)
	assert.False(t, stats.ComputedAt.IsZero())

	orders := stats.ByKind[catalog.KindOrders]
	assert.Equal(t, 3, orders.Count)
	assert.Equal(t, time.Date(2026, time.March, 9, 8, 0, 0, 0, time.UTC), orders.Newest.UTC())

	blogs := stats.ByKind[catalog.KindBlogs]
	assert.Equal(t, 1, blogs.Count)
	assert.Equal(t, time.Date(2026, time.February, 15, 0, 0, 0, 0, time.UTC), blogs.Newest.UTC())

	// Beans carry no timestamps, so Newest stays zero.
	beans := stats.ByKind[catalog.KindBeans]
	assert.Equal(t, 2, beans.Count)
	assert.True(t, beans.Newest.IsZero())
}
