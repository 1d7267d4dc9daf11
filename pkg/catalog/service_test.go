package catalog_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webdevsint/coffee-lab-api/pkg/catalog"
	"github.com/webdevsint/coffee-lab-api/pkg/catalog/repo/memory"
)

var fixedNow = time.Date(2026, time.March, 7, 10, 30, 0, 0, time.UTC)

func newTestService(t *testing.T) catalog.Service {
	t.Helper()
	svc, err := catalog.New(
		catalog.WithStore(memory.New()),
		catalog.WithClock(func() time.Time { return fixedNow }),
	)
	require.NoError(t, err)
	return svc
}

func TestServiceCreation(t *testing.T) {
	t.Run("requires a collection store", func(t *testing.T) {
		svc, err := catalog.New()
		require.Error(t, err)
		assert.Nil(t, svc)
	})

	t.Run("with store", func(t *testing.T) {
		svc, err := catalog.New(catalog.WithStore(memory.New()))
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})
}

func TestCreateAndLookup(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	created, err := svc.Create(ctx, catalog.KindBeans, map[string]interface{}{
		"name":        "Ethiopia Yirgacheffe",
		"description": "washed, floral",
	})
	require.NoError(t, err)
	require.Len(t, created.ID(), 8)
	assert.Equal(t, "ethiopia-yirgacheffe", created.Slug())

	t.Run("by id", func(t *testing.T) {
		got, err := svc.GetByIDOrSlug(ctx, catalog.KindBeans, created.ID())
		require.NoError(t, err)
		assert.Equal(t, created, got)
	})

	t.Run("by slug", func(t *testing.T) {
		got, err := svc.GetByIDOrSlug(ctx, catalog.KindBeans, "ethiopia-yirgacheffe")
		require.NoError(t, err)
		assert.Equal(t, created, got)
	})

	t.Run("unknown identifier", func(t *testing.T) {
		_, err := svc.GetByIDOrSlug(ctx, catalog.KindBeans, "no-such-bean")
		assert.ErrorIs(t, err, catalog.ErrNotFound)
	})
}

func TestCreateAssignsIdentityOverInput(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	created, err := svc.Create(ctx, catalog.KindBeans, map[string]interface{}{
		"id":   "forged01",
		"slug": "forged-slug",
		"name": "Kenya AA",
	})
	require.NoError(t, err)
	assert.NotEqual(t, "forged01", created.ID())
	assert.Equal(t, "kenya-aa", created.Slug())
}

func TestSlugFallsBackToItem(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	created, err := svc.Create(ctx, catalog.KindBeans, map[string]interface{}{
		"description": "nameless",
	})
	require.NoError(t, err)
	assert.Equal(t, "item", created.Slug())
}

func TestVariantPriceSync(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	created, err := svc.Create(ctx, catalog.KindBeans, map[string]interface{}{
		"name": "Colombia Supremo",
		"variants": []map[string]interface{}{
			{"size": "250g", "price": 500},
			{"size": "500g", "price": 900},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, float64(500), created["price"])

	updated, err := svc.Update(ctx, catalog.KindBeans, created.ID(), map[string]interface{}{
		"variants": []map[string]interface{}{
			{"size": "1kg", "price": 1700},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, float64(1700), updated["price"])
}

func TestUpdateKeepsIdentityAndUntouchedFields(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	created, err := svc.Create(ctx, catalog.KindBeans, map[string]interface{}{
		"name":        "Ethiopia Yirgacheffe",
		"description": "washed, floral",
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, catalog.KindBeans, created.Slug(), map[string]interface{}{
		"name": "Ethiopia Yirgacheffe Gr. 1",
		"id":   "forged01",
		"slug": "forged-slug",
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID(), updated.ID())
	assert.Equal(t, "ethiopia-yirgacheffe", updated.Slug(), "slug never tracks renames")
	assert.Equal(t, "Ethiopia Yirgacheffe Gr. 1", updated["name"])
	assert.Equal(t, "washed, floral", updated["description"])

	got, err := svc.GetByIDOrSlug(ctx, catalog.KindBeans, created.ID())
	require.NoError(t, err)
	assert.Equal(t, updated, got)
}

func TestUpdateUnknownLeavesCollectionUnchanged(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.Create(ctx, catalog.KindBeans, map[string]interface{}{"name": "Kenya AA"})
	require.NoError(t, err)

	before, err := svc.GetAll(ctx, catalog.KindBeans)
	require.NoError(t, err)

	_, err = svc.Update(ctx, catalog.KindBeans, "missing1", map[string]interface{}{"name": "x"})
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	after, err := svc.GetAll(ctx, catalog.KindBeans)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestDeleteReturnsRemovedDocument(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	created, err := svc.Create(ctx, catalog.KindBeans, map[string]interface{}{"name": "Kenya AA"})
	require.NoError(t, err)

	removed, err := svc.Delete(ctx, catalog.KindBeans, created.ID())
	require.NoError(t, err)
	assert.Equal(t, created, removed)

	_, err = svc.GetByIDOrSlug(ctx, catalog.KindBeans, created.ID())
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	_, err = svc.Delete(ctx, catalog.KindBeans, created.ID())
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestGetAllIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	for _, name := range []string{"Kenya AA", "Colombia Supremo", "Brazil Santos"} {
		_, err := svc.Create(ctx, catalog.KindBeans, map[string]interface{}{"name": name})
		require.NoError(t, err)
	}

	first, err := svc.GetAll(ctx, catalog.KindBeans)
	require.NoError(t, err)
	second, err := svc.GetAll(ctx, catalog.KindBeans)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, first, 3)
}

func TestCreateMalformedVariantsPersistsNothing(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.Create(ctx, catalog.KindBeans, map[string]interface{}{
		"name":     "Broken",
		"variants": "{not json",
	})
	var inputErr *catalog.InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, "variants", inputErr.Field)

	docs, err := svc.GetAll(ctx, catalog.KindBeans)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestOrders(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	created, err := svc.Create(ctx, catalog.KindOrders, map[string]interface{}{
		"customerName": "Jo",
		"totalAmount":  "42.5",
		"isPaid":       "true",
		"items":        `[{"name":"Kenya AA","qty":2}]`,
		"keywords":     "a,b",
		"images":       []string{"x.jpg"},
		"isFeatured":   true,
		"inStock":      true,
	})
	require.NoError(t, err)

	for _, name := range []string{"slug", "keywords", "images", "isFeatured", "inStock"} {
		assert.NotContains(t, created, name)
	}
	assert.Equal(t, 42.5, created["totalAmount"])
	assert.Equal(t, true, created["isPaid"])
	assert.Equal(t, "Pending", created["status"])
	assert.Equal(t, "2026-03-07T10:30:00.000Z", created["createdAt"])

	items, ok := created["items"].([]interface{})
	require.True(t, ok)
	require.Len(t, items, 1)

	// Orders have no slug, so lookup works by id only.
	got, err := svc.GetByIDOrSlug(ctx, catalog.KindOrders, created.ID())
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestCoupons(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	created, err := svc.Create(ctx, catalog.KindCoupons, map[string]interface{}{
		"name":        "Spring Sale",
		"code":        "save20",
		"value":       "20",
		"maxUses":     "3",
		"maxDiscount": "150",
		"isActive":    "true",
		"currentUses": 50,
	})
	require.NoError(t, err)

	assert.Equal(t, "SAVE20", created["code"])
	assert.Equal(t, "percentage", created["type"])
	assert.Equal(t, float64(0), created["currentUses"])
	assert.Equal(t, float64(20), created["value"])
	assert.Equal(t, float64(3), created["maxUses"])
	assert.Equal(t, float64(150), created["maxDiscount"])
	assert.Equal(t, true, created["isActive"])
	assert.Equal(t, "spring-sale", created.Slug())

	updated, err := svc.Update(ctx, catalog.KindCoupons, created.ID(), map[string]interface{}{
		"code": "extra10",
	})
	require.NoError(t, err)
	assert.Equal(t, "EXTRA10", updated["code"])
}

func TestBlogs(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	content := strings.TrimSpace(strings.Repeat("word ", 400))
	created, err := svc.Create(ctx, catalog.KindBlogs, map[string]interface{}{
		"title":   "Brewing Basics",
		"content": content,
		"keyword": "espresso",
	})
	require.NoError(t, err)

	assert.Equal(t, "brewing-basics", created.Slug())
	assert.Equal(t, "07/03/2026", created["date"])
	assert.Equal(t, "2 min read", created["readTime"])
	assert.Equal(t, "espresso", created["category"])
	assert.Equal(t, "", created["excerpt"])

	t.Run("empty content reads zero minutes", func(t *testing.T) {
		short, err := svc.Create(ctx, catalog.KindBlogs, map[string]interface{}{
			"title": "Placeholder",
		})
		require.NoError(t, err)
		assert.Equal(t, "0 min read", short["readTime"])
	})

	t.Run("update recomputes read time only with new content", func(t *testing.T) {
		updated, err := svc.Update(ctx, catalog.KindBlogs, created.ID(), map[string]interface{}{
			"title": "Brewing Basics, Revisited",
		})
		require.NoError(t, err)
		assert.Equal(t, "2 min read", updated["readTime"])

		updated, err = svc.Update(ctx, catalog.KindBlogs, created.ID(), map[string]interface{}{
			"content": "short now",
		})
		require.NoError(t, err)
		assert.Equal(t, "1 min read", updated["readTime"])
	})
}

func TestLookupReturnsFirstMatchInStoredOrder(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	first, err := svc.Create(ctx, catalog.KindBeans, map[string]interface{}{"name": "Same Name", "batch": "one"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, catalog.KindBeans, map[string]interface{}{"name": "Same Name", "batch": "two"})
	require.NoError(t, err)
	require.Equal(t, first.Slug(), second.Slug(), "slug collisions are allowed")

	got, err := svc.GetByIDOrSlug(ctx, catalog.KindBeans, first.Slug())
	require.NoError(t, err)
	assert.Equal(t, "one", got["batch"])
}

func TestUnknownKindRejected(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := catalog.ParseKind("widgets")
	assert.ErrorIs(t, err, catalog.ErrUnknownKind)

	_, err = svc.GetAll(ctx, catalog.Kind("widgets"))
	assert.ErrorIs(t, err, catalog.ErrUnknownKind)

	_, err = svc.Create(ctx, catalog.Kind("widgets"), map[string]interface{}{"name": "x"})
	assert.ErrorIs(t, err, catalog.ErrUnknownKind)

	_, err = svc.Delete(ctx, catalog.Kind("widgets"), "abc")
	assert.ErrorIs(t, err, catalog.ErrUnknownKind)
}

func TestDocumentErrorCarriesContext(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.GetByIDOrSlug(ctx, catalog.KindBeans, "missing1")
	var docErr *catalog.DocumentError
	require.True(t, errors.As(err, &docErr))
	assert.Equal(t, catalog.KindBeans, docErr.Kind)
	assert.Equal(t, "missing1", docErr.Identifier)
	assert.Equal(t, "get", docErr.Op)
}

func TestEventSinkFailureDoesNotFailOperations(t *testing.T) {
	ctx := context.Background()
	svc, err := catalog.New(
		catalog.WithStore(memory.New()),
		catalog.WithEventSink(failingSink{}),
	)
	require.NoError(t, err)

	created, err := svc.Create(ctx, catalog.KindBeans, map[string]interface{}{"name": "Kenya AA"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, catalog.KindBeans, created.ID(), map[string]interface{}{"inStock": true})
	require.NoError(t, err)

	_, err = svc.Delete(ctx, catalog.KindBeans, created.ID())
	require.NoError(t, err)
}

type failingSink struct{}

func (failingSink) DocumentCreated(context.Context, catalog.Kind, catalog.Document) error {
	return errors.New("sink down")
}

func (failingSink) DocumentUpdated(context.Context, catalog.Kind, catalog.Document) error {
	return errors.New("sink down")
}

func (failingSink) DocumentDeleted(context.Context, catalog.Kind, catalog.Document) error {
	return errors.New("sink down")
}
