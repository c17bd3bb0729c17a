package mirror

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/wmsclient/internal/client/models"
	"github.com/dmitrijs2005/wmsclient/internal/client/repositories/kv"
	"github.com/dmitrijs2005/wmsclient/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestMirror(t *testing.T, opts ...Option) (*Mirror, *kv.MemoryStore) {
	t.Helper()
	store := kv.NewMemoryStore()
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return New(kv.NewAdapter(store, logging.NewNop()), opts...), store
}

func TestMirror_ReadList_EmptyAndCorrupt(t *testing.T) {
	ctx := context.Background()
	m, store := newTestMirror(t)

	assert.Empty(t, m.ReadList(ctx, "product"))

	require.NoError(t, store.Set(ctx, EntitiesKey, "{not json"))
	assert.Empty(t, m.ReadList(ctx, "product"))

	require.NoError(t, store.Set(ctx, EntitiesKey, `{"product": "oops", "supplier": [{"id": "s1"}]}`))
	assert.Empty(t, m.ReadList(ctx, "product"))
	got := m.ReadList(ctx, "supplier")
	require.Len(t, got, 1)
	assert.Equal(t, "s1", got[0].ID())
}

func TestMirror_WriteList_NormalizesEntity(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestMirror(t)

	m.WriteList(ctx, "  Product ", []models.Record{{"id": "1"}, {"id": "2"}})

	got := m.ReadList(ctx, "product")
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID())
	assert.Equal(t, "2", got[1].ID())
	assert.ElementsMatch(t, []string{"product"}, m.Entities(ctx))
}

func TestMirror_WriteList_KeepsOtherEntities(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestMirror(t)

	m.WriteList(ctx, "product", []models.Record{{"id": "p1"}})
	m.WriteList(ctx, "supplier", []models.Record{{"id": "s1"}})

	assert.Len(t, m.ReadList(ctx, "product"), 1)
	assert.Len(t, m.ReadList(ctx, "supplier"), 1)
}

func TestMirror_Upsert_NewRecordGetsTempIDAndDates(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestMirror(t)

	rec := m.Upsert(ctx, "product", models.Record{"name": "Widget"})

	assert.True(t, models.IsTempID(rec.ID()))
	assert.Equal(t, "2024-03-01T12:00:00.000Z", rec[models.FieldCreatedDate])
	assert.Equal(t, "2024-03-01T12:00:00.000Z", rec[models.FieldUpdatedDate])

	got, ok := m.Lookup(ctx, "product", rec.ID())
	require.True(t, ok)
	assert.Equal(t, "Widget", got["name"])
}

func TestMirror_Upsert_MergesExisting(t *testing.T) {
	ctx := context.Background()
	now := fixedNow
	m, _ := newTestMirror(t, WithClock(func() time.Time { return now }))

	m.WriteList(ctx, "product", []models.Record{
		{"id": float64(7), "name": "Old", "sku": "A-1", "created_date": "2020-01-01T00:00:00.000Z"},
		{"id": "8", "name": "Other"},
	})

	now = fixedNow.Add(time.Hour)
	rec := m.Upsert(ctx, "product", models.Record{"id": "7", "name": "New", "created_date": "2030-01-01T00:00:00.000Z"})

	assert.Equal(t, float64(7), rec["id"], "existing id representation is kept")
	assert.Equal(t, "New", rec["name"])
	assert.Equal(t, "A-1", rec["sku"])
	assert.Equal(t, "2020-01-01T00:00:00.000Z", rec[models.FieldCreatedDate])
	assert.Equal(t, "2024-03-01T13:00:00.000Z", rec[models.FieldUpdatedDate])

	list := m.ReadList(ctx, "product")
	require.Len(t, list, 2)
	assert.Equal(t, "7", list[0].ID(), "updated in place")
	assert.Equal(t, "8", list[1].ID())
}

func TestMirror_Upsert_IdsStayUnique(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestMirror(t)

	for i := 0; i < 3; i++ {
		m.Upsert(ctx, "product", models.Record{"id": 42, "n": i})
	}
	m.Upsert(ctx, "product", models.Record{"id": "42", "n": 3})

	list := m.ReadList(ctx, "product")
	require.Len(t, list, 1)
	assert.Equal(t, float64(3), list[0]["n"])
}

func TestMirror_Remove(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestMirror(t)

	m.WriteList(ctx, "product", []models.Record{{"id": "1"}, {"id": float64(2)}, {"id": "3"}})
	m.Remove(ctx, "product", "2")
	m.Remove(ctx, "product", "missing")

	list := m.ReadList(ctx, "product")
	require.Len(t, list, 2)
	assert.Equal(t, "1", list[0].ID())
	assert.Equal(t, "3", list[1].ID())

	_, ok := m.Lookup(ctx, "product", "2")
	assert.False(t, ok)
}

func TestMirror_ReadList_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestMirror(t)

	m.WriteList(ctx, "product", []models.Record{{"id": "1", "tags": []any{"a"}}})

	list := m.ReadList(ctx, "product")
	list[0]["name"] = "mutated"
	list[0]["tags"].([]any)[0] = "z"

	again := m.ReadList(ctx, "product")
	assert.NotContains(t, again[0], "name")
	assert.Equal(t, []any{"a"}, again[0]["tags"])
}

func TestMirror_Limit_DropsOldest(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestMirror(t, WithLimit(2))

	m.Upsert(ctx, "product", models.Record{"id": "1"})
	m.Upsert(ctx, "product", models.Record{"id": "2"})
	m.Upsert(ctx, "product", models.Record{"id": "3"})

	list := m.ReadList(ctx, "product")
	require.Len(t, list, 2)
	assert.Equal(t, "2", list[0].ID())
	assert.Equal(t, "3", list[1].ID())
}

func TestMirror_NoStore(t *testing.T) {
	ctx := context.Background()
	m := New(kv.NewAdapter(nil, nil))

	rec := m.Upsert(ctx, "product", models.Record{"name": "x"})
	assert.NotEmpty(t, rec.ID())
	assert.Empty(t, m.ReadList(ctx, "product"))
	_, ok := m.Lookup(ctx, "product", rec.ID())
	assert.False(t, ok)
}

func TestMirror_ConcurrentUpserts(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestMirror(t)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m.Upsert(ctx, "product", models.Record{"id": fmt.Sprintf("p%d", i)})
		}(i)
	}
	wg.Wait()

	assert.Len(t, m.ReadList(ctx, "product"), n)
}
