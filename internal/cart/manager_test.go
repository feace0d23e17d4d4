package cart

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshoplabs/eshop/internal/catalog"
)

type memStore struct {
	m     sync.Mutex
	carts map[string]Cart
	saves int
}

func newMemStore() *memStore {
	return &memStore{carts: map[string]Cart{}}
}

func (s *memStore) Get(_ context.Context, sessionID string) (Cart, error) {
	s.m.Lock()
	defer s.m.Unlock()
	c := Cart{}
	for k, v := range s.carts[sessionID] {
		c[k] = v
	}
	return c, nil
}

func (s *memStore) Save(_ context.Context, sessionID string, c Cart) error {
	s.m.Lock()
	defer s.m.Unlock()
	s.carts[sessionID] = c
	s.saves++
	return nil
}

func (s *memStore) Delete(_ context.Context, sessionID string) error {
	s.m.Lock()
	defer s.m.Unlock()
	delete(s.carts, sessionID)
	return nil
}

type fakeCatalog struct {
	products map[string]catalog.Product
}

func (f *fakeCatalog) FindByID(_ context.Context, id string) (catalog.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return catalog.Product{}, catalog.ErrNotFound
	}
	return p, nil
}

func newManager(products ...catalog.Product) (*Manager, *memStore) {
	byID := map[string]catalog.Product{}
	for _, p := range products {
		byID[p.ID] = p
	}
	store := newMemStore()
	return &Manager{Store: store, Catalog: &fakeCatalog{products: byID}}, store
}

func TestAddUnknownProduct(t *testing.T) {
	m, _ := newManager()
	_, err := m.Add(context.Background(), "s1", "nope")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestAddOutOfStockLeavesCartUnchanged(t *testing.T) {
	m, store := newManager(catalog.Product{ID: "p1", Name: "Lamp", PriceCents: 1000, Stock: 0})

	outcome, err := m.Add(context.Background(), "s1", "p1")
	require.NoError(t, err)
	assert.Equal(t, OutOfStock, outcome)

	c, _ := store.Get(context.Background(), "s1")
	assert.Empty(t, c)
	assert.Zero(t, store.saves)
}

func TestAddSnapshotsProductAndIncrementsByOne(t *testing.T) {
	m, _ := newManager(catalog.Product{
		ID: "p1", Name: "Lamp", PriceCents: 1000, Stock: 3, ImageURL: "/img/lamp.png",
	})
	ctx := context.Background()

	outcome, err := m.Add(ctx, "s1", "p1")
	require.NoError(t, err)
	assert.Equal(t, Added, outcome)

	c, total, err := m.View(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, c, 1)
	line := c["p1"]
	assert.Equal(t, "Lamp", line.Name)
	assert.Equal(t, 1000, line.PriceCents)
	assert.Equal(t, 1, line.Quantity)
	assert.Equal(t, "/img/lamp.png", line.ImageURL)
	assert.Equal(t, 1000, total)

	outcome, err = m.Add(ctx, "s1", "p1")
	require.NoError(t, err)
	assert.Equal(t, Added, outcome)

	c, total, _ = m.View(ctx, "s1")
	assert.Equal(t, 2, c["p1"].Quantity)
	assert.Equal(t, 2000, total)
}

func TestAddStopsAtStockLimit(t *testing.T) {
	m, _ := newManager(catalog.Product{ID: "p1", Name: "Lamp", PriceCents: 1000, Stock: 1})
	ctx := context.Background()

	outcome, err := m.Add(ctx, "s1", "p1")
	require.NoError(t, err)
	assert.Equal(t, Added, outcome)

	outcome, err = m.Add(ctx, "s1", "p1")
	require.NoError(t, err)
	assert.Equal(t, StockLimitReached, outcome)

	c, _, _ := m.View(ctx, "s1")
	assert.Equal(t, 1, c["p1"].Quantity)
}

func TestRemoveMissingLine(t *testing.T) {
	m, store := newManager(catalog.Product{ID: "p1", Name: "Lamp", PriceCents: 1000, Stock: 5})
	ctx := context.Background()

	_, err := m.Add(ctx, "s1", "p1")
	require.NoError(t, err)

	_, err = m.Remove(ctx, "s1", "other")
	assert.ErrorIs(t, err, ErrLineNotFound)

	c, _ := store.Get(ctx, "s1")
	assert.Len(t, c, 1)
}

func TestRemoveDeletesWholeLine(t *testing.T) {
	m, _ := newManager(catalog.Product{ID: "p1", Name: "Lamp", PriceCents: 1000, Stock: 5})
	ctx := context.Background()

	_, err := m.Add(ctx, "s1", "p1")
	require.NoError(t, err)
	_, err = m.Add(ctx, "s1", "p1")
	require.NoError(t, err)

	outcome, err := m.Remove(ctx, "s1", "p1")
	require.NoError(t, err)
	assert.Equal(t, Removed, outcome)

	c, total, _ := m.View(ctx, "s1")
	assert.Empty(t, c)
	assert.Zero(t, total)
}

func TestViewIsIdempotent(t *testing.T) {
	m, _ := newManager(
		catalog.Product{ID: "a", Name: "A", PriceCents: 1000, Stock: 5},
		catalog.Product{ID: "b", Name: "B", PriceCents: 500, Stock: 5},
	)
	ctx := context.Background()

	// a: qty 2 @ $10, b: qty 1 @ $5 -> $25
	for _, id := range []string{"a", "a", "b"} {
		_, err := m.Add(ctx, "s1", id)
		require.NoError(t, err)
	}

	c1, t1, err := m.View(ctx, "s1")
	require.NoError(t, err)
	c2, t2, err := m.View(ctx, "s1")
	require.NoError(t, err)

	assert.Equal(t, c1, c2)
	assert.Equal(t, t1, t2)
	assert.Equal(t, 2500, t1)
}

func TestViewEmptyCart(t *testing.T) {
	m, _ := newManager()
	c, total, err := m.View(context.Background(), "fresh")
	require.NoError(t, err)
	assert.Empty(t, c)
	assert.Zero(t, total)
}

func TestCartsAreSessionScoped(t *testing.T) {
	m, _ := newManager(catalog.Product{ID: "p1", Name: "Lamp", PriceCents: 1000, Stock: 5})
	ctx := context.Background()

	_, err := m.Add(ctx, "s1", "p1")
	require.NoError(t, err)

	c, _, _ := m.View(ctx, "s2")
	assert.Empty(t, c)
}
