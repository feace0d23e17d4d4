package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/eshoplabs/eshop/internal/catalog"
)

type Outcome string

const (
	Added             Outcome = "added"
	OutOfStock        Outcome = "out_of_stock"
	StockLimitReached Outcome = "stock_limit_reached"
	Removed           Outcome = "removed"
)

var (
	ErrProductNotFound = errors.New("cart: product not found")
	ErrLineNotFound    = errors.New("cart: line not found")
)

// Catalog is the read access the manager needs; the pgx repo satisfies it.
type Catalog interface {
	FindByID(ctx context.Context, id string) (catalog.Product, error)
}

type Manager struct {
	Store   Store
	Catalog Catalog
}

// Add puts one unit of the product into the session cart. The increment
// is always exactly 1; repeat adds bump the existing line until stock is
// exhausted. The cart is written back only on Added.
func (m *Manager) Add(ctx context.Context, sessionID, productID string) (Outcome, error) {
	p, err := m.Catalog.FindByID(ctx, productID)
	if errors.Is(err, catalog.ErrNotFound) {
		return "", ErrProductNotFound
	}
	if err != nil {
		return "", fmt.Errorf("catalog lookup: %w", err)
	}

	c, err := m.Store.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}

	if p.Stock <= 0 {
		return OutOfStock, nil
	}

	line, ok := c[productID]
	switch {
	case ok && line.Quantity >= p.Stock:
		return StockLimitReached, nil
	case ok:
		line.Quantity++
		c[productID] = line
	default:
		c[productID] = Line{
			ProductID:  p.ID,
			Name:       p.Name,
			PriceCents: p.PriceCents,
			Quantity:   1,
			ImageURL:   p.ImageURL,
		}
	}

	if err := m.Store.Save(ctx, sessionID, c); err != nil {
		return "", err
	}
	return Added, nil
}

// Remove drops the product's line entirely, whatever its quantity.
func (m *Manager) Remove(ctx context.Context, sessionID, productID string) (Outcome, error) {
	c, err := m.Store.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if _, ok := c[productID]; !ok {
		return "", ErrLineNotFound
	}
	delete(c, productID)
	if err := m.Store.Save(ctx, sessionID, c); err != nil {
		return "", err
	}
	return Removed, nil
}

// View returns the current lines and total. No side effects.
func (m *Manager) View(ctx context.Context, sessionID string) (Cart, int, error) {
	c, err := m.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, 0, err
	}
	return c, c.TotalCents(), nil
}
