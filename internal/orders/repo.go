package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound          = errors.New("orders: not found")
	ErrInvalidTransition = errors.New("orders: invalid status transition")
)

type ItemInput struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type Repo struct{ DB *pgxpool.Pool }

// FindPendingByClient returns the client's open order, if any. At most
// one Pending order per client is kept by checkout's find-before-create.
func (r *Repo) FindPendingByClient(ctx context.Context, clientID string) (Order, error) {
	var o Order
	err := r.DB.QueryRow(ctx, `
		SELECT id, client_id, status, created_at FROM orders
		WHERE client_id=$1 AND status=$2
		ORDER BY created_at LIMIT 1`, clientID, StatusPending).
		Scan(&o.ID, &o.ClientID, &o.Status, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	return o, err
}

func (r *Repo) Create(ctx context.Context, clientID string) (Order, error) {
	o := Order{ID: uuid.NewString(), ClientID: clientID, Status: StatusPending}
	err := r.DB.QueryRow(ctx, `
		INSERT INTO orders(id, client_id, status) VALUES ($1, $2, $3)
		RETURNING created_at`, o.ID, o.ClientID, o.Status).Scan(&o.CreatedAt)
	if err != nil {
		return Order{}, fmt.Errorf("insert order: %w", err)
	}
	return o, nil
}

func (r *Repo) Get(ctx context.Context, orderID string) (Order, error) {
	var o Order
	err := r.DB.QueryRow(ctx, `SELECT id, client_id, status, created_at
	                           FROM orders WHERE id=$1`, orderID).
		Scan(&o.ID, &o.ClientID, &o.Status, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	return o, err
}

// ReplaceItemsTx wipes the order's current items and inserts the new set
// in a single transaction, so a crash cannot leave a half-replaced order.
func (r *Repo) ReplaceItemsTx(ctx context.Context, orderID string, items []ItemInput) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id=$1`, orderID); err != nil {
		return fmt.Errorf("delete order items: %w", err)
	}
	for _, it := range items {
		if it.Quantity <= 0 {
			return fmt.Errorf("invalid quantity for product %s", it.ProductID)
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items(id, order_id, product_id, quantity)
			VALUES ($1, $2, $3, $4)`,
			uuid.NewString(), orderID, it.ProductID, it.Quantity); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func (r *Repo) ListItems(ctx context.Context, orderID string) ([]Item, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, order_id, product_id, quantity
	                              FROM order_items WHERE order_id=$1`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// UpdateStatus advances the order through the lifecycle table; anything
// else is rejected with ErrInvalidTransition.
func (r *Repo) UpdateStatus(ctx context.Context, orderID string, to Status) error {
	o, err := r.Get(ctx, orderID)
	if err != nil {
		return err
	}
	if !CanTransition(o.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, to)
	}
	ct, err := r.DB.Exec(ctx, `UPDATE orders SET status=$2 WHERE id=$1 AND status=$3`,
		orderID, to, o.Status)
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return ErrInvalidTransition
	}
	return nil
}
