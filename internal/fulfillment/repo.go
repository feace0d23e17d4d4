package fulfillment

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) Record(ctx context.Context, orderID, clientID string, itemCount int) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO fulfillment_backlog(order_id, client_id, item_count)
		VALUES ($1, $2, $3)
		ON CONFLICT (order_id) DO UPDATE SET item_count = EXCLUDED.item_count`,
		orderID, clientID, itemCount)
	if err != nil {
		return fmt.Errorf("record backlog: %w", err)
	}
	return nil
}
