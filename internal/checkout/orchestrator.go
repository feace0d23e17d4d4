package checkout

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/eshoplabs/eshop/internal/cart"
	"github.com/eshoplabs/eshop/internal/catalog"
	kafkax "github.com/eshoplabs/eshop/internal/kafka"
	"github.com/eshoplabs/eshop/internal/orders"
)

var (
	ErrEmptyCart = errors.New("checkout: cart is empty")

	// ErrNotificationFailed means the order was persisted and the cart
	// cleared, but the confirmation mail did not go out. Never swallowed.
	ErrNotificationFailed = errors.New("checkout: confirmation mail failed")
)

type OrderStore interface {
	FindPendingByClient(ctx context.Context, clientID string) (orders.Order, error)
	Create(ctx context.Context, clientID string) (orders.Order, error)
	ReplaceItemsTx(ctx context.Context, orderID string, items []orders.ItemInput) error
}

type Catalog interface {
	FindByName(ctx context.Context, name string) (catalog.Product, error)
}

type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

type Result struct {
	OrderID    string
	TotalCents int
}

type Orchestrator struct {
	Carts    cart.Store
	Catalog  Catalog
	Orders   OrderStore
	Mailer   Mailer
	Producer Publisher
	Service  string
}

// Run converts the session cart into the client's Pending order. The
// order's line items are replaced wholesale, so re-running checkout is a
// reset, not an append. On success the cart is cleared, a confirmation
// mail is sent to the client and an OrderCheckedOut event is published.
func (o *Orchestrator) Run(ctx context.Context, clientID, clientEmail, sessionID string) (Result, error) {
	c, err := o.Carts.Get(ctx, sessionID)
	if err != nil {
		return Result{}, err
	}
	if len(c) == 0 {
		return Result{}, ErrEmptyCart
	}

	order, err := o.Orders.FindPendingByClient(ctx, clientID)
	if errors.Is(err, orders.ErrNotFound) {
		order, err = o.Orders.Create(ctx, clientID)
	}
	if err != nil {
		return Result{}, fmt.Errorf("resolve pending order: %w", err)
	}

	// Lines are resolved back to products by name, as the storefront has
	// always done. Ambiguous under duplicate product names.
	items := make([]orders.ItemInput, 0, len(c))
	for _, id := range sortedIDs(c) {
		line := c[id]
		p, err := o.Catalog.FindByName(ctx, line.Name)
		if err != nil {
			return Result{}, fmt.Errorf("resolve product %q: %w", line.Name, err)
		}
		items = append(items, orders.ItemInput{ProductID: p.ID, Quantity: line.Quantity})
	}

	if err := o.Orders.ReplaceItemsTx(ctx, order.ID, items); err != nil {
		return Result{}, fmt.Errorf("replace order items: %w", err)
	}

	total := c.TotalCents()
	if err := o.Carts.Delete(ctx, sessionID); err != nil {
		return Result{}, fmt.Errorf("clear cart: %w", err)
	}

	o.publish(order, c, total)

	res := Result{OrderID: order.ID, TotalCents: total}
	if err := o.Mailer.Send(ctx, clientEmail, confirmationSubject, confirmationBody); err != nil {
		// Persistence already committed; report, do not roll back.
		return res, fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}
	return res, nil
}

func (o *Orchestrator) publish(order orders.Order, c cart.Cart, total int) {
	if o.Producer == nil {
		return
	}
	items := make([]ItemQty, 0, len(c))
	for _, l := range c {
		items = append(items, ItemQty{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventOrderCheckedOut,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      o.Service,
		CorrelationID: order.ID,
		Payload: kafkax.MustMarshal(OrderCheckedOutPayload{
			OrderID:    order.ID,
			ClientID:   order.ClientID,
			Items:      items,
			TotalCents: total,
		}),
	}
	o.Producer.Publish(PartitionKey(order.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(EventOrderCheckedOut)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

// Map iteration order is random; fix it so item rows come out stable.
func sortedIDs(c cart.Cart) []string {
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
