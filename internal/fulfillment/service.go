package fulfillment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/eshoplabs/eshop/internal/checkout"
	kafkax "github.com/eshoplabs/eshop/internal/kafka"
	"github.com/eshoplabs/eshop/internal/redisx"
)

// Backlog records checked-out orders awaiting back-office handling. The
// worker only records; status transitions stay admin-driven.
type Backlog interface {
	Record(ctx context.Context, orderID, clientID string, itemCount int) error
}

type Service struct {
	Backlog     Backlog
	Redis       *redis.Client
	ServiceName string
}

// HandleOrderCheckedOut is the consumer handler for order.checked_out.
func (s *Service) HandleOrderCheckedOut(ctx context.Context, m kafkago.Message) error {
	var env checkout.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != checkout.EventOrderCheckedOut {
		return nil
	}

	// dedup by event id; redelivery must not double-record
	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	exists, _ := redisx.Exists(ctx, s.Redis, dkey)
	if exists {
		return nil
	}

	p, err := kafkax.UnwrapPayload[checkout.OrderCheckedOutPayload](env.Payload)
	if err != nil {
		return err
	}
	if err := s.Backlog.Record(ctx, p.OrderID, p.ClientID, len(p.Items)); err != nil {
		return err
	}

	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()
	return nil
}
