package checkout

import (
	"encoding/json"
	"time"
)

const (
	TopicOrderCheckedOut = "order.checked_out"
	EventOrderCheckedOut = "OrderCheckedOut"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

type ItemQty struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type OrderCheckedOutPayload struct {
	OrderID    string    `json:"order_id"`
	ClientID   string    `json:"client_id"`
	Items      []ItemQty `json:"items"`
	TotalCents int       `json:"total_cents"`
}

// PartitionKey keeps all events of one order on one partition.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
