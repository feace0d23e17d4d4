package redisx

import "time"

const (
	// Session cart: cart:{session_id} -> JSON map product_id -> line
	KeyCart = "cart:%s"

	// Session -> authenticated user binding: sess:{session_id} -> user_id
	KeySession = "sess:%s"

	// Flash messages drained on next render: flash:{session_id} (list)
	KeyFlash = "flash:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLCart    = 7 * 24 * time.Hour
	TTLSession = 24 * time.Hour
	TTLFlash   = 10 * time.Minute
	TTLDedup   = 48 * time.Hour
)
