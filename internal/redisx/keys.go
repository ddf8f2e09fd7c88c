package redisx

import "time"

const (
	// Idempotent booking: idem:reservation:{user_id}:{idempotency_key} -> reservation_id
	KeyIdemReservation = "idem:reservation:%s:%s"

	// Availability cache: avail:{court_id}:{date} -> CourtAvailability JSON
	KeyAvailability = "avail:%s:%s"

	// Placeholder held by the booking attempt that claimed the key
	idemPending = "pending"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLIdempotency  = 24 * time.Hour
	TTLIdemPending  = 30 * time.Second
	TTLAvailability = 5 * time.Minute
	TTLDedup        = 48 * time.Hour
)
