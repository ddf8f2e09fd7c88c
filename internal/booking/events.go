package booking

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	EventReservationCreated       = "ReservationCreated"
	EventReservationCancelled     = "ReservationCancelled"
	EventReservationStatusChanged = "ReservationStatusChanged"
	EventReservationDeleted       = "ReservationDeleted"
	EventCourtChanged             = "CourtChanged"
	EventCourtBlocked             = "CourtBlocked"

	EventVersion = 1
)

// TopicFor maps an event type to the topic it is published on.
var TopicFor = map[string]string{
	EventReservationCreated:       TopicReservationCreated,
	EventReservationCancelled:     TopicReservationCancelled,
	EventReservationStatusChanged: TopicReservationStatusChanged,
	EventReservationDeleted:       TopicReservationDeleted,
	EventCourtChanged:             TopicCourtChanged,
	EventCourtBlocked:             TopicCourtBlocked,
}

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // court_id
	Payload       json.RawMessage `json:"payload"`
}

func NewEnvelope(eventType, producer, traceID, correlationID string, payload any, at time.Time) (Envelope, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  EventVersion,
		OccurredAt:    at.UTC(),
		Producer:      producer,
		TraceID:       traceID,
		CorrelationID: correlationID,
		Payload:       b,
	}, nil
}

// ---- payloads ----

type ReservationPayload struct {
	ReservationID   string `json:"reservation_id"`
	CourtID         string `json:"court_id"`
	UserID          string `json:"user_id"`
	Date            Date   `json:"date"`
	StartTime       Clock  `json:"start_time"`
	EndTime         Clock  `json:"end_time"`
	Status          Status `json:"status"`
	PreviousStatus  Status `json:"previous_status,omitempty"`
	TotalPriceCents int64  `json:"total_price_cents"`
}

func ReservationPayloadOf(r Reservation, previous Status) ReservationPayload {
	return ReservationPayload{
		ReservationID:   r.ID,
		CourtID:         r.CourtID,
		UserID:          r.UserID,
		Date:            r.Date,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		Status:          r.Status,
		PreviousStatus:  previous,
		TotalPriceCents: r.TotalPriceCents,
	}
}

type CourtChangedPayload struct {
	CourtID   string `json:"court_id"`
	Action    string `json:"action"` // created | updated | deleted
	Available bool   `json:"available"`
}

type CourtBlockedPayload struct {
	BlockID   string `json:"block_id"`
	CourtID   string `json:"court_id"`
	StartDate Date   `json:"start_date"`
	EndDate   Date   `json:"end_date"`
	Action    string `json:"action"` // created | updated | deleted
}

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)
