package booking

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnvelope(t *testing.T) {
	r := Reservation{ID: "r1", CourtID: "3", UserID: "u1", Date: day, StartTime: ClockAt(18, 30), EndTime: ClockAt(20, 0), Status: StatusCancelled, TotalPriceCents: 6000}
	at := time.Date(2026, 3, 10, 9, 0, 0, 0, time.FixedZone("club", 3600))

	env, err := NewEnvelope(EventReservationCancelled, "court-api", "trace", r.CourtID, ReservationPayloadOf(r, StatusConfirmed), at)
	require.NoError(t, err)
	assert.NotEmpty(t, env.EventID)
	assert.Equal(t, EventVersion, env.EventVersion)
	assert.Equal(t, time.UTC, env.OccurredAt.Location())
	assert.Equal(t, TopicReservationCancelled, TopicFor[env.EventType])

	var p ReservationPayload
	require.NoError(t, json.Unmarshal(env.Payload, &p))
	assert.Equal(t, "r1", p.ReservationID)
	assert.Equal(t, StatusConfirmed, p.PreviousStatus)
	assert.Equal(t, ClockAt(18, 30), p.StartTime)
	assert.Equal(t, day, p.Date)
}

func TestEveryEventHasATopic(t *testing.T) {
	for _, ev := range []string{
		EventReservationCreated, EventReservationCancelled, EventReservationStatusChanged,
		EventReservationDeleted, EventCourtChanged, EventCourtBlocked,
	} {
		assert.NotEmpty(t, TopicFor[ev], ev)
	}
}
