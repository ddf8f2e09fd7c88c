package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func paddleCourt() Court {
	return Court{ID: "3", Name: "Paddle Court", Type: CourtPaddle, PricePerHourCents: 3000, LightingPerHourCents: 1000, Available: true}
}

func TestQuoteNonMemberWithLighting(t *testing.T) {
	q := QuoteFor(paddleCourt(), MembershipNonMember, ClockAt(18, 0), BookingSlotMinutes)
	assert.Equal(t, int64(4500), q.BasePriceCents)
	assert.Equal(t, int64(1500), q.LightingFeeCents)
	assert.Equal(t, int64(6000), q.TotalPriceCents)
	assert.True(t, q.HasLighting)
	assert.Equal(t, "19:30", q.EndTime.String())
}

func TestQuoteNonMemberDaytime(t *testing.T) {
	q := QuoteFor(paddleCourt(), MembershipNonMember, ClockAt(15, 30), BookingSlotMinutes)
	assert.False(t, q.HasLighting)
	assert.Zero(t, q.LightingFeeCents)
	assert.Equal(t, int64(4500), q.TotalPriceCents)
}

func TestQuoteLightingThreshold(t *testing.T) {
	court := paddleCourt()
	for _, start := range []Clock{ClockAt(17, 0), ClockAt(18, 30)} {
		q := QuoteFor(court, MembershipNonMember, start, BookingSlotMinutes)
		assert.True(t, q.HasLighting, start.String())
		assert.Equal(t, PriceFor(court.LightingPerHourCents, BookingSlotMinutes), q.LightingFeeCents)
	}
	q := QuoteFor(court, MembershipNonMember, ClockAt(16, 59), BookingSlotMinutes)
	assert.False(t, q.HasLighting)
}

func TestQuoteMembersPayNothing(t *testing.T) {
	for _, s := range BookingSlots() {
		q := QuoteFor(paddleCourt(), MembershipMember, s.Start, BookingSlotMinutes)
		assert.Zero(t, q.TotalPriceCents, s.Start.String())
		assert.Zero(t, q.BasePriceCents)
		assert.Zero(t, q.LightingFeeCents)
		assert.Equal(t, NeedsLighting(s.Start), q.HasLighting)
	}
}

func TestPriceForRounding(t *testing.T) {
	assert.Equal(t, int64(38), PriceFor(25, 90)) // 37.5 rounds up
	assert.Equal(t, int64(0), PriceFor(-10, 90))
	assert.Equal(t, int64(0), PriceFor(100, 0))
}

func TestQuoteApply(t *testing.T) {
	var r Reservation
	QuoteFor(paddleCourt(), MembershipNonMember, ClockAt(18, 30), BookingSlotMinutes).Apply(&r)
	assert.Equal(t, ClockAt(18, 30), r.StartTime)
	assert.Equal(t, ClockAt(20, 0), r.EndTime)
	assert.Equal(t, r.BasePriceCents+r.LightingFeeCents, r.TotalPriceCents)
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "60.00", FormatCents(6000))
	assert.Equal(t, "0.05", FormatCents(5))
	assert.Equal(t, "-12.50", FormatCents(-1250))
}
