package redisx

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-court-reservations/internal/booking"
)

func newCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := New(mr.Addr())
	t.Cleanup(func() { _ = rdb.Close() })
	return &Cache{RDB: rdb, Service: "court-worker"}, mr
}

func TestAvailabilityRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, mr := newCache(t)
	d := booking.NewDate(2026, 3, 10)

	_, ok := c.GetAvailability(ctx, "1", d)
	assert.False(t, ok)

	a := booking.DayAvailability("1", d, nil, []booking.Reservation{
		{CourtID: "1", Date: d, StartTime: booking.ClockAt(10, 0), EndTime: booking.ClockAt(11, 30), Status: booking.StatusConfirmed},
	})
	require.NoError(t, c.SetAvailability(ctx, a))
	assert.True(t, mr.Exists("avail:1:2026-03-10"))
	assert.Equal(t, TTLAvailability, mr.TTL("avail:1:2026-03-10"))

	got, ok := c.GetAvailability(ctx, "1", d)
	require.True(t, ok)
	assert.Equal(t, a, got)

	require.NoError(t, c.InvalidateAvailability(ctx, "1", d))
	_, ok = c.GetAvailability(ctx, "1", d)
	assert.False(t, ok)
}

func TestInvalidateWholeCourt(t *testing.T) {
	ctx := context.Background()
	c, mr := newCache(t)
	d := booking.NewDate(2026, 3, 10)

	for _, x := range []struct {
		court string
		day   booking.Date
	}{{"1", d}, {"1", d.AddDays(1)}, {"2", d}} {
		require.NoError(t, c.SetAvailability(ctx, booking.CourtAvailability{CourtID: x.court, Date: x.day}))
	}
	require.NoError(t, c.InvalidateAvailability(ctx, "1", booking.Date{}))
	assert.False(t, mr.Exists("avail:1:2026-03-10"))
	assert.False(t, mr.Exists("avail:1:2026-03-11"))
	assert.True(t, mr.Exists("avail:2:2026-03-10"))
}

func TestIdempotentBooking(t *testing.T) {
	ctx := context.Background()
	c, mr := newCache(t)

	claimed, _, err := c.ClaimBooking(ctx, "u1", "k1")
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, id, err := c.ClaimBooking(ctx, "u1", "k1")
	require.NoError(t, err)
	assert.False(t, claimed)
	assert.Empty(t, id, "first attempt still running")

	require.NoError(t, c.RememberBooking(ctx, "u1", "k1", "r9"))
	claimed, id, err = c.ClaimBooking(ctx, "u1", "k1")
	require.NoError(t, err)
	assert.False(t, claimed)
	assert.Equal(t, "r9", id)
	assert.Equal(t, TTLIdempotency, mr.TTL("idem:reservation:u1:k1"))

	claimed, _, err = c.ClaimBooking(ctx, "u2", "k1")
	require.NoError(t, err)
	assert.True(t, claimed, "keys are scoped per user")
}

func TestReleasedClaimCanBeRetaken(t *testing.T) {
	ctx := context.Background()
	c, mr := newCache(t)

	claimed, _, err := c.ClaimBooking(ctx, "u1", "k1")
	require.NoError(t, err)
	require.True(t, claimed)
	assert.Equal(t, TTLIdemPending, mr.TTL("idem:reservation:u1:k1"))

	require.NoError(t, c.ReleaseBooking(ctx, "u1", "k1"))
	claimed, _, err = c.ClaimBooking(ctx, "u1", "k1")
	require.NoError(t, err)
	assert.True(t, claimed)
}

func TestClaimWithoutKeyAlwaysClaims(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t)

	for i := 0; i < 2; i++ {
		claimed, _, err := c.ClaimBooking(ctx, "u1", "")
		require.NoError(t, err)
		assert.True(t, claimed)
	}
}

func TestFirstDelivery(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t)

	first, err := c.FirstDelivery(ctx, "ev1")
	require.NoError(t, err)
	assert.True(t, first)

	again, err := c.FirstDelivery(ctx, "ev1")
	require.NoError(t, err)
	assert.False(t, again)

	require.NoError(t, c.ForgetDelivery(ctx, "ev1"))
	retry, err := c.FirstDelivery(ctx, "ev1")
	require.NoError(t, err)
	assert.True(t, retry)
}

func TestNilCacheIsAMiss(t *testing.T) {
	ctx := context.Background()
	var c *Cache

	_, ok := c.GetAvailability(ctx, "1", booking.NewDate(2026, 1, 1))
	assert.False(t, ok)
	assert.NoError(t, c.SetAvailability(ctx, booking.CourtAvailability{}))
	assert.NoError(t, c.InvalidateAvailability(ctx, "1", booking.Date{}))
	assert.NoError(t, c.RememberBooking(ctx, "u", "k", "r"))
	claimed, _, err := c.ClaimBooking(ctx, "u", "k")
	assert.NoError(t, err)
	assert.True(t, claimed)
	assert.NoError(t, c.ReleaseBooking(ctx, "u", "k"))
	first, err := c.FirstDelivery(ctx, "ev")
	assert.NoError(t, err)
	assert.True(t, first)
}
