package seed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ariefcatur/go-court-reservations/internal/auth"
	"github.com/ariefcatur/go-court-reservations/internal/booking"
)

func TestDemo(t *testing.T) {
	auth.Cost = bcrypt.MinCost
	now := time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)

	ds, err := Demo(now)
	require.NoError(t, err)
	assert.Len(t, ds.Courts, 3)
	assert.Len(t, ds.Users, 3)
	assert.Len(t, ds.Reservations, 5)
	assert.Len(t, ds.Blocks, 2)
	assert.Len(t, ds.News, 5)

	for _, b := range ds.Blocks {
		assert.NoError(t, booking.ValidateBlock(b))
	}
	for _, c := range ds.Courts {
		assert.NoError(t, booking.ValidateCourt(c))
	}

	guest := ds.Reservations[3]
	assert.Equal(t, booking.ClockAt(19, 30), guest.EndTime)
	assert.Equal(t, int64(4500), guest.BasePriceCents)
	assert.Equal(t, int64(1500), guest.LightingFeeCents)
	assert.Equal(t, int64(6000), guest.TotalPriceCents)
	assert.True(t, guest.HasLighting)

	assert.Equal(t, int64(0), ds.Reservations[0].TotalPriceCents, "members play for free")
	assert.Equal(t, int64(3000), ds.Reservations[4].TotalPriceCents)

	ok, err := auth.CheckPassword(AdminPassword, ds.Users[1].PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}
