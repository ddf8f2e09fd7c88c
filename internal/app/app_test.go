package app

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ariefcatur/go-court-reservations/internal/auth"
	"github.com/ariefcatur/go-court-reservations/internal/booking"
	"github.com/ariefcatur/go-court-reservations/internal/config"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestOpenMemoryStore(t *testing.T) {
	auth.Cost = bcrypt.MinCost
	s, release, err := OpenStore(context.Background(), &config.Config{StoreDriver: config.DriverMemory}, discard)
	require.NoError(t, err)
	defer release()

	cs, err := s.ListCourts(context.Background())
	require.NoError(t, err)
	assert.Len(t, cs, 3)
}

func TestDemoDatesFollowClubTimezone(t *testing.T) {
	auth.Cost = bcrypt.MinCost
	for _, tz := range []string{"Pacific/Kiritimati", "Pacific/Pago_Pago"} {
		t.Run(tz, func(t *testing.T) {
			loc, err := time.LoadLocation(tz)
			require.NoError(t, err)
			cfg := &config.Config{StoreDriver: config.DriverMemory, ClubTimezone: tz}

			before := booking.DateOf(time.Now().In(loc))
			s, release, err := OpenStore(context.Background(), cfg, discard)
			require.NoError(t, err)
			defer release()
			after := booking.DateOf(time.Now().In(loc))

			r, err := s.GetReservation(context.Background(), "1")
			require.NoError(t, err)
			assert.True(t, r.Date == before || r.Date == after, "seeded %s, club today %s", r.Date, before)
		})
	}
}

func TestOpenStoreRejectsUnknownTimezone(t *testing.T) {
	_, _, err := OpenStore(context.Background(), &config.Config{StoreDriver: config.DriverMemory, ClubTimezone: "Mars/Olympus"}, discard)
	assert.Error(t, err)
}

func TestOpenCache(t *testing.T) {
	mr := miniredis.RunT(t)
	c, release := OpenCache(context.Background(), &config.Config{RedisAddr: mr.Addr(), ServiceName: "court-api"}, discard)
	defer release()
	require.NotNil(t, c)
	assert.Equal(t, "court-api", c.Service)
}

func TestOpenCacheFallsBack(t *testing.T) {
	c, release := OpenCache(context.Background(), &config.Config{}, discard)
	release()
	assert.Nil(t, c)

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	c, release = OpenCache(context.Background(), &config.Config{RedisAddr: addr}, discard)
	release()
	assert.Nil(t, c)
}
