package postgres

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ariefcatur/go-court-reservations/internal/auth"
	"github.com/ariefcatur/go-court-reservations/internal/booking"
	"github.com/ariefcatur/go-court-reservations/internal/seed"
)

// newStore needs a disposable database in TEST_POSTGRES_DSN; every table is
// truncated before the test runs.
func newStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	pool, err := Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, Migrate(ctx, pool))
	_, err = pool.Exec(ctx, `TRUNCATE courts, users, reservations, court_blocks, news`)
	require.NoError(t, err)

	auth.Cost = bcrypt.MinCost
	ds, err := seed.Demo(time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	s := New(pool)
	require.NoError(t, Seed(ctx, s, ds))
	require.NoError(t, Seed(ctx, s, ds), "seeding twice is a no-op")
	return s
}

func TestSeededData(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	cs, err := s.ListCourts(ctx)
	require.NoError(t, err)
	assert.Len(t, cs, 3)

	u, err := s.GetUserByEmail(ctx, "  ADMIN@reservas.com")
	require.NoError(t, err)
	assert.Equal(t, booking.RoleAdmin, u.Role)

	rs, err := s.ListReservations(ctx, booking.ReservationQuery{UserID: "3"})
	require.NoError(t, err)
	assert.Len(t, rs, 2)

	bs, err := s.ListBlocks(ctx, "2")
	require.NoError(t, err)
	require.Len(t, bs, 1)
	assert.True(t, bs[0].StartTime.Valid)
	assert.Equal(t, booking.ClockAt(22, 0), bs[0].StartTime.Clock)

	n, err := s.GetNews(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-20", n.PublishDate.String())

	_, err = s.GetCourt(ctx, "nope")
	assert.ErrorIs(t, err, booking.ErrNotFound)
}

func TestEmailUnique(t *testing.T) {
	s := newStore(t)
	err := s.CreateUser(context.Background(), &booking.User{
		Name: "Dup", Email: "Maria@Example.com", PasswordHash: "x",
		Role: booking.RoleUser, Membership: booking.MembershipNonMember,
	})
	assert.ErrorIs(t, err, booking.ErrEmailTaken)
}

func TestConcurrentBookingsOneWins(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	d := booking.NewDate(2026, 3, 20)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, lost int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := &booking.Reservation{
				CourtID: "1", UserID: "1", Date: d,
				StartTime: booking.ClockAt(12, 30), EndTime: booking.ClockAt(14, 0), Status: booking.StatusConfirmed,
			}
			err := s.CreateReservation(ctx, r)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else {
				assert.ErrorIs(t, err, booking.ErrConflict)
				lost++
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, ok)
	assert.Equal(t, 7, lost)
}

func TestReservationUpdateDelete(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	r, err := s.GetReservation(ctx, "1")
	require.NoError(t, err)
	r.Status = booking.StatusCancelled
	require.NoError(t, s.UpdateReservation(ctx, r))

	got, err := s.GetReservation(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, booking.StatusCancelled, got.Status)
	assert.Equal(t, r.StartTime, got.StartTime)

	active, err := s.ListReservations(ctx, booking.ReservationQuery{Statuses: []booking.Status{booking.StatusConfirmed}})
	require.NoError(t, err)
	assert.Len(t, active, 4)

	require.NoError(t, s.DeleteReservation(ctx, "1"))
	assert.ErrorIs(t, s.DeleteReservation(ctx, "1"), booking.ErrNotFound)
}

func TestUpdateReservationStatusChecksCurrent(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpdateReservationStatus(ctx, "2", booking.StatusConfirmed, booking.StatusCompleted))
	err := s.UpdateReservationStatus(ctx, "2", booking.StatusConfirmed, booking.StatusCancelled)
	assert.ErrorIs(t, err, booking.ErrInvalidTransition)

	got, err := s.GetReservation(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, booking.StatusCompleted, got.Status)

	assert.ErrorIs(t, s.UpdateReservationStatus(ctx, "missing", booking.StatusConfirmed, booking.StatusCancelled), booking.ErrNotFound)
}
