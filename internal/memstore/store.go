// Package memstore keeps the club data in process memory. It is the default
// driver and starts from the demo data set.
package memstore

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ariefcatur/go-court-reservations/internal/booking"
	"github.com/ariefcatur/go-court-reservations/internal/seed"
)

type Store struct {
	mu           sync.RWMutex
	courts       map[string]booking.Court
	reservations map[string]booking.Reservation
	users        map[string]booking.User
	blocks       map[string]booking.CourtBlock
	news         map[string]booking.News

	Now func() time.Time
}

var _ booking.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		courts:       map[string]booking.Court{},
		reservations: map[string]booking.Reservation{},
		users:        map[string]booking.User{},
		blocks:       map[string]booking.CourtBlock{},
		news:         map[string]booking.News{},
		Now:          time.Now,
	}
}

// Load adds every record of ds as-is, overwriting records with the same id.
func (s *Store) Load(ds seed.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range ds.Courts {
		s.courts[c.ID] = cloneCourt(c)
	}
	for _, r := range ds.Reservations {
		s.reservations[r.ID] = r
	}
	for _, u := range ds.Users {
		s.users[u.ID] = u
	}
	for _, b := range ds.Blocks {
		s.blocks[b.ID] = b
	}
	for _, n := range ds.News {
		s.news[n.ID] = n
	}
}

// NewDemo returns a store preloaded with the demo club.
func NewDemo(now time.Time) (*Store, error) {
	ds, err := seed.Demo(now)
	if err != nil {
		return nil, err
	}
	s := New()
	s.Load(ds)
	return s, nil
}

func (s *Store) stamp() time.Time { return s.Now().UTC() }

// ---- courts ----

func (s *Store) ListCourts(ctx context.Context) ([]booking.Court, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]booking.Court, 0, len(s.courts))
	for _, c := range s.courts {
		out = append(out, cloneCourt(c))
	}
	sortByCreated(out, func(c booking.Court) string { return c.ID }, func(c booking.Court) time.Time { return c.CreatedAt })
	return out, nil
}

func (s *Store) GetCourt(ctx context.Context, id string) (booking.Court, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.courts[id]
	if !ok {
		return booking.Court{}, booking.ErrNotFound
	}
	return cloneCourt(c), nil
}

func (s *Store) CreateCourt(ctx context.Context, c *booking.Court) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = s.stamp()
	c.UpdatedAt = c.CreatedAt
	s.courts[c.ID] = cloneCourt(*c)
	return nil
}

func (s *Store) UpdateCourt(ctx context.Context, c booking.Court) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.courts[c.ID]
	if !ok {
		return booking.ErrNotFound
	}
	c.CreatedAt = old.CreatedAt
	c.UpdatedAt = s.stamp()
	s.courts[c.ID] = cloneCourt(c)
	return nil
}

func (s *Store) DeleteCourt(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.courts[id]; !ok {
		return booking.ErrNotFound
	}
	delete(s.courts, id)
	return nil
}

// ---- reservations ----

func (s *Store) ListReservations(ctx context.Context, q booking.ReservationQuery) ([]booking.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]booking.Reservation, 0, len(s.reservations))
	for _, r := range s.reservations {
		if q.Match(r) {
			out = append(out, r)
		}
	}
	booking.SortSchedule(out)
	return out, nil
}

func (s *Store) GetReservation(ctx context.Context, id string) (booking.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reservations[id]
	if !ok {
		return booking.Reservation{}, booking.ErrNotFound
	}
	return r, nil
}

// CreateReservation checks for overlaps and inserts under one write lock, so
// two concurrent bookings of the same slot cannot both succeed.
func (s *Store) CreateReservation(ctx context.Context, r *booking.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.Active() {
		for _, o := range s.reservations {
			if o.CourtID == r.CourtID && o.Date.Equal(r.Date) && o.Active() && o.Interval().Overlaps(r.Interval()) {
				return booking.ErrConflict
			}
		}
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.CreatedAt = s.stamp()
	r.UpdatedAt = r.CreatedAt
	s.reservations[r.ID] = *r
	return nil
}

func (s *Store) UpdateReservation(ctx context.Context, r booking.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.reservations[r.ID]
	if !ok {
		return booking.ErrNotFound
	}
	r.CreatedAt = old.CreatedAt
	r.UpdatedAt = s.stamp()
	s.reservations[r.ID] = r
	return nil
}

func (s *Store) UpdateReservationStatus(ctx context.Context, id string, from, to booking.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reservations[id]
	if !ok {
		return booking.ErrNotFound
	}
	if r.Status != from {
		return fmt.Errorf("%w: %s is %s, not %s", booking.ErrInvalidTransition, id, r.Status, from)
	}
	r.Status = to
	r.UpdatedAt = s.stamp()
	s.reservations[id] = r
	return nil
}

func (s *Store) DeleteReservation(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reservations[id]; !ok {
		return booking.ErrNotFound
	}
	delete(s.reservations, id)
	return nil
}

// ---- users ----

func (s *Store) ListUsers(ctx context.Context) ([]booking.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]booking.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sortByCreated(out, func(u booking.User) string { return u.ID }, func(u booking.User) time.Time { return u.CreatedAt })
	return out, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (booking.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return booking.User{}, booking.ErrNotFound
	}
	return u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (booking.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	email = booking.NormalizeEmail(email)
	for _, u := range s.users {
		if booking.NormalizeEmail(u.Email) == email {
			return u, nil
		}
	}
	return booking.User{}, booking.ErrNotFound
}

func (s *Store) emailTaken(email, exceptID string) bool {
	email = booking.NormalizeEmail(email)
	for _, u := range s.users {
		if u.ID != exceptID && booking.NormalizeEmail(u.Email) == email {
			return true
		}
	}
	return false
}

func (s *Store) CreateUser(ctx context.Context, u *booking.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.emailTaken(u.Email, "") {
		return booking.ErrEmailTaken
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = s.stamp()
	u.UpdatedAt = u.CreatedAt
	s.users[u.ID] = *u
	return nil
}

func (s *Store) UpdateUser(ctx context.Context, u booking.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.users[u.ID]
	if !ok {
		return booking.ErrNotFound
	}
	if s.emailTaken(u.Email, u.ID) {
		return booking.ErrEmailTaken
	}
	u.CreatedAt = old.CreatedAt
	u.UpdatedAt = s.stamp()
	s.users[u.ID] = u
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return booking.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

// ---- blocks ----

func (s *Store) ListBlocks(ctx context.Context, courtID string) ([]booking.CourtBlock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]booking.CourtBlock, 0, len(s.blocks))
	for _, b := range s.blocks {
		if courtID == "" || b.CourtID == courtID {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].StartDate.Compare(out[j].StartDate); c != 0 {
			return c < 0
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) GetBlock(ctx context.Context, id string) (booking.CourtBlock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.blocks[id]
	if !ok {
		return booking.CourtBlock{}, booking.ErrNotFound
	}
	return b, nil
}

func (s *Store) CreateBlock(ctx context.Context, b *booking.CourtBlock) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	b.CreatedAt = s.stamp()
	b.UpdatedAt = b.CreatedAt
	s.blocks[b.ID] = *b
	return nil
}

func (s *Store) UpdateBlock(ctx context.Context, b booking.CourtBlock) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.blocks[b.ID]
	if !ok {
		return booking.ErrNotFound
	}
	b.CreatedAt = old.CreatedAt
	b.CreatedBy = old.CreatedBy
	b.UpdatedAt = s.stamp()
	s.blocks[b.ID] = b
	return nil
}

func (s *Store) DeleteBlock(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blocks[id]; !ok {
		return booking.ErrNotFound
	}
	delete(s.blocks, id)
	return nil
}

// ---- news ----

func (s *Store) ListNews(ctx context.Context) ([]booking.News, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]booking.News, 0, len(s.news))
	for _, n := range s.news {
		out = append(out, n)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetNews(ctx context.Context, id string) (booking.News, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.news[id]
	if !ok {
		return booking.News{}, booking.ErrNotFound
	}
	return n, nil
}

// cloneCourt copies the features slice so callers never share it with the map.
func cloneCourt(c booking.Court) booking.Court {
	c.Features = slices.Clone(c.Features)
	return c
}

// sortByCreated orders by creation time, then id, so listings are stable across
// map iteration.
func sortByCreated[T any](xs []T, id func(T) string, created func(T) time.Time) {
	sort.SliceStable(xs, func(i, j int) bool {
		a, b := created(xs[i]), created(xs[j])
		if !a.Equal(b) {
			return a.Before(b)
		}
		return id(xs[i]) < id(xs[j])
	})
}
