package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ariefcatur/go-court-reservations/internal/booking"
)

type BookRequest struct {
	CourtID        string        `json:"court_id"`
	Date           booking.Date  `json:"date"`
	StartTime      booking.Clock `json:"start_time"`
	Notes          string        `json:"notes"`
	IdempotencyKey string        `json:"-"`
}

// ReservationView is a reservation with the names the screens show next to it.
type ReservationView struct {
	booking.Reservation
	CourtName string            `json:"court_name"`
	CourtType booking.CourtType `json:"court_type,omitempty"`
	UserName  string            `json:"user_name"`
}

func viewOf(r booking.Reservation, dir booking.Directory) ReservationView {
	v := ReservationView{Reservation: r, CourtName: dir.CourtName(r.CourtID), UserName: dir.UserName(r.UserID)}
	if c, ok := dir.Courts[r.CourtID]; ok {
		v.CourtType = c.Type
	}
	return v
}

func viewsOf(rs []booking.Reservation, dir booking.Directory) []ReservationView {
	out := make([]ReservationView, 0, len(rs))
	for _, r := range rs {
		out = append(out, viewOf(r, dir))
	}
	return out
}

// idemPoll is how often a request waits on a key another request holds.
var idemPoll = 25 * time.Millisecond

// Book reserves one 90 minute slot for the actor. A repeated idempotency key
// returns the reservation created the first time with existed=true; requests
// racing on the same key wait for the one that claimed it.
func (s *Service) Book(ctx context.Context, actor Actor, req BookRequest) (booking.Reservation, bool, error) {
	key := req.IdempotencyKey
	for {
		claimed, id, err := s.Cache.ClaimBooking(ctx, actor.ID, key)
		if err != nil {
			s.logger().Warn("claim idempotency key", "err", err)
			key = ""
			break
		}
		if claimed {
			break
		}
		if id != "" {
			r, err := s.Store.GetReservation(ctx, id)
			if err == nil {
				return r, true, nil
			}
			if !errors.Is(err, booking.ErrNotFound) {
				return booking.Reservation{}, false, err
			}
			// The first reservation was deleted since; book afresh.
			if err := s.Cache.ReleaseBooking(ctx, actor.ID, key); err != nil {
				return booking.Reservation{}, false, err
			}
			continue
		}
		select {
		case <-ctx.Done():
			return booking.Reservation{}, false, ctx.Err()
		case <-time.After(idemPoll):
		}
	}

	r, err := s.book(ctx, actor, req)
	if err != nil {
		if rerr := s.Cache.ReleaseBooking(ctx, actor.ID, key); rerr != nil {
			s.logger().Warn("release idempotency key", "err", rerr)
		}
		return booking.Reservation{}, false, err
	}
	if err := s.Cache.RememberBooking(ctx, actor.ID, key, r.ID); err != nil {
		s.logger().Warn("remember idempotency key", "err", err)
	}
	s.invalidate(ctx, r.CourtID, r.Date)
	s.publish(ctx, booking.EventReservationCreated, r.CourtID, booking.ReservationPayloadOf(r, ""))
	return r, false, nil
}

func (s *Service) book(ctx context.Context, actor Actor, req BookRequest) (booking.Reservation, error) {
	today := s.today()
	if err := booking.ValidateBookingRequest(req.CourtID, req.Date, req.StartTime, today); err != nil {
		return booking.Reservation{}, err
	}
	if req.Date.Equal(today) && req.StartTime <= s.clockNow() {
		return booking.Reservation{}, booking.FieldError("start_time", "must be in the future")
	}

	court, err := s.Store.GetCourt(ctx, req.CourtID)
	if errors.Is(err, booking.ErrNotFound) {
		return booking.Reservation{}, booking.FieldError("court_id", "court not found")
	}
	if err != nil {
		return booking.Reservation{}, err
	}
	if !court.Available {
		return booking.Reservation{}, booking.ErrCourtUnavailable
	}
	user, err := s.Store.GetUser(ctx, actor.ID)
	if err != nil {
		return booking.Reservation{}, fmt.Errorf("load user: %w", err)
	}

	slot := booking.Interval{Start: req.StartTime, End: booking.EndFor(req.StartTime)}
	blocks, err := s.Store.ListBlocks(ctx, court.ID)
	if err != nil {
		return booking.Reservation{}, err
	}
	if reason, blocked := booking.BlockingReason(blocks, req.Date, slot); blocked {
		return booking.Reservation{}, fmt.Errorf("%w: %s", booking.ErrConflict, reason)
	}

	r := booking.Reservation{
		CourtID: court.ID,
		UserID:  user.ID,
		Date:    req.Date,
		Status:  booking.StatusConfirmed,
		Notes:   req.Notes,
	}
	booking.QuoteFor(court, user.Membership, req.StartTime, booking.BookingSlotMinutes).Apply(&r)
	if err := s.Store.CreateReservation(ctx, &r); err != nil {
		return booking.Reservation{}, err
	}
	return r, nil
}

// Quote prices a booking for the actor without storing anything.
func (s *Service) Quote(ctx context.Context, actor Actor, courtID string, start booking.Clock) (booking.Quote, error) {
	if !booking.IsBookingStart(start) {
		return booking.Quote{}, booking.FieldError("start_time", "must be one of the 90 minute slot starts")
	}
	court, err := s.Store.GetCourt(ctx, courtID)
	if err != nil {
		return booking.Quote{}, err
	}
	user, err := s.Store.GetUser(ctx, actor.ID)
	if err != nil {
		return booking.Quote{}, fmt.Errorf("load user: %w", err)
	}
	return booking.QuoteFor(court, user.Membership, start, booking.BookingSlotMinutes), nil
}

// BookableStarts lists the booking slots still free on d.
func (s *Service) BookableStarts(ctx context.Context, courtID string, d booking.Date) ([]booking.Interval, error) {
	if d.IsZero() {
		d = s.today()
	}
	court, err := s.Store.GetCourt(ctx, courtID)
	if err != nil {
		return nil, err
	}
	if !court.Available {
		return []booking.Interval{}, nil
	}
	blocks, err := s.Store.ListBlocks(ctx, courtID)
	if err != nil {
		return nil, err
	}
	rs, err := s.Store.ListReservations(ctx, booking.ReservationQuery{CourtID: courtID, Date: d})
	if err != nil {
		return nil, err
	}
	return booking.BookableStarts(courtID, d, s.today(), s.clockNow(), blocks, rs), nil
}

func (s *Service) GetReservation(ctx context.Context, actor Actor, id string) (ReservationView, error) {
	r, err := s.owned(ctx, actor, id)
	if err != nil {
		return ReservationView{}, err
	}
	dir, err := s.directory(ctx)
	if err != nil {
		return ReservationView{}, err
	}
	return viewOf(r, dir), nil
}

func (s *Service) owned(ctx context.Context, actor Actor, id string) (booking.Reservation, error) {
	r, err := s.Store.GetReservation(ctx, id)
	if err != nil {
		return booking.Reservation{}, err
	}
	if r.UserID != actor.ID && !actor.IsAdmin() {
		return booking.Reservation{}, booking.ErrForbidden
	}
	return r, nil
}

type MyReservations struct {
	Upcoming []ReservationView `json:"upcoming"`
	Past     []ReservationView `json:"past"`
}

func (s *Service) MyReservations(ctx context.Context, actor Actor) (MyReservations, error) {
	rs, err := s.Store.ListReservations(ctx, booking.ReservationQuery{UserID: actor.ID})
	if err != nil {
		return MyReservations{}, err
	}
	dir, err := s.directory(ctx)
	if err != nil {
		return MyReservations{}, err
	}
	up, past := booking.SplitUpcoming(rs, s.today())
	return MyReservations{Upcoming: viewsOf(up, dir), Past: viewsOf(past, dir)}, nil
}

// Cancel is available to the owner and to admins.
func (s *Service) Cancel(ctx context.Context, actor Actor, id string) (booking.Reservation, error) {
	r, err := s.owned(ctx, actor, id)
	if err != nil {
		return booking.Reservation{}, err
	}
	return s.transition(ctx, r, booking.StatusCancelled)
}

func (s *Service) UpdateStatus(ctx context.Context, id string, to booking.Status) (booking.Reservation, error) {
	if !to.Valid() {
		return booking.Reservation{}, booking.FieldError("status", "must be one of pending, confirmed, cancelled, completed")
	}
	r, err := s.Store.GetReservation(ctx, id)
	if err != nil {
		return booking.Reservation{}, err
	}
	return s.transition(ctx, r, to)
}

func (s *Service) transition(ctx context.Context, r booking.Reservation, to booking.Status) (booking.Reservation, error) {
	from := r.Status
	if !booking.CanTransition(from, to) {
		return booking.Reservation{}, fmt.Errorf("%w: %s -> %s", booking.ErrInvalidTransition, from, to)
	}
	if from == to {
		return r, nil
	}
	if err := s.Store.UpdateReservationStatus(ctx, r.ID, from, to); err != nil {
		return booking.Reservation{}, err
	}
	saved, err := s.Store.GetReservation(ctx, r.ID)
	if err != nil {
		return booking.Reservation{}, err
	}
	s.invalidate(ctx, saved.CourtID, saved.Date)
	ev := booking.EventReservationStatusChanged
	if to == booking.StatusCancelled {
		ev = booking.EventReservationCancelled
	}
	s.publish(ctx, ev, saved.CourtID, booking.ReservationPayloadOf(saved, from))
	return saved, nil
}

func (s *Service) DeleteReservation(ctx context.Context, id string) error {
	r, err := s.Store.GetReservation(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Store.DeleteReservation(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, r.CourtID, r.Date)
	s.publish(ctx, booking.EventReservationDeleted, r.CourtID, booking.ReservationPayloadOf(r, r.Status))
	return nil
}

// BulkResult is the outcome for one id of a bulk action; Error is empty on success.
type BulkResult struct {
	ID    string `json:"id"`
	Error string `json:"error,omitempty"`
}

func (s *Service) BulkCancel(ctx context.Context, ids []string) []BulkResult {
	return bulk(ids, func(id string) error {
		_, err := s.UpdateStatus(ctx, id, booking.StatusCancelled)
		return err
	})
}

func (s *Service) BulkDelete(ctx context.Context, ids []string) []BulkResult {
	return bulk(ids, func(id string) error { return s.DeleteReservation(ctx, id) })
}

func bulk(ids []string, fn func(string) error) []BulkResult {
	out := make([]BulkResult, 0, len(ids))
	seen := map[string]bool{}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		res := BulkResult{ID: id}
		if err := fn(id); err != nil {
			res.Error = err.Error()
		}
		out = append(out, res)
	}
	return out
}

// AdminReservations lists every reservation matching f, newest first.
func (s *Service) AdminReservations(ctx context.Context, f booking.ReservationFilter) ([]ReservationView, error) {
	rs, err := s.Store.ListReservations(ctx, booking.ReservationQuery{})
	if err != nil {
		return nil, err
	}
	dir, err := s.directory(ctx)
	if err != nil {
		return nil, err
	}
	matched := booking.FilterReservations(rs, f, dir)
	booking.SortSchedule(matched)
	for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
		matched[i], matched[j] = matched[j], matched[i]
	}
	return viewsOf(matched, dir), nil
}

// CompleteFinished marks every confirmed reservation whose slot has ended as
// completed and returns how many changed.
func (s *Service) CompleteFinished(ctx context.Context) (int, error) {
	rs, err := s.Store.ListReservations(ctx, booking.ReservationQuery{Statuses: []booking.Status{booking.StatusConfirmed}})
	if err != nil {
		return 0, err
	}
	now := s.now()
	n := 0
	for _, r := range rs {
		if !booking.Finished(r, now) {
			continue
		}
		_, err := s.transition(ctx, r, booking.StatusCompleted)
		if errors.Is(err, booking.ErrInvalidTransition) || errors.Is(err, booking.ErrNotFound) {
			// cancelled or deleted since the listing
			continue
		}
		if err != nil {
			return n, fmt.Errorf("complete %s: %w", r.ID, err)
		}
		n++
	}
	return n, nil
}
