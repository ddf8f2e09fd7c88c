package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariefcatur/go-court-reservations/internal/booking"
)

func (s *Service) ListBlocks(ctx context.Context, courtID string) ([]booking.CourtBlock, error) {
	return s.Store.ListBlocks(ctx, courtID)
}

func (s *Service) checkBlock(ctx context.Context, b booking.CourtBlock) error {
	verr := booking.ValidateBlock(b)
	if b.CourtID != "" {
		if _, err := s.Store.GetCourt(ctx, b.CourtID); errors.Is(err, booking.ErrNotFound) {
			var v *booking.ValidationError
			if errors.As(verr, &v) {
				v.Fields["court_id"] = "court not found"
				return v
			}
			return booking.FieldError("court_id", "court not found")
		} else if err != nil {
			return err
		}
	}
	return verr
}

func (s *Service) CreateBlock(ctx context.Context, actor Actor, b booking.CourtBlock) (booking.CourtBlock, error) {
	b.ID = ""
	b.CreatedBy = actor.ID
	if err := s.checkBlock(ctx, b); err != nil {
		return booking.CourtBlock{}, err
	}
	if err := s.Store.CreateBlock(ctx, &b); err != nil {
		return booking.CourtBlock{}, fmt.Errorf("create block: %w", err)
	}
	s.blockChanged(ctx, b, booking.ActionCreated)
	return b, nil
}

func (s *Service) UpdateBlock(ctx context.Context, id string, b booking.CourtBlock) (booking.CourtBlock, error) {
	old, err := s.Store.GetBlock(ctx, id)
	if err != nil {
		return booking.CourtBlock{}, err
	}
	b.ID = id
	if err := s.checkBlock(ctx, b); err != nil {
		return booking.CourtBlock{}, err
	}
	if err := s.Store.UpdateBlock(ctx, b); err != nil {
		return booking.CourtBlock{}, fmt.Errorf("update block: %w", err)
	}
	if old.CourtID != b.CourtID {
		s.invalidate(ctx, old.CourtID, booking.Date{})
	}
	saved, err := s.Store.GetBlock(ctx, id)
	if err != nil {
		return booking.CourtBlock{}, err
	}
	s.blockChanged(ctx, saved, booking.ActionUpdated)
	return saved, nil
}

func (s *Service) DeleteBlock(ctx context.Context, id string) error {
	b, err := s.Store.GetBlock(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Store.DeleteBlock(ctx, id); err != nil {
		return err
	}
	s.blockChanged(ctx, b, booking.ActionDeleted)
	return nil
}

func (s *Service) blockChanged(ctx context.Context, b booking.CourtBlock, action string) {
	s.invalidate(ctx, b.CourtID, booking.Date{})
	s.publish(ctx, booking.EventCourtBlocked, b.CourtID, booking.CourtBlockedPayload{
		BlockID: b.ID, CourtID: b.CourtID, StartDate: b.StartDate, EndDate: b.EndDate, Action: action,
	})
}

// Availability returns the hourly grid of a court for d, served from the
// cache when possible.
func (s *Service) Availability(ctx context.Context, courtID string, d booking.Date) (booking.CourtAvailability, error) {
	if d.IsZero() {
		d = s.today()
	}
	if _, err := s.Store.GetCourt(ctx, courtID); err != nil {
		return booking.CourtAvailability{}, err
	}
	if a, ok := s.Cache.GetAvailability(ctx, courtID, d); ok {
		return a, nil
	}
	blocks, err := s.Store.ListBlocks(ctx, courtID)
	if err != nil {
		return booking.CourtAvailability{}, err
	}
	rs, err := s.Store.ListReservations(ctx, booking.ReservationQuery{CourtID: courtID, Date: d})
	if err != nil {
		return booking.CourtAvailability{}, err
	}
	a := booking.DayAvailability(courtID, d, blocks, rs)
	if err := s.Cache.SetAvailability(ctx, a); err != nil {
		s.logger().Warn("cache availability", "court_id", courtID, "err", err)
	}
	return a, nil
}
