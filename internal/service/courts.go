package service

import (
	"context"
	"fmt"

	"github.com/ariefcatur/go-court-reservations/internal/booking"
)

func (s *Service) ListCourts(ctx context.Context, f booking.CourtFilter) ([]booking.Court, error) {
	cs, err := s.Store.ListCourts(ctx)
	if err != nil {
		return nil, err
	}
	return booking.FilterCourts(cs, f), nil
}

func (s *Service) GetCourt(ctx context.Context, id string) (booking.Court, error) {
	return s.Store.GetCourt(ctx, id)
}

func (s *Service) CreateCourt(ctx context.Context, c booking.Court) (booking.Court, error) {
	c.ID = ""
	if err := booking.ValidateCourt(c); err != nil {
		return booking.Court{}, err
	}
	if err := s.Store.CreateCourt(ctx, &c); err != nil {
		return booking.Court{}, fmt.Errorf("create court: %w", err)
	}
	s.publish(ctx, booking.EventCourtChanged, c.ID, booking.CourtChangedPayload{CourtID: c.ID, Action: booking.ActionCreated, Available: c.Available})
	return c, nil
}

func (s *Service) UpdateCourt(ctx context.Context, id string, p booking.CourtPatch) (booking.Court, error) {
	old, err := s.Store.GetCourt(ctx, id)
	if err != nil {
		return booking.Court{}, err
	}
	c := p.Apply(old)
	if err := booking.ValidateCourt(c); err != nil {
		return booking.Court{}, err
	}
	return s.saveCourt(ctx, c)
}

// ToggleCourt flips whether the court can be booked.
func (s *Service) ToggleCourt(ctx context.Context, id string) (booking.Court, error) {
	c, err := s.Store.GetCourt(ctx, id)
	if err != nil {
		return booking.Court{}, err
	}
	c.Available = !c.Available
	return s.saveCourt(ctx, c)
}

func (s *Service) saveCourt(ctx context.Context, c booking.Court) (booking.Court, error) {
	if err := s.Store.UpdateCourt(ctx, c); err != nil {
		return booking.Court{}, fmt.Errorf("update court: %w", err)
	}
	saved, err := s.Store.GetCourt(ctx, c.ID)
	if err != nil {
		return booking.Court{}, err
	}
	s.invalidate(ctx, c.ID, booking.Date{})
	s.publish(ctx, booking.EventCourtChanged, c.ID, booking.CourtChangedPayload{CourtID: c.ID, Action: booking.ActionUpdated, Available: saved.Available})
	return saved, nil
}

// DeleteCourt removes the court only. Reservations and blocks that point at it
// stay and show up as "Court not found".
func (s *Service) DeleteCourt(ctx context.Context, id string) error {
	if err := s.Store.DeleteCourt(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id, booking.Date{})
	s.publish(ctx, booking.EventCourtChanged, id, booking.CourtChangedPayload{CourtID: id, Action: booking.ActionDeleted})
	return nil
}
