package service

import (
	"context"

	"github.com/ariefcatur/go-court-reservations/internal/booking"
)

// Week builds the calendar of the week containing d (today when zero).
func (s *Service) Week(ctx context.Context, d booking.Date) (booking.WeekCalendar, error) {
	if d.IsZero() {
		d = s.today()
	}
	monday := d.Monday()
	courts, err := s.Store.ListCourts(ctx)
	if err != nil {
		return booking.WeekCalendar{}, err
	}
	blocks, err := s.Store.ListBlocks(ctx, "")
	if err != nil {
		return booking.WeekCalendar{}, err
	}
	all, err := s.Store.ListReservations(ctx, booking.ReservationQuery{})
	if err != nil {
		return booking.WeekCalendar{}, err
	}
	week := make([]booking.Reservation, 0, len(all))
	for _, r := range all {
		if r.Date.Between(monday, monday.AddDays(6)) {
			week = append(week, r)
		}
	}
	return booking.BuildWeek(d, s.now(), courts, week, blocks), nil
}

func (s *Service) Stats(ctx context.Context, p booking.Period) (booking.Stats, error) {
	if p == "" {
		p = booking.PeriodMonth
	}
	if !p.Valid() {
		return booking.Stats{}, booking.FieldError("period", "must be one of week, month, quarter, year, all")
	}
	rs, err := s.Store.ListReservations(ctx, booking.ReservationQuery{})
	if err != nil {
		return booking.Stats{}, err
	}
	courts, err := s.Store.ListCourts(ctx)
	if err != nil {
		return booking.Stats{}, err
	}
	return booking.BuildStats(rs, courts, p, s.today()), nil
}

func (s *Service) Dashboard(ctx context.Context) (booking.Dashboard, error) {
	rs, err := s.Store.ListReservations(ctx, booking.ReservationQuery{})
	if err != nil {
		return booking.Dashboard{}, err
	}
	courts, err := s.Store.ListCourts(ctx)
	if err != nil {
		return booking.Dashboard{}, err
	}
	users, err := s.Store.ListUsers(ctx)
	if err != nil {
		return booking.Dashboard{}, err
	}
	return booking.BuildDashboard(rs, len(courts), len(users)), nil
}
