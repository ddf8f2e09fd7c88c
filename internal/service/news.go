package service

import (
	"context"

	"github.com/ariefcatur/go-court-reservations/internal/booking"
)

func (s *Service) ListNews(ctx context.Context, f booking.NewsFilter) ([]booking.News, error) {
	ns, err := s.Store.ListNews(ctx)
	if err != nil {
		return nil, err
	}
	return booking.NewestFirst(booking.FilterNews(ns, f)), nil
}

func (s *Service) LatestNews(ctx context.Context, limit int) ([]booking.News, error) {
	ns, err := s.Store.ListNews(ctx)
	if err != nil {
		return nil, err
	}
	return booking.LatestNews(ns, limit), nil
}

func (s *Service) GetNews(ctx context.Context, id string) (booking.News, error) {
	return s.Store.GetNews(ctx, id)
}
