// Package service holds the club use cases on top of the booking rules and
// a booking.Store.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/ariefcatur/go-court-reservations/internal/auth"
	"github.com/ariefcatur/go-court-reservations/internal/booking"
	"github.com/ariefcatur/go-court-reservations/internal/redisx"
)

// Publisher queues a domain event. Implemented by kafka.Producer and kafka.Nop.
type Publisher interface {
	PublishEnvelope(topic string, key []byte, env booking.Envelope) error
}

// Actor is the authenticated caller.
type Actor struct {
	ID    string
	Role  booking.Role
	Email string
}

func (a Actor) IsAdmin() bool { return a.Role == booking.RoleAdmin }

type Service struct {
	Store     booking.Store
	Cache     *redisx.Cache
	Publisher Publisher
	Tokens    *auth.Tokens
	Log       *slog.Logger
	Name      string
	Location  *time.Location
	Now       func() time.Time
}

func (s *Service) now() time.Time {
	n := time.Now
	if s.Now != nil {
		n = s.Now
	}
	loc := s.Location
	if loc == nil {
		loc = time.Local
	}
	return n().In(loc)
}

func (s *Service) today() booking.Date { return booking.DateOf(s.now()) }

func (s *Service) clockNow() booking.Clock {
	n := s.now()
	return booking.ClockAt(n.Hour(), n.Minute())
}

func (s *Service) logger() *slog.Logger {
	if s.Log != nil {
		return s.Log
	}
	return slog.Default()
}

type traceKey struct{}

// WithTrace tags ctx with the request id carried into published events.
func WithTrace(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceKey{}, id)
}

func traceOf(ctx context.Context) string {
	id, _ := ctx.Value(traceKey{}).(string)
	return id
}

// publish is best effort: failures are logged and never fail the caller.
func (s *Service) publish(ctx context.Context, eventType, courtID string, payload any) {
	if s.Publisher == nil {
		return
	}
	env, err := booking.NewEnvelope(eventType, s.Name, traceOf(ctx), courtID, payload, s.now())
	if err != nil {
		s.logger().Error("build event", "type", eventType, "err", err)
		return
	}
	if err := s.Publisher.PublishEnvelope(booking.TopicFor[eventType], booking.PartitionKey(courtID), env); err != nil {
		s.logger().Warn("publish event", "type", eventType, "court_id", courtID, "err", err)
	}
}

// invalidate drops cached availability; a zero date drops every day of the court.
func (s *Service) invalidate(ctx context.Context, courtID string, d booking.Date) {
	if err := s.Cache.InvalidateAvailability(ctx, courtID, d); err != nil {
		s.logger().Warn("invalidate availability", "court_id", courtID, "date", d.String(), "err", err)
	}
}

func (s *Service) directory(ctx context.Context) (booking.Directory, error) {
	courts, err := s.Store.ListCourts(ctx)
	if err != nil {
		return booking.Directory{}, err
	}
	users, err := s.Store.ListUsers(ctx)
	if err != nil {
		return booking.Directory{}, err
	}
	return booking.NewDirectory(courts, users), nil
}
