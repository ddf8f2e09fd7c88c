// Package worker consumes club events: it keeps the availability cache fresh
// and tells users about changes to their reservations.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/ariefcatur/go-court-reservations/internal/booking"
	kafkax "github.com/ariefcatur/go-court-reservations/internal/kafka"
	"github.com/ariefcatur/go-court-reservations/internal/redisx"
)

// Notification is a message for one user about one reservation.
type Notification struct {
	UserID        string
	Email         string
	ReservationID string
	Subject       string
	Body          string
}

type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// LogNotifier writes notifications to the log.
type LogNotifier struct{ Log *slog.Logger }

func (l LogNotifier) Notify(ctx context.Context, n Notification) error {
	log := l.Log
	if log == nil {
		log = slog.Default()
	}
	log.InfoContext(ctx, "user notification",
		"user_id", n.UserID, "email", n.Email, "reservation_id", n.ReservationID,
		"subject", n.Subject, "body", n.Body)
	return nil
}

type Service struct {
	Store    booking.Store
	Cache    *redisx.Cache
	Notifier Notifier
	Log      *slog.Logger
}

func (s *Service) logger() *slog.Logger {
	if s.Log == nil {
		return slog.Default()
	}
	return s.Log
}

// HandleEvent is installed as the consumer handler. An event is processed at
// most once per event id while Redis remembers it; a failed event is forgotten
// again so the redelivery is processed.
func (s *Service) HandleEvent(ctx context.Context, m kafkago.Message) error {
	env, err := kafkax.UnmarshalEnvelope(m.Value)
	if err != nil {
		// Poison message: log and commit so the partition moves on.
		s.logger().Warn("dropping undecodable event", "topic", m.Topic, "offset", m.Offset, "err", err)
		return nil
	}

	first, err := s.Cache.FirstDelivery(ctx, env.EventID)
	if err != nil {
		return fmt.Errorf("dedup %s: %w", env.EventID, err)
	}
	if !first {
		s.logger().Debug("duplicate event", "event_id", env.EventID, "event_type", env.EventType)
		return nil
	}

	if err := s.dispatch(ctx, env); err != nil {
		if errors.Is(err, errBadPayload) {
			// Retrying cannot fix it; commit so the partition moves on.
			s.logger().Warn("dropping event", "event_id", env.EventID, "event_type", env.EventType, "err", err)
			return nil
		}
		if ferr := s.Cache.ForgetDelivery(ctx, env.EventID); ferr != nil {
			s.logger().Warn("forget delivery failed", "event_id", env.EventID, "err", ferr)
		}
		return err
	}
	return nil
}

var errBadPayload = errors.New("undecodable payload")

func (s *Service) dispatch(ctx context.Context, env booking.Envelope) error {
	log := s.logger().With("event_id", env.EventID, "event_type", env.EventType, "trace_id", env.TraceID)

	switch env.EventType {
	case booking.EventReservationCreated, booking.EventReservationCancelled,
		booking.EventReservationStatusChanged, booking.EventReservationDeleted:
		p, err := kafkax.UnwrapPayload[booking.ReservationPayload](env.Payload)
		if err != nil {
			return fmt.Errorf("%w: %v", errBadPayload, err)
		}
		if err := s.Cache.InvalidateAvailability(ctx, p.CourtID, p.Date); err != nil {
			return fmt.Errorf("invalidate %s %s: %w", p.CourtID, p.Date, err)
		}
		log.Info("reservation event applied", "reservation_id", p.ReservationID, "court_id", p.CourtID, "date", p.Date.String())
		return s.notify(ctx, env.EventType, p)

	case booking.EventCourtBlocked:
		p, err := kafkax.UnwrapPayload[booking.CourtBlockedPayload](env.Payload)
		if err != nil {
			return fmt.Errorf("%w: %v", errBadPayload, err)
		}
		// An updated block may have moved, so drop every cached day of the court.
		if err := s.Cache.InvalidateAvailability(ctx, p.CourtID, booking.Date{}); err != nil {
			return fmt.Errorf("invalidate %s: %w", p.CourtID, err)
		}
		log.Info("court block applied", "block_id", p.BlockID, "court_id", p.CourtID, "action", p.Action)
		return nil

	case booking.EventCourtChanged:
		p, err := kafkax.UnwrapPayload[booking.CourtChangedPayload](env.Payload)
		if err != nil {
			return fmt.Errorf("%w: %v", errBadPayload, err)
		}
		if err := s.Cache.InvalidateAvailability(ctx, p.CourtID, booking.Date{}); err != nil {
			return fmt.Errorf("invalidate %s: %w", p.CourtID, err)
		}
		log.Info("court change applied", "court_id", p.CourtID, "action", p.Action)
		return nil
	}

	log.Debug("ignoring event")
	return nil
}

func (s *Service) notify(ctx context.Context, eventType string, p booking.ReservationPayload) error {
	if s.Notifier == nil {
		return nil
	}
	n, ok := s.notification(ctx, eventType, p)
	if !ok {
		return nil
	}
	return s.Notifier.Notify(ctx, n)
}

// notification builds the message for eventType, or false when the user is
// not told about it.
func (s *Service) notification(ctx context.Context, eventType string, p booking.ReservationPayload) (Notification, bool) {
	n := Notification{UserID: p.UserID, ReservationID: p.ReservationID}
	court := booking.UnknownCourt
	if s.Store != nil {
		if u, err := s.Store.GetUser(ctx, p.UserID); err == nil {
			n.Email = u.Email
		}
		if c, err := s.Store.GetCourt(ctx, p.CourtID); err == nil {
			court = c.Name
		}
	}
	when := fmt.Sprintf("%s on %s, %s-%s", court, p.Date, p.StartTime, p.EndTime)

	switch eventType {
	case booking.EventReservationCreated:
		n.Subject = "Reservation confirmed"
		n.Body = fmt.Sprintf("Your reservation for %s is confirmed. Total %s.", when, booking.FormatCents(p.TotalPriceCents))
	case booking.EventReservationCancelled:
		n.Subject = "Reservation cancelled"
		n.Body = fmt.Sprintf("Your reservation for %s was cancelled.", when)
	case booking.EventReservationStatusChanged:
		n.Subject = "Reservation updated"
		n.Body = fmt.Sprintf("Your reservation for %s changed from %s to %s.", when, p.PreviousStatus, p.Status)
	default:
		return Notification{}, false
	}
	return n, true
}
