package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ariefcatur/go-court-reservations/internal/booking"
)

const reservationCols = `id, court_id, user_id, date, start_time, end_time, status, notes,
	base_price_cents, lighting_fee_cents, total_price_cents, has_lighting, created_at, updated_at`

func scanReservation(row scanner) (booking.Reservation, error) {
	var (
		r          booking.Reservation
		day        time.Time
		start, end string
	)
	err := row.Scan(&r.ID, &r.CourtID, &r.UserID, &day, &start, &end, &r.Status, &r.Notes,
		&r.BasePriceCents, &r.LightingFeeCents, &r.TotalPriceCents, &r.HasLighting, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return r, err
	}
	r.Date = booking.DateOf(day)
	if r.StartTime, err = booking.ParseClock(start); err != nil {
		return r, err
	}
	r.EndTime, err = booking.ParseClock(end)
	return r, err
}

func (s *Store) ListReservations(ctx context.Context, q booking.ReservationQuery) ([]booking.Reservation, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if q.UserID != "" {
		where = append(where, "user_id="+arg(q.UserID))
	}
	if q.CourtID != "" {
		where = append(where, "court_id="+arg(q.CourtID))
	}
	if !q.Date.IsZero() {
		where = append(where, "date="+arg(q.Date.Time()))
	}
	if len(q.Statuses) > 0 {
		ss := make([]string, len(q.Statuses))
		for i, st := range q.Statuses {
			ss[i] = string(st)
		}
		where = append(where, "status = ANY("+arg(ss)+")")
	}
	sql := `SELECT ` + reservationCols + ` FROM reservations`
	if len(where) > 0 {
		sql += ` WHERE ` + strings.Join(where, " AND ")
	}
	sql += ` ORDER BY date, start_time, id`

	rows, err := s.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []booking.Reservation{}
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) GetReservation(ctx context.Context, id string) (booking.Reservation, error) {
	r, err := scanReservation(s.DB.QueryRow(ctx, `SELECT `+reservationCols+` FROM reservations WHERE id=$1`, id))
	return r, notFound(err)
}

// CreateReservation serialises bookings of one court and day with a
// transaction-scoped advisory lock, then checks for overlaps before inserting.
func (s *Store) CreateReservation(ctx context.Context, r *booking.Reservation) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if r.Active() {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, r.CourtID+"|"+r.Date.String()); err != nil {
			return err
		}
		rows, err := tx.Query(ctx, `
			SELECT start_time, end_time FROM reservations
			WHERE court_id=$1 AND date=$2 AND status <> 'cancelled'`, r.CourtID, r.Date.Time())
		if err != nil {
			return err
		}
		conflict := false
		for rows.Next() && !conflict {
			var start, end string
			if err := rows.Scan(&start, &end); err != nil {
				rows.Close()
				return err
			}
			a, errA := booking.ParseClock(start)
			b, errB := booking.ParseClock(end)
			if errA != nil || errB != nil {
				continue
			}
			conflict = booking.Interval{Start: a, End: b}.Overlaps(r.Interval())
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}
		if conflict {
			return booking.ErrConflict
		}
	}

	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.CreatedAt = s.stamp()
	r.UpdatedAt = r.CreatedAt
	if _, err := tx.Exec(ctx, `
		INSERT INTO reservations(`+reservationCols+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		r.ID, r.CourtID, r.UserID, r.Date.Time(), r.StartTime.String(), r.EndTime.String(), r.Status, r.Notes,
		r.BasePriceCents, r.LightingFeeCents, r.TotalPriceCents, r.HasLighting, r.CreatedAt, r.UpdatedAt); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Store) UpdateReservation(ctx context.Context, r booking.Reservation) error {
	return affected(s.DB.Exec(ctx, `
		UPDATE reservations SET court_id=$2, user_id=$3, date=$4, start_time=$5, end_time=$6, status=$7,
			notes=$8, base_price_cents=$9, lighting_fee_cents=$10, total_price_cents=$11, has_lighting=$12,
			updated_at=$13
		WHERE id=$1`,
		r.ID, r.CourtID, r.UserID, r.Date.Time(), r.StartTime.String(), r.EndTime.String(), r.Status,
		r.Notes, r.BasePriceCents, r.LightingFeeCents, r.TotalPriceCents, r.HasLighting, s.stamp()))
}

func (s *Store) UpdateReservationStatus(ctx context.Context, id string, from, to booking.Status) error {
	ct, err := s.DB.Exec(ctx, `UPDATE reservations SET status=$3, updated_at=$4 WHERE id=$1 AND status=$2`,
		id, from, to, s.stamp())
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 1 {
		return nil
	}
	var now string
	if err := s.DB.QueryRow(ctx, `SELECT status FROM reservations WHERE id=$1`, id).Scan(&now); err != nil {
		return notFound(err)
	}
	return fmt.Errorf("%w: %s is %s, not %s", booking.ErrInvalidTransition, id, now, from)
}

func (s *Store) DeleteReservation(ctx context.Context, id string) error {
	return affected(s.DB.Exec(ctx, `DELETE FROM reservations WHERE id=$1`, id))
}

// ---- blocks ----

const blockCols = `id, court_id, start_date, end_date, start_time, end_time, all_day, reason, type,
	created_by, created_at, updated_at`

func scanBlock(row scanner) (booking.CourtBlock, error) {
	var (
		b          booking.CourtBlock
		from, to   time.Time
		start, end *string
	)
	err := row.Scan(&b.ID, &b.CourtID, &from, &to, &start, &end, &b.AllDay, &b.Reason, &b.Type,
		&b.CreatedBy, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return b, err
	}
	b.StartDate, b.EndDate = booking.DateOf(from), booking.DateOf(to)
	if b.StartTime, err = optionalClock(start); err != nil {
		return b, err
	}
	b.EndTime, err = optionalClock(end)
	return b, err
}

func optionalClock(s *string) (booking.OptionalClock, error) {
	if s == nil {
		return booking.OptionalClock{}, nil
	}
	c, err := booking.ParseClock(*s)
	if err != nil {
		return booking.OptionalClock{}, err
	}
	return booking.SomeClock(c), nil
}

func clockText(o booking.OptionalClock) *string {
	if !o.Valid {
		return nil
	}
	s := o.Clock.String()
	return &s
}

func (s *Store) ListBlocks(ctx context.Context, courtID string) ([]booking.CourtBlock, error) {
	sql := `SELECT ` + blockCols + ` FROM court_blocks`
	var args []any
	if courtID != "" {
		sql += ` WHERE court_id=$1`
		args = append(args, courtID)
	}
	sql += ` ORDER BY start_date, id`

	rows, err := s.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []booking.CourtBlock{}
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) GetBlock(ctx context.Context, id string) (booking.CourtBlock, error) {
	b, err := scanBlock(s.DB.QueryRow(ctx, `SELECT `+blockCols+` FROM court_blocks WHERE id=$1`, id))
	return b, notFound(err)
}

func (s *Store) CreateBlock(ctx context.Context, b *booking.CourtBlock) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	b.CreatedAt = s.stamp()
	b.UpdatedAt = b.CreatedAt
	_, err := s.DB.Exec(ctx, `
		INSERT INTO court_blocks(`+blockCols+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		b.ID, b.CourtID, b.StartDate.Time(), b.EndDate.Time(), clockText(b.StartTime), clockText(b.EndTime),
		b.AllDay, b.Reason, b.Type, b.CreatedBy, b.CreatedAt, b.UpdatedAt)
	return err
}

// UpdateBlock keeps the original author.
func (s *Store) UpdateBlock(ctx context.Context, b booking.CourtBlock) error {
	return affected(s.DB.Exec(ctx, `
		UPDATE court_blocks SET court_id=$2, start_date=$3, end_date=$4, start_time=$5, end_time=$6,
			all_day=$7, reason=$8, type=$9, updated_at=$10
		WHERE id=$1`,
		b.ID, b.CourtID, b.StartDate.Time(), b.EndDate.Time(), clockText(b.StartTime), clockText(b.EndTime),
		b.AllDay, b.Reason, b.Type, s.stamp()))
}

func (s *Store) DeleteBlock(ctx context.Context, id string) error {
	return affected(s.DB.Exec(ctx, `DELETE FROM court_blocks WHERE id=$1`, id))
}
