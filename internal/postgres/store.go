package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ariefcatur/go-court-reservations/internal/booking"
)

type Store struct {
	DB  *pgxpool.Pool
	Now func() time.Time
}

var _ booking.Store = (*Store)(nil)

func New(db *pgxpool.Pool) *Store { return &Store{DB: db, Now: time.Now} }

func (s *Store) stamp() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// notFound maps pgx.ErrNoRows to booking.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return booking.ErrNotFound
	}
	return err
}

func uniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func affected(ct pgconn.CommandTag, err error) error {
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return booking.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

// ---- courts ----

const courtCols = `id, name, type, location, description, price_per_hour_cents,
	lighting_fee_per_hour_cents, available, image_url, features, created_at, updated_at`

func scanCourt(row scanner) (booking.Court, error) {
	var c booking.Court
	err := row.Scan(&c.ID, &c.Name, &c.Type, &c.Location, &c.Description, &c.PricePerHourCents,
		&c.LightingPerHourCents, &c.Available, &c.ImageURL, &c.Features, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (s *Store) ListCourts(ctx context.Context) ([]booking.Court, error) {
	rows, err := s.DB.Query(ctx, `SELECT `+courtCols+` FROM courts ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []booking.Court{}
	for rows.Next() {
		c, err := scanCourt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) GetCourt(ctx context.Context, id string) (booking.Court, error) {
	c, err := scanCourt(s.DB.QueryRow(ctx, `SELECT `+courtCols+` FROM courts WHERE id=$1`, id))
	return c, notFound(err)
}

func (s *Store) CreateCourt(ctx context.Context, c *booking.Court) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = s.stamp()
	c.UpdatedAt = c.CreatedAt
	_, err := s.DB.Exec(ctx, `
		INSERT INTO courts(`+courtCols+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		c.ID, c.Name, c.Type, c.Location, c.Description, c.PricePerHourCents,
		c.LightingPerHourCents, c.Available, c.ImageURL, c.Features, c.CreatedAt, c.UpdatedAt)
	return err
}

func (s *Store) UpdateCourt(ctx context.Context, c booking.Court) error {
	return affected(s.DB.Exec(ctx, `
		UPDATE courts SET name=$2, type=$3, location=$4, description=$5, price_per_hour_cents=$6,
			lighting_fee_per_hour_cents=$7, available=$8, image_url=$9, features=$10, updated_at=$11
		WHERE id=$1`,
		c.ID, c.Name, c.Type, c.Location, c.Description, c.PricePerHourCents,
		c.LightingPerHourCents, c.Available, c.ImageURL, c.Features, s.stamp()))
}

func (s *Store) DeleteCourt(ctx context.Context, id string) error {
	return affected(s.DB.Exec(ctx, `DELETE FROM courts WHERE id=$1`, id))
}

// ---- users ----

const userCols = `id, name, email, phone, password_hash, role, membership, profile_image_url, created_at, updated_at`

func scanUser(row scanner) (booking.User, error) {
	var u booking.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.Role, &u.Membership,
		&u.ProfileImageURL, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (s *Store) ListUsers(ctx context.Context) ([]booking.User, error) {
	rows, err := s.DB.Query(ctx, `SELECT `+userCols+` FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []booking.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Store) GetUser(ctx context.Context, id string) (booking.User, error) {
	u, err := scanUser(s.DB.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id=$1`, id))
	return u, notFound(err)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (booking.User, error) {
	u, err := scanUser(s.DB.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE lower(email)=$1`,
		booking.NormalizeEmail(email)))
	return u, notFound(err)
}

func (s *Store) CreateUser(ctx context.Context, u *booking.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = s.stamp()
	u.UpdatedAt = u.CreatedAt
	_, err := s.DB.Exec(ctx, `
		INSERT INTO users(`+userCols+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		u.ID, u.Name, u.Email, u.Phone, u.PasswordHash, u.Role, u.Membership, u.ProfileImageURL,
		u.CreatedAt, u.UpdatedAt)
	if uniqueViolation(err) {
		return booking.ErrEmailTaken
	}
	return err
}

func (s *Store) UpdateUser(ctx context.Context, u booking.User) error {
	err := affected(s.DB.Exec(ctx, `
		UPDATE users SET name=$2, email=$3, phone=$4, password_hash=$5, role=$6, membership=$7,
			profile_image_url=$8, updated_at=$9
		WHERE id=$1`,
		u.ID, u.Name, u.Email, u.Phone, u.PasswordHash, u.Role, u.Membership, u.ProfileImageURL, s.stamp()))
	if uniqueViolation(err) {
		return booking.ErrEmailTaken
	}
	return err
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	return affected(s.DB.Exec(ctx, `DELETE FROM users WHERE id=$1`, id))
}

// ---- news ----

const newsCols = `id, title, summary, content, image_url, author, publish_date, category, featured`

func scanNews(row scanner) (booking.News, error) {
	var (
		n   booking.News
		day time.Time
	)
	err := row.Scan(&n.ID, &n.Title, &n.Summary, &n.Content, &n.ImageURL, &n.Author, &day, &n.Category, &n.Featured)
	n.PublishDate = booking.DateOf(day)
	return n, err
}

func (s *Store) ListNews(ctx context.Context) ([]booking.News, error) {
	rows, err := s.DB.Query(ctx, `SELECT `+newsCols+` FROM news ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []booking.News{}
	for rows.Next() {
		n, err := scanNews(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) GetNews(ctx context.Context, id string) (booking.News, error) {
	n, err := scanNews(s.DB.QueryRow(ctx, `SELECT `+newsCols+` FROM news WHERE id=$1`, id))
	return n, notFound(err)
}
