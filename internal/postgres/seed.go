package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ariefcatur/go-court-reservations/internal/seed"
)

// Seed inserts ds in one transaction. Rows whose id already exists are left
// alone, so seeding an initialised database is a no-op.
func Seed(ctx context.Context, s *Store, ds seed.Dataset) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	for _, c := range ds.Courts {
		batch.Queue(`INSERT INTO courts(`+courtCols+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
			ON CONFLICT (id) DO NOTHING`,
			c.ID, c.Name, c.Type, c.Location, c.Description, c.PricePerHourCents,
			c.LightingPerHourCents, c.Available, c.ImageURL, c.Features, c.CreatedAt, c.UpdatedAt)
	}
	for _, u := range ds.Users {
		batch.Queue(`INSERT INTO users(`+userCols+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
			ON CONFLICT DO NOTHING`,
			u.ID, u.Name, u.Email, u.Phone, u.PasswordHash, u.Role, u.Membership, u.ProfileImageURL,
			u.CreatedAt, u.UpdatedAt)
	}
	for _, r := range ds.Reservations {
		batch.Queue(`INSERT INTO reservations(`+reservationCols+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
			ON CONFLICT (id) DO NOTHING`,
			r.ID, r.CourtID, r.UserID, r.Date.Time(), r.StartTime.String(), r.EndTime.String(), r.Status, r.Notes,
			r.BasePriceCents, r.LightingFeeCents, r.TotalPriceCents, r.HasLighting, r.CreatedAt, r.UpdatedAt)
	}
	for _, b := range ds.Blocks {
		batch.Queue(`INSERT INTO court_blocks(`+blockCols+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
			ON CONFLICT (id) DO NOTHING`,
			b.ID, b.CourtID, b.StartDate.Time(), b.EndDate.Time(), clockText(b.StartTime), clockText(b.EndTime),
			b.AllDay, b.Reason, b.Type, b.CreatedBy, b.CreatedAt, b.UpdatedAt)
	}
	for _, n := range ds.News {
		batch.Queue(`INSERT INTO news(`+newsCols+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
			ON CONFLICT (id) DO NOTHING`,
			n.ID, n.Title, n.Summary, n.Content, n.ImageURL, n.Author, n.PublishDate.Time(), n.Category, n.Featured)
	}

	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("seed statement %d: %w", i, err)
		}
	}
	if err := br.Close(); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
