package booking

import "context"

// ReservationQuery narrows ListReservations. Zero fields match everything.
type ReservationQuery struct {
	UserID   string
	CourtID  string
	Date     Date
	Statuses []Status
}

func (q ReservationQuery) Match(r Reservation) bool {
	if q.UserID != "" && r.UserID != q.UserID {
		return false
	}
	if q.CourtID != "" && r.CourtID != q.CourtID {
		return false
	}
	if !q.Date.IsZero() && !r.Date.Equal(q.Date) {
		return false
	}
	if len(q.Statuses) == 0 {
		return true
	}
	for _, s := range q.Statuses {
		if r.Status == s {
			return true
		}
	}
	return false
}

type CourtRepo interface {
	ListCourts(ctx context.Context) ([]Court, error)
	GetCourt(ctx context.Context, id string) (Court, error)
	CreateCourt(ctx context.Context, c *Court) error
	UpdateCourt(ctx context.Context, c Court) error
	DeleteCourt(ctx context.Context, id string) error
}

type ReservationRepo interface {
	ListReservations(ctx context.Context, q ReservationQuery) ([]Reservation, error)
	GetReservation(ctx context.Context, id string) (Reservation, error)
	// CreateReservation stores r unless an active reservation on the same
	// court and day overlaps it, in which case it returns ErrConflict.
	CreateReservation(ctx context.Context, r *Reservation) error
	UpdateReservation(ctx context.Context, r Reservation) error
	// UpdateReservationStatus moves r from one status to another only if it
	// still has from; otherwise it returns ErrInvalidTransition.
	UpdateReservationStatus(ctx context.Context, id string, from, to Status) error
	DeleteReservation(ctx context.Context, id string) error
}

type UserRepo interface {
	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	// CreateUser returns ErrEmailTaken when the address is in use.
	CreateUser(ctx context.Context, u *User) error
	UpdateUser(ctx context.Context, u User) error
	DeleteUser(ctx context.Context, id string) error
}

type BlockRepo interface {
	// ListBlocks returns every block, or only those of courtID when non-empty.
	ListBlocks(ctx context.Context, courtID string) ([]CourtBlock, error)
	GetBlock(ctx context.Context, id string) (CourtBlock, error)
	CreateBlock(ctx context.Context, b *CourtBlock) error
	UpdateBlock(ctx context.Context, b CourtBlock) error
	DeleteBlock(ctx context.Context, id string) error
}

type NewsRepo interface {
	ListNews(ctx context.Context) ([]News, error)
	GetNews(ctx context.Context, id string) (News, error)
}

// Store is everything the service needs from persistence.
type Store interface {
	CourtRepo
	ReservationRepo
	UserRepo
	BlockRepo
	NewsRepo
}
