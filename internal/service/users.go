package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ariefcatur/go-court-reservations/internal/auth"
	"github.com/ariefcatur/go-court-reservations/internal/booking"
)

const minPassword = 6

type Session struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      booking.User `json:"user"`
}

type RegisterRequest struct {
	Name       string             `json:"name"`
	Email      string             `json:"email"`
	Phone      string             `json:"phone"`
	Password   string             `json:"password"`
	Membership booking.Membership `json:"membership"`
}

// Register creates a regular user account and logs it in.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (Session, error) {
	u := booking.User{
		Name:       strings.TrimSpace(req.Name),
		Email:      booking.NormalizeEmail(req.Email),
		Phone:      strings.TrimSpace(req.Phone),
		Role:       booking.RoleUser,
		Membership: req.Membership,
	}
	if u.Membership == "" {
		u.Membership = booking.MembershipNonMember
	}
	verr := booking.ValidateUser(u)
	if utf8.RuneCountInString(req.Password) < minPassword {
		var v *booking.ValidationError
		if !errors.As(verr, &v) {
			v = &booking.ValidationError{Fields: map[string]string{}}
		}
		v.Fields["password"] = "must be at least 6 characters"
		verr = v
	}
	if verr != nil {
		return Session{}, verr
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return Session{}, err
	}
	u.PasswordHash = hash
	if err := s.Store.CreateUser(ctx, &u); err != nil {
		return Session{}, err
	}
	return s.session(u)
}

func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	u, err := s.Store.GetUserByEmail(ctx, booking.NormalizeEmail(email))
	if errors.Is(err, booking.ErrNotFound) {
		return Session{}, booking.ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	ok, err := auth.CheckPassword(password, u.PasswordHash)
	if err != nil {
		s.logger().Warn("password check", "user_id", u.ID, "err", err)
		return Session{}, booking.ErrInvalidCredentials
	}
	if !ok {
		return Session{}, booking.ErrInvalidCredentials
	}
	return s.session(u)
}

func (s *Service) session(u booking.User) (Session, error) {
	if s.Tokens == nil {
		return Session{}, errors.New("token issuer not configured")
	}
	tok, exp, err := s.Tokens.CreateAccessToken(u.ID, string(u.Role), u.Email)
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	return Session{Token: tok, ExpiresAt: exp, User: u}, nil
}

func (s *Service) Me(ctx context.Context, actor Actor) (booking.User, error) {
	return s.Store.GetUser(ctx, actor.ID)
}

type ProfilePatch struct {
	Name            *string `json:"name"`
	Email           *string `json:"email"`
	Phone           *string `json:"phone"`
	ProfileImageURL *string `json:"profile_image_url"`
}

// UpdateProfile edits the actor's own contact details; role and membership
// are not editable here.
func (s *Service) UpdateProfile(ctx context.Context, actor Actor, p ProfilePatch) (booking.User, error) {
	u, err := s.Store.GetUser(ctx, actor.ID)
	if err != nil {
		return booking.User{}, err
	}
	if p.Name != nil {
		u.Name = strings.TrimSpace(*p.Name)
	}
	if p.Email != nil {
		u.Email = booking.NormalizeEmail(*p.Email)
	}
	if p.Phone != nil {
		u.Phone = strings.TrimSpace(*p.Phone)
	}
	if p.ProfileImageURL != nil {
		u.ProfileImageURL = strings.TrimSpace(*p.ProfileImageURL)
	}
	if err := booking.ValidateUser(u); err != nil {
		return booking.User{}, err
	}
	if err := s.Store.UpdateUser(ctx, u); err != nil {
		return booking.User{}, err
	}
	return s.Store.GetUser(ctx, u.ID)
}

type UserView struct {
	booking.User
	ReservationCount int `json:"reservation_count"`
}

type UserStats struct {
	Total  int `json:"total"`
	Admins int `json:"admins"`
	Users  int `json:"users"`
}

type UserList struct {
	Users []UserView `json:"users"`
	Stats UserStats  `json:"stats"`
}

// AdminUsers lists users matching f with their reservation counts. Stats
// cover every user regardless of the filter.
func (s *Service) AdminUsers(ctx context.Context, f booking.UserFilter) (UserList, error) {
	us, err := s.Store.ListUsers(ctx)
	if err != nil {
		return UserList{}, err
	}
	rs, err := s.Store.ListReservations(ctx, booking.ReservationQuery{})
	if err != nil {
		return UserList{}, err
	}
	counts := booking.ReservationCounts(rs)
	out := UserList{Users: []UserView{}, Stats: UserStats{Total: len(us)}}
	for _, u := range us {
		if u.IsAdmin() {
			out.Stats.Admins++
		} else {
			out.Stats.Users++
		}
	}
	for _, u := range booking.FilterUsers(us, f) {
		out.Users = append(out.Users, UserView{User: u, ReservationCount: counts[u.ID]})
	}
	return out, nil
}

// ToggleRole swaps a user between admin and user. Admins cannot change their
// own role.
func (s *Service) ToggleRole(ctx context.Context, actor Actor, id string) (booking.User, error) {
	if id == actor.ID {
		return booking.User{}, booking.ErrForbidden
	}
	u, err := s.Store.GetUser(ctx, id)
	if err != nil {
		return booking.User{}, err
	}
	if u.IsAdmin() {
		u.Role = booking.RoleUser
	} else {
		u.Role = booking.RoleAdmin
	}
	if err := s.Store.UpdateUser(ctx, u); err != nil {
		return booking.User{}, err
	}
	return s.Store.GetUser(ctx, id)
}

// DeleteUser removes a non-admin account. Their reservations stay.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	u, err := s.Store.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if u.IsAdmin() {
		return booking.ErrAdminDelete
	}
	return s.Store.DeleteUser(ctx, id)
}
