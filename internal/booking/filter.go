package booking

import (
	"sort"
	"time"
)

const (
	FilterAll       = "all"
	UnknownCourt    = "Court not found"
	UnknownUser     = "User not found"
	DefaultNewsSize = 3
)

// Directory resolves ids to display names. Missing ids resolve to the
// Unknown* fallbacks since relationships are not enforced.
type Directory struct {
	Courts map[string]Court
	Users  map[string]User
}

func NewDirectory(courts []Court, users []User) Directory {
	d := Directory{Courts: make(map[string]Court, len(courts)), Users: make(map[string]User, len(users))}
	for _, c := range courts {
		d.Courts[c.ID] = c
	}
	for _, u := range users {
		d.Users[u.ID] = u
	}
	return d
}

func (d Directory) CourtName(id string) string {
	if c, ok := d.Courts[id]; ok {
		return c.Name
	}
	return UnknownCourt
}

func (d Directory) UserName(id string) string {
	if u, ok := d.Users[id]; ok {
		return u.Name
	}
	return UnknownUser
}

// ReservationFilter mirrors the admin reservation table filters.
// Empty or "all" Status/CourtID match everything.
type ReservationFilter struct {
	Status   string
	CourtID  string
	Search   string
	DateFrom Date
	DateTo   Date
}

func (f ReservationFilter) Match(r Reservation, dir Directory) bool {
	if f.Status != "" && f.Status != FilterAll && string(r.Status) != f.Status {
		return false
	}
	if f.CourtID != "" && f.CourtID != FilterAll && r.CourtID != f.CourtID {
		return false
	}
	if !f.DateFrom.IsZero() && r.Date.Before(f.DateFrom) {
		return false
	}
	if !f.DateTo.IsZero() && r.Date.After(f.DateTo) {
		return false
	}
	return ContainsFold(f.Search, dir.CourtName(r.CourtID), dir.UserName(r.UserID))
}

func FilterReservations(rs []Reservation, f ReservationFilter, dir Directory) []Reservation {
	out := make([]Reservation, 0, len(rs))
	for _, r := range rs {
		if f.Match(r, dir) {
			out = append(out, r)
		}
	}
	return out
}

// ByStatus keeps only reservations with status s.
func ByStatus(rs []Reservation, s Status) []Reservation {
	return FilterReservations(rs, ReservationFilter{Status: string(s)}, Directory{})
}

type UserFilter struct {
	Role   string
	Search string
}

func FilterUsers(us []User, f UserFilter) []User {
	out := make([]User, 0, len(us))
	for _, u := range us {
		if f.Role != "" && f.Role != FilterAll && string(u.Role) != f.Role {
			continue
		}
		if !ContainsFold(f.Search, u.Name, u.Email) {
			continue
		}
		out = append(out, u)
	}
	return out
}

type CourtFilter struct {
	Type   string
	Search string
}

func FilterCourts(cs []Court, f CourtFilter) []Court {
	out := make([]Court, 0, len(cs))
	for _, c := range cs {
		if f.Type != "" && f.Type != FilterAll && string(c.Type) != f.Type {
			continue
		}
		if !ContainsFold(f.Search, c.Name, c.Location, c.Description) {
			continue
		}
		out = append(out, c)
	}
	return out
}

type NewsFilter struct {
	Category string
	Featured *bool
}

func FilterNews(ns []News, f NewsFilter) []News {
	out := make([]News, 0, len(ns))
	for _, n := range ns {
		if f.Category != "" && f.Category != FilterAll && string(n.Category) != f.Category {
			continue
		}
		if f.Featured != nil && n.Featured != *f.Featured {
			continue
		}
		out = append(out, n)
	}
	return out
}

// LatestNews returns up to limit items, newest first. limit <= 0 uses the default of 3.
func LatestNews(ns []News, limit int) []News {
	if limit <= 0 {
		limit = DefaultNewsSize
	}
	sorted := NewestFirst(ns)
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// NewestFirst returns a copy of ns ordered by publish date, newest first.
func NewestFirst(ns []News) []News {
	sorted := append([]News(nil), ns...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].PublishDate.After(sorted[j].PublishDate) })
	return sorted
}

// SplitUpcoming separates a player's reservations into upcoming (ascending)
// and past (descending). Today's bookings stay upcoming until they are
// completed or cancelled.
func SplitUpcoming(rs []Reservation, today Date) (upcoming, past []Reservation) {
	upcoming, past = []Reservation{}, []Reservation{}
	for _, r := range rs {
		closed := r.Status == StatusCompleted || r.Status == StatusCancelled
		switch {
		case r.Date.After(today):
			upcoming = append(upcoming, r)
		case r.Date.Equal(today) && !closed:
			upcoming = append(upcoming, r)
		default:
			past = append(past, r)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool { return lessSchedule(upcoming[i], upcoming[j]) })
	sort.SliceStable(past, func(i, j int) bool { return lessSchedule(past[j], past[i]) })
	return upcoming, past
}

func lessSchedule(a, b Reservation) bool {
	if c := a.Date.Compare(b.Date); c != 0 {
		return c < 0
	}
	return a.StartTime < b.StartTime
}

// SortSchedule orders reservations by date and start time.
func SortSchedule(rs []Reservation) {
	sort.SliceStable(rs, func(i, j int) bool { return lessSchedule(rs[i], rs[j]) })
}

// Finished reports whether a confirmed reservation's slot has fully elapsed at now.
func Finished(r Reservation, now time.Time) bool {
	if r.Status != StatusConfirmed {
		return false
	}
	return !r.Date.At(int(r.EndTime), now.Location()).After(now)
}
