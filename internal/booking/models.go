package booking

import "time"

type CourtType string

const (
	CourtTennis     CourtType = "tennis"
	CourtPaddle     CourtType = "paddle"
	CourtBasketball CourtType = "basketball"
	CourtFootball   CourtType = "football"
	CourtOther      CourtType = "other"
)

var courtTypeLabels = map[CourtType]string{
	CourtTennis:     "Tennis",
	CourtPaddle:     "Paddle",
	CourtBasketball: "Basketball",
	CourtFootball:   "Football",
	CourtOther:      "Other",
}

func (t CourtType) Valid() bool {
	_, ok := courtTypeLabels[t]
	return ok
}

// Label is the display name used in reports; unknown types fall back to the raw value.
func (t CourtType) Label() string {
	if l, ok := courtTypeLabels[t]; ok {
		return l
	}
	return string(t)
}

type Court struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Type                 CourtType `json:"type"`
	Location             string    `json:"location"`
	Description          string    `json:"description,omitempty"`
	PricePerHourCents    int64     `json:"price_per_hour_cents"`
	LightingPerHourCents int64     `json:"lighting_fee_per_hour_cents"`
	Available            bool      `json:"available"`
	ImageURL             string    `json:"image_url,omitempty"`
	Features             []string  `json:"features,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// CourtPatch carries a partial court update; nil fields are left untouched.
type CourtPatch struct {
	Name                 *string    `json:"name"`
	Type                 *CourtType `json:"type"`
	Location             *string    `json:"location"`
	Description          *string    `json:"description"`
	PricePerHourCents    *int64     `json:"price_per_hour_cents"`
	LightingPerHourCents *int64     `json:"lighting_fee_per_hour_cents"`
	Available            *bool      `json:"available"`
	ImageURL             *string    `json:"image_url"`
	Features             *[]string  `json:"features"`
}

func (p CourtPatch) Apply(c Court) Court {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Type != nil {
		c.Type = *p.Type
	}
	if p.Location != nil {
		c.Location = *p.Location
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.PricePerHourCents != nil {
		c.PricePerHourCents = *p.PricePerHourCents
	}
	if p.LightingPerHourCents != nil {
		c.LightingPerHourCents = *p.LightingPerHourCents
	}
	if p.Available != nil {
		c.Available = *p.Available
	}
	if p.ImageURL != nil {
		c.ImageURL = *p.ImageURL
	}
	if p.Features != nil {
		c.Features = append([]string(nil), (*p.Features)...)
	}
	return c
}

type Reservation struct {
	ID               string    `json:"id"`
	CourtID          string    `json:"court_id"`
	UserID           string    `json:"user_id"`
	Date             Date      `json:"date"`
	StartTime        Clock     `json:"start_time"`
	EndTime          Clock     `json:"end_time"`
	Status           Status    `json:"status"`
	Notes            string    `json:"notes,omitempty"`
	BasePriceCents   int64     `json:"base_price_cents"`
	LightingFeeCents int64     `json:"lighting_fee_cents"`
	TotalPriceCents  int64     `json:"total_price_cents"`
	HasLighting      bool      `json:"has_lighting"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Active reports whether the reservation still occupies its slot.
func (r Reservation) Active() bool { return r.Status != StatusCancelled }

func (r Reservation) Interval() Interval { return Interval{Start: r.StartTime, End: r.EndTime} }

// Hours is the booked duration in hours.
func (r Reservation) Hours() float64 { return float64(r.EndTime-r.StartTime) / 60 }

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) Valid() bool { return r == RoleAdmin || r == RoleUser }

type Membership string

const (
	MembershipMember    Membership = "member"
	MembershipNonMember Membership = "non_member"
)

func (m Membership) Valid() bool { return m == MembershipMember || m == MembershipNonMember }

type User struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Phone           string     `json:"phone,omitempty"`
	PasswordHash    string     `json:"-"`
	Role            Role       `json:"role"`
	Membership      Membership `json:"membership"`
	ProfileImageURL string     `json:"profile_image_url,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (u User) IsAdmin() bool  { return u.Role == RoleAdmin }
func (u User) IsMember() bool { return u.Membership == MembershipMember }

type BlockType string

const (
	BlockMaintenance BlockType = "maintenance"
	BlockEvent       BlockType = "event"
	BlockClosure     BlockType = "closure"
	BlockOther       BlockType = "other"
)

func (t BlockType) Valid() bool {
	switch t {
	case BlockMaintenance, BlockEvent, BlockClosure, BlockOther:
		return true
	}
	return false
}

type CourtBlock struct {
	ID        string        `json:"id"`
	CourtID   string        `json:"court_id"`
	StartDate Date          `json:"start_date"`
	EndDate   Date          `json:"end_date"`
	StartTime OptionalClock `json:"start_time"`
	EndTime   OptionalClock `json:"end_time"`
	AllDay    bool          `json:"all_day"`
	Reason    string        `json:"reason"`
	Type      BlockType     `json:"type"`
	CreatedBy string        `json:"created_by"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type NewsCategory string

const (
	NewsGeneral      NewsCategory = "general"
	NewsTournament   NewsCategory = "tournament"
	NewsMaintenance  NewsCategory = "maintenance"
	NewsEvent        NewsCategory = "event"
	NewsAnnouncement NewsCategory = "announcement"
)

type News struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Summary     string       `json:"summary"`
	Content     string       `json:"content"`
	ImageURL    string       `json:"image_url,omitempty"`
	Author      string       `json:"author"`
	PublishDate Date         `json:"publish_date"`
	Category    NewsCategory `json:"category"`
	Featured    bool         `json:"featured"`
}
