package booking

import "fmt"

// Quote is the price breakdown of one booking.
type Quote struct {
	CourtID          string `json:"court_id"`
	StartTime        Clock  `json:"start_time"`
	EndTime          Clock  `json:"end_time"`
	BasePriceCents   int64  `json:"base_price_cents"`
	LightingFeeCents int64  `json:"lighting_fee_cents"`
	TotalPriceCents  int64  `json:"total_price_cents"`
	HasLighting      bool   `json:"has_lighting"`
	Member           bool   `json:"member"`
}

// NeedsLighting reports whether a booking starting at start falls in floodlight hours.
func NeedsLighting(start Clock) bool { return start.Hour() >= LightingFromHour }

// PriceFor returns perHour scaled to minutes, rounded half up.
func PriceFor(perHourCents int64, minutes int) int64 {
	if perHourCents <= 0 || minutes <= 0 {
		return 0
	}
	return (perHourCents*int64(minutes) + 30) / 60
}

// QuoteFor prices a booking of the given duration. Members play for free;
// the lighting flag is still reported so staff know to switch the lights on.
func QuoteFor(c Court, membership Membership, start Clock, minutes int) Quote {
	q := Quote{
		CourtID:     c.ID,
		StartTime:   start,
		EndTime:     start + Clock(minutes),
		HasLighting: NeedsLighting(start),
		Member:      membership == MembershipMember,
	}
	if q.Member {
		return q
	}
	q.BasePriceCents = PriceFor(c.PricePerHourCents, minutes)
	if q.HasLighting {
		q.LightingFeeCents = PriceFor(c.LightingPerHourCents, minutes)
	}
	q.TotalPriceCents = q.BasePriceCents + q.LightingFeeCents
	return q
}

// Apply copies the quote onto a reservation.
func (q Quote) Apply(r *Reservation) {
	r.StartTime = q.StartTime
	r.EndTime = q.EndTime
	r.BasePriceCents = q.BasePriceCents
	r.LightingFeeCents = q.LightingFeeCents
	r.TotalPriceCents = q.TotalPriceCents
	r.HasLighting = q.HasLighting
}

// FormatCents renders an amount as units with two decimals, e.g. 60.00.
func FormatCents(c int64) string {
	sign := ""
	if c < 0 {
		sign, c = "-", -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}
