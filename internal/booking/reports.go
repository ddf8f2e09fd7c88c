package booking

import "sort"

type Period string

const (
	PeriodWeek    Period = "week"
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"
	PeriodAll     Period = "all"
)

func (p Period) Valid() bool {
	switch p {
	case PeriodWeek, PeriodMonth, PeriodQuarter, PeriodYear, PeriodAll:
		return true
	}
	return false
}

// Since returns the first day included in the period; zero for PeriodAll.
func (p Period) Since(today Date) Date {
	switch p {
	case PeriodWeek:
		return today.AddDays(-7)
	case PeriodMonth:
		return today.AddMonths(-1)
	case PeriodQuarter:
		return today.AddMonths(-3)
	case PeriodYear:
		return today.AddMonths(-12)
	}
	return Date{}
}

const (
	MonthlyRevenueMonths = 6
	NoCourt              = "N/A"
)

type MonthRevenue struct {
	Month        string `json:"month"`
	RevenueCents int64  `json:"revenue_cents"`
}

type Stats struct {
	Period                  Period         `json:"period"`
	TotalRevenueCents       int64          `json:"total_revenue_cents"`
	TotalReservations       int            `json:"total_reservations"`
	AverageReservationCents int64          `json:"average_reservation_cents"`
	MostPopularCourt        string         `json:"most_popular_court"`
	ByStatus                map[Status]int `json:"by_status"`
	ByCourtType             map[string]int `json:"by_court_type"`
	MonthlyRevenue          []MonthRevenue `json:"monthly_revenue"`
}

type Dashboard struct {
	TotalReservations   int `json:"total_reservations"`
	TotalCourts         int `json:"total_courts"`
	TotalUsers          int `json:"total_users"`
	PendingReservations int `json:"pending_reservations"`
}

// Billable reports whether a reservation counts towards revenue.
func Billable(r Reservation) bool {
	return r.Status == StatusConfirmed || r.Status == StatusCompleted
}

func InPeriod(rs []Reservation, p Period, today Date) []Reservation {
	since := p.Since(today)
	if since.IsZero() {
		return append([]Reservation(nil), rs...)
	}
	out := make([]Reservation, 0, len(rs))
	for _, r := range rs {
		if !r.Date.Before(since) {
			out = append(out, r)
		}
	}
	return out
}

func Revenue(rs []Reservation) int64 {
	var total int64
	for _, r := range rs {
		if Billable(r) {
			total += r.TotalPriceCents
		}
	}
	return total
}

// BuildStats computes the admin report for period p.
func BuildStats(rs []Reservation, courts []Court, p Period, today Date) Stats {
	dir := NewDirectory(courts, nil)
	filtered := InPeriod(rs, p, today)

	st := Stats{
		Period:            p,
		TotalRevenueCents: Revenue(filtered),
		TotalReservations: len(filtered),
		MostPopularCourt:  NoCourt,
		ByStatus:          make(map[Status]int, len(AllStatuses)),
		ByCourtType:       map[string]int{},
	}
	if st.TotalReservations > 0 {
		st.AverageReservationCents = st.TotalRevenueCents / int64(st.TotalReservations)
	}
	for _, s := range AllStatuses {
		st.ByStatus[s] = 0
	}

	counts := map[string]int{}
	for _, r := range filtered {
		st.ByStatus[r.Status]++
		counts[r.CourtID]++
		if c, ok := dir.Courts[r.CourtID]; ok {
			st.ByCourtType[c.Type.Label()]++
		}
	}
	if id := mostFrequent(counts); id != "" {
		if c, ok := dir.Courts[id]; ok {
			st.MostPopularCourt = c.Name
		}
	}
	st.MonthlyRevenue = MonthlyRevenue(rs, today)
	return st
}

// mostFrequent breaks ties by the smallest id so the answer is stable.
func mostFrequent(counts map[string]int) string {
	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	best, bestN := "", 0
	for _, id := range ids {
		if counts[id] > bestN {
			best, bestN = id, counts[id]
		}
	}
	return best
}

// MonthlyRevenue covers the current month and the five before it, oldest first.
func MonthlyRevenue(rs []Reservation, today Date) []MonthRevenue {
	first := today.FirstOfMonth()
	out := make([]MonthRevenue, 0, MonthlyRevenueMonths)
	idx := map[string]int{}
	for i := MonthlyRevenueMonths - 1; i >= 0; i-- {
		key := first.AddMonths(-i).MonthKey()
		idx[key] = len(out)
		out = append(out, MonthRevenue{Month: key})
	}
	for _, r := range rs {
		if !Billable(r) {
			continue
		}
		if i, ok := idx[r.Date.MonthKey()]; ok {
			out[i].RevenueCents += r.TotalPriceCents
		}
	}
	return out
}

func BuildDashboard(rs []Reservation, courts, users int) Dashboard {
	return Dashboard{
		TotalReservations:   len(rs),
		TotalCourts:         courts,
		TotalUsers:          users,
		PendingReservations: len(ByStatus(rs, StatusPending)),
	}
}

// ReservationCounts counts reservations per user id.
func ReservationCounts(rs []Reservation) map[string]int {
	out := map[string]int{}
	for _, r := range rs {
		out[r.UserID]++
	}
	return out
}
