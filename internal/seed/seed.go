// Package seed holds the demo club data both stores start from.
package seed

import (
	"fmt"
	"time"

	"github.com/ariefcatur/go-court-reservations/internal/auth"
	"github.com/ariefcatur/go-court-reservations/internal/booking"
)

// Demo logins.
const (
	AdminEmail     = "admin@reservas.com"
	AdminPassword  = "admin123"
	MemberEmail    = "usuario@reservas.com"
	MemberPassword = "user123"
	GuestEmail     = "maria@example.com"
	GuestPassword  = "user123"
)

type Dataset struct {
	Courts       []booking.Court
	Users        []booking.User
	Reservations []booking.Reservation
	Blocks       []booking.CourtBlock
	News         []booking.News
}

// Demo builds the data set relative to now: reservations fall on today and
// the next two days, blocks one and two weeks out.
func Demo(now time.Time) (Dataset, error) {
	today := booking.DateOf(now)
	ds := Dataset{
		Courts: []booking.Court{
			{
				ID: "1", Name: "Central Court", Type: booking.CourtTennis, Location: "North Sports Complex",
				Description:       "Main tennis court with a clay surface",
				PricePerHourCents: 2500, LightingPerHourCents: 800, Available: true,
				ImageURL: "assets/images/court1.jpg", Features: []string{"Lighting", "Changing rooms", "Parking"},
			},
			{
				ID: "2", Name: "Court 2", Type: booking.CourtTennis, Location: "North Sports Complex",
				Description:       "Secondary tennis court with a hard surface",
				PricePerHourCents: 2000, LightingPerHourCents: 600, Available: true,
				ImageURL: "assets/images/court2.jpg", Features: []string{"Lighting", "Changing rooms"},
			},
			{
				ID: "3", Name: "Paddle Court", Type: booking.CourtPaddle, Location: "South Sports Complex",
				Description:       "Paddle court with glass walls",
				PricePerHourCents: 3000, LightingPerHourCents: 1000, Available: true,
				ImageURL: "assets/images/court3.jpg", Features: []string{"Lighting", "Changing rooms", "Cafeteria"},
			},
		},
		Blocks: []booking.CourtBlock{
			{
				ID: "1", CourtID: "1", StartDate: today.AddDays(7), EndDate: today.AddDays(7), AllDay: true,
				Reason: "Scheduled maintenance", Type: booking.BlockMaintenance, CreatedBy: "2",
			},
			{
				ID: "2", CourtID: "2", StartDate: today.AddDays(14), EndDate: today.AddDays(15),
				StartTime: booking.SomeClock(booking.ClockAt(22, 0)), EndTime: booking.SomeClock(booking.ClockAt(6, 0)),
				Reason: "Special night event", Type: booking.BlockEvent, CreatedBy: "2",
			},
		},
		News: demoNews(),
	}

	users := []struct {
		u  booking.User
		pw string
	}{
		{booking.User{ID: "1", Name: "Juan Pérez", Email: MemberEmail, Phone: "123456789", Role: booking.RoleUser, Membership: booking.MembershipMember}, MemberPassword},
		{booking.User{ID: "2", Name: "Admin", Email: AdminEmail, Phone: "987654321", Role: booking.RoleAdmin, Membership: booking.MembershipMember}, AdminPassword},
		{booking.User{ID: "3", Name: "María González", Email: GuestEmail, Phone: "555123456", Role: booking.RoleUser, Membership: booking.MembershipNonMember}, GuestPassword},
	}
	for _, x := range users {
		h, err := auth.HashPassword(x.pw)
		if err != nil {
			return Dataset{}, fmt.Errorf("seed user %s: %w", x.u.Email, err)
		}
		x.u.PasswordHash = h
		ds.Users = append(ds.Users, x.u)
	}

	byID := map[string]booking.Court{}
	for _, c := range ds.Courts {
		byID[c.ID] = c
	}
	membership := map[string]booking.Membership{}
	for _, u := range ds.Users {
		membership[u.ID] = u.Membership
	}
	slots := []struct {
		id, court, user string
		day             booking.Date
		start           booking.Clock
	}{
		{"1", "1", "1", today, booking.ClockAt(10, 0)},
		{"2", "2", "1", today, booking.ClockAt(15, 0)},
		{"3", "1", "2", today.AddDays(1), booking.ClockAt(9, 0)},
		{"4", "3", "3", today.AddDays(1), booking.ClockAt(18, 0)},
		{"5", "2", "3", today.AddDays(2), booking.ClockAt(11, 0)},
	}
	for _, s := range slots {
		r := booking.Reservation{
			ID: s.id, CourtID: s.court, UserID: s.user, Date: s.day,
			StartTime: s.start, EndTime: booking.EndFor(s.start), Status: booking.StatusConfirmed,
		}
		booking.QuoteFor(byID[s.court], membership[s.user], s.start, booking.BookingSlotMinutes).Apply(&r)
		ds.Reservations = append(ds.Reservations, r)
	}

	for i := range ds.Courts {
		ds.Courts[i].CreatedAt, ds.Courts[i].UpdatedAt = now, now
	}
	for i := range ds.Users {
		ds.Users[i].CreatedAt, ds.Users[i].UpdatedAt = now, now
	}
	for i := range ds.Reservations {
		ds.Reservations[i].CreatedAt, ds.Reservations[i].UpdatedAt = now, now
	}
	for i := range ds.Blocks {
		ds.Blocks[i].CreatedAt, ds.Blocks[i].UpdatedAt = now, now
	}
	return ds, nil
}

func demoNews() []booking.News {
	return []booking.News{
		{
			ID: "1", Title: "New Tennis Tournament - Registration Open",
			Summary:  "Registration for the club's annual tennis tournament is now open. Don't miss it!",
			Content:  "The annual club tournament runs through February. Singles and doubles categories are open to members and guests. Sign up at the front desk.",
			ImageURL: "assets/images/news-tournament.jpg", Author: "Club Administration",
			PublishDate: booking.NewDate(2024, 1, 15), Category: booking.NewsTournament, Featured: true,
		},
		{
			ID: "2", Title: "Scheduled Maintenance - Court 3",
			Summary:  "Court 3 will be under maintenance from January 20 to 22.",
			Content:  "The paddle court glass walls are being replaced. Bookings for those days have been moved to other courts.",
			ImageURL: "assets/images/news-maintenance.jpg", Author: "Maintenance Team",
			PublishDate: booking.NewDate(2024, 1, 18), Category: booking.NewsMaintenance,
		},
		{
			ID: "3", Title: "New Opening Hours",
			Summary:  "Starting February 1, the club will have new opening hours.",
			Content:  "Courts open at 08:00 and the last booking starts at 21:00. The cafeteria closes at 22:00.",
			ImageURL: "assets/images/news-hours.jpg", Author: "Management",
			PublishDate: booking.NewDate(2024, 1, 20), Category: booking.NewsAnnouncement, Featured: true,
		},
		{
			ID: "4", Title: "Tennis Lessons for Beginners",
			Summary:  "New group lessons for beginners every Saturday.",
			Content:  "Group lessons of up to six players run every Saturday morning. Rackets are provided.",
			ImageURL: "assets/images/news-lessons.jpg", Author: "Head Coach",
			PublishDate: booking.NewDate(2024, 1, 22), Category: booking.NewsEvent, Featured: true,
		},
		{
			ID: "5", Title: "Facility Improvements",
			Summary:  "We have renovated the changing rooms and added new amenities.",
			Content:  "The changing rooms have new lockers and showers, and the lounge has a new coffee machine.",
			ImageURL: "assets/images/news-facilities.jpg", Author: "Club Administration",
			PublishDate: booking.NewDate(2024, 1, 25), Category: booking.NewsGeneral,
		},
	}
}
