package booking

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

const (
	minCourtName     = 3
	minCourtLocation = 5
	minBlockReason   = 5
)

func ValidateCourt(c Court) error {
	v := &ValidationError{}
	if utf8.RuneCountInString(strings.TrimSpace(c.Name)) < minCourtName {
		v.add("name", "must be at least 3 characters")
	}
	if !c.Type.Valid() {
		v.add("type", "must be one of tennis, paddle, basketball, football, other")
	}
	if utf8.RuneCountInString(strings.TrimSpace(c.Location)) < minCourtLocation {
		v.add("location", "must be at least 5 characters")
	}
	if c.PricePerHourCents < 0 {
		v.add("price_per_hour_cents", "must not be negative")
	}
	if c.LightingPerHourCents < 0 {
		v.add("lighting_fee_per_hour_cents", "must not be negative")
	}
	return v.err()
}

func ValidateBlock(b CourtBlock) error {
	v := &ValidationError{}
	if b.CourtID == "" {
		v.add("court_id", "is required")
	}
	if b.StartDate.IsZero() {
		v.add("start_date", "is required")
	}
	if b.EndDate.IsZero() {
		v.add("end_date", "is required")
	}
	if !b.StartDate.IsZero() && !b.EndDate.IsZero() && b.EndDate.Before(b.StartDate) {
		v.add("end_date", "must not be before start_date")
	}
	if !b.AllDay {
		if !b.StartTime.Valid {
			v.add("start_time", "is required for a timed block")
		}
		if !b.EndTime.Valid {
			v.add("end_time", "is required for a timed block")
		}
		if b.StartTime.Valid && b.EndTime.Valid && b.StartTime.Clock == b.EndTime.Clock {
			v.add("end_time", "must differ from start_time")
		}
	}
	if !b.Type.Valid() {
		v.add("type", "must be one of maintenance, event, closure, other")
	}
	if utf8.RuneCountInString(strings.TrimSpace(b.Reason)) < minBlockReason {
		v.add("reason", "must be at least 5 characters")
	}
	return v.err()
}

func ValidateUser(u User) error {
	v := &ValidationError{}
	if strings.TrimSpace(u.Name) == "" {
		v.add("name", "is required")
	}
	if _, err := mail.ParseAddress(u.Email); err != nil || strings.ContainsAny(u.Email, "<> ") {
		v.add("email", "must be a valid address")
	}
	if !u.Role.Valid() {
		v.add("role", "must be admin or user")
	}
	if !u.Membership.Valid() {
		v.add("membership", "must be member or non_member")
	}
	return v.err()
}

// BookingWindow returns the first and last day a reservation may be made for.
func BookingWindow(today Date) (Date, Date) {
	return today, today.AddMonths(BookingHorizonMonths)
}

// ValidateBookingRequest checks the parts of a booking that do not need storage.
func ValidateBookingRequest(courtID string, d Date, start Clock, today Date) error {
	v := &ValidationError{}
	if courtID == "" {
		v.add("court_id", "is required")
	}
	if d.IsZero() {
		v.add("date", "is required")
	} else if first, last := BookingWindow(today); !d.Between(first, last) {
		v.add("date", "must be between today and two months ahead")
	}
	if !IsBookingStart(start) {
		v.add("start_time", "must be one of the 90 minute slot starts")
	}
	return v.err()
}

// NormalizeEmail lowercases and trims an address for lookups.
func NormalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
