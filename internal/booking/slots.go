package booking

// Interval is a half-open [Start, End) range within one day.
type Interval struct {
	Start Clock `json:"start_time"`
	End   Clock `json:"end_time"`
}

func (i Interval) Overlaps(o Interval) bool { return i.Start < o.End && o.Start < i.End }

func (i Interval) Minutes() int { return int(i.End - i.Start) }

const (
	OpeningTime = Clock(8 * 60)
	// BookingClose is the latest end of a bookable slot.
	BookingClose = Clock(21 * 60)
	ClosingTime  = Clock(22 * 60)

	BookingSlotMinutes      = 90
	AvailabilitySlotMinutes = 60

	// LightingFromHour: bookings starting at or after this hour need floodlights.
	LightingFromHour = 17

	// BookingHorizonMonths caps how far ahead a reservation can be made.
	BookingHorizonMonths = 2
)

// GenerateSlots cuts [open, close) into consecutive slots of width minutes.
// A trailing remainder shorter than width is dropped.
func GenerateSlots(open, close Clock, width int) []Interval {
	if width <= 0 || close <= open {
		return nil
	}
	out := make([]Interval, 0, int(close-open)/width)
	for start := open; start+Clock(width) <= close; start += Clock(width) {
		out = append(out, Interval{Start: start, End: start + Clock(width)})
	}
	return out
}

// BookingSlots is the fixed 90 minute grid offered to players (08:00, 09:30 ... 18:30).
func BookingSlots() []Interval {
	return GenerateSlots(OpeningTime, BookingClose, BookingSlotMinutes)
}

// AvailabilitySlots is the hourly grid used for block/availability views (08:00-22:00).
func AvailabilitySlots() []Interval {
	return GenerateSlots(OpeningTime, ClosingTime, AvailabilitySlotMinutes)
}

// CalendarHours are the row labels of the weekly calendar, 08:00 through 22:00 inclusive.
func CalendarHours() []Clock {
	out := make([]Clock, 0, 15)
	for h := OpeningTime; h <= ClosingTime; h += 60 {
		out = append(out, h)
	}
	return out
}

// IsBookingStart reports whether c is the start of a slot on the booking grid.
func IsBookingStart(c Clock) bool {
	for _, s := range BookingSlots() {
		if s.Start == c {
			return true
		}
	}
	return false
}

// EndFor returns start plus the fixed booking duration.
func EndFor(start Clock) Clock { return start + BookingSlotMinutes }
