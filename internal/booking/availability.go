package booking

// Covers reports whether the block applies to the calendar day d.
func (b CourtBlock) Covers(d Date) bool { return d.Between(b.StartDate, b.EndDate) }

// Intervals returns the parts of a day the block occupies. A timed block whose
// end is not after its start runs past midnight.
func (b CourtBlock) Intervals() []Interval {
	if b.AllDay {
		return []Interval{{Start: 0, End: EndOfDay}}
	}
	if !b.StartTime.Valid || !b.EndTime.Valid {
		return nil
	}
	start, end := b.StartTime.Clock, b.EndTime.Clock
	if end > start {
		return []Interval{{Start: start, End: end}}
	}
	out := []Interval{{Start: start, End: EndOfDay}}
	if end > 0 {
		out = append(out, Interval{Start: 0, End: end})
	}
	return out
}

// Blocks reports whether the block takes away slot on day d.
func (b CourtBlock) Blocks(d Date, slot Interval) bool {
	if !b.Covers(d) {
		return false
	}
	for _, iv := range b.Intervals() {
		if iv.Overlaps(slot) {
			return true
		}
	}
	return false
}

// BlockingReason returns the reason of the first block taking slot away, if any.
func BlockingReason(blocks []CourtBlock, d Date, slot Interval) (string, bool) {
	for _, b := range blocks {
		if b.Blocks(d, slot) {
			return b.Reason, true
		}
	}
	return "", false
}

// ConflictingReservation returns the first active reservation on the same
// court and day that overlaps slot.
func ConflictingReservation(rs []Reservation, courtID string, d Date, slot Interval) (Reservation, bool) {
	for _, r := range rs {
		if r.CourtID != courtID || !r.Date.Equal(d) || !r.Active() {
			continue
		}
		if r.Interval().Overlaps(slot) {
			return r, true
		}
	}
	return Reservation{}, false
}

type TimeSlot struct {
	StartTime   Clock  `json:"start_time"`
	EndTime     Clock  `json:"end_time"`
	Blocked     bool   `json:"blocked"`
	BlockReason string `json:"block_reason,omitempty"`
}

type CourtAvailability struct {
	CourtID        string     `json:"court_id"`
	Date           Date       `json:"date"`
	AvailableSlots []TimeSlot `json:"available_slots"`
	BlockedSlots   []TimeSlot `json:"blocked_slots"`
}

const ReservedReason = "Reserved"

// DayAvailability splits the hourly grid of one court and day into free and
// blocked slots. Blocks win over reservations when both apply.
func DayAvailability(courtID string, d Date, blocks []CourtBlock, rs []Reservation) CourtAvailability {
	out := CourtAvailability{
		CourtID:        courtID,
		Date:           d,
		AvailableSlots: []TimeSlot{},
		BlockedSlots:   []TimeSlot{},
	}
	for _, slot := range AvailabilitySlots() {
		ts := TimeSlot{StartTime: slot.Start, EndTime: slot.End}
		if reason, ok := BlockingReason(courtBlocks(blocks, courtID), d, slot); ok {
			ts.Blocked, ts.BlockReason = true, reason
		} else if _, ok := ConflictingReservation(rs, courtID, d, slot); ok {
			ts.Blocked, ts.BlockReason = true, ReservedReason
		}
		if ts.Blocked {
			out.BlockedSlots = append(out.BlockedSlots, ts)
		} else {
			out.AvailableSlots = append(out.AvailableSlots, ts)
		}
	}
	return out
}

// BookableStarts returns the booking-grid slots still free for the court on d.
// Days outside the booking window have none, and slots that start at or
// before now are dropped.
func BookableStarts(courtID string, d Date, now Date, nowClock Clock, blocks []CourtBlock, rs []Reservation) []Interval {
	out := []Interval{}
	if first, last := BookingWindow(now); !d.Between(first, last) {
		return out
	}
	own := courtBlocks(blocks, courtID)
	for _, slot := range BookingSlots() {
		if d.Equal(now) && slot.Start <= nowClock {
			continue
		}
		if _, ok := BlockingReason(own, d, slot); ok {
			continue
		}
		if _, ok := ConflictingReservation(rs, courtID, d, slot); ok {
			continue
		}
		out = append(out, slot)
	}
	return out
}

func courtBlocks(blocks []CourtBlock, courtID string) []CourtBlock {
	out := make([]CourtBlock, 0, len(blocks))
	for _, b := range blocks {
		if b.CourtID == courtID {
			out = append(out, b)
		}
	}
	return out
}
