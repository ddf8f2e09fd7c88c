package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = NewDate(2026, 3, 10)

func timedBlock(court string, from, to Date, start, end Clock, reason string) CourtBlock {
	return CourtBlock{
		CourtID: court, StartDate: from, EndDate: to,
		StartTime: SomeClock(start), EndTime: SomeClock(end),
		Reason: reason, Type: BlockEvent,
	}
}

func TestBlockCoversDateRange(t *testing.T) {
	b := CourtBlock{CourtID: "1", StartDate: day, EndDate: day.AddDays(2), AllDay: true}
	assert.False(t, b.Covers(day.AddDays(-1)))
	assert.True(t, b.Covers(day))
	assert.True(t, b.Covers(day.AddDays(2)))
	assert.False(t, b.Covers(day.AddDays(3)))
}

func TestAllDayBlockBlocksEverySlot(t *testing.T) {
	b := CourtBlock{CourtID: "1", StartDate: day, EndDate: day, AllDay: true, Reason: "Scheduled maintenance"}
	av := DayAvailability("1", day, []CourtBlock{b}, nil)
	assert.Empty(t, av.AvailableSlots)
	require.Len(t, av.BlockedSlots, 14)
	for _, s := range av.BlockedSlots {
		assert.Equal(t, "Scheduled maintenance", s.BlockReason)
	}
}

func TestTimedBlockOverlap(t *testing.T) {
	b := timedBlock("1", day, day, ClockAt(10, 30), ClockAt(12, 0), "Kids clinic")
	av := DayAvailability("1", day, []CourtBlock{b}, nil)
	blocked := []string{}
	for _, s := range av.BlockedSlots {
		blocked = append(blocked, s.StartTime.String())
	}
	assert.Equal(t, []string{"10:00", "11:00"}, blocked)
	assert.Len(t, av.AvailableSlots, 12)
}

func TestOvernightBlockWraps(t *testing.T) {
	b := timedBlock("2", day, day.AddDays(1), ClockAt(22, 0), ClockAt(6, 0), "New Year event")
	assert.True(t, b.Blocks(day, Interval{Start: ClockAt(22, 0), End: ClockAt(23, 0)}))
	assert.True(t, b.Blocks(day, Interval{Start: ClockAt(5, 0), End: ClockAt(6, 0)}))
	assert.False(t, b.Blocks(day, Interval{Start: ClockAt(8, 0), End: ClockAt(9, 0)}))

	av := DayAvailability("2", day, []CourtBlock{b}, nil)
	assert.Empty(t, av.BlockedSlots, "grid ends at 22:00 so nothing on it is taken")
}

func TestTimedBlockWithoutTimesBlocksNothing(t *testing.T) {
	b := CourtBlock{CourtID: "1", StartDate: day, EndDate: day, StartTime: SomeClock(ClockAt(9, 0))}
	assert.False(t, b.Blocks(day, Interval{Start: ClockAt(9, 0), End: ClockAt(10, 0)}))
}

func TestBlocksOfOtherCourtsIgnored(t *testing.T) {
	b := CourtBlock{CourtID: "2", StartDate: day, EndDate: day, AllDay: true, Reason: "closed"}
	av := DayAvailability("1", day, []CourtBlock{b}, nil)
	assert.Empty(t, av.BlockedSlots)
}

func TestReservationsTakeSlots(t *testing.T) {
	rs := []Reservation{
		{ID: "a", CourtID: "1", Date: day, StartTime: ClockAt(9, 30), EndTime: ClockAt(11, 0), Status: StatusConfirmed},
		{ID: "b", CourtID: "1", Date: day, StartTime: ClockAt(14, 0), EndTime: ClockAt(15, 30), Status: StatusCancelled},
		{ID: "c", CourtID: "1", Date: day.AddDays(1), StartTime: ClockAt(8, 0), EndTime: ClockAt(9, 30), Status: StatusConfirmed},
	}
	av := DayAvailability("1", day, nil, rs)
	blocked := []string{}
	for _, s := range av.BlockedSlots {
		blocked = append(blocked, s.StartTime.String())
		assert.Equal(t, ReservedReason, s.BlockReason)
	}
	assert.Equal(t, []string{"09:00", "10:00"}, blocked)
}

func TestBookableStarts(t *testing.T) {
	rs := []Reservation{
		{CourtID: "1", Date: day, StartTime: ClockAt(9, 30), EndTime: ClockAt(11, 0), Status: StatusConfirmed},
	}
	blocks := []CourtBlock{timedBlock("1", day, day, ClockAt(17, 0), ClockAt(18, 0), "League night")}

	got := BookableStarts("1", day, day.AddDays(-1), 0, blocks, rs)
	starts := []string{}
	for _, s := range got {
		starts = append(starts, s.Start.String())
	}
	assert.Equal(t, []string{"08:00", "11:00", "12:30", "14:00", "15:30", "18:30"}, starts)
}

func TestBookableStartsDropsPastSlotsToday(t *testing.T) {
	got := BookableStarts("1", day, day, ClockAt(12, 30), nil, nil)
	require.NotEmpty(t, got)
	assert.Equal(t, "14:00", got[0].Start.String())

	assert.Empty(t, BookableStarts("1", day, day.AddDays(1), 0, nil, nil))
}

func TestBookableStartsStayInsideBookingWindow(t *testing.T) {
	today := day
	_, last := BookingWindow(today)

	assert.Len(t, BookableStarts("1", last, today, 0, nil, nil), len(BookingSlots()))
	assert.Empty(t, BookableStarts("1", last.AddDays(1), today, 0, nil, nil))
	assert.Empty(t, BookableStarts("1", today.AddMonths(6), today, 0, nil, nil))
}

func TestConflictingReservationIgnoresCancelled(t *testing.T) {
	slot := Interval{Start: ClockAt(10, 0), End: ClockAt(11, 30)}
	rs := []Reservation{{CourtID: "1", Date: day, StartTime: ClockAt(10, 0), EndTime: ClockAt(11, 30), Status: StatusCancelled}}
	_, ok := ConflictingReservation(rs, "1", day, slot)
	assert.False(t, ok)

	rs[0].Status = StatusPending
	_, ok = ConflictingReservation(rs, "1", day, slot)
	assert.True(t, ok)
}
