package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekDaysStartOnMonday(t *testing.T) {
	// 2026-03-12 is a Thursday.
	days := WeekDays(NewDate(2026, 3, 12), NewDate(2026, 3, 12))
	require.Len(t, days, 7)
	assert.Equal(t, "2026-03-09", days[0].Date.String())
	assert.Equal(t, "Mon", days[0].DayName)
	assert.Equal(t, "Sun", days[6].DayName)
	assert.Equal(t, 15, days[6].Day)
	assert.True(t, days[3].Today)
	assert.False(t, days[0].Today)

	sunday := WeekDays(NewDate(2026, 3, 15), NewDate(2026, 3, 12))
	assert.Equal(t, "2026-03-09", sunday[0].Date.String())
}

func TestBuildWeek(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 15, 0, 0, time.UTC)
	courts := []Court{
		{ID: "1", Name: "Central Court", Available: true},
		{ID: "2", Name: "Court 2", Available: false},
	}
	rs := []Reservation{
		{ID: "r1", CourtID: "1", Date: NewDate(2026, 3, 11), StartTime: ClockAt(9, 30), EndTime: ClockAt(11, 0), Status: StatusConfirmed},
		{ID: "r2", CourtID: "1", Date: NewDate(2026, 3, 11), StartTime: ClockAt(14, 0), EndTime: ClockAt(15, 30), Status: StatusCancelled},
	}
	blocks := []CourtBlock{
		{CourtID: "1", StartDate: NewDate(2026, 3, 12), EndDate: NewDate(2026, 3, 12), AllDay: true, Reason: "Resurfacing"},
	}

	wk := BuildWeek(NewDate(2026, 3, 10), now, courts, rs, blocks)
	assert.Equal(t, "2026-03-09", wk.WeekStart.String())
	assert.Equal(t, "2026-03-15", wk.WeekEnd.String())
	require.Len(t, wk.Hours, 15)
	require.Len(t, wk.Courts, 2)

	central := wk.Courts[0]
	require.Len(t, central.Days, 7)
	cell := func(dayIdx int, h Clock) CalendarCell {
		for _, c := range central.Days[dayIdx].Cells {
			if c.Time == h {
				return c
			}
		}
		t.Fatalf("no cell at %s", h)
		return CalendarCell{}
	}

	wed := 2
	assert.Equal(t, CellReserved, cell(wed, ClockAt(9, 0)).State)
	assert.Equal(t, "r1", cell(wed, ClockAt(10, 0)).ReservationID)
	assert.Equal(t, "Reserved until 11:00", cell(wed, ClockAt(10, 0)).Info)
	assert.Equal(t, CellAvailable, cell(wed, ClockAt(11, 0)).State)
	assert.Equal(t, CellAvailable, cell(wed, ClockAt(14, 0)).State, "cancelled bookings free the slot")

	tue := 1
	assert.Equal(t, CellUnavailable, cell(tue, ClockAt(12, 0)).State, "slot already started")
	assert.Equal(t, CellAvailable, cell(tue, ClockAt(13, 0)).State)

	thu := 3
	assert.Equal(t, CellUnavailable, cell(thu, ClockAt(15, 0)).State, "blocked all day")

	for _, col := range wk.Courts[1].Days {
		for _, c := range col.Cells {
			assert.Equal(t, CellUnavailable, c.State)
		}
	}
}
