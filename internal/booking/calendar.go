package booking

import (
	"fmt"
	"time"
)

type CellState string

const (
	CellReserved    CellState = "reserved"
	CellAvailable   CellState = "available"
	CellUnavailable CellState = "unavailable"
)

type CalendarDay struct {
	Date    Date   `json:"date"`
	DayName string `json:"day_name"`
	Day     int    `json:"day"`
	Today   bool   `json:"today"`
}

type CalendarCell struct {
	Time          Clock     `json:"time"`
	State         CellState `json:"state"`
	ReservationID string    `json:"reservation_id,omitempty"`
	Info          string    `json:"info,omitempty"`
}

type CalendarColumn struct {
	Day   CalendarDay    `json:"day"`
	Cells []CalendarCell `json:"cells"`
}

type CalendarCourt struct {
	CourtID   string           `json:"court_id"`
	CourtName string           `json:"court_name"`
	Days      []CalendarColumn `json:"days"`
}

type WeekCalendar struct {
	WeekStart Date            `json:"week_start"`
	WeekEnd   Date            `json:"week_end"`
	Hours     []Clock         `json:"hours"`
	Courts    []CalendarCourt `json:"courts"`
}

// WeekDays returns Monday..Sunday of the week containing d.
func WeekDays(d, today Date) []CalendarDay {
	monday := d.Monday()
	out := make([]CalendarDay, 0, 7)
	for i := 0; i < 7; i++ {
		day := monday.AddDays(i)
		out = append(out, CalendarDay{
			Date:    day,
			DayName: day.Weekday().String()[:3],
			Day:     day.Day(),
			Today:   day.Equal(today),
		})
	}
	return out
}

// BuildWeek lays out the weekly grid for every court. now decides which
// cells are still in the future.
func BuildWeek(d Date, now time.Time, courts []Court, rs []Reservation, blocks []CourtBlock) WeekCalendar {
	today := DateOf(now)
	days := WeekDays(d, today)
	hours := CalendarHours()
	out := WeekCalendar{
		WeekStart: days[0].Date,
		WeekEnd:   days[6].Date,
		Hours:     hours,
		Courts:    make([]CalendarCourt, 0, len(courts)),
	}
	for _, c := range courts {
		cc := CalendarCourt{CourtID: c.ID, CourtName: c.Name, Days: make([]CalendarColumn, 0, len(days))}
		own := courtBlocks(blocks, c.ID)
		for _, day := range days {
			col := CalendarColumn{Day: day, Cells: make([]CalendarCell, 0, len(hours))}
			for _, h := range hours {
				col.Cells = append(col.Cells, cellFor(c, day.Date, h, now, own, rs))
			}
			cc.Days = append(cc.Days, col)
		}
		out.Courts = append(out.Courts, cc)
	}
	return out
}

func cellFor(c Court, d Date, h Clock, now time.Time, blocks []CourtBlock, rs []Reservation) CalendarCell {
	slot := Interval{Start: h, End: h + 60}
	cell := CalendarCell{Time: h, State: CellUnavailable}
	if r, ok := ConflictingReservation(rs, c.ID, d, slot); ok {
		cell.State = CellReserved
		cell.ReservationID = r.ID
		cell.Info = fmt.Sprintf("Reserved until %s", r.EndTime)
		return cell
	}
	if _, blocked := BlockingReason(blocks, d, slot); blocked {
		return cell
	}
	if c.Available && d.At(int(h), now.Location()).After(now) {
		cell.State = CellAvailable
	}
	return cell
}
