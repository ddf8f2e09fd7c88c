package booking

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Clock is a time of day in minutes since midnight. 24:00 (1440) is allowed
// as an end-of-day bound.
type Clock int

const (
	MinutesPerDay       = 24 * 60
	EndOfDay      Clock = MinutesPerDay
)

func ClockAt(hour, minute int) Clock { return Clock(hour*60 + minute) }

// ParseClock accepts "H:MM" and "HH:MM".
func ParseClock(s string) (Clock, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(hh) == 0 || len(hh) > 2 || len(mm) != 2 || !digits(hh) || !digits(mm) {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	if h < 0 || h > 24 || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("invalid time %q: out of range", s)
	}
	return ClockAt(h, m), nil
}

func digits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func (c Clock) Hour() int   { return int(c) / 60 }
func (c Clock) Minute() int { return int(c) % 60 }

func (c Clock) String() string { return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute()) }

func (c Clock) MarshalJSON() ([]byte, error) { return json.Marshal(c.String()) }

func (c *Clock) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	p, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = p
	return nil
}

func (c Clock) Value() (driver.Value, error) { return c.String(), nil }

func (c *Clock) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Clock", src)
	}
	p, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = p
	return nil
}

// OptionalClock is a Clock that may be absent (timed court blocks).
type OptionalClock struct {
	Clock Clock
	Valid bool
}

func SomeClock(c Clock) OptionalClock { return OptionalClock{Clock: c, Valid: true} }

func (o OptionalClock) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return o.Clock.MarshalJSON()
}

func (o *OptionalClock) UnmarshalJSON(b []byte) error {
	if string(b) == "null" || string(b) == `""` {
		*o = OptionalClock{}
		return nil
	}
	if err := o.Clock.UnmarshalJSON(b); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

func (o OptionalClock) Value() (driver.Value, error) {
	if !o.Valid {
		return nil, nil
	}
	return o.Clock.String(), nil
}

func (o *OptionalClock) Scan(src any) error {
	if src == nil {
		*o = OptionalClock{}
		return nil
	}
	if err := o.Clock.Scan(src); err != nil {
		return err
	}
	o.Valid = true
	return nil
}
