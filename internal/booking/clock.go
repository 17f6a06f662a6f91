// Package booking holds the time and availability rules for parking bookings:
// end-time and price computation, slot-range availability and the
// upcoming/past classification of bookings. Everything here is pure; callers
// pass the current instant in explicitly.
package booking

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "parkbooking/internal/errors"
)

// Clock is a wall-clock time of day. It is the one internal representation
// of booking start/end times; strings are converted at the boundary.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock accepts "HH:MM" (24-hour) or "H:MM AM" / "H:MM PM".
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	timePart, meridiem, has12h := strings.Cut(s, " ")

	hour, minute, err := splitHourMinute(timePart)
	if err != nil {
		return Clock{}, fmt.Errorf("%w: time %q: %v", apperrors.ErrInvalidInput, s, err)
	}

	if !has12h {
		if hour > 23 {
			return Clock{}, fmt.Errorf("%w: time %q: hour out of range", apperrors.ErrInvalidInput, s)
		}
		return Clock{Hour: hour, Minute: minute}, nil
	}

	if hour < 1 || hour > 12 {
		return Clock{}, fmt.Errorf("%w: time %q: hour out of range", apperrors.ErrInvalidInput, s)
	}
	switch meridiem {
	case "AM":
		if hour == 12 {
			hour = 0
		}
	case "PM":
		if hour != 12 {
			hour += 12
		}
	default:
		return Clock{}, fmt.Errorf("%w: time %q: meridiem must be AM or PM", apperrors.ErrInvalidInput, s)
	}
	return Clock{Hour: hour, Minute: minute}, nil
}

func splitHourMinute(s string) (int, int, error) {
	h, m, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("missing ':'")
	}
	hour, err := strconv.Atoi(h)
	if err != nil {
		return 0, 0, fmt.Errorf("hour: %w", err)
	}
	minute, err := strconv.Atoi(m)
	if err != nil {
		return 0, 0, fmt.Errorf("minute: %w", err)
	}
	if hour < 0 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("out of range")
	}
	return hour, minute, nil
}

// AddHours adds d hours modulo 24. Minutes are unchanged.
func (c Clock) AddHours(d int) Clock {
	h := (c.Hour + d) % 24
	if h < 0 {
		h += 24
	}
	return Clock{Hour: h, Minute: c.Minute}
}

// ClockOf returns the wall-clock time of t, dropping seconds.
func ClockOf(t time.Time) Clock {
	return Clock{Hour: t.Hour(), Minute: t.Minute()}
}

// Before reports whether c is earlier in the day than o.
func (c Clock) Before(o Clock) bool {
	return c.Hour < o.Hour || (c.Hour == o.Hour && c.Minute < o.Minute)
}

// String renders the 24-hour form, e.g. "03:00".
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Display renders the stored 12-hour form, e.g. "3:00 AM".
func (c Clock) Display() string {
	meridiem := "AM"
	if c.Hour >= 12 {
		meridiem = "PM"
	}
	h := c.Hour % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d %s", h, c.Minute, meridiem)
}
