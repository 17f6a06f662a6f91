package booking

import (
	"strconv"
	"strings"
	"time"

	"parkbooking/internal/db"
)

type Period string

const (
	Upcoming Period = "upcoming"
	Past     Period = "past"
)

// Classify places a booking on date ending at endTime relative to now.
//
// Classify never returns an error. Anything it cannot parse (missing end time,
// an end time that is not "H:MM AM/PM", a bad date) yields Past, so a broken
// record is never offered as actionable.
func Classify(date, endTime string, now time.Time) Period {
	if endTime == "" {
		return Past
	}
	day, err := time.ParseInLocation(DateLayout, date, now.Location())
	if err != nil {
		return Past
	}

	y, m, d := now.Date()
	by, bm, bd := day.Date()
	if by != y || bm != m || bd != d {
		if day.After(now) {
			return Upcoming
		}
		return Past
	}

	parts := strings.Split(endTime, " ")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Past
	}
	hm := strings.Split(parts[0], ":")
	if len(hm) != 2 {
		return Past
	}
	hour, err := strconv.Atoi(hm[0])
	if err != nil {
		return Past
	}
	minute, err := strconv.Atoi(hm[1])
	if err != nil {
		return Past
	}

	switch {
	case parts[1] == "PM" && hour != 12:
		hour += 12
	case parts[1] == "AM" && hour == 12:
		hour = 0
	}

	end := time.Date(by, bm, bd, hour, minute, 0, 0, now.Location())
	if end.After(now) {
		return Upcoming
	}
	return Past
}

// View returns the period b is listed under. Cancelled bookings belong to
// neither view and report false.
func View(b db.Booking, now time.Time) (Period, bool) {
	if b.Status == db.StatusCancelled {
		return "", false
	}
	return Classify(b.Date, b.EndTime, now), true
}

// Filter keeps the non-cancelled bookings that fall in period, preserving order.
func Filter(bookings []db.BookingWithLocation, period Period, now time.Time) []db.BookingWithLocation {
	out := make([]db.BookingWithLocation, 0, len(bookings))
	for _, b := range bookings {
		if p, ok := View(b.Booking, now); ok && p == period {
			out = append(out, b)
		}
	}
	return out
}

// Cancellable reports whether b may still be cancelled by its owner.
func Cancellable(b db.Booking, now time.Time) bool {
	p, ok := View(b, now)
	return ok && b.Status == db.StatusConfirmed && p == Upcoming
}
