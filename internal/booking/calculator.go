package booking

import (
	"fmt"
	"math"

	"parkbooking/internal/db"
	apperrors "parkbooking/internal/errors"
)

// AllowedDurations are the whole-hour durations a booking may request.
var AllowedDurations = []int{1, 2, 3, 4, 5, 6, 8, 12, 24}

// ValidDuration reports whether d is one of AllowedDurations.
func ValidDuration(d int) bool {
	for _, allowed := range AllowedDurations {
		if d == allowed {
			return true
		}
	}
	return false
}

// EndTime adds d hours to start with 24-hour wraparound. The calendar date of
// the booking is never rolled forward, so 23:00 for 4 hours ends at 03:00 on
// the same date field.
func EndTime(start Clock, d int) (Clock, error) {
	if d < 1 {
		return Clock{}, fmt.Errorf("%w: duration must be at least 1 hour, got %d", apperrors.ErrInvalidInput, d)
	}
	return start.AddHours(d), nil
}

// Price is hourlyRate × d. The result is snapshotted on the booking.
func Price(hourlyRate float64, d int) (float64, error) {
	if math.IsNaN(hourlyRate) || hourlyRate <= 0 {
		return 0, fmt.Errorf("%w: invalid hourly rate for this location", apperrors.ErrInvalidInput)
	}
	price := hourlyRate * float64(d)
	if math.IsInf(price, 0) || math.IsNaN(price) || price <= 0 {
		return 0, fmt.Errorf("%w: invalid price calculation", apperrors.ErrInvalidInput)
	}
	return price, nil
}

// Quote is the computed end time and price of a prospective booking.
type Quote struct {
	Start      Clock
	End        Clock
	Duration   int
	HourlyRate float64
	Price      float64
}

// NewQuote computes end time and price for booking loc from start for d hours.
func NewQuote(loc db.Location, start string, d int) (Quote, error) {
	clock, err := ParseClock(start)
	if err != nil {
		return Quote{}, err
	}
	end, err := EndTime(clock, d)
	if err != nil {
		return Quote{}, err
	}
	price, err := Price(loc.HourlyRate, d)
	if err != nil {
		return Quote{}, err
	}
	return Quote{
		Start:      clock,
		End:        end,
		Duration:   d,
		HourlyRate: loc.HourlyRate,
		Price:      price,
	}, nil
}
