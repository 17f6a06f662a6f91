package booking

import (
	"fmt"
	"time"

	"parkbooking/internal/db"
)

const (
	DateLayout  = "2006-01-02"
	hoursPerDay = 24
)

// RangeAvailable reports whether the slot chosenID and the d-1 slots after it
// are all available. Slots missing past the end of the day count as
// unavailable, as does an unknown chosenID.
func RangeAvailable(slots []db.TimeSlot, chosenID string, d int) bool {
	start := -1
	for i, s := range slots {
		if s.ID == chosenID {
			start = i
			break
		}
	}
	if start < 0 || d < 1 {
		return false
	}
	if start+d > len(slots) {
		return false
	}
	for _, s := range slots[start : start+d] {
		if !s.IsAvailable {
			return false
		}
	}
	return true
}

// HeldSlots is the number of hourly slots of the booking date touched by
// [start, start+d). A start off the hour touches one slot more than d. Slots
// past midnight are not counted because the booking date is never rolled
// forward.
func HeldSlots(start Clock, d int) int {
	if d < 1 {
		return 0
	}
	n := d
	if start.Minute > 0 {
		n++
	}
	if left := hoursPerDay - start.Hour; n > left {
		n = left
	}
	return n
}

// Occupancy counts, per hour of the day, the confirmed bookings holding a
// spot. A booking holds the HeldSlots slots from start.Hour onward.
func Occupancy(bookings []db.Booking) [hoursPerDay]int {
	var occ [hoursPerDay]int
	for _, b := range bookings {
		if b.Status != db.StatusConfirmed {
			continue
		}
		start, err := ParseClock(b.StartTime)
		if err != nil {
			continue
		}
		end := start.Hour + HeldSlots(start, b.Duration)
		for h := start.Hour; h < end; h++ {
			occ[h]++
		}
	}
	return occ
}

// SlotID is the identifier of the hour-long slot starting at hour on date.
func SlotID(locationID, date string, hour int) string {
	return fmt.Sprintf("%s:%s:%02d", locationID, date, hour)
}

// DaySchedule builds the 24 contiguous hourly slots of date for a location.
// A slot is available while fewer than totalSpots bookings hold it and it has
// not already ended.
func DaySchedule(locationID, date string, totalSpots int, occ [hoursPerDay]int, now time.Time) []db.TimeSlot {
	day, err := time.ParseInLocation(DateLayout, date, now.Location())
	if err != nil {
		return nil
	}

	slots := make([]db.TimeSlot, 0, hoursPerDay)
	for h := 0; h < hoursPerDay; h++ {
		start := Clock{Hour: h}
		end := start.AddHours(1)
		slotEnd := day.Add(time.Duration(h+1) * time.Hour)

		slots = append(slots, db.TimeSlot{
			ID:          SlotID(locationID, date, h),
			StartTime:   start.Display(),
			EndTime:     end.Display(),
			IsAvailable: occ[h] < totalSpots && slotEnd.After(now),
		})
	}
	return slots
}
