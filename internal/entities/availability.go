package entities

import "parkbooking/internal/db"

type AvailabilityRequest struct {
	LocationID string `json:"locationId"`
	Date       string `json:"date"`
	StartTime  string `json:"startTime"`
	Duration   int    `json:"duration"`
}

type AvailabilityResponse struct {
	IsAvailable          bool          `json:"isAvailable"`
	Message              string        `json:"message,omitempty"`
	Slots                []db.TimeSlot `json:"slots,omitempty"`
	FirstUnavailableSlot string        `json:"firstUnavailableSlot,omitempty"`
}

type ScheduleResponse struct {
	LocationID string        `json:"locationId"`
	Date       string        `json:"date"`
	Slots      []db.TimeSlot `json:"slots"`
}
