package db

import (
	"time"

	"gopkg.in/guregu/null.v4"
)

const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Location is a bookable parking facility. HostID is empty for locations
// seeded without an owner.
type Location struct {
	ID             string      `json:"id"`
	HostID         null.String `json:"hostId"`
	Name           string      `json:"name"`
	Address        string      `json:"address"`
	Area           string      `json:"area"`
	TotalSpots     int         `json:"totalSpots"`
	AvailableSpots int         `json:"availableSpots"`
	HourlyRate     float64     `json:"hourlyRate"`
	Coordinates    Coordinates `json:"coordinates"`
	Features       []string    `json:"features"`
	CreatedAt      time.Time   `json:"createdAt"`
}

// TimeSlot is one atomic hour of a location's day. It is computed, never stored.
type TimeSlot struct {
	ID          string `json:"id"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	IsAvailable bool   `json:"isAvailable"`
}

type Booking struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	LocationID    string    `json:"locationId"`
	Date          string    `json:"date"`
	StartTime     string    `json:"startTime"`
	EndTime       string    `json:"endTime"`
	VehicleNumber string    `json:"vehicleNumber"`
	Price         float64   `json:"price"`
	Status        string    `json:"status"`
	Duration      int       `json:"duration"`
	CancelledAt   null.Time `json:"cancelledAt"`
	CreatedAt     time.Time `json:"createdAt"`
}

// BookingWithLocation is a booking joined with a denormalized copy of its location.
type BookingWithLocation struct {
	Booking
	Location Location `json:"location"`
}

type User struct {
	ID           string
	Email        string
	Phone        null.String
	PasswordHash string
	CreatedAt    time.Time
}
