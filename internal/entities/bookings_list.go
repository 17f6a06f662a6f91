package entities

import "parkbooking/internal/db"

// BookingView is a booking as shown in a user's booking list.
type BookingView struct {
	db.BookingWithLocation
	Period      string `json:"period,omitempty"`
	Cancellable bool   `json:"cancellable"`
}

type BookingsList struct {
	View     string        `json:"view"`
	Total    int           `json:"total"`
	Bookings []BookingView `json:"bookings"`
}
