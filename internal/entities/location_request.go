package entities

import (
	"fmt"
	"strings"

	"gopkg.in/guregu/null.v4"

	"parkbooking/internal/db"
	apperrors "parkbooking/internal/errors"
)

// Defaults used by the host dashboard form.
const (
	DefaultHourlyRate = 40
	DefaultLat        = 12.9716
	DefaultLng        = 77.5946
)

// LocationRequest is the host-side payload for creating a location. Clients
// send the rate as either hourlyRate or hourly_rate.
type LocationRequest struct {
	Name            string          `json:"name"`
	Address         string          `json:"address"`
	Area            string          `json:"area"`
	TotalSpots      int             `json:"totalSpots"`
	AvailableSpots  *int            `json:"availableSpots"`
	HourlyRate      *float64        `json:"hourlyRate"`
	HourlyRateSnake *float64        `json:"hourly_rate"`
	Coordinates     *db.Coordinates `json:"coordinates"`
	Features        []string        `json:"features"`
}

// Rate reconciles the two rate fields. hourly_rate wins when both are set.
func (r LocationRequest) Rate() float64 {
	switch {
	case r.HourlyRateSnake != nil && *r.HourlyRateSnake != 0:
		return *r.HourlyRateSnake
	case r.HourlyRate != nil:
		return *r.HourlyRate
	default:
		return DefaultHourlyRate
	}
}

// ToLocation validates the request and maps it onto a Location owned by hostID.
func (r LocationRequest) ToLocation(hostID string) (db.Location, error) {
	loc := db.Location{
		HostID:     null.StringFrom(hostID),
		Name:       strings.TrimSpace(r.Name),
		Address:    strings.TrimSpace(r.Address),
		Area:       strings.TrimSpace(r.Area),
		TotalSpots: r.TotalSpots,
		HourlyRate: r.Rate(),
		Features:   r.Features,
	}
	if loc.Name == "" || loc.Address == "" || loc.Area == "" {
		return db.Location{}, fmt.Errorf("%w: name, address and area are required", apperrors.ErrInvalidInput)
	}
	if loc.TotalSpots < 1 {
		return db.Location{}, fmt.Errorf("%w: totalSpots must be at least 1", apperrors.ErrInvalidInput)
	}
	loc.AvailableSpots = loc.TotalSpots
	if r.AvailableSpots != nil {
		loc.AvailableSpots = *r.AvailableSpots
	}
	if loc.AvailableSpots < 0 || loc.AvailableSpots > loc.TotalSpots {
		return db.Location{}, fmt.Errorf("%w: availableSpots must be between 0 and totalSpots", apperrors.ErrInvalidInput)
	}
	if loc.HourlyRate <= 0 {
		return db.Location{}, fmt.Errorf("%w: hourly rate must be positive", apperrors.ErrInvalidInput)
	}
	loc.Coordinates = db.Coordinates{Lat: DefaultLat, Lng: DefaultLng}
	if r.Coordinates != nil {
		loc.Coordinates = *r.Coordinates
	}
	if loc.Features == nil {
		loc.Features = []string{}
	}
	return loc, nil
}
