package entities

type BookingRequest struct {
	LocationID    string `json:"locationId"`
	Date          string `json:"date"`      // YYYY-MM-DD
	StartTime     string `json:"startTime"` // "14:00" or "2:00 PM"
	Duration      int    `json:"duration"`
	VehicleNumber string `json:"vehicleNumber"`
}

type QuoteRequest struct {
	LocationID string `json:"locationId"`
	StartTime  string `json:"startTime"`
	Duration   int    `json:"duration"`
}

type QuoteResponse struct {
	StartTime  string  `json:"startTime"`
	EndTime    string  `json:"endTime"`
	Duration   int     `json:"duration"`
	HourlyRate float64 `json:"hourlyRate"`
	Price      float64 `json:"price"`
}
