package entities

type BookingEmailData struct {
	UserEmail     string
	BookingID     string
	LocationName  string
	Address       string
	DateFormatted string
	StartTime     string
	EndTime       string
	VehicleNumber string
	Price         float64
	Status        string
	CurrentYear   int
}
