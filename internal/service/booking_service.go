package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"parkbooking/internal/booking"
	"parkbooking/internal/db"
	"parkbooking/internal/entities"
	apperrors "parkbooking/internal/errors"
	"parkbooking/internal/repository"
	"parkbooking/internal/utils"
)

const (
	ViewUpcoming = "upcoming"
	ViewPast     = "past"
	ViewAll      = "all"
)

type BookingService struct {
	bookings   repository.BookingRepository
	locations  repository.LocationRepository
	users      repository.UserRepository
	notifier   Notifier
	windowDays int
}

func NewBookingService(
	bookings repository.BookingRepository,
	locations repository.LocationRepository,
	users repository.UserRepository,
	notifier Notifier,
	windowDays int,
) *BookingService {
	if windowDays <= 0 {
		windowDays = 7
	}
	return &BookingService{
		bookings:   bookings,
		locations:  locations,
		users:      users,
		notifier:   notifier,
		windowDays: windowDays,
	}
}

func (s *BookingService) Quote(ctx context.Context, req entities.QuoteRequest) (*entities.QuoteResponse, error) {
	if !booking.ValidDuration(req.Duration) {
		return nil, invalidDuration(req.Duration)
	}
	loc, err := s.locations.GetLocation(ctx, req.LocationID)
	if err != nil {
		return nil, err
	}
	q, err := booking.NewQuote(*loc, req.StartTime, req.Duration)
	if err != nil {
		return nil, err
	}
	return &entities.QuoteResponse{
		StartTime:  q.Start.Display(),
		EndTime:    q.End.Display(),
		Duration:   q.Duration,
		HourlyRate: q.HourlyRate,
		Price:      q.Price,
	}, nil
}

// Schedule returns the hourly slots of date at a location.
func (s *BookingService) Schedule(ctx context.Context, locationID, date string, now time.Time) ([]db.TimeSlot, error) {
	loc, err := s.locations.GetLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}
	return s.schedule(ctx, loc, date, now)
}

func (s *BookingService) schedule(ctx context.Context, loc *db.Location, date string, now time.Time) ([]db.TimeSlot, error) {
	if _, err := parseDate(date, now); err != nil {
		return nil, err
	}
	confirmed, err := s.bookings.ListConfirmedForLocationDate(ctx, loc.ID, date)
	if err != nil {
		return nil, err
	}
	return booking.DaySchedule(loc.ID, date, loc.TotalSpots, booking.Occupancy(confirmed), now), nil
}

func (s *BookingService) CheckAvailability(ctx context.Context, req entities.AvailabilityRequest, now time.Time) (*entities.AvailabilityResponse, error) {
	if !booking.ValidDuration(req.Duration) {
		return nil, invalidDuration(req.Duration)
	}
	start, err := booking.ParseClock(req.StartTime)
	if err != nil {
		return nil, err
	}
	loc, err := s.locations.GetLocation(ctx, req.LocationID)
	if err != nil {
		return nil, err
	}
	slots, err := s.schedule(ctx, loc, req.Date, now)
	if err != nil {
		return nil, err
	}
	return checkRange(slots, loc.ID, req.Date, start, req.Duration), nil
}

// checkRange runs the range check over every slot [start, start+d) touches,
// from the slot holding start. Hours past midnight are not checked: the
// booking keeps its calendar date, so they have no slots of their own.
func checkRange(slots []db.TimeSlot, locationID, date string, start booking.Clock, d int) *entities.AvailabilityResponse {
	span := booking.HeldSlots(start, d)
	chosen := booking.SlotID(locationID, date, start.Hour)

	resp := &entities.AvailabilityResponse{IsAvailable: booking.RangeAvailable(slots, chosen, span)}
	if len(slots) == 24 {
		resp.Slots = slots[start.Hour : start.Hour+span]
	}
	if resp.IsAvailable {
		resp.Message = "Slot available"
		return resp
	}
	for _, slot := range resp.Slots {
		if !slot.IsAvailable {
			resp.FirstUnavailableSlot = slot.StartTime
			break
		}
	}
	resp.Message = "Not enough consecutive free hours for the requested duration"
	return resp
}

func (s *BookingService) CreateBooking(ctx context.Context, userID string, req entities.BookingRequest, now time.Time) (*db.Booking, error) {
	if !booking.ValidDuration(req.Duration) {
		return nil, invalidDuration(req.Duration)
	}
	vehicle := utils.NormalizeVehicleNumber(req.VehicleNumber)
	if vehicle == "" {
		return nil, fmt.Errorf("%w: vehicle number is required", apperrors.ErrInvalidInput)
	}
	if err := s.checkBookingWindow(req.Date, now); err != nil {
		return nil, err
	}

	loc, err := s.locations.GetLocation(ctx, req.LocationID)
	if err != nil {
		return nil, err
	}
	q, err := booking.NewQuote(*loc, req.StartTime, req.Duration)
	if err != nil {
		return nil, err
	}

	if req.Date == now.Format(booking.DateLayout) && q.Start.Before(booking.ClockOf(now)) {
		return nil, fmt.Errorf("%w: start time %s has already passed", apperrors.ErrInvalidInput, q.Start.Display())
	}

	slots, err := s.schedule(ctx, loc, req.Date, now)
	if err != nil {
		return nil, err
	}
	if avail := checkRange(slots, loc.ID, req.Date, q.Start, q.Duration); !avail.IsAvailable {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnavailable, avail.Message)
	}

	b := &db.Booking{
		UserID:        userID,
		LocationID:    loc.ID,
		Date:          req.Date,
		StartTime:     q.Start.Display(),
		EndTime:       q.End.Display(),
		VehicleNumber: vehicle,
		Price:         q.Price,
		Status:        db.StatusConfirmed,
		Duration:      q.Duration,
	}
	if err := s.bookings.CreateBooking(ctx, b); err != nil {
		log.Printf("Error creating booking in repository: %v", err)
		return nil, err
	}
	log.Printf("Booking %s confirmed for location %s on %s %s-%s", b.ID, loc.ID, b.Date, b.StartTime, b.EndTime)

	s.notify(ctx, *b, *loc)
	return b, nil
}

func (s *BookingService) ListBookings(ctx context.Context, userID, view string, now time.Time) (*entities.BookingsList, error) {
	if view == "" {
		view = ViewUpcoming
	}
	if view != ViewUpcoming && view != ViewPast && view != ViewAll {
		return nil, fmt.Errorf("%w: unknown view %q", apperrors.ErrInvalidInput, view)
	}

	all, err := s.bookings.ListBookingsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	selected := all
	if view != ViewAll {
		selected = booking.Filter(all, booking.Period(view), now)
	}

	list := &entities.BookingsList{View: view, Bookings: make([]entities.BookingView, 0, len(selected))}
	for _, b := range selected {
		item := entities.BookingView{BookingWithLocation: b, Cancellable: booking.Cancellable(b.Booking, now)}
		if p, ok := booking.View(b.Booking, now); ok {
			item.Period = string(p)
		}
		list.Bookings = append(list.Bookings, item)
	}
	list.Total = len(list.Bookings)
	return list, nil
}

// CancelBooking cancels a booking on behalf of its owner. Cancelling an
// already cancelled booking is a no-op.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, userID string, now time.Time) error {
	b, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if b.UserID != userID {
		return fmt.Errorf("%w: booking %q belongs to another user", apperrors.ErrUnauthorized, bookingID)
	}
	if b.Status == db.StatusCancelled {
		return nil
	}
	if !booking.Cancellable(*b, now) {
		return fmt.Errorf("%w: booking %q has already ended", apperrors.ErrInvalidInput, bookingID)
	}

	if err := s.bookings.SetBookingStatus(ctx, bookingID, userID, db.StatusCancelled); err != nil {
		return err
	}
	b.Status = db.StatusCancelled
	log.Printf("Booking %s cancelled by user %s", bookingID, userID)

	if loc, err := s.locations.GetLocation(ctx, b.LocationID); err == nil {
		s.notify(ctx, *b, *loc)
	}
	return nil
}

// OwnedBooking returns the booking and its location if userID owns it.
func (s *BookingService) OwnedBooking(ctx context.Context, bookingID, userID string) (*db.Booking, *db.Location, error) {
	b, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	if b.UserID != userID {
		return nil, nil, fmt.Errorf("%w: booking %q belongs to another user", apperrors.ErrUnauthorized, bookingID)
	}
	loc, err := s.locations.GetLocation(ctx, b.LocationID)
	if err != nil {
		return nil, nil, err
	}
	return b, loc, nil
}

func (s *BookingService) notify(ctx context.Context, b db.Booking, loc db.Location) {
	if s.notifier == nil {
		return
	}
	user, err := s.users.GetByID(ctx, b.UserID)
	if err != nil {
		log.Printf("Booking %s: could not load user %s for notification: %v", b.ID, b.UserID, err)
		return
	}
	s.notifier.NotifyBooking(ctx, *user, b, loc)
}

// checkBookingWindow accepts dates from today through today+windowDays-1.
func (s *BookingService) checkBookingWindow(date string, now time.Time) error {
	day, err := parseDate(date, now)
	if err != nil {
		return err
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	last := today.AddDate(0, 0, s.windowDays-1)
	if day.Before(today) || day.After(last) {
		return fmt.Errorf("%w: date must be between %s and %s", apperrors.ErrInvalidInput,
			today.Format(booking.DateLayout), last.Format(booking.DateLayout))
	}
	return nil
}

func parseDate(date string, now time.Time) (time.Time, error) {
	day, err := time.ParseInLocation(booking.DateLayout, date, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", apperrors.ErrInvalidInput, date)
	}
	return day, nil
}

func invalidDuration(d int) error {
	return fmt.Errorf("%w: duration %d is not one of %v hours", apperrors.ErrInvalidInput, d, booking.AllowedDurations)
}
