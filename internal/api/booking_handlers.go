package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"parkbooking/internal/booking"
	"parkbooking/internal/db"
	"parkbooking/internal/entities"
	apperrors "parkbooking/internal/errors"
)

type BookingService interface {
	Quote(ctx context.Context, req entities.QuoteRequest) (*entities.QuoteResponse, error)
	Schedule(ctx context.Context, locationID, date string, now time.Time) ([]db.TimeSlot, error)
	CheckAvailability(ctx context.Context, req entities.AvailabilityRequest, now time.Time) (*entities.AvailabilityResponse, error)
	CreateBooking(ctx context.Context, userID string, req entities.BookingRequest, now time.Time) (*db.Booking, error)
	ListBookings(ctx context.Context, userID, view string, now time.Time) (*entities.BookingsList, error)
	CancelBooking(ctx context.Context, bookingID, userID string, now time.Time) error
	Receipt(ctx context.Context, bookingID, userID string) ([]byte, error)
}

type BookingHandler struct {
	Service BookingService
	Now     func() time.Time
}

func NewBookingHandler(svc BookingService) *BookingHandler {
	return &BookingHandler{Service: svc, Now: time.Now}
}

func (h *BookingHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req entities.QuoteRequest
	if err := decodeJSON(r, &req); err != nil {
		apperrors.WriteError(w, err)
		return
	}
	quote, err := h.Service.Quote(r.Context(), req)
	if err != nil {
		apperrors.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

// Schedule lists the hourly slots of ?date= (default today) at a location.
func (h *BookingHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	now := h.Now()
	locationID := mux.Vars(r)["id"]
	date := r.URL.Query().Get("date")
	if date == "" {
		date = now.Format(booking.DateLayout)
	}
	slots, err := h.Service.Schedule(r.Context(), locationID, date, now)
	if err != nil {
		apperrors.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entities.ScheduleResponse{LocationID: locationID, Date: date, Slots: slots})
}

func (h *BookingHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	var req entities.AvailabilityRequest
	if err := decodeJSON(r, &req); err != nil {
		apperrors.WriteError(w, err)
		return
	}
	resp, err := h.Service.CheckAvailability(r.Context(), req, h.Now())
	if err != nil {
		apperrors.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	var req entities.BookingRequest
	if err := decodeJSON(r, &req); err != nil {
		apperrors.WriteError(w, err)
		return
	}
	b, err := h.Service.CreateBooking(r.Context(), userID, req, h.Now())
	if err != nil {
		apperrors.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	list, err := h.Service.ListBookings(r.Context(), userID, r.URL.Query().Get("view"), h.Now())
	if err != nil {
		apperrors.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	if err := h.Service.CancelBooking(r.Context(), mux.Vars(r)["id"], userID, h.Now()); err != nil {
		apperrors.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Booking cancelled"})
}

func (h *BookingHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	bookingID := mux.Vars(r)["id"]
	pdf, err := h.Service.Receipt(r.Context(), bookingID, userID)
	if err != nil {
		apperrors.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"booking-%s.pdf\"", bookingID))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}
