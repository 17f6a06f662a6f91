package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkbooking/internal/auth"
	"parkbooking/internal/db"
	"parkbooking/internal/entities"
	apperrors "parkbooking/internal/errors"
)

const testSecret = "handler-secret"

var fixedNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

type stubBookings struct {
	userID string
	view   string
	date   string
	now    time.Time
	err    error
}

func (s *stubBookings) Quote(_ context.Context, req entities.QuoteRequest) (*entities.QuoteResponse, error) {
	return &entities.QuoteResponse{StartTime: req.StartTime, Duration: req.Duration}, s.err
}

func (s *stubBookings) Schedule(_ context.Context, _, date string, now time.Time) ([]db.TimeSlot, error) {
	s.date, s.now = date, now
	return []db.TimeSlot{{ID: "slot", StartTime: "12:00 AM", EndTime: "1:00 AM"}}, s.err
}

func (s *stubBookings) CheckAvailability(_ context.Context, _ entities.AvailabilityRequest, now time.Time) (*entities.AvailabilityResponse, error) {
	s.now = now
	return &entities.AvailabilityResponse{IsAvailable: true}, s.err
}

func (s *stubBookings) CreateBooking(_ context.Context, userID string, req entities.BookingRequest, now time.Time) (*db.Booking, error) {
	s.userID, s.now = userID, now
	if s.err != nil {
		return nil, s.err
	}
	return &db.Booking{ID: "b-1", UserID: userID, Date: req.Date, Status: db.StatusConfirmed}, nil
}

func (s *stubBookings) ListBookings(_ context.Context, userID, view string, _ time.Time) (*entities.BookingsList, error) {
	s.userID, s.view = userID, view
	return &entities.BookingsList{View: view, Bookings: []entities.BookingView{}}, s.err
}

func (s *stubBookings) CancelBooking(_ context.Context, _, userID string, _ time.Time) error {
	s.userID = userID
	return s.err
}

func (s *stubBookings) Receipt(_ context.Context, _, userID string) ([]byte, error) {
	s.userID = userID
	return []byte("%PDF-1.3 test"), s.err
}

type stubLocations struct {
	hostID string
	search string
	err    error
}

func (s *stubLocations) ListLocations(_ context.Context, search string) ([]db.Location, error) {
	s.search = search
	return nil, s.err
}

func (s *stubLocations) GetLocation(_ context.Context, id string) (*db.Location, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &db.Location{ID: id}, nil
}

func (s *stubLocations) ListHostLocations(_ context.Context, hostID string) ([]db.Location, error) {
	s.hostID = hostID
	return []db.Location{{ID: "l-1"}}, s.err
}

func (s *stubLocations) CreateLocation(_ context.Context, hostID string, req entities.LocationRequest) (*db.Location, error) {
	s.hostID = hostID
	return &db.Location{ID: "l-new", Name: req.Name}, s.err
}

func (s *stubLocations) DeleteLocation(_ context.Context, _, hostID string) error {
	s.hostID = hostID
	return s.err
}

type stubAuth struct{}

func (stubAuth) Signup(context.Context, entities.SignupRequest) (*entities.TokenResponse, error) {
	return &entities.TokenResponse{Token: "t", UserID: "u"}, nil
}

func (stubAuth) Login(_ context.Context, email, _ string) (*entities.TokenResponse, error) {
	if email != "driver@example.com" {
		return nil, apperrors.ErrUnauthorizedHTTP("invalid credentials")
	}
	return &entities.TokenResponse{Token: "t", UserID: "u"}, nil
}

func newTestRouter(bookings *stubBookings, locations *stubLocations) http.Handler {
	bh := NewBookingHandler(bookings)
	bh.Now = func() time.Time { return fixedNow }
	return NewRouter(NewAuthHandler(stubAuth{}), NewLocationHandler(locations), bh, testSecret)
}

func do(t *testing.T, h http.Handler, method, path, body, userID string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		token, err := auth.IssueToken(testSecret, userID, userID+"@example.com", time.Hour, time.Now())
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorKind(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	h := newTestRouter(&stubBookings{}, &stubLocations{})

	for _, route := range [][2]string{
		{"POST", "/api/bookings"},
		{"GET", "/api/bookings"},
		{"DELETE", "/api/bookings/b-1"},
		{"GET", "/api/bookings/b-1/receipt"},
		{"GET", "/api/host/locations"},
	} {
		rec := do(t, h, route[0], route[1], "{}", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, route[1])
	}

	req := httptest.NewRequest("GET", "/api/bookings", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateBookingHandler(t *testing.T) {
	bookings := &stubBookings{}
	h := newTestRouter(bookings, &stubLocations{})

	rec := do(t, h, "POST", "/api/bookings", `{"locationId":"l-1","date":"2026-10-15","startTime":"14:00","duration":2,"vehicleNumber":"KA01"}`, "user-1")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "user-1", bookings.userID)
	assert.Equal(t, fixedNow, bookings.now)

	var b db.Booking
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
	assert.Equal(t, "b-1", b.ID)

	rec = do(t, h, "POST", "/api/bookings", `{not json`, "user-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	bookings.err = fmt.Errorf("%w: taken", apperrors.ErrUnavailable)
	rec = do(t, h, "POST", "/api/bookings", `{}`, "user-1")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "unavailable", errorKind(t, rec))
}

func TestCancelBookingHandlerMapsErrors(t *testing.T) {
	bookings := &stubBookings{}
	h := newTestRouter(bookings, &stubLocations{})

	rec := do(t, h, "DELETE", "/api/bookings/b-1", "", "user-1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", bookings.userID)

	bookings.err = fmt.Errorf("%w: not yours", apperrors.ErrUnauthorized)
	rec = do(t, h, "DELETE", "/api/bookings/b-1", "", "user-2")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "unauthorized", errorKind(t, rec))

	bookings.err = fmt.Errorf("%w: booking", apperrors.ErrNotFound)
	rec = do(t, h, "DELETE", "/api/bookings/b-1", "", "user-1")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	bookings.err = fmt.Errorf("%w: pq: connection refused", apperrors.ErrStoreFailure)
	rec = do(t, h, "DELETE", "/api/bookings/b-1", "", "user-1")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestListBookingsPassesView(t *testing.T) {
	bookings := &stubBookings{}
	h := newTestRouter(bookings, &stubLocations{})

	rec := do(t, h, "GET", "/api/bookings?view=past", "", "user-1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "past", bookings.view)
	assert.Equal(t, "user-1", bookings.userID)
}

func TestScheduleDefaultsToToday(t *testing.T) {
	bookings := &stubBookings{}
	h := newTestRouter(bookings, &stubLocations{})

	rec := do(t, h, "GET", "/api/locations/l-1/slots", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2026-10-15", bookings.date)

	var resp entities.ScheduleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "l-1", resp.LocationID)
	assert.Len(t, resp.Slots, 1)

	do(t, h, "GET", "/api/locations/l-1/slots?date=2026-10-17", "", "")
	assert.Equal(t, "2026-10-17", bookings.date)
}

func TestPublicBookingEndpoints(t *testing.T) {
	bookings := &stubBookings{}
	h := newTestRouter(bookings, &stubLocations{})

	rec := do(t, h, "POST", "/api/availability", `{"locationId":"l-1","date":"2026-10-15","startTime":"14:00","duration":2}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, fixedNow, bookings.now)

	rec = do(t, h, "POST", "/api/quote", `{"locationId":"l-1","startTime":"14:00","duration":2}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, "POST", "/api/availability", `[`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReceiptHandler(t *testing.T) {
	bookings := &stubBookings{}
	h := newTestRouter(bookings, &stubLocations{})

	rec := do(t, h, "GET", "/api/bookings/b-1/receipt", "", "user-1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "booking-b-1.pdf")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))
}

func TestLocationHandlers(t *testing.T) {
	locations := &stubLocations{}
	h := newTestRouter(&stubBookings{}, locations)

	rec := do(t, h, "GET", "/api/locations?q=central", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "central", locations.search)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, h, "POST", "/api/host/locations", `{"name":"Lot","totalSpots":4}`, "host-1")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "host-1", locations.hostID)

	rec = do(t, h, "DELETE", "/api/host/locations/l-1", "", "host-2")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "host-2", locations.hostID)

	locations.err = fmt.Errorf("%w: location", apperrors.ErrNotFound)
	rec = do(t, h, "GET", "/api/locations/missing", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuthHandlers(t *testing.T) {
	h := newTestRouter(&stubBookings{}, &stubLocations{})

	rec := do(t, h, "POST", "/api/auth/signup", `{"email":"a@example.com","password":"secret1"}`, "")
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, "POST", "/api/auth/login", `{"email":"driver@example.com","password":"x"}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, "POST", "/api/auth/login", `{"email":"else@example.com","password":"x"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWithMiddlewareAllowsConfiguredOrigin(t *testing.T) {
	h := WithMiddleware(newTestRouter(&stubBookings{}, &stubLocations{}), []string{"http://localhost:5173"})

	req := httptest.NewRequest("GET", "/api/locations", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}
