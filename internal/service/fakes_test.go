package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/guregu/null.v4"

	"parkbooking/internal/db"
	apperrors "parkbooking/internal/errors"
	"parkbooking/internal/repository"
)

type memLocations struct {
	mu      sync.Mutex
	byID    map[string]db.Location
	updates map[string]int
}

func newMemLocations(locs ...db.Location) *memLocations {
	m := &memLocations{byID: map[string]db.Location{}, updates: map[string]int{}}
	for _, l := range locs {
		m.byID[l.ID] = l
	}
	return m
}

func (m *memLocations) GetLocation(_ context.Context, id string) (*db.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: location %q", apperrors.ErrNotFound, id)
	}
	return &l, nil
}

func (m *memLocations) ListLocations(_ context.Context, f repository.LocationFilter) ([]db.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []db.Location
	for _, l := range m.byID {
		if f.HostID != "" && l.HostID.String != f.HostID {
			continue
		}
		q := strings.ToLower(f.Search)
		if q != "" && !strings.Contains(strings.ToLower(l.Name), q) && !strings.Contains(strings.ToLower(l.Area), q) {
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memLocations) CreateLocation(_ context.Context, loc *db.Location) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	loc.ID = uuid.NewString()
	m.byID[loc.ID] = *loc
	return nil
}

func (m *memLocations) DeleteLocation(_ context.Context, id, hostID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.byID[id]
	if !ok {
		return fmt.Errorf("%w: location %q", apperrors.ErrNotFound, id)
	}
	if l.HostID.String != hostID {
		return fmt.Errorf("%w: location %q", apperrors.ErrUnauthorized, id)
	}
	delete(m.byID, id)
	return nil
}

func (m *memLocations) UpdateAvailableSpots(_ context.Context, id string, available int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l := m.byID[id]
	l.AvailableSpots = available
	m.byID[id] = l
	m.updates[id]++
	return nil
}

type memBookings struct {
	mu        sync.Mutex
	byID      map[string]db.Booking
	order     []string
	locations *memLocations
}

func newMemBookings(locations *memLocations, bookings ...db.Booking) *memBookings {
	m := &memBookings{byID: map[string]db.Booking{}, locations: locations}
	for _, b := range bookings {
		m.put(b)
	}
	return m
}

func (m *memBookings) put(b db.Booking) {
	if _, ok := m.byID[b.ID]; !ok {
		m.order = append(m.order, b.ID)
	}
	m.byID[b.ID] = b
}

func (m *memBookings) CreateBooking(_ context.Context, b *db.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b.ID = uuid.NewString()
	m.put(*b)
	return nil
}

func (m *memBookings) GetBooking(_ context.Context, id string) (*db.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: booking %q", apperrors.ErrNotFound, id)
	}
	return &b, nil
}

func (m *memBookings) ListBookingsByUser(_ context.Context, userID string) ([]db.BookingWithLocation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []db.BookingWithLocation
	for _, id := range m.order {
		b := m.byID[id]
		if b.UserID != userID {
			continue
		}
		out = append(out, db.BookingWithLocation{Booking: b, Location: m.locations.byID[b.LocationID]})
	}
	return out, nil
}

func (m *memBookings) ListConfirmedForLocationDate(_ context.Context, locationID, date string) ([]db.Booking, error) {
	return m.confirmed(func(b db.Booking) bool { return b.LocationID == locationID && b.Date == date }), nil
}

func (m *memBookings) ListConfirmedForDate(_ context.Context, date string) ([]db.Booking, error) {
	return m.confirmed(func(b db.Booking) bool { return b.Date == date }), nil
}

func (m *memBookings) confirmed(keep func(db.Booking) bool) []db.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []db.Booking
	for _, id := range m.order {
		if b := m.byID[id]; b.Status == db.StatusConfirmed && keep(b) {
			out = append(out, b)
		}
	}
	return out
}

func (m *memBookings) SetBookingStatus(_ context.Context, id, userID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.byID[id]
	if !ok {
		return fmt.Errorf("%w: booking %q", apperrors.ErrNotFound, id)
	}
	if b.UserID != userID {
		return fmt.Errorf("%w: booking %q", apperrors.ErrUnauthorized, id)
	}
	b.Status = status
	m.byID[id] = b
	return nil
}

type memUsers struct {
	mu      sync.Mutex
	byEmail map[string]db.User
}

func newMemUsers(users ...db.User) *memUsers {
	m := &memUsers{byEmail: map[string]db.User{}}
	for _, u := range users {
		m.byEmail[u.Email] = u
	}
	return m
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byEmail {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("%w: user %q", apperrors.ErrNotFound, id)
}

func (m *memUsers) CreateUser(_ context.Context, email, password, phone string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = strings.ToLower(email)
	if _, ok := m.byEmail[email]; ok {
		return nil, fmt.Errorf("%w: email already registered", apperrors.ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}
	u := db.User{ID: uuid.NewString(), Email: email, Phone: null.NewString(phone, phone != ""), PasswordHash: string(hash)}
	m.byEmail[email] = u
	return &u, nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []db.Booking
}

func (n *recordingNotifier) NotifyBooking(_ context.Context, _ db.User, b db.Booking, _ db.Location) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, b)
}
