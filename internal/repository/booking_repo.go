package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"parkbooking/internal/db"
	apperrors "parkbooking/internal/errors"
)

type BookingRepository interface {
	CreateBooking(ctx context.Context, b *db.Booking) error
	GetBooking(ctx context.Context, id string) (*db.Booking, error)
	ListBookingsByUser(ctx context.Context, userID string) ([]db.BookingWithLocation, error)
	ListConfirmedForLocationDate(ctx context.Context, locationID, date string) ([]db.Booking, error)
	ListConfirmedForDate(ctx context.Context, date string) ([]db.Booking, error)
	SetBookingStatus(ctx context.Context, id, userID, status string) error
}

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) BookingRepository {
	return &bookingRepository{db: db}
}

const bookingColumns = `
	b.id, b.user_id, b.location_id, b.date::text, b.start_time, b.end_time, b.vehicle_number,
	b.price, b.status, b.duration, b.cancelled_at, b.created_at`

func scanBooking(row scanner, b *db.Booking, extra ...any) error {
	dest := []any{
		&b.ID, &b.UserID, &b.LocationID, &b.Date, &b.StartTime, &b.EndTime, &b.VehicleNumber,
		&b.Price, &b.Status, &b.Duration, &b.CancelledAt, &b.CreatedAt,
	}
	return row.Scan(append(dest, extra...)...)
}

// CreateBooking assigns the id and creation time and inserts b.
func (r *bookingRepository) CreateBooking(ctx context.Context, b *db.Booking) error {
	b.ID = uuid.NewString()
	query := `
		INSERT INTO bookings
		(id, user_id, location_id, date, start_time, end_time, vehicle_number, price, status, duration)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query,
		b.ID,
		b.UserID,
		b.LocationID,
		b.Date,
		b.StartTime,
		b.EndTime,
		b.VehicleNumber,
		b.Price,
		b.Status,
		b.Duration,
	).Scan(&b.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return fmt.Errorf("%w: location %q", apperrors.ErrNotFound, b.LocationID)
		}
		return storeErr("inserting booking", err)
	}
	return nil
}

func (r *bookingRepository) GetBooking(ctx context.Context, id string) (*db.Booking, error) {
	if !validID(id) {
		return nil, fmt.Errorf("%w: booking %q", apperrors.ErrNotFound, id)
	}
	var b db.Booking
	err := scanBooking(r.db.QueryRowContext(ctx, `SELECT`+bookingColumns+` FROM bookings b WHERE b.id = $1`, id), &b)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: booking %q", apperrors.ErrNotFound, id)
		}
		return nil, storeErr("querying booking", err)
	}
	return &b, nil
}

// ListBookingsByUser returns every booking of userID joined with its location,
// oldest date first.
func (r *bookingRepository) ListBookingsByUser(ctx context.Context, userID string) ([]db.BookingWithLocation, error) {
	query := `SELECT` + bookingColumns + `,` + locationColumns + `
		FROM bookings b
		JOIN locations l ON l.id = b.location_id
		WHERE b.user_id = $1
		ORDER BY b.date ASC, b.created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, storeErr("querying user bookings", err)
	}
	defer rows.Close()

	bookings := []db.BookingWithLocation{}
	for rows.Next() {
		var bl db.BookingWithLocation
		loc := &bl.Location
		err := scanBooking(rows, &bl.Booking,
			&loc.ID, &loc.HostID, &loc.Name, &loc.Address, &loc.Area, &loc.TotalSpots, &loc.AvailableSpots,
			&loc.HourlyRate, &loc.Coordinates.Lat, &loc.Coordinates.Lng, pq.Array(&loc.Features), &loc.CreatedAt,
		)
		if err != nil {
			return nil, storeErr("scanning user booking", err)
		}
		bookings = append(bookings, bl)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterating user bookings", err)
	}
	return bookings, nil
}

func (r *bookingRepository) ListConfirmedForLocationDate(ctx context.Context, locationID, date string) ([]db.Booking, error) {
	return r.listConfirmed(ctx,
		`SELECT`+bookingColumns+` FROM bookings b WHERE b.status = 'confirmed' AND b.location_id = $1 AND b.date = $2::date`,
		locationID, date)
}

func (r *bookingRepository) ListConfirmedForDate(ctx context.Context, date string) ([]db.Booking, error) {
	return r.listConfirmed(ctx,
		`SELECT`+bookingColumns+` FROM bookings b WHERE b.status = 'confirmed' AND b.date = $1::date`,
		date)
}

func (r *bookingRepository) listConfirmed(ctx context.Context, query string, args ...any) ([]db.Booking, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr("querying confirmed bookings", err)
	}
	defer rows.Close()

	var bookings []db.Booking
	for rows.Next() {
		var b db.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, storeErr("scanning confirmed booking", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterating confirmed bookings", err)
	}
	return bookings, nil
}

// SetBookingStatus moves a confirmed booking owned by userID to status. Only
// the confirmed -> cancelled transition exists. A booking owned by someone
// else is left untouched and reported as ErrUnauthorized; repeating the call on
// an already cancelled booking succeeds without changing it.
func (r *bookingRepository) SetBookingStatus(ctx context.Context, id, userID, status string) error {
	if status != db.StatusCancelled {
		return fmt.Errorf("%w: unsupported status %q", apperrors.ErrInvalidInput, status)
	}
	if !validID(id) {
		return fmt.Errorf("%w: booking %q", apperrors.ErrNotFound, id)
	}

	// The user_id predicate is what keeps a foreign booking untouched; the
	// lookup below only decides how to report a zero-row update.
	result, err := r.db.ExecContext(ctx, `
		UPDATE bookings SET status = $3, cancelled_at = NOW()
		WHERE id = $1 AND user_id = $2 AND status = 'confirmed'`,
		id, userID, status)
	if err != nil {
		return storeErr("updating booking status", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return storeErr("reading updated booking count", err)
	}
	if n > 0 {
		return nil
	}

	current, err := r.GetBooking(ctx, id)
	if err != nil {
		return err
	}
	if current.UserID != userID {
		return fmt.Errorf("%w: booking %q belongs to another user", apperrors.ErrUnauthorized, id)
	}
	return nil
}
