package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"parkbooking/internal/db"
	apperrors "parkbooking/internal/errors"
)

// LocationFilter narrows ListLocations. Zero values match everything.
type LocationFilter struct {
	Search string // matched against name or area, case-insensitive
	HostID string
}

type LocationRepository interface {
	GetLocation(ctx context.Context, id string) (*db.Location, error)
	ListLocations(ctx context.Context, filter LocationFilter) ([]db.Location, error)
	CreateLocation(ctx context.Context, loc *db.Location) error
	DeleteLocation(ctx context.Context, id, hostID string) error
	UpdateAvailableSpots(ctx context.Context, id string, available int) error
}

type locationRepository struct {
	db *sql.DB
}

func NewLocationRepository(db *sql.DB) LocationRepository {
	return &locationRepository{db: db}
}

const locationColumns = `
	l.id, l.host_id, l.name, l.address, l.area, l.total_spots, l.available_spots,
	l.hourly_rate, l.lat, l.lng, l.features, l.created_at`

func scanLocation(row scanner, loc *db.Location) error {
	return row.Scan(
		&loc.ID, &loc.HostID, &loc.Name, &loc.Address, &loc.Area, &loc.TotalSpots, &loc.AvailableSpots,
		&loc.HourlyRate, &loc.Coordinates.Lat, &loc.Coordinates.Lng, pq.Array(&loc.Features), &loc.CreatedAt,
	)
}

func (r *locationRepository) GetLocation(ctx context.Context, id string) (*db.Location, error) {
	if !validID(id) {
		return nil, fmt.Errorf("%w: location %q", apperrors.ErrNotFound, id)
	}
	var loc db.Location
	err := scanLocation(r.db.QueryRowContext(ctx, `SELECT`+locationColumns+` FROM locations l WHERE l.id = $1`, id), &loc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: location %q", apperrors.ErrNotFound, id)
		}
		return nil, storeErr("querying location", err)
	}
	return &loc, nil
}

func (r *locationRepository) ListLocations(ctx context.Context, filter LocationFilter) ([]db.Location, error) {
	query := `SELECT` + locationColumns + ` FROM locations l WHERE 1=1`
	args := []interface{}{}
	idx := 1

	if s := strings.TrimSpace(filter.Search); s != "" {
		query += " AND (l.name ILIKE $" + strconv.Itoa(idx) + " OR l.area ILIKE $" + strconv.Itoa(idx) + ")"
		args = append(args, "%"+escapeLike(s)+"%")
		idx++
	}
	if filter.HostID != "" {
		if !validID(filter.HostID) {
			return []db.Location{}, nil
		}
		query += " AND l.host_id = $" + strconv.Itoa(idx)
		args = append(args, filter.HostID)
		idx++
	}
	query += " ORDER BY l.name"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr("querying locations", err)
	}
	defer rows.Close()

	locations := []db.Location{}
	for rows.Next() {
		var loc db.Location
		if err := scanLocation(rows, &loc); err != nil {
			return nil, storeErr("scanning location", err)
		}
		locations = append(locations, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterating locations", err)
	}
	return locations, nil
}

func (r *locationRepository) CreateLocation(ctx context.Context, loc *db.Location) error {
	loc.ID = uuid.NewString()
	query := `
		INSERT INTO locations
		(id, host_id, name, address, area, total_spots, available_spots, hourly_rate, lat, lng, features)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query,
		loc.ID,
		loc.HostID,
		loc.Name,
		loc.Address,
		loc.Area,
		loc.TotalSpots,
		loc.AvailableSpots,
		loc.HourlyRate,
		loc.Coordinates.Lat,
		loc.Coordinates.Lng,
		pq.Array(loc.Features),
	).Scan(&loc.CreatedAt)
	if err != nil {
		return storeErr("inserting location", err)
	}
	return nil
}

func (r *locationRepository) DeleteLocation(ctx context.Context, id, hostID string) error {
	if !validID(id) {
		return fmt.Errorf("%w: location %q", apperrors.ErrNotFound, id)
	}
	result, err := r.db.ExecContext(ctx, `DELETE FROM locations WHERE id = $1 AND host_id = $2`, id, hostID)
	if err != nil {
		return storeErr("deleting location", err)
	}
	if n, err := result.RowsAffected(); err == nil && n > 0 {
		return nil
	}

	// Nothing deleted: tell a missing location apart from someone else's.
	if _, err := r.GetLocation(ctx, id); err != nil {
		return err
	}
	return fmt.Errorf("%w: location %q belongs to another host", apperrors.ErrUnauthorized, id)
}

func (r *locationRepository) UpdateAvailableSpots(ctx context.Context, id string, available int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE locations SET available_spots = LEAST(GREATEST($2, 0), total_spots) WHERE id = $1`,
		id, available)
	if err != nil {
		return storeErr("updating available spots", err)
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
