package service

import (
	"context"

	"parkbooking/internal/db"
	"parkbooking/internal/entities"
	"parkbooking/internal/repository"
)

type LocationService struct {
	repo repository.LocationRepository
}

func NewLocationService(repo repository.LocationRepository) *LocationService {
	return &LocationService{repo: repo}
}

// ListLocations returns every location whose name or area contains search.
func (s *LocationService) ListLocations(ctx context.Context, search string) ([]db.Location, error) {
	return s.repo.ListLocations(ctx, repository.LocationFilter{Search: search})
}

func (s *LocationService) GetLocation(ctx context.Context, id string) (*db.Location, error) {
	return s.repo.GetLocation(ctx, id)
}

func (s *LocationService) ListHostLocations(ctx context.Context, hostID string) ([]db.Location, error) {
	return s.repo.ListLocations(ctx, repository.LocationFilter{HostID: hostID})
}

func (s *LocationService) CreateLocation(ctx context.Context, hostID string, req entities.LocationRequest) (*db.Location, error) {
	loc, err := req.ToLocation(hostID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateLocation(ctx, &loc); err != nil {
		return nil, err
	}
	return &loc, nil
}

func (s *LocationService) DeleteLocation(ctx context.Context, id, hostID string) error {
	return s.repo.DeleteLocation(ctx, id, hostID)
}
