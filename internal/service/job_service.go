package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"parkbooking/internal/booking"
	"parkbooking/internal/db"
	"parkbooking/internal/repository"
)

type JobService struct {
	locations repository.LocationRepository
	bookings  repository.BookingRepository
	cron      *cron.Cron
}

func NewJobService(locations repository.LocationRepository, bookings repository.BookingRepository) *JobService {
	return &JobService{locations: locations, bookings: bookings, cron: cron.New()}
}

// Start schedules SyncAvailableSpots on spec and starts the cron runner.
func (s *JobService) Start(spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		if err := s.SyncAvailableSpots(context.Background(), time.Now()); err != nil {
			log.Printf("Cron Job: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("scheduling availability sync %q: %w", spec, err)
	}
	s.cron.Start()
	return nil
}

// Stop waits for a running job to finish.
func (s *JobService) Stop() {
	<-s.cron.Stop().Done()
}

// SyncAvailableSpots sets each location's available spot count to its total
// minus the confirmed bookings holding the current hour today.
func (s *JobService) SyncAvailableSpots(ctx context.Context, now time.Time) error {
	log.Println("Cron Job: refreshing available spots...")

	locations, err := s.locations.ListLocations(ctx, repository.LocationFilter{})
	if err != nil {
		return fmt.Errorf("cron job: failed to list locations: %w", err)
	}
	today, err := s.bookings.ListConfirmedForDate(ctx, now.Format(booking.DateLayout))
	if err != nil {
		return fmt.Errorf("cron job: failed to list today's bookings: %w", err)
	}

	byLocation := make(map[string][]db.Booking)
	for _, b := range today {
		byLocation[b.LocationID] = append(byLocation[b.LocationID], b)
	}

	updated := 0
	for _, loc := range locations {
		occ := booking.Occupancy(byLocation[loc.ID])
		available := loc.TotalSpots - occ[now.Hour()]
		if available < 0 {
			available = 0
		}
		if available == loc.AvailableSpots {
			continue
		}
		if err := s.locations.UpdateAvailableSpots(ctx, loc.ID, available); err != nil {
			return fmt.Errorf("cron job: failed to update location %s: %w", loc.ID, err)
		}
		updated++
	}

	log.Printf("Cron Job: updated available spots for %d of %d locations.", updated, len(locations))
	return nil
}
