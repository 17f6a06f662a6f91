package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"parkbooking/internal/api"
	"parkbooking/internal/config"
	"parkbooking/internal/repository"
	"parkbooking/internal/service"
)

func main() {
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET not set")
	}

	db, err := repository.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer db.Close()
	if err := repository.EnsureSchema(context.Background(), db); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}

	locationRepo := repository.NewLocationRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	userRepo := repository.NewUserRepository(db)

	senderService := service.NewSenderService(cfg)
	bookingService := service.NewBookingService(bookingRepo, locationRepo, userRepo, senderService, cfg.BookingWindowDays)
	locationService := service.NewLocationService(locationRepo)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiration)

	jobService := service.NewJobService(locationRepo, bookingRepo)
	if err := jobService.Start(cfg.AvailabilitySyncSpec); err != nil {
		log.Fatalf("Failed to start cron jobs: %v", err)
	}
	defer jobService.Stop()

	router := api.NewRouter(
		api.NewAuthHandler(authService),
		api.NewLocationHandler(locationService),
		api.NewBookingHandler(bookingService),
		cfg.JWTSecret,
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.WithMiddleware(router, cfg.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server running on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
