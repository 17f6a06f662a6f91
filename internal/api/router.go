package api

import (
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"parkbooking/internal/auth"
)

// NewRouter registers the public endpoints and the ones behind RequireUser.
func NewRouter(authH *AuthHandler, locationH *LocationHandler, bookingH *BookingHandler, jwtSecret string) *mux.Router {
	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/api/auth/signup", authH.Signup).Methods("POST")
	r.HandleFunc("/api/auth/login", authH.Login).Methods("POST")
	r.HandleFunc("/api/locations", locationH.ListLocations).Methods("GET")
	r.HandleFunc("/api/locations/{id}", locationH.GetLocation).Methods("GET")
	r.HandleFunc("/api/locations/{id}/slots", bookingH.Schedule).Methods("GET")
	r.HandleFunc("/api/quote", bookingH.Quote).Methods("POST")
	r.HandleFunc("/api/availability", bookingH.CheckAvailability).Methods("POST")

	// Signed-in users
	user := r.PathPrefix("/api").Subrouter()
	user.Use(auth.RequireUser(jwtSecret))
	user.HandleFunc("/bookings", bookingH.CreateBooking).Methods("POST")
	user.HandleFunc("/bookings", bookingH.ListBookings).Methods("GET")
	user.HandleFunc("/bookings/{id}", bookingH.CancelBooking).Methods("DELETE")
	user.HandleFunc("/bookings/{id}/receipt", bookingH.Receipt).Methods("GET")
	user.HandleFunc("/host/locations", locationH.ListHostLocations).Methods("GET")
	user.HandleFunc("/host/locations", locationH.CreateLocation).Methods("POST")
	user.HandleFunc("/host/locations/{id}", locationH.DeleteLocation).Methods("DELETE")

	return r
}

// WithMiddleware wraps h with CORS for origins, panic recovery and access logging.
func WithMiddleware(h http.Handler, origins []string) http.Handler {
	cors := handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{"GET", "POST", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
	)
	return handlers.LoggingHandler(os.Stdout, handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(cors(h)))
}
