package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"parkbooking/internal/db"
	"parkbooking/internal/entities"
	apperrors "parkbooking/internal/errors"
)

type LocationService interface {
	ListLocations(ctx context.Context, search string) ([]db.Location, error)
	GetLocation(ctx context.Context, id string) (*db.Location, error)
	ListHostLocations(ctx context.Context, hostID string) ([]db.Location, error)
	CreateLocation(ctx context.Context, hostID string, req entities.LocationRequest) (*db.Location, error)
	DeleteLocation(ctx context.Context, id, hostID string) error
}

type LocationHandler struct {
	Service LocationService
}

func NewLocationHandler(svc LocationService) *LocationHandler {
	return &LocationHandler{Service: svc}
}

func (h *LocationHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.Service.ListLocations(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		apperrors.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(locations))
}

func (h *LocationHandler) GetLocation(w http.ResponseWriter, r *http.Request) {
	loc, err := h.Service.GetLocation(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		apperrors.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loc)
}

// Host dashboard

func (h *LocationHandler) ListHostLocations(w http.ResponseWriter, r *http.Request) {
	hostID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	locations, err := h.Service.ListHostLocations(r.Context(), hostID)
	if err != nil {
		apperrors.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(locations))
}

func (h *LocationHandler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	hostID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	var req entities.LocationRequest
	if err := decodeJSON(r, &req); err != nil {
		apperrors.WriteError(w, err)
		return
	}
	loc, err := h.Service.CreateLocation(r.Context(), hostID, req)
	if err != nil {
		apperrors.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, loc)
}

func (h *LocationHandler) DeleteLocation(w http.ResponseWriter, r *http.Request) {
	hostID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	if err := h.Service.DeleteLocation(r.Context(), mux.Vars(r)["id"], hostID); err != nil {
		apperrors.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Location deleted"})
}

func nonNil(locations []db.Location) []db.Location {
	if locations == nil {
		return []db.Location{}
	}
	return locations
}
