package api

import (
	"encoding/json"
	"net/http"

	"parkbooking/internal/auth"
	apperrors "parkbooking/internal/errors"
)

type MessageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.ErrBadRequestHTTP("Invalid request body")
	}
	return nil
}

func requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		apperrors.WriteError(w, apperrors.ErrUnauthorizedHTTP("Authorization token missing"))
	}
	return userID, ok
}
