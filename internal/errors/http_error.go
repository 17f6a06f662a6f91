package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
)

// Error kinds shared by the engine, the store and the handlers.
var (
	ErrInvalidInput = stderrors.New("invalid input")
	ErrNotFound     = stderrors.New("not found")
	ErrUnauthorized = stderrors.New("unauthorized")
	ErrStoreFailure = stderrors.New("store failure")
	ErrUnavailable  = stderrors.New("slot unavailable")
)

// HTTPError represents an error with an associated HTTP status code.
type HTTPError struct {
	Code    int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTPError with the given code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{
		Code:    code,
		Message: message,
	}
}

// Helper for common errors
var (
	ErrUnauthorizedHTTP = func(msg string) *HTTPError { return NewHTTPError(http.StatusUnauthorized, msg) }
	ErrBadRequestHTTP   = func(msg string) *HTTPError { return NewHTTPError(http.StatusBadRequest, msg) }
)

// StatusCode maps an error chain to the HTTP status the API answers with.
func StatusCode(err error) int {
	var httpErr *HTTPError
	switch {
	case err == nil:
		return http.StatusOK
	case stderrors.As(err, &httpErr):
		return httpErr.Code
	case stderrors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case stderrors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case stderrors.Is(err, ErrUnauthorized):
		return http.StatusForbidden
	case stderrors.Is(err, ErrUnavailable):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Kind returns the short machine-readable code for err.
func Kind(err error) string {
	switch StatusCode(err) {
	case http.StatusBadRequest:
		return "invalid_input"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusUnauthorized, http.StatusForbidden:
		return "unauthorized"
	case http.StatusConflict:
		return "unavailable"
	default:
		return "internal_error"
	}
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteError renders err as a JSON error body. Store failures never leak driver text.
func WriteError(w http.ResponseWriter, err error) {
	code := StatusCode(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		msg = "An unexpected error occurred"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(errorResponse{Error: Kind(err), Message: msg})
}
