package internal

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"supplier-inventory-api/internal/apperror"
)

// errorBody is the structured JSON error shape returned on every failure.
type errorBody struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// statusFor maps application error kinds onto HTTP status codes.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusBadRequest, "Bad Request"
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound, "Not Found"
	case errors.Is(err, apperror.ErrUnsupportedMedia):
		return http.StatusUnsupportedMediaType, "Unsupported Media Type"
	case errors.Is(err, apperror.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, apperror.ErrTransient):
		return http.StatusServiceUnavailable, "Service Unavailable"
	}
	return http.StatusInternalServerError, "Internal Server Error"
}

// writeError recovers application errors at the boundary and converts them to
// structured JSON bodies. Nothing here crashes the process.
func writeError(w http.ResponseWriter, err error) {
	status, kind := statusFor(err)
	if status == http.StatusInternalServerError || status == http.StatusServiceUnavailable {
		log.Printf("request failed: %v", err)
	}
	writeJSON(w, status, errorBody{
		Status:  status,
		Error:   kind,
		Message: err.Error(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}
