package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ekverified/app-backend/logging"
	"github.com/ekverified/app-backend/services"
	"github.com/ekverified/app-backend/store"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError translates a service error into the {error: string} body the
// API contract promises. Anything unrecognized is a 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrInvalidOption),
		errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrAlreadyVoted),
		errors.Is(err, services.ErrPollInactive):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, services.ErrInsufficientRole):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrDuplicateIdentity):
		status = http.StatusConflict
	case errors.Is(err, store.ErrUnavailable), errors.Is(err, store.ErrStaleWrite):
		logging.Logger.Errorf("Event ID: STORE_ERROR, Description: Request failed against the backend store: %v", err)
	default:
		logging.Logger.Errorf("Event ID: UNEXPECTED_ERROR, Description: %v", err)
	}

	writeJSON(w, status, map[string]string{"error": err.Error()})
}
