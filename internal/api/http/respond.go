package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"roomstay-backend/internal/logger"
	"roomstay-backend/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			logger.Error("failed to encode response", "error", err)
		}
	}
}

// writeError maps service errors onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrNotAuthorized):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrInvalidDateRange),
		errors.Is(err, service.ErrOwnBookingNotAllowed),
		errors.Is(err, service.ErrNoAvailableEarnings),
		errors.Is(err, service.ErrPayoutMethodNotVerified):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidStateTransition),
		errors.Is(err, service.ErrNoSeatsAvailable),
		errors.Is(err, service.ErrDuplicateSubmission),
		errors.Is(err, service.ErrConcurrentModification):
		status = http.StatusConflict
	case errors.Is(err, service.ErrRetryLater):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
		writeJSON(w, status, errorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

type pageResponse struct {
	Items any   `json:"items"`
	Total int32 `json:"total"`
	Page  int32 `json:"page"`
}
