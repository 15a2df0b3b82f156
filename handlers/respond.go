package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"projecthub/backend/logging"
	"projecthub/backend/services"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			logging.Logger.Errorf("Failed to encode response: %v", err)
		}
	}
}

type errorResponse struct {
	Message string `json:"message"`
}

// respondError maps service errors onto the HTTP status taxonomy and
// always answers with a JSON {"message": ...} body.
func respondError(w http.ResponseWriter, err error) {
	status := StatusForError(err)
	if status == http.StatusInternalServerError {
		logging.Logger.Errorf("Request failed: %v", err)
		respondJSON(w, status, errorResponse{Message: "Server error."})
		return
	}
	respondJSON(w, status, errorResponse{Message: err.Error()})
}

// StatusForError resolves a service error to its HTTP status.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrAlreadyTeamMember),
		errors.Is(err, services.ErrNotTeamMember),
		errors.Is(err, services.ErrSessionActive):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrNoActiveSession):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
