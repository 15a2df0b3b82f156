package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"projecthub/backend/services"
)

func TestStatusForError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{services.ErrValidation, http.StatusBadRequest},
		{services.ErrEmailTaken, http.StatusBadRequest},
		{services.ErrInvalidCredentials, http.StatusBadRequest},
		{services.ErrAlreadyTeamMember, http.StatusBadRequest},
		{services.ErrNotTeamMember, http.StatusBadRequest},
		{services.ErrSessionActive, http.StatusBadRequest},
		{services.ErrForbidden, http.StatusForbidden},
		{services.ErrNotFound, http.StatusNotFound},
		{services.ErrTeamNotFound, http.StatusNotFound},
		{services.ErrNoActiveSession, http.StatusNotFound},
		{errors.New("database exploded"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := StatusForError(c.err); got != c.want {
			t.Fatalf("StatusForError(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestStatusForErrorUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("creating project: %w", services.ErrValidation)
	if got := StatusForError(wrapped); got != http.StatusBadRequest {
		t.Fatalf("StatusForError(wrapped) = %d, want 400", got)
	}
}

func TestRespondErrorHidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	respondError(rec, errors.New("dial tcp 10.0.0.5:27017: connection refused"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshalling body: %v", err)
	}
	if body.Message != "Server error." {
		t.Fatalf("message = %q, internal detail must not leak", body.Message)
	}
}

func TestRespondErrorEchoesClientFaults(t *testing.T) {
	rec := httptest.NewRecorder()
	respondError(rec, fmt.Errorf("%w: project name is required", services.ErrValidation))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshalling body: %v", err)
	}
	if body.Message == "" || body.Message == "Server error." {
		t.Fatalf("message = %q, expected the validation detail", body.Message)
	}
}
