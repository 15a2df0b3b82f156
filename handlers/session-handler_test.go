package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"projecthub/backend/middleware"
	"projecthub/backend/models"
	"projecthub/backend/services"
)

func authenticatedRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	user := models.User{ID: primitive.NewObjectID(), Email: "test@example.com", Role: models.RoleMember}
	return req.WithContext(middleware.ContextWithUser(req.Context(), user))
}

func TestStartSessionRejectsBadPayload(t *testing.T) {
	h := NewSessionHandler(&services.SessionService{})

	req := authenticatedRequest(http.MethodPost, "/sessions/start", "{not json")
	rec := httptest.NewRecorder()
	h.StartSession(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestStartSessionRequiresUser(t *testing.T) {
	h := NewSessionHandler(&services.SessionService{})

	req := httptest.NewRequest(http.MethodPost, "/sessions/start", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.StartSession(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
