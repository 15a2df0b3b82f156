package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"projecthub/backend/models"
	"projecthub/backend/services"
)

type stubUserFinder struct {
	users map[string]models.User
}

func (s *stubUserFinder) FindUserByID(_ context.Context, id string) (models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return models.User{}, errors.New("user not found")
	}
	return user, nil
}

func authSetup(t *testing.T) (*AuthMiddleware, models.User, string) {
	t.Helper()

	jwtService := services.NewJWTService("test-secret")
	user := models.User{
		ID:    primitive.NewObjectID(),
		Name:  "Marko",
		Email: "marko@example.com",
		Role:  models.RoleMember,
	}
	token, err := jwtService.GenerateAuthToken(user)
	if err != nil {
		t.Fatalf("GenerateAuthToken: %v", err)
	}

	finder := &stubUserFinder{users: map[string]models.User{user.ID.Hex(): user}}
	return NewAuthMiddleware(jwtService, finder), user, token
}

func TestAuthenticateAttachesUser(t *testing.T) {
	mw, user, token := authSetup(t)

	var got models.User
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/projects", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got.ID != user.ID {
		t.Fatalf("context user = %s, want %s", got.ID.Hex(), user.ID.Hex())
	}
}

func TestAuthenticateMissingToken(t *testing.T) {
	mw, _, _ := authSetup(t)
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run without a token")
	}))

	for _, header := range []string{"", "Bearer ", "Basic abc", "just-a-token"} {
		req := httptest.NewRequest(http.MethodGet, "/projects", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: status = %d, want 401", header, rec.Code)
		}
	}
}

func TestAuthenticateInvalidToken(t *testing.T) {
	mw, _, _ := authSetup(t)
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run with an invalid token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/projects", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthenticateDeletedAccount(t *testing.T) {
	jwtService := services.NewJWTService("test-secret")
	user := models.User{ID: primitive.NewObjectID(), Email: "gone@example.com", Role: models.RoleMember}
	token, err := jwtService.GenerateAuthToken(user)
	if err != nil {
		t.Fatalf("GenerateAuthToken: %v", err)
	}

	// The store no longer knows this user.
	mw := NewAuthMiddleware(jwtService, &stubUserFinder{users: map[string]models.User{}})
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run for a deleted account")
	}))

	req := httptest.NewRequest(http.MethodGet, "/projects", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	mw, _, token := authSetup(t)

	ok := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }

	allowed := mw.RequireRole(models.RoleMember, models.RoleAdmin)(http.HandlerFunc(ok))
	req := httptest.NewRequest(http.MethodGet, "/activities", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	allowed.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("member allowed: status = %d, want 200", rec.Code)
	}

	denied := mw.RequireRole(models.RoleAdmin)(http.HandlerFunc(ok))
	req = httptest.NewRequest(http.MethodGet, "/activities", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	denied.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("member denied: status = %d, want 403", rec.Code)
	}
}
