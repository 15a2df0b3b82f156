package services

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"projecthub/backend/models"
)

func testUser() models.User {
	return models.User{
		ID:    primitive.NewObjectID(),
		Name:  "Ana",
		Email: "ana@example.com",
		Role:  models.RoleMember,
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := NewJWTService("test-secret")
	user := testUser()

	token, err := svc.GenerateAuthToken(user)
	if err != nil {
		t.Fatalf("GenerateAuthToken: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.SubjectID() != user.ID.Hex() {
		t.Fatalf("subject = %s, want %s", claims.SubjectID(), user.ID.Hex())
	}
	if claims.Email != user.Email {
		t.Fatalf("email = %s, want %s", claims.Email, user.Email)
	}
	if claims.Role != models.RoleMember {
		t.Fatalf("role = %s, want member", claims.Role)
	}
	if time.Until(claims.ExpiresAt.Time) <= 0 {
		t.Fatalf("expected future expiration, got %v", claims.ExpiresAt.Time)
	}
}

func TestTokenCarriesBothIDKeys(t *testing.T) {
	svc := NewJWTService("test-secret")
	user := testUser()

	token, err := svc.GenerateAuthToken(user)
	if err != nil {
		t.Fatalf("GenerateAuthToken: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected 3 token segments, got %d", len(parts))
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatalf("decoding payload: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(payload, &raw); err != nil {
		t.Fatalf("unmarshalling payload: %v", err)
	}
	if raw["id"] != user.ID.Hex() {
		t.Fatalf(`claim "id" = %v, want %s`, raw["id"], user.ID.Hex())
	}
	if raw["_id"] != user.ID.Hex() {
		t.Fatalf(`claim "_id" = %v, want %s`, raw["_id"], user.ID.Hex())
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a").GenerateAuthToken(testUser())
	if err != nil {
		t.Fatalf("GenerateAuthToken: %v", err)
	}
	if _, err := NewJWTService("secret-b").ValidateToken(token); err == nil {
		t.Fatal("expected token signed with a different secret to be rejected")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewJWTService("test-secret")
	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := svc.ValidateToken(tok); err == nil {
			t.Fatalf("expected %q to be rejected", tok)
		}
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	secret := "test-secret"
	user := testUser()
	claims := &Claims{
		UserID: user.ID.Hex(),
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing: %v", err)
	}
	if _, err := NewJWTService(secret).ValidateToken(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestSubjectIDFallsBackToLegacyKey(t *testing.T) {
	c := &Claims{LegacyID: "abc123"}
	if got := c.SubjectID(); got != "abc123" {
		t.Fatalf("SubjectID = %s, want abc123", got)
	}
	c.UserID = "def456"
	if got := c.SubjectID(); got != "def456" {
		t.Fatalf("SubjectID = %s, want def456", got)
	}
}
