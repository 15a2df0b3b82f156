package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"projecthub/backend/models"
)

// tokenTTL is fixed at issuance; there is no refresh or rotation. An
// expired token means a full re-authentication.
const tokenTTL = 7 * 24 * time.Hour

// Claims carries the user id under both "id" and "_id" for backward
// compatibility with older clients that read either key.
type Claims struct {
	UserID   string `json:"id"`
	LegacyID string `json:"_id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type JWTService struct {
	secret []byte
}

func NewJWTService(secret string) *JWTService {
	return &JWTService{secret: []byte(secret)}
}

func (s *JWTService) GenerateAuthToken(user models.User) (string, error) {
	id := user.ID.Hex()
	claims := &Claims{
		UserID:   id,
		LegacyID: id,
		Email:    user.Email,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *JWTService) ValidateToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// SubjectID returns the user id from whichever alias key is populated.
func (c *Claims) SubjectID() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.LegacyID
}
