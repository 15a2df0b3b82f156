package middleware

import (
	"context"
	"net/http"
	"strings"

	"projecthub/backend/logging"
	"projecthub/backend/models"
	"projecthub/backend/services"
)

type contextKey string

const userContextKey contextKey = "user"

// UserFinder resolves a token's subject id to a stored user. Implemented
// by services.UserService.
type UserFinder interface {
	FindUserByID(ctx context.Context, id string) (models.User, error)
}

type AuthMiddleware struct {
	JWT   *services.JWTService
	Users UserFinder
}

func NewAuthMiddleware(jwt *services.JWTService, users UserFinder) *AuthMiddleware {
	return &AuthMiddleware{JWT: jwt, Users: users}
}

// Authenticate validates the bearer token, loads the corresponding user
// and attaches it to the request context. A token whose subject no
// longer resolves to a stored user is rejected; a deleted account does
// not keep access through a still-valid token.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr, ok := bearerToken(r)
		if !ok {
			logging.Logger.Warnf("Authorization header missing or malformed for %s %s", r.Method, r.URL.Path)
			http.Error(w, `{"message": "No token provided."}`, http.StatusUnauthorized)
			return
		}

		claims, err := m.JWT.ValidateToken(tokenStr)
		if err != nil {
			logging.Logger.Warnf("Invalid token for %s %s: %v", r.Method, r.URL.Path, err)
			http.Error(w, `{"message": "Invalid or expired token."}`, http.StatusUnauthorized)
			return
		}

		user, err := m.Users.FindUserByID(r.Context(), claims.SubjectID())
		if err != nil {
			logging.Logger.Warnf("Token subject %s does not resolve to a user: %v", claims.SubjectID(), err)
			http.Error(w, `{"message": "User not found."}`, http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole re-derives the user from the token and rejects callers
// whose role is outside the permitted set. It runs independently of
// Authenticate so a route can be composed with either or both.
func (m *AuthMiddleware) RequireRole(allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, ok := bearerToken(r)
			if !ok {
				http.Error(w, `{"message": "No token, authorization denied"}`, http.StatusUnauthorized)
				return
			}

			claims, err := m.JWT.ValidateToken(tokenStr)
			if err != nil {
				http.Error(w, `{"message": "Token is not valid"}`, http.StatusUnauthorized)
				return
			}

			user, err := m.Users.FindUserByID(r.Context(), claims.SubjectID())
			if err != nil {
				http.Error(w, `{"message": "User not found"}`, http.StatusUnauthorized)
				return
			}

			for _, role := range allowedRoles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			logging.Logger.Warnf("User %s with role %s denied access to %s %s", user.Email, user.Role, r.Method, r.URL.Path)
			http.Error(w, `{"message": "Access denied. Insufficient permissions."}`, http.StatusForbidden)
		})
	}
}

// UserFromContext returns the user attached by Authenticate.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userContextKey).(models.User)
	return user, ok
}

// ContextWithUser attaches a user the same way Authenticate does.
func ContextWithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenStr == authHeader || tokenStr == "" {
		return "", false
	}
	return tokenStr, true
}
