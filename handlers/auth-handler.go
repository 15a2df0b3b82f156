package handlers

import (
	"encoding/json"
	"net/http"

	"projecthub/backend/logging"
	"projecthub/backend/middleware"
	"projecthub/backend/models"
	"projecthub/backend/services"
)

type AuthHandler struct {
	UserService *services.UserService
	JWTService  *services.JWTService
}

func NewAuthHandler(userService *services.UserService, jwtService *services.JWTService) *AuthHandler {
	return &AuthHandler{UserService: userService, JWTService: jwtService}
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User  models.PublicUser `json:"user"`
	Token string            `json:"token"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request format."})
		return
	}

	user, err := h.UserService.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	token, err := h.JWTService.GenerateAuthToken(user)
	if err != nil {
		logging.Logger.Errorf("Failed to generate token for %s: %v", user.Email, err)
		respondJSON(w, http.StatusInternalServerError, errorResponse{Message: "Server error during signup."})
		return
	}

	respondJSON(w, http.StatusCreated, authResponse{User: user.Public(), Token: token})
}

func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request format."})
		return
	}
	if req.Email == "" || req.Password == "" {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: "All fields are required."})
		return
	}

	user, err := h.UserService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	token, err := h.JWTService.GenerateAuthToken(user)
	if err != nil {
		logging.Logger.Errorf("Failed to generate token for %s: %v", user.Email, err)
		respondJSON(w, http.StatusInternalServerError, errorResponse{Message: "Server error."})
		return
	}

	respondJSON(w, http.StatusOK, authResponse{User: user.Public(), Token: token})
}

// UpdateEmail changes the caller's email and reissues a token carrying
// the new claims.
func (h *AuthHandler) UpdateEmail(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Message: "No token provided."})
		return
	}

	var req struct {
		NewEmail string `json:"newEmail"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request format."})
		return
	}

	user, err := h.UserService.UpdateEmail(r.Context(), caller.ID, req.NewEmail)
	if err != nil {
		respondError(w, err)
		return
	}

	token, err := h.JWTService.GenerateAuthToken(user)
	if err != nil {
		logging.Logger.Errorf("Failed to reissue token for %s: %v", user.Email, err)
		respondJSON(w, http.StatusInternalServerError, errorResponse{Message: "Server error."})
		return
	}

	respondJSON(w, http.StatusOK, authResponse{User: user.Public(), Token: token})
}
