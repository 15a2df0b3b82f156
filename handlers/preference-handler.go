package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"projecthub/backend/middleware"
	"projecthub/backend/services"
)

type PreferenceHandler struct {
	Service *services.PreferenceService
}

func NewPreferenceHandler(service *services.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{Service: service}
}

func (h *PreferenceHandler) PutPreference(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Message: "No token provided."})
		return
	}
	vars := mux.Vars(r)

	var value map[string]any
	if err := json.NewDecoder(r.Body).Decode(&value); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request payload."})
		return
	}

	pref, err := h.Service.Put(r.Context(), caller.ID, vars["kind"], vars["key"], value)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, pref)
}

func (h *PreferenceHandler) GetPreference(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Message: "No token provided."})
		return
	}
	vars := mux.Vars(r)

	pref, err := h.Service.Get(r.Context(), caller.ID, vars["kind"], vars["key"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, pref)
}

func (h *PreferenceHandler) ListPreferences(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Message: "No token provided."})
		return
	}
	vars := mux.Vars(r)

	prefs, err := h.Service.List(r.Context(), caller.ID, vars["kind"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, prefs)
}

func (h *PreferenceHandler) DeletePreference(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Message: "No token provided."})
		return
	}
	vars := mux.Vars(r)

	if err := h.Service.Delete(r.Context(), caller.ID, vars["kind"], vars["key"]); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Preference deleted successfully."})
}
