package handlers

import (
	"net/http"

	"projecthub/backend/services"
)

type ActivityHandler struct {
	Service *services.ActivityService
}

func NewActivityHandler(service *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{Service: service}
}

// ListActivities returns audit entries, filterable by ?type= or by the
// ?entityType=&entityId= pair.
func (h *ActivityHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	activities, err := h.Service.List(r.Context(), q.Get("type"), q.Get("entityType"), q.Get("entityId"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, activities)
}
