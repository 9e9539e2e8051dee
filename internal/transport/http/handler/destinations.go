package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/travel-atlas/internal/application/destination"
)

// DestinationHandler serves curated destination recommendations.
type DestinationHandler struct {
	svc destination.Service
}

func NewDestinationHandler(svc destination.Service) *DestinationHandler {
	return &DestinationHandler{svc: svc}
}

// Get looks up /destinations/{country}; the optional ?region= query selects a
// region, and its absence selects the country-level entry.
func (h *DestinationHandler) Get(w http.ResponseWriter, r *http.Request) {
	var region *string
	if q := r.URL.Query(); q.Has("region") {
		v := q.Get("region")
		region = &v
	}
	d, err := h.svc.Lookup(r.Context(), chi.URLParam(r, "country"), region)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
