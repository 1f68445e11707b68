package handlers

import (
	"context"
	"log"
	"net/http"

	"hangiplatform/models"
	"hangiplatform/services/trailers"
)

type trailerService interface {
	Latest(ctx context.Context, filter trailers.Filter) ([]models.TrailerItem, error)
}

var _ trailerService = (*trailers.Service)(nil)

type TrailersHandler struct {
	trailers trailerService
}

func NewTrailersHandler(svc trailerService) *TrailersHandler {
	return &TrailersHandler{trailers: svc}
}

// Latest serves /api/trailers?filter=popular|streaming|on-tv|in-theaters.
func (h *TrailersHandler) Latest(w http.ResponseWriter, r *http.Request) {
	filter, err := trailers.ParseFilter(r.URL.Query().Get("filter"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid filter")
		return
	}

	items, err := h.trailers.Latest(r.Context(), filter)
	if err != nil {
		log.Printf("[http] trailers %s failed: %v", filter, err)
		writeError(w, http.StatusInternalServerError, "Trailer'lar yüklenemedi")
		return
	}
	if items == nil {
		items = []models.TrailerItem{}
	}
	writeJSON(w, http.StatusOK, models.TrailerResponse{Results: items})
}
