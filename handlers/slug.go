package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"hangiplatform/models"
	"hangiplatform/services/slug"

	"github.com/gorilla/mux"
)

type slugResolver interface {
	Resolve(ctx context.Context, s string) (int64, models.MediaKind, error)
	ResolvePerson(ctx context.Context, s string) (int64, error)
}

var _ slugResolver = (*slug.Resolver)(nil)

type SlugHandler struct {
	resolver slugResolver
}

func NewSlugHandler(resolver slugResolver) *SlugHandler {
	return &SlugHandler{resolver: resolver}
}

// Resolve maps a content slug such as "ezel-dizisi-hangi-platformda" to its TMDB id.
func (h *SlugHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	s := mux.Vars(r)["slug"]
	id, kind, err := h.resolver.Resolve(r.Context(), s)
	if err != nil {
		h.writeResolveError(w, s, err)
		return
	}
	writeJSON(w, http.StatusOK, models.SlugLookup{Slug: s, ID: id, Type: kind})
}

// ResolvePerson maps a "-filmleri-dizileri" slug to a TMDB person id.
func (h *SlugHandler) ResolvePerson(w http.ResponseWriter, r *http.Request) {
	s := mux.Vars(r)["slug"]
	id, err := h.resolver.ResolvePerson(r.Context(), s)
	if err != nil {
		h.writeResolveError(w, s, err)
		return
	}
	writeJSON(w, http.StatusOK, models.SlugLookup{Slug: s, ID: id, Person: true})
}

func (h *SlugHandler) writeResolveError(w http.ResponseWriter, s string, err error) {
	switch {
	case errors.Is(err, slug.ErrInvalidSlug):
		writeError(w, http.StatusBadRequest, "Geçersiz bağlantı")
	case errors.Is(err, slug.ErrNoMatch):
		writeError(w, http.StatusNotFound, "İçerik bulunamadı")
	default:
		log.Printf("[http] resolve slug %q failed: %v", s, err)
		writeError(w, upstreamStatus(err), "İçerik yüklenemedi")
	}
}

// Slugify builds the slug for ?title= and ?type= (movie, tv or person).
func (h *SlugHandler) Slugify(w http.ResponseWriter, r *http.Request) {
	title := strings.TrimSpace(r.URL.Query().Get("title"))
	if title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	var s string
	switch typ := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("type"))); typ {
	case "", string(models.MediaKindMovie):
		s = slug.CreateSlug(title, models.MediaKindMovie)
	case string(models.MediaKindTV):
		s = slug.CreateSlug(title, models.MediaKindTV)
	case "person":
		s = slug.CreatePersonSlug(title)
	default:
		writeError(w, http.StatusBadRequest, "type must be movie, tv or person")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"slug": s})
}
