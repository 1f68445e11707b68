package handlers

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"hangiplatform/models"
	"hangiplatform/services/slug"
	"hangiplatform/services/tmdb"

	"github.com/gorilla/mux"
)

type detailsService interface {
	MovieDetails(ctx context.Context, id int64) (*models.MovieDetails, error)
	TVShowDetails(ctx context.Context, id int64) (*models.TVShowDetails, error)
	Credits(ctx context.Context, kind models.MediaKind, id int64) (*models.Credits, error)
	WatchProvidersFull(ctx context.Context, kind models.MediaKind, id int64) models.WatchProviders
	Videos(ctx context.Context, kind models.MediaKind, id int64) ([]models.Video, error)
}

var _ detailsService = (*tmdb.Client)(nil)

// DetailsBundleHandler serves a combined details-page payload so the
// front end opens a title with one request. Sub-fetches run concurrently.
type DetailsBundleHandler struct {
	details detailsService
}

func NewDetailsBundleHandler(details detailsService) *DetailsBundleHandler {
	return &DetailsBundleHandler{details: details}
}

// Movie serves GET /api/movie/{id}.
func (h *DetailsBundleHandler) Movie(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, models.MediaKindMovie)
}

// TV serves GET /api/tv/{id}.
func (h *DetailsBundleHandler) TV(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, models.MediaKindTV)
}

func (h *DetailsBundleHandler) serve(w http.ResponseWriter, r *http.Request, kind models.MediaKind) {
	id := trimAndParseInt64(mux.Vars(r)["id"])
	if id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	bundle, err := h.bundle(r.Context(), kind, id)
	if err != nil {
		status := upstreamStatus(err)
		msg := "İçerik yüklenemedi"
		if status == http.StatusNotFound {
			msg = "İçerik bulunamadı"
		}
		writeError(w, status, msg)
		return
	}
	writeJSON(w, http.StatusOK, bundle)
}

func (h *DetailsBundleHandler) bundle(ctx context.Context, kind models.MediaKind, id int64) (*models.ContentBundle, error) {
	bundleStart := time.Now()
	resp := &models.ContentBundle{Kind: kind}
	var (
		mu         sync.Mutex
		wg         sync.WaitGroup
		detailsErr error
	)

	// 1. Movie or series details
	wg.Add(1)
	go func() {
		defer wg.Done()
		start := time.Now()
		if kind == models.MediaKindTV {
			details, err := h.details.TVShowDetails(ctx, id)
			log.Printf("[details-bundle timing] tv details: %dms (err=%v)", time.Since(start).Milliseconds(), err)
			mu.Lock()
			resp.TV, detailsErr = details, err
			mu.Unlock()
			return
		}
		details, err := h.details.MovieDetails(ctx, id)
		log.Printf("[details-bundle timing] movie details: %dms (err=%v)", time.Since(start).Milliseconds(), err)
		mu.Lock()
		resp.Movie, detailsErr = details, err
		mu.Unlock()
	}()

	// 2. Credits
	wg.Add(1)
	go func() {
		defer wg.Done()
		credits, err := h.details.Credits(ctx, kind, id)
		if err != nil {
			log.Printf("[details-bundle] credits error: %v", err)
			return
		}
		mu.Lock()
		resp.Credits = credits
		mu.Unlock()
	}()

	// 3. Watch providers in the configured region
	wg.Add(1)
	go func() {
		defer wg.Done()
		providers := h.details.WatchProvidersFull(ctx, kind, id)
		mu.Lock()
		resp.Providers = providers
		mu.Unlock()
	}()

	// 4. Videos
	wg.Add(1)
	go func() {
		defer wg.Done()
		videos, err := h.details.Videos(ctx, kind, id)
		if err != nil {
			log.Printf("[details-bundle] videos error: %v", err)
			return
		}
		mu.Lock()
		resp.Videos = videos
		mu.Unlock()
	}()

	wg.Wait()
	log.Printf("[details-bundle timing] %s %d total: %dms", kind, id, time.Since(bundleStart).Milliseconds())

	if detailsErr != nil {
		return nil, detailsErr
	}
	switch {
	case resp.Movie != nil:
		resp.Slug = slug.CreateSlug(resp.Movie.Title, kind)
	case resp.TV != nil:
		resp.Slug = slug.CreateSlug(resp.TV.Name, kind)
	}
	return resp, nil
}
