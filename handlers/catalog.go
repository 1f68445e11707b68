package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"

	"hangiplatform/models"
	"hangiplatform/services/tmdb"

	"github.com/gorilla/mux"
)

type catalogService interface {
	SearchMulti(ctx context.Context, query string, page int) (*models.Page[models.MediaItem], error)
	SearchPerson(ctx context.Context, query string, page int) (*models.Page[models.PersonSearchResult], error)
	DiscoverMovies(ctx context.Context, q models.DiscoverMovieQuery) (*models.Page[models.Movie], error)
	DiscoverTV(ctx context.Context, q models.DiscoverTVQuery) (*models.Page[models.TVShow], error)

	PopularMovies(ctx context.Context, page int) (*models.Page[models.Movie], error)
	TopRatedMovies(ctx context.Context, page int) (*models.Page[models.Movie], error)
	NowPlayingMovies(ctx context.Context, page int) (*models.Page[models.Movie], error)
	PopularTVShows(ctx context.Context, page int) (*models.Page[models.TVShow], error)
	TopRatedTVShows(ctx context.Context, page int) (*models.Page[models.TVShow], error)
	OnTheAirTVShows(ctx context.Context, page int) (*models.Page[models.TVShow], error)
	AiringTodayTVShows(ctx context.Context, page int) (*models.Page[models.TVShow], error)

	TrendingMovies(ctx context.Context, window string) ([]models.Movie, error)
	TrendingTVShows(ctx context.Context, window string) ([]models.TVShow, error)
	TrendingAll(ctx context.Context, window string) ([]models.MediaItem, error)

	PersonDetails(ctx context.Context, id int64) (*models.PersonDetails, error)
	PersonCredits(ctx context.Context, id int64) (*models.PersonCredits, error)
	Genres(ctx context.Context, kind models.MediaKind) ([]models.Genre, error)
}

var _ catalogService = (*tmdb.Client)(nil)

// CatalogHandler serves the TMDB-backed browse, search and person endpoints.
type CatalogHandler struct {
	catalog catalogService
}

func NewCatalogHandler(catalog catalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "Query parameter gerekli")
		return
	}

	results, err := h.catalog.SearchMulti(r.Context(), query, pageParam(r))
	if err != nil {
		log.Printf("[http] search %q failed: %v", query, err)
		writeError(w, http.StatusInternalServerError, "Arama başarısız")
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *CatalogHandler) SearchPerson(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "Query parameter gerekli")
		return
	}

	results, err := h.catalog.SearchPerson(r.Context(), query, pageParam(r))
	if err != nil {
		log.Printf("[http] person search %q failed: %v", query, err)
		writeError(w, http.StatusInternalServerError, "Arama başarısız")
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *CatalogHandler) DiscoverMovies(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	results, err := h.catalog.DiscoverMovies(r.Context(), models.DiscoverMovieQuery{
		Page:              pageParam(r),
		SortBy:            strings.TrimSpace(q.Get("sort_by")),
		WithGenres:        strings.TrimSpace(q.Get("with_genres")),
		PrimaryReleaseGTE: strings.TrimSpace(q.Get("primary_release_date.gte")),
		PrimaryReleaseLTE: strings.TrimSpace(q.Get("primary_release_date.lte")),
		VoteAverageGTE:    trimAndParseFloat(q.Get("vote_average.gte")),
		VoteCountGTE:      trimAndParseInt(q.Get("vote_count.gte")),
		RuntimeGTE:        trimAndParseInt(q.Get("with_runtime.gte")),
		RuntimeLTE:        trimAndParseInt(q.Get("with_runtime.lte")),
	})
	if err != nil {
		log.Printf("[http] discover movies failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Filmler yüklenemedi")
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *CatalogHandler) DiscoverTV(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	results, err := h.catalog.DiscoverTV(r.Context(), models.DiscoverTVQuery{
		Page:                 pageParam(r),
		SortBy:               strings.TrimSpace(q.Get("sort_by")),
		WithGenres:           strings.TrimSpace(q.Get("with_genres")),
		FirstAirDateGTE:      strings.TrimSpace(q.Get("first_air_date.gte")),
		FirstAirDateLTE:      strings.TrimSpace(q.Get("first_air_date.lte")),
		VoteAverageGTE:       trimAndParseFloat(q.Get("vote_average.gte")),
		VoteCountGTE:         trimAndParseInt(q.Get("vote_count.gte")),
		RuntimeGTE:           trimAndParseInt(q.Get("with_runtime.gte")),
		RuntimeLTE:           trimAndParseInt(q.Get("with_runtime.lte")),
		AirDateGTE:           strings.TrimSpace(q.Get("air_date.gte")),
		AirDateLTE:           strings.TrimSpace(q.Get("air_date.lte")),
		WithNetworks:         strings.TrimSpace(q.Get("with_networks")),
		WithOriginalLanguage: strings.TrimSpace(q.Get("with_original_language")),
	})
	if err != nil {
		log.Printf("[http] discover tv failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Diziler yüklenemedi")
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// MovieList serves /api/movies/{list}: popular, top_rated or now_playing.
func (h *CatalogHandler) MovieList(w http.ResponseWriter, r *http.Request) {
	list := mux.Vars(r)["list"]
	var fetch func(context.Context, int) (*models.Page[models.Movie], error)
	switch list {
	case "popular":
		fetch = h.catalog.PopularMovies
	case "top_rated":
		fetch = h.catalog.TopRatedMovies
	case "now_playing":
		fetch = h.catalog.NowPlayingMovies
	default:
		writeError(w, http.StatusNotFound, "unknown movie list")
		return
	}

	page, err := fetch(r.Context(), pageParam(r))
	if err != nil {
		log.Printf("[http] movie list %s failed: %v", list, err)
		writeError(w, upstreamStatus(err), "Filmler yüklenemedi")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// TVList serves /api/tv/{list}: popular, top_rated, on_the_air or airing_today.
func (h *CatalogHandler) TVList(w http.ResponseWriter, r *http.Request) {
	list := mux.Vars(r)["list"]
	var fetch func(context.Context, int) (*models.Page[models.TVShow], error)
	switch list {
	case "popular":
		fetch = h.catalog.PopularTVShows
	case "top_rated":
		fetch = h.catalog.TopRatedTVShows
	case "on_the_air":
		fetch = h.catalog.OnTheAirTVShows
	case "airing_today":
		fetch = h.catalog.AiringTodayTVShows
	default:
		writeError(w, http.StatusNotFound, "unknown tv list")
		return
	}

	page, err := fetch(r.Context(), pageParam(r))
	if err != nil {
		log.Printf("[http] tv list %s failed: %v", list, err)
		writeError(w, upstreamStatus(err), "Diziler yüklenemedi")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Trending serves /api/trending/{kind}/{window}; kind is movie, tv or all.
func (h *CatalogHandler) Trending(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	kind, window := vars["kind"], vars["window"]
	if window != "day" && window != "week" {
		writeError(w, http.StatusBadRequest, "window must be day or week")
		return
	}

	var (
		results any
		err     error
	)
	switch kind {
	case "movie":
		results, err = h.catalog.TrendingMovies(r.Context(), window)
	case "tv":
		results, err = h.catalog.TrendingTVShows(r.Context(), window)
	case "all":
		results, err = h.catalog.TrendingAll(r.Context(), window)
	default:
		writeError(w, http.StatusBadRequest, "kind must be movie, tv or all")
		return
	}
	if err != nil {
		log.Printf("[http] trending %s/%s failed: %v", kind, window, err)
		writeError(w, upstreamStatus(err), "Trend içerikler yüklenemedi")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (h *CatalogHandler) Person(w http.ResponseWriter, r *http.Request) {
	id := trimAndParseInt64(mux.Vars(r)["id"])
	if id <= 0 {
		writeError(w, http.StatusNotFound, "Kişi bulunamadı")
		return
	}

	person, err := h.catalog.PersonDetails(r.Context(), id)
	if err != nil {
		log.Printf("[http] person %d failed: %v", id, err)
		writeError(w, http.StatusNotFound, "Kişi bulunamadı")
		return
	}
	writeJSON(w, http.StatusOK, person)
}

func (h *CatalogHandler) PersonCredits(w http.ResponseWriter, r *http.Request) {
	id := trimAndParseInt64(mux.Vars(r)["id"])
	if id <= 0 {
		writeError(w, http.StatusNotFound, "Kişi bulunamadı")
		return
	}

	credits, err := h.catalog.PersonCredits(r.Context(), id)
	if err != nil {
		log.Printf("[http] person %d credits failed: %v", id, err)
		writeError(w, http.StatusNotFound, "Kişi bulunamadı")
		return
	}
	writeJSON(w, http.StatusOK, credits)
}

func (h *CatalogHandler) Genres(w http.ResponseWriter, r *http.Request) {
	kind := models.MediaKind(mux.Vars(r)["kind"])
	if !kind.Valid() {
		writeError(w, http.StatusBadRequest, "kind must be movie or tv")
		return
	}

	genres, err := h.catalog.Genres(r.Context(), kind)
	if err != nil {
		log.Printf("[http] %s genres failed: %v", kind, err)
		writeError(w, upstreamStatus(err), "Türler yüklenemedi")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"genres": genres})
}
