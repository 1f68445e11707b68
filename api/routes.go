package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"hangiplatform/handlers"
)

// Handlers bundles every endpoint group served by the API.
type Handlers struct {
	Catalog  *handlers.CatalogHandler
	Details  *handlers.DetailsBundleHandler
	Slug     *handlers.SlugHandler
	Schedule *handlers.ScheduleHandler
	Trailers *handlers.TrailersHandler
	Tasks    *handlers.TasksHandler
	Version  *handlers.VersionHandler
}

// RegisterRoutes mounts the API on r. Routes that spend TMDB quota go through
// rl; scraped schedule routes are served from cache and are not limited.
func RegisterRoutes(r *mux.Router, h Handlers, rl *IPRateLimiter) {
	r.Use(RequestIDMiddleware, RecoverMiddleware, LoggingMiddleware)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/version", h.Version.GetVersion).Methods(http.MethodGet)

	tmdbRoutes := api.NewRoute().Subrouter()
	if rl != nil {
		tmdbRoutes.Use(rl.Middleware)
	}

	tmdbRoutes.HandleFunc("/search", h.Catalog.Search).Methods(http.MethodGet)
	tmdbRoutes.HandleFunc("/search/person", h.Catalog.SearchPerson).Methods(http.MethodGet)
	tmdbRoutes.HandleFunc("/discover/movie", h.Catalog.DiscoverMovies).Methods(http.MethodGet)
	tmdbRoutes.HandleFunc("/discover/tv", h.Catalog.DiscoverTV).Methods(http.MethodGet)
	tmdbRoutes.HandleFunc("/movies/{list}", h.Catalog.MovieList).Methods(http.MethodGet)
	tmdbRoutes.HandleFunc("/trending/{kind}/{window}", h.Catalog.Trending).Methods(http.MethodGet)
	tmdbRoutes.HandleFunc("/genres/{kind}", h.Catalog.Genres).Methods(http.MethodGet)

	tmdbRoutes.HandleFunc("/movie/{id:[0-9]+}", h.Details.Movie).Methods(http.MethodGet)
	tmdbRoutes.HandleFunc("/tv/{id:[0-9]+}", h.Details.TV).Methods(http.MethodGet)
	tmdbRoutes.HandleFunc("/tv/{list}", h.Catalog.TVList).Methods(http.MethodGet)

	tmdbRoutes.HandleFunc("/person/{id}", h.Catalog.Person).Methods(http.MethodGet)
	tmdbRoutes.HandleFunc("/person/{id}/credits", h.Catalog.PersonCredits).Methods(http.MethodGet)

	tmdbRoutes.HandleFunc("/slug/{slug}", h.Slug.Resolve).Methods(http.MethodGet)
	tmdbRoutes.HandleFunc("/person-slug/{slug}", h.Slug.ResolvePerson).Methods(http.MethodGet)
	tmdbRoutes.HandleFunc("/trailers", h.Trailers.Latest).Methods(http.MethodGet)

	api.HandleFunc("/slugify", h.Slug.Slugify).Methods(http.MethodGet)

	api.HandleFunc("/tv-schedule", h.Schedule.TodaySchedule).Methods(http.MethodGet)
	api.HandleFunc("/tv-schedule/by-channel", h.Schedule.ByChannel).Methods(http.MethodGet)
	api.HandleFunc("/tv-schedule/today-series", h.Schedule.TodaySeries).Methods(http.MethodGet)
	api.HandleFunc("/tv-schedule/today-movies", h.Schedule.TodayMovies).Methods(http.MethodGet)
	api.HandleFunc("/tv-schedule/today-matches", h.Schedule.TodayMatches).Methods(http.MethodGet)
	api.HandleFunc("/yayin-akisi/{category}", h.Schedule.Playbill).Methods(http.MethodGet)

	if h.Tasks != nil {
		run := h.Tasks.Run
		if rl != nil {
			run = RateLimitHandlerFunc(rl, run)
		}
		api.HandleFunc("/tasks", h.Tasks.List).Methods(http.MethodGet)
		api.HandleFunc("/tasks/{name}/run", run).Methods(http.MethodPost)
	}
}
