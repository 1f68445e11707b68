package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"hangiplatform/handlers"
	"hangiplatform/internal/scrape"
	"hangiplatform/services/schedule"
	"hangiplatform/services/scheduler"
	"hangiplatform/services/slug"
	"hangiplatform/services/tmdb"
	"hangiplatform/services/trailers"
	"hangiplatform/services/tvplus"
	"hangiplatform/utils"
)

func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/search/multi":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"page":1,"results":[{"id":11,"media_type":"movie","title":"Ezel"}]}`))
		case strings.HasPrefix(r.URL.Path, "/canli-tv/"):
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte(`<html><body>no data</body></html>`))
		case strings.Contains(r.URL.Path, "yayin-akisi") || strings.Contains(r.URL.Path, "maclar"):
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte(`<html><body><ul><li>20:00 Kızılcık Şerbeti SHOW TV</li></ul></body></html>`))
		default:
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"page":1,"results":[]}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestRouter(t *testing.T, rl *IPRateLimiter) http.Handler {
	t.Helper()
	upstream := newUpstream(t)

	client := tmdb.NewClient(tmdb.Config{
		APIKey:     "test-key",
		BaseURL:    upstream.URL,
		HTTPClient: upstream.Client(),
		Attempts:   1,
	})
	fetcher := scrape.NewFetcher(upstream.Client(), "test-agent").WithRetry(1, time.Millisecond)
	scheduleSvc := schedule.NewService(upstream.URL, fetcher, scrape.NewCache("schedule", time.Minute, nil, time.UTC))
	tvplusSvc := tvplus.NewService(upstream.URL, fetcher, scrape.NewCache("tvplus", time.Minute, nil, time.UTC))
	tasks, err := scheduler.NewService("*/30 * * * *", time.UTC, time.Minute,
		scheduler.Task{Name: "cache-warm", Run: func(context.Context) error { return nil }})
	if err != nil {
		t.Fatalf("scheduler: %v", err)
	}

	r := utils.NewRouter(nil)
	RegisterRoutes(r, Handlers{
		Catalog:  handlers.NewCatalogHandler(client),
		Details:  handlers.NewDetailsBundleHandler(client),
		Slug:     handlers.NewSlugHandler(slug.NewResolver(client, nil)),
		Schedule: handlers.NewScheduleHandler(scheduleSvc, tvplusSvc),
		Trailers: handlers.NewTrailersHandler(trailers.NewService(client, 0)),
		Tasks:    handlers.NewTasksHandler(tasks),
		Version:  handlers.NewVersionHandler(),
	}, rl)
	return r
}

func TestRegisterRoutes(t *testing.T) {
	router := newTestRouter(t, nil)

	tests := []struct {
		path   string
		status int
	}{
		{"/health", http.StatusOK},
		{"/api/version", http.StatusOK},
		{"/api/search?q=ezel", http.StatusOK},
		{"/api/search", http.StatusBadRequest},
		{"/api/search/person?q=cem", http.StatusOK},
		{"/api/discover/movie?with_genres=18", http.StatusOK},
		{"/api/discover/tv", http.StatusOK},
		{"/api/movies/popular", http.StatusOK},
		{"/api/movies/upcoming", http.StatusNotFound},
		{"/api/tv/airing_today", http.StatusOK},
		{"/api/tv/1399", http.StatusOK},
		{"/api/movie/550", http.StatusOK},
		{"/api/trending/all/day", http.StatusOK},
		{"/api/genres/movie", http.StatusOK},
		{"/api/person/287", http.StatusOK},
		{"/api/person/287/credits", http.StatusOK},
		{"/api/slug/ezel-filmi-hangi-platformda", http.StatusOK},
		{"/api/slug/ezel", http.StatusBadRequest},
		{"/api/slugify?title=Ezel&type=tv", http.StatusOK},
		{"/api/trailers", http.StatusOK},
		{"/api/trailers?filter=upcoming", http.StatusBadRequest},
		{"/api/tv-schedule", http.StatusOK},
		{"/api/tv-schedule/by-channel", http.StatusOK},
		{"/api/tv-schedule/today-series", http.StatusOK},
		{"/api/tv-schedule/today-movies", http.StatusOK},
		{"/api/tv-schedule/today-matches?sport=basketbol", http.StatusOK},
		{"/api/tv-schedule/today-matches?sport=tenis", http.StatusBadRequest},
		{"/api/yayin-akisi/movies", http.StatusOK},
		{"/api/yayin-akisi/news", http.StatusNotFound},
		{"/api/tasks", http.StatusOK},
		{"/api/unknown", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRegisterRoutes_SetsRequestID(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/version", nil))
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Fatal("expected X-Request-ID on API responses")
	}
}

func TestRegisterRoutes_RateLimitsTMDBRoutesOnly(t *testing.T) {
	router := newTestRouter(t, NewIPRateLimiter(rate.Every(time.Hour), 1))

	get := func(path string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = "203.0.113.7:5555"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := get("/api/search?q=ezel"); code != http.StatusOK {
		t.Fatalf("first search: expected 200, got %d", code)
	}
	if code := get("/api/search?q=ezel"); code != http.StatusTooManyRequests {
		t.Fatalf("second search: expected 429, got %d", code)
	}
	for i := 0; i < 3; i++ {
		if code := get("/api/tv-schedule"); code != http.StatusOK {
			t.Fatalf("schedule request %d: expected 200, got %d", i, code)
		}
	}
}

func TestRegisterRoutes_TaskRunIsLimited(t *testing.T) {
	router := newTestRouter(t, NewIPRateLimiter(rate.Every(time.Hour), 1))

	post := func(path string) int {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.RemoteAddr = "203.0.113.9:5555"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := post("/api/tasks/cache-warm/run"); code != http.StatusAccepted {
		t.Fatalf("first run: expected 202, got %d", code)
	}
	if code := post("/api/tasks/cache-warm/run"); code != http.StatusTooManyRequests {
		t.Fatalf("second run: expected 429, got %d", code)
	}
}
