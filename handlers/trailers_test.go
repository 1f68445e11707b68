package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"hangiplatform/handlers"
	"hangiplatform/models"
	"hangiplatform/services/trailers"
)

type fakeTrailers struct {
	items []models.TrailerItem
	err   error
	last  trailers.Filter
	calls int
}

func (f *fakeTrailers) Latest(_ context.Context, filter trailers.Filter) ([]models.TrailerItem, error) {
	f.calls++
	f.last = filter
	return f.items, f.err
}

func TestTrailersLatest(t *testing.T) {
	fake := &fakeTrailers{items: []models.TrailerItem{{ID: 1, Title: "Dune", MediaType: models.MediaKindMovie, TrailerKey: "xyz"}}}
	h := handlers.NewTrailersHandler(fake)

	rec := httptest.NewRecorder()
	h.Latest(rec, httptest.NewRequest(http.MethodGet, "/api/trailers?filter=on-tv", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if fake.last != trailers.FilterOnTV {
		t.Errorf("expected on-tv filter, got %q", fake.last)
	}
	var resp models.TrailerResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].TrailerKey != "xyz" {
		t.Errorf("unexpected results %+v", resp.Results)
	}
}

func TestTrailersLatest_DefaultFilterAndEmptyResults(t *testing.T) {
	fake := &fakeTrailers{}
	h := handlers.NewTrailersHandler(fake)

	rec := httptest.NewRecorder()
	h.Latest(rec, httptest.NewRequest(http.MethodGet, "/api/trailers", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if fake.last != trailers.FilterPopular {
		t.Errorf("expected popular filter, got %q", fake.last)
	}
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(rec.Body).Decode(&raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(raw["results"]) != "[]" {
		t.Errorf("expected empty results array, got %s", raw["results"])
	}
}

func TestTrailersLatest_InvalidFilter(t *testing.T) {
	fake := &fakeTrailers{}
	h := handlers.NewTrailersHandler(fake)

	rec := httptest.NewRecorder()
	h.Latest(rec, httptest.NewRequest(http.MethodGet, "/api/trailers?filter=upcoming", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if msg := decodeError(t, rec); msg != "Invalid filter" {
		t.Errorf("unexpected message %q", msg)
	}
	if fake.calls != 0 {
		t.Errorf("service should not be called for an invalid filter")
	}
}

func TestTrailersLatest_ServiceError(t *testing.T) {
	h := handlers.NewTrailersHandler(&fakeTrailers{err: errors.New("tmdb down")})

	rec := httptest.NewRecorder()
	h.Latest(rec, httptest.NewRequest(http.MethodGet, "/api/trailers?filter=streaming", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if msg := decodeError(t, rec); msg != "Trailer'lar yüklenemedi" {
		t.Errorf("unexpected message %q", msg)
	}
}
