package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"runtime"
	"sync"
	"testing"
)

func TestBackendVersion_PrefersLdflags(t *testing.T) {
	prev := Version
	t.Cleanup(func() {
		Version = prev
		versionOnce = sync.Once{}
		resolvedVersion = ""
	})

	Version = " 1.4.2 "
	versionOnce = sync.Once{}
	if got := BackendVersion(); got != "1.4.2" {
		t.Fatalf("expected 1.4.2, got %q", got)
	}
}

func TestGetVersion(t *testing.T) {
	prev := Version
	t.Cleanup(func() {
		Version = prev
		versionOnce = sync.Once{}
		resolvedVersion = ""
	})
	Version = "2.0.0"
	versionOnce = sync.Once{}

	rec := httptest.NewRecorder()
	NewVersionHandler().GetVersion(rec, httptest.NewRequest(http.MethodGet, "/api/version", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp VersionResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Version != "2.0.0" || resp.GoVersion != runtime.Version() {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestPageParam(t *testing.T) {
	tests := map[string]int{
		"":          1,
		"?page=0":   1,
		"?page=-3":  1,
		"?page=x":   1,
		"?page=7":   7,
		"?page=900": 500,
	}
	for query, want := range tests {
		r := httptest.NewRequest(http.MethodGet, "/"+query, nil)
		if got := pageParam(r); got != want {
			t.Errorf("pageParam(%q) = %d, want %d", query, got, want)
		}
	}
}
