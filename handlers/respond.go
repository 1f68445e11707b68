package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"hangiplatform/services/tmdb"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[http] encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// upstreamStatus maps a TMDB client error onto an HTTP status.
func upstreamStatus(err error) int {
	switch {
	case errors.Is(err, tmdb.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, tmdb.ErrMissingAPIKey):
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}

func trimAndParseInt(v string) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0
	}
	return n
}

func trimAndParseInt64(v string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func trimAndParseFloat(v string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0
	}
	return f
}

// pageParam reads ?page=, defaulting to 1 and clamping to TMDB's 500-page limit.
func pageParam(r *http.Request) int {
	page := trimAndParseInt(r.URL.Query().Get("page"))
	if page < 1 {
		return 1
	}
	if page > 500 {
		return 500
	}
	return page
}
