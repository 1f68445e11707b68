package models

import "time"

// SlugResolution records which TMDB id an SEO slug resolved to.
type SlugResolution struct {
	Slug       string    `json:"slug"`
	Kind       string    `json:"kind"` // movie | tv | person
	TMDBID     int64     `json:"tmdbId"`
	Title      string    `json:"title"`
	ResolvedAt time.Time `json:"resolvedAt"`
}

// SlugLookup is the response for slug resolution endpoints.
type SlugLookup struct {
	Slug   string    `json:"slug"`
	ID     int64     `json:"id"`
	Type   MediaKind `json:"type,omitempty"`
	Person bool      `json:"person,omitempty"`
}
