package models

// TrailerItem pairs a catalog title with its preferred YouTube trailer.
type TrailerItem struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Overview     string    `json:"overview"`
	PosterPath   string    `json:"poster_path"`
	BackdropPath string    `json:"backdrop_path"`
	PosterURL    string    `json:"poster_url"`
	BackdropURL  string    `json:"backdrop_url"`
	ReleaseDate  string    `json:"release_date,omitempty"`
	FirstAirDate string    `json:"first_air_date,omitempty"`
	MediaType    MediaKind `json:"media_type"`
	TrailerKey   string    `json:"trailer_key"`
	TrailerName  string    `json:"trailer_name"`
}

// TrailerResponse is the /api/trailers payload.
type TrailerResponse struct {
	Results []TrailerItem `json:"results"`
}
