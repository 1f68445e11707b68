package models

// MediaKind distinguishes movies from TV shows in slugs, TMDB paths and search results.
type MediaKind string

const (
	MediaKindMovie MediaKind = "movie"
	MediaKindTV    MediaKind = "tv"
)

// Valid reports whether k is one of the known kinds.
func (k MediaKind) Valid() bool {
	return k == MediaKindMovie || k == MediaKindTV
}

type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ProductionCompany struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	LogoPath string `json:"logo_path"`
}

// Movie is the list/search shape TMDB returns for films.
type Movie struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int     `json:"vote_count"`
	GenreIDs     []int64 `json:"genre_ids,omitempty"`
	Popularity   float64 `json:"popularity,omitempty"`
}

// TVShow is the list/search shape TMDB returns for series.
type TVShow struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	FirstAirDate string  `json:"first_air_date"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int     `json:"vote_count"`
	GenreIDs     []int64 `json:"genre_ids,omitempty"`
	Popularity   float64 `json:"popularity,omitempty"`
}

// MediaItem is a single /search/multi or /trending/all result. Movies carry Title,
// TV shows carry Name; people also appear in multi search and are filtered by MediaType.
type MediaItem struct {
	ID           int64   `json:"id"`
	MediaType    string  `json:"media_type,omitempty"`
	Title        string  `json:"title,omitempty"`
	Name         string  `json:"name,omitempty"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	ProfilePath  string  `json:"profile_path,omitempty"`
	ReleaseDate  string  `json:"release_date,omitempty"`
	FirstAirDate string  `json:"first_air_date,omitempty"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int     `json:"vote_count"`
	GenreIDs     []int64 `json:"genre_ids,omitempty"`
	Popularity   float64 `json:"popularity,omitempty"`
}

// Kind infers the content kind. TMDB sets media_type on multi search, but list
// endpoints omit it, so the presence of title/name decides.
func (m MediaItem) Kind() MediaKind {
	switch m.MediaType {
	case string(MediaKindMovie):
		return MediaKindMovie
	case string(MediaKindTV):
		return MediaKindTV
	case "person":
		return ""
	}
	if m.Title != "" {
		return MediaKindMovie
	}
	if m.Name != "" {
		return MediaKindTV
	}
	return ""
}

// DisplayTitle returns the title for movies and the name for TV shows.
func (m MediaItem) DisplayTitle() string {
	if m.Title != "" {
		return m.Title
	}
	return m.Name
}

// Page is the paginated envelope used by every TMDB list endpoint.
type Page[T any] struct {
	Page         int `json:"page"`
	Results      []T `json:"results"`
	TotalPages   int `json:"total_pages"`
	TotalResults int `json:"total_results"`
}

type MovieDetails struct {
	Movie
	PosterURL           string              `json:"poster_url"`
	BackdropURL         string              `json:"backdrop_url"`
	Genres              []Genre             `json:"genres"`
	Runtime             int                 `json:"runtime"`
	ProductionCompanies []ProductionCompany `json:"production_companies"`
}

type TVShowDetails struct {
	TVShow
	PosterURL           string              `json:"poster_url"`
	BackdropURL         string              `json:"backdrop_url"`
	Genres              []Genre             `json:"genres"`
	NumberOfSeasons     int                 `json:"number_of_seasons"`
	NumberOfEpisodes    int                 `json:"number_of_episodes"`
	ProductionCompanies []ProductionCompany `json:"production_companies"`
}

type CastMember struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character,omitempty"`
	ProfilePath string `json:"profile_path"`
	ProfileURL  string `json:"profile_url"`
	Order       int    `json:"order"`
}

type CrewMember struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Job         string `json:"job"`
	Department  string `json:"department"`
	ProfilePath string `json:"profile_path"`
	ProfileURL  string `json:"profile_url"`
}

type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

type PersonDetails struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	Biography          string  `json:"biography"`
	Birthday           string  `json:"birthday"`
	Deathday           string  `json:"deathday"`
	PlaceOfBirth       string  `json:"place_of_birth"`
	ProfilePath        string  `json:"profile_path"`
	ProfileURL         string  `json:"profile_url"`
	KnownForDepartment string  `json:"known_for_department"`
	Popularity         float64 `json:"popularity"`
}

// PersonCredit is one row of /person/{id}/combined_credits; movie rows carry
// Title/ReleaseDate and TV rows carry Name/FirstAirDate.
type PersonCredit struct {
	ID           int64   `json:"id"`
	MediaType    string  `json:"media_type"`
	Title        string  `json:"title,omitempty"`
	Name         string  `json:"name,omitempty"`
	Character    string  `json:"character,omitempty"`
	Job          string  `json:"job,omitempty"`
	PosterPath   string  `json:"poster_path"`
	PosterURL    string  `json:"poster_url"`
	ReleaseDate  string  `json:"release_date,omitempty"`
	FirstAirDate string  `json:"first_air_date,omitempty"`
	VoteAverage  float64 `json:"vote_average"`
}

type PersonCredits struct {
	Cast []PersonCredit `json:"cast"`
	Crew []PersonCredit `json:"crew"`
}

type PersonSearchResult struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	ProfilePath        string  `json:"profile_path"`
	ProfileURL         string  `json:"profile_url"`
	KnownForDepartment string  `json:"known_for_department"`
	Popularity         float64 `json:"popularity"`
}

type WatchProvider struct {
	ProviderID      int64  `json:"provider_id"`
	ProviderName    string `json:"provider_name"`
	LogoPath        string `json:"logo_path"`
	LogoURL         string `json:"logo_url,omitempty"`
	DisplayPriority int    `json:"display_priority"`
}

// WatchProviders groups the offers available in a single region.
type WatchProviders struct {
	Flatrate []WatchProvider `json:"flatrate,omitempty"`
	Rent     []WatchProvider `json:"rent,omitempty"`
	Buy      []WatchProvider `json:"buy,omitempty"`
}

type Video struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Type        string `json:"type"` // Trailer, Teaser, Clip, Featurette, Behind the Scenes, Bloopers
	Site        string `json:"site"` // YouTube, Vimeo
	Size        int    `json:"size"`
	Official    bool   `json:"official"`
	PublishedAt string `json:"published_at"`
}

// ContentBundle is the detail payload served for a movie or TV page.
type ContentBundle struct {
	Kind      MediaKind      `json:"kind"`
	Movie     *MovieDetails  `json:"movie,omitempty"`
	TV        *TVShowDetails `json:"tv,omitempty"`
	Credits   *Credits       `json:"credits,omitempty"`
	Providers WatchProviders `json:"providers"`
	Videos    []Video        `json:"videos,omitempty"`
	Slug      string         `json:"slug"`
}

// DiscoverMovieQuery mirrors the /discover/movie filters the catalog exposes.
type DiscoverMovieQuery struct {
	Page              int
	SortBy            string
	WithGenres        string
	PrimaryReleaseGTE string
	PrimaryReleaseLTE string
	VoteAverageGTE    float64
	VoteCountGTE      int
	RuntimeGTE        int
	RuntimeLTE        int
}

// DiscoverTVQuery mirrors the /discover/tv filters the catalog exposes.
type DiscoverTVQuery struct {
	Page                 int
	SortBy               string
	WithGenres           string
	FirstAirDateGTE      string
	FirstAirDateLTE      string
	VoteAverageGTE       float64
	VoteCountGTE         int
	RuntimeGTE           int
	RuntimeLTE           int
	AirDateGTE           string
	AirDateLTE           string
	WithNetworks         string
	WithOriginalLanguage string
}
