package tmdb

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"hangiplatform/models"
)

func pageQuery(page int) url.Values {
	if page < 1 {
		page = 1
	}
	return url.Values{"page": {strconv.Itoa(page)}}
}

func (c *Client) moviePage(ctx context.Context, path string, page int) (*models.Page[models.Movie], error) {
	var out models.Page[models.Movie]
	if err := c.get(ctx, path, pageQuery(page), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) tvPage(ctx context.Context, path string, page int) (*models.Page[models.TVShow], error) {
	var out models.Page[models.TVShow]
	if err := c.get(ctx, path, pageQuery(page), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) PopularMovies(ctx context.Context, page int) (*models.Page[models.Movie], error) {
	return c.moviePage(ctx, "/movie/popular", page)
}

func (c *Client) TopRatedMovies(ctx context.Context, page int) (*models.Page[models.Movie], error) {
	return c.moviePage(ctx, "/movie/top_rated", page)
}

func (c *Client) NowPlayingMovies(ctx context.Context, page int) (*models.Page[models.Movie], error) {
	return c.moviePage(ctx, "/movie/now_playing", page)
}

func (c *Client) PopularTVShows(ctx context.Context, page int) (*models.Page[models.TVShow], error) {
	return c.tvPage(ctx, "/tv/popular", page)
}

func (c *Client) TopRatedTVShows(ctx context.Context, page int) (*models.Page[models.TVShow], error) {
	return c.tvPage(ctx, "/tv/top_rated", page)
}

func (c *Client) OnTheAirTVShows(ctx context.Context, page int) (*models.Page[models.TVShow], error) {
	return c.tvPage(ctx, "/tv/on_the_air", page)
}

func (c *Client) AiringTodayTVShows(ctx context.Context, page int) (*models.Page[models.TVShow], error) {
	return c.tvPage(ctx, "/tv/airing_today", page)
}

func timeWindow(window string) string {
	if window == "week" {
		return "week"
	}
	return "day"
}

func (c *Client) TrendingMovies(ctx context.Context, window string) ([]models.Movie, error) {
	var out models.Page[models.Movie]
	if err := c.get(ctx, "/trending/movie/"+timeWindow(window), nil, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

func (c *Client) TrendingTVShows(ctx context.Context, window string) ([]models.TVShow, error) {
	var out models.Page[models.TVShow]
	if err := c.get(ctx, "/trending/tv/"+timeWindow(window), nil, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

func (c *Client) TrendingAll(ctx context.Context, window string) ([]models.MediaItem, error) {
	var out models.Page[models.MediaItem]
	if err := c.get(ctx, "/trending/all/"+timeWindow(window), nil, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

func (c *Client) MovieDetails(ctx context.Context, id int64) (*models.MovieDetails, error) {
	var out models.MovieDetails
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", id), nil, &out); err != nil {
		return nil, err
	}
	out.PosterURL = c.PosterURL(out.PosterPath, "")
	out.BackdropURL = c.BackdropURL(out.BackdropPath, "")
	return &out, nil
}

func (c *Client) TVShowDetails(ctx context.Context, id int64) (*models.TVShowDetails, error) {
	var out models.TVShowDetails
	if err := c.get(ctx, fmt.Sprintf("/tv/%d", id), nil, &out); err != nil {
		return nil, err
	}
	out.PosterURL = c.PosterURL(out.PosterPath, "")
	out.BackdropURL = c.BackdropURL(out.BackdropPath, "")
	return &out, nil
}

// SearchMulti searches movies, TV shows and people in one call.
func (c *Client) SearchMulti(ctx context.Context, query string, page int) (*models.Page[models.MediaItem], error) {
	q := pageQuery(page)
	q.Set("query", query)
	var out models.Page[models.MediaItem]
	if err := c.get(ctx, "/search/multi", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SearchPerson(ctx context.Context, query string, page int) (*models.Page[models.PersonSearchResult], error) {
	q := pageQuery(page)
	q.Set("query", query)
	var out models.Page[models.PersonSearchResult]
	if err := c.get(ctx, "/search/person", q, &out); err != nil {
		return nil, err
	}
	for i := range out.Results {
		out.Results[i].ProfileURL = c.ProfileURL(out.Results[i].ProfilePath, "")
	}
	return &out, nil
}

func (c *Client) Credits(ctx context.Context, kind models.MediaKind, id int64) (*models.Credits, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown media kind %q", kind)
	}
	var out models.Credits
	if err := c.get(ctx, fmt.Sprintf("/%s/%d/credits", kind, id), nil, &out); err != nil {
		return nil, err
	}
	for i := range out.Cast {
		out.Cast[i].ProfileURL = c.ProfileURL(out.Cast[i].ProfilePath, "")
	}
	for i := range out.Crew {
		out.Crew[i].ProfileURL = c.ProfileURL(out.Crew[i].ProfilePath, "")
	}
	return &out, nil
}

type watchProvidersResponse struct {
	Results map[string]models.WatchProviders `json:"results"`
}

// WatchProviders returns the flat-rate (streaming) offers in the client region.
// Lookup failures are logged and reported as no providers.
func (c *Client) WatchProviders(ctx context.Context, kind models.MediaKind, id int64) []models.WatchProvider {
	full := c.WatchProvidersFull(ctx, kind, id)
	return full.Flatrate
}

// WatchProvidersFull returns flat-rate, rent and buy offers in the client region.
func (c *Client) WatchProvidersFull(ctx context.Context, kind models.MediaKind, id int64) models.WatchProviders {
	if !kind.Valid() {
		return models.WatchProviders{}
	}
	var out watchProvidersResponse
	if err := c.get(ctx, fmt.Sprintf("/%s/%d/watch/providers", kind, id), nil, &out); err != nil {
		log.Printf("[tmdb] watch providers for %s/%d unavailable: %v", kind, id, err)
		return models.WatchProviders{}
	}
	region, ok := out.Results[c.region]
	if !ok {
		return models.WatchProviders{}
	}
	region.Flatrate = c.withLogos(region.Flatrate)
	region.Rent = c.withLogos(region.Rent)
	region.Buy = c.withLogos(region.Buy)
	return region
}

// withLogos fills logo URLs and turns a missing offer list into an empty one.
func (c *Client) withLogos(providers []models.WatchProvider) []models.WatchProvider {
	if providers == nil {
		return []models.WatchProvider{}
	}
	for i := range providers {
		providers[i].LogoURL = c.ProviderLogoURL(providers[i].LogoPath, "")
	}
	return providers
}

func (c *Client) PersonDetails(ctx context.Context, id int64) (*models.PersonDetails, error) {
	var out models.PersonDetails
	if err := c.get(ctx, fmt.Sprintf("/person/%d", id), nil, &out); err != nil {
		return nil, err
	}
	out.ProfileURL = c.ProfileURL(out.ProfilePath, "")
	return &out, nil
}

// PersonCredits returns the combined movie and TV filmography.
func (c *Client) PersonCredits(ctx context.Context, id int64) (*models.PersonCredits, error) {
	var out models.PersonCredits
	if err := c.get(ctx, fmt.Sprintf("/person/%d/combined_credits", id), nil, &out); err != nil {
		return nil, err
	}
	for _, rows := range [][]models.PersonCredit{out.Cast, out.Crew} {
		for i := range rows {
			rows[i].PosterURL = c.PosterURL(rows[i].PosterPath, "")
		}
	}
	return &out, nil
}

func (c *Client) Videos(ctx context.Context, kind models.MediaKind, id int64) ([]models.Video, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown media kind %q", kind)
	}
	var out struct {
		ID      int64          `json:"id"`
		Results []models.Video `json:"results"`
	}
	if err := c.get(ctx, fmt.Sprintf("/%s/%d/videos", kind, id), nil, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

func (c *Client) Genres(ctx context.Context, kind models.MediaKind) ([]models.Genre, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown media kind %q", kind)
	}
	var out struct {
		Genres []models.Genre `json:"genres"`
	}
	if err := c.get(ctx, fmt.Sprintf("/genre/%s/list", kind), nil, &out); err != nil {
		return nil, err
	}
	return out.Genres, nil
}

func (c *Client) DiscoverMovies(ctx context.Context, dq models.DiscoverMovieQuery) (*models.Page[models.Movie], error) {
	q := pageQuery(dq.Page)
	setIf(q, "sort_by", dq.SortBy)
	setIf(q, "with_genres", dq.WithGenres)
	setIf(q, "primary_release_date.gte", dq.PrimaryReleaseGTE)
	setIf(q, "primary_release_date.lte", dq.PrimaryReleaseLTE)
	setFloatIf(q, "vote_average.gte", dq.VoteAverageGTE)
	setIntIf(q, "vote_count.gte", dq.VoteCountGTE)
	setIntIf(q, "with_runtime.gte", dq.RuntimeGTE)
	setIntIf(q, "with_runtime.lte", dq.RuntimeLTE)

	var out models.Page[models.Movie]
	if err := c.get(ctx, "/discover/movie", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DiscoverTV(ctx context.Context, dq models.DiscoverTVQuery) (*models.Page[models.TVShow], error) {
	q := pageQuery(dq.Page)
	setIf(q, "sort_by", dq.SortBy)
	setIf(q, "with_genres", dq.WithGenres)
	setIf(q, "first_air_date.gte", dq.FirstAirDateGTE)
	setIf(q, "first_air_date.lte", dq.FirstAirDateLTE)
	setFloatIf(q, "vote_average.gte", dq.VoteAverageGTE)
	setIntIf(q, "vote_count.gte", dq.VoteCountGTE)
	setIntIf(q, "with_runtime.gte", dq.RuntimeGTE)
	setIntIf(q, "with_runtime.lte", dq.RuntimeLTE)
	setIf(q, "air_date.gte", dq.AirDateGTE)
	setIf(q, "air_date.lte", dq.AirDateLTE)
	setIf(q, "with_networks", dq.WithNetworks)
	setIf(q, "with_original_language", dq.WithOriginalLanguage)

	var out models.Page[models.TVShow]
	if err := c.get(ctx, "/discover/tv", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func setIntIf(q url.Values, key string, value int) {
	if value > 0 {
		q.Set(key, strconv.Itoa(value))
	}
}

func setFloatIf(q url.Values, key string, value float64) {
	if value > 0 {
		q.Set(key, strconv.FormatFloat(value, 'f', -1, 64))
	}
}
