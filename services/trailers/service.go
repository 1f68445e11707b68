// Package trailers builds the trailer rail: popular, streaming, on-TV and
// in-theatre titles that have a YouTube trailer, in TMDB order.
package trailers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"hangiplatform/models"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sourcegraph/conc/pool"
)

const (
	batchSize         = 10
	maxTrailers       = 20
	maxProviderChecks = 100
)

type Filter string

const (
	FilterPopular    Filter = "popular"
	FilterStreaming  Filter = "streaming"
	FilterOnTV       Filter = "on-tv"
	FilterInTheaters Filter = "in-theaters"
)

var ErrUnknownFilter = errors.New("invalid filter")

// ParseFilter maps the query value onto a Filter; empty means popular.
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(s); f {
	case "":
		return FilterPopular, nil
	case FilterPopular, FilterStreaming, FilterOnTV, FilterInTheaters:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFilter, s)
}

// Catalog is the slice of the TMDB client the trailer rail needs.
type Catalog interface {
	PopularMovies(ctx context.Context, page int) (*models.Page[models.Movie], error)
	PopularTVShows(ctx context.Context, page int) (*models.Page[models.TVShow], error)
	NowPlayingMovies(ctx context.Context, page int) (*models.Page[models.Movie], error)
	OnTheAirTVShows(ctx context.Context, page int) (*models.Page[models.TVShow], error)
	Videos(ctx context.Context, kind models.MediaKind, id int64) ([]models.Video, error)
	WatchProviders(ctx context.Context, kind models.MediaKind, id int64) []models.WatchProvider
	PosterURL(path, size string) string
	BackdropURL(path, size string) string
}

type Service struct {
	catalog Catalog
	cache   *gocache.Cache
}

// NewService caches each filter's rail for ttl; ttl <= 0 disables caching.
func NewService(catalog Catalog, ttl time.Duration) *Service {
	s := &Service{catalog: catalog}
	if ttl > 0 {
		s.cache = gocache.New(ttl, 2*ttl)
	}
	return s
}

// Latest returns up to 20 titles with trailers for the filter.
func (s *Service) Latest(ctx context.Context, filter Filter) ([]models.TrailerItem, error) {
	if s.cache != nil {
		if v, ok := s.cache.Get(string(filter)); ok {
			return v.([]models.TrailerItem), nil
		}
	}

	var (
		items []models.TrailerItem
		err   error
	)
	switch filter {
	case FilterPopular:
		items, err = s.popular(ctx)
	case FilterStreaming:
		items, err = s.streaming(ctx)
	case FilterOnTV:
		items, err = s.onTV(ctx)
	case FilterInTheaters:
		items, err = s.inTheaters(ctx)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFilter, filter)
	}
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].PosterURL = s.catalog.PosterURL(items[i].PosterPath, "")
		items[i].BackdropURL = s.catalog.BackdropURL(items[i].BackdropPath, "")
	}

	if s.cache != nil && len(items) > 0 {
		s.cache.SetDefault(string(filter), items)
	}
	log.Printf("[trailers] %s: %d trailers", filter, len(items))
	return items, nil
}

func (s *Service) popular(ctx context.Context) ([]models.TrailerItem, error) {
	movies, shows, err := s.popularCandidates(ctx)
	if err != nil {
		return nil, err
	}
	return s.moviesThenTV(ctx, movies, shows, 60), nil
}

func (s *Service) streaming(ctx context.Context) ([]models.TrailerItem, error) {
	movies, shows, err := s.popularCandidates(ctx)
	if err != nil {
		return nil, err
	}
	all := append(append([]candidate{}, movies...), shows...)
	if len(all) > maxProviderChecks {
		all = all[:maxProviderChecks]
	}

	keep := make([]bool, len(all))
	p := pool.New().WithMaxGoroutines(batchSize)
	for i, c := range all {
		i, c := i, c
		p.Go(func() {
			keep[i] = len(s.catalog.WatchProviders(ctx, c.kind, c.id)) > 0
		})
	}
	p.Wait()

	var streamMovies, streamShows []candidate
	for i, c := range all {
		if !keep[i] {
			continue
		}
		if c.kind == models.MediaKindMovie {
			streamMovies = append(streamMovies, c)
		} else {
			streamShows = append(streamShows, c)
		}
	}
	return s.moviesThenTV(ctx, streamMovies, streamShows, 60), nil
}

func (s *Service) onTV(ctx context.Context) ([]models.TrailerItem, error) {
	shows, err := collectPages(ctx, 4, s.catalog.OnTheAirTVShows, fromTVShow)
	if err != nil {
		return nil, err
	}
	return s.withTrailers(ctx, shows, 80), nil
}

func (s *Service) inTheaters(ctx context.Context) ([]models.TrailerItem, error) {
	movies, err := collectPages(ctx, 4, s.catalog.NowPlayingMovies, fromMovie)
	if err != nil {
		return nil, err
	}
	return s.withTrailers(ctx, movies, 80), nil
}

func (s *Service) popularCandidates(ctx context.Context) (movies, shows []candidate, err error) {
	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		var err error
		movies, err = collectPages(ctx, 3, s.catalog.PopularMovies, fromMovie)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		shows, err = collectPages(ctx, 3, s.catalog.PopularTVShows, fromTVShow)
		return err
	})
	if err := p.Wait(); err != nil {
		return nil, nil, err
	}
	return movies, shows, nil
}

func (s *Service) moviesThenTV(ctx context.Context, movies, shows []candidate, limit int) []models.TrailerItem {
	var movieTrailers, tvTrailers []models.TrailerItem
	p := pool.New()
	p.Go(func() { movieTrailers = s.withTrailers(ctx, movies, limit) })
	p.Go(func() { tvTrailers = s.withTrailers(ctx, shows, limit) })
	p.Wait()

	out := append(movieTrailers, tvTrailers...)
	if len(out) > maxTrailers {
		out = out[:maxTrailers]
	}
	return out
}

// withTrailers looks up videos for the first limit candidates in batches of
// ten and stops once a batch brings the total to twenty.
func (s *Service) withTrailers(ctx context.Context, items []candidate, limit int) []models.TrailerItem {
	if len(items) > limit {
		items = items[:limit]
	}
	out := make([]models.TrailerItem, 0, maxTrailers)
	for start := 0; start < len(items) && len(out) < maxTrailers; start += batchSize {
		end := min(start+batchSize, len(items))
		batch := items[start:end]
		found := make([]*models.TrailerItem, len(batch))

		p := pool.New().WithMaxGoroutines(batchSize)
		for i, c := range batch {
			i, c := i, c
			p.Go(func() {
				videos, err := s.catalog.Videos(ctx, c.kind, c.id)
				if err != nil {
					log.Printf("[trailers] videos %s/%d: %v", c.kind, c.id, err)
					return
				}
				if v, ok := SelectTrailer(videos); ok {
					item := c.trailerItem(v)
					found[i] = &item
				}
			})
		}
		p.Wait()

		for _, item := range found {
			if item != nil {
				out = append(out, *item)
			}
		}
	}
	if len(out) > maxTrailers {
		out = out[:maxTrailers]
	}
	return out
}

// SelectTrailer picks a YouTube video: an official trailer, then any trailer,
// then a teaser, then a clip.
func SelectTrailer(videos []models.Video) (models.Video, bool) {
	rules := []func(models.Video) bool{
		func(v models.Video) bool { return v.Type == "Trailer" && v.Official },
		func(v models.Video) bool { return v.Type == "Trailer" },
		func(v models.Video) bool { return v.Type == "Teaser" },
		func(v models.Video) bool { return v.Type == "Clip" },
	}
	for _, rule := range rules {
		for _, v := range videos {
			if v.Site == "YouTube" && v.Key != "" && rule(v) {
				return v, true
			}
		}
	}
	return models.Video{}, false
}

type candidate struct {
	kind         models.MediaKind
	id           int64
	title        string
	overview     string
	posterPath   string
	backdropPath string
	releaseDate  string
	firstAirDate string
}

func fromMovie(m models.Movie) candidate {
	return candidate{
		kind: models.MediaKindMovie, id: m.ID, title: m.Title, overview: m.Overview,
		posterPath: m.PosterPath, backdropPath: m.BackdropPath, releaseDate: m.ReleaseDate,
	}
}

func fromTVShow(t models.TVShow) candidate {
	return candidate{
		kind: models.MediaKindTV, id: t.ID, title: t.Name, overview: t.Overview,
		posterPath: t.PosterPath, backdropPath: t.BackdropPath, firstAirDate: t.FirstAirDate,
	}
}

func (c candidate) trailerItem(v models.Video) models.TrailerItem {
	return models.TrailerItem{
		ID:           c.id,
		Title:        c.title,
		Overview:     c.overview,
		PosterPath:   c.posterPath,
		BackdropPath: c.backdropPath,
		ReleaseDate:  c.releaseDate,
		FirstAirDate: c.firstAirDate,
		MediaType:    c.kind,
		TrailerKey:   v.Key,
		TrailerName:  v.Name,
	}
}

// collectPages fetches pages 1..n concurrently and concatenates them in page order.
func collectPages[T any](ctx context.Context, n int, fetch func(context.Context, int) (*models.Page[T], error), conv func(T) candidate) ([]candidate, error) {
	pages := make([][]T, n)
	p := pool.New().WithErrors().WithContext(ctx)
	for i := 0; i < n; i++ {
		i := i
		p.Go(func(ctx context.Context) error {
			page, err := fetch(ctx, i+1)
			if err != nil {
				return fmt.Errorf("page %d: %w", i+1, err)
			}
			pages[i] = page.Results
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	var out []candidate
	for _, results := range pages {
		for _, r := range results {
			out = append(out, conv(r))
		}
	}
	return out, nil
}
