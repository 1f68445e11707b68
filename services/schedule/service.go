// Package schedule scrapes today's TV listings and televised matches from
// tvyayinakisi.com.
package schedule

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"sort"
	"strings"
	"time"

	"hangiplatform/internal/scrape"
	"hangiplatform/models"

	"github.com/sourcegraph/conc/pool"
)

const (
	seriesPath  = "/dizi-yayin-akisi/"
	moviesPath  = "/film-yayin-akisi/"
	matchesPath = "/bugunku-maclar/"
)

// ErrUnknownSport is returned by ParseSport for anything but futbol or basketbol.
var ErrUnknownSport = errors.New("unknown sport")

// ParseSport maps a query value to a Sport; empty means football.
func ParseSport(s string) (models.Sport, error) {
	switch models.Sport(strings.ToLower(strings.TrimSpace(s))) {
	case "", models.SportFootball:
		return models.SportFootball, nil
	case models.SportBasketball:
		return models.SportBasketball, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSport, s)
}

// Service serves today's listings. Scrape failures never surface to callers:
// they get the cached or snapshotted listing, or an empty slice.
type Service struct {
	baseURL string
	fetcher *scrape.Fetcher
	cache   *scrape.Cache
}

func NewService(baseURL string, fetcher *scrape.Fetcher, cache *scrape.Cache) *Service {
	return &Service{
		baseURL: strings.TrimRight(baseURL, "/"),
		fetcher: fetcher,
		cache:   cache,
	}
}

func (s *Service) TodaySeries(ctx context.Context) []models.ScheduleItem {
	return scrape.Load(ctx, s.cache, "series", s.listingFetcher(seriesPath, models.ScheduleKindSeries))
}

func (s *Service) TodayMovies(ctx context.Context) []models.ScheduleItem {
	return scrape.Load(ctx, s.cache, "movies", s.listingFetcher(moviesPath, models.ScheduleKindMovie))
}

func (s *Service) TodayMatches(ctx context.Context, sport models.Sport) []models.Match {
	return scrape.Load(ctx, s.cache, "matches:"+string(sport), s.matchFetcher(sport))
}

// TodaySchedule merges series and movies ordered by start time.
func (s *Service) TodaySchedule(ctx context.Context) []models.ScheduleItem {
	series := s.TodaySeries(ctx)
	movies := s.TodayMovies(ctx)
	return mergeByTime(series, movies)
}

// TodayByChannel groups TodaySchedule by channel, channels ordered by their
// first programme of the day.
func (s *Service) TodayByChannel(ctx context.Context) []models.ChannelSchedule {
	return groupByChannel(s.TodaySchedule(ctx))
}

// Refresh re-scrapes every listing and replaces the cached copies. Scrape
// failures are absorbed by the cache; only cancellation is reported.
func (s *Service) Refresh(ctx context.Context) error {
	start := time.Now()
	p := pool.New().WithMaxGoroutines(4)
	p.Go(func() {
		items := scrape.Refresh(ctx, s.cache, "series", s.listingFetcher(seriesPath, models.ScheduleKindSeries))
		log.Printf("[schedule] refreshed series: %d items", len(items))
	})
	p.Go(func() {
		items := scrape.Refresh(ctx, s.cache, "movies", s.listingFetcher(moviesPath, models.ScheduleKindMovie))
		log.Printf("[schedule] refreshed movies: %d items", len(items))
	})
	for _, sport := range []models.Sport{models.SportFootball, models.SportBasketball} {
		sport := sport
		p.Go(func() {
			items := scrape.Refresh(ctx, s.cache, "matches:"+string(sport), s.matchFetcher(sport))
			log.Printf("[schedule] refreshed %s matches: %d items", sport, len(items))
		})
	}
	p.Wait()
	log.Printf("[schedule] refresh finished in %s", time.Since(start).Round(time.Millisecond))
	return ctx.Err()
}

func (s *Service) listingFetcher(path string, kind models.ScheduleKind) func(context.Context) ([]models.ScheduleItem, error) {
	return func(ctx context.Context) ([]models.ScheduleItem, error) {
		body, err := s.fetcher.Fetch(ctx, s.baseURL+path)
		if err != nil {
			return nil, err
		}
		items, err := ParseListings(bytes.NewReader(body), kind)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		log.Printf("[schedule] parsed %d %s rows", len(items), kind)
		return items, nil
	}
}

func (s *Service) matchFetcher(sport models.Sport) func(context.Context) ([]models.Match, error) {
	return func(ctx context.Context) ([]models.Match, error) {
		u := s.baseURL + matchesPath + "?sport=" + url.QueryEscape(string(sport))
		body, err := s.fetcher.Fetch(ctx, u)
		if err != nil {
			return nil, err
		}
		matches, err := ParseMatches(bytes.NewReader(body), sport)
		if err != nil {
			return nil, fmt.Errorf("parse matches: %w", err)
		}
		log.Printf("[schedule] parsed %d %s matches", len(matches), sport)
		return matches, nil
	}
}

func mergeByTime(lists ...[]models.ScheduleItem) []models.ScheduleItem {
	out := make([]models.ScheduleItem, 0)
	for _, l := range lists {
		out = append(out, l...)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

func groupByChannel(items []models.ScheduleItem) []models.ChannelSchedule {
	groups := make([]models.ChannelSchedule, 0)
	index := make(map[string]int)
	for _, item := range items {
		i, ok := index[item.Channel]
		if !ok {
			i = len(groups)
			index[item.Channel] = i
			groups = append(groups, models.ChannelSchedule{
				Channel:     item.Channel,
				ChannelLogo: item.ChannelLogo,
			})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups
}
