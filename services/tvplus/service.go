// Package tvplus reads today's playbills from tvplus.com.tr category pages.
package tvplus

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"hangiplatform/internal/scrape"
	"hangiplatform/models"

	"github.com/sourcegraph/conc/pool"
)

const schedulePath = "/canli-tv/yayin-akisi/"

type Category string

const (
	CategoryMovies        Category = "movies"
	CategorySeries        Category = "series"
	CategoryDocumentaries Category = "documentaries"
	CategorySports        Category = "sports"
	CategoryFootball      Category = "football"
	CategoryBasketball    Category = "basketball"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryMovies, CategorySeries, CategoryDocumentaries,
	CategorySports, CategoryFootball, CategoryBasketball,
}

var categorySlugs = map[Category]string{
	CategoryMovies:        "bugun-hangi-filmler-var",
	CategorySeries:        "bugun-hangi-diziler-var",
	CategoryDocumentaries: "bugun-hangi-belgeseller-var",
	CategorySports:        "bugun-hangi-spor-yayinlari-var",
	CategoryFootball:      "bugun-hangi-futbol-maclari-var",
	CategoryBasketball:    "bugun-hangi-basketbol-maclari-var",
}

var ErrUnknownCategory = errors.New("unknown tvplus category")

func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := categorySlugs[c]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}

// Slug is the page slug on tvplus.com.tr.
func (c Category) Slug() string {
	return categorySlugs[c]
}

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

// Today returns the category's playbill. Failures yield an empty slice.
func (s *Service) Today(ctx context.Context, c Category) []models.TVPlusProgram {
	if c.Slug() == "" {
		return []models.TVPlusProgram{}
	}
	return scrape.Load(ctx, s.cache, string(c), s.fetch(c))
}

// Refresh re-fetches every category. Only cancellation is reported.
func (s *Service) Refresh(ctx context.Context) error {
	p := pool.New().WithMaxGoroutines(3)
	for _, c := range Categories {
		c := c
		p.Go(func() {
			programs := scrape.Refresh(ctx, s.cache, string(c), s.fetch(c))
			log.Printf("[tvplus] refreshed %s: %d programmes", c, len(programs))
		})
	}
	p.Wait()
	return ctx.Err()
}

func (s *Service) fetch(c Category) func(context.Context) ([]models.TVPlusProgram, error) {
	return func(ctx context.Context) ([]models.TVPlusProgram, error) {
		body, err := s.fetcher.Fetch(ctx, s.baseURL+schedulePath+c.Slug())
		if err != nil {
			return nil, err
		}
		programs, err := ParsePlaybills(body, s.cache.Location())
		if err != nil {
			return nil, err
		}
		log.Printf("[tvplus] parsed %d %s programmes", len(programs), c)
		return programs, nil
	}
}
