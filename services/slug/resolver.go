package slug

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/hbollon/go-edlib"

	"hangiplatform/models"
)

// MinSimilarity is the Jaro-Winkler score above which a search result is
// accepted as the same title when neither contains the other.
const MinSimilarity float32 = 0.85

const personKind = "person"

// Searcher is the subset of the TMDB client used for resolution.
type Searcher interface {
	SearchMulti(ctx context.Context, query string, page int) (*models.Page[models.MediaItem], error)
	SearchPerson(ctx context.Context, query string, page int) (*models.Page[models.PersonSearchResult], error)
}

// Store persists resolved slugs. Get returns nil without error on a miss.
type Store interface {
	Get(slug string) (*models.SlugResolution, error)
	Upsert(res models.SlugResolution) error
}

// Resolver maps slugs back to TMDB ids.
type Resolver struct {
	search Searcher
	store  Store
	now    func() time.Time
}

// NewResolver creates a resolver. store may be nil to disable persistence.
func NewResolver(search Searcher, store Store) *Resolver {
	return &Resolver{search: search, store: store, now: time.Now}
}

// Resolve returns the TMDB id and kind for a content slug.
func (r *Resolver) Resolve(ctx context.Context, s string) (int64, models.MediaKind, error) {
	title, kind, err := ParseSlug(s)
	if err != nil {
		log.Printf("[slug] cannot parse %q: %v", s, err)
		return 0, "", err
	}

	if cached := r.lookup(s, string(kind)); cached != nil {
		return cached.TMDBID, kind, nil
	}

	page, err := r.search.SearchMulti(ctx, title, 1)
	if err != nil {
		return 0, "", fmt.Errorf("search %q: %w", title, err)
	}
	if page == nil || len(page.Results) == 0 {
		log.Printf("[slug] search returned nothing for %q (%s)", title, kind)
		return 0, "", ErrNoMatch
	}

	var candidates []models.MediaItem
	for _, item := range page.Results {
		if item.Kind() == kind {
			candidates = append(candidates, item)
		}
	}
	if len(candidates) == 0 {
		log.Printf("[slug] no %s results for %q among %d results", kind, title, len(page.Results))
		return 0, "", ErrNoMatch
	}

	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.DisplayTitle()
	}
	idx, matched := bestMatch(title, names)
	if !matched {
		log.Printf("[slug] no close match for %q, using first result %q (id=%d)", title, names[0], candidates[0].ID)
	}
	chosen := candidates[idx]

	r.remember(models.SlugResolution{Slug: s, Kind: string(kind), TMDBID: chosen.ID, Title: chosen.DisplayTitle()})
	return chosen.ID, kind, nil
}

// ResolvePerson returns the TMDB person id for a person slug.
func (r *Resolver) ResolvePerson(ctx context.Context, s string) (int64, error) {
	name, err := ParsePersonSlug(s)
	if err != nil {
		return 0, err
	}

	if cached := r.lookup(s, personKind); cached != nil {
		return cached.TMDBID, nil
	}

	page, err := r.search.SearchPerson(ctx, name, 1)
	if err != nil {
		return 0, fmt.Errorf("search person %q: %w", name, err)
	}
	if page == nil || len(page.Results) == 0 {
		return 0, ErrNoMatch
	}

	names := make([]string, len(page.Results))
	for i, p := range page.Results {
		names[i] = p.Name
	}
	idx, matched := bestMatch(name, names)
	if !matched {
		log.Printf("[slug] no close person match for %q, using first result %q", name, names[0])
	}
	chosen := page.Results[idx]

	r.remember(models.SlugResolution{Slug: s, Kind: personKind, TMDBID: chosen.ID, Title: chosen.Name})
	return chosen.ID, nil
}

func (r *Resolver) lookup(s, kind string) *models.SlugResolution {
	if r.store == nil {
		return nil
	}
	res, err := r.store.Get(s)
	if err != nil {
		log.Printf("[slug] store lookup for %q failed: %v", s, err)
		return nil
	}
	if res == nil || res.Kind != kind || res.TMDBID <= 0 {
		return nil
	}
	return res
}

func (r *Resolver) remember(res models.SlugResolution) {
	if r.store == nil {
		return
	}
	res.ResolvedAt = r.now().UTC()
	if err := r.store.Upsert(res); err != nil {
		log.Printf("[slug] failed to persist resolution for %q: %v", res.Slug, err)
	}
}

// bestMatch picks the candidate closest to query. Both sides are compared in
// slug-normalized form. An exact match wins, then the first candidate where one
// title contains the other, then the most similar candidate at or above
// MinSimilarity. Without any of those the first candidate is returned with
// matched=false.
func bestMatch(query string, candidates []string) (int, bool) {
	q := matchForm(query)
	containIdx := -1
	simIdx := -1
	var bestSim float32

	for i, c := range candidates {
		cand := matchForm(c)
		if cand == "" {
			continue
		}
		if cand == q {
			return i, true
		}
		if containIdx < 0 && (strings.Contains(cand, q) || strings.Contains(q, cand)) {
			containIdx = i
			continue
		}
		if sim := edlib.JaroWinklerSimilarity(q, cand); sim >= MinSimilarity && sim > bestSim {
			bestSim = sim
			simIdx = i
		}
	}

	switch {
	case containIdx >= 0:
		return containIdx, true
	case simIdx >= 0:
		return simIdx, true
	default:
		return 0, false
	}
}

func matchForm(s string) string {
	return strings.ReplaceAll(Normalize(s), "-", " ")
}
