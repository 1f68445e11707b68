package scrape

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"hangiplatform/models"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// DefaultNegativeTTL bounds how long an empty or failed scrape is remembered.
const DefaultNegativeTTL = 2 * time.Minute

// SnapshotStore persists the last good scrape of a listing.
// Latest returns nil, nil when nothing was stored.
type SnapshotStore interface {
	Save(source, key string, payload []byte) error
	Latest(source, key string) (*models.ScheduleSnapshot, error)
}

// Cache keeps scraped listings in memory and mirrors them into a SnapshotStore.
// A snapshot is only served when it was taken on the current day in loc.
// Empty and failed outcomes are kept for negTTL so a dead upstream is not
// hit on every request, and concurrent misses for one key share a fetch.
type Cache struct {
	source    string
	mem       *gocache.Cache
	negTTL    time.Duration
	group     singleflight.Group
	snapshots SnapshotStore
	loc       *time.Location
	now       func() time.Time
}

func NewCache(source string, ttl time.Duration, snapshots SnapshotStore, loc *time.Location) *Cache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if loc == nil {
		loc = time.UTC
	}
	negTTL := DefaultNegativeTTL
	if ttl < negTTL {
		negTTL = ttl
	}
	return &Cache{
		source:    source,
		mem:       gocache.New(ttl, 2*ttl),
		negTTL:    negTTL,
		snapshots: snapshots,
		loc:       loc,
		now:       time.Now,
	}
}

// Location is the timezone that defines "today" for this cache.
func (c *Cache) Location() *time.Location {
	return c.loc
}

// Load returns the cached value for key, or runs fetch. A failed or empty fetch
// falls back to today's snapshot; with no snapshot the empty result is returned.
// Either fallback is cached for the negative TTL only.
func Load[T any](ctx context.Context, c *Cache, key string, fetch func(context.Context) ([]T, error)) []T {
	if items, ok := lookup[T](c, key); ok {
		return items
	}
	// the shared fetch outlives any single caller's cancellation
	shared := context.WithoutCancel(ctx)
	return do(c, key, func() []T {
		if items, ok := lookup[T](c, key); ok {
			return items
		}
		return store(shared, c, key, fetch)
	})
}

// Refresh runs fetch regardless of the in-memory entry and stores the result.
func Refresh[T any](ctx context.Context, c *Cache, key string, fetch func(context.Context) ([]T, error)) []T {
	return do(c, key, func() []T {
		return store(ctx, c, key, fetch)
	})
}

func lookup[T any](c *Cache, key string) ([]T, bool) {
	v, ok := c.mem.Get(c.memKey(key))
	if !ok {
		return nil, false
	}
	items, ok := v.([]T)
	return items, ok
}

func do[T any](c *Cache, key string, fn func() []T) []T {
	v, _, _ := c.group.Do(c.memKey(key), func() (any, error) {
		return fn(), nil
	})
	items, _ := v.([]T)
	if items == nil {
		items = []T{}
	}
	return items
}

func store[T any](ctx context.Context, c *Cache, key string, fetch func(context.Context) ([]T, error)) []T {
	memKey := c.memKey(key)
	items, err := fetch(ctx)
	if err != nil {
		log.Printf("[%s] fetch %s failed: %v", c.source, key, err)
	}
	if err == nil && len(items) > 0 {
		c.mem.SetDefault(memKey, items)
		c.saveSnapshot(key, items)
		return items
	}
	// a refresh that fails keeps serving the last good listing until it expires
	if prev, ok := lookup[T](c, key); ok && len(prev) > 0 {
		return prev
	}

	if snap := loadSnapshot[T](c, key); snap != nil {
		log.Printf("[%s] serving %d %s items from snapshot", c.source, len(snap), key)
		items = snap
	} else {
		items = []T{}
	}
	if ctx.Err() == nil {
		c.mem.Set(memKey, items, c.negTTL)
	}
	return items
}

func (c *Cache) memKey(key string) string {
	return c.source + ":" + key
}

func (c *Cache) saveSnapshot(key string, items any) {
	if c.snapshots == nil {
		return
	}
	payload, err := json.Marshal(items)
	if err != nil {
		log.Printf("[%s] encode snapshot %s: %v", c.source, key, err)
		return
	}
	if err := c.snapshots.Save(c.source, key, payload); err != nil {
		log.Printf("[%s] save snapshot %s: %v", c.source, key, err)
	}
}

func loadSnapshot[T any](c *Cache, key string) []T {
	if c.snapshots == nil {
		return nil
	}
	snap, err := c.snapshots.Latest(c.source, key)
	if err != nil {
		log.Printf("[%s] load snapshot %s: %v", c.source, key, err)
		return nil
	}
	if snap == nil || !sameDay(snap.FetchedAt, c.now(), c.loc) {
		return nil
	}
	var items []T
	if err := json.Unmarshal(snap.Payload, &items); err != nil {
		log.Printf("[%s] decode snapshot %s: %v", c.source, key, err)
		return nil
	}
	if len(items) == 0 {
		return nil
	}
	return items
}

func sameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
