package enrich

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// NewCache returns an in-process store for lookup results that expire after ttl.
func NewCache(ttl time.Duration) *cache.Cache {
	return cache.New(ttl, 10*time.Minute)
}

// lookupCache memoizes successful lookups and collapses concurrent
// identical ones into a single upstream call. Errors are never stored.
// Collapsed callers share the first caller's context.
type lookupCache[T any] struct {
	prefix string
	store  *cache.Cache
	group  singleflight.Group
}

func (l *lookupCache[T]) get(ctx context.Context, query string, fetch func(context.Context, string) (T, error)) (T, error) {
	key := l.prefix + query
	if v, ok := l.store.Get(key); ok {
		return v.(T), nil
	}

	v, err, _ := l.group.Do(key, func() (any, error) {
		res, err := fetch(ctx, query)
		if err != nil {
			return nil, err
		}
		l.store.SetDefault(key, res)
		return res, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// CachedSummaries wraps a SummaryFetcher with a cache.
type CachedSummaries struct {
	next  SummaryFetcher
	cache lookupCache[Summary]
}

// NewCachedSummaries constructs a CachedSummaries in front of next.
func NewCachedSummaries(next SummaryFetcher, store *cache.Cache) *CachedSummaries {
	return &CachedSummaries{
		next:  next,
		cache: lookupCache[Summary]{prefix: "summary:", store: store},
	}
}

// FetchSummary implements SummaryFetcher.
func (c *CachedSummaries) FetchSummary(ctx context.Context, query string) (Summary, error) {
	return c.cache.get(ctx, query, c.next.FetchSummary)
}

// CachedGeocoder wraps a Geocoder with a cache. A "no match" answer is
// cached like any other successful lookup.
type CachedGeocoder struct {
	next  Geocoder
	cache lookupCache[*Coordinates]
}

// NewCachedGeocoder constructs a CachedGeocoder in front of next.
func NewCachedGeocoder(next Geocoder, store *cache.Cache) *CachedGeocoder {
	return &CachedGeocoder{
		next:  next,
		cache: lookupCache[*Coordinates]{prefix: "geocode:", store: store},
	}
}

// Geocode implements Geocoder.
func (c *CachedGeocoder) Geocode(ctx context.Context, query string) (*Coordinates, error) {
	return c.cache.get(ctx, query, c.next.Geocode)
}
