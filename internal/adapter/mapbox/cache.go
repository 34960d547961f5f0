package mapbox

import (
	"container/list"
	"context"
	"sync"

	"github.com/couchcryptid/interconnection-etl/internal/domain"
	"github.com/couchcryptid/interconnection-etl/internal/observability"
)

// CachedGeocoder memoizes county lookups for the lifetime of a run. A failed
// or empty lookup is remembered as a miss: the caller that triggered it gets
// the error, later callers get an empty result and no request is sent.
type CachedGeocoder struct {
	inner   domain.Geocoder
	metrics *observability.Metrics

	mu    sync.Mutex
	limit int
	order *list.List // front is most recently used
	index map[domain.Key]*list.Element
}

type cacheEntry struct {
	key    domain.Key
	result domain.GeocodingResult
}

// NewCachedGeocoder keeps at most maxEntries counties. A non-positive size
// disables eviction.
func NewCachedGeocoder(inner domain.Geocoder, maxEntries int, metrics *observability.Metrics) *CachedGeocoder {
	return &CachedGeocoder{
		inner:   inner,
		metrics: metrics,
		limit:   maxEntries,
		order:   list.New(),
		index:   make(map[domain.Key]*list.Element),
	}
}

func (c *CachedGeocoder) ForwardGeocode(ctx context.Context, county, state string) (domain.GeocodingResult, error) {
	key := domain.Key{County: county, State: state}
	if result, ok := c.lookup(key); ok {
		c.metrics.GeocodeCache.WithLabelValues("hit").Inc()
		return result, nil
	}
	c.metrics.GeocodeCache.WithLabelValues("miss").Inc()

	result, err := c.inner.ForwardGeocode(ctx, county, state)
	switch {
	case err == nil:
		c.store(key, result)
	case ctx.Err() == nil:
		c.store(key, domain.GeocodingResult{})
	}
	return result, err
}

// Len reports how many counties are cached.
func (c *CachedGeocoder) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *CachedGeocoder) lookup(key domain.Key) (domain.GeocodingResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.index[key]
	if !ok {
		return domain.GeocodingResult{}, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).result, true
}

func (c *CachedGeocoder) store(key domain.Key, result domain.GeocodingResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.index[key]; ok {
		el.Value.(*cacheEntry).result = result
		c.order.MoveToFront(el)
		return
	}
	c.index[key] = c.order.PushFront(&cacheEntry{key: key, result: result})

	for c.limit > 0 && c.order.Len() > c.limit {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.index, oldest.Value.(*cacheEntry).key)
	}
}
