package skinfolio

import (
	"context"
	"sync"
	"time"
)

// CachedOracle is a PriceOracle that remembers the answers of another one for a while.
//
// Only successful answers are cached, "no data" included; errors are always
// passed through so that the next call asks again.
type CachedOracle struct {
	oracle PriceOracle
	ttl    time.Duration
	now    func() time.Time

	mu     sync.Mutex
	prices map[string]cached[Money]
	icons  map[string]cached[string]
}

type cached[T any] struct {
	value   T
	ok      bool
	fetched time.Time
}

// NewCachedOracle wraps oracle with a cache of answers valid for ttl.
func NewCachedOracle(oracle PriceOracle, ttl time.Duration) *CachedOracle {
	return &CachedOracle{
		oracle: oracle,
		ttl:    ttl,
		now:    time.Now,
		prices: make(map[string]cached[Money]),
		icons:  make(map[string]cached[string]),
	}
}

// LowestAsk implements PriceOracle.
func (c *CachedOracle) LowestAsk(ctx context.Context, item string) (Money, bool, error) {
	return lookup(c, c.prices, item, func() (Money, bool, error) { return c.oracle.LowestAsk(ctx, item) })
}

// Icon implements PriceOracle.
func (c *CachedOracle) Icon(ctx context.Context, item string) (string, bool, error) {
	return lookup(c, c.icons, item, func() (string, bool, error) { return c.oracle.Icon(ctx, item) })
}

// Invalidate forgets every cached answer.
func (c *CachedOracle) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.prices)
	clear(c.icons)
}

// lookup returns the fresh cached answer for item or asks fetch.
// The lock is not held during fetch, concurrent misses may both ask.
func lookup[T any](c *CachedOracle, entries map[string]cached[T], item string, fetch func() (T, bool, error)) (T, bool, error) {
	c.mu.Lock()
	e, hit := entries[item]
	now := c.now()
	c.mu.Unlock()
	if hit && now.Sub(e.fetched) < c.ttl {
		return e.value, e.ok, nil
	}

	value, ok, err := fetch()
	if err != nil {
		return value, false, err
	}
	c.mu.Lock()
	entries[item] = cached[T]{value: value, ok: ok, fetched: now}
	c.mu.Unlock()
	return value, ok, nil
}
