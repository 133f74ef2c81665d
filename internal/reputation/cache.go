package reputation

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "siem_reputation_lookups_total",
	Help: "Reputation cache lookups by result (hit, miss, error).",
}, []string{"result"})

// cacheEntry holds one cached verdict. A zero expiresAt means the entry
// never expires.
type cacheEntry struct {
	record    *Record
	expiresAt time.Time
}

func (e *cacheEntry) expired() bool {
	return !e.expiresAt.IsZero() && time.Now().After(e.expiresAt)
}

// Cache memoizes provider verdicts keyed by the exact IP string — no
// normalization, so "192.168.1.1" and "192.168.001.001" are distinct keys.
//
// Concurrent misses for the same key are collapsed into a single provider
// call via singleflight; callers for distinct keys proceed in parallel.
// Failed lookups are never stored, so a later call retries the provider.
//
// Entries are retained until Invalidate or process exit unless a TTL is
// configured with WithTTL.
type Cache struct {
	provider Provider
	ttl      time.Duration // 0 = never expire
	logger   *zap.Logger

	mu      sync.RWMutex
	entries map[string]*cacheEntry
	group   singleflight.Group
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL sets the entry time-to-live. Zero (the default) disables expiry.
func WithTTL(d time.Duration) Option {
	return func(c *Cache) { c.ttl = d }
}

// NewCache creates a Cache in front of the given provider.
func NewCache(provider Provider, logger *zap.Logger, opts ...Option) *Cache {
	c := &Cache{
		provider: provider,
		logger:   logger,
		entries:  make(map[string]*cacheEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached verdict for ip, invoking the provider on a miss.
// When N goroutines miss on the same uncached key at once, exactly one
// provider call is made and all N receive its result. The provider call
// runs under the context of the goroutine that initiated it; a timeout
// there surfaces as an error to every waiter and nothing is cached.
func (c *Cache) Get(ctx context.Context, ip string) (*Record, error) {
	if rec, ok := c.lookup(ip); ok {
		cacheLookups.WithLabelValues("hit").Inc()
		return rec, nil
	}

	v, err, _ := c.group.Do(ip, func() (any, error) {
		// The entry may have been filled between the miss and the
		// singleflight slot being granted.
		if rec, ok := c.lookup(ip); ok {
			return rec, nil
		}
		rec, err := c.provider.Lookup(ctx, ip)
		if err != nil {
			return nil, err
		}
		c.store(ip, rec)
		return rec, nil
	})
	if err != nil {
		cacheLookups.WithLabelValues("error").Inc()
		c.logger.Warn("reputation lookup failed",
			zap.String("ip", ip),
			zap.Error(err),
		)
		return nil, err
	}
	cacheLookups.WithLabelValues("miss").Inc()
	return v.(*Record), nil
}

// Invalidate removes the entry for ip, forcing the next Get to consult
// the provider again.
func (c *Cache) Invalidate(ip string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, ip)
}

// Len returns the number of cached entries, including expired ones not
// yet overwritten.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) lookup(ip string) (*Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[ip]
	if !ok || e.expired() {
		return nil, false
	}
	return e.record, true
}

func (c *Cache) store(ip string, rec *Record) {
	var expires time.Time
	if c.ttl > 0 {
		expires = time.Now().Add(c.ttl)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[ip] = &cacheEntry{record: rec, expiresAt: expires}
}
