// Package cache holds rendered chart images between requests.
package cache

import (
	"strconv"
	"strings"
	"sync"
	"time"
)

// Chart is a rendered chart image.
type Chart struct {
	ContentType string
	Body        []byte
}

type entry struct {
	chart     *Chart
	expiry    time.Time
	insertIdx int64
}

// ChartCache caches rendered charts keyed by snapshot generation and chart
// identity, so a chart is drawn once per published snapshot.
// Safe for concurrent use.
type ChartCache struct {
	mu         sync.RWMutex
	items      map[string]entry
	ttl        time.Duration
	maxEntries int
	nextIdx    int64
	now        func() time.Time
}

// New creates a ChartCache with the given TTL and max entry count.
func New(ttl time.Duration, maxEntries int) *ChartCache {
	if maxEntries <= 0 {
		maxEntries = 1
	}
	return &ChartCache{
		items:      make(map[string]entry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// MakeKey builds a cache key such as "7:history:AAPL".
func MakeKey(generation uint64, kind, id string) string {
	return strconv.FormatUint(generation, 10) + ":" + kind + ":" + id
}

// Get returns a cached chart if found and not expired.
func (c *ChartCache) Get(key string) (*Chart, bool) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if c.now().After(e.expiry) {
		c.mu.Lock()
		if e2, ok2 := c.items[key]; ok2 && c.now().After(e2.expiry) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return e.chart, true
}

// Set stores a chart. Evicts the oldest entry when at capacity.
func (c *ChartCache) Set(key string, chart *Chart) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := entry{
		chart:     chart,
		expiry:    c.now().Add(c.ttl),
		insertIdx: c.nextIdx,
	}
	c.nextIdx++

	if _, exists := c.items[key]; exists {
		c.items[key] = e
		return
	}

	if len(c.items) >= c.maxEntries {
		c.evictOldest()
	}

	c.items[key] = e
}

// GetOrRender returns the cached chart for key, rendering and storing it on a miss.
// Render errors are returned and nothing is cached.
func (c *ChartCache) GetOrRender(key string, render func() (*Chart, error)) (*Chart, error) {
	if chart, ok := c.Get(key); ok {
		return chart, nil
	}
	chart, err := render()
	if err != nil {
		return nil, err
	}
	c.Set(key, chart)
	return chart, nil
}

// DropGenerationsBefore removes every entry built for a generation older than gen.
func (c *ChartCache) DropGenerationsBefore(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.items {
		prefix, _, _ := strings.Cut(key, ":")
		g, err := strconv.ParseUint(prefix, 10, 64)
		if err != nil || g < gen {
			delete(c.items, key)
		}
	}
}

// Len returns the number of entries, expired or not.
func (c *ChartCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// evictOldest removes the entry with the lowest insertIdx. Must be called with mu held.
func (c *ChartCache) evictOldest() {
	var oldestKey string
	var oldestIdx int64 = -1

	for key, e := range c.items {
		if oldestIdx == -1 || e.insertIdx < oldestIdx {
			oldestIdx = e.insertIdx
			oldestKey = key
		}
	}

	if oldestKey != "" {
		delete(c.items, oldestKey)
	}
}
