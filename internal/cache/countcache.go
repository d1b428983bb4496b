// Package cache provides a read-through TTL cache for per-event attendee
// counts. The cache is an accelerator only; the authoritative count is always
// derivable from the rsvps table.
package cache

import (
	"sync"
	"time"
)

type entry struct {
	count     int
	fetchedAt time.Time
}

// CountCache caches attendee counts keyed by event id. Entries older than the
// TTL are treated as absent.
type CountCache struct {
	mu  sync.RWMutex
	ttl time.Duration
	m   map[string]entry

	// now is swappable for tests.
	now func() time.Time
}

// NewCountCache returns a CountCache with the given TTL.
func NewCountCache(ttl time.Duration) *CountCache {
	return &CountCache{
		ttl: ttl,
		m:   make(map[string]entry),
		now: time.Now,
	}
}

// Get returns the cached count for the event id, or false when the entry is
// missing or expired.
func (c *CountCache) Get(eventID string) (int, bool) {
	c.mu.RLock()
	e, ok := c.m[eventID]
	c.mu.RUnlock()
	if !ok {
		return 0, false
	}
	if c.now().Sub(e.fetchedAt) > c.ttl {
		return 0, false
	}
	return e.count, true
}

// Set stores the count for the event id, timestamped now.
func (c *CountCache) Set(eventID string, count int) {
	c.mu.Lock()
	c.m[eventID] = entry{count: count, fetchedAt: c.now()}
	c.mu.Unlock()
}

// Invalidate drops the entry for the event id, if any. Called after any
// mutation that changes the event's attendee total.
func (c *CountCache) Invalidate(eventID string) {
	c.mu.Lock()
	delete(c.m, eventID)
	c.mu.Unlock()
}

// Sweep removes expired entries. Intended for a periodic janitor; correctness
// does not depend on it since Get ignores stale entries.
func (c *CountCache) Sweep() {
	cutoff := c.now().Add(-c.ttl)
	c.mu.Lock()
	for id, e := range c.m {
		if e.fetchedAt.Before(cutoff) {
			delete(c.m, id)
		}
	}
	c.mu.Unlock()
}
