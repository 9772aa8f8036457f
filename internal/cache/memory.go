package cache

import (
	"context"
	"sync"
	"time"

	"startup-risk-lab/internal/domain"
	"startup-risk-lab/internal/observability"
)

type entry struct {
	r   *domain.ScenarioResult
	exp time.Time // zero: no expiry
}

// Memory is an in-process ResultCache with optional TTL and a size bound.
type Memory struct {
	mu         sync.Mutex
	m          map[string]entry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// NewMemory creates a memory cache. ttl <= 0 disables expiry; maxEntries <= 0 is unbounded.
// When full, expired entries are evicted first, then the entry closest to expiry.
func NewMemory(ttl time.Duration, maxEntries int) *Memory {
	return &Memory{
		m:          make(map[string]entry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get returns a copy of the cached result.
func (c *Memory) Get(_ context.Context, key string) (*domain.ScenarioResult, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.m[key]
	if ok && !e.exp.IsZero() && c.now().After(e.exp) {
		delete(c.m, key)
		ok = false
	}
	observability.RecordCacheLookup("memory", ok)
	if !ok {
		return nil, false, nil
	}
	return e.r.Clone(), true, nil
}

// Set stores a copy of r.
func (c *Memory) Set(_ context.Context, key string, r *domain.ScenarioResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := entry{r: r.Clone()}
	if c.ttl > 0 {
		e.exp = c.now().Add(c.ttl)
	}
	if _, exists := c.m[key]; !exists && c.maxEntries > 0 && len(c.m) >= c.maxEntries {
		c.evict()
	}
	c.m[key] = e
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *Memory) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}

// evict frees one slot. Caller holds mu.
func (c *Memory) evict() {
	now := c.now()
	var (
		victim string
		oldest time.Time
	)
	for k, e := range c.m {
		if !e.exp.IsZero() && now.After(e.exp) {
			delete(c.m, k)
			return
		}
		if victim == "" || e.exp.Before(oldest) || (e.exp.Equal(oldest) && k < victim) {
			victim, oldest = k, e.exp
		}
	}
	delete(c.m, victim)
}

var _ ResultCache = (*Memory)(nil)
