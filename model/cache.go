// SPDX-License-Identifier: GPL-2.0-or-later

package model

import (
	"sync"

	"github.com/google/uuid"
)

// Sizer is implemented by cache values that know their memory footprint.
type Sizer interface {
	CacheSize() int
}

type cacheEntry struct {
	value   any
	size    int
	lastUse uint64
}

// Cache is an evictable store. Values may disappear whenever a new value
// pushes the total size over the budget, holders must keep the handle and
// call Check before every use.
type Cache struct {
	mu      sync.Mutex
	budget  int
	used    int
	clock   uint64
	entries map[uuid.UUID]*cacheEntry
}

// NewCache returns a cache holding at most budget bytes. A budget <= 0
// means no limit.
func NewCache(budget int) *Cache {
	return &Cache{
		budget:  budget,
		entries: make(map[uuid.UUID]*cacheEntry),
	}
}

func sizeOf(v any) int {
	if s, ok := v.(Sizer); ok {
		return s.CacheSize()
	}
	return 1
}

// Alloc stores v and returns its handle.
func (c *Cache) Alloc(v any) uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := uuid.Must(uuid.NewV7())
	c.clock++
	e := &cacheEntry{value: v, size: sizeOf(v), lastUse: c.clock}
	c.entries[id] = e
	c.used += e.size
	c.evict(id)
	return id
}

// evict drops the least recently used entries until the budget fits.
// keep is never dropped.
func (c *Cache) evict(keep uuid.UUID) {
	for c.budget > 0 && c.used > c.budget {
		var oldest uuid.UUID
		var oe *cacheEntry
		for id, e := range c.entries {
			if id == keep {
				continue
			}
			if oe == nil || e.lastUse < oe.lastUse {
				oldest, oe = id, e
			}
		}
		if oe == nil {
			return
		}
		delete(c.entries, oldest)
		c.used -= oe.size
	}
}

// Check returns the value if it is still resident and marks it used.
func (c *Cache) Check(id uuid.UUID) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	if !ok {
		return nil, false
	}
	c.clock++
	e.lastUse = c.clock
	return e.value, true
}

func (c *Cache) Evict(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[id]; ok {
		delete(c.entries, id)
		c.used -= e.size
	}
}

// Flush empties the cache.
func (c *Cache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[uuid.UUID]*cacheEntry)
	c.used = 0
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) Used() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.used
}
