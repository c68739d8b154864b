/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package respcache

import (
	"container/list"
	"fmt"
	"sync"
	"time"
)

// DefaultTTL is used when an entry is stored with a non-positive TTL.
const DefaultTTL = 5 * time.Minute

// Entry is a cached response payload with its lifetime bounds.
type Entry struct {
	Data      []byte
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the entry is no longer valid at the given moment.
func (e *Entry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

type cacheEntry struct {
	key string
	Entry
}

// Options represents options for the in-memory cache.
type Options struct {
	// DefaultTTL is used by Set when the passed TTL is not positive. DefaultTTL (5m) is used if zero.
	DefaultTTL time.Duration

	// MaxEntries limits the number of entries. When the limit is reached, the least recently used entry is evicted.
	// Zero means no limit.
	MaxEntries int

	// MaxEntrySize limits the size of a single payload in bytes. Bigger payloads are not cached.
	// Zero means no limit.
	MaxEntrySize int

	// MetricsCollector is used to collect statistics about cache usage. Metrics are disabled if nil.
	MetricsCollector MetricsCollector
}

// Cache is an in-memory response cache with per-entry TTL and LRU eviction.
// It's safe for concurrent use.
type Cache struct {
	defaultTTL   time.Duration
	maxEntries   int
	maxEntrySize int

	mu      sync.Mutex
	lruList *list.List
	entries map[string]*list.Element // value is a lruList element

	metricsCollector MetricsCollector

	now func() time.Time
}

// New creates a new in-memory Cache.
func New(opts Options) (*Cache, error) {
	if opts.DefaultTTL < 0 {
		return nil, fmt.Errorf("default TTL must be greater or equal to 0")
	}
	if opts.MaxEntries < 0 {
		return nil, fmt.Errorf("max entries must be greater or equal to 0")
	}
	if opts.MaxEntrySize < 0 {
		return nil, fmt.Errorf("max entry size must be greater or equal to 0")
	}
	if opts.DefaultTTL == 0 {
		opts.DefaultTTL = DefaultTTL
	}
	if opts.MetricsCollector == nil {
		opts.MetricsCollector = disabledMetrics{}
	}
	return &Cache{
		defaultTTL:       opts.DefaultTTL,
		maxEntries:       opts.MaxEntries,
		maxEntrySize:     opts.MaxEntrySize,
		lruList:          list.New(),
		entries:          make(map[string]*list.Element),
		metricsCollector: opts.MetricsCollector,
		now:              time.Now,
	}, nil
}

// Get returns the payload stored under the key if it exists and is not expired.
// An expired entry is removed.
func (c *Cache) Get(key string) ([]byte, bool) {
	entry, ok := c.GetEntry(key)
	if !ok {
		return nil, false
	}
	return entry.Data, true
}

// GetEntry works like Get but returns the whole entry.
func (c *Cache) GetEntry(key string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		c.metricsCollector.IncMisses()
		return Entry{}, false
	}
	entry := elem.Value.(*cacheEntry)
	if entry.Expired(c.now()) {
		c.removeElement(elem)
		c.metricsCollector.AddExpirations(1)
		c.metricsCollector.SetAmount(len(c.entries))
		c.metricsCollector.IncMisses()
		return Entry{}, false
	}
	c.lruList.MoveToFront(elem)
	c.metricsCollector.IncHits()
	return entry.Entry, true
}

// Peek returns the payload like Get but leaves metrics and the LRU order untouched.
// Expired entries are not removed.
func (c *Cache) Peek(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	elem, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	entry := elem.Value.(*cacheEntry)
	if entry.Expired(c.now()) {
		return nil, false
	}
	return entry.Data, true
}

// Set stores the payload under the key for the ttl duration, overwriting the existing entry.
// The default TTL is used when ttl is not positive.
func (c *Cache) Set(key string, data []byte, ttl time.Duration) {
	if c.maxEntrySize > 0 && len(data) > c.maxEntrySize {
		return
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	entry := &cacheEntry{key: key, Entry: Entry{Data: data, CreatedAt: now, ExpiresAt: now.Add(ttl)}}
	if elem, ok := c.entries[key]; ok {
		elem.Value = entry
		c.lruList.MoveToFront(elem)
		return
	}
	c.entries[key] = c.lruList.PushFront(entry)
	if c.maxEntries > 0 && len(c.entries) > c.maxEntries {
		c.removeElement(c.lruList.Back())
		c.metricsCollector.AddEvictions(1)
	}
	c.metricsCollector.SetAmount(len(c.entries))
}

// Delete removes the entry stored under the key.
func (c *Cache) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return false
	}
	c.removeElement(elem)
	c.metricsCollector.SetAmount(len(c.entries))
	return true
}

// Clear removes all entries. Removed entries are not counted as evictions.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*list.Element)
	c.lruList.Init()
	c.metricsCollector.SetAmount(0)
}

// Sweep removes all expired entries and returns their number.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for _, elem := range c.entries {
		if elem.Value.(*cacheEntry).Expired(now) {
			c.removeElement(elem)
			removed++
		}
	}
	if removed > 0 {
		c.metricsCollector.AddExpirations(removed)
		c.metricsCollector.SetAmount(len(c.entries))
	}
	return removed
}

// Len returns the number of entries including the expired ones that are not swept yet.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) removeElement(elem *list.Element) {
	c.lruList.Remove(elem)
	delete(c.entries, elem.Value.(*cacheEntry).key)
}
