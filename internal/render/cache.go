package render

import (
	"context"
	"sync"

	"github.com/couchcryptid/sea-level-chart/internal/observability"
)

// CachedCharter wraps a Charter with an in-memory LRU cache of rendered images.
type CachedCharter struct {
	inner   Charter
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedCharter creates a cache decorator around a charter.
func NewCachedCharter(inner Charter, maxEntries int, metrics *observability.Metrics) *CachedCharter {
	return &CachedCharter{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedCharter) Chart(ctx context.Context, req Request) ([]byte, error) {
	key := req.Key()
	if img, ok := c.cache.get(key); ok {
		c.metrics.RenderCache.WithLabelValues("hit").Inc()
		return img, nil
	}
	c.metrics.RenderCache.WithLabelValues("miss").Inc()

	img, err := c.inner.Chart(ctx, req)
	if err != nil {
		return nil, err
	}
	c.cache.put(key, img)
	return img, nil
}

// Purge drops every cached image, for use after the dataset changes.
func (c *CachedCharter) Purge() {
	c.cache.mu.Lock()
	defer c.cache.mu.Unlock()
	c.cache.entries = make(map[string]*entry)
	c.cache.head = nil
	c.cache.tail = nil
}

// Len returns the number of cached images.
func (c *CachedCharter) Len() int {
	c.cache.mu.Lock()
	defer c.cache.mu.Unlock()
	return len(c.cache.entries)
}

// lruCache is a simple thread-safe LRU cache of encoded images.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value []byte
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
