package catalog

import (
	"sync"
	"time"

	"github.com/lunarhue/storefront/internal/domain/product"
)

// CacheKeyProducts is the single cache key used by the catalog store.
const CacheKeyProducts = "products"

// Entry holds one cached fetch result and its completion time.
type Entry struct {
	Products  []product.Product
	Timestamp time.Time
}

// Cache keeps the most recent successful fetch per key with a short TTL.
// Failed fetches never touch it, so a populated cache survives later errors.
type Cache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.RWMutex
	entries map[string]Entry
}

// NewCache creates a cache with the given TTL.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]Entry),
	}
}

// Get returns the entry for key, expired or not. Callers decide freshness
// via Valid.
func (c *Cache) Get(key string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e, ok
}

// Put stores products under key with the current time, replacing any prior
// entry for that key.
func (c *Cache) Put(key string, products []product.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = Entry{Products: products, Timestamp: c.now()}
}

// PutAt is Put with an explicit timestamp, used when restoring a snapshot
// taken before process start.
func (c *Cache) PutAt(key string, products []product.Product, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = Entry{Products: products, Timestamp: at}
}

// Valid reports whether the entry is still within its TTL.
func (c *Cache) Valid(e Entry) bool {
	return c.now().Sub(e.Timestamp) < c.ttl
}
