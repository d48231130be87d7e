package tablemap

import (
	"fmt"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/dshills/gridstorm/internal/engine/model"
)

const (
	// DefaultExpiration is how long a computed map stays cached.
	DefaultExpiration = 5 * time.Minute

	// DefaultCleanupInterval is how often expired maps are purged.
	DefaultCleanupInterval = 10 * time.Minute
)

type entry struct {
	table *model.Node
	m     *TableMap
}

// Cache memoizes table maps by node identity. Table nodes are immutable,
// so a map stays valid for as long as its node is alive.
type Cache struct {
	cache *gocache.Cache
}

// NewCache creates a cache with the given expiration and cleanup interval.
func NewCache(expiration, cleanupInterval time.Duration) *Cache {
	return &Cache{cache: gocache.New(expiration, cleanupInterval)}
}

// Get returns the map of table, computing it on a miss.
func (c *Cache) Get(table *model.Node) (*TableMap, error) {
	key := fmt.Sprintf("%p", table)
	if v, found := c.cache.Get(key); found {
		if e, ok := v.(entry); ok && e.table == table {
			return e.m, nil
		}
	}
	m, err := Compute(table)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(key, entry{table: table, m: m})
	return m, nil
}

// Len returns the number of cached maps, including expired ones not yet
// purged.
func (c *Cache) Len() int { return c.cache.ItemCount() }

// Flush drops every cached map.
func (c *Cache) Flush() { c.cache.Flush() }

var (
	defaultMu    sync.RWMutex
	defaultCache = NewCache(DefaultExpiration, DefaultCleanupInterval)
)

// Get returns the map of table from the default cache.
func Get(table *model.Node) (*TableMap, error) {
	defaultMu.RLock()
	c := defaultCache
	defaultMu.RUnlock()
	return c.Get(table)
}

// SetDefaultCache replaces the cache used by Get.
func SetDefaultCache(c *Cache) {
	defaultMu.Lock()
	defaultCache = c
	defaultMu.Unlock()
}
