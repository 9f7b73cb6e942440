package pathcheck

import (
	"sync"

	"go.trai.ch/scout/internal/core/domain"
	"go.trai.ch/scout/internal/core/ports"
)

// resultCache is a bounded cache from raw validation input to result.
// Eviction is oldest-first insertion order; validation inputs are small and
// repetitive, so anything smarter has not been worth it.
type resultCache struct {
	mu       sync.Mutex
	entries  map[string]*domain.PathValidation
	order    []string
	capacity int
	hits     uint64
	misses   uint64
}

func newResultCache(capacity int) *resultCache {
	if capacity <= 0 {
		capacity = 256
	}
	return &resultCache{
		entries:  make(map[string]*domain.PathValidation, capacity),
		capacity: capacity,
	}
}

func (c *resultCache) get(key string) (*domain.PathValidation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	res, ok := c.entries[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return res, ok
}

func (c *resultCache) put(key string, res *domain.PathValidation) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		for len(c.entries) >= c.capacity && len(c.order) > 0 {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = res
}

func (c *resultCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*domain.PathValidation, c.capacity)
	c.order = nil
}

func (c *resultCache) stats() ports.ValidatorStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ports.ValidatorStats{
		Hits:     c.hits,
		Misses:   c.misses,
		Entries:  len(c.entries),
		Capacity: c.capacity,
	}
}
