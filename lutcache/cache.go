package lutcache

import (
	"hash/fnv"
	"sync"
	"sync/atomic"
)

const (
	// shardCount must be a power of 2.
	shardCount = 8
	shardMask  = shardCount - 1

	// DefaultCapacity is the per-shard lattice count used when New is
	// given a non-positive capacity.
	DefaultCapacity = 8
)

// Stats reports cache effectiveness.
type Stats struct {
	Len       int
	Hits      uint64
	Misses    uint64
	Evictions uint64
	// HitRate is Hits / (Hits + Misses), or 0 before any lookup.
	HitRate float64
}

// Cache is a sharded LRU cache of baked lattices keyed by cache ID.
type Cache struct {
	shards   [shardCount]*shard
	capacity int

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type shard struct {
	mu      sync.Mutex
	entries map[string]*entry
	lru     lruList
}

type entry struct {
	lattice []float32
	node    *lruNode
}

// New returns a cache holding up to capacity lattices per shard.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c := &Cache{capacity: capacity}
	for i := range c.shards {
		c.shards[i] = &shard{entries: make(map[string]*entry)}
	}
	return c
}

func (c *Cache) shardFor(key string) *shard {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key)) // fnv.Write never returns an error
	return c.shards[h.Sum64()&shardMask]
}

// Get returns the lattice cached under key.
func (c *Cache) Get(key string) ([]float32, bool) {
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	s.lru.moveToFront(e.node)
	c.hits.Add(1)
	return e.lattice, true
}

// Set stores lattice under key. The cache takes ownership of lattice.
func (c *Cache) Set(key string, lattice []float32) {
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	c.setLocked(s, key, lattice)
}

// GetOrBake returns the lattice cached under key, calling bake to produce
// it on a miss. bake runs under the shard lock, so concurrent requests for
// the same key bake once.
func (c *Cache) GetOrBake(key string, bake func() []float32) []float32 {
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok {
		s.lru.moveToFront(e.node)
		c.hits.Add(1)
		return e.lattice
	}
	c.misses.Add(1)

	lattice := bake()
	c.setLocked(s, key, lattice)
	return lattice
}

func (c *Cache) setLocked(s *shard, key string, lattice []float32) {
	if e, ok := s.entries[key]; ok {
		e.lattice = lattice
		s.lru.moveToFront(e.node)
		return
	}
	for s.lru.len >= c.capacity {
		oldest, ok := s.lru.removeOldest()
		if !ok {
			break
		}
		delete(s.entries, oldest)
		c.evictions.Add(1)
	}
	s.entries[key] = &entry{lattice: lattice, node: s.lru.pushFront(key)}
}

// Delete removes key and reports whether it was present.
func (c *Cache) Delete(key string) bool {
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return false
	}
	s.lru.remove(e.node)
	delete(s.entries, key)
	return true
}

// Clear removes every lattice. Statistics are kept.
func (c *Cache) Clear() {
	for _, s := range c.shards {
		s.mu.Lock()
		s.entries = make(map[string]*entry)
		s.lru = lruList{}
		s.mu.Unlock()
	}
}

// Len returns the number of cached lattices.
func (c *Cache) Len() int {
	total := 0
	for _, s := range c.shards {
		s.mu.Lock()
		total += len(s.entries)
		s.mu.Unlock()
	}
	return total
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()
	var rate float64
	if total := hits + misses; total > 0 {
		rate = float64(hits) / float64(total)
	}
	return Stats{
		Len:       c.Len(),
		Hits:      hits,
		Misses:    misses,
		Evictions: c.evictions.Load(),
		HitRate:   rate,
	}
}
