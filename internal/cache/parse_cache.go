// Package cache memoizes parsed unit expressions.
package cache

import (
	"container/list"
	"sync"
	"sync/atomic"

	"github.com/spaolacci/murmur3"

	"github.com/snugunits/snug/internal/parser"
)

const (
	defaultShards           = 16
	defaultCapacityPerShard = 256
)

// ParseCache is a sharded LRU of expression → parser.Parsed. Parsing is
// pure, so a cached result is always identical to a fresh parse. Failed
// parses are not cached.
type ParseCache struct {
	shards []*shard
	mask   uint64

	hits   atomic.Int64
	misses atomic.Int64
}

type shard struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*list.Element
	order    *list.List // front is most recently used
}

type entry struct {
	expr   string
	parsed parser.Parsed
}

// CacheStats is a point-in-time view of cache effectiveness.
type CacheStats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// NewParseCache creates a cache. shards is rounded up to a power of two.
func NewParseCache(shards, capacityPerShard int) *ParseCache {
	if shards <= 0 {
		shards = defaultShards
	}
	if capacityPerShard <= 0 {
		capacityPerShard = defaultCapacityPerShard
	}
	n := 1
	for n < shards {
		n <<= 1
	}

	c := &ParseCache{
		shards: make([]*shard, n),
		mask:   uint64(n - 1),
	}
	for i := range c.shards {
		c.shards[i] = &shard{
			capacity: capacityPerShard,
			items:    make(map[string]*list.Element),
			order:    list.New(),
		}
	}
	return c
}

func (c *ParseCache) shardFor(expr string) *shard {
	return c.shards[murmur3.Sum64([]byte(expr))&c.mask]
}

// Get returns the cached result for expr.
func (c *ParseCache) Get(expr string) (parser.Parsed, bool) {
	s := c.shardFor(expr)
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.items[expr]
	if !ok {
		return parser.Parsed{}, false
	}
	s.order.MoveToFront(el)
	return el.Value.(*entry).parsed, true
}

// Put stores a result, evicting the least recently used entry of the shard
// when it is full.
func (c *ParseCache) Put(expr string, parsed parser.Parsed) {
	s := c.shardFor(expr)
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.items[expr]; ok {
		el.Value.(*entry).parsed = parsed
		s.order.MoveToFront(el)
		return
	}

	if s.order.Len() >= s.capacity {
		if oldest := s.order.Back(); oldest != nil {
			s.order.Remove(oldest)
			delete(s.items, oldest.Value.(*entry).expr)
		}
	}
	s.items[expr] = s.order.PushFront(&entry{expr: expr, parsed: parsed})
}

// Parse returns the cached result for expr, parsing and storing it on a miss.
func (c *ParseCache) Parse(expr string) (parser.Parsed, error) {
	if p, ok := c.Get(expr); ok {
		c.hits.Add(1)
		return p, nil
	}
	c.misses.Add(1)

	p, err := parser.Parse(expr)
	if err != nil {
		return parser.Parsed{}, err
	}
	c.Put(expr, p)
	return p, nil
}

// Len returns the number of cached expressions.
func (c *ParseCache) Len() int {
	n := 0
	for _, s := range c.shards {
		s.mu.Lock()
		n += s.order.Len()
		s.mu.Unlock()
	}
	return n
}

// Stats returns hit/miss counters and the current size.
func (c *ParseCache) Stats() CacheStats {
	return CacheStats{
		Entries: c.Len(),
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}
}
