package engine

import (
	"sync"
	"sync/atomic"

	"github.com/hailam/chesscore/internal/board"
)

// Number of shards for cache locking (power of 2 for fast modulo)
const cacheShardCount = 64
const cacheShardMask = cacheShardCount - 1

// cacheEntry holds one finished root search.
type cacheEntry struct {
	Key   uint64 // Full 64-bit Zobrist hash for verification
	Move  board.Move
	Score int32
	Depth int8
}

// ResultCache remembers root search results by position hash and depth so
// repeated analysis of the same position skips the search. It is safe for
// concurrent use.
type ResultCache struct {
	entries []cacheEntry
	shards  [cacheShardCount]sync.RWMutex
	mask    uint64

	// Statistics
	hits   atomic.Uint64
	probes atomic.Uint64
}

// NewResultCache creates a cache with the given size in MB. The size is
// rounded down to a power of two entries, with a floor of 1024.
func NewResultCache(sizeMB int) *ResultCache {
	entrySize := uint64(16)
	numEntries := (uint64(max(sizeMB, 0)) * 1024 * 1024) / entrySize
	numEntries = max(roundDownToPowerOf2(numEntries), 1024)

	return &ResultCache{
		entries: make([]cacheEntry, numEntries),
		mask:    numEntries - 1,
	}
}

// roundDownToPowerOf2 rounds n down to the nearest power of 2.
func roundDownToPowerOf2(n uint64) uint64 {
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}

func (c *ResultCache) shard(idx uint64) *sync.RWMutex {
	return &c.shards[idx&cacheShardMask]
}

// Probe looks up the result of a depth-deep search of the position with
// the given hash.
func (c *ResultCache) Probe(hash uint64, depth int) (Result, bool) {
	c.probes.Add(1)

	idx := hash & c.mask
	mu := c.shard(idx)
	mu.RLock()
	entry := c.entries[idx]
	mu.RUnlock()

	if entry.Key != hash || int(entry.Depth) != depth || entry.Depth == 0 {
		return Result{}, false
	}
	c.hits.Add(1)
	return Result{Move: entry.Move, Score: int(entry.Score), Depth: depth}, true
}

// Store saves r under hash. Deeper results replace shallower ones for the
// same slot; a different position always replaces.
func (c *ResultCache) Store(hash uint64, r Result) {
	if r.Depth <= 0 || r.Depth > MaxPly {
		return
	}

	idx := hash & c.mask
	mu := c.shard(idx)
	mu.Lock()
	entry := &c.entries[idx]
	if entry.Key != hash || r.Depth >= int(entry.Depth) {
		*entry = cacheEntry{
			Key:   hash,
			Move:  r.Move,
			Score: int32(r.Score),
			Depth: int8(r.Depth),
		}
	}
	mu.Unlock()
}

// Clear empties the cache and resets its statistics.
func (c *ResultCache) Clear() {
	for i := range c.shards {
		c.shards[i].Lock()
	}
	clear(c.entries)
	for i := range c.shards {
		c.shards[i].Unlock()
	}
	c.hits.Store(0)
	c.probes.Store(0)
}

// HitRate returns the cache hit rate as a percentage.
func (c *ResultCache) HitRate() float64 {
	probes := c.probes.Load()
	if probes == 0 {
		return 0
	}
	return float64(c.hits.Load()) / float64(probes) * 100
}

// Size returns the number of entries in the cache.
func (c *ResultCache) Size() int {
	return len(c.entries)
}
