package img2uni

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/wbrown/img2uni/imageutil"
)

// patchKey is the exact 8-bit content of a patch. Patches are built from
// 8-bit pixels divided by 255, so quantizing back is lossless.
type patchKey [imageutil.PatchSize]byte

func makePatchKey(patch []float32) (patchKey, bool) {
	var k patchKey
	if len(patch) != imageutil.PatchSize {
		return k, false
	}
	for i, v := range patch {
		k[i] = uint8(math.Round(float64(v) * 255))
	}
	return k, true
}

// PatchCache remembers the character chosen for each distinct patch, so
// repeated patches (flat backgrounds, dithered fields) skip the embedding
// step. Matching is deterministic, so a cached conversion produces the
// same output as an uncached one.
//
// A cache is only valid for one catalog and edge weight. The Converter
// owns its cache and never shares it. Safe for concurrent use.
type PatchCache struct {
	mu      sync.RWMutex
	entries map[patchKey]rune
	hits    atomic.Int64
	misses  atomic.Int64
}

// NewPatchCache creates an empty cache.
func NewPatchCache() *PatchCache {
	return &PatchCache{entries: make(map[patchKey]rune)}
}

// Get returns the cached character for patch, if any.
func (c *PatchCache) Get(patch []float32) (rune, bool) {
	k, ok := makePatchKey(patch)
	if !ok {
		c.misses.Add(1)
		return 0, false
	}
	c.mu.RLock()
	ch, found := c.entries[k]
	c.mu.RUnlock()
	if found {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return ch, found
}

// Put records the character chosen for patch.
func (c *PatchCache) Put(patch []float32, ch rune) {
	k, ok := makePatchKey(patch)
	if !ok {
		return
	}
	c.mu.Lock()
	c.entries[k] = ch
	c.mu.Unlock()
}

// Len returns the number of distinct patches cached.
func (c *PatchCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns cache hit/miss statistics.
func (c *PatchCache) Stats() (hits, misses int, hitRate float64) {
	hits, misses = int(c.hits.Load()), int(c.misses.Load())
	total := hits + misses
	if total == 0 {
		return 0, 0, 0
	}
	return hits, misses, float64(hits) / float64(total)
}

// ResetStats zeroes the hit/miss counters without dropping entries.
func (c *PatchCache) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
}
