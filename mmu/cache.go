package mmu

import "math/rand/v2"

// cacheLine is one way at one set index: a quadword (4 words) tagged by a
// masked virtual address, with a valid bit (§3). A line whose valid bit is
// clear is considered absent regardless of its tag (§3 invariant).
type cacheLine struct {
	valid bool
	tag   uint32
	words [CacheWordsPerLine]uint32
}

// cache is the 4-way set-associative, virtually-indexed cache (§3, §4.B).
type cache struct {
	lines [CacheLines][CacheWays]cacheLine
	rng   *rand.Rand
}

func newCache() *cache {
	return &cache{rng: rand.New(rand.NewPCG(1, 2))}
}

func setIndex(virt uint32) uint32 {
	return (virt >> 4) & (CacheLines - 1)
}

func cacheTag(virt uint32) uint32 {
	return virt & cacheTagAddrMask
}

// lookup returns the cached word at virt, if present (reads only, per §4.B
// step 3).
func (c *cache) lookup(virt uint32) (uint32, bool) {
	set := &c.lines[setIndex(virt)]
	tag := cacheTag(virt)
	wordIdx := (virt >> 2) & (CacheWordsPerLine - 1)
	for i := range set {
		if set[i].valid && set[i].tag == tag {
			return set[i].words[wordIdx], true
		}
	}
	return 0, false
}

// fill refills the quadword-aligned line containing phys, choosing an empty
// way if one exists in the set, otherwise a uniformly random way (§4.B step
// 8). refill is the 4-word source to copy into the line.
func (c *cache) fill(virt, phys uint32, refill [CacheWordsPerLine]uint32) {
	set := &c.lines[setIndex(virt)]
	way := -1
	for i := range set {
		if !set[i].valid {
			way = i
			break
		}
	}
	if way == -1 {
		way = c.rng.IntN(CacheWays)
	}
	set[way] = cacheLine{
		valid: true,
		tag:   cacheTag(virt),
		words: refill,
	}
	_ = phys // phys is used by the caller to source refill; tag is virtual.
}

// invalidateAll zeros every tag and clears every valid bit (§4.B "cache
// invalidate").
func (c *cache) invalidateAll() {
	for s := range c.lines {
		for w := range c.lines[s] {
			c.lines[s][w] = cacheLine{}
		}
	}
}
