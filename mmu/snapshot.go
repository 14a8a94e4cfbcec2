package mmu

// TLBSnapshot is a read-only copy of one valid TLB entry, for external
// inspection tools (§3). It carries no behaviour of its own.
type TLBSnapshot struct {
	Virt    uint32
	Phys    uint32
	Domain  int
	Mapping Mapping
}

// TLBEntries returns a snapshot of every currently valid TLB entry, in
// slot order. Intended for read-only inspection, not emulation logic.
func (m *MMU) TLBEntries() []TLBSnapshot {
	var out []TLBSnapshot
	for _, e := range m.tlb.entries {
		if !e.Valid {
			continue
		}
		out = append(out, TLBSnapshot{Virt: e.Virt, Phys: e.Phys, Domain: e.Domain, Mapping: e.Mapping})
	}
	return out
}

// CacheLineSnapshot is a read-only copy of one cache way, for external
// inspection tools.
type CacheLineSnapshot struct {
	Valid bool
	Tag   uint32
}

// CacheLines returns, for every set, the occupancy of each of the
// CacheWays ways. Intended for read-only inspection, not emulation logic.
func (m *MMU) CacheLines() [CacheLines][CacheWays]CacheLineSnapshot {
	var out [CacheLines][CacheWays]CacheLineSnapshot
	for s := range m.cache.lines {
		for w := range m.cache.lines[s] {
			line := m.cache.lines[s][w]
			out[s][w] = CacheLineSnapshot{Valid: line.valid, Tag: line.tag}
		}
	}
	return out
}
