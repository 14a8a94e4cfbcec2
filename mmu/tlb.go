package mmu

// TLBEntry is a single cached translation (§3).
type TLBEntry struct {
	Valid   bool
	Virt    uint32 // tag: virtual page/section base
	VirtMask uint32
	Phys    uint32 // physical base corresponding to Virt
	PhysMask uint32
	AP      [4]uint32 // access-permission fields, one per sub-page/always-[3] for sections
	Domain  int
	Mapping Mapping
	C, B    bool // cacheable / bufferable
}

// tlb is a fixed-capacity fully-associative translation cache with
// round-robin replacement (§3, §4.B). At most one entry matches any virtual
// address (§3 invariant).
type tlb struct {
	entries [TLBEntries]TLBEntry
	cursor  int
}

func newTLB() *tlb {
	return &tlb{}
}

// lookup returns the entry covering virt, if any.
func (t *tlb) lookup(virt uint32) (*TLBEntry, bool) {
	for i := range t.entries {
		e := &t.entries[i]
		if e.Valid && e.Mapping != MappingInvalid && (virt&e.VirtMask) == e.Virt {
			return e, true
		}
	}
	return nil, false
}

// fill inserts a new entry at the round-robin cursor, advancing it mod 64.
func (t *tlb) fill(e TLBEntry) *TLBEntry {
	slot := &t.entries[t.cursor]
	*slot = e
	slot.Valid = true
	t.cursor = (t.cursor + 1) % TLBEntries
	return slot
}

// invalidateAll marks every entry invalid.
func (t *tlb) invalidateAll() {
	for i := range t.entries {
		t.entries[i].Valid = false
	}
}

// invalidateEntry marks every entry whose tag matches virt invalid.
func (t *tlb) invalidateEntry(virt uint32) {
	for i := range t.entries {
		e := &t.entries[i]
		if e.Valid && (virt&e.VirtMask) == e.Virt {
			e.Valid = false
		}
	}
}
