package mmu

import "testing"

func TestTLBLookupMiss(t *testing.T) {
	tb := newTLB()
	if _, hit := tb.lookup(0x1000); hit {
		t.Error("lookup on empty TLB reported a hit")
	}
}

func TestTLBFillAndLookup(t *testing.T) {
	tb := newTLB()
	entry := TLBEntry{
		Virt: 0x00100000, VirtMask: 0xFFF00000,
		Phys: 0x00200000, PhysMask: 0xFFF00000,
		Mapping: MappingSection,
	}
	tb.fill(entry)

	got, hit := tb.lookup(0x00100ABC)
	if !hit {
		t.Fatal("lookup missed after fill")
	}
	if got.Phys != 0x00200000 {
		t.Errorf("Phys = %#x, want 0x00200000", got.Phys)
	}
}

func TestTLBInvalidateEntry(t *testing.T) {
	tb := newTLB()
	tb.fill(TLBEntry{Virt: 0x1000, VirtMask: 0xFFFFF000, Mapping: MappingSmallPage})
	tb.fill(TLBEntry{Virt: 0x2000, VirtMask: 0xFFFFF000, Mapping: MappingSmallPage})

	tb.invalidateEntry(0x1000)

	if _, hit := tb.lookup(0x1000); hit {
		t.Error("entry at 0x1000 survived invalidateEntry")
	}
	if _, hit := tb.lookup(0x2000); !hit {
		t.Error("unrelated entry at 0x2000 was wrongly invalidated")
	}
}

func TestTLBInvalidateAll(t *testing.T) {
	tb := newTLB()
	tb.fill(TLBEntry{Virt: 0x1000, VirtMask: 0xFFFFF000, Mapping: MappingSmallPage})
	tb.invalidateAll()
	if _, hit := tb.lookup(0x1000); hit {
		t.Error("entry survived invalidateAll")
	}
}

func TestTLBFillWrapsRoundRobinCursor(t *testing.T) {
	tb := newTLB()
	for i := 0; i < TLBEntries+1; i++ {
		tb.fill(TLBEntry{Virt: uint32(i) << 20, VirtMask: 0xFFF00000, Mapping: MappingSection})
	}
	// The (TLBEntries+1)th fill should have wrapped the cursor back to slot 0,
	// overwriting the very first entry (virt 0).
	if _, hit := tb.lookup(0); hit {
		t.Error("slot 0 was not overwritten after the cursor wrapped")
	}
}
