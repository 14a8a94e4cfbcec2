package mmu

import "testing"

func TestMRCIDWordPerArchitecture(t *testing.T) {
	v3 := New(ArchV3)
	if id, undef := v3.MRC(CR0ID); undef || id != IDWordV3 {
		t.Errorf("v3 MRC(ID) = %#x (undef=%v), want %#x", id, undef, uint32(IDWordV3))
	}
	v4 := New(ArchV4)
	if id, undef := v4.MRC(CR0ID); undef || id != IDWordV4 {
		t.Errorf("v4 MRC(ID) = %#x (undef=%v), want %#x", id, undef, uint32(IDWordV4))
	}
}

func TestMCRControlForcesReservedBitsSet(t *testing.T) {
	m := New(ArchV4)
	m.MCR(CR1Control, 0, 0xFFFFFFFF)
	got, _ := m.MRC(CR1Control)
	if got != (CtrlWritableMask | CtrlForcedSetMask) {
		t.Errorf("control = %#x, want %#x", got, uint32(CtrlWritableMask|CtrlForcedSetMask))
	}
}

func TestMCRTTBMasksLowBits(t *testing.T) {
	m := New(ArchV4)
	m.MCR(CR2TTB, 0, 0x12345678)
	got, _ := m.MRC(CR2TTB)
	if got != 0x12344000 {
		t.Errorf("TTB = %#x, want 0x12344000 (bits 13-0 cleared)", got)
	}
}

func TestMCRDACRRoundTrip(t *testing.T) {
	m := New(ArchV4)
	m.MCR(CR3DACR, 0, 0xFFFFFFFF)
	if got, _ := m.MRC(CR3DACR); got != 0xFFFFFFFF {
		t.Errorf("DACR = %#x, want 0xFFFFFFFF", got)
	}
}

func TestFSRFARUndefinedOnV3(t *testing.T) {
	m := New(ArchV3)
	if _, undef := m.MRC(CR5FSR); !undef {
		t.Error("MRC(FSR) on v3 should be undefined")
	}
	if undef := m.MCR(CR5FSR, 0, 0); !undef {
		t.Error("MCR(FSR) on v3 should be undefined")
	}
}

func TestFSRFARAvailableOnV4(t *testing.T) {
	m := New(ArchV4)
	m.latchFault(FaultSectionPermission, 4, 0xCAFEBABE)
	fsr, undef := m.MRC(CR5FSR)
	if undef {
		t.Fatal("MRC(FSR) on v4 should be defined")
	}
	if fsr != fsrSectionPermission|(4<<4) {
		t.Errorf("FSR = %#x, want %#x", fsr, uint32(fsrSectionPermission|(4<<4)))
	}
	far, _ := m.MRC(CR6FAR)
	if far != 0xCAFEBABE {
		t.Errorf("FAR = %#x, want 0xCAFEBABE", far)
	}
}

func TestMCRCacheOpInvalidatesCacheAndTLB(t *testing.T) {
	m := New(ArchV4)
	m.tlb.fill(TLBEntry{Virt: 0x1000, VirtMask: 0xFFFFF000, Mapping: MappingSmallPage})
	m.cache.fill(0x1000, 0x1000, [CacheWordsPerLine]uint32{1, 2, 3, 4})

	m.MCR(CR7CacheOp, 0, 0)

	if _, hit := m.tlb.lookup(0x1000); hit {
		t.Error("TLB entry survived a CacheOp invalidate-all")
	}
	if _, hit := m.cache.lookup(0x1000); hit {
		t.Error("cache line survived a CacheOp invalidate-all")
	}
}

func TestMCRTLBOpInvalidatesSingleEntry(t *testing.T) {
	m := New(ArchV4)
	m.tlb.fill(TLBEntry{Virt: 0x1000, VirtMask: 0xFFFFF000, Mapping: MappingSmallPage})
	m.tlb.fill(TLBEntry{Virt: 0x2000, VirtMask: 0xFFFFF000, Mapping: MappingSmallPage})

	m.MCR(CR8TLBOp, 1, 0x1000)

	if _, hit := m.tlb.lookup(0x1000); hit {
		t.Error("entry at 0x1000 survived a single-entry TLBOp invalidate")
	}
	if _, hit := m.tlb.lookup(0x2000); !hit {
		t.Error("unrelated entry at 0x2000 was wrongly invalidated")
	}
}

func TestMCRTLBOpInvalidatesAllWhenCRmNotOne(t *testing.T) {
	m := New(ArchV4)
	m.tlb.fill(TLBEntry{Virt: 0x1000, VirtMask: 0xFFFFF000, Mapping: MappingSmallPage})

	m.MCR(CR8TLBOp, 0, 0)

	if _, hit := m.tlb.lookup(0x1000); hit {
		t.Error("entry survived a full TLBOp invalidate")
	}
}

func TestMRCUnknownRegisterIsUndefined(t *testing.T) {
	m := New(ArchV4)
	if _, undef := m.MRC(99); !undef {
		t.Error("MRC on an unknown register should be undefined")
	}
	if undef := m.MCR(99, 0, 0); !undef {
		t.Error("MCR on an unknown register should be undefined")
	}
}
