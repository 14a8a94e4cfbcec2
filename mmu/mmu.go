package mmu

// MMU ties together the TLB, cache, page-table walker and cp15 registers
// behind the single entry point the bus façade calls: Translate (§4.B).
type MMU struct {
	control uint32
	ttb     uint32
	dacr    uint32
	fsr     uint32
	far     uint32

	tlb   *tlb
	cache *cache
	arch  Architecture
}

// New returns a reset MMU for the given architecture variant (v3 or v4,
// selecting the cp15 ID word).
func New(arch Architecture) *MMU {
	return &MMU{
		tlb:   newTLB(),
		cache: newCache(),
		arch:  arch,
	}
}

// Reset clears all MMU state, matching a processor reset (§3 Lifecycle).
func (m *MMU) Reset() {
	m.control = 0
	m.ttb = 0
	m.dacr = 0
	m.fsr = 0
	m.far = 0
	m.tlb.invalidateAll()
	m.cache.invalidateAll()
}

// Result is the outcome of a single Translate call.
type Result struct {
	Phys       uint32
	Fault      FaultKind
	CacheHit   bool
	CachedWord uint32
}

func widthMask(width int) uint32 {
	return uint32(width - 1)
}

// Translate implements the 8-step algorithm of §4.B: MMU bypass, alignment
// check, cache lookup, TLB probe/page-table walk with fill, domain check,
// permission check, physical address composition, and cache allocation on
// cacheable reads.
func (m *MMU) Translate(virt uint32, access AccessKind, width int, user bool, mem PhysReader) Result {
	// Step 1: MMU disabled bypasses TLB, cache and permission checks.
	if m.control&CtrlMMUEnable == 0 {
		return Result{Phys: virt, Fault: FaultNone}
	}

	// Step 2: alignment fault.
	if m.control&CtrlAlignFault != 0 && width > 1 && virt&widthMask(width) != 0 {
		m.latchFault(FaultAlignment, 0, virt)
		return Result{Fault: FaultAlignment}
	}

	// Step 3: cache lookup (reads only).
	if m.control&CtrlCacheEnable != 0 && access == AccessRead {
		if word, ok := m.cache.lookup(virt); ok {
			return Result{CacheHit: true, CachedWord: word}
		}
	}

	// Step 4: TLB probe, walking and filling on miss.
	entry, hit := m.tlb.lookup(virt)
	if !hit {
		walked, fault := m.walk(virt, mem)
		if fault != FaultNone {
			m.latchFault(fault, walked.Domain, virt)
			return Result{Fault: fault}
		}
		entry = m.tlb.fill(walked)
	}

	// Step 5: domain access check.
	domainBits := (m.dacr >> uint(entry.Domain*2)) & Mask2Bit
	switch domainBits {
	case 0, 2:
		fault := domainFault(entry.Mapping)
		m.latchFault(fault, entry.Domain, virt)
		return Result{Fault: fault}
	case 1:
		// Client: permission check applies (step 6).
		sel := subPageSelector(virt, entry.Mapping)
		ap := entry.AP[sel]
		system := m.control&CtrlSystem != 0
		rom := m.control&CtrlROM != 0
		if !checkPermission(ap, access == AccessWrite, user, system, rom) {
			fault := permissionFault(entry.Mapping)
			m.latchFault(fault, entry.Domain, virt)
			return Result{Fault: fault}
		}
	case 3:
		// Manager: bypass permission check entirely.
	}

	// Step 7: compose the physical address.
	phys := entry.Phys | (virt &^ entry.PhysMask)

	// Step 8: cacheable-read allocation.
	if access == AccessRead && m.control&CtrlCacheEnable != 0 && entry.C {
		base := phys &^ uint32(0xF)
		var refill [CacheWordsPerLine]uint32
		for i := range refill {
			refill[i] = mem.ReadPhysWord(base + uint32(i*4))
		}
		m.cache.fill(virt&^uint32(0xF), base, refill)
	}

	return Result{Phys: phys, Fault: FaultNone}
}

// InvalidateTLBEntry matches the external "TLB invalidate-entry" operation.
func (m *MMU) InvalidateTLBEntry(virt uint32) { m.tlb.invalidateEntry(virt) }

// InvalidateAll matches "full invalidate-all (both cache and TLB)".
func (m *MMU) InvalidateAll() {
	m.tlb.invalidateAll()
	m.cache.invalidateAll()
}

// Enabled reports whether the MMU is currently translating addresses.
func (m *MMU) Enabled() bool { return m.control&CtrlMMUEnable != 0 }

// BigEndian reports the CPSR-independent big-endian control bit (§4.D).
func (m *MMU) BigEndian() bool { return m.control&CtrlBigEndian != 0 }
