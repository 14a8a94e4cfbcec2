package mmu

// PhysReader is the narrow physical-memory interface the page-table walker
// and cache refill path need: raw word reads, with unmapped banks already
// resolved to all-ones by the caller (§3 "Memory map").
type PhysReader interface {
	ReadPhysWord(addr uint32) uint32
}

// l1Descriptor is the decoded first-level page/section descriptor.
type l1Descriptor struct {
	kind   int // 0/3 fault, 1 page table, 2 section
	value  uint32
}

func decodeL1(word uint32) l1Descriptor {
	switch word & Mask2Bit {
	case 0, 3:
		return l1Descriptor{kind: 0, value: word}
	case 2:
		return l1Descriptor{kind: 2, value: word}
	default: // 1
		return l1Descriptor{kind: 1, value: word}
	}
}

// l2Descriptor is the decoded second-level descriptor.
type l2Descriptor struct {
	kind  int // 0/3 fault, 1 large page, 2 small page
	value uint32
}

func decodeL2(word uint32) l2Descriptor {
	switch word & Mask2Bit {
	case 0, 3:
		return l2Descriptor{kind: 0, value: word}
	case 1:
		return l2Descriptor{kind: 1, value: word}
	default: // 2
		return l2Descriptor{kind: 2, value: word}
	}
}

// walk performs the two-level page-table walk described in §4.B step 4 and
// returns a populated TLB entry, or a translation fault.
func (m *MMU) walk(virt uint32, mem PhysReader) (TLBEntry, FaultKind) {
	l1Addr := (m.ttb & 0xFFFFC000) | ((virt >> 18) & ^uint32(3))
	l1 := decodeL1(mem.ReadPhysWord(l1Addr))

	if l1.kind == 0 {
		return TLBEntry{}, FaultSectionTranslation
	}

	if l1.kind == 2 {
		// Section mapping: 1MB, domain in bits 8-5, AP in bits 11-10.
		domain := int((l1.value >> 5) & Mask4Bit)
		ap := (l1.value >> 10) & Mask2Bit
		entry := TLBEntry{
			Virt:     virt & 0xFFF00000,
			VirtMask: 0xFFF00000,
			Phys:     l1.value & 0xFFF00000,
			PhysMask: 0xFFF00000,
			Domain:   domain,
			Mapping:  MappingSection,
			C:        l1.value&(1<<3) != 0,
			B:        l1.value&(1<<2) != 0,
		}
		entry.AP[3] = ap
		return entry, FaultNone
	}

	// Page table: L2 fetch.
	domain := int((l1.value >> 5) & Mask4Bit)
	l2Addr := (l1.value & 0xFFFFFC00) | (((virt & 0x000FF000) >> 10) & ^uint32(3))
	l2 := decodeL2(mem.ReadPhysWord(l2Addr))

	if l2.kind == 0 {
		return TLBEntry{}, FaultPageTranslation
	}

	entry := TLBEntry{Domain: domain, C: l2.value&(1<<3) != 0, B: l2.value&(1<<2) != 0}
	if l2.kind == 1 {
		// Large page: 64KB, AP fields in bits 9-8,11-10,13-12,15-14 (one per
		// 16KB sub-page); we use a single representative field per quadrant.
		entry.Virt = virt & 0xFFFF0000
		entry.VirtMask = 0xFFFF0000
		entry.Phys = l2.value & 0xFFFF0000
		entry.PhysMask = 0xFFFF0000
		entry.Mapping = MappingLargePage
		for i := 0; i < 4; i++ {
			entry.AP[i] = (l2.value >> uint(8+2*i)) & Mask2Bit
		}
		return entry, FaultNone
	}

	// Small page: 4KB, AP fields in bits 5-4,7-6,9-8,11-10 (one per 1KB
	// sub-page).
	entry.Virt = virt & 0xFFFFF000
	entry.VirtMask = 0xFFFFF000
	entry.Phys = l2.value & 0xFFFFF000
	entry.PhysMask = 0xFFFFF000
	entry.Mapping = MappingSmallPage
	for i := 0; i < 4; i++ {
		entry.AP[i] = (l2.value >> uint(4+2*i)) & Mask2Bit
	}
	return entry, FaultNone
}

// subPageSelector picks which of the four AP fields applies to virt, per
// §4.B step 6: sections always use field 3; small pages use bits 11-10;
// large pages use bits 15-14.
func subPageSelector(virt uint32, mapping Mapping) int {
	switch mapping {
	case MappingSection:
		return 3
	case MappingLargePage:
		return int((virt >> 14) & Mask2Bit)
	default: // small page
		return int((virt >> 10) & Mask2Bit)
	}
}

// checkPermission applies the {system, ROM, user} AP table from §4.B step 6.
func checkPermission(ap uint32, isWrite, user, system, rom bool) bool {
	switch ap {
	case 0:
		return !isWrite && ((system && !user) || rom)
	case 1:
		return !user
	case 2:
		if isWrite {
			return !user
		}
		return true
	case 3:
		return true
	}
	return false
}

func permissionFault(mapping Mapping) FaultKind {
	if mapping == MappingSection {
		return FaultSectionPermission
	}
	return FaultSubpagePermission
}

func domainFault(mapping Mapping) FaultKind {
	if mapping == MappingSection {
		return FaultSectionDomain
	}
	return FaultPageDomain
}
