package membus

import (
	"github.com/lookbusy1344/arm710emu/core"
	"github.com/lookbusy1344/arm710emu/ioext"
	"github.com/lookbusy1344/arm710emu/mmu"
)

var _ core.Bus = (*Bus)(nil)

// Bus is the bus-cycle façade (§4.D): it classifies every access as
// sequential/non-sequential/internal, routes word access through the MMU,
// synthesises half-word/byte access on top, and drives the framebuffer
// side-effect on low DRAM writes (§6).
type Bus struct {
	banks *Banks
	mmu   *mmu.MMU
	fb    ioext.Framebuffer
	lcdLimit uint32

	seqCycles, nonSeqCycles, internalCycles, coprocCycles uint64
}

// NewBus wires a bank table and MMU into a cycle-counting façade.
func NewBus(banks *Banks, m *mmu.MMU, fb ioext.Framebuffer, lcdLimit uint32) *Bus {
	if fb == nil {
		fb = ioext.NullFramebuffer{}
	}
	return &Bus{banks: banks, mmu: m, fb: fb, lcdLimit: lcdLimit}
}

func (b *Bus) countCycle(seq bool) {
	if seq {
		b.seqCycles++
	} else {
		b.nonSeqCycles++
	}
}

// ReadPhysWord lets this Bus double as an mmu.PhysReader for page-table
// walks and cache refills.
func (b *Bus) ReadPhysWord(addr uint32) uint32 {
	return b.banks.ReadPhysWord(addr)
}

func (b *Bus) translate(addr uint32, access mmu.AccessKind, width int, user bool) (phys uint32, word uint32, cacheHit bool, abort bool) {
	res := b.mmu.Translate(addr, access, width, user, b)
	if res.Fault != mmu.FaultNone {
		return 0, 0, false, true
	}
	if res.CacheHit {
		return 0, res.CachedWord, true, false
	}
	return res.Phys, 0, false, false
}

// FetchInstruction implements core.Bus.
func (b *Bus) FetchInstruction(addr uint32, seq bool, user bool, altMode bool) (uint32, bool) {
	b.countCycle(seq)
	if altMode {
		lo, _, _, abort := b.translate(addr, mmu.AccessRead, 2, user)
		if abort {
			return 0, true
		}
		loWord := b.wordAt(lo, addr)
		hi, _, _, abort2 := b.translate(addr+2, mmu.AccessRead, 2, user)
		if abort2 {
			return 0, true
		}
		hiWord := b.wordAt(hi, addr+2)
		loHalf := extractHalf(loWord, addr, b.BigEndian())
		hiHalf := extractHalf(hiWord, addr+2, b.BigEndian())
		return uint32(loHalf) | uint32(hiHalf)<<16, false
	}
	phys, cached, hit, abort := b.translate(addr, mmu.AccessRead, 4, user)
	if abort {
		return 0, true
	}
	if hit {
		return cached, false
	}
	return b.banks.ReadPhysWord(phys), false
}

func (b *Bus) wordAt(phys uint32, virt uint32) uint32 {
	return b.banks.ReadPhysWord(phys &^ 0x3)
}

// ReadWord implements core.Bus.
func (b *Bus) ReadWord(addr uint32, seq bool, user bool) (uint32, bool) {
	b.countCycle(seq)
	phys, cached, hit, abort := b.translate(addr, mmu.AccessRead, 4, user)
	if abort {
		return 0, true
	}
	if hit {
		return cached, false
	}
	return b.banks.ReadPhysWord(phys), false
}

// WriteWord implements core.Bus.
func (b *Bus) WriteWord(addr uint32, value uint32, seq bool, user bool) bool {
	b.countCycle(seq)
	phys, _, _, abort := b.translate(addr, mmu.AccessWrite, 4, user)
	if abort {
		return true
	}
	b.banks.WritePhysWord(phys, value)
	b.notifyFramebuffer(phys, value)
	return false
}

func (b *Bus) notifyFramebuffer(phys uint32, value uint32) {
	nibble := int((phys >> bankShift) & bankMask)
	if nibble != 0xC && nibble != 0xD {
		return
	}
	if phys&(1<<bankShift-1) < b.lcdLimit {
		b.fb.Write(phys, value)
	}
}

// ReadHalf implements core.Bus: half-word access synthesised over the
// enclosing word (§4.D).
func (b *Bus) ReadHalf(addr uint32, seq bool, user bool, signExtend bool) (uint32, bool) {
	b.countCycle(seq)
	phys, cached, hit, abort := b.translate(addr, mmu.AccessRead, 2, user)
	if abort {
		return 0, true
	}
	var enclosing uint32
	if hit {
		enclosing = cached
	} else {
		enclosing = b.banks.ReadPhysWord(phys &^ 0x3)
	}
	half := extractHalf(enclosing, addr, b.BigEndian())
	if signExtend && half&0x8000 != 0 {
		return uint32(int32(int16(half))), false
	}
	return uint32(half), false
}

// WriteHalf implements core.Bus.
func (b *Bus) WriteHalf(addr uint32, value uint32, seq bool, user bool) bool {
	b.countCycle(seq)
	phys, _, _, abort := b.translate(addr, mmu.AccessWrite, 2, user)
	if abort {
		return true
	}
	base := phys &^ 0x3
	enclosing := b.banks.ReadPhysWord(base)
	merged := mergeHalf(enclosing, addr, uint16(value), b.BigEndian())
	b.banks.WritePhysWord(base, merged)
	b.notifyFramebuffer(base, merged)
	return false
}

// ReadByte implements core.Bus.
func (b *Bus) ReadByte(addr uint32, seq bool, user bool, signExtend bool) (uint32, bool) {
	b.countCycle(seq)
	phys, cached, hit, abort := b.translate(addr, mmu.AccessRead, 1, user)
	if abort {
		return 0, true
	}
	var enclosing uint32
	if hit {
		enclosing = cached
	} else {
		enclosing = b.banks.ReadPhysWord(phys &^ 0x3)
	}
	byt := extractByte(enclosing, addr, b.BigEndian())
	if signExtend && byt&0x80 != 0 {
		return uint32(int32(int8(byt))), false
	}
	return uint32(byt), false
}

// WriteByte implements core.Bus.
func (b *Bus) WriteByte(addr uint32, value uint32, seq bool, user bool) bool {
	b.countCycle(seq)
	phys, _, _, abort := b.translate(addr, mmu.AccessWrite, 1, user)
	if abort {
		return true
	}
	base := phys &^ 0x3
	enclosing := b.banks.ReadPhysWord(base)
	merged := mergeByte(enclosing, addr, byte(value), b.BigEndian())
	b.banks.WritePhysWord(base, merged)
	b.notifyFramebuffer(base, merged)
	return false
}

// Cycles implements core.Bus.
func (b *Bus) Cycles() (seq, nonSeq, internal, coproc uint64) {
	return b.seqCycles, b.nonSeqCycles, b.internalCycles, b.coprocCycles
}

// AddInternalCycles implements core.Bus.
func (b *Bus) AddInternalCycles(n uint64) {
	b.internalCycles += n
}

// BigEndian implements core.Bus.
func (b *Bus) BigEndian() bool {
	return b.mmu.BigEndian()
}

func extractHalf(word uint32, addr uint32, bigEndian bool) uint16 {
	shift := (addr & 2) * 8
	if bigEndian {
		shift = 16 - shift
	}
	return uint16(word >> shift)
}

func mergeHalf(word uint32, addr uint32, value uint16, bigEndian bool) uint32 {
	shift := (addr & 2) * 8
	if bigEndian {
		shift = 16 - shift
	}
	mask := uint32(0xFFFF) << shift
	return (word &^ mask) | (uint32(value) << shift)
}

func extractByte(word uint32, addr uint32, bigEndian bool) byte {
	shift := (addr & 3) * 8
	if bigEndian {
		shift = 24 - shift
	}
	return byte(word >> shift)
}

func mergeByte(word uint32, addr uint32, value byte, bigEndian bool) uint32 {
	shift := (addr & 3) * 8
	if bigEndian {
		shift = 24 - shift
	}
	mask := uint32(0xFF) << shift
	return (word &^ mask) | (uint32(value) << shift)
}
