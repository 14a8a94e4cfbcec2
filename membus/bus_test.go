package membus_test

import (
	"testing"

	"github.com/lookbusy1344/arm710emu/core"
	"github.com/lookbusy1344/arm710emu/coproc"
	"github.com/lookbusy1344/arm710emu/ioext"
	"github.com/lookbusy1344/arm710emu/membus"
	"github.com/lookbusy1344/arm710emu/mmu"
)

type recordingFramebuffer struct {
	writes map[uint32]uint32
}

func newRecordingFramebuffer() *recordingFramebuffer {
	return &recordingFramebuffer{writes: make(map[uint32]uint32)}
}

func (f *recordingFramebuffer) Write(addr uint32, value uint32)          { f.writes[addr] = value }
func (f *recordingFramebuffer) SetEnabled(enabled bool)                  {}
func (f *recordingFramebuffer) SetGeometry(width, height, depthBits int) {}

// ramBank is a simple read/write membus.Bank backed by a sparse word map,
// for tests that need a mounted bank without the DRAM address fold or the
// ROM write-discard behaviour.
type ramBank struct {
	words map[uint32]uint32
}

func newRAMBank() *ramBank { return &ramBank{words: make(map[uint32]uint32)} }

func (r *ramBank) ReadWord(offset uint32) uint32          { return r.words[offset] }
func (r *ramBank) WriteWord(offset uint32, value uint32) { r.words[offset] = value }

func TestBusReadWriteWordMMUDisabledIsIdentity(t *testing.T) {
	banks := membus.NewBanks()
	bank3 := newRAMBank()
	banks.Mount(3, bank3)
	bus := membus.NewBus(banks, mmu.New(mmu.ArchV4), nil, 0)

	if abort := bus.WriteWord(0x30000010, 0x12345678, false, false); abort {
		t.Fatal("unexpected abort with MMU disabled")
	}
	got, abort := bus.ReadWord(0x30000010, false, false)
	if abort || got != 0x12345678 {
		t.Errorf("ReadWord = (%#x, abort=%v), want (0x12345678, false)", got, abort)
	}
}

func TestBusWriteWordBelowLCDLimitNotifiesFramebuffer(t *testing.T) {
	banks := membus.NewBanks()
	bankC, bankD := membus.NewDRAM()
	banks.Mount(0xC, bankC)
	banks.Mount(0xD, bankD)
	fb := newRecordingFramebuffer()
	bus := membus.NewBus(banks, mmu.New(mmu.ArchV4), fb, 0x1000)

	bus.WriteWord(0xC0000100, 0xAAAAAAAA, false, false)
	if fb.writes[0xC0000100] != 0xAAAAAAAA {
		t.Errorf("framebuffer did not observe the write; writes=%v", fb.writes)
	}
}

func TestBusWriteWordAboveLCDLimitDoesNotNotify(t *testing.T) {
	banks := membus.NewBanks()
	bankC, bankD := membus.NewDRAM()
	banks.Mount(0xC, bankC)
	banks.Mount(0xD, bankD)
	fb := newRecordingFramebuffer()
	bus := membus.NewBus(banks, mmu.New(mmu.ArchV4), fb, 0x10)

	bus.WriteWord(0xC0001000, 0xAAAAAAAA, false, false)
	if len(fb.writes) != 0 {
		t.Errorf("framebuffer notified for a write past lcd_limit: %v", fb.writes)
	}
}

func TestBusByteAndHalfSynthesis(t *testing.T) {
	banks := membus.NewBanks()
	bank3 := newRAMBank()
	banks.Mount(3, bank3)
	bus := membus.NewBus(banks, mmu.New(mmu.ArchV4), nil, 0)

	bus.WriteWord(0x30000000, 0x11223344, false, false)
	if got, abort := bus.ReadByte(0x30000000, false, false, false); abort || got != 0x44 {
		t.Errorf("ReadByte(+0) = (%#x,%v), want 0x44", got, abort)
	}
	if got, abort := bus.ReadByte(0x30000003, false, false, false); abort || got != 0x11 {
		t.Errorf("ReadByte(+3) = (%#x,%v), want 0x11", got, abort)
	}
	if got, abort := bus.ReadHalf(0x30000000, false, false, false); abort || got != 0x3344 {
		t.Errorf("ReadHalf(+0) = (%#x,%v), want 0x3344", got, abort)
	}

	bus.WriteByte(0x30000000, 0xFF, false, false)
	if got, _ := bus.ReadWord(0x30000000, false, false); got != 0x112233FF {
		t.Errorf("word after WriteByte = %#x, want 0x112233FF", got)
	}

	bus.WriteHalf(0x30000002, 0xBEEF, false, false)
	if got, _ := bus.ReadWord(0x30000000, false, false); got != 0xBEEF33FF {
		t.Errorf("word after WriteHalf = %#x, want 0xBEEF33FF", got)
	}
}

func TestBusCyclesCountsSeqAndNonSeq(t *testing.T) {
	banks := membus.NewBanks()
	banks.Mount(3, newRAMBank())
	bus := membus.NewBus(banks, mmu.New(mmu.ArchV4), nil, 0)

	bus.ReadWord(0x30000000, true, false)
	bus.ReadWord(0x30000004, false, false)
	bus.AddInternalCycles(2)

	seq, nonSeq, internal, _ := bus.Cycles()
	if seq != 1 || nonSeq != 1 || internal != 2 {
		t.Errorf("Cycles() = seq=%d nonSeq=%d internal=%d, want 1,1,2", seq, nonSeq, internal)
	}
}

func TestBusBigEndianDelegatesToMMU(t *testing.T) {
	m := mmu.New(mmu.ArchV4)
	m.MCR(mmu.CR1Control, 0, mmu.CtrlBigEndian)
	bus := membus.NewBus(membus.NewBanks(), m, nil, 0)
	if !bus.BigEndian() {
		t.Error("BigEndian() = false, want true after setting the control bit")
	}
}

// Full-stack scenario: a data abort mid-LDM, driven through a real MMU page
// table walk rather than a simulated bus-level abort. The instruction fetch
// and the first three transfer words live in mapped small pages; the fourth
// transfer crosses into an unmapped page, which must fault the page-table
// walk, roll back the writeback base register, and latch a classified FSR/FAR.
func TestDataAbortMidLDMClassifiesFaultThroughRealWalk(t *testing.T) {
	banks := membus.NewBanks()
	ram := newRAMBank()
	banks.Mount(0, ram)

	const (
		l1Base = 0x4000
		l2Base = 0x9000
	)
	ram.words[l1Base] = l2Base | 1 // L1[0]: page table, domain 0, kind=1
	ram.words[l2Base+0x00] = 0xFF2         // L2[0]: identity small page, AP=3 everywhere, code
	ram.words[l2Base+0x04] = 0x10000 | 0xFF2 // L2[1]: virt 0x1000-0x1FFF -> phys 0x10000-0x10FFF
	ram.words[l2Base+0x08] = 0               // L2[2]: virt 0x2000-0x2FFF -> fault

	m := mmu.New(mmu.ArchV4)
	m.MCR(mmu.CR2TTB, 0, l1Base)
	m.MCR(mmu.CR3DACR, 0, 1) // domain 0 = client
	m.MCR(mmu.CR1Control, 0, mmu.CtrlMMUEnable)

	bus := membus.NewBus(banks, m, ioext.NullFramebuffer{}, 0)
	mach := core.NewMachine(bus, coproc.NewBus())

	ram.words[0] = 0xE8B0001E // LDMIA R0!, {R1-R4}, at identity-mapped virt/phys 0

	const base = 0x1FF4 // R1 @0x1FF4, R2 @0x1FF8, R3 @0x1FFC, R4 @0x2000 (unmapped)
	mach.Regs.Set(core.R0, base)
	ram.words[0x10FF4] = 0x10101010 // virt 0x1FF4 -> phys 0x10FF4
	ram.words[0x10FF8] = 0x20202020 // virt 0x1FF8 -> phys 0x10FF8
	ram.words[0x10FFC] = 0x30303030 // virt 0x1FFC -> phys 0x10FFC

	mach.Step()

	if mach.CPSR.Mode != core.ModeABT {
		t.Fatalf("CPSR.Mode = %#x, want ABT", mach.CPSR.Mode)
	}
	if got := mach.Regs.Get(core.R0); got != base {
		t.Errorf("R0 = %#x, want restored base %#x", got, uint32(base))
	}
	if m.FSR()&mmu.Mask4Bit != 0x7 {
		t.Errorf("FSR low nibble = %#x, want 0x7 (page translation)", m.FSR()&mmu.Mask4Bit)
	}
	if m.FAR() != 0x2000 {
		t.Errorf("FAR = %#x, want 0x2000 (the faulting transfer address)", m.FAR())
	}
}
