package coproc_test

import (
	"testing"

	"github.com/lookbusy1344/arm710emu/coproc"
)

type fakeMem struct {
	words map[uint32]uint32
}

func newFakeMem() *fakeMem { return &fakeMem{words: make(map[uint32]uint32)} }

func (m *fakeMem) ReadWord(addr uint32) (uint32, bool)      { return m.words[addr], false }
func (m *fakeMem) WriteWord(addr uint32, value uint32) bool { m.words[addr] = value; return false }

func TestDispatchOnUnattachedSlotIsUndefined(t *testing.T) {
	b := coproc.NewBus()

	if _, err := b.MRC(4, 0); err != coproc.ErrUndefined {
		t.Errorf("MRC on unattached slot = %v, want ErrUndefined", err)
	}
	if err := b.MCR(4, 0, 0); err != coproc.ErrUndefined {
		t.Errorf("MCR on unattached slot = %v, want ErrUndefined", err)
	}
	if err := b.CDP(4, 0); err != coproc.ErrUndefined {
		t.Errorf("CDP on unattached slot = %v, want ErrUndefined", err)
	}
	if err := b.LDC(4, 0, newFakeMem()); err != coproc.ErrUndefined {
		t.Errorf("LDC on unattached slot = %v, want ErrUndefined", err)
	}
	if err := b.STC(4, 0, newFakeMem()); err != coproc.ErrUndefined {
		t.Errorf("STC on unattached slot = %v, want ErrUndefined", err)
	}
}

func TestAttachDispatchesToHandlerAndCallsInit(t *testing.T) {
	b := coproc.NewBus()
	initCalled := false
	var lastMCR uint32

	b.Attach(4, &coproc.Handlers{
		Init: func() { initCalled = true },
		MRC:  func(opcode uint32) (uint32, error) { return 0xCAFE, nil },
		MCR:  func(opcode uint32, value uint32) error { lastMCR = value; return nil },
	})

	if !initCalled {
		t.Error("Attach did not call Init")
	}
	if got, err := b.MRC(4, 0); err != nil || got != 0xCAFE {
		t.Errorf("MRC = (%#x,%v), want (0xCAFE,nil)", got, err)
	}
	if err := b.MCR(4, 0, 0x1234); err != nil {
		t.Errorf("MCR returned %v, want nil", err)
	}
	if lastMCR != 0x1234 {
		t.Errorf("MCR handler saw value %#x, want 0x1234", lastMCR)
	}
}

func TestAttachPartialHandlersFallBackToUndefinedPerOperation(t *testing.T) {
	b := coproc.NewBus()
	b.Attach(5, &coproc.Handlers{
		CDP: func(opcode uint32) error { return nil },
		// MRC/MCR/LDC/STC left nil.
	})

	if err := b.CDP(5, 0); err != nil {
		t.Errorf("CDP = %v, want nil (handler attached)", err)
	}
	if _, err := b.MRC(5, 0); err != coproc.ErrUndefined {
		t.Errorf("MRC on slot with no MRC handler = %v, want ErrUndefined", err)
	}
}

func TestDetachCallsExitAndBlanksSlot(t *testing.T) {
	b := coproc.NewBus()
	exitCalled := false
	b.Attach(6, &coproc.Handlers{
		Exit: func() { exitCalled = true },
		CDP:  func(opcode uint32) error { return nil },
	})

	b.Detach(6)

	if !exitCalled {
		t.Error("Detach did not call Exit")
	}
	if err := b.CDP(6, 0); err != coproc.ErrUndefined {
		t.Errorf("CDP after Detach = %v, want ErrUndefined", err)
	}
}

func TestLDCSTCRoundTripThroughMemAccessor(t *testing.T) {
	b := coproc.NewBus()
	var stored uint32
	b.Attach(7, &coproc.Handlers{
		LDC: func(opcode uint32, mem coproc.MemAccessor) error {
			v, _ := mem.ReadWord(0x1000)
			stored = v
			return nil
		},
		STC: func(opcode uint32, mem coproc.MemAccessor) error {
			return nil
		},
	})
	mem := newFakeMem()
	mem.words[0x1000] = 0xABCDEF01

	if err := b.LDC(7, 0, mem); err != nil {
		t.Fatalf("LDC returned %v", err)
	}
	if stored != 0xABCDEF01 {
		t.Errorf("LDC handler read %#x, want 0xABCDEF01", stored)
	}
}

func TestAttachDetachSlotOutOfRangeIgnored(t *testing.T) {
	b := coproc.NewBus()
	b.Attach(16, &coproc.Handlers{})
	b.Attach(-1, &coproc.Handlers{})
	b.Detach(16)
	b.Detach(-1)
	// No panic, and slot 15 (valid boundary) remains unaffected/undefined.
	if err := b.CDP(15, 0); err != coproc.ErrUndefined {
		t.Errorf("CDP on untouched slot 15 = %v, want ErrUndefined", err)
	}
}
