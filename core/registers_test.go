package core_test

import (
	"testing"

	"github.com/lookbusy1344/arm710emu/core"
)

func TestRegistersGetPCAppliesPipelineOffset(t *testing.T) {
	r := core.NewRegisters()
	r.PC = 0x1000

	if got := r.Get(core.PCRegister); got != 0x1008 {
		t.Errorf("Get(PC) = %#x, want 0x1008 (PC+2*4)", got)
	}
}

func TestRegistersGetPCAppliesThumbPipelineOffset(t *testing.T) {
	r := core.NewRegisters()
	r.PC = 0x1000
	r.SetInstructionSize(core.AltInstructionSize)

	if got := r.Get(core.PCRegister); got != 0x1004 {
		t.Errorf("Get(PC) = %#x, want 0x1004 (PC+2*2)", got)
	}
}

func TestSwitchBankPreservesPerModeStackAndLink(t *testing.T) {
	r := core.NewRegisters()
	r.Set(core.SP, 0x1111) // USR/SYS SP
	r.Set(core.LR, 0x2222)

	r.SwitchBank(core.ModeUSR, core.ModeSVC)
	r.Set(core.SP, 0x3333) // SVC's own SP
	r.Set(core.LR, 0x4444)

	r.SwitchBank(core.ModeSVC, core.ModeUSR)

	if got := r.Get(core.SP); got != 0x1111 {
		t.Errorf("SP after returning to USR = %#x, want restored 0x1111", got)
	}
	if got := r.Get(core.LR); got != 0x2222 {
		t.Errorf("LR after returning to USR = %#x, want restored 0x2222", got)
	}

	r.SwitchBank(core.ModeUSR, core.ModeSVC)
	if got := r.Get(core.SP); got != 0x3333 {
		t.Errorf("SP after re-entering SVC = %#x, want restored 0x3333", got)
	}
}

func TestSwitchBankToFIQPrivatizesR8Through12(t *testing.T) {
	r := core.NewRegisters()
	for reg := core.R8; reg <= core.R12; reg++ {
		r.Set(reg, 0xAAAA)
	}

	r.SwitchBank(core.ModeUSR, core.ModeFIQ)
	for reg := core.R8; reg <= core.R12; reg++ {
		r.Set(reg, 0xBBBB)
	}
	r.SwitchBank(core.ModeFIQ, core.ModeUSR)

	for reg := core.R8; reg <= core.R12; reg++ {
		if got := r.Get(reg); got != 0xAAAA {
			t.Errorf("R%d after leaving FIQ = %#x, want restored 0xAAAA", reg, got)
		}
	}

	r.SwitchBank(core.ModeUSR, core.ModeFIQ)
	for reg := core.R8; reg <= core.R12; reg++ {
		if got := r.Get(reg); got != 0xBBBB {
			t.Errorf("R%d on re-entering FIQ = %#x, want restored private 0xbbbb", reg, got)
		}
	}
}

func TestSwitchBankSameModeIsNoOp(t *testing.T) {
	r := core.NewRegisters()
	r.Set(core.SP, 0x1234)
	r.SwitchBank(core.ModeSVC, core.ModeSVC)
	if got := r.Get(core.SP); got != 0x1234 {
		t.Errorf("SP = %#x, want unchanged 0x1234 (same-mode switch is a no-op)", got)
	}
}
