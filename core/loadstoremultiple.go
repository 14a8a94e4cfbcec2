package core

import "math/bits"

// executeBlockTransfer implements LDM/STM (§4.G multiple transfer): the
// four addressing-mode variants collapse to a single increment-after loop
// over a caller-derived start address and writeback value, the PSR-restore
// (^) variant, and the abort-mid-transfer base-restore rule.
func executeBlockTransfer(m *Machine, word uint32, executeAddr uint32) {
	p := word&(1<<24) != 0
	u := word&(1<<23) != 0
	sBit := word&(1<<22) != 0
	w := word&(1<<21) != 0
	l := word&(1<<20) != 0
	rn := int((word >> 16) & Mask4Bit)
	list := uint16(word & 0xFFFF)

	count := bits.OnesCount16(uint16(list))
	base := m.Regs.Get(rn)

	var start, writebackVal uint32
	if u {
		if p {
			start = base + 4
		} else {
			start = base
		}
		writebackVal = base + 4*uint32(count)
	} else {
		if p {
			start = base - 4*uint32(count)
		} else {
			start = base - 4*uint32(count) + 4
		}
		writebackVal = base - 4*uint32(count)
	}

	pcInList := list&(1<<uint(PCRegister)) != 0
	// §4.G.5: PSR bit set without R15 in the list forces the transfer
	// through the user register bank.
	forceUser := sBit && !(l && pcInList)

	savedMode := m.CPSR.Mode
	if forceUser && savedMode != ModeUSR {
		m.Regs.SwitchBank(savedMode, ModeUSR)
	}

	addr := start
	transferred := 0
	aborted := false

	for reg := 0; reg < 16; reg++ {
		if list&(1<<uint(reg)) == 0 {
			continue
		}
		seq := transferred != 0
		if l {
			value, abort := m.Bus.ReadWord(addr, seq, m.userMode())
			if abort {
				aborted = true
				break
			}
			m.Regs.Set(reg, value)
		} else {
			value := m.Regs.Get(reg)
			abort := m.Bus.WriteWord(addr, value, seq, m.userMode())
			if abort {
				aborted = true
				break
			}
		}
		transferred++
		// Writeback is visible to the *following* transfer, not the one
		// that just happened — matches hardware's self-referential-base
		// rule for STM.
		if w && rn != PCRegister && transferred == 1 {
			m.Regs.Set(rn, writebackVal)
		}
		addr += 4
	}

	if forceUser && savedMode != ModeUSR {
		m.Regs.SwitchBank(ModeUSR, savedMode)
	}

	if aborted {
		if w && rn != PCRegister {
			m.Regs.Set(rn, base)
		}
		m.Raise(ExceptionDataAbort, executeAddr)
		return
	}

	if l && pcInList {
		if sBit {
			m.restoreCPSR(*m.currentSPSR())
		}
		// Regs.Set(PCRegister, ...) in the loop above already wrote the
		// loaded value straight into the raw PC field; writePC re-applies
		// it so the reprime/flush side-effect happens.
		m.writePC(m.Regs.PC)
	}
}
