package core

// busMemAccessor adapts core.Bus to coproc.MemAccessor for LDC/STC: it binds
// the single effective address executeCoprocTransfer computed, since a
// Handlers.LDC/STC callback is never told that address directly.
type busMemAccessor struct {
	m    *Machine
	addr uint32
}

func (a busMemAccessor) ReadWord(uint32) (uint32, bool) {
	return a.m.Bus.ReadWord(a.addr, true, a.m.userMode())
}

func (a busMemAccessor) WriteWord(_ uint32, value uint32) bool {
	return a.m.Bus.WriteWord(a.addr, value, true, a.m.userMode())
}

// executeCDP implements a coprocessor data operation (§4.C): dispatch by
// coprocessor number to slot-specific logic, falling back to undefined.
func executeCDP(m *Machine, word uint32, executeAddr uint32) {
	slot := int((word >> 8) & Mask4Bit)
	if err := m.Coproc.CDP(slot, word); err != nil {
		m.Raise(ExceptionUndefined, executeAddr+InstructionSize)
	}
}

// executeCoprocRegTransfer implements MRC/MCR (§4.C).
func executeCoprocRegTransfer(m *Machine, word uint32, executeAddr uint32) {
	slot := int((word >> 8) & Mask4Bit)
	load := word&(1<<20) != 0
	rd := int((word >> 12) & Mask4Bit)

	if load {
		value, err := m.Coproc.MRC(slot, word)
		if err != nil {
			m.Raise(ExceptionUndefined, executeAddr+InstructionSize)
			return
		}
		if rd == PCRegister {
			// MRC Rd=15 updates flags from the result's top bits (31-28 -> N, Z, C, V).
			m.CPSR.N = value&(1<<31) != 0
			m.CPSR.Z = value&(1<<30) != 0
			m.CPSR.C = value&(1<<29) != 0
			m.CPSR.V = value&(1<<28) != 0
			return
		}
		m.Regs.Set(rd, value)
		return
	}

	value := m.Regs.Get(rd)
	if err := m.Coproc.MCR(slot, word, value); err != nil {
		m.Raise(ExceptionUndefined, executeAddr+InstructionSize)
	}
}

// executeCoprocTransfer implements LDC/STC (§4.C): a single-word transfer
// between guest memory and a coprocessor register, with the same
// pre/post/writeback addressing shape as single data transfer.
func executeCoprocTransfer(m *Machine, word uint32, executeAddr uint32) {
	p := word&(1<<24) != 0
	u := word&(1<<23) != 0
	w := word&(1<<21) != 0
	l := word&(1<<20) != 0
	rn := int((word >> 16) & Mask4Bit)
	slot := int((word >> 8) & Mask4Bit)
	offset := (word & Mask8Bit) << 2

	base := m.Regs.Get(rn)
	var indexed uint32
	if u {
		indexed = base + offset
	} else {
		indexed = base - offset
	}
	effective := base
	if p {
		effective = indexed
	}

	mem := busMemAccessor{m: m, addr: effective}

	var err error
	if l {
		err = m.Coproc.LDC(slot, word, mem)
	} else {
		err = m.Coproc.STC(slot, word, mem)
	}
	if err != nil {
		m.Raise(ExceptionUndefined, executeAddr+InstructionSize)
		return
	}
	if (!p || w) && rn != PCRegister {
		m.Regs.Set(rn, indexed)
	}
}
