package core

// executeMultiply implements MUL/MLA (§4.F): Rd = Rm*Rs [+ Rn], set-flags
// updates N,Z only (C is left unmodified; the architecture defines it as
// meaningless here).
func executeMultiply(m *Machine, word uint32) {
	rd := int((word >> 16) & Mask4Bit)
	racc := int((word >> 12) & Mask4Bit)
	rs := int((word >> 8) & Mask4Bit)
	rm := int(word & Mask4Bit)
	accumulate := word&(1<<21) != 0
	setFlags := word&(1<<20) != 0

	if !MultiplyConstraintsOK(0, rd, rs, rm, false) {
		m.noteUndefined("MUL/MLA operand-register constraint violated")
	}

	product := m.Regs.Get(rm) * m.Regs.Get(rs)
	if accumulate {
		product += m.Regs.Get(racc)
	}
	m.Regs.Set(rd, product)

	cycles := MultiplyCycles(m.Regs.Get(rs), false)
	if accumulate {
		cycles++
	}
	m.Bus.AddInternalCycles(uint64(cycles))

	if setFlags {
		UpdateNZ(&m.CPSR, product)
	}
}

// executeMultiplyLong implements UMULL/UMLAL/SMULL/SMLAL (§4.F): the 64-bit
// product (optionally accumulated into RdHi:RdLo) split across two
// registers.
func executeMultiplyLong(m *Machine, word uint32) {
	signed := word&(1<<22) != 0
	accumulate := word&(1<<21) != 0
	setFlags := word&(1<<20) != 0
	rdHi := int((word >> 16) & Mask4Bit)
	rdLo := int((word >> 12) & Mask4Bit)
	rs := int((word >> 8) & Mask4Bit)
	rm := int(word & Mask4Bit)

	if !MultiplyConstraintsOK(rdHi, rdLo, rs, rm, true) {
		m.noteUndefined("xMULL/xMLAL operand-register constraint violated")
	}

	var lo, hi uint32
	if signed {
		lo, hi = SMULL64(int32(m.Regs.Get(rm)), int32(m.Regs.Get(rs)))
	} else {
		lo, hi = UMULL64(m.Regs.Get(rm), m.Regs.Get(rs))
	}
	if accumulate {
		sum := uint64(lo) | uint64(hi)<<32
		sum += uint64(m.Regs.Get(rdLo)) | uint64(m.Regs.Get(rdHi))<<32
		lo, hi = uint32(sum), uint32(sum>>32)
	}
	m.Regs.Set(rdLo, lo)
	m.Regs.Set(rdHi, hi)

	cycles := MultiplyCycles(m.Regs.Get(rs), signed) + 1
	if accumulate {
		cycles++
	}
	m.Bus.AddInternalCycles(uint64(cycles))

	if setFlags {
		m.CPSR.Z = lo == 0 && hi == 0
		m.CPSR.N = hi&SignBitMask != 0
	}
}
