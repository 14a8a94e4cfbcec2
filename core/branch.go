package core

// executeBranch implements B/BL (§4.E dispatch range 0xA0-0xBF): a 24-bit
// signed word-offset relative to the pipelined PC, optionally saving the
// return address in LR.
func executeBranch(m *Machine, word uint32, executeAddr uint32) {
	link := word&(1<<24) != 0
	offset := word & Mask24Bit
	simm := int32(offset<<8) >> 8 // sign-extend 24 -> 32 bits

	pc := m.Regs.Get(PCRegister)
	target := uint32(int32(pc) + simm*4)

	if link {
		m.Regs.Set(LR, executeAddr+InstructionSize)
	}
	m.writePC(target)
}

// executeBranchExchange implements BX: branch to Rm, selecting ARM or
// alternate (Thumb-style) decoding from its low bit.
func executeBranchExchange(m *Machine, word uint32) {
	rm := int(word & Mask4Bit)
	target := m.Regs.Get(rm)

	m.CPSR.T = target&1 != 0
	if m.CPSR.T {
		m.Regs.SetInstructionSize(AltInstructionSize)
	} else {
		m.Regs.SetInstructionSize(InstructionSize)
	}
	m.writePC(target)
}
