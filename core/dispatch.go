package core

// Dispatch decodes one ARM-mode instruction word and routes it to its
// handler, per the bit-pattern classification of §4.E. Condition evaluation
// has already happened in the caller (pipeline.go); Dispatch only sees
// instructions that are to execute.
func Dispatch(m *Machine, word uint32, executeAddr uint32) {
	switch {
	case word&0x0FFFFFF0 == 0x012FFF10: // BX
		executeBranchExchange(m, word)

	case word&0x0FC000F0 == 0x00000090: // MUL/MLA
		executeMultiply(m, word)

	case word&0x0F8000F0 == 0x00800090: // UMULL/UMLAL/SMULL/SMLAL
		executeMultiplyLong(m, word)

	case word&0x0E000090 == 0x00000090 && (word>>5)&Mask2Bit != 0: // halfword/signed transfer
		executeHalfwordTransfer(m, word, executeAddr)

	case word&0x0C000000 == 0x00000000: // data processing, or PSR transfer
		executeDataProcessingOrPSR(m, word, executeAddr)

	case word&0x0C000000 == 0x04000000: // single data transfer (LDR/STR word/byte)
		executeSingleTransfer(m, word, executeAddr)

	case word&0x0E000000 == 0x08000000: // block data transfer (LDM/STM)
		executeBlockTransfer(m, word, executeAddr)

	case word&0x0E000000 == 0x0A000000: // branch, optionally with link
		executeBranch(m, word, executeAddr)

	case word&0x0E000000 == 0x0C000000: // coprocessor data transfer (LDC/STC)
		executeCoprocTransfer(m, word, executeAddr)

	case word&0x0F000010 == 0x0E000000: // coprocessor data operation (CDP)
		executeCDP(m, word, executeAddr)

	case word&0x0F000010 == 0x0E000010: // coprocessor register transfer (MRC/MCR)
		executeCoprocRegTransfer(m, word, executeAddr)

	case word&0x0F000000 == 0x0F000000: // software interrupt
		executeSWI(m, word, executeAddr)

	default:
		m.Raise(ExceptionUndefined, executeAddr+InstructionSize)
	}
}

// writePC commits a branch-shaped write to R15: it sets the new PC and
// requests the pipeline reprime the next Step (§3 invariant: "a write to
// R[15] in execute stage flushes the pipeline").
func (m *Machine) writePC(addr uint32) {
	addr &^= Mask1Bit // clears bit 0 only; Thumb-interworking bit handled by BX
	m.Regs.PC = addr
	m.Regs.Set(PCRegister, addr)
	m.nextInstr = StateResume
}
