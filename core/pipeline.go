package core

// ThumbDecoder is the plug-in point §9 calls for when the T bit is set: the
// pipeline routes a fetched 16-bit half-word to it instead of dispatching
// directly. Thumb decoding itself is out of scope for this interpreter.
type ThumbDecoder interface {
	Decode(halfword uint16) ThumbResult
}

// ThumbResult is what a ThumbDecoder reports back to the pipeline.
type ThumbResult struct {
	Undefined   bool
	BranchTaken bool
	ARMWord     uint32 // valid when neither Undefined nor BranchTaken
}

// primePipeline reloads the decode and fetch slots from the current PC,
// matching a reset or a taken branch/exception (§4.E "RESUME"/"PRIMED");
// the following Step fetches the third word.
func (m *Machine) primePipeline() {
	pc := m.Regs.Get(PCRegister) - PipelineOffset2(m.Regs.InstructionSize())
	m.Regs.PC = pc

	isize := m.Regs.InstructionSize()
	altMode := isize == AltInstructionSize

	w0, a0 := m.Bus.FetchInstruction(pc, false, m.userMode(), altMode)
	w1, a1 := m.Bus.FetchInstruction(pc+isize, true, m.userMode(), altMode)

	m.decoded, m.decodedAbort = w0, a0
	m.fetched, m.fetchedAbort = w1, a1
	m.nextInstr = StateSeq
}

// Step advances the pipeline by exactly one instruction slot: it shifts
// fetched into decoded, fetches a new word, polls pending exceptions, and
// executes the instruction that has just reached the execute stage (§4.E).
// Regs.PC stays at the executing instruction's address until execution
// finishes, then advances by one instruction unless the PC was redirected.
func (m *Machine) Step() {
	if m.nextInstr == StatePrimed || m.nextInstr == StateResume {
		m.primePipeline()
	}

	isize := m.Regs.InstructionSize()
	pcInced := m.nextInstr == StatePCIncedSeq || m.nextInstr == StatePCIncedNonSeq
	seq := m.nextInstr == StateSeq || m.nextInstr == StatePCIncedSeq

	toExecute := m.decoded
	executeAbort := m.decodedAbort
	executeAddr := m.Regs.PC

	m.decoded, m.decodedAbort = m.fetched, m.fetchedAbort

	fetchAddr := m.Regs.Get(PCRegister) // executeAddr + 2*isize
	word, abort := m.Bus.FetchInstruction(fetchAddr, seq, m.userMode(), isize == AltInstructionSize)
	m.fetched, m.fetchedAbort = word, abort
	m.nextInstr = StateSeq

	if m.pollExceptions() {
		return
	}

	if executeAbort {
		m.Raise(ExceptionPrefetchAbort, executeAddr)
		return
	}

	if m.Trace != nil {
		m.Trace.Instruction(executeAddr, toExecute)
	}
	m.Coverage.record(executeAddr)
	m.Log.record(executeAddr)

	if m.CPSR.T {
		m.executeThumb(toExecute, executeAddr)
	} else {
		m.executeARM(toExecute, executeAddr)
	}
	if m.nextInstr == StateSeq && !pcInced {
		m.Regs.PC += isize
	}
	m.Retired++
	m.Stats.recordRetired()
}

func (m *Machine) executeThumb(word uint32, executeAddr uint32) {
	if m.Thumb == nil {
		m.Raise(ExceptionUndefined, executeAddr+InstructionSize)
		return
	}
	res := m.Thumb.Decode(uint16(word))
	switch {
	case res.Undefined:
		m.Raise(ExceptionUndefined, executeAddr+InstructionSize)
	case res.BranchTaken:
		m.nextInstr = StateResume
	default:
		m.executeARM(res.ARMWord, executeAddr)
	}
}

func (m *Machine) executeARM(word uint32, executeAddr uint32) {
	cond := ConditionCode(word >> 28 & Mask4Bit)
	if !EvaluateCondition(m.CPSR, cond) {
		return
	}
	Dispatch(m, word, executeAddr)
}

// pollExceptions implements the priority poll at the top of §4.E: reset is
// handled outside Step (via Reset); FIQ then IRQ are taken here, provided
// their CPSR mask bit is clear. Data/prefetch abort and undefined/SWI are
// raised directly from the execute path instead of being polled.
func (m *Machine) pollExceptions() bool {
	linkBase := m.Regs.PC
	if m.fiqLine && !m.CPSR.F {
		m.Raise(ExceptionFIQ, linkBase)
		return true
	}
	if m.irqLine && !m.CPSR.I {
		m.Raise(ExceptionIRQ, linkBase)
		return true
	}
	return false
}
