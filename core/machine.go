package core

import "github.com/lookbusy1344/arm710emu/coproc"

// Machine is the complete per-core architectural state: banked registers,
// CPSR/SPSR, pipeline slots, and the bus/coprocessor collaborators it drives
// synchronously (§3, §5). One Machine owns the whole of its state; nothing
// is shared across machines.
type Machine struct {
	Regs *Registers
	CPSR PSR
	SPSR [numBanks]PSR

	Bus    Bus
	Coproc *coproc.Bus

	Thumb ThumbDecoder // nil: a set T-bit always raises undefined instruction

	fetched, decoded           uint32
	fetchedAbort, decodedAbort bool

	nextInstr NextInstrState

	irqLine, fiqLine bool

	Retired uint64

	Trace *Tracer // nil disables tracing

	// LastException records the most recently vectored exception, for
	// external inspection tools; it is never consulted by emulation logic.
	LastException    ExceptionKind
	LastExceptionSet bool

	// Coverage, Stats and Log are optional diagnostics collaborators; all
	// three are nil-safe and no-ops unless constructed and enabled by the
	// caller (§A.2/§C).
	Coverage *CodeCoverage
	Stats    *PerformanceStatistics
	Log      *InstructionLog
}

// NewMachine wires a bus and coprocessor dispatch table into a freshly
// reset machine.
func NewMachine(bus Bus, cp *coproc.Bus) *Machine {
	m := &Machine{
		Regs:   NewRegisters(),
		Bus:    bus,
		Coproc: cp,
	}
	m.Reset()
	return m
}

// Reset implements the §3 lifecycle reset: zero registers, supervisor mode
// with interrupts masked, PC at the reset vector, pipeline primed on the
// next Step.
func (m *Machine) Reset() {
	m.Regs.Reset()
	m.CPSR = PSR{Mode: ModeSVC, I: true, F: true}
	for i := range m.SPSR {
		m.SPSR[i] = PSR{}
	}
	m.Regs.Set(PCRegister, VectorReset)
	m.Regs.PC = VectorReset
	m.fetchedAbort, m.decodedAbort = false, false
	m.irqLine, m.fiqLine = false, false
	m.Retired = 0
	m.nextInstr = StatePrimed
}

// SetIRQ / SetFIQ are called by the I/O collaborator between ticks (§5, §6);
// the CPU samples them at the top of the next Step.
func (m *Machine) SetIRQ(asserted bool) { m.irqLine = asserted }
func (m *Machine) SetFIQ(asserted bool) { m.fiqLine = asserted }

// userMode reports whether the current CPSR mode is unprivileged, gating
// MMU permission checks and LDM/STM user-bank transfers.
func (m *Machine) userMode() bool { return m.CPSR.Mode == ModeUSR }

func (m *Machine) setMode(mode Mode) {
	from := m.CPSR.Mode
	if from == mode {
		m.CPSR.Mode = mode
		return
	}
	m.Regs.SwitchBank(from, mode)
	m.CPSR.Mode = mode
}

func (m *Machine) currentSPSR() *PSR { return &m.SPSR[bankFor(m.CPSR.Mode)] }

// restoreCPSR applies a full CPSR value restored from an SPSR (the
// MOVS/SUBS-to-PC and LDM^ exception-return paths) and switches register
// banks to match, mirroring what setMode does for Raise's forward direction.
func (m *Machine) restoreCPSR(saved PSR) {
	from := m.CPSR.Mode
	m.CPSR = saved
	if from != saved.Mode {
		m.Regs.SwitchBank(from, saved.Mode)
	}
}

// noteUndefined routes a diagnostic-only undefined-instruction sub-case
// (§4.F, e.g. PC as a multiply destination) to the trace channel without
// vectoring: the caller has already computed a defined fallback result.
func (m *Machine) noteUndefined(reason string) {
	if m.Trace != nil {
		m.Trace.Undefined(reason)
	}
}
