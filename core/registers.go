package core

// bankIndex selects one of the six register banks that own R13/R14 (and, for
// FIQ, R8-R12 too). USR and SYS share a bank, matching real ARM hardware.
type bankIndex int

const (
	bankUSR bankIndex = iota // shared with SYS
	bankFIQ
	bankIRQ
	bankSVC
	bankABT
	bankUND
	numBanks
)

func bankFor(m Mode) bankIndex {
	switch m {
	case ModeFIQ:
		return bankFIQ
	case ModeIRQ:
		return bankIRQ
	case ModeSVC:
		return bankSVC
	case ModeABT:
		return bankABT
	case ModeUND:
		return bankUND
	default: // USR, SYS
		return bankUSR
	}
}

// Registers holds the complete banked general-purpose register file plus the
// visible PC. R[15] is never stored directly in R; callers go through
// Get/Set so the pipeline-offset formatting (§3) is applied
// uniformly.
type Registers struct {
	R  [15]uint32 // R0-R14, currently-visible values
	PC uint32     // raw fetch address of the currently executing instruction

	fiqR8_12    [5]uint32 // R8-R12 private to FIQ mode
	sharedR8_12 [5]uint32 // R8-R12 shared by every other mode

	bankR13 [numBanks]uint32
	bankR14 [numBanks]uint32

	inFIQ bool // true while the visible R8-R12 are the FIQ-private bank

	isize uint32 // 4 (ARM) or 2 (alternate mode); drives the PC pipeline-offset read
}

// NewRegisters returns a zeroed register file in standard (4-byte) mode.
func NewRegisters() *Registers {
	return &Registers{isize: InstructionSize}
}

// Reset zeroes every register and bank.
func (r *Registers) Reset() {
	*r = Registers{isize: InstructionSize}
}

// SetInstructionSize selects 4 (ARM) or 2 (alternate-mode halfword) isize.
func (r *Registers) SetInstructionSize(isize uint32) {
	r.isize = isize
}

// InstructionSize returns the current isize.
func (r *Registers) InstructionSize() uint32 {
	return r.isize
}

// Get returns the visible value of register reg (0-15). R15 reads as
// PC + 2*isize per §3.
func (r *Registers) Get(reg int) uint32 {
	if reg == PCRegister {
		return r.PC + PipelineOffset2(r.isize)
	}
	return r.R[reg]
}

// PipelineOffset2 computes 2*isize, the visible PC lead over the fetch address.
func PipelineOffset2(isize uint32) uint32 {
	return 2 * isize
}

// Set writes the visible value of register reg (0-15). Writing R15 sets PC
// directly; pipeline-flush semantics (§3 invariant) are applied by the
// pipeline layer, which calls Set and then reprimes.
func (r *Registers) Set(reg int, value uint32) {
	if reg == PCRegister {
		r.PC = value
		return
	}
	r.R[reg] = value
}

// SwitchBank performs the transactional mode switch described in §4.H: save
// R13/R14 (and, for FIQ, R8-R12) of the outgoing mode into its bank, then
// load the incoming mode's bank into the visible registers. The invariant
// from §3 ("visible R[i] for i in 8..14 are the current mode's bank") holds
// before and after every call.
func (r *Registers) SwitchBank(from, to Mode) {
	if from == to {
		return
	}
	fromBank := bankFor(from)
	toBank := bankFor(to)

	r.bankR13[fromBank] = r.R[SP]
	r.bankR14[fromBank] = r.R[LR]

	enteringFIQ := toBank == bankFIQ && !r.inFIQ
	leavingFIQ := fromBank == bankFIQ && toBank != bankFIQ

	switch {
	case enteringFIQ:
		copy(r.sharedR8_12[:], r.R[R8:R8+5])
		copy(r.R[R8:R8+5], r.fiqR8_12[:])
		r.inFIQ = true
	case leavingFIQ:
		copy(r.fiqR8_12[:], r.R[R8:R8+5])
		copy(r.R[R8:R8+5], r.sharedR8_12[:])
		r.inFIQ = false
	}

	r.R[SP] = r.bankR13[toBank]
	r.R[LR] = r.bankR14[toBank]
}
