// Package core implements the instruction interpreter: the banked register
// file, CPSR/SPSR machine, barrel shifter, ALU, load/store unit, three-stage
// pipeline and dispatch, and the exception controller.
package core

// Instruction encoding.
const (
	InstructionSize  = 4 // bytes, standard (ARM) mode
	AltInstructionSize = 2 // bytes, alternate (Thumb-style) mode
	PipelineOffset   = 2 * InstructionSize // PC reads as fetch-address + 2*isize

	SignBitPos  = 31
	SignBitMask = uint32(1) << SignBitPos

	Mask1Bit  = 0x1
	Mask2Bit  = 0x3
	Mask4Bit  = 0xF
	Mask5Bit  = 0x1F
	Mask8Bit  = 0xFF
	Mask12Bit = 0xFFF
	Mask24Bit = 0xFFFFFF
	Mask32Bit = 0xFFFFFFFF

	BitsInWord = 32
)

// Register numbers.
const (
	R0 = iota
	R1
	R2
	R3
	R4
	R5
	R6
	R7
	R8
	R9
	R10
	R11
	R12
	SP
	LR
	PCRegister
)

// CPSR mode bits (bits 4-0 of the PSR).
type Mode uint32

const (
	ModeUSR Mode = 0x10
	ModeFIQ Mode = 0x11
	ModeIRQ Mode = 0x12
	ModeSVC Mode = 0x13
	ModeABT Mode = 0x17
	ModeUND Mode = 0x1B
	ModeSYS Mode = 0x1F

	ModeMask = 0x1F
)

// Alternate (26-bit) mode values, embedded in the low 2 bits of R15 when the
// architecture variant has no distinct SPSR bank.
type Mode26 uint32

const (
	Mode26USR Mode26 = 0
	Mode26FIQ Mode26 = 1
	Mode26IRQ Mode26 = 2
	Mode26SVC Mode26 = 3
)

// CPSR bit positions.
const (
	CPSRBitN    = 31
	CPSRBitZ    = 30
	CPSRBitC    = 29
	CPSRBitV    = 28
	CPSRBitI    = 7
	CPSRBitF    = 6
	CPSRBitT    = 5
	CPSRModeLSB = 0
)

// Exception vector addresses (§4.I).
const (
	VectorReset          = 0x00
	VectorUndefined      = 0x04
	VectorSWI            = 0x08
	VectorPrefetchAbort   = 0x0C
	VectorDataAbort       = 0x10
	VectorAddressException = 0x14
	VectorIRQ            = 0x18
	VectorFIQ            = 0x1C
)

// ConditionCode is the top nibble of every ARM instruction word.
type ConditionCode int

const (
	CondEQ ConditionCode = iota
	CondNE
	CondCS
	CondCC
	CondMI
	CondPL
	CondVS
	CondVC
	CondHI
	CondLS
	CondGE
	CondLT
	CondGT
	CondLE
	CondAL
	CondNV
)

func (cc ConditionCode) String() string {
	names := []string{
		"EQ", "NE", "CS", "CC", "MI", "PL", "VS", "VC",
		"HI", "LS", "GE", "LT", "GT", "LE", "AL", "NV",
	}
	if cc >= 0 && int(cc) < len(names) {
		return names[cc]
	}
	return "??"
}

// NextInstrState drives how the pipeline advances on the next tick (§4.E).
type NextInstrState int

const (
	StateSeq NextInstrState = iota
	StateNonSeq
	StatePCIncedSeq
	StatePCIncedNonSeq
	StateResume
	StatePrimed
)

// CycleType classifies a bus transaction for the cycle counters (§4.D).
type CycleType int

const (
	CycleSequential CycleType = iota
	CycleNonSequential
	CycleInternal
	CycleCoprocessor
)
