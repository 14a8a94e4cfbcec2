package core

// Bus is the façade the pipeline and load/store unit use for every memory
// access (§4.D). Every word-granularity access is routed through the MMU;
// half-word and byte access is synthesised on top by the implementation.
// abort reports whether the access faulted; the caller is responsible for
// the abort-latching/late-abort timing described in §4.D/§5 — Bus itself
// is a stateless façade over the MMU and physical banks plus cycle
// counters.
type Bus interface {
	// FetchInstruction performs an instruction-fetch cycle (always
	// word-granularity for 4-byte instructions, or a constructed 32-bit
	// word from two halfwords in alternate mode). seq selects a
	// sequential vs. non-sequential bus cycle for counter purposes.
	FetchInstruction(addr uint32, seq bool, user bool, altMode bool) (word uint32, abort bool)

	ReadWord(addr uint32, seq bool, user bool) (value uint32, abort bool)
	WriteWord(addr uint32, value uint32, seq bool, user bool) (abort bool)

	ReadByte(addr uint32, seq bool, user bool, signExtend bool) (value uint32, abort bool)
	WriteByte(addr uint32, value uint32, seq bool, user bool) (abort bool)

	ReadHalf(addr uint32, seq bool, user bool, signExtend bool) (value uint32, abort bool)
	WriteHalf(addr uint32, value uint32, seq bool, user bool) (abort bool)

	// Cycle counters (§4.D), exposed for statistics/testing.
	Cycles() (sequential, nonSequential, internal, coprocessor uint64)
	AddInternalCycles(n uint64)

	// BigEndian reports the current endian selection used to synthesise
	// half-word/byte access over word-granularity banks (§4.D).
	BigEndian() bool
}
