package core

import "fmt"

// SafeUint32 converts a non-negative int to uint32, panicking on overflow or
// a negative input. Used at the handful of sites that convert a decoded
// bit-field or slice index into register/address arithmetic, where a
// silent wraparound would be a decode bug rather than guest behaviour.
func SafeUint32(v int) uint32 {
	if v < 0 {
		panic(fmt.Sprintf("core: negative value %d cannot convert to uint32", v))
	}
	if uint64(v) > uint64(Mask32Bit) {
		panic(fmt.Sprintf("core: value %d overflows uint32", v))
	}
	return uint32(v)
}

// SafeInt converts a uint32 to int, panicking on platforms where int is
// narrower than 32 bits and the value would not round-trip (never true on
// any supported host, but checked rather than assumed).
func SafeInt(v uint32) int {
	r := int(v)
	if uint32(r) != v {
		panic(fmt.Sprintf("core: value %d does not fit in int on this platform", v))
	}
	return r
}

// RegisterIndex validates a decoded 4-bit register field, panicking if the
// decoder produced something outside 0-15 (a decode bug, not guest input).
func RegisterIndex(field uint32) int {
	if field > PCRegister {
		panic(fmt.Sprintf("core: register field %d out of range", field))
	}
	return int(field)
}
