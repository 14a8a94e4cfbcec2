package core

// Flag derivation helpers for data-processing results (§4.F). Grounded on
// the teacher's vm/flags.go arithmetic-flag helpers.

// UpdateNZ sets N and Z from a result value.
func UpdateNZ(p *PSR, result uint32) {
	p.N = result&SignBitMask != 0
	p.Z = result == 0
}

// UpdateNZC sets N, Z and C.
func UpdateNZC(p *PSR, result uint32, carry bool) {
	UpdateNZ(p, result)
	p.C = carry
}

// UpdateNZCV sets all four flags.
func UpdateNZCV(p *PSR, result uint32, carry, overflow bool) {
	UpdateNZ(p, result)
	p.C = carry
	p.V = overflow
}

// AddOverflow reports whether signed addition a+b overflowed.
func AddOverflow(a, b, result uint32) bool {
	aSign := a >> SignBitPos & Mask1Bit
	bSign := b >> SignBitPos & Mask1Bit
	rSign := result >> SignBitPos & Mask1Bit
	return aSign == bSign && aSign != rSign
}
