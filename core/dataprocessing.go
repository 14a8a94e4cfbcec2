package core

// evalOperand2 decodes the 12-bit operand2 field of a data-processing
// instruction: an 8-bit immediate rotated right by an even amount, or a
// register optionally passed through the barrel shifter (§4.F).
func evalOperand2(m *Machine, word uint32) (value uint32, carryOut bool) {
	if word&(1<<25) != 0 {
		imm := word & Mask8Bit
		rotate := ((word >> 8) & Mask4Bit) * 2
		if rotate == 0 {
			return imm, m.CPSR.C
		}
		value = imm>>rotate | imm<<(32-rotate)
		return value, value&SignBitMask != 0
	}

	rm := int(word & Mask4Bit)
	shiftType := ShiftType((word >> 5) & Mask2Bit)
	regForm := word&(1<<4) != 0

	var amount int
	var src ShiftAmountSource
	if regForm {
		rs := int((word >> 8) & Mask4Bit)
		amount = int(m.Regs.Get(rs) & Mask8Bit)
		src = ShiftAmountRegister
		m.Bus.AddInternalCycles(1) // register-specified shift amount (§4.F)
	} else {
		amount = int((word >> 7) & Mask5Bit)
		src = ShiftAmountImmediate
	}

	rmVal := m.Regs.Get(rm)
	return Shift(rmVal, amount, shiftType, src, m.CPSR.C)
}

func boolToBit(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// addWithFlags computes a+b+carryIn with carry/overflow derived the same
// way real hardware does: widen to 64 bits for the carry, and use the
// two-operand sign-comparison formula against the truncated result for
// overflow (valid for a 3-input adder as well as a plain 2-input one).
func addWithFlags(a, b, carryIn uint32) (result uint32, carry, overflow bool) {
	sum := uint64(a) + uint64(b) + uint64(carryIn)
	result = uint32(sum)
	carry = sum>>32 != 0
	overflow = AddOverflow(a, b, result)
	return
}

// executeDataProcessingOrPSR handles the 0x00-0x3F dispatch range: the
// sixteen data-processing opcodes, and the PSR-transfer (MRS/MSR) encoding
// that reuses the TST/TEQ/CMP/CMN opcode slots when S is clear (§4.E).
func executeDataProcessingOrPSR(m *Machine, word uint32, executeAddr uint32) {
	opcode := (word >> 21) & Mask4Bit
	s := word&(1<<20) != 0
	rn := int((word >> 16) & Mask4Bit)
	rd := int((word >> 12) & Mask4Bit)

	if opcode >= 8 && opcode <= 11 && !s {
		executePSRTransfer(m, word)
		return
	}

	op2, shiftCarry := evalOperand2(m, word)
	rnVal := m.Regs.Get(rn)

	var result uint32
	var carry, overflow bool
	logical := false
	writesResult := true

	switch opcode {
	case 0: // AND
		result, logical = rnVal&op2, true
	case 1: // EOR
		result, logical = rnVal^op2, true
	case 2: // SUB
		result, carry, overflow = addWithFlags(rnVal, ^op2, 1)
	case 3: // RSB
		result, carry, overflow = addWithFlags(op2, ^rnVal, 1)
	case 4: // ADD
		result, carry, overflow = addWithFlags(rnVal, op2, 0)
	case 5: // ADC
		result, carry, overflow = addWithFlags(rnVal, op2, boolToBit(m.CPSR.C))
	case 6: // SBC
		result, carry, overflow = addWithFlags(rnVal, ^op2, boolToBit(m.CPSR.C))
	case 7: // RSC
		result, carry, overflow = addWithFlags(op2, ^rnVal, boolToBit(m.CPSR.C))
	case 8: // TST
		result, logical, writesResult = rnVal&op2, true, false
	case 9: // TEQ
		result, logical, writesResult = rnVal^op2, true, false
	case 10: // CMP
		result, carry, overflow = addWithFlags(rnVal, ^op2, 1)
		writesResult = false
	case 11: // CMN
		result, carry, overflow = addWithFlags(rnVal, op2, 0)
		writesResult = false
	case 12: // ORR
		result, logical = rnVal|op2, true
	case 13: // MOV
		result, logical = op2, true
	case 14: // BIC
		result, logical = rnVal&^op2, true
	case 15: // MVN
		result, logical = ^op2, true
	}

	if writesResult {
		old := m.Regs.Get(rd)
		m.Regs.Set(rd, result)
		if m.Trace != nil {
			m.Trace.Register(rd, old, result)
		}
	}

	if s {
		if rd == PCRegister && writesResult {
			m.restoreCPSR(*m.currentSPSR())
		} else if logical {
			UpdateNZC(&m.CPSR, result, shiftCarry)
		} else {
			UpdateNZCV(&m.CPSR, result, carry, overflow)
		}
		if m.Trace != nil {
			m.Trace.FlagChange(m.CPSR)
		}
	}

	if writesResult && rd == PCRegister {
		m.writePC(result)
	}
}

// executePSRTransfer implements MRS (read CPSR/SPSR into a register) and
// MSR (write CPSR/SPSR flags and/or control fields from a register or
// rotated immediate), per §4.H.
func executePSRTransfer(m *Machine, word uint32) {
	toSPSR := word&(1<<22) != 0
	isMSR := word&(1<<21) != 0

	if !isMSR {
		rd := int((word >> 12) & Mask4Bit)
		var v uint32
		if toSPSR {
			v = m.currentSPSR().ToUint32()
		} else {
			v = m.CPSR.ToUint32()
		}
		m.Regs.Set(rd, v)
		return
	}

	fieldMask := uint32(0)
	if word&(1<<19) != 0 {
		fieldMask |= FieldFlags
	}
	if word&(1<<16) != 0 {
		fieldMask |= FieldControl
	}

	var src uint32
	if word&(1<<25) != 0 {
		imm := word & Mask8Bit
		rotate := ((word >> 8) & Mask4Bit) * 2
		if rotate == 0 {
			src = imm
		} else {
			src = imm>>rotate | imm<<(32-rotate)
		}
	} else {
		rm := int(word & Mask4Bit)
		src = m.Regs.Get(rm)
	}

	if toSPSR {
		ApplyMSR(m.currentSPSR(), src, fieldMask)
		return
	}

	oldMode := m.CPSR.Mode
	ApplyMSR(&m.CPSR, src, fieldMask)
	if fieldMask&FieldControl != 0 && m.CPSR.Mode != oldMode {
		m.Regs.SwitchBank(oldMode, m.CPSR.Mode)
	}
	if m.Trace != nil {
		m.Trace.FlagChange(m.CPSR)
	}
}
