package core

// executeSingleTransfer implements LDR/STR word and byte (§4.G single
// transfer), with immediate or shifted-register offset, pre/post indexing,
// and writeback.
func executeSingleTransfer(m *Machine, word uint32, executeAddr uint32) {
	p := word&(1<<24) != 0
	u := word&(1<<23) != 0
	b := word&(1<<22) != 0
	w := word&(1<<21) != 0
	l := word&(1<<20) != 0
	rn := int((word >> 16) & Mask4Bit)
	rd := int((word >> 12) & Mask4Bit)

	var offset uint32
	if word&(1<<25) != 0 {
		rm := int(word & Mask4Bit)
		shiftType := ShiftType((word >> 5) & Mask2Bit)
		amount := int((word >> 7) & Mask5Bit)
		offset, _ = Shift(m.Regs.Get(rm), amount, shiftType, ShiftAmountImmediate, m.CPSR.C)
	} else {
		offset = word & Mask12Bit
	}

	base := m.Regs.Get(rn)
	var indexed uint32
	if u {
		indexed = base + offset
	} else {
		indexed = base - offset
	}

	effective := base
	if p {
		effective = indexed
	}

	// Post-indexed with W set selects the unprivileged (user-mode) access
	// variant (LDRT/STRT); pre-indexed W is a plain writeback request.
	forceUser := !p && w
	accessUser := forceUser || m.userMode()
	doWriteback := !p || w

	if l {
		m.executeLoad(b, rd, rn, effective, indexed, doWriteback, accessUser, executeAddr)
	} else {
		m.executeStore(b, rd, rn, effective, indexed, doWriteback, accessUser, executeAddr)
	}
}

func (m *Machine) executeLoad(byteAccess bool, rd, rn int, effective, writebackVal uint32, doWriteback, accessUser bool, executeAddr uint32) {
	var value uint32
	var abort bool
	if byteAccess {
		value, abort = m.Bus.ReadByte(effective, true, accessUser, false)
	} else {
		word32, a := m.Bus.ReadWord(effective, true, accessUser)
		abort = a
		rot := (effective & Mask2Bit) * 8
		value = word32>>rot | word32<<(32-rot)
	}
	if abort {
		m.Raise(ExceptionDataAbort, executeAddr)
		return
	}

	if doWriteback && rd != rn {
		m.Regs.Set(rn, writebackVal)
	}
	old := m.Regs.Get(rd)
	m.Regs.Set(rd, value)
	if m.Trace != nil {
		m.Trace.Register(rd, old, value)
	}
	if rd == PCRegister {
		m.writePC(value)
	}
}

func (m *Machine) executeStore(byteAccess bool, rd, rn int, effective, writebackVal uint32, doWriteback, accessUser bool, executeAddr uint32) {
	value := m.Regs.Get(rd)

	var abort bool
	if byteAccess {
		abort = m.Bus.WriteByte(effective, value, true, accessUser)
	} else {
		abort = m.Bus.WriteWord(effective, value, true, accessUser)
	}
	if abort {
		m.Raise(ExceptionDataAbort, executeAddr)
		return
	}

	if doWriteback && rd != rn {
		m.Regs.Set(rn, writebackVal)
	}
}

// executeHalfwordTransfer implements the secondary family sharing the 0x00
// top-nibble space: LDRH/STRH/LDRSB/LDRSH, plus their register/immediate
// offset and pre/post/writeback variants (§4.E, §4.G.6).
func executeHalfwordTransfer(m *Machine, word uint32, executeAddr uint32) {
	p := word&(1<<24) != 0
	u := word&(1<<23) != 0
	immForm := word&(1<<22) != 0
	w := word&(1<<21) != 0
	l := word&(1<<20) != 0
	rn := int((word >> 16) & Mask4Bit)
	rd := int((word >> 12) & Mask4Bit)
	sh := (word >> 5) & Mask2Bit // 01 = halfword, 10 = signed byte, 11 = signed halfword

	var offset uint32
	if immForm {
		offset = ((word>>8)&Mask4Bit)<<4 | (word & Mask4Bit)
	} else {
		rm := int(word & Mask4Bit)
		offset = m.Regs.Get(rm)
	}

	base := m.Regs.Get(rn)
	var indexed uint32
	if u {
		indexed = base + offset
	} else {
		indexed = base - offset
	}
	effective := base
	if p {
		effective = indexed
	}
	doWriteback := !p || w

	if l {
		var value uint32
		var abort bool
		switch sh {
		case 1: // unsigned halfword
			value, abort = m.Bus.ReadHalf(effective, true, m.userMode(), false)
		case 2: // signed byte
			value, abort = m.Bus.ReadByte(effective, true, m.userMode(), true)
		case 3: // signed halfword
			value, abort = m.Bus.ReadHalf(effective, true, m.userMode(), true)
		}
		if abort {
			m.Raise(ExceptionDataAbort, executeAddr)
			return
		}
		if doWriteback && rd != rn {
			m.Regs.Set(rn, indexed)
		}
		old := m.Regs.Get(rd)
		m.Regs.Set(rd, value)
		if m.Trace != nil {
			m.Trace.Register(rd, old, value)
		}
		if rd == PCRegister {
			m.writePC(value)
		}
		return
	}

	// Store: only the unsigned-halfword form (sh==1) is architecturally
	// defined for STRH; sh 2/3 are load-only encodings.
	value := m.Regs.Get(rd)
	abort := m.Bus.WriteHalf(effective, value, true, m.userMode())
	if abort {
		m.Raise(ExceptionDataAbort, executeAddr)
		return
	}
	if doWriteback && rd != rn {
		m.Regs.Set(rn, indexed)
	}
}
