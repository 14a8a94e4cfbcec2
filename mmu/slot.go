package mmu

import "github.com/lookbusy1344/arm710emu/coproc"

// Slot15 returns the coprocessor-bus handler table that wires this MMU in
// at coprocessor slot 15, per §4.B/§4.C ("MMU is slot 15"). MRC/MCR opcodes
// follow the standard cp15 encoding: CRn in bits 19-16, CRm in bits 3-0.
func (m *MMU) Slot15() *coproc.Handlers {
	return &coproc.Handlers{
		MRC: func(opcode uint32) (uint32, error) {
			crn := int((opcode >> 16) & Mask4Bit)
			v, undefined := m.MRC(crn)
			if undefined {
				return 0, coproc.ErrUndefined
			}
			return v, nil
		},
		MCR: func(opcode uint32, value uint32) error {
			crn := int((opcode >> 16) & Mask4Bit)
			crm := int(opcode & Mask4Bit)
			if m.MCR(crn, crm, value) {
				return coproc.ErrUndefined
			}
			return nil
		},
	}
}
