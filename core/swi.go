package core

// executeSWI implements the software-interrupt dispatch range (§4.E
// 0xF0-0xFF): it always vectors, regardless of the 24-bit comment field
// (the guest code is expected to encode any argument there).
func executeSWI(m *Machine, _ uint32, executeAddr uint32) {
	m.Raise(ExceptionSWI, executeAddr+InstructionSize)
}
