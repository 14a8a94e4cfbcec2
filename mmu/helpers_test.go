package mmu

// fakePhys is a minimal PhysReader backed by a sparse word map, for
// exercising the page-table walker without a real membus.
type fakePhys struct {
	words map[uint32]uint32
}

func newFakePhys() *fakePhys {
	return &fakePhys{words: make(map[uint32]uint32)}
}

func (p *fakePhys) ReadPhysWord(addr uint32) uint32 {
	return p.words[addr&^3]
}
