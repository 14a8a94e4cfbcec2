package membus

import "testing"

type stubBank struct {
	words map[uint32]uint32
}

func newStubBank() *stubBank { return &stubBank{words: make(map[uint32]uint32)} }

func (s *stubBank) ReadWord(offset uint32) uint32 { return s.words[offset] }
func (s *stubBank) WriteWord(offset uint32, value uint32) { s.words[offset] = value }

func TestBanksUnmappedReadsAllOnes(t *testing.T) {
	b := NewBanks()
	if got := b.ReadPhysWord(0x50000000); got != 0xFFFFFFFF {
		t.Errorf("unmapped read = %#x, want 0xFFFFFFFF", got)
	}
}

func TestBanksUnmappedWriteDiscarded(t *testing.T) {
	b := NewBanks()
	b.WritePhysWord(0x50000000, 0xDEADBEEF) // must not panic
}

func TestBanksMountRoutesByTopNibble(t *testing.T) {
	b := NewBanks()
	bank3 := newStubBank()
	b.Mount(3, bank3)

	b.WritePhysWord(0x30001000, 0x12345678)
	if got := b.ReadPhysWord(0x30001000); got != 0x12345678 {
		t.Errorf("round trip through bank 3 = %#x, want 0x12345678", got)
	}
	if got := b.ReadPhysWord(0x40001000); got != 0xFFFFFFFF {
		t.Errorf("bank 4 (unmounted) = %#x, want 0xFFFFFFFF", got)
	}
}

func TestBanksMountOutOfRangeIgnored(t *testing.T) {
	b := NewBanks()
	b.Mount(16, newStubBank())  // one past the top nibble's range
	b.Mount(-1, newStubBank())
	if got := b.ReadPhysWord(0); got != 0xFFFFFFFF {
		t.Errorf("bank 0 after out-of-range mounts = %#x, want unaffected 0xFFFFFFFF", got)
	}
}
