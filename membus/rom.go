package membus

import (
	"fmt"
	"os"
)

// ROMBank is bank 0: a read-mostly raw little-endian byte image, one file
// per ROM bank, loaded verbatim at the bank base address (§6). Writes are
// silently discarded, matching real ROM.
type ROMBank struct {
	data []byte
}

// NewROMBank returns an empty (all-zero) ROM bank of the given size.
func NewROMBank(size uint32) *ROMBank {
	return &ROMBank{data: make([]byte, size)}
}

// LoadROMFile loads a raw little-endian image into a new ROM bank. The
// loader reads until EOF (§6); size is the bank's fixed capacity, the file
// must fit within it, and the rest of the bank reads as zero.
func LoadROMFile(path string, size uint32) (*ROMBank, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- caller-specified ROM path
	if err != nil {
		return nil, fmt.Errorf("failed to load ROM %s: %w", path, err)
	}
	if uint32(len(data)) > size {
		return nil, fmt.Errorf("ROM image %s (%d bytes) exceeds bank size %d", path, len(data), size)
	}
	bank := &ROMBank{data: make([]byte, size)}
	copy(bank.data, data)
	return bank, nil
}

func (r *ROMBank) ReadWord(offset uint32) uint32 {
	if int(offset)+4 > len(r.data) {
		return 0xFFFFFFFF
	}
	return uint32(r.data[offset]) |
		uint32(r.data[offset+1])<<8 |
		uint32(r.data[offset+2])<<16 |
		uint32(r.data[offset+3])<<24
}

// WriteWord discards writes: ROM is read-mostly (§4.A).
func (r *ROMBank) WriteWord(offset uint32, value uint32) {}
