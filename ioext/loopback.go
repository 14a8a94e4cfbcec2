package ioext

// NullIO is a no-op IO collaborator: reads return zero, writes are
// discarded. It exists for bus/core tests that don't exercise device bank 8.
type NullIO struct{}

func (NullIO) Read(addr uint32) uint32        { return 0 }
func (NullIO) Write(addr uint32, value uint32) {}

// NullFramebuffer is a no-op framebuffer collaborator for the same purpose.
type NullFramebuffer struct{}

func (NullFramebuffer) Write(addr uint32, value uint32)          {}
func (NullFramebuffer) SetEnabled(enabled bool)                  {}
func (NullFramebuffer) SetGeometry(width, height, depthBits int) {}

// RecordingIO is a test double that remembers every access, useful for
// asserting the bus façade called through to the collaborator.
type RecordingIO struct {
	Reads  []uint32
	Writes map[uint32]uint32
}

// NewRecordingIO returns a ready-to-use RecordingIO.
func NewRecordingIO() *RecordingIO {
	return &RecordingIO{Writes: make(map[uint32]uint32)}
}

func (r *RecordingIO) Read(addr uint32) uint32 {
	r.Reads = append(r.Reads, addr)
	return r.Writes[addr]
}

func (r *RecordingIO) Write(addr uint32, value uint32) {
	r.Writes[addr] = value
}
