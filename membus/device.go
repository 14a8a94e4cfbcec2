package membus

import "github.com/lookbusy1344/arm710emu/ioext"

// DeviceBank is bank 8: a memory-mapped I/O façade delegated to the
// external I/O collaborator (§4.A, §6).
type DeviceBank struct {
	io ioext.IO
}

// NewDeviceBank wraps an I/O collaborator as bank 8.
func NewDeviceBank(io ioext.IO) *DeviceBank {
	return &DeviceBank{io: io}
}

func (d *DeviceBank) ReadWord(offset uint32) uint32 {
	return d.io.Read(offset)
}

func (d *DeviceBank) WriteWord(offset uint32, value uint32) {
	d.io.Write(offset, value)
}
