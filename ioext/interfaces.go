// Package ioext defines the narrow, synchronous interfaces the core hands
// to its external collaborators (§1 "Out of scope", §6): the device I/O
// façade, the framebuffer, and the two interrupt signal lines the bridge
// may toggle between interpreter ticks.
package ioext

// IO is a word-granularity (read, write) pair keyed on an address inside
// device bank 8 (§6). The bus façade calls these synchronously from the
// same host control flow that drives the interpreter; the collaborator
// must never call in from another host thread (§5).
type IO interface {
	Read(addr uint32) uint32
	Write(addr uint32, value uint32)
}

// Framebuffer receives a side-effect callback for every DRAM write below
// the published lcd_limit (§6), plus palette/geometry reconfiguration
// triggered by writes to the I/O region.
type Framebuffer interface {
	Write(addr uint32, value uint32)
	SetEnabled(enabled bool)
	SetGeometry(width, height, depthBits int)
}

// SignalLines lets an I/O collaborator raise or lower IRQ/FIQ between
// interpreter ticks (§6); the CPU takes the interrupt at the next fetch.
type SignalLines interface {
	SetIRQ(asserted bool)
	SetFIQ(asserted bool)
}
