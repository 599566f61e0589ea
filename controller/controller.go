// Package controller implements the NES-style joypad register: a single
// memory-mapped byte per pad that shifts out button state one bit per
// read, latched by a strobe bit written by the CPU. Grounded on
// SPEC_FULL.md §6 and the original joypad device this was ported from.
package controller

import "github.com/jmchacon/nes6502/bus"

// Button is a bit in the eight button pressed-mask, MSB to LSB in the
// shift-register read order RIGHT, LEFT, DOWN, UP, START, SELECT, B, A.
type Button uint8

const (
	A Button = 1 << iota
	B
	Select
	Start
	Up
	Down
	Left
	Right
)

// Controller is one memory-mapped joypad register.
type Controller struct {
	addr uint16
	mem  []uint8

	strobe bool
	// cursor is the button currently pointed at by the shift register.
	// Zero means the register is exhausted and every further read
	// returns 1, matching the original device's empty-mask behavior.
	cursor Button
	status Button
}

// New returns a controller register mapped at addr (0x4016 or 0x4017).
func New(addr uint16) *Controller {
	return &Controller{addr: addr, cursor: A}
}

// Press marks button as held down.
func (c *Controller) Press(button Button) {
	c.status |= button
}

// Release marks button as released.
func (c *Controller) Release(button Button) {
	c.status &^= button
}

// Mapping implements bus.Device.
func (c *Controller) Mapping() bus.AddressRange {
	return bus.AddressRange{Lo: c.addr, Hi: c.addr + 1}
}

// Bind implements bus.Device.
func (c *Controller) Bind(mem []uint8) {
	c.mem = mem
}

// OnRead implements bus.Device. The CPU is collecting the next bit of the
// shift register: report whether the current button is held, then, unless
// strobe is latched on, advance the cursor one position toward Right. Once
// the cursor walks off the end of the eight buttons it stays exhausted and
// every further read reports 1, matching the original hardware's
// open-bus-like behavior at the end of the sequence.
func (c *Controller) OnRead(addr uint16) {
	if c.cursor == 0 {
		c.mem[0] = 1
		return
	}
	if c.status&c.cursor != 0 {
		c.mem[0] = 1
	} else {
		c.mem[0] = 0
	}
	if !c.strobe {
		c.cursor <<= 1
		if c.cursor > Right {
			c.cursor = 0
		}
	}
}

// OnWrite implements bus.Device. The CPU is latching the strobe bit; while
// strobe is held on, every read reports button A and the cursor stays
// pinned there, reset the instant strobe goes on.
func (c *Controller) OnWrite(addr uint16, val uint8) {
	c.strobe = val&0x01 != 0
	if c.strobe {
		c.cursor = A
	}
}
