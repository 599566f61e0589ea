// Package cpu implements the MOS 6502 interpreter: instruction decoding,
// addressing-mode resolution, execution of every official opcode, flag
// updates, stack discipline, branching, and BRK/RTI/JSR/RTS control
// transfer. It deliberately does not model per-instruction cycle timing;
// see SPEC_FULL.md §1.
package cpu

import (
	"fmt"

	"github.com/jmchacon/nes6502/bus"
)

// Variant enumerates the 6502 cores this package can emulate. Grounded on
// the teacher's CPUType enum, trimmed to the single core this module
// implements: see DESIGN.md.
type Variant int

const (
	VariantUnimplemented Variant = iota
	// VariantNMOSRicoh is the Ricoh 2A03 used in the NES: an NMOS 6502
	// with BCD mode disabled. Since this package never implements BCD
	// mode (spec.md Non-goals), this is the only variant offered.
	VariantNMOSRicoh
	variantMax
)

// Status flag bits in P, per SPEC_FULL.md §3.
const (
	PNegative  = uint8(0x80)
	POverflow  = uint8(0x40)
	PUnused    = uint8(0x20) // Always set whenever P is observed externally.
	PBreak     = uint8(0x10)
	PDecimal   = uint8(0x08)
	PInterrupt = uint8(0x04)
	PZero      = uint8(0x02)
	PCarry     = uint8(0x01)

	stackPageHi = uint16(0x0100)
	initialSP   = uint8(0xFF)

	// noOperand is the sentinel effective address for Implicit and
	// Accumulator modes, matching the original source's
	// IMPLICIT_MODE_ADDR = u16::MAX.
	noOperand = uint16(0xFFFF)
)

// InvalidCPUState represents a programmer error constructing a Chip.
type InvalidCPUState struct {
	Reason string
}

// Error implements the error interface.
func (e InvalidCPUState) Error() string {
	return fmt.Sprintf("invalid CPU state: %s", e.Reason)
}

// State is a point-in-time snapshot of the register file, used by tests
// and debug tooling that shouldn't reach into Chip's internals.
type State struct {
	A, X, Y, SP uint8
	PC          uint16
	P           uint8
}

// Chip holds the complete state of one 6502 core.
type Chip struct {
	A, X, Y uint8
	SP      uint8
	PC      uint16
	P       uint8

	variant Variant
	halted  bool
}

// ChipDef configures a new Chip.
type ChipDef struct {
	// Variant selects the 6502 core to emulate.
	Variant Variant
}

// Init returns a freshly powered-on Chip. Matches SPEC_FULL.md §3's
// initial state: A=X=Y=0, SP=0xFF, PC=0 (overwritten by Reset), P holds
// Interrupt-Disable and Unused.
func Init(def *ChipDef) (*Chip, error) {
	if def.Variant <= VariantUnimplemented || def.Variant >= variantMax {
		return nil, InvalidCPUState{Reason: fmt.Sprintf("variant %d is invalid", def.Variant)}
	}
	c := &Chip{
		variant: def.Variant,
		SP:      initialSP,
		P:       PInterrupt | PUnused,
	}
	return c, nil
}

// State returns a snapshot of the register file.
func (c *Chip) State() State {
	return State{A: c.A, X: c.X, Y: c.Y, SP: c.SP, PC: c.PC, P: c.P}
}

// Halted reports whether a Run/Step has terminated on BRK since the last
// Reset.
func (c *Chip) Halted() bool {
	return c.halted
}

// Reset loads PC from the reset vector at bus.ResetVector. Called once
// per loaded program before Run/Step.
func (c *Chip) Reset(b *bus.Bus) {
	c.PC = b.Read16(bus.ResetVector)
	c.halted = false
}

// Run executes instructions until a BRK terminates it, per
// SPEC_FULL.md §4.4.
func (c *Chip) Run(b *bus.Bus) error {
	for {
		brk, err := c.Step(b)
		if err != nil {
			return err
		}
		if brk {
			return nil
		}
	}
}

// Step executes exactly one instruction and reports whether it was BRK.
// Supplements spec.md's single Run loop so a host can drive the CPU in
// small per-frame chunks, per SPEC_FULL.md §4.4 and §5.
func (c *Chip) Step(b *bus.Bus) (bool, error) {
	op := b.Read8(c.PC)
	info := opcodeTable[op]
	if info == nil {
		return false, UnknownOpcode{Opcode: op, PC: c.PC}
	}
	if info.Kind == BRK {
		c.iBRK(b)
		c.halted = true
		return true, nil
	}

	c.PC++
	prev := c.PC

	addr := c.resolveAddress(b, info.Mode)
	var operand uint8
	if addr != noOperand {
		operand = b.Read8(addr)
	}

	c.dispatch(b, info.Kind, info.Mode, addr, operand)

	if c.PC == prev {
		c.PC += uint16(OperandBytes(info.Mode))
	}
	return false, nil
}

// resolveAddress computes the effective address for mode given the
// current PC (already advanced past the opcode byte), per
// SPEC_FULL.md §4.3.
func (c *Chip) resolveAddress(b *bus.Bus, m Mode) uint16 {
	switch m {
	case ModeImplicit, ModeAccumulator:
		return noOperand
	case ModeImmediate:
		return c.PC
	case ModeZeroPage:
		return uint16(b.Read8(c.PC))
	case ModeZeroPageX:
		return uint16(b.Read8(c.PC) + c.X)
	case ModeZeroPageY:
		return uint16(b.Read8(c.PC) + c.Y)
	case ModeAbsolute:
		return b.Read16(c.PC)
	case ModeAbsoluteX:
		return b.Read16(c.PC) + uint16(c.X)
	case ModeAbsoluteY:
		return b.Read16(c.PC) + uint16(c.Y)
	case ModeIndirect:
		ptr := b.Read16(c.PC)
		return b.Read16(ptr)
	case ModeIndirectX:
		ptr := uint16(b.Read8(c.PC) + c.X)
		return b.Read16(ptr)
	case ModeIndirectY:
		ptr := uint16(b.Read8(c.PC))
		return b.Read16(ptr) + uint16(c.Y)
	case ModeRelative:
		offset := int8(b.Read8(c.PC))
		return uint16(int32(c.PC) + 1 + int32(offset))
	default:
		return noOperand
	}
}

// zeroCheck sets the Z flag based on v.
func (c *Chip) zeroCheck(v uint8) {
	c.P &^= PZero
	if v == 0 {
		c.P |= PZero
	}
}

// negativeCheck sets the N flag based on v.
func (c *Chip) negativeCheck(v uint8) {
	c.P &^= PNegative
	if v&PNegative != 0 {
		c.P |= PNegative
	}
}

// carryCheck sets the C flag if an 8 bit ALU result (passed as 16 bits)
// carried out.
func (c *Chip) carryCheck(res uint16) {
	c.P &^= PCarry
	if res > 0xFF {
		c.P |= PCarry
	}
}

// overflowCheck sets the V flag if the ALU operation caused a two's
// complement sign change. See http://www.righto.com/2012/12/the-6502-overflow-flag-explained.html
func (c *Chip) overflowCheck(reg, arg, res uint8) {
	c.P &^= POverflow
	if (reg^res)&(arg^res)&0x80 != 0x00 {
		c.P |= POverflow
	}
}

func (c *Chip) nzCheck(v uint8) {
	c.zeroCheck(v)
	c.negativeCheck(v)
}

// pushByte pushes val onto the stack and decrements SP.
func (c *Chip) pushByte(b *bus.Bus, val uint8) {
	b.Write8(stackPageHi|uint16(c.SP), val)
	c.SP--
}

// popByte increments SP and returns the byte now on top of stack.
func (c *Chip) popByte(b *bus.Bus) uint8 {
	c.SP++
	return b.Read8(stackPageHi | uint16(c.SP))
}

// pushWord pushes a 16 bit value as two pushByte calls, high byte first
// so the low byte ends up on top of stack (matches the original source's
// push_u16_on_stack, which decrements SP, writes the word, decrements
// again).
func (c *Chip) pushWord(b *bus.Bus, val uint16) {
	c.pushByte(b, uint8(val>>8))
	c.pushByte(b, uint8(val&0xFF))
}

// popWord is the inverse of pushWord.
func (c *Chip) popWord(b *bus.Bus) uint16 {
	lo := c.popByte(b)
	hi := c.popByte(b)
	return uint16(hi)<<8 | uint16(lo)
}
