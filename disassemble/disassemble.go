// Package disassemble renders the instruction at a given PC as a human
// readable line, without executing it. Adapted from the teacher's
// disassembler onto this module's bus and opcode table; see DESIGN.md.
package disassemble

import (
	"fmt"

	"github.com/jmchacon/nes6502/bus"
	"github.com/jmchacon/nes6502/cpu"
)

var mnemonic = map[cpu.Kind]string{
	cpu.ADC: "ADC", cpu.AND: "AND", cpu.ASL: "ASL", cpu.BCC: "BCC",
	cpu.BCS: "BCS", cpu.BEQ: "BEQ", cpu.BIT: "BIT", cpu.BMI: "BMI",
	cpu.BNE: "BNE", cpu.BPL: "BPL", cpu.BRK: "BRK", cpu.BVC: "BVC",
	cpu.BVS: "BVS", cpu.CLC: "CLC", cpu.CLD: "CLD", cpu.CLI: "CLI",
	cpu.CLV: "CLV", cpu.CMP: "CMP", cpu.CPX: "CPX", cpu.CPY: "CPY",
	cpu.DEC: "DEC", cpu.DEX: "DEX", cpu.DEY: "DEY", cpu.EOR: "EOR",
	cpu.INC: "INC", cpu.INX: "INX", cpu.INY: "INY", cpu.JMP: "JMP",
	cpu.JSR: "JSR", cpu.LDA: "LDA", cpu.LDX: "LDX", cpu.LDY: "LDY",
	cpu.LSR: "LSR", cpu.NOP: "NOP", cpu.ORA: "ORA", cpu.PHA: "PHA",
	cpu.PHP: "PHP", cpu.PLA: "PLA", cpu.PLP: "PLP", cpu.ROL: "ROL",
	cpu.ROR: "ROR", cpu.RTI: "RTI", cpu.RTS: "RTS", cpu.SBC: "SBC",
	cpu.SEC: "SEC", cpu.SED: "SED", cpu.SEI: "SEI", cpu.STA: "STA",
	cpu.STX: "STX", cpu.STY: "STY", cpu.TAX: "TAX", cpu.TAY: "TAY",
	cpu.TSX: "TSX", cpu.TXA: "TXA", cpu.TXS: "TXS", cpu.TYA: "TYA",
}

// Step disassembles the instruction at pc and returns the rendered line
// along with the number of bytes (including the opcode byte) it
// occupies, so a caller can walk a program byte range forward after each
// call the same way the teacher's Step let callers do. Unknown opcodes
// render as "???" occupying a single byte rather than erroring, since
// this is a diagnostic tool and must never abort mid-listing.
func Step(pc uint16, b *bus.Bus) (string, int) {
	op := b.Read8(pc)
	info := cpu.LookupOpcode(op)
	if info == nil {
		return fmt.Sprintf("%04X  %02X         ???", pc, op), 1
	}

	name := mnemonic[info.Kind]
	switch cpu.OperandBytes(info.Mode) {
	case 0:
		return fmt.Sprintf("%04X  %02X         %s", pc, op, operandText(info.Mode, name, 0, pc)), 1
	case 1:
		operand := b.Read8(pc + 1)
		return fmt.Sprintf("%04X  %02X %02X      %s", pc, op, operand, operandText(info.Mode, name, uint16(operand), pc)), 2
	default:
		operand := b.Read16(pc + 1)
		return fmt.Sprintf("%04X  %02X %02X %02X   %s", pc, op, uint8(operand), uint8(operand>>8), operandText(info.Mode, name, operand, pc)), 3
	}
}

func operandText(m cpu.Mode, name string, operand uint16, pc uint16) string {
	switch m {
	case cpu.ModeImplicit, cpu.ModeAccumulator:
		return name
	case cpu.ModeImmediate:
		return fmt.Sprintf("%s #$%02X", name, operand)
	case cpu.ModeZeroPage:
		return fmt.Sprintf("%s $%02X", name, operand)
	case cpu.ModeZeroPageX:
		return fmt.Sprintf("%s $%02X,X", name, operand)
	case cpu.ModeZeroPageY:
		return fmt.Sprintf("%s $%02X,Y", name, operand)
	case cpu.ModeAbsolute:
		return fmt.Sprintf("%s $%04X", name, operand)
	case cpu.ModeAbsoluteX:
		return fmt.Sprintf("%s $%04X,X", name, operand)
	case cpu.ModeAbsoluteY:
		return fmt.Sprintf("%s $%04X,Y", name, operand)
	case cpu.ModeIndirect:
		return fmt.Sprintf("%s ($%04X)", name, operand)
	case cpu.ModeIndirectX:
		return fmt.Sprintf("%s ($%02X,X)", name, operand)
	case cpu.ModeIndirectY:
		return fmt.Sprintf("%s ($%02X),Y", name, operand)
	case cpu.ModeRelative:
		target := uint16(int32(pc) + 2 + int32(int8(operand)))
		return fmt.Sprintf("%s $%02X ($%04X)", name, operand, target)
	default:
		return name
	}
}
