package cpu

import "fmt"

// Mode is an addressing mode as described in SPEC_FULL.md §4.3.
type Mode int

const (
	ModeImmediate Mode = iota
	ModeZeroPage
	ModeZeroPageX
	ModeZeroPageY
	ModeAbsolute
	ModeAbsoluteX
	ModeAbsoluteY
	ModeIndirect
	ModeIndirectX
	ModeIndirectY
	ModeImplicit
	ModeAccumulator
	ModeRelative
)

// Kind is a mnemonic identifier for one of the 56 supported instructions.
type Kind int

const (
	ADC Kind = iota
	AND
	ASL
	BCC
	BCS
	BEQ
	BIT
	BMI
	BNE
	BPL
	BRK
	BVC
	BVS
	CLC
	CLD
	CLI
	CLV
	CMP
	CPX
	CPY
	DEC
	DEX
	DEY
	EOR
	INC
	INX
	INY
	JMP
	JSR
	LDA
	LDX
	LDY
	LSR
	NOP
	ORA
	PHA
	PHP
	PLA
	PLP
	ROL
	ROR
	RTI
	RTS
	SBC
	SEC
	SED
	SEI
	STA
	STX
	STY
	TAX
	TAY
	TSX
	TXA
	TXS
	TYA
)

// OpcodeInfo describes the static, read-only decoding of one opcode byte.
type OpcodeInfo struct {
	Kind Kind
	Mode Mode
}

type opcodeInfo = OpcodeInfo

// DuplicateOpcode indicates the static instruction table defines the same
// opcode byte twice. This is a build-time error, not a runtime data
// problem; it can only happen if this package's own table is wrong.
type DuplicateOpcode struct {
	Opcode uint8
}

// Error implements the error interface.
func (e DuplicateOpcode) Error() string {
	return fmt.Sprintf("opcode %#02x defined more than once in instruction table", e.Opcode)
}

// UnknownOpcode indicates the CPU fetched a byte that isn't in the
// 151-entry supported table. Programs assembled from the documented
// mnemonics cannot produce this; it is a fatal, unrecoverable condition.
type UnknownOpcode struct {
	Opcode uint8
	PC     uint16
}

// Error implements the error interface.
func (e UnknownOpcode) Error() string {
	return fmt.Sprintf("unknown opcode %#02x at PC %#04x", e.Opcode, e.PC)
}

// opcodeTable maps every one of the 256 possible opcode bytes to its
// decoding, or nil if unsupported (unofficial opcodes are out of scope
// per SPEC_FULL.md §1).
var opcodeTable [256]*opcodeInfo

func define(opcode uint8, kind Kind, mode Mode) {
	if opcodeTable[opcode] != nil {
		panic(DuplicateOpcode{Opcode: opcode})
	}
	opcodeTable[opcode] = &opcodeInfo{Kind: kind, Mode: mode}
}

func init() {
	// ADC
	define(0x69, ADC, ModeImmediate)
	define(0x65, ADC, ModeZeroPage)
	define(0x75, ADC, ModeZeroPageX)
	define(0x6D, ADC, ModeAbsolute)
	define(0x7D, ADC, ModeAbsoluteX)
	define(0x79, ADC, ModeAbsoluteY)
	define(0x61, ADC, ModeIndirectX)
	define(0x71, ADC, ModeIndirectY)
	// AND
	define(0x29, AND, ModeImmediate)
	define(0x25, AND, ModeZeroPage)
	define(0x35, AND, ModeZeroPageX)
	define(0x2D, AND, ModeAbsolute)
	define(0x3D, AND, ModeAbsoluteX)
	define(0x39, AND, ModeAbsoluteY)
	define(0x21, AND, ModeIndirectX)
	define(0x31, AND, ModeIndirectY)
	// ASL
	define(0x0A, ASL, ModeAccumulator)
	define(0x06, ASL, ModeZeroPage)
	define(0x16, ASL, ModeZeroPageX)
	define(0x0E, ASL, ModeAbsolute)
	define(0x1E, ASL, ModeAbsoluteX)
	// BIT
	define(0x24, BIT, ModeZeroPage)
	define(0x2C, BIT, ModeAbsolute)
	// Branches
	define(0x10, BPL, ModeRelative)
	define(0x30, BMI, ModeRelative)
	define(0x50, BVC, ModeRelative)
	define(0x70, BVS, ModeRelative)
	define(0x90, BCC, ModeRelative)
	define(0xB0, BCS, ModeRelative)
	define(0xD0, BNE, ModeRelative)
	define(0xF0, BEQ, ModeRelative)
	// CMP
	define(0xC9, CMP, ModeImmediate)
	define(0xC5, CMP, ModeZeroPage)
	define(0xD5, CMP, ModeZeroPageX)
	define(0xCD, CMP, ModeAbsolute)
	define(0xDD, CMP, ModeAbsoluteX)
	define(0xD9, CMP, ModeAbsoluteY)
	define(0xC1, CMP, ModeIndirectX)
	define(0xD1, CMP, ModeIndirectY)
	// CPX
	define(0xE0, CPX, ModeImmediate)
	define(0xE4, CPX, ModeZeroPage)
	define(0xEC, CPX, ModeAbsolute)
	// CPY
	define(0xC0, CPY, ModeImmediate)
	define(0xC4, CPY, ModeZeroPage)
	define(0xCC, CPY, ModeAbsolute)
	// DEC
	define(0xC6, DEC, ModeZeroPage)
	define(0xD6, DEC, ModeZeroPageX)
	define(0xCE, DEC, ModeAbsolute)
	define(0xDE, DEC, ModeAbsoluteX)
	// EOR
	define(0x49, EOR, ModeImmediate)
	define(0x45, EOR, ModeZeroPage)
	define(0x55, EOR, ModeZeroPageX)
	define(0x4D, EOR, ModeAbsolute)
	define(0x5D, EOR, ModeAbsoluteX)
	define(0x59, EOR, ModeAbsoluteY)
	define(0x41, EOR, ModeIndirectX)
	define(0x51, EOR, ModeIndirectY)
	// Flags
	define(0x18, CLC, ModeImplicit)
	define(0x38, SEC, ModeImplicit)
	define(0x58, CLI, ModeImplicit)
	define(0x78, SEI, ModeImplicit)
	define(0xB8, CLV, ModeImplicit)
	define(0xD8, CLD, ModeImplicit)
	define(0xF8, SED, ModeImplicit)
	// INC
	define(0xE6, INC, ModeZeroPage)
	define(0xF6, INC, ModeZeroPageX)
	define(0xEE, INC, ModeAbsolute)
	define(0xFE, INC, ModeAbsoluteX)
	// JMP
	define(0x4C, JMP, ModeAbsolute)
	define(0x6C, JMP, ModeIndirect)
	// LDA
	define(0xA9, LDA, ModeImmediate)
	define(0xA5, LDA, ModeZeroPage)
	define(0xB5, LDA, ModeZeroPageX)
	define(0xAD, LDA, ModeAbsolute)
	define(0xBD, LDA, ModeAbsoluteX)
	define(0xB9, LDA, ModeAbsoluteY)
	define(0xA1, LDA, ModeIndirectX)
	define(0xB1, LDA, ModeIndirectY)
	// LDX
	define(0xA2, LDX, ModeImmediate)
	define(0xA6, LDX, ModeZeroPage)
	define(0xB6, LDX, ModeZeroPageY)
	define(0xAE, LDX, ModeAbsolute)
	define(0xBE, LDX, ModeAbsoluteY)
	// LDY
	define(0xA0, LDY, ModeImmediate)
	define(0xA4, LDY, ModeZeroPage)
	define(0xB4, LDY, ModeZeroPageX)
	define(0xAC, LDY, ModeAbsolute)
	define(0xBC, LDY, ModeAbsoluteX)
	// LSR
	define(0x4A, LSR, ModeAccumulator)
	define(0x46, LSR, ModeZeroPage)
	define(0x56, LSR, ModeZeroPageX)
	define(0x4E, LSR, ModeAbsolute)
	define(0x5E, LSR, ModeAbsoluteX)
	// ORA
	define(0x09, ORA, ModeImmediate)
	define(0x05, ORA, ModeZeroPage)
	define(0x15, ORA, ModeZeroPageX)
	define(0x0D, ORA, ModeAbsolute)
	define(0x1D, ORA, ModeAbsoluteX)
	define(0x19, ORA, ModeAbsoluteY)
	define(0x01, ORA, ModeIndirectX)
	define(0x11, ORA, ModeIndirectY)
	// Register transfers/inc-dec
	define(0xAA, TAX, ModeImplicit)
	define(0x8A, TXA, ModeImplicit)
	define(0xCA, DEX, ModeImplicit)
	define(0xE8, INX, ModeImplicit)
	define(0xA8, TAY, ModeImplicit)
	define(0x98, TYA, ModeImplicit)
	define(0x88, DEY, ModeImplicit)
	define(0xC8, INY, ModeImplicit)
	// ROL
	define(0x2A, ROL, ModeAccumulator)
	define(0x26, ROL, ModeZeroPage)
	define(0x36, ROL, ModeZeroPageX)
	define(0x2E, ROL, ModeAbsolute)
	define(0x3E, ROL, ModeAbsoluteX)
	// ROR
	define(0x6A, ROR, ModeAccumulator)
	define(0x66, ROR, ModeZeroPage)
	define(0x76, ROR, ModeZeroPageX)
	define(0x6E, ROR, ModeAbsolute)
	define(0x7E, ROR, ModeAbsoluteX)
	// SBC
	define(0xE9, SBC, ModeImmediate)
	define(0xE5, SBC, ModeZeroPage)
	define(0xF5, SBC, ModeZeroPageX)
	define(0xED, SBC, ModeAbsolute)
	define(0xFD, SBC, ModeAbsoluteX)
	define(0xF9, SBC, ModeAbsoluteY)
	define(0xE1, SBC, ModeIndirectX)
	define(0xF1, SBC, ModeIndirectY)
	// STA
	define(0x85, STA, ModeZeroPage)
	define(0x95, STA, ModeZeroPageX)
	define(0x8D, STA, ModeAbsolute)
	define(0x9D, STA, ModeAbsoluteX)
	define(0x99, STA, ModeAbsoluteY)
	define(0x81, STA, ModeIndirectX)
	define(0x91, STA, ModeIndirectY)
	// Stack
	define(0x9A, TXS, ModeImplicit)
	define(0xBA, TSX, ModeImplicit)
	define(0x48, PHA, ModeImplicit)
	define(0x68, PLA, ModeImplicit)
	define(0x08, PHP, ModeImplicit)
	define(0x28, PLP, ModeImplicit)
	// STX/STY
	define(0x86, STX, ModeZeroPage)
	define(0x96, STX, ModeZeroPageY)
	define(0x8E, STX, ModeAbsolute)
	define(0x84, STY, ModeZeroPage)
	define(0x94, STY, ModeZeroPageX)
	define(0x8C, STY, ModeAbsolute)
	// Other
	define(0x00, BRK, ModeImplicit)
	define(0x20, JSR, ModeAbsolute)
	define(0xEA, NOP, ModeImplicit)
	define(0x40, RTI, ModeImplicit)
	define(0x60, RTS, ModeImplicit)
}

// LookupOpcode exposes the decoding table to other packages (the
// disassembler) without handing out the table itself.
func LookupOpcode(opcode uint8) *OpcodeInfo {
	return opcodeTable[opcode]
}

// OperandBytes returns the number of operand bytes that follow the
// opcode byte for the given addressing mode, per SPEC_FULL.md §3.
func OperandBytes(m Mode) int {
	switch m {
	case ModeImplicit, ModeAccumulator:
		return 0
	case ModeAbsolute, ModeAbsoluteX, ModeAbsoluteY, ModeIndirect:
		return 2
	default:
		return 1
	}
}
