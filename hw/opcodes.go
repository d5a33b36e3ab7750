package hw

import "sync"

// OpFlags describe how an instruction deals with the program counter.
type OpFlags uint8

const (
	// OpRelative marks instructions whose operand is a signed displacement
	// from the next instruction.
	OpRelative OpFlags = 1 << iota
	// OpFlow marks instructions that may set the program counter.
	OpFlow
)

// OpcodeDef holds the static description of an official 6502 opcode.
type OpcodeDef struct {
	Code   uint8
	Name   string
	Mode   string // short addressing mode name, as shown in listings
	Format string // disassembly format, takes the operand (if any)
	Size   uint8
	Cycles uint8
	Flags  OpFlags
}

// Opcodes lists all the official opcodes, sorted by opcode value.
var Opcodes = []OpcodeDef{
	{Code: 0x00, Name: "BRK", Mode: "imp", Format: "BRK", Size: 1, Cycles: 7, Flags: OpFlow},
	{Code: 0x01, Name: "ORA", Mode: "izx", Format: "ORA ($%02X,X)", Size: 2, Cycles: 6},
	{Code: 0x05, Name: "ORA", Mode: "zpg", Format: "ORA $%02X", Size: 2, Cycles: 3},
	{Code: 0x06, Name: "ASL", Mode: "zpg", Format: "ASL $%02X", Size: 2, Cycles: 5},
	{Code: 0x08, Name: "PHP", Mode: "imp", Format: "PHP", Size: 1, Cycles: 3},
	{Code: 0x09, Name: "ORA", Mode: "imm", Format: "ORA #$%02X", Size: 2, Cycles: 2},
	{Code: 0x0A, Name: "ASL", Mode: "acc", Format: "ASL A", Size: 1, Cycles: 2},
	{Code: 0x0D, Name: "ORA", Mode: "abs", Format: "ORA $%04X", Size: 3, Cycles: 4},
	{Code: 0x0E, Name: "ASL", Mode: "abs", Format: "ASL $%04X", Size: 3, Cycles: 6},
	{Code: 0x10, Name: "BPL", Mode: "rel", Format: "BPL $%04X", Size: 2, Cycles: 2, Flags: OpRelative | OpFlow},
	{Code: 0x11, Name: "ORA", Mode: "izy", Format: "ORA ($%02X),Y", Size: 2, Cycles: 5},
	{Code: 0x15, Name: "ORA", Mode: "zpx", Format: "ORA $%02X,X", Size: 2, Cycles: 4},
	{Code: 0x16, Name: "ASL", Mode: "zpx", Format: "ASL $%02X,X", Size: 2, Cycles: 6},
	{Code: 0x18, Name: "CLC", Mode: "imp", Format: "CLC", Size: 1, Cycles: 2},
	{Code: 0x19, Name: "ORA", Mode: "aby", Format: "ORA $%04X,Y", Size: 3, Cycles: 4},
	{Code: 0x1D, Name: "ORA", Mode: "abx", Format: "ORA $%04X,X", Size: 3, Cycles: 4},
	{Code: 0x1E, Name: "ASL", Mode: "abx", Format: "ASL $%04X,X", Size: 3, Cycles: 7},
	{Code: 0x20, Name: "JSR", Mode: "abs", Format: "JSR $%04X", Size: 3, Cycles: 6, Flags: OpFlow},
	{Code: 0x21, Name: "AND", Mode: "izx", Format: "AND ($%02X,X)", Size: 2, Cycles: 6},
	{Code: 0x24, Name: "BIT", Mode: "zpg", Format: "BIT $%02X", Size: 2, Cycles: 3},
	{Code: 0x25, Name: "AND", Mode: "zpg", Format: "AND $%02X", Size: 2, Cycles: 3},
	{Code: 0x26, Name: "ROL", Mode: "zpg", Format: "ROL $%02X", Size: 2, Cycles: 5},
	{Code: 0x28, Name: "PLP", Mode: "imp", Format: "PLP", Size: 1, Cycles: 4},
	{Code: 0x29, Name: "AND", Mode: "imm", Format: "AND #$%02X", Size: 2, Cycles: 2},
	{Code: 0x2A, Name: "ROL", Mode: "acc", Format: "ROL A", Size: 1, Cycles: 2},
	{Code: 0x2C, Name: "BIT", Mode: "abs", Format: "BIT $%04X", Size: 3, Cycles: 4},
	{Code: 0x2D, Name: "AND", Mode: "abs", Format: "AND $%04X", Size: 3, Cycles: 4},
	{Code: 0x2E, Name: "ROL", Mode: "abs", Format: "ROL $%04X", Size: 3, Cycles: 6},
	{Code: 0x30, Name: "BMI", Mode: "rel", Format: "BMI $%04X", Size: 2, Cycles: 2, Flags: OpRelative | OpFlow},
	{Code: 0x31, Name: "AND", Mode: "izy", Format: "AND ($%02X),Y", Size: 2, Cycles: 5},
	{Code: 0x35, Name: "AND", Mode: "zpx", Format: "AND $%02X,X", Size: 2, Cycles: 4},
	{Code: 0x36, Name: "ROL", Mode: "zpx", Format: "ROL $%02X,X", Size: 2, Cycles: 6},
	{Code: 0x38, Name: "SEC", Mode: "imp", Format: "SEC", Size: 1, Cycles: 2},
	{Code: 0x39, Name: "AND", Mode: "aby", Format: "AND $%04X,Y", Size: 3, Cycles: 4},
	{Code: 0x3D, Name: "AND", Mode: "abx", Format: "AND $%04X,X", Size: 3, Cycles: 4},
	{Code: 0x3E, Name: "ROL", Mode: "abx", Format: "ROL $%04X,X", Size: 3, Cycles: 7},
	{Code: 0x40, Name: "RTI", Mode: "imp", Format: "RTI", Size: 1, Cycles: 6, Flags: OpFlow},
	{Code: 0x41, Name: "EOR", Mode: "izx", Format: "EOR ($%02X,X)", Size: 2, Cycles: 6},
	{Code: 0x45, Name: "EOR", Mode: "zpg", Format: "EOR $%02X", Size: 2, Cycles: 3},
	{Code: 0x46, Name: "LSR", Mode: "zpg", Format: "LSR $%02X", Size: 2, Cycles: 5},
	{Code: 0x48, Name: "PHA", Mode: "imp", Format: "PHA", Size: 1, Cycles: 3},
	{Code: 0x49, Name: "EOR", Mode: "imm", Format: "EOR #$%02X", Size: 2, Cycles: 2},
	{Code: 0x4A, Name: "LSR", Mode: "acc", Format: "LSR A", Size: 1, Cycles: 2},
	{Code: 0x4C, Name: "JMP", Mode: "abs", Format: "JMP $%04X", Size: 3, Cycles: 3, Flags: OpFlow},
	{Code: 0x4D, Name: "EOR", Mode: "abs", Format: "EOR $%04X", Size: 3, Cycles: 4},
	{Code: 0x4E, Name: "LSR", Mode: "abs", Format: "LSR $%04X", Size: 3, Cycles: 6},
	{Code: 0x50, Name: "BVC", Mode: "rel", Format: "BVC $%04X", Size: 2, Cycles: 2, Flags: OpRelative | OpFlow},
	{Code: 0x51, Name: "EOR", Mode: "izy", Format: "EOR ($%02X),Y", Size: 2, Cycles: 5},
	{Code: 0x55, Name: "EOR", Mode: "zpx", Format: "EOR $%02X,X", Size: 2, Cycles: 4},
	{Code: 0x56, Name: "LSR", Mode: "zpx", Format: "LSR $%02X,X", Size: 2, Cycles: 6},
	{Code: 0x58, Name: "CLI", Mode: "imp", Format: "CLI", Size: 1, Cycles: 2},
	{Code: 0x59, Name: "EOR", Mode: "aby", Format: "EOR $%04X,Y", Size: 3, Cycles: 4},
	{Code: 0x5D, Name: "EOR", Mode: "abx", Format: "EOR $%04X,X", Size: 3, Cycles: 4},
	{Code: 0x5E, Name: "LSR", Mode: "abx", Format: "LSR $%04X,X", Size: 3, Cycles: 7},
	{Code: 0x60, Name: "RTS", Mode: "imp", Format: "RTS", Size: 1, Cycles: 6, Flags: OpFlow},
	{Code: 0x61, Name: "ADC", Mode: "izx", Format: "ADC ($%02X,X)", Size: 2, Cycles: 6},
	{Code: 0x65, Name: "ADC", Mode: "zpg", Format: "ADC $%02X", Size: 2, Cycles: 3},
	{Code: 0x66, Name: "ROR", Mode: "zpg", Format: "ROR $%02X", Size: 2, Cycles: 5},
	{Code: 0x68, Name: "PLA", Mode: "imp", Format: "PLA", Size: 1, Cycles: 4},
	{Code: 0x69, Name: "ADC", Mode: "imm", Format: "ADC #$%02X", Size: 2, Cycles: 2},
	{Code: 0x6A, Name: "ROR", Mode: "acc", Format: "ROR A", Size: 1, Cycles: 2},
	{Code: 0x6C, Name: "JMP", Mode: "ind", Format: "JMP ($%04X)", Size: 3, Cycles: 5, Flags: OpFlow},
	{Code: 0x6D, Name: "ADC", Mode: "abs", Format: "ADC $%04X", Size: 3, Cycles: 4},
	{Code: 0x6E, Name: "ROR", Mode: "abs", Format: "ROR $%04X", Size: 3, Cycles: 6},
	{Code: 0x70, Name: "BVS", Mode: "rel", Format: "BVS $%04X", Size: 2, Cycles: 2, Flags: OpRelative | OpFlow},
	{Code: 0x71, Name: "ADC", Mode: "izy", Format: "ADC ($%02X),Y", Size: 2, Cycles: 5},
	{Code: 0x75, Name: "ADC", Mode: "zpx", Format: "ADC $%02X,X", Size: 2, Cycles: 4},
	{Code: 0x76, Name: "ROR", Mode: "zpx", Format: "ROR $%02X,X", Size: 2, Cycles: 6},
	{Code: 0x78, Name: "SEI", Mode: "imp", Format: "SEI", Size: 1, Cycles: 2},
	{Code: 0x79, Name: "ADC", Mode: "aby", Format: "ADC $%04X,Y", Size: 3, Cycles: 4},
	{Code: 0x7D, Name: "ADC", Mode: "abx", Format: "ADC $%04X,X", Size: 3, Cycles: 4},
	{Code: 0x7E, Name: "ROR", Mode: "abx", Format: "ROR $%04X,X", Size: 3, Cycles: 7},
	{Code: 0x81, Name: "STA", Mode: "izx", Format: "STA ($%02X,X)", Size: 2, Cycles: 6},
	{Code: 0x84, Name: "STY", Mode: "zpg", Format: "STY $%02X", Size: 2, Cycles: 3},
	{Code: 0x85, Name: "STA", Mode: "zpg", Format: "STA $%02X", Size: 2, Cycles: 3},
	{Code: 0x86, Name: "STX", Mode: "zpg", Format: "STX $%02X", Size: 2, Cycles: 3},
	{Code: 0x88, Name: "DEY", Mode: "imp", Format: "DEY", Size: 1, Cycles: 2},
	{Code: 0x8A, Name: "TXA", Mode: "imp", Format: "TXA", Size: 1, Cycles: 2},
	{Code: 0x8C, Name: "STY", Mode: "abs", Format: "STY $%04X", Size: 3, Cycles: 4},
	{Code: 0x8D, Name: "STA", Mode: "abs", Format: "STA $%04X", Size: 3, Cycles: 4},
	{Code: 0x8E, Name: "STX", Mode: "abs", Format: "STX $%04X", Size: 3, Cycles: 4},
	{Code: 0x90, Name: "BCC", Mode: "rel", Format: "BCC $%04X", Size: 2, Cycles: 2, Flags: OpRelative | OpFlow},
	{Code: 0x91, Name: "STA", Mode: "izy", Format: "STA ($%02X),Y", Size: 2, Cycles: 6},
	{Code: 0x94, Name: "STY", Mode: "zpx", Format: "STY $%02X,X", Size: 2, Cycles: 4},
	{Code: 0x95, Name: "STA", Mode: "zpx", Format: "STA $%02X,X", Size: 2, Cycles: 4},
	{Code: 0x96, Name: "STX", Mode: "zpy", Format: "STX $%02X,Y", Size: 2, Cycles: 4},
	{Code: 0x98, Name: "TYA", Mode: "imp", Format: "TYA", Size: 1, Cycles: 2},
	{Code: 0x99, Name: "STA", Mode: "aby", Format: "STA $%04X,Y", Size: 3, Cycles: 5},
	{Code: 0x9A, Name: "TXS", Mode: "imp", Format: "TXS", Size: 1, Cycles: 2},
	{Code: 0x9D, Name: "STA", Mode: "abx", Format: "STA $%04X,X", Size: 3, Cycles: 5},
	{Code: 0xA0, Name: "LDY", Mode: "imm", Format: "LDY #$%02X", Size: 2, Cycles: 2},
	{Code: 0xA1, Name: "LDA", Mode: "izx", Format: "LDA ($%02X,X)", Size: 2, Cycles: 6},
	{Code: 0xA2, Name: "LDX", Mode: "imm", Format: "LDX #$%02X", Size: 2, Cycles: 2},
	{Code: 0xA4, Name: "LDY", Mode: "zpg", Format: "LDY $%02X", Size: 2, Cycles: 3},
	{Code: 0xA5, Name: "LDA", Mode: "zpg", Format: "LDA $%02X", Size: 2, Cycles: 3},
	{Code: 0xA6, Name: "LDX", Mode: "zpg", Format: "LDX $%02X", Size: 2, Cycles: 3},
	{Code: 0xA8, Name: "TAY", Mode: "imp", Format: "TAY", Size: 1, Cycles: 2},
	{Code: 0xA9, Name: "LDA", Mode: "imm", Format: "LDA #$%02X", Size: 2, Cycles: 2},
	{Code: 0xAA, Name: "TAX", Mode: "imp", Format: "TAX", Size: 1, Cycles: 2},
	{Code: 0xAC, Name: "LDY", Mode: "abs", Format: "LDY $%04X", Size: 3, Cycles: 4},
	{Code: 0xAD, Name: "LDA", Mode: "abs", Format: "LDA $%04X", Size: 3, Cycles: 4},
	{Code: 0xAE, Name: "LDX", Mode: "abs", Format: "LDX $%04X", Size: 3, Cycles: 4},
	{Code: 0xB0, Name: "BCS", Mode: "rel", Format: "BCS $%04X", Size: 2, Cycles: 2, Flags: OpRelative | OpFlow},
	{Code: 0xB1, Name: "LDA", Mode: "izy", Format: "LDA ($%02X),Y", Size: 2, Cycles: 5},
	{Code: 0xB4, Name: "LDY", Mode: "zpx", Format: "LDY $%02X,X", Size: 2, Cycles: 4},
	{Code: 0xB5, Name: "LDA", Mode: "zpx", Format: "LDA $%02X,X", Size: 2, Cycles: 4},
	{Code: 0xB6, Name: "LDX", Mode: "zpy", Format: "LDX $%02X,Y", Size: 2, Cycles: 4},
	{Code: 0xB8, Name: "CLV", Mode: "imp", Format: "CLV", Size: 1, Cycles: 2},
	{Code: 0xB9, Name: "LDA", Mode: "aby", Format: "LDA $%04X,Y", Size: 3, Cycles: 4},
	{Code: 0xBA, Name: "TSX", Mode: "imp", Format: "TSX", Size: 1, Cycles: 2},
	{Code: 0xBC, Name: "LDY", Mode: "abx", Format: "LDY $%04X,X", Size: 3, Cycles: 4},
	{Code: 0xBD, Name: "LDA", Mode: "abx", Format: "LDA $%04X,X", Size: 3, Cycles: 4},
	{Code: 0xBE, Name: "LDX", Mode: "aby", Format: "LDX $%04X,Y", Size: 3, Cycles: 4},
	{Code: 0xC0, Name: "CPY", Mode: "imm", Format: "CPY #$%02X", Size: 2, Cycles: 2},
	{Code: 0xC1, Name: "CMP", Mode: "izx", Format: "CMP ($%02X,X)", Size: 2, Cycles: 6},
	{Code: 0xC4, Name: "CPY", Mode: "zpg", Format: "CPY $%02X", Size: 2, Cycles: 3},
	{Code: 0xC5, Name: "CMP", Mode: "zpg", Format: "CMP $%02X", Size: 2, Cycles: 3},
	{Code: 0xC6, Name: "DEC", Mode: "zpg", Format: "DEC $%02X", Size: 2, Cycles: 5},
	{Code: 0xC8, Name: "INY", Mode: "imp", Format: "INY", Size: 1, Cycles: 2},
	{Code: 0xC9, Name: "CMP", Mode: "imm", Format: "CMP #$%02X", Size: 2, Cycles: 2},
	{Code: 0xCA, Name: "DEX", Mode: "imp", Format: "DEX", Size: 1, Cycles: 2},
	{Code: 0xCC, Name: "CPY", Mode: "abs", Format: "CPY $%04X", Size: 3, Cycles: 4},
	{Code: 0xCD, Name: "CMP", Mode: "abs", Format: "CMP $%04X", Size: 3, Cycles: 4},
	{Code: 0xCE, Name: "DEC", Mode: "abs", Format: "DEC $%04X", Size: 3, Cycles: 6},
	{Code: 0xD0, Name: "BNE", Mode: "rel", Format: "BNE $%04X", Size: 2, Cycles: 2, Flags: OpRelative | OpFlow},
	{Code: 0xD1, Name: "CMP", Mode: "izy", Format: "CMP ($%02X),Y", Size: 2, Cycles: 5},
	{Code: 0xD5, Name: "CMP", Mode: "zpx", Format: "CMP $%02X,X", Size: 2, Cycles: 4},
	{Code: 0xD6, Name: "DEC", Mode: "zpx", Format: "DEC $%02X,X", Size: 2, Cycles: 6},
	{Code: 0xD8, Name: "CLD", Mode: "imp", Format: "CLD", Size: 1, Cycles: 2},
	{Code: 0xD9, Name: "CMP", Mode: "aby", Format: "CMP $%04X,Y", Size: 3, Cycles: 4},
	{Code: 0xDD, Name: "CMP", Mode: "abx", Format: "CMP $%04X,X", Size: 3, Cycles: 4},
	{Code: 0xDE, Name: "DEC", Mode: "abx", Format: "DEC $%04X,X", Size: 3, Cycles: 7},
	{Code: 0xE0, Name: "CPX", Mode: "imm", Format: "CPX #$%02X", Size: 2, Cycles: 2},
	{Code: 0xE1, Name: "SBC", Mode: "izx", Format: "SBC ($%02X,X)", Size: 2, Cycles: 6},
	{Code: 0xE4, Name: "CPX", Mode: "zpg", Format: "CPX $%02X", Size: 2, Cycles: 3},
	{Code: 0xE5, Name: "SBC", Mode: "zpg", Format: "SBC $%02X", Size: 2, Cycles: 3},
	{Code: 0xE6, Name: "INC", Mode: "zpg", Format: "INC $%02X", Size: 2, Cycles: 5},
	{Code: 0xE8, Name: "INX", Mode: "imp", Format: "INX", Size: 1, Cycles: 2},
	{Code: 0xE9, Name: "SBC", Mode: "imm", Format: "SBC #$%02X", Size: 2, Cycles: 2},
	{Code: 0xEA, Name: "NOP", Mode: "imp", Format: "NOP", Size: 1, Cycles: 2},
	{Code: 0xEC, Name: "CPX", Mode: "abs", Format: "CPX $%04X", Size: 3, Cycles: 4},
	{Code: 0xED, Name: "SBC", Mode: "abs", Format: "SBC $%04X", Size: 3, Cycles: 4},
	{Code: 0xEE, Name: "INC", Mode: "abs", Format: "INC $%04X", Size: 3, Cycles: 6},
	{Code: 0xF0, Name: "BEQ", Mode: "rel", Format: "BEQ $%04X", Size: 2, Cycles: 2, Flags: OpRelative | OpFlow},
	{Code: 0xF1, Name: "SBC", Mode: "izy", Format: "SBC ($%02X),Y", Size: 2, Cycles: 5},
	{Code: 0xF5, Name: "SBC", Mode: "zpx", Format: "SBC $%02X,X", Size: 2, Cycles: 4},
	{Code: 0xF6, Name: "INC", Mode: "zpx", Format: "INC $%02X,X", Size: 2, Cycles: 6},
	{Code: 0xF8, Name: "SED", Mode: "imp", Format: "SED", Size: 1, Cycles: 2},
	{Code: 0xF9, Name: "SBC", Mode: "aby", Format: "SBC $%04X,Y", Size: 3, Cycles: 4},
	{Code: 0xFD, Name: "SBC", Mode: "abx", Format: "SBC $%04X,X", Size: 3, Cycles: 4},
	{Code: 0xFE, Name: "INC", Mode: "abx", Format: "INC $%04X,X", Size: 3, Cycles: 7},
}

var (
	clockTable  [256]uint8
	opcodeTable [256]*OpcodeDef
	initOnce    sync.Once
)

// InitClockTable fills the base cycle table and the opcode lookup table from
// Opcodes. It's safe to call it multiple times, from multiple goroutines.
func InitClockTable() {
	initOnce.Do(func() {
		for i := range Opcodes {
			def := &Opcodes[i]
			clockTable[def.Code] = def.Cycles
			opcodeTable[def.Code] = def
		}
	})
}

// LookupOpcode returns the definition of opcode, or nil if it's not an
// official opcode.
func LookupOpcode(opcode uint8) *OpcodeDef {
	InitClockTable()
	return opcodeTable[opcode]
}
