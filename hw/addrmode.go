package hw

import (
	"nescore/emu/log"
)

//go:generate go tool stringer -type=AddrMode,OperandKind -output=addrmode_string.go

// AddrMode is the addressing mode used to resolve an instruction operand.
type AddrMode uint8

const (
	Implied AddrMode = iota // also covers accumulator, immediate and relative forms
	ZeroPage
	ZeroPageX
	ZeroPageY
	Absolute
	AbsoluteX
	AbsoluteY
	IndirectX
	IndirectY
	Indirect
)

// modeTable maps the low 5 bits of an opcode to its addressing mode.
var modeTable = [32]AddrMode{
	0x00: Implied, 0x01: IndirectX, 0x02: Implied, 0x03: Implied,
	0x04: ZeroPage, 0x05: ZeroPage, 0x06: ZeroPage, 0x07: Implied,
	0x08: Implied, 0x09: Implied, 0x0A: Implied, 0x0B: Implied,
	0x0C: Absolute, 0x0D: Absolute, 0x0E: Absolute, 0x0F: Implied,
	0x10: Implied, 0x11: IndirectY, 0x12: Implied, 0x13: Implied,
	0x14: ZeroPageX, 0x15: ZeroPageX, 0x16: ZeroPageX, 0x17: Implied,
	0x18: Implied, 0x19: AbsoluteY, 0x1A: Implied, 0x1B: Implied,
	0x1C: AbsoluteX, 0x1D: AbsoluteX, 0x1E: AbsoluteX, 0x1F: Implied,
}

// AddrModeOf returns the addressing mode of opcode.
func AddrModeOf(opcode uint8) AddrMode {
	switch opcode {
	case 0x96, 0xB6: // STX/LDX zp,Y
		return ZeroPageY
	case 0xBE: // LDX abs,Y
		return AbsoluteY
	case 0x6C: // JMP (ind)
		return Indirect
	case 0x20: // JSR
		return Absolute
	}
	return modeTable[opcode&0x1F]
}

// OperandKind tells where an instruction operand lives.
type OperandKind uint8

const (
	OperNone OperandKind = iota
	OperAcc
	OperImm
	OperMem
)

// Operand is the resolved operand of an instruction.
type Operand struct {
	Kind    OperandKind
	Addr    uint16 // effective address, for OperMem
	Imm     uint8  // value, for OperImm
	Special bool   // Addr lies on a page with side effects
}

// Instruction is a decoded and resolved instruction.
type Instruction struct {
	PC      uint16 // address of the opcode
	Opcode  uint8
	Data    [2]uint8
	Mode    AddrMode
	Operand Operand

	Value uint8 // operand value, valid when Read is set
	Read  bool  // the operand value has been read
	Wrote bool  // a value has been written back to the operand
}

func (in *Instruction) String() string {
	return Disasm(in.PC, in.Opcode, in.Data[0], in.Data[1])
}

func isAccumulator(opcode uint8) bool {
	switch opcode {
	case 0x0A, 0x2A, 0x4A, 0x6A:
		return true
	}
	return false
}

func isImmediate(opcode uint8) bool {
	switch opcode {
	case 0xA0, 0xA2, 0xC0, 0xE0:
		return true
	}
	return opcode&0x1F == 0x09
}

// resolve computes the operand of in and advances PC past the instruction.
// Relative branches and immediate operands are implied forms: their operand
// byte is consumed by the executor.
func (c *CPU) resolve(in *Instruction) {
	b1, b2 := in.Data[0], in.Data[1]
	abs := uint16(b1) | uint16(b2)<<8

	in.Mode = AddrModeOf(in.Opcode)
	switch in.Mode {
	case Implied:
		c.PC++
		switch {
		case isAccumulator(in.Opcode):
			in.Operand = Operand{Kind: OperAcc}
		case isImmediate(in.Opcode):
			in.Operand = Operand{Kind: OperImm, Imm: b1}
			c.PC++
		default:
			in.Operand = Operand{Kind: OperNone}
		}
		return

	case ZeroPage:
		c.PC += 2
		in.Operand = Operand{Kind: OperMem, Addr: uint16(b1)}
		return
	case ZeroPageX:
		c.PC += 2
		in.Operand = Operand{Kind: OperMem, Addr: uint16(b1 + c.X)}
		return
	case ZeroPageY:
		c.PC += 2
		in.Operand = Operand{Kind: OperMem, Addr: uint16(b1 + c.Y)}
		return

	case Absolute:
		c.PC += 3
		c.memOperand(in, abs)
	case AbsoluteX:
		c.PC += 3
		c.memOperand(in, abs+uint16(c.X))
	case AbsoluteY:
		c.PC += 3
		c.memOperand(in, abs+uint16(c.Y))
	case IndirectX:
		c.PC += 2
		ptr := b1 + c.X
		c.memOperand(in, c.zpRead16(ptr))
	case IndirectY:
		c.PC += 2
		c.memOperand(in, c.zpRead16(b1)+uint16(c.Y))
	case Indirect:
		c.PC += 3
		in.Operand = Operand{Kind: OperMem, Addr: abs}
	default:
		log.ModCPU.PanicZ("unknown addressing mode").Hex8("opcode", in.Opcode).End()
	}
}

func (c *CPU) memOperand(in *Instruction, addr uint16) {
	in.Operand = Operand{Kind: OperMem, Addr: addr, Special: c.Bus.IsSpecial(addr)}
}

// zpRead16 reads a little-endian pointer from the zero page, wrapping within
// the page.
func (c *CPU) zpRead16(ptr uint8) uint16 {
	lo := c.RAM[ptr]
	hi := c.RAM[ptr+1]
	return uint16(lo) | uint16(hi)<<8
}
