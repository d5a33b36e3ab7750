package hw

import (
	"nescore/emu/log"
)

// execute runs the family function of a resolved instruction.
func (c *CPU) execute(in *Instruction) {
	d := &decodeTable[in.Opcode]

	switch d.fam {
	case famLoad:
		v := c.load(in)
		c.setReg(d.reg, v)
		c.P.checkNZ(v)
	case famStore:
		c.store(in, c.reg(d.reg))
	case famTransfer:
		v := c.reg(d.src)
		c.setReg(d.reg, v)
		if d.reg != regSP {
			c.P.checkNZ(v)
		}

	case famInc:
		v := c.load(in) + 1
		c.P.checkNZ(v)
		c.store(in, v)
	case famDec:
		v := c.load(in) - 1
		c.P.checkNZ(v)
		c.store(in, v)
	case famIncReg:
		v := c.reg(d.reg) + 1
		c.setReg(d.reg, v)
		c.P.checkNZ(v)
	case famDecReg:
		v := c.reg(d.reg) - 1
		c.setReg(d.reg, v)
		c.P.checkNZ(v)

	case famADC:
		c.adc(c.load(in))
	case famSBC:
		c.adc(^c.load(in))
	case famAND:
		c.A &= c.load(in)
		c.P.checkNZ(c.A)
	case famORA:
		c.A |= c.load(in)
		c.P.checkNZ(c.A)
	case famEOR:
		c.A ^= c.load(in)
		c.P.checkNZ(c.A)

	case famASL:
		v := c.load(in)
		c.P.setFlag(Carry, v&0x80 != 0)
		v <<= 1
		c.P.checkNZ(v)
		c.store(in, v)
	case famLSR:
		v := c.load(in)
		c.P.setFlag(Carry, v&0x01 != 0)
		v >>= 1
		c.P.checkNZ(v)
		c.store(in, v)
	case famROL:
		v := c.load(in)
		carry := uint8(c.P & Carry)
		c.P.setFlag(Carry, v&0x80 != 0)
		v = v<<1 | carry
		c.P.checkNZ(v)
		c.store(in, v)
	case famROR:
		v := c.load(in)
		carry := uint8(c.P&Carry) << 7
		c.P.setFlag(Carry, v&0x01 != 0)
		v = v>>1 | carry
		c.P.checkNZ(v)
		c.store(in, v)

	case famBIT:
		v := c.load(in)
		c.P.setFlag(Zero, v&c.A == 0)
		c.P.setFlag(Negative, v&0x80 != 0)
		c.P.setFlag(Overflow, v&0x40 != 0)
	case famCompare:
		c.compare(c.reg(d.reg), c.load(in))

	case famBranch:
		c.branch(in, (c.P&d.flag != 0) == d.on)
	case famFlag:
		c.P.setFlag(d.flag, d.on)

	case famJMP:
		c.PC = in.Operand.Addr
	case famJMPInd:
		c.jmpIndirect(in)
	case famJSR:
		c.push16(c.PC - 1)
		c.PC = in.Operand.Addr
	case famRTS:
		c.PC = c.pull16() + 1
	case famRTI:
		c.P = c.P.pulled(c.pull8())
		c.PC = c.pull16()
	case famBRK:
		// BRK skips a padding byte. Its 7 cycles are already accounted by
		// the clock table.
		c.PC++
		c.interrupt(IRQVector, true)

	case famPush:
		if d.reg == regP {
			c.push8(c.P.pushed(true))
		} else {
			c.push8(c.A)
		}
	case famPull:
		if d.reg == regP {
			c.P = c.P.pulled(c.pull8())
		} else {
			c.A = c.pull8()
			c.P.checkNZ(c.A)
		}

	case famNOP:

	default:
		log.ModCPU.PanicZ("unhandled opcode").
			Hex8("opcode", in.Opcode).
			Hex16("PC", in.PC).
			End()
	}
}

// load returns the operand value. Reading from a special page arms the
// post-read hook, which runs once the instruction is over.
func (c *CPU) load(in *Instruction) uint8 {
	var v uint8
	switch in.Operand.Kind {
	case OperAcc:
		v = c.A
	case OperImm:
		v = in.Operand.Imm
	case OperMem:
		v = c.Bus.Read8(in.Operand.Addr)
	default:
		log.ModCPU.PanicZ("instruction has no operand").
			Hex8("opcode", in.Opcode).
			Hex16("PC", in.PC).
			End()
	}
	in.Value = v
	in.Read = true
	return v
}

// store writes v back into the operand. Writes to 0x2000 and above go
// through the special write router.
func (c *CPU) store(in *Instruction, v uint8) {
	switch in.Operand.Kind {
	case OperAcc:
		c.A = v
	case OperMem:
		in.Wrote = true
		addr := in.Operand.Addr
		if addr >= 0x2000 {
			c.writeSpecial(addr, v)
			return
		}
		if loc, _ := c.Bus.Resolve(addr); loc != nil {
			*loc = v
		}
	default:
		log.ModCPU.PanicZ("store to a non-writable operand").
			Hex8("opcode", in.Opcode).
			Hex16("PC", in.PC).
			End()
	}
}

func (c *CPU) reg(r register) uint8 {
	switch r {
	case regA:
		return c.A
	case regX:
		return c.X
	case regY:
		return c.Y
	case regSP:
		return c.SP
	}
	return uint8(c.P)
}

func (c *CPU) setReg(r register, v uint8) {
	switch r {
	case regA:
		c.A = v
	case regX:
		c.X = v
	case regY:
		c.Y = v
	case regSP:
		c.SP = v
	default:
		c.P = P(v)
	}
}

func (c *CPU) adc(v uint8) {
	sum := uint16(c.A) + uint16(v) + uint16(c.P&Carry)
	res := uint8(sum)
	c.P.setFlag(Carry, sum > 0xFF)
	c.P.setFlag(Overflow, (c.A^res)&(v^res)&0x80 != 0)
	c.A = res
	c.P.checkNZ(res)
}

func (c *CPU) compare(reg, v uint8) {
	c.P.setFlag(Carry, reg >= v)
	c.P.checkNZ(reg - v)
}

// branch consumes the displacement byte and, if taken, jumps relative to the
// next instruction. Taking a branch costs 1 cycle, plus 1 if the target lies
// in another page.
func (c *CPU) branch(in *Instruction, taken bool) {
	c.PC++
	if !taken {
		return
	}
	next := c.PC
	c.PC = next + uint16(int8(in.Data[0]))
	c.Clocks++
	if next&0xFF00 != c.PC&0xFF00 {
		c.Clocks++
	}
}

func (c *CPU) jmpIndirect(in *Instruction) {
	if in.Data[0] == 0xFF {
		// The 6502 wraps the pointer fetch within its page, we don't.
		log.ModCPU.PanicZ("JMP indirect with a page-crossing pointer").
			Hex16("PC", in.PC).
			Hex16("ptr", in.Operand.Addr).
			End()
	}
	c.PC = c.Read16(in.Operand.Addr)
}

func (c *CPU) push8(v uint8) {
	c.RAM[0x100+uint16(c.SP)] = v
	c.SP--
}

func (c *CPU) push16(v uint16) {
	c.push8(uint8(v >> 8))
	c.push8(uint8(v))
}

func (c *CPU) pull8() uint8 {
	c.SP++
	return c.RAM[0x100+uint16(c.SP)]
}

func (c *CPU) pull16() uint16 {
	lo := c.pull8()
	hi := c.pull8()
	return uint16(hi)<<8 | uint16(lo)
}
