package hw

import (
	"nescore/emu/log"
)

// Side-effect registers outside of the PPU range.
const (
	regOAMDMA = 0x4014
	regJOY1   = 0x4016
	regJOY2   = 0x4017
)

// writeSpecial routes a CPU write at addr >= 0x2000 to the device owning it.
func (c *CPU) writeSpecial(addr uint16, val uint8) {
	switch {
	case addr < 0x2000:
		c.Bus.Write8(addr, val)

	case addr < 0x4000:
		c.PPU.WriteReg(uint8(addr&7), val)

	case addr == regOAMDMA:
		c.oamDMA(val)

	case addr == regJOY1:
		c.Input.WriteStrobe(val)

	case addr < 0x4020:
		// APU and test registers, audio is not emulated.
		log.ModHwIo.DebugZ("write to unhandled register").
			Hex16("addr", addr).
			Hex8("val", val).
			End()

	default:
		c.Mapper.WriteSpecial(addr, val)
	}
}

// postSpecialRead triggers the side effects of a CPU read on a special page,
// after the instruction that read it has completed.
func (c *CPU) postSpecialRead(addr uint16) {
	switch {
	case addr >= 0x2000 && addr < 0x4000:
		c.PPU.ReadReg(uint8(addr & 7))

	case addr == regJOY1:
		c.Input.PostRead(0)
	case addr == regJOY2:
		c.Input.PostRead(1)

	case addr >= 0x4020:
		if pr, ok := c.Mapper.(PostReader); ok {
			pr.PostRead(addr)
		}
	}
}

// oamDMA copies the 256 bytes page at page<<8 into the PPU OAM. The CPU is
// stalled for 513 cycles, plus 1 if the transfer starts on an odd cycle.
func (c *CPU) oamDMA(page uint8) {
	base := uint16(page) << 8
	for i := range c.dmaBuf {
		c.dmaBuf[i] = c.Bus.Read8(base + uint16(i))
	}
	c.PPU.WriteOAM(c.dmaBuf[:])

	stall := int64(513)
	if c.Clocks&1 == 1 {
		stall++
	}
	log.ModDMA.DebugZ("OAM DMA").
		Hex8("page", page).
		Int64("clocks", c.Clocks).
		Int64("stall", stall).
		Blob("sprite0", c.dmaBuf[:4]).
		End()
	c.Clocks += stall
}
