package hw

import (
	"nescore/hw/snapshot"
)

// SaveState copies the CPU registers and internal RAM into s.
func (c *CPU) SaveState(s *snapshot.NES) {
	s.CPU = snapshot.CPU{
		PC:     c.PC,
		SP:     c.SP,
		P:      uint8(c.P),
		A:      c.A,
		X:      c.X,
		Y:      c.Y,
		Clocks: c.Clocks,
	}
	s.RAM = c.RAM
}

// LoadState restores the CPU registers and internal RAM from s.
func (c *CPU) LoadState(s *snapshot.NES) {
	c.PC = s.CPU.PC
	c.SP = s.CPU.SP
	c.P = P(s.CPU.P)
	c.A = s.CPU.A
	c.X = s.CPU.X
	c.Y = s.CPU.Y
	c.Clocks = s.CPU.Clocks
	c.RAM = s.RAM
}

func (p *PPURegs) SaveState(s *snapshot.NES) {
	s.PPU = snapshot.PPU{
		PPUCTRL:    p.PPUCTRL.Value,
		PPUMASK:    p.PPUMASK.Value,
		PPUSTATUS:  p.PPUSTATUS.Value,
		OAMAddr:    p.OAMADDR.Value,
		OAMMem:     p.OAM,
		Scroll:     p.Scroll,
		Addr:       p.Addr,
		WriteLatch: p.writeLatch,
		ReadBuf:    p.readBuf,
		DataLatch:  p.latch[PPUDATA],
		VRAM:       p.VRAM,
	}
}

// LoadState restores the PPU registers, OAM and VRAM from s, and what the CPU
// reads from the registers.
func (p *PPURegs) LoadState(s *snapshot.NES) {
	p.PPUCTRL.Value = s.PPU.PPUCTRL
	p.PPUMASK.Value = s.PPU.PPUMASK
	p.PPUSTATUS.Value = s.PPU.PPUSTATUS
	p.OAMADDR.Value = s.PPU.OAMAddr
	p.OAM = s.PPU.OAMMem
	p.Scroll = s.PPU.Scroll
	p.Addr = s.PPU.Addr
	p.writeLatch = s.PPU.WriteLatch
	p.VRAM = s.PPU.VRAM

	p.latch[PPUCTRL] = p.PPUCTRL.Value
	p.latch[PPUMASK] = p.PPUMASK.Value
	p.latch[PPUSTATUS] = p.PPUSTATUS.Value
	p.latch[OAMADDR] = p.OAMADDR.Value
	p.latch[OAMDATA] = p.OAM[p.OAMADDR.Value]
	p.latch[PPUSCROLL] = p.Scroll[b2i(!p.writeLatch)]
	p.latch[PPUADDR] = uint8(p.Addr)
	if p.writeLatch {
		p.latch[PPUADDR] = uint8(p.Addr >> 8)
	}
	p.latch[PPUDATA] = s.PPU.DataLatch
	p.readBuf = s.PPU.ReadBuf
}
