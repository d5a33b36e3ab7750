package hw

import (
	"nescore/emu/log"
	"nescore/hw/hwio"
)

// CPU-exposed PPU register offsets, mapped at 0x2000-0x3FFF with mirrors.
const (
	PPUCTRL = iota
	PPUMASK
	PPUSTATUS
	OAMADDR
	OAMDATA
	PPUSCROLL
	PPUADDR
	PPUDATA
)

const (
	// PPUCTRL bits

	// Generate an NMI at the start of the
	// vertical blanking interval (0: off; 1: on)
	nmi = 7

	// VRAM address increment per CPU read/write of PPUDATA
	// (0: add 1, going across; 1: add 32, going down)
	vramIncr = 2

	// PPUSTATUS bits

	// Vertical blank has started (0: not in vblank; 1: in vblank).
	// Cleared after reading $2002 and at the pre-render line.
	vblank = 7
)

// PPURegs is the register file of a PPU without a renderer. It keeps the
// state the CPU can observe: control, status, OAM and a flat VRAM behind
// PPUDATA.
type PPURegs struct {
	PPUCTRL   hwio.Reg8
	PPUMASK   hwio.Reg8
	PPUSTATUS hwio.Reg8
	OAMADDR   hwio.Reg8
	OAMDATA   hwio.Reg8
	PPUSCROLL hwio.Reg8
	PPUADDR   hwio.Reg8
	PPUDATA   hwio.Reg8

	regs  [8]*hwio.Reg8
	latch [8]byte // values read by the CPU

	OAM [256]byte

	Scroll     [2]uint8
	Addr       uint16
	writeLatch bool // second write to PPUSCROLL/PPUADDR

	VRAM    [0x4000]byte
	readBuf uint8
}

func NewPPURegs() *PPURegs {
	p := &PPURegs{}
	p.PPUCTRL = hwio.Reg8{Name: "PPUCTRL", Flags: hwio.WriteOnlyFlag}
	p.PPUMASK = hwio.Reg8{Name: "PPUMASK", Flags: hwio.WriteOnlyFlag}
	p.PPUSTATUS = hwio.Reg8{Name: "PPUSTATUS", Flags: hwio.ReadOnlyFlag, ReadCb: p.readPPUSTATUS}
	p.OAMADDR = hwio.Reg8{Name: "OAMADDR", Flags: hwio.WriteOnlyFlag, WriteCb: p.writeOAMADDR}
	p.OAMDATA = hwio.Reg8{Name: "OAMDATA", WriteCb: p.writeOAMDATA}
	p.PPUSCROLL = hwio.Reg8{Name: "PPUSCROLL", Flags: hwio.WriteOnlyFlag, WriteCb: p.writePPUSCROLL}
	p.PPUADDR = hwio.Reg8{Name: "PPUADDR", Flags: hwio.WriteOnlyFlag, WriteCb: p.writePPUADDR}
	p.PPUDATA = hwio.Reg8{Name: "PPUDATA", ReadCb: p.readPPUDATA, WriteCb: p.writePPUDATA}

	p.regs = [8]*hwio.Reg8{
		&p.PPUCTRL, &p.PPUMASK, &p.PPUSTATUS, &p.OAMADDR,
		&p.OAMDATA, &p.PPUSCROLL, &p.PPUADDR, &p.PPUDATA,
	}
	return p
}

func (p *PPURegs) Registers() []byte {
	return p.latch[:]
}

// Reset clears the registers. OAM and VRAM are left untouched.
func (p *PPURegs) Reset() {
	for _, r := range p.regs {
		r.Value = 0
	}
	p.latch = [8]byte{}
	p.Scroll = [2]uint8{}
	p.Addr = 0
	p.writeLatch = false
	p.readBuf = 0
}

func (p *PPURegs) WriteReg(reg, val uint8) {
	log.ModPPU.DebugZ("write register").
		Uint("reg", uint(reg)).
		Hex8("val", val).
		End()

	r := p.regs[reg&7]
	r.Write8(val)

	// Write-only registers read back the last written value.
	if r.Flags&hwio.WriteOnlyFlag != 0 {
		p.latch[reg&7] = r.Value
	}
}

func (p *PPURegs) ReadReg(reg uint8) {
	p.regs[reg&7].PostRead()
}

func (p *PPURegs) readPPUSTATUS(uint8) {
	hwio.ClearBit8(&p.PPUSTATUS.Value, vblank)
	p.latch[PPUSTATUS] = p.PPUSTATUS.Value
	p.writeLatch = false
}

func (p *PPURegs) writeOAMADDR(_, val uint8) {
	p.latch[OAMDATA] = p.OAM[val]
}

func (p *PPURegs) writeOAMDATA(_, val uint8) {
	p.OAM[p.OAMADDR.Value] = val
	p.OAMADDR.Value++
	p.latch[OAMDATA] = p.OAM[p.OAMADDR.Value]
}

func (p *PPURegs) writePPUSCROLL(_, val uint8) {
	p.Scroll[b2i(p.writeLatch)] = val
	p.writeLatch = !p.writeLatch
}

func (p *PPURegs) writePPUADDR(_, val uint8) {
	if !p.writeLatch {
		p.Addr = uint16(val&0x3F)<<8 | p.Addr&0x00FF
	} else {
		p.Addr = p.Addr&0xFF00 | uint16(val)
		p.latchData()
	}
	p.writeLatch = !p.writeLatch
}

func (p *PPURegs) readPPUDATA(uint8) {
	p.incrAddr()
}

func (p *PPURegs) writePPUDATA(_, val uint8) {
	p.VRAM[p.Addr&0x3FFF] = val
	p.incrAddr()
}

// WriteOAM copies an OAM DMA transfer into OAM, starting at OAMADDR.
func (p *PPURegs) WriteOAM(buf []byte) {
	for _, b := range buf {
		p.OAM[p.OAMADDR.Value] = b
		p.OAMADDR.Value++
	}
	p.latch[OAMDATA] = p.OAM[p.OAMADDR.Value]
}

// SetVBlank sets or clears the vblank status flag.
func (p *PPURegs) SetVBlank(on bool) {
	if on {
		hwio.SetBit8(&p.PPUSTATUS.Value, vblank)
	} else {
		hwio.ClearBit8(&p.PPUSTATUS.Value, vblank)
	}
	p.latch[PPUSTATUS] = p.PPUSTATUS.Value
}

// NMIEnabled reports whether an NMI must be raised at the start of vblank.
func (p *PPURegs) NMIEnabled() bool {
	return hwio.GetBit8(p.PPUCTRL.Value, nmi)
}

func (p *PPURegs) incrAddr() {
	if hwio.GetBit8(p.PPUCTRL.Value, vramIncr) {
		p.Addr += 32
	} else {
		p.Addr++
	}
	p.Addr &= 0x3FFF
	p.latchData()
}

// latchData loads the PPUDATA read buffer. Reads are delayed by one access,
// except for the palette.
func (p *PPURegs) latchData() {
	if p.Addr >= 0x3F00 {
		p.latch[PPUDATA] = p.VRAM[p.Addr]
	} else {
		p.latch[PPUDATA] = p.readBuf
	}
	p.readBuf = p.VRAM[p.Addr]
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
