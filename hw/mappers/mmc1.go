package mappers

import (
	"nescore/hw/hwio"
	"nescore/ines"
)

var MMC1 = MapperDesc{
	Name:         "MMC1",
	Load:         loadMMC1,
	PRGROMbanksz: 0x4000,
}

type mmc1 struct {
	*base

	serial  shiftReg // shift register
	counter uint8    // count of bits shifted

	// CTRL reg bits
	chrmode uint8
	prgmode uint8
	ntm     uint8

	// CHR reg bits
	chrbank0 int
	chrbank1 int

	// PRG reg bits
	prgbank int
}

type shiftReg uint8

func (sr shiftReg) push(val uint8) shiftReg {
	sr >>= 1
	sr |= shiftReg((val << 4) & 0x10)
	return sr
}

// WritePRGROM feeds the serial port. Each instruction writes at most once, so
// the consecutive cycles writes of read-modify-write instructions never reach
// the mapper.
func (m *mmc1) WritePRGROM(addr uint16, val uint8) {
	if hwio.GetBit8(val, 7) {
		// if the reset bit is set:
		//	- ignore data bit
		//	- reset shift register (so that the next write is the "first" write)
		//	- bits 2,3 of control reg are set (16k PRG mode, $8000 swappable)
		//	- other bits of $8000 (and other regs) are unchanged
		m.serial = 0
		m.counter = 0
		m.prgmode = 0b11
		m.remap()
		return
	}

	m.serial = m.serial.push(val)
	m.counter++
	if m.counter == 5 {
		m.writeREG(addr, uint8(m.serial))
		m.remap()
		m.serial = 0
		m.counter = 0
	}
}

func (m *mmc1) writeREG(addr uint16, val uint8) {
	switch (addr & 0x6000) >> 13 {
	case 0:
		m.writeCTRL(val)
	case 1:
		m.chrbank0 = int(val & 0b11111)
		m.log.Debugf("CHR0 reg %02X", val)
	case 2:
		m.chrbank1 = int(val & 0b11111)
		m.log.Debugf("CHR1 reg %02X", val)
	case 3:
		m.writePRGREG(val)
	}
}

func (m *mmc1) writeCTRL(val uint8) {
	// 4bit0
	// -----
	// CPPMM
	// |||||
	// |||++- Mirroring (0: one-screen, lower bank; 1: one-screen, upper bank;
	// |||               2: vertical; 3: horizontal)
	// |++--- PRG ROM bank mode (0, 1: switch 32 KB at $8000, ignoring low bit of bank number;
	// |                         2: fix first bank at $8000 and switch 16 KB bank at $C000;
	// |                         3: fix last bank at $C000 and switch 16 KB bank at $8000)
	// +----- CHR ROM bank mode (0: switch 8 KB at a time; 1: switch two separate 4 KB banks)
	m.chrmode = (val & 0x10) >> 4
	m.prgmode = (val & 0x0C) >> 2
	m.ntm = val & 0x03

	switch m.ntm {
	case 0:
		m.setNTMirroring(ines.OnlyAScreen)
	case 1:
		m.setNTMirroring(ines.OnlyBScreen)
	case 2:
		m.setNTMirroring(ines.VertMirroring)
	case 3:
		m.setNTMirroring(ines.HorzMirroring)
	}

	modMapper.DebugZ("Write CTRL reg").String("mapper", m.desc.Name).
		Hex8("val", val).
		Uint("prgmode", uint(m.prgmode)).
		Uint("chrmode", uint(m.chrmode)).
		End()
}

func (m *mmc1) writePRGREG(val uint8) {
	// 4bit0
	// -----
	// RPPPP
	// |||||
	// |++++- Select 16 KB PRG ROM bank (low bit ignored in 32 KB mode)
	// +----- PRG RAM chip enable (0: enabled; 1: disabled)
	m.prgbank = int(val & 0b1111)
	m.enablePRGRAM(!hwio.GetBit8(val, 4))
	m.log.Debugf("PRG reg %02X", val)
}

func (m *mmc1) remap() {
	switch m.prgmode {
	case 0, 1:
		// ignore low bit of bank number
		m.selectPRGPage32KB(m.prgbank >> 1)
	case 2:
		m.selectPRGPage16KB(0, 0)
		m.selectPRGPage16KB(1, m.prgbank)
	case 3:
		m.selectPRGPage16KB(0, m.prgbank)
		m.selectPRGPage16KB(1, -1)
	}

	switch m.chrmode {
	case 0:
		m.selectCHRPage8KB(m.chrbank0 >> 1)
	case 1:
		m.selectCHRPage4KB(0, m.chrbank0)
		m.selectCHRPage4KB(1, m.chrbank1)
	}
}

func loadMMC1(b *base) error {
	mmc1 := &mmc1{base: b}
	b.writePRG = mmc1.WritePRGROM

	// On powerup: bits 2,3 of $8000 are set (this ensures the $8000 is bank 0,
	// and $C000 is the last bank - needed for SEROM/SHROM/SH1ROM which do no
	// support banking)
	mmc1.writeREG(0x8000, 0x0C)
	mmc1.writeREG(0xA000, 0)
	mmc1.writeREG(0xC000, 0)
	mmc1.writeREG(0xE000, 0)
	mmc1.remap()
	return nil
}
