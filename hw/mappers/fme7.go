package mappers

import (
	"nescore/hw/hwio"
	"nescore/ines"
)

// FME7 is the Sunsoft FME-7 (mapper 69). The 5B audio expansion is not
// emulated.
var FME7 = MapperDesc{
	Name:         "FME-7",
	Load:         loadFME7,
	PRGROMbanksz: 0x2000,
}

type fme7 struct {
	*base

	cmd uint8 // selected internal register

	chr [8]int // 1KB CHR banks

	irqEnabled     bool
	counterEnabled bool
	counter        uint16
	irq            bool
	lastClocks     int64 // CPU clock of the last counter update
}

func (m *fme7) WritePRGROM(addr uint16, val uint8) {
	switch addr & 0xE000 {
	case 0x8000:
		m.cmd = val & 0x0F
	case 0xA000:
		m.writeParam(val)
	default:
		// $C000-$FFFF: audio registers.
		modMapper.DebugZ("audio register write").
			String("mapper", m.desc.Name).
			Hex16("addr", addr).
			Hex8("val", val).
			End()
	}
}

func (m *fme7) writeParam(val uint8) {
	switch m.cmd {
	case 0, 1, 2, 3, 4, 5, 6, 7:
		m.chr[m.cmd] = int(val)
		m.log.Debugf("CHR bank %d (1KB) at PPU $%04X", val, int(m.cmd)*0x400)
	case 8:
		m.writePRG0(val)
	case 9, 0xA, 0xB:
		m.selectPRGPage8KB(int(m.cmd-9), int(val&0x3F))
	case 0xC:
		switch val & 0x03 {
		case 0:
			m.setNTMirroring(ines.VertMirroring)
		case 1:
			m.setNTMirroring(ines.HorzMirroring)
		case 2:
			m.setNTMirroring(ines.OnlyAScreen)
		case 3:
			m.setNTMirroring(ines.OnlyBScreen)
		}
	case 0xD:
		// 7  bit  0
		// ---- ----
		// Cxxx xxxI
		// |       |
		// |       +- IRQ enable
		// +--------- IRQ counter enable
		// Any write acknowledges a pending IRQ.
		m.tick()
		m.irqEnabled = hwio.GetBit8(val, 0)
		m.counterEnabled = hwio.GetBit8(val, 7)
		m.irq = false
	case 0xE:
		m.tick()
		m.counter = m.counter&0xFF00 | uint16(val)
	case 0xF:
		m.tick()
		m.counter = m.counter&0x00FF | uint16(val)<<8
	}
}

// writePRG0 selects what is mapped at $6000-$7FFF.
func (m *fme7) writePRG0(val uint8) {
	// 7  bit  0
	// ---- ----
	// ERbB BBBB
	// |||| ||||
	// ||++-++++- The bank number to select at CPU $6000 - $7FFF
	// |+------- RAM / ROM Select Bit
	// |         0 = PRG ROM
	// |         1 = PRG RAM
	// +-------- RAM Enable Bit (6264 +CE line)
	//           0 = PRG RAM Disabled
	//           1 = PRG RAM Enabled
	switch {
	case !hwio.GetBit8(val, 6):
		m.mapPRG(0x6000, 0x2000, int(val&0x3F))
		m.enablePRGRAM(false)
	case hwio.GetBit8(val, 7):
		m.mapPRGRAM()
	default:
		m.cpu.Bus.Unmap(0x6000, 0x7FFF)
		m.enablePRGRAM(false)
	}
}

// tick brings the IRQ counter up to date with the CPU clock. The counter
// decrements once per CPU cycle and raises an IRQ when it wraps from $0000 to
// $FFFF.
func (m *fme7) tick() {
	now := m.cpu.Clocks
	elapsed := now - m.lastClocks
	m.lastClocks = now
	if !m.counterEnabled || elapsed <= 0 {
		return
	}

	wrapped := elapsed > int64(m.counter)
	m.counter -= uint16(elapsed)
	if wrapped && m.irqEnabled {
		m.irq = true
	}
}

func (m *fme7) pollIRQ() bool {
	m.tick()
	return m.irq
}

func loadFME7(b *base) error {
	m := &fme7{base: b}
	b.writePRG = m.WritePRGROM
	b.irqPending = m.pollIRQ

	m.writePRG0(0)
	for slot := range 3 {
		b.selectPRGPage8KB(slot, 0)
	}
	b.selectPRGPage8KB(3, -1)
	b.selectCHRPage8KB(0)
	return nil
}
