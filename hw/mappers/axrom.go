package mappers

import "nescore/ines"

var AxROM = MapperDesc{
	Name:            "AxROM",
	Load:            loadAxROM,
	PRGROMbanksz:    0x8000,
	HasBusConflicts: func(b *base) bool { return b.rom.SubMapper() == 2 },
}

type axrom struct {
	*base

	prgbank int
}

func (m *axrom) WritePRGROM(_ uint16, val uint8) {
	// 7  bit  0
	// ---- ----
	// xxxM xPPP
	//    |  |||
	//    |  +++- Select 32 KB PRG ROM bank for CPU $8000-$FFFF
	//    +------ Select 1 KB VRAM page for all 4 nametables
	prev := m.prgbank
	m.prgbank = int(val & 0x7)
	if prev != m.prgbank {
		m.selectPRGPage32KB(m.prgbank)
	}
	if val&0x10 == 0 {
		m.setNTMirroring(ines.OnlyAScreen)
	} else {
		m.setNTMirroring(ines.OnlyBScreen)
	}
}

func loadAxROM(b *base) error {
	axrom := &axrom{base: b}
	b.writePRG = axrom.WritePRGROM

	b.selectCHRPage8KB(0)
	b.selectPRGPage32KB(0)
	b.setNTMirroring(ines.OnlyAScreen)
	return nil
}
