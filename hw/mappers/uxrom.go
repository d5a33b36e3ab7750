package mappers

var UxROM = MapperDesc{
	Name:            "UxROM",
	Load:            loadUxROM,
	PRGROMbanksz:    0x4000,
	HasBusConflicts: func(b *base) bool { return b.rom.SubMapper() == 2 },
}

type uxrom struct {
	*base

	prgbank  int
	bankmask uint8
}

func (m *uxrom) WritePRGROM(addr uint16, val uint8) {
	// 7  bit  0
	// ---- ----
	// xxxx pPPP
	//      ||||
	//      ++++- Select 16 KB PRG ROM bank for CPU $8000-$BFFF
	//            (UNROM uses bits 2-0; UOROM uses bits 3-0)
	prev := m.prgbank
	m.prgbank = int(val & m.bankmask)
	if prev != m.prgbank {
		m.selectPRGPage16KB(0, m.prgbank)
		modMapper.DebugZ("PRGROM bank switch").
			String("mapper", m.desc.Name).
			Int("prev", prev).
			Int("new", m.prgbank).
			End()
	}
}

func loadUxROM(b *base) error {
	uxrom := &uxrom{
		base:     b,
		bankmask: uint8(b.prgbanks(0x4000)) - 1,
	}
	b.writePRG = uxrom.WritePRGROM

	b.selectCHRPage8KB(0)
	b.selectPRGPage16KB(0, 0)
	b.selectPRGPage16KB(1, -1)
	return nil
}
