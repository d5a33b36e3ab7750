package mappers

var CNROM = MapperDesc{
	Name:            "CNROM",
	Load:            loadCNROM,
	PRGROMbanksz:    0x8000,
	HasBusConflicts: func(b *base) bool { return b.rom.SubMapper() == 2 },
}

func loadCNROM(b *base) error {
	b.writePRG = func(_ uint16, val uint8) {
		// 7  bit  0
		// ---- ----
		// cccc ccCC
		// |||| ||||
		// ++++-++++- Select 8 KB CHR ROM bank for PPU $0000-$1FFF
		// CNROM only uses lowest 2 bits
		b.selectCHRPage8KB(int(val & 0b11))
	}

	b.selectPRGPage32KB(0)
	b.selectCHRPage8KB(0)
	return nil
}
