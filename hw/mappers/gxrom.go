package mappers

var GxROM = MapperDesc{
	Name:         "GxROM",
	Load:         loadGxROM,
	PRGROMbanksz: 0x8000,
}

func loadGxROM(b *base) error {
	prgbank := 0
	b.writePRG = func(_ uint16, val uint8) {
		// 7  bit  0
		// ---- ----
		// xxPP xxCC
		//   ||   ||
		//   ||   ++- Select 8 KB CHR ROM bank for PPU $0000-$1FFF
		//   ++------ Select 32 KB PRG ROM bank for CPU $8000-$FFFF
		if bank := int(val>>4) & 0b11; bank != prgbank {
			prgbank = bank
			b.selectPRGPage32KB(bank)
		}
		b.selectCHRPage8KB(int(val & 0b11))
	}

	b.selectPRGPage32KB(0)
	b.selectCHRPage8KB(0)
	return nil
}
