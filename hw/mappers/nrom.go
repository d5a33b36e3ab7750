package mappers

var NROM = MapperDesc{
	Name:         "NROM",
	Load:         loadNROM,
	PRGROMbanksz: 0x4000,
}

func loadNROM(b *base) error {
	// 16KB PRGROM is mirrored at $C000.
	b.selectPRGPage32KB(0)
	b.selectCHRPage8KB(0)
	return nil
}
