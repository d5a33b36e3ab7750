package mappers

import (
	"fmt"

	"nescore/emu/log"
	"nescore/hw"
	"nescore/ines"
)

var modMapper = log.NewModule("mapper")

// Load creates the mapper of rom, maps the cartridge memory on the CPU bus
// and connects it to cpu.
func Load(rom *ines.Rom, cpu *hw.CPU) (hw.Mapper, error) {
	desc, ok := All[rom.Mapper()]
	if !ok {
		return nil, fmt.Errorf("unsupported mapper %d", rom.Mapper())
	}
	base, err := newbase(desc, rom, cpu)
	if err != nil {
		return nil, fmt.Errorf("mapper initialization failed: %w", err)
	}
	if err := base.load(); err != nil {
		return nil, fmt.Errorf("failed to load mapper %s: %w", desc.Name, err)
	}
	cpu.SetMapper(base)
	modMapper.InfoZ("mapper loaded").
		String("name", desc.Name).
		Int("prg", len(rom.PRG)).
		Int("prgbanks", max(1, base.prgbanks(desc.PRGROMbanksz))).
		Int("chr", len(rom.CHR)).
		End()
	return base, nil
}

type MapperDesc struct {
	Name            string
	Load            func(*base) error
	PRGROMbanksz    int // size of the switchable PRG ROM bank
	HasBusConflicts func(*base) bool
}

var All = map[uint8]MapperDesc{
	0:  NROM,
	1:  MMC1,
	2:  UxROM,
	3:  CNROM,
	7:  AxROM,
	66: GxROM,
	69: FME7,
}
