package mappers

import (
	"fmt"

	"nescore/emu/log"
	"nescore/hw"
	"nescore/hw/hwio"
	"nescore/ines"
)

// base holds what all mappers share: PRG RAM at 0x6000-0x7FFF, PRG ROM
// banking at 0x8000-0xFFFF and the CHR bank selection. base implements
// hw.Mapper, register writes in ROM space are forwarded to writePRG.
type base struct {
	desc MapperDesc

	rom *ines.Rom
	cpu *hw.CPU

	PRGRAM     []byte
	ramEnabled bool
	chrbanks   [2]int // 4KB CHR banks at PPU $0000 and $1000
	mirroring  ines.NTMirroring
	writePRG   func(addr uint16, val uint8)
	irqPending func() bool

	hasBusConflicts bool

	log log.Entry
}

func ispow2(n int) bool {
	return n&(n-1) == 0
}

func newbase(desc MapperDesc, rom *ines.Rom, cpu *hw.CPU) (*base, error) {
	if !ispow2(len(rom.PRG)) {
		return nil, fmt.Errorf("only support PRGROM with power of 2 size, got %d", len(rom.PRG))
	}

	return &base{
		desc:      desc,
		rom:       rom,
		cpu:       cpu,
		mirroring: rom.Mirroring(),
		log:       modMapper.WithField("mapper", desc.Name),
	}, nil
}

func (b *base) load() error {
	if b.desc.HasBusConflicts != nil {
		b.hasBusConflicts = b.desc.HasBusConflicts(b)
	}
	b.mapPRGRAM()
	return b.desc.Load(b)
}

func (b *base) mapPRGRAM() {
	if b.PRGRAM == nil {
		b.PRGRAM = make([]byte, 0x2000)
	}
	b.cpu.Bus.MapMemorySlice("PRGRAM", 0x6000, 0x7FFF, b.PRGRAM, false)
	b.ramEnabled = true
}

// enablePRGRAM sets whether writes to PRG RAM are accepted. When disabled,
// reads are still served since open bus is not emulated.
func (b *base) enablePRGRAM(on bool) {
	if on != b.ramEnabled {
		b.log.Debugf("PRG RAM enabled: %t", on)
	}
	b.ramEnabled = on
}

// WriteSpecial implements hw.Mapper.
func (b *base) WriteSpecial(addr uint16, val uint8) {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		if b.ramEnabled {
			b.PRGRAM[addr-0x6000] = val
		}
	case addr >= 0x8000 && b.writePRG != nil:
		if b.hasBusConflicts {
			val &= b.cpu.Bus.Peek8(addr)
		}
		b.writePRG(addr, val)
	default:
		modMapper.DebugZ("unhandled write").
			String("mapper", b.desc.Name).
			Hex16("addr", addr).
			Hex8("val", val).
			End()
	}
}

// IRQPending implements hw.Mapper.
func (b *base) IRQPending() bool {
	return b.irqPending != nil && b.irqPending()
}

func (b *base) prgbanks(size int) int {
	return len(b.rom.PRG) / size
}

// selectPRGPage16KB maps the 16KB PRGROM bank at slot (0: $8000, 1: $C000).
// Negative bank numbers count from the last bank.
func (b *base) selectPRGPage16KB(slot, bank int) {
	b.mapPRG(0x8000+uint16(slot)*0x4000, 0x4000, bank)
}

// selectPRGPage8KB maps the 8KB PRGROM bank at slot (0: $8000 to 3: $E000).
func (b *base) selectPRGPage8KB(slot, bank int) {
	b.mapPRG(0x8000+uint16(slot)*0x2000, 0x2000, bank)
}

// selectPRGPage32KB maps a 32KB PRGROM bank at $8000. Smaller roms are
// mirrored.
func (b *base) selectPRGPage32KB(bank int) {
	if len(b.rom.PRG) < 0x8000 {
		b.cpu.Bus.MapMem(0x8000, &hwio.Mem{
			Name:  "PRGROM",
			Data:  b.rom.PRG,
			Flags: hwio.MemFlagReadOnly | hwio.MemFlagNoROLog,
			VSize: 0x8000,
		})
		return
	}
	b.mapPRG(0x8000, 0x8000, bank)
}

func (b *base) mapPRG(addr uint16, size, bank int) {
	nbanks := b.prgbanks(size)
	if bank < 0 {
		bank += nbanks
	}
	bank %= nbanks
	b.log.Debugf("PRG bank %d (%dKB) at $%04X", bank, size>>10, addr)
	start := bank * size
	b.cpu.Bus.MapMem(addr, &hwio.Mem{
		Name:  fmt.Sprintf("PRGROM%d", bank),
		Data:  b.rom.PRG[start : start+size],
		Flags: hwio.MemFlagReadOnly | hwio.MemFlagNoROLog,
	})
}

// selectCHRPage4KB records the CHR bank selected for the pattern table at
// slot (0: $0000, 1: $1000). Pattern tables aren't rendered, only the
// selection is tracked.
func (b *base) selectCHRPage4KB(slot, bank int) {
	prev := b.chrbanks[slot]
	b.chrbanks[slot] = bank
	if prev != bank {
		modMapper.DebugZ("CHRROM bank switch").
			String("mapper", b.desc.Name).
			Int("slot", slot).
			Int("prev", prev).
			Int("new", bank).
			End()
	}
}

// selectCHRPage8KB records the 8KB CHR bank, as two consecutive 4KB banks.
func (b *base) selectCHRPage8KB(bank int) {
	b.selectCHRPage4KB(0, bank*2)
	b.selectCHRPage4KB(1, bank*2+1)
}

// setNTMirroring records the nametable arrangement selected by the mapper.
func (b *base) setNTMirroring(m ines.NTMirroring) {
	if m != b.mirroring {
		b.log.Debugf("nametable mirroring %s", m)
	}
	b.mirroring = m
}
