package emu

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"nescore/ines"
)

// romImage builds an NROM image with a single 16KB PRG bank, seen by the CPU
// at $C000-$FFFF (and mirrored at $8000). code maps CPU addresses to the bytes
// stored there.
func romImage(mapper uint8, code map[uint16][]byte, reset, nmi, irq uint16) []byte {
	prg := make([]byte, 0x4000)
	for addr, b := range code {
		copy(prg[addr&0x3FFF:], b)
	}
	for off, vec := range map[int]uint16{0x3FFA: nmi, 0x3FFC: reset, 0x3FFE: irq} {
		prg[off] = uint8(vec)
		prg[off+1] = uint8(vec >> 8)
	}

	hdr := []byte{'N', 'E', 'S', 0x1A, 1, 1, mapper << 4, mapper & 0xF0, 0, 0, 0, 0, 0, 0, 0, 0}
	buf := bytes.NewBuffer(hdr)
	buf.Write(prg)
	buf.Write(make([]byte, 0x2000))
	return buf.Bytes()
}

func writeRom(t *testing.T, dir, name string, img []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, img, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func powerUp(t *testing.T, img []byte) *NES {
	t.Helper()

	rom := new(ines.Rom)
	if _, err := rom.ReadFrom(bytes.NewReader(img)); err != nil {
		t.Fatal(err)
	}
	nes, err := PowerUp(rom)
	if err != nil {
		t.Fatal(err)
	}
	return nes
}

// Test programs.
var (
	// Enables NMI and loops forever, the NMI handler increments $10.
	nmiProgram = map[uint16][]byte{
		0xC000: {0xA9, 0x80},       // LDA #$80
		0xC002: {0x8D, 0x00, 0x20}, // STA $2000
		0xC005: {0x4C, 0x05, 0xC0}, // JMP $C005
		0xC010: {0xE6, 0x10},       // INC $10
		0xC012: {0x40},             // RTI
	}

	// Polls PPUSTATUS, increments $11 each time vblank is seen.
	vblankProgram = map[uint16][]byte{
		0xC000: {0xAD, 0x02, 0x20}, // LDA $2002
		0xC003: {0x10, 0xFB},       // BPL $C000
		0xC005: {0xE6, 0x11},       // INC $11
		0xC007: {0x4C, 0x00, 0xC0}, // JMP $C000
	}

	// Reads the first 2 bits of pad 1 into $11 and $12.
	padProgram = map[uint16][]byte{
		0xC000: {0xA9, 0x01},       // LDA #$01
		0xC002: {0x8D, 0x16, 0x40}, // STA $4016
		0xC005: {0xA9, 0x00},       // LDA #$00
		0xC007: {0x8D, 0x16, 0x40}, // STA $4016
		0xC00A: {0xAD, 0x16, 0x40}, // LDA $4016
		0xC00D: {0x85, 0x11},       // STA $11
		0xC00F: {0xAD, 0x16, 0x40}, // LDA $4016
		0xC012: {0x85, 0x12},       // STA $12
		0xC014: {0x4C, 0x14, 0xC0}, // JMP $C014
	}

	// Programs the FME-7 IRQ counter to $1000 cycles, the IRQ handler
	// increments $10 and acknowledges.
	irqProgram = map[uint16][]byte{
		0xC000: {0xA9, 0x0E},       // LDA #$0E
		0xC002: {0x8D, 0x00, 0x80}, // STA $8000
		0xC005: {0xA9, 0x00},       // LDA #$00
		0xC007: {0x8D, 0x00, 0xA0}, // STA $A000
		0xC00A: {0xA9, 0x0F},       // LDA #$0F
		0xC00C: {0x8D, 0x00, 0x80}, // STA $8000
		0xC00F: {0xA9, 0x10},       // LDA #$10
		0xC011: {0x8D, 0x00, 0xA0}, // STA $A000
		0xC014: {0xA9, 0x0D},       // LDA #$0D
		0xC016: {0x8D, 0x00, 0x80}, // STA $8000
		0xC019: {0xA9, 0x81},       // LDA #$81
		0xC01B: {0x8D, 0x00, 0xA0}, // STA $A000
		0xC01E: {0x58},             // CLI
		0xC01F: {0x4C, 0x1F, 0xC0}, // JMP $C01F
		0xC030: {0xE6, 0x10},       // INC $10
		0xC032: {0x8D, 0x00, 0xA0}, // STA $A000
		0xC035: {0x40},             // RTI
	}

	crashProgram = map[uint16][]byte{
		0xC000: {0xEA}, // NOP
		0xC001: {0x02}, // illegal
	}
)
