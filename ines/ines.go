// package ines implements a Reader for roms in the iNES file format, used for
// for the distribution of NES binary programs.
package ines

import (
	"fmt"
	"io"
	"os"
)

type Rom struct {
	header
	Trainer []byte // Trainer, 512 bytes if present, or empty.
	PRG     []byte // PRG is PRG ROM data (length is multiples of 16k)
	CHR     []byte // CHR is CHR ROM data (length is multiples of 8k)
}

// Open loads a rom from file.
func Open(path string) (*Rom, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rom := new(Rom)
	if _, err := rom.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rom, nil
}

// ReadFrom implements io.ReaderFrom interface
func (rom *Rom) ReadFrom(r io.Reader) (int64, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}

	// header
	var off int
	if err := rom.decode(buf); err != nil {
		return 0, fmt.Errorf("failed to decode header: %w", err)
	}
	off += 16

	// trainer
	if rom.HasTrainer() {
		if len(buf) < off+512 {
			return 0, fmt.Errorf("incomplete TRAINER section")
		}
		rom.Trainer = buf[off : off+512]
		off += 512
	}

	// PRG rom data
	if len(buf) < off+rom.prgsz {
		return 0, fmt.Errorf("incomplete PRG section")
	}
	rom.PRG = buf[off : off+rom.prgsz]
	off += rom.prgsz

	// CHR rom data
	if len(buf) < off+rom.chrsz {
		return 0, fmt.Errorf("incomplete CHR section")
	}
	rom.CHR = buf[off : off+rom.chrsz]
	off += rom.chrsz

	return int64(len(buf)), nil
}

const Magic = "NES\x1a"

func (hdr *header) decode(p []byte) error {
	if len(p) < 16 {
		return fmt.Errorf("too small, needs 16 bytes")
	}
	if string(p[:4]) != Magic {
		return fmt.Errorf("invalid magic number")
	}
	copy(hdr.raw[:], p[:16])

	hdr.prgsz = int(hdr.raw[4]) * 16384
	hdr.chrsz = int(hdr.raw[5]) * 8192
	if hdr.prgsz == 0 {
		return fmt.Errorf("no PRG ROM")
	}
	return nil
}

type header struct {
	raw   [16]byte
	prgsz int
	chrsz int
}

// Has Trainer indicates the presence of a trainer section in the rom.
func (hdr *header) HasTrainer() bool {
	return hdr.raw[6]&0x04 != 0
}

// HasPersistent indicates the presence of persistent memory in the rom.
func (hdr *header) HasPersistent() bool {
	return hdr.raw[6]&0x02 != 0
}

// IsNES20 reports whether the header uses the NES 2.0 extensions.
func (hdr *header) IsNES20() bool {
	return hdr.raw[7]&0x0C == 0x08
}

// Mapper returns the mapper number.
func (hdr *header) Mapper() uint8 {
	return hdr.raw[7]&0xF0 | hdr.raw[6]>>4
}

// SubMapper returns the submapper number, only defined for NES 2.0 roms.
func (hdr *header) SubMapper() uint8 {
	if !hdr.IsNES20() {
		return 0
	}
	return hdr.raw[8] >> 4
}

// PRGRAMSize returns the size of PRG RAM. iNES 1.0 roms specify 0 to mean 8KB.
func (hdr *header) PRGRAMSize() int {
	if n := int(hdr.raw[8]); n != 0 && !hdr.IsNES20() {
		return n * 0x2000
	}
	return 0x2000
}

type NTMirroring uint8

const (
	HorzMirroring NTMirroring = iota
	VertMirroring
	FourScreen

	// Set by mappers only.
	OnlyAScreen
	OnlyBScreen
)

func (m NTMirroring) String() string {
	switch m {
	case HorzMirroring:
		return "horizontal"
	case VertMirroring:
		return "vertical"
	case FourScreen:
		return "four-screen"
	case OnlyAScreen:
		return "one-screen A"
	case OnlyBScreen:
		return "one-screen B"
	}
	return fmt.Sprintf("NTMirroring(%d)", m)
}

// Mirroring returns the nametable mirroring wired on the cartridge.
func (hdr *header) Mirroring() NTMirroring {
	if hdr.raw[6]&0x08 != 0 {
		return FourScreen
	}
	return NTMirroring(hdr.raw[6] & 0x01)
}

// PrintInfos writes a human readable summary of the rom header to w.
func (rom *Rom) PrintInfos(w io.Writer) {
	format := "iNES"
	if rom.IsNES20() {
		format = "NES 2.0"
	}
	fmt.Fprintf(w, "format:     %s\n", format)
	fmt.Fprintf(w, "mapper:     %d (submapper %d)\n", rom.Mapper(), rom.SubMapper())
	fmt.Fprintf(w, "PRG ROM:    %dKB\n", len(rom.PRG)/1024)
	fmt.Fprintf(w, "CHR ROM:    %dKB\n", len(rom.CHR)/1024)
	fmt.Fprintf(w, "PRG RAM:    %dKB\n", rom.PRGRAMSize()/1024)
	fmt.Fprintf(w, "mirroring:  %s\n", rom.Mirroring())
	fmt.Fprintf(w, "trainer:    %t\n", rom.HasTrainer())
	fmt.Fprintf(w, "battery:    %t\n", rom.HasPersistent())
}
