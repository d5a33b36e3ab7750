package emu

import (
	"fmt"

	"nescore/emu/log"
	"nescore/hw"
	"nescore/hw/input"
	"nescore/hw/mappers"
	"nescore/hw/snapshot"
	"nescore/ines"
)

const (
	cyclesPerFrame = 29781 // NTSC, 341*262/3
	vblankCycle    = 27394 // scanline 241
)

type NES struct {
	CPU     *hw.CPU
	PPU     *hw.PPURegs
	Mapper  hw.Mapper
	Rom     *ines.Rom
	Joypads input.Joypads

	Frames int
	halted bool
}

// PowerUp builds a machine for rom and resets it.
func PowerUp(rom *ines.Rom) (*NES, error) {
	ppu := hw.NewPPURegs()
	cpu := hw.NewCPU(ppu)

	mapper, err := mappers.Load(rom, cpu)
	if err != nil {
		return nil, err
	}

	nes := &NES{
		CPU:    cpu,
		PPU:    ppu,
		Mapper: mapper,
		Rom:    rom,
	}
	cpu.Input.Plug(&nes.Joypads)
	nes.Reset()
	return nes, nil
}

func (nes *NES) Reset() {
	nes.PPU.Reset()
	nes.CPU.Reset()
	nes.Frames = 0
	nes.halted = false
}

// Halt stops the execution after the current instruction. RunOneFrame returns
// immediately on a halted machine.
func (nes *NES) Halt() { nes.halted = true }

func (nes *NES) Halted() bool { return nes.halted }

// RunOneFrame runs the CPU for the duration of one video frame. The vertical
// blank flag is raised at the start of scanline 241, along with an NMI if the
// game enabled it, and cleared at the end of the frame.
//
// Frames are aligned on multiples of cyclesPerFrame, the cycles an instruction
// overshoots the end of a frame are taken from the next one.
func (nes *NES) RunOneFrame() {
	if nes.halted {
		return
	}
	start := nes.CPU.Clocks - nes.CPU.Clocks%cyclesPerFrame

	nes.runUntil(start + vblankCycle)
	if nes.halted {
		return
	}
	nes.PPU.SetVBlank(true)
	if nes.PPU.NMIEnabled() {
		nes.CPU.NMI()
	}
	nes.runUntil(start + cyclesPerFrame)
	if nes.halted {
		return
	}
	nes.PPU.SetVBlank(false)

	nes.Frames++
}

func (nes *NES) runUntil(until int64) {
	for nes.CPU.Clocks < until && !nes.halted {
		nes.CPU.Step()
		nes.CPU.PollIRQ()
	}
}

// SaveSnapshot serializes the machine state.
func (nes *NES) SaveSnapshot() ([]byte, error) {
	state := snapshot.NES{Version: snapshot.Version}
	nes.CPU.SaveState(&state)
	nes.PPU.SaveState(&state)
	return state.MarshalJSON()
}

// LoadSnapshot restores a state previously saved with SaveSnapshot.
func (nes *NES) LoadSnapshot(buf []byte) error {
	var state snapshot.NES
	if err := state.UnmarshalJSON(buf); err != nil {
		return fmt.Errorf("invalid snapshot: %w", err)
	}

	nes.CPU.LoadState(&state)
	nes.PPU.LoadState(&state)

	log.ModEmu.InfoZ("snapshot loaded").
		Hex16("pc", nes.CPU.PC).
		Int64("clocks", nes.CPU.Clocks).
		End()
	return nil
}
