package hw

import (
	"nescore/emu/log"
)

// interrupt pushes PC and status, masks interrupts and jumps through vector.
// brk selects the value of the break flag pushed on the stack.
func (c *CPU) interrupt(vector uint16, brk bool) {
	c.push16(c.PC)
	c.push8(c.P.pushed(brk))
	c.P |= Interrupt
	c.PC = c.Read16(vector)
}

// SoftwareInterrupt jumps through vector as BRK does, pushing the status with
// the break flag set. It costs 7 cycles.
func (c *CPU) SoftwareInterrupt(vector uint16) {
	c.interrupt(vector, true)
	c.Clocks += 7
}

// DeviceInterrupt raises a hardware interrupt through vector. A maskable
// interrupt is dropped while the I flag is set. The status is pushed with
// the break flag cleared. It costs 7 cycles when taken.
func (c *CPU) DeviceInterrupt(vector uint16, maskable bool) {
	if maskable && c.P.I() {
		return
	}
	log.ModCPU.DebugZ("interrupt").
		Hex16("vector", vector).
		Hex16("PC", c.PC).
		Bool("maskable", maskable).
		End()
	c.interrupt(vector, false)
	c.Clocks += 7
}

// NMI raises a non-maskable interrupt.
func (c *CPU) NMI() {
	c.DeviceInterrupt(NMIVector, false)
}

// PollIRQ raises a maskable interrupt if the cartridge is asserting its IRQ
// line.
func (c *CPU) PollIRQ() {
	if c.Mapper.IRQPending() {
		c.DeviceInterrupt(IRQVector, true)
	}
}

var resetPattern = [8]uint8{0x00, 0x00, 0x00, 0x00, 0xFF, 0xFF, 0xFF, 0xFF}

// Reset puts the CPU in its power-up state: RAM filled with a fixed pattern,
// registers cleared, then a jump through the reset vector.
func (c *CPU) Reset() {
	InitClockTable()

	for i := 0; i < len(c.RAM); i += len(resetPattern) {
		copy(c.RAM[i:], resetPattern[:])
	}
	clear(c.io[:])

	c.A, c.X, c.Y = 0, 0, 0
	c.P = 0
	c.PC = 0
	c.SP = 0xFD
	c.Clocks = 0
	c.Input.reset()

	c.SoftwareInterrupt(ResetVector)

	log.ModCPU.InfoZ("reset").
		Hex16("PC", c.PC).
		Hex8("SP", c.SP).
		End()
}
