package hw

import (
	"nescore/emu/log"
	"nescore/hw/hwio"
)

// Locations reserved for vector pointers.
const (
	NMIVector   = uint16(0xFFFA) // Non-Maskable Interrupt
	ResetVector = uint16(0xFFFC) // Reset
	IRQVector   = uint16(0xFFFE) // Interrupt Request
)

// PPU is the CPU-side view of the picture processing unit.
type PPU interface {
	// Registers returns the 8 bytes register latch, read directly by the CPU
	// at 0x2000-0x3FFF. The PPU keeps it up to date.
	Registers() []byte
	// WriteReg is called when the CPU writes to register reg (0-7).
	WriteReg(reg, val uint8)
	// ReadReg is called after the CPU has read register reg (0-7), to
	// trigger read side effects.
	ReadReg(reg uint8)
	// WriteOAM receives the 256 bytes of an OAM DMA transfer.
	WriteOAM(buf []byte)
}

// Mapper is the CPU-side view of the cartridge.
type Mapper interface {
	// WriteSpecial is called for CPU writes at 0x4020 and above.
	WriteSpecial(addr uint16, val uint8)
	// IRQPending reports whether the cartridge asserts the IRQ line.
	IRQPending() bool
}

// PostReader is implemented by mappers having read side effects on their
// special pages.
type PostReader interface {
	PostRead(addr uint16)
}

type CPU struct {
	Bus *hwio.Table

	RAM [0x800]uint8
	io  [0x100]uint8 // 0x4000-0x40FF latch, as seen by the CPU

	PPU    PPU
	Mapper Mapper
	Input  InputPorts

	Clocks int64 // CPU cycles

	// cpu registers
	A, X, Y, SP uint8
	PC          uint16
	P           P

	observer Observer
	dmaBuf   [256]uint8
}

// NewCPU creates a CPU connected to ppu. A nil ppu is replaced by a
// detached register file.
func NewCPU(ppu PPU) *CPU {
	InitClockTable()
	if ppu == nil {
		ppu = NewPPURegs()
	}
	cpu := &CPU{
		Bus:    hwio.NewTable("cpu"),
		SP:     0xFD,
		PPU:    ppu,
		Mapper: nopMapper{},
	}
	cpu.InitBus()
	return cpu
}

// InitBus maps the CPU internal devices. Cartridge space (0x4020-0xFFFF) is
// left to the mapper.
func (c *CPU) InitBus() {
	// CPU internal RAM, mirrored up to 0x1FFF.
	c.Bus.MapMem(0x0000, &hwio.Mem{
		Name:  "RAM",
		Data:  c.RAM[:],
		VSize: 0x2000,
	})

	// The 8 PPU registers, mirrored up to 0x3FFF.
	c.Bus.MapMem(0x2000, &hwio.Mem{
		Name:  "PPU",
		Data:  c.PPU.Registers(),
		Flags: hwio.MemFlagSpecial,
		VSize: 0x2000,
	})

	// APU, OAMDMA and controllers. Writes are routed by writeSpecial.
	c.Bus.MapMem(0x4000, &hwio.Mem{
		Name:  "IO",
		Data:  c.io[:],
		Flags: hwio.MemFlagSpecial,
	})

	c.Input.init(c.io[:])
}

// SetMapper connects the cartridge. The mapper is expected to have already
// mapped its memory on c.Bus.
func (c *CPU) SetMapper(m Mapper) {
	if m == nil {
		m = nopMapper{}
	}
	c.Mapper = m
}

// SetObserver installs o to be notified after each instruction. A nil
// observer disables notifications.
func (c *CPU) SetObserver(o Observer) {
	c.observer = o
}

// Regs is a snapshot of the CPU registers.
type Regs struct {
	A, X, Y, SP uint8
	P           P
	PC          uint16
	Clocks      int64
}

func (c *CPU) Regs() Regs {
	return Regs{
		A:      c.A,
		X:      c.X,
		Y:      c.Y,
		SP:     c.SP,
		P:      c.P,
		PC:     c.PC,
		Clocks: c.Clocks,
	}
}

// Read8 reads a byte on the CPU bus, without side effects.
func (c *CPU) Read8(addr uint16) uint8 {
	return c.Bus.Read8(addr)
}

// Read16 reads a little-endian word on the CPU bus, without side effects.
func (c *CPU) Read16(addr uint16) uint16 {
	return hwio.Read16(c.Bus, addr)
}

// Step executes one instruction.
func (c *CPU) Step() {
	pc := c.PC
	in := Instruction{
		PC:     pc,
		Opcode: c.Bus.Read8(pc),
		Data:   [2]uint8{c.Bus.Read8(pc + 1), c.Bus.Read8(pc + 2)},
	}

	var before Regs
	if c.observer != nil {
		before = c.Regs()
	}

	c.Clocks += int64(clockTable[in.Opcode])
	c.resolve(&in)
	c.execute(&in)

	if in.Read && !in.Wrote && in.Operand.Special && decodeTable[in.Opcode].fam.reads() {
		c.postSpecialRead(in.Operand.Addr)
	}

	if c.observer != nil {
		c.observer.Step(before, &in)
	}
}

// Run executes instructions until at least ncycles cycles have elapsed.
func (c *CPU) Run(ncycles int64) {
	until := c.Clocks + ncycles
	for c.Clocks < until {
		c.Step()
	}
}

type nopMapper struct{}

func (nopMapper) WriteSpecial(addr uint16, val uint8) {
	log.ModMem.DebugZ("write to unmapped cartridge space").
		Hex16("addr", addr).
		Hex8("val", val).
		End()
}

func (nopMapper) IRQPending() bool { return false }
