package hw

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestOpcodeTable(t *testing.T) {
	if len(Opcodes) != 151 {
		t.Errorf("got %d opcodes, want 151", len(Opcodes))
	}
	if !slices.IsSortedFunc(Opcodes, func(a, b OpcodeDef) int { return int(a.Code) - int(b.Code) }) {
		t.Errorf("opcode table is not sorted")
	}
	for i := 1; i < len(Opcodes); i++ {
		if Opcodes[i].Code == Opcodes[i-1].Code {
			t.Errorf("opcode %02X defined twice", Opcodes[i].Code)
		}
	}
}

var modeNames = map[string]AddrMode{
	"imp": Implied,
	"acc": Implied,
	"imm": Implied,
	"rel": Implied,
	"zpg": ZeroPage,
	"zpx": ZeroPageX,
	"zpy": ZeroPageY,
	"abs": Absolute,
	"abx": AbsoluteX,
	"aby": AbsoluteY,
	"izx": IndirectX,
	"izy": IndirectY,
	"ind": Indirect,
}

// The metadata table, the addressing mode table and the executor must agree
// on every opcode.
func TestOpcodeLockstep(t *testing.T) {
	InitClockTable()

	for op := range 256 {
		opcode := uint8(op)
		def := LookupOpcode(opcode)
		fam := decodeTable[opcode].fam

		if def == nil {
			if fam != famInvalid {
				t.Errorf("opcode %02X has no metadata but is executed", opcode)
			}
			if clockTable[opcode] != 0 {
				t.Errorf("opcode %02X has no metadata but costs %d cycles", opcode, clockTable[opcode])
			}
			continue
		}

		if fam == famInvalid {
			t.Errorf("opcode %02X (%s) is not executed", opcode, def.Name)
		}
		if got := clockTable[opcode]; got != def.Cycles {
			t.Errorf("opcode %02X: clock table says %d, want %d", opcode, got, def.Cycles)
		}
		if got, want := AddrModeOf(opcode), modeNames[def.Mode]; got != want {
			t.Errorf("opcode %02X (%s %s): mode %s, want %s", opcode, def.Name, def.Mode, got, want)
		}
		if got := isImmediate(opcode); got != (def.Mode == "imm") {
			t.Errorf("opcode %02X: isImmediate = %t", opcode, got)
		}
		if got := isAccumulator(opcode); got != (def.Mode == "acc") {
			t.Errorf("opcode %02X: isAccumulator = %t", opcode, got)
		}

		// Resolution advances PC by the instruction size, branches consume
		// their displacement when executed.
		if def.Flags&OpFlow == 0 {
			cpu := NewCPU(nil)
			cpu.PC = 0x0200
			in := Instruction{PC: cpu.PC, Opcode: opcode, Data: [2]uint8{0x10, 0x02}}
			cpu.resolve(&in)
			if got := cpu.PC - 0x0200; got != uint16(def.Size) {
				t.Errorf("opcode %02X (%s %s): PC advanced by %d, want %d", opcode, def.Name, def.Mode, got, def.Size)
			}
		}
	}
}

func TestOpcodeLDASTA(t *testing.T) {
	dump := `0600: a9 01 8d 00 02 a9 05 8d 01 02 a9 08 8d 02 02`
	cpu := loadCPUWith(t, dump)

	runAndCheckState(t, cpu.CPU, 6,
		"A", 0x08,
		"Pb", 0,
		"PC", 0x060F,
		"SP", 0xFA,
		"clocks", 7+18,
	)
	wantMem8(t, cpu.CPU, 0x0200, 0x01)
	wantMem8(t, cpu.CPU, 0x0201, 0x05)
	wantMem8(t, cpu.CPU, 0x0202, 0x08)
}

func TestEOR(t *testing.T) {
	t.Run("zeropage", func(t *testing.T) {
		dump := `
0000: 06
0600: 45 00`
		cpu := loadCPUWith(t, dump)
		cpu.A = 0x80

		runAndCheckState(t, cpu.CPU, 1,
			"A", 0x86,
			"Pn", 1,
			"Pz", 0,
		)
	})
}

func TestROR(t *testing.T) {
	t.Run("zeropage", func(t *testing.T) {
		dump := `
0000: 55
0600: 66 00`
		cpu := loadCPUWith(t, dump)
		cpu.A = 0x80
		cpu.P.setFlag(Carry, true)

		runAndCheckState(t, cpu.CPU, 1,
			"Pn", 1,
			"Pc", 1,
			"Pz", 0,
			"clocks", 7+5,
		)
		wantMem8(t, cpu.CPU, 0x0000, 0xAA)
	})
	t.Run("accumulator", func(t *testing.T) {
		cpu := loadCPUWith(t, `0600: 6a`)
		cpu.A = 0x01

		runAndCheckState(t, cpu.CPU, 1,
			"A", 0x00,
			"Pn", 0,
			"Pz", 1,
			"Pc", 1,
		)
	})
}

func TestShifts(t *testing.T) {
	tests := []struct {
		name   string
		prog   string
		a      uint8
		carry  bool
		wantA  uint8
		wantPc uint8
		wantPn uint8
	}{
		{"ASL", "0600: 0a", 0x81, false, 0x02, 1, 0},
		{"ASL no carry", "0600: 0a", 0x40, false, 0x80, 0, 1},
		{"LSR", "0600: 4a", 0x81, true, 0x40, 1, 0},
		{"ROL", "0600: 2a", 0x80, true, 0x01, 1, 0},
		{"ROL no carry", "0600: 2a", 0x40, false, 0x80, 0, 1},
		{"ROR", "0600: 6a", 0x02, true, 0x81, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cpu := loadCPUWith(t, tt.prog)
			cpu.A = tt.a
			cpu.P.setFlag(Carry, tt.carry)
			runAndCheckState(t, cpu.CPU, 1,
				"A", tt.wantA,
				"Pc", tt.wantPc,
				"Pn", tt.wantPn,
				"PC", 0x0601,
			)
		})
	}
}

func TestIncDec(t *testing.T) {
	dump := `
0010: ff 01
0600: e6 10 c6 11 ca c8`
	cpu := loadCPUWith(t, dump)

	runAndCheckState(t, cpu.CPU, 1, "Pz", 1, "Pn", 0)
	wantMem8(t, cpu.CPU, 0x10, 0x00)

	runAndCheckState(t, cpu.CPU, 1, "Pz", 1)
	wantMem8(t, cpu.CPU, 0x11, 0x00)

	runAndCheckState(t, cpu.CPU, 1, "X", 0xFF, "Pn", 1, "Pz", 0)
	runAndCheckState(t, cpu.CPU, 1, "Y", 0x01, "Pn", 0, "Pz", 0, "clocks", 7+5+5+2+2)
}

func TestADC(t *testing.T) {
	tests := []struct {
		a, m  uint8
		carry bool
		want  uint8
		flags P
	}{
		{0x50, 0x10, false, 0x60, 0},
		{0x50, 0x50, false, 0xA0, Overflow | Negative},
		{0xFF, 0x01, false, 0x00, Carry | Zero},
		{0xD0, 0x90, false, 0x60, Carry | Overflow},
		{0x01, 0x01, true, 0x03, 0},
	}
	for _, tt := range tests {
		cpu := &CPU{A: tt.a}
		cpu.P.setFlag(Carry, tt.carry)
		cpu.adc(tt.m)
		if cpu.A != tt.want || cpu.P != tt.flags {
			t.Errorf("%02X+%02X+%d = %02X (%s), want %02X (%s)",
				tt.a, tt.m, b2i(tt.carry), cpu.A, cpu.P, tt.want, tt.flags)
		}
	}
}

func TestSBC(t *testing.T) {
	tests := []struct {
		a, m  uint8
		carry bool
		want  uint8
		flags P
	}{
		{0x50, 0xF0, true, 0x60, 0},
		{0x50, 0x30, true, 0x20, Carry},
		{0xD0, 0x70, true, 0x60, Carry | Overflow},
		{0x00, 0x01, true, 0xFF, Negative},
		{0x05, 0x05, true, 0x00, Carry | Zero},
		{0x05, 0x04, false, 0x00, Carry | Zero},
	}
	for _, tt := range tests {
		dump := `0600: e9 00`
		cpu := loadCPUWith(t, dump)
		cpu.RAM[0x601] = tt.m
		cpu.A = tt.a
		cpu.P = 0
		cpu.P.setFlag(Carry, tt.carry)
		cpu.Step()
		if cpu.A != tt.want || cpu.P != tt.flags {
			t.Errorf("%02X-%02X-%d = %02X (%s), want %02X (%s)",
				tt.a, tt.m, 1-b2i(tt.carry), cpu.A, cpu.P, tt.want, tt.flags)
		}
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		reg, m  uint8
		c, z, n bool
	}{
		{0x10, 0x10, true, true, false},
		{0x20, 0x10, true, false, false},
		{0x10, 0x20, false, false, true},
		{0x00, 0xFF, false, false, false},
		{0xFF, 0x00, true, false, true},
	}

	// CMP, CPX and CPY share the same semantics.
	progs := []struct {
		name string
		op   uint8
		set  func(*CPU, uint8)
	}{
		{"CMP", 0xC9, func(c *CPU, v uint8) { c.A = v }},
		{"CPX", 0xE0, func(c *CPU, v uint8) { c.X = v }},
		{"CPY", 0xC0, func(c *CPU, v uint8) { c.Y = v }},
	}
	for _, prog := range progs {
		t.Run(prog.name, func(t *testing.T) {
			for _, tt := range tests {
				cpu := loadCPUWith(t, `0600: 00 00`)
				cpu.RAM[0x600] = prog.op
				cpu.RAM[0x601] = tt.m
				prog.set(cpu.CPU, tt.reg)
				cpu.Step()

				if cpu.P.C() != tt.c || cpu.P.Z() != tt.z || cpu.P.N() != tt.n {
					t.Errorf("%02X vs %02X: got %s, want C=%t Z=%t N=%t", tt.reg, tt.m, cpu.P, tt.c, tt.z, tt.n)
				}
				if cpu.PC != 0x0602 {
					t.Errorf("PC = %04X, want 0602", cpu.PC)
				}
			}
		})
	}
}

func TestBIT(t *testing.T) {
	dump := `
0010: c0
0600: 24 10`
	cpu := loadCPUWith(t, dump)
	cpu.A = 0x01

	runAndCheckState(t, cpu.CPU, 1,
		"A", 0x01,
		"Pn", 1,
		"Pv", 1,
		"Pz", 1,
	)
}

func TestLoadKeepsFlags(t *testing.T) {
	cpu := loadCPUWith(t, `0600: a9 00`)
	cpu.P = Carry | Overflow | Decimal | Negative

	runAndCheckState(t, cpu.CPU, 1,
		"P", uint8(Carry|Overflow|Decimal|Zero),
	)
}

func TestTransfers(t *testing.T) {
	cpu := loadCPUWith(t, `0600: a2 00 9a ba 8a a8`)
	cpu.A = 0x80

	// TXS doesn't touch flags.
	runAndCheckState(t, cpu.CPU, 2, "SP", 0x00, "Pz", 1)
	cpu.P.setFlag(Zero, false)
	runAndCheckState(t, cpu.CPU, 1, "X", 0x00, "Pz", 1)
	runAndCheckState(t, cpu.CPU, 2, "A", 0x00, "Y", 0x00, "Pz", 1)
}

func TestBranches(t *testing.T) {
	tests := []struct {
		name       string
		pc         uint16
		prog       []byte
		p          P
		wantPC     uint16
		wantClocks int64
	}{
		{"not taken", 0x0600, []byte{0xF0, 0x02}, 0, 0x0602, 2},
		{"taken", 0x0600, []byte{0xD0, 0x02}, 0, 0x0604, 3},
		{"backward", 0x0600, []byte{0xD0, 0xFE}, 0, 0x0600, 3},
		{"page cross", 0x06F0, []byte{0xD0, 0x20}, 0, 0x0712, 4},
		{"backward page cross", 0x0600, []byte{0x90, 0x80}, 0, 0x0582, 4},
		{"BMI", 0x0600, []byte{0x30, 0x10}, Negative, 0x0612, 3},
		{"BVS not taken", 0x0600, []byte{0x70, 0x10}, 0, 0x0602, 2},
		{"BCS", 0x0600, []byte{0xB0, 0x10}, Carry, 0x0612, 3},
		{"BPL not taken", 0x0600, []byte{0x10, 0x10}, Negative, 0x0602, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cpu := loadCPUWith(t, "")
			copy(cpu.RAM[tt.pc:], tt.prog)
			cpu.PC = tt.pc
			cpu.P = tt.p
			cpu.Clocks = 0

			runAndCheckState(t, cpu.CPU, 1,
				"PC", tt.wantPC,
				"clocks", tt.wantClocks,
			)
		})
	}
}

func TestJSRRTS(t *testing.T) {
	dump := `
0600: 20 00 07
0700: 60`
	cpu := loadCPUWith(t, dump)

	runAndCheckState(t, cpu.CPU, 1,
		"PC", 0x0700,
		"SP", 0xF8,
		"clocks", 7+6,
	)
	wantMem8(t, cpu.CPU, 0x01FA, 0x06)
	wantMem8(t, cpu.CPU, 0x01F9, 0x02)

	runAndCheckState(t, cpu.CPU, 1,
		"PC", 0x0603,
		"SP", 0xFA,
		"clocks", 7+12,
	)
}

func TestStack(t *testing.T) {
	t.Run("PHP sets B and U", func(t *testing.T) {
		cpu := loadCPUWith(t, `0600: 08 28`)
		runAndCheckState(t, cpu.CPU, 1, "SP", 0xF9)
		wantMem8(t, cpu.CPU, 0x01FA, 0x34)

		// PLP doesn't restore B and U.
		runAndCheckState(t, cpu.CPU, 1, "SP", 0xFA, "P", 0x04, "clocks", 7+3+4)
	})
	t.Run("PHA PLP", func(t *testing.T) {
		cpu := loadCPUWith(t, `0600: a9 ff 48 28`)
		runAndCheckState(t, cpu.CPU, 3, "P", 0xCF)
	})
	t.Run("PLA", func(t *testing.T) {
		cpu := loadCPUWith(t, `0600: a9 80 48 a9 00 68`)
		runAndCheckState(t, cpu.CPU, 4, "A", 0x80, "Pn", 1, "Pz", 0, "SP", 0xFA)
	})
	t.Run("RTI", func(t *testing.T) {
		cpu := loadCPUWith(t, `0600: 40`)
		cpu.push16(0x1234)
		cpu.push8(0xFF)

		runAndCheckState(t, cpu.CPU, 1,
			"PC", 0x1234,
			"P", 0xCF,
			"SP", 0xFA,
			"clocks", 7+6,
		)
	})
}

func TestBRK(t *testing.T) {
	dump := `
0600: 00
fffe: 00 07`
	cpu := loadCPUWith(t, dump)
	cpu.P = 0

	runAndCheckState(t, cpu.CPU, 1,
		"PC", 0x0700,
		"SP", 0xF7,
		"Pi", 1,
		"Pb", 0,
		"clocks", 7+7,
	)
	wantMem8(t, cpu.CPU, 0x01FA, 0x06)
	wantMem8(t, cpu.CPU, 0x01F9, 0x02)
	wantMem8(t, cpu.CPU, 0x01F8, 0x30)
}

func TestBRKRTI(t *testing.T) {
	dump := `
0600: 00 ea
0700: 40
fffe: 00 07`
	cpu := loadCPUWith(t, dump)
	cpu.P = Carry | Overflow | Negative | Decimal

	// BRK skips its padding byte, RTI restores everything but B and U.
	runAndCheckState(t, cpu.CPU, 2,
		"PC", 0x0602,
		"SP", 0xFA,
		"P", uint8(Carry|Overflow|Negative|Decimal),
		"clocks", 7+7+6,
	)
	if cpu.P.String() != "NVubDizC" {
		t.Errorf("P = %s, want NVubDizC", cpu.P)
	}
}

func TestJMP(t *testing.T) {
	t.Run("absolute", func(t *testing.T) {
		cpu := loadCPUWith(t, `0600: 4c 34 12`)
		runAndCheckState(t, cpu.CPU, 1, "PC", 0x1234, "clocks", 7+3)
	})
	t.Run("indirect", func(t *testing.T) {
		dump := `
0210: 34 12
0600: 6c 10 02`
		cpu := loadCPUWith(t, dump)
		runAndCheckState(t, cpu.CPU, 1, "PC", 0x1234, "clocks", 7+5)
	})
	t.Run("indirect page wrap", func(t *testing.T) {
		cpu := loadCPUWith(t, `0600: 6c ff 02`)
		if ok, _ := hasPanicked(cpu.Step); !ok {
			t.Errorf("JMP ($02FF) should panic")
		}
	})
}

func TestUnhandledOpcode(t *testing.T) {
	for _, op := range []uint8{0x02, 0x1A, 0x80, 0xFF} {
		cpu := loadCPUWith(t, `0600: 00`)
		cpu.RAM[0x600] = op
		if ok, _ := hasPanicked(cpu.Step); !ok {
			t.Errorf("opcode %02X should panic", op)
		}
	}
}

func TestAddressingWrap(t *testing.T) {
	dump := `
0000: 03
00f0: 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00 20
0320: 5a 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00
0330: a5
0010: 77
0600: a2 01 a1 fe a0 10 b1 ff a2 20 b5 f0`
	cpu := loadCPUWith(t, dump)

	// ($FE,X) with X=1 reads its pointer at $FF/$00.
	runAndCheckState(t, cpu.CPU, 2, "A", 0x5A, "clocks", 7+2+6)
	// ($FF),Y reads its pointer at $FF/$00, then adds Y.
	runAndCheckState(t, cpu.CPU, 2, "A", 0xA5, "Pn", 1, "clocks", 7+8+2+5)
	// $F0,X wraps in zero page.
	runAndCheckState(t, cpu.CPU, 2, "A", 0x77, "Pn", 0)
}

func TestAbsoluteIndexedNoPenalty(t *testing.T) {
	cpu := loadCPUWith(t, `0600: bd ff 02`)
	cpu.X = 0x10
	runAndCheckState(t, cpu.CPU, 1, "clocks", 7+4)
}

func TestRAMMirror(t *testing.T) {
	cpu := loadCPUWith(t, `0600: a9 42 8d 01 08 ad 01 18 a6 01`)
	runAndCheckState(t, cpu.CPU, 4, "A", 0x42, "X", 0x42)
}

func TestReset(t *testing.T) {
	cpu := loadCPUWith(t, `fffc: 00 c0`)
	cpu.A, cpu.X, cpu.Y = 1, 2, 3
	cpu.Reset()

	checkState(t, cpu.CPU,
		"A", 0,
		"X", 0,
		"Y", 0,
		"PC", 0xC000,
		"SP", 0xFA,
		"P", uint8(Interrupt),
		"clocks", 7,
	)

	want := make([]byte, len(cpu.RAM))
	for i := range want {
		if i&4 != 0 {
			want[i] = 0xFF
		}
	}
	// The reset sequence pushes PC and status.
	want[0x1FD], want[0x1FC], want[0x1FB] = 0x00, 0x00, 0x30
	if diff := cmp.Diff(want, cpu.RAM[:]); diff != "" {
		t.Errorf("RAM after reset (-want +got):\n%s", diff)
	}
}

func TestInterrupts(t *testing.T) {
	dump := `
0600: ea
fffa: 00 09
fffe: 00 08`

	t.Run("masked IRQ", func(t *testing.T) {
		cpu := loadCPUWith(t, dump)
		cpu.mapper.irq = true
		cpu.PollIRQ()
		checkState(t, cpu.CPU, "PC", 0x0600, "SP", 0xFA, "clocks", 7)
	})
	t.Run("IRQ", func(t *testing.T) {
		cpu := loadCPUWith(t, dump)
		cpu.P = 0
		cpu.mapper.irq = true
		cpu.PollIRQ()
		checkState(t, cpu.CPU, "PC", 0x0800, "SP", 0xF7, "Pi", 1, "clocks", 14)
		// Break flag is cleared in the pushed status.
		wantMem8(t, cpu.CPU, 0x01F8, 0x20)
	})
	t.Run("no IRQ", func(t *testing.T) {
		cpu := loadCPUWith(t, dump)
		cpu.P = 0
		cpu.PollIRQ()
		checkState(t, cpu.CPU, "PC", 0x0600, "clocks", 7)
	})
	t.Run("NMI", func(t *testing.T) {
		cpu := loadCPUWith(t, dump)
		cpu.P = Carry | Interrupt
		cpu.NMI()
		checkState(t, cpu.CPU, "PC", 0x0900, "SP", 0xF7, "clocks", 14)
		wantMem8(t, cpu.CPU, 0x01F8, 0x25)
	})
	t.Run("software", func(t *testing.T) {
		cpu := loadCPUWith(t, dump)
		cpu.P = 0
		cpu.SoftwareInterrupt(IRQVector)
		checkState(t, cpu.CPU, "PC", 0x0800, "Pi", 1, "clocks", 14)
		wantMem8(t, cpu.CPU, 0x01F8, 0x30)
	})
}

func TestRun(t *testing.T) {
	cpu := loadCPUWith(t, `0600: ea ea ea ea ea ea`)
	cpu.Run(5)
	// Run stops on instruction boundaries, once ncycles have elapsed.
	checkState(t, cpu.CPU, "PC", 0x0603, "clocks", 7+6)
}
