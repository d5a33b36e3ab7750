package hw

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"strconv"
	"strings"
	"testing"

	"nescore/hw/hwio"
)

func hasPanicked(f func()) (yes bool, msg any) {
	defer func() {
		msg = recover()
		if msg != nil {
			yes = true
		}
	}()
	f()
	return yes, msg
}

type regWrite struct {
	reg, val uint8
}

// fakePPU records register accesses.
type fakePPU struct {
	regs   [8]byte
	writes []regWrite
	reads  []uint8
	oam    []byte
}

func (p *fakePPU) Registers() []byte       { return p.regs[:] }
func (p *fakePPU) WriteReg(reg, val uint8) { p.writes = append(p.writes, regWrite{reg, val}) }
func (p *fakePPU) ReadReg(reg uint8)       { p.reads = append(p.reads, reg) }
func (p *fakePPU) WriteOAM(buf []byte)     { p.oam = bytes.Clone(buf) }
func (p *fakePPU) reset()                  { p.writes, p.reads, p.oam = nil, nil, nil }
func (p *fakePPU) lastWrite() (regWrite, bool) {
	if len(p.writes) == 0 {
		return regWrite{}, false
	}
	return p.writes[len(p.writes)-1], true
}

type memWrite struct {
	addr uint16
	val  uint8
}

// fakeMapper maps a 32KB ROM at $8000 and a special page at $5000, and
// records accesses.
type fakeMapper struct {
	rom  [0x8000]byte
	regs [0x100]byte

	writes []memWrite
	reads  []uint16
	irq    bool
}

func (m *fakeMapper) WriteSpecial(addr uint16, val uint8) {
	m.writes = append(m.writes, memWrite{addr, val})
}
func (m *fakeMapper) IRQPending() bool     { return m.irq }
func (m *fakeMapper) PostRead(addr uint16) { m.reads = append(m.reads, addr) }

type fakeInput struct {
	pad1, pad2 uint8
	loads      int
}

func (fi *fakeInput) LoadState() (uint8, uint8) {
	fi.loads++
	return fi.pad1, fi.pad2
}

type testCPU struct {
	*CPU
	ppu    *fakePPU
	mapper *fakeMapper
}

type dumpline struct {
	off   uint16
	bytes []byte
}

func loadDump(tb testing.TB, dump string) []dumpline {
	tb.Helper()

	var lines []dumpline
	scan := bufio.NewScanner(strings.NewReader(dump))
	for scan.Scan() {
		line := scan.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		off, octets, ok := strings.Cut(line, ":")
		if !ok {
			tb.Fatalf("malformed line: %s", line)
		}

		ioff, err := strconv.ParseUint(strings.TrimSpace(off), 16, 16)
		if err != nil {
			tb.Fatalf("malformed offset %s: %s", off, err)
		}
		buf, err := hex.DecodeString(strings.ReplaceAll(octets, " ", ""))
		if err != nil {
			tb.Fatalf("hex decode: %s", err)
		}
		lines = append(lines, dumpline{off: uint16(ioff), bytes: buf})
	}
	if scan.Err() != nil {
		tb.Fatalf("scan error: %s", scan.Err())
	}

	return lines
}

// loadCPUWith creates a reset CPU with a memory dump. Lines below $2000 go
// in RAM, lines at $8000 and above in the cartridge ROM. The reset vector
// defaults to $0600.
func loadCPUWith(tb testing.TB, dump string) *testCPU {
	tb.Helper()

	ppu := &fakePPU{}
	mapper := &fakeMapper{}
	mapper.rom[ResetVector-0x8000] = 0x00
	mapper.rom[ResetVector-0x8000+1] = 0x06

	cpu := NewCPU(ppu)
	cpu.Bus.MapMem(0x5000, &hwio.Mem{
		Name:  "mapper regs",
		Data:  mapper.regs[:],
		Flags: hwio.MemFlagSpecial,
	})
	cpu.Bus.MapMem(0x8000, &hwio.Mem{
		Name:  "ROM",
		Data:  mapper.rom[:],
		Flags: hwio.MemFlagReadOnly,
	})
	cpu.SetMapper(mapper)

	lines := loadDump(tb, dump)
	for _, l := range lines {
		if l.off >= 0x8000 {
			copy(mapper.rom[l.off-0x8000:], l.bytes)
		}
	}

	cpu.Reset()

	for _, l := range lines {
		switch {
		case l.off < 0x2000:
			copy(cpu.RAM[l.off&0x7FF:], l.bytes)
		case l.off < 0x8000:
			tb.Fatalf("can't load dump at $%04X", l.off)
		}
	}
	if testing.Verbose() {
		cpu.SetObserver(NewTracer(tbwriter{tb}, TraceText))
	}
	return &testCPU{CPU: cpu, ppu: ppu, mapper: mapper}
}

func toUint(v any) uint64 {
	switch v := v.(type) {
	case int:
		return uint64(v)
	case uint8:
		return uint64(v)
	case uint16:
		return uint64(v)
	case int64:
		return uint64(v)
	case bool:
		if v {
			return 1
		}
		return 0
	}
	panic("unsupported state value type")
}

// runAndCheckState executes nsteps instructions and checks the CPU state
// against states, a list of name/value pairs.
func runAndCheckState(t *testing.T, cpu *CPU, nsteps int, states ...any) {
	t.Helper()

	if len(states)%2 != 0 {
		panic("odd number of states")
	}

	for range nsteps {
		cpu.Step()
	}
	checkState(t, cpu, states...)
}

func checkState(t *testing.T, cpu *CPU, states ...any) {
	t.Helper()

	checkuint8 := func(name string, got uint8, want uint64) {
		t.Helper()
		if uint64(got) != want {
			t.Errorf("got %s=$%02X, want $%02X", name, got, want)
		}
	}
	checkbool := func(name string, got bool, want uint64) {
		t.Helper()
		if b2i(got) != int(want) {
			t.Errorf("got %s=%d, want %d", name, b2i(got), want)
		}
	}

	for i := 0; i < len(states); i += 2 {
		s := states[i].(string)
		want := toUint(states[i+1])
		switch {
		case s == "A":
			checkuint8("A", cpu.A, want)
		case s == "X":
			checkuint8("X", cpu.X, want)
		case s == "Y":
			checkuint8("Y", cpu.Y, want)
		case s == "SP":
			checkuint8("SP", cpu.SP, want)
		case s == "PC":
			if uint64(cpu.PC) != want {
				t.Errorf("got PC=$%04X, want $%04X", cpu.PC, want)
			}
		case s == "clocks":
			if uint64(cpu.Clocks) != want {
				t.Errorf("got clocks=%d, want %d", cpu.Clocks, want)
			}
		case s == "P":
			if got := uint8(cpu.P); uint64(got) != want {
				t.Errorf("got P=$%02X(%s), want $%02X(%s)", got, P(got), want, P(want))
			}
		case len(s) > 1 && s[0] == 'P':
			for j := 1; j < len(s); j++ {
				switch s[j] {
				case 'n':
					checkbool("Pn", cpu.P.N(), want)
				case 'v':
					checkbool("Pv", cpu.P.V(), want)
				case 'b':
					checkbool("Pb", cpu.P.B(), want)
				case 'd':
					checkbool("Pd", cpu.P.D(), want)
				case 'i':
					checkbool("Pi", cpu.P.I(), want)
				case 'z':
					checkbool("Pz", cpu.P.Z(), want)
				case 'c':
					checkbool("Pc", cpu.P.C(), want)
				default:
					panic("unknown P bit: " + string(s[j]))
				}
			}
		default:
			panic("unknown state: " + s)
		}
	}

	if t.Failed() {
		t.FailNow()
	}
}

func wantMem8(t *testing.T, cpu *CPU, addr uint16, want uint8) {
	t.Helper()

	if got := cpu.Read8(addr); got != want {
		t.Errorf("$%04X = %02X want %02X", addr, got, want)
	}
}

type tbwriter struct {
	testing.TB
}

func (t tbwriter) Write(p []byte) (int, error) {
	t.TB.Helper()
	t.TB.Log(string(bytes.TrimSpace((p))))
	return len(p), nil
}
