package hwio

import (
	"fmt"

	"nescore/emu/log"
)

// log unmapped accesses (useful for debugging but verbose on NES since many
// games read from open bus)
const logUnmapped = false

const (
	PageShift = 8
	PageSize  = 1 << PageShift
	NumPages  = 0x10000 >> PageShift
)

// Reader is implemented by anything that can be read one byte at a time.
type Reader interface {
	Read8(addr uint16) uint8
}

func Read16(r Reader, addr uint16) uint16 {
	lo := r.Read8(addr)
	hi := r.Read8(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

type page struct {
	data  []byte
	mask  uint8
	flags MemFlags
	name  string
}

const unmapped MemFlags = 1 << 16

// reads from unmapped pages return 0.
var openBus = []byte{0}

func (p *page) mapped() bool { return p.flags&unmapped == 0 }

// Table is a page-granular address space. Each of the 256 pages is owned by
// exactly one memory area at a time; remapping a page replaces it wholesale.
type Table struct {
	Name string

	pages [NumPages]page
}

func NewTable(name string) *Table {
	t := new(Table)
	t.Name = name
	t.Reset()
	return t
}

// Reset unmaps all pages.
func (t *Table) Reset() {
	t.Unmap(0x0000, 0xFFFF)
}

// MapMem maps mem at addr, covering mem.VSize bytes (or len(mem.Data) if VSize
// is 0). addr and the virtual size must be page aligned.
func (t *Table) MapMem(addr uint16, mem *Mem) {
	vsize := mem.vsize()
	switch {
	case !ispow2(len(mem.Data)):
		panic(fmt.Sprintf("hwio: %s: memory buffer size is not pow2 (%d)", mem.Name, len(mem.Data)))
	case addr%PageSize != 0 || vsize%PageSize != 0:
		panic(fmt.Sprintf("hwio: %s: mapping not page aligned (addr=%04X vsize=%X)", mem.Name, addr, vsize))
	case int(addr)+vsize > 0x10000:
		panic(fmt.Sprintf("hwio: %s: mapping overflows the address space (addr=%04X vsize=%X)", mem.Name, addr, vsize))
	}

	log.ModHwIo.DebugZ("mapping mem").
		Hex16("addr", addr).
		Hex32("size", uint32(vsize)).
		String("area", mem.Name).
		String("bus", t.Name).
		End()

	first := int(addr) >> PageShift
	for i := range vsize >> PageShift {
		p := &t.pages[first+i]
		p.flags = mem.Flags
		p.name = mem.Name
		if len(mem.Data) < PageSize {
			p.data = mem.Data
			p.mask = uint8(len(mem.Data) - 1)
			continue
		}
		off := (i * PageSize) & (len(mem.Data) - 1)
		p.data = mem.Data[off : off+PageSize]
		p.mask = 0xFF
	}
}

// MapMemorySlice maps mem in [addr, end], mirrored if mem is smaller.
func (t *Table) MapMemorySlice(name string, addr, end uint16, mem []uint8, readonly bool) {
	var flags MemFlags
	if readonly {
		flags |= MemFlagReadOnly
	}
	t.MapMem(addr, &Mem{
		Name:  name,
		Data:  mem,
		Flags: flags,
		VSize: int(end) - int(addr) + 1,
	})
}

// Unmap all pages in the [begin, end] range.
func (t *Table) Unmap(begin, end uint16) {
	for i := int(begin) >> PageShift; i <= int(end)>>PageShift; i++ {
		t.pages[i] = page{data: openBus, flags: unmapped | MemFlagReadOnly}
	}
}

// Read8 reads a byte from the page owning addr. It never has side effects, the
// caller is responsible for calling hooks on special pages.
func (t *Table) Read8(addr uint16) uint8 {
	p := &t.pages[addr>>PageShift]
	if logUnmapped && !p.mapped() {
		log.ModHwIo.ErrorZ("unmapped Read8").
			String("name", t.Name).
			Hex16("addr", addr).
			End()
	}
	return p.data[uint8(addr)&p.mask]
}

// Peek8 is a convenience function.
func (t *Table) Peek8(addr uint16) uint8 {
	return t.Read8(addr)
}

// Write8 stores val directly into the page owning addr.
func (t *Table) Write8(addr uint16, val uint8) {
	p := &t.pages[addr>>PageShift]
	switch {
	case !p.mapped():
		if logUnmapped {
			log.ModHwIo.ErrorZ("unmapped Write8").
				String("name", t.Name).
				Hex16("addr", addr).
				Hex8("val", val).
				End()
		}
	case p.flags&MemFlagReadOnly != 0:
		if p.flags&MemFlagNoROLog == 0 {
			log.ModHwIo.ErrorZ("Write8 to read-only address").
				String("name", t.Name).
				String("area", p.name).
				Hex16("addr", addr).
				Hex8("val", val).
				End()
		}
	default:
		p.data[uint8(addr)&p.mask] = val
	}
}

// Resolve returns the location of the byte at addr, and whether the page
// owning it is special. The location is nil for unmapped pages.
func (t *Table) Resolve(addr uint16) (loc *uint8, special bool) {
	p := &t.pages[addr>>PageShift]
	if !p.mapped() {
		return nil, false
	}
	return &p.data[uint8(addr)&p.mask], p.flags&MemFlagSpecial != 0
}

// IsSpecial reports whether addr lies in a special page.
func (t *Table) IsSpecial(addr uint16) bool {
	return t.pages[addr>>PageShift].flags&MemFlagSpecial != 0
}

// Area returns the name of the memory area mapped at addr, or an empty
// string if nothing is mapped there.
func (t *Table) Area(addr uint16) string {
	return t.pages[addr>>PageShift].name
}
