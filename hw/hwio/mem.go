package hwio

type MemFlags int

const (
	MemFlagReadWrite MemFlags = 0
	MemFlagReadOnly  MemFlags = 1 << iota // writes are rejected (and logged)
	MemFlagNoROLog                        // silently drop writes to read-only memory
	MemFlagSpecial                        // accesses must go through side-effecting hooks
)

// Linear memory area that can be mapped into a Table.
//
// Data length must be a power of 2. When VSize is bigger than len(Data), the
// buffer is mirrored over the whole virtual range. Buffers smaller than a page
// (such as an 8-byte register file) are mirrored within each page.
type Mem struct {
	Name  string   // name of the memory area (for debugging)
	Data  []byte   // actual memory buffer
	VSize int      // virtual size of the memory (can be bigger than physical size)
	Flags MemFlags // flags determining how the memory can be accessed
}

func (m *Mem) vsize() int {
	if m.VSize == 0 {
		return len(m.Data)
	}
	return m.VSize
}

func ispow2(n int) bool {
	return n != 0 && n&(n-1) == 0
}
