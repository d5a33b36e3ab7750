package hwio

import (
	"fmt"

	"nescore/emu/log"
)

type RWFlags uint8

const (
	ReadWriteFlag RWFlags = 0
	ReadOnlyFlag  RWFlags = (1 << iota)
	WriteOnlyFlag
)

// Reg8 is an 8-bit device register.
//
// The CPU reads register values straight from the bus, so a read has no side
// effect until the caller runs PostRead, which then calls ReadCb with the value
// that was read. WriteCb runs after each accepted write.
type Reg8 struct {
	Name  string
	Value uint8
	Flags RWFlags

	ReadCb  func(val uint8)
	WriteCb func(old uint8, val uint8)
}

func (reg Reg8) String() string {
	s := fmt.Sprintf("%s{%02x", reg.Name, reg.Value)
	if reg.ReadCb != nil {
		s += ",r!"
	}
	if reg.WriteCb != nil {
		s += ",w!"
	}
	return s + "}"
}

// Write8 stores val. Writes to read-only registers are dropped.
func (reg *Reg8) Write8(val uint8) {
	if reg.Flags&ReadOnlyFlag != 0 {
		log.ModHwIo.WarnZ("invalid Write8 to readonly reg").
			String("name", reg.Name).
			Hex8("val", val).
			End()
		return
	}
	old := reg.Value
	reg.Value = val
	if reg.WriteCb != nil {
		reg.WriteCb(old, reg.Value)
	}
}

// PostRead triggers the side effects of a CPU read.
func (reg *Reg8) PostRead() {
	if reg.Flags&WriteOnlyFlag != 0 {
		log.ModHwIo.DebugZ("Read8 from writeonly reg").
			String("name", reg.Name).
			End()
		return
	}
	if reg.ReadCb != nil {
		reg.ReadCb(reg.Value)
	}
}
