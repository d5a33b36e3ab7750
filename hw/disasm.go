package hw

import (
	"fmt"
	"io"
	"strings"

	"nescore/hw/hwio"
)

// Disasm returns the assembly listing of the instruction at pc made of opcode
// and its operand bytes b1 and b2 (if any).
func Disasm(pc uint16, opcode, b1, b2 uint8) string {
	def := LookupOpcode(opcode)
	switch {
	case def == nil:
		return fmt.Sprintf(".DB $%02X", opcode)
	case def.Flags&OpRelative != 0:
		return fmt.Sprintf(def.Format, pc+2+uint16(int8(b1)))
	case def.Size == 1:
		return def.Format
	case def.Size == 2:
		return fmt.Sprintf(def.Format, b1)
	}
	return fmt.Sprintf(def.Format, uint16(b1)|uint16(b2)<<8)
}

// DisasmOp is a disassembled instruction.
type DisasmOp struct {
	Opcode string
	Oper   string
	Buf    []byte
	PC     uint16
}

// DisasmAt disassembles the instruction at pc, reading from r. With labels
// set, absolute addresses of known registers are replaced by their name.
func DisasmAt(r hwio.Reader, pc uint16, labels bool) DisasmOp {
	opcode := r.Read8(pc)
	b1, b2 := r.Read8(pc+1), r.Read8(pc+2)

	size := 1
	if def := LookupOpcode(opcode); def != nil {
		size = int(def.Size)
	}

	op := DisasmOp{
		Buf: []byte{opcode, b1, b2}[:size],
		PC:  pc,
	}
	op.Opcode, op.Oper, _ = strings.Cut(Disasm(pc, opcode, b1, b2), " ")
	if labels && size == 3 {
		addr := uint16(b1) | uint16(b2)<<8
		if label, ok := addressLabels[addr]; ok {
			op.Oper = strings.Replace(op.Oper, fmt.Sprintf("$%04X", addr), label, 1)
		}
	}
	return op
}

func (d DisasmOp) String() string {
	return strings.TrimRight(string(d.Bytes()), " ")
}

// Bytes returns the string representation of a DisasmOp, this is optimized
// version, suitable for the execution tracer.
func (d DisasmOp) Bytes() []byte {
	const totalLen = 48
	buf := make([]byte, totalLen)

	hexEncode(buf[0:], byte(d.PC>>8))
	hexEncode(buf[2:], byte(d.PC))
	buf[4] = ' '
	buf[5] = ' '

	off := 6
	for i := range d.Buf {
		hexEncode(buf[off:], d.Buf[i])
		buf[off+2] = ' '
		off += 3
	}

	for ; off < 16; off++ {
		buf[off] = ' '
	}

	off += copy(buf[off:], d.Opcode)
	if d.Oper != "" {
		buf[off] = ' '
		off++
	}

	buf = append(buf[:off], d.Oper...)
	off += len(d.Oper)
	if len(buf) > totalLen {
		buf = append(buf, ' ')
	} else {
		buf = buf[:totalLen]
		for i := off; i < totalLen; i++ {
			buf[i] = ' '
		}
	}

	return buf
}

// Listing writes the disassembly of [start, end] to w, one instruction per
// line.
func Listing(w io.Writer, r hwio.Reader, start, end uint16, labels bool) error {
	for pc := int(start); pc <= int(end); {
		op := DisasmAt(r, uint16(pc), labels)
		if _, err := fmt.Fprintln(w, op.String()); err != nil {
			return err
		}
		pc += len(op.Buf)
	}
	return nil
}

var addressLabels = map[uint16]string{
	0x2000: "PpuControl_2000",
	0x2001: "PpuMask_2001",
	0x2002: "PpuStatus_2002",
	0x2003: "OamAddr_2003",
	0x2004: "OamData_2004",
	0x2005: "PpuScroll_2005",
	0x2006: "PpuAddr_2006",
	0x2007: "PpuData_2007",
	0x4014: "SpriteDma_4014",
	0x4015: "ApuStatus_4015",
	0x4016: "Ctrl1_4016",
	0x4017: "Ctrl2_FrameCtr_4017",
}

func hexEncode(dst []byte, v byte) {
	const hextable = "0123456789ABCDEF"
	dst[0] = hextable[v>>4]
	dst[1] = hextable[v&0x0f]
}
