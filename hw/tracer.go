package hw

import (
	"fmt"
	"io"

	"github.com/go-faster/jx"
)

// An Observer is notified after each instruction, with the registers as they
// were before it ran.
type Observer interface {
	Step(before Regs, in *Instruction)
}

// Observers dispatches notifications to multiple observers.
type Observers []Observer

func (obs Observers) Step(before Regs, in *Instruction) {
	for _, o := range obs {
		o.Step(before, in)
	}
}

// TraceFormat selects the execution trace output.
type TraceFormat int

const (
	TraceText TraceFormat = iota // one line per instruction, fceux style
	TraceJSON                    // one JSON object per line
)

// ParseTraceFormat parses "text" or "json".
func ParseTraceFormat(s string) (TraceFormat, error) {
	switch s {
	case "text", "":
		return TraceText, nil
	case "json":
		return TraceJSON, nil
	}
	return 0, fmt.Errorf("unknown trace format %q", s)
}

// Tracer writes the execution trace to w.
type Tracer struct {
	w      io.Writer
	format TraceFormat

	buf []byte
	enc jx.Encoder
}

func NewTracer(w io.Writer, format TraceFormat) *Tracer {
	return &Tracer{w: w, format: format}
}

func (t *Tracer) Step(before Regs, in *Instruction) {
	switch t.format {
	case TraceJSON:
		t.writeJSON(before, in)
	default:
		t.writeText(before, in)
	}
}

// writeText writes a line such as:
//
//	c7          A:00 X:00 Y:00 S:FD P:nvUBdIzc  $C000:4C F5 C5  JMP $C5F5
func (t *Tracer) writeText(r Regs, in *Instruction) {
	buf := fmt.Appendf(t.buf[:0], "c%-11d A:%02X X:%02X Y:%02X S:%02X P:%s  $%04X:%02X %02X %02X  %s",
		r.Clocks, r.A, r.X, r.Y, r.SP, r.P, r.PC, in.Opcode, in.Data[0], in.Data[1], in.String())
	if in.Read && in.Operand.Kind == OperMem {
		buf = fmt.Appendf(buf, " = #$%02X", in.Value)
	}
	buf = append(buf, '\n')
	t.w.Write(buf)
	t.buf = buf
}

func (t *Tracer) writeJSON(r Regs, in *Instruction) {
	e := &t.enc
	e.Reset()
	e.ObjStart()
	e.FieldStart("clk")
	e.Int64(r.Clocks)
	e.FieldStart("pc")
	e.UInt16(r.PC)
	e.FieldStart("op")
	e.UInt8(in.Opcode)
	e.FieldStart("a")
	e.UInt8(r.A)
	e.FieldStart("x")
	e.UInt8(r.X)
	e.FieldStart("y")
	e.UInt8(r.Y)
	e.FieldStart("sp")
	e.UInt8(r.SP)
	e.FieldStart("p")
	e.UInt8(uint8(r.P))
	e.FieldStart("mode")
	e.Str(in.Mode.String())
	e.FieldStart("asm")
	e.Str(in.String())
	if in.Operand.Kind == OperMem {
		e.FieldStart("addr")
		e.UInt16(in.Operand.Addr)
	}
	e.ObjEnd()

	t.buf = append(append(t.buf[:0], e.Bytes()...), '\n')
	t.w.Write(t.buf)
}
