package hw

import (
	"fmt"
	"io"

	"nescore/emu/log"
)

const historySize = 100

type histEntry struct {
	regs Regs
	in   Instruction
}

// History records the last executed instructions and dumps them when the
// execution reaches a breakpoint.
type History struct {
	entries [historySize]histEntry
	next    int
	count   int

	breakpoint int // -1 when disabled
	hits       int
	w          io.Writer

	// OnBreak, if set, is called after the history has been dumped.
	OnBreak func(pc uint16)
}

// NewHistory creates a History dumping to w. A negative breakpoint disables
// dumps.
func NewHistory(w io.Writer, breakpoint int) *History {
	return &History{w: w, breakpoint: breakpoint}
}

func (h *History) Step(before Regs, in *Instruction) {
	h.entries[h.next] = histEntry{regs: before, in: *in}
	h.next = (h.next + 1) % historySize
	h.count = min(h.count+1, historySize)

	if h.breakpoint >= 0 && int(before.PC) == h.breakpoint {
		h.hits++
		log.ModCPU.InfoZ("breakpoint hit").
			Hex16("PC", before.PC).
			Int64("clocks", before.Clocks).
			Int("hits", h.hits).
			End()
		h.Dump(h.w)
		if h.OnBreak != nil {
			h.OnBreak(before.PC)
		}
	}
}

// Hits returns how many times the breakpoint has been reached.
func (h *History) Hits() int { return h.hits }

// Len returns the number of recorded instructions.
func (h *History) Len() int { return h.count }

// Last returns the i-th most recent instruction (0 is the last executed).
func (h *History) Last(i int) (Regs, Instruction) {
	idx := (h.next - 1 - i + 2*historySize) % historySize
	e := &h.entries[idx]
	return e.regs, e.in
}

// Dump writes the recorded instructions, oldest first.
func (h *History) Dump(w io.Writer) {
	if w == nil {
		return
	}
	for i := h.count - 1; i >= 0; i-- {
		r, in := h.Last(i)
		fmt.Fprintf(w, "%04X  %-16s A:%02X X:%02X Y:%02X P:%s SP:%02X CYC:%d\n",
			r.PC, in.String(), r.A, r.X, r.Y, r.P, r.SP, r.Clocks)
	}
}
