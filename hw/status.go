package hw

// P is the 6502 processor status register.
type P uint8

const (
	Carry P = 1 << iota
	Zero
	Interrupt
	Decimal
	Break
	Unused
	Overflow
	Negative
)

func (p P) C() bool { return p&Carry != 0 }
func (p P) Z() bool { return p&Zero != 0 }
func (p P) I() bool { return p&Interrupt != 0 }
func (p P) D() bool { return p&Decimal != 0 }
func (p P) B() bool { return p&Break != 0 }
func (p P) U() bool { return p&Unused != 0 }
func (p P) V() bool { return p&Overflow != 0 }
func (p P) N() bool { return p&Negative != 0 }

func (p P) String() string {
	const bits = "nvubdizcNVUBDIZC"

	s := make([]byte, 8)
	for i := 0; i < 8; i++ {
		ibit := (uint8(p) & (1 << (7 - i))) >> (7 - i)
		s[i] = bits[i+int(8*ibit)]
	}
	return string(s)
}

// setFlag sets or clears the given flags.
func (p *P) setFlag(flags P, on bool) {
	if on {
		*p |= flags
	} else {
		*p &^= flags
	}
}

// keep clears all flags but the ones in mask.
func (p *P) keep(mask P) {
	*p &= mask
}

// checkNZ recomputes N and Z from v, other flags are left untouched.
func (p *P) checkNZ(v uint8) {
	*p &^= Negative | Zero
	*p |= P(v) & Negative
	if v == 0 {
		*p |= Zero
	}
}

// pushed returns the status as pushed on the stack, with the break flag set
// or cleared. The unused bit always reads 1.
func (p P) pushed(brk bool) uint8 {
	v := p | Unused
	if brk {
		v |= Break
	} else {
		v &^= Break
	}
	return uint8(v)
}

// pulled returns the status after popping v from the stack. The break and
// unused bits don't exist in the register, they keep their current value.
func (p P) pulled(v uint8) P {
	return p&(Break|Unused) | P(v)&^(Break|Unused)
}
