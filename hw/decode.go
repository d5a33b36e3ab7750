package hw

// family groups the instructions sharing the same semantics. The register
// and flag an instruction works with are carried by its decoded form.
type family uint8

const (
	famInvalid family = iota
	famLoad
	famStore
	famTransfer
	famInc
	famDec
	famIncReg
	famDecReg
	famADC
	famSBC
	famAND
	famORA
	famEOR
	famASL
	famLSR
	famROL
	famROR
	famBIT
	famCompare
	famBranch
	famFlag
	famJMP
	famJMPInd
	famJSR
	famRTS
	famRTI
	famBRK
	famPush
	famPull
	famNOP
)

type register uint8

const (
	regA register = iota
	regX
	regY
	regSP
	regP
)

// decoded is the first dispatch stage: it tells the executor which family
// function runs, and on which register or flag.
type decoded struct {
	fam  family
	reg  register // target register
	src  register // source register, for transfers
	flag P        // tested flag for branches, affected flag for set/clear
	on   bool     // branch taken when flag is set, or flag value to set
}

var decodeTable [256]decoded

func init() {
	for op := range decodeTable {
		decodeTable[op] = decodeOp(uint8(op))
	}
}

// decodeOp maps an opcode to its family. Unofficial opcodes decode to
// famInvalid.
func decodeOp(op uint8) decoded {
	switch op {
	case 0xA9, 0xA5, 0xB5, 0xAD, 0xBD, 0xB9, 0xA1, 0xB1:
		return decoded{fam: famLoad, reg: regA}
	case 0xA2, 0xA6, 0xB6, 0xAE, 0xBE:
		return decoded{fam: famLoad, reg: regX}
	case 0xA0, 0xA4, 0xB4, 0xAC, 0xBC:
		return decoded{fam: famLoad, reg: regY}

	case 0x85, 0x95, 0x8D, 0x9D, 0x99, 0x81, 0x91:
		return decoded{fam: famStore, reg: regA}
	case 0x86, 0x96, 0x8E:
		return decoded{fam: famStore, reg: regX}
	case 0x84, 0x94, 0x8C:
		return decoded{fam: famStore, reg: regY}

	case 0xAA: // TAX
		return decoded{fam: famTransfer, src: regA, reg: regX}
	case 0xA8: // TAY
		return decoded{fam: famTransfer, src: regA, reg: regY}
	case 0x8A: // TXA
		return decoded{fam: famTransfer, src: regX, reg: regA}
	case 0x98: // TYA
		return decoded{fam: famTransfer, src: regY, reg: regA}
	case 0xBA: // TSX
		return decoded{fam: famTransfer, src: regSP, reg: regX}
	case 0x9A: // TXS
		return decoded{fam: famTransfer, src: regX, reg: regSP}

	case 0xE6, 0xF6, 0xEE, 0xFE:
		return decoded{fam: famInc}
	case 0xC6, 0xD6, 0xCE, 0xDE:
		return decoded{fam: famDec}
	case 0xE8:
		return decoded{fam: famIncReg, reg: regX}
	case 0xC8:
		return decoded{fam: famIncReg, reg: regY}
	case 0xCA:
		return decoded{fam: famDecReg, reg: regX}
	case 0x88:
		return decoded{fam: famDecReg, reg: regY}

	case 0x69, 0x65, 0x75, 0x6D, 0x7D, 0x79, 0x61, 0x71:
		return decoded{fam: famADC}
	case 0xE9, 0xE5, 0xF5, 0xED, 0xFD, 0xF9, 0xE1, 0xF1:
		return decoded{fam: famSBC}
	case 0x29, 0x25, 0x35, 0x2D, 0x3D, 0x39, 0x21, 0x31:
		return decoded{fam: famAND}
	case 0x09, 0x05, 0x15, 0x0D, 0x1D, 0x19, 0x01, 0x11:
		return decoded{fam: famORA}
	case 0x49, 0x45, 0x55, 0x4D, 0x5D, 0x59, 0x41, 0x51:
		return decoded{fam: famEOR}

	case 0x0A, 0x06, 0x16, 0x0E, 0x1E:
		return decoded{fam: famASL}
	case 0x4A, 0x46, 0x56, 0x4E, 0x5E:
		return decoded{fam: famLSR}
	case 0x2A, 0x26, 0x36, 0x2E, 0x3E:
		return decoded{fam: famROL}
	case 0x6A, 0x66, 0x76, 0x6E, 0x7E:
		return decoded{fam: famROR}

	case 0x24, 0x2C:
		return decoded{fam: famBIT}
	case 0xC9, 0xC5, 0xD5, 0xCD, 0xDD, 0xD9, 0xC1, 0xD1:
		return decoded{fam: famCompare, reg: regA}
	case 0xE0, 0xE4, 0xEC:
		return decoded{fam: famCompare, reg: regX}
	case 0xC0, 0xC4, 0xCC:
		return decoded{fam: famCompare, reg: regY}

	case 0x10: // BPL
		return decoded{fam: famBranch, flag: Negative, on: false}
	case 0x30: // BMI
		return decoded{fam: famBranch, flag: Negative, on: true}
	case 0x50: // BVC
		return decoded{fam: famBranch, flag: Overflow, on: false}
	case 0x70: // BVS
		return decoded{fam: famBranch, flag: Overflow, on: true}
	case 0x90: // BCC
		return decoded{fam: famBranch, flag: Carry, on: false}
	case 0xB0: // BCS
		return decoded{fam: famBranch, flag: Carry, on: true}
	case 0xD0: // BNE
		return decoded{fam: famBranch, flag: Zero, on: false}
	case 0xF0: // BEQ
		return decoded{fam: famBranch, flag: Zero, on: true}

	case 0x18: // CLC
		return decoded{fam: famFlag, flag: Carry, on: false}
	case 0x38: // SEC
		return decoded{fam: famFlag, flag: Carry, on: true}
	case 0x58: // CLI
		return decoded{fam: famFlag, flag: Interrupt, on: false}
	case 0x78: // SEI
		return decoded{fam: famFlag, flag: Interrupt, on: true}
	case 0xB8: // CLV
		return decoded{fam: famFlag, flag: Overflow, on: false}
	case 0xD8: // CLD
		return decoded{fam: famFlag, flag: Decimal, on: false}
	case 0xF8: // SED
		return decoded{fam: famFlag, flag: Decimal, on: true}

	case 0x4C:
		return decoded{fam: famJMP}
	case 0x6C:
		return decoded{fam: famJMPInd}
	case 0x20:
		return decoded{fam: famJSR}
	case 0x60:
		return decoded{fam: famRTS}
	case 0x40:
		return decoded{fam: famRTI}
	case 0x00:
		return decoded{fam: famBRK}

	case 0x48:
		return decoded{fam: famPush, reg: regA}
	case 0x08:
		return decoded{fam: famPush, reg: regP}
	case 0x68:
		return decoded{fam: famPull, reg: regA}
	case 0x28:
		return decoded{fam: famPull, reg: regP}

	case 0xEA:
		return decoded{fam: famNOP}
	}
	return decoded{fam: famInvalid}
}

// reads reports whether the family consumes its operand value without writing
// it back. Only those trigger the post-read hook of special pages.
func (f family) reads() bool {
	switch f {
	case famLoad, famADC, famSBC, famAND, famORA, famEOR, famBIT, famCompare:
		return true
	}
	return false
}
