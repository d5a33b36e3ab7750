package hw

import (
	"nescore/emu/log"
)

// an InputDevice is a generic interface for NES input devices.
type InputDevice interface {
	// LoadState captures the current state of both input devices.
	LoadState() (uint8, uint8)
}

// InputPorts handles I/O with an InputDevice (such as standard NES controller
// for example). The values the CPU reads at $4016/$4017 are kept up to date
// in the I/O latch, the shift happens after the read.
type InputPorts struct {
	dev   InputDevice
	latch []byte // I/O page, indexed by addr&0xFF

	prevStrobe, strobe bool     // to observe strobe falling edge.
	state              [2]uint8 // state shift registers.
}

func (ip *InputPorts) init(latch []byte) {
	ip.latch = latch
	ip.reset()
}

func (ip *InputPorts) reset() {
	ip.strobe, ip.prevStrobe = false, false
	ip.state = [2]uint8{}
	ip.refresh()
}

// Plug connects dev to the ports, nil unplugs.
func (ip *InputPorts) Plug(dev InputDevice) {
	ip.dev = dev
}

// refresh exposes bit 0 of both shift registers in the latch.
func (ip *InputPorts) refresh() {
	if ip.latch == nil {
		return
	}
	// Emulate open bus behavior.
	ip.latch[regJOY1&0xFF] = 0x40 | ip.state[0]&1
	ip.latch[regJOY2&0xFF] = 0x40 | ip.state[1]&1
}

// capture state of all connected input devices.
func (ip *InputPorts) loadstate() {
	if ip.dev == nil {
		// No controller is connected.
		ip.state[0] = 0
		ip.state[1] = 0
		return
	}

	ip.state[0], ip.state[1] = ip.dev.LoadState()
}

// WriteStrobe handles a write to $4016. While the strobe bit is set, the
// shift registers are continuously reloaded.
func (ip *InputPorts) WriteStrobe(val uint8) {
	ip.prevStrobe = ip.strobe
	ip.strobe = val&1 == 1
	if ip.strobe || ip.prevStrobe {
		ip.loadstate()
	}
	log.ModInput.DebugZ("strobe").
		Bool("strobe", ip.strobe).
		Hex8("pad1", ip.state[0]).
		Hex8("pad2", ip.state[1]).
		End()
	ip.refresh()
}

// PostRead shifts the register of port (0 or 1) after it has been read.
func (ip *InputPorts) PostRead(port int) {
	if ip.strobe {
		ip.loadstate()
	} else {
		ip.state[port] >>= 1

		// After 8 bits are read, all subsequent bits will report 1 on a
		// standard NES controller, but third party and other controllers may
		// report other values here
		ip.state[port] |= 0x80
	}
	ip.refresh()
}
