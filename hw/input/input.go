package input

import "strings"

// A PaddleButton identifies a button of a standard NES controller/paddle.
type PaddleButton byte

const (
	PadA PaddleButton = iota
	PadB
	PadSelect
	PadStart
	PadUp
	PadDown
	PadLeft
	PadRight

	PadButtonCount
)

var buttonNames = [PadButtonCount]string{
	"A", "B",
	"Select", "Start",
	"Up", "Down", "Left", "Right",
}

func (pd PaddleButton) String() string {
	return buttonNames[pd]
}

// ButtonByName returns the button named name (case insensitive).
func ButtonByName(name string) (PaddleButton, bool) {
	for i, n := range buttonNames {
		if strings.EqualFold(n, name) {
			return PaddleButton(i), true
		}
	}
	return 0, false
}

// Joypads holds the state of the two standard controllers. The bit order of
// a paddle state is the order in which the console shifts buttons out.
type Joypads struct {
	state [2]uint8
}

func (j *Joypads) Press(pad int, btn PaddleButton) {
	j.state[pad] |= 1 << btn
}

func (j *Joypads) Release(pad int, btn PaddleButton) {
	j.state[pad] &^= 1 << btn
}

func (j *Joypads) IsPressed(pad int, btn PaddleButton) bool {
	return j.state[pad]&(1<<btn) != 0
}

// LoadState captures the current state of both paddles.
func (j *Joypads) LoadState() (uint8, uint8) {
	return j.state[0], j.state[1]
}
