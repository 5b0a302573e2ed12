package device

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

// Line identifies one of the ten output lines of the display.
type Line int

const (
	LINE_A Line = iota
	LINE_B
	LINE_C
	LINE_D
	LINE_E
	LINE_F
	LINE_G
	LINE_DP
	LINE_ENABLE_LEFT
	LINE_ENABLE_RIGHT
	LINE_COUNT
)

var lineNames = [LINE_COUNT]string{"A", "B", "C", "D", "E", "F", "G", "DP", "LEFT", "RIGHT"}

func (l Line) String() string {
	if l >= 0 && l < LINE_COUNT {
		return lineNames[l]
	}
	return "?"
}

// Output is the part of a GPIO pin the display drives.
type Output interface {
	Out(l gpio.Level) error
}

// Lines is the full set of display outputs indexed by Line.
type Lines [LINE_COUNT]Output

// OpenLines resolves every line by its GPIO name and drives it low.
func OpenLines(names [LINE_COUNT]string) (Lines, error) {
	var lines Lines
	for i, name := range names {
		line := Line(i)
		pin := gpioreg.ByName(name)
		if pin == nil {
			return lines, errors.Errorf("failed to find %s line %q", line, name)
		}
		if err := pin.Out(gpio.Low); err != nil {
			return lines, errors.Wrapf(err, "failed to setup %s line %q", line, name)
		}
		logrus.Debugf("Line %s on %s", line, pin)
		lines[i] = pin
	}
	return lines, nil
}

// SimulatedLines returns in-memory pins standing in for the real ones.
func SimulatedLines() Lines {
	var lines Lines
	for i := range lines {
		lines[i] = &gpiotest.Pin{N: "SIM_" + Line(i).String(), Num: i, L: gpio.Low}
	}
	return lines
}
