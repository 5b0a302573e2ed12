// Package sevenseg holds the segment encoding of a two digit seven-segment
// display and the policy that turns a displayed value into one glyph per
// digit position.
//
// Segments are named the usual way:
//
//	 AAA
//	F   B
//	 GGG
//	E   C
//	 DDD  .DP
package sevenseg

import "fmt"

// Segment identifies one segment line of a digit.
type Segment uint8

const (
	SegA Segment = iota // top bar
	SegB                // top right
	SegC                // bottom right
	SegD                // bottom bar
	SegE                // bottom left
	SegF                // top left
	SegG                // middle
	SegDP               // decimal point
)

// SegmentCount is the number of lines driven per burst, decimal point included.
const SegmentCount = 8

var segmentNames = [SegmentCount]string{"A", "B", "C", "D", "E", "F", "G", "DP"}

func (s Segment) String() string {
	if int(s) < len(segmentNames) {
		return segmentNames[s]
	}
	return fmt.Sprintf("Segment(%d)", uint8(s))
}

// Pattern is a segment bitmask: bit 0 is segment A, bit 6 is segment G and
// bit 7 the decimal point.
type Pattern uint8

const (
	Blank Pattern = 0x00
	Minus Pattern = 0x40
)

// digitPatterns maps a decimal digit to its lit segments.
var digitPatterns = [10]Pattern{
	0x3F, // 0
	0x06, // 1
	0x5B, // 2
	0x4F, // 3
	0x66, // 4
	0x6D, // 5
	0x7D, // 6
	0x07, // 7
	0x7F, // 8
	0x6F, // 9
}

// Digit returns the pattern of the decimal digit d. Anything outside 0-9 is
// rendered blank.
func Digit(d int) Pattern {
	if d < 0 || d > 9 {
		return Blank
	}
	return digitPatterns[d]
}

// On reports whether segment s is lit in p.
func (p Pattern) On(s Segment) bool {
	return p&(1<<s) != 0
}

// Digit returns the decimal digit p encodes, or -1 if it is not a digit.
func (p Pattern) Digit() int {
	for d, dp := range digitPatterns {
		if dp == p&^(1<<SegDP) {
			return d
		}
	}
	return -1
}

func (p Pattern) String() string {
	switch p {
	case Blank:
		return "blank"
	case Minus:
		return "-"
	}
	if d := p.Digit(); d >= 0 {
		return fmt.Sprintf("%d", d)
	}
	return fmt.Sprintf("0x%02X", uint8(p))
}

// Position is one of the two digits of the display.
type Position int

const (
	Left Position = iota
	Right
)

func (p Position) String() string {
	if p == Left {
		return "left"
	}
	return "right"
}

// Other returns the digit sharing the segment lines with p.
func (p Position) Other() Position {
	if p == Left {
		return Right
	}
	return Left
}

// Split returns the glyphs shown for value on the left and right digit.
//
//	0..99    tens and units, leading zero kept ("05")
//	-9..-1   minus sign and units ("-7")
//	other    "--"
func Split(value int) (left, right Pattern) {
	switch {
	case value >= 0 && value <= 99:
		return Digit(value / 10), Digit(value % 10)
	case value < 0 && value >= -9:
		return Minus, Digit(-value)
	default:
		return Minus, Minus
	}
}

// Glyph returns the pattern shown on position pos for value.
func Glyph(pos Position, value int) Pattern {
	left, right := Split(value)
	if pos == Left {
		return left
	}
	return right
}
