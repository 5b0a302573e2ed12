package device

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/bitmapfont/v2"
	"github.com/jypelle/hygroseg/internal/sevenseg"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

const (
	panelWidth  = 128
	panelHeight = 64

	digitWidth     = 36
	digitHeight    = 52
	digitThickness = 5
	digitTop       = 6
)

var (
	backgroundColor = color.RGBA{0, 0, 0, 255}
	litColor        = color.RGBA{255, 40, 20, 255}
	unlitColor      = color.RGBA{40, 10, 10, 255}
	labelColor      = color.RGBA{255, 255, 255, 255}
)

var digitOrigins = [2]image.Point{
	sevenseg.Left:  image.Pt(8, digitTop),
	sevenseg.Right: image.Pt(56, digitTop),
}

// segmentRects holds each segment relative to the digit origin.
var segmentRects = [sevenseg.SegmentCount]image.Rectangle{
	sevenseg.SegA:  image.Rect(digitThickness, 0, digitWidth-digitThickness, digitThickness),
	sevenseg.SegB:  image.Rect(digitWidth-digitThickness, digitThickness, digitWidth, digitHeight/2),
	sevenseg.SegC:  image.Rect(digitWidth-digitThickness, digitHeight/2, digitWidth, digitHeight-digitThickness),
	sevenseg.SegD:  image.Rect(digitThickness, digitHeight-digitThickness, digitWidth-digitThickness, digitHeight),
	sevenseg.SegE:  image.Rect(0, digitHeight/2, digitThickness, digitHeight-digitThickness),
	sevenseg.SegF:  image.Rect(0, digitThickness, digitThickness, digitHeight/2),
	sevenseg.SegG:  image.Rect(digitThickness, digitHeight/2-2, digitWidth-digitThickness, digitHeight/2+3),
	sevenseg.SegDP: image.Rect(digitWidth+2, digitHeight-digitThickness, digitWidth+2+digitThickness, digitHeight),
}

// RenderPanel draws both digits as the LED panel would show them, with label
// printed on the right.
func RenderPanel(left, right sevenseg.Pattern, label string) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, panelWidth, panelHeight))
	draw.Draw(img, img.Bounds(), &image.Uniform{backgroundColor}, image.Point{}, draw.Src)

	addDigit(img, digitOrigins[sevenseg.Left], left)
	addDigit(img, digitOrigins[sevenseg.Right], right)
	AddLabel(img, 98, 36, label)
	return img
}

// SegmentCenter returns the pixel at the middle of segment s of the digit at
// pos in a rendered panel.
func SegmentCenter(pos sevenseg.Position, s sevenseg.Segment) image.Point {
	r := segmentRects[s].Add(digitOrigins[pos])
	return image.Pt((r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2)
}

func addDigit(img draw.Image, origin image.Point, pattern sevenseg.Pattern) {
	for s, r := range segmentRects {
		col := unlitColor
		if pattern.On(sevenseg.Segment(s)) {
			col = litColor
		}
		draw.Draw(img, r.Add(origin), &image.Uniform{col}, image.Point{}, draw.Src)
	}
}

func AddLabel(img draw.Image, x, y int, label string) {
	point := fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(labelColor),
		Face: bitmapfont.Face,
		Dot:  point,
	}
	d.DrawString(label)
}
