package device

import (
	"testing"

	"github.com/jypelle/hygroseg/internal/sevenseg"
	"gotest.tools/v3/assert"
)

func TestRenderPanel(t *testing.T) {
	img := RenderPanel(sevenseg.Digit(4), sevenseg.Digit(5), "%RH")
	assert.Equal(t, img.Bounds().Dx(), panelWidth)
	assert.Equal(t, img.Bounds().Dy(), panelHeight)

	cases := []struct {
		pos sevenseg.Position
		seg sevenseg.Segment
		lit bool
	}{
		{sevenseg.Left, sevenseg.SegA, false},
		{sevenseg.Left, sevenseg.SegB, true},
		{sevenseg.Left, sevenseg.SegF, true},
		{sevenseg.Left, sevenseg.SegG, true},
		{sevenseg.Left, sevenseg.SegDP, false},
		{sevenseg.Right, sevenseg.SegA, true},
		{sevenseg.Right, sevenseg.SegB, false},
		{sevenseg.Right, sevenseg.SegE, false},
		{sevenseg.Right, sevenseg.SegD, true},
	}
	for _, c := range cases {
		p := SegmentCenter(c.pos, c.seg)
		want := unlitColor
		if c.lit {
			want = litColor
		}
		assert.Equal(t, img.RGBAAt(p.X, p.Y), want, "%s digit segment %s", c.pos, c.seg)
	}
}

func TestRenderPanelBlank(t *testing.T) {
	img := RenderPanel(sevenseg.Blank, sevenseg.Blank, "")
	for s := sevenseg.SegA; s <= sevenseg.SegDP; s++ {
		p := SegmentCenter(sevenseg.Right, s)
		assert.Equal(t, img.RGBAAt(p.X, p.Y), unlitColor)
	}
}
