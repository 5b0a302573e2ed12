//go:build amd64

package simview

import (
	"image"

	"gioui.org/app"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"github.com/sirupsen/logrus"
)

type window struct {
	w *app.Window
}

func startWindow(source func() image.Image) *window {
	win := &window{
		w: app.NewWindow(app.Title("hygroseg"), app.Size(unit.Px(256), unit.Px(128)), app.MinSize(unit.Px(128), unit.Px(64))),
	}
	go func() {
		if err := win.loop(source); err != nil {
			logrus.Warnf("Simulation window closed: %v", err)
		}
	}()
	go app.Main()
	return win
}

func (win *window) invalidate() {
	win.w.Invalidate()
}

func (win *window) close() {
	win.w.Close()
}

func (win *window) loop(source func() image.Image) error {
	var ops op.Ops
	for {
		e := <-win.w.Events()
		switch e := e.(type) {
		case system.DestroyEvent:
			return e.Err
		case system.FrameEvent:
			gtx := layout.NewContext(&ops, e)

			img := widget.Image{Src: paint.NewImageOp(source()), Fit: widget.Contain}
			img.Layout(gtx)
			e.Frame(gtx.Ops)
		}
	}
}
