package simview

import (
	"image"
	"sync"
	"time"

	"github.com/jypelle/hygroseg/internal/sevenseg"
	"github.com/jypelle/hygroseg/internal/srv/device"
	"github.com/jypelle/hygroseg/internal/srv/state"
	"github.com/sirupsen/logrus"
)

const refreshPeriod = 50 * time.Millisecond

// Display mirrors the LED panel in a desktop window while running in
// simulation mode.
type Display struct {
	lock    sync.RWMutex
	panel   *device.Panel
	state   *state.ServerState
	lastImg image.Image

	lastLeft, lastRight sevenseg.Pattern
	lastLabel           string

	window *window

	refreshTicker *time.Ticker
	askDone       chan bool
	done          chan bool
}

func NewDisplay(panel *device.Panel, serverState *state.ServerState) *Display {
	return &Display{
		panel:   panel,
		state:   serverState,
		lastImg: device.RenderPanel(sevenseg.Blank, sevenseg.Blank, ""),
		askDone: make(chan bool),
		done:    make(chan bool),
	}
}

func (d *Display) Start() {
	logrus.Infof("Start simulation display")

	d.window = startWindow(d.image)
	d.refreshTicker = time.NewTicker(refreshPeriod)

	go func() {
		for loop := true; loop; {
			select {
			case <-d.refreshTicker.C:
				if d.refresh() {
					d.window.invalidate()
				}
			case <-d.askDone:
				loop = false
			}
		}
		d.done <- true
	}()
}

func (d *Display) Stop() {
	logrus.Infof("Stop simulation display")

	d.refreshTicker.Stop()
	d.askDone <- true
	<-d.done
	d.window.close()
}

// refresh redraws the panel image when a digit or the label changed.
func (d *Display) refresh() bool {
	left, right := d.panel.Snapshot()
	_, quantity := d.state.Shown()
	label := quantity.Unit()

	d.lock.Lock()
	defer d.lock.Unlock()

	if left == d.lastLeft && right == d.lastRight && label == d.lastLabel {
		return false
	}
	logrus.Debugf("Panel shows %s%s %s", left, right, label)
	d.lastLeft, d.lastRight, d.lastLabel = left, right, label
	d.lastImg = device.RenderPanel(left, right, label)
	return true
}

func (d *Display) image() image.Image {
	d.lock.RLock()
	defer d.lock.RUnlock()
	return d.lastImg
}
