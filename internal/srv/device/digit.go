package device

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/jypelle/hygroseg/internal/mailbox"
	"github.com/jypelle/hygroseg/internal/sevenseg"
	"github.com/sirupsen/logrus"
)

// Digit keeps one digit of the published value lit by multiplexing the shared
// panel with the other digit.
type Digit struct {
	lock sync.Mutex

	position   sevenseg.Position
	extract    func(value int) sevenseg.Pattern
	mailbox    *mailbox.Mailbox[int]
	panel      *Panel
	clock      clockwork.Clock
	frames     int
	frameDelay time.Duration

	cancel context.CancelFunc
	done   chan bool
}

// NewDigit returns the task rendering position pos. A burst is frames renders
// each followed by frameDelay.
func NewDigit(pos sevenseg.Position, mb *mailbox.Mailbox[int], panel *Panel, clock clockwork.Clock, frames int, frameDelay time.Duration) *Digit {
	if frames < 1 {
		frames = 1
	}
	return &Digit{
		position:   pos,
		extract:    func(value int) sevenseg.Pattern { return sevenseg.Glyph(pos, value) },
		mailbox:    mb,
		panel:      panel,
		clock:      clock,
		frames:     frames,
		frameDelay: frameDelay,
	}
}

func (d *Digit) Start() {
	logrus.Infof("Start %s digit device", d.position)
	d.lock.Lock()
	defer d.lock.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.done = make(chan bool)

	go func() {
		d.run(ctx)
		d.done <- true
	}()
}

func (d *Digit) Stop() {
	logrus.Infof("Stop %s digit device", d.position)
	d.lock.Lock()
	defer d.lock.Unlock()

	if d.cancel == nil {
		return
	}
	d.cancel()
	<-d.done
	d.cancel = nil
}

func (d *Digit) run(ctx context.Context) {
	failing := false
	for ctx.Err() == nil {
		pattern := sevenseg.Blank
		if value, ok := d.mailbox.Peek(); ok {
			pattern = d.extract(value)
		}

		for i := 0; i < d.frames; i++ {
			err := d.panel.Render(ctx, d.position, pattern)
			if ctx.Err() != nil {
				return
			}
			if err != nil && !failing {
				logrus.Warnf("Unable to render %s digit: %v", d.position, err)
			} else if err == nil && failing {
				logrus.Infof("Rendering %s digit again", d.position)
			}
			failing = err != nil

			select {
			case <-d.clock.After(d.frameDelay):
			case <-ctx.Done():
				return
			}
		}
	}
}
