package device

import (
	"context"
	"sync"

	"github.com/jypelle/hygroseg/internal/sevenseg"
	"github.com/pkg/errors"
	"golang.org/x/sync/semaphore"
	"periph.io/x/conn/v3/gpio"
)

// burstWrites is the number of line writes in one Render.
const burstWrites = int(LINE_COUNT)

// DisplayMutex serializes write bursts on the shared segment lines. Waiters
// are served in arrival order.
type DisplayMutex struct {
	sem *semaphore.Weighted
}

func NewDisplayMutex() *DisplayMutex {
	return &DisplayMutex{sem: semaphore.NewWeighted(1)}
}

// Lock blocks until the lines are free or ctx is done.
func (m *DisplayMutex) Lock(ctx context.Context) error {
	return m.sem.Acquire(ctx, 1)
}

// TryLock takes the lines only if nobody holds them.
func (m *DisplayMutex) TryLock() bool {
	return m.sem.TryAcquire(1)
}

func (m *DisplayMutex) Unlock() {
	m.sem.Release(1)
}

// Panel is the single handle on the display outputs. Both digit tasks share
// it; every mutation happens inside Render or Clear with the mutex held.
type Panel struct {
	mutex        *DisplayMutex
	lines        Lines
	invertEnable bool

	// patterns last rendered per digit, for observers
	latchLock sync.RWMutex
	latched   [2]sevenseg.Pattern
	bursts    [2]uint64
}

// NewPanel takes ownership of lines. When invertEnable is set the enable lines
// are active low.
func NewPanel(lines Lines, mutex *DisplayMutex, invertEnable bool) *Panel {
	return &Panel{
		mutex:        mutex,
		lines:        lines,
		invertEnable: invertEnable,
	}
}

func (p *Panel) Mutex() *DisplayMutex {
	return p.mutex
}

// Render drives one burst for the digit at pos: the other digit is
// deselected, pos is selected, then segments A to G and DP are set. The mutex
// is released on every path.
func (p *Panel) Render(ctx context.Context, pos sevenseg.Position, pattern sevenseg.Pattern) error {
	if err := p.mutex.Lock(ctx); err != nil {
		return err
	}
	defer p.mutex.Unlock()

	if err := p.out(enableLine(pos.Other()), p.enableLevel(false)); err != nil {
		return err
	}
	if err := p.out(enableLine(pos), p.enableLevel(true)); err != nil {
		return err
	}
	for s := sevenseg.SegA; s <= sevenseg.SegG; s++ {
		if err := p.out(LINE_A+Line(s), gpio.Level(pattern.On(s))); err != nil {
			return err
		}
	}
	// decimal point is never used
	if err := p.out(LINE_DP, gpio.Low); err != nil {
		return err
	}

	p.latchLock.Lock()
	p.latched[pos] = pattern
	p.bursts[pos]++
	p.latchLock.Unlock()
	return nil
}

// Clear deselects both digits and turns every segment off.
func (p *Panel) Clear(ctx context.Context) error {
	if err := p.mutex.Lock(ctx); err != nil {
		return err
	}
	defer p.mutex.Unlock()

	var firstErr error
	for l := Line(0); l < LINE_COUNT; l++ {
		level := gpio.Low
		if l == LINE_ENABLE_LEFT || l == LINE_ENABLE_RIGHT {
			level = p.enableLevel(false)
		}
		if err := p.out(l, level); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	p.latchLock.Lock()
	p.latched = [2]sevenseg.Pattern{sevenseg.Blank, sevenseg.Blank}
	p.latchLock.Unlock()
	return firstErr
}

// Snapshot returns the pattern each digit showed in its latest burst.
func (p *Panel) Snapshot() (left, right sevenseg.Pattern) {
	p.latchLock.RLock()
	defer p.latchLock.RUnlock()
	return p.latched[sevenseg.Left], p.latched[sevenseg.Right]
}

// Bursts returns how many bursts each digit has rendered.
func (p *Panel) Bursts() (left, right uint64) {
	p.latchLock.RLock()
	defer p.latchLock.RUnlock()
	return p.bursts[sevenseg.Left], p.bursts[sevenseg.Right]
}

func (p *Panel) out(l Line, level gpio.Level) error {
	if err := p.lines[l].Out(level); err != nil {
		return errors.Wrapf(err, "failed to drive line %s", l)
	}
	return nil
}

func (p *Panel) enableLevel(selected bool) gpio.Level {
	return gpio.Level(selected != p.invertEnable)
}

func enableLine(pos sevenseg.Position) Line {
	if pos == sevenseg.Left {
		return LINE_ENABLE_LEFT
	}
	return LINE_ENABLE_RIGHT
}
