package device

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/jypelle/hygroseg/internal/hdc1080"
	"github.com/jypelle/hygroseg/internal/mailbox"
	"github.com/jypelle/hygroseg/internal/srv/event"
	"github.com/sirupsen/logrus"
)

// Sensor is what the acquisition needs from the HDC1080 driver.
type Sensor interface {
	Identify() (hdc1080.Identity, error)
	Read() (hdc1080.Reading, error)
	SoftReset() error
}

type AcquisitionParam struct {
	Dwell      time.Duration
	Retries    int
	RetryDelay time.Duration
	SoftReset  bool
}

// Acquisition owns the sensor. It samples it once per cycle and publishes
// the humidity, then the Fahrenheit temperature, each for one dwell period.
type Acquisition struct {
	lock         sync.Mutex
	eventChannel chan event.AcquisitionEvent

	sensor  Sensor
	mailbox *mailbox.Mailbox[int]
	clock   clockwork.Clock
	param   AcquisitionParam

	lastGood *hdc1080.Reading

	cancel context.CancelFunc
	done   chan bool
}

func NewAcquisition(sensor Sensor, mb *mailbox.Mailbox[int], clock clockwork.Clock, param AcquisitionParam) *Acquisition {
	if param.Retries < 0 {
		param.Retries = 0
	}
	return &Acquisition{
		eventChannel: make(chan event.AcquisitionEvent, 16),
		sensor:       sensor,
		mailbox:      mb,
		clock:        clock,
		param:        param,
	}
}

func (a *Acquisition) Start() {
	logrus.Infof("Start acquisition device")
	a.lock.Lock()
	defer a.lock.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.done = make(chan bool)

	go func() {
		a.initialize(ctx)
		a.sampleLoop(ctx)
		a.done <- true
	}()
}

func (a *Acquisition) StopSendingEvent() {
	logrus.Infof("Stop acquisition device")
	a.lock.Lock()
	defer a.lock.Unlock()

	if a.cancel == nil {
		return
	}
	a.cancel()
	<-a.done
	a.cancel = nil
}

func (a *Acquisition) EventChannel() chan event.AcquisitionEvent {
	return a.eventChannel
}

func (a *Acquisition) initialize(ctx context.Context) {
	if a.param.SoftReset {
		if err := a.sensor.SoftReset(); err != nil {
			logrus.Warnf("Unable to reset sensor: %v", err)
		}
	}
	identity, err := a.sensor.Identify()
	a.emit(ctx, event.AcquisitionEventIdentityData{Identity: identity, Err: err})
}

func (a *Acquisition) sampleLoop(ctx context.Context) {
	for ctx.Err() == nil {
		reading, err := a.sample(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			a.emit(ctx, event.AcquisitionEventStaleData{Reading: a.lastGood, Err: err})
			if a.lastGood == nil {
				// nothing to show yet
				if !a.wait(ctx, a.param.Dwell) {
					return
				}
				continue
			}
			reading = *a.lastGood
		} else {
			a.lastGood = &reading
			a.emit(ctx, event.AcquisitionEventReadingData{Reading: reading})
		}

		if !a.show(ctx, reading.HumidityPct, event.HUMIDITY_QUANTITY) {
			return
		}
		if !a.show(ctx, reading.TemperatureF, event.TEMPERATURE_F_QUANTITY) {
			return
		}
	}
}

// sample reads the sensor, retrying up to the configured count.
func (a *Acquisition) sample(ctx context.Context) (hdc1080.Reading, error) {
	var err error
	for attempt := 0; attempt <= a.param.Retries; attempt++ {
		if attempt > 0 {
			logrus.Debugf("Sensor read failed (attempt %d/%d): %v", attempt, a.param.Retries+1, err)
			if !a.wait(ctx, a.param.RetryDelay) {
				return hdc1080.Reading{}, ctx.Err()
			}
		}
		var reading hdc1080.Reading
		reading, err = a.sensor.Read()
		if err == nil {
			return reading, nil
		}
	}
	return hdc1080.Reading{}, err
}

// show publishes value and holds it for one dwell period.
func (a *Acquisition) show(ctx context.Context, value int, quantity event.Quantity) bool {
	a.mailbox.Publish(value)
	a.emit(ctx, event.AcquisitionEventPublishData{Value: value, Quantity: quantity})
	return a.wait(ctx, a.param.Dwell)
}

func (a *Acquisition) wait(ctx context.Context, d time.Duration) bool {
	select {
	case <-a.clock.After(d):
		return true
	case <-ctx.Done():
		return false
	}
}

func (a *Acquisition) emit(ctx context.Context, data interface{}) {
	select {
	case a.eventChannel <- event.AcquisitionEvent{Data: data}:
	case <-ctx.Done():
	}
}
