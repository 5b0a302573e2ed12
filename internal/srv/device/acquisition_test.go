package device

import (
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/jypelle/hygroseg/internal/hdc1080"
	"github.com/jypelle/hygroseg/internal/mailbox"
	"github.com/jypelle/hygroseg/internal/srv/event"
	"github.com/pkg/errors"
	"gotest.tools/v3/assert"
)

const (
	testDwell      = 5 * time.Second
	testRetryDelay = 500 * time.Millisecond
)

var (
	// 22°C, 72°F, 45%RH
	normalReading = hdc1080.NewReading(0x6032, 0x7333, time.Time{})
	// 26°C, 79°F, 50%RH
	warmReading = hdc1080.NewReading(0x6666, 0x8000, time.Time{})
	errSensor   = errors.New("nack")
)

type sensorResult struct {
	reading hdc1080.Reading
	err     error
}

// fakeSensor replays scripted results; the last one repeats.
type fakeSensor struct {
	lock    sync.Mutex
	results []sensorResult
	reads   int
	resets  int
}

func (fs *fakeSensor) Identify() (hdc1080.Identity, error) {
	return hdc1080.Identity{ManufacturerID: hdc1080.ManufacturerTI, DeviceID: hdc1080.DeviceID}, nil
}

func (fs *fakeSensor) Read() (hdc1080.Reading, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	i := fs.reads
	if i >= len(fs.results) {
		i = len(fs.results) - 1
	}
	fs.reads++
	return fs.results[i].reading, fs.results[i].err
}

func (fs *fakeSensor) SoftReset() error {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	fs.resets++
	return nil
}

func (fs *fakeSensor) readCount() int {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	return fs.reads
}

func newTestAcquisition(sensor Sensor, retries int, softReset bool) (*Acquisition, *mailbox.Mailbox[int], clockwork.FakeClock) {
	mb := mailbox.New[int]()
	clock := clockwork.NewFakeClock()
	a := NewAcquisition(sensor, mb, clock, AcquisitionParam{
		Dwell:      testDwell,
		Retries:    retries,
		RetryDelay: testRetryDelay,
		SoftReset:  softReset,
	})
	return a, mb, clock
}

func nextEvent(t *testing.T, a *Acquisition) interface{} {
	t.Helper()
	select {
	case ev := <-a.EventChannel():
		return ev.Data
	case <-time.After(5 * time.Second):
		t.Fatal("no acquisition event")
	}
	return nil
}

func expectPublish(t *testing.T, a *Acquisition, mb *mailbox.Mailbox[int], value int, quantity event.Quantity) {
	t.Helper()
	assert.DeepEqual(t, nextEvent(t, a), event.AcquisitionEventPublishData{Value: value, Quantity: quantity})
	v, ok := mb.Peek()
	assert.Assert(t, ok)
	assert.Equal(t, v, value)
}

// elapse lets the pending wait of the acquisition fire.
func elapse(clock clockwork.FakeClock, d time.Duration) {
	clock.BlockUntil(1)
	clock.Advance(d)
}

func TestAcquisitionCycle(t *testing.T) {
	sensor := &fakeSensor{results: []sensorResult{{reading: normalReading}, {reading: warmReading}}}
	a, mb, clock := newTestAcquisition(sensor, 0, false)
	a.Start()
	defer a.StopSendingEvent()

	identity, ok := nextEvent(t, a).(event.AcquisitionEventIdentityData)
	assert.Assert(t, ok)
	assert.NilError(t, identity.Err)
	assert.Assert(t, identity.Identity.Genuine())

	assert.DeepEqual(t, nextEvent(t, a), event.AcquisitionEventReadingData{Reading: normalReading})
	expectPublish(t, a, mb, 45, event.HUMIDITY_QUANTITY)

	elapse(clock, testDwell)
	expectPublish(t, a, mb, 72, event.TEMPERATURE_F_QUANTITY)
	assert.Equal(t, sensor.readCount(), 1)

	elapse(clock, testDwell)
	assert.DeepEqual(t, nextEvent(t, a), event.AcquisitionEventReadingData{Reading: warmReading})
	expectPublish(t, a, mb, 50, event.HUMIDITY_QUANTITY)

	elapse(clock, testDwell)
	expectPublish(t, a, mb, 79, event.TEMPERATURE_F_QUANTITY)
}

func TestAcquisitionHoldsValueForDwell(t *testing.T) {
	sensor := &fakeSensor{results: []sensorResult{{reading: normalReading}}}
	a, mb, clock := newTestAcquisition(sensor, 0, false)
	a.Start()
	defer a.StopSendingEvent()

	nextEvent(t, a)
	nextEvent(t, a)
	expectPublish(t, a, mb, 45, event.HUMIDITY_QUANTITY)

	clock.BlockUntil(1)
	clock.Advance(testDwell - time.Millisecond)
	select {
	case ev := <-a.EventChannel():
		t.Fatalf("unexpected event before dwell elapsed: %#v", ev.Data)
	case <-time.After(50 * time.Millisecond):
	}
	v, _ := mb.Peek()
	assert.Equal(t, v, 45)

	clock.Advance(time.Millisecond)
	expectPublish(t, a, mb, 72, event.TEMPERATURE_F_QUANTITY)
}

func TestAcquisitionRetriesThenKeepsLastGood(t *testing.T) {
	sensor := &fakeSensor{results: []sensorResult{
		{reading: normalReading},
		{err: errSensor},
		{err: errSensor},
		{err: errSensor},
		{reading: warmReading},
	}}
	a, mb, clock := newTestAcquisition(sensor, 2, false)
	a.Start()
	defer a.StopSendingEvent()

	nextEvent(t, a)
	nextEvent(t, a)
	expectPublish(t, a, mb, 45, event.HUMIDITY_QUANTITY)
	elapse(clock, testDwell)
	expectPublish(t, a, mb, 72, event.TEMPERATURE_F_QUANTITY)
	elapse(clock, testDwell)

	// three attempts, two retry delays
	elapse(clock, testRetryDelay)
	elapse(clock, testRetryDelay)
	stale, ok := nextEvent(t, a).(event.AcquisitionEventStaleData)
	assert.Assert(t, ok)
	assert.Equal(t, stale.Err, errSensor)
	assert.DeepEqual(t, *stale.Reading, normalReading)
	assert.Equal(t, sensor.readCount(), 4)

	// last good values are shown again
	expectPublish(t, a, mb, 45, event.HUMIDITY_QUANTITY)
	elapse(clock, testDwell)
	expectPublish(t, a, mb, 72, event.TEMPERATURE_F_QUANTITY)
	elapse(clock, testDwell)

	assert.DeepEqual(t, nextEvent(t, a), event.AcquisitionEventReadingData{Reading: warmReading})
	expectPublish(t, a, mb, 50, event.HUMIDITY_QUANTITY)
}

func TestAcquisitionPublishesNothingBeforeFirstGoodReading(t *testing.T) {
	sensor := &fakeSensor{results: []sensorResult{{err: errSensor}, {err: errSensor}, {reading: normalReading}}}
	a, mb, clock := newTestAcquisition(sensor, 0, false)
	a.Start()
	defer a.StopSendingEvent()

	nextEvent(t, a)
	stale, ok := nextEvent(t, a).(event.AcquisitionEventStaleData)
	assert.Assert(t, ok)
	assert.Assert(t, stale.Reading == nil)
	_, ok = mb.Peek()
	assert.Assert(t, !ok)

	elapse(clock, testDwell)
	_, ok = nextEvent(t, a).(event.AcquisitionEventStaleData)
	assert.Assert(t, ok)
	_, ok = mb.Peek()
	assert.Assert(t, !ok)

	elapse(clock, testDwell)
	assert.DeepEqual(t, nextEvent(t, a), event.AcquisitionEventReadingData{Reading: normalReading})
	expectPublish(t, a, mb, 45, event.HUMIDITY_QUANTITY)
}

func TestAcquisitionSoftReset(t *testing.T) {
	sensor := &fakeSensor{results: []sensorResult{{reading: normalReading}}}
	a, _, _ := newTestAcquisition(sensor, 0, true)
	a.Start()
	defer a.StopSendingEvent()

	_, ok := nextEvent(t, a).(event.AcquisitionEventIdentityData)
	assert.Assert(t, ok)
	sensor.lock.Lock()
	assert.Equal(t, sensor.resets, 1)
	sensor.lock.Unlock()
}

func TestAcquisitionStopWhileWaiting(t *testing.T) {
	sensor := &fakeSensor{results: []sensorResult{{reading: normalReading}}}
	a, _, clock := newTestAcquisition(sensor, 0, false)
	a.Start()
	nextEvent(t, a)
	nextEvent(t, a)
	nextEvent(t, a)
	clock.BlockUntil(1)

	stopped := make(chan bool)
	go func() {
		a.StopSendingEvent()
		stopped <- true
	}()
	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("acquisition did not stop")
	}
	// second stop is a no-op
	a.StopSendingEvent()
}
