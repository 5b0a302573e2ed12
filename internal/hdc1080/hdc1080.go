// Package hdc1080 drives a Texas Instruments HDC1080 temperature and humidity
// sensor over I²C.
//
// Every read is a register-select write followed, after the device turnaround
// delay, by a two byte big-endian read:
//
//	d := hdc1080.New(bus, nil)
//	c, err := d.ReadTemperatureC()
//
// The turnaround blocks the calling goroutine; nothing in this package retries.
package hdc1080

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// Address is the fixed 7-bit I²C address of the HDC1080.
const Address = 0x40

// Register selectors.
const (
	RegTemperature    = 0x00
	RegHumidity       = 0x01
	RegConfig         = 0x02
	RegSerial1        = 0xFB
	RegSerial2        = 0xFC
	RegSerial3        = 0xFD
	RegManufacturerID = 0xFE
	RegDeviceID       = 0xFF
)

// Values reported by a genuine part.
const (
	ManufacturerTI = 0x5449
	DeviceID       = 0x1050
)

const (
	configSoftReset = 1 << 15
	// reset value: sequential acquisition, 14-bit resolution, heater off
	configPowerOn = 0x1000
)

// ErrInvalidSerialPart is returned by ReadSerial for a part outside 1-3.
var ErrInvalidSerialPart = errors.New("hdc1080: serial part must be 1, 2 or 3")

// BusError reports a failed bus transaction.
type BusError struct {
	Op       string // "select", "read" or "write"
	Register byte
	Err      error
}

func (e *BusError) Error() string {
	return fmt.Sprintf("hdc1080: %s register 0x%02X: %v", e.Op, e.Register, e.Err)
}

func (e *BusError) Unwrap() error { return e.Err }

// Cause lets github.com/pkg/errors walk through a BusError.
func (e *BusError) Cause() error { return e.Err }

// Opts holds the transaction parameters.
type Opts struct {
	// Addr defaults to Address if zero.
	Addr uint16
	// Turnaround is the wait between the register-select write and the read.
	// Zero or negative means no wait.
	Turnaround time.Duration
	// ResetTime is the wait after a soft reset.
	ResetTime time.Duration
}

// DefaultOpts matches the timing of the reference firmware.
var DefaultOpts = Opts{
	Addr:       Address,
	Turnaround: 100 * time.Millisecond,
	ResetTime:  15 * time.Millisecond,
}

// Dev is a handle to an HDC1080 on a bus. It is not safe for concurrent use;
// a single goroutine owns it.
type Dev struct {
	d    i2c.Dev
	opts Opts
}

// New returns a handle to the sensor. It does not touch the device.
func New(bus i2c.Bus, opts *Opts) *Dev {
	o := DefaultOpts
	if opts != nil {
		o = *opts
	}
	if o.Addr == 0 {
		o.Addr = Address
	}
	return &Dev{d: i2c.Dev{Bus: bus, Addr: o.Addr}, opts: o}
}

func (d *Dev) String() string {
	return fmt.Sprintf("HDC1080{%s}", &d.d)
}

// Halt implements conn.Resource. The sensor only converts on request.
func (d *Dev) Halt() error {
	return nil
}

// ReadRegister selects reg, waits the turnaround delay and reads the 16-bit
// register content.
func (d *Dev) ReadRegister(reg byte) (uint16, error) {
	if err := d.d.Tx([]byte{reg}, nil); err != nil {
		return 0, &BusError{Op: "select", Register: reg, Err: err}
	}
	if d.opts.Turnaround > 0 {
		time.Sleep(d.opts.Turnaround)
	}
	var b [2]byte
	if err := d.d.Tx(nil, b[:]); err != nil {
		return 0, &BusError{Op: "read", Register: reg, Err: err}
	}
	return binary.BigEndian.Uint16(b[:]), nil
}

// WriteRegister writes value into reg.
func (d *Dev) WriteRegister(reg byte, value uint16) error {
	w := []byte{reg, byte(value >> 8), byte(value)}
	if err := d.d.Tx(w, nil); err != nil {
		return &BusError{Op: "write", Register: reg, Err: err}
	}
	return nil
}

// SoftReset restores the power-on configuration.
func (d *Dev) SoftReset() error {
	if err := d.WriteRegister(RegConfig, configSoftReset); err != nil {
		return err
	}
	if d.opts.ResetTime > 0 {
		time.Sleep(d.opts.ResetTime)
	}
	return nil
}

func (d *Dev) ReadConfig() (uint16, error) {
	return d.ReadRegister(RegConfig)
}

func (d *Dev) ReadManufacturerID() (uint16, error) {
	return d.ReadRegister(RegManufacturerID)
}

func (d *Dev) ReadDeviceID() (uint16, error) {
	return d.ReadRegister(RegDeviceID)
}

// ReadSerial reads one of the three serial number blocks.
func (d *Dev) ReadSerial(part int) (uint16, error) {
	switch part {
	case 1:
		return d.ReadRegister(RegSerial1)
	case 2:
		return d.ReadRegister(RegSerial2)
	case 3:
		return d.ReadRegister(RegSerial3)
	}
	return 0, ErrInvalidSerialPart
}

// ReadTemperatureC returns the temperature rounded to the nearest °C.
func (d *Dev) ReadTemperatureC() (int, error) {
	raw, err := d.ReadRegister(RegTemperature)
	if err != nil {
		return 0, err
	}
	return TemperatureC(raw), nil
}

// ReadHumidityPct returns the relative humidity rounded to the nearest %.
func (d *Dev) ReadHumidityPct() (int, error) {
	raw, err := d.ReadRegister(RegHumidity)
	if err != nil {
		return 0, err
	}
	return HumidityPct(raw), nil
}

// Read performs one full acquisition: temperature first, then humidity.
func (d *Dev) Read() (Reading, error) {
	rt, err := d.ReadRegister(RegTemperature)
	if err != nil {
		return Reading{}, err
	}
	rh, err := d.ReadRegister(RegHumidity)
	if err != nil {
		return Reading{}, err
	}
	return NewReading(rt, rh, time.Now()), nil
}

// Sense fills the temperature and humidity of e.
func (d *Dev) Sense(e *physic.Env) error {
	r, err := d.Read()
	if err != nil {
		return err
	}
	env := r.Env()
	e.Temperature = env.Temperature
	e.Humidity = env.Humidity
	return nil
}

// Identify performs the one-shot diagnostic reads. On failure the fields read
// so far are returned along with the error.
func (d *Dev) Identify() (Identity, error) {
	var id Identity
	var err error
	if id.Config, err = d.ReadConfig(); err != nil {
		return id, errors.Wrap(err, "read configuration")
	}
	if id.ManufacturerID, err = d.ReadManufacturerID(); err != nil {
		return id, errors.Wrap(err, "read manufacturer id")
	}
	if id.DeviceID, err = d.ReadDeviceID(); err != nil {
		return id, errors.Wrap(err, "read device id")
	}
	for i := range id.Serial {
		if id.Serial[i], err = d.ReadSerial(i + 1); err != nil {
			return id, errors.Wrapf(err, "read serial part %d", i+1)
		}
	}
	return id, nil
}

// Identity is the result of the startup diagnostic reads.
type Identity struct {
	Config         uint16
	ManufacturerID uint16
	DeviceID       uint16
	Serial         [3]uint16
}

// SerialNumber formats the serial blocks the way the part label does.
func (id Identity) SerialNumber() string {
	return fmt.Sprintf("%X-%X-%X", id.Serial[0], id.Serial[1], id.Serial[2])
}

// Genuine reports whether the identification registers hold TI's values.
func (id Identity) Genuine() bool {
	return id.ManufacturerID == ManufacturerTI && id.DeviceID == DeviceID
}

// Reading is one acquisition cycle in engineering units.
type Reading struct {
	TemperatureC   int
	TemperatureF   int
	HumidityPct    int
	RawTemperature uint16
	RawHumidity    uint16
	At             time.Time
}

// NewReading converts the raw register codes.
func NewReading(rawTemperature, rawHumidity uint16, at time.Time) Reading {
	c := TemperatureC(rawTemperature)
	return Reading{
		TemperatureC:   c,
		TemperatureF:   Fahrenheit(c),
		HumidityPct:    HumidityPct(rawHumidity),
		RawTemperature: rawTemperature,
		RawHumidity:    rawHumidity,
		At:             at,
	}
}

// Env returns the unrounded reading in periph units.
func (r Reading) Env() physic.Env {
	c := float64(r.RawTemperature)/65536*165 - 40
	h := float64(r.RawHumidity) / 65536 * 100
	return physic.Env{
		Temperature: physic.ZeroCelsius + physic.Temperature(math.Round(c*float64(physic.Celsius))),
		Humidity:    physic.RelativeHumidity(math.Round(h * float64(physic.PercentRH))),
	}
}

func (r Reading) String() string {
	return fmt.Sprintf("%d°C %d°F %d%%RH", r.TemperatureC, r.TemperatureF, r.HumidityPct)
}

// TemperatureC converts a raw temperature code: round(r/65536*165 - 40).
func TemperatureC(raw uint16) int {
	return int(math.Round(float64(raw)/65536*165 - 40))
}

// HumidityPct converts a raw humidity code: round(r/65536*100).
func HumidityPct(raw uint16) int {
	return int(math.Round(float64(raw) / 65536 * 100))
}

// Fahrenheit converts whole degrees Celsius: round(c*1.8 + 32).
func Fahrenheit(c int) int {
	return int(math.Round(float64(c)*1.8 + 32))
}
