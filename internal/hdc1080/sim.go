package hdc1080

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/physic"
)

// SimBus is an in-memory I2C bus with one HDC1080 attached. Conditions drift
// slowly around the configured values on every measurement.
type SimBus struct {
	lock sync.Mutex

	temperatureC float64
	humidityPct  float64
	selected     byte
	config       uint16
	serial       [3]uint16
	reads        int
}

func NewSimBus(temperatureC, humidityPct float64) *SimBus {
	return &SimBus{
		temperatureC: temperatureC,
		humidityPct:  humidityPct,
		config:       configPowerOn,
		serial:       [3]uint16{0x0217, 0x94C1, 0xE000},
	}
}

func (s *SimBus) String() string {
	return "hdc1080-sim"
}

// SetConditions changes the centre values of the simulated room.
func (s *SimBus) SetConditions(temperatureC, humidityPct float64) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.temperatureC = temperatureC
	s.humidityPct = humidityPct
}

func (s *SimBus) SetSpeed(f physic.Frequency) error {
	return nil
}

func (s *SimBus) Close() error {
	return nil
}

func (s *SimBus) Tx(addr uint16, w, r []byte) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if addr != Address {
		return errors.Errorf("no device at address 0x%02X", addr)
	}
	switch len(w) {
	case 0:
	case 1:
		s.selected = w[0]
	case 3:
		s.selected = w[0]
		if w[0] != RegConfig {
			return errors.Errorf("register 0x%02X is read-only", w[0])
		}
		s.config = binary.BigEndian.Uint16(w[1:])
		if s.config&configSoftReset != 0 {
			s.config = configPowerOn
		}
	default:
		return errors.Errorf("unexpected write of %d bytes", len(w))
	}
	if len(r) == 0 {
		return nil
	}
	if len(r) != 2 {
		return errors.Errorf("unexpected read of %d bytes", len(r))
	}
	binary.BigEndian.PutUint16(r, s.register(s.selected))
	return nil
}

func (s *SimBus) register(reg byte) uint16 {
	switch reg {
	case RegTemperature:
		s.reads++
		c := s.temperatureC + 0.8*math.Sin(float64(s.reads)/7)
		return rawCode((c + 40) / 165)
	case RegHumidity:
		s.reads++
		h := s.humidityPct + 3*math.Cos(float64(s.reads)/11)
		return rawCode(h / 100)
	case RegConfig:
		return s.config
	case RegSerial1, RegSerial2, RegSerial3:
		return s.serial[reg-RegSerial1]
	case RegManufacturerID:
		return ManufacturerTI
	case RegDeviceID:
		return DeviceID
	}
	return 0
}

func rawCode(ratio float64) uint16 {
	return uint16(math.Max(0, math.Min(65535, math.Round(ratio*65536))))
}
