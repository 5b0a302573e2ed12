package srv

import (
	"fmt"
	"io"

	"github.com/jypelle/hygroseg/internal/hdc1080"
	"github.com/jypelle/hygroseg/internal/srv/config"
	"github.com/pkg/errors"
	"periph.io/x/conn/v3/i2c"
)

// Probe identifies the sensor and prints one reading, without touching the
// display.
func Probe(sc *config.ServerConfig, w io.Writer) error {
	var bus i2c.BusCloser
	if sc.SimulationMode {
		bus = hdc1080.NewSimBus(22, 45)
	} else {
		var err error
		if bus, err = OpenBus(sc.Sensor.Bus); err != nil {
			return err
		}
	}
	defer bus.Close()

	return ProbeSensor(hdc1080.New(bus, SensorOpts(sc.Sensor)), w)
}

func ProbeSensor(sensor *hdc1080.Dev, w io.Writer) error {
	fmt.Fprintf(w, "Sensor: %s\n", sensor)

	id, err := sensor.Identify()
	if err != nil {
		return errors.Wrap(err, "identify")
	}
	fmt.Fprintf(w, "Configuration Register = 0x%X\n", id.Config)
	fmt.Fprintf(w, "Manufacturer ID = 0x%X\n", id.ManufacturerID)
	fmt.Fprintf(w, "Device ID = 0x%X\n", id.DeviceID)
	fmt.Fprintf(w, "Serial Number = %s\n", id.SerialNumber())
	if !id.Genuine() {
		fmt.Fprintf(w, "Warning: not a genuine HDC1080\n")
	}

	reading, err := sensor.Read()
	if err != nil {
		return errors.Wrap(err, "read")
	}
	env := reading.Env()
	fmt.Fprintf(w, "Temperature = %d°C, %d°F (%s)\n", reading.TemperatureC, reading.TemperatureF, env.Temperature)
	fmt.Fprintf(w, "Humidity = %d%% (%s)\n", reading.HumidityPct, env.Humidity)
	return nil
}
