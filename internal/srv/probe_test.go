package srv

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jypelle/hygroseg/internal/hdc1080"
	"github.com/jypelle/hygroseg/internal/srv/config"
	"gotest.tools/v3/assert"
	"gotest.tools/v3/fs"
)

func TestProbeSensor(t *testing.T) {
	var out bytes.Buffer
	err := ProbeSensor(hdc1080.New(hdc1080.NewSimBus(22, 45), &hdc1080.Opts{Addr: hdc1080.Address}), &out)
	assert.NilError(t, err)

	s := out.String()
	assert.Assert(t, strings.Contains(s, "Configuration Register = 0x1000\n"), s)
	assert.Assert(t, strings.Contains(s, "Manufacturer ID = 0x5449\n"), s)
	assert.Assert(t, strings.Contains(s, "Device ID = 0x1050\n"), s)
	assert.Assert(t, strings.Contains(s, "Serial Number = 217-94C1-E000\n"), s)
	assert.Assert(t, strings.Contains(s, "Temperature = 22°C, 72°F"), s)
	assert.Assert(t, !strings.Contains(s, "Warning"), s)
}

func TestProbeSensorWrongAddress(t *testing.T) {
	var out bytes.Buffer
	err := ProbeSensor(hdc1080.New(hdc1080.NewSimBus(22, 45), &hdc1080.Opts{Addr: 0x41}), &out)
	assert.ErrorContains(t, err, "identify")
}

func TestProbeSimulation(t *testing.T) {
	dir := fs.NewDir(t, "hygroseg")
	defer dir.Remove()

	sc := config.NewServerConfig(dir.Path(), false, true)
	sc.Sensor.TurnaroundMs = 0

	var out bytes.Buffer
	assert.NilError(t, Probe(sc, &out))
	assert.Assert(t, strings.Contains(out.String(), "hdc1080-sim"), out.String())
}

func TestSensorOpts(t *testing.T) {
	opts := SensorOpts(config.SensorParam{Address: 0x41, TurnaroundMs: 20})
	assert.Equal(t, opts.Addr, uint16(0x41))
	assert.Equal(t, opts.Turnaround.Milliseconds(), int64(20))
	assert.Equal(t, opts.ResetTime, hdc1080.DefaultOpts.ResetTime)
}
