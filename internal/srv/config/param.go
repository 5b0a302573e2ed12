package config

import (
	_ "embed"
	"time"

	"github.com/pkg/errors"
)

//go:embed param_default.yaml
var ParamDefaultFile []byte

type ServerParam struct {
	Sensor  SensorParam  `yaml:"sensor"`
	Display DisplayParam `yaml:"display"`
}

type SensorParam struct {
	Bus          string `yaml:"bus"`
	Address      uint16 `yaml:"address"`
	TurnaroundMs int64  `yaml:"turnaround_ms"`
	Retries      int64  `yaml:"retries"`
	RetryDelayMs int64  `yaml:"retry_delay_ms"`
	SoftReset    bool   `yaml:"soft_reset"`
}

type DisplayParam struct {
	DwellSeconds   int64    `yaml:"dwell_seconds"`
	FramesPerBurst int64    `yaml:"frames_per_burst"`
	FrameDelayMs   int64    `yaml:"frame_delay_ms"`
	InvertEnable   bool     `yaml:"invert_enable"`
	Pins           PinParam `yaml:"pins"`
}

type PinParam struct {
	A     string `yaml:"a"`
	B     string `yaml:"b"`
	C     string `yaml:"c"`
	D     string `yaml:"d"`
	E     string `yaml:"e"`
	F     string `yaml:"f"`
	G     string `yaml:"g"`
	DP    string `yaml:"dp"`
	Left  string `yaml:"left"`
	Right string `yaml:"right"`
}

// Names lists the pin names in display line order: A to G, DP, left, right.
func (pp PinParam) Names() [10]string {
	return [10]string{pp.A, pp.B, pp.C, pp.D, pp.E, pp.F, pp.G, pp.DP, pp.Left, pp.Right}
}

func (sp SensorParam) Turnaround() time.Duration {
	return time.Duration(sp.TurnaroundMs) * time.Millisecond
}

func (sp SensorParam) RetryDelay() time.Duration {
	return time.Duration(sp.RetryDelayMs) * time.Millisecond
}

func (dp DisplayParam) Dwell() time.Duration {
	return time.Duration(dp.DwellSeconds) * time.Second
}

func (dp DisplayParam) FrameDelay() time.Duration {
	return time.Duration(dp.FrameDelayMs) * time.Millisecond
}

// Validate rejects parameters the tasks cannot run with.
func (p *ServerParam) Validate() error {
	if p.Sensor.Address == 0 || p.Sensor.Address > 0x7F {
		return errors.Errorf("sensor address 0x%X is not a 7-bit address", p.Sensor.Address)
	}
	if p.Sensor.TurnaroundMs < 0 || p.Sensor.RetryDelayMs < 0 || p.Sensor.Retries < 0 {
		return errors.New("sensor timings and retries must not be negative")
	}
	if p.Display.DwellSeconds <= 0 {
		return errors.Errorf("dwell_seconds must be positive, got %d", p.Display.DwellSeconds)
	}
	if p.Display.FramesPerBurst <= 0 {
		return errors.Errorf("frames_per_burst must be positive, got %d", p.Display.FramesPerBurst)
	}
	if p.Display.FrameDelayMs < 0 {
		return errors.Errorf("frame_delay_ms must not be negative, got %d", p.Display.FrameDelayMs)
	}
	seen := make(map[string]int)
	for i, name := range p.Display.Pins.Names() {
		if name == "" {
			return errors.Errorf("pin %d has no name", i)
		}
		if j, ok := seen[name]; ok {
			return errors.Errorf("pin %s is used twice (%d and %d)", name, j, i)
		}
		seen[name] = i
	}
	return nil
}
