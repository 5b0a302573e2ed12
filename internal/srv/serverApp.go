package srv

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/jypelle/hygroseg/internal/hdc1080"
	"github.com/jypelle/hygroseg/internal/mailbox"
	"github.com/jypelle/hygroseg/internal/sevenseg"
	"github.com/jypelle/hygroseg/internal/srv/config"
	"github.com/jypelle/hygroseg/internal/srv/device"
	"github.com/jypelle/hygroseg/internal/srv/simview"
	"github.com/jypelle/hygroseg/internal/srv/state"
	"github.com/jypelle/hygroseg/internal/version"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

const shutdownTimeout = 2 * time.Second

type ServerApp struct {
	*config.ServerConfig
	serverState *state.ServerState

	bus     i2c.BusCloser
	sensor  *hdc1080.Dev
	mailbox *mailbox.Mailbox[int]
	panel   *device.Panel

	acquisitionDevice *device.Acquisition
	leftDigitDevice   *device.Digit
	rightDigitDevice  *device.Digit
	simDisplay        *simview.Display

	eventLoopAskDone chan bool
	eventLoopDone    chan bool
}

func NewServerApp(configDir string, debugMode bool, simulationMode bool) *ServerApp {

	logrus.Debugf("Creation of hygroseg server %s ...", version.AppVersion.String())

	app := &ServerApp{
		ServerConfig:     config.NewServerConfig(configDir, debugMode, simulationMode),
		serverState:      state.NewServerState(),
		mailbox:          mailbox.New[int](),
		eventLoopAskDone: make(chan bool),
		eventLoopDone:    make(chan bool),
	}

	var lines device.Lines
	if app.SimulationMode {
		app.bus = hdc1080.NewSimBus(22, 45)
		lines = device.SimulatedLines()
	} else {
		var err error
		app.bus, lines, err = openHardware(app.ServerParam)
		if err != nil {
			logrus.Fatalf("Unable to open hardware: %v", err)
		}
	}

	app.sensor = hdc1080.New(app.bus, SensorOpts(app.Sensor))
	app.panel = device.NewPanel(lines, device.NewDisplayMutex(), app.Display.InvertEnable)

	clock := clockwork.NewRealClock()
	app.acquisitionDevice = device.NewAcquisition(app.sensor, app.mailbox, clock, device.AcquisitionParam{
		Dwell:      app.Display.Dwell(),
		Retries:    int(app.Sensor.Retries),
		RetryDelay: app.Sensor.RetryDelay(),
		SoftReset:  app.Sensor.SoftReset,
	})
	frames := int(app.Display.FramesPerBurst)
	app.leftDigitDevice = device.NewDigit(sevenseg.Left, app.mailbox, app.panel, clock, frames, app.Display.FrameDelay())
	app.rightDigitDevice = device.NewDigit(sevenseg.Right, app.mailbox, app.panel, clock, frames, app.Display.FrameDelay())

	if app.SimulationMode {
		app.simDisplay = simview.NewDisplay(app.panel, app.serverState)
	}

	logrus.Debugln("Server created")

	return app
}

// OpenBus initializes the host drivers and opens the sensor bus.
func OpenBus(busName string) (i2c.BusCloser, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "host init")
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, errors.Wrapf(err, "open i2c bus %q", busName)
	}
	return bus, nil
}

// SensorOpts maps the sensor parameters onto driver options.
func SensorOpts(sp config.SensorParam) *hdc1080.Opts {
	opts := hdc1080.DefaultOpts
	opts.Addr = sp.Address
	opts.Turnaround = sp.Turnaround()
	return &opts
}

func openHardware(param *config.ServerParam) (i2c.BusCloser, device.Lines, error) {
	bus, err := OpenBus(param.Sensor.Bus)
	if err != nil {
		return nil, device.Lines{}, err
	}
	lines, err := device.OpenLines(param.Display.Pins.Names())
	if err != nil {
		bus.Close()
		return nil, device.Lines{}, err
	}
	return bus, lines, nil
}

func (s *ServerApp) Start() {
	logrus.Printf("Starting hygroseg server ...")

	logrus.Printf("Starting devices ...")

	// Both digits deselected before any task runs
	if err := s.panel.Clear(context.Background()); err != nil {
		logrus.Warnf("Unable to blank panel: %v", err)
	}

	if s.simDisplay != nil {
		s.simDisplay.Start()
	}

	// Start event loop
	go s.eventLoop()

	// Start acquisition device
	s.acquisitionDevice.Start()

	// Start digit devices
	s.leftDigitDevice.Start()
	s.rightDigitDevice.Start()
}

func (s *ServerApp) Stop() {
	logrus.Printf("Stopping hygroseg server ...")

	// Stop acquisition device
	s.acquisitionDevice.StopSendingEvent()

	// Stop digit devices
	s.leftDigitDevice.Stop()
	s.rightDigitDevice.Stop()

	// Stop event loop
	logrus.Infof("Stop event loop")
	s.eventLoopAskDone <- true
	<-s.eventLoopDone

	// Blank panel
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.panel.Clear(ctx); err != nil {
		logrus.Warnf("Unable to blank panel: %v", err)
	}

	if s.simDisplay != nil {
		s.simDisplay.Stop()
	}

	// Release bus
	if err := s.bus.Close(); err != nil {
		logrus.Warnf("Unable to close bus: %v", err)
	}

	logrus.Printf("Server stopped")
}
