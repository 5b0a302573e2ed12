package srv

import (
	"github.com/jypelle/hygroseg/internal/hdc1080"
	"github.com/jypelle/hygroseg/internal/srv/event"
	"github.com/sirupsen/logrus"
)

func (s *ServerApp) eventLoop() {
	for loop := true; loop; {
		select {
		case ev := <-s.acquisitionDevice.EventChannel():
			s.handleAcquisitionEvent(ev)
		case <-s.eventLoopAskDone:
			loop = false
		}
	}
	s.eventLoopDone <- true
}

func (s *ServerApp) handleAcquisitionEvent(ev event.AcquisitionEvent) {
	switch data := ev.Data.(type) {
	case event.AcquisitionEventIdentityData:
		s.serverState.SetIdentity(data.Identity, data.Err)
		logIdentity(data.Identity, data.Err)
	case event.AcquisitionEventReadingData:
		s.serverState.SetReading(data.Reading)
		env := data.Reading.Env()
		logrus.WithFields(logrus.Fields{
			"raw_temperature": data.Reading.RawTemperature,
			"raw_humidity":    data.Reading.RawHumidity,
		}).Debugf("Sensed %s, %s", env.Temperature, env.Humidity)
		logrus.Infof("Temperature = %d°C, %d°F, Humidity = %d%%",
			data.Reading.TemperatureC, data.Reading.TemperatureF, data.Reading.HumidityPct)
	case event.AcquisitionEventStaleData:
		s.serverState.MarkStale(data.Err)
		if data.Reading == nil {
			logrus.Warnf("Unable to read sensor, nothing to display yet: %v", data.Err)
		} else {
			logrus.Warnf("Unable to read sensor, keeping %s: %v", data.Reading, data.Err)
		}
	case event.AcquisitionEventPublishData:
		s.serverState.SetShown(data.Value, data.Quantity)
		logrus.Debugf("Display %s %d%s", data.Quantity, data.Value, data.Quantity.Unit())
	}
}

func logIdentity(id hdc1080.Identity, err error) {
	if err != nil {
		logrus.Warnf("Unable to identify sensor: %v", err)
		return
	}
	logrus.Infof("Configuration Register = 0x%X", id.Config)
	logrus.Infof("Manufacturer ID = 0x%X", id.ManufacturerID)
	logrus.Infof("Device ID = 0x%X", id.DeviceID)
	logrus.Infof("Serial Number = %s", id.SerialNumber())
	if !id.Genuine() {
		logrus.Warnf("Unexpected sensor identity, expected manufacturer 0x%X and device 0x%X", hdc1080.ManufacturerTI, hdc1080.DeviceID)
	}
}
