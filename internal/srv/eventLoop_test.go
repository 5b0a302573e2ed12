package srv

import (
	"testing"
	"time"

	"github.com/jypelle/hygroseg/internal/hdc1080"
	"github.com/jypelle/hygroseg/internal/srv/event"
	"github.com/jypelle/hygroseg/internal/srv/state"
	"github.com/pkg/errors"
	"gotest.tools/v3/assert"
)

func TestHandleAcquisitionEvent(t *testing.T) {
	s := &ServerApp{serverState: state.NewServerState()}
	reading := hdc1080.NewReading(0x6032, 0x7333, time.Time{})

	s.handleAcquisitionEvent(event.AcquisitionEvent{Data: event.AcquisitionEventIdentityData{
		Identity: hdc1080.Identity{ManufacturerID: 0x1234},
	}})
	id, err := s.serverState.Identity()
	assert.NilError(t, err)
	assert.Assert(t, !id.Genuine())

	s.handleAcquisitionEvent(event.AcquisitionEvent{Data: event.AcquisitionEventReadingData{Reading: reading}})
	r, stale := s.serverState.Reading()
	assert.Equal(t, r.TemperatureF, 72)
	assert.Assert(t, !stale)

	s.handleAcquisitionEvent(event.AcquisitionEvent{Data: event.AcquisitionEventStaleData{Reading: &reading, Err: errors.New("nack")}})
	_, stale = s.serverState.Reading()
	assert.Assert(t, stale)
	assert.Equal(t, s.serverState.Failures(), int64(1))

	s.handleAcquisitionEvent(event.AcquisitionEvent{Data: event.AcquisitionEventPublishData{Value: 45, Quantity: event.HUMIDITY_QUANTITY}})
	v, q := s.serverState.Shown()
	assert.Equal(t, v, 45)
	assert.Equal(t, q, event.HUMIDITY_QUANTITY)
}
