package event

import (
	"github.com/jypelle/hygroseg/internal/hdc1080"
)

// Acquisition
type AcquisitionEvent struct {
	Data interface{}
}

// AcquisitionEventIdentityData is sent once, after the startup diagnostic reads.
type AcquisitionEventIdentityData struct {
	Identity hdc1080.Identity
	Err      error
}

// AcquisitionEventReadingData is sent for every successful acquisition cycle.
type AcquisitionEventReadingData struct {
	Reading hdc1080.Reading
}

// AcquisitionEventStaleData is sent when a cycle failed after all retries.
// Reading is the last known good one, or nil if there never was one.
type AcquisitionEventStaleData struct {
	Reading *hdc1080.Reading
	Err     error
}

// AcquisitionEventPublishData is sent each time the shown value changes.
type AcquisitionEventPublishData struct {
	Value    int
	Quantity Quantity
}

// Quantity is what the displayed value measures.
type Quantity int

const (
	NO_QUANTITY Quantity = iota
	HUMIDITY_QUANTITY
	TEMPERATURE_F_QUANTITY
)

func (q Quantity) String() string {
	switch q {
	case HUMIDITY_QUANTITY:
		return "humidity"
	case TEMPERATURE_F_QUANTITY:
		return "temperature"
	}
	return "none"
}

// Unit is the label shown next to the value.
func (q Quantity) Unit() string {
	switch q {
	case HUMIDITY_QUANTITY:
		return "%RH"
	case TEMPERATURE_F_QUANTITY:
		return "°F"
	}
	return ""
}
