package state

import (
	"sync"

	"github.com/jypelle/hygroseg/internal/hdc1080"
	"github.com/jypelle/hygroseg/internal/srv/event"
)

// ServerState is the runtime status of the node. It lives in memory only;
// nothing survives a restart.
type ServerState struct {
	lock sync.RWMutex

	identity    *hdc1080.Identity
	identityErr error

	reading  *hdc1080.Reading
	stale    bool
	lastErr  error
	failures int64

	shownValue    int
	shownQuantity event.Quantity
}

func NewServerState() *ServerState {
	return &ServerState{}
}

func (ss *ServerState) Identity() (*hdc1080.Identity, error) {
	ss.lock.RLock()
	defer ss.lock.RUnlock()

	return ss.identity, ss.identityErr
}

func (ss *ServerState) SetIdentity(identity hdc1080.Identity, err error) {
	ss.lock.Lock()
	defer ss.lock.Unlock()

	ss.identity = &identity
	ss.identityErr = err
}

// Reading returns the last good reading and whether it is stale.
func (ss *ServerState) Reading() (*hdc1080.Reading, bool) {
	ss.lock.RLock()
	defer ss.lock.RUnlock()

	return ss.reading, ss.stale
}

func (ss *ServerState) SetReading(reading hdc1080.Reading) {
	ss.lock.Lock()
	defer ss.lock.Unlock()

	ss.reading = &reading
	ss.stale = false
	ss.lastErr = nil
}

// MarkStale records a failed acquisition cycle.
func (ss *ServerState) MarkStale(err error) {
	ss.lock.Lock()
	defer ss.lock.Unlock()

	ss.stale = true
	ss.lastErr = err
	ss.failures++
}

func (ss *ServerState) LastError() error {
	ss.lock.RLock()
	defer ss.lock.RUnlock()

	return ss.lastErr
}

// Failures returns the number of failed acquisition cycles since start.
func (ss *ServerState) Failures() int64 {
	ss.lock.RLock()
	defer ss.lock.RUnlock()

	return ss.failures
}

func (ss *ServerState) Shown() (int, event.Quantity) {
	ss.lock.RLock()
	defer ss.lock.RUnlock()

	return ss.shownValue, ss.shownQuantity
}

func (ss *ServerState) SetShown(value int, quantity event.Quantity) {
	ss.lock.Lock()
	defer ss.lock.Unlock()

	ss.shownValue = value
	ss.shownQuantity = quantity
}
