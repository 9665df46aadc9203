package shell

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/suitewaste/deskshell/internal/core/domain"
)

// EventKind discriminates hardware bridge events.
type EventKind string

const (
	EventDeviceConnected EventKind = "device"
	EventDeviceError     EventKind = "error"
	EventGPSUpdate       EventKind = "gps"
	EventInfo            EventKind = "info"
)

// Event is one message from a hardware producer. Producers never invoke
// shell internals directly; they publish and the bridge applies.
type Event struct {
	Kind     EventKind
	Device   domain.DeviceInfo // EventDeviceConnected
	Position domain.GeoPoint   // EventGPSUpdate
	Code     string            // EventDeviceError / EventInfo
	DeviceID string
}

const defaultBridgeBuffer = 64

// Bridge is the message-passing boundary between hardware producers and the
// shell. Publishing never blocks the producer: past the buffer, events are
// dropped with a warning rather than stalling a device callback.
type Bridge struct {
	shell  *Shell
	events chan Event
	log    zerolog.Logger
}

func NewBridge(s *Shell, buffer int, log zerolog.Logger) *Bridge {
	if buffer <= 0 {
		buffer = defaultBridgeBuffer
	}
	return &Bridge{shell: s, events: make(chan Event, buffer), log: log}
}

// Publish enqueues an event for the shell. Safe from any goroutine.
func (b *Bridge) Publish(e Event) {
	select {
	case b.events <- e:
	default:
		b.log.Warn().Str("kind", string(e.Kind)).Msg("hardware event dropped, bridge buffer full")
	}
}

// Run consumes events until ctx is cancelled, applying each to the shell.
func (b *Bridge) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-b.events:
			b.apply(e)
		}
	}
}

func (b *Bridge) apply(e Event) {
	switch e.Kind {
	case EventDeviceConnected:
		b.shell.UpdateHardwareState(e.Device)
	case EventGPSUpdate:
		b.shell.UpdateAppState("operations", map[string]any{"gps": e.Position})
	case EventDeviceError, EventInfo:
		deviceID := e.DeviceID
		if deviceID == "" {
			deviceID = "system"
		}
		b.shell.NotifyHardwareEvent(e.Code, deviceID)
	default:
		b.log.Warn().Str("kind", string(e.Kind)).Msg("unknown hardware event kind")
	}
}
