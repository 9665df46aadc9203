package ports

import (
	"context"
	"encoding/json"
	"time"
)

// HardwareAction is one command destined for a peripheral (printer, scanner,
// GPS unit). Actions are queued durably so that a device going away does not
// lose work.
type HardwareAction struct {
	ID         string          `json:"id"`
	DeviceID   string          `json:"device_id"`
	Kind       string          `json:"kind"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	Attempts   int             `json:"attempts"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}

// ActionSender delivers a hardware action to its device. Implementations are
// transport-specific; the queue only cares about success or failure.
type ActionSender interface {
	Send(ctx context.Context, action HardwareAction) error
}
