package domain

import "time"

// NotificationCap bounds the notification log; the oldest entry is dropped
// once the cap is exceeded.
const NotificationCap = 20

// Notification is a transient user-facing alert. Never persisted server-side.
type Notification struct {
	ID        string    `json:"id"`
	AppID     string    `json:"app_id"`
	Icon      string    `json:"icon"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// DeviceInfo describes a hardware device reported by the hardware bridge.
type DeviceInfo struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`   // printer, camera, gps, poe, usb
	Status      string    `json:"status"` // connected, offline, error
	Battery     *int      `json:"battery,omitempty"`
	ConnectedAt time.Time `json:"connected_at"`
}
