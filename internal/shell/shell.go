// Package shell implements the desktop window-management state machine: the
// window, desktop, and notification registries behind a single command
// interface. The shell owns logical position/size/z-order/state only; pointer
// mechanics and rendering are external collaborators.
package shell

import (
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/suitewaste/deskshell/internal/core/domain"
)

const (
	baseZIndex    = 100
	defaultWidth  = 800
	defaultHeight = 600
)

// AuthGate reports whether a session is established. The shell refuses
// window and desktop commands until it is.
type AuthGate interface {
	IsAuthenticated() bool
}

// OpenMeta carries optional presentation hints for a new window.
type OpenMeta struct {
	Title string
	Icon  string
}

// Shell is the owned state container for all desktop state. Commands are
// serialized through one mutex: UI events, hardware-bridge callbacks, and
// network callbacks may interleave between top-level calls but never within
// one.
type Shell struct {
	gate AuthGate
	log  zerolog.Logger

	mu               sync.Mutex
	windows          []domain.WindowInstance
	notifications    []domain.Notification
	activeWindowID   string
	nextZIndex       int
	desktops         []domain.Desktop
	currentDesktopID string
	nextDesktopID    int
	appState         map[string]map[string]any
	devices          map[string]domain.DeviceInfo
}

// New creates a Shell with one seeded desktop, which is current.
func New(gate AuthGate, log zerolog.Logger) *Shell {
	return &Shell{
		gate:             gate,
		log:              log,
		nextZIndex:       baseZIndex,
		desktops:         []domain.Desktop{{ID: "1", Name: "os.desktop.1"}},
		currentDesktopID: "1",
		nextDesktopID:    2,
		appState:         make(map[string]map[string]any),
		devices:          make(map[string]domain.DeviceInfo),
	}
}

// ── Window registry ──────────────────────────────────────────────────────────

// OpenApp opens appID on the current desktop, or focuses (and restores) the
// existing window for it. At most one window exists per (app, desktop) pair.
func (s *Shell) OpenApp(appID string, meta OpenMeta) (domain.WindowInstance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.gate.IsAuthenticated() {
		return domain.WindowInstance{}, domain.ErrNotAuthenticated
	}

	for i := range s.windows {
		w := &s.windows[i]
		if w.AppID == appID && w.DesktopID == s.currentDesktopID {
			s.focusLocked(w.ID)
			if w.State == domain.WindowMinimized {
				s.setWindowStateLocked(w.ID, domain.WindowNormal)
			}
			return *w, nil
		}
	}

	title := meta.Title
	if title == "" {
		title = appID
	}
	w := domain.WindowInstance{
		ID:    "win_" + uuid.NewString(),
		AppID: appID,
		Title: title,
		Icon:  meta.Icon,
		Position: domain.Position{
			X: rand.Float64()*200 + 50,
			Y: rand.Float64()*100 + 50,
		},
		Size: domain.Size{
			Width:  domain.Pixels(defaultWidth),
			Height: domain.Pixels(defaultHeight),
		},
		ZIndex:    s.nextZIndex,
		State:     domain.WindowNormal,
		DesktopID: s.currentDesktopID,
	}
	s.nextZIndex++
	s.windows = append(s.windows, w)
	s.activeWindowID = w.ID

	s.log.Info().Str("app_id", appID).Str("window_id", w.ID).Str("desktop_id", w.DesktopID).Msg("window opened")
	return w, nil
}

// CloseApp removes the window. If it was active, the highest-z non-minimized
// window remaining on the current desktop becomes active, or none.
// Unknown ids are a no-op.
func (s *Shell) CloseApp(windowID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.gate.IsAuthenticated() {
		return domain.ErrNotAuthenticated
	}

	kept := s.windows[:0]
	removed := false
	for _, w := range s.windows {
		if w.ID == windowID {
			removed = true
			continue
		}
		kept = append(kept, w)
	}
	s.windows = kept
	if !removed {
		return nil
	}

	if s.activeWindowID == windowID {
		s.activeWindowID = s.topWindowLocked(s.currentDesktopID)
	}
	s.log.Info().Str("window_id", windowID).Msg("window closed")
	return nil
}

// topWindowLocked returns the id of the highest-z non-minimized window on the
// desktop, or "".
func (s *Shell) topWindowLocked(desktopID string) string {
	best := ""
	bestZ := -1
	for i := range s.windows {
		w := &s.windows[i]
		if w.DesktopID != desktopID || w.State == domain.WindowMinimized {
			continue
		}
		if w.ZIndex > bestZ {
			best, bestZ = w.ID, w.ZIndex
		}
	}
	return best
}

// FocusWindow brings the window to the top of the stack and marks it active.
// A window already on top only gets the active marker, with no z churn.
func (s *Shell) FocusWindow(windowID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.gate.IsAuthenticated() {
		return domain.ErrNotAuthenticated
	}
	s.focusLocked(windowID)
	return nil
}

func (s *Shell) focusLocked(windowID string) {
	w := s.findLocked(windowID)
	if w == nil {
		return
	}
	if w.ZIndex != s.nextZIndex-1 {
		w.ZIndex = s.nextZIndex
		s.nextZIndex++
	}
	s.activeWindowID = windowID
}

// SetWindowState transitions the window between normal, minimized, and
// maximized. Leaving minimized re-raises the window and marks it active.
// Minimizing the active window deliberately does not re-elect: the active
// pointer is reconciled lazily by the next focus or close.
func (s *Shell) SetWindowState(windowID string, state domain.WindowState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.gate.IsAuthenticated() {
		return domain.ErrNotAuthenticated
	}
	s.setWindowStateLocked(windowID, state)
	return nil
}

func (s *Shell) setWindowStateLocked(windowID string, state domain.WindowState) {
	w := s.findLocked(windowID)
	if w == nil {
		return
	}
	if w.State == state {
		return
	}
	if !w.State.CanTransitionTo(state) {
		s.log.Debug().Str("window_id", windowID).
			Str("from", string(w.State)).Str("to", string(state)).
			Msg("window state transition rejected")
		return
	}
	w.State = state
	if state != domain.WindowMinimized {
		if w.ZIndex != s.nextZIndex-1 {
			w.ZIndex = s.nextZIndex
			s.nextZIndex++
		}
		s.activeWindowID = windowID
	}
}

// UpdateWindowPosition commits a logical position. Called by the drag
// collaborator once per discrete commit, not per pointer frame.
func (s *Shell) UpdateWindowPosition(windowID string, pos domain.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.gate.IsAuthenticated() {
		return domain.ErrNotAuthenticated
	}
	if w := s.findLocked(windowID); w != nil {
		w.Position = pos
	}
	return nil
}

// UpdateWindowSize commits a logical size.
func (s *Shell) UpdateWindowSize(windowID string, size domain.Size) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.gate.IsAuthenticated() {
		return domain.ErrNotAuthenticated
	}
	if w := s.findLocked(windowID); w != nil {
		w.Size = size
	}
	return nil
}

func (s *Shell) findLocked(windowID string) *domain.WindowInstance {
	for i := range s.windows {
		if s.windows[i].ID == windowID {
			return &s.windows[i]
		}
	}
	return nil
}

// Windows returns a copy of every open window across all desktops.
func (s *Shell) Windows() []domain.WindowInstance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.WindowInstance(nil), s.windows...)
}

// WindowsOn returns the windows assigned to one desktop, for display.
func (s *Shell) WindowsOn(desktopID string) []domain.WindowInstance {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.WindowInstance
	for _, w := range s.windows {
		if w.DesktopID == desktopID {
			out = append(out, w)
		}
	}
	return out
}

// ActiveWindow returns the active window, or nil when none is active. The
// pointer may reference a minimized window between a minimize and the next
// focus/close; see SetWindowState.
func (s *Shell) ActiveWindow() *domain.WindowInstance {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w := s.findLocked(s.activeWindowID); w != nil {
		out := *w
		return &out
	}
	return nil
}

// ── Desktop registry ─────────────────────────────────────────────────────────

// AddDesktop appends a new desktop with the next id and makes it current.
func (s *Shell) AddDesktop() (domain.Desktop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.gate.IsAuthenticated() {
		return domain.Desktop{}, domain.ErrNotAuthenticated
	}

	id := strconv.Itoa(s.nextDesktopID)
	s.nextDesktopID++
	d := domain.Desktop{ID: id, Name: "os.desktop." + id}
	s.desktops = append(s.desktops, d)
	s.currentDesktopID = id
	s.activeWindowID = ""
	return d, nil
}

// RemoveDesktop removes a desktop, re-homing its windows to the first other
// desktop. Removing the last desktop is a no-op; at least one always exists.
func (s *Shell) RemoveDesktop(desktopID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.gate.IsAuthenticated() {
		return domain.ErrNotAuthenticated
	}
	if len(s.desktops) <= 1 {
		return nil
	}

	fallback := ""
	found := false
	for _, d := range s.desktops {
		if d.ID == desktopID {
			found = true
		} else if fallback == "" {
			fallback = d.ID
		}
	}
	if !found {
		return nil
	}

	for i := range s.windows {
		if s.windows[i].DesktopID == desktopID {
			s.windows[i].DesktopID = fallback
		}
	}
	kept := s.desktops[:0]
	for _, d := range s.desktops {
		if d.ID != desktopID {
			kept = append(kept, d)
		}
	}
	s.desktops = kept
	if s.currentDesktopID == desktopID {
		s.currentDesktopID = fallback
	}
	return nil
}

// SetCurrentDesktop switches the visible desktop. Active focus is scoped per
// desktop, so the pointer clears until something on the new desktop is
// focused.
func (s *Shell) SetCurrentDesktop(desktopID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.gate.IsAuthenticated() {
		return domain.ErrNotAuthenticated
	}
	for _, d := range s.desktops {
		if d.ID == desktopID {
			s.currentDesktopID = desktopID
			s.activeWindowID = ""
			return nil
		}
	}
	return nil
}

// Desktops returns all desktops in creation order.
func (s *Shell) Desktops() []domain.Desktop {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Desktop(nil), s.desktops...)
}

// CurrentDesktopID returns the visible desktop's id.
func (s *Shell) CurrentDesktopID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentDesktopID
}

// ── Notification log ─────────────────────────────────────────────────────────

// AddNotification prepends an alert and truncates past the cap. Hardware and
// system events surface here regardless of the auth gate, so device errors
// are never lost during a re-login.
func (s *Shell) AddNotification(appID, icon, title, message string) domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := domain.Notification{
		ID:        "notif_" + uuid.NewString(),
		AppID:     appID,
		Icon:      icon,
		Title:     title,
		Message:   message,
		Timestamp: time.Now(),
	}
	s.notifications = append([]domain.Notification{n}, s.notifications...)
	if len(s.notifications) > domain.NotificationCap {
		s.notifications = s.notifications[:domain.NotificationCap]
	}
	return n
}

// RemoveNotification drops one alert; unknown ids are a no-op.
func (s *Shell) RemoveNotification(notificationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.notifications[:0]
	for _, n := range s.notifications {
		if n.ID != notificationID {
			kept = append(kept, n)
		}
	}
	s.notifications = kept
}

// ClearNotifications empties the log.
func (s *Shell) ClearNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = nil
}

// Notifications returns the log, newest first.
func (s *Shell) Notifications() []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Notification(nil), s.notifications...)
}

// ── App / hardware state ─────────────────────────────────────────────────────

// UpdateAppState shallow-merges data into the app's opaque state blob.
func (s *Shell) UpdateAppState(appID string, data map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, ok := s.appState[appID]
	if !ok {
		blob = make(map[string]any, len(data))
		s.appState[appID] = blob
	}
	for k, v := range data {
		blob[k] = v
	}
}

// AppState returns a copy of the app's state blob.
func (s *Shell) AppState(appID string) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob := s.appState[appID]
	out := make(map[string]any, len(blob))
	for k, v := range blob {
		out[k] = v
	}
	return out
}

// UpdateHardwareState records a device the hardware bridge reported.
func (s *Shell) UpdateHardwareState(device domain.DeviceInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.devices[device.ID] = device
}

// Devices returns the known hardware devices keyed by id.
func (s *Shell) Devices() map[string]domain.DeviceInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]domain.DeviceInfo, len(s.devices))
	for k, v := range s.devices {
		out[k] = v
	}
	return out
}

// NotifyHardwareEvent surfaces a hardware event code as a system
// notification.
func (s *Shell) NotifyHardwareEvent(event, deviceID string) {
	s.AddNotification("system", "hardware", "Hardware Event: "+event, "Device: "+deviceID)
}
