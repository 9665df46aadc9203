package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// WindowState represents the display state of an open window.
type WindowState string

const (
	WindowNormal    WindowState = "normal"
	WindowMinimized WindowState = "minimized"
	WindowMaximized WindowState = "maximized"
)

// validWindowTransitions defines the allowed window state machine transitions.
// Maximizing a minimized window goes through normal first.
var validWindowTransitions = map[WindowState][]WindowState{
	WindowNormal:    {WindowMinimized, WindowMaximized},
	WindowMinimized: {WindowNormal},
	WindowMaximized: {WindowNormal, WindowMinimized},
}

// CanTransitionTo reports whether a transition from the current window state
// to next is valid.
func (s WindowState) CanTransitionTo(next WindowState) bool {
	for _, allowed := range validWindowTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Position is the logical top-left corner of a window in desktop coordinates.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dimension is one window extent. It is either a pixel count or a free-form
// CSS unit string such as "100%" — the shell only stores it, the presentation
// layer interprets it.
type Dimension struct {
	Px   float64
	Unit string // non-empty means Px is ignored
}

// Pixels returns a pixel dimension.
func Pixels(px float64) Dimension { return Dimension{Px: px} }

// CSS returns a CSS-string dimension (e.g. "100%", "50vw").
func CSS(value string) Dimension { return Dimension{Unit: value} }

func (d Dimension) MarshalJSON() ([]byte, error) {
	if d.Unit != "" {
		return json.Marshal(d.Unit)
	}
	return json.Marshal(d.Px)
}

func (d *Dimension) UnmarshalJSON(b []byte) error {
	var px float64
	if err := json.Unmarshal(b, &px); err == nil {
		*d = Dimension{Px: px}
		return nil
	}
	var unit string
	if err := json.Unmarshal(b, &unit); err != nil {
		return fmt.Errorf("dimension: %s is neither number nor string", b)
	}
	// a plain numeric string is still pixels
	if px, err := strconv.ParseFloat(unit, 64); err == nil {
		*d = Dimension{Px: px}
		return nil
	}
	*d = Dimension{Unit: unit}
	return nil
}

// Size is the logical window size.
type Size struct {
	Width  Dimension `json:"width"`
	Height Dimension `json:"height"`
}

// WindowInstance is one open occurrence of an application within the shell.
// Icon is a symbolic key resolved to a renderable by the presentation layer;
// the core never stores renderables.
type WindowInstance struct {
	ID        string      `json:"id"`
	AppID     string      `json:"app_id"`
	Title     string      `json:"title"`
	Icon      string      `json:"icon"`
	Position  Position    `json:"position"`
	Size      Size        `json:"size"`
	ZIndex    int         `json:"z_index"`
	State     WindowState `json:"state"`
	DesktopID string      `json:"desktop_id"`
}
