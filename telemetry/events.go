package telemetry

import (
	"context"
	"log/slog"
)

// EventType identifies interaction events.
type EventType string

const (
	EventShapeChanged  EventType = "shape_changed"
	EventColorChanged  EventType = "color_changed"
	EventStatusChanged EventType = "status_changed"
	EventTrackerReady  EventType = "tracker_ready"
	EventTrackerFailed EventType = "tracker_failed"
	EventResized       EventType = "resized"
)

// Event is a single interaction event.
type Event struct {
	Time   float64   `csv:"time"`
	Tick   int       `csv:"tick"`
	Type   EventType `csv:"type"`
	Detail string    `csv:"detail"`
}

// NewShapeEvent records a shape selection.
func NewShapeEvent(time float64, tick int, shape string) Event {
	return Event{Time: time, Tick: tick, Type: EventShapeChanged, Detail: shape}
}

// NewColorEvent records a color change.
func NewColorEvent(time float64, tick int, hex string) Event {
	return Event{Time: time, Tick: tick, Type: EventColorChanged, Detail: hex}
}

// NewStatusEvent records a status label transition.
func NewStatusEvent(time float64, tick int, status string) Event {
	return Event{Time: time, Tick: tick, Type: EventStatusChanged, Detail: status}
}

// LogEvent logs the event using slog. Tracker failures log at error level.
func (e Event) LogEvent() {
	level := slog.LevelInfo
	if e.Type == EventTrackerFailed {
		level = slog.LevelError
	}
	slog.Log(context.Background(), level, string(e.Type),
		"time", e.Time,
		"tick", e.Tick,
		"detail", e.Detail,
	)
}
