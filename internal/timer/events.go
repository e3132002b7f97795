package timer

import "time"

type EventType string

const (
	EventToggle           EventType = "toggle"
	EventTick             EventType = "tick"
	EventIntervalComplete EventType = "interval_complete"
	EventReset            EventType = "reset"
)

// Event is a timer update delivered to subscribers.
type Event struct {
	Type     EventType `json:"type"`
	State    State     `json:"state"`
	Progress float64   `json:"progress"`
	At       time.Time `json:"at"`
}
