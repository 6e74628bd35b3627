package timekeeper

import (
	"time"

	"pomopet/internal/core/session"
)

// EventType defines the type of TimeKeeper event.
type EventType string

const (
	EventStateChange   EventType = "state_change"
	EventProgress      EventType = "progress"
	EventWorkCompleted EventType = "work_completed"
)

// Event represents a TimeKeeper update for observers.
type Event struct {
	ID         string
	Type       EventType
	State      session.State
	Completion session.Completion
	Remaining  time.Duration
	Progress   float64
	At         time.Time
}
