package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	AlertTypeAlert    = "alert"
	AlertTypeResolved = "resolved"
)

// Alert records a change of a room's status tier.
type Alert struct {
	ID             uuid.UUID  `json:"id"`
	Type           string     `json:"type"`
	RoomNumber     string     `json:"roomNumber"`
	Condition      Condition  `json:"condition,omitempty"`
	PreviousStatus Status     `json:"previousStatus"`
	Status         Status     `json:"status"`
	Reasons        []string   `json:"reasons,omitempty"`
	Vitals         VitalSigns `json:"vitals"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// EventKind tells sinks what an Event carries.
type EventKind string

const (
	EventSnapshot EventKind = "snapshot"
	EventAlert    EventKind = "alert"
)

// Event is the unit queued to the notification dispatcher.
type Event struct {
	Kind     EventKind
	Snapshot *VitalSigns
	Alert    *Alert
}

// RoomKey returns the room the event concerns.
func (e Event) RoomKey() string {
	switch {
	case e.Snapshot != nil:
		return e.Snapshot.RoomNumber
	case e.Alert != nil:
		return e.Alert.RoomNumber
	}
	return ""
}
