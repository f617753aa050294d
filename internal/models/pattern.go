package models

import "time"

// Condition is the archetype a room's simulated patient is drawn from.
type Condition string

const (
	ConditionNormal     Condition = "normal"
	ConditionCritical   Condition = "critical"
	ConditionRecovering Condition = "recovering"
)

// Conditions lists every archetype in a stable order.
var Conditions = []Condition{ConditionNormal, ConditionCritical, ConditionRecovering}

// RoomPattern holds the randomized waveform parameters of one room.
type RoomPattern struct {
	RoomNumber  string    `json:"roomNumber"`
	Condition   Condition `json:"condition"`
	PhaseOffset float64   `json:"phaseOffset"`
	NoiseFactor float64   `json:"noiseFactor"`
	TrendFactor float64   `json:"trendFactor"`
	LastUpdate  time.Time `json:"lastUpdate"`
}
