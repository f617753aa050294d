package vitals

import "vitals-service/internal/models"

// Range bounds one vital for an archetype; Base is the resting value.
type Range struct {
	Min  float64
	Max  float64
	Base float64
}

// Clamp limits v to [Min, Max].
func (r Range) Clamp(v float64) float64 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Contains reports whether v lies in [Min, Max].
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Profile is the per-vital range table of one condition.
type Profile struct {
	HeartRate        Range
	Systolic         Range
	Diastolic        Range
	OxygenSaturation Range
	Temperature      Range
	RespiratoryRate  Range
}

var profiles = map[models.Condition]Profile{
	models.ConditionNormal: {
		HeartRate:        Range{Min: 60, Max: 100, Base: 75},
		Systolic:         Range{Min: 90, Max: 140, Base: 120},
		Diastolic:        Range{Min: 60, Max: 90, Base: 80},
		OxygenSaturation: Range{Min: 95, Max: 100, Base: 98},
		Temperature:      Range{Min: 97.0, Max: 99.5, Base: 98.6},
		RespiratoryRate:  Range{Min: 12, Max: 20, Base: 16},
	},
	models.ConditionCritical: {
		HeartRate:        Range{Min: 40, Max: 150, Base: 110},
		Systolic:         Range{Min: 70, Max: 200, Base: 160},
		Diastolic:        Range{Min: 40, Max: 120, Base: 100},
		OxygenSaturation: Range{Min: 85, Max: 95, Base: 92},
		Temperature:      Range{Min: 95.0, Max: 104.0, Base: 101.5},
		RespiratoryRate:  Range{Min: 8, Max: 35, Base: 25},
	},
	models.ConditionRecovering: {
		HeartRate:        Range{Min: 65, Max: 110, Base: 85},
		Systolic:         Range{Min: 100, Max: 160, Base: 135},
		Diastolic:        Range{Min: 65, Max: 95, Base: 85},
		OxygenSaturation: Range{Min: 92, Max: 99, Base: 96},
		Temperature:      Range{Min: 97.5, Max: 100.5, Base: 99.2},
		RespiratoryRate:  Range{Min: 14, Max: 24, Base: 18},
	},
}

// ProfileFor returns the range table of a condition.
func ProfileFor(c models.Condition) (Profile, bool) {
	p, ok := profiles[c]
	return p, ok
}
