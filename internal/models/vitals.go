package models

// Status is the severity tier derived from a snapshot's values.
type Status string

const (
	StatusNormal   Status = "normal"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
)

// Rank orders statuses so that higher means more severe.
func (s Status) Rank() int {
	switch s {
	case StatusWarning:
		return 1
	case StatusCritical:
		return 2
	default:
		return 0
	}
}

// ParseStatus maps a string to a Status, reporting false for unknown values.
func ParseStatus(v string) (Status, bool) {
	switch Status(v) {
	case StatusNormal, StatusWarning, StatusCritical:
		return Status(v), true
	}
	return "", false
}

type BloodPressure struct {
	Systolic  float64 `json:"systolic"`
	Diastolic float64 `json:"diastolic"`
}

// VitalSigns is one snapshot of readings for a room.
type VitalSigns struct {
	HeartRate        float64       `json:"heartRate"`
	BloodPressure    BloodPressure `json:"bloodPressure"`
	OxygenSaturation float64       `json:"oxygenSaturation"`
	Temperature      float64       `json:"temperature"`
	RespiratoryRate  float64       `json:"respiratoryRate"`
	Timestamp        string        `json:"timestamp"`
	RoomNumber       string        `json:"roomNumber"`
	Status           Status        `json:"status"`
}

type BloodPressureUpdate struct {
	Systolic  *float64 `json:"systolic,omitempty"`
	Diastolic *float64 `json:"diastolic,omitempty"`
}

// VitalSignsUpdate carries caller overrides. Nil fields are left as generated.
type VitalSignsUpdate struct {
	HeartRate        *float64             `json:"heartRate,omitempty"`
	BloodPressure    *BloodPressureUpdate `json:"bloodPressure,omitempty"`
	OxygenSaturation *float64             `json:"oxygenSaturation,omitempty"`
	Temperature      *float64             `json:"temperature,omitempty"`
	RespiratoryRate  *float64             `json:"respiratoryRate,omitempty"`
}

// Empty reports whether the update carries no overrides.
func (u VitalSignsUpdate) Empty() bool {
	bpEmpty := u.BloodPressure == nil || (u.BloodPressure.Systolic == nil && u.BloodPressure.Diastolic == nil)
	return u.HeartRate == nil && bpEmpty && u.OxygenSaturation == nil && u.Temperature == nil && u.RespiratoryRate == nil
}
