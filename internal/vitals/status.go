package vitals

import (
	"fmt"

	"vitals-service/internal/models"
)

type threshold struct {
	name  string
	value func(models.VitalSigns) float64
	above bool
	limit float64
}

func (t threshold) tripped(v models.VitalSigns) bool {
	if t.above {
		return t.value(v) > t.limit
	}
	return t.value(v) < t.limit
}

func (t threshold) describe(v models.VitalSigns) string {
	op := "<"
	if t.above {
		op = ">"
	}
	return fmt.Sprintf("%s %.1f %s %g", t.name, t.value(v), op, t.limit)
}

func heartRate(v models.VitalSigns) float64   { return v.HeartRate }
func systolic(v models.VitalSigns) float64    { return v.BloodPressure.Systolic }
func diastolic(v models.VitalSigns) float64   { return v.BloodPressure.Diastolic }
func oxygen(v models.VitalSigns) float64      { return v.OxygenSaturation }
func temperature(v models.VitalSigns) float64 { return v.Temperature }
func respiratory(v models.VitalSigns) float64 { return v.RespiratoryRate }

// Any one tripped row escalates; rows are independent.
var warningThresholds = []threshold{
	{"heartRate", heartRate, true, 100},
	{"heartRate", heartRate, false, 60},
	{"systolic", systolic, true, 140},
	{"diastolic", diastolic, true, 90},
	{"oxygenSaturation", oxygen, false, 95},
	{"temperature", temperature, true, 100.4},
	{"respiratoryRate", respiratory, true, 20},
}

var criticalThresholds = []threshold{
	{"heartRate", heartRate, true, 120},
	{"heartRate", heartRate, false, 50},
	{"systolic", systolic, true, 160},
	{"diastolic", diastolic, true, 100},
	{"oxygenSaturation", oxygen, false, 90},
	{"temperature", temperature, true, 102},
	{"respiratoryRate", respiratory, true, 25},
}

// Classify returns the status tier of a snapshot's values.
func Classify(v models.VitalSigns) models.Status {
	status, _ := Evaluate(v)
	return status
}

// Evaluate returns the status tier together with a description of every
// threshold of that tier the values cross.
func Evaluate(v models.VitalSigns) (models.Status, []string) {
	if reasons := collect(criticalThresholds, v); len(reasons) > 0 {
		return models.StatusCritical, reasons
	}
	if reasons := collect(warningThresholds, v); len(reasons) > 0 {
		return models.StatusWarning, reasons
	}
	return models.StatusNormal, nil
}

func collect(rows []threshold, v models.VitalSigns) []string {
	var out []string
	for _, t := range rows {
		if t.tripped(v) {
			out = append(out, t.describe(v))
		}
	}
	return out
}
