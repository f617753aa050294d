package vitals

import "vitals-service/internal/models"

// Merge overlays the fields present in u onto base and recomputes the status.
// Overrides are rounded but not clamped, so callers may push values outside
// the room's archetype range.
func Merge(base models.VitalSigns, u models.VitalSignsUpdate) models.VitalSigns {
	out := base
	if u.HeartRate != nil {
		out.HeartRate = round1(*u.HeartRate)
	}
	if bp := u.BloodPressure; bp != nil {
		if bp.Systolic != nil {
			out.BloodPressure.Systolic = round1(*bp.Systolic)
		}
		if bp.Diastolic != nil {
			out.BloodPressure.Diastolic = round1(*bp.Diastolic)
		}
	}
	if u.OxygenSaturation != nil {
		out.OxygenSaturation = round1(*u.OxygenSaturation)
	}
	if u.Temperature != nil {
		out.Temperature = round1(*u.Temperature)
	}
	if u.RespiratoryRate != nil {
		out.RespiratoryRate = round1(*u.RespiratoryRate)
	}
	out.Status = Classify(out)
	return out
}
