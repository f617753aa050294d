package vitals

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vitals-service/internal/models"
)

func ptr(v float64) *float64 { return &v }

func TestMerge_OverridesOnlyPresentFields(t *testing.T) {
	base := baseline()
	base.RoomNumber = "205"
	base.Timestamp = "2024-01-01T00:00:00.000000Z"
	base.Status = models.StatusNormal

	got := Merge(base, models.VitalSignsUpdate{OxygenSaturation: ptr(80)})

	assert.Equal(t, 80.0, got.OxygenSaturation)
	assert.Equal(t, models.StatusCritical, got.Status)
	assert.Equal(t, base.HeartRate, got.HeartRate)
	assert.Equal(t, base.BloodPressure, got.BloodPressure)
	assert.Equal(t, base.RoomNumber, got.RoomNumber)
	assert.Equal(t, base.Timestamp, got.Timestamp)
}

func TestMerge_BloodPressureFieldsIndependent(t *testing.T) {
	got := Merge(baseline(), models.VitalSignsUpdate{
		BloodPressure: &models.BloodPressureUpdate{Systolic: ptr(150)},
	})
	assert.Equal(t, 150.0, got.BloodPressure.Systolic)
	assert.Equal(t, 80.0, got.BloodPressure.Diastolic)
	assert.Equal(t, models.StatusWarning, got.Status)
}

func TestMerge_DoesNotClampButRounds(t *testing.T) {
	got := Merge(baseline(), models.VitalSignsUpdate{HeartRate: ptr(250.26), Temperature: ptr(90)})
	assert.Equal(t, 250.3, got.HeartRate)
	assert.Equal(t, 90.0, got.Temperature)
	assert.Equal(t, models.StatusCritical, got.Status)
}

func TestMerge_EmptyUpdateRecomputesStatus(t *testing.T) {
	base := baseline()
	base.Status = models.StatusCritical

	got := Merge(base, models.VitalSignsUpdate{})
	assert.Equal(t, models.StatusNormal, got.Status)
}
