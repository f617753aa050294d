package db

import (
	"context"
	"fmt"
	"time"

	"vitals-service/internal/models"
	"vitals-service/internal/vitals"
)

const insertSnapshot = `
    INSERT INTO vital_snapshots (
        room_number, heart_rate, systolic, diastolic, oxygen_saturation,
        temperature, respiratory_rate, status, recorded_at
    ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

const insertAlert = `
    INSERT INTO vital_alerts (
        id, type, room_number, condition, previous_status, status, reasons, created_at
    ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

// InsertSnapshot appends one snapshot.
func (d *DB) InsertSnapshot(ctx context.Context, v models.VitalSigns) error {
	args, err := snapshotArgs(v)
	if err != nil {
		return err
	}
	if _, err := d.Pool.Exec(ctx, insertSnapshot, args...); err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}
	return nil
}

// InsertAlert appends one alert.
func (d *DB) InsertAlert(ctx context.Context, a models.Alert) error {
	if _, err := d.Pool.Exec(ctx, insertAlert, alertArgs(a)...); err != nil {
		return fmt.Errorf("failed to insert alert: %w", err)
	}
	return nil
}

func snapshotArgs(v models.VitalSigns) ([]interface{}, error) {
	recordedAt, err := time.Parse(vitals.TimestampLayout, v.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("invalid snapshot timestamp %q: %w", v.Timestamp, err)
	}
	return []interface{}{
		v.RoomNumber,
		v.HeartRate,
		v.BloodPressure.Systolic,
		v.BloodPressure.Diastolic,
		v.OxygenSaturation,
		v.Temperature,
		v.RespiratoryRate,
		string(v.Status),
		recordedAt,
	}, nil
}

func alertArgs(a models.Alert) []interface{} {
	reasons := a.Reasons
	if reasons == nil {
		reasons = []string{}
	}
	return []interface{}{
		a.ID,
		a.Type,
		a.RoomNumber,
		string(a.Condition),
		string(a.PreviousStatus),
		string(a.Status),
		reasons,
		a.CreatedAt,
	}
}
