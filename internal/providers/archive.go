package providers

import (
	"context"
	"fmt"

	"vitals-service/internal/models"
)

// ArchiveStore appends snapshots and alerts to durable storage.
type ArchiveStore interface {
	InsertSnapshot(ctx context.Context, v models.VitalSigns) error
	InsertAlert(ctx context.Context, a models.Alert) error
}

// Archive is a write-only sink over an ArchiveStore.
type Archive struct {
	store ArchiveStore
}

func NewArchive(store ArchiveStore) *Archive {
	return &Archive{store: store}
}

func (a *Archive) Name() string { return "archive" }

func (a *Archive) Deliver(ctx context.Context, event models.Event) error {
	switch {
	case event.Kind == models.EventSnapshot && event.Snapshot != nil:
		if err := a.store.InsertSnapshot(ctx, *event.Snapshot); err != nil {
			return fmt.Errorf("archive snapshot for room %s: %w", event.Snapshot.RoomNumber, err)
		}
	case event.Kind == models.EventAlert && event.Alert != nil:
		if err := a.store.InsertAlert(ctx, *event.Alert); err != nil {
			return fmt.Errorf("archive alert %s: %w", event.Alert.ID, err)
		}
	default:
		return fmt.Errorf("unsupported event kind %q", event.Kind)
	}
	return nil
}
