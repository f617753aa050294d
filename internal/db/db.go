package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the write-only archive of snapshots and alerts.
type DB struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, dsn string) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &DB{Pool: pool}, nil
}

func (d *DB) Close() {
	d.Pool.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS vital_snapshots (
    id                BIGSERIAL PRIMARY KEY,
    room_number       TEXT        NOT NULL,
    heart_rate        DOUBLE PRECISION NOT NULL,
    systolic          DOUBLE PRECISION NOT NULL,
    diastolic         DOUBLE PRECISION NOT NULL,
    oxygen_saturation DOUBLE PRECISION NOT NULL,
    temperature       DOUBLE PRECISION NOT NULL,
    respiratory_rate  DOUBLE PRECISION NOT NULL,
    status            TEXT        NOT NULL,
    recorded_at       TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS vital_snapshots_room_idx ON vital_snapshots (room_number, recorded_at);

CREATE TABLE IF NOT EXISTS vital_alerts (
    id              UUID PRIMARY KEY,
    type            TEXT        NOT NULL,
    room_number     TEXT        NOT NULL,
    condition       TEXT        NOT NULL,
    previous_status TEXT        NOT NULL,
    status          TEXT        NOT NULL,
    reasons         TEXT[]      NOT NULL DEFAULT '{}',
    created_at      TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS vital_alerts_room_idx ON vital_alerts (room_number, created_at);
`

// EnsureSchema creates the archive tables if they do not exist.
func (d *DB) EnsureSchema(ctx context.Context) error {
	if _, err := d.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
