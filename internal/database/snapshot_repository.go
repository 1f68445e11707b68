package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hangiplatform/models"
)

const snapshotsKept = 7

// SnapshotRepository stores raw JSON copies of successful schedule scrapes.
type SnapshotRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db, now: time.Now}
}

// Save records a snapshot and prunes all but the newest few for the listing.
func (r *SnapshotRepository) Save(source, key string, payload []byte) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO schedule_snapshots (source, listing_key, payload, fetched_at) VALUES (?, ?, ?, ?)`,
		source, key, payload, r.now().UnixMilli(),
	); err != nil {
		return fmt.Errorf("insert snapshot %s/%s: %w", source, key, err)
	}
	if _, err := tx.Exec(`
		DELETE FROM schedule_snapshots
		WHERE source = ? AND listing_key = ? AND id NOT IN (
			SELECT id FROM schedule_snapshots
			WHERE source = ? AND listing_key = ?
			ORDER BY fetched_at DESC, id DESC
			LIMIT ?
		)`,
		source, key, source, key, snapshotsKept,
	); err != nil {
		return fmt.Errorf("prune snapshots %s/%s: %w", source, key, err)
	}
	return tx.Commit()
}

// Latest returns the newest snapshot for the listing, or nil if there is none.
func (r *SnapshotRepository) Latest(source, key string) (*models.ScheduleSnapshot, error) {
	snap := models.ScheduleSnapshot{Source: source, Key: key}
	var fetchedAt int64
	err := r.db.QueryRow(`
		SELECT payload, fetched_at FROM schedule_snapshots
		WHERE source = ? AND listing_key = ?
		ORDER BY fetched_at DESC, id DESC
		LIMIT 1`,
		source, key,
	).Scan(&snap.Payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest snapshot %s/%s: %w", source, key, err)
	}
	snap.FetchedAt = time.UnixMilli(fetchedAt)
	return &snap, nil
}
