package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// ErrVersionConflict is returned by SaveSession when the caller's
// version is stale: another writer saved the session since it was read.
// The caller should reload, reconcile, and retry.
var ErrVersionConflict = errors.New("session version conflict")

// SessionRecord is one persisted learner session. Data is the engine's
// JSON-serialized session; the store never looks inside it.
type SessionRecord struct {
	EnrollmentID string
	ModuleID     string
	Version      int64
	Data         []byte
	UpdatedAt    time.Time
}

// SaveRecord is one row of the append-only save audit trail.
type SaveRecord struct {
	ID           string
	EnrollmentID string
	ModuleID     string
	Version      int64
	SavedAt      time.Time
}

func (s *Store) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

// LoadSession returns the persisted session for the pair, or nil if
// none exists.
func (s *Store) LoadSession(ctx context.Context, enrollmentID, moduleID string) (*SessionRecord, error) {
	var rec SessionRecord
	var updatedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT enrollment_id, module_id, version, data, updated_at
		 FROM sessions WHERE enrollment_id = ? AND module_id = ?`,
		enrollmentID, moduleID,
	).Scan(&rec.EnrollmentID, &rec.ModuleID, &rec.Version, &rec.Data, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	rec.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse session updated_at %q: %w", updatedAt, err)
	}
	return &rec, nil
}

// SaveSession persists the record under optimistic versioning.
// rec.Version must be the version the caller read (0 for a new
// session). On success the stored and returned version is bumped by
// one; a mismatch returns ErrVersionConflict and writes nothing.
func (s *Store) SaveSession(ctx context.Context, rec *SessionRecord) error {
	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	var current int64
	err = tx.QueryRowContext(ctx,
		`SELECT version FROM sessions WHERE enrollment_id = ? AND module_id = ?`,
		rec.EnrollmentID, rec.ModuleID,
	).Scan(&current)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		if rec.Version != 0 {
			return fmt.Errorf("%w: expected version %d, session does not exist", ErrVersionConflict, rec.Version)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO sessions (enrollment_id, module_id, version, data, updated_at)
			 VALUES (?, ?, 1, ?, ?)`,
			rec.EnrollmentID, rec.ModuleID, string(rec.Data), now.Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("insert session: %w", err)
		}
		rec.Version = 1

	case err != nil:
		return fmt.Errorf("read session version: %w", err)

	default:
		if current != rec.Version {
			return fmt.Errorf("%w: stored version %d, caller has %d", ErrVersionConflict, current, rec.Version)
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE sessions SET version = ?, data = ?, updated_at = ?
			 WHERE enrollment_id = ? AND module_id = ?`,
			rec.Version+1, string(rec.Data), now.Format(time.RFC3339),
			rec.EnrollmentID, rec.ModuleID)
		if err != nil {
			return fmt.Errorf("update session: %w", err)
		}
		rec.Version++
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO session_saves (id, enrollment_id, module_id, version, saved_at)
		 VALUES (?, ?, ?, ?, ?)`,
		s.newID(), rec.EnrollmentID, rec.ModuleID, rec.Version, now.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("append save record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	rec.UpdatedAt = now
	return nil
}

// DeleteSession removes the persisted session and its save history.
// Deleting a session that doesn't exist is not an error.
func (s *Store) DeleteSession(ctx context.Context, enrollmentID, moduleID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM sessions WHERE enrollment_id = ? AND module_id = ?`,
		enrollmentID, moduleID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM session_saves WHERE enrollment_id = ? AND module_id = ?`,
		enrollmentID, moduleID); err != nil {
		return fmt.Errorf("delete save records: %w", err)
	}
	return tx.Commit()
}

// SaveHistory returns the audit trail for a session pair, oldest first.
func (s *Store) SaveHistory(ctx context.Context, enrollmentID, moduleID string) ([]SaveRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, enrollment_id, module_id, version, saved_at
		 FROM session_saves WHERE enrollment_id = ? AND module_id = ?
		 ORDER BY version ASC`,
		enrollmentID, moduleID)
	if err != nil {
		return nil, fmt.Errorf("query save history: %w", err)
	}
	defer rows.Close()

	var records []SaveRecord
	for rows.Next() {
		var r SaveRecord
		var savedAt string
		if err := rows.Scan(&r.ID, &r.EnrollmentID, &r.ModuleID, &r.Version, &savedAt); err != nil {
			return nil, fmt.Errorf("scan save record: %w", err)
		}
		r.SavedAt, err = time.Parse(time.RFC3339, savedAt)
		if err != nil {
			return nil, fmt.Errorf("parse save record saved_at %q: %w", savedAt, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
