package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/soundforge/beatscan/internal/apperr"
	"github.com/soundforge/beatscan/internal/models"
)

// FindSampleByPath returns the identity of the sample stored under
// path, or apperr.ErrNotFound.
func (db *DB) FindSampleByPath(path string) (int64, error) {
	var id int64
	err := db.conn.QueryRow(`SELECT id FROM samples WHERE path = ?`, path).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, apperr.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("store: find sample: %w", err)
	}
	return id, nil
}

// GetOrCreateSample returns the identity for rec's path, inserting the
// record on first sight. The UNIQUE path constraint plus ON CONFLICT DO
// NOTHING makes concurrent first-sight of one path yield exactly one
// row: losers of the race fall through to the re-select.
func (db *DB) GetOrCreateSample(rec *models.SampleRecord) (int64, error) {
	res, err := db.conn.Exec(`
		INSERT INTO samples (filename, path, checksum, title, artist, duration, sample_rate, bpm, key, spectrogram_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO NOTHING
	`, rec.Filename, rec.Path, rec.Checksum, rec.Title, rec.Artist,
		rec.DurationSeconds, rec.SampleRate, rec.TempoBPM, rec.Key, rec.SpectrogramPath)
	if err != nil {
		return 0, fmt.Errorf("store: insert sample: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		if id, err := res.LastInsertId(); err == nil {
			return id, nil
		}
	}
	return db.FindSampleByPath(rec.Path)
}

// InsertUsage appends one usage event. Usage rows are append-only and
// unbounded per sample.
func (db *DB) InsertUsage(sampleID, userID, projectID int64, at time.Time) error {
	_, err := db.conn.Exec(`
		INSERT INTO sample_usage (sample_id, user_id, project_id, used_at)
		VALUES (?, ?, ?, ?)
	`, sampleID, userID, projectID, at.UTC())
	if err != nil {
		return fmt.Errorf("store: insert usage: %w", err)
	}
	return nil
}

// UsageEvents returns all usage rows for a sample, oldest first.
func (db *DB) UsageEvents(sampleID int64) ([]models.UsageEvent, error) {
	rows, err := db.conn.Query(`
		SELECT sample_id, user_id, project_id, used_at
		FROM sample_usage WHERE sample_id = ? ORDER BY id
	`, sampleID)
	if err != nil {
		return nil, fmt.Errorf("store: usage events: %w", err)
	}
	defer rows.Close()

	var out []models.UsageEvent
	for rows.Next() {
		var ev models.UsageEvent
		if err := rows.Scan(&ev.SampleID, &ev.UserID, &ev.ProjectID, &ev.UsedAt); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// GetSample loads a stored record by path, or apperr.ErrNotFound.
func (db *DB) GetSample(path string) (*models.SampleRecord, error) {
	var rec models.SampleRecord
	err := db.conn.QueryRow(`
		SELECT filename, path, checksum, title, artist, duration, sample_rate, bpm, key, spectrogram_path
		FROM samples WHERE path = ?
	`, path).Scan(&rec.Filename, &rec.Path, &rec.Checksum, &rec.Title, &rec.Artist,
		&rec.DurationSeconds, &rec.SampleRate, &rec.TempoBPM, &rec.Key, &rec.SpectrogramPath)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get sample: %w", err)
	}
	return &rec, nil
}

// CountSamples returns the number of registered samples.
func (db *DB) CountSamples() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT count(*) FROM samples`).Scan(&n); err != nil {
		return 0, fmt.Errorf("store: count samples: %w", err)
	}
	return n, nil
}
