package store

import (
	"time"

	"github.com/soundforge/beatscan/internal/models"
)

// SampleStore defines the backing-store contract for registration and
// usage tracking. Consumers should depend on this interface rather than
// the concrete *DB type to facilitate testing with fakes.
type SampleStore interface {
	FindSampleByPath(path string) (int64, error)
	GetOrCreateSample(rec *models.SampleRecord) (int64, error)
	InsertUsage(sampleID, userID, projectID int64, at time.Time) error
	GetSample(path string) (*models.SampleRecord, error)
	Close() error
}

// Verify *DB satisfies SampleStore at compile time.
var _ SampleStore = (*DB)(nil)
