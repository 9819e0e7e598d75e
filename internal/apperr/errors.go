// Package apperr defines the error taxonomy shared across beatscan:
// fatal discovery errors, per-file analysis errors, and best-effort
// registration errors.
package apperr

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by store lookups that match no row.
var ErrNotFound = errors.New("not found")

// Analysis stage names, used to identify where a per-file analysis failed.
const (
	StageProbe       = "probe"
	StageTags        = "tags"
	StageTempo       = "tempo"
	StageKey         = "key"
	StageSpectrogram = "spectrogram"
)

// DiscoveryError is fatal: the scan root or the backing store is
// unusable and the whole run must abort.
type DiscoveryError struct {
	Root string
	Err  error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("discovery failed for %s: %v", e.Root, e.Err)
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

// AnalysisError voids a single file's record. Stage names the analysis
// step that failed; only StageProbe surfaces as this error type, the
// optional stages degrade to absent fields instead.
type AnalysisError struct {
	Path  string
	Stage string
	Err   error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis stage %s failed for %s: %v", e.Stage, e.Path, e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// RegistrationError marks a failed store registration. It is logged and
// never removes the record from the batch report.
type RegistrationError struct {
	Path string
	Err  error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("registration failed for %s: %v", e.Path, e.Err)
}

func (e *RegistrationError) Unwrap() error { return e.Err }
