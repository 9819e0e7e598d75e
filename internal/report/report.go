// Package report serializes a BatchReport to its interchangeable
// presentation surfaces: an indented JSON file and a human-readable
// console listing. Field names and value types are identical across
// surfaces and the API response body.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/soundforge/beatscan/internal/models"
)

// DefaultFilename is the report path used when the caller gives none.
const DefaultFilename = "samples_report.json"

// WriteFile writes rep as indented JSON, atomically replacing any prior
// file at path: tmp file → fsync → rename.
func WriteFile(rep *models.BatchReport, path string) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("report: marshal: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".beatscan-report-*")
	if err != nil {
		return fmt.Errorf("report: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("report: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("report: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("report: close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("report: rename: %w", err)
	}
	success = true
	return nil
}

// ReadFile parses a report previously written by WriteFile.
func ReadFile(path string) (*models.BatchReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("report: read %s: %w", path, err)
	}
	var rep models.BatchReport
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("report: parse %s: %w", path, err)
	}
	return &rep, nil
}

// Fprint writes the human-readable enumeration of rep to w.
func Fprint(w io.Writer, rep *models.BatchReport) {
	fmt.Fprintf(w, "Scanned %s\n", rep.Directory)
	for _, s := range rep.Samples {
		fmt.Fprintf(w, "  %s  %.2fs", s.Filename, s.DurationSeconds)
		if s.SampleRate != nil {
			fmt.Fprintf(w, "  %d Hz", *s.SampleRate)
		}
		if s.TempoBPM != nil {
			fmt.Fprintf(w, "  %d bpm", *s.TempoBPM)
		}
		if s.Key != nil {
			fmt.Fprintf(w, "  key %s", *s.Key)
		}
		if s.SpectrogramPath != nil {
			fmt.Fprintf(w, "  spectrogram %s", *s.SpectrogramPath)
		}
		fmt.Fprintln(w)
	}
	if len(rep.ProjectFiles) > 0 {
		fmt.Fprintf(w, "Project files:\n")
		for _, p := range rep.ProjectFiles {
			fmt.Fprintf(w, "  %-10s %s\n", p.Editor, p.Path)
		}
	}
	fmt.Fprintln(w, rep.Message)
}
