// Package models defines the domain types for beatscan.
package models

import "time"

// SampleRecord is the canonical analysis result for one audio file.
//
// A record exists only when the container metadata could be read;
// tempo, key, spectrogram and tag fields are nil when the corresponding
// analysis stage failed or was not requested.
type SampleRecord struct {
	Filename        string  `json:"filename"`
	Path            string  `json:"path"`
	Checksum        string  `json:"checksum,omitempty"`
	Title           string  `json:"title,omitempty"`
	Artist          string  `json:"artist,omitempty"`
	DurationSeconds float64 `json:"duration_seconds"`
	SampleRate      *int    `json:"sample_rate,omitempty"`
	TempoBPM        *int    `json:"tempo_bpm,omitempty"`
	Key             *string `json:"key,omitempty"`
	SpectrogramPath *string `json:"spectrogram_path,omitempty"`
}

// ProjectFileReference points at a detected DAW project file.
// Project files are collected but never parsed.
type ProjectFileReference struct {
	Editor string `json:"editor"`
	Path   string `json:"path"`
}

// UsageEvent records that a user associated a sample with a project.
// Rows are append-only; the pipeline never updates or deletes them.
type UsageEvent struct {
	SampleID  int64     `json:"sample_id"`
	UserID    int64     `json:"user_id"`
	ProjectID int64     `json:"project_id"`
	UsedAt    time.Time `json:"used_at"`
}

// BatchReport is the externally visible result of one scan invocation.
// Sample order equals discovery order regardless of worker completion
// order; the console, file, and API surfaces all render this struct.
type BatchReport struct {
	Directory    string                 `json:"directory"`
	Samples      []SampleRecord         `json:"samples"`
	ProjectFiles []ProjectFileReference `json:"project_files,omitempty"`
	Count        int                    `json:"count"`
	Message      string                 `json:"message"`
}
