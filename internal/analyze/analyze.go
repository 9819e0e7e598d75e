// Package analyze turns one audio file into a SampleRecord by driving
// external analysis collaborators: a container prober, a tag reader,
// tempo and key estimators, and a spectrogram renderer.
//
// Failure policy: only a probe failure voids the record. Every other
// stage is optional — on failure its field stays absent, a diagnostic
// is logged, and the record is still emitted.
package analyze

import (
	"context"
	"log/slog"
	"math"
	"path/filepath"
	"strings"

	"github.com/soundforge/beatscan/internal/apperr"
	"github.com/soundforge/beatscan/internal/checksum"
	"github.com/soundforge/beatscan/internal/models"
)

// ProbeInfo is the container metadata returned by a Prober.
type ProbeInfo struct {
	DurationSeconds float64
	SampleRate      int // 0 when the container omits it
}

// Tags is the optional embedded metadata returned by a TagReader.
type Tags struct {
	Title  string
	Artist string
}

// Prober reads container metadata. A probe failure voids the record.
type Prober interface {
	Probe(ctx context.Context, path string) (ProbeInfo, error)
}

// TagReader extracts embedded tags from an audio container.
type TagReader interface {
	ReadTags(path string) (Tags, error)
}

// TempoEstimator estimates beats per minute.
type TempoEstimator interface {
	Tempo(ctx context.Context, path string) (int, error)
}

// KeyEstimator estimates the musical pitch-class center, one of the 12
// labels C, C#, D, D#, E, F, F#, G, G#, A, A#, B.
type KeyEstimator interface {
	Key(ctx context.Context, path string) (string, error)
}

// SpectrogramRenderer writes a spectrogram image for the given audio
// file, overwriting any existing file at outPath.
type SpectrogramRenderer interface {
	Render(ctx context.Context, path, outPath, theme string) error
}

// Options control one Analyze invocation.
type Options struct {
	RenderSpectrogram bool
	Theme             string // "dark" or "light"
}

// Analyzer normalizes collaborator outputs into SampleRecords.
type Analyzer struct {
	probe   Prober
	tags    TagReader
	tempo   TempoEstimator
	key     KeyEstimator
	spectro SpectrogramRenderer
	logger  *slog.Logger
}

// Option configures an Analyzer capability.
type Option func(*Analyzer)

// WithTagReader enables embedded tag extraction.
func WithTagReader(r TagReader) Option {
	return func(a *Analyzer) { a.tags = r }
}

// WithTempoEstimator enables tempo estimation.
func WithTempoEstimator(e TempoEstimator) Option {
	return func(a *Analyzer) { a.tempo = e }
}

// WithKeyEstimator enables key detection.
func WithKeyEstimator(e KeyEstimator) Option {
	return func(a *Analyzer) { a.key = e }
}

// WithSpectrogramRenderer enables spectrogram rendering.
func WithSpectrogramRenderer(r SpectrogramRenderer) Option {
	return func(a *Analyzer) { a.spectro = r }
}

// New creates an Analyzer. The prober is mandatory; all other
// collaborators are enabled through options.
func New(probe Prober, logger *slog.Logger, opts ...Option) *Analyzer {
	a := &Analyzer{probe: probe, logger: logger}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SpectrogramPath derives the image output path for an audio file by
// replacing its extension with the fixed _spectrogram.png suffix.
func SpectrogramPath(audioPath string) string {
	return strings.TrimSuffix(audioPath, filepath.Ext(audioPath)) + "_spectrogram.png"
}

// Analyze produces the SampleRecord for one audio file, or an
// *apperr.AnalysisError when the container cannot be read at all.
func (a *Analyzer) Analyze(ctx context.Context, path string, opts Options) (*models.SampleRecord, error) {
	info, err := a.probe.Probe(ctx, path)
	if err != nil {
		return nil, &apperr.AnalysisError{Path: path, Stage: apperr.StageProbe, Err: err}
	}

	rec := &models.SampleRecord{
		Filename:        filepath.Base(path),
		Path:            path,
		DurationSeconds: math.Round(info.DurationSeconds*100) / 100,
	}
	if info.SampleRate > 0 {
		sr := info.SampleRate
		rec.SampleRate = &sr
	}

	if sum, err := checksum.SumFile(path); err != nil {
		a.logger.Warn("analyze: checksum failed",
			slog.String("path", path), slog.String("error", err.Error()))
	} else {
		rec.Checksum = sum
	}

	if a.tags != nil {
		if t, err := a.tags.ReadTags(path); err != nil {
			a.stageFailed(path, apperr.StageTags, err)
		} else {
			rec.Title = t.Title
			rec.Artist = t.Artist
		}
	}

	if a.tempo != nil {
		if bpm, err := a.tempo.Tempo(ctx, path); err != nil {
			a.stageFailed(path, apperr.StageTempo, err)
		} else if bpm > 0 {
			rec.TempoBPM = &bpm
		}
	}

	if a.key != nil {
		if k, err := a.key.Key(ctx, path); err != nil {
			a.stageFailed(path, apperr.StageKey, err)
		} else {
			rec.Key = &k
		}
	}

	if opts.RenderSpectrogram && a.spectro != nil {
		out := SpectrogramPath(path)
		if err := a.spectro.Render(ctx, path, out, opts.Theme); err != nil {
			a.stageFailed(path, apperr.StageSpectrogram, err)
		} else {
			rec.SpectrogramPath = &out
		}
	}

	return rec, nil
}

func (a *Analyzer) stageFailed(path, stage string, err error) {
	a.logger.Warn("analyze: optional stage failed",
		slog.String("path", path),
		slog.String("stage", stage),
		slog.String("error", err.Error()))
}
