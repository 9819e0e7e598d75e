// Package scanner coordinates batch analysis: it fans the per-file
// analyzer out over discovered audio files with a bounded worker pool,
// collects results in discovery order, and best-effort registers each
// sample in the backing store.
package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/soundforge/beatscan/internal/analyze"
	"github.com/soundforge/beatscan/internal/apperr"
	"github.com/soundforge/beatscan/internal/discover"
	"github.com/soundforge/beatscan/internal/models"
	"github.com/soundforge/beatscan/internal/store"
)

// FileAnalyzer is the per-file analysis contract the coordinator fans
// out. *analyze.Analyzer implements it; tests inject fakes.
type FileAnalyzer interface {
	Analyze(ctx context.Context, path string, opts analyze.Options) (*models.SampleRecord, error)
}

// Request describes one scan invocation.
type Request struct {
	Directory         string
	UserID            int64
	ProjectID         int64
	RenderSpectrogram bool
	Theme             string
}

// Service is the batch coordinator.
type Service struct {
	analyzer    FileAnalyzer
	store       store.SampleStore // nil disables registration
	logger      *slog.Logger
	workers     int
	taskTimeout time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithWorkers bounds the analysis pool; n <= 0 means one worker per CPU.
func WithWorkers(n int) Option {
	return func(s *Service) { s.workers = n }
}

// WithTaskTimeout bounds a single file's analysis; 0 disables the
// deadline. Without it one hung decode stalls the whole batch collect.
func WithTaskTimeout(d time.Duration) Option {
	return func(s *Service) { s.taskTimeout = d }
}

// NewService creates the coordinator. st may be nil for persistence-free
// scans.
func NewService(a FileAnalyzer, st store.SampleStore, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{analyzer: a, store: st, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan discovers, analyzes, registers, and reports.
//
// Output order equals discovery order regardless of worker completion
// order: every file owns a fixed slot in the results slice. Per-file
// failures are logged and collapse to absence; only discovery failure
// or caller cancellation aborts the run.
func (s *Service) Scan(ctx context.Context, req Request) (*models.BatchReport, error) {
	audio, projects, err := discover.Scan(req.Directory, s.logger)
	if err != nil {
		return nil, err
	}

	report := &models.BatchReport{
		Directory:    req.Directory,
		Samples:      []models.SampleRecord{},
		ProjectFiles: projects,
	}

	// Empty input short-circuits without spawning workers.
	if len(audio) > 0 {
		results := make([]*models.SampleRecord, len(audio))
		opts := analyze.Options{RenderSpectrogram: req.RenderSpectrogram, Theme: req.Theme}

		g, gCtx := errgroup.WithContext(ctx)
		g.SetLimit(s.poolSize())
		for i, path := range audio {
			g.Go(func() error {
				taskCtx := gCtx
				if s.taskTimeout > 0 {
					var cancel context.CancelFunc
					taskCtx, cancel = context.WithTimeout(gCtx, s.taskTimeout)
					defer cancel()
				}
				rec, err := s.analyzer.Analyze(taskCtx, path, opts)
				if err != nil {
					if ctx.Err() != nil {
						return ctx.Err()
					}
					s.logger.Warn("scan: file analysis failed",
						slog.String("path", path),
						slog.String("error", err.Error()))
					return nil
				}
				results[i] = rec
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		for _, rec := range results {
			if rec == nil {
				continue
			}
			report.Samples = append(report.Samples, *rec)
		}
	}

	// Registration is best-effort telemetry: failures are logged and
	// never remove a record from the report.
	if s.store != nil {
		for i := range report.Samples {
			if err := s.Register(&report.Samples[i], req.UserID, req.ProjectID); err != nil {
				s.logger.Warn("scan: registration failed",
					slog.String("path", report.Samples[i].Path),
					slog.String("error", err.Error()))
			}
		}
	}

	report.Count = len(report.Samples)
	report.Message = fmt.Sprintf("Processed %d samples", report.Count)
	return report, nil
}

// Register performs the get-or-create + append-usage sequence for one
// record: at most one sample row per distinct path, unbounded usage
// rows per sample.
func (s *Service) Register(rec *models.SampleRecord, userID, projectID int64) error {
	if s.store == nil {
		return nil
	}
	id, err := s.store.GetOrCreateSample(rec)
	if err != nil {
		return &apperr.RegistrationError{Path: rec.Path, Err: err}
	}
	if err := s.store.InsertUsage(id, userID, projectID, time.Now()); err != nil {
		return &apperr.RegistrationError{Path: rec.Path, Err: err}
	}
	return nil
}

func (s *Service) poolSize() int {
	if s.workers > 0 {
		return s.workers
	}
	return runtime.NumCPU()
}
