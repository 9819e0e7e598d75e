package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/soundforge/beatscan/internal/report"
	"github.com/soundforge/beatscan/internal/scanner"
	"github.com/soundforge/beatscan/internal/store"
)

// ScanParams holds one CLI scan invocation.
type ScanParams struct {
	Directory   string
	UserID      int64
	ProjectID   int64
	ReportPath  string // "" = no report file
	Spectrogram bool
	Theme       string
	Persist     bool
}

// RunScan executes one batch scan from the command line: discover,
// analyze, register, print, and optionally write the report file.
//
// Only a discovery-level failure (bad root, unreachable store) returns
// an error; per-file failures are logged inside the pipeline and leave
// the exit status untouched.
func RunScan(ctx context.Context, cfg *Config, p ScanParams) error {
	logger := NewLogger(cfg.App.LogLevel)

	var st store.SampleStore
	if p.Persist {
		db, err := store.Open(cfg.SQLite.Path)
		if err != nil {
			return fmt.Errorf("connect store: %w", err)
		}
		defer db.Close()
		st = db
	}

	svc := BuildService(cfg, st, logger)

	rep, err := svc.Scan(ctx, scanner.Request{
		Directory:         p.Directory,
		UserID:            p.UserID,
		ProjectID:         p.ProjectID,
		RenderSpectrogram: p.Spectrogram,
		Theme:             p.Theme,
	})
	if err != nil {
		return err
	}

	report.Fprint(os.Stdout, rep)

	if p.ReportPath != "" {
		if err := report.WriteFile(rep, p.ReportPath); err != nil {
			return err
		}
		logger.Info("report written", slog.String("path", p.ReportPath))
	}
	return nil
}
