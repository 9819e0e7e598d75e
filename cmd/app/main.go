package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/soundforge/beatscan/internal"
	"github.com/soundforge/beatscan/internal/mcpserver"
	"github.com/soundforge/beatscan/internal/report"
	"github.com/soundforge/beatscan/internal/store"
	pkgconfig "github.com/soundforge/beatscan/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	configPath := cmd.String("config")
	// The scan command works without a config file; serve and mcp use
	// the defaults too when none exists.
	if err := pkgconfig.LoadIfPresent(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func runScan(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	directory := cmd.Args().First()
	if directory == "" {
		return fmt.Errorf("directory argument is required")
	}

	theme := cmd.String("theme")
	if !internal.ValidTheme(theme) {
		return fmt.Errorf("invalid theme %q: must be dark or light", theme)
	}

	persist := !cmd.Bool("no-persist")
	userID := int64(cmd.Int("user-id"))
	projectID := int64(cmd.Int("project-id"))
	if persist && (userID <= 0 || projectID <= 0) {
		return fmt.Errorf("--user-id and --project-id are required unless --no-persist is set")
	}

	reportPath := ""
	if cmd.Bool("report") {
		reportPath = cmd.String("report-path")
	}

	return internal.RunScan(ctx, cfg, internal.ScanParams{
		Directory:   directory,
		UserID:      userID,
		ProjectID:   projectID,
		ReportPath:  reportPath,
		Spectrogram: cmd.Bool("spectrogram"),
		Theme:       theme,
		Persist:     persist,
	})
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := internal.NewLogger(cfg.App.LogLevel)

	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer db.Close()

	svc := internal.BuildService(cfg, db, logger)
	return mcpserver.New(svc, db).ServeStdio()
}

func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:  "beatscan",
		Usage: "Scan sample libraries for audio metadata, tempo, and key, with usage tracking for DAW projects",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("BEATSCAN_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "scan",
				Usage:     "Scan a directory of audio samples and print the batch report",
				ArgsUsage: "<directory>",
				Action:    runScan,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "user-id",
						Aliases: []string{"user_id"},
						Usage:   "User identity recorded with each usage event",
					},
					&cli.IntFlag{
						Name:    "project-id",
						Aliases: []string{"project_id"},
						Usage:   "Project identity recorded with each usage event",
					},
					&cli.BoolFlag{
						Name:  "report",
						Usage: "Write a JSON report file",
					},
					&cli.StringFlag{
						Name:  "report-path",
						Usage: "Report file path",
						Value: report.DefaultFilename,
					},
					&cli.BoolFlag{
						Name:  "spectrogram",
						Usage: "Render a spectrogram image per sample",
					},
					&cli.StringFlag{
						Name:  "theme",
						Usage: "Spectrogram theme: dark or light",
						Value: "light",
					},
					&cli.BoolFlag{
						Name:  "no-persist",
						Usage: "Skip sample registration and usage tracking",
					},
				},
			},
			{
				Name:   "serve",
				Usage:  "Run the HTTP API (and library watcher when configured)",
				Action: runServe,
			},
			{
				Name:   "mcp",
				Usage:  "Run the MCP tool server on stdio",
				Action: runMCP,
			},
		},
	}
}

func main() {
	if err := newRootCommand().Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
