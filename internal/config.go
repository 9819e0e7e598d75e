package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Spectrogram themes.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Library  LibraryConfig     `yaml:"library"`
	SQLite   SQLiteConfig      `yaml:"sqlite"`
	Analyzer AnalyzerConfig    `yaml:"analyzer"`
	Scanner  ScannerConfig     `yaml:"scanner"`
	Auth     AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Analyzer.Validate(); err != nil {
		return err
	}
	if err := c.Scanner.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns the HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// LibraryConfig holds the sample library watched in serve mode.
// UserID and ProjectID are the identities used to register samples that
// the watcher picks up, since no interactive caller exists there.
type LibraryConfig struct {
	Path      string `yaml:"path"`
	Watch     bool   `yaml:"watch"`
	UserID    int64  `yaml:"user_id"`
	ProjectID int64  `yaml:"project_id"`
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AnalyzerConfig selects the external analysis tooling and the optional
// capabilities of the per-file analyzer.
type AnalyzerConfig struct {
	FFprobeBin  string `yaml:"ffprobe_bin"`
	FFmpegBin   string `yaml:"ffmpeg_bin"`
	AubioBin    string `yaml:"aubio_bin"`
	DetectTempo bool   `yaml:"detect_tempo"`
	DetectKey   bool   `yaml:"detect_key"`
	ReadTags    bool   `yaml:"read_tags"`
	// TimeoutSeconds bounds one file's analysis; 0 disables the deadline.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// Validate validates the analyzer configuration.
func (c *AnalyzerConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.FFprobeBin, validation.Required),
		validation.Field(&c.FFmpegBin, validation.Required),
		validation.Field(&c.TimeoutSeconds, validation.Min(0)),
	)
}

// ScannerConfig holds worker-pool sizing. Workers 0 means one worker
// per CPU.
type ScannerConfig struct {
	Workers int `yaml:"workers"`
}

// Validate validates the scanner configuration.
func (c *ScannerConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Workers, validation.Min(0)),
	)
}

// AuthConfig holds API authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// ValidTheme reports whether s names a supported spectrogram theme.
func ValidTheme(s string) bool {
	return s == ThemeLight || s == ThemeDark
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		SQLite: SQLiteConfig{
			Path: "./beatscan.db",
		},
		Analyzer: AnalyzerConfig{
			FFprobeBin:     "ffprobe",
			FFmpegBin:      "ffmpeg",
			AubioBin:       "aubio",
			DetectTempo:    true,
			DetectKey:      true,
			ReadTags:       true,
			TimeoutSeconds: 120,
		},
		Scanner: ScannerConfig{
			Workers: 0,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
