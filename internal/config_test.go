package internal

import (
	"strings"
	"testing"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDefaultConfigValidates(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestHTTPConfig_PortBounds(t *testing.T) {
	cfg := HTTPConfig{Port: 70000}
	if err := cfg.Validate(); err == nil {
		t.Fatal("out-of-range port should fail validation")
	}
	cfg.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("zero port should fail validation")
	}
}

func TestAnalyzerConfig_RequiresBinaries(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Analyzer.FFprobeBin = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("missing ffprobe binary should fail validation")
	}
}

func TestScannerConfig_NegativeWorkers(t *testing.T) {
	cfg := ScannerConfig{Workers: -1}
	if err := cfg.Validate(); err == nil {
		t.Fatal("negative workers should fail validation")
	}
}

func TestValidTheme(t *testing.T) {
	for theme, want := range map[string]bool{
		"light": true,
		"dark":  true,
		"neon":  false,
		"":      false,
	} {
		if got := ValidTheme(theme); got != want {
			t.Errorf("ValidTheme(%q) = %v, want %v", theme, got, want)
		}
	}
}
