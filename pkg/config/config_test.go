package config

import (
	"os"
	"path/filepath"
	"testing"
)

type testConfig struct {
	Name string `yaml:"name"`
	Port int    `yaml:"port"`
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, "name: beatscan\nport: 9090\n")
	var cfg testConfig
	if err := Load(path, &cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "beatscan" || cfg.Port != 9090 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("BEATSCAN_TEST_NAME", "expanded")
	path := writeConfig(t, "name: ${BEATSCAN_TEST_NAME}\nport: 1\n")
	var cfg testConfig
	if err := Load(path, &cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "expanded" {
		t.Errorf("name = %q, want %q", cfg.Name, "expanded")
	}
}

func TestLoadMissingFile(t *testing.T) {
	var cfg testConfig
	if err := Load(filepath.Join(t.TempDir(), "nope.yaml"), &cfg); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadIfPresentMissingFileIsNoop(t *testing.T) {
	cfg := testConfig{Name: "default", Port: 8080}
	if err := LoadIfPresent(filepath.Join(t.TempDir(), "nope.yaml"), &cfg); err != nil {
		t.Fatalf("LoadIfPresent: %v", err)
	}
	if cfg.Name != "default" || cfg.Port != 8080 {
		t.Errorf("defaults were clobbered: %+v", cfg)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "name: [unclosed\n")
	var cfg testConfig
	if err := Load(path, &cfg); err == nil {
		t.Fatal("expected parse error")
	}
}
