package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/neurite-tools/neurite/pkg/errors"
	"github.com/neurite-tools/neurite/pkg/resample"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Pipeline.Delta != 1.0 {
		t.Errorf("default delta = %g, want 1.0", cfg.Pipeline.Delta)
	}
	if cfg.Pipeline.Levels != 1 {
		t.Errorf("default levels = %d, want 1", cfg.Pipeline.Levels)
	}
	if cfg.Pipeline.Method != resample.MethodLinear {
		t.Errorf("default method = %q, want %q", cfg.Pipeline.Method, resample.MethodLinear)
	}
	if cfg.Cache.TTL.Value() != 24*time.Hour {
		t.Errorf("default ttl = %v, want 24h", cfg.Cache.TTL.Value())
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("default addr = %q, want :8080", cfg.Server.Addr)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[pipeline]
delta = 0.5
levels = 3
method = "cubic"

[cache]
dir = "/var/cache/neurite"
ttl = "48h"

[server]
addr = ":9090"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Pipeline.Delta != 0.5 || cfg.Pipeline.Levels != 3 || cfg.Pipeline.Method != "cubic" {
		t.Errorf("pipeline = %+v, want delta=0.5 levels=3 cubic", cfg.Pipeline)
	}
	if cfg.Pipeline.Segments != Default().Pipeline.Segments {
		t.Errorf("segments = %d, want default %d", cfg.Pipeline.Segments, Default().Pipeline.Segments)
	}
	if cfg.Cache.Dir != "/var/cache/neurite" || cfg.Cache.TTL.Value() != 48*time.Hour {
		t.Errorf("cache = %+v, want dir and 48h ttl", cfg.Cache)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("addr = %q, want :9090", cfg.Server.Addr)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	path := writeConfig(t, "not [valid toml")
	_, err := Load(path)
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Load() error = %v, want code %s", err, errors.ErrCodeInvalidFormat)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"negative delta", "[pipeline]\ndelta = -1.0"},
		{"zero levels", "[pipeline]\nlevels = 0"},
		{"too few segments", "[pipeline]\nsegments = 2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.content))
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Load() error = %v, want code %s", err, errors.ErrCodeInvalidInput)
			}
		})
	}
}

func TestLoad_UnknownMethod(t *testing.T) {
	path := writeConfig(t, "[pipeline]\nmethod = \"nearest\"")
	_, err := Load(path)
	if !errors.Is(err, errors.ErrCodeInvalidMethod) {
		t.Errorf("Load() error = %v, want code %s", err, errors.ErrCodeInvalidMethod)
	}
}
