package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"crank/internal/config"
)

func TestLoadDefaultsWithEnvTMDBKeyAndExpandedPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("TMDB_API_KEY", "test-key")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if cfg.Paths.InputDir != filepath.Join(tempHome, "media", "trans_in") {
		t.Fatalf("unexpected input dir: %q", cfg.Paths.InputDir)
	}
	if cfg.Paths.LogDir != filepath.Join(tempHome, ".local", "share", "crank", "logs") {
		t.Fatalf("unexpected log dir: %q", cfg.Paths.LogDir)
	}
	if cfg.TMDB.APIKey != "test-key" {
		t.Fatalf("expected TMDB key from env, got %q", cfg.TMDB.APIKey)
	}
	if cfg.TMDB.Enabled {
		t.Fatal("expected media detection disabled by default")
	}
	if cfg.Transcode.Codec != "x264" {
		t.Fatalf("unexpected default codec: %q", cfg.Transcode.Codec)
	}
	if cfg.Transcode.Quality != 18 {
		t.Fatalf("unexpected default quality: %d", cfg.Transcode.Quality)
	}
	if cfg.Transcode.MaxConcurrentJobs != 3 {
		t.Fatalf("unexpected default max jobs: %d", cfg.Transcode.MaxConcurrentJobs)
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("unexpected log format: %q", cfg.Logging.Format)
	}
}

func TestLoadAppliesFileValues(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	path := filepath.Join(tempHome, "crank.toml")
	content := `
[paths]
input_dir = "` + filepath.Join(tempHome, "in") + `"
output_dir = "` + filepath.Join(tempHome, "out") + `"

[transcode]
codec = "hevc"
quality = 22
max_concurrent_jobs = 5
extensions = ["MKV", ".mp4", "mp4"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be found")
	}
	if cfg.Transcode.Codec != "x265" {
		t.Fatalf("expected hevc alias to canonicalize to x265, got %q", cfg.Transcode.Codec)
	}
	if cfg.Transcode.Quality != 22 {
		t.Fatalf("unexpected quality: %d", cfg.Transcode.Quality)
	}
	if cfg.Transcode.MaxConcurrentJobs != 5 {
		t.Fatalf("unexpected max jobs: %d", cfg.Transcode.MaxConcurrentJobs)
	}
	want := []string{".mkv", ".mp4"}
	if len(cfg.Transcode.Extensions) != len(want) {
		t.Fatalf("expected deduplicated extensions %v, got %v", want, cfg.Transcode.Extensions)
	}
	for i, ext := range want {
		if cfg.Transcode.Extensions[i] != ext {
			t.Fatalf("extension %d: got %q want %q", i, cfg.Transcode.Extensions[i], ext)
		}
	}
}

func TestLoadEnvOverridesBeatFileValues(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("CRANK_QUALITY", "30")
	t.Setenv("CRANK_MAX_JOBS", "2")

	path := filepath.Join(tempHome, "crank.toml")
	content := `
[transcode]
quality = 10
max_concurrent_jobs = 8
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Transcode.Quality != 30 {
		t.Fatalf("expected env quality 30, got %d", cfg.Transcode.Quality)
	}
	if cfg.Transcode.MaxConcurrentJobs != 2 {
		t.Fatalf("expected env max jobs 2, got %d", cfg.Transcode.MaxConcurrentJobs)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, _, exists, err := config.Load(filepath.Join(tempHome, "nope.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected missing config file")
	}
	if cfg.Transcode.Codec != "x264" {
		t.Fatalf("unexpected codec: %q", cfg.Transcode.Codec)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	path := filepath.Join(tempHome, "cfg", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config failed to load: %v", err)
	}
}
