package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"crank/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.InputDir = filepath.Join(base, "in")
	cfgVal.Paths.OutputDir = filepath.Join(base, "out")
	cfgVal.Paths.MoviesDir = filepath.Join(base, "movies")
	cfgVal.Paths.TVDir = filepath.Join(base, "tv")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}

	return builder.cfg
}

// WithDetection enables TMDB-backed classification with the given key.
func WithDetection(key string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.TMDB.Enabled = true
		b.cfg.TMDB.APIKey = key
	}
}

// WithCodec overrides the configured video codec.
func WithCodec(codec string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Transcode.Codec = codec
	}
}

// WithMaxJobs overrides the concurrency limit.
func WithMaxJobs(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Transcode.MaxConcurrentJobs = n
	}
}

// WithStubbedBinaries writes succeed-immediately stub executables for the
// provided names and prepends them to PATH. If names is empty, the default
// crank external binaries are stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg", "ffprobe", "crontab"}
		}
		for _, name := range names {
			writeStub(b, name, "#!/bin/sh\nexit 0\n")
		}
	}
}

// WithStubbedBinary installs a stub executable with a caller-provided shell
// body so tests can script the external tool's behaviour.
func WithStubbedBinary(name, script string) ConfigOption {
	return func(b *configBuilder) {
		writeStub(b, name, script)
	}
}

func writeStub(b *configBuilder, name, script string) {
	binDir := filepath.Join(b.baseDir, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		b.t.Fatalf("mkdir bin dir: %v", err)
	}
	target := filepath.Join(binDir, name)
	if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
		b.t.Fatalf("write stub %s: %v", name, err)
	}

	oldPath := os.Getenv("PATH")
	newPath := binDir + string(os.PathListSeparator) + oldPath
	if newPath != oldPath {
		if err := os.Setenv("PATH", newPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.InputDir)
}
