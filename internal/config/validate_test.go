package config_test

import (
	"errors"
	"strings"
	"testing"

	"crank/internal/config"
)

func validConfig() config.Config {
	cfg := config.Default()
	cfg.Paths.InputDir = "/tmp/in"
	cfg.Paths.OutputDir = "/tmp/out"
	cfg.Paths.MoviesDir = "/tmp/movies"
	cfg.Paths.TVDir = "/tmp/tv"
	cfg.Paths.LogDir = "/tmp/logs"
	return cfg
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		field  string
	}{
		{
			name:   "empty input dir",
			mutate: func(c *config.Config) { c.Paths.InputDir = "" },
			field:  "paths.input_dir",
		},
		{
			name:   "empty output dir",
			mutate: func(c *config.Config) { c.Paths.OutputDir = "" },
			field:  "paths.output_dir",
		},
		{
			name:   "quality above range",
			mutate: func(c *config.Config) { c.Transcode.Quality = 52 },
			field:  "transcode.quality",
		},
		{
			name:   "quality below range",
			mutate: func(c *config.Config) { c.Transcode.Quality = -1 },
			field:  "transcode.quality",
		},
		{
			name:   "zero workers",
			mutate: func(c *config.Config) { c.Transcode.MaxConcurrentJobs = 0 },
			field:  "transcode.max_concurrent_jobs",
		},
		{
			name:   "unknown codec",
			mutate: func(c *config.Config) { c.Transcode.Codec = "mpeg9" },
			field:  "transcode.codec",
		},
		{
			name:   "negative schedule interval",
			mutate: func(c *config.Config) { c.Schedule.IntervalHours = -1 },
			field:  "schedule.interval_hours",
		},
		{
			name: "detection without api key",
			mutate: func(c *config.Config) {
				c.TMDB.Enabled = true
				c.TMDB.APIKey = ""
			},
			field: "tmdb.api_key",
		},
		{
			name: "detection without movies dir",
			mutate: func(c *config.Config) {
				c.TMDB.Enabled = true
				c.TMDB.APIKey = "key"
				c.Paths.MoviesDir = ""
			},
			field: "paths.movies_dir",
		},
		{
			name: "detection without tv dir",
			mutate: func(c *config.Config) {
				c.TMDB.Enabled = true
				c.TMDB.APIKey = "key"
				c.Paths.TVDir = ""
			},
			field: "paths.tv_dir",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			var verr *config.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T: %v", err, err)
			}
			if verr.Field != tc.field {
				t.Fatalf("expected field %q, got %q", tc.field, verr.Field)
			}
			if !strings.Contains(err.Error(), tc.field) {
				t.Fatalf("error message should mention field: %v", err)
			}
		})
	}
}

func TestValidateDoesNotRewriteCodecAliases(t *testing.T) {
	cfg := validConfig()
	cfg.Transcode.Codec = "hevc"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("alias should validate: %v", err)
	}
	if cfg.Transcode.Codec != "hevc" {
		t.Fatalf("Validate must not mutate the codec, got %q", cfg.Transcode.Codec)
	}
}

func TestValidateAcceptsDetectionWhenFullyConfigured(t *testing.T) {
	cfg := validConfig()
	cfg.TMDB.Enabled = true
	cfg.TMDB.APIKey = "key"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}
