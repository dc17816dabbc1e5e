package config

import (
	"fmt"
	"strings"
)

// Codec identifiers accepted by the engine command builder, keyed by the
// aliases users commonly write in config files.
var codecAliases = map[string]string{
	"x264": "x264", "h264": "x264", "h.264": "x264", "avc": "x264",
	"x265": "x265", "h265": "x265", "h.265": "x265", "hevc": "x265",
	"av1": "av1",
}

// ValidationError describes a rejected configuration value.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Field, e.Reason)
}

// Validate checks the invariants a batch run relies on. It assumes the
// config has already been normalized.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Paths.InputDir) == "" {
		return &ValidationError{Field: "paths.input_dir", Reason: "must not be empty"}
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return &ValidationError{Field: "paths.output_dir", Reason: "must not be empty"}
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return &ValidationError{Field: "paths.log_dir", Reason: "must not be empty"}
	}

	if _, ok := codecAliases[c.Transcode.Codec]; !ok {
		return &ValidationError{
			Field:  "transcode.codec",
			Reason: fmt.Sprintf("unsupported codec %q (supported: x264, x265, av1)", c.Transcode.Codec),
		}
	}

	if c.Transcode.Quality < minQuality || c.Transcode.Quality > maxQuality {
		return &ValidationError{
			Field:  "transcode.quality",
			Reason: fmt.Sprintf("must be between %d and %d, got %d", minQuality, maxQuality, c.Transcode.Quality),
		}
	}
	if c.Transcode.MaxConcurrentJobs < 1 {
		return &ValidationError{
			Field:  "transcode.max_concurrent_jobs",
			Reason: fmt.Sprintf("must be at least 1, got %d", c.Transcode.MaxConcurrentJobs),
		}
	}

	if c.Schedule.IntervalHours < 0 {
		return &ValidationError{
			Field:  "schedule.interval_hours",
			Reason: fmt.Sprintf("must not be negative, got %d", c.Schedule.IntervalHours),
		}
	}

	if c.TMDB.Enabled {
		if c.TMDB.APIKey == "" {
			return &ValidationError{
				Field:  "tmdb.api_key",
				Reason: "required when media detection is enabled (or set TMDB_API_KEY)",
			}
		}
		if strings.TrimSpace(c.Paths.MoviesDir) == "" {
			return &ValidationError{Field: "paths.movies_dir", Reason: "required when media detection is enabled"}
		}
		if strings.TrimSpace(c.Paths.TVDir) == "" {
			return &ValidationError{Field: "paths.tv_dir", Reason: "required when media detection is enabled"}
		}
	}

	return nil
}
