package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// applyEnvOverrides gives environment variables the highest precedence over
// defaults and file values.
func (c *Config) applyEnvOverrides() error {
	if value, ok := os.LookupEnv("CRANK_INPUT_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.InputDir = strings.TrimSpace(value)
	}
	if value, ok := os.LookupEnv("CRANK_OUTPUT_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.OutputDir = strings.TrimSpace(value)
	}
	if value, ok := os.LookupEnv("CRANK_CODEC"); ok && strings.TrimSpace(value) != "" {
		c.Transcode.Codec = strings.TrimSpace(value)
	}
	if value, ok := os.LookupEnv("CRANK_QUALITY"); ok && strings.TrimSpace(value) != "" {
		quality, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("CRANK_QUALITY: %w", err)
		}
		c.Transcode.Quality = quality
	}
	if value, ok := os.LookupEnv("CRANK_MAX_JOBS"); ok && strings.TrimSpace(value) != "" {
		jobs, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("CRANK_MAX_JOBS: %w", err)
		}
		c.Transcode.MaxConcurrentJobs = jobs
	}
	if value, ok := os.LookupEnv("TMDB_API_KEY"); ok && strings.TrimSpace(value) != "" {
		c.TMDB.APIKey = strings.TrimSpace(value)
	}
	return nil
}

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTranscode()
	c.normalizeTMDB()
	c.normalizeSchedule()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.InputDir, err = expandPath(c.Paths.InputDir); err != nil {
		return fmt.Errorf("paths.input_dir: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.MoviesDir, err = expandPath(c.Paths.MoviesDir); err != nil {
		return fmt.Errorf("paths.movies_dir: %w", err)
	}
	if c.Paths.TVDir, err = expandPath(c.Paths.TVDir); err != nil {
		return fmt.Errorf("paths.tv_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTranscode() {
	c.Transcode.EngineBinary = strings.TrimSpace(c.Transcode.EngineBinary)
	c.Transcode.Codec = strings.ToLower(strings.TrimSpace(c.Transcode.Codec))
	if c.Transcode.Codec == "" {
		c.Transcode.Codec = defaultCodec
	}
	if canonical, ok := codecAliases[c.Transcode.Codec]; ok {
		c.Transcode.Codec = canonical
	}
	if c.Transcode.BatchTimeoutMinutes < 0 {
		c.Transcode.BatchTimeoutMinutes = 0
	}
	if len(c.Transcode.Extensions) == 0 {
		c.Transcode.Extensions = defaultExtensions()
		return
	}
	exts := make([]string, 0, len(c.Transcode.Extensions))
	seen := make(map[string]struct{}, len(c.Transcode.Extensions))
	for _, ext := range c.Transcode.Extensions {
		normalized := strings.ToLower(strings.TrimSpace(ext))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		exts = append(exts, normalized)
	}
	if len(exts) == 0 {
		exts = defaultExtensions()
	}
	c.Transcode.Extensions = exts
}

func (c *Config) normalizeTMDB() {
	c.TMDB.APIKey = strings.TrimSpace(c.TMDB.APIKey)
	c.TMDB.BaseURL = strings.TrimSpace(c.TMDB.BaseURL)
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = defaultTMDBBaseURL
	}
	c.TMDB.Language = strings.TrimSpace(c.TMDB.Language)
	if c.TMDB.Language == "" {
		c.TMDB.Language = defaultTMDBLanguage
	}
	if c.TMDB.RequestTimeout <= 0 {
		c.TMDB.RequestTimeout = defaultTMDBTimeout
	}
}

func (c *Config) normalizeSchedule() {
	c.Schedule.TimeOfDay = strings.TrimSpace(c.Schedule.TimeOfDay)
	if c.Schedule.TimeOfDay == "" {
		c.Schedule.TimeOfDay = defaultScheduleTime
	}
	if c.Schedule.IntervalHours == 0 {
		c.Schedule.IntervalHours = defaultScheduleHours
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNtfyTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
