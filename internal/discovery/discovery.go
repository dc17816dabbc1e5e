package discovery

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"crank/internal/config"
	"crank/internal/logging"
	"crank/internal/services"
)

// Item is a single candidate media file found in the input directory.
type Item struct {
	SourcePath   string
	DisplayName  string
	SizeBytes    int64
	DiscoveredAt time.Time
}

// Scanner finds work in the configured input directory.
type Scanner struct {
	cfg    *config.Config
	logger *slog.Logger
}

func NewScanner(cfg *config.Config, logger *slog.Logger) *Scanner {
	return &Scanner{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "discovery"),
	}
}

// Discover lists the input directory once, non-recursively, and returns the
// matching media files sorted lexicographically by name for deterministic
// processing order. Subdirectories, hidden files, and macOS resource forks
// are skipped. An empty result is not an error.
func (s *Scanner) Discover() ([]Item, error) {
	entries, err := os.ReadDir(s.cfg.Paths.InputDir)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Warn("input directory does not exist", logging.String("dir", s.cfg.Paths.InputDir))
			return nil, nil
		}
		return nil, services.Wrap(services.ErrDiscovery, "discovery", "scan", "read input directory", err)
	}

	allowed := extensionSet(s.cfg.Transcode.Extensions)

	var items []Item
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		ext := strings.ToLower(filepath.Ext(name))
		if !allowed[ext] {
			s.logger.Debug("skipping unsupported file", logging.String("file", name))
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// File vanished between list and stat. Not fatal for the batch.
			s.logger.Warn("could not stat candidate", logging.String("file", name), logging.Error(err))
			continue
		}
		items = append(items, Item{
			SourcePath:   filepath.Join(s.cfg.Paths.InputDir, name),
			DisplayName:  name,
			SizeBytes:    info.Size(),
			DiscoveredAt: time.Now().UTC(),
		})
	}

	sort.Slice(items, func(i, j int) bool { return items[i].DisplayName < items[j].DisplayName })

	s.logger.Info("scan complete",
		logging.Int("candidates", len(items)),
		logging.String("dir", s.cfg.Paths.InputDir))
	return items, nil
}

func extensionSet(exts []string) map[string]bool {
	set := make(map[string]bool, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = true
	}
	return set
}
