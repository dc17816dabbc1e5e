package classify

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"crank/internal/classify/tmdb"
	"crank/internal/config"
	"crank/internal/logging"
)

// Kind distinguishes the routing categories for finished transcodes.
type Kind string

const (
	KindMovie   Kind = "movie"
	KindSeries  Kind = "series"
	KindUnknown Kind = "unknown"
)

// Result is the outcome of classifying one media file name.
type Result struct {
	Kind            Kind
	NormalizedTitle string
	Confidence      float64
}

// Classifier decides whether a media file is a movie or a series episode.
type Classifier struct {
	searcher tmdb.Searcher
	timeout  time.Duration
	logger   *slog.Logger
}

// New builds a classifier backed by the given searcher. A nil searcher
// produces a classifier that always reports Unknown.
func New(searcher tmdb.Searcher, timeout time.Duration, logger *slog.Logger) *Classifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Classifier{
		searcher: searcher,
		timeout:  timeout,
		logger:   logging.NewComponentLogger(logger, "classify"),
	}
}

// NewFromConfig wires a classifier from configuration. When media detection
// is disabled the returned classifier degrades every lookup to Unknown.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) (*Classifier, error) {
	timeout := time.Duration(cfg.TMDB.RequestTimeout) * time.Second
	if !cfg.ClassificationEnabled() {
		return New(nil, timeout, logger), nil
	}
	client, err := tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language,
		tmdb.WithHTTPClient(&http.Client{Timeout: timeout}))
	if err != nil {
		return nil, err
	}
	return New(client, timeout, logger), nil
}

// Classify maps a file name to a movie or series via TMDB multi search.
// Lookup problems never fail the caller: network errors, timeouts, and
// empty result sets all degrade to Unknown so the transcode proceeds with
// default routing.
func (c *Classifier) Classify(ctx context.Context, displayName string) Result {
	title := QueryTitle(displayName)
	result := Result{Kind: KindUnknown, NormalizedTitle: DisplayTitle(title)}
	if c.searcher == nil || title == "" {
		return result
	}

	lookupCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.searcher.SearchMulti(lookupCtx, title)
	if err != nil {
		c.logger.Warn("lookup failed, routing to default output",
			logging.String("file", displayName),
			logging.String("query", title),
			logging.Error(err))
		return result
	}

	for _, match := range resp.Results {
		switch match.MediaType {
		case "movie":
			result.Kind = KindMovie
			result.Confidence = match.Popularity
			if match.Title != "" {
				result.NormalizedTitle = DisplayTitle(match.Title)
			}
		case "tv":
			result.Kind = KindSeries
			result.Confidence = match.Popularity
			if match.Name != "" {
				result.NormalizedTitle = DisplayTitle(match.Name)
			}
		default:
			continue
		}
		break
	}

	if result.Kind == KindUnknown {
		c.logger.Warn("no match found, routing to default output",
			logging.String("file", displayName),
			logging.String("query", title))
	} else {
		c.logger.Debug("classified",
			logging.String("file", displayName),
			logging.String("kind", string(result.Kind)),
			logging.String("title", result.NormalizedTitle))
	}
	return result
}
