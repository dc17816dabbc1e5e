package classify_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"crank/internal/classify"
	"crank/internal/classify/tmdb"
	"crank/internal/logging"
)

type stubSearcher struct {
	resp *tmdb.Response
	err  error
}

func (s stubSearcher) SearchMulti(context.Context, string) (*tmdb.Response, error) {
	return s.resp, s.err
}

func TestClassifyMapsMediaTypes(t *testing.T) {
	cases := []struct {
		name      string
		mediaType string
		want      classify.Kind
	}{
		{"movie match", "movie", classify.KindMovie},
		{"tv match", "tv", classify.KindSeries},
		{"person match ignored", "person", classify.KindUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			searcher := stubSearcher{resp: &tmdb.Response{Results: []tmdb.Result{{
				Title:     "Heat",
				Name:      "Heat",
				MediaType: tc.mediaType,
			}}}}
			c := classify.New(searcher, time.Second, logging.NewNop())
			result := c.Classify(context.Background(), "Heat.mkv")
			if result.Kind != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, result.Kind)
			}
		})
	}
}

func TestClassifyPrefersFirstRecognizedResult(t *testing.T) {
	searcher := stubSearcher{resp: &tmdb.Response{Results: []tmdb.Result{
		{MediaType: "person", Name: "Michael Mann"},
		{MediaType: "tv", Name: "the wire", Popularity: 88.1},
		{MediaType: "movie", Title: "The Wire Movie"},
	}}}
	c := classify.New(searcher, time.Second, logging.NewNop())
	result := c.Classify(context.Background(), "the_wire.mkv")
	if result.Kind != classify.KindSeries {
		t.Fatalf("expected series, got %s", result.Kind)
	}
	if result.NormalizedTitle != "The Wire" {
		t.Fatalf("expected normalized title from match, got %q", result.NormalizedTitle)
	}
	if result.Confidence != 88.1 {
		t.Fatalf("expected confidence from match, got %f", result.Confidence)
	}
}

func TestClassifyDegradesToUnknownOnLookupError(t *testing.T) {
	searcher := stubSearcher{err: errors.New("rate limited")}
	c := classify.New(searcher, time.Second, logging.NewNop())
	result := c.Classify(context.Background(), "Alien.1080p.mkv")
	if result.Kind != classify.KindUnknown {
		t.Fatalf("expected unknown on error, got %s", result.Kind)
	}
	if result.NormalizedTitle != "Alien" {
		t.Fatalf("expected cleaned title even without a match, got %q", result.NormalizedTitle)
	}
}

func TestClassifyWithoutSearcherIsUnknown(t *testing.T) {
	c := classify.New(nil, time.Second, logging.NewNop())
	result := c.Classify(context.Background(), "Heat.mkv")
	if result.Kind != classify.KindUnknown {
		t.Fatalf("expected unknown, got %s", result.Kind)
	}
}

func TestClassifyNoiseOnlyNameSkipsLookup(t *testing.T) {
	searcher := stubSearcher{err: errors.New("should not be called")}
	c := classify.New(searcher, time.Second, logging.NewNop())
	result := c.Classify(context.Background(), "1080p.mkv")
	if result.Kind != classify.KindUnknown {
		t.Fatalf("expected unknown, got %s", result.Kind)
	}
}

func TestClassifyHonorsLookupTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(server.Close)

	client, err := tmdb.New("key", server.URL, "")
	if err != nil {
		t.Fatalf("tmdb.New: %v", err)
	}
	c := classify.New(client, 50*time.Millisecond, logging.NewNop())

	start := time.Now()
	result := c.Classify(context.Background(), "Heat.mkv")
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("lookup should have timed out quickly, took %v", elapsed)
	}
	if result.Kind != classify.KindUnknown {
		t.Fatalf("expected unknown after timeout, got %s", result.Kind)
	}
}
