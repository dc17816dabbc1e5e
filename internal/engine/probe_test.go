package engine_test

import (
	"strings"
	"testing"
	"time"

	"crank/internal/engine"
	"crank/internal/testsupport"
)

func TestProbeDurationParsesFfprobeOutput(t *testing.T) {
	testsupport.NewConfig(t, testsupport.WithStubbedBinary("ffprobe",
		"#!/bin/sh\necho '{\"format\":{\"duration\":\"123.500000\"}}'\nexit 0\n"))

	duration, err := engine.ProbeDuration("/in/movie.mkv")
	if err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	if duration != 123500*time.Millisecond {
		t.Fatalf("expected 123.5s, got %s", duration)
	}
	if !engine.ProbeAvailable() {
		t.Fatal("stubbed ffprobe should be reported available")
	}
}

func TestProbeDurationFailsOnProbeError(t *testing.T) {
	testsupport.NewConfig(t, testsupport.WithStubbedBinary("ffprobe",
		"#!/bin/sh\nexit 1\n"))

	if _, err := engine.ProbeDuration("/in/movie.mkv"); err == nil {
		t.Fatal("expected error for non-zero ffprobe exit")
	}
}

func TestProbeDurationFailsOnMissingDuration(t *testing.T) {
	testsupport.NewConfig(t, testsupport.WithStubbedBinary("ffprobe",
		"#!/bin/sh\necho '{\"format\":{}}'\nexit 0\n"))

	_, err := engine.ProbeDuration("/in/movie.mkv")
	if err == nil || !strings.Contains(err.Error(), "parse probe duration") {
		t.Fatalf("expected parse error, got %v", err)
	}
}
