package services_test

import (
	"context"
	"testing"

	"crank/internal/services"
)

func TestRunIDRoundTrip(t *testing.T) {
	ctx := context.Background()
	if _, ok := services.RunIDFromContext(ctx); ok {
		t.Fatal("expected no run ID on fresh context")
	}

	ctx = services.WithRunID(ctx, "run-42")
	id, ok := services.RunIDFromContext(ctx)
	if !ok || id != "run-42" {
		t.Fatalf("expected run-42, got %q (ok=%v)", id, ok)
	}

	if next := services.WithRunID(ctx, ""); next != ctx {
		t.Fatal("empty run ID should not replace context")
	}
}

func TestItemRoundTrip(t *testing.T) {
	ctx := services.WithItem(context.Background(), "movie.mkv")
	name, ok := services.ItemFromContext(ctx)
	if !ok || name != "movie.mkv" {
		t.Fatalf("expected movie.mkv, got %q (ok=%v)", name, ok)
	}
}
