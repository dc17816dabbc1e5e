package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"crank/internal/config"
	"crank/internal/notifications"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyBatchStarted(context.Background(), 3); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

type captured struct {
	title    string
	message  string
	tags     string
	priority string
}

func newCaptureServer(t *testing.T, sink *captured) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		sink.title = r.Header.Get("Title")
		sink.message = string(body)
		sink.tags = r.Header.Get("Tags")
		sink.priority = r.Header.Get("Priority")
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)
	return server
}

func newNtfyService(t *testing.T, endpoint string) notifications.Service {
	t.Helper()
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = endpoint
	cfg.Notifications.RequestTimeout = 5
	return notifications.NewService(&cfg)
}

func TestNotifyBatchStartedFormatsMessage(t *testing.T) {
	var got captured
	server := newCaptureServer(t, &got)
	svc := newNtfyService(t, server.URL)

	if err := svc.NotifyBatchStarted(context.Background(), 7); err != nil {
		t.Fatalf("NotifyBatchStarted: %v", err)
	}
	if got.title != "Crank - Batch Started" {
		t.Fatalf("unexpected title %q", got.title)
	}
	if got.message != "Started transcoding batch with 7 items" {
		t.Fatalf("unexpected message %q", got.message)
	}
	if got.tags != "crank,batch,started" {
		t.Fatalf("unexpected tags %q", got.tags)
	}
}

func TestNotifyBatchCompletedDistinguishesCleanRuns(t *testing.T) {
	var got captured
	server := newCaptureServer(t, &got)
	svc := newNtfyService(t, server.URL)

	if err := svc.NotifyBatchCompleted(context.Background(), 4, 0, 0, 90*time.Second); err != nil {
		t.Fatalf("NotifyBatchCompleted: %v", err)
	}
	if got.title != "Crank - Batch Complete" {
		t.Fatalf("unexpected title %q", got.title)
	}
	if got.message != "Batch complete: 4 items transcoded in 1m30s" {
		t.Fatalf("unexpected message %q", got.message)
	}

	if err := svc.NotifyBatchCompleted(context.Background(), 2, 1, 1, time.Minute); err != nil {
		t.Fatalf("NotifyBatchCompleted: %v", err)
	}
	if got.title != "Crank - Batch Complete (with errors)" {
		t.Fatalf("unexpected title %q", got.title)
	}
	if got.message != "Batch complete: 2 succeeded, 1 failed, 1 skipped in 1m0s" {
		t.Fatalf("unexpected message %q", got.message)
	}
}

func TestNotifyErrorSetsHighPriority(t *testing.T) {
	var got captured
	server := newCaptureServer(t, &got)
	svc := newNtfyService(t, server.URL)

	if err := svc.NotifyError(context.Background(), errors.New("boom"), "discovery"); err != nil {
		t.Fatalf("NotifyError: %v", err)
	}
	if got.priority != "high" {
		t.Fatalf("expected high priority, got %q", got.priority)
	}
	if got.message != "Error with discovery: boom" {
		t.Fatalf("unexpected message %q", got.message)
	}
}

func TestSendSurfacesHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	t.Cleanup(server.Close)
	svc := newNtfyService(t, server.URL)

	if err := svc.TestNotification(context.Background()); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
