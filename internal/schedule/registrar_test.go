package schedule_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"crank/internal/logging"
	"crank/internal/schedule"
	"crank/internal/services"
	"crank/internal/testsupport"
)

// fakeCrontab emulates crontab(1) with a state file: -l prints it, -
// replaces it from stdin.
func fakeCrontab(t *testing.T, stateFile string) {
	t.Helper()
	script := "#!/bin/sh\n" +
		"STATE=\"" + stateFile + "\"\n" +
		"case \"$1\" in\n" +
		"  -l)\n" +
		"    if [ -f \"$STATE\" ]; then cat \"$STATE\"; else echo 'no crontab for user' >&2; exit 1; fi;;\n" +
		"  -)\n" +
		"    cat > \"$STATE\";;\n" +
		"esac\n"
	testsupport.NewConfig(t, testsupport.WithStubbedBinary("crontab", script))
}

func readState(t *testing.T, stateFile string) []string {
	t.Helper()
	data, err := os.ReadFile(stateFile)
	if err != nil {
		t.Fatalf("read crontab state: %v", err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func TestRegisterInstallsEntry(t *testing.T) {
	stateFile := filepath.Join(t.TempDir(), "crontab")
	fakeCrontab(t, stateFile)

	registrar := schedule.NewRegistrar(logging.NewNop())
	rule := schedule.Rule{TimeOfDay: "02:00", IntervalHours: 24}
	if err := registrar.Register(context.Background(), rule, "/usr/local/bin/crank run"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	lines := readState(t, stateFile)
	if len(lines) != 1 || lines[0] != "0 2 * * * /usr/local/bin/crank run" {
		t.Fatalf("unexpected crontab: %q", lines)
	}
}

func TestRegisterReplacesExistingEntry(t *testing.T) {
	stateFile := filepath.Join(t.TempDir(), "crontab")
	fakeCrontab(t, stateFile)
	if err := os.WriteFile(stateFile, []byte(
		"0 2 * * * /usr/local/bin/crank run\n"+
			"15 4 * * * /usr/bin/backup\n"), 0o644); err != nil {
		t.Fatalf("seed crontab: %v", err)
	}

	registrar := schedule.NewRegistrar(logging.NewNop())
	rule := schedule.Rule{TimeOfDay: "03:30", IntervalHours: 168}
	if err := registrar.Register(context.Background(), rule, "/usr/local/bin/crank run"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	lines := readState(t, stateFile)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines after replace, got %q", lines)
	}
	if lines[0] != "15 4 * * * /usr/bin/backup" {
		t.Fatalf("unrelated entry must be preserved, got %q", lines[0])
	}
	if lines[1] != "30 3 * * 0 /usr/local/bin/crank run" {
		t.Fatalf("expected replaced entry, got %q", lines[1])
	}
}

func TestRegisterIsIdempotent(t *testing.T) {
	stateFile := filepath.Join(t.TempDir(), "crontab")
	fakeCrontab(t, stateFile)

	registrar := schedule.NewRegistrar(logging.NewNop())
	rule := schedule.Rule{TimeOfDay: "02:00", IntervalHours: 24}
	for i := 0; i < 3; i++ {
		if err := registrar.Register(context.Background(), rule, "/usr/local/bin/crank run"); err != nil {
			t.Fatalf("Register %d failed: %v", i, err)
		}
	}

	lines := readState(t, stateFile)
	if len(lines) != 1 {
		t.Fatalf("repeated registration must not accumulate entries: %q", lines)
	}
}

func TestUnregisterRemovesEntry(t *testing.T) {
	stateFile := filepath.Join(t.TempDir(), "crontab")
	fakeCrontab(t, stateFile)
	if err := os.WriteFile(stateFile, []byte(
		"0 2 * * * /usr/local/bin/crank run\n"+
			"15 4 * * * /usr/bin/backup\n"), 0o644); err != nil {
		t.Fatalf("seed crontab: %v", err)
	}

	registrar := schedule.NewRegistrar(logging.NewNop())
	if err := registrar.Unregister(context.Background(), "/usr/local/bin/crank run"); err != nil {
		t.Fatalf("Unregister failed: %v", err)
	}

	lines := readState(t, stateFile)
	if len(lines) != 1 || lines[0] != "15 4 * * * /usr/bin/backup" {
		t.Fatalf("unexpected crontab after unregister: %q", lines)
	}
}

func TestRegisterSurfacesCrontabDenial(t *testing.T) {
	testsupport.NewConfig(t, testsupport.WithStubbedBinary("crontab",
		"#!/bin/sh\necho 'you are not allowed to use this program' >&2\nexit 1\n"))

	registrar := schedule.NewRegistrar(logging.NewNop())
	rule := schedule.Rule{TimeOfDay: "02:00", IntervalHours: 24}
	err := registrar.Register(context.Background(), rule, "/usr/local/bin/crank run")
	if err == nil {
		t.Fatal("expected error when crontab access is denied")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", err)
	}
}

func TestRegisterRejectsEmptyInvocation(t *testing.T) {
	registrar := schedule.NewRegistrar(logging.NewNop())
	err := registrar.Register(context.Background(), schedule.Rule{TimeOfDay: "02:00", IntervalHours: 24}, "  ")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation marker, got %v", err)
	}
}
