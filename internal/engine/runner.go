package engine

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"crank/internal/config"
	"crank/internal/logging"
	"crank/internal/services"
)

const stderrTailLimit = 4 * 1024

// RunResult holds the outcome of a single engine invocation.
type RunResult struct {
	ExitCode int
	Stderr   string
	Duration time.Duration
}

// Runner invokes the external transcode engine as a child process.
type Runner struct {
	cfg    *config.Config
	logger *slog.Logger
}

func NewRunner(cfg *config.Config, logger *slog.Logger) *Runner {
	return &Runner{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "engine"),
	}
}

// Run executes the engine for one source/destination pair and waits for it
// to finish. The child is started with a structured argv, never a shell.
// Cancellation of ctx is observed before launch only: once the engine is
// running it is allowed to finish so the destination file is never left in
// a half-written state by a signal from this process.
func (r *Runner) Run(ctx context.Context, source, dest string) (RunResult, error) {
	if err := ctx.Err(); err != nil {
		return RunResult{ExitCode: -1}, services.Wrap(services.ErrTimeout, "engine", "run", "not started", err)
	}

	args := Command(r.cfg, source, dest)
	r.logger.Debug("starting engine", logging.String("source", source), logging.String("dest", dest))

	cmd := exec.Command(args[0], args[1:]...)
	var stderrBuf bytes.Buffer
	cmd.Stderr = &stderrBuf

	start := time.Now()
	err := cmd.Run()
	result := RunResult{
		Stderr:   stderrTail(stderrBuf.String()),
		Duration: time.Since(start),
	}

	if err == nil {
		result.ExitCode = 0
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, services.Wrap(services.ErrExternalTool, "engine", "run", "engine exited non-zero", err)
	}

	// Launch failure: binary missing or not executable.
	result.ExitCode = -1
	return result, services.Wrap(services.ErrExternalTool, "engine", "start", "could not launch engine", err)
}

func stderrTail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= stderrTailLimit {
		return s
	}
	return s[len(s)-stderrTailLimit:]
}
