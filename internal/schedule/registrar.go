package schedule

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"crank/internal/logging"
	"crank/internal/services"
)

// Registrar manages the user's crontab entry for recurring runs.
type Registrar struct {
	crontabBinary string
	logger        *slog.Logger
}

func NewRegistrar(logger *slog.Logger) *Registrar {
	return &Registrar{
		crontabBinary: "crontab",
		logger:        logging.NewComponentLogger(logger, "schedule"),
	}
}

// Register installs a crontab line running invocation on the rule's cadence.
// Any existing line referencing the same invocation is replaced, so repeated
// registration never accumulates duplicate entries.
func (r *Registrar) Register(ctx context.Context, rule Rule, invocation string) error {
	invocation = strings.TrimSpace(invocation)
	if invocation == "" {
		return services.Wrap(services.ErrValidation, "schedule", "register", "invocation command is empty", nil)
	}

	expr, err := rule.Expression()
	if err != nil {
		return err
	}

	current, err := r.readCrontab(ctx)
	if err != nil {
		return err
	}

	entry := expr + " " + invocation
	lines := filterInvocation(current, invocation)
	lines = append(lines, entry)

	if err := r.writeCrontab(ctx, lines); err != nil {
		return err
	}

	r.logger.Info("recurring run registered",
		logging.String("expression", expr),
		logging.String("command", invocation))
	return nil
}

// Unregister removes any crontab line referencing the invocation.
func (r *Registrar) Unregister(ctx context.Context, invocation string) error {
	invocation = strings.TrimSpace(invocation)
	if invocation == "" {
		return services.Wrap(services.ErrValidation, "schedule", "unregister", "invocation command is empty", nil)
	}

	current, err := r.readCrontab(ctx)
	if err != nil {
		return err
	}

	lines := filterInvocation(current, invocation)
	if len(lines) == len(current) {
		return nil
	}
	return r.writeCrontab(ctx, lines)
}

// readCrontab returns the current crontab one line per entry. A missing
// crontab ("no crontab for user") is treated as empty, matching the
// `crontab -l 2>/dev/null` convention.
func (r *Registrar) readCrontab(ctx context.Context) ([]string, error) {
	cmd := exec.CommandContext(ctx, r.crontabBinary, "-l")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok && strings.Contains(strings.ToLower(stderr.String()), "no crontab") {
			return nil, nil
		}
		return nil, services.Wrap(services.ErrExternalTool, "schedule", "read crontab",
			strings.TrimSpace(stderr.String()), err)
	}

	var lines []string
	for _, line := range strings.Split(stdout.String(), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (r *Registrar) writeCrontab(ctx context.Context, lines []string) error {
	content := strings.Join(lines, "\n")
	if content != "" {
		content += "\n"
	}

	cmd := exec.CommandContext(ctx, r.crontabBinary, "-")
	cmd.Stdin = strings.NewReader(content)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return services.Wrap(services.ErrExternalTool, "schedule", "write crontab",
			strings.TrimSpace(stderr.String()), err)
	}
	return nil
}

func filterInvocation(lines []string, invocation string) []string {
	var kept []string
	for _, line := range lines {
		if strings.Contains(line, invocation) {
			continue
		}
		kept = append(kept, line)
	}
	return kept
}

// Entry formats the line Register would install, for dry-run display.
func Entry(rule Rule, invocation string) (string, error) {
	expr, err := rule.Expression()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %s", expr, strings.TrimSpace(invocation)), nil
}
