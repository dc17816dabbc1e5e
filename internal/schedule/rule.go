package schedule

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"

	"crank/internal/services"
)

const hoursPerWeek = 168

// Rule describes when recurring runs should fire.
type Rule struct {
	TimeOfDay     string
	IntervalHours int
}

// Expression derives the five-field cron expression for the rule. Daily and
// weekly intervals map to plain day/week lines; any other interval repeats
// every N hours starting at the configured time of day.
func (r Rule) Expression() (string, error) {
	hour, minute, err := parseTimeOfDay(r.TimeOfDay)
	if err != nil {
		return "", err
	}
	if r.IntervalHours <= 0 {
		return "", services.Wrap(services.ErrValidation, "schedule", "expression",
			fmt.Sprintf("interval must be positive, got %d", r.IntervalHours), nil)
	}

	var expr string
	switch r.IntervalHours {
	case 24:
		expr = fmt.Sprintf("%d %d * * *", minute, hour)
	case hoursPerWeek:
		expr = fmt.Sprintf("%d %d * * 0", minute, hour)
	default:
		expr = fmt.Sprintf("%d %d-23/%d * * *", minute, hour, r.IntervalHours)
	}

	if _, err := cron.ParseStandard(expr); err != nil {
		return "", services.Wrap(services.ErrValidation, "schedule", "expression",
			fmt.Sprintf("derived expression %q is invalid", expr), err)
	}
	return expr, nil
}

func parseTimeOfDay(value string) (hour, minute int, err error) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return 0, 0, services.Wrap(services.ErrValidation, "schedule", "time_of_day",
			fmt.Sprintf("expected HH:MM, got %q", value), nil)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, services.Wrap(services.ErrValidation, "schedule", "time_of_day",
			fmt.Sprintf("hour out of range in %q", value), nil)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, services.Wrap(services.ErrValidation, "schedule", "time_of_day",
			fmt.Sprintf("minute out of range in %q", value), nil)
	}
	return hour, minute, nil
}
