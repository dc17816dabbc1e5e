package batch

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"crank/internal/executor"
)

// Report aggregates the results of one batch run.
type Report struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	TimedOut   bool
	Results    []executor.Result

	mu sync.Mutex
}

func newReport() *Report {
	return &Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
}

func (r *Report) append(result executor.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Results = append(r.Results, result)
}

func (r *Report) finish(timedOut bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.FinishedAt = time.Now().UTC()
	r.TimedOut = timedOut
}

// Succeeded counts items that transcoded and landed in their destination.
func (r *Report) Succeeded() int { return r.count(executor.OutcomeSucceeded) }

// Failed counts items whose engine run or verification failed.
func (r *Report) Failed() int { return r.count(executor.OutcomeFailed) }

// Skipped counts items never dispatched before the run stopped.
func (r *Report) Skipped() int { return r.count(executor.OutcomeSkipped) }

// Total returns the number of recorded results.
func (r *Report) Total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Results)
}

// Duration reports wall-clock time for the whole run.
func (r *Report) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// AllSucceeded reports whether every item completed successfully.
func (r *Report) AllSucceeded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, result := range r.Results {
		if result.Outcome != executor.OutcomeSucceeded {
			return false
		}
	}
	return true
}

func (r *Report) count(outcome executor.Outcome) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, result := range r.Results {
		if result.Outcome == outcome {
			n++
		}
	}
	return n
}
