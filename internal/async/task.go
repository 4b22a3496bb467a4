// Package async runs best-effort side effects detached from the request that
// triggered them. Failures go to the logger, never to the caller: detachment
// here is the contract, not an accident.
package async

import (
	"context"
	"time"

	"github.com/gruzpro/site-platform/pkg/logging"
)

// DefaultTimeout bounds a detached task so an unresponsive downstream cannot
// leak goroutines.
const DefaultTimeout = 30 * time.Second

// Runner launches fire-and-forget tasks with panic recovery and an error
// sink. A zero-value Runner is not usable; construct with NewRunner.
type Runner struct {
	logger  *logging.Logger
	timeout time.Duration

	// wait is used by tests to observe task completion.
	onDone func(name string)
}

// NewRunner creates a task runner logging failures through logger.
func NewRunner(logger *logging.Logger) *Runner {
	if logger == nil {
		logger = logging.Default()
	}
	return &Runner{logger: logger, timeout: DefaultTimeout}
}

// Go runs fn on its own goroutine with a fresh context. The task outlives
// the originating request; its error is logged under name and discarded.
func (r *Runner) Go(name string, fn func(ctx context.Context) error) {
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				r.logger.Error("detached task panicked", "task", name, "panic", rec)
			}
			if r.onDone != nil {
				r.onDone(name)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			r.logger.Warn("detached task failed", "task", name, "error", err)
			return
		}
		r.logger.Debug("detached task completed", "task", name)
	}()
}
