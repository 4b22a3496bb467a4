package async

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gruzpro/site-platform/pkg/logging"
)

func waitFor(t *testing.T, done <-chan string, want string) {
	t.Helper()
	select {
	case name := <-done:
		if name != want {
			t.Fatalf("expected task %q, got %q", want, name)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("task %q did not complete", want)
	}
}

func TestGoRunsTask(t *testing.T) {
	r := NewRunner(logging.Default())
	done := make(chan string, 1)
	r.onDone = func(name string) { done <- name }

	ran := make(chan struct{}, 1)
	r.Go("notify", func(ctx context.Context) error {
		ran <- struct{}{}
		return nil
	})

	waitFor(t, done, "notify")
	select {
	case <-ran:
	default:
		t.Fatal("task body did not run")
	}
}

func TestGoSwallowsErrors(t *testing.T) {
	r := NewRunner(logging.Default())
	done := make(chan string, 1)
	r.onDone = func(name string) { done <- name }

	r.Go("webhook", func(ctx context.Context) error {
		return errors.New("downstream unavailable")
	})

	// Completion despite the error is the whole point.
	waitFor(t, done, "webhook")
}

func TestGoRecoversPanic(t *testing.T) {
	r := NewRunner(logging.Default())
	done := make(chan string, 1)
	r.onDone = func(name string) { done <- name }

	r.Go("analytics", func(ctx context.Context) error {
		panic("boom")
	})

	waitFor(t, done, "analytics")
}
