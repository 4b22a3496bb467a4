package leads

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gruzpro/site-platform/pkg/logging"
)

// syncRunner runs detached tasks inline so tests can assert on them.
type syncRunner struct {
	ran []string
}

func (r *syncRunner) Go(name string, fn func(ctx context.Context) error) {
	r.ran = append(r.ran, name)
	_ = fn(context.Background())
}

type mockNotifier struct {
	mu    sync.Mutex
	calls []*Application
	err   error
}

func (m *mockNotifier) ApplicationReceived(_ context.Context, app *Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, app)
	return m.err
}

type mockAnalytics struct {
	goals []string
}

func (m *mockAnalytics) Goal(_ context.Context, name string) error {
	m.goals = append(m.goals, name)
	return nil
}

// blockingRepo parks Create until released, to hold a submission in flight.
type blockingRepo struct {
	*InMemoryRepository
	entered chan struct{}
	release chan struct{}
}

func (r *blockingRepo) Create(ctx context.Context, req *CreateApplicationRequest) (*Application, error) {
	r.entered <- struct{}{}
	<-r.release
	return r.InMemoryRepository.Create(ctx, req)
}

func validDraft() *CreateApplicationRequest {
	return &CreateApplicationRequest{
		Name:    "Ivan Petrov",
		Phone:   "+7 912 345 67 89",
		Email:   "ivan@example.com",
		Message: "Need a 20t truck from Moscow to Kazan next week",
	}
}

func TestSubmitSuccess(t *testing.T) {
	repo := NewInMemoryRepository()
	notifier := &mockNotifier{}
	analytics := &mockAnalytics{}
	runner := &syncRunner{}

	svc := NewService(ServiceConfig{
		Repo:      repo,
		Writable:  true,
		Notifier:  notifier,
		Analytics: analytics,
		Tasks:     runner,
		Logger:    logging.Default(),
	})

	app, err := svc.Submit(context.Background(), validDraft())
	require.NoError(t, err)
	require.NotNil(t, app)

	assert.Equal(t, StatusNew, app.Status)
	assert.Equal(t, "9123456789", app.Phone, "phone should be normalized before insert")
	assert.Equal(t, 1, repo.Count())

	require.Len(t, notifier.calls, 1)
	assert.Equal(t, app.ID, notifier.calls[0].ID)
	assert.Equal(t, []string{"lead_submitted"}, analytics.goals)
	assert.Equal(t, []string{"lead-notify", "lead-goal"}, runner.ran)
}

func TestSubmitUsesConfiguredGoalName(t *testing.T) {
	analytics := &mockAnalytics{}
	svc := NewService(ServiceConfig{
		Repo:      NewInMemoryRepository(),
		Writable:  true,
		Analytics: analytics,
		Goal:      "zayavka_otpravlena",
		Tasks:     &syncRunner{},
		Logger:    logging.Default(),
	})

	_, err := svc.Submit(context.Background(), validDraft())
	require.NoError(t, err)
	assert.Equal(t, []string{"zayavka_otpravlena"}, analytics.goals)
}

func TestSubmitInvalidDraftHasNoSideEffects(t *testing.T) {
	repo := NewInMemoryRepository()
	notifier := &mockNotifier{}
	runner := &syncRunner{}

	svc := NewService(ServiceConfig{
		Repo:     repo,
		Writable: true,
		Notifier: notifier,
		Tasks:    runner,
		Logger:   logging.Default(),
	})

	_, err := svc.Submit(context.Background(), &CreateApplicationRequest{Name: "J"})

	var fieldErrs FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "name")
	assert.Contains(t, fieldErrs, "phone")
	assert.Contains(t, fieldErrs, "message")

	assert.Equal(t, 0, repo.Count(), "invalid draft must not reach the store")
	assert.Empty(t, notifier.calls)
	assert.Empty(t, runner.ran)
}

func TestSubmitStoreNotConfigured(t *testing.T) {
	svc := NewService(ServiceConfig{
		Repo:     NewInMemoryRepository(),
		Writable: false,
		Logger:   logging.Default(),
	})

	_, err := svc.Submit(context.Background(), validDraft())
	assert.ErrorIs(t, err, ErrStoreNotConfigured)
}

type failingRepo struct{ InMemoryRepository }

func (r *failingRepo) Create(ctx context.Context, req *CreateApplicationRequest) (*Application, error) {
	return nil, errors.New("connection refused")
}

func TestSubmitStoreErrorPreservesDraft(t *testing.T) {
	notifier := &mockNotifier{}
	svc := NewService(ServiceConfig{
		Repo:     &failingRepo{},
		Writable: true,
		Notifier: notifier,
		Tasks:    &syncRunner{},
		Logger:   logging.Default(),
	})

	draft := validDraft()
	_, err := svc.Submit(context.Background(), draft)
	assert.ErrorIs(t, err, ErrSubmitFailed)
	assert.Empty(t, notifier.calls, "notification must not fire when the insert failed")
	assert.Equal(t, "Ivan Petrov", draft.Name, "caller's draft is untouched for retry")
}

func TestSubmitNotifyFailureIsSwallowed(t *testing.T) {
	repo := NewInMemoryRepository()
	notifier := &mockNotifier{err: errors.New("webhook 500")}

	svc := NewService(ServiceConfig{
		Repo:     repo,
		Writable: true,
		Notifier: notifier,
		Tasks:    &syncRunner{},
		Logger:   logging.Default(),
	})

	app, err := svc.Submit(context.Background(), validDraft())
	require.NoError(t, err, "notification failure must never surface")
	require.NotNil(t, app)
	assert.Equal(t, 1, repo.Count(), "insert is the durability boundary")
}

func TestSubmitSingleFlight(t *testing.T) {
	repo := &blockingRepo{
		InMemoryRepository: NewInMemoryRepository(),
		entered:            make(chan struct{}, 1),
		release:            make(chan struct{}),
	}

	svc := NewService(ServiceConfig{
		Repo:     repo,
		Writable: true,
		Logger:   logging.Default(),
	})

	firstDone := make(chan error, 1)
	go func() {
		_, err := svc.Submit(context.Background(), validDraft())
		firstDone <- err
	}()

	// Wait until the first submission is inside the store call.
	select {
	case <-repo.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("first submission never reached the store")
	}

	// A concurrent submission must be rejected without an insert.
	_, err := svc.Submit(context.Background(), validDraft())
	assert.ErrorIs(t, err, ErrSubmitInFlight)

	close(repo.release)
	require.NoError(t, <-firstDone)
	assert.Equal(t, 1, repo.Count(), "the guard must prevent a second insert")

	// The guard is released after completion; a later submit succeeds.
	repo.entered = make(chan struct{}, 1)
	repo.release = make(chan struct{})
	close(repo.release)
	go func() { <-repo.entered }()
	_, err = svc.Submit(context.Background(), validDraft())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.Count())
}
