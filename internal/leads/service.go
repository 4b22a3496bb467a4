package leads

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/gruzpro/site-platform/internal/observability/metrics"
	"github.com/gruzpro/site-platform/pkg/logging"
)

// Notifier delivers the "new application" side effect. Failures are logged
// and never surfaced: the insert is the durability boundary.
type Notifier interface {
	ApplicationReceived(ctx context.Context, app *Application) error
}

// Analytics records a goal-reached event. Implementations swallow their own
// errors.
type Analytics interface {
	Goal(ctx context.Context, name string) error
}

// TaskRunner detaches best-effort work from the submission call.
type TaskRunner interface {
	Go(name string, fn func(ctx context.Context) error)
}

// Service owns the submission pipeline: validate, persist, then detached
// notification and analytics.
type Service struct {
	repo      Repository
	writable  bool
	notifier  Notifier
	analytics Analytics
	goal      string
	tasks     TaskRunner
	metrics   *metrics.LeadMetrics
	logger    *logging.Logger
	tracer    trace.Tracer

	// inFlight allows a single submission at a time per Service instance.
	// Instance-scoped only: two replicas do not deduplicate, matching the
	// accepted two-tab behavior of the form.
	inFlight atomic.Bool
}

// ServiceConfig wires a Service.
type ServiceConfig struct {
	Repo      Repository
	Writable  bool
	Notifier  Notifier
	Analytics Analytics
	Goal      string
	Tasks     TaskRunner
	Metrics   *metrics.LeadMetrics
	Logger    *logging.Logger
}

// NewService creates the submission service.
func NewService(cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	goal := cfg.Goal
	if goal == "" {
		goal = "lead_submitted"
	}
	return &Service{
		repo:      cfg.Repo,
		writable:  cfg.Writable,
		notifier:  cfg.Notifier,
		analytics: cfg.Analytics,
		goal:      goal,
		tasks:     cfg.Tasks,
		metrics:   cfg.Metrics,
		logger:    logger,
		tracer:    otel.Tracer("gruzpro/leads"),
	}
}

// Submit validates the draft and persists it, then fires the detached side
// effects. Exactly one submission may be in flight per instance; a
// concurrent call returns ErrSubmitInFlight without touching the store.
func (s *Service) Submit(ctx context.Context, req *CreateApplicationRequest) (*Application, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		s.metrics.ObserveInFlightRejected()
		return nil, ErrSubmitInFlight
	}
	defer s.inFlight.Store(false)

	ctx, span := s.tracer.Start(ctx, "leads.Submit")
	defer span.End()

	// Re-validate on entry: the handler already decoded the draft, but the
	// service contract does not trust its caller.
	if errs := Validate(req); len(errs) > 0 {
		s.metrics.ObserveSubmission("invalid")
		span.SetAttributes(attribute.Int("lead.field_errors", len(errs)))
		return nil, errs
	}

	if s.repo == nil || !s.writable {
		s.metrics.ObserveSubmission("unconfigured")
		return nil, ErrStoreNotConfigured
	}

	phone, _ := NormalizePhone(req.Phone)
	normalized := &CreateApplicationRequest{
		Name:    strings.TrimSpace(req.Name),
		Phone:   phone,
		Email:   strings.TrimSpace(req.Email),
		Message: strings.TrimSpace(req.Message),
	}

	app, err := s.repo.Create(ctx, normalized)
	if err != nil {
		s.metrics.ObserveSubmission("store_error")
		span.RecordError(err)
		return nil, fmt.Errorf("%w: %v", ErrSubmitFailed, err)
	}

	s.logger.Info("application received", "id", app.ID, "name", app.Name)
	s.metrics.ObserveSubmission("accepted")

	if s.tasks != nil && s.notifier != nil {
		submitted := app
		s.tasks.Go("lead-notify", func(ctx context.Context) error {
			if err := s.notifier.ApplicationReceived(ctx, submitted); err != nil {
				s.metrics.ObserveNotifyFailure("notify")
				return err
			}
			return nil
		})
	}
	if s.tasks != nil && s.analytics != nil {
		s.tasks.Go("lead-goal", func(ctx context.Context) error {
			return s.analytics.Goal(ctx, s.goal)
		})
	}

	return app, nil
}
