package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/gruzpro/site-platform/internal/leads"
	"github.com/gruzpro/site-platform/pkg/logging"
)

// Service fans a new application out to the configured channels. Every
// channel is best-effort: errors are collected for the caller's log sink
// and never block another channel.
type Service struct {
	webhook *WebhookNotifier
	email   EmailSender
	emailTo string
	logger  *logging.Logger
}

// NewService creates a notification service. Either channel may be nil.
func NewService(webhook *WebhookNotifier, email EmailSender, emailTo string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		webhook: webhook,
		email:   email,
		emailTo: emailTo,
		logger:  logger,
	}
}

// ApplicationReceived notifies operators about a new application. The
// returned error is for the detached-task error sink only; callers must not
// surface it to the visitor.
func (s *Service) ApplicationReceived(ctx context.Context, app *leads.Application) error {
	var errs []error

	if s.webhook != nil {
		if err := s.webhook.Notify(ctx, app); err != nil {
			s.logger.Warn("webhook notification failed", "error", err, "application_id", app.ID)
			errs = append(errs, err)
		}
	}

	if s.email != nil && s.emailTo != "" {
		msg := EmailMessage{
			To:      s.emailTo,
			ToName:  "Sales",
			Subject: fmt.Sprintf("New application from %s", app.Name),
			Body: fmt.Sprintf(`A new application arrived on the site.

Name: %s
Phone: +7%s
Email: %s
Message: %s

Submitted: %s`, app.Name, app.Phone, orDash(app.Email), app.Message, app.CreatedAt.Format("02.01.2006 15:04")),
		}
		if err := s.email.Send(ctx, msg); err != nil {
			s.logger.Warn("email notification failed", "error", err, "application_id", app.ID)
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func orDash(s string) string {
	if s == "" {
		return "not provided"
	}
	return s
}
