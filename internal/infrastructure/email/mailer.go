package email

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"cryptorafts.backend/internal/config"
	"cryptorafts.backend/pkg/logger"
	"cryptorafts.backend/pkg/metrics"
)

// sender is swapped out in tests
type sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
	DialWithContext(ctx context.Context) error
	Close() error
}

// Mailer sends transactional email over SMTP. All Send methods report
// success as a bool and never fail the caller: a lost email is logged and
// counted, not surfaced to the user flow that triggered it.
type Mailer struct {
	cfg    config.SMTPConfig
	appURL string
	client sender
}

// NewMailer creates a mailer and verifies the SMTP configuration up front.
// With no credentials configured it returns a disabled mailer whose Send
// methods all report false.
func NewMailer(cfg config.SMTPConfig, appURL string) (*Mailer, error) {
	m := &Mailer{cfg: cfg, appURL: appURL}
	if !cfg.Enabled() {
		logger.Warn(context.Background(), "smtp not configured, email disabled")
		return m, nil
	}

	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.User),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}
	m.client = client
	return m, nil
}

// Enabled reports whether the mailer has a working transport
func (m *Mailer) Enabled() bool {
	return m.client != nil
}

// HealthCheck dials the SMTP server to verify credentials. No-op when mail
// is disabled.
func (m *Mailer) HealthCheck(ctx context.Context) error {
	if m.client == nil {
		return nil
	}
	if err := m.client.DialWithContext(ctx); err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	return m.client.Close()
}

// SendRegistrationConfirmation sends the post-signup verification link
func (m *Mailer) SendRegistrationConfirmation(ctx context.Context, to, name, token string) bool {
	link := fmt.Sprintf("%s/verify-email?token=%s", m.appURL, token)
	body := fmt.Sprintf("Hi %s,\n\nWelcome to CryptoRafts. Confirm your email address by opening the link below:\n\n%s\n\nThe link expires in 24 hours.\n", name, link)
	return m.send(ctx, "registration_confirmation", to, "Confirm your email", body)
}

// SendVerificationCode sends a one-time login or action code
func (m *Mailer) SendVerificationCode(ctx context.Context, to, name, code string) bool {
	body := fmt.Sprintf("Hi %s,\n\nYour verification code is: %s\n\nIt expires in 10 minutes. If you did not request it, ignore this email.\n", name, code)
	return m.send(ctx, "verification_code", to, "Your verification code", body)
}

// SendKYBApproval notifies an organization owner of approval
func (m *Mailer) SendKYBApproval(ctx context.Context, to, name, orgName string) bool {
	body := fmt.Sprintf("Hi %s,\n\nBusiness verification for %s has been approved. Your organization now has full access to the platform.\n\n%s/dashboard\n", name, orgName, m.appURL)
	return m.send(ctx, "kyb_approval", to, "Business verification approved", body)
}

// SendKYBRejection notifies an organization owner of rejection with the
// reviewer's reason
func (m *Mailer) SendKYBRejection(ctx context.Context, to, name, orgName, reason string) bool {
	body := fmt.Sprintf("Hi %s,\n\nBusiness verification for %s was not approved.\n\nReason: %s\n\nYou can update your submission and try again:\n%s/onboarding\n", name, orgName, reason, m.appURL)
	return m.send(ctx, "kyb_rejection", to, "Business verification update", body)
}

// SendKYCApproval notifies a user their identity verification passed
func (m *Mailer) SendKYCApproval(ctx context.Context, to, name string) bool {
	body := fmt.Sprintf("Hi %s,\n\nYour identity verification has been approved.\n\n%s/dashboard\n", name, m.appURL)
	return m.send(ctx, "kyc_approval", to, "Identity verification approved", body)
}

// SendKYCRejection notifies a user their identity verification failed
func (m *Mailer) SendKYCRejection(ctx context.Context, to, name, reason string) bool {
	body := fmt.Sprintf("Hi %s,\n\nYour identity verification was not approved.\n\nReason: %s\n", name, reason)
	return m.send(ctx, "kyc_rejection", to, "Identity verification update", body)
}

// SendPitchDecision notifies a founder of a pitch review outcome
func (m *Mailer) SendPitchDecision(ctx context.Context, to, name, projectName, status, reason string) bool {
	body := fmt.Sprintf("Hi %s,\n\nYour pitch %q has been reviewed. New status: %s.\n", name, projectName, status)
	if reason != "" {
		body += fmt.Sprintf("\nReviewer notes: %s\n", reason)
	}
	return m.send(ctx, "pitch_decision", to, "Your pitch has been reviewed", body)
}

// SendTeamInvitation invites someone to join an organization's team
func (m *Mailer) SendTeamInvitation(ctx context.Context, to, inviterName, orgName, token string) bool {
	link := fmt.Sprintf("%s/invite?token=%s", m.appURL, token)
	body := fmt.Sprintf("Hi,\n\n%s invited you to join %s on CryptoRafts.\n\n%s\n", inviterName, orgName, link)
	return m.send(ctx, "team_invitation", to, fmt.Sprintf("%s invited you to %s", inviterName, orgName), body)
}

func (m *Mailer) send(ctx context.Context, template, to, subject, body string) bool {
	if m.client == nil {
		metrics.EmailsSent.WithLabelValues(template, "skipped").Inc()
		return false
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat(m.cfg.FromName, m.cfg.FromAddr); err != nil {
		logger.Error(ctx, "invalid from address", zap.String("template", template), zap.Error(err))
		metrics.EmailsSent.WithLabelValues(template, "error").Inc()
		return false
	}
	if err := msg.To(to); err != nil {
		logger.Error(ctx, "invalid recipient", zap.String("template", template), zap.Error(err))
		metrics.EmailsSent.WithLabelValues(template, "error").Inc()
		return false
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		logger.Error(ctx, "send email failed", zap.String("template", template), zap.String("to", to), zap.Error(err))
		metrics.EmailsSent.WithLabelValues(template, "error").Inc()
		return false
	}

	logger.Info(ctx, "email sent", zap.String("template", template), zap.String("to", to))
	metrics.EmailsSent.WithLabelValues(template, "ok").Inc()
	return true
}
