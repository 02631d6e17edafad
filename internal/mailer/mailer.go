package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog"

	"workshophub/internal/model"
)

type Config struct {
	Host     string
	Port     string
	From     string
	Password string
}

type Mailer struct {
	cfg Config
	log *zerolog.Logger
}

func New(cfg Config, log *zerolog.Logger) *Mailer {
	return &Mailer{cfg: cfg, log: log}
}

// SendRegistrationEmail notifies a user about a registration status
// change. Failures are reported to the caller but are never allowed to
// affect the workflow itself.
func (m *Mailer) SendRegistrationEmail(workshopTitle, status, recipientEmail string) error {
	var subject, body string
	switch status {
	case model.StatusConfirmed:
		subject = "Your registration is confirmed"
		body = fmt.Sprintf("Hello!\n\nYour registration for the workshop %q has been confirmed. See you there!", workshopTitle)
	case model.StatusRejected:
		subject = "Your registration was declined"
		body = fmt.Sprintf("Hello!\n\nUnfortunately your registration for the workshop %q was declined by the organizers.", workshopTitle)
	case model.StatusPaymentPending:
		subject = "Payment required for your registration"
		body = fmt.Sprintf("Hello!\n\nYou have registered for the workshop %q. Please complete the payment and upload the confirmation screenshot to proceed.", workshopTitle)
	default:
		subject = "Your registration was received"
		body = fmt.Sprintf("Hello!\n\nYour registration for the workshop %q is awaiting review. We will let you know once it is processed.", workshopTitle)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		m.cfg.From, recipientEmail, subject, body,
	)

	addr := m.cfg.Host + ":" + m.cfg.Port
	auth := smtp.PlainAuth("", m.cfg.From, m.cfg.Password, m.cfg.Host)

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{recipientEmail}, []byte(msg)); err != nil {
		m.log.Warn().Msgf("failed to send email to %s: %v", recipientEmail, err)
		return fmt.Errorf("send email: %w", err)
	}

	m.log.Info().Msgf("email sent to %s (status: %s)", recipientEmail, status)
	return nil
}
