package email

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/mail"

	"donationtracker/internal/domain"
)

// MailerConfig selects the outbound provider for donation receipts.
type MailerConfig struct {
	Provider    string // ses, smtp or noop
	FromAddress string
	FromName    string
	SES         SESConfig
	SMTP        SMTPConfig
	Logger      *slog.Logger
}

// NewMailer builds the mailer named by config.Provider. An empty or unknown
// provider yields a mailer that only logs, so receipts never block a donation.
func NewMailer(config MailerConfig) (domain.Mailer, error) {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	logger = logger.With("component", "mailer", "provider", config.Provider)

	switch config.Provider {
	case "ses":
		return newSESMailer(config.SES, sender(config.FromName, config.FromAddress), logger)
	case "smtp":
		return newSMTPMailer(config.SMTP, config.FromAddress, config.FromName)
	case "noop", "":
		return &noopMailer{logger: logger}, nil
	default:
		logger.Warn("unknown email provider, receipts will not be delivered")
		return &noopMailer{logger: logger}, nil
	}
}

type noopMailer struct {
	logger *slog.Logger
}

func (n *noopMailer) Send(ctx context.Context, to, subject, html, text string) error {
	n.logger.DebugContext(ctx, "receipt not delivered", "to", to, "subject", subject)
	return nil
}

// sender renders the From header value; a blank name leaves the bare address.
func sender(name, address string) string {
	if name == "" {
		return address
	}
	return (&mail.Address{Name: name, Address: address}).String()
}

func wrapSendErr(provider string, err error) error {
	return fmt.Errorf("send via %s: %w", provider, err)
}
