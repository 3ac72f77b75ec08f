package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"mime/multipart"
	"net"
	"net/mail"
	"net/smtp"
	"net/textproto"
	"strconv"
	"time"

	"donationtracker/internal/domain"
)

// SMTPConfig holds configuration for an SMTP relay that supports STARTTLS (e.g. port 587).
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
}

type smtpMailer struct {
	config SMTPConfig
	from   mail.Address
}

func newSMTPMailer(config SMTPConfig, fromAddress, fromName string) (domain.Mailer, error) {
	if config.Host == "" {
		return nil, fmt.Errorf("smtp mailer: host is required")
	}
	if config.Port == 0 {
		config.Port = 587
	}
	if fromAddress == "" {
		fromAddress = config.User
	}
	if _, err := mail.ParseAddress(fromAddress); err != nil {
		return nil, fmt.Errorf("smtp mailer: invalid from address: %w", err)
	}
	return &smtpMailer{config: config, from: mail.Address{Name: fromName, Address: fromAddress}}, nil
}

func (s *smtpMailer) Send(ctx context.Context, to, subject, html, text string) error {
	rcpt, err := mail.ParseAddress(to)
	if err != nil {
		return fmt.Errorf("invalid recipient email: %w", err)
	}
	msg, err := buildMessage(s.from, *rcpt, subject, html, text)
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
	dialer := &net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to start SMTP session: %w", err)
	}
	defer func() { _ = client.Close() }()

	tlsConfig := &tls.Config{
		ServerName: s.config.Host,
		MinVersion: tls.VersionTLS12,
	}
	if err := client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}
	if s.config.User != "" {
		auth := smtp.PlainAuth("", s.config.User, s.config.Password, s.config.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}
	if err := client.Mail(s.from.Address); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(rcpt.Address); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("failed to write email body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}
	if err := client.Quit(); err != nil {
		return fmt.Errorf("failed to quit SMTP connection: %w", err)
	}
	return nil
}

// buildMessage renders a multipart/alternative message carrying the text and html bodies.
func buildMessage(from, to mail.Address, subject, html, text string) ([]byte, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	parts := []struct{ contentType, content string }{
		{"text/plain; charset=UTF-8", text},
		{"text/html; charset=UTF-8", html},
	}
	for _, p := range parts {
		if p.content == "" {
			continue
		}
		pw, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {p.contentType},
			"Content-Transfer-Encoding": {"8bit"},
		})
		if err != nil {
			return nil, fmt.Errorf("build message: %w", err)
		}
		if _, err := pw.Write([]byte(p.content)); err != nil {
			return nil, fmt.Errorf("build message: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("build message: %w", err)
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", from.String())
	fmt.Fprintf(&msg, "To: %s\r\n", to.String())
	fmt.Fprintf(&msg, "Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/alternative; boundary=%q\r\n", mw.Boundary())
	msg.WriteString("\r\n")
	msg.Write(body.Bytes())
	return msg.Bytes(), nil
}
