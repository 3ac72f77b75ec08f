package email

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"donationtracker/internal/domain"
)

const charsetUTF8 = "UTF-8"

// SESConfig holds the AWS SES region and static credentials.
type SESConfig struct {
	Region             string
	AccessKeyID        string
	SecretAccessKey    string
	InsecureSkipVerify bool
}

// sesAPI is the subset of the SES client the mailer uses.
type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type sesMailer struct {
	client sesAPI
	from   string
	logger *slog.Logger
}

func newSESMailer(cfg SESConfig, from string, logger *slog.Logger) (domain.Mailer, error) {
	if cfg.Region == "" {
		return nil, errors.New("ses mailer: region is required")
	}
	if cfg.InsecureSkipVerify {
		logger.Warn("TLS certificate verification is disabled for SES")
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{
		InsecureSkipVerify: cfg.InsecureSkipVerify,
		MinVersion:         tls.VersionTLS12,
	}
	awsCfg := aws.Config{
		Region:      cfg.Region,
		HTTPClient:  &http.Client{Transport: transport},
		Credentials: aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	}
	return &sesMailer{client: ses.NewFromConfig(awsCfg), from: from, logger: logger}, nil
}

func utf8Content(s string) *types.Content {
	if s == "" {
		return nil
	}
	return &types.Content{Data: aws.String(s), Charset: aws.String(charsetUTF8)}
}

func (s *sesMailer) Send(ctx context.Context, to, subject, html, text string) error {
	out, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Source:      aws.String(s.from),
		Destination: &types.Destination{ToAddresses: []string{to}},
		Message: &types.Message{
			Subject: utf8Content(subject),
			Body:    &types.Body{Html: utf8Content(html), Text: utf8Content(text)},
		},
	})
	if err != nil {
		return wrapSendErr("ses", err)
	}
	s.logger.InfoContext(ctx, "receipt sent", "to", to, "message_id", aws.ToString(out.MessageId))
	return nil
}
