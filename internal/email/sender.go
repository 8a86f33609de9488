package email

import (
	"context"

	"github.com/rs/zerolog/log"
)

// EmailSender provides a testable abstraction over SES delivery.
type EmailSender interface {
	Send(ctx context.Context, recipient, subject, body string) error
	SendFrom(ctx context.Context, recipient, subject, body, sender string) error
}

// LogSender writes messages to the log instead of delivering them. It is used
// when email is disabled.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, recipient, subject, body string) error {
	return LogSender{}.SendFrom(ctx, recipient, subject, body, "")
}

func (LogSender) SendFrom(ctx context.Context, recipient, subject, body, sender string) error {
	log.Ctx(ctx).Info().
		Str("recipient", recipient).
		Str("sender", sender).
		Str("subject", subject).
		Str("body", body).
		Msg("Email delivery disabled, logging message")
	return nil
}
