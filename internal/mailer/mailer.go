package mailer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Mailer delivers transactional mail. Implementations must not block
// the request path on remote failures longer than the passed context.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogMailer writes mail to the application log instead of sending it.
// Used in development and as the fallback when no provider is set.
type LogMailer struct {
	logger zerolog.Logger
}

// NewLogMailer returns a Mailer that only logs.
func NewLogMailer(logger zerolog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(_ context.Context, to, subject, body string) error {
	m.logger.Info().
		Str("to", to).
		Str("subject", subject).
		Str("body", body).
		Msg("mail (log provider)")
	return nil
}

// VerificationSubject and friends keep mail copy in one place.
const (
	VerificationSubject  = "Verify your email"
	PasswordResetSubject = "Reset your password"
)

// VerificationBody renders the one-time code mail.
func VerificationBody(code string) string {
	return fmt.Sprintf("Your verification code is %s. It expires shortly.", code)
}

// PasswordResetBody renders the reset-token mail.
func PasswordResetBody(token string) string {
	return fmt.Sprintf("Use this token to reset your password: %s", token)
}
