package mailer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// SendgridMailer delivers mail through the SendGrid v3 API.
type SendgridMailer struct {
	key    string
	from   *sgmail.Email
	logger zerolog.Logger
}

// NewSendgridMailer builds a SendGrid-backed Mailer.
func NewSendgridMailer(apiKey, fromName, fromAddress string, logger zerolog.Logger) *SendgridMailer {
	return &SendgridMailer{
		key:    apiKey,
		from:   sgmail.NewEmail(fromName, fromAddress),
		logger: logger,
	}
}

func (m *SendgridMailer) Send(ctx context.Context, to, subject, body string) error {
	p := sgmail.NewPersonalization()
	p.Subject = subject
	p.AddTos(sgmail.NewEmail("", to))

	message := sgmail.NewV3Mail()
	message.SetFrom(m.from)
	message.AddPersonalizations(p)
	message.AddContent(sgmail.NewContent("text/plain", body))

	req := sendgrid.GetRequest(m.key, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(message)

	res, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		m.logger.Error().Err(err).Str("to", to).Msg("sendgrid request failed")
		return fmt.Errorf("send mail: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		m.logger.Error().Int("status", res.StatusCode).Str("to", to).Msg("sendgrid rejected mail")
		return fmt.Errorf("send mail: status %d", res.StatusCode)
	}
	return nil
}
