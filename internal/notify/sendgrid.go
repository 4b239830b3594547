package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/wolfman30/connection-card/pkg/logging"
)

type sendgridAPI interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendGridSender delivers through the SendGrid v3 mail API.
type SendGridSender struct {
	client sendgridAPI
	from   From
	logger *logging.Logger
}

// NewSendGridSender returns nil without an API key so callers can fall back
// to another sender.
func NewSendGridSender(apiKey string, from From, logger *logging.Logger) *SendGridSender {
	if apiKey == "" {
		return nil
	}
	return newSendGridSender(sendgrid.NewSendClient(apiKey), from, logger)
}

func newSendGridSender(client sendgridAPI, from From, logger *logging.Logger) *SendGridSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &SendGridSender{
		client: client,
		from:   from.withDefaults(),
		logger: logger,
	}
}

func (s *SendGridSender) Send(ctx context.Context, msg EmailMessage) error {
	if s.client == nil {
		return fmt.Errorf("notify: sendgrid client not configured")
	}

	html := msg.HTML
	if html == "" {
		html = msg.Text
	}
	message := mail.NewSingleEmail(
		mail.NewEmail(s.from.Name, s.from.Address),
		msg.Subject,
		mail.NewEmail(msg.ToName, msg.To),
		msg.Text,
		html,
	)
	if len(msg.Tags) > 0 {
		message.AddCategories(msg.Tags...)
	}

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("notify: sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		s.logger.Error("sendgrid rejected email", "status", resp.StatusCode, "body", resp.Body)
		return fmt.Errorf("notify: sendgrid returned status %d", resp.StatusCode)
	}

	s.logger.Info("email sent via sendgrid",
		"subject", msg.Subject,
		"recipient_domain", recipientDomain(msg.To),
		"status", resp.StatusCode,
	)
	return nil
}

var _ EmailSender = (*SendGridSender)(nil)
