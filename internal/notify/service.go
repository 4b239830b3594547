package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/wolfman30/connection-card/internal/config"
	"github.com/wolfman30/connection-card/pkg/logging"
)

// ErrNoRecipient is returned when a welcome has no email address to go to.
var ErrNoRecipient = errors.New("notify: visitor left no email address")

// WelcomeNotice is the content of one visitor's welcome email.
type WelcomeNotice struct {
	To             string
	FirstName      string
	LastName       string
	WelcomeMessage string
	Prayer         string
}

// Service emails visitors the welcome they were shown.
type Service struct {
	email  EmailSender
	church config.ChurchProfile
	policy *bluemonday.Policy
	logger *logging.Logger
}

func NewService(email EmailSender, church config.ChurchProfile, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if email == nil {
		email = NewStubEmailSender(logger)
	}
	return &Service{
		email:  email,
		church: church,
		policy: bluemonday.StrictPolicy(),
		logger: logger,
	}
}

// SendWelcome emails the welcome message and prayer to the visitor.
func (s *Service) SendWelcome(ctx context.Context, n WelcomeNotice) error {
	to := strings.TrimSpace(n.To)
	if to == "" {
		return ErrNoRecipient
	}

	msg := s.welcomeMessage(n)
	msg.To = to
	if err := s.email.Send(ctx, msg); err != nil {
		return fmt.Errorf("notify: send welcome: %w", err)
	}
	s.logger.Info("welcome email sent", "church", s.church.Name)
	return nil
}

func (s *Service) welcomeMessage(n WelcomeNotice) EmailMessage {
	subject := fmt.Sprintf("Welcome to %s, %s!", s.church.Name, n.FirstName)

	text := fmt.Sprintf("%s\n\nA prayer for you:\n%s\n\n%s\n%s",
		n.WelcomeMessage, n.Prayer, s.church.Name, s.church.Address)

	// Generated text is model output; strip any markup before it lands in HTML.
	htmlBody := fmt.Sprintf(`<p>%s</p>
<h3>A prayer for you</h3>
<p><em>%s</em></p>
<p>%s<br>%s</p>`,
		s.clean(n.WelcomeMessage),
		s.clean(n.Prayer),
		html.EscapeString(s.church.Name),
		html.EscapeString(s.church.Address),
	)

	return EmailMessage{
		ToName:  strings.TrimSpace(n.FirstName + " " + n.LastName),
		Subject: subject,
		Text:    text,
		HTML:    htmlBody,
		Tags:    []string{"welcome"},
	}
}

func (s *Service) clean(text string) string {
	return strings.ReplaceAll(s.policy.Sanitize(text), "\n", "<br>")
}
