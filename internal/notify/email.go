package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/wolfman30/connection-card/pkg/logging"
)

const defaultFromName = "Grace Community Church"

// EmailSender delivers one rendered email.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// EmailMessage is a rendered email. Text is required; HTML is optional.
type EmailMessage struct {
	To      string
	ToName  string
	Subject string
	Text    string
	HTML    string
	Tags    []string
}

// From is the church mailbox welcomes are sent from.
type From struct {
	Address string
	Name    string
}

func (f From) withDefaults() From {
	f.Address = strings.TrimSpace(f.Address)
	f.Name = strings.TrimSpace(f.Name)
	if f.Name == "" {
		f.Name = defaultFromName
	}
	return f
}

func (f From) header() string {
	return fmt.Sprintf("%s <%s>", f.Name, f.Address)
}

// recipientDomain keeps visitor addresses out of the logs.
func recipientDomain(addr string) string {
	if i := strings.LastIndex(addr, "@"); i >= 0 {
		return addr[i+1:]
	}
	return ""
}

// StubEmailSender logs instead of sending. Used in development and whenever
// the configured provider is unusable.
type StubEmailSender struct {
	logger *logging.Logger
}

func NewStubEmailSender(logger *logging.Logger) *StubEmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &StubEmailSender{logger: logger}
}

func (s *StubEmailSender) Send(ctx context.Context, msg EmailMessage) error {
	s.logger.Info("email suppressed by stub sender",
		"subject", msg.Subject,
		"recipient_domain", recipientDomain(msg.To),
	)
	return nil
}

var _ EmailSender = (*StubEmailSender)(nil)
