package bootstrap

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"

	appconfig "github.com/wolfman30/connection-card/internal/config"
	"github.com/wolfman30/connection-card/internal/notify"
	"github.com/wolfman30/connection-card/pkg/logging"
)

// BuildEmailSender selects the welcome email provider from EMAIL_PROVIDER.
// Misconfigured providers degrade to the stub sender so a missing key never
// blocks a visitor from seeing their welcome.
func BuildEmailSender(cfg *appconfig.Config, awsCfg *aws.Config, logger *logging.Logger) (notify.EmailSender, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	from := notify.From{Address: cfg.EmailFromAddress, Name: cfg.EmailFromName}
	provider := strings.ToLower(strings.TrimSpace(cfg.EmailProvider))
	switch provider {
	case "", "stub":
		return notify.NewStubEmailSender(logger), nil
	case "sendgrid":
		sender := notify.NewSendGridSender(cfg.SendGridAPIKey, from, logger)
		if sender == nil {
			logger.Warn("EMAIL_PROVIDER=sendgrid but SENDGRID_API_KEY is empty; using stub sender")
			return notify.NewStubEmailSender(logger), nil
		}
		return sender, nil
	case "ses":
		if awsCfg == nil {
			logger.Warn("EMAIL_PROVIDER=ses but no AWS config loaded; using stub sender")
			return notify.NewStubEmailSender(logger), nil
		}
		return notify.NewSESSender(sesv2.NewFromConfig(*awsCfg), from, logger), nil
	default:
		return nil, fmt.Errorf("bootstrap: unknown email provider %q", cfg.EmailProvider)
	}
}

// BuildNotifier returns the welcome email service, or nil when welcome
// emails are turned off.
func BuildNotifier(cfg *appconfig.Config, sender notify.EmailSender, church appconfig.ChurchProfile, logger *logging.Logger) *notify.Service {
	if cfg == nil || !cfg.WelcomeEmailEnabled {
		return nil
	}
	return notify.NewService(sender, church, logger)
}

// NeedsAWS reports whether any configured component talks to AWS.
func NeedsAWS(cfg *appconfig.Config) bool {
	if cfg == nil {
		return false
	}
	if strings.TrimSpace(cfg.BedrockModelID) != "" {
		return true
	}
	return cfg.WelcomeEmailEnabled && strings.EqualFold(strings.TrimSpace(cfg.EmailProvider), "ses")
}
