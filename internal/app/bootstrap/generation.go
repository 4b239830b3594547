package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	appconfig "github.com/wolfman30/connection-card/internal/config"
	"github.com/wolfman30/connection-card/internal/observability/metrics"
	"github.com/wolfman30/connection-card/internal/welcome"
	"github.com/wolfman30/connection-card/pkg/logging"
)

// BuildLLMClient wires Gemini as the primary provider with Bedrock as an
// optional secondary. It returns a nil client when neither is configured;
// the generator then always uses the fixed fallback welcome. awsCfg may be
// nil when Bedrock is not configured. The returned close func is never nil.
func BuildLLMClient(ctx context.Context, cfg *appconfig.Config, awsCfg *aws.Config, logger *logging.Logger) (welcome.LLMClient, func() error, error) {
	noop := func() error { return nil }
	if cfg == nil {
		return nil, noop, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var (
		primary   welcome.LLMClient
		secondary welcome.LLMClient
		closer    = noop
	)

	if key := strings.TrimSpace(cfg.GeminiAPIKey); key != "" {
		gemini, err := welcome.NewGeminiLLMClient(ctx, key, cfg.GeminiModelID)
		if err != nil {
			return nil, noop, fmt.Errorf("bootstrap: gemini client: %w", err)
		}
		primary = gemini
		closer = gemini.Close
		logger.Info("gemini generation enabled", "model", cfg.GeminiModelID)
	}

	if model := strings.TrimSpace(cfg.BedrockModelID); model != "" {
		if awsCfg == nil {
			logger.Warn("BEDROCK_MODEL_ID set but no AWS config loaded; skipping bedrock")
		} else {
			secondary = welcome.NewBedrockLLMClient(bedrockruntime.NewFromConfig(*awsCfg), model)
			logger.Info("bedrock generation enabled", "model", model)
		}
	}

	switch {
	case primary != nil && secondary != nil:
		return welcome.NewFallbackLLMClient(primary, secondary, logger), closer, nil
	case primary != nil:
		return primary, closer, nil
	case secondary != nil:
		return secondary, closer, nil
	default:
		logger.Warn("no generation provider configured; visitors will see the fallback welcome")
		return nil, closer, nil
	}
}

// BuildGenerator wraps the LLM client in the welcome generator with the
// configured timeout and metrics.
func BuildGenerator(cfg *appconfig.Config, client welcome.LLMClient, m *metrics.GenerationMetrics, logger *logging.Logger) *welcome.Generator {
	opts := []welcome.Option{
		welcome.WithLogger(logger),
		welcome.WithMetrics(m),
	}
	if cfg != nil {
		if cfg.GeminiModelID != "" {
			opts = append(opts, welcome.WithModel(cfg.GeminiModelID))
		}
		if cfg.GenerationTimeout > 0 {
			opts = append(opts, welcome.WithTimeout(cfg.GenerationTimeout))
		}
	}
	return welcome.NewGenerator(client, opts...)
}
