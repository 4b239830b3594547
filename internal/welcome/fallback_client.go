package welcome

import (
	"context"
	"errors"
	"fmt"

	"github.com/wolfman30/connection-card/pkg/logging"
)

// FallbackLLMClient sends a welcome request to the primary provider and, if
// that fails, once to the secondary. Both share the caller's deadline.
type FallbackLLMClient struct {
	primary   LLMClient
	secondary LLMClient
	logger    *logging.Logger
}

// NewFallbackLLMClient creates a failover client. A nil secondary makes it a
// pass-through to the primary.
func NewFallbackLLMClient(primary, secondary LLMClient, logger *logging.Logger) *FallbackLLMClient {
	if primary == nil {
		panic("welcome: primary llm client cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &FallbackLLMClient{
		primary:   primary,
		secondary: secondary,
		logger:    logger,
	}
}

func (c *FallbackLLMClient) ProviderName() string { return providerName(c.primary) }

func (c *FallbackLLMClient) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	primary := providerName(c.primary)
	resp, err := c.primary.Complete(ctx, req)
	if err == nil {
		if resp.Provider == "" {
			resp.Provider = primary
		}
		return resp, nil
	}

	if c.secondary == nil {
		c.logger.Warn("welcome provider failed; no secondary configured", "provider", primary, "error", err)
		return LLMResponse{}, err
	}
	// The deadline covers the whole welcome; a timed-out primary leaves
	// nothing for the secondary.
	if ctxErr := ctx.Err(); ctxErr != nil {
		c.logger.Warn("welcome provider failed at deadline; skipping secondary", "provider", primary, "error", err)
		return LLMResponse{}, err
	}

	secondary := providerName(c.secondary)
	c.logger.Warn("welcome provider failed; trying secondary",
		"provider", primary,
		"secondary", secondary,
		"error", err,
	)

	resp, secondaryErr := c.secondary.Complete(ctx, req)
	if secondaryErr != nil {
		return LLMResponse{}, errors.Join(
			fmt.Errorf("%s: %w", primary, err),
			fmt.Errorf("%s: %w", secondary, secondaryErr),
		)
	}
	if resp.Provider == "" {
		resp.Provider = secondary
	}
	c.logger.Info("welcome generated by secondary provider", "provider", resp.Provider)
	return resp, nil
}
