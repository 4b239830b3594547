package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/connection-card/internal/cards"
	appconfig "github.com/wolfman30/connection-card/internal/config"
	"github.com/wolfman30/connection-card/internal/observability/metrics"
	"github.com/wolfman30/connection-card/pkg/logging"
)

// Runtime is the wired card service plus the connections it owns.
type Runtime struct {
	Cards  *cards.Service
	Church appconfig.ChurchProfile
	Redis  *redis.Client
	Pool   *pgxpool.Pool

	closers []func() error
}

// Close releases every connection the runtime opened, newest first.
func (rt *Runtime) Close() error {
	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	rt.closers = nil
	return errors.Join(errs...)
}

// BuildRuntime wires the card service shared by the API and the kiosk.
// awsCfg is nil unless NeedsAWS; a nil reg skips metrics.
func BuildRuntime(ctx context.Context, cfg *appconfig.Config, awsCfg *aws.Config, reg prometheus.Registerer, logger *logging.Logger) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	church, err := appconfig.LoadChurchProfile(cfg.ChurchProfilePath)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	rt := &Runtime{Church: church}
	fail := func(err error) (*Runtime, error) {
		rt.Close()
		return nil, err
	}

	if cfg.SessionStore == "redis" {
		rt.Redis = BuildRedisClient(ctx, cfg, logger, true)
		if rt.Redis != nil {
			rt.closers = append(rt.closers, rt.Redis.Close)
		}
	}
	sessions, err := BuildSessionStore(cfg, rt.Redis, logger)
	if err != nil {
		return fail(err)
	}

	archive, pool, err := BuildCardRepository(ctx, cfg, logger)
	if err != nil {
		return fail(err)
	}
	if pool != nil {
		rt.Pool = pool
		rt.closers = append(rt.closers, func() error { pool.Close(); return nil })
	}

	client, closeLLM, err := BuildLLMClient(ctx, cfg, awsCfg, logger)
	if err != nil {
		return fail(err)
	}
	rt.closers = append(rt.closers, closeLLM)

	var (
		genMetrics  *metrics.GenerationMetrics
		cardMetrics *metrics.CardMetrics
	)
	if reg != nil {
		genMetrics = metrics.NewGenerationMetrics(reg)
		cardMetrics = metrics.NewCardMetrics(reg)
	}
	generator := BuildGenerator(cfg, client, genMetrics, logger)

	opts := []cards.ServiceOption{
		cards.WithArchive(archive),
		cards.WithCardMetrics(cardMetrics),
		cards.WithServiceLogger(logger),
	}
	if cfg.WelcomeEmailEnabled {
		sender, err := BuildEmailSender(cfg, awsCfg, logger)
		if err != nil {
			return fail(err)
		}
		if notifier := BuildNotifier(cfg, sender, church, logger); notifier != nil {
			opts = append(opts, cards.WithNotifier(notifier))
		}
	}

	rt.Cards = cards.NewService(sessions, generator, opts...)
	logger.Info("card service ready",
		"church", church.Name,
		"session_store", cfg.SessionStore,
		"welcome_email", cfg.WelcomeEmailEnabled,
	)
	return rt, nil
}
