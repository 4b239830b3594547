package bootstrap

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/connection-card/internal/cards"
	appconfig "github.com/wolfman30/connection-card/internal/config"
	"github.com/wolfman30/connection-card/pkg/logging"
)

// submitLockSlack is added to the generation timeout so a Redis submit lock
// outlives the slowest generation it guards.
const submitLockSlack = 10 * time.Second

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		client.Close()
		return nil
	}
	return client
}

// BuildSessionStore picks the draft session store named by SESSION_STORE.
// Redis falls back to memory when no client is available so a single kiosk
// install keeps working without Redis.
func BuildSessionStore(cfg *appconfig.Config, redisClient *redis.Client, logger *logging.Logger) (cards.SessionStore, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	switch cfg.SessionStore {
	case "", "memory":
		logger.Info("using in-memory draft sessions", "ttl", cfg.SessionTTL.String())
		return cards.NewInMemorySessionStore(cfg.SessionTTL), nil
	case "redis":
		if redisClient == nil {
			logger.Warn("SESSION_STORE=redis but redis is unavailable; using in-memory draft sessions")
			return cards.NewInMemorySessionStore(cfg.SessionTTL), nil
		}
		lockTTL := cfg.GenerationTimeout + submitLockSlack
		logger.Info("using redis draft sessions", "addr", cfg.RedisAddr, "ttl", cfg.SessionTTL.String())
		return cards.NewRedisSessionStore(redisClient, cfg.SessionTTL, lockTTL), nil
	default:
		return nil, fmt.Errorf("bootstrap: unknown session store %q", cfg.SessionStore)
	}
}

// BuildCardRepository connects the card archive. Without DATABASE_URL cards
// are kept in memory and lost on restart. The returned pool is nil in that
// case; callers close it on shutdown otherwise.
func BuildCardRepository(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (cards.Repository, *pgxpool.Pool, error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		logger.Warn("DATABASE_URL not set; archiving cards in memory")
		return cards.NewInMemoryRepository(), nil, nil
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("bootstrap: connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("bootstrap: ping postgres: %w", err)
	}
	logger.Info("archiving cards in postgres")
	return cards.NewPostgresRepository(pool), pool, nil
}
