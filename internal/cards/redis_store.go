package cards

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only when it still carries the caller's
// token, so an expired holder cannot free a lock another replica took over.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisSessionStore keeps drafts in Redis so any API replica can serve a
// visitor. The draft lock is a SETNX key holding a per-acquire token; it
// expires on its own if a replica dies mid-generation.
type RedisSessionStore struct {
	redis   *redis.Client
	ttl     time.Duration
	lockTTL time.Duration
}

// NewRedisSessionStore creates a store. ttl bounds how long an idle draft
// lives; lockTTL must exceed the generation timeout.
func NewRedisSessionStore(client *redis.Client, ttl, lockTTL time.Duration) *RedisSessionStore {
	if client == nil {
		panic("cards: redis client required")
	}
	return &RedisSessionStore{redis: client, ttl: ttl, lockTTL: lockTTL}
}

func (s *RedisSessionStore) key(id string) string {
	return fmt.Sprintf("card:draft:%s", id)
}

func (s *RedisSessionStore) lockKey(id string) string {
	return fmt.Sprintf("card:draft:%s:lock", id)
}

func (s *RedisSessionStore) Save(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("cards: marshal draft: %w", err)
	}
	if err := s.redis.Set(ctx, s.key(sess.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("cards: save draft: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := s.redis.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("cards: get draft: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("cards: unmarshal draft: %w", err)
	}
	return &sess, nil
}

func (s *RedisSessionStore) Acquire(ctx context.Context, id string) (string, bool, error) {
	token := uuid.NewString()
	ok, err := s.redis.SetNX(ctx, s.lockKey(id), token, s.lockTTL).Result()
	if err != nil {
		return "", false, fmt.Errorf("cards: acquire draft lock: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

func (s *RedisSessionStore) Release(ctx context.Context, id, token string) error {
	if err := releaseScript.Run(ctx, s.redis, []string{s.lockKey(id)}, token).Err(); err != nil {
		return fmt.Errorf("cards: release draft lock: %w", err)
	}
	return nil
}
