package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "aula:session:"

// RedisContexts is a Redis-backed ContextStore, so session contexts
// survive process restarts. Entries carry no TTL: tokens never expire on
// their own, matching the store-side policy.
type RedisContexts struct {
	client *redis.Client
}

// NewRedisContexts creates a Redis-backed context store.
func NewRedisContexts(client *redis.Client) *RedisContexts {
	return &RedisContexts{client: client}
}

func (r *RedisContexts) Put(ctx context.Context, s Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := r.client.Set(ctx, sessionKeyPrefix+s.Token, data, 0).Err(); err != nil {
		return fmt.Errorf("storing session: %w", err)
	}
	return nil
}

func (r *RedisContexts) Get(ctx context.Context, token string) (Session, bool, error) {
	data, err := r.client.Get(ctx, sessionKeyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, fmt.Errorf("loading session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, false, fmt.Errorf("decoding session: %w", err)
	}
	return s, true, nil
}

func (r *RedisContexts) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}
