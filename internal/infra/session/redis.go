package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "console:session:"

// RedisStore guarda cada sessão como JSON com TTL igual à expiração.
type RedisStore struct {
	client redis.Cmdable
}

func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, id string) (Record, error) {
	raw, err := s.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("erro ao buscar sessão no redis: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, fmt.Errorf("sessão corrompida no redis: %w", err)
	}
	return rec, nil
}

func (s *RedisStore) Put(ctx context.Context, rec Record) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("erro ao serializar sessão: %w", err)
	}

	var ttl time.Duration
	if !rec.ExpiresAt.IsZero() {
		ttl = time.Until(rec.ExpiresAt)
		if ttl <= 0 {
			return s.Delete(ctx, rec.ID)
		}
	}

	if err := s.client.Set(ctx, redisKeyPrefix+rec.ID, body, ttl).Err(); err != nil {
		return fmt.Errorf("erro ao salvar sessão no redis: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("erro ao remover sessão no redis: %w", err)
	}
	return nil
}

// DeleteExpired não tem trabalho a fazer: o redis expira as chaves pelo TTL.
func (s *RedisStore) DeleteExpired(context.Context, time.Time) (int, error) {
	return 0, nil
}
