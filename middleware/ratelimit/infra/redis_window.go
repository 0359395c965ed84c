package infra

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vitrine/middleware/ratelimit/domain"

	"github.com/redis/go-redis/v9"
)

// RedisWindowStore é a versão compartilhada do WindowStore: todas as réplicas
// contam na mesma chave do Redis (INCR + PEXPIRE no primeiro hit da janela).
type RedisWindowStore struct {
	rdb    redis.Cmdable
	prefix string
	limit  int
	window time.Duration
}

type RedisWindowOption func(*RedisWindowStore)

func WithWindowPrefix(prefix string) RedisWindowOption {
	return func(s *RedisWindowStore) { s.prefix = strings.Trim(prefix, ":") }
}

func NewRedisWindowStore(rdb redis.Cmdable, limit int, window time.Duration, opts ...RedisWindowOption) *RedisWindowStore {
	s := &RedisWindowStore{
		rdb:    rdb,
		prefix: "ratelimit:window",
		limit:  limit,
		window: window,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hit implementa domain.WindowCounter.
func (s *RedisWindowStore) Hit(ctx context.Context, key domain.Key, now time.Time) (domain.WindowResult, error) {
	k := s.prefix + ":" + string(key)

	pipe := s.rdb.TxPipeline()
	incr := pipe.Incr(ctx, k)
	ttl := pipe.PTTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		return domain.WindowResult{}, fmt.Errorf("redis window hit: %w", err)
	}

	remaining := ttl.Val()
	// chave nova (ou que perdeu o TTL): abre a janela agora
	if remaining < 0 {
		if err := s.rdb.PExpire(ctx, k, s.window).Err(); err != nil {
			return domain.WindowResult{}, fmt.Errorf("redis window expire: %w", err)
		}
		remaining = s.window
	}

	return domain.WindowResult{
		Count:   int(incr.Val()),
		Limit:   s.limit,
		ResetAt: now.Add(remaining),
	}, nil
}
