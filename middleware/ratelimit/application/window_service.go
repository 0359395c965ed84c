package application

import (
	"context"
	"time"

	"vitrine/middleware/ratelimit/domain"
)

// WindowService aplica o rate limit por janela fixa (N hits por janela).
//
// Erro do contador libera a requisição (fail-open) e é repassado em OnError,
// se configurado.
type WindowService struct {
	Counter domain.WindowCounter
	Now     func() time.Time
	OnError func(key domain.Key, err error)
}

func (s WindowService) Decide(ctx context.Context, key domain.Key) domain.Decision {
	if s.Counter == nil {
		return domain.Decision{Allowed: true}
	}
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}

	res, err := s.Counter.Hit(ctx, key, now)
	if err != nil {
		if s.OnError != nil {
			s.OnError(key, err)
		}
		return domain.Decision{Allowed: true}
	}

	remaining := res.Limit - res.Count
	if remaining < 0 {
		remaining = 0
	}
	dec := domain.Decision{
		Allowed:   res.Count <= res.Limit,
		Limit:     res.Limit,
		Remaining: remaining,
		ResetAt:   res.ResetAt,
	}
	if !dec.Allowed {
		dec.RetryAfter = res.ResetAt.Sub(now)
		if dec.RetryAfter < time.Second {
			dec.RetryAfter = time.Second
		}
	}
	return dec
}
