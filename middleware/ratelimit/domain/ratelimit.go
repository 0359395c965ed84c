package domain

// Camada de domínio do rate limit.
//
// Regras e contratos (interfaces/tipos) sem dependência de net/http.

import (
	"context"
	"time"
)

type Key string

// Limiter representa algo que pode decidir se uma ação é permitida agora.
//
// Implementação típica: token-bucket (golang.org/x/time/rate).
type Limiter interface {
	Allow() bool
}

// LimiterStore obtém um limiter por chave (ex: IP, API key, usuário).
// A implementação pode manter cache, TTL, etc.
type LimiterStore interface {
	Get(Key) Limiter
}

// WindowCounter conta hits por chave em janela fixa.
//
// Cada Hit incrementa o contador da janela corrente e devolve o estado após o
// incremento. Implementações: mapa em memória (processo local) ou Redis.
type WindowCounter interface {
	Hit(ctx context.Context, key Key, now time.Time) (WindowResult, error)
}

type WindowResult struct {
	Count   int
	Limit   int
	ResetAt time.Time
}

type Decision struct {
	Allowed bool
	// RetryAfter é o valor a ser retornado em Retry-After quando bloquear.
	// Se 0, não há recomendação.
	RetryAfter time.Duration

	// Preenchidos apenas por limitadores de janela fixa.
	Limit     int
	Remaining int
	ResetAt   time.Time
}
