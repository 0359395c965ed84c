package domain

import (
	"context"
	"time"
)

// StatsEvent representa um evento de decisão do rate limit.
//
// Limiter identifica qual limitador decidiu (ex: "ai", "contact"), já que o
// mesmo processo monta mais de um middleware.
//
// Cuidado com cardinalidade: Key/Path sem controle podem explodir o número de
// séries/chaves no Redis ou no Prometheus.
type StatsEvent struct {
	Limiter string
	Key     Key
	Allowed bool

	Method string
	Path   string

	At time.Time
}

// StatsStore é a estratégia de persistência para estatísticas do rate limit.
//
// O middleware trata erro como best-effort (não derruba request).
type StatsStore interface {
	Record(ctx context.Context, ev StatsEvent) error
}
