package infra

import (
	"context"
	"sync"
	"time"

	"vitrine/middleware/ratelimit/domain"
)

// WindowStore é um contador de janela fixa mantido em memória do processo.
//
// A janela de uma chave começa no primeiro hit e dura `window`; o hit seguinte
// ao fim da janela abre uma nova com contagem 1. Em mais de uma réplica cada
// processo conta sozinho; para limite compartilhado use RedisWindowStore.
type WindowStore struct {
	mu      sync.Mutex
	entries map[string]*windowEntry
	limit   int
	window  time.Duration
}

type windowEntry struct {
	start time.Time
	count int
}

func NewWindowStore(limit int, window time.Duration) *WindowStore {
	return &WindowStore{
		entries: make(map[string]*windowEntry),
		limit:   limit,
		window:  window,
	}
}

// Hit implementa domain.WindowCounter.
func (s *WindowStore) Hit(_ context.Context, key domain.Key, now time.Time) (domain.WindowResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.entries[string(key)]
	if !ok || !now.Before(ent.start.Add(s.window)) {
		ent = &windowEntry{start: now}
		s.entries[string(key)] = ent
	}
	ent.count++

	return domain.WindowResult{
		Count:   ent.count,
		Limit:   s.limit,
		ResetAt: ent.start.Add(s.window),
	}, nil
}

// Reset zera todos os contadores.
func (s *WindowStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*windowEntry)
}

// Cleanup remove janelas já encerradas.
func (s *WindowStore) Cleanup() {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, ent := range s.entries {
		if !now.Before(ent.start.Add(s.window)) {
			delete(s.entries, k)
		}
	}
}

func (s *WindowStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// StartJanitor remove janelas expiradas a cada `window`.
func (s *WindowStore) StartJanitor(ctx DoneContext) {
	startJanitor(ctx, s.window, s.Cleanup)
}
