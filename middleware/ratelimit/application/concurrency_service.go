package application

import (
	"context"
	"errors"
	"time"

	"vitrine/middleware/ratelimit/domain"
)

// ErrSaturated indica que nenhuma vaga ficou livre dentro do AcquireTimeout.
var ErrSaturated = errors.New("ratelimit: no free slot")

// ConcurrencyService controla a aquisição de vagas com timeout,
// sem saber nada sobre HTTP.
type ConcurrencyService struct {
	Pool           domain.SlotPool
	AcquireTimeout time.Duration
}

// Acquire tenta adquirir uma vaga.
//   - AcquireTimeout <= 0: espera até o ctx encerrar.
//   - AcquireTimeout > 0: espera até o timeout.
//
// Quando o próprio ctx do chamador encerrou, devolve ctx.Err() em vez de
// ErrSaturated, para não contar cliente desconectado como saturação.
func (s ConcurrencyService) Acquire(ctx context.Context) (func(), error) {
	if s.Pool == nil {
		return func() {}, nil
	}

	acqCtx := ctx
	if s.AcquireTimeout > 0 {
		var cancel context.CancelFunc
		acqCtx, cancel = context.WithTimeout(ctx, s.AcquireTimeout)
		defer cancel()
	}

	release, ok := s.Pool.Acquire(acqCtx)
	if ok {
		return release, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return nil, ErrSaturated
}
