package ratelimit

import (
	"errors"
	"net/http"
	"time"

	"vitrine/middleware/ratelimit/application"
	"vitrine/middleware/ratelimit/infra"
)

type ConcurrencyOptions struct {
	Max            int
	RejectStatus   int
	AcquireTimeout time.Duration

	// OnSaturated é chamado quando a requisição é recusada por falta de vaga.
	OnSaturated func(r *http.Request)
}

// ConcurrencyMiddleware limita quantas requisições executam ao mesmo tempo.
// Max <= 0 desliga o limite.
func ConcurrencyMiddleware(opts ConcurrencyOptions) func(next http.Handler) http.Handler {
	if opts.Max <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if opts.RejectStatus == 0 {
		opts.RejectStatus = http.StatusServiceUnavailable
	}

	svc := application.ConcurrencyService{
		Pool:           infra.NewChanPool(opts.Max),
		AcquireTimeout: opts.AcquireTimeout,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			release, err := svc.Acquire(r.Context())
			if err != nil {
				if !errors.Is(err, application.ErrSaturated) {
					// cliente desistiu; não há a quem responder
					return
				}
				if opts.OnSaturated != nil {
					opts.OnSaturated(r)
				}
				writeJSONError(w, opts.RejectStatus, "service busy, please try again later")
				return
			}
			defer release()

			next.ServeHTTP(w, r)
		})
	}
}
