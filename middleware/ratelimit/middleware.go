package ratelimit

import (
	"math"
	"net"
	"net/http"
	"strings"
	"time"

	"vitrine/middleware/ratelimit/application"
	"vitrine/middleware/ratelimit/domain"
)

type KeyFunc func(r *http.Request) string

// Options configura o middleware. Informe Store (token bucket) ou Window
// (janela fixa); se os dois vierem, Window vence.
type Options struct {
	// Name identifica o limitador nas estatísticas (ex: "ai", "contact").
	Name                string
	Store               domain.LimiterStore
	Window              domain.WindowCounter
	Stats               domain.StatsStore
	KeyFn               KeyFunc
	KeyHeader           string
	TrustXForwardedFor  bool
	RejectStatus        int
	RetryAfter          time.Duration
	AddRateLimitHeaders bool

	// OnReject e OnError são ganchos de log; nenhum deles altera a resposta.
	// OnError recebe falhas do contador da janela (a requisição passa) e do
	// Stats.
	OnReject func(r *http.Request, key string, dec domain.Decision)
	OnError  func(r *http.Request, err error)
}

type rateInfo interface {
	RPS() float64
	Burst() int
}

func DefaultKeyFunc(keyHeader string, trustXFF bool) KeyFunc {
	return func(r *http.Request) string {
		if keyHeader != "" {
			if v := strings.TrimSpace(r.Header.Get(keyHeader)); v != "" {
				return v
			}
		}

		if trustXFF {
			// primeiro IP do X-Forwarded-For é o cliente original
			if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
				first, _, _ := strings.Cut(xff, ",")
				if ip := strings.TrimSpace(first); ip != "" {
					return ip
				}
			}
		}

		return ClientIP(r)
	}
}

// ClientIP devolve o host de RemoteAddr, sem porta.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}

func Middleware(opts Options) func(next http.Handler) http.Handler {
	if opts.RejectStatus == 0 {
		opts.RejectStatus = http.StatusTooManyRequests
	}
	if opts.RetryAfter == 0 {
		opts.RetryAfter = 1 * time.Second
	}
	if opts.KeyFn == nil {
		opts.KeyFn = DefaultKeyFunc(opts.KeyHeader, opts.TrustXForwardedFor)
	}

	bucket := application.Service{
		Store:      opts.Store,
		RetryAfter: opts.RetryAfter,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := opts.KeyFn(r)

			var svc application.Decider = bucket
			if opts.Window != nil {
				svc = application.WindowService{
					Counter: opts.Window,
					OnError: func(_ domain.Key, err error) {
						if opts.OnError != nil {
							opts.OnError(r, err)
						}
					},
				}
			}
			dec := svc.Decide(r.Context(), domain.Key(key))

			if opts.AddRateLimitHeaders {
				writeRateHeaders(w, opts.Store, dec)
			}

			if opts.Stats != nil {
				err := opts.Stats.Record(r.Context(), domain.StatsEvent{
					Limiter: opts.Name,
					Key:     domain.Key(key),
					Allowed: dec.Allowed,
					Method:  r.Method,
					Path:    r.URL.Path,
					At:      time.Now(),
				})
				if err != nil && opts.OnError != nil {
					opts.OnError(r, err)
				}
			}

			if !dec.Allowed {
				if opts.OnReject != nil {
					opts.OnReject(r, key, dec)
				}
				w.Header().Set("Retry-After", formatInt(retryAfterSeconds(dec.RetryAfter)))
				writeJSONError(w, opts.RejectStatus, "too many requests, please try again later")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeRateHeaders(w http.ResponseWriter, store domain.LimiterStore, dec domain.Decision) {
	if dec.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", formatInt(dec.Limit))
		w.Header().Set("X-RateLimit-Remaining", formatInt(dec.Remaining))
		w.Header().Set("X-RateLimit-Reset", formatInt(int(dec.ResetAt.Unix())))
		return
	}
	if ri, ok := store.(rateInfo); ok {
		w.Header().Set("X-RateLimit-RPS", formatFloat(ri.RPS()))
		w.Header().Set("X-RateLimit-Burst", formatInt(ri.Burst()))
	}
}

// retryAfterSeconds arredonda para cima: Retry-After menor que o real faz o
// cliente voltar antes da janela abrir.
func retryAfterSeconds(d time.Duration) int {
	s := int(math.Ceil(d.Seconds()))
	if s < 1 {
		return 1
	}
	return s
}
