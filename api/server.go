// Package api monta a superfície HTTP do vitrine: rotas públicas do site,
// autenticação, proxy de IA e o CRUD do painel administrativo.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"vitrine/ai"
	"vitrine/auth"
	"vitrine/content"
	"vitrine/media"
	"vitrine/metrics"
	"vitrine/middleware/ratelimit"
	"vitrine/middleware/ratelimit/domain"
	"vitrine/middleware/ratelimit/infra"
)

const defaultMaxJSONBytes = 1 << 20

type Options struct {
	CORSOrigins []string
	TrustXFF    bool

	AIRequireAdmin   bool
	AIMaxConcurrent  int
	AIAcquireTimeout time.Duration
	AITimeout        time.Duration

	MaxJSONBytes   int64
	MaxUploadBytes int64
	Media          media.Options
}

// Deps são as dependências já construídas pelo comando serve.
type Deps struct {
	Catalog   *content.Catalog
	Sessions  *auth.Sessions
	Generator ai.Generator
	Metrics   *metrics.Metrics
	Logger    *zap.Logger

	// AIWindow é o contador da janela fixa do /api/ai/generate.
	AIWindow domain.WindowCounter
	// ContactLimiter é o token bucket do formulário de contato.
	ContactLimiter domain.LimiterStore
	// RateStats recebe as decisões dos dois limitadores (opcional).
	RateStats domain.StatsStore
	// RateCounters alimenta GET /api/admin/ratelimit (opcional).
	RateCounters *infra.MemoryStatsStore

	Options Options
}

type Server struct {
	catalog   *content.Catalog
	sessions  *auth.Sessions
	generator ai.Generator
	metrics   *metrics.Metrics
	log       *zap.Logger
	deps      Deps
	opts      Options
}

func New(d Deps) *Server {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Metrics == nil {
		d.Metrics = metrics.New()
	}
	if d.Generator == nil {
		d.Generator = ai.PlaceholderGenerator{}
	}
	o := d.Options
	if o.MaxJSONBytes <= 0 {
		o.MaxJSONBytes = defaultMaxJSONBytes
	}
	if o.MaxUploadBytes <= 0 {
		o.MaxUploadBytes = media.DefaultMaxInputBytes
	}
	if o.Media.MaxInputBytes <= 0 {
		o.Media.MaxInputBytes = o.MaxUploadBytes
	}
	if o.AITimeout <= 0 {
		o.AITimeout = 60 * time.Second
	}
	return &Server{
		catalog:   d.Catalog,
		sessions:  d.Sessions,
		generator: d.Generator,
		metrics:   d.Metrics,
		log:       d.Logger,
		deps:      d,
		opts:      o,
	}
}

// Handler devolve o roteador completo.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.observe)
	r.Use(s.recoverer)
	r.Use(cors(s.opts.CORSOrigins))
	r.Use(s.sessions.Load)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.With(s.contactLimit()).Post("/contact", s.handleContact)

		r.Group(func(r chi.Router) {
			r.Use(s.aiLimit())
			r.Use(ratelimit.ConcurrencyMiddleware(ratelimit.ConcurrencyOptions{
				Max:            s.opts.AIMaxConcurrent,
				AcquireTimeout: s.opts.AIAcquireTimeout,
				OnSaturated: func(r *http.Request) {
					s.log.Warn("geração de IA saturada", zap.String("request_id", middleware.GetReqID(r.Context())))
				},
			}))
			if s.opts.AIRequireAdmin {
				r.Use(auth.RequireAdmin)
			}
			r.Post("/ai/generate", s.handleGenerate)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/session", s.handleSessionCreate)
			r.Delete("/session", s.handleSessionDelete)
			r.Get("/status", s.handleStatus)
			r.Post("/verify", s.handleVerify)
		})

		r.Get("/content/{collection}", s.handlePublicList)
		r.Get("/content/{collection}/{idOrSlug}", s.handlePublicGet)

		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.RequireAdmin)
			r.Post("/images", s.handleImageUpload)
			r.Get("/ratelimit", s.handleRateCounters)
			r.Get("/{collection}", s.handleAdminList)
			r.Post("/{collection}", s.handleAdminCreate)
			r.Get("/{collection}/{id}", s.handleAdminGet)
			r.Put("/{collection}/{id}", s.handleAdminUpdate)
			r.Patch("/{collection}/{id}", s.handleAdminUpdate)
			r.Delete("/{collection}/{id}", s.handleAdminDelete)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

func (s *Server) aiLimit() func(http.Handler) http.Handler {
	if s.deps.AIWindow == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return ratelimit.Middleware(ratelimit.Options{
		Name:                "ai",
		Window:              s.deps.AIWindow,
		Stats:               s.deps.RateStats,
		TrustXForwardedFor:  s.opts.TrustXFF,
		AddRateLimitHeaders: true,
		OnReject:            s.logReject,
		OnError:             s.logLimiterError,
	})
}

func (s *Server) contactLimit() func(http.Handler) http.Handler {
	if s.deps.ContactLimiter == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	// Retry-After = tempo até o próximo token
	retry := time.Second
	if ri, ok := s.deps.ContactLimiter.(interface{ RPS() float64 }); ok && ri.RPS() > 0 {
		retry = time.Duration(float64(time.Second) / ri.RPS())
	}
	return ratelimit.Middleware(ratelimit.Options{
		Name:               "contact",
		Store:              s.deps.ContactLimiter,
		RetryAfter:         retry,
		Stats:              s.deps.RateStats,
		TrustXForwardedFor: s.opts.TrustXFF,
		OnReject:           s.logReject,
		OnError:            s.logLimiterError,
	})
}

func (s *Server) logReject(r *http.Request, key string, dec domain.Decision) {
	s.log.Info("requisição limitada",
		zap.String("path", r.URL.Path),
		zap.String("key", key),
		zap.Duration("retry_after", dec.RetryAfter),
	)
}

func (s *Server) logLimiterError(r *http.Request, err error) {
	s.log.Warn("rate limit best-effort falhou", zap.String("path", r.URL.Path), zap.Error(err))
}

// handleRateCounters mostra os contadores do processo atual; com várias
// réplicas o agregado fica no Redis e no Prometheus.
func (s *Server) handleRateCounters(w http.ResponseWriter, _ *http.Request) {
	c := s.deps.RateCounters
	if c == nil {
		writeJSONError(w, http.StatusNotFound, "rate limit counters are disabled")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total":     c.Total(),
		"byLimiter": c.ByLimiter(),
		"byRoute":   c.ByRoute(),
		"byKey":     c.ByKey(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
