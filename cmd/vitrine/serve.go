package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	firebase "firebase.google.com/go/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"vitrine/api"
	"vitrine/config"
	"vitrine/content"
	"vitrine/logging"
	"vitrine/media"
	"vitrine/metrics"
	"vitrine/middleware/ratelimit/domain"
	"vitrine/middleware/ratelimit/infra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadRuntime()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	var app *firebase.App
	if needsFirebase(cfg) {
		var err error
		if app, err = newFirebaseApp(ctx, cfg); err != nil {
			return err
		}
	}

	store, err := openStore(ctx, cfg, app)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("falha ao fechar store", zap.Error(err))
		}
	}()

	provider, err := newAuthProvider(ctx, cfg, app, logger)
	if err != nil {
		return err
	}
	generator, err := newGenerator(ctx, cfg, logger)
	if err != nil {
		return err
	}

	m := metrics.New()
	catalog := content.NewCatalog(store, content.WithWriteHook(func(collection, op string) {
		m.DocumentWrites.WithLabelValues(collection, op).Inc()
	}))

	contactStore := infra.NewStore(cfg.Contact.RPS, cfg.Contact.Burst)
	contactStore.StartJanitor(ctx)

	counters := infra.NewMemoryStatsStore(infra.WithTrackKeys(cfg.RateStats.TrackKeys))
	stats := infra.MultiStats{infra.NewPrometheusStatsStore(m.RateLimitDecision), counters}

	var aiWindow domain.WindowCounter
	if cfg.Redis.Enabled() {
		rdb, err := newRedis(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()
		m.Registry().MustRegister(redisPoolGauges(rdb)...)

		// janela compartilhada entre réplicas
		aiWindow = infra.NewRedisWindowStore(rdb, cfg.AI.RateLimit, cfg.AI.RateWindow,
			infra.WithWindowPrefix(cfg.AI.WindowPrefix))
		if cfg.RateStats.Enabled {
			stats = append(stats, infra.NewRedisStatsStore(rdb,
				infra.WithStatsPrefix(cfg.RateStats.Prefix),
				infra.WithStatsTTL(cfg.RateStats.TTL),
				infra.WithStatsBucket(cfg.RateStats.Bucket),
				infra.WithStatsTrackKeys(cfg.RateStats.TrackKeys),
			))
		}
	} else {
		window := infra.NewWindowStore(cfg.AI.RateLimit, cfg.AI.RateWindow)
		window.StartJanitor(ctx)
		aiWindow = window
	}

	server := api.New(api.Deps{
		Catalog:        catalog,
		Sessions:       newSessions(cfg, provider, logger),
		Generator:      generator,
		Metrics:        m,
		Logger:         logger.Named("http"),
		AIWindow:       aiWindow,
		ContactLimiter: contactStore,
		RateStats:      stats,
		RateCounters:   counters,
		Options: api.Options{
			CORSOrigins:      cfg.Server.CORSOrigins,
			TrustXFF:         cfg.Server.TrustXFF,
			AIRequireAdmin:   cfg.AI.AdminOnly(),
			AIMaxConcurrent:  cfg.AI.MaxConcurrent,
			AIAcquireTimeout: cfg.AI.AcquireTimeout,
			AITimeout:        cfg.AI.Timeout,
			MaxUploadBytes:   cfg.Media.MaxUploadBytes,
			Media: media.Options{
				MaxWidth:       cfg.Media.MaxWidth,
				Quality:        cfg.Media.Quality,
				MaxOutputBytes: cfg.Media.MaxOutputBytes,
				MaxInputBytes:  cfg.Media.MaxUploadBytes,
				MaxPixels:      cfg.Media.MaxPixels,
			},
		},
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	logger.Info("vitrine iniciando",
		zap.String("addr", cfg.Server.Addr),
		zap.String("version", version),
		zap.String("store", cfg.Store.Driver),
		zap.String("auth", provider.Name()),
		zap.String("ai", generator.Name()),
		zap.String("ai_api_key", logging.Redact(cfg.AI.APIKey)),
		zap.Bool("ai_admin_only", cfg.AI.AdminOnly()),
		zap.Int("ai_rate_limit", cfg.AI.RateLimit),
		zap.Duration("ai_rate_window", cfg.AI.RateWindow),
		zap.Bool("redis", cfg.Redis.Enabled()),
		zap.Bool("rate_stats", cfg.RateStats.Enabled),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		logger.Info("desligando servidor")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// redisPoolGauges expõe o pool de conexões do go-redis.
func redisPoolGauges(rdb *redis.Client) []prometheus.Collector {
	gauge := func(name, help string, fn func(*redis.PoolStats) uint32) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "vitrine",
			Subsystem: "redis_pool",
			Name:      name,
			Help:      help,
		}, func() float64 { return float64(fn(rdb.PoolStats())) })
	}
	return []prometheus.Collector{
		gauge("total_conns", "Connections in the pool.", func(s *redis.PoolStats) uint32 { return s.TotalConns }),
		gauge("idle_conns", "Idle connections in the pool.", func(s *redis.PoolStats) uint32 { return s.IdleConns }),
		gauge("timeouts", "Times a wait for a connection timed out.", func(s *redis.PoolStats) uint32 { return s.Timeouts }),
	}
}
