package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"vitrine/ai"
	"vitrine/auth"
	"vitrine/config"
	"vitrine/docstore"
)

// needsFirebase informa se algum componente usa o projeto Firebase.
func needsFirebase(cfg *config.Config) bool {
	return cfg.Store.Driver == config.StoreFirestore || cfg.Auth.Mode == config.AuthFirebase
}

func newFirebaseApp(ctx context.Context, cfg *config.Config) (*firebase.App, error) {
	var opts []option.ClientOption
	if cfg.Firebase.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Firebase.CredentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.Firebase.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	return app, nil
}

func openStore(ctx context.Context, cfg *config.Config, app *firebase.App) (docstore.Store, error) {
	switch cfg.Store.Driver {
	case config.StoreMemory:
		return docstore.NewMemoryStore(), nil
	case config.StoreSQLite:
		return docstore.OpenSQLite(ctx, cfg.Store.SQLitePath)
	case config.StoreFirestore:
		if app == nil {
			return nil, errors.New("firestore store requires a firebase app")
		}
		client, err := app.Firestore(ctx)
		if err != nil {
			return nil, fmt.Errorf("firestore client: %w", err)
		}
		return docstore.NewFirestoreStore(client), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

func newAuthProvider(ctx context.Context, cfg *config.Config, app *firebase.App, logger *zap.Logger) (auth.Provider, error) {
	switch cfg.Auth.Mode {
	case config.AuthFirebase:
		if app == nil {
			return nil, errors.New("firebase auth requires a firebase app")
		}
		client, err := app.Auth(ctx)
		if err != nil {
			return nil, fmt.Errorf("firebase auth client: %w", err)
		}
		return auth.NewFirebaseProvider(client), nil
	case config.AuthJWT:
		return auth.NewJWTProvider(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)
	case config.AuthDev:
		logger.Warn("auth.mode=dev: aceitando tokens fixos de desenvolvimento; não use em produção",
			zap.Strings("tokens", []string{auth.DevAdminToken, auth.DevUserToken}))
		return auth.NewDevProvider(cfg.Auth.AdminClaim), nil
	}
	return nil, fmt.Errorf("unknown auth mode %q", cfg.Auth.Mode)
}

func newSessions(cfg *config.Config, provider auth.Provider, logger *zap.Logger) *auth.Sessions {
	return &auth.Sessions{
		Provider: provider,
		Policy: auth.Policy{
			AdminEmails: cfg.Auth.AdminEmails,
			AdminUIDs:   cfg.Auth.AdminUIDs,
			AdminClaim:  cfg.Auth.AdminClaim,
		},
		CookieName: cfg.Auth.CookieName,
		Secure:     cfg.Auth.CookieSecure,
		TTL:        cfg.Auth.SessionTTL,
		Logger:     logger.Named("auth"),
	}
}

// newGenerator usa Gemini quando há chave; sem ela, texto de exemplo.
func newGenerator(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ai.Generator, error) {
	if cfg.AI.APIKey == "" {
		logger.Info("ai.api_key vazio: usando gerador de exemplo")
		return ai.PlaceholderGenerator{}, nil
	}
	return ai.NewGenAIGenerator(ctx, cfg.AI.APIKey, cfg.AI.Model)
}

func newRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Redis.Addr, err)
	}
	return rdb, nil
}
