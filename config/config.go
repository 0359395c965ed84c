// Package config carrega a configuração do vitrine: arquivo YAML opcional,
// sobrescrito por variáveis de ambiente VITRINE_*.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	Store     StoreConfig     `koanf:"store"`
	Firebase  FirebaseConfig  `koanf:"firebase"`
	Auth      AuthConfig      `koanf:"auth"`
	AI        AIConfig        `koanf:"ai"`
	Contact   ContactConfig   `koanf:"contact"`
	Redis     RedisConfig     `koanf:"redis"`
	RateStats RateStatsConfig `koanf:"ratestats"`
	Media     MediaConfig     `koanf:"media"`
}

type ServerConfig struct {
	Addr              string        `koanf:"addr"`
	TrustXFF          bool          `koanf:"trust_xff"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	IdleTimeout       time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json | console
}

const (
	StoreMemory    = "memory"
	StoreSQLite    = "sqlite"
	StoreFirestore = "firestore"
)

type StoreConfig struct {
	Driver     string `koanf:"driver"`
	SQLitePath string `koanf:"sqlite_path"`
}

type FirebaseConfig struct {
	ProjectID       string `koanf:"project_id"`
	CredentialsFile string `koanf:"credentials_file"`
}

const (
	AuthFirebase = "firebase"
	AuthJWT      = "jwt"
	AuthDev      = "dev"
)

type AuthConfig struct {
	Mode         string        `koanf:"mode"`
	JWTSecret    string        `koanf:"jwt_secret"`
	JWTIssuer    string        `koanf:"jwt_issuer"`
	SessionTTL   time.Duration `koanf:"session_ttl"`
	CookieName   string        `koanf:"cookie_name"`
	CookieSecure bool          `koanf:"cookie_secure"`
	AdminEmails  []string      `koanf:"admin_emails"`
	AdminUIDs    []string      `koanf:"admin_uids"`
	AdminClaim   string        `koanf:"admin_claim"`
}

type AIConfig struct {
	APIKey         string        `koanf:"api_key"`
	Model          string        `koanf:"model"`
	RateLimit      int           `koanf:"rate_limit"`
	RateWindow     time.Duration `koanf:"rate_window"`
	MaxConcurrent  int           `koanf:"max_concurrent"`
	AcquireTimeout time.Duration `koanf:"acquire_timeout"`
	RequireAdmin   *bool         `koanf:"require_admin"`
	Timeout        time.Duration `koanf:"timeout"`
	// WindowPrefix é o prefixo das chaves da janela no Redis.
	WindowPrefix string `koanf:"window_prefix"`
}

// AdminOnly informa se /api/ai/generate exige sessão de admin (padrão: sim).
func (c AIConfig) AdminOnly() bool {
	return c.RequireAdmin == nil || *c.RequireAdmin
}

type ContactConfig struct {
	RPS   float64 `koanf:"rps"`
	Burst int     `koanf:"burst"`
}

type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// Enabled indica se há Redis configurado; com ele a janela do limite de IA
// passa a ser compartilhada entre réplicas.
func (c RedisConfig) Enabled() bool { return strings.TrimSpace(c.Addr) != "" }

type RateStatsConfig struct {
	Enabled   bool          `koanf:"enabled"`
	Prefix    string        `koanf:"prefix"`
	TTL       time.Duration `koanf:"ttl"`
	Bucket    string        `koanf:"bucket"`
	TrackKeys bool          `koanf:"track_keys"`
}

type MediaConfig struct {
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`
	MaxWidth       int   `koanf:"max_width"`
	Quality        int   `koanf:"quality"`
	MaxOutputBytes int   `koanf:"max_output_bytes"`
	MaxPixels      int   `koanf:"max_pixels"`
}

func applyDefaults(c *Config) {
	setDefault(&c.Server.Addr, ":8080")
	setDefaultDuration(&c.Server.ReadHeaderTimeout, 10*time.Second)
	setDefaultDuration(&c.Server.ReadTimeout, 30*time.Second)
	// geração de IA pode demorar; o write timeout precisa cobrir o ai.timeout
	setDefaultDuration(&c.Server.WriteTimeout, 90*time.Second)
	setDefaultDuration(&c.Server.IdleTimeout, 90*time.Second)
	setDefaultDuration(&c.Server.ShutdownTimeout, 10*time.Second)

	setDefault(&c.Log.Level, "info")
	setDefault(&c.Log.Format, "json")

	setDefault(&c.Store.Driver, StoreMemory)
	setDefault(&c.Store.SQLitePath, "vitrine.db")

	setDefault(&c.Auth.Mode, AuthFirebase)
	setDefault(&c.Auth.JWTIssuer, "vitrine")
	setDefaultDuration(&c.Auth.SessionTTL, 5*24*time.Hour)
	setDefault(&c.Auth.CookieName, "session")
	setDefault(&c.Auth.AdminClaim, "admin")

	setDefault(&c.AI.Model, "gemini-2.5-flash")
	if c.AI.RateLimit == 0 {
		c.AI.RateLimit = 10
	}
	setDefaultDuration(&c.AI.RateWindow, time.Minute)
	if c.AI.MaxConcurrent == 0 {
		c.AI.MaxConcurrent = 4
	}
	setDefaultDuration(&c.AI.AcquireTimeout, 2*time.Second)
	setDefaultDuration(&c.AI.Timeout, 60*time.Second)
	setDefault(&c.AI.WindowPrefix, "vitrine:ratelimit:ai")

	if c.Contact.RPS == 0 {
		c.Contact.RPS = 0.2
	}
	if c.Contact.Burst == 0 {
		c.Contact.Burst = 3
	}

	setDefault(&c.RateStats.Prefix, "vitrine:ratelimit:stats")
	setDefaultDuration(&c.RateStats.TTL, 24*time.Hour)
	setDefault(&c.RateStats.Bucket, "minute")

	if c.Media.MaxUploadBytes == 0 {
		c.Media.MaxUploadBytes = 10 << 20
	}
	if c.Media.MaxWidth == 0 {
		c.Media.MaxWidth = 1200
	}
	if c.Media.Quality == 0 {
		c.Media.Quality = 70
	}
	if c.Media.MaxOutputBytes == 0 {
		c.Media.MaxOutputBytes = 900 << 10
	}
	if c.Media.MaxPixels == 0 {
		c.Media.MaxPixels = 40_000_000
	}
}

func setDefault(v *string, def string) {
	if strings.TrimSpace(*v) == "" {
		*v = def
	}
}

func setDefaultDuration(v *time.Duration, def time.Duration) {
	if *v == 0 {
		*v = def
	}
}

// Validate devolve todos os problemas encontrados de uma vez.
func (c *Config) Validate() error {
	var errs []error

	switch c.Store.Driver {
	case StoreMemory:
	case StoreSQLite:
		if strings.TrimSpace(c.Store.SQLitePath) == "" {
			errs = append(errs, errors.New("store.sqlite_path is required for the sqlite driver"))
		}
	case StoreFirestore:
		if c.Firebase.ProjectID == "" {
			errs = append(errs, errors.New("firebase.project_id is required for the firestore driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.driver %q is not one of memory, sqlite, firestore", c.Store.Driver))
	}

	switch c.Auth.Mode {
	case AuthFirebase:
		if c.Firebase.ProjectID == "" {
			errs = append(errs, errors.New("firebase.project_id is required for auth.mode=firebase"))
		}
	case AuthJWT:
		if len(c.Auth.JWTSecret) < 32 {
			errs = append(errs, errors.New("auth.jwt_secret must be at least 32 bytes for auth.mode=jwt"))
		}
	case AuthDev:
	default:
		errs = append(errs, fmt.Errorf("auth.mode %q is not one of firebase, jwt, dev", c.Auth.Mode))
	}
	if c.Auth.SessionTTL < time.Minute {
		errs = append(errs, errors.New("auth.session_ttl must be at least 1m"))
	}
	// o Firebase só emite session cookies entre 5 minutos e 14 dias
	if c.Auth.Mode == AuthFirebase && (c.Auth.SessionTTL < 5*time.Minute || c.Auth.SessionTTL > 14*24*time.Hour) {
		errs = append(errs, errors.New("auth.session_ttl must be within 5m..336h for auth.mode=firebase"))
	}

	if c.AI.RateLimit <= 0 {
		errs = append(errs, errors.New("ai.rate_limit must be > 0"))
	}
	if c.AI.RateWindow <= 0 {
		errs = append(errs, errors.New("ai.rate_window must be > 0"))
	}
	if c.AI.MaxConcurrent < 0 {
		errs = append(errs, errors.New("ai.max_concurrent must be >= 0"))
	}
	if c.Contact.RPS <= 0 {
		errs = append(errs, errors.New("contact.rps must be > 0"))
	}
	if c.Contact.Burst <= 0 {
		errs = append(errs, errors.New("contact.burst must be > 0"))
	}
	if c.RateStats.Enabled && !c.Redis.Enabled() {
		errs = append(errs, errors.New("redis.addr is required when ratestats.enabled=true"))
	}
	if c.Media.MaxPixels < 0 {
		errs = append(errs, errors.New("media.max_pixels must be >= 0"))
	}
	if c.Media.Quality < 1 || c.Media.Quality > 100 {
		errs = append(errs, errors.New("media.quality must be within 1..100"))
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format %q is not one of json, console", c.Log.Format))
	}

	return errors.Join(errs...)
}
