package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vitrine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsWithDevAuth(t *testing.T) {
	t.Setenv("VITRINE_AUTH_MODE", "dev")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, StoreMemory, cfg.Store.Driver)
	assert.Equal(t, AuthDev, cfg.Auth.Mode)
	assert.Equal(t, "session", cfg.Auth.CookieName)
	assert.Equal(t, 5*24*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, 10, cfg.AI.RateLimit)
	assert.Equal(t, time.Minute, cfg.AI.RateWindow)
	assert.True(t, cfg.AI.AdminOnly())
	assert.Equal(t, 0.2, cfg.Contact.RPS)
	assert.Equal(t, 3, cfg.Contact.Burst)
	assert.Equal(t, 1200, cfg.Media.MaxWidth)
	assert.Equal(t, "vitrine:ratelimit:ai", cfg.AI.WindowPrefix)
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoad_FileThenEnvOverride(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9000"
  cors_origins: ["https://example.com"]
store:
  driver: sqlite
  sqlite_path: /tmp/site.db
auth:
  mode: jwt
  jwt_secret: "0123456789abcdef0123456789abcdef"
  admin_emails:
    - owner@example.com
ai:
  rate_limit: 5
  rate_window: 30s
  require_admin: false
`)
	t.Setenv("VITRINE_SERVER_ADDR", ":9100")
	t.Setenv("VITRINE_AI_RATE_LIMIT", "7")
	t.Setenv("VITRINE_AUTH_ADMIN_UIDS", "uid-1, uid-2")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9100", cfg.Server.Addr)
	assert.Equal(t, []string{"https://example.com"}, cfg.Server.CORSOrigins)
	assert.Equal(t, StoreSQLite, cfg.Store.Driver)
	assert.Equal(t, "/tmp/site.db", cfg.Store.SQLitePath)
	assert.Equal(t, []string{"owner@example.com"}, cfg.Auth.AdminEmails)
	assert.Equal(t, []string{"uid-1", "uid-2"}, cfg.Auth.AdminUIDs)
	assert.Equal(t, 7, cfg.AI.RateLimit)
	assert.Equal(t, 30*time.Second, cfg.AI.RateWindow)
	assert.False(t, cfg.AI.AdminOnly())
}

func TestLoad_RejectsInvalidCombinations(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "firebase auth without project",
			env:  map[string]string{"VITRINE_AUTH_MODE": "firebase"},
			want: "firebase.project_id is required",
		},
		{
			name: "jwt without secret",
			env:  map[string]string{"VITRINE_AUTH_MODE": "jwt"},
			want: "auth.jwt_secret",
		},
		{
			name: "unknown store driver",
			env:  map[string]string{"VITRINE_AUTH_MODE": "dev", "VITRINE_STORE_DRIVER": "mongo"},
			want: "store.driver",
		},
		{
			name: "stats without redis",
			env:  map[string]string{"VITRINE_AUTH_MODE": "dev", "VITRINE_RATESTATS_ENABLED": "true"},
			want: "redis.addr is required",
		},
		{
			name: "negative ai limit",
			env:  map[string]string{"VITRINE_AUTH_MODE": "dev", "VITRINE_AI_RATE_LIMIT": "-1"},
			want: "ai.rate_limit",
		},
		{
			name: "firebase session shorter than 5m",
			env: map[string]string{
				"VITRINE_FIREBASE_PROJECT_ID": "site",
				"VITRINE_AUTH_SESSION_TTL":    "2m",
			},
			want: "auth.session_ttl must be within 5m..336h",
		},
		{
			name: "firebase session longer than 14 days",
			env: map[string]string{
				"VITRINE_FIREBASE_PROJECT_ID": "site",
				"VITRINE_AUTH_SESSION_TTL":    "400h",
			},
			want: "auth.session_ttl must be within 5m..336h",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_ShortSessionOutsideFirebase(t *testing.T) {
	t.Setenv("VITRINE_AUTH_MODE", "dev")
	t.Setenv("VITRINE_AUTH_SESSION_TTL", "2m")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, cfg.Auth.SessionTTL)
	assert.Equal(t, 40_000_000, cfg.Media.MaxPixels)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open config file")
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "auth.jwt_secret", envKey("VITRINE_AUTH_JWT_SECRET"))
	assert.Equal(t, "server.addr", envKey("VITRINE_SERVER_ADDR"))
	assert.Equal(t, "ratestats.track_keys", envKey("VITRINE_RATESTATS_TRACK_KEYS"))
}
