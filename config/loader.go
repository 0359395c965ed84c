package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixa todas as variáveis de ambiente lidas pelo vitrine.
const EnvPrefix = "VITRINE_"

const maxConfigFileSize = 1 << 20

// Load lê a configuração com a precedência:
//
//  1. variáveis de ambiente (VITRINE_AUTH_JWT_SECRET -> auth.jwt_secret)
//  2. arquivo YAML em path (opcional; vazio pula)
//  3. defaults
//
// Listas vindas do ambiente usam vírgula: VITRINE_AUTH_ADMIN_EMAILS=a@x.com,b@x.com.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		content, err := readFile(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	splitLists(&cfg)
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// envKey mapeia VITRINE_SECTION_FIELD_NAME -> section.field_name: só o
// primeiro underscore separa seção de campo.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, field, ok := strings.Cut(lower, "_")
	if !ok {
		return lower
	}
	return section + "." + field
}

func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, maxConfigFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if len(content) > maxConfigFileSize {
		return nil, fmt.Errorf("config file %s exceeds %d bytes", path, maxConfigFileSize)
	}
	return content, nil
}

// splitLists normaliza listas: "a, b" vindo do ambiente vira ["a", "b"] e
// entradas vazias são descartadas.
func splitLists(c *Config) {
	c.Server.CORSOrigins = splitList(c.Server.CORSOrigins)
	c.Auth.AdminEmails = splitList(c.Auth.AdminEmails)
	c.Auth.AdminUIDs = splitList(c.Auth.AdminUIDs)
}

func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
