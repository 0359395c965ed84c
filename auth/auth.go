// Package auth verifica tokens do provedor de identidade, emite e valida o
// cookie de sessão e decide quem é administrador.
//
// Administrador nunca é concedido por padrão: só pela Policy (emails, uids
// ou claim explícita).
package auth

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidToken    = errors.New("auth: invalid or expired token")
	ErrUnauthenticated = errors.New("auth: authentication required")
	ErrForbidden       = errors.New("auth: admin access required")
)

type Identity struct {
	UID    string         `json:"uid"`
	Email  string         `json:"email,omitempty"`
	Name   string         `json:"name,omitempty"`
	Claims map[string]any `json:"-"`
}

// Provider é o backend de identidade. VerifyToken valida o token de login
// (ID token); CreateSession troca esse token pelo valor do cookie de sessão.
type Provider interface {
	Name() string
	VerifyToken(ctx context.Context, token string) (Identity, error)
	CreateSession(ctx context.Context, token string, ttl time.Duration) (string, error)
	VerifySession(ctx context.Context, value string) (Identity, error)
}

// Policy decide se uma identidade é administradora. Política vazia não
// concede admin a ninguém.
type Policy struct {
	AdminEmails []string
	AdminUIDs   []string
	// AdminClaim é o nome da custom claim booleana (ex: "admin"); vazio desliga.
	AdminClaim string
}

func (p Policy) IsAdmin(id Identity) bool {
	if id.UID == "" {
		return false
	}
	for _, uid := range p.AdminUIDs {
		if uid != "" && uid == id.UID {
			return true
		}
	}
	if email := strings.TrimSpace(id.Email); email != "" {
		for _, e := range p.AdminEmails {
			if strings.EqualFold(strings.TrimSpace(e), email) {
				return true
			}
		}
	}
	if p.AdminClaim != "" {
		switch v := id.Claims[p.AdminClaim].(type) {
		case bool:
			return v
		case string:
			return strings.EqualFold(v, "true")
		}
	}
	return false
}
