package auth

import (
	"context"
	"time"
)

// Tokens fixos aceitos só com auth.mode=dev.
const (
	DevAdminToken = "dev-admin-token"
	DevUserToken  = "dev-user-token"
)

// DevProvider aceita apenas DevAdminToken e DevUserToken. O token é o
// próprio valor do cookie.
type DevProvider struct {
	adminClaim string
}

// NewDevProvider recebe o nome da claim de admin da Policy, para que o
// usuário de desenvolvimento admin passe pelo mesmo caminho de decisão.
func NewDevProvider(adminClaim string) *DevProvider {
	if adminClaim == "" {
		adminClaim = "admin"
	}
	return &DevProvider{adminClaim: adminClaim}
}

func (p *DevProvider) Name() string { return "dev" }

func (p *DevProvider) VerifyToken(_ context.Context, token string) (Identity, error) {
	switch token {
	case DevAdminToken:
		return Identity{
			UID:    "dev-admin",
			Email:  "admin@localhost",
			Name:   "Dev Admin",
			Claims: map[string]any{p.adminClaim: true},
		}, nil
	case DevUserToken:
		return Identity{UID: "dev-user", Email: "user@localhost", Name: "Dev User"}, nil
	}
	return Identity{}, ErrInvalidToken
}

func (p *DevProvider) CreateSession(ctx context.Context, token string, _ time.Duration) (string, error) {
	if _, err := p.VerifyToken(ctx, token); err != nil {
		return "", err
	}
	return token, nil
}

func (p *DevProvider) VerifySession(ctx context.Context, value string) (Identity, error) {
	return p.VerifyToken(ctx, value)
}
