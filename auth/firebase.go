package auth

import (
	"context"
	"fmt"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
)

// firebaseClient é o subconjunto de *auth.Client que usamos.
type firebaseClient interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
	SessionCookie(ctx context.Context, idToken string, expiresIn time.Duration) (string, error)
	VerifySessionCookieAndCheckRevoked(ctx context.Context, sessionCookie string) (*fbauth.Token, error)
}

// FirebaseProvider usa Firebase Authentication: ID tokens do cliente web e
// session cookies gerenciados pelo Firebase (revogação verificada).
type FirebaseProvider struct {
	client firebaseClient
}

func NewFirebaseProvider(client *fbauth.Client) *FirebaseProvider {
	return &FirebaseProvider{client: client}
}

func (p *FirebaseProvider) Name() string { return "firebase" }

func (p *FirebaseProvider) VerifyToken(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrInvalidToken
	}
	t, err := p.client.VerifyIDToken(ctx, token)
	if err != nil {
		return Identity{}, mapFirebaseErr("verify id token", err)
	}
	return identityFromToken(t), nil
}

// CreateSession delega a validação do token ao próprio Firebase.
func (p *FirebaseProvider) CreateSession(ctx context.Context, token string, ttl time.Duration) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}
	cookie, err := p.client.SessionCookie(ctx, token, ttl)
	if err != nil {
		return "", mapFirebaseErr("create session cookie", err)
	}
	return cookie, nil
}

func (p *FirebaseProvider) VerifySession(ctx context.Context, value string) (Identity, error) {
	if value == "" {
		return Identity{}, ErrInvalidToken
	}
	t, err := p.client.VerifySessionCookieAndCheckRevoked(ctx, value)
	if err != nil {
		return Identity{}, mapFirebaseErr("verify session cookie", err)
	}
	return identityFromToken(t), nil
}

func identityFromToken(t *fbauth.Token) Identity {
	id := Identity{UID: t.UID, Claims: t.Claims}
	id.Email, _ = t.Claims["email"].(string)
	id.Name, _ = t.Claims["name"].(string)
	return id
}

// mapFirebaseErr separa token ruim (401) de falha do serviço (500).
func mapFirebaseErr(op string, err error) error {
	switch {
	case fbauth.IsIDTokenInvalid(err),
		fbauth.IsIDTokenExpired(err),
		fbauth.IsIDTokenRevoked(err),
		fbauth.IsSessionCookieInvalid(err),
		fbauth.IsSessionCookieExpired(err),
		fbauth.IsSessionCookieRevoked(err):
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return fmt.Errorf("firebase %s: %w", op, err)
}
