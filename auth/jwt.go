package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTProvider assina sessões próprias com HS256, para instalações sem
// Firebase. O token de login é gerado pelo comando `vitrine token`.
type JWTProvider struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewJWTProvider(secret, issuer string) (*JWTProvider, error) {
	if len(secret) < 32 {
		return nil, errors.New("auth: jwt secret must be at least 32 bytes")
	}
	return &JWTProvider{secret: []byte(secret), issuer: issuer, now: time.Now}, nil
}

func (p *JWTProvider) Name() string { return "jwt" }

var registered = map[string]bool{
	"iss": true, "sub": true, "aud": true, "exp": true, "nbf": true, "iat": true, "jti": true,
	"email": true, "name": true,
}

// Mint assina um token para id válido por ttl. Claims de id viram claims
// de topo do JWT (como custom claims do Firebase).
func (p *JWTProvider) Mint(id Identity, ttl time.Duration) (string, error) {
	if id.UID == "" {
		return "", errors.New("auth: uid is required")
	}
	if ttl <= 0 {
		return "", errors.New("auth: ttl must be positive")
	}
	now := p.now()
	claims := jwt.MapClaims{}
	for k, v := range id.Claims {
		if !registered[k] {
			claims[k] = v
		}
	}
	claims["iss"] = p.issuer
	claims["sub"] = id.UID
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(ttl).Unix()
	if id.Email != "" {
		claims["email"] = id.Email
	}
	if id.Name != "" {
		claims["name"] = id.Name
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return s, nil
}

func (p *JWTProvider) VerifyToken(_ context.Context, token string) (Identity, error) {
	return p.parse(token)
}

// CreateSession valida o token de login e emite um novo com a duração da
// sessão.
func (p *JWTProvider) CreateSession(_ context.Context, token string, ttl time.Duration) (string, error) {
	id, err := p.parse(token)
	if err != nil {
		return "", err
	}
	return p.Mint(id, ttl)
}

func (p *JWTProvider) VerifySession(_ context.Context, value string) (Identity, error) {
	return p.parse(value)
}

func (p *JWTProvider) parse(token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrInvalidToken
	}
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(p.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return Identity{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	id := Identity{UID: sub, Claims: map[string]any{}}
	id.Email, _ = claims["email"].(string)
	id.Name, _ = claims["name"].(string)
	for k, v := range claims {
		if !registered[k] {
			id.Claims[k] = v
		}
	}
	return id, nil
}
