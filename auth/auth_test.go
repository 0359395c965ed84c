package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestPolicyDefaultDenies(t *testing.T) {
	var p Policy
	assert.False(t, p.IsAdmin(Identity{UID: "u1", Email: "a@b.com", Claims: map[string]any{"admin": true}}))
}

func TestPolicyIsAdmin(t *testing.T) {
	p := Policy{
		AdminEmails: []string{" Dona@Example.com "},
		AdminUIDs:   []string{"uid-42"},
		AdminClaim:  "admin",
	}
	cases := []struct {
		name string
		id   Identity
		want bool
	}{
		{"email sem diferenciar maiúsculas", Identity{UID: "x", Email: "dona@example.COM"}, true},
		{"uid exato", Identity{UID: "uid-42"}, true},
		{"uid parecido", Identity{UID: "uid-4"}, false},
		{"claim bool", Identity{UID: "x", Claims: map[string]any{"admin": true}}, true},
		{"claim string", Identity{UID: "x", Claims: map[string]any{"admin": "TRUE"}}, true},
		{"claim falsa", Identity{UID: "x", Claims: map[string]any{"admin": false}}, false},
		{"claim de outro tipo", Identity{UID: "x", Claims: map[string]any{"admin": 1}}, false},
		{"sem uid", Identity{Email: "dona@example.com"}, false},
		{"usuário comum", Identity{UID: "y", Email: "y@example.com"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, p.IsAdmin(tc.id))
		})
	}
}

func TestJWTProviderRoundTrip(t *testing.T) {
	p, err := NewJWTProvider(testSecret, "vitrine")
	require.NoError(t, err)
	ctx := context.Background()

	token, err := p.Mint(Identity{
		UID: "u1", Email: "ana@example.com", Name: "Ana",
		Claims: map[string]any{"admin": true, "exp": 1},
	}, time.Hour)
	require.NoError(t, err)

	id, err := p.VerifyToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "u1", id.UID)
	assert.Equal(t, "ana@example.com", id.Email)
	assert.Equal(t, "Ana", id.Name)
	assert.Equal(t, true, id.Claims["admin"])
	assert.NotContains(t, id.Claims, "exp")

	session, err := p.CreateSession(ctx, token, 24*time.Hour)
	require.NoError(t, err)
	sid, err := p.VerifySession(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, id.UID, sid.UID)
	assert.Equal(t, true, sid.Claims["admin"])
}

func TestJWTProviderRejects(t *testing.T) {
	p, err := NewJWTProvider(testSecret, "vitrine")
	require.NoError(t, err)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return base }
	expired, err := p.Mint(Identity{UID: "u1"}, time.Minute)
	require.NoError(t, err)
	p.now = func() time.Time { return base.Add(2 * time.Minute) }
	_, err = p.VerifyToken(ctx, expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
	p.now = time.Now

	other, err := NewJWTProvider(strings.Repeat("z", 32), "vitrine")
	require.NoError(t, err)
	foreign, err := other.Mint(Identity{UID: "u1"}, time.Hour)
	require.NoError(t, err)
	_, err = p.VerifyToken(ctx, foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	wrongIssuer, err := NewJWTProvider(testSecret, "outro")
	require.NoError(t, err)
	tok, err := wrongIssuer.Mint(Identity{UID: "u1"}, time.Hour)
	require.NoError(t, err)
	_, err = p.VerifyToken(ctx, tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "u1", "iss": "vitrine", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = p.VerifyToken(ctx, none)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1", "iss": "vitrine",
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = p.VerifyToken(ctx, noExp)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = p.VerifyToken(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewJWTProviderShortSecret(t *testing.T) {
	_, err := NewJWTProvider("curto", "vitrine")
	assert.Error(t, err)
}

func TestDevProvider(t *testing.T) {
	p := NewDevProvider("admin")
	ctx := context.Background()
	policy := Policy{AdminClaim: "admin"}

	admin, err := p.VerifyToken(ctx, DevAdminToken)
	require.NoError(t, err)
	assert.True(t, policy.IsAdmin(admin))

	user, err := p.VerifyToken(ctx, DevUserToken)
	require.NoError(t, err)
	assert.False(t, policy.IsAdmin(user))

	_, err = p.VerifyToken(ctx, "qualquer-coisa")
	assert.ErrorIs(t, err, ErrInvalidToken)

	v, err := p.CreateSession(ctx, DevUserToken, time.Hour)
	require.NoError(t, err)
	got, err := p.VerifySession(ctx, v)
	require.NoError(t, err)
	assert.Equal(t, "dev-user", got.UID)
}

type fakeFirebase struct {
	tokens   map[string]*fbauth.Token
	sessions map[string]*fbauth.Token
	err      error
	ttl      time.Duration
}

func (f *fakeFirebase) VerifyIDToken(_ context.Context, idToken string) (*fbauth.Token, error) {
	if f.err != nil {
		return nil, f.err
	}
	t, ok := f.tokens[idToken]
	if !ok {
		return nil, errors.New("unknown token")
	}
	return t, nil
}

func (f *fakeFirebase) SessionCookie(_ context.Context, idToken string, expiresIn time.Duration) (string, error) {
	t, ok := f.tokens[idToken]
	if !ok {
		return "", errors.New("unknown token")
	}
	f.ttl = expiresIn
	cookie := "cookie-" + idToken
	f.sessions[cookie] = t
	return cookie, nil
}

func (f *fakeFirebase) VerifySessionCookieAndCheckRevoked(_ context.Context, c string) (*fbauth.Token, error) {
	t, ok := f.sessions[c]
	if !ok {
		return nil, errors.New("unknown cookie")
	}
	return t, nil
}

func TestFirebaseProvider(t *testing.T) {
	fake := &fakeFirebase{
		tokens: map[string]*fbauth.Token{
			"id-1": {UID: "u1", Claims: map[string]any{"email": "ana@example.com", "name": "Ana", "admin": true}},
		},
		sessions: map[string]*fbauth.Token{},
	}
	p := &FirebaseProvider{client: fake}
	ctx := context.Background()

	id, err := p.VerifyToken(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, Identity{UID: "u1", Email: "ana@example.com", Name: "Ana", Claims: fake.tokens["id-1"].Claims}, id)

	cookie, err := p.CreateSession(ctx, "id-1", 5*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 5*24*time.Hour, fake.ttl)

	sid, err := p.VerifySession(ctx, cookie)
	require.NoError(t, err)
	assert.Equal(t, "u1", sid.UID)

	_, err = p.VerifyToken(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidToken)

	fake.err = errors.New("backend fora do ar")
	_, err = p.VerifyToken(ctx, "id-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidToken)
}
