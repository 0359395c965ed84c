package auth

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const DefaultCookieName = "session"

// Session é o que fica no contexto da requisição depois do Load.
type Session struct {
	Identity
	Admin bool `json:"isAdmin"`
}

type sessionKey struct{}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok
}

// Sessions junta provedor, política e cookie.
type Sessions struct {
	Provider   Provider
	Policy     Policy
	CookieName string
	Secure     bool
	TTL        time.Duration
	Logger     *zap.Logger
}

func (s *Sessions) cookieName() string {
	if s.CookieName == "" {
		return DefaultCookieName
	}
	return s.CookieName
}

func (s *Sessions) log() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// Session resolve identidade e papel de id.
func (s *Sessions) Session(id Identity) Session {
	return Session{Identity: id, Admin: s.Policy.IsAdmin(id)}
}

// Start troca o token de login pelo cookie de sessão e o grava em w.
func (s *Sessions) Start(ctx context.Context, w http.ResponseWriter, token string) (Session, error) {
	id, err := s.Provider.VerifyToken(ctx, token)
	if err != nil {
		return Session{}, err
	}
	value, err := s.Provider.CreateSession(ctx, token, s.TTL)
	if err != nil {
		return Session{}, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName(),
		Value:    value,
		Path:     "/",
		MaxAge:   int(s.TTL / time.Second),
		Expires:  time.Now().Add(s.TTL),
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return s.Session(id), nil
}

// Clear expira o cookie de sessão.
func (s *Sessions) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Load anexa a sessão ao contexto quando o cookie (ou um Authorization
// Bearer) é válido. Sem credencial válida a requisição segue anônima.
func (s *Sessions) Load(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := s.identify(r)
		switch {
		case err == nil:
			r = r.WithContext(WithSession(r.Context(), s.Session(id)))
		case errors.Is(err, ErrUnauthenticated):
		case errors.Is(err, ErrInvalidToken):
			s.log().Debug("sessão inválida", zap.String("path", r.URL.Path), zap.Error(err))
		default:
			s.log().Warn("falha ao verificar sessão", zap.String("path", r.URL.Path), zap.Error(err))
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Sessions) identify(r *http.Request) (Identity, error) {
	if c, err := r.Cookie(s.cookieName()); err == nil && c.Value != "" {
		return s.Provider.VerifySession(r.Context(), c.Value)
	}
	if token, ok := bearer(r); ok {
		return s.Provider.VerifyToken(r.Context(), token)
	}
	return Identity{}, ErrUnauthenticated
}

func bearer(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// RequireAdmin responde 401 sem sessão e 403 para quem não é admin. Deve
// vir depois de Load.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := FromContext(r.Context())
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if !s.Admin {
			writeJSONError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":` + strconv.Quote(msg) + "}\n"))
}
