package api

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"vitrine/auth"
)

type tokenRequest struct {
	IDToken string `json:"idToken"`
	Token   string `json:"token"`
}

func (t tokenRequest) value() string {
	if v := strings.TrimSpace(t.IDToken); v != "" {
		return v
	}
	return strings.TrimSpace(t.Token)
}

type statusResponse struct {
	Authenticated bool   `json:"authenticated"`
	IsAdmin       bool   `json:"isAdmin"`
	UID           string `json:"uid,omitempty"`
	Email         string `json:"email,omitempty"`
	Name          string `json:"name,omitempty"`
}

func statusOf(sess auth.Session) statusResponse {
	return statusResponse{
		Authenticated: true,
		IsAdmin:       sess.Admin,
		UID:           sess.UID,
		Email:         sess.Email,
		Name:          sess.Name,
	}
}

func (s *Server) handleSessionCreate(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	token := req.value()
	if token == "" {
		writeJSONError(w, http.StatusBadRequest, "idToken is required")
		return
	}

	sess, err := s.sessions.Start(r.Context(), w, token)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.log.Info("sessão criada",
		zap.String("uid", sess.UID),
		zap.Bool("admin", sess.Admin),
		zap.String("provider", s.sessions.Provider.Name()),
	)
	writeJSON(w, http.StatusOK, statusOf(sess))
}

func (s *Server) handleSessionDelete(w http.ResponseWriter, _ *http.Request) {
	s.sessions.Clear(w)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.FromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusOK, statusResponse{})
		return
	}
	writeJSON(w, http.StatusOK, statusOf(sess))
}

// handleVerify valida um token sem criar sessão.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	token := req.value()
	if token == "" {
		writeJSONError(w, http.StatusBadRequest, "token is required")
		return
	}

	id, err := s.sessions.Provider.VerifyToken(r.Context(), token)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sess := s.sessions.Session(id)
	writeJSON(w, http.StatusOK, map[string]any{
		"valid":   true,
		"uid":     sess.UID,
		"email":   sess.Email,
		"isAdmin": sess.Admin,
	})
}
