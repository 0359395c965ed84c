package api

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"vitrine/ai"
	"vitrine/content"
)

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// handleContact grava a mensagem do formulário. O status é sempre "new":
// o visitante não escolhe.
func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	c, err := s.catalog.Contacts.Create(r.Context(), content.Contact{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Company: req.Company,
		Subject: req.Subject,
		Message: req.Message,
		Status:  content.ContactNew,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.ContactsReceived.Inc()
	s.log.Info("contato recebido", zap.String("id", c.ID))

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"id":      c.ID,
	})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req ai.Request
	if err := s.decodeBody(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.opts.AITimeout)
	defer cancel()

	provider := s.generator.Name()
	res, err := s.generator.Generate(ctx, req)
	switch {
	case err == nil:
		s.metrics.AIGenerations.WithLabelValues(provider, "ok").Inc()
	case errors.Is(err, ai.ErrEmptyPrompt), errors.Is(err, ai.ErrPromptTooLong):
		s.metrics.AIGenerations.WithLabelValues(provider, "invalid").Inc()
		s.fail(w, r, err)
		return
	case errors.Is(err, context.DeadlineExceeded):
		s.metrics.AIGenerations.WithLabelValues(provider, "timeout").Inc()
		s.log.Warn("geração de IA expirou", zap.String("provider", provider), zap.Error(err))
		writeJSONError(w, http.StatusGatewayTimeout, "content generation timed out")
		return
	default:
		s.metrics.AIGenerations.WithLabelValues(provider, "error").Inc()
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}
