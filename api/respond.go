package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"vitrine/ai"
	"vitrine/auth"
	"vitrine/content"
	"vitrine/docstore"
	"vitrine/media"
)

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// fail traduz err para status HTTP. Erros não mapeados viram 500 com
// mensagem genérica; o detalhe fica só no log.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if ve, ok := content.AsValidation(err); ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: ve.Message, Fields: ve.Fields})
		return
	}

	var tooBig *http.MaxBytesError
	switch {
	case errors.As(err, &tooBig), errors.Is(err, media.ErrTooLarge):
		writeJSONError(w, http.StatusRequestEntityTooLarge, "payload too large")
	case errors.Is(err, docstore.ErrNotFound), errors.Is(err, content.ErrUnknownCollection):
		writeJSONError(w, http.StatusNotFound, "not found")
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrUnauthenticated):
		writeJSONError(w, http.StatusUnauthorized, "invalid or expired credentials")
	case errors.Is(err, auth.ErrForbidden):
		writeJSONError(w, http.StatusForbidden, "admin access required")
	case errors.Is(err, ai.ErrEmptyPrompt), errors.Is(err, ai.ErrPromptTooLong),
		errors.Is(err, media.ErrUnsupportedFormat):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	default:
		s.log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		writeJSONError(w, http.StatusInternalServerError, "internal server error")
	}
}

// readBody lê o corpo inteiro respeitando o limite de bytes.
func readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	return io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
}

// decodeBody lê e decodifica JSON estrito em v.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := readBody(w, r, s.opts.MaxJSONBytes)
	if err != nil {
		return err
	}
	return content.DecodeJSON(body, v)
}
