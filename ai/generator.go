// Package ai gera rascunhos de texto para o painel (posts, serviços,
// projetos, perfis da equipe).
package ai

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"
)

var (
	ErrEmptyPrompt   = errors.New("ai: prompt is required")
	ErrPromptTooLong = errors.New("ai: prompt is too long")
)

// MaxPromptRunes limita o prompt enviado ao modelo.
const MaxPromptRunes = 4000

// Tipos de conteúdo aceitos em Request.Kind.
const (
	KindGeneric   = "generic"
	KindBlog      = "blog"
	KindService   = "service"
	KindPortfolio = "portfolio"
	KindTeam      = "team"
)

type Request struct {
	Prompt   string `json:"prompt"`
	Kind     string `json:"kind,omitempty"`
	Tone     string `json:"tone,omitempty"`
	Language string `json:"language,omitempty"`
}

type Result struct {
	Content  string `json:"content"`
	Provider string `json:"provider"`
	Model    string `json:"model,omitempty"`
}

type Generator interface {
	Generate(ctx context.Context, req Request) (Result, error)
	Name() string
}

// Normalize apara o prompt e preenche Kind e Language. Prompt vazio devolve
// ErrEmptyPrompt; acima de MaxPromptRunes, ErrPromptTooLong.
func (r Request) Normalize() (Request, error) {
	r.Prompt = strings.TrimSpace(r.Prompt)
	if r.Prompt == "" {
		return r, ErrEmptyPrompt
	}
	if utf8.RuneCountInString(r.Prompt) > MaxPromptRunes {
		return r, ErrPromptTooLong
	}
	switch r.Kind {
	case KindBlog, KindService, KindPortfolio, KindTeam:
	default:
		r.Kind = KindGeneric
	}
	r.Tone = strings.TrimSpace(r.Tone)
	if r.Language = strings.TrimSpace(r.Language); r.Language == "" {
		r.Language = "pt-BR"
	}
	return r, nil
}

// systemInstruction monta a instrução de sistema por tipo de conteúdo.
func systemInstruction(r Request) string {
	var b strings.Builder
	b.WriteString("You write marketing copy for a software studio website. ")
	switch r.Kind {
	case KindBlog:
		b.WriteString("Write a complete blog post in Markdown with a title, short introduction, sections with subheadings and a conclusion. ")
	case KindService:
		b.WriteString("Describe a service offering: one paragraph of description followed by a bulleted list of features. ")
	case KindPortfolio:
		b.WriteString("Describe a portfolio project: the client's problem, the solution delivered and the results. ")
	case KindTeam:
		b.WriteString("Write a short professional bio in third person, at most 80 words. ")
	default:
		b.WriteString("Answer the request concisely. ")
	}
	if r.Tone != "" {
		b.WriteString("Tone: " + r.Tone + ". ")
	}
	b.WriteString("Respond in " + r.Language + ".")
	return b.String()
}
