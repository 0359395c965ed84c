package ai

import (
	"context"
	"fmt"
	"strings"
)

// PlaceholderGenerator devolve texto fixo; usado quando não há chave de API.
type PlaceholderGenerator struct{}

func (PlaceholderGenerator) Name() string { return "placeholder" }

func (PlaceholderGenerator) Generate(ctx context.Context, req Request) (Result, error) {
	req, err := req.Normalize()
	if err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	topic := req.Prompt
	if r := []rune(topic); len(r) > 80 {
		topic = strings.TrimSpace(string(r[:80])) + "..."
	}

	var body string
	switch req.Kind {
	case KindBlog:
		body = fmt.Sprintf("# %s\n\nEste é um rascunho gerado automaticamente sobre \"%s\". "+
			"Configure uma chave de API para gerar o texto completo.\n\n## Introdução\n\n...\n\n## Conclusão\n\n...", topic, topic)
	case KindService:
		body = fmt.Sprintf("%s\n\n- Diagnóstico\n- Implementação\n- Suporte contínuo", topic)
	case KindPortfolio:
		body = fmt.Sprintf("Projeto: %s\n\nDesafio: ...\nSolução: ...\nResultados: ...", topic)
	case KindTeam:
		body = fmt.Sprintf("Profissional com experiência em %s.", topic)
	default:
		body = fmt.Sprintf("Conteúdo de exemplo para: %s", topic)
	}
	return Result{Content: body, Provider: "placeholder"}, nil
}
