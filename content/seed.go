package content

import (
	"context"
	"fmt"
)

// SeedResult conta o que o Seed criou por coleção.
type SeedResult map[string]int

// Seed popula as coleções públicas vazias com conteúdo de exemplo. Coleções
// que já têm documentos ficam como estão, então rodar duas vezes é seguro.
func Seed(ctx context.Context, c *Catalog) (SeedResult, error) {
	res := SeedResult{}

	if err := seedInto(ctx, c.Services, res, seedServices()); err != nil {
		return res, err
	}
	if err := seedInto(ctx, c.Team, res, seedTeam()); err != nil {
		return res, err
	}
	if err := seedInto(ctx, c.Portfolio, res, seedPortfolio()); err != nil {
		return res, err
	}
	if err := seedInto(ctx, c.Blog, res, seedBlog()); err != nil {
		return res, err
	}
	return res, nil
}

func seedInto[T any, P interface {
	*T
	entity
}](ctx context.Context, repo *Repository[T, P], res SeedResult, items []T) error {
	page, err := repo.List(ctx, Query{Limit: 1})
	if err != nil {
		return fmt.Errorf("seed %s: %w", repo.Name(), err)
	}
	if page.Total > 0 {
		return nil
	}
	for _, it := range items {
		if _, err := repo.Create(ctx, it); err != nil {
			return fmt.Errorf("seed %s: %w", repo.Name(), err)
		}
		res[repo.Name()]++
	}
	return nil
}

func seedServices() []Service {
	return []Service{
		{
			Title:       "Desenvolvimento Web",
			Description: "Sites e aplicações sob medida, rápidos e fáceis de manter.",
			Icon:        "code",
			Features:    []string{"Sites institucionais", "Lojas virtuais", "Painéis administrativos"},
			Price:       "Sob consulta",
			Order:       0,
		},
		{
			Title:       "Aplicativos Mobile",
			Description: "Apps para Android e iOS com uma única base de código.",
			Icon:        "smartphone",
			Features:    []string{"Publicação nas lojas", "Notificações push", "Modo offline"},
			Price:       "Sob consulta",
			Order:       1,
		},
		{
			Title:       "Consultoria em Nuvem",
			Description: "Arquitetura, migração e redução de custos na nuvem.",
			Icon:        "cloud",
			Features:    []string{"Diagnóstico de custos", "Migração assistida", "Monitoramento"},
			Order:       2,
		},
	}
}

func seedTeam() []TeamMember {
	return []TeamMember{
		{
			Name:     "Ana Souza",
			Role:     "Diretora de Tecnologia",
			Bio:      "Lidera a engenharia e cuida da arquitetura dos projetos.",
			Email:    "ana@example.com",
			LinkedIn: "https://www.linkedin.com/in/ana-souza",
			Order:    0,
		},
		{
			Name:   "Bruno Lima",
			Role:   "Designer de Produto",
			Bio:    "Transforma requisitos em interfaces simples.",
			GitHub: "https://github.com/brunolima",
			Order:  1,
		},
	}
}

func seedPortfolio() []PortfolioProject {
	return []PortfolioProject{
		{
			Title:        "Portal de Agendamentos",
			Description:  "Agendamento online para uma rede de clínicas, com lembretes por e-mail.",
			Client:       "Clínica Bem Estar",
			Category:     "web",
			Technologies: []string{"Go", "React", "Firestore"},
			URL:          "https://example.com/agendamentos",
			Featured:     true,
		},
		{
			Title:        "App de Entregas",
			Description:  "Rastreamento de pedidos em tempo real para entregadores e clientes.",
			Client:       "Entrega Já",
			Category:     "mobile",
			Technologies: []string{"Flutter", "Firebase"},
		},
	}
}

func seedBlog() []BlogPost {
	return []BlogPost{
		{
			Title:     "Bem-vindo ao nosso blog",
			Excerpt:   "Novidades, bastidores e dicas da equipe.",
			Content:   "Este é o primeiro post. Aqui vamos contar como trabalhamos e o que aprendemos em cada projeto.",
			Author:    "Ana Souza",
			Category:  "novidades",
			Tags:      []string{"empresa", "novidades"},
			Published: true,
		},
		{
			Title:    "Como escolher a stack do seu próximo projeto",
			Excerpt:  "Critérios práticos para não se arrepender depois.",
			Content:  "Rascunho: custo, equipe disponível, prazo e manutenção.",
			Author:   "Bruno Lima",
			Category: "tecnologia",
			Tags:     []string{"arquitetura"},
		},
	}
}
