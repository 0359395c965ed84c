package content

import (
	"strings"
	"time"

	"vitrine/docstore"
)

// Nomes das coleções no banco de documentos.
const (
	CollectionBlog      = "blog"
	CollectionPortfolio = "portfolio"
	CollectionServices  = "services"
	CollectionTeam      = "team"
	CollectionContacts  = "contacts"
)

// Meta é preenchido pelo store; o que vier do cliente nesses campos é ignorado.
type Meta struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (m *Meta) setMeta(d docstore.Document) {
	m.ID = d.ID
	m.CreatedAt = d.CreatedAt
	m.UpdatedAt = d.UpdatedAt
}

type BlogPost struct {
	Meta
	Title       string     `json:"title" validate:"required,max=200"`
	Slug        string     `json:"slug" validate:"max=100"`
	Excerpt     string     `json:"excerpt" validate:"max=500"`
	Content     string     `json:"content" validate:"required"`
	CoverImage  string     `json:"coverImage"`
	Author      string     `json:"author" validate:"max=120"`
	Category    string     `json:"category" validate:"max=60"`
	Tags        []string   `json:"tags" validate:"max=20,dive,max=40"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"publishedAt"`
}

func (p *BlogPost) normalize(now time.Time) {
	p.Title = strings.TrimSpace(p.Title)
	if strings.TrimSpace(p.Slug) == "" {
		p.Slug = Slugify(p.Title)
	} else {
		p.Slug = Slugify(p.Slug)
	}
	p.Tags = compact(p.Tags)
	switch {
	case p.Published && p.PublishedAt == nil:
		t := now
		p.PublishedAt = &t
	case !p.Published:
		p.PublishedAt = nil
	}
}

type PortfolioProject struct {
	Meta
	Title        string   `json:"title" validate:"required,max=200"`
	Slug         string   `json:"slug" validate:"max=100"`
	Description  string   `json:"description" validate:"required"`
	Client       string   `json:"client" validate:"max=120"`
	Category     string   `json:"category" validate:"max=60"`
	Technologies []string `json:"technologies" validate:"max=30,dive,max=40"`
	Images       []string `json:"images" validate:"max=20"`
	URL          string   `json:"url" validate:"omitempty,url"`
	Featured     bool     `json:"featured"`
}

func (p *PortfolioProject) normalize(time.Time) {
	p.Title = strings.TrimSpace(p.Title)
	if strings.TrimSpace(p.Slug) == "" {
		p.Slug = Slugify(p.Title)
	} else {
		p.Slug = Slugify(p.Slug)
	}
	p.Technologies = compact(p.Technologies)
	p.Images = compact(p.Images)
}

type Service struct {
	Meta
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"required"`
	Icon        string   `json:"icon" validate:"max=60"`
	Features    []string `json:"features" validate:"max=30,dive,max=200"`
	Price       string   `json:"price" validate:"max=60"`
	Order       int      `json:"order" validate:"gte=0"`
}

func (s *Service) normalize(time.Time) {
	s.Title = strings.TrimSpace(s.Title)
	s.Features = compact(s.Features)
}

type TeamMember struct {
	Meta
	Name     string `json:"name" validate:"required,max=120"`
	Role     string `json:"role" validate:"required,max=120"`
	Bio      string `json:"bio" validate:"max=2000"`
	Photo    string `json:"photo"`
	Email    string `json:"email" validate:"omitempty,email"`
	LinkedIn string `json:"linkedin" validate:"omitempty,url"`
	Twitter  string `json:"twitter" validate:"omitempty,url"`
	GitHub   string `json:"github" validate:"omitempty,url"`
	Order    int    `json:"order" validate:"gte=0"`
}

func (m *TeamMember) normalize(time.Time) {
	m.Name = strings.TrimSpace(m.Name)
	m.Email = strings.ToLower(strings.TrimSpace(m.Email))
}

// Status de um contato recebido pelo formulário.
const (
	ContactNew      = "new"
	ContactRead     = "read"
	ContactReplied  = "replied"
	ContactArchived = "archived"
)

type Contact struct {
	Meta
	Name    string `json:"name" validate:"required,max=120"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Phone   string `json:"phone" validate:"max=40"`
	Company string `json:"company" validate:"max=120"`
	Subject string `json:"subject" validate:"max=200"`
	Message string `json:"message" validate:"required,max=5000"`
	Status  string `json:"status" validate:"oneof=new read replied archived"`
}

func (c *Contact) normalize(time.Time) {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Message = strings.TrimSpace(c.Message)
	if c.Status == "" {
		c.Status = ContactNew
	}
}

// compact remove itens vazios e espaços nas pontas; lista vazia vira nil.
func compact(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
