package content

import (
	"context"
	"errors"
	"time"

	"vitrine/docstore"
)

var ErrUnknownCollection = errors.New("content: unknown collection")

// Collection é a visão sem tipos de um Repository, usada pela camada HTTP
// para servir todas as coleções com os mesmos handlers.
type Collection interface {
	Name() string
	// Public indica se a coleção aparece nas rotas públicas.
	Public() bool
	List(ctx context.Context, q Query, public bool) (Listing, error)
	// Get aceita id ou slug; com public=true, registros ocultos viram ErrNotFound.
	Get(ctx context.Context, idOrSlug string, public bool) (any, error)
	Create(ctx context.Context, body []byte) (any, error)
	Update(ctx context.Context, id string, body []byte) (any, error)
	Delete(ctx context.Context, id string) error
}

// Listing é a página devolvida pela API.
type Listing struct {
	Items any `json:"items"`
	Total int `json:"total"`
}

type Option func(*Catalog)

// WithWriteHook registra fn para cada escrita bem sucedida (métricas).
func WithWriteHook(fn func(collection, op string)) Option {
	return func(c *Catalog) { c.onWrite = fn }
}

// WithClock troca o relógio usado em publishedAt (testes).
func WithClock(now func() time.Time) Option {
	return func(c *Catalog) { c.now = now }
}

// Catalog agrupa os repositórios tipados e o registro por nome.
type Catalog struct {
	Blog      *Repository[BlogPost, *BlogPost]
	Portfolio *Repository[PortfolioProject, *PortfolioProject]
	Services  *Repository[Service, *Service]
	Team      *Repository[TeamMember, *TeamMember]
	Contacts  *Repository[Contact, *Contact]

	byName  map[string]Collection
	onWrite func(collection, op string)
	now     func() time.Time
}

func NewCatalog(store docstore.Store, opts ...Option) *Catalog {
	c := &Catalog{now: func() time.Time { return time.Now().UTC() }}
	for _, o := range opts {
		o(c)
	}
	v := NewValidator()
	clock := func() time.Time { return c.now() }

	all := func(docstore.Document) bool { return true }
	published := func(d docstore.Document) bool {
		p, _ := d.Data["published"].(bool)
		return p
	}

	c.Blog = &Repository[BlogPost, *BlogPost]{
		store: store, collection: CollectionBlog, validate: v, now: clock,
		defaultSort: docstore.FieldCreatedAt, defaultDesc: true,
		visible: published, bySlug: true, onWrite: c.onWrite,
	}
	c.Portfolio = &Repository[PortfolioProject, *PortfolioProject]{
		store: store, collection: CollectionPortfolio, validate: v, now: clock,
		defaultSort: docstore.FieldCreatedAt, defaultDesc: true,
		visible: all, bySlug: true, onWrite: c.onWrite,
	}
	c.Services = &Repository[Service, *Service]{
		store: store, collection: CollectionServices, validate: v, now: clock,
		defaultSort: "order", visible: all, onWrite: c.onWrite,
	}
	c.Team = &Repository[TeamMember, *TeamMember]{
		store: store, collection: CollectionTeam, validate: v, now: clock,
		defaultSort: "order", visible: all, onWrite: c.onWrite,
	}
	c.Contacts = &Repository[Contact, *Contact]{
		store: store, collection: CollectionContacts, validate: v, now: clock,
		defaultSort: docstore.FieldCreatedAt, defaultDesc: true,
		onWrite: c.onWrite,
	}

	c.byName = map[string]Collection{}
	for _, col := range []Collection{
		handle[BlogPost, *BlogPost]{c.Blog},
		handle[PortfolioProject, *PortfolioProject]{c.Portfolio},
		handle[Service, *Service]{c.Services},
		handle[TeamMember, *TeamMember]{c.Team},
		handle[Contact, *Contact]{c.Contacts},
	} {
		c.byName[col.Name()] = col
	}
	return c
}

// Collection devolve a coleção pelo nome ou ErrUnknownCollection.
func (c *Catalog) Collection(name string) (Collection, error) {
	col, ok := c.byName[name]
	if !ok {
		return nil, ErrUnknownCollection
	}
	return col, nil
}

type handle[T any, P interface {
	*T
	entity
}] struct {
	repo *Repository[T, P]
}

func (h handle[T, P]) Name() string { return h.repo.collection }
func (h handle[T, P]) Public() bool { return h.repo.visible != nil }

func (h handle[T, P]) List(ctx context.Context, q Query, public bool) (Listing, error) {
	var keep func(docstore.Document) bool
	if public {
		if !h.Public() {
			return Listing{}, ErrUnknownCollection
		}
		keep = h.repo.visible
	}
	page, err := h.repo.list(ctx, q, keep)
	if err != nil {
		return Listing{}, err
	}
	return Listing{Items: page.Items, Total: page.Total}, nil
}

func (h handle[T, P]) Get(ctx context.Context, idOrSlug string, public bool) (any, error) {
	if public && !h.Public() {
		return nil, ErrUnknownCollection
	}
	d, err := h.repo.store.Get(ctx, h.repo.collection, idOrSlug)
	if errors.Is(err, docstore.ErrNotFound) && h.repo.bySlug {
		d, err = h.findDocBySlug(ctx, idOrSlug)
	}
	if err != nil {
		return nil, err
	}
	if public && !h.repo.visible(d) {
		return nil, docstore.ErrNotFound
	}
	return h.repo.decode(d)
}

// findDocBySlug prefere o registro visível quando há slugs repetidos.
func (h handle[T, P]) findDocBySlug(ctx context.Context, slug string) (docstore.Document, error) {
	docs, err := h.repo.store.List(ctx, h.repo.collection)
	if err != nil {
		return docstore.Document{}, err
	}
	docs = docstore.FilterDocuments(docs, docstore.Filter{Equals: map[string]string{"slug": slug}})
	if len(docs) == 0 {
		return docstore.Document{}, docstore.ErrNotFound
	}
	docstore.SortDocuments(docs, docstore.FieldCreatedAt, false)
	for _, d := range docs {
		if h.repo.visible == nil || h.repo.visible(d) {
			return d, nil
		}
	}
	return docs[0], nil
}

func (h handle[T, P]) Create(ctx context.Context, body []byte) (any, error) {
	var v T
	if err := DecodeJSON(body, &v); err != nil {
		return nil, err
	}
	return h.repo.Create(ctx, v)
}

func (h handle[T, P]) Update(ctx context.Context, id string, body []byte) (any, error) {
	return h.repo.Update(ctx, id, func(v *T) error { return DecodeJSON(body, v) })
}

func (h handle[T, P]) Delete(ctx context.Context, id string) error {
	return h.repo.Delete(ctx, id)
}
