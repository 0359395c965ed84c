package content

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"vitrine/docstore"
)

// entity é implementado pelos ponteiros das entidades (Meta embutido fornece
// setMeta).
type entity interface {
	setMeta(docstore.Document)
	normalize(now time.Time)
}

// Query descreve uma listagem: filtros e busca em memória, depois ordenação
// e paginação.
type Query struct {
	SortBy string
	Desc   bool
	Filter docstore.Filter
	Offset int
	Limit  int
}

// Page é o resultado de uma listagem; Total conta os itens antes da paginação.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// Repository dá tipos a uma coleção do docstore.
type Repository[T any, P interface {
	*T
	entity
}] struct {
	store      docstore.Store
	collection string
	validate   *Validator
	now        func() time.Time

	defaultSort string
	defaultDesc bool
	// visible decide o que a listagem pública enxerga; nil = coleção privada.
	visible func(docstore.Document) bool
	// bySlug habilita busca por slug além do id.
	bySlug  bool
	onWrite func(collection, op string)
}

func (r *Repository[T, P]) Name() string { return r.collection }

// List aplica q sobre todos os documentos da coleção.
func (r *Repository[T, P]) List(ctx context.Context, q Query) (Page[T], error) {
	return r.list(ctx, q, nil)
}

func (r *Repository[T, P]) list(ctx context.Context, q Query, keep func(docstore.Document) bool) (Page[T], error) {
	docs, err := r.store.List(ctx, r.collection)
	if err != nil {
		return Page[T]{}, err
	}
	if keep != nil {
		kept := docs[:0]
		for _, d := range docs {
			if keep(d) {
				kept = append(kept, d)
			}
		}
		docs = kept
	}

	docs = docstore.FilterDocuments(docs, q.Filter)
	sortBy, desc := q.SortBy, q.Desc
	if sortBy == "" {
		sortBy, desc = r.defaultSort, r.defaultDesc
	}
	docstore.SortDocuments(docs, sortBy, desc)

	total := len(docs)
	docs = docstore.Paginate(docs, q.Offset, q.Limit)

	items := make([]T, 0, len(docs))
	for _, d := range docs {
		v, err := r.decode(d)
		if err != nil {
			return Page[T]{}, err
		}
		items = append(items, v)
	}
	return Page[T]{Items: items, Total: total}, nil
}

func (r *Repository[T, P]) Get(ctx context.Context, id string) (T, error) {
	d, err := r.store.Get(ctx, r.collection, id)
	if err != nil {
		var zero T
		return zero, err
	}
	return r.decode(d)
}

// FindBySlug devolve o primeiro documento com o slug; ErrNotFound se nenhum.
func (r *Repository[T, P]) FindBySlug(ctx context.Context, slug string) (T, error) {
	var zero T
	if !r.bySlug || slug == "" {
		return zero, docstore.ErrNotFound
	}
	page, err := r.List(ctx, Query{
		Filter: docstore.Filter{Equals: map[string]string{"slug": slug}},
		SortBy: docstore.FieldCreatedAt,
		Limit:  1,
	})
	if err != nil {
		return zero, err
	}
	if len(page.Items) == 0 {
		return zero, docstore.ErrNotFound
	}
	return page.Items[0], nil
}

// Create normaliza, valida e grava v; devolve o registro persistido.
func (r *Repository[T, P]) Create(ctx context.Context, v T) (T, error) {
	var zero T
	P(&v).normalize(r.now())
	if err := r.validate.Struct(&v); err != nil {
		return zero, err
	}
	data, err := toMap(&v)
	if err != nil {
		return zero, err
	}
	d, err := r.store.Add(ctx, r.collection, data)
	if err != nil {
		return zero, err
	}
	r.wrote("create")
	return r.decode(d)
}

// Update é read-modify-write: apply recebe o registro atual e o altera (ex:
// decodificando o corpo da requisição por cima); depois vale o mesmo fluxo
// do Create.
func (r *Repository[T, P]) Update(ctx context.Context, id string, apply func(*T) error) (T, error) {
	current, err := r.Get(ctx, id)
	if err != nil {
		return current, err
	}
	var zero T
	if err := apply(&current); err != nil {
		return zero, err
	}
	P(&current).normalize(r.now())
	if err := r.validate.Struct(&current); err != nil {
		return zero, err
	}
	data, err := toMap(&current)
	if err != nil {
		return zero, err
	}
	d, err := r.store.Update(ctx, r.collection, id, data)
	if err != nil {
		return zero, err
	}
	r.wrote("update")
	return r.decode(d)
}

func (r *Repository[T, P]) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, r.collection, id); err != nil {
		return err
	}
	r.wrote("delete")
	return nil
}

func (r *Repository[T, P]) wrote(op string) {
	if r.onWrite != nil {
		r.onWrite(r.collection, op)
	}
}

func (r *Repository[T, P]) decode(d docstore.Document) (T, error) {
	var v T
	raw, err := json.Marshal(d.Data)
	if err != nil {
		return v, fmt.Errorf("encode %s/%s: %w", r.collection, d.ID, err)
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("decode %s/%s: %w", r.collection, d.ID, err)
	}
	P(&v).setMeta(d)
	return v, nil
}

func toMap(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	m := map[string]any{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	delete(m, docstore.FieldID)
	delete(m, docstore.FieldCreatedAt)
	delete(m, docstore.FieldUpdatedAt)
	return m, nil
}

// DecodeJSON decodifica body em v recusando campos desconhecidos e lixo
// depois do objeto.
func DecodeJSON(body []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &ValidationError{Message: "invalid JSON body: " + err.Error()}
	}
	if dec.More() {
		return &ValidationError{Message: "invalid JSON body: trailing data"}
	}
	return nil
}
