// Package docstore é a camada fina sobre o banco de documentos: listar,
// buscar, criar, atualizar e remover documentos planos por coleção, além de
// helpers de ordenação/filtragem em memória.
//
// Backends: MemoryStore (testes e desenvolvimento), SQLiteStore (instalação
// local com persistência) e FirestoreStore (produção).
package docstore

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("docstore: document not found")
	ErrEmptyCollection = errors.New("docstore: collection name is required")
	ErrEmptyID         = errors.New("docstore: document id is required")
)

// Campos reservados: gerados pelo store e nunca gravados a partir de data.
const (
	FieldID        = "id"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

type Document struct {
	ID        string
	Data      map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store é o contrato comum dos backends.
type Store interface {
	// List devolve todos os documentos da coleção, sem ordem garantida.
	List(ctx context.Context, collection string) ([]Document, error)
	Get(ctx context.Context, collection, id string) (Document, error)
	// Add gera o id e preenche createdAt/updatedAt com o mesmo instante (UTC).
	Add(ctx context.Context, collection string, data map[string]any) (Document, error)
	// Update mescla os campos de data no documento existente e renova updatedAt.
	Update(ctx context.Context, collection, id string, data map[string]any) (Document, error)
	Delete(ctx context.Context, collection, id string) error
	Close() error
}

// clean copia data sem os campos reservados.
func clean(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		switch k {
		case FieldID, FieldCreatedAt, FieldUpdatedAt:
			continue
		}
		out[k] = v
	}
	return out
}

func checkRef(collection, id string, needID bool) error {
	if collection == "" {
		return ErrEmptyCollection
	}
	if needID && id == "" {
		return ErrEmptyID
	}
	return nil
}

func now() time.Time { return time.Now().UTC() }
