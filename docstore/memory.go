package docstore

import (
	"context"
	"maps"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore guarda documentos num mapa protegido por mutex. Cópias rasas
// entram e saem, então o chamador pode alterar o mapa devolvido sem afetar o
// store.
type MemoryStore struct {
	mu   sync.RWMutex
	cols map[string]map[string]Document
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cols: make(map[string]map[string]Document)}
}

func (s *MemoryStore) List(_ context.Context, collection string) ([]Document, error) {
	if err := checkRef(collection, "", false); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]Document, 0, len(s.cols[collection]))
	for _, d := range s.cols[collection] {
		docs = append(docs, copyDoc(d))
	}
	return docs, nil
}

func (s *MemoryStore) Get(_ context.Context, collection, id string) (Document, error) {
	if err := checkRef(collection, id, true); err != nil {
		return Document{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.cols[collection][id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return copyDoc(d), nil
}

func (s *MemoryStore) Add(_ context.Context, collection string, data map[string]any) (Document, error) {
	if err := checkRef(collection, "", false); err != nil {
		return Document{}, err
	}

	ts := now()
	d := Document{
		ID:        uuid.NewString(),
		Data:      clean(data),
		CreatedAt: ts,
		UpdatedAt: ts,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cols[collection] == nil {
		s.cols[collection] = make(map[string]Document)
	}
	s.cols[collection][d.ID] = d
	return copyDoc(d), nil
}

func (s *MemoryStore) Update(_ context.Context, collection, id string, data map[string]any) (Document, error) {
	if err := checkRef(collection, id, true); err != nil {
		return Document{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.cols[collection][id]
	if !ok {
		return Document{}, ErrNotFound
	}
	merged := maps.Clone(d.Data)
	maps.Copy(merged, clean(data))
	d.Data = merged
	d.UpdatedAt = now()
	s.cols[collection][id] = d
	return copyDoc(d), nil
}

func (s *MemoryStore) Delete(_ context.Context, collection, id string) error {
	if err := checkRef(collection, id, true); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cols[collection][id]; !ok {
		return ErrNotFound
	}
	delete(s.cols[collection], id)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

func copyDoc(d Document) Document {
	d.Data = maps.Clone(d.Data)
	if d.Data == nil {
		d.Data = map[string]any{}
	}
	return d
}
