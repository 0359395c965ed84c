package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore mapeia cada coleção para uma coleção do Firestore. Os
// timestamps ficam nos próprios documentos, em createdAt/updatedAt.
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) List(ctx context.Context, collection string) ([]Document, error) {
	if err := checkRef(collection, "", false); err != nil {
		return nil, err
	}

	it := s.client.Collection(collection).Documents(ctx)
	defer it.Stop()

	var docs []Document
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return docs, nil
		}
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", collection, err)
		}
		docs = append(docs, fromSnapshot(snap))
	}
}

func (s *FirestoreStore) Get(ctx context.Context, collection, id string) (Document, error) {
	if err := checkRef(collection, id, true); err != nil {
		return Document{}, err
	}

	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		return Document{}, mapFirestoreErr(fmt.Sprintf("get %s/%s", collection, id), err)
	}
	return fromSnapshot(snap), nil
}

func (s *FirestoreStore) Add(ctx context.Context, collection string, data map[string]any) (Document, error) {
	if err := checkRef(collection, "", false); err != nil {
		return Document{}, err
	}

	ts := now()
	payload := clean(data)
	payload[FieldCreatedAt] = ts
	payload[FieldUpdatedAt] = ts

	ref := s.client.Collection(collection).NewDoc()
	if _, err := ref.Create(ctx, payload); err != nil {
		return Document{}, fmt.Errorf("add %s: %w", collection, err)
	}
	return Document{ID: ref.ID, Data: clean(data), CreatedAt: ts, UpdatedAt: ts}, nil
}

func (s *FirestoreStore) Update(ctx context.Context, collection, id string, data map[string]any) (Document, error) {
	if err := checkRef(collection, id, true); err != nil {
		return Document{}, err
	}

	fields := clean(data)
	updates := make([]firestore.Update, 0, len(fields)+1)
	for k, v := range fields {
		// FieldPath evita que "a.b" seja interpretado como campo aninhado
		updates = append(updates, firestore.Update{FieldPath: firestore.FieldPath{k}, Value: v})
	}
	updates = append(updates, firestore.Update{FieldPath: firestore.FieldPath{FieldUpdatedAt}, Value: now()})

	ref := s.client.Collection(collection).Doc(id)
	// Update falha com NotFound quando o documento não existe
	if _, err := ref.Update(ctx, updates); err != nil {
		return Document{}, mapFirestoreErr(fmt.Sprintf("update %s/%s", collection, id), err)
	}
	return s.Get(ctx, collection, id)
}

func (s *FirestoreStore) Delete(ctx context.Context, collection, id string) error {
	if err := checkRef(collection, id, true); err != nil {
		return err
	}

	_, err := s.client.Collection(collection).Doc(id).Delete(ctx, firestore.Exists)
	if err != nil {
		return mapFirestoreErr(fmt.Sprintf("delete %s/%s", collection, id), err)
	}
	return nil
}

func (s *FirestoreStore) Close() error { return s.client.Close() }

func fromSnapshot(snap *firestore.DocumentSnapshot) Document {
	data := snap.Data()
	d := Document{ID: snap.Ref.ID, Data: clean(data)}
	d.CreatedAt = timeField(data[FieldCreatedAt], snap.CreateTime)
	d.UpdatedAt = timeField(data[FieldUpdatedAt], snap.UpdateTime)
	return d
}

// timeField aceita o campo gravado pelo store; documentos criados fora dele
// (console do Firebase, importação) caem no timestamp do próprio Firestore.
func timeField(v any, fallback time.Time) time.Time {
	if t, ok := v.(time.Time); ok {
		return t.UTC()
	}
	return fallback.UTC()
}

func mapFirestoreErr(op string, err error) error {
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
