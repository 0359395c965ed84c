package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

var sqliteInit = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
	`CREATE TABLE IF NOT EXISTS documents (
		collection TEXT    NOT NULL,
		id         TEXT    NOT NULL,
		data       TEXT    NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL,
		PRIMARY KEY (collection, id)
	)`,
	"CREATE INDEX IF NOT EXISTS documents_collection_created ON documents (collection, created_at)",
}

// SQLiteStore grava cada documento como JSON numa única tabela indexada por
// (collection, id). Números voltam como float64, como em qualquer JSON.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite abre (ou cria) o banco em path e aplica o schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// uma conexão só: evita SQLITE_BUSY entre escritores do mesmo processo
	db.SetMaxOpenConns(1)

	for _, stmt := range sqliteInit {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init sqlite schema: %w", err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) List(ctx context.Context, collection string) ([]Document, error) {
	if err := checkRef(collection, "", false); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, data, created_at, updated_at FROM documents WHERE collection = ?`, collection)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", collection, err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	return docs, nil
}

func (s *SQLiteStore) Get(ctx context.Context, collection, id string) (Document, error) {
	if err := checkRef(collection, id, true); err != nil {
		return Document{}, err
	}
	return s.get(ctx, s.db, collection, id)
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQLiteStore) get(ctx context.Context, q queryer, collection, id string) (Document, error) {
	row := q.QueryRowContext(ctx,
		`SELECT id, data, created_at, updated_at FROM documents WHERE collection = ? AND id = ?`, collection, id)
	d, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return d, nil
}

func (s *SQLiteStore) Add(ctx context.Context, collection string, data map[string]any) (Document, error) {
	if err := checkRef(collection, "", false); err != nil {
		return Document{}, err
	}

	ts := now()
	d := Document{ID: uuid.NewString(), Data: clean(data), CreatedAt: ts, UpdatedAt: ts}
	raw, err := json.Marshal(d.Data)
	if err != nil {
		return Document{}, fmt.Errorf("encode document: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, data, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		collection, d.ID, string(raw), ts.UnixNano(), ts.UnixNano())
	if err != nil {
		return Document{}, fmt.Errorf("add %s: %w", collection, err)
	}
	// devolve o que foi persistido, já com os tipos normalizados pelo JSON
	return decodeDocument(d.ID, raw, ts.UnixNano(), ts.UnixNano())
}

func (s *SQLiteStore) Update(ctx context.Context, collection, id string, data map[string]any) (Document, error) {
	if err := checkRef(collection, id, true); err != nil {
		return Document{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Document{}, fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	defer func() { _ = tx.Rollback() }()

	d, err := s.get(ctx, tx, collection, id)
	if err != nil {
		return Document{}, err
	}
	merged := maps.Clone(d.Data)
	maps.Copy(merged, clean(data))
	raw, err := json.Marshal(merged)
	if err != nil {
		return Document{}, fmt.Errorf("encode document: %w", err)
	}

	updated := now().UnixNano()
	if _, err := tx.ExecContext(ctx,
		`UPDATE documents SET data = ?, updated_at = ? WHERE collection = ? AND id = ?`,
		string(raw), updated, collection, id); err != nil {
		return Document{}, fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	if err := tx.Commit(); err != nil {
		return Document{}, fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	return decodeDocument(id, raw, d.CreatedAt.UnixNano(), updated)
}

func (s *SQLiteStore) Delete(ctx context.Context, collection, id string) error {
	if err := checkRef(collection, id, true); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE collection = ? AND id = ?`, collection, id)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(sc scanner) (Document, error) {
	var (
		id               string
		raw              string
		created, updated int64
	)
	if err := sc.Scan(&id, &raw, &created, &updated); err != nil {
		return Document{}, err
	}
	return decodeDocument(id, []byte(raw), created, updated)
}

func decodeDocument(id string, raw []byte, created, updated int64) (Document, error) {
	data := map[string]any{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return Document{}, fmt.Errorf("decode document %s: %w", id, err)
	}
	return Document{
		ID:        id,
		Data:      data,
		CreatedAt: time.Unix(0, created).UTC(),
		UpdatedAt: time.Unix(0, updated).UTC(),
	}, nil
}
