package remote

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Postgres is a Store backed by a single PostgreSQL document table. Merge
// writes rely on JSONB concatenation, so fields the engine does not know
// about survive a merge untouched.
type Postgres struct {
	connStr string
	db      *sql.DB
}

func NewPostgres(connStr string) *Postgres {
	return &Postgres{connStr: connStr}
}

// Load opens the connection and ensures the document table exists.
func (p *Postgres) Load() error {
	db, err := sql.Open("postgres", p.connStr)
	if err != nil {
		return fmt.Errorf("failed to open remote store: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to reach remote store: %w", err)
	}

	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS documents (
			uid        TEXT NOT NULL,
			collection TEXT NOT NULL,
			doc_id     TEXT NOT NULL,
			fields     JSONB NOT NULL DEFAULT '{}'::jsonb,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (uid, collection, doc_id)
		)`); err != nil {
		db.Close()
		return fmt.Errorf("failed to ensure documents table: %w", err)
	}

	p.db = db
	return nil
}

func (p *Postgres) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, uid, collection string) ([]Document, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT doc_id, fields
		FROM documents
		WHERE uid = $1 AND collection = $2
		ORDER BY doc_id`, uid, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s documents: %w", collection, err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var doc Document
		var encoded []byte
		if err := rows.Scan(&doc.ID, &encoded); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(encoded, &doc.Fields); err != nil {
			return nil, fmt.Errorf("failed to decode document %s: %w", doc.ID, err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (p *Postgres) Set(ctx context.Context, uid, collection, docID string, fields map[string]interface{}, merge bool) error {
	encoded, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode document fields: %w", err)
	}

	assign := "EXCLUDED.fields"
	if merge {
		assign = "documents.fields || EXCLUDED.fields"
	}

	_, err = p.db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO documents (uid, collection, doc_id, fields, updated_at)
		VALUES ($1, $2, $3, $4::jsonb, now())
		ON CONFLICT (uid, collection, doc_id) DO UPDATE SET
			fields = %s,
			updated_at = now()`, assign),
		uid, collection, docID, string(encoded))
	if err != nil {
		return fmt.Errorf("failed to write %s/%s: %w", collection, docID, err)
	}
	return nil
}
