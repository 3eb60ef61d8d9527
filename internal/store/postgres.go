package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"finboard/internal/core"

	_ "github.com/lib/pq"
)

// Postgres persists the document in a shared Postgres instance, covering
// deployments where the ledger must outlive the host running the process.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(conn string) (*Postgres, error) {
	db, err := sql.Open("postgres", conn)
	if err != nil {
		return nil, fmt.Errorf("open postgres database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping database: %v", ErrUnavailable, err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		body JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure documents table: %w", err)
	}

	return &Postgres{db: db}, nil
}

func (p *Postgres) Load(ctx context.Context) (*core.Document, error) {
	var body []byte
	err := p.db.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE id = $1`, DocumentID).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load document: %v", ErrUnavailable, err)
	}

	var doc core.Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode document body: %w", err)
	}
	doc.Normalize()
	return &doc, nil
}

func (p *Postgres) Save(ctx context.Context, doc *core.Document) error {
	doc.Normalize()
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document body: %w", err)
	}

	_, err = p.db.ExecContext(ctx,
		`INSERT INTO documents (id, body, updated_at) VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at`,
		DocumentID, body, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("%w: save document: %v", ErrUnavailable, err)
	}

	slog.DebugContext(ctx, "Ledger document saved", "backend", "postgres", "bytes", len(body))
	return nil
}

func (p *Postgres) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}
