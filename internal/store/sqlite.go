package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"finboard/internal/core"

	_ "modernc.org/sqlite"
)

// SQLite persists the document as a JSON body in a one-row documents table.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(dbPath string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Load(ctx context.Context) (*core.Document, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE id = ?`, DocumentID).Scan(&body)
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

func (s *SQLite) Save(ctx context.Context, doc *core.Document) error {
	doc.Normalize()
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document body: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (id, body, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		DocumentID, body, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("%w: save document: %v", ErrUnavailable, err)
	}

	slog.DebugContext(ctx, "Ledger document saved", "backend", "sqlite", "bytes", len(body))
	return nil
}

func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
