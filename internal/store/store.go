// Package store persists the single ledger document. All backends share
// replace-or-insert semantics keyed by one fixed document id: saving never
// creates a second document, loading always returns the latest save.
package store

import (
	"context"
	"errors"

	"finboard/internal/core"
)

// DocumentID is the fixed primary key of the single ledger document.
const DocumentID = "user_data"

var (
	// ErrNotFound is returned by Load when no document has been saved yet.
	ErrNotFound = errors.New("ledger document not found")
	// ErrUnavailable wraps connectivity failures so callers can map them to a
	// distinct status without knowing the backend.
	ErrUnavailable = errors.New("ledger store unavailable")
)

// Store is the narrow persistence contract for the ledger document.
type Store interface {
	Load(ctx context.Context) (*core.Document, error)
	Save(ctx context.Context, doc *core.Document) error
	Close() error
}
