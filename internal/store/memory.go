package store

import (
	"context"
	"sync"

	"finboard/internal/core"
)

// Memory keeps the document in process memory. It backs local development and
// the degraded mode entered when a persistent backend cannot be reached.
type Memory struct {
	mu  sync.Mutex
	doc *core.Document
}

// NewMemory returns an empty in-memory store. Load reports ErrNotFound until
// the first Save.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load(ctx context.Context) (*core.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.doc == nil {
		return nil, ErrNotFound
	}
	doc := m.doc.Clone()
	doc.Normalize()
	return doc, nil
}

func (m *Memory) Save(ctx context.Context, doc *core.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	// Whole-document replace, same as the persistent backends.
	m.doc = doc.Clone()
	return nil
}

func (m *Memory) Close() error { return nil }
