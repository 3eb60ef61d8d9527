package store

import (
	"fmt"
	"log/slog"
)

// BackendType selects the persistence backend.
type BackendType string

const (
	MemoryBackend   BackendType = "memory"
	SQLiteBackend   BackendType = "sqlite"
	PostgresBackend BackendType = "postgres"
)

// String implements fmt.Stringer.
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid.
func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, SQLiteBackend, PostgresBackend:
		return true
	default:
		return false
	}
}

// Config holds configuration for backend creation.
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// Postgres specific
	PostgresConn string
}

// Factory creates stores based on configuration.
type Factory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// Open creates the configured store. Connectivity failures are returned to the
// caller; falling back to a memory store (degraded mode) is an explicit
// caller decision so it never happens silently.
func (f *Factory) Open(cfg Config) (Store, error) {
	switch cfg.Type {
	case SQLiteBackend:
		st, err := NewSQLite(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite store: %w", err)
		}
		f.logger.Info("Initialized sqlite store", "db_path", cfg.SQLiteDBPath)
		return st, nil
	case PostgresBackend:
		st, err := NewPostgres(cfg.PostgresConn)
		if err != nil {
			return nil, fmt.Errorf("initialize postgres store: %w", err)
		}
		f.logger.Info("Initialized postgres store")
		return st, nil
	case MemoryBackend:
		f.logger.Info("Initialized memory store")
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("invalid backend type: %s", cfg.Type)
	}
}
