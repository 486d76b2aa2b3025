package backend

import (
	"context"
	"time"

	"ledger/internal/store"
)

// CleanupFunc releases the resources held by a backend.
type CleanupFunc func() error

// PingFunc reports whether the backend can serve reads.
type PingFunc func(ctx context.Context) error

// BackendResult contains the ledger reader and its lifecycle hooks.
type BackendResult struct {
	Reader store.Reader
	// Cache is the snapshot cache in front of Reader, nil when disabled.
	Cache   *store.Cached
	Ping    PingFunc
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// DataFile seeds the memory backend. For database backends it replaces the
	// stored ledger at startup when set.
	DataFile string

	SQLiteDBPath string
	DatabaseURL  string

	// CacheTTL enables the snapshot cache when positive.
	CacheTTL time.Duration
}

// BackendType represents the type of backend
type BackendType string

const (
	MemoryBackend   BackendType = "memory"
	SQLiteBackend   BackendType = "sqlite"
	PostgresBackend BackendType = "postgres"
)

func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, SQLiteBackend, PostgresBackend:
		return true
	default:
		return false
	}
}
