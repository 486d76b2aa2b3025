package backend

import (
	"context"
	"fmt"
	"log/slog"

	"ledger/internal/storage"
	"ledger/internal/storage/postgres"
	"ledger/internal/store"
	"ledger/internal/store/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateBackend builds the configured store, seeds it when a data file is set
// and puts the snapshot cache in front of it.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		res *BackendResult
		err error
	)
	switch config.Type {
	case MemoryBackend:
		res, err = f.createMemoryBackend(config)
	case SQLiteBackend:
		res, err = f.createSQLiteBackend(ctx, config)
	case PostgresBackend:
		res, err = f.createPostgresBackend(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	if config.CacheTTL > 0 {
		res.Cache = store.NewCached(res.Reader, config.CacheTTL)
		res.Reader = res.Cache
		f.logger.Info("Snapshot cache enabled", "ttl", config.CacheTTL)
	}
	return res, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) (*BackendResult, error) {
	if config.DataFile == "" {
		f.logger.Info("Initialized memory backend with sample ledger")
		return &BackendResult{Reader: memory.New(memory.Sample())}, nil
	}

	s, err := memory.NewFromFile(config.DataFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger file: %w", err)
	}
	f.logger.Info("Initialized memory backend", "data_file", config.DataFile)
	return &BackendResult{Reader: s}, nil
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}
	if err := f.seed(ctx, config.DataFile, repo); err != nil {
		repo.Close()
		return nil, err
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	return &BackendResult{Reader: repo, Ping: repo.Ping, Cleanup: repo.Close}, nil
}

func (f *DefaultFactory) createPostgresBackend(ctx context.Context, config Config) (*BackendResult, error) {
	repo, err := postgres.Open(ctx, config.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Postgres repository: %w", err)
	}
	if err := f.seed(ctx, config.DataFile, repo); err != nil {
		repo.Close()
		return nil, err
	}

	f.logger.Info("Initialized Postgres backend")
	return &BackendResult{Reader: repo, Ping: repo.Ping, Cleanup: repo.Close}, nil
}

// seed replaces the stored ledger with the content of dataFile, if any.
func (f *DefaultFactory) seed(ctx context.Context, dataFile string, dst store.Importer) error {
	if dataFile == "" {
		return nil
	}
	src, err := memory.NewFromFile(dataFile)
	if err != nil {
		return fmt.Errorf("failed to load seed file: %w", err)
	}
	snap, err := store.LoadSnapshot(ctx, src)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	if err := dst.Import(ctx, snap); err != nil {
		return fmt.Errorf("seed ledger: %w", err)
	}
	f.logger.Info("Ledger seeded from file", "data_file", dataFile)
	return nil
}
