package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-user-auth/internal/config"
	"github.com/MKhiriev/go-user-auth/internal/logger"
)

// Backend names returned by [BackendFor].
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendMongo    = "mongo"
)

// Storages groups the repositories of the service into a single value that
// is constructed once at startup and closed at shutdown.
type Storages struct {
	// UserRepository is the user store selected by the database URI.
	UserRepository UserRepository
}

// NewStorages initialises the storage layer selected by cfg.DB.DSN:
//  1. Opens the backend connection and pings it.
//  2. Runs pending schema migrations for SQL backends via [DB.Migrate].
//  3. Returns a [Storages] value wired to the matching [UserRepository].
func NewStorages(ctx context.Context, cfg config.Storage, logger *logger.Logger) (*Storages, error) {
	backend, err := BackendFor(cfg.DB.DSN)
	if err != nil {
		return nil, err
	}
	logger.Info().Str("backend", backend).Msg("creating new storages...")

	var repo UserRepository
	switch backend {
	case BackendMemory:
		repo = NewMemoryUserRepository(logger)
	case BackendPostgres, BackendSQLite:
		repo, err = newSQLUserRepository(ctx, backend, cfg.DB, logger)
	case BackendMongo:
		repo, err = NewMongoUserRepository(ctx, cfg.DB.DSN, logger)
	}
	if err != nil {
		return nil, err
	}

	return &Storages{UserRepository: repo}, nil
}

// Close releases every repository.
func (s *Storages) Close() error {
	if s == nil || s.UserRepository == nil {
		return nil
	}
	return s.UserRepository.Close()
}

func newSQLUserRepository(ctx context.Context, backend string, cfg config.DB, logger *logger.Logger) (UserRepository, error) {
	var (
		db  *DB
		err error
	)
	if backend == BackendPostgres {
		db, err = NewConnectPostgres(ctx, cfg, logger)
	} else {
		db, err = NewConnectSQLite(ctx, cfg, logger)
	}
	if err != nil {
		return nil, fmt.Errorf("%s connection error: %w", backend, err)
	}

	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return NewUserRepository(db, logger), nil
}

// BackendFor maps a database URI to a backend name.
func BackendFor(dsn string) (string, error) {
	switch {
	case dsn == "" || dsn == BackendMemory:
		return BackendMemory, nil
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return BackendPostgres, nil
	case strings.HasPrefix(dsn, "sqlite://"), strings.HasPrefix(dsn, "file:"):
		return BackendSQLite, nil
	case strings.HasPrefix(dsn, "mongodb://"), strings.HasPrefix(dsn, "mongodb+srv://"):
		return BackendMongo, nil
	default:
		return "", ErrUnsupportedDSN
	}
}
