package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/keyxmakerx/zeromovies/internal/config"
	"github.com/keyxmakerx/zeromovies/internal/database"
	"github.com/keyxmakerx/zeromovies/internal/plugins/auth"
	"github.com/keyxmakerx/zeromovies/internal/plugins/catalog"
)

// Stores is the record store behind both plugins. DB is nil for the file
// backend.
type Stores struct {
	Users  auth.UserRepository
	Movies catalog.MovieRepository

	backend string
	dataDir string
	db      *sql.DB
}

// OpenStores opens the backend selected by cfg.Store.Backend. The MariaDB
// backend is migrated to the latest schema before use.
func OpenStores(cfg *config.Config) (*Stores, error) {
	switch cfg.Store.Backend {
	case config.BackendFile:
		return openFileStores(cfg.Store.DataDir)
	case config.BackendMySQL:
		db, err := database.NewMariaDB(cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := database.RunMigrations(db); err != nil {
			db.Close()
			return nil, err
		}
		slog.Info("connected to MariaDB")
		return &Stores{
			Users:   auth.NewUserRepository(db),
			Movies:  catalog.NewMovieRepository(db),
			backend: config.BackendMySQL,
			db:      db,
		}, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func openFileStores(dataDir string) (*Stores, error) {
	users, err := auth.NewFileUserRepository(dataDir)
	if err != nil {
		return nil, err
	}
	movies, err := catalog.NewFileMovieRepository(dataDir)
	if err != nil {
		return nil, err
	}
	slog.Info("using file store", slog.String("dir", dataDir))
	return &Stores{
		Users:   users,
		Movies:  movies,
		backend: config.BackendFile,
		dataDir: dataDir,
	}, nil
}

// Ping reports whether the store is reachable.
func (s *Stores) Ping(ctx context.Context) error {
	if s.db != nil {
		return s.db.PingContext(ctx)
	}
	info, err := os.Stat(s.dataDir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", s.dataDir)
	}
	return nil
}

// Backend names the store in use.
func (s *Stores) Backend() string { return s.backend }

// Close closes the database pool, if any.
func (s *Stores) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
