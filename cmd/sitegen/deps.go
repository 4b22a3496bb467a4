package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"

	appconfig "github.com/gruzpro/site-platform/internal/config"
	"github.com/gruzpro/site-platform/internal/news"
	"github.com/gruzpro/site-platform/internal/sitegen"
	"github.com/gruzpro/site-platform/pkg/logging"
)

// openNewsRepo connects to the store, or returns a nil repository when no
// DSN is configured. The exporter turns the nil into ErrStoreNotConfigured,
// which carries its own exit code.
func openNewsRepo(ctx context.Context, cfg *appconfig.Config) (news.Repository, func(), error) {
	dsn := cfg.StoreDSN()
	if dsn == "" {
		return nil, func() {}, nil
	}
	// pgxpool.New only parses the DSN; connections are opened lazily. A
	// failure here means bad credentials syntax, a config problem, not a
	// fetch problem.
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, func() {}, fmt.Errorf("%w: %v", sitegen.ErrStoreNotConfigured, err)
	}
	return news.NewPostgresRepository(pool), pool.Close, nil
}

// loadSnapshot reads the data file from a previous export. A missing file
// yields a nil snapshot so downstream steps can degrade instead of failing.
func loadSnapshot(dir string, logger *logging.Logger) (*sitegen.Snapshot, error) {
	path := filepath.Join(dir, sitegen.DataFileName)
	snap, err := sitegen.ReadSnapshot(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("no exported snapshot found", "path", path)
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", sitegen.ErrWriteFailed, err)
	}
	return snap, nil
}

func newLogger(cfg *appconfig.Config) *logging.Logger {
	return logging.NewText(cfg.LogLevel)
}
