package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"insights-dashboard/internal/config"
	"insights-dashboard/internal/logger"
)

// Opener establishes a verified connection pool
type Opener func(ctx context.Context) (*sqlx.DB, error)

// Store is the SQL-backed insight store. The pool is opened on first use and
// shared by every caller for the life of the process. A failed open is not
// remembered, so the next call tries again.
type Store struct {
	open Opener
	log  logger.Logger

	mu sync.Mutex
	db *sqlx.DB
}

// New creates a store for the configured database without connecting
func New(cfg config.DatabaseConfig, log logger.Logger) *Store {
	return NewWithOpener(SQLOpener(cfg), log)
}

// NewWithOpener creates a store that connects through open
func NewWithOpener(open Opener, log logger.Logger) *Store {
	return &Store{open: open, log: log}
}

// SQLOpener opens and pings a pool for cfg
func SQLOpener(cfg config.DatabaseConfig) Opener {
	return func(ctx context.Context) (*sqlx.DB, error) {
		db, err := sqlx.Open(cfg.Driver, cfg.DSN())
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

		pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ping database: %w", err)
		}
		return db, nil
	}
}

// conn returns the shared pool, opening it if needed
func (s *Store) conn(ctx context.Context) (*sqlx.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return s.db, nil
	}

	db, err := s.open(ctx)
	if err != nil {
		return nil, &RetrievalError{Kind: KindUnavailable, Op: "connect", Err: err}
	}
	s.log.Info("Database connected", logger.String("driver", db.DriverName()))
	s.db = db
	return db, nil
}

// Ping verifies the store is reachable
func (s *Store) Ping(ctx context.Context) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		return &RetrievalError{Kind: KindUnavailable, Op: "ping", Err: err}
	}
	return nil
}

// Close releases the pool if it was opened
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
