// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists compound documents to a document store. The
// default backend is MongoDB; a SQLite backend stores the same documents
// as JSON rows for deployments without a mongod. A connection is opened
// and released within each Insert call.
package store

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/pdiddy/compound-etl/pkg/types"
)

// Sentinel errors for the load stage. Callers match with errors.Is.
var (
	// ErrConnection reports an unreachable store.
	ErrConnection = errors.New("store unreachable")

	// ErrStore reports a persistence failure on a reachable store.
	ErrStore = errors.New("store operation failed")
)

// Store writes one document per call and returns its assigned identifier.
type Store interface {
	// Insert writes doc as a new entry. The connection it opens is
	// released on every exit path. No retries: a failed attempt
	// surfaces immediately.
	Insert(ctx context.Context, doc any) (string, error)
}

// New returns a Store for cfg with defaults applied. An empty backend
// selects MongoDB. A nil logger is replaced with a no-op.
func New(cfg types.StoreConfig, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg = withDefaults(cfg)

	switch cfg.Backend {
	case types.BackendMongo:
		return &MongoStore{cfg: cfg, logger: logger}, nil
	case types.BackendSQLite:
		if cfg.Path == "" {
			return nil, fmt.Errorf("sqlite store requires a database file path")
		}
		return &SQLiteStore{cfg: cfg, logger: logger}, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

func withDefaults(cfg types.StoreConfig) types.StoreConfig {
	if cfg.Backend == "" {
		cfg.Backend = types.BackendMongo
	}
	if cfg.URI == "" {
		cfg.URI = types.DefaultStoreURI
	}
	if cfg.Database == "" {
		cfg.Database = types.DefaultDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = types.DefaultCollection
	}
	return cfg
}
