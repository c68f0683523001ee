// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/pdiddy/compound-etl/pkg/types"
)

// openDatabase and closeDatabase are vars so tests can instrument the
// connection lifecycle.
var (
	openDatabase = func(path string) (*sql.DB, error) {
		return sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	}
	closeDatabase = func(db *sql.DB) error {
		return db.Close()
	}
)

const createDocumentsTable = `CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	collection TEXT NOT NULL,
	body TEXT NOT NULL,
	created_at TEXT NOT NULL
)`

// SQLiteStore inserts documents as JSON rows into a SQLite database
// file. Identifiers are UUIDs assigned before the insert, so a returned
// identifier always names exactly one row. The database handle is scoped
// to each Insert call.
type SQLiteStore struct {
	cfg    types.StoreConfig
	logger *zap.Logger
}

// Insert opens the database file, creates the schema if needed, and
// writes doc as a JSON row. An unopenable or unreachable file maps to
// ErrConnection; a failed write to ErrStore.
func (s *SQLiteStore) Insert(ctx context.Context, doc any) (id string, err error) {
	db, err := openDatabase(s.cfg.Path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrConnection, err)
	}
	defer func() {
		if cerr := closeDatabase(db); cerr != nil && err == nil {
			err = fmt.Errorf("%w: closing database: %v", ErrStore, cerr)
		}
	}()

	if err := db.PingContext(ctx); err != nil {
		return "", fmt.Errorf("%w: %v", ErrConnection, err)
	}

	if _, err := db.ExecContext(ctx, createDocumentsTable); err != nil {
		return "", fmt.Errorf("%w: creating schema: %v", ErrStore, err)
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("%w: encoding document: %v", ErrStore, err)
	}

	id = uuid.NewString()
	query, args, err := sq.Insert("documents").
		Columns("id", "collection", "body", "created_at").
		Values(id, s.cfg.Collection, string(body), time.Now().UTC().Format(time.RFC3339Nano)).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("%w: building insert: %v", ErrStore, err)
	}

	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return "", fmt.Errorf("%w: %v", ErrStore, err)
	}

	s.logger.Info("document stored",
		zap.String("path", s.cfg.Path),
		zap.String("collection", s.cfg.Collection),
		zap.String("id", id))
	return id, nil
}
