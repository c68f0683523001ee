// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pdiddy/compound-etl/pkg/types"
)

func newSQLiteStore(t *testing.T) (*SQLiteStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "compounds.db")
	st, err := New(types.StoreConfig{Backend: types.BackendSQLite, Path: path}, zap.NewNop())
	require.NoError(t, err)
	return st.(*SQLiteStore), path
}

func sampleDocument() types.CompoundDocument {
	return types.CompoundDocument{
		Name:   "aspirin",
		SMILES: "CC(=O)OC1=CC=CC=C1C(=O)O",
		Descriptors: types.DescriptorSet{
			MolWt: 180.159, LogP: 1.31, NumHDonors: 1, NumHAcceptors: 4,
		},
	}
}

func TestSQLiteInsert(t *testing.T) {
	st, path := newSQLiteStore(t)

	id, err := st.Insert(context.Background(), sampleDocument())
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	var collection, body string
	require.NoError(t, db.QueryRow(
		`SELECT collection, body FROM documents WHERE id = ?`, id,
	).Scan(&collection, &body))
	assert.Equal(t, "compounds", collection)

	var got types.CompoundDocument
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.Equal(t, sampleDocument(), got)
}

func TestSQLiteInsertAssignsDistinctIDs(t *testing.T) {
	st, _ := newSQLiteStore(t)

	first, err := st.Insert(context.Background(), sampleDocument())
	require.NoError(t, err)
	second, err := st.Insert(context.Background(), sampleDocument())
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestSQLiteInsertConnectionError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "compounds.db")
	st, err := New(types.StoreConfig{Backend: types.BackendSQLite, Path: path}, zap.NewNop())
	require.NoError(t, err)

	_, err = st.Insert(context.Background(), sampleDocument())
	assert.ErrorIs(t, err, ErrConnection)
}

func TestSQLiteInsertStoreError(t *testing.T) {
	st, path := newSQLiteStore(t)

	// A pre-existing documents table with the wrong shape makes the
	// insert itself fail on a reachable database.
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE documents (wrong TEXT)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = st.Insert(context.Background(), sampleDocument())
	assert.ErrorIs(t, err, ErrStore)
	assert.False(t, errors.Is(err, ErrConnection))
}

func TestSQLiteConnectionLifecycle(t *testing.T) {
	origOpen, origClose := openDatabase, closeDatabase
	t.Cleanup(func() {
		openDatabase, closeDatabase = origOpen, origClose
	})

	var opens, closes int
	openDatabase = func(path string) (*sql.DB, error) {
		opens++
		return origOpen(path)
	}
	closeDatabase = func(db *sql.DB) error {
		closes++
		return origClose(db)
	}

	st, path := newSQLiteStore(t)

	_, err := st.Insert(context.Background(), sampleDocument())
	require.NoError(t, err)
	assert.Equal(t, 1, opens, "opens after successful insert")
	assert.Equal(t, 1, closes, "closes after successful insert")

	// Break the schema so the next insert fails after the connection
	// has been opened.
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(`DROP TABLE documents`)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE documents (wrong TEXT)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = st.Insert(context.Background(), sampleDocument())
	require.ErrorIs(t, err, ErrStore)
	assert.Equal(t, 2, opens, "opens after failed insert")
	assert.Equal(t, 2, closes, "closes after failed insert: the connection is released on error paths too")
}
