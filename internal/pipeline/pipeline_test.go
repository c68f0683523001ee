// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pdiddy/compound-etl/internal/descriptor"
	"github.com/pdiddy/compound-etl/internal/fetch"
	"github.com/pdiddy/compound-etl/internal/store"
	"github.com/pdiddy/compound-etl/pkg/types"
)

// compoundSMILES backs the fake PubChem server: name -> connectivity SMILES.
var compoundSMILES = map[string]string{
	"aspirin": "CC(=O)OC1=CC=CC=C1C(=O)O",
	"ethanol": "CCO",
	"benzene": "c1ccccc1",
	"garbage": "not-a-smiles",
}

func newPubChemServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Path shape: /{name}/JSON
		name := filepath.Base(filepath.Dir(r.URL.Path))
		smiles, ok := compoundSMILES[name]
		if !ok {
			w.Write([]byte(`{"PC_Compounds": []}`))
			return
		}
		fmt.Fprintf(w, `{"PC_Compounds": [{"props": [
			{"urn": {"label": "SMILES", "name": "Connectivity"}, "value": {"sval": %q}}
		]}]}`, smiles)
	}))
}

func newFetcher(t *testing.T, srv *httptest.Server) *fetch.Client {
	t.Helper()
	return fetch.New(srv.Client(), types.FetchConfig{
		HTTPConfig: types.HTTPConfig{UserAgent: "compound-etl-test/0"},
		BaseURL:    srv.URL,
	}, zap.NewNop())
}

func newSQLiteStore(t *testing.T) (store.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "compounds.db")
	st, err := store.New(types.StoreConfig{
		Backend: types.BackendSQLite,
		Path:    path,
	}, zap.NewNop())
	require.NoError(t, err)
	return st, path
}

// fakeStore counts inserts so tests can assert that failed runs never
// reach the load stage.
type fakeStore struct {
	mu      sync.Mutex
	inserts int
	err     error
}

func (f *fakeStore) Insert(ctx context.Context, doc any) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts++
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("doc-%d", f.inserts), nil
}

func TestRunEndToEnd(t *testing.T) {
	srv := newPubChemServer(t)
	defer srv.Close()
	st, dbPath := newSQLiteStore(t)
	p := New(newFetcher(t, srv), st, zap.NewNop())

	result, err := p.Run(context.Background(), "aspirin")
	require.NoError(t, err)

	assert.Equal(t, "aspirin", result.Record.Name)
	assert.Equal(t, compoundSMILES["aspirin"], result.Record.SMILES)
	assert.NotEmpty(t, result.ID)
	assert.InDelta(t, 180.16, result.Descriptors.MolWt, 0.01)
	assert.Equal(t, 1, result.Descriptors.NumHDonors)
	assert.Equal(t, 4, result.Descriptors.NumHAcceptors)

	// The persisted document carries the name, the fetched SMILES, and
	// the complete descriptor set.
	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	defer db.Close()

	var body string
	require.NoError(t, db.QueryRow(
		`SELECT body FROM documents WHERE id = ?`, result.ID,
	).Scan(&body))

	var doc types.CompoundDocument
	require.NoError(t, json.Unmarshal([]byte(body), &doc))
	assert.Equal(t, result.Record.Name, doc.Name)
	assert.Equal(t, result.Record.SMILES, doc.SMILES)
	assert.Equal(t, result.Descriptors, doc.Descriptors)
}

func TestRunAbortsBeforeStore(t *testing.T) {
	tests := []struct {
		name         string
		compound     string
		wantCategory Category
	}{
		{"empty name never leaves the fetch stage", "", CategoryInvalidInput},
		{"unknown compound", "nonesuch", CategoryNotFound},
		{"unparseable SMILES stops the transform stage", "garbage", CategoryParse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newPubChemServer(t)
			defer srv.Close()
			fs := &fakeStore{}
			p := New(newFetcher(t, srv), fs, zap.NewNop())

			_, err := p.Run(context.Background(), tt.compound)
			require.Error(t, err)
			assert.Equal(t, tt.wantCategory, Categorize(err))
			assert.Equal(t, 0, fs.inserts, "failed runs must not persist anything")
		})
	}
}

func TestRunSurfacesStoreFailure(t *testing.T) {
	srv := newPubChemServer(t)
	defer srv.Close()
	fs := &fakeStore{err: fmt.Errorf("%w: write conflict", store.ErrStore)}
	p := New(newFetcher(t, srv), fs, zap.NewNop())

	_, err := p.Run(context.Background(), "ethanol")
	require.Error(t, err)
	assert.Equal(t, CategoryStore, Categorize(err))
	assert.Equal(t, 1, fs.inserts)
}

func TestRunsAreIndependent(t *testing.T) {
	srv := newPubChemServer(t)
	defer srv.Close()
	st, _ := newSQLiteStore(t)
	p := New(newFetcher(t, srv), st, zap.NewNop())

	first, err := p.Run(context.Background(), "ethanol")
	require.NoError(t, err)
	second, err := p.Run(context.Background(), "benzene")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, compoundSMILES["ethanol"], first.Record.SMILES)
	assert.Equal(t, compoundSMILES["benzene"], second.Record.SMILES)
	assert.NotEqual(t, first.Descriptors, second.Descriptors)
}

func TestConcurrentRunsDoNotInterfere(t *testing.T) {
	srv := newPubChemServer(t)
	defer srv.Close()

	// Each goroutine gets its own pipeline and store; the only sharing
	// is the remote service, as in separate process runs.
	names := []string{"aspirin", "ethanol", "benzene"}
	results := make([]Result, len(names))
	errs := make([]error, len(names))

	var wg sync.WaitGroup
	for i, name := range names {
		st, _ := newSQLiteStore(t)
		p := New(newFetcher(t, srv), st, zap.NewNop())
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			results[i], errs[i] = p.Run(context.Background(), name)
		}(i, name)
	}
	wg.Wait()

	for i, name := range names {
		require.NoError(t, errs[i], "run for %s", name)
		assert.Equal(t, name, results[i].Record.Name)
		assert.Equal(t, compoundSMILES[name], results[i].Record.SMILES)
		assert.NotEmpty(t, results[i].ID)

		want, err := descriptor.Compute(compoundSMILES[name])
		require.NoError(t, err)
		assert.Equal(t, want, results[i].Descriptors)
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Category
	}{
		{"invalid input from fetch", fmt.Errorf("fetch stage: %w", fetch.ErrInvalidInput), CategoryInvalidInput},
		{"invalid input from descriptor", fmt.Errorf("descriptor stage: %w", descriptor.ErrInvalidInput), CategoryInvalidInput},
		{"remote", fmt.Errorf("fetch stage: %w: HTTP 503", fetch.ErrRemote), CategoryRemote},
		{"not found", fmt.Errorf("fetch stage: %w", fetch.ErrNotFound), CategoryNotFound},
		{"missing field", fmt.Errorf("fetch stage: %w", fetch.ErrMissingField), CategoryMissingField},
		{"parse", fmt.Errorf("descriptor stage: %w", descriptor.ErrParse), CategoryParse},
		{"connection", fmt.Errorf("store stage: %w", store.ErrConnection), CategoryConnection},
		{"store", fmt.Errorf("store stage: %w", store.ErrStore), CategoryStore},
		{"anything else", errors.New("disk on fire"), CategoryUnexpected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Categorize(tt.err); got != tt.want {
				t.Errorf("Categorize() = %q, want %q", got, tt.want)
			}
		})
	}
}
