// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the extract-transform-load pass for one
// compound: fetch the record from PubChem, compute descriptors from its
// SMILES, persist the combined document. The pass is strictly
// sequential; a failing stage aborts the rest, and nothing is persisted
// for a run that fails before the load stage.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/pdiddy/compound-etl/internal/descriptor"
	"github.com/pdiddy/compound-etl/internal/fetch"
	"github.com/pdiddy/compound-etl/internal/store"
	"github.com/pdiddy/compound-etl/pkg/types"
)

// Fetcher is the extract stage: a compound name in, a record with its
// connectivity SMILES out.
type Fetcher interface {
	Compound(ctx context.Context, name string) (types.CompoundRecord, error)
}

// Result holds the outputs of a completed run.
type Result struct {
	Record      types.CompoundRecord
	Descriptors types.DescriptorSet
	ID          string
}

// Pipeline wires the three stages together. Each Run is independent;
// the struct holds no per-run state, so one Pipeline may serve
// concurrent runs for different compounds.
type Pipeline struct {
	fetcher Fetcher
	store   store.Store
	logger  *zap.Logger
}

// New returns a Pipeline over the given stages. A nil logger is
// replaced with a no-op.
func New(fetcher Fetcher, st store.Store, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{fetcher: fetcher, store: st, logger: logger}
}

// Run executes fetch, compute, and save for one compound name.
func (p *Pipeline) Run(ctx context.Context, name string) (Result, error) {
	rec, err := p.fetcher.Compound(ctx, name)
	if err != nil {
		return Result{}, fmt.Errorf("fetch stage: %w", err)
	}

	desc, err := descriptor.Compute(rec.SMILES)
	if err != nil {
		return Result{}, fmt.Errorf("descriptor stage: %w", err)
	}

	doc := types.CompoundDocument{
		Name:        rec.Name,
		SMILES:      rec.SMILES,
		Descriptors: desc,
	}
	id, err := p.store.Insert(ctx, doc)
	if err != nil {
		return Result{}, fmt.Errorf("store stage: %w", err)
	}

	p.logger.Info("pipeline complete",
		zap.String("name", rec.Name), zap.String("id", id))
	return Result{Record: rec, Descriptors: desc, ID: id}, nil
}

// Category labels an error for run-level logging.
type Category string

const (
	CategoryInvalidInput Category = "invalid_input"
	CategoryRemote       Category = "remote"
	CategoryNotFound     Category = "not_found"
	CategoryMissingField Category = "missing_field"
	CategoryParse        Category = "parse"
	CategoryConnection   Category = "connection"
	CategoryStore        Category = "store"
	CategoryUnexpected   Category = "unexpected"
)

// Categorize maps a wrapped stage error to its taxonomy category.
// Anything that does not match a known sentinel is unexpected.
func Categorize(err error) Category {
	switch {
	case errors.Is(err, fetch.ErrInvalidInput), errors.Is(err, descriptor.ErrInvalidInput):
		return CategoryInvalidInput
	case errors.Is(err, fetch.ErrRemote):
		return CategoryRemote
	case errors.Is(err, fetch.ErrNotFound):
		return CategoryNotFound
	case errors.Is(err, fetch.ErrMissingField):
		return CategoryMissingField
	case errors.Is(err, descriptor.ErrParse):
		return CategoryParse
	case errors.Is(err, store.ErrConnection):
		return CategoryConnection
	case errors.Is(err, store.ErrStore):
		return CategoryStore
	default:
		return CategoryUnexpected
	}
}
