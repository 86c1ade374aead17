package importer

import (
	"context"
	"errors"
	"fmt"
	"log"

	"ballot-backend/internal/config"
	"ballot-backend/internal/media"
	"ballot-backend/internal/metadata"
	"ballot-backend/internal/store"
)

// Importer reconciles batches of parsed records against the entity store.
type Importer struct {
	store    *store.Store
	registry *metadata.Registry
	media    *media.Library
	maxDepth int
	idField  string
}

func New(s *store.Store, reg *metadata.Registry, lib *media.Library, cfg config.ImportConfig) *Importer {
	maxDepth := cfg.MaxDepth
	if maxDepth <= 0 {
		maxDepth = 8
	}
	idField := cfg.IDField
	if idField == "" {
		idField = "id"
	}
	return &Importer{store: s, registry: reg, media: lib, maxDepth: maxDepth, idField: idField}
}

// strategy pairs the per-type validation and reconciliation behavior.
// Supporting a new content type means registering a strategy here.
type strategy struct {
	validate  func(imp *Importer, ctx context.Context, records []Record) ([]string, error)
	reconcile func(rc *resolveContext, rec Record) error
}

var strategies = map[string]strategy{
	"candidate":  {validate: (*Importer).validateCandidates, reconcile: reconcileCandidate},
	"nomination": {validate: (*Importer).validateNominations, reconcile: reconcileNomination},
}

// ImportData runs one batch import: parse, validate, then reconcile every
// record inside a single transaction. The batch is all-or-nothing: the first
// reconciliation error rolls back everything already written.
func (i *Importer) ImportData(ctx context.Context, data []byte, opts Options) (*Result, error) {
	records, err := ParseInputData(opts.Format, data)
	if err != nil {
		return nil, err
	}

	strat, ok := strategies[opts.Slug]
	if !ok {
		return &Result{Failures: []Failure{{Message: "Slug not supported"}}}, nil
	}

	msgs, err := strat.validate(i, ctx, records)
	if err != nil {
		return nil, fmt.Errorf("validate %s batch: %w", opts.Slug, err)
	}
	if len(msgs) > 0 {
		failures := make([]Failure, len(msgs))
		for idx, m := range msgs {
			failures[idx] = Failure{Message: m}
		}
		return &Result{Failures: failures}, nil
	}

	idField := opts.IDField
	if idField == "" {
		idField = i.idField
	}

	tx, err := i.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin import tx: %w", err)
	}

	rc := &resolveContext{ctx: ctx, tx: tx, imp: i, user: opts.User, idField: idField}

	for idx, rec := range records {
		if err := strat.reconcile(rc, rec); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Printf("ERROR: rollback import %s: %v", opts.Slug, rbErr)
			}
			// A schema defect is unrecoverable, not a row failure.
			if errors.Is(err, ErrUnsupportedKind) {
				return nil, err
			}
			log.Printf("ERROR: import %s row %d: %v", opts.Slug, rowNumber(idx), err)
			return &Result{Failures: []Failure{{Message: "Error during import", Data: rec}}}, nil
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}
	return &Result{Failures: []Failure{}}, nil
}
