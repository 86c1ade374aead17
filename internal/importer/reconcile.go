package importer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"ballot-backend/internal/metadata"
	"ballot-backend/internal/store"
)

// Reconciliation upserts one entity from a resolved record: update when a
// lookup filter matches an existing row, create otherwise.

// reconcileCandidate is the candidate fast path: the lookup filter is the
// email alone.
func reconcileCandidate(rc *resolveContext, rec Record) error {
	ct := rc.imp.registry.ContentType("candidate")
	if ct == nil {
		return fmt.Errorf("content type candidate not registered")
	}
	resolved, err := rc.resolveRecord(ct, rec)
	if err != nil {
		return err
	}
	_, err = rc.upsertBy(ct, resolved, map[string]any{"email": resolved["email"]})
	return err
}

// reconcileNomination is the nomination fast path: the lookup filter is the
// full composite tuple. The candidate id was attached during validation.
func reconcileNomination(rc *resolveContext, rec Record) error {
	ct := rc.imp.registry.ContentType("nomination")
	if ct == nil {
		return fmt.Errorf("content type nomination not registered")
	}
	resolved, err := rc.resolveRecord(ct, rec)
	if err != nil {
		return err
	}
	_, err = rc.upsertBy(ct, resolved, map[string]any{
		"candidate":    resolved["candidate"],
		"party":        resolved["party"],
		"constituency": resolved["constituency"],
		"election":     resolved["election"],
	})
	return err
}

// updateOrCreate is the generic upsert covering arbitrary content types,
// used for nested relations and components. Kept separate from the fast
// paths above: their lookup filters differ deliberately.
func (rc *resolveContext) updateOrCreate(ct *metadata.ContentType, resolved map[string]any, idField string) (int64, error) {
	normalizePublished(resolved)

	if ct.Kind == metadata.KindSingle {
		return rc.upsertSingle(ct, resolved)
	}

	filters := make(map[string]any, 1)
	if v, ok := resolved[idField]; ok && !valueEmpty(v) {
		filters[idField] = v
	}
	// Importing under a different identifier: a stale primary key in the
	// record would collide with existing rows.
	if idField != "id" {
		delete(resolved, "id")
	}
	return rc.upsertBy(ct, resolved, filters)
}

// upsertSingle handles single-kind types: at most one row exists, matched
// without any filter. Any primary key in the record is ignored.
func (rc *resolveContext) upsertSingle(ct *metadata.ContentType, resolved map[string]any) (int64, error) {
	delete(resolved, "id")

	row, err := store.FindOne(rc.ctx, rc.tx, rc.imp.store.Dialect, ct, nil)
	if errors.Is(err, store.ErrNotFound) {
		return store.Insert(rc.ctx, rc.tx, rc.imp.store.Dialect, ct, resolved)
	}
	if err != nil {
		return 0, err
	}

	id, err := store.ToID(row["id"])
	if err != nil {
		return 0, err
	}
	return id, store.Update(rc.ctx, rc.tx, rc.imp.store.Dialect, ct, id, resolved)
}

// upsertBy updates the row matching the filters, creating when no filter
// could be built or nothing matches.
func (rc *resolveContext) upsertBy(ct *metadata.ContentType, resolved map[string]any, filters map[string]any) (int64, error) {
	normalizePublished(resolved)

	for k, v := range filters {
		if valueEmpty(v) {
			delete(filters, k)
		}
	}
	if len(filters) == 0 {
		return store.Insert(rc.ctx, rc.tx, rc.imp.store.Dialect, ct, resolved)
	}

	row, err := store.FindOne(rc.ctx, rc.tx, rc.imp.store.Dialect, ct, filters)
	if errors.Is(err, store.ErrNotFound) {
		return store.Insert(rc.ctx, rc.tx, rc.imp.store.Dialect, ct, resolved)
	}
	if err != nil {
		return 0, err
	}

	id, err := store.ToID(row["id"])
	if err != nil {
		return 0, err
	}
	return id, store.Update(rc.ctx, rc.tx, rc.imp.store.Dialect, ct, id, resolved)
}

// normalizePublished folds the boolean-like "published" input field into
// the published_at timestamp: "true" publishes now, anything else clears.
func normalizePublished(resolved map[string]any) {
	v, ok := resolved["published"]
	if !ok {
		return
	}
	delete(resolved, "published")

	published := false
	switch s := v.(type) {
	case string:
		published = strings.EqualFold(strings.TrimSpace(s), "true")
	case bool:
		published = s
	}
	if published {
		resolved["published_at"] = time.Now().UTC()
	} else {
		resolved["published_at"] = nil
	}
}

func valueEmpty(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}
