package importer

import (
	"context"
	"fmt"

	"ballot-backend/internal/metadata"
	"ballot-backend/internal/store"
)

// resolveContext carries everything relation resolution needs: the batch
// transaction, the importing user, and the recursion depth. One context per
// batch; recursion copies it with depth incremented.
type resolveContext struct {
	ctx     context.Context
	tx      store.Querier
	imp     *Importer
	user    *metadata.UserContext
	idField string
	depth   int
}

// descend returns a copy of the context one level deeper, refusing to go
// past the configured limit so a cyclic schema cannot recurse forever.
func (rc *resolveContext) descend() (*resolveContext, error) {
	if rc.depth+1 > rc.imp.maxDepth {
		return nil, fmt.Errorf("relation nesting exceeds max depth %d (cyclic schema definition?)", rc.imp.maxDepth)
	}
	child := *rc
	child.depth++
	return &child, nil
}

// resolveRecord builds a new record with every relational attribute replaced
// by resolved entity ids. The input record is never mutated. Scalar values
// and keys the content type does not declare pass through untouched; the
// store layer drops undeclared keys on write.
func (rc *resolveContext) resolveRecord(ct *metadata.ContentType, rec Record) (map[string]any, error) {
	resolved := make(map[string]any, len(rec))
	for k, v := range rec {
		attr := ct.Attribute(k)
		if attr == nil || attr.Kind == metadata.AttrScalar {
			resolved[k] = v
			continue
		}
		out, err := rc.resolveValue(ct.Slug, *attr, v)
		if err != nil {
			return nil, fmt.Errorf("resolve %s.%s: %w", ct.Slug, k, err)
		}
		resolved[k] = out
	}

	// Author tracking attributes are always stamped with the importing
	// user, whether or not the record carries them.
	for _, name := range []string{"created_by", "updated_by"} {
		if attr := ct.Attribute(name); attr != nil {
			v, err := rc.resolveValue(ct.Slug, *attr, rec[name])
			if err != nil {
				return nil, fmt.Errorf("resolve %s.%s: %w", ct.Slug, name, err)
			}
			resolved[name] = v
		}
	}
	return resolved, nil
}

// resolveValue turns one raw attribute value into nil, a single id, or an
// array of ids, according to the attribute kind and multiplicity.
func (rc *resolveContext) resolveValue(ownerSlug string, attr metadata.Attribute, raw any) (any, error) {
	// Author/editor tracking resolves to the importing user, ignoring raw.
	if attr.Name == "created_by" || attr.Name == "updated_by" {
		if rc.user != nil {
			return rc.user.ID, nil
		}
		return nil, nil
	}

	if raw == nil {
		return nil, nil
	}

	switch attr.Kind {
	case metadata.AttrDynamicZone:
		return rc.resolveDynamicZone(attr, raw)
	case metadata.AttrComponent:
		return rc.resolveComponent(attr, raw)
	case metadata.AttrMedia:
		return rc.resolveMedia(attr, raw)
	case metadata.AttrRelation:
		return rc.resolveRelation(attr, raw)
	default:
		return nil, unsupportedKindError(ownerSlug, attr.Name, attr.Kind)
	}
}

// resolveDynamicZone reconciles each tagged entry against the component type
// named by its __component tag, preserving order.
func (rc *resolveContext) resolveDynamicZone(attr metadata.Attribute, raw any) (any, error) {
	items := toArray(raw)
	out := make([]any, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("dynamic zone entry %d is not an object: %v", i, item)
		}
		tag, _ := obj["__component"].(string)
		if tag == "" {
			return nil, fmt.Errorf("dynamic zone entry %d is missing __component", i)
		}
		if len(attr.Components) > 0 && !contains(attr.Components, tag) {
			return nil, fmt.Errorf("dynamic zone entry %d: component %s not allowed", i, tag)
		}

		fields := make(map[string]any, len(obj)-1)
		for k, v := range obj {
			if k != "__component" {
				fields[k] = v
			}
		}
		id, err := rc.resolveEntityRef(tag, fields)
		if err != nil {
			return nil, err
		}
		out = append(out, map[string]any{"__component": tag, "id": id})
	}
	return out, nil
}

// resolveComponent normalizes the raw value to an array, truncates
// non-repeatable attributes to one element, and reconciles each element.
func (rc *resolveContext) resolveComponent(attr metadata.Attribute, raw any) (any, error) {
	items := toArray(raw)
	if !attr.Repeatable && len(items) > 1 {
		items = items[:1]
	}

	ids := make([]any, 0, len(items))
	for _, item := range items {
		id, err := rc.resolveEntityRef(attr.Target, item)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if attr.Repeatable {
		return ids, nil
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return ids[0], nil
}

// resolveMedia shapes like the component case, but elements go through the
// media library, which enforces the allowed file types.
func (rc *resolveContext) resolveMedia(attr metadata.Attribute, raw any) (any, error) {
	items := toArray(raw)
	if !attr.Multiple && len(items) > 1 {
		items = items[:1]
	}

	ids := make([]any, 0, len(items))
	for _, item := range items {
		file, err := rc.imp.media.FindOrImportFile(rc.ctx, rc.tx, item, rc.user, attr.AllowedTypes)
		if err != nil {
			return nil, err
		}
		id, err := store.ToID(file["id"])
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if attr.Multiple {
		return ids, nil
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return ids[0], nil
}

// resolveRelation keeps the output shape of the raw value: an array in,
// an id array out; a single value in, a single id (or nil) out.
func (rc *resolveContext) resolveRelation(attr metadata.Attribute, raw any) (any, error) {
	_, wasArray := raw.([]any)
	items := toArray(raw)

	ids := make([]any, 0, len(items))
	for _, item := range items {
		id, err := rc.resolveEntityRef(attr.Target, item)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if wasArray {
		return ids, nil
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return ids[0], nil
}

// resolveEntityRef turns one element into an entity id: numeric values are
// kept as-is, objects are recursively reconciled against the target type.
func (rc *resolveContext) resolveEntityRef(targetSlug string, item any) (int64, error) {
	if id, ok := rawID(item); ok {
		return id, nil
	}

	obj, ok := item.(map[string]any)
	if !ok {
		return 0, fmt.Errorf("cannot resolve %s reference: %v (%T)", targetSlug, item, item)
	}

	ct := rc.imp.registry.ContentType(targetSlug)
	if ct == nil {
		return 0, fmt.Errorf("unknown content type: %s", targetSlug)
	}

	child, err := rc.descend()
	if err != nil {
		return 0, err
	}
	resolved, err := child.resolveRecord(ct, obj)
	if err != nil {
		return 0, err
	}
	// Nested entities are matched by the batch's identifier field; an
	// object without a value for it is always created.
	return child.updateOrCreate(ct, resolved, rc.idField)
}

func toArray(v any) []any {
	if arr, ok := v.([]any); ok {
		return arr
	}
	return []any{v}
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
