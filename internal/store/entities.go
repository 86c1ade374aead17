package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"ballot-backend/internal/metadata"
)

// Entity rows are plain map[string]any keyed by attribute name, with the
// numeric primary key under "id". Values for array-shaped attributes
// (dynamic zones, repeatable components, multi-media) are stored as JSON.

// FindMany returns all rows of a content type matching the filter map.
// An empty filter returns every row.
func FindMany(ctx context.Context, q Querier, dialect Dialect, ct *metadata.ContentType, filters map[string]any) ([]map[string]any, error) {
	sqlStr, params := buildSelect(dialect, ct, filters)
	rows, err := QueryRows(ctx, q, sqlStr, params...)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", ct.Slug, err)
	}
	return rows, nil
}

// FindOne returns the first row matching the filter map, or ErrNotFound.
func FindOne(ctx context.Context, q Querier, dialect Dialect, ct *metadata.ContentType, filters map[string]any) (map[string]any, error) {
	rows, err := FindMany(ctx, q, dialect, ct, filters)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return rows[0], nil
}

// Insert creates a row from the given attribute values and returns its
// generated numeric id.
func Insert(ctx context.Context, q Querier, dialect Dialect, ct *metadata.ContentType, values map[string]any) (int64, error) {
	pb := dialect.NewParamBuilder()
	var cols, phs []string
	for _, a := range ct.Attributes {
		v, ok := values[a.Name]
		if !ok {
			continue
		}
		cols = append(cols, a.Name)
		phs = append(phs, pb.Add(encodeValue(v)))
	}

	var sqlStr string
	if len(cols) == 0 {
		sqlStr = fmt.Sprintf("INSERT INTO %s DEFAULT VALUES RETURNING id", ct.Table)
	} else {
		sqlStr = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
			ct.Table, strings.Join(cols, ", "), strings.Join(phs, ", "))
	}

	row, err := QueryRow(ctx, q, sqlStr, pb.Params()...)
	if err != nil {
		return 0, fmt.Errorf("insert %s: %w", ct.Slug, MapError(dialect, err))
	}
	id, err := ToID(row["id"])
	if err != nil {
		return 0, fmt.Errorf("insert %s: %w", ct.Slug, err)
	}
	return id, nil
}

// Update writes the given attribute values onto the row with the given id.
// Values for attributes the content type does not declare are dropped.
func Update(ctx context.Context, q Querier, dialect Dialect, ct *metadata.ContentType, id any, values map[string]any) error {
	pb := dialect.NewParamBuilder()
	var sets []string
	for _, a := range ct.Attributes {
		v, ok := values[a.Name]
		if !ok {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = %s", a.Name, pb.Add(encodeValue(v))))
	}
	if len(sets) == 0 {
		return nil
	}

	sqlStr := fmt.Sprintf("UPDATE %s SET %s WHERE id = %s",
		ct.Table, strings.Join(sets, ", "), pb.Add(id))
	if _, err := Exec(ctx, q, sqlStr, pb.Params()...); err != nil {
		return fmt.Errorf("update %s: %w", ct.Slug, MapError(dialect, err))
	}
	return nil
}

func buildSelect(dialect Dialect, ct *metadata.ContentType, filters map[string]any) (string, []any) {
	cols := append([]string{"id"}, ct.AttributeNames()...)
	sqlStr := fmt.Sprintf("SELECT %s FROM %s", strings.Join(cols, ", "), ct.Table)

	pb := dialect.NewParamBuilder()
	if len(filters) > 0 {
		keys := make([]string, 0, len(filters))
		for k := range filters {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		conds := make([]string, len(keys))
		for i, k := range keys {
			conds[i] = fmt.Sprintf("%s = %s", k, pb.Add(encodeValue(filters[k])))
		}
		sqlStr += " WHERE " + strings.Join(conds, " AND ")
	}
	sqlStr += " ORDER BY id"
	return sqlStr, pb.Params()
}

// encodeValue converts attribute values into driver-friendly parameters.
// Maps and slices become JSON text.
func encodeValue(v any) any {
	switch v.(type) {
	case nil, string, bool, int, int64, float64, time.Time:
		return v
	case map[string]any, []any, []int64, []map[string]any:
		b, err := json.Marshal(v)
		if err != nil {
			return nil
		}
		return string(b)
	default:
		return v
	}
}

// ToID converts a database or JSON value into a numeric entity id.
func ToID(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case float64:
		return int64(n), nil
	case json.Number:
		return n.Int64()
	default:
		return 0, fmt.Errorf("not a numeric id: %v (%T)", v, v)
	}
}

// columnTypeFor maps an attribute to its DDL column type. Array-shaped
// attributes are stored as JSON; single relation and media values as
// numeric id columns unless the attribute declares its own type.
func columnTypeFor(dialect Dialect, a metadata.Attribute) string {
	if a.HoldsMany() {
		return dialect.ColumnType("json")
	}
	if a.Kind == metadata.AttrScalar || a.Type != "" {
		return dialect.ColumnType(a.Type)
	}
	return dialect.ColumnType("bigint")
}
