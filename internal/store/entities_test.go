package store

import (
	"context"
	"testing"

	"ballot-backend/internal/config"
	"ballot-backend/internal/metadata"
)

func testStore(t *testing.T) (*Store, context.Context) {
	t.Helper()
	ctx := context.Background()
	s, err := New(ctx, config.DatabaseConfig{
		Driver: "sqlite",
		Name:   "store_test",
		Path:   t.TempDir(),
	})
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(s.Close)

	if err := s.Bootstrap(ctx); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	return s, ctx
}

func testContentType() *metadata.ContentType {
	return &metadata.ContentType{
		Slug:  "party",
		Kind:  metadata.KindCollection,
		Table: "parties",
		Attributes: []metadata.Attribute{
			{Name: "name", Kind: metadata.AttrScalar, Type: "string", Required: true},
			{Name: "abbreviation", Kind: metadata.AttrScalar, Type: "string"},
			{Name: "logo", Kind: metadata.AttrMedia, AllowedTypes: []string{"images"}},
		},
	}
}

func TestInsertFindUpdate(t *testing.T) {
	s, ctx := testStore(t)
	ct := testContentType()
	if err := NewMigrator(s).Migrate(ctx, ct); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	id, err := Insert(ctx, s.DB, s.Dialect, ct, map[string]any{"name": "Greens", "abbreviation": "GRN"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if id == 0 {
		t.Fatal("expected generated id")
	}

	// Unknown keys are dropped, not errors
	id2, err := Insert(ctx, s.DB, s.Dialect, ct, map[string]any{"name": "Reds", "bogus": "x"})
	if err != nil {
		t.Fatalf("insert with unknown key: %v", err)
	}
	if id2 == id {
		t.Fatal("expected distinct ids")
	}

	row, err := FindOne(ctx, s.DB, s.Dialect, ct, map[string]any{"name": "Greens"})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if row["abbreviation"] != "GRN" {
		t.Fatalf("expected GRN, got %v", row["abbreviation"])
	}

	if err := Update(ctx, s.DB, s.Dialect, ct, id, map[string]any{"abbreviation": "GR"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	row, err = FindOne(ctx, s.DB, s.Dialect, ct, map[string]any{"abbreviation": "GR"})
	if err != nil {
		t.Fatalf("find updated: %v", err)
	}
	if rowID, _ := ToID(row["id"]); rowID != id {
		t.Fatalf("expected id %d, got %v", id, row["id"])
	}

	rows, err := FindMany(ctx, s.DB, s.Dialect, ct, nil)
	if err != nil {
		t.Fatalf("find many: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
}

func TestFindOne_NotFound(t *testing.T) {
	s, ctx := testStore(t)
	ct := testContentType()
	if err := NewMigrator(s).Migrate(ctx, ct); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if _, err := FindOne(ctx, s.DB, s.Dialect, ct, map[string]any{"name": "Nobody"}); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEncodeValue_JSONForStructured(t *testing.T) {
	// Arrays and maps become JSON text parameters
	v := encodeValue([]any{map[string]any{"__component": "manifesto.pledge", "id": int64(1)}})
	s, ok := v.(string)
	if !ok {
		t.Fatalf("expected string, got %T", v)
	}
	if s != `[{"__component":"manifesto.pledge","id":1}]` {
		t.Fatalf("unexpected encoding: %s", s)
	}

	// Scalars pass through
	if encodeValue("x") != "x" {
		t.Fatal("string must pass through")
	}
	if encodeValue(nil) != nil {
		t.Fatal("nil must pass through")
	}
}

func TestToID(t *testing.T) {
	for _, v := range []any{int64(5), int(5), float64(5)} {
		id, err := ToID(v)
		if err != nil || id != 5 {
			t.Fatalf("ToID(%T): got %d, %v", v, id, err)
		}
	}
	if _, err := ToID("nope"); err == nil {
		t.Fatal("expected error for non-numeric value")
	}
}

func TestMigrator_AddsMissingColumns(t *testing.T) {
	s, ctx := testStore(t)
	ct := testContentType()
	if err := NewMigrator(s).Migrate(ctx, ct); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	ct.Attributes = append(ct.Attributes, metadata.Attribute{Name: "founded", Kind: metadata.AttrScalar, Type: "date"})
	if err := NewMigrator(s).Migrate(ctx, ct); err != nil {
		t.Fatalf("re-migrate: %v", err)
	}

	cols, err := s.Dialect.GetColumns(ctx, s.DB, ct.Table)
	if err != nil {
		t.Fatalf("get columns: %v", err)
	}
	if _, ok := cols["founded"]; !ok {
		t.Fatalf("expected founded column, have %v", cols)
	}
}
