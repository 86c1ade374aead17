package importer

import (
	"testing"
	"time"
)

func TestNormalizePublished(t *testing.T) {
	// "True" is case-insensitive and publishes now
	resolved := map[string]any{"published": "True"}
	normalizePublished(resolved)
	if _, ok := resolved["published"]; ok {
		t.Fatal("published key must be removed")
	}
	if ts, ok := resolved["published_at"].(time.Time); !ok || ts.IsZero() {
		t.Fatalf("expected publish timestamp, got %v", resolved["published_at"])
	}

	// Anything else clears the timestamp
	resolved = map[string]any{"published": "no"}
	normalizePublished(resolved)
	if resolved["published_at"] != nil {
		t.Fatalf("expected cleared timestamp, got %v", resolved["published_at"])
	}

	// Absent key leaves the record alone
	resolved = map[string]any{"email": "x"}
	normalizePublished(resolved)
	if _, ok := resolved["published_at"]; ok {
		t.Fatal("published_at must not appear unprompted")
	}
}

func TestUpdateOrCreate_SingleKind(t *testing.T) {
	rc, ctx := newTestResolveContext(t)
	ct := rc.imp.registry.ContentType("election-config")

	// First call creates the sole row, ignoring any primary key
	id1, err := rc.updateOrCreate(ct, map[string]any{"id": float64(99), "contact_email": "a@example.org"}, "id")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Second call updates the same row
	id2, err := rc.updateOrCreate(ct, map[string]any{"contact_email": "b@example.org"}, "id")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if id1 != id2 {
		t.Fatalf("expected same row, got %d and %d", id1, id2)
	}
	if n := countEntities(t, rc.imp, ctx, "election-config"); n != 1 {
		t.Fatalf("single kind must keep one row, got %d", n)
	}
}

func TestUpdateOrCreate_CollectionByAlternateIdentifier(t *testing.T) {
	rc, ctx := newTestResolveContext(t)
	partyID := seedEntity(t, rc.imp, ctx, "party", map[string]any{"name": "Greens"})
	ct := rc.imp.registry.ContentType("candidate")

	// A stale primary key must be stripped when matching by email
	rec := map[string]any{
		"id": float64(12345), "first_name": "Ada", "last_name": "Lovelace",
		"email": "ada@example.org", "party": partyID,
	}
	id1, err := rc.updateOrCreate(ct, rec, "email")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id1 == 12345 {
		t.Fatal("primary key from the record must not be used")
	}

	rec2 := map[string]any{
		"id": float64(777), "first_name": "Ada2", "last_name": "Lovelace",
		"email": "ada@example.org", "party": partyID,
	}
	id2, err := rc.updateOrCreate(ct, rec2, "email")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if id1 != id2 {
		t.Fatalf("expected update of existing row, got %d and %d", id1, id2)
	}
	if n := countEntities(t, rc.imp, ctx, "candidate"); n != 1 {
		t.Fatalf("expected 1 candidate, got %d", n)
	}
}

func TestUpdateOrCreate_NoIdentifierCreates(t *testing.T) {
	rc, ctx := newTestResolveContext(t)
	ct := rc.imp.registry.ContentType("party")

	// Without a value for the identifier field, create unconditionally
	for range 2 {
		if _, err := rc.updateOrCreate(ct, map[string]any{"name": "Greens"}, "abbreviation"); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if n := countEntities(t, rc.imp, ctx, "party"); n != 2 {
		t.Fatalf("expected 2 parties, got %d", n)
	}
}
