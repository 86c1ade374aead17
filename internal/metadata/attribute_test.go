package metadata

import (
	"encoding/json"
	"testing"
)

func TestAttrKind_JSONRoundTrip(t *testing.T) {
	kinds := []AttrKind{AttrScalar, AttrRelation, AttrComponent, AttrDynamicZone, AttrMedia}
	for _, k := range kinds {
		b, err := json.Marshal(k)
		if err != nil {
			t.Fatalf("marshal %s: %v", k, err)
		}
		var got AttrKind
		if err := json.Unmarshal(b, &got); err != nil {
			t.Fatalf("unmarshal %s: %v", b, err)
		}
		if got != k {
			t.Fatalf("round trip %s: got %s", k, got)
		}
	}
}

func TestAttrKind_UnknownStringLoadsAsInvalid(t *testing.T) {
	var a Attribute
	if err := json.Unmarshal([]byte(`{"name":"x","kind":"hologram"}`), &a); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if a.Kind != AttrInvalid {
		t.Fatalf("expected AttrInvalid, got %s", a.Kind)
	}
	if _, err := json.Marshal(a.Kind); err == nil {
		t.Fatal("marshaling an invalid kind must fail")
	}
}

func TestAttribute_HoldsMany(t *testing.T) {
	cases := []struct {
		attr Attribute
		want bool
	}{
		{Attribute{Kind: AttrScalar}, false},
		{Attribute{Kind: AttrRelation}, false},
		{Attribute{Kind: AttrDynamicZone}, true},
		{Attribute{Kind: AttrComponent}, false},
		{Attribute{Kind: AttrComponent, Repeatable: true}, true},
		{Attribute{Kind: AttrMedia}, false},
		{Attribute{Kind: AttrMedia, Multiple: true}, true},
	}
	for _, c := range cases {
		if got := c.attr.HoldsMany(); got != c.want {
			t.Fatalf("HoldsMany(%s repeatable=%v multiple=%v): got %v",
				c.attr.Kind, c.attr.Repeatable, c.attr.Multiple, got)
		}
	}
}

func TestContentType_AttributeLookups(t *testing.T) {
	ct := &ContentType{
		Slug: "candidate",
		Attributes: []Attribute{
			{Name: "email", Kind: AttrScalar, Type: "string"},
			{Name: "party", Kind: AttrRelation, Target: "party"},
			{Name: "pledges", Kind: AttrComponent, Target: "manifesto.pledge", Repeatable: true},
			{Name: "photo", Kind: AttrMedia},
		},
	}

	if a := ct.Attribute("party"); a == nil || a.Target != "party" {
		t.Fatalf("Attribute(party): %+v", a)
	}
	if ct.Attribute("missing") != nil {
		t.Fatal("Attribute(missing) must be nil")
	}
	if !ct.HasAttribute("photo") || ct.HasAttribute("ghost") {
		t.Fatal("HasAttribute mismatch")
	}

	rel := ct.RelationalAttributes()
	if len(rel) != 3 {
		t.Fatalf("expected 3 relational attributes, got %d", len(rel))
	}

	byKind := ct.AttributesByKinds(AttrRelation, AttrMedia)
	if len(byKind) != 2 || byKind[0].Name != "party" || byKind[1].Name != "photo" {
		t.Fatalf("AttributesByKinds: %+v", byKind)
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&ContentType{Slug: "party", Kind: KindCollection, Table: "parties"})

	if ct := reg.ContentType("party"); ct == nil || ct.Table != "parties" {
		t.Fatalf("ContentType(party): %+v", ct)
	}
	if reg.ContentType("nope") != nil {
		t.Fatal("unknown slug must not resolve")
	}

	// Register replaces an existing definition
	reg.Register(&ContentType{Slug: "party", Kind: KindCollection, Table: "parties_v2"})
	if ct := reg.ContentType("party"); ct.Table != "parties_v2" {
		t.Fatalf("expected replacement, got table %s", ct.Table)
	}
	if n := len(reg.AllContentTypes()); n != 1 {
		t.Fatalf("expected 1 content type, got %d", n)
	}
}
