package metadata

// Kind distinguishes how many entities of a content type may exist and
// whether the type is a reusable component rather than a top-level type.
type Kind string

const (
	KindCollection Kind = "collectionType" // arbitrarily many entities
	KindSingle     Kind = "singleType"     // at most one entity
	KindComponent  Kind = "component"      // embedded sub-records
)

// ImportRule is an optional expression evaluated against each record during
// batch validation. The rule is violated when the expression is true.
type ImportRule struct {
	Expression string `json:"expression"`
	Message    string `json:"message"`
}

type ContentType struct {
	Slug       string       `json:"slug"`
	Kind       Kind         `json:"kind"`
	Table      string       `json:"table"`
	Attributes []Attribute  `json:"attributes"`
	Rules      []ImportRule `json:"rules,omitempty"`
}

// Attribute returns a pointer to the attribute with the given name, or nil.
func (ct *ContentType) Attribute(name string) *Attribute {
	for i := range ct.Attributes {
		if ct.Attributes[i].Name == name {
			return &ct.Attributes[i]
		}
	}
	return nil
}

// HasAttribute returns true if the content type has an attribute with the given name.
func (ct *ContentType) HasAttribute(name string) bool {
	return ct.Attribute(name) != nil
}

// AttributeNames returns all attribute names.
func (ct *ContentType) AttributeNames() []string {
	names := make([]string, len(ct.Attributes))
	for i, a := range ct.Attributes {
		names[i] = a.Name
	}
	return names
}

// AttributesByKinds returns the attributes whose kind is in the given set.
// With no kinds it returns all attributes.
func (ct *ContentType) AttributesByKinds(kinds ...AttrKind) []Attribute {
	if len(kinds) == 0 {
		return ct.Attributes
	}
	var out []Attribute
	for _, a := range ct.Attributes {
		for _, k := range kinds {
			if a.Kind == k {
				out = append(out, a)
				break
			}
		}
	}
	return out
}

// RelationalAttributes returns the attributes that need relation resolution.
func (ct *ContentType) RelationalAttributes() []Attribute {
	var out []Attribute
	for _, a := range ct.Attributes {
		if a.IsRelational() {
			out = append(out, a)
		}
	}
	return out
}
