package metadata

import (
	"encoding/json"
	"fmt"
)

// AttrKind is the closed set of attribute kinds the import engine understands.
// Anything outside this set is a schema defect, surfaced when the resolver
// hits the attribute.
type AttrKind int

const (
	AttrInvalid AttrKind = iota
	AttrScalar
	AttrRelation
	AttrComponent
	AttrDynamicZone
	AttrMedia
)

var attrKindNames = map[AttrKind]string{
	AttrScalar:      "scalar",
	AttrRelation:    "relation",
	AttrComponent:   "component",
	AttrDynamicZone: "dynamiczone",
	AttrMedia:       "media",
}

var attrKindValues = map[string]AttrKind{
	"scalar":      AttrScalar,
	"relation":    AttrRelation,
	"component":   AttrComponent,
	"dynamiczone": AttrDynamicZone,
	"media":       AttrMedia,
}

func (k AttrKind) String() string {
	if name, ok := attrKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("invalid(%d)", int(k))
}

func (k AttrKind) MarshalJSON() ([]byte, error) {
	name, ok := attrKindNames[k]
	if !ok {
		return nil, fmt.Errorf("marshal attribute kind: %s", k)
	}
	return json.Marshal(name)
}

// UnmarshalJSON maps unknown kind strings to AttrInvalid instead of failing,
// so a bad definition loads but errors when an import actually touches it.
func (k *AttrKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("unmarshal attribute kind: %w", err)
	}
	*k = attrKindValues[s]
	return nil
}

type Attribute struct {
	Name         string   `json:"name"`
	Kind         AttrKind `json:"kind"`
	Type         string   `json:"type,omitempty"`          // scalar column type: string, text, int, timestamp, date, json
	Target       string   `json:"target,omitempty"`        // relation/component target slug
	Components   []string `json:"components,omitempty"`    // dynamiczone: allowed component slugs
	Repeatable   bool     `json:"repeatable,omitempty"`    // component
	Multiple     bool     `json:"multiple,omitempty"`      // media
	AllowedTypes []string `json:"allowed_types,omitempty"` // media: images, videos, audios, files
	Required     bool     `json:"required,omitempty"`
	Unique       bool     `json:"unique,omitempty"`
}

// IsRelational reports whether the attribute needs relation resolution
// before the record can be persisted.
func (a Attribute) IsRelational() bool {
	switch a.Kind {
	case AttrRelation, AttrComponent, AttrDynamicZone, AttrMedia:
		return true
	default:
		return false
	}
}

// HoldsMany reports whether the resolved value is an id array rather than a
// single id. Stored as a JSON column; single values get an id column.
func (a Attribute) HoldsMany() bool {
	switch a.Kind {
	case AttrDynamicZone:
		return true
	case AttrComponent:
		return a.Repeatable
	case AttrMedia:
		return a.Multiple
	default:
		return false
	}
}
