package schema

import (
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Schema fragment type names.
const (
	Object  = "object"
	Array   = "array"
	String  = "string"
	Integer = "integer"
	Number  = "number"
	Boolean = "boolean"
	Null    = "null"
)

// Schema describes the valid JSON shape of one type. A fragment is one of:
// a scalar type, an enum, an array (homogeneous via Items or fixed-length
// via PrefixItems), an object, an anyOf union, or a $ref into the
// document's $defs table.
//
// Properties and Defs are insertion-ordered maps so the marshaled document
// preserves field declaration order.
type Schema struct {
	Type                 string                                  `json:"type,omitempty"`
	Enum                 []string                                `json:"enum,omitempty"`
	Properties           *orderedmap.OrderedMap[string, *Schema] `json:"properties,omitempty"`
	Required             []string                                `json:"required,omitempty"`
	AdditionalProperties *bool                                   `json:"additionalProperties,omitempty"`
	Items                *Schema                                 `json:"items,omitempty"`
	PrefixItems          []*Schema                               `json:"prefixItems,omitempty"`
	MinItems             *int                                    `json:"minItems,omitempty"`
	MaxItems             *int                                    `json:"maxItems,omitempty"`
	AnyOf                []*Schema                               `json:"anyOf,omitempty"`
	Ref                  string                                  `json:"$ref,omitempty"`
	Defs                 *orderedmap.OrderedMap[string, *Schema] `json:"$defs,omitempty"`
}

// MarshalJSON emits the fragment. Fixed-length array fragments carry
// "items": false alongside prefixItems, which a plain struct marshal
// cannot express.
func (s *Schema) MarshalJSON() ([]byte, error) {
	type alias Schema
	if s.PrefixItems == nil {
		return json.Marshal((*alias)(s))
	}
	return json.Marshal(struct {
		*alias
		Items bool `json:"items"`
	}{alias: (*alias)(s), Items: false})
}

// AsMap returns the schema as a generic JSON value, the form some provider
// SDKs expect for response-format and tool parameters.
func (s *Schema) AsMap() (map[string]any, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// Property returns the fragment for a named object property, or nil.
func (s *Schema) Property(name string) *Schema {
	if s.Properties == nil {
		return nil
	}
	p, _ := s.Properties.Get(name)
	return p
}

// Def returns the $defs entry for a canonical type name, or nil.
func (s *Schema) Def(name string) *Schema {
	if s.Defs == nil {
		return nil
	}
	d, _ := s.Defs.Get(name)
	return d
}

// PropertyNames returns the object property names in declaration order.
func (s *Schema) PropertyNames() []string {
	if s.Properties == nil {
		return nil
	}
	names := make([]string, 0, s.Properties.Len())
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// equal reports structural equality of two fragments, used to de-duplicate
// anyOf members.
func equal(a, b *Schema) bool {
	aj, err := json.Marshal(a)
	if err != nil {
		return false
	}
	bj, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return string(aj) == string(bj)
}
