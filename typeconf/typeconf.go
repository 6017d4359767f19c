// Package typeconf loads declarative type tables from YAML or JSON. It is
// the registration path for callers that describe their types in
// configuration rather than Go structs: each entry declares a record or an
// enum, and field type expressions reference scalars or other declared
// names. Decoded record values are generic maps.
package typeconf

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/deepnoodle-ai/structured/types"
	"github.com/goccy/go-yaml"
)

// Definition is a parsed type table.
type Definition struct {
	Types []TypeDef `yaml:"Types" json:"Types"`
	Root  string    `yaml:"Root,omitempty" json:"Root,omitempty"`
}

// TypeDef declares one named record or enum.
type TypeDef struct {
	Record string     `yaml:"Record,omitempty" json:"Record,omitempty"`
	Enum   string     `yaml:"Enum,omitempty" json:"Enum,omitempty"`
	Labels []string   `yaml:"Labels,omitempty" json:"Labels,omitempty"`
	Fields []FieldDef `yaml:"Fields,omitempty" json:"Fields,omitempty"`
}

// FieldDef declares one record field. Type is a type expression: a scalar
// keyword (string, integer, number, boolean, null), a declared type name,
// a list ("[]X"), an optional ("X?"), or a union ("A | B").
type FieldDef struct {
	Name string `yaml:"Name" json:"Name"`
	Type string `yaml:"Type" json:"Type"`
}

// ParseFile loads a Definition from a file. The file extension determines
// the format (JSON or YAML).
func ParseFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		return ParseJSON(data)
	case ".yml", ".yaml":
		return ParseYAML(data)
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// ParseYAML loads a Definition from YAML
func ParseYAML(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.UnmarshalWithOptions(data, &def, yaml.Strict()); err != nil {
		return nil, err
	}
	return &def, nil
}

// ParseJSON loads a Definition from JSON
func ParseJSON(data []byte) (*Definition, error) {
	var def Definition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, err
	}
	return &def, nil
}

// Set holds the built descriptors of one Definition.
type Set struct {
	byName map[string]types.Type
	root   types.Type
}

// Lookup returns the descriptor declared under the given name.
func (s *Set) Lookup(name string) (types.Type, bool) {
	t, ok := s.byName[name]
	return t, ok
}

// Root returns the descriptor named by the definition's Root entry, or nil
// when no root was declared.
func (s *Set) Root() types.Type {
	return s.root
}

// Build resolves the definition into type descriptors. Records may
// reference each other, themselves (through optionals), and declared
// enums; unresolved names are errors. Decoded record values are
// map[string]any keyed by field name.
func (d *Definition) Build() (*Set, error) {
	byName := make(map[string]types.Type, len(d.Types))

	// First pass: declare every name so field expressions can reference
	// records and enums in any order.
	records := make(map[string]*types.RecordType)
	for _, td := range d.Types {
		switch {
		case td.Record != "" && td.Enum != "":
			return nil, fmt.Errorf("type cannot be both record %q and enum %q", td.Record, td.Enum)
		case td.Record != "":
			if _, exists := byName[td.Record]; exists {
				return nil, fmt.Errorf("duplicate type name %q", td.Record)
			}
			rec := types.NewRecord(td.Record, nil, nil)
			records[td.Record] = rec
			byName[td.Record] = rec
		case td.Enum != "":
			if _, exists := byName[td.Enum]; exists {
				return nil, fmt.Errorf("duplicate type name %q", td.Enum)
			}
			if len(td.Labels) == 0 {
				return nil, fmt.Errorf("enum %q has no labels", td.Enum)
			}
			byName[td.Enum] = types.NewEnum(td.Enum, td.Labels...)
		default:
			return nil, fmt.Errorf("type entry declares neither a record nor an enum")
		}
	}

	// Second pass: resolve field expressions and attach constructors.
	for _, td := range d.Types {
		if td.Record == "" {
			continue
		}
		fields := make([]types.Field, 0, len(td.Fields))
		for _, fd := range td.Fields {
			if fd.Name == "" {
				return nil, fmt.Errorf("record %q has a field with no name", td.Record)
			}
			ft, err := parseTypeExpr(fd.Type, byName)
			if err != nil {
				return nil, fmt.Errorf("record %q field %q: %w", td.Record, fd.Name, err)
			}
			fields = append(fields, types.Field{Name: fd.Name, Type: ft})
		}
		records[td.Record].Define(fields, mapBuilder(fields))
	}

	set := &Set{byName: byName}
	if d.Root != "" {
		root, ok := byName[d.Root]
		if !ok {
			return nil, fmt.Errorf("root type %q is not declared", d.Root)
		}
		set.root = root
	}
	return set, nil
}

// mapBuilder returns a positional constructor assembling decoded field
// values into a map keyed by field name.
func mapBuilder(fields []types.Field) func([]any) (any, error) {
	return func(values []any) (any, error) {
		out := make(map[string]any, len(fields))
		for i, f := range fields {
			out[f.Name] = values[i]
		}
		return out, nil
	}
}

// parseTypeExpr resolves a field type expression against the declared
// names.
func parseTypeExpr(expr string, byName map[string]types.Type) (types.Type, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("empty type expression")
	}

	if parts := strings.Split(expr, "|"); len(parts) > 1 {
		members := make([]types.Type, 0, len(parts))
		for _, part := range parts {
			m, err := parseTypeExpr(part, byName)
			if err != nil {
				return nil, err
			}
			members = append(members, m)
		}
		return types.NewUnion(members...), nil
	}

	if rest, ok := strings.CutPrefix(expr, "[]"); ok {
		elem, err := parseTypeExpr(rest, byName)
		if err != nil {
			return nil, err
		}
		return types.NewList(elem), nil
	}

	if rest, ok := strings.CutSuffix(expr, "?"); ok {
		elem, err := parseTypeExpr(rest, byName)
		if err != nil {
			return nil, err
		}
		return types.Optional(elem), nil
	}

	switch expr {
	case "string":
		return types.String, nil
	case "integer", "int":
		return types.Integer, nil
	case "number", "float":
		return types.Number, nil
	case "boolean", "bool":
		return types.Boolean, nil
	case "null":
		return types.Null, nil
	}

	if t, ok := byName[expr]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("unknown type %q", expr)
}
