package google

import (
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/structured/schema"
	"google.golang.org/genai"
)

// convertSchema maps a compiled schema fragment onto genai.Schema. The
// Gemini schema dialect has no $ref, so references are expanded inline
// from the root document's $defs table. Self-referential definitions
// cannot be expanded and are reported as errors, as are fixed-length
// tuple encodings, which the dialect does not support.
func convertSchema(s *schema.Schema, root *schema.Schema, expanding []string) (*genai.Schema, error) {
	if s.Ref != "" {
		name := strings.TrimPrefix(s.Ref, "#/$defs/")
		for _, inProgress := range expanding {
			if inProgress == name {
				return nil, fmt.Errorf("self-referential type %q cannot be expressed as a gemini schema", name)
			}
		}
		def := root.Def(name)
		if def == nil {
			return nil, fmt.Errorf("unresolved schema reference %q", s.Ref)
		}
		return convertSchema(def, root, append(expanding, name))
	}

	if s.PrefixItems != nil {
		return nil, fmt.Errorf("tuple schemas are not supported by the gemini schema dialect")
	}

	out := &genai.Schema{}

	switch s.Type {
	case schema.String:
		out.Type = genai.TypeString
	case schema.Integer:
		out.Type = genai.TypeInteger
	case schema.Number:
		out.Type = genai.TypeNumber
	case schema.Boolean:
		out.Type = genai.TypeBoolean
	case schema.Null:
		nullable := true
		out.Type = genai.TypeUnspecified
		out.Nullable = &nullable
	case schema.Object:
		out.Type = genai.TypeObject
	case schema.Array:
		out.Type = genai.TypeArray
	case "":
		// anyOf fragments carry no type of their own
	default:
		return nil, fmt.Errorf("unsupported schema type %q", s.Type)
	}

	if s.Enum != nil {
		out.Enum = s.Enum
	}

	if s.Properties != nil {
		out.Properties = make(map[string]*genai.Schema, s.Properties.Len())
		for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
			prop, err := convertSchema(pair.Value, root, expanding)
			if err != nil {
				return nil, fmt.Errorf("property %q: %w", pair.Key, err)
			}
			out.Properties[pair.Key] = prop
			out.PropertyOrdering = append(out.PropertyOrdering, pair.Key)
		}
		out.Required = s.Required
	}

	if s.Items != nil {
		items, err := convertSchema(s.Items, root, expanding)
		if err != nil {
			return nil, fmt.Errorf("array items: %w", err)
		}
		out.Items = items
	}

	for i, member := range s.AnyOf {
		converted, err := convertSchema(member, root, expanding)
		if err != nil {
			return nil, fmt.Errorf("anyOf member %d: %w", i, err)
		}
		out.AnyOf = append(out.AnyOf, converted)
	}

	return out, nil
}
