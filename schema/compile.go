package schema

import (
	"errors"
	"fmt"

	"github.com/deepnoodle-ai/structured/types"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ErrUnsupportedType is wrapped by compile errors for type shapes the
// compiler cannot classify.
var ErrUnsupportedType = errors.New("unsupported type")

const defsPrefix = "#/$defs/"

// Inlineable reports whether a type's schema is embedded directly wherever
// the type occurs, rather than referenced through the $defs table. Scalars
// and unions are cheap to inline since they carry no field identity worth
// sharing. Records and enums are referenced so that repeated use points at
// a single definition, and a collection is only inlineable if its element
// type is.
func Inlineable(t types.Type) bool {
	switch t.Kind() {
	case types.KindString, types.KindInteger, types.KindNumber,
		types.KindBoolean, types.KindNull, types.KindUnion:
		return true
	case types.KindEnum, types.KindRecord:
		return false
	case types.KindList:
		return Inlineable(t.(*types.ListType).Elem())
	case types.KindTuple:
		for _, e := range t.(*types.TupleType).Elems() {
			if !Inlineable(e) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Compile walks t and produces its JSON Schema document. Every record and
// enum referenced anywhere in the type graph is compiled exactly once into
// the document's $defs table, keyed by canonical name, so shared and
// self-referencing types terminate with a single shared definition.
func Compile(t types.Type) (*Schema, error) {
	root, refs, err := compileFragment(t)
	if err != nil {
		return nil, err
	}

	// Iterative worklist over referenced types. A name enters the table at
	// most once, which is what bounds compilation on cyclic type graphs.
	var defs *orderedmap.OrderedMap[string, *Schema]
	seen := make(map[string]types.Type)
	queue := refs
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if prior, ok := seen[next.Name()]; ok {
			if prior != next {
				return nil, fmt.Errorf("%w: two distinct types named %q", ErrUnsupportedType, next.Name())
			}
			continue
		}
		seen[next.Name()] = next

		frag, more, err := compileFragment(next)
		if err != nil {
			return nil, err
		}
		if defs == nil {
			defs = orderedmap.New[string, *Schema]()
		}
		defs.Set(next.Name(), frag)
		queue = append(queue, more...)
	}
	root.Defs = defs
	return root, nil
}

// compileFragment produces the schema fragment for t plus the record and
// enum types the fragment references directly (not transitively), in first
// occurrence order with duplicates removed.
func compileFragment(t types.Type) (*Schema, []types.Type, error) {
	switch t.Kind() {
	case types.KindString:
		return &Schema{Type: String}, nil, nil
	case types.KindInteger:
		return &Schema{Type: Integer}, nil, nil
	case types.KindNumber:
		return &Schema{Type: Number}, nil, nil
	case types.KindBoolean:
		return &Schema{Type: Boolean}, nil, nil
	case types.KindNull:
		return &Schema{Type: Null}, nil, nil

	case types.KindEnum:
		e := t.(*types.EnumType)
		return &Schema{Type: String, Enum: e.Labels()}, nil, nil

	case types.KindList:
		items, refs, err := fragOrRef(t.(*types.ListType).Elem())
		if err != nil {
			return nil, nil, err
		}
		return &Schema{Type: Array, Items: items}, refs, nil

	case types.KindTuple:
		elems := t.(*types.TupleType).Elems()
		prefix := make([]*Schema, 0, len(elems))
		var refs []types.Type
		for _, e := range elems {
			frag, r, err := fragOrRef(e)
			if err != nil {
				return nil, nil, err
			}
			prefix = append(prefix, frag)
			refs = appendRefs(refs, r)
		}
		n := len(elems)
		return &Schema{
			Type:        Array,
			PrefixItems: prefix,
			MinItems:    &n,
			MaxItems:    &n,
		}, refs, nil

	case types.KindRecord:
		rec := t.(*types.RecordType)
		props := orderedmap.New[string, *Schema]()
		required := make([]string, 0, len(rec.Fields()))
		var refs []types.Type
		for _, f := range rec.Fields() {
			frag, r, err := fragOrRef(f.Type)
			if err != nil {
				return nil, nil, fmt.Errorf("field %q: %w", f.Name, err)
			}
			props.Set(f.Name, frag)
			required = append(required, f.Name)
			refs = appendRefs(refs, r)
		}
		additional := false
		return &Schema{
			Type:                 Object,
			Properties:           props,
			Required:             required,
			AdditionalProperties: &additional,
		}, refs, nil

	case types.KindUnion:
		var members []*Schema
		var refs []types.Type
		for _, m := range t.(*types.UnionType).Members() {
			frag, r, err := fragOrRef(m)
			if err != nil {
				return nil, nil, err
			}
			duplicate := false
			for _, existing := range members {
				if equal(existing, frag) {
					duplicate = true
					break
				}
			}
			if duplicate {
				continue
			}
			members = append(members, frag)
			refs = appendRefs(refs, r)
		}
		return &Schema{AnyOf: members}, refs, nil

	default:
		return nil, nil, fmt.Errorf("%w: kind %s", ErrUnsupportedType, t.Kind())
	}
}

// fragOrRef inlines the fragment for inlineable types and emits a $ref for
// named types. A non-inlineable collection still inlines its array shell;
// only the record or enum elements contribute references.
func fragOrRef(t types.Type) (*Schema, []types.Type, error) {
	if Inlineable(t) {
		return compileFragment(t)
	}
	switch t.Kind() {
	case types.KindRecord, types.KindEnum:
		name := t.Name()
		if name == "" {
			return nil, nil, fmt.Errorf("%w: unnamed %s", ErrUnsupportedType, t.Kind())
		}
		return &Schema{Ref: defsPrefix + name}, []types.Type{t}, nil
	}
	return compileFragment(t)
}

// appendRefs appends refs to dst, dropping descriptors that are already
// present. Distinct descriptors sharing a name are kept so the compiler's
// worklist can report the collision.
func appendRefs(dst, refs []types.Type) []types.Type {
	for _, r := range refs {
		duplicate := false
		for _, existing := range dst {
			if existing == r {
				duplicate = true
				break
			}
		}
		if !duplicate {
			dst = append(dst, r)
		}
	}
	return dst
}
