// Package decode reconstructs typed values from generic JSON values that
// conform to a compiled schema. The input is the nested
// map/slice/scalar form produced by encoding/json into any; the output is
// whatever the type descriptors construct.
package decode

import (
	"errors"
	"fmt"
	"math"
	"reflect"

	"github.com/deepnoodle-ai/structured/types"
)

// Error kinds. All decode failures wrap one of these and are matched with
// errors.Is.
var (
	ErrTypeMismatch          = errors.New("type mismatch")
	ErrMissingField          = errors.New("missing field")
	ErrNoMatchingEnumMember  = errors.New("no matching enum member")
	ErrNoMatchingUnionMember = errors.New("no matching union member")
)

// Decode reconstructs a value of the given type from a generic JSON value.
// A value that is already an instance of the target type is returned
// unchanged. Failures abort the whole call; no partially-constructed value
// is returned.
func Decode(t types.Type, v any) (any, error) {
	switch t.Kind() {
	case types.KindString:
		if s, ok := v.(string); ok {
			return s, nil
		}
		return nil, mismatch(t, v)

	case types.KindInteger:
		switch n := v.(type) {
		case float64:
			// The range check also rejects NaN and the infinities; int64
			// conversion of an out-of-range float64 is undefined.
			if n == math.Trunc(n) && n >= math.MinInt64 && n < math.MaxInt64 {
				return int64(n), nil
			}
			return nil, mismatch(t, v)
		case int:
			return int64(n), nil
		case int64:
			return n, nil
		}
		return nil, mismatch(t, v)

	case types.KindNumber:
		switch n := v.(type) {
		case float64:
			return n, nil
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		}
		return nil, mismatch(t, v)

	case types.KindBoolean:
		if b, ok := v.(bool); ok {
			return b, nil
		}
		return nil, mismatch(t, v)

	case types.KindNull:
		if v == nil {
			return nil, nil
		}
		return nil, mismatch(t, v)

	case types.KindEnum:
		return decodeEnum(t.(*types.EnumType), v)

	case types.KindList:
		return decodeList(t.(*types.ListType), v)

	case types.KindTuple:
		return decodeTuple(t.(*types.TupleType), v)

	case types.KindRecord:
		return decodeRecord(t.(*types.RecordType), v)

	case types.KindUnion:
		return decodeUnion(t.(*types.UnionType), v)

	default:
		return nil, fmt.Errorf("%w: cannot decode kind %s", ErrTypeMismatch, t.Kind())
	}
}

// TryDecode is Decode with panics from caller-supplied constructors
// converted into errors. Union decoding iterates members with it so a
// failing candidate moves on to the next instead of unwinding.
func TryDecode(t types.Type, v any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrTypeMismatch, r)
		}
	}()
	return Decode(t, v)
}

func decodeEnum(e *types.EnumType, v any) (any, error) {
	label, ok := v.(string)
	if !ok {
		// Already-typed members pass through unchanged.
		rv := reflect.ValueOf(v)
		if v != nil && rv.Kind() == reflect.String {
			if _, ok := e.Member(rv.String()); ok {
				return v, nil
			}
		}
		return nil, mismatch(e, v)
	}
	if m, ok := e.Member(label); ok {
		return m, nil
	}
	return nil, fmt.Errorf("%w: %q is not a member of %s %v",
		ErrNoMatchingEnumMember, label, e.Name(), e.Labels())
}

func decodeList(l *types.ListType, v any) (any, error) {
	seq, ok := v.([]any)
	if !ok {
		return nil, mismatch(l, v)
	}
	values := make([]any, len(seq))
	for i, item := range seq {
		dv, err := Decode(l.Elem(), item)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		values[i] = dv
	}
	return l.New(values)
}

func decodeTuple(t *types.TupleType, v any) (any, error) {
	seq, ok := v.([]any)
	if !ok {
		return nil, mismatch(t, v)
	}
	elems := t.Elems()
	if len(seq) != len(elems) {
		return nil, fmt.Errorf("%w: got %d elements for a %d-element tuple",
			ErrTypeMismatch, len(seq), len(elems))
	}
	values := make([]any, len(seq))
	for i, item := range seq {
		dv, err := Decode(elems[i], item)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		values[i] = dv
	}
	return t.New(values)
}

func decodeRecord(r *types.RecordType, v any) (any, error) {
	if r.Instance(v) {
		return v, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, mismatch(r, v)
	}
	fields := r.Fields()
	values := make([]any, len(fields))
	for i, f := range fields {
		fv, present := m[f.Name]
		if !present {
			return nil, fmt.Errorf("%w: %s.%s", ErrMissingField, r.Name(), f.Name)
		}
		dv, err := Decode(f.Type, fv)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		values[i] = dv
	}
	return r.New(values)
}

// decodeUnion picks the union member to decode with. Keyed mappings are
// matched against record members whose field-name set exactly equals the
// mapping's key set, tried in declared order with the first successful
// decode winning. Two members with identical field sets are ambiguous and
// the first declared one wins; avoiding such shapes is the caller's
// responsibility. Non-mapping inputs resolve through the scalar, enum and
// null members directly.
func decodeUnion(u *types.UnionType, v any) (any, error) {
	for _, member := range u.Members() {
		if rec, ok := member.(*types.RecordType); ok && rec.Instance(v) {
			return v, nil
		}
	}

	m, ok := v.(map[string]any)
	if !ok {
		for _, member := range u.Members() {
			if member.Kind() == types.KindRecord {
				continue
			}
			if out, err := TryDecode(member, v); err == nil {
				return out, nil
			}
		}
		return nil, fmt.Errorf("%w: no member of the union accepts %T", ErrNoMatchingUnionMember, v)
	}

	for _, member := range u.Members() {
		rec, ok := member.(*types.RecordType)
		if !ok {
			continue
		}
		if !fieldSetMatches(rec, m) {
			continue
		}
		if out, err := TryDecode(rec, v); err == nil {
			return out, nil
		}
	}
	return nil, fmt.Errorf("%w: no record member matches keys %v", ErrNoMatchingUnionMember, mapKeys(m))
}

// fieldSetMatches reports whether the record's field names exactly equal
// the mapping's key set.
func fieldSetMatches(r *types.RecordType, m map[string]any) bool {
	fields := r.Fields()
	if len(fields) != len(m) {
		return false
	}
	for _, f := range fields {
		if _, ok := m[f.Name]; !ok {
			return false
		}
	}
	return true
}

func mapKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func mismatch(t types.Type, v any) error {
	return fmt.Errorf("%w: cannot decode %T into %s", ErrTypeMismatch, v, describe(t))
}

func describe(t types.Type) string {
	if name := t.Name(); name != "" {
		return fmt.Sprintf("%s %s", t.Kind(), name)
	}
	return t.Kind().String()
}
