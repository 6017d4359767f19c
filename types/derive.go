package types

import (
	"fmt"
	"reflect"
	"strings"
)

// UnsupportedTypeError reports a Go type that has no descriptor shape,
// such as a map, channel, or function type.
type UnsupportedTypeError struct {
	GoType reflect.Type
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported type: %s", e.GoType)
}

// Struct derives a record descriptor for the struct type T using
// reflection. Field order follows the struct declaration, field names come
// from `json` tags (falling back to the Go name), and fields tagged
// `json:"-"` or unexported are skipped. Nested structs derive recursively,
// slices become lists, and pointers become unions with null. Go types bound
// via Register are described by their registered descriptor instead.
//
// Example:
//
//	type User struct {
//	  Name string `json:"name"`
//	  Age  int    `json:"age"`
//	}
//	desc, err := types.Struct[User]()
func Struct[T any]() (*RecordType, error) {
	rt := reflect.TypeOf((*T)(nil)).Elem()
	if rt.Kind() != reflect.Struct {
		return nil, fmt.Errorf("cannot derive a record descriptor for %s", rt)
	}
	d := &deriver{seen: make(map[reflect.Type]*RecordType)}
	return d.record(rt)
}

// MustStruct is like Struct but panics on error. Intended for package-level
// descriptor variables.
func MustStruct[T any]() *RecordType {
	r, err := Struct[T]()
	if err != nil {
		panic(err)
	}
	return r
}

// Derive returns a descriptor for an arbitrary Go type.
func Derive(goType reflect.Type) (Type, error) {
	d := &deriver{seen: make(map[reflect.Type]*RecordType)}
	return d.derive(goType)
}

// deriver tracks in-progress record derivations so self-referential struct
// types terminate instead of recursing forever.
type deriver struct {
	seen map[reflect.Type]*RecordType
}

func (d *deriver) derive(t reflect.Type) (Type, error) {
	if bound, ok := defaultRegistry.Lookup(t); ok {
		return bound, nil
	}

	switch t.Kind() {
	case reflect.String:
		return String, nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Integer, nil

	case reflect.Float32, reflect.Float64:
		return Number, nil

	case reflect.Bool:
		return Boolean, nil

	case reflect.Slice, reflect.Array:
		elem, err := d.derive(t.Elem())
		if err != nil {
			return nil, fmt.Errorf("element type of %s: %w", t, err)
		}
		return &ListType{elem: elem, build: sequenceBuilder(t)}, nil

	case reflect.Ptr:
		elem, err := d.derive(t.Elem())
		if err != nil {
			return nil, fmt.Errorf("pointer type %s: %w", t, err)
		}
		return Optional(elem), nil

	case reflect.Struct:
		return d.record(t)

	default:
		return nil, &UnsupportedTypeError{GoType: t}
	}
}

func (d *deriver) record(t reflect.Type) (*RecordType, error) {
	if rec, ok := d.seen[t]; ok {
		return rec, nil
	}
	if t.Name() == "" {
		return nil, fmt.Errorf("cannot derive a record descriptor for an unnamed struct type")
	}

	// Enter the record into the seen set before walking its fields so a
	// field referencing the record (directly or through a pointer) resolves
	// to the same descriptor.
	rec := &RecordType{name: t.Name(), goType: t}
	d.seen[t] = rec

	var fields []Field
	var indexes []int
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := jsonFieldName(sf)
		if name == "-" {
			continue
		}
		ft, err := d.derive(sf.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", t.Name(), sf.Name, err)
		}
		fields = append(fields, Field{Name: name, Type: ft})
		indexes = append(indexes, i)
	}

	rec.fields = fields
	rec.build = structBuilder(t, indexes)
	return rec, nil
}

// jsonFieldName extracts the effective field name from a struct field's
// json tag, falling back to the Go field name.
func jsonFieldName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "" {
		return f.Name
	}
	name := strings.Split(tag, ",")[0]
	if name == "" {
		return f.Name
	}
	return name
}

// structBuilder returns a positional constructor that sets the indexed
// struct fields from decoded values, in declaration order.
func structBuilder(t reflect.Type, indexes []int) func([]any) (any, error) {
	return func(values []any) (any, error) {
		rv := reflect.New(t).Elem()
		for i, idx := range indexes {
			if err := assign(rv.Field(idx), values[i]); err != nil {
				return nil, fmt.Errorf("%s.%s: %w", t.Name(), t.Field(idx).Name, err)
			}
		}
		return rv.Interface(), nil
	}
}

// sequenceBuilder returns a constructor assembling decoded elements into a
// typed slice or array value.
func sequenceBuilder(t reflect.Type) func([]any) (any, error) {
	return func(values []any) (any, error) {
		var out reflect.Value
		switch t.Kind() {
		case reflect.Slice:
			out = reflect.MakeSlice(t, len(values), len(values))
		case reflect.Array:
			if len(values) != t.Len() {
				return nil, fmt.Errorf("got %d elements for %s", len(values), t)
			}
			out = reflect.New(t).Elem()
		}
		for i, v := range values {
			if err := assign(out.Index(i), v); err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
		}
		return out.Interface(), nil
	}
}

// assign stores a decoded value into a struct field or sequence element,
// allocating pointers and applying Go conversions as needed.
func assign(dst reflect.Value, v any) error {
	if v == nil {
		switch dst.Kind() {
		case reflect.Ptr, reflect.Slice, reflect.Interface, reflect.Map:
			return nil // leave the zero value
		}
		return fmt.Errorf("cannot assign null to %s", dst.Type())
	}
	val := reflect.ValueOf(v)
	if val.Type().AssignableTo(dst.Type()) {
		dst.Set(val)
		return nil
	}
	if dst.Kind() == reflect.Ptr {
		p := reflect.New(dst.Type().Elem())
		if err := assign(p.Elem(), v); err != nil {
			return err
		}
		dst.Set(p)
		return nil
	}
	if val.Type().ConvertibleTo(dst.Type()) {
		dst.Set(val.Convert(dst.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", v, dst.Type())
}
