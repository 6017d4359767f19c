package types

import (
	"fmt"
	"reflect"
)

// Kind identifies the shape of a type. Every Type belongs to exactly one
// kind, and both schema compilation and value decoding dispatch on it.
type Kind int

const (
	KindInvalid Kind = iota
	KindString
	KindInteger
	KindNumber
	KindBoolean
	KindNull
	KindEnum
	KindRecord
	KindUnion
	KindList
	KindTuple
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindNull:
		return "null"
	case KindEnum:
		return "enum"
	case KindRecord:
		return "record"
	case KindUnion:
		return "union"
	case KindList:
		return "list"
	case KindTuple:
		return "tuple"
	default:
		return "invalid"
	}
}

// Type describes the shape of a value. Descriptors are immutable once built
// and safe to share across goroutines.
type Type interface {
	// Kind returns the shape kind used for dispatch.
	Kind() Kind

	// Name returns the canonical name used to key the type in a schema's
	// $defs table. Only records and enums carry names; all other shapes
	// return "".
	Name() string
}

type scalarType struct {
	kind Kind
}

func (s scalarType) Kind() Kind   { return s.kind }
func (s scalarType) Name() string { return "" }

// Scalar type singletons. These are always inlined into schemas.
var (
	String  Type = scalarType{kind: KindString}
	Integer Type = scalarType{kind: KindInteger}
	Number  Type = scalarType{kind: KindNumber}
	Boolean Type = scalarType{kind: KindBoolean}
	Null    Type = scalarType{kind: KindNull}
)

// EnumType describes a closed set of string labels. Decoded members carry
// the Go type supplied to NewEnum.
type EnumType struct {
	name   string
	labels []string
	build  func(label string) any
}

// NewEnum builds an enum descriptor over the given members, in order.
// The member order is preserved in the compiled schema's enum list and
// drives the decoder's label scan.
func NewEnum[T ~string](name string, members ...T) *EnumType {
	labels := make([]string, len(members))
	for i, m := range members {
		labels[i] = string(m)
	}
	return &EnumType{
		name:   name,
		labels: labels,
		build:  func(label string) any { return T(label) },
	}
}

func (e *EnumType) Kind() Kind   { return KindEnum }
func (e *EnumType) Name() string { return e.name }

// Labels returns the member labels in declaration order.
func (e *EnumType) Labels() []string { return e.labels }

// Member returns the typed member for the given label, scanning labels in
// declaration order. The second result is false if no label matches.
func (e *EnumType) Member(label string) (any, bool) {
	for _, l := range e.labels {
		if l == label {
			return e.build(l), true
		}
	}
	return nil, false
}

// Field is one named, typed field of a record, in declaration order.
type Field struct {
	Name string
	Type Type
}

// RecordType describes a composite type with a fixed, ordered set of named
// fields. Records are always emitted into a schema's $defs table and
// referenced by name.
type RecordType struct {
	name   string
	fields []Field
	build  func(values []any) (any, error)
	goType reflect.Type
}

// NewRecord builds a record descriptor. The build function receives one
// decoded value per field, in declaration order, and constructs the
// caller's value.
func NewRecord(name string, fields []Field, build func(values []any) (any, error)) *RecordType {
	return &RecordType{name: name, fields: fields, build: build}
}

// Define sets the record's fields and constructor after creation. It
// exists so that mutually referencing records can be declared first and
// filled in once every name resolves; it must not be called after the
// descriptor is in use.
func (r *RecordType) Define(fields []Field, build func(values []any) (any, error)) {
	r.fields = fields
	r.build = build
}

func (r *RecordType) Kind() Kind   { return KindRecord }
func (r *RecordType) Name() string { return r.name }

// Fields returns the record's fields in declaration order.
func (r *RecordType) Fields() []Field { return r.fields }

// New constructs an instance from decoded field values, one per field in
// declaration order.
func (r *RecordType) New(values []any) (any, error) {
	if len(values) != len(r.fields) {
		return nil, fmt.Errorf("record %s: got %d values for %d fields", r.name, len(values), len(r.fields))
	}
	if r.build == nil {
		return nil, fmt.Errorf("record %s has no constructor", r.name)
	}
	return r.build(values)
}

// Instance reports whether v is already a value of the record's registered
// Go type. Records built without a Go type binding always report false.
func (r *RecordType) Instance(v any) bool {
	return r.goType != nil && reflect.TypeOf(v) == r.goType
}

// GoType returns the concrete Go type bound to this record, or nil.
func (r *RecordType) GoType() reflect.Type { return r.goType }

// UnionType describes a value that is exactly one of a fixed set of member
// types. Unions are inlined as anyOf wherever they occur.
type UnionType struct {
	members []Type
}

// NewUnion builds a union descriptor over the given members, in order.
// Member order matters: the decoder tries structurally-matching members
// in this order and the first successful decode wins. Union members are
// flattened into the new union in place, so Union{A, Union{B, Null}} and
// Union{A, B, Null} are the same descriptor.
func NewUnion(members ...Type) *UnionType {
	flat := make([]Type, 0, len(members))
	for _, m := range members {
		if u, ok := m.(*UnionType); ok {
			flat = append(flat, u.members...)
			continue
		}
		flat = append(flat, m)
	}
	return &UnionType{members: flat}
}

func (u *UnionType) Kind() Kind   { return KindUnion }
func (u *UnionType) Name() string { return "" }

// Members returns the union's member types in declaration order.
func (u *UnionType) Members() []Type { return u.members }

// Optional is shorthand for a union of t and null, the descriptor for a
// field that may be absent-as-null in the JSON payload.
func Optional(t Type) *UnionType {
	return NewUnion(t, Null)
}

// ListType describes a homogeneous variable-length sequence.
type ListType struct {
	elem  Type
	build func(values []any) (any, error)
}

// NewList builds a list descriptor with the given element type. Decoded
// lists are []any unless the descriptor was derived from a Go slice type.
func NewList(elem Type) *ListType {
	return &ListType{elem: elem}
}

func (l *ListType) Kind() Kind   { return KindList }
func (l *ListType) Name() string { return "" }

// Elem returns the element type.
func (l *ListType) Elem() Type { return l.elem }

// New assembles decoded elements into the list's value representation.
func (l *ListType) New(values []any) (any, error) {
	if l.build == nil {
		return values, nil
	}
	return l.build(values)
}

// TupleType describes a fixed-length sequence with per-position element
// types. Tuples compile to prefixItems with items:false and fixed
// minItems/maxItems; some structured-output APIs reject that encoding, so
// prefer records or lists when broad compatibility matters.
type TupleType struct {
	elems []Type
	build func(values []any) (any, error)
}

// NewTuple builds a tuple descriptor over the given element types, in order.
func NewTuple(elems ...Type) *TupleType {
	return &TupleType{elems: elems}
}

func (t *TupleType) Kind() Kind   { return KindTuple }
func (t *TupleType) Name() string { return "" }

// Elems returns the per-position element types.
func (t *TupleType) Elems() []Type { return t.elems }

// New assembles decoded elements into the tuple's value representation.
func (t *TupleType) New(values []any) (any, error) {
	if len(values) != len(t.elems) {
		return nil, fmt.Errorf("tuple: got %d values for %d elements", len(values), len(t.elems))
	}
	if t.build == nil {
		return values, nil
	}
	return t.build(values)
}
