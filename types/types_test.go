package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type answer string

const (
	answerYes answer = "yes"
	answerNo  answer = "no"
)

func TestScalarSingletons(t *testing.T) {
	tests := []struct {
		name     string
		input    Type
		expected Kind
	}{
		{"string", String, KindString},
		{"integer", Integer, KindInteger},
		{"number", Number, KindNumber},
		{"boolean", Boolean, KindBoolean},
		{"null", Null, KindNull},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.input.Kind())
			require.Empty(t, tt.input.Name())
		})
	}
}

func TestEnumMembers(t *testing.T) {
	e := NewEnum("Answer", answerYes, answerNo)
	require.Equal(t, KindEnum, e.Kind())
	require.Equal(t, "Answer", e.Name())
	require.Equal(t, []string{"yes", "no"}, e.Labels())

	m, ok := e.Member("no")
	require.True(t, ok)
	require.Equal(t, answerNo, m)

	_, ok = e.Member("maybe")
	require.False(t, ok)
}

func TestRecordNew(t *testing.T) {
	rec := NewRecord("Pair", []Field{
		{Name: "a", Type: Integer},
		{Name: "b", Type: String},
	}, func(values []any) (any, error) {
		return [2]any{values[0], values[1]}, nil
	})

	require.Equal(t, KindRecord, rec.Kind())
	require.Equal(t, "Pair", rec.Name())

	v, err := rec.New([]any{int64(1), "x"})
	require.NoError(t, err)
	require.Equal(t, [2]any{int64(1), "x"}, v)

	_, err = rec.New([]any{int64(1)})
	require.Error(t, err)
}

func TestRecordDefine(t *testing.T) {
	rec := NewRecord("Node", nil, nil)
	rec.Define([]Field{
		{Name: "value", Type: Integer},
		{Name: "next", Type: Optional(rec)},
	}, func(values []any) (any, error) {
		return values, nil
	})

	fields := rec.Fields()
	require.Len(t, fields, 2)
	next, ok := fields[1].Type.(*UnionType)
	require.True(t, ok)
	require.Same(t, rec, next.Members()[0])
}

func TestUnionMembers(t *testing.T) {
	u := NewUnion(String, Null)
	require.Equal(t, KindUnion, u.Kind())
	require.Len(t, u.Members(), 2)

	opt := Optional(Integer)
	require.Equal(t, []Type{Integer, Null}, opt.Members())
}

func TestUnionFlattensNestedUnions(t *testing.T) {
	u := NewUnion(String, Optional(Integer))
	require.Equal(t, []Type{String, Integer, Null}, u.Members())

	deep := NewUnion(Boolean, u)
	require.Equal(t, []Type{Boolean, String, Integer, Null}, deep.Members())
}

func TestTupleNew(t *testing.T) {
	tup := NewTuple(Integer, String)
	require.Equal(t, KindTuple, tup.Kind())

	v, err := tup.New([]any{int64(1), "x"})
	require.NoError(t, err)
	require.Equal(t, []any{int64(1), "x"}, v)

	_, err = tup.New([]any{int64(1)})
	require.Error(t, err)
}

func TestListNew(t *testing.T) {
	l := NewList(String)
	require.Equal(t, KindList, l.Kind())
	require.Equal(t, KindString, l.Elem().Kind())

	v, err := l.New([]any{"a", "b"})
	require.NoError(t, err)
	require.Equal(t, []any{"a", "b"}, v)
}

func TestKindString(t *testing.T) {
	require.Equal(t, "record", KindRecord.String())
	require.Equal(t, "invalid", KindInvalid.String())
}
