package schema

import (
	"encoding/json"
	"testing"

	"github.com/deepnoodle-ai/structured/types"
	"github.com/stretchr/testify/require"
)

func passthrough(values []any) (any, error) { return values, nil }

func pointType() *types.RecordType {
	return types.NewRecord("Point", []types.Field{
		{Name: "x", Type: types.Integer},
		{Name: "y", Type: types.String},
	}, passthrough)
}

func TestInlineable(t *testing.T) {
	point := pointType()
	answer := types.NewEnum("Answer", "yes", "no")

	tests := []struct {
		name     string
		input    types.Type
		expected bool
	}{
		{"string", types.String, true},
		{"integer", types.Integer, true},
		{"number", types.Number, true},
		{"boolean", types.Boolean, true},
		{"null", types.Null, true},
		{"union", types.NewUnion(types.String, types.Null), true},
		{"enum", answer, false},
		{"record", point, false},
		{"list of scalars", types.NewList(types.String), true},
		{"list of records", types.NewList(point), false},
		{"list of lists of records", types.NewList(types.NewList(point)), false},
		{"tuple of scalars", types.NewTuple(types.Integer, types.String), true},
		{"tuple with a record", types.NewTuple(types.Integer, point), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, Inlineable(tt.input))
		})
	}
}

func TestCompileRecord(t *testing.T) {
	doc, err := Compile(pointType())
	require.NoError(t, err)

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	require.Equal(t,
		`{"type":"object","properties":{"x":{"type":"integer"},"y":{"type":"string"}},"required":["x","y"],"additionalProperties":false}`,
		string(data))
}

func TestCompileEnum(t *testing.T) {
	doc, err := Compile(types.NewEnum("Answer", "yes", "no"))
	require.NoError(t, err)

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	require.Equal(t, `{"type":"string","enum":["yes","no"]}`, string(data))
}

func TestCompileScalars(t *testing.T) {
	tests := []struct {
		input    types.Type
		expected string
	}{
		{types.String, String},
		{types.Integer, Integer},
		{types.Number, Number},
		{types.Boolean, Boolean},
		{types.Null, Null},
	}
	for _, tt := range tests {
		doc, err := Compile(tt.input)
		require.NoError(t, err)
		require.Equal(t, tt.expected, doc.Type)
		require.Nil(t, doc.Defs)
	}
}

func TestCompileFieldOrderMatchesDeclaration(t *testing.T) {
	rec := types.NewRecord("Wide", []types.Field{
		{Name: "zulu", Type: types.String},
		{Name: "alpha", Type: types.Integer},
		{Name: "mike", Type: types.Boolean},
	}, passthrough)

	doc, err := Compile(rec)
	require.NoError(t, err)
	require.Equal(t, []string{"zulu", "alpha", "mike"}, doc.PropertyNames())
	require.Equal(t, []string{"zulu", "alpha", "mike"}, doc.Required)
}

func TestCompileSharedRecordAppearsOnce(t *testing.T) {
	point := pointType()
	segment := types.NewRecord("Segment", []types.Field{
		{Name: "start", Type: point},
		{Name: "end", Type: point},
	}, passthrough)

	doc, err := Compile(segment)
	require.NoError(t, err)

	require.Equal(t, "#/$defs/Point", doc.Property("start").Ref)
	require.Equal(t, "#/$defs/Point", doc.Property("end").Ref)
	require.NotNil(t, doc.Defs)
	require.Equal(t, 1, doc.Defs.Len())
	require.Equal(t, Object, doc.Def("Point").Type)
}

func TestCompileSelfReferenceTerminates(t *testing.T) {
	node := types.NewRecord("Node", nil, nil)
	node.Define([]types.Field{
		{Name: "value", Type: types.Integer},
		{Name: "next", Type: types.Optional(node)},
	}, passthrough)

	doc, err := Compile(node)
	require.NoError(t, err)

	next := doc.Property("next")
	require.Len(t, next.AnyOf, 2)
	require.Equal(t, "#/$defs/Node", next.AnyOf[0].Ref)
	require.Equal(t, Null, next.AnyOf[1].Type)

	def := doc.Def("Node")
	require.NotNil(t, def)
	require.Equal(t, "#/$defs/Node", def.Property("next").AnyOf[0].Ref)
}

func TestCompileMutualReferenceTerminates(t *testing.T) {
	a := types.NewRecord("A", nil, nil)
	b := types.NewRecord("B", nil, nil)
	a.Define([]types.Field{{Name: "b", Type: types.Optional(b)}}, passthrough)
	b.Define([]types.Field{{Name: "a", Type: types.Optional(a)}}, passthrough)

	doc, err := Compile(a)
	require.NoError(t, err)
	require.Equal(t, 2, doc.Defs.Len())
	require.NotNil(t, doc.Def("A"))
	require.NotNil(t, doc.Def("B"))
}

func TestCompileListOfRecords(t *testing.T) {
	doc, err := Compile(types.NewList(pointType()))
	require.NoError(t, err)

	require.Equal(t, Array, doc.Type)
	require.Equal(t, "#/$defs/Point", doc.Items.Ref)
	require.NotNil(t, doc.Def("Point"))
}

func TestCompileListOfScalarsInline(t *testing.T) {
	doc, err := Compile(types.NewList(types.Number))
	require.NoError(t, err)
	require.Equal(t, Array, doc.Type)
	require.Equal(t, Number, doc.Items.Type)
	require.Nil(t, doc.Defs)
}

func TestCompileTuple(t *testing.T) {
	doc, err := Compile(types.NewTuple(types.Integer, types.String, pointType()))
	require.NoError(t, err)

	require.Equal(t, Array, doc.Type)
	require.Len(t, doc.PrefixItems, 3)
	require.Equal(t, Integer, doc.PrefixItems[0].Type)
	require.Equal(t, String, doc.PrefixItems[1].Type)
	require.Equal(t, "#/$defs/Point", doc.PrefixItems[2].Ref)
	require.Equal(t, 3, *doc.MinItems)
	require.Equal(t, 3, *doc.MaxItems)

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	require.Equal(t, false, m["items"])
}

func TestCompileUnionDeduplicatesMembers(t *testing.T) {
	doc, err := Compile(types.NewUnion(types.String, types.String, types.Integer))
	require.NoError(t, err)
	require.Len(t, doc.AnyOf, 2)
	require.Equal(t, String, doc.AnyOf[0].Type)
	require.Equal(t, Integer, doc.AnyOf[1].Type)
}

func TestCompileUnionOfRecords(t *testing.T) {
	point := pointType()
	answer := types.NewEnum("Answer", "yes", "no")

	doc, err := Compile(types.NewUnion(point, answer, types.Null))
	require.NoError(t, err)

	require.Len(t, doc.AnyOf, 3)
	require.Equal(t, "#/$defs/Point", doc.AnyOf[0].Ref)
	require.Equal(t, "#/$defs/Answer", doc.AnyOf[1].Ref)
	require.Equal(t, Null, doc.AnyOf[2].Type)
	require.Equal(t, 2, doc.Defs.Len())
}

func TestCompileDuplicateDefinitionNameFails(t *testing.T) {
	rec := types.NewRecord("Dup", []types.Field{{Name: "x", Type: types.Integer}}, passthrough)
	enum := types.NewEnum("Dup", "a", "b")
	outer := types.NewRecord("Outer", []types.Field{
		{Name: "first", Type: rec},
		{Name: "second", Type: enum},
	}, passthrough)

	_, err := Compile(outer)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrUnsupportedType)
	require.ErrorContains(t, err, "Dup")
}

func TestCompileUnnamedRecordFails(t *testing.T) {
	rec := types.NewRecord("", []types.Field{{Name: "x", Type: types.Integer}}, passthrough)
	outer := types.NewRecord("Outer", []types.Field{{Name: "inner", Type: rec}}, passthrough)

	_, err := Compile(outer)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrUnsupportedType)
}
