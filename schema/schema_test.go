package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

func TestMarshalPreservesPropertyOrder(t *testing.T) {
	props := orderedmap.New[string, *Schema]()
	props.Set("zebra", &Schema{Type: String})
	props.Set("apple", &Schema{Type: Integer})

	additional := false
	s := &Schema{
		Type:                 Object,
		Properties:           props,
		Required:             []string{"zebra", "apple"},
		AdditionalProperties: &additional,
	}

	data, err := json.Marshal(s)
	require.NoError(t, err)
	require.Equal(t,
		`{"type":"object","properties":{"zebra":{"type":"string"},"apple":{"type":"integer"}},"required":["zebra","apple"],"additionalProperties":false}`,
		string(data))
}

func TestMarshalTupleEmitsItemsFalse(t *testing.T) {
	n := 2
	s := &Schema{
		Type:        Array,
		PrefixItems: []*Schema{{Type: Integer}, {Type: String}},
		MinItems:    &n,
		MaxItems:    &n,
	}

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	require.Equal(t, false, m["items"])
	require.Equal(t, float64(2), m["minItems"])
	require.Equal(t, float64(2), m["maxItems"])
	require.Len(t, m["prefixItems"], 2)
}

func TestMarshalScalar(t *testing.T) {
	tests := []struct {
		name     string
		input    *Schema
		expected string
	}{
		{"string", &Schema{Type: String}, `{"type":"string"}`},
		{"integer", &Schema{Type: Integer}, `{"type":"integer"}`},
		{"null", &Schema{Type: Null}, `{"type":"null"}`},
		{"enum", &Schema{Type: String, Enum: []string{"yes", "no"}}, `{"type":"string","enum":["yes","no"]}`},
		{"ref", &Schema{Ref: "#/$defs/Point"}, `{"$ref":"#/$defs/Point"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.input)
			require.NoError(t, err)
			require.Equal(t, tt.expected, string(data))
		})
	}
}

func TestAsMap(t *testing.T) {
	s := &Schema{Type: String, Enum: []string{"a"}}
	m, err := s.AsMap()
	require.NoError(t, err)
	require.Equal(t, "string", m["type"])
	require.Equal(t, []any{"a"}, m["enum"])
}

func TestAccessors(t *testing.T) {
	s := &Schema{}
	require.Nil(t, s.Property("missing"))
	require.Nil(t, s.Def("missing"))
	require.Nil(t, s.PropertyNames())

	props := orderedmap.New[string, *Schema]()
	props.Set("a", &Schema{Type: String})
	props.Set("b", &Schema{Type: Integer})
	s.Properties = props
	require.Equal(t, []string{"a", "b"}, s.PropertyNames())
	require.Equal(t, Integer, s.Property("b").Type)
}
