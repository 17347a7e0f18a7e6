package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fieldgate/internal/ir"
)

func TestSchemaUnmarshalPreservesOrder(t *testing.T) {
	doc := `{
		"version": 1,
		"fields": {"zebra": "string", "apple": "number", "mango": "boolean"},
		"computed": {"fullName": "{{first}} {{last}}", "greeting": "Hello {{fullName}}"}
	}`

	var s Schema
	require.NoError(t, json.Unmarshal([]byte(doc), &s))

	assert.Equal(t, ir.Int(1), s.Version)
	assert.True(t, s.HasFields)

	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"zebra", "apple", "mango"}, names)

	require.Len(t, s.Computed, 2)
	assert.Equal(t, "fullName", s.Computed[0].Name)
	assert.Equal(t, "greeting", s.Computed[1].Name)
}

func TestSchemaUnmarshalRejectsNonStringTemplate(t *testing.T) {
	doc := `{"version": 1, "fields": {}, "computed": {"x": 42}}`

	var s Schema
	assert.Error(t, json.Unmarshal([]byte(doc), &s))
}

func TestSchemaAdmit(t *testing.T) {
	tests := []struct {
		name    string
		schema  *Schema
		wantErr bool
	}{
		{"nil schema", nil, true},
		{"missing version", &Schema{HasFields: true}, true},
		{"missing fields", &Schema{Version: ir.Int(1)}, true},
		{"complete", &Schema{Version: ir.Int(1), HasFields: true}, false},
		{"empty fields map is still declared", &Schema{Version: ir.Int(2), HasFields: true, Fields: nil}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.schema.Admit()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsRequestError(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalizedFields(t *testing.T) {
	s := &Schema{
		Version:   ir.Int(1),
		HasFields: true,
		Fields: []RawField{
			{Name: "a", Spec: ir.String("number")},
			{Name: "b", Spec: ir.Object{"type": ir.String("boolean")}},
			{Name: "c", Spec: ir.String("uuid")},
			{Name: "d", Spec: ir.Int(7)},
			{Name: "e", Spec: ir.Object{"kind": ir.String("number")}},
		},
	}

	got := s.NormalizedFields()
	want := []FieldSpec{
		{Name: "a", Type: TypeNumber},
		{Name: "b", Type: TypeBoolean},
		{Name: "c", Type: TypeString},
		{Name: "d", Type: TypeString},
		{Name: "e", Type: TypeString},
	}
	assert.Equal(t, want, got)
}

func TestRequestUnmarshal(t *testing.T) {
	doc := `{
		"schema": {"version": 1, "fields": {"age": "number"}},
		"rules": [{"id": "r1", "level": "field", "field": "age", "condition": "value >= 18", "action": "validate"}],
		"data": {"age": 16}
	}`

	var req Request
	require.NoError(t, json.Unmarshal([]byte(doc), &req))

	require.NotNil(t, req.Schema)
	assert.Equal(t, ir.Object{"age": ir.Int(16)}, req.Data)
	require.Len(t, req.Rules, 1)
}
