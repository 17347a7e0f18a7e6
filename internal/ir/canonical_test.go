package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalSortsKeys(t *testing.T) {
	obj := Object{"b": Int(2), "a": Int(1), "c": Int(3)}

	b, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"b":2,"c":3}`, string(b))
}

func TestMarshalCanonicalNoHTMLEscape(t *testing.T) {
	b, err := MarshalCanonical(String("<a> & </a>"))
	require.NoError(t, err)
	assert.Equal(t, `"<a> & </a>"`, string(b))
}

func TestMarshalCanonicalNFC(t *testing.T) {
	// U+0065 U+0301 (e + combining acute) normalizes to U+00E9.
	decomposed := String("café")
	composed := String("café")

	b1, err := MarshalCanonical(decomposed)
	require.NoError(t, err)
	b2, err := MarshalCanonical(composed)
	require.NoError(t, err)
	assert.Equal(t, string(b2), string(b1))
}

func TestMarshalCanonicalFloats(t *testing.T) {
	b, err := MarshalCanonical(Array{Float(3.5), Int(2), Null{}})
	require.NoError(t, err)
	assert.Equal(t, `[3.5,2,null]`, string(b))
}

func TestRequestHashStable(t *testing.T) {
	schema := Object{"version": Int(1), "fields": Object{"age": String("number")}}
	data := Object{"age": Int(16)}
	rules := Array{Object{"id": String("r1")}}

	h1, err := RequestHash(schema, data, rules)
	require.NoError(t, err)
	h2, err := RequestHash(schema, data, rules)
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)
}

func TestRequestHashDiffersOnData(t *testing.T) {
	schema := Object{"version": Int(1)}

	h1, err := RequestHash(schema, Object{"age": Int(16)}, nil)
	require.NoError(t, err)
	h2, err := RequestHash(schema, Object{"age": Int(17)}, nil)
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestRequestHashNilSchema(t *testing.T) {
	h, err := RequestHash(nil, Object{}, nil)
	require.NoError(t, err)
	assert.Len(t, h, 64)
}
