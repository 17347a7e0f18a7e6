package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueSealed(t *testing.T) {
	// Verify all types implement Value (compile-time check via assignment)
	var _ Value = Null{}
	var _ Value = String("test")
	var _ Value = Int(42)
	var _ Value = Float(3.5)
	var _ Value = Bool(true)
	var _ Value = Array{String("a"), Int(1)}
	var _ Value = Object{"key": String("value")}
}

func TestFromJSONPreservesIntFloatDistinction(t *testing.T) {
	v, err := FromJSON([]byte(`{"age": 42, "score": 42.0, "big": 4e2}`))
	require.NoError(t, err)

	obj := v.(Object)
	assert.Equal(t, Int(42), obj["age"])
	assert.Equal(t, Float(42.0), obj["score"])
	assert.Equal(t, Float(400), obj["big"])
}

func TestFromJSONNested(t *testing.T) {
	v, err := FromJSON([]byte(`{"tags": ["a", 1, true, null], "meta": {"x": 1}}`))
	require.NoError(t, err)

	obj := v.(Object)
	assert.Equal(t, Array{String("a"), Int(1), Bool(true), Null{}}, obj["tags"])
	assert.Equal(t, Object{"x": Int(1)}, obj["meta"])
}

func TestMarshalSortedKeys(t *testing.T) {
	obj := Object{
		"zebra": String("z"),
		"apple": Int(1),
		"mango": Bool(false),
	}

	b, err := Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"apple":1,"mango":false,"zebra":"z"}`, string(b))
}

func TestMarshalIntStaysInt(t *testing.T) {
	b, err := Marshal(Object{"age": Int(25)})
	require.NoError(t, err)
	assert.Equal(t, `{"age":25}`, string(b))
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		name string
		val  Value
		want bool
	}{
		{"null", Null{}, false},
		{"false", Bool(false), false},
		{"true", Bool(true), true},
		{"zero int", Int(0), false},
		{"nonzero int", Int(-3), true},
		{"zero float", Float(0), false},
		{"nonzero float", Float(0.1), true},
		{"empty string", String(""), false},
		{"nonempty string", String("x"), true},
		{"empty array", Array{}, false},
		{"nonempty array", Array{Int(0)}, true},
		{"empty object", Object{}, false},
		{"nonempty object", Object{"k": Null{}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truthy(tt.val))
		})
	}
}

func TestKind(t *testing.T) {
	assert.Equal(t, "number", Kind(Int(1)))
	assert.Equal(t, "number", Kind(Float(1.5)))
	assert.Equal(t, "boolean", Kind(Bool(true)))
	assert.Equal(t, "string", Kind(String("")))
	assert.Equal(t, "null", Kind(Null{}))
	assert.Equal(t, "array", Kind(Array{}))
	assert.Equal(t, "object", Kind(Object{}))
}

func TestObjectClone(t *testing.T) {
	orig := Object{"a": Int(1)}
	clone := orig.Clone()
	clone["a"] = Int(2)
	clone["b"] = String("new")

	assert.Equal(t, Int(1), orig["a"])
	_, exists := orig["b"]
	assert.False(t, exists)
}

func TestToString(t *testing.T) {
	tests := []struct {
		val  Value
		want string
	}{
		{String("plain"), "plain"},
		{Int(42), "42"},
		{Float(3.5), "3.5"},
		{Bool(true), "true"},
		{Array{Int(1), Int(2)}, "[1,2]"},
	}

	for _, tt := range tests {
		got, err := ToString(tt.val)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := ToString(Null{})
	assert.Error(t, err)
}
