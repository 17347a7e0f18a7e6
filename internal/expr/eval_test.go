package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fieldgate/internal/ir"
)

func evalOK(t *testing.T, src string, env ir.Object) ir.Value {
	t.Helper()
	v, err := Evaluate(src, env)
	require.NoError(t, err)
	return v
}

func TestEvaluateLiterals(t *testing.T) {
	env := ir.Object{}

	assert.Equal(t, ir.Int(42), evalOK(t, "42", env))
	assert.Equal(t, ir.Float(3.5), evalOK(t, "3.5", env))
	assert.Equal(t, ir.String("hi"), evalOK(t, "'hi'", env))
	assert.Equal(t, ir.String("hi"), evalOK(t, `"hi"`, env))
	assert.Equal(t, ir.Bool(true), evalOK(t, "true", env))
	assert.Equal(t, ir.Bool(false), evalOK(t, "false", env))
	assert.Equal(t, ir.Null{}, evalOK(t, "null", env))
}

func TestEvaluateVariables(t *testing.T) {
	env := ir.Object{"value": ir.Int(21)}

	assert.Equal(t, ir.Int(42), evalOK(t, "value * 2", env))

	_, err := Evaluate("missing_var", env)
	require.Error(t, err)
	assert.True(t, IsUnknownVariable(err))
}

func TestEvaluateArithmetic(t *testing.T) {
	env := ir.Object{}

	tests := []struct {
		src  string
		want ir.Value
	}{
		{"1 + 2 * 3", ir.Int(7)},
		{"(1 + 2) * 3", ir.Int(9)},
		{"10 - 4", ir.Int(6)},
		{"6 / 3", ir.Int(2)},
		{"7 / 2", ir.Float(3.5)},
		{"7 % 3", ir.Int(1)},
		{"2 ** 10", ir.Int(1024)},
		{"2 ** -1", ir.Float(0.5)},
		{"-2 ** 2", ir.Int(-4)},
		{"2.5 + 1", ir.Float(3.5)},
		{"1 + 2.5", ir.Float(3.5)},
		{"'foo' + 'bar'", ir.String("foobar")},
		{"[1] + [2, 3]", ir.Array{ir.Int(1), ir.Int(2), ir.Int(3)}},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			assert.Equal(t, tt.want, evalOK(t, tt.src, env))
		})
	}
}

func TestEvaluateArithmeticErrors(t *testing.T) {
	env := ir.Object{}

	for _, src := range []string{"1 / 0", "1 % 0", "1 + 'a'", "'a' * 2", "-'a'", "true + 1", "0 ** -1", "0.0 ** -1"} {
		t.Run(src, func(t *testing.T) {
			_, err := Evaluate(src, env)
			require.Error(t, err)
			assert.True(t, IsTypeMismatch(err), "want TYPE_MISMATCH, got %v", err)
		})
	}
}

func TestEvaluatePowOverflowPromotesToFloat(t *testing.T) {
	env := ir.Object{}

	// Within int64: stays integral.
	assert.Equal(t, ir.Int(1<<62), evalOK(t, "2 ** 62", env))

	// Beyond int64: promoted instead of wrapping to zero.
	got := evalOK(t, "2 ** 64", env)
	f, ok := got.(ir.Float)
	require.True(t, ok, "want Float, got %T", got)
	assert.Equal(t, ir.Float(1.8446744073709552e19), f)

	got = evalOK(t, "10 ** 100", env)
	f, ok = got.(ir.Float)
	require.True(t, ok, "want Float, got %T", got)
	assert.InEpsilon(t, 1e100, float64(f), 1e-12)
}

func TestEvaluateChainedComparisons(t *testing.T) {
	env := ir.Object{}

	assert.Equal(t, ir.Bool(true), evalOK(t, "1 < 2 < 3", env))
	assert.Equal(t, ir.Bool(false), evalOK(t, "1 < 2 < 0", env))
	assert.Equal(t, ir.Bool(true), evalOK(t, "1 <= 1 <= 1", env))
	assert.Equal(t, ir.Bool(true), evalOK(t, "3 > 2 > 1", env))
}

func TestEvaluateChainedComparisonShortCircuits(t *testing.T) {
	// The third operand would fail with an unknown variable, but the
	// failing second pair stops evaluation first.
	_, err := Evaluate("1 < 0 < boom", ir.Object{})
	require.NoError(t, err)

	v := evalOK(t, "1 < 0 < boom", ir.Object{})
	assert.Equal(t, ir.Bool(false), v)
}

func TestEvaluateComparisons(t *testing.T) {
	env := ir.Object{}

	tests := []struct {
		src  string
		want bool
	}{
		{"1 == 1", true},
		{"1 == 1.0", true},
		{"1 == '1'", false},
		{"true == 1", false},
		{"1 != '1'", true},
		{"null == null", true},
		{"'abc' == 'abc'", true},
		{"'a' < 'b'", true},
		{"[1, 2] == [1, 2]", true},
		{"[1, 2] == [2, 1]", false},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			assert.Equal(t, ir.Bool(tt.want), evalOK(t, tt.src, env))
		})
	}
}

func TestEvaluateOrderingAcrossKindsFails(t *testing.T) {
	_, err := Evaluate("'a' < 1", ir.Object{})
	require.Error(t, err)
	assert.True(t, IsTypeMismatch(err))
}

func TestEvaluateShortCircuit(t *testing.T) {
	env := ir.Object{}

	// The right operand is never evaluated, so the unknown variable
	// must not surface.
	v, err := Evaluate("false and undefined_var", env)
	require.NoError(t, err)
	assert.Equal(t, ir.Bool(false), v)

	v, err = Evaluate("true or undefined_var", env)
	require.NoError(t, err)
	assert.Equal(t, ir.Bool(true), v)

	// Without short-circuit protection the unknown variable fails.
	_, err = Evaluate("true and undefined_var", env)
	require.Error(t, err)
	assert.True(t, IsUnknownVariable(err))
}

func TestEvaluateBoolOpReturnsOperand(t *testing.T) {
	env := ir.Object{"name": ir.String("")}

	assert.Equal(t, ir.String("fallback"), evalOK(t, "name or 'fallback'", env))
	assert.Equal(t, ir.String(""), evalOK(t, "name and 'ignored'", env))
}

func TestEvaluateSubscript(t *testing.T) {
	env := ir.Object{
		"data": ir.Object{"age": ir.Int(25)},
		"tags": ir.Array{ir.String("a"), ir.String("b")},
	}

	assert.Equal(t, ir.Int(25), evalOK(t, "data['age']", env))
	assert.Equal(t, ir.String("a"), evalOK(t, "tags[0]", env))
	assert.Equal(t, ir.String("b"), evalOK(t, "tags[-1]", env))
	assert.Equal(t, ir.Bool(true), evalOK(t, "data['age'] >= 18", env))

	_, err := Evaluate("data['missing']", env)
	require.Error(t, err)
	assert.True(t, IsUnknownVariable(err))

	_, err = Evaluate("tags[5]", env)
	require.Error(t, err)
	assert.True(t, IsTypeMismatch(err))

	_, err = Evaluate("tags['x']", env)
	require.Error(t, err)
	assert.True(t, IsTypeMismatch(err))

	_, err = Evaluate("42[0]", env)
	require.Error(t, err)
	assert.True(t, IsTypeMismatch(err))
}

func TestEvaluateListLiteral(t *testing.T) {
	env := ir.Object{"x": ir.Int(2)}

	assert.Equal(t, ir.Array{ir.Int(1), ir.Int(2), ir.Int(3)}, evalOK(t, "[1, x, 3]", env))
}

func TestEvaluateDeterminism(t *testing.T) {
	env := ir.Object{"value": ir.Int(17), "data": ir.Object{"limit": ir.Int(20)}}
	src := "value >= 10 and value < data['limit']"

	first := evalOK(t, src, env)
	second := evalOK(t, src, env)
	assert.Equal(t, first, second)
	assert.Equal(t, ir.Bool(true), first)
}

func TestEvaluateNoSideEffects(t *testing.T) {
	env := ir.Object{"value": ir.Int(1)}

	_, err := Evaluate("value.upper()", env)
	require.Error(t, err)
	assert.True(t, IsUnsupported(err))
	assert.Equal(t, ir.Object{"value": ir.Int(1)}, env)
}
