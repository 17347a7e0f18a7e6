package expr

import (
	"math"

	"github.com/roach88/fieldgate/internal/ir"
)

// Evaluate parses an expression and evaluates it against the given
// environment. Expressions are attacker-controlled request input, so
// evaluation is total over the closed grammar: every failure is a
// structured *Error, and no failure has observable side effects.
func Evaluate(expression string, env ir.Object) (ir.Value, error) {
	node, err := Parse(expression)
	if err != nil {
		return nil, err
	}
	return eval(node, env)
}

func eval(node Node, env ir.Object) (ir.Value, error) {
	switch n := node.(type) {
	case *Lit:
		return n.Val, nil

	case *Name:
		v, ok := env[n.Ident]
		if !ok {
			return nil, newError(KindUnknownVariable, n.Pos, "unknown variable %q", n.Ident)
		}
		return v, nil

	case *List:
		out := make(ir.Array, len(n.Elems))
		for i, elem := range n.Elems {
			v, err := eval(elem, env)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil

	case *Unary:
		operand, err := eval(n.Operand, env)
		if err != nil {
			return nil, err
		}
		return evalUnary(n, operand)

	case *Binary:
		left, err := eval(n.Left, env)
		if err != nil {
			return nil, err
		}
		right, err := eval(n.Right, env)
		if err != nil {
			return nil, err
		}
		return evalBinary(n, left, right)

	case *BoolOp:
		left, err := eval(n.Left, env)
		if err != nil {
			return nil, err
		}
		// Short-circuit: the right operand is never evaluated when the
		// left decides the result. The deciding operand itself is
		// returned, so "x or 'fallback'" yields a usable value.
		if n.Op == OpAnd {
			if !ir.Truthy(left) {
				return left, nil
			}
		} else {
			if ir.Truthy(left) {
				return left, nil
			}
		}
		return eval(n.Right, env)

	case *Compare:
		left, err := eval(n.Left, env)
		if err != nil {
			return nil, err
		}
		for i, op := range n.Ops {
			right, err := eval(n.Rights[i], env)
			if err != nil {
				return nil, err
			}
			ok, err := compare(op, left, right, n.Pos)
			if err != nil {
				return nil, err
			}
			if !ok {
				// First failing pair decides; later pairs are not
				// evaluated.
				return ir.Bool(false), nil
			}
			left = right
		}
		return ir.Bool(true), nil

	case *Subscript:
		return evalSubscript(n, env)

	default:
		// Unreachable: the node set is sealed.
		return nil, newError(KindUnsupported, -1, "unsupported syntax node")
	}
}

func evalUnary(n *Unary, operand ir.Value) (ir.Value, error) {
	switch v := operand.(type) {
	case ir.Int:
		if n.Op == OpSub {
			return ir.Int(-v), nil
		}
		return v, nil
	case ir.Float:
		if n.Op == OpSub {
			return ir.Float(-v), nil
		}
		return v, nil
	default:
		return nil, newError(KindTypeMismatch, n.Pos, "unary %q requires a number, got %s", string(n.Op), ir.Kind(operand))
	}
}

func evalBinary(n *Binary, left, right ir.Value) (ir.Value, error) {
	// String and list concatenation under +.
	if n.Op == OpAdd {
		if ls, ok := left.(ir.String); ok {
			if rs, ok := right.(ir.String); ok {
				return ls + rs, nil
			}
		}
		if la, ok := left.(ir.Array); ok {
			if ra, ok := right.(ir.Array); ok {
				out := make(ir.Array, 0, len(la)+len(ra))
				out = append(out, la...)
				return append(out, ra...), nil
			}
		}
	}

	li, lIsInt := left.(ir.Int)
	ri, rIsInt := right.(ir.Int)
	if lIsInt && rIsInt {
		return evalIntOp(n, int64(li), int64(ri))
	}

	lf, lok := asFloat(left)
	rf, rok := asFloat(right)
	if !lok || !rok {
		return nil, newError(KindTypeMismatch, n.Pos, "operator %q not defined for %s and %s",
			string(n.Op), ir.Kind(left), ir.Kind(right))
	}
	return evalFloatOp(n, lf, rf)
}

func evalIntOp(n *Binary, l, r int64) (ir.Value, error) {
	switch n.Op {
	case OpAdd:
		return ir.Int(l + r), nil
	case OpSub:
		return ir.Int(l - r), nil
	case OpMul:
		return ir.Int(l * r), nil
	case OpDiv:
		if r == 0 {
			return nil, newError(KindTypeMismatch, n.Pos, "division by zero")
		}
		// Evenly divisible integers stay integral; otherwise the
		// division is carried out in floating point.
		if l%r == 0 {
			return ir.Int(l / r), nil
		}
		return ir.Float(float64(l) / float64(r)), nil
	case OpMod:
		if r == 0 {
			return nil, newError(KindTypeMismatch, n.Pos, "modulo by zero")
		}
		return ir.Int(l % r), nil
	case OpPow:
		if r < 0 {
			if l == 0 {
				return nil, newError(KindTypeMismatch, n.Pos, "zero cannot be raised to a negative power")
			}
			return ir.Float(math.Pow(float64(l), float64(r))), nil
		}
		if v, ok := intPow(l, r); ok {
			return ir.Int(v), nil
		}
		// Magnitude exceeds int64; continue in float rather than wrap.
		return ir.Float(math.Pow(float64(l), float64(r))), nil
	default:
		return nil, newError(KindUnsupported, n.Pos, "operator %q is not allowed", string(n.Op))
	}
}

func evalFloatOp(n *Binary, l, r float64) (ir.Value, error) {
	switch n.Op {
	case OpAdd:
		return ir.Float(l + r), nil
	case OpSub:
		return ir.Float(l - r), nil
	case OpMul:
		return ir.Float(l * r), nil
	case OpDiv:
		if r == 0 {
			return nil, newError(KindTypeMismatch, n.Pos, "division by zero")
		}
		return ir.Float(l / r), nil
	case OpMod:
		if r == 0 {
			return nil, newError(KindTypeMismatch, n.Pos, "modulo by zero")
		}
		return ir.Float(math.Mod(l, r)), nil
	case OpPow:
		if l == 0 && r < 0 {
			return nil, newError(KindTypeMismatch, n.Pos, "zero cannot be raised to a negative power")
		}
		return ir.Float(math.Pow(l, r)), nil
	default:
		return nil, newError(KindUnsupported, n.Pos, "operator %q is not allowed", string(n.Op))
	}
}

// intPow computes base**exp by squaring, reporting false when the
// result would not fit in int64.
func intPow(base, exp int64) (int64, bool) {
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			var ok bool
			if result, ok = mulInt64(result, base); !ok {
				return 0, false
			}
		}
		exp >>= 1
		if exp == 0 {
			break
		}
		var ok bool
		if base, ok = mulInt64(base, base); !ok {
			return 0, false
		}
	}
	return result, true
}

// mulInt64 multiplies with overflow detection.
func mulInt64(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if b == -1 {
		if a == math.MinInt64 {
			return 0, false
		}
		return -a, true
	}
	c := a * b
	if c/b != a {
		return 0, false
	}
	return c, true
}

func asFloat(v ir.Value) (float64, bool) {
	switch n := v.(type) {
	case ir.Int:
		return float64(n), true
	case ir.Float:
		return float64(n), true
	default:
		return 0, false
	}
}

// compare evaluates one comparison pair. Equality is defined across all
// kinds (mismatched kinds are simply unequal); ordering is defined only
// for number/number and string/string pairs.
func compare(op Op, left, right ir.Value, pos int) (bool, error) {
	if op == OpEq || op == OpNe {
		eq := valuesEqual(left, right)
		if op == OpNe {
			return !eq, nil
		}
		return eq, nil
	}

	if lf, ok := asFloat(left); ok {
		if rf, ok := asFloat(right); ok {
			return orderFloats(op, lf, rf), nil
		}
	}
	if ls, ok := left.(ir.String); ok {
		if rs, ok := right.(ir.String); ok {
			return orderStrings(op, string(ls), string(rs)), nil
		}
	}
	return false, newError(KindTypeMismatch, pos, "cannot order %s and %s", ir.Kind(left), ir.Kind(right))
}

func orderFloats(op Op, l, r float64) bool {
	switch op {
	case OpLt:
		return l < r
	case OpLe:
		return l <= r
	case OpGt:
		return l > r
	default:
		return l >= r
	}
}

func orderStrings(op Op, l, r string) bool {
	switch op {
	case OpLt:
		return l < r
	case OpLe:
		return l <= r
	case OpGt:
		return l > r
	default:
		return l >= r
	}
}

func valuesEqual(left, right ir.Value) bool {
	// Numbers compare numerically across Int/Float.
	if lf, ok := asFloat(left); ok {
		if rf, ok := asFloat(right); ok {
			return lf == rf
		}
		return false
	}

	switch l := left.(type) {
	case ir.Null:
		_, ok := right.(ir.Null)
		return ok
	case ir.String:
		r, ok := right.(ir.String)
		return ok && l == r
	case ir.Bool:
		r, ok := right.(ir.Bool)
		return ok && l == r
	case ir.Array:
		r, ok := right.(ir.Array)
		if !ok || len(l) != len(r) {
			return false
		}
		for i := range l {
			if !valuesEqual(l[i], r[i]) {
				return false
			}
		}
		return true
	case ir.Object:
		r, ok := right.(ir.Object)
		if !ok || len(l) != len(r) {
			return false
		}
		for k, lv := range l {
			rv, ok := r[k]
			if !ok || !valuesEqual(lv, rv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func evalSubscript(n *Subscript, env ir.Object) (ir.Value, error) {
	target, err := eval(n.Target, env)
	if err != nil {
		return nil, err
	}
	key, err := eval(n.Key, env)
	if err != nil {
		return nil, err
	}

	switch t := target.(type) {
	case ir.Object:
		k, ok := key.(ir.String)
		if !ok {
			return nil, newError(KindTypeMismatch, n.Pos, "object keys must be strings, got %s", ir.Kind(key))
		}
		v, ok := t[string(k)]
		if !ok {
			return nil, newError(KindUnknownVariable, n.Pos, "unknown key %q", string(k))
		}
		return v, nil

	case ir.Array:
		idx, ok := key.(ir.Int)
		if !ok {
			return nil, newError(KindTypeMismatch, n.Pos, "list indices must be integers, got %s", ir.Kind(key))
		}
		i := int64(idx)
		if i < 0 {
			i += int64(len(t))
		}
		if i < 0 || i >= int64(len(t)) {
			return nil, newError(KindTypeMismatch, n.Pos, "list index %d out of range", int64(idx))
		}
		return t[i], nil

	default:
		return nil, newError(KindTypeMismatch, n.Pos, "%s is not subscriptable", ir.Kind(target))
	}
}
