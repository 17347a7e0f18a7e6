package expr

import "github.com/roach88/fieldgate/internal/ir"

// maxParseDepth caps syntax-tree nesting so adversarial expressions
// cannot exhaust the stack during parsing or evaluation.
const maxParseDepth = 64

// Binding powers, loosest to tightest. Comparisons are non-associative
// but chainable; the chain is collected in one pass at bpCompare.
const (
	bpOr      = 10
	bpAnd     = 20
	bpCompare = 30
	bpAdd     = 40
	bpMul     = 50
	bpUnary   = 60
	bpPow     = 70
	bpPostfix = 80
)

type parser struct {
	toks  []token
	i     int
	depth int
}

// Parse parses an expression into its syntax tree. The accepted
// grammar is a closed set; any construct outside it fails with an
// UNSUPPORTED_CONSTRUCT or SYNTAX_ERROR, never a silent fallback.
func Parse(src string) (Node, error) {
	toks, err := scan(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	node, err := p.expr(0)
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.typ != tokEOF {
		if err := rejectToken(t); err != nil {
			return nil, err
		}
		return nil, newError(KindSyntax, t.pos, "unexpected token %q", t.text)
	}
	return node, nil
}

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) advance() token {
	t := p.toks[p.i]
	if t.typ != tokEOF {
		p.i++
	}
	return t
}

// rejectToken returns an UNSUPPORTED_CONSTRUCT error for tokens the
// lexer recognizes but the grammar excludes, or nil for others.
func rejectToken(t token) error {
	switch t.typ {
	case tokAssign:
		return newError(KindUnsupported, t.pos, "assignment is not allowed")
	case tokDot:
		return newError(KindUnsupported, t.pos, "attribute access is not allowed")
	case tokBitwise:
		return newError(KindUnsupported, t.pos, "operator %q is not allowed", t.text)
	case tokKeyword:
		return newError(KindUnsupported, t.pos, "keyword %q is not allowed", t.text)
	case tokPunct:
		return newError(KindUnsupported, t.pos, "%q is not allowed", t.text)
	}
	return nil
}

func lbp(t tokenType) int {
	switch t {
	case tokOr:
		return bpOr
	case tokAnd:
		return bpAnd
	case tokEq, tokNe, tokLt, tokLe, tokGt, tokGe:
		return bpCompare
	case tokPlus, tokMinus:
		return bpAdd
	case tokStar, tokSlash, tokPercent:
		return bpMul
	case tokPow:
		return bpPow
	case tokLSquare, tokLParen, tokDot:
		return bpPostfix
	default:
		return 0
	}
}

func compareOp(t tokenType) (Op, bool) {
	switch t {
	case tokEq:
		return OpEq, true
	case tokNe:
		return OpNe, true
	case tokLt:
		return OpLt, true
	case tokLe:
		return OpLe, true
	case tokGt:
		return OpGt, true
	case tokGe:
		return OpGe, true
	}
	return "", false
}

func binaryOp(t tokenType) Op {
	switch t {
	case tokPlus:
		return OpAdd
	case tokMinus:
		return OpSub
	case tokStar:
		return OpMul
	case tokSlash:
		return OpDiv
	case tokPercent:
		return OpMod
	default:
		return OpPow
	}
}

// expr is the Pratt loop: parse a prefix operand, then fold in infix
// and postfix operators whose binding power is at least minBP.
func (p *parser) expr(minBP int) (Node, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxParseDepth {
		return nil, newError(KindTooLarge, p.peek().pos, "expression nesting exceeds depth %d", maxParseDepth)
	}

	left, err := p.prefix()
	if err != nil {
		return nil, err
	}

	for {
		t := p.peek()
		bp := lbp(t.typ)
		if bp == 0 || bp < minBP {
			if err := rejectToken(t); err != nil {
				return nil, err
			}
			return left, nil
		}

		switch {
		case t.typ == tokLParen:
			// A parenthesis directly after an operand is a call.
			return nil, newError(KindUnsupported, t.pos, "function calls are not allowed")

		case t.typ == tokDot:
			return nil, rejectToken(t)

		case t.typ == tokLSquare:
			p.advance()
			key, err := p.expr(0)
			if err != nil {
				return nil, err
			}
			if closing := p.advance(); closing.typ != tokRSquare {
				return nil, newError(KindSyntax, closing.pos, "expected ']'")
			}
			left = &Subscript{Target: left, Key: key, Pos: t.pos}

		case t.typ == tokAnd || t.typ == tokOr:
			p.advance()
			right, err := p.expr(bp + 1)
			if err != nil {
				return nil, err
			}
			op := OpAnd
			if t.typ == tokOr {
				op = OpOr
			}
			left = &BoolOp{Op: op, Left: left, Right: right, Pos: t.pos}

		case t.typ == tokPow:
			p.advance()
			// Right-associative: 2 ** 3 ** 2 is 2 ** (3 ** 2).
			right, err := p.expr(bpPow)
			if err != nil {
				return nil, err
			}
			left = &Binary{Op: OpPow, Left: left, Right: right, Pos: t.pos}

		default:
			if op, ok := compareOp(t.typ); ok {
				left, err = p.compareChain(left, op, t.pos)
				if err != nil {
					return nil, err
				}
				continue
			}
			p.advance()
			right, err := p.expr(bp + 1)
			if err != nil {
				return nil, err
			}
			left = &Binary{Op: binaryOp(t.typ), Left: left, Right: right, Pos: t.pos}
		}
	}
}

// compareChain collects a run of comparison operators into one Compare
// node so that "a < b < c" evaluates as a conjunction of pairs.
func (p *parser) compareChain(left Node, first Op, pos int) (Node, error) {
	cmp := &Compare{Left: left, Pos: pos}
	op := first

	for {
		p.advance()
		right, err := p.expr(bpCompare + 1)
		if err != nil {
			return nil, err
		}
		cmp.Ops = append(cmp.Ops, op)
		cmp.Rights = append(cmp.Rights, right)

		next, ok := compareOp(p.peek().typ)
		if !ok {
			return cmp, nil
		}
		op = next
	}
}

func (p *parser) prefix() (Node, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxParseDepth {
		return nil, newError(KindTooLarge, p.peek().pos, "expression nesting exceeds depth %d", maxParseDepth)
	}

	t := p.advance()
	switch t.typ {
	case tokNumber, tokString:
		return &Lit{Val: t.lit, Pos: t.pos}, nil
	case tokTrue:
		return &Lit{Val: ir.Bool(true), Pos: t.pos}, nil
	case tokFalse:
		return &Lit{Val: ir.Bool(false), Pos: t.pos}, nil
	case tokNull:
		return &Lit{Val: ir.Null{}, Pos: t.pos}, nil
	case tokIdent:
		return &Name{Ident: t.text, Pos: t.pos}, nil

	case tokPlus, tokMinus:
		operand, err := p.expr(bpUnary)
		if err != nil {
			return nil, err
		}
		op := OpAdd
		if t.typ == tokMinus {
			op = OpSub
		}
		return &Unary{Op: op, Operand: operand, Pos: t.pos}, nil

	case tokLParen:
		inner, err := p.expr(0)
		if err != nil {
			return nil, err
		}
		if closing := p.advance(); closing.typ != tokRParen {
			return nil, newError(KindSyntax, closing.pos, "expected ')'")
		}
		return inner, nil

	case tokLSquare:
		return p.listLiteral(t.pos)

	case tokEOF:
		return nil, newError(KindSyntax, t.pos, "unexpected end of expression")

	default:
		if err := rejectToken(t); err != nil {
			return nil, err
		}
		return nil, newError(KindSyntax, t.pos, "unexpected token %q", t.text)
	}
}

func (p *parser) listLiteral(pos int) (Node, error) {
	list := &List{Pos: pos}
	if p.peek().typ == tokRSquare {
		p.advance()
		return list, nil
	}
	for {
		elem, err := p.expr(0)
		if err != nil {
			return nil, err
		}
		list.Elems = append(list.Elems, elem)

		switch next := p.advance(); next.typ {
		case tokRSquare:
			return list, nil
		case tokComma:
			// Trailing comma before the closing bracket is accepted.
			if p.peek().typ == tokRSquare {
				p.advance()
				return list, nil
			}
		default:
			return nil, newError(KindSyntax, next.pos, "expected ',' or ']'")
		}
	}
}
