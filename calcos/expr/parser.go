package expr

import "math"

// unaryFuncs is the fixed symbol table of named functions.
var unaryFuncs = map[string]UnaryOp{
	"sin":   OpSin,
	"cos":   OpCos,
	"tan":   OpTan,
	"asin":  OpAsin,
	"acos":  OpAcos,
	"atan":  OpAtan,
	"sqrt":  OpSqrt,
	"abs":   OpAbs,
	"ln":    OpLn,
	"log":   OpLog,
	"exp":   OpExp,
	"floor": OpFloor,
	"ceil":  OpCeil,
}

// Compile parses src into a mode-tagged tree.
//
// The independent variable decides the mode: "x" means a Cartesian function,
// "t" or "theta" means a polar one. Mixing both in one expression is an
// error. Adjacent value terms multiply implicitly ("2x", "3(x+1)").
func Compile(src string) (Func, error) {
	p := &parser{lex: lexer{src: src}}
	if err := p.advance(); err != nil {
		return Func{}, err
	}
	if p.cur.typ == tokEOF {
		return Func{}, compileErrf(0, "empty expression")
	}
	root, err := p.parseSum()
	if err != nil {
		return Func{}, err
	}
	if p.cur.typ != tokEOF {
		return Func{}, compileErrf(p.cur.pos, "unexpected %q", p.cur.text)
	}
	if p.sawX && p.sawTheta {
		return Func{}, compileErrf(0, "cannot mix x and theta in one expression")
	}
	mode := ModeNormal
	if p.sawTheta {
		mode = ModePolar
	}
	return Func{Mode: mode, Root: root}, nil
}

type parser struct {
	lex lexer
	cur token

	sawX     bool
	sawTheta bool
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func (p *parser) parseSum() (*Node, error) {
	left, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	for p.cur.typ == tokPlus || p.cur.typ == tokMinus {
		op := OpAdd
		if p.cur.typ == tokMinus {
			op = OpSub
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		left = &Node{Kind: NodeBinary, Binary: op, X: left, Y: right}
	}
	return left, nil
}

func (p *parser) parseProduct() (*Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur.typ {
		case tokStar, tokSlash:
			op := OpMul
			if p.cur.typ == tokSlash {
				op = OpDiv
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = &Node{Kind: NodeBinary, Binary: op, X: left, Y: right}

		case tokNumber, tokIdent, tokLParen:
			// Adjacent value terms multiply implicitly.
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = &Node{Kind: NodeBinary, Binary: OpMul, X: left, Y: right}

		default:
			return left, nil
		}
	}
}

func (p *parser) parseUnary() (*Node, error) {
	if p.cur.typ == tokMinus {
		pos := p.cur.pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.typ == tokEOF {
			return nil, compileErrf(pos, "dangling operator")
		}
		child, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Node{Kind: NodeUnary, Unary: OpNeg, X: child}, nil
	}
	return p.parsePower()
}

func (p *parser) parsePower() (*Node, error) {
	base, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if p.cur.typ == tokCaret {
		if err := p.advance(); err != nil {
			return nil, err
		}
		// Right-associative: x^2^3 is x^(2^3).
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Node{Kind: NodeBinary, Binary: OpPow, X: base, Y: exp}, nil
	}
	return base, nil
}

func (p *parser) parseAtom() (*Node, error) {
	tok := p.cur
	switch tok.typ {
	case tokNumber:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Node{Kind: NodeConst, Value: tok.value}, nil

	case tokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		if p.cur.typ != tokRParen {
			return nil, compileErrf(p.cur.pos, "missing closing parenthesis")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return inner, nil

	case tokIdent:
		if op, ok := unaryFuncs[tok.text]; ok {
			if err := p.advance(); err != nil {
				return nil, err
			}
			// The argument binds at atom precedence so a trailing ^
			// exponentiates the call result: sin(x)^2 is (sin(x))^2.
			arg, err := p.parseAtom()
			if err != nil {
				return nil, err
			}
			return &Node{Kind: NodeUnary, Unary: op, X: arg}, nil
		}
		switch tok.text {
		case "x":
			p.sawX = true
		case "t", "theta", "θ":
			p.sawTheta = true
		case "pi":
			if err := p.advance(); err != nil {
				return nil, err
			}
			return &Node{Kind: NodeConst, Value: math.Pi}, nil
		case "e":
			if err := p.advance(); err != nil {
				return nil, err
			}
			return &Node{Kind: NodeConst, Value: math.E}, nil
		default:
			return nil, compileErrf(tok.pos, "unknown identifier %q", tok.text)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Node{Kind: NodeVar}, nil

	case tokEOF:
		return nil, compileErrf(tok.pos, "unexpected end of expression")

	default:
		return nil, compileErrf(tok.pos, "unexpected %q", tok.text)
	}
}
