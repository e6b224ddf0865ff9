package ratexpr

// Expression tree. Tagged variants instead of a generic interpreter:
// the tree is compiled to closures once and then only evaluated.
type node interface{ compile() Func }

type litNode struct{ val float64 }

type varNode struct{}

type negNode struct{ arg node }

type binNode struct {
	op   tokenKind
	l, r node
}

type expNode struct{ arg node }

type parser struct {
	input string
	toks  []token
	i     int
}

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) next() token {
	t := p.toks[p.i]
	p.i++
	return t
}

func (p *parser) errorf(t token, msg string) error {
	return &ParseError{Input: p.input, Pos: t.pos, Msg: msg}
}

// expr := term (('+'|'-') term)*
func (p *parser) expr() (node, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().kind {
		case tokPlus, tokMinus:
			op := p.next().kind
			right, err := p.term()
			if err != nil {
				return nil, err
			}
			left = binNode{op: op, l: left, r: right}
		default:
			return left, nil
		}
	}
}

// term := unary (('*'|'/') unary)*
func (p *parser) term() (node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().kind {
		case tokStar, tokSlash:
			op := p.next().kind
			right, err := p.unary()
			if err != nil {
				return nil, err
			}
			left = binNode{op: op, l: left, r: right}
		default:
			return left, nil
		}
	}
}

// unary := '-' unary | primary
func (p *parser) unary() (node, error) {
	if p.peek().kind == tokMinus {
		p.next()
		arg, err := p.unary()
		if err != nil {
			return nil, err
		}
		return negNode{arg: arg}, nil
	}
	return p.primary()
}

// primary := number | 'V' | 'exp' '(' expr ')' | '(' expr ')'
func (p *parser) primary() (node, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return litNode{val: t.val}, nil
	case tokIdent:
		switch t.text {
		case "V":
			return varNode{}, nil
		case "exp":
			if p.peek().kind != tokLParen {
				return nil, p.errorf(p.peek(), "exp must be called as exp(...)")
			}
			p.next()
			arg, err := p.expr()
			if err != nil {
				return nil, err
			}
			if close := p.next(); close.kind != tokRParen {
				return nil, p.errorf(close, "expected ) to close exp(, got "+close.kind.String())
			}
			return expNode{arg: arg}, nil
		default:
			return nil, &UndefinedSymbolError{Input: p.input, Pos: t.pos, Symbol: t.text}
		}
	case tokLParen:
		inner, err := p.expr()
		if err != nil {
			return nil, err
		}
		if close := p.next(); close.kind != tokRParen {
			return nil, p.errorf(close, "expected ), got "+close.kind.String())
		}
		return inner, nil
	case tokEOF:
		return nil, p.errorf(t, "unexpected end of input")
	default:
		return nil, p.errorf(t, "unexpected "+t.kind.String())
	}
}

func parse(input string) (node, error) {
	toks, err := lex(input)
	if err != nil {
		return nil, err
	}
	p := &parser{input: input, toks: toks}
	root, err := p.expr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, p.errorf(t, "unexpected trailing "+t.kind.String())
	}
	return root, nil
}
