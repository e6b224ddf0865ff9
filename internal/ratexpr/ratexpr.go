package ratexpr

import "math"

// Func evaluates a compiled rate equation at a voltage (mV).
type Func func(v float64) float64

// Compile parses equation and returns a callable closure tree.
// The returned Func is pure and safe for concurrent use.
func Compile(equation string) (Func, error) {
	root, err := parse(equation)
	if err != nil {
		return nil, err
	}
	return root.compile(), nil
}

func (n litNode) compile() Func {
	c := n.val
	return func(float64) float64 { return c }
}

func (varNode) compile() Func {
	return func(v float64) float64 { return v }
}

func (n negNode) compile() Func {
	arg := n.arg.compile()
	return func(v float64) float64 { return -arg(v) }
}

func (n expNode) compile() Func {
	arg := n.arg.compile()
	return func(v float64) float64 { return math.Exp(arg(v)) }
}

func (n binNode) compile() Func {
	l, r := n.l.compile(), n.r.compile()
	switch n.op {
	case tokPlus:
		return func(v float64) float64 { return l(v) + r(v) }
	case tokMinus:
		return func(v float64) float64 { return l(v) - r(v) }
	case tokStar:
		return func(v float64) float64 { return l(v) * r(v) }
	default:
		return func(v float64) float64 { return l(v) / r(v) }
	}
}
