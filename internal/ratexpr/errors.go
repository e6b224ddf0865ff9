package ratexpr

import "fmt"

// ParseError reports malformed equation syntax. Pos is a byte offset
// into Input.
type ParseError struct {
	Input string
	Pos   int
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("ratexpr: parse error at offset %d in %q: %s", e.Pos, e.Input, e.Msg)
}

// UndefinedSymbolError reports an identifier that is neither V nor exp.
type UndefinedSymbolError struct {
	Input  string
	Pos    int
	Symbol string
}

func (e *UndefinedSymbolError) Error() string {
	return fmt.Sprintf("ratexpr: undefined symbol %q at offset %d in %q", e.Symbol, e.Pos, e.Input)
}
