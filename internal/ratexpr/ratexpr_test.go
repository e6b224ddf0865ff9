package ratexpr

import (
	"errors"
	"math"
	"testing"
)

func TestCompile_Evaluation(t *testing.T) {
	tests := []struct {
		name     string
		equation string
		v        float64
		want     float64
	}{
		{"literal", "0.5", 0, 0.5},
		{"voltage", "V", -80, -80},
		{"alpha at rest", "0.1 * exp(V / 25.0)", 0, 0.1},
		{"alpha depolarized", "0.1 * exp(V / 25.0)", 50, 0.1 * math.Exp(2)},
		{"beta", "0.2 * exp(-V / 50.0)", 50, 0.2 * math.Exp(-1)},
		{"precedence", "1 + 2 * 3", 0, 7},
		{"grouping", "(1 + 2) * 3", 0, 9},
		{"division chain", "8 / 2 / 2", 0, 2},
		{"unary minus literal", "-0.5 + 1", 0, 0.5},
		{"double negation", "--2", 0, 2},
		{"nested exp", "exp(exp(V))", 0, math.E},
		{"scientific literal", "1e-3 * V", 2000, 2},
		{"subtraction left assoc", "10 - 3 - 2", 0, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Compile(tt.equation)
			if err != nil {
				t.Fatalf("Compile(%q) failed: %v", tt.equation, err)
			}
			got := f(tt.v)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("f(%g) = %g, want %g", tt.v, got, tt.want)
			}
		})
	}
}

func TestCompile_UndefinedSymbol(t *testing.T) {
	_, err := Compile("0.1 * exp(W / 25.0)")
	if err == nil {
		t.Fatal("expected error for undefined symbol")
	}
	var undef *UndefinedSymbolError
	if !errors.As(err, &undef) {
		t.Fatalf("expected UndefinedSymbolError, got %T: %v", err, err)
	}
	if undef.Symbol != "W" {
		t.Errorf("expected symbol W, got %q", undef.Symbol)
	}
	if undef.Pos != 10 {
		t.Errorf("expected offset 10, got %d", undef.Pos)
	}
}

func TestCompile_ParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		equation string
	}{
		{"empty", ""},
		{"trailing operand", "1 2"},
		{"dangling operator", "V *"},
		{"unclosed paren", "(V + 1"},
		{"unclosed exp", "exp(V"},
		{"exp without call", "exp + 1"},
		{"lone close paren", ")"},
		{"bad character", "V ^ 2"},
		{"bad number", "1.2.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.equation)
			if err == nil {
				t.Fatalf("Compile(%q) should fail", tt.equation)
			}
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected ParseError, got %T: %v", err, err)
			}
			if parseErr.Input != tt.equation {
				t.Errorf("error should carry original input, got %q", parseErr.Input)
			}
		})
	}
}

func TestCompile_PureFunction(t *testing.T) {
	f, err := Compile("V * V - exp(V / 100)")
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	first := f(12.5)
	for i := 0; i < 100; i++ {
		if f(12.5) != first {
			t.Fatal("compiled function is not deterministic")
		}
	}
}
