// Package ratexpr compiles voltage-dependent rate equations into
// callable functions.
//
// An equation is an arithmetic expression over the single free variable
// V (membrane voltage, mV) using + - * /, parentheses, floating point
// literals and the unary function exp:
//
//	0.1 * exp(V / 25.0)
//
// [Compile] parses the string once and returns a closure tree, so the
// per-evaluation cost is a handful of function calls. Callers that
// reference the same equation from many transitions should compile once
// and share the resulting [Func].
package ratexpr
