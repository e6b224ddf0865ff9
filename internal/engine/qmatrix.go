package engine

// buildGenerator assembles the Markov generator matrix Q at voltage v
// into a freshly allocated flat row-major n*n buffer (q[row*n+col],
// row = destination state, col = source state).
//
// For each transition the rate flows into Q[to][from] and out of the
// diagonal Q[from][from], so every column sums to zero. That is the
// property making dP/dt = Q*P conserve total probability. The matrix is
// rebuilt on every call because voltage, and with it every rate,
// changes continuously.
func (e *Engine) buildGenerator(v float64) []float64 {
	n := len(e.cond)
	q := make([]float64, n*n)
	for _, tr := range e.transitions {
		rate := tr.rate(v) * tr.multiplier
		q[tr.to*n+tr.from] += rate
		q[tr.from*n+tr.from] -= rate
	}
	return q
}
