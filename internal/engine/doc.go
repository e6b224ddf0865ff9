// Package engine couples a Markov model of ion channel gating to bulk
// potassium dynamics and integrates the resulting ODE system.
//
// An [Engine] is built once from a validated channel model and stimulus
// protocol; construction compiles every rate equation to a cached
// closure. After that the engine is immutable: a single instance can
// run many simulations, concurrently if desired, because all per-run
// state lives in the run itself.
//
// The integrated state vector is [P_0..P_{n-1}, K_in, K_out]: state
// occupancy probabilities followed by internal and external potassium
// concentration (mM). Time is integrated in seconds; stimulus epochs
// and reported traces use milliseconds.
package engine
