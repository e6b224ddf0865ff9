// Package channel defines the validated inputs of a simulation run: the
// kinetic scheme of an ion channel ([Model]) and the stimulus protocol
// driving it ([Protocol]).
//
// Both types are built through validating constructors that perform all
// referential-integrity checks once. Downstream code (the engine)
// receives only successfully constructed values and does not re-check
// them; passing a hand-assembled struct that violates the invariants is
// a programming error with undefined behavior.
package channel
