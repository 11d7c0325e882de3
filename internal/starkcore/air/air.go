// Package air defines the algebraic intermediate representation (AIR)
// contract the prover and verifier check an execution trace against, and a
// reference AIR implementing the protocol's default claim.
package air

import "github.com/fornax-zk/starkcore/internal/starkcore/core"

// BoundaryConstraint pins one row of the trace to an expected value.
type BoundaryConstraint struct {
	Row      int
	Expected *core.FieldElement
}

// AIR is the pluggable contract a computation's execution trace must
// satisfy: a set of boundary constraints fixing specific rows, and a
// transition relation every consecutive row pair must satisfy. Swapping in
// a different AIR changes what the prover proves without touching any
// other component of the pipeline.
type AIR interface {
	// BoundaryConstraints returns the constraints a trace of the given
	// length must satisfy at specific rows. first and last are the
	// witness-dependent values the caller expects those rows to hold.
	BoundaryConstraints(traceLength int, first, last *core.FieldElement) []BoundaryConstraint

	// Transition returns the value that must be zero for the transition
	// from row i to row i+1 to be valid.
	Transition(rowI, rowNext *core.FieldElement) *core.FieldElement

	// Evaluate reports whether the full trace satisfies every boundary
	// constraint and every transition.
	Evaluate(trace []*core.FieldElement) bool
}

// ReferenceAIR is the protocol's default claim: a single-column counter
// trace, trace[i+1] = trace[i] + 1, with boundary constraints fixing the
// first and last rows. It is deliberately linear so a correctness check
// that runs the raw trace polynomial through FRI (rather than a quotient
// built from a richer AIR) is sufficient; Prove passes the trace
// polynomial's LDE codeword directly to fri.Commit.
type ReferenceAIR struct {
	field *core.Field
}

// NewReferenceAIR builds the reference counter AIR over field.
func NewReferenceAIR(field *core.Field) *ReferenceAIR {
	return &ReferenceAIR{field: field}
}

// BoundaryConstraints fixes row 0 and row traceLength-1 to the values the
// trace was built with; callers supply the expected values since they
// depend on the witness.
func (a *ReferenceAIR) BoundaryConstraints(traceLength int, first, last *core.FieldElement) []BoundaryConstraint {
	return []BoundaryConstraint{
		{Row: 0, Expected: first},
		{Row: traceLength - 1, Expected: last},
	}
}

// Transition returns rowNext - rowI - 1, which is zero exactly when the
// counter advanced by one.
func (a *ReferenceAIR) Transition(rowI, rowNext *core.FieldElement) *core.FieldElement {
	return rowNext.Sub(rowI).Sub(a.field.One())
}

// Evaluate checks every transition in trace and the fixed first/last rows
// against the values trace itself presents at those rows (the caller is
// expected to have already cross-checked those against the witness/claim).
func (a *ReferenceAIR) Evaluate(trace []*core.FieldElement) bool {
	if len(trace) == 0 {
		return false
	}
	for i := 0; i < len(trace)-1; i++ {
		if !a.Transition(trace[i], trace[i+1]).IsZero() {
			return false
		}
	}
	return true
}
