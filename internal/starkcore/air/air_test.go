package air

import (
	"testing"

	"github.com/fornax-zk/starkcore/internal/starkcore/core"
)

func testField(t *testing.T) *core.Field {
	t.Helper()
	f, err := core.NewField(core.GoldilocksModulus)
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}
	return f
}

func buildCounterTrace(f *core.Field, secret uint64, length int) []*core.FieldElement {
	trace := make([]*core.FieldElement, length)
	trace[0] = f.NewElementFromUint64(secret)
	for i := 1; i < length; i++ {
		trace[i] = trace[i-1].Add(f.One())
	}
	return trace
}

func TestReferenceAIRAcceptsValidTrace(t *testing.T) {
	f := testField(t)
	trace := buildCounterTrace(f, 42, 16)
	a := NewReferenceAIR(f)
	if !a.Evaluate(trace) {
		t.Fatal("Evaluate rejected a trace built to satisfy the AIR")
	}
}

func TestReferenceAIRRejectsBrokenTransition(t *testing.T) {
	f := testField(t)
	trace := buildCounterTrace(f, 42, 16)
	trace[8] = trace[8].Add(f.One()) // break row 8's transition both in and out
	a := NewReferenceAIR(f)
	if a.Evaluate(trace) {
		t.Fatal("Evaluate accepted a trace with a broken transition")
	}
}

func TestReferenceAIRBoundaryConstraints(t *testing.T) {
	f := testField(t)
	trace := buildCounterTrace(f, 42, 16)
	a := NewReferenceAIR(f)
	boundary := a.BoundaryConstraints(len(trace), trace[0], trace[len(trace)-1])
	if len(boundary) != 2 {
		t.Fatalf("len(BoundaryConstraints) = %d, want 2", len(boundary))
	}
	if boundary[0].Row != 0 || !boundary[0].Expected.Equal(trace[0]) {
		t.Fatal("first boundary constraint does not pin row 0 to trace[0]")
	}
	if boundary[1].Row != len(trace)-1 || !boundary[1].Expected.Equal(trace[len(trace)-1]) {
		t.Fatal("second boundary constraint does not pin the last row")
	}
}

func TestReferenceAIRTransitionZeroIffValid(t *testing.T) {
	f := testField(t)
	a := NewReferenceAIR(f)
	row := f.NewElementFromUint64(10)
	next := f.NewElementFromUint64(11)
	if !a.Transition(row, next).IsZero() {
		t.Fatal("Transition(10, 11) should be zero")
	}
	other := f.NewElementFromUint64(12)
	if a.Transition(row, other).IsZero() {
		t.Fatal("Transition(10, 12) should be nonzero")
	}
}

func TestReferenceAIREmptyTraceRejected(t *testing.T) {
	f := testField(t)
	a := NewReferenceAIR(f)
	if a.Evaluate(nil) {
		t.Fatal("Evaluate accepted an empty trace")
	}
}

var _ AIR = (*ReferenceAIR)(nil)
