package core

import "testing"

func TestNewDomainRejectsNonPowerOfTwo(t *testing.T) {
	f := testField(t)
	if _, err := NewDomain(f, 100); err == nil {
		t.Fatal("expected an error for a non-power-of-two length")
	}
}

func TestDomainElementsAreDistinctAndInGroup(t *testing.T) {
	f := testField(t)
	domain, err := NewDomain(f, 8)
	if err != nil {
		t.Fatalf("NewDomain: %v", err)
	}
	elements := domain.Elements()
	if len(elements) != 8 {
		t.Fatalf("len(Elements()) = %d, want 8", len(elements))
	}
	seen := make(map[string]bool)
	for _, e := range elements {
		if seen[e.String()] {
			t.Fatalf("duplicate domain element %s", e)
		}
		seen[e.String()] = true
	}
}

func TestDomainHalveShrinksAndSquares(t *testing.T) {
	f := testField(t)
	domain, err := NewDomain(f, 16)
	if err != nil {
		t.Fatalf("NewDomain: %v", err)
	}
	half, err := domain.Halve()
	if err != nil {
		t.Fatalf("Halve: %v", err)
	}
	if half.Length != 8 {
		t.Fatalf("Halve().Length = %d, want 8", half.Length)
	}
	if !half.Generator.Equal(domain.Generator.Square()) {
		t.Fatal("halved generator is not the square of the original")
	}
}

func TestDeriveProverDomainsSizes(t *testing.T) {
	f := testField(t)
	domains, err := DeriveProverDomains(f, 1024, 4)
	if err != nil {
		t.Fatalf("DeriveProverDomains: %v", err)
	}
	if domains.Trace.Length != 1024 {
		t.Fatalf("Trace.Length = %d, want 1024", domains.Trace.Length)
	}
	if domains.LDE.Length != 4096 {
		t.Fatalf("LDE.Length = %d, want 4096", domains.LDE.Length)
	}
	if domains.LDE.Offset.IsOne() {
		t.Fatal("LDE domain should be offset from the trace domain")
	}
}

func TestDomainEvaluateMatchesPolynomialEval(t *testing.T) {
	f := testField(t)
	domain, err := NewDomain(f, 4)
	if err != nil {
		t.Fatalf("NewDomain: %v", err)
	}
	poly, err := NewPolynomialFromInt64(f, []int64{1, 2, 3})
	if err != nil {
		t.Fatalf("NewPolynomialFromInt64: %v", err)
	}
	got := domain.Evaluate(poly)
	elements := domain.Elements()
	for i, x := range elements {
		want := poly.Eval(x)
		if !got[i].Equal(want) {
			t.Fatalf("Evaluate[%d] = %s, want %s", i, got[i], want)
		}
	}
}
