package core

import "fmt"

// Domain is a coset of a multiplicative subgroup of a Field:
// {offset * generator^i : i = 0..length-1}. Trace domains and low-degree
// extension (LDE) domains are both represented this way; an LDE domain is
// typically built with a nontrivial offset so it shares no elements with
// the trace domain it extends.
type Domain struct {
	field     *Field
	Offset    *FieldElement
	Generator *FieldElement
	Length    int
}

// NewDomain builds a domain of the given power-of-two length, rooted at the
// field's canonical primitive root of that order, with no coset offset.
func NewDomain(field *Field, length int) (*Domain, error) {
	if !isPowerOfTwo(length) {
		return nil, fmt.Errorf("core: domain length must be a power of two, got %d", length)
	}
	generator, err := field.PrimitiveRootOfUnity(uint64(length))
	if err != nil {
		return nil, fmt.Errorf("core: cannot build domain of length %d: %w", length, err)
	}
	return &Domain{
		field:     field,
		Offset:    field.One(),
		Generator: generator,
		Length:    length,
	}, nil
}

// WithOffset returns a copy of the domain shifted by offset: a coset of the
// same subgroup.
func (d *Domain) WithOffset(offset *FieldElement) *Domain {
	return &Domain{
		field:     d.field,
		Offset:    offset,
		Generator: d.Generator,
		Length:    d.Length,
	}
}

// Field returns the field the domain's elements belong to.
func (d *Domain) Field() *Field { return d.field }

// Halve returns a domain covering half as many elements, obtained by
// squaring the generator and offset. This is the domain contraction FRI
// folding performs at every round.
func (d *Domain) Halve() (*Domain, error) {
	if d.Length < 2 {
		return nil, fmt.Errorf("core: cannot halve a domain of length %d", d.Length)
	}
	return &Domain{
		field:     d.field,
		Offset:    d.Offset.Square(),
		Generator: d.Generator.Square(),
		Length:    d.Length / 2,
	}, nil
}

// Elements returns every point of the domain in order:
// offset, offset*g, offset*g^2, ..., offset*g^(length-1).
func (d *Domain) Elements() []*FieldElement {
	elements := make([]*FieldElement, d.Length)
	current := d.Offset
	for i := 0; i < d.Length; i++ {
		elements[i] = current
		current = current.Mul(d.Generator)
	}
	return elements
}

// Evaluate evaluates a polynomial at every point of the domain.
func (d *Domain) Evaluate(poly *Polynomial) []*FieldElement {
	return poly.EvaluateDomain(d.Elements())
}

// String renders a human-readable summary of the domain's parameters.
func (d *Domain) String() string {
	return fmt.Sprintf("Domain{length: %d, offset: %s, generator: %s}", d.Length, d.Offset, d.Generator)
}

func isPowerOfTwo(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}

// ProverDomains bundles the two domains the reference STARK pipeline needs:
// the trace domain (size T, where T is the execution trace length) and the
// low-degree extension domain (size T times the blowup factor), offset by a
// coset shift so LDE evaluation points never collide with trace points.
type ProverDomains struct {
	Trace *Domain
	LDE   *Domain
}

// DeriveProverDomains builds the trace and LDE domains for a trace of the
// given length and blowup factor. The LDE domain is shifted by the field's
// canonical multiplicative generator candidate so it forms a proper coset
// disjoint from the trace domain.
func DeriveProverDomains(field *Field, traceLength, blowupFactor int) (*ProverDomains, error) {
	if !isPowerOfTwo(traceLength) {
		return nil, fmt.Errorf("core: trace length must be a power of two, got %d", traceLength)
	}
	if blowupFactor < 1 || !isPowerOfTwo(blowupFactor) {
		return nil, fmt.Errorf("core: blowup factor must be a power of two, got %d", blowupFactor)
	}

	trace, err := NewDomain(field, traceLength)
	if err != nil {
		return nil, fmt.Errorf("core: failed to build trace domain: %w", err)
	}

	ldeLength := traceLength * blowupFactor
	lde, err := NewDomain(field, ldeLength)
	if err != nil {
		return nil, fmt.Errorf("core: failed to build LDE domain: %w", err)
	}
	lde = lde.WithOffset(field.NewElementFromUint64(7))

	return &ProverDomains{Trace: trace, LDE: lde}, nil
}
