// Package core implements the finite-field, polynomial, and Merkle-tree
// primitives that the STARK prover and verifier are built on.
package core

import (
	"errors"
	"fmt"
	"math/big"
)

// ErrDivideByZero is returned by Inv and Div when the divisor is the
// additive identity.
var ErrDivideByZero = errors.New("core: cannot invert zero field element")

// ErrUnsupportedRootOrder is returned when a primitive root of unity is
// requested for an order that does not divide the field's multiplicative
// group order (p-1).
var ErrUnsupportedRootOrder = errors.New("core: requested order does not divide p-1")

// Field is a prime field Z/pZ. All arithmetic on elements of a Field is
// performed modulo its prime.
type Field struct {
	modulus *big.Int
}

// FieldElement is a canonical element of a Field: 0 <= value < modulus.
type FieldElement struct {
	field *Field
	value *big.Int
}

// NewField builds a prime field with the given modulus. The modulus is not
// checked for primality; callers are expected to pass a known prime.
func NewField(modulus *big.Int) (*Field, error) {
	if modulus.Cmp(big.NewInt(2)) <= 0 {
		return nil, fmt.Errorf("core: modulus must be greater than 2")
	}
	return &Field{modulus: new(big.Int).Set(modulus)}, nil
}

// NewFieldFromUint64 builds a prime field from a uint64 modulus.
func NewFieldFromUint64(modulus uint64) (*Field, error) {
	return NewField(new(big.Int).SetUint64(modulus))
}

// Modulus returns a copy of the field's prime.
func (f *Field) Modulus() *big.Int {
	return new(big.Int).Set(f.modulus)
}

// Equals reports whether two Field values share the same modulus.
func (f *Field) Equals(other *Field) bool {
	return f.modulus.Cmp(other.modulus) == 0
}

// NewElement reduces value modulo the field's prime and returns the
// resulting canonical element.
func (f *Field) NewElement(value *big.Int) *FieldElement {
	normalized := new(big.Int).Mod(value, f.modulus)
	return &FieldElement{field: f, value: normalized}
}

// NewElementFromInt64 builds a field element from a signed 64-bit integer.
func (f *Field) NewElementFromInt64(value int64) *FieldElement {
	return f.NewElement(big.NewInt(value))
}

// NewElementFromUint64 builds a field element from an unsigned 64-bit integer.
func (f *Field) NewElementFromUint64(value uint64) *FieldElement {
	return f.NewElement(new(big.Int).SetUint64(value))
}

// NewElementFromDecimal parses a base-10 string into a field element.
func (f *Field) NewElementFromDecimal(s string) (*FieldElement, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("core: %q is not a valid decimal integer", s)
	}
	return f.NewElement(v), nil
}

// Zero returns the additive identity of the field.
func (f *Field) Zero() *FieldElement { return f.NewElement(big.NewInt(0)) }

// One returns the multiplicative identity of the field.
func (f *Field) One() *FieldElement { return f.NewElement(big.NewInt(1)) }

// Big returns a copy of the element's canonical value.
func (fe *FieldElement) Big() *big.Int { return new(big.Int).Set(fe.value) }

// Field returns the field this element belongs to.
func (fe *FieldElement) Field() *Field { return fe.field }

// Add returns fe + other mod p.
func (fe *FieldElement) Add(other *FieldElement) *FieldElement {
	if !fe.field.Equals(other.field) {
		panic("core: cannot add elements from different fields")
	}
	return fe.field.NewElement(new(big.Int).Add(fe.value, other.value))
}

// Sub returns fe - other mod p.
func (fe *FieldElement) Sub(other *FieldElement) *FieldElement {
	if !fe.field.Equals(other.field) {
		panic("core: cannot subtract elements from different fields")
	}
	return fe.field.NewElement(new(big.Int).Sub(fe.value, other.value))
}

// Neg returns -fe mod p.
func (fe *FieldElement) Neg() *FieldElement {
	return fe.field.NewElement(new(big.Int).Neg(fe.value))
}

// Mul returns fe * other mod p.
func (fe *FieldElement) Mul(other *FieldElement) *FieldElement {
	if !fe.field.Equals(other.field) {
		panic("core: cannot multiply elements from different fields")
	}
	return fe.field.NewElement(new(big.Int).Mul(fe.value, other.value))
}

// Square returns fe * fe.
func (fe *FieldElement) Square() *FieldElement { return fe.Mul(fe) }

// Inv returns the multiplicative inverse of fe via Fermat's little theorem:
// fe^(p-2) = fe^-1 mod p, since p is prime.
func (fe *FieldElement) Inv() (*FieldElement, error) {
	if fe.IsZero() {
		return nil, ErrDivideByZero
	}
	exponent := new(big.Int).Sub(fe.field.modulus, big.NewInt(2))
	result := new(big.Int).Exp(fe.value, exponent, fe.field.modulus)
	return fe.field.NewElement(result), nil
}

// Div returns fe / other, computed as fe * other.Inv().
func (fe *FieldElement) Div(other *FieldElement) (*FieldElement, error) {
	if !fe.field.Equals(other.field) {
		return nil, fmt.Errorf("core: cannot divide elements from different fields")
	}
	inv, err := other.Inv()
	if err != nil {
		return nil, err
	}
	return fe.Mul(inv), nil
}

// Exp returns fe^exponent mod p via square-and-multiply, for exponent >= 0.
func (fe *FieldElement) Exp(exponent *big.Int) *FieldElement {
	result := new(big.Int).Exp(fe.value, exponent, fe.field.modulus)
	return fe.field.NewElement(result)
}

// Equal reports whether two field elements have the same field and value.
func (fe *FieldElement) Equal(other *FieldElement) bool {
	if !fe.field.Equals(other.field) {
		return false
	}
	return fe.value.Cmp(other.value) == 0
}

// LessThan compares the canonical integer values of two elements. It has no
// field-theoretic meaning; it exists so query indices and challenges can be
// ordered deterministically where needed.
func (fe *FieldElement) LessThan(other *FieldElement) bool {
	return fe.value.Cmp(other.value) < 0
}

// IsZero reports whether fe is the additive identity.
func (fe *FieldElement) IsZero() bool { return fe.value.Sign() == 0 }

// IsOne reports whether fe is the multiplicative identity.
func (fe *FieldElement) IsOne() bool { return fe.value.Cmp(big.NewInt(1)) == 0 }

// String renders the element's canonical value in base 10.
func (fe *FieldElement) String() string { return fe.value.String() }

// Bytes returns the big-endian byte representation of the element's
// canonical value, with no leading-zero padding.
func (fe *FieldElement) Bytes() []byte { return fe.value.Bytes() }

// IsPrimitiveRootOfUnity reports whether g generates a cyclic subgroup of
// order exactly n: g^n = 1 and, for n > 1, g^(n/2) != 1. n must be a power
// of two for the second check to be a sufficient primality witness.
func (f *Field) IsPrimitiveRootOfUnity(g *FieldElement, n uint64) bool {
	nBig := new(big.Int).SetUint64(n)
	if !g.Exp(nBig).IsOne() {
		return false
	}
	if n == 1 {
		return g.IsOne()
	}
	half := new(big.Int).SetUint64(n / 2)
	return !g.Exp(half).IsOne()
}

// PrimitiveRootOfUnity returns a generator of the order-n subgroup of the
// field's multiplicative group. n must divide p-1 and be a power of two.
// The search raises the small integers 2 through 63 in turn to the power
// (p-1)/n and returns the first result of order exactly n.
func (f *Field) PrimitiveRootOfUnity(n uint64) (*FieldElement, error) {
	if n == 0 {
		return nil, fmt.Errorf("%w: order must be positive", ErrUnsupportedRootOrder)
	}
	pMinus1 := new(big.Int).Sub(f.modulus, big.NewInt(1))
	nBig := new(big.Int).SetUint64(n)
	if new(big.Int).Mod(pMinus1, nBig).Sign() != 0 {
		return nil, fmt.Errorf("%w: order %d does not divide p-1", ErrUnsupportedRootOrder, n)
	}
	quotient := new(big.Int).Div(pMinus1, nBig)

	for base := int64(2); base < 64; base++ {
		candidateVal := new(big.Int).Exp(big.NewInt(base), quotient, f.modulus)
		candidate := f.NewElement(candidateVal)
		if f.IsPrimitiveRootOfUnity(candidate, n) {
			return candidate, nil
		}
	}
	return nil, fmt.Errorf("%w: no generator found among small bases for order %d", ErrUnsupportedRootOrder, n)
}

// Prime521 is the 521-bit Mersenne-style prime named in the reference data
// model: P = 2^521 - 1. Its multiplicative group has order 2*(2^520 - 1),
// which admits only the trivial order-2 subgroup of 2-power order — it
// cannot host the order-1024-and-up evaluation domains the STARK pipeline
// needs. NewPrime521Field is kept for callers that only need big-integer
// canonical arithmetic over this modulus; the prover, the verifier and the
// statement fingerprint do not use it, and the default pipeline runs over a
// field with large two-adicity instead (see GoldilocksModulus).
func Prime521() *big.Int {
	p := new(big.Int).Lsh(big.NewInt(1), 521)
	return p.Sub(p, big.NewInt(1))
}

// NewPrime521Field constructs the field over the reference 521-bit prime.
func NewPrime521Field() *Field {
	f, err := NewField(Prime521())
	if err != nil {
		panic("core: Prime521 failed field construction: " + err.Error())
	}
	return f
}

// GoldilocksModulus is 2^64 - 2^32 + 1, a prime whose multiplicative group
// has 2-adicity 32 (i.e. 2^32 divides p-1). This is the field the STARK
// pipeline uses by default so that trace and LDE domains of realistic sizes
// always have the primitive roots of unity FRI folding requires.
var GoldilocksModulus = func() *big.Int {
	p := new(big.Int).Lsh(big.NewInt(1), 64)
	p.Sub(p, new(big.Int).Lsh(big.NewInt(1), 32))
	return p.Add(p, big.NewInt(1))
}()

// DefaultField is the STARK pipeline's reference field: Goldilocks,
// 2^64 - 2^32 + 1. 7 generates its full multiplicative group.
var DefaultField = func() *Field {
	f, err := NewField(GoldilocksModulus)
	if err != nil {
		panic("core: failed to construct default field: " + err.Error())
	}
	return f
}()
