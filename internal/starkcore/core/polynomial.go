package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDuplicateInterpolationPoint is returned by LagrangeInterpolation when
// two input points share an x-coordinate.
var ErrDuplicateInterpolationPoint = errors.New("core: duplicate x-coordinate in interpolation input")

// Polynomial is an immutable, coefficient-form univariate polynomial over a
// Field: f(x) = c0 + c1*x + c2*x^2 + ... Coefficients are stored in
// ascending order with trailing zeros trimmed.
type Polynomial struct {
	coefficients []*FieldElement
	field        *Field
}

// NewPolynomial builds a polynomial from its coefficients in ascending
// order, trimming trailing zero coefficients.
func NewPolynomial(coefficients []*FieldElement) (*Polynomial, error) {
	if len(coefficients) == 0 {
		return nil, fmt.Errorf("core: polynomial must have at least one coefficient")
	}

	field := coefficients[0].Field()
	for i, c := range coefficients {
		if !c.Field().Equals(field) {
			return nil, fmt.Errorf("core: coefficient %d is from a different field", i)
		}
	}

	trimmed := []*FieldElement{field.Zero()}
	for i := len(coefficients) - 1; i >= 0; i-- {
		if !coefficients[i].IsZero() {
			trimmed = coefficients[:i+1]
			break
		}
	}

	return &Polynomial{coefficients: trimmed, field: field}, nil
}

// NewPolynomialFromInt64 builds a polynomial from signed int64 coefficients.
func NewPolynomialFromInt64(field *Field, coefficients []int64) (*Polynomial, error) {
	fieldCoeffs := make([]*FieldElement, len(coefficients))
	for i, c := range coefficients {
		fieldCoeffs[i] = field.NewElementFromInt64(c)
	}
	return NewPolynomial(fieldCoeffs)
}

// Degree returns the degree of the polynomial (0 for the zero polynomial).
func (p *Polynomial) Degree() int { return len(p.coefficients) - 1 }

// Field returns the field the polynomial's coefficients belong to.
func (p *Polynomial) Field() *Field { return p.field }

// Coefficient returns the coefficient of x^degree, or zero if degree
// exceeds the polynomial's degree.
func (p *Polynomial) Coefficient(degree int) *FieldElement {
	if degree < 0 || degree >= len(p.coefficients) {
		return p.field.Zero()
	}
	return p.coefficients[degree]
}

// LeadingCoefficient returns the coefficient of the highest-degree term.
func (p *Polynomial) LeadingCoefficient() *FieldElement {
	return p.coefficients[len(p.coefficients)-1]
}

// Coefficients returns a defensive copy of the coefficient vector.
func (p *Polynomial) Coefficients() []*FieldElement {
	out := make([]*FieldElement, len(p.coefficients))
	copy(out, p.coefficients)
	return out
}

// IsZero reports whether the polynomial is the zero polynomial.
func (p *Polynomial) IsZero() bool {
	return len(p.coefficients) == 1 && p.coefficients[0].IsZero()
}

// Point is an (x, y) pair used for interpolation.
type Point struct {
	X *FieldElement
	Y *FieldElement
}

// NewPoint builds a Point from its coordinates.
func NewPoint(x, y *FieldElement) *Point { return &Point{X: x, Y: y} }

// Eval evaluates the polynomial at x using Horner's method.
func (p *Polynomial) Eval(x *FieldElement) *FieldElement {
	if !x.Field().Equals(p.field) {
		panic("core: cannot evaluate polynomial at a point from a different field")
	}
	result := p.field.Zero()
	for i := len(p.coefficients) - 1; i >= 0; i-- {
		result = result.Mul(x).Add(p.coefficients[i])
	}
	return result
}

// EvaluateDomain evaluates the polynomial at every point of xs, preserving
// input order.
func (p *Polynomial) EvaluateDomain(xs []*FieldElement) []*FieldElement {
	out := make([]*FieldElement, len(xs))
	for i, x := range xs {
		out[i] = p.Eval(x)
	}
	return out
}

// Add returns p + other.
func (p *Polynomial) Add(other *Polynomial) (*Polynomial, error) {
	if !p.field.Equals(other.field) {
		return nil, fmt.Errorf("core: cannot add polynomials from different fields")
	}
	maxDegree := p.Degree()
	if other.Degree() > maxDegree {
		maxDegree = other.Degree()
	}
	coeffs := make([]*FieldElement, maxDegree+1)
	for i := range coeffs {
		coeffs[i] = p.Coefficient(i).Add(other.Coefficient(i))
	}
	return NewPolynomial(coeffs)
}

// Sub returns p - other.
func (p *Polynomial) Sub(other *Polynomial) (*Polynomial, error) {
	if !p.field.Equals(other.field) {
		return nil, fmt.Errorf("core: cannot subtract polynomials from different fields")
	}
	maxDegree := p.Degree()
	if other.Degree() > maxDegree {
		maxDegree = other.Degree()
	}
	coeffs := make([]*FieldElement, maxDegree+1)
	for i := range coeffs {
		coeffs[i] = p.Coefficient(i).Sub(other.Coefficient(i))
	}
	return NewPolynomial(coeffs)
}

// Mul returns p * other.
func (p *Polynomial) Mul(other *Polynomial) (*Polynomial, error) {
	if !p.field.Equals(other.field) {
		return nil, fmt.Errorf("core: cannot multiply polynomials from different fields")
	}
	coeffs := make([]*FieldElement, p.Degree()+other.Degree()+1)
	for i := range coeffs {
		coeffs[i] = p.field.Zero()
	}
	for i, a := range p.coefficients {
		for j, b := range other.coefficients {
			coeffs[i+j] = coeffs[i+j].Add(a.Mul(b))
		}
	}
	return NewPolynomial(coeffs)
}

// MulScalar returns p scaled by a single field element.
func (p *Polynomial) MulScalar(scalar *FieldElement) (*Polynomial, error) {
	if !scalar.Field().Equals(p.field) {
		return nil, fmt.Errorf("core: cannot multiply by scalar from a different field")
	}
	coeffs := make([]*FieldElement, len(p.coefficients))
	for i, c := range p.coefficients {
		coeffs[i] = c.Mul(scalar)
	}
	return NewPolynomial(coeffs)
}

// Div performs polynomial long division, returning quotient and remainder
// such that p = quotient*other + remainder.
func (p *Polynomial) Div(other *Polynomial) (quotient *Polynomial, remainder *Polynomial, err error) {
	if !p.field.Equals(other.field) {
		return nil, nil, fmt.Errorf("core: cannot divide polynomials from different fields")
	}
	if other.IsZero() {
		return nil, nil, fmt.Errorf("core: division by the zero polynomial")
	}
	if other.Degree() > p.Degree() {
		zero, zerr := NewPolynomial([]*FieldElement{p.field.Zero()})
		if zerr != nil {
			return nil, nil, zerr
		}
		return zero, p, nil
	}

	quotientCoeffs := make([]*FieldElement, p.Degree()-other.Degree()+1)
	remainderCoeffs := make([]*FieldElement, len(p.coefficients))
	copy(remainderCoeffs, p.coefficients)
	leadingOther := other.LeadingCoefficient()

	for i := len(quotientCoeffs) - 1; i >= 0; i-- {
		if len(remainderCoeffs) <= other.Degree() {
			break
		}
		leadingRem := remainderCoeffs[len(remainderCoeffs)-1]
		q, derr := leadingRem.Div(leadingOther)
		if derr != nil {
			return nil, nil, fmt.Errorf("core: division failed: %w", derr)
		}
		quotientCoeffs[i] = q

		for j := 0; j <= other.Degree(); j++ {
			idx := len(remainderCoeffs) - other.Degree() + j - 1
			if idx >= 0 && idx < len(remainderCoeffs) {
				remainderCoeffs[idx] = remainderCoeffs[idx].Sub(q.Mul(other.Coefficient(j)))
			}
		}
		for len(remainderCoeffs) > 0 && remainderCoeffs[len(remainderCoeffs)-1].IsZero() {
			remainderCoeffs = remainderCoeffs[:len(remainderCoeffs)-1]
		}
	}

	for i, c := range quotientCoeffs {
		if c == nil {
			quotientCoeffs[i] = p.field.Zero()
		}
	}

	quotient, err = NewPolynomial(quotientCoeffs)
	if err != nil {
		return nil, nil, err
	}
	if len(remainderCoeffs) == 0 {
		remainderCoeffs = []*FieldElement{p.field.Zero()}
	}
	remainder, err = NewPolynomial(remainderCoeffs)
	if err != nil {
		return nil, nil, err
	}
	return quotient, remainder, nil
}

// String renders the polynomial as a sum of terms in descending degree.
func (p *Polynomial) String() string {
	if p.Degree() == 0 {
		return p.coefficients[0].String()
	}
	var terms []string
	for i := p.Degree(); i >= 0; i-- {
		coeff := p.Coefficient(i)
		if coeff.IsZero() {
			continue
		}
		switch {
		case i == 0:
			terms = append(terms, coeff.String())
		case i == 1:
			if coeff.IsOne() {
				terms = append(terms, "x")
			} else {
				terms = append(terms, coeff.String()+"x")
			}
		default:
			if coeff.IsOne() {
				terms = append(terms, fmt.Sprintf("x^%d", i))
			} else {
				terms = append(terms, fmt.Sprintf("%sx^%d", coeff.String(), i))
			}
		}
	}
	if len(terms) == 0 {
		return "0"
	}
	return strings.Join(terms, " + ")
}

// Clone returns an independent copy of the polynomial.
func (p *Polynomial) Clone() *Polynomial {
	coeffs := make([]*FieldElement, len(p.coefficients))
	copy(coeffs, p.coefficients)
	clone, err := NewPolynomial(coeffs)
	if err != nil {
		panic("core: failed to clone polynomial: " + err.Error())
	}
	return clone
}

// LagrangeInterpolation returns the unique lowest-degree polynomial passing
// through every point: f(x) = sum_i y_i * L_i(x), where L_i is the i-th
// Lagrange basis polynomial. Points must have distinct x-coordinates.
//
// Built from the master polynomial M(x) = prod_i (x - x_i) rather than by
// rebuilding each basis polynomial from scratch: M is formed once in O(n)
// linear-factor multiplications, and each basis numerator M(x)/(x - x_i) is
// recovered from M by synthetic division in O(n), for O(n^2) field
// operations total instead of O(n^3). This matters because T=1024 by
// default and this runs on every Prove call.
func LagrangeInterpolation(points []Point, field *Field) (*Polynomial, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("core: need at least one point for interpolation")
	}
	for i, pt := range points {
		if !pt.X.Field().Equals(field) || !pt.Y.Field().Equals(field) {
			return nil, fmt.Errorf("core: point %d is from a different field", i)
		}
	}
	for i := range points {
		for j := i + 1; j < len(points); j++ {
			if points[i].X.Equal(points[j].X) {
				return nil, ErrDuplicateInterpolationPoint
			}
		}
	}

	master := masterPolynomialCoefficients(points, field)

	result := make([]*FieldElement, len(points))
	for i := range result {
		result[i] = field.Zero()
	}

	for _, pt := range points {
		quotient := syntheticDivideByLinearFactor(master, pt.X, field)

		// quotient(x_i) = prod_{j!=i} (x_i - x_j), the Lagrange denominator.
		denominator := evalCoefficients(quotient, pt.X, field)
		scale, err := pt.Y.Div(denominator)
		if err != nil {
			return nil, fmt.Errorf("core: failed to scale basis polynomial: %w", err)
		}
		for k, c := range quotient {
			result[k] = result[k].Add(c.Mul(scale))
		}
	}

	return NewPolynomial(result)
}

// masterPolynomialCoefficients returns the ascending-degree coefficients of
// M(x) = prod_i (x - x_i), built by multiplying in one linear factor at a
// time: O(n) per factor, O(n^2) total, rather than a general polynomial
// product per factor.
func masterPolynomialCoefficients(points []Point, field *Field) []*FieldElement {
	coeffs := []*FieldElement{field.One()}
	for _, pt := range points {
		next := make([]*FieldElement, len(coeffs)+1)
		for i := range next {
			next[i] = field.Zero()
		}
		for i, c := range coeffs {
			next[i+1] = next[i+1].Add(c)
			next[i] = next[i].Sub(c.Mul(pt.X))
		}
		coeffs = next
	}
	return coeffs
}

// syntheticDivideByLinearFactor divides the monic polynomial given by
// coeffs (ascending degree) by (x - root), assuming root is one of its
// roots so the division is exact, returning the quotient's coefficients.
func syntheticDivideByLinearFactor(coeffs []*FieldElement, root *FieldElement, field *Field) []*FieldElement {
	n := len(coeffs) - 1
	quotient := make([]*FieldElement, n)
	quotient[n-1] = coeffs[n]
	for i := n - 2; i >= 0; i-- {
		quotient[i] = coeffs[i+1].Add(root.Mul(quotient[i+1]))
	}
	return quotient
}

// evalCoefficients evaluates a raw ascending-degree coefficient slice via
// Horner's method, without constructing a Polynomial.
func evalCoefficients(coeffs []*FieldElement, x *FieldElement, field *Field) *FieldElement {
	result := field.Zero()
	for i := len(coeffs) - 1; i >= 0; i-- {
		result = result.Mul(x).Add(coeffs[i])
	}
	return result
}
