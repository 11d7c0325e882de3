// Package codes implements a Reed-Solomon code over an evaluation domain:
// a degree-bound membership check and relative Hamming distance. The STARK
// verifier does not use it; it checks the FRI final layer's degree bound
// directly.
package codes

import (
	"fmt"

	"github.com/fornax-zk/starkcore/internal/starkcore/core"
)

// ReedSolomonCode is RS[F, D, rho]: the code of degree-<rho*|D| functions
// D -> F, represented by their evaluation vectors over D.
type ReedSolomonCode struct {
	field  *core.Field
	domain []*core.FieldElement
	rate   *core.FieldElement
	maxDeg int // rho*|D| - 1
}

// NewReedSolomonCode builds the code for the given domain and rate.
func NewReedSolomonCode(field *core.Field, domain []*core.FieldElement, rate *core.FieldElement) (*ReedSolomonCode, error) {
	if len(domain) == 0 {
		return nil, fmt.Errorf("codes: domain cannot be empty")
	}
	domainSize := field.NewElementFromInt64(int64(len(domain)))
	maxDeg := int(rate.Mul(domainSize).Big().Int64()) - 1
	if maxDeg < 0 {
		return nil, fmt.Errorf("codes: invalid rate, maximum degree would be negative")
	}
	return &ReedSolomonCode{field: field, domain: domain, rate: rate, maxDeg: maxDeg}, nil
}

// MaxDegree returns rho*|D| - 1, the largest degree a codeword may have.
func (rs *ReedSolomonCode) MaxDegree() int { return rs.maxDeg }

// IsInCode reports whether evaluations, read as a function D -> F,
// interpolates to a polynomial of degree at most rho*|D| - 1.
func (rs *ReedSolomonCode) IsInCode(evaluations []*core.FieldElement) (bool, error) {
	poly, err := rs.interpolate(evaluations)
	if err != nil {
		return false, err
	}
	return poly.Degree() <= rs.maxDeg, nil
}

func (rs *ReedSolomonCode) interpolate(evaluations []*core.FieldElement) (*core.Polynomial, error) {
	if len(evaluations) != len(rs.domain) {
		return nil, fmt.Errorf("codes: evaluation length mismatch: expected %d, got %d", len(rs.domain), len(evaluations))
	}
	points := make([]core.Point, len(rs.domain))
	for i := range rs.domain {
		points[i] = core.Point{X: rs.domain[i], Y: evaluations[i]}
	}
	return core.LagrangeInterpolation(points, rs.field)
}

// GetMinimumDistance returns the code's minimum relative Hamming distance,
// delta_V = 1 - rho.
func (rs *ReedSolomonCode) GetMinimumDistance() *core.FieldElement {
	return rs.field.One().Sub(rs.rate)
}

// ComputeHammingDistance returns the relative Hamming distance between two
// functions sampled over the code's domain: the fraction of domain points
// where they disagree.
func (rs *ReedSolomonCode) ComputeHammingDistance(u, v []*core.FieldElement) (*core.FieldElement, error) {
	if len(u) != len(v) || len(u) != len(rs.domain) {
		return nil, fmt.Errorf("codes: function length mismatch")
	}
	differences := 0
	for i := range u {
		if !u[i].Equal(v[i]) {
			differences++
		}
	}
	distance := rs.field.NewElementFromInt64(int64(differences))
	domainSize := rs.field.NewElementFromInt64(int64(len(rs.domain)))
	return distance.Div(domainSize)
}
