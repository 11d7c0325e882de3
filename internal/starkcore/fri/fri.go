// Package fri implements the FRI (Fast Reed-Solomon IOP of Proximity)
// commit and query phases: the low-degree test the STARK prover runs
// against the trace polynomial's evaluation over the blown-up domain, and
// the verifier's corresponding consistency checks.
//
// Leaves committed at every layer are the codeword itself (the polynomial's
// evaluations over that layer's domain), not its coefficients: a verifier
// opening index i at layer r is checking a claim about f_r(domain_r[i]),
// which is what lets the folding-consistency check below recompute an
// expected next-layer value independently of the committed tree.
package fri

import (
	"fmt"

	"github.com/fornax-zk/starkcore/internal/starkcore/core"
	"github.com/fornax-zk/starkcore/internal/starkcore/transcript"
)

// layer is one round of the commit phase, kept prover-side only: the
// codeword and domain at that round plus the Merkle tree committing to it.
type layer struct {
	domain   *core.Domain
	codeword []*core.FieldElement
	tree     *core.MerkleTree
}

// Commitment is the prover's full FRI commit-phase record: every layer's
// Merkle root (to be absorbed and eventually serialized), the folding
// challenges squeezed along the way, and the final layer's coefficients.
type Commitment struct {
	Roots           [][]byte
	Challenges      []*core.FieldElement
	FinalPolynomial *core.Polynomial

	layers []layer
}

// LayerOpening is a query response for a single FRI layer: the codeword
// value at the queried position, its fold partner (the value FRI's folding
// formula pairs it with), and an inclusion proof for each. Carrying both
// values is what lets the verifier recompute the next layer's expected
// value and catch a prover that committed an inconsistent fold.
type LayerOpening struct {
	Value      *core.FieldElement
	ValueProof []core.ProofNode
	Pair       *core.FieldElement
	PairProof  []core.ProofNode
}

// QueryResponse is every layer's opening for one sampled query index.
type QueryResponse struct {
	Index  int
	Layers []LayerOpening
}

// Commit runs the FRI commit phase over an initial codeword (a polynomial's
// evaluations over domain): at every round it Merkle-commits the current
// codeword, absorbs the root, squeezes a folding challenge, and folds down
// to half the domain size, stopping once the codeword is no larger than
// numQueries. The remaining codeword is interpolated into the final
// polynomial; its coefficients are zero-padded to the next power of two,
// but core.NewPolynomial trims trailing zeros again, so FinalPolynomial
// carries no padding.
func Commit(initial []*core.FieldElement, domain *core.Domain, numQueries int, field *core.Field, tr *transcript.Transcript) (*Commitment, error) {
	if len(initial) != domain.Length {
		return nil, fmt.Errorf("fri: codeword length %d does not match domain length %d", len(initial), domain.Length)
	}

	commitment := &Commitment{}
	codeword := initial
	dom := domain

	for {
		tree, err := core.NewMerkleTree(fieldElementsToBytes(codeword))
		if err != nil {
			return nil, fmt.Errorf("fri: failed to commit layer: %w", err)
		}
		commitment.layers = append(commitment.layers, layer{domain: dom, codeword: codeword, tree: tree})
		commitment.Roots = append(commitment.Roots, tree.Root())
		tr.Absorb(fmt.Sprintf("fri_root_%d", len(commitment.Roots)-1), tree.Root())

		alpha := tr.SqueezeScalar(fmt.Sprintf("fri_challenge_%d", len(commitment.Roots)-1), field)
		commitment.Challenges = append(commitment.Challenges, alpha)

		folded, err := fold(codeword, dom, alpha, field)
		if err != nil {
			return nil, err
		}
		nextDom, err := dom.Halve()
		if err != nil {
			return nil, err
		}

		if len(folded) <= numQueries {
			codeword = folded
			dom = nextDom
			break
		}
		codeword = folded
		dom = nextDom
	}

	finalPoly, err := interpolateFinalLayer(codeword, dom, field)
	if err != nil {
		return nil, fmt.Errorf("fri: failed to interpolate final layer: %w", err)
	}
	commitment.FinalPolynomial = finalPoly
	return commitment, nil
}

// Query squeezes numQueries indices from the transcript (which must already
// have absorbed every commit-phase root) and opens every committed layer at
// the corresponding folded position for each one.
func Query(commitment *Commitment, initialDomainSize, numQueries int, tr *transcript.Transcript) []QueryResponse {
	indices := tr.SqueezeIndices("fri_query", numQueries, initialDomainSize)
	responses := make([]QueryResponse, numQueries)

	for q, index := range indices {
		openings := make([]LayerOpening, len(commitment.layers))
		for r, lay := range commitment.layers {
			n := len(lay.codeword)
			half := n / 2
			pos := index % n

			valueProof, err := lay.tree.Prove(pos)
			if err != nil {
				panic("fri: query index out of range for committed layer: " + err.Error())
			}
			var pairIndex int
			if pos < half {
				pairIndex = pos + half
			} else {
				pairIndex = pos - half
			}
			pairProof, err := lay.tree.Prove(pairIndex)
			if err != nil {
				panic("fri: pair index out of range for committed layer: " + err.Error())
			}

			openings[r] = LayerOpening{
				Value:      lay.codeword[pos],
				ValueProof: valueProof,
				Pair:       lay.codeword[pairIndex],
				PairProof:  pairProof,
			}
		}
		responses[q] = QueryResponse{Index: index, Layers: openings}
	}
	return responses
}

// VerifyQueryResponse checks one query response against the committed
// roots: every opened value's Merkle proof must recompute to its layer's
// root, and every consecutive pair of layers must be consistent with the
// folding formula under the corresponding challenge. This is the
// interlayer consistency check; without it, a prover could commit to an
// arbitrary, unrelated codeword at any interior layer and still pass a
// verifier that only checks Merkle inclusion per layer in isolation.
func VerifyQueryResponse(resp QueryResponse, roots [][]byte, challenges []*core.FieldElement, layerDomains []*core.Domain, field *core.Field) error {
	if len(resp.Layers) != len(roots) {
		return fmt.Errorf("fri: query response has %d layers, expected %d", len(resp.Layers), len(roots))
	}

	for r, opening := range resp.Layers {
		n := layerDomains[r].Length
		pos := resp.Index % n
		half := n / 2
		var pairIndex int
		if pos < half {
			pairIndex = pos + half
		} else {
			pairIndex = pos - half
		}

		if !core.VerifyProof(roots[r], opening.Value.Bytes(), opening.ValueProof, pos) {
			return fmt.Errorf("fri: invalid Merkle proof for value at layer %d, index %d", r, pos)
		}
		if !core.VerifyProof(roots[r], opening.Pair.Bytes(), opening.PairProof, pairIndex) {
			return fmt.Errorf("fri: invalid Merkle proof for fold pair at layer %d, index %d", r, pairIndex)
		}

		if r+1 >= len(resp.Layers) {
			continue
		}

		var left, right *core.FieldElement
		var x *core.FieldElement
		if pos < half {
			left, right = opening.Value, opening.Pair
			x = layerDomains[r].Offset.Mul(pow(layerDomains[r].Generator, pos))
		} else {
			left, right = opening.Pair, opening.Value
			x = layerDomains[r].Offset.Mul(pow(layerDomains[r].Generator, pairIndex))
		}

		expected, err := FoldPoint(left, right, x, challenges[r], field)
		if err != nil {
			return fmt.Errorf("fri: failed to recompute fold at layer %d: %w", r, err)
		}

		nextValue := resp.Layers[r+1].Value
		if !expected.Equal(nextValue) {
			return fmt.Errorf("fri: folding consistency check failed at layer %d: expected %s, got %s", r, expected, nextValue)
		}
	}

	return nil
}

func fold(codeword []*core.FieldElement, domain *core.Domain, alpha *core.FieldElement, field *core.Field) ([]*core.FieldElement, error) {
	n := len(codeword)
	if n%2 != 0 {
		return nil, fmt.Errorf("fri: cannot fold a codeword of odd length %d", n)
	}
	half := n / 2
	next := make([]*core.FieldElement, half)
	x := domain.Offset
	for i := 0; i < half; i++ {
		value, err := FoldPoint(codeword[i], codeword[i+half], x, alpha, field)
		if err != nil {
			return nil, err
		}
		next[i] = value
		x = x.Mul(domain.Generator)
	}
	return next, nil
}

// FoldPoint computes f'(x^2) = fe(x^2) + alpha*fo(x^2) given f(x) (left),
// f(-x) (right), the point x, and the folding challenge alpha:
// fe(x^2) = (f(x)+f(-x))/2, fo(x^2) = (f(x)-f(-x))/(2x).
func FoldPoint(left, right, x, alpha *core.FieldElement, field *core.Field) (*core.FieldElement, error) {
	two := field.NewElementFromUint64(2)
	invTwo, err := field.One().Div(two)
	if err != nil {
		return nil, err
	}
	sum := left.Add(right)
	even := sum.Mul(invTwo)

	twoX := x.Mul(two)
	invTwoX, err := field.One().Div(twoX)
	if err != nil {
		return nil, err
	}
	diff := left.Sub(right)
	odd := diff.Mul(invTwoX)

	return even.Add(alpha.Mul(odd)), nil
}

func pow(base *core.FieldElement, exponent int) *core.FieldElement {
	result := base.Field().One()
	b := base
	e := exponent
	for e > 0 {
		if e&1 == 1 {
			result = result.Mul(b)
		}
		b = b.Mul(b)
		e >>= 1
	}
	return result
}

func interpolateFinalLayer(codeword []*core.FieldElement, domain *core.Domain, field *core.Field) (*core.Polynomial, error) {
	points := make([]core.Point, len(codeword))
	elements := domain.Elements()
	for i := range codeword {
		points[i] = core.Point{X: elements[i], Y: codeword[i]}
	}
	poly, err := core.LagrangeInterpolation(points, field)
	if err != nil {
		return nil, err
	}

	coeffs := poly.Coefficients()
	padded := len(coeffs)
	p := 1
	for p < padded {
		p *= 2
	}
	for len(coeffs) < p {
		coeffs = append(coeffs, field.Zero())
	}
	return core.NewPolynomial(coeffs)
}

func fieldElementsToBytes(elements []*core.FieldElement) [][]byte {
	out := make([][]byte, len(elements))
	for i, e := range elements {
		out[i] = e.Bytes()
	}
	return out
}
