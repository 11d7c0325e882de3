package starkcore

import (
	"bytes"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/fornax-zk/starkcore/internal/starkcore/config"
	"github.com/fornax-zk/starkcore/internal/starkcore/core"
	"github.com/fornax-zk/starkcore/internal/starkcore/fri"
	"github.com/fornax-zk/starkcore/internal/starkcore/transcript"
)

var verifierLog = logrus.WithField("component", "verifier")

// Verify checks a proof against statement and cfg, returning true only if
// every structural check, every FRI query's Merkle and folding consistency,
// the final layer's degree bound, and the statement binding all hold.
//
// Verify never touches a witness: everything it checks is either public
// (statement, cfg) or carried inside proof.
func Verify(proof *Proof, statement Statement, cfg *config.Config) (bool, error) {
	log := verifierLog.WithField("claim", statement.Claim)
	log.Debug("starting proof verification")

	if err := cfg.Validate(); err != nil {
		return false, WrapStarkError(MalformedProof, "invalid configuration", err)
	}
	if err := validateShape(proof, cfg); err != nil {
		return false, err
	}

	field, err := core.NewField(proof.FieldPrime)
	if err != nil {
		return false, WrapStarkError(MalformedProof, "invalid field prime in proof", err)
	}

	domains, err := core.DeriveProverDomains(field, proof.TraceLength, proof.BlowupFactor)
	if err != nil {
		return false, WrapStarkError(InterpolationDomain, "failed to derive domains from proof parameters", err)
	}

	fingerprint := computeStatementFingerprint(statement, cfg)
	if !bytes.Equal(proof.StatementFingerprint, fingerprint) {
		return false, NewStarkError(StatementBindingMismatch, "proof's statement fingerprint does not match the supplied statement")
	}

	tr := transcript.New()
	tr.Absorb("statement", fingerprint)

	roots := append([][]byte{proof.TraceMerkleRoot}, proof.FRIRoots...)
	layerDomains, err := recomputeLayerDomains(domains.LDE, len(roots))
	if err != nil {
		return false, WrapStarkError(InterpolationDomain, "failed to recompute FRI layer domains", err)
	}

	challenges := make([]*core.FieldElement, len(roots))
	for i, root := range roots {
		tr.Absorb(fmt.Sprintf("fri_root_%d", i), root)
		challenges[i] = tr.SqueezeScalar(fmt.Sprintf("fri_challenge_%d", i), field)
	}

	finalPoly, err := core.NewPolynomial(proof.FRIFinalPolynomial)
	if err != nil {
		return false, WrapStarkError(MalformedProof, "invalid FRI final polynomial", err)
	}
	if len(proof.FRIFinalPolynomial) > cfg.NumQueries {
		return false, NewStarkError(DegreeBoundExceeded, fmt.Sprintf("FRI final polynomial has %d coefficients, exceeding the query count %d", len(proof.FRIFinalPolynomial), cfg.NumQueries))
	}
	finalDomain, err := layerDomains[len(layerDomains)-1].Halve()
	if err != nil {
		return false, WrapStarkError(InterpolationDomain, "failed to recompute the final FRI domain", err)
	}
	maxFinalDegree := finalDomain.Length - 1
	if finalPoly.Degree() > maxFinalDegree {
		return false, NewStarkError(DegreeBoundExceeded, fmt.Sprintf("FRI final polynomial has degree %d, exceeding the bound %d", finalPoly.Degree(), maxFinalDegree))
	}

	indices := tr.SqueezeIndices("fri_query", cfg.NumQueries, domains.LDE.Length)
	if len(proof.QueryResponses) != len(indices) {
		return false, NewStarkError(MalformedProof, fmt.Sprintf("proof has %d query responses, expected %d", len(proof.QueryResponses), len(indices)))
	}

	for q, resp := range proof.QueryResponses {
		if resp.Index != indices[q] {
			return false, NewStarkError(MalformedProof, fmt.Sprintf("query response %d has index %d, expected %d derived from the transcript", q, resp.Index, indices[q]))
		}
		if err := fri.VerifyQueryResponse(resp, roots, challenges, layerDomains, field); err != nil {
			return false, WrapStarkError(InvalidMerkleProof, fmt.Sprintf("query %d failed consistency check", q), err)
		}
		lastDomain := layerDomains[len(layerDomains)-1]
		lastChallenge := challenges[len(challenges)-1]
		if err := checkFinalLayerConsistency(resp, finalPoly, finalDomain, lastDomain, lastChallenge, field); err != nil {
			return false, WrapStarkError(InvalidMerkleProof, fmt.Sprintf("query %d is inconsistent with the final polynomial", q), err)
		}
	}

	log.Info("proof verification succeeded")
	return true, nil
}

// validateShape rejects proofs with missing, empty, or inconsistently sized
// fields before any arithmetic is attempted against them.
func validateShape(proof *Proof, cfg *config.Config) error {
	if proof == nil {
		return NewStarkError(MalformedProof, "proof is nil")
	}
	if proof.Version != ProofVersion {
		return NewStarkError(MalformedProof, fmt.Sprintf("unsupported proof version %d", proof.Version))
	}
	if proof.FieldPrime == nil {
		return NewStarkError(MalformedProof, "proof is missing its field prime")
	}
	if len(proof.TraceMerkleRoot) == 0 {
		return NewStarkError(MalformedProof, "proof is missing its trace Merkle root")
	}
	if len(proof.FRIRoots) == 0 {
		return NewStarkError(MalformedProof, "proof has no FRI roots")
	}
	if len(proof.FRIFinalPolynomial) == 0 {
		return NewStarkError(MalformedProof, "proof has an empty FRI final polynomial")
	}
	if proof.TraceLength != cfg.TraceLength {
		return NewStarkError(MalformedProof, fmt.Sprintf("proof trace length %d does not match configuration %d", proof.TraceLength, cfg.TraceLength))
	}
	if proof.BlowupFactor != cfg.BlowupFactor {
		return NewStarkError(MalformedProof, fmt.Sprintf("proof blowup factor %d does not match configuration %d", proof.BlowupFactor, cfg.BlowupFactor))
	}
	if len(proof.QueryResponses) != cfg.NumQueries {
		return NewStarkError(MalformedProof, fmt.Sprintf("proof has %d query responses, configuration requires %d", len(proof.QueryResponses), cfg.NumQueries))
	}
	expectedLayers := len(proof.FRIRoots) + 1
	for i, resp := range proof.QueryResponses {
		if len(resp.Layers) != expectedLayers {
			return NewStarkError(MalformedProof, fmt.Sprintf("query response %d has %d layers, expected %d", i, len(resp.Layers), expectedLayers))
		}
	}
	return nil
}

// recomputeLayerDomains rebuilds the domain every FRI layer was committed
// over, starting from the LDE domain and halving numLayers-1 times.
func recomputeLayerDomains(lde *core.Domain, numLayers int) ([]*core.Domain, error) {
	domains := make([]*core.Domain, numLayers)
	domains[0] = lde
	for i := 1; i < numLayers; i++ {
		next, err := domains[i-1].Halve()
		if err != nil {
			return nil, err
		}
		domains[i] = next
	}
	return domains, nil
}

// checkFinalLayerConsistency folds the last committed layer's opened pair
// under lastChallenge and confirms the result agrees with the final
// polynomial evaluated at the corresponding point in finalDomain. This
// closes the one remaining gap VerifyQueryResponse leaves open: it checks
// consistency between consecutive committed layers, but the last committed
// layer folds into the directly-sent final polynomial rather than into
// another Merkle-committed layer.
func checkFinalLayerConsistency(resp fri.QueryResponse, finalPoly *core.Polynomial, finalDomain, lastDomain *core.Domain, lastChallenge *core.FieldElement, field *core.Field) error {
	lastLayer := resp.Layers[len(resp.Layers)-1]
	n := lastDomain.Length
	half := n / 2
	pos := resp.Index % n

	var left, right, x *core.FieldElement
	if pos < half {
		left, right = lastLayer.Value, lastLayer.Pair
		x = lastDomain.Offset.Mul(powFieldElement(lastDomain.Generator, pos))
	} else {
		left, right = lastLayer.Pair, lastLayer.Value
		x = lastDomain.Offset.Mul(powFieldElement(lastDomain.Generator, pos-half))
	}

	expected, err := fri.FoldPoint(left, right, x, lastChallenge, field)
	if err != nil {
		return fmt.Errorf("fri: failed to recompute the final fold: %w", err)
	}

	finalPos := resp.Index % finalDomain.Length
	elements := finalDomain.Elements()
	actual := finalPoly.Eval(elements[finalPos])
	if !expected.Equal(actual) {
		return fmt.Errorf("fri: final layer at index %d does not match the committed final polynomial", finalPos)
	}
	return nil
}

func powFieldElement(base *core.FieldElement, exponent int) *core.FieldElement {
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
