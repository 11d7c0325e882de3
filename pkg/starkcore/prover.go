package starkcore

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/sha3"

	"github.com/fornax-zk/starkcore/internal/starkcore/air"
	"github.com/fornax-zk/starkcore/internal/starkcore/config"
	"github.com/fornax-zk/starkcore/internal/starkcore/core"
	"github.com/fornax-zk/starkcore/internal/starkcore/fri"
	"github.com/fornax-zk/starkcore/internal/starkcore/transcript"
)

var proverLog = logrus.WithField("component", "prover")

// Prove builds a non-interactive proof that witness satisfies the
// reference counter AIR bound to statement: trace[0] = secret,
// trace[i+1] = trace[i] + 1, and PublicOutput = trace[TraceLength-1].
// The proof does not carry witness.Secret itself, but under this AIR the
// secret equals PublicOutput - (TraceLength - 1).
//
// The pipeline: build and check the trace against the AIR, interpolate it
// into a polynomial, commit to its low-degree extension, run the FRI
// commit and query phases over that commitment, and package the result.
func Prove(statement Statement, witness Witness, cfg *config.Config) (*Proof, error) {
	log := proverLog.WithField("claim", statement.Claim)
	log.Debug("starting proof generation")

	if err := cfg.Validate(); err != nil {
		return nil, WrapStarkError(MalformedProof, "invalid configuration", err)
	}
	if witness.Secret == nil {
		return nil, NewStarkError(MalformedProof, "witness secret must not be nil")
	}

	field, err := cfg.Field()
	if err != nil {
		return nil, WrapStarkError(FieldArithmetic, "failed to construct field", err)
	}

	trace, err := buildTrace(field, witness.Secret, cfg.TraceLength)
	if err != nil {
		return nil, err
	}
	log.WithField("trace_length", len(trace)).Debug("built execution trace")

	referenceAIR := air.NewReferenceAIR(field)
	if !referenceAIR.Evaluate(trace) {
		return nil, NewStarkError(AirUnsatisfied, "trace does not satisfy the reference AIR's transition constraint")
	}
	boundary := referenceAIR.BoundaryConstraints(len(trace), trace[0], trace[len(trace)-1])
	for _, b := range boundary {
		if !trace[b.Row].Equal(b.Expected) {
			return nil, NewStarkError(AirUnsatisfied, fmt.Sprintf("boundary constraint failed at row %d", b.Row))
		}
	}

	domains, err := core.DeriveProverDomains(field, cfg.TraceLength, cfg.BlowupFactor)
	if err != nil {
		return nil, WrapStarkError(FieldArithmetic, "failed to derive prover domains", err)
	}

	tracePoints := make([]core.Point, cfg.TraceLength)
	traceElements := domains.Trace.Elements()
	for i := range trace {
		tracePoints[i] = core.Point{X: traceElements[i], Y: trace[i]}
	}
	tracePoly, err := core.LagrangeInterpolation(tracePoints, field)
	if err != nil {
		return nil, WrapStarkError(InterpolationDomain, "failed to interpolate trace polynomial", err)
	}

	codeword := domains.LDE.Evaluate(tracePoly)
	log.WithField("lde_size", len(codeword)).Debug("evaluated trace polynomial over the LDE domain")

	tr := transcript.New()
	fingerprint := computeStatementFingerprint(statement, cfg)
	tr.Absorb("statement", fingerprint)

	commitment, err := fri.Commit(codeword, domains.LDE, cfg.NumQueries, field, tr)
	if err != nil {
		return nil, WrapStarkError(FieldArithmetic, "FRI commit phase failed", err)
	}
	log.WithField("fri_layers", len(commitment.Roots)).Debug("completed FRI commit phase")

	queryResponses := fri.Query(commitment, domains.LDE.Length, cfg.NumQueries, tr)
	log.WithField("num_queries", len(queryResponses)).Debug("completed FRI query phase")

	proof := &Proof{
		Version:              ProofVersion,
		TraceLength:          cfg.TraceLength,
		BlowupFactor:         cfg.BlowupFactor,
		SecurityLevel:        cfg.SecurityLevel,
		TraceMerkleRoot:      commitment.Roots[0],
		FRIRoots:             commitment.Roots[1:],
		FRIFinalPolynomial:   commitment.FinalPolynomial.Coefficients(),
		QueryResponses:       queryResponses,
		PublicOutput:         trace[len(trace)-1],
		StatementFingerprint: fingerprint,
		FieldPrime:           field.Modulus(),
	}

	log.Info("proof generation complete")
	return proof, nil
}

// buildTrace constructs the reference counter trace: trace[0] = secret mod
// p, trace[i+1] = trace[i] + 1.
func buildTrace(field *core.Field, secret *big.Int, length int) ([]*core.FieldElement, error) {
	if length <= 0 {
		return nil, NewStarkError(MalformedProof, "trace length must be positive")
	}
	trace := make([]*core.FieldElement, length)
	trace[0] = field.NewElement(secret)
	for i := 1; i < length; i++ {
		trace[i] = trace[i-1].Add(field.One())
	}
	return trace, nil
}

// computeStatementFingerprint binds a proof to exactly one statement: a
// sha3-256 digest of the length-prefixed claim name, the threshold as a
// fixed-width 8-byte value, the field modulus, and the proof version. The
// verifier recomputes this and rejects with StatementBindingMismatch on
// any divergence.
func computeStatementFingerprint(statement Statement, cfg *config.Config) []byte {
	h := sha3.New256()
	var claimLen [8]byte
	binary.BigEndian.PutUint64(claimLen[:], uint64(len(statement.Claim)))
	h.Write(claimLen[:])
	h.Write([]byte(statement.Claim))
	var thresholdBytes [8]byte
	binary.BigEndian.PutUint64(thresholdBytes[:], uint64(statement.Threshold))
	h.Write(thresholdBytes[:])
	h.Write(cfg.FieldModulus.Bytes())
	var versionByte [1]byte
	versionByte[0] = byte(ProofVersion)
	h.Write(versionByte[:])
	return h.Sum(nil)
}
