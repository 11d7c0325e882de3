package starkcore

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/fornax-zk/starkcore/internal/starkcore/core"
	"github.com/fornax-zk/starkcore/internal/starkcore/fri"
)

// ProofVersion identifies the wire format this package produces and
// accepts. It changes whenever the proof's field layout changes.
const ProofVersion = 1

// Proof is the complete non-interactive argument a prover hands a
// verifier: a trace commitment, the FRI commit-phase transcript (roots and
// final layer), and the query openings that let a verifier spot-check
// consistency without ever seeing the trace.
type Proof struct {
	Version              int
	TraceLength          int
	BlowupFactor         int
	SecurityLevel        int
	TraceMerkleRoot      []byte
	FRIRoots             [][]byte
	FRIFinalPolynomial   []*core.FieldElement
	QueryResponses       []fri.QueryResponse
	PublicOutput         *core.FieldElement
	StatementFingerprint []byte
	FieldPrime           *big.Int
}

type proofJSON struct {
	Version              int                 `json:"version"`
	TraceLength          int                 `json:"trace_length"`
	BlowupFactor         int                 `json:"blowup_factor"`
	SecurityLevel        int                 `json:"security_level"`
	TraceMerkleRoot      string              `json:"trace_merkle_root"`
	FRIRoots             []string            `json:"fri_roots"`
	FRIFinalPolynomial   []string            `json:"fri_final_polynomial"`
	QueryResponses       []queryResponseJSON `json:"query_responses"`
	PublicOutput         string              `json:"public_output"`
	StatementFingerprint string              `json:"statement_fingerprint"`
	FieldPrime           string              `json:"field_prime"`
}

type queryResponseJSON struct {
	Index  int               `json:"index"`
	Layers []layerOpeningJSON `json:"layers"`
}

type layerOpeningJSON struct {
	Value      string          `json:"value"`
	MerkleProof []proofNodeJSON `json:"merkle_proof"`
	Pair        string          `json:"pair"`
	PairProof   []proofNodeJSON `json:"pair_merkle_proof"`
}

type proofNodeJSON struct {
	SiblingHex string `json:"sibling_hex"`
	IsLeft     bool   `json:"is_left"`
}

// MarshalJSON renders the proof with every field element as a decimal
// string and every digest as lowercase hex, so values exceeding 64 bits
// (the 521-bit reference field in particular) round-trip exactly.
func (p *Proof) MarshalJSON() ([]byte, error) {
	finalPoly := make([]string, len(p.FRIFinalPolynomial))
	for i, c := range p.FRIFinalPolynomial {
		finalPoly[i] = c.String()
	}

	friRoots := make([]string, len(p.FRIRoots))
	for i, r := range p.FRIRoots {
		friRoots[i] = hex.EncodeToString(r)
	}

	responses := make([]queryResponseJSON, len(p.QueryResponses))
	for i, resp := range p.QueryResponses {
		layers := make([]layerOpeningJSON, len(resp.Layers))
		for j, l := range resp.Layers {
			layers[j] = layerOpeningJSON{
				Value:       l.Value.String(),
				MerkleProof: encodeProofNodes(l.ValueProof),
				Pair:        l.Pair.String(),
				PairProof:   encodeProofNodes(l.PairProof),
			}
		}
		responses[i] = queryResponseJSON{Index: resp.Index, Layers: layers}
	}

	aux := proofJSON{
		Version:              p.Version,
		TraceLength:          p.TraceLength,
		BlowupFactor:         p.BlowupFactor,
		SecurityLevel:        p.SecurityLevel,
		TraceMerkleRoot:      hex.EncodeToString(p.TraceMerkleRoot),
		FRIRoots:             friRoots,
		FRIFinalPolynomial:   finalPoly,
		QueryResponses:       responses,
		PublicOutput:         p.PublicOutput.String(),
		StatementFingerprint: hex.EncodeToString(p.StatementFingerprint),
		FieldPrime:           p.FieldPrime.String(),
	}
	return json.Marshal(aux)
}

// UnmarshalJSON parses a proof previously produced by MarshalJSON. The
// field the proof's elements belong to is reconstructed from field_prime
// before any value is decoded.
func (p *Proof) UnmarshalJSON(data []byte) error {
	var aux proofJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	modulus, ok := new(big.Int).SetString(aux.FieldPrime, 10)
	if !ok {
		return NewStarkError(MalformedProof, fmt.Sprintf("field_prime %q is not a valid decimal integer", aux.FieldPrime))
	}
	field, err := core.NewField(modulus)
	if err != nil {
		return WrapStarkError(MalformedProof, "invalid field_prime", err)
	}

	traceMerkleRoot, err := hex.DecodeString(aux.TraceMerkleRoot)
	if err != nil {
		return WrapStarkError(MalformedProof, "invalid trace_merkle_root hex", err)
	}

	friRoots := make([][]byte, len(aux.FRIRoots))
	for i, r := range aux.FRIRoots {
		decoded, err := hex.DecodeString(r)
		if err != nil {
			return WrapStarkError(MalformedProof, fmt.Sprintf("invalid fri_roots[%d] hex", i), err)
		}
		friRoots[i] = decoded
	}

	finalPoly := make([]*core.FieldElement, len(aux.FRIFinalPolynomial))
	for i, c := range aux.FRIFinalPolynomial {
		elem, err := field.NewElementFromDecimal(c)
		if err != nil {
			return WrapStarkError(MalformedProof, fmt.Sprintf("invalid fri_final_polynomial[%d]", i), err)
		}
		finalPoly[i] = elem
	}

	responses := make([]fri.QueryResponse, len(aux.QueryResponses))
	for i, r := range aux.QueryResponses {
		layers := make([]fri.LayerOpening, len(r.Layers))
		for j, l := range r.Layers {
			value, err := field.NewElementFromDecimal(l.Value)
			if err != nil {
				return WrapStarkError(MalformedProof, fmt.Sprintf("invalid query_responses[%d].layers[%d].value", i, j), err)
			}
			pair, err := field.NewElementFromDecimal(l.Pair)
			if err != nil {
				return WrapStarkError(MalformedProof, fmt.Sprintf("invalid query_responses[%d].layers[%d].pair", i, j), err)
			}
			valueProof, err := decodeProofNodes(l.MerkleProof)
			if err != nil {
				return WrapStarkError(MalformedProof, fmt.Sprintf("invalid query_responses[%d].layers[%d].merkle_proof", i, j), err)
			}
			pairProof, err := decodeProofNodes(l.PairProof)
			if err != nil {
				return WrapStarkError(MalformedProof, fmt.Sprintf("invalid query_responses[%d].layers[%d].pair_merkle_proof", i, j), err)
			}
			layers[j] = fri.LayerOpening{Value: value, ValueProof: valueProof, Pair: pair, PairProof: pairProof}
		}
		responses[i] = fri.QueryResponse{Index: r.Index, Layers: layers}
	}

	publicOutput, err := field.NewElementFromDecimal(aux.PublicOutput)
	if err != nil {
		return WrapStarkError(MalformedProof, "invalid public_output", err)
	}

	fingerprint, err := hex.DecodeString(aux.StatementFingerprint)
	if err != nil {
		return WrapStarkError(MalformedProof, "invalid statement_fingerprint hex", err)
	}

	p.Version = aux.Version
	p.TraceLength = aux.TraceLength
	p.BlowupFactor = aux.BlowupFactor
	p.SecurityLevel = aux.SecurityLevel
	p.TraceMerkleRoot = traceMerkleRoot
	p.FRIRoots = friRoots
	p.FRIFinalPolynomial = finalPoly
	p.QueryResponses = responses
	p.PublicOutput = publicOutput
	p.StatementFingerprint = fingerprint
	p.FieldPrime = modulus
	return nil
}

func encodeProofNodes(nodes []core.ProofNode) []proofNodeJSON {
	out := make([]proofNodeJSON, len(nodes))
	for i, n := range nodes {
		out[i] = proofNodeJSON{SiblingHex: hex.EncodeToString(n.Sibling), IsLeft: n.IsLeft}
	}
	return out
}

func decodeProofNodes(nodes []proofNodeJSON) ([]core.ProofNode, error) {
	out := make([]core.ProofNode, len(nodes))
	for i, n := range nodes {
		sibling, err := hex.DecodeString(n.SiblingHex)
		if err != nil {
			return nil, err
		}
		out[i] = core.ProofNode{Sibling: sibling, IsLeft: n.IsLeft}
	}
	return out, nil
}
