package starkcore

import (
	"encoding/json"
	"math/big"
	"strings"
	"testing"

	"github.com/fornax-zk/starkcore/internal/starkcore/core"
	"github.com/fornax-zk/starkcore/internal/starkcore/fri"
)

func buildSampleProof(t *testing.T) *Proof {
	t.Helper()
	field, err := core.NewField(core.Prime521())
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}

	// A value comfortably larger than 64 bits, to exercise the
	// decimal-string round trip that avoids float/int precision loss.
	large, ok := new(big.Int).SetString("18446744069414584320123456789", 10)
	if !ok {
		t.Fatal("failed to parse large test value")
	}

	return &Proof{
		Version:       ProofVersion,
		TraceLength:   16,
		BlowupFactor:  4,
		SecurityLevel: 80,
		TraceMerkleRoot: []byte{0xde, 0xad, 0xbe, 0xef},
		FRIRoots:      [][]byte{{0x01, 0x02}, {0x03, 0x04}},
		FRIFinalPolynomial: []*core.FieldElement{
			field.NewElementFromInt64(7),
			field.NewElement(large),
		},
		QueryResponses: []fri.QueryResponse{
			{
				Index: 5,
				Layers: []fri.LayerOpening{
					{
						Value: field.NewElementFromInt64(11),
						ValueProof: []core.ProofNode{
							{Sibling: []byte{0xaa, 0xbb}, IsLeft: true},
							{Sibling: []byte{0xcc}, IsLeft: false},
						},
						Pair: field.NewElementFromInt64(13),
						PairProof: []core.ProofNode{
							{Sibling: []byte{0x01}, IsLeft: false},
						},
					},
				},
			},
		},
		PublicOutput:         field.NewElementFromInt64(1065),
		StatementFingerprint: []byte{0x99, 0x88, 0x77},
		FieldPrime:           field.Modulus(),
	}
}

func TestProofJSONRoundTrip(t *testing.T) {
	original := buildSampleProof(t)

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded Proof
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if decoded.Version != original.Version ||
		decoded.TraceLength != original.TraceLength ||
		decoded.BlowupFactor != original.BlowupFactor ||
		decoded.SecurityLevel != original.SecurityLevel {
		t.Fatal("scalar fields did not round-trip")
	}
	if string(decoded.TraceMerkleRoot) != string(original.TraceMerkleRoot) {
		t.Fatal("trace_merkle_root did not round-trip")
	}
	if len(decoded.FRIRoots) != len(original.FRIRoots) {
		t.Fatal("fri_roots length did not round-trip")
	}
	for i := range original.FRIRoots {
		if string(decoded.FRIRoots[i]) != string(original.FRIRoots[i]) {
			t.Fatalf("fri_roots[%d] did not round-trip", i)
		}
	}
	if len(decoded.FRIFinalPolynomial) != len(original.FRIFinalPolynomial) {
		t.Fatal("fri_final_polynomial length did not round-trip")
	}
	for i := range original.FRIFinalPolynomial {
		if !decoded.FRIFinalPolynomial[i].Equal(original.FRIFinalPolynomial[i]) {
			t.Fatalf("fri_final_polynomial[%d] did not round-trip exactly (large-value precision loss)", i)
		}
	}
	if !decoded.PublicOutput.Equal(original.PublicOutput) {
		t.Fatal("public_output did not round-trip")
	}
	if decoded.FieldPrime.Cmp(original.FieldPrime) != 0 {
		t.Fatal("field_prime did not round-trip")
	}
	if len(decoded.QueryResponses) != 1 || decoded.QueryResponses[0].Index != 5 {
		t.Fatal("query_responses did not round-trip")
	}
	layer := decoded.QueryResponses[0].Layers[0]
	if !layer.Value.Equal(original.QueryResponses[0].Layers[0].Value) {
		t.Fatal("query response layer value did not round-trip")
	}
	if len(layer.ValueProof) != 2 || layer.ValueProof[0].IsLeft != true {
		t.Fatal("query response merkle proof did not round-trip")
	}
}

func TestProofJSONUsesDecimalAndHexEncoding(t *testing.T) {
	proof := buildSampleProof(t)
	data, err := json.Marshal(proof)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var generic map[string]interface{}
	if err := json.Unmarshal(data, &generic); err != nil {
		t.Fatalf("Unmarshal into map: %v", err)
	}

	root, ok := generic["trace_merkle_root"].(string)
	if !ok {
		t.Fatal("trace_merkle_root is not a JSON string")
	}
	if root != "deadbeef" {
		t.Fatalf("trace_merkle_root = %q, want lowercase hex %q", root, "deadbeef")
	}

	publicOutput, ok := generic["public_output"].(string)
	if !ok {
		t.Fatal("public_output is not a JSON string")
	}
	if strings.ContainsAny(publicOutput, "xX") {
		t.Fatalf("public_output %q does not look like a decimal string", publicOutput)
	}
}

func TestProofUnmarshalRejectsInvalidFieldPrime(t *testing.T) {
	var p Proof
	err := json.Unmarshal([]byte(`{"field_prime":"not-a-number"}`), &p)
	if err == nil {
		t.Fatal("expected an error for a non-numeric field_prime")
	}
}

func TestProofUnmarshalRejectsInvalidHex(t *testing.T) {
	proof := buildSampleProof(t)
	data, err := json.Marshal(proof)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	corrupted := strings.Replace(string(data), "deadbeef", "zznotvalidhex", 1)

	var decoded Proof
	if err := json.Unmarshal([]byte(corrupted), &decoded); err == nil {
		t.Fatal("expected an error for invalid trace_merkle_root hex")
	}
}

func TestProofUnmarshalRejectsInvalidDecimal(t *testing.T) {
	proof := buildSampleProof(t)
	data, err := json.Marshal(proof)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	corrupted := strings.Replace(string(data), `"public_output":"1065"`, `"public_output":"not-a-decimal"`, 1)

	var decoded Proof
	if err := json.Unmarshal([]byte(corrupted), &decoded); err == nil {
		t.Fatal("expected an error for an invalid public_output decimal string")
	}
}
