package starkcore

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/fornax-zk/starkcore/internal/starkcore/config"
	"github.com/fornax-zk/starkcore/internal/starkcore/core"
)

func identityStatement() Statement {
	return Statement{Claim: "counter_ok", Threshold: 21}
}

func identityWitness() Witness {
	return Witness{Secret: big.NewInt(42)}
}

// TestProveVerifyRoundTrip covers S1: a proof built for a genuine witness
// verifies, and its public output is the expected (secret + T - 1) mod P.
func TestProveVerifyRoundTrip(t *testing.T) {
	cfg := config.DefaultConfig()
	statement := identityStatement()
	witness := identityWitness()

	proof, err := Prove(statement, witness, cfg)
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}

	field, err := cfg.Field()
	if err != nil {
		t.Fatalf("Field: %v", err)
	}
	wantOutput := field.NewElementFromInt64(1065) // 42 + 1024 - 1
	if !proof.PublicOutput.Equal(wantOutput) {
		t.Fatalf("PublicOutput = %s, want %s", proof.PublicOutput, wantOutput)
	}

	ok, err := Verify(proof, statement, cfg)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatal("Verify rejected a genuine proof")
	}
}

// TestVerifyRejectsMismatchedStatement covers S2: a proof built for one
// statement is checked against a statement with a different threshold, and
// the fingerprint binding catches the substitution.
func TestVerifyRejectsMismatchedStatement(t *testing.T) {
	cfg := config.DefaultConfig()
	proof, err := Prove(identityStatement(), identityWitness(), cfg)
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}

	other := Statement{Claim: "counter_ok", Threshold: 999}
	ok, err := Verify(proof, other, cfg)
	if ok {
		t.Fatal("Verify accepted a proof checked against the wrong statement")
	}
	assertStarkErrorKind(t, err, StatementBindingMismatch)
}

// TestVerifyRejectsTamperedQueryValue covers S3: flipping a queried FRI
// layer value must be caught by the Merkle/fold consistency check.
func TestVerifyRejectsTamperedQueryValue(t *testing.T) {
	cfg := config.DefaultConfig()
	statement := identityStatement()
	proof, err := Prove(statement, identityWitness(), cfg)
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}

	proof.QueryResponses[0].Layers[0].Value = proof.QueryResponses[0].Layers[0].Value.Add(proof.QueryResponses[0].Layers[0].Value.Field().One())

	ok, err := Verify(proof, statement, cfg)
	if ok {
		t.Fatal("Verify accepted a proof with a tampered query value")
	}
	assertStarkErrorKind(t, err, InvalidMerkleProof)
}

// TestVerifyRejectsTamperedTraceRoot covers S4: corrupting the committed
// trace Merkle root must be caught before any query is even checked for
// consistency, since every challenge derived afterward depends on it.
func TestVerifyRejectsTamperedTraceRoot(t *testing.T) {
	cfg := config.DefaultConfig()
	statement := identityStatement()
	proof, err := Prove(statement, identityWitness(), cfg)
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}

	tampered := append([]byte(nil), proof.TraceMerkleRoot...)
	tampered[len(tampered)-1] ^= 0xFF
	proof.TraceMerkleRoot = tampered

	ok, err := Verify(proof, statement, cfg)
	if ok {
		t.Fatal("Verify accepted a proof with a tampered trace Merkle root")
	}
	if err == nil {
		t.Fatal("expected an error rejecting the tampered trace Merkle root")
	}
}

// TestVerifyRejectsOversizedFinalPolynomial covers S5: padding the FRI
// final polynomial past the code's degree bound must be rejected.
func TestVerifyRejectsOversizedFinalPolynomial(t *testing.T) {
	cfg := config.DefaultConfig()
	statement := identityStatement()
	proof, err := Prove(statement, identityWitness(), cfg)
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}

	field, err := cfg.Field()
	if err != nil {
		t.Fatalf("Field: %v", err)
	}
	padded := append([]*core.FieldElement(nil), proof.FRIFinalPolynomial...)
	for i := 0; i < len(proof.FRIFinalPolynomial)+1; i++ {
		padded = append(padded, field.NewElementFromInt64(int64(i+1)))
	}
	proof.FRIFinalPolynomial = padded

	ok, err := Verify(proof, statement, cfg)
	if ok {
		t.Fatal("Verify accepted a proof with an oversized FRI final polynomial")
	}
	assertStarkErrorKind(t, err, DegreeBoundExceeded)
}

// TestVerifyAcceptsProofAfterJSONRoundTrip covers S6: a proof serialized to
// JSON and parsed back still verifies.
func TestVerifyAcceptsProofAfterJSONRoundTrip(t *testing.T) {
	cfg := config.DefaultConfig()
	statement := identityStatement()
	proof, err := Prove(statement, identityWitness(), cfg)
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}

	data, err := json.Marshal(proof)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	restored := &Proof{}
	if err := json.Unmarshal(data, restored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	ok, err := Verify(restored, statement, cfg)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatal("Verify rejected a proof that had been round-tripped through JSON")
	}
}

func assertStarkErrorKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected an error of kind %s, got nil", kind)
	}
	se, ok := err.(*StarkError)
	if !ok {
		t.Fatalf("expected a *StarkError, got %T: %v", err, err)
	}
	if se.Code != kind {
		t.Fatalf("error kind = %s, want %s (message: %s)", se.Code, kind, se.Message)
	}
}
