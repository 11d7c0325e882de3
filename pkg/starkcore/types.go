package starkcore

import "math/big"

// Statement is the public claim a proof attests to: a named predicate over
// a threshold, bound into every proof's statement fingerprint so a proof
// generated for one statement cannot be passed off as valid for another.
type Statement struct {
	// Claim names the predicate being proven, e.g. "counter_ok".
	Claim string

	// Threshold is public statement metadata carried alongside Claim and
	// folded into the statement fingerprint, so a proof bound to one
	// threshold cannot be replayed against another. The reference AIR
	// itself does not compare PublicOutput to Threshold; a caller wanting
	// that bound enforced checks proof.PublicOutput against it directly.
	Threshold int64
}

// Witness is the prover's secret input. It never appears in a Proof or is
// sent to the verifier.
type Witness struct {
	// Secret is the starting value of the reference counter trace.
	Secret *big.Int
}
