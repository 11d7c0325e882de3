// Package starkcore provides a non-interactive zkSTARK proving and
// verification engine: finite-field and polynomial arithmetic, Merkle
// commitments, a Fiat-Shamir transcript, a pluggable algebraic intermediate
// representation (AIR), and a FRI-based low-degree test, composed into an
// end-to-end prover and verifier.
//
// # Quick Start
//
// Proving and verifying a statement:
//
//	cfg := config.DefaultConfig()
//	statement := starkcore.Statement{Claim: "counter_ok", Threshold: 21}
//	witness := starkcore.Witness{Secret: big.NewInt(42)}
//
//	proof, err := starkcore.Prove(statement, witness, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	ok, err := starkcore.Verify(proof, statement, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// # Architecture
//
//   - pkg/starkcore/: public API — statements, witnesses, proofs, the
//     prover and verifier entry points, and the error taxonomy.
//   - internal/starkcore/core/: field, polynomial, domain, and Merkle tree
//     primitives.
//   - internal/starkcore/codes/: a standalone Reed-Solomon code
//     (degree-bound and distance checks); the verifier does not use it.
//   - internal/starkcore/transcript/: the Fiat-Shamir transcript.
//   - internal/starkcore/air/: the AIR interface and reference AIR.
//   - internal/starkcore/fri/: the FRI commit and query phases, prover and
//     verifier sides.
//   - internal/starkcore/config/: the prover/verifier configuration type.
//
// Implementation details under internal/ can change without breaking the
// public API.
//
// # References
//
//   - STARK paper: https://eprint.iacr.org/2018/046
//   - FRI paper: https://eccc.weizmann.ac.il/report/2017/134/
package starkcore
