// Package transcript implements the Fiat-Shamir transform used to turn the
// STARK protocol into a non-interactive proof: every value the prover would
// otherwise have sent to an interactive verifier is absorbed into a running
// hash state, and every challenge the verifier would otherwise have sampled
// is squeezed deterministically from that same state.
package transcript

import (
	"encoding/binary"
	"math/big"

	"golang.org/x/crypto/sha3"

	"github.com/fornax-zk/starkcore/internal/starkcore/core"
)

// Transcript is an append-only Fiat-Shamir channel. Absorb and Squeeze calls
// must happen in the same order on the prover and verifier side for a proof
// to verify: the transcript has no notion of "turns", only a running state.
type Transcript struct {
	state []byte
	// squeezeCount disambiguates successive squeezes that share a label, so
	// that e.g. two consecutive SqueezeIndex("query") calls do not return
	// the same value.
	squeezeCount uint64
}

// New starts a fresh transcript with an empty running state.
func New() *Transcript {
	return &Transcript{state: []byte{}}
}

// Absorb mixes a labeled byte string into the transcript state. The label is
// absorbed alongside the data so that two different protocol steps can never
// collide even if they happen to absorb identical bytes.
func (t *Transcript) Absorb(label string, data []byte) {
	h := sha3.New256()
	h.Write(t.state)
	h.Write([]byte(label))
	h.Write(data)
	t.state = h.Sum(nil)
}

// squeeze derives the next pseudorandom digest from the transcript state,
// labeled and counted so that repeated squeezes under the same label still
// diverge, and advances the state so the same digest is never returned twice.
func (t *Transcript) squeeze(label string) []byte {
	h := sha3.New256()
	h.Write(t.state)
	h.Write([]byte("squeeze:"))
	h.Write([]byte(label))
	var counter [8]byte
	binary.BigEndian.PutUint64(counter[:], t.squeezeCount)
	h.Write(counter[:])
	digest := h.Sum(nil)
	t.squeezeCount++
	t.state = digest
	return digest
}

// SqueezeScalar derives a deterministic pseudorandom field element from the
// transcript state.
func (t *Transcript) SqueezeScalar(label string, field *core.Field) *core.FieldElement {
	digest := t.squeeze(label)
	value := new(big.Int).SetBytes(digest)
	return field.NewElement(value)
}

// SqueezeIndex derives a deterministic pseudorandom index in [0, domainSize).
// domainSize must be positive.
func (t *Transcript) SqueezeIndex(label string, domainSize int) int {
	if domainSize <= 0 {
		panic("transcript: domainSize must be positive")
	}
	digest := t.squeeze(label)
	value := new(big.Int).SetBytes(digest)
	mod := big.NewInt(int64(domainSize))
	return int(new(big.Int).Mod(value, mod).Int64())
}

// SqueezeIndices derives count pseudorandom indices in [0, domainSize), one
// per query, all squeezed under the same label; successive squeezes differ
// through the squeeze counter and state update. The indices are not
// guaranteed to be distinct.
func (t *Transcript) SqueezeIndices(label string, count, domainSize int) []int {
	indices := make([]int, count)
	for i := 0; i < count; i++ {
		indices[i] = t.SqueezeIndex(label, domainSize)
	}
	return indices
}

// State returns a copy of the transcript's current running state, useful
// for diagnostics and tests that assert on determinism.
func (t *Transcript) State() []byte {
	return append([]byte(nil), t.state...)
}
