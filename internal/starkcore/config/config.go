// Package config holds the tunable parameters the prover and verifier
// thread through the proving pipeline instead of relying on package-level
// state, so multiple proofs with different parameters can run concurrently
// in the same process.
package config

import (
	"fmt"
	"math/big"

	"github.com/fornax-zk/starkcore/internal/starkcore/core"
)

// Config holds every parameter the prover and verifier need to agree on
// for a proof to be checkable: the field, the trace and blowup sizes, and
// the number of FRI queries, plus a hash-function name.
type Config struct {
	// FieldModulus is the prime defining the field all arithmetic runs over.
	FieldModulus *big.Int

	// SecurityLevel is the target soundness level in bits, informational
	// for callers choosing NumQueries.
	SecurityLevel int

	// TraceLength is the execution trace length T. Must be a power of two.
	TraceLength int

	// BlowupFactor is the low-degree-extension blowup beta; the LDE domain
	// has size TraceLength * BlowupFactor. Must be a power of two.
	BlowupFactor int

	// NumQueries is the number of FRI query indices sampled from the
	// transcript; more queries mean smaller soundness error.
	NumQueries int

	// HashFunction is a hash-function name; Validate accepts only "sha256"
	// or "sha3". The prover and verifier do not read it: Merkle commitments
	// always use SHA-256 and the Fiat-Shamir transcript always uses SHA3-256.
	HashFunction string
}

// DefaultConfig returns the reference configuration: trace length 1024,
// blowup factor 4, 40 FRI queries, over the Goldilocks field.
func DefaultConfig() *Config {
	return &Config{
		FieldModulus:  core.GoldilocksModulus,
		SecurityLevel: 128,
		TraceLength:   1024,
		BlowupFactor:  4,
		NumQueries:    40,
		HashFunction:  "sha3",
	}
}

// LDEDomainSize returns the size of the low-degree extension domain:
// TraceLength * BlowupFactor.
func (c *Config) LDEDomainSize() int {
	return c.TraceLength * c.BlowupFactor
}

// Field constructs the Field this configuration's modulus defines.
func (c *Config) Field() (*core.Field, error) {
	return core.NewField(c.FieldModulus)
}

func isPowerOfTwo(n int) bool { return n > 0 && (n&(n-1)) == 0 }

// Validate checks that the configuration's parameters are internally
// consistent.
func (c *Config) Validate() error {
	if c.FieldModulus == nil || c.FieldModulus.Cmp(big.NewInt(2)) <= 0 {
		return fmt.Errorf("config: field modulus must be greater than 2")
	}
	if c.SecurityLevel <= 0 {
		return fmt.Errorf("config: security level must be positive")
	}
	if !isPowerOfTwo(c.TraceLength) {
		return fmt.Errorf("config: trace length must be a power of two, got %d", c.TraceLength)
	}
	if !isPowerOfTwo(c.BlowupFactor) {
		return fmt.Errorf("config: blowup factor must be a power of two, got %d", c.BlowupFactor)
	}
	if c.NumQueries <= 0 {
		return fmt.Errorf("config: number of FRI queries must be positive")
	}
	if c.NumQueries > c.LDEDomainSize() {
		return fmt.Errorf("config: number of FRI queries (%d) cannot exceed the LDE domain size (%d)", c.NumQueries, c.LDEDomainSize())
	}
	if c.HashFunction != "sha256" && c.HashFunction != "sha3" {
		return fmt.Errorf("config: hash function must be 'sha256' or 'sha3', got '%s'", c.HashFunction)
	}
	return nil
}

// WithFieldModulus sets the field modulus and returns the config for
// chaining.
func (c *Config) WithFieldModulus(modulus *big.Int) *Config {
	c.FieldModulus = new(big.Int).Set(modulus)
	return c
}

// WithSecurityLevel sets the target security level.
func (c *Config) WithSecurityLevel(level int) *Config {
	c.SecurityLevel = level
	return c
}

// WithTraceLength sets the trace length.
func (c *Config) WithTraceLength(length int) *Config {
	c.TraceLength = length
	return c
}

// WithBlowupFactor sets the low-degree-extension blowup factor.
func (c *Config) WithBlowupFactor(factor int) *Config {
	c.BlowupFactor = factor
	return c
}

// WithNumQueries sets the number of FRI queries.
func (c *Config) WithNumQueries(queries int) *Config {
	c.NumQueries = queries
	return c
}

// WithHashFunction sets the HashFunction name.
func (c *Config) WithHashFunction(hashFunc string) *Config {
	c.HashFunction = hashFunc
	return c
}

// Clone returns an independent copy of the configuration.
func (c *Config) Clone() *Config {
	return &Config{
		FieldModulus:  new(big.Int).Set(c.FieldModulus),
		SecurityLevel: c.SecurityLevel,
		TraceLength:   c.TraceLength,
		BlowupFactor:  c.BlowupFactor,
		NumQueries:    c.NumQueries,
		HashFunction:  c.HashFunction,
	}
}
