package starkcore

import "fmt"

// ErrorKind classifies the component that rejected an operation and why,
// per the protocol's error taxonomy: field arithmetic, polynomial
// interpolation, AIR satisfaction, and the distinct ways a proof can fail
// verification.
type ErrorKind int

const (
	// FieldArithmetic covers division by zero and primitive-root requests
	// for an order that does not divide the field's multiplicative group.
	FieldArithmetic ErrorKind = iota

	// InterpolationDomain covers Lagrange interpolation over a point set
	// with a duplicate x-coordinate.
	InterpolationDomain

	// AirUnsatisfied is returned by the prover when the execution trace it
	// built does not satisfy the AIR's boundary or transition constraints.
	AirUnsatisfied

	// MalformedProof is returned by the verifier when a proof is missing a
	// required field, has an out-of-range index, or has mismatched widths
	// or counts between its parts.
	MalformedProof

	// InvalidMerkleProof is returned by the verifier when a query response's
	// inclusion proof does not recompute to the committed root.
	InvalidMerkleProof

	// DegreeBoundExceeded is returned by the verifier when the FRI final
	// layer's coefficient count exceeds the number of queries.
	DegreeBoundExceeded

	// StatementBindingMismatch is returned by the verifier when a proof's
	// statement fingerprint does not match the statement it is checked
	// against.
	StatementBindingMismatch
)

// String renders the error kind's name.
func (k ErrorKind) String() string {
	switch k {
	case FieldArithmetic:
		return "FieldArithmetic"
	case InterpolationDomain:
		return "InterpolationDomain"
	case AirUnsatisfied:
		return "AirUnsatisfied"
	case MalformedProof:
		return "MalformedProof"
	case InvalidMerkleProof:
		return "InvalidMerkleProof"
	case DegreeBoundExceeded:
		return "DegreeBoundExceeded"
	case StatementBindingMismatch:
		return "StatementBindingMismatch"
	default:
		return "Unknown"
	}
}

// StarkError is the error type Prove and Verify return on failure, and
// that Proof.UnmarshalJSON returns for a malformed field prime, digest, or
// value. The field and polynomial operations in the core package return
// plain errors, which Prove and Verify wrap as Cause. Code identifies which part of
// the taxonomy applies; Cause, when present, is the underlying error that
// triggered it.
type StarkError struct {
	Code    ErrorKind
	Message string
	Cause   error
}

// NewStarkError builds a StarkError with no underlying cause.
func NewStarkError(code ErrorKind, message string) *StarkError {
	return &StarkError{Code: code, Message: message}
}

// WrapStarkError builds a StarkError wrapping an underlying cause.
func WrapStarkError(code ErrorKind, message string, cause error) *StarkError {
	return &StarkError{Code: code, Message: message, Cause: cause}
}

// Error implements the error interface.
func (e *StarkError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("starkcore: %s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("starkcore: %s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *StarkError) Unwrap() error { return e.Cause }

// Is reports whether target is a StarkError with the same Code, so callers
// can write errors.Is(err, starkcore.NewStarkError(starkcore.MalformedProof, "")).
func (e *StarkError) Is(target error) bool {
	t, ok := target.(*StarkError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}
