// Package errs defines the CryptoError taxonomy shared by every package in
// this module. The core returns errors by value; it never logs and never
// retries, so every fallible operation documented in spec.md returns one of
// these kinds (possibly wrapping a lower-level cause).
package errs

import (
	"errors"
	"fmt"
)

// Kind categorizes a CryptoError so callers can distinguish user-visible
// failures (Encoding, Integrity) from operator-visible ones (Configuration)
// without string-matching messages.
type Kind int

const (
	// BadEncoding: decode of a non-canonical packed form.
	BadEncoding Kind = iota
	// ZeroPublicKey: construction of an Encryption with an identity public key.
	ZeroPublicKey
	// InvalidProof: a zero-knowledge proof failed verification.
	InvalidProof
	// MissingSecret: a translator operation requires a secret it wasn't given.
	MissingSecret
	// UnknownScheme: an encryption-scheme tag outside {V1, V2, V3}.
	UnknownScheme
	// InvalidPseudonym: construction of a local pseudonym from the identity
	// element, or an encrypted key that decrypts to the identity. Wrappers
	// built from a zero-public-key encryption report ZeroPublicKey instead.
	InvalidPseudonym
)

func (k Kind) String() string {
	switch k {
	case BadEncoding:
		return "bad encoding"
	case ZeroPublicKey:
		return "zero public key"
	case InvalidProof:
		return "invalid proof"
	case MissingSecret:
		return "missing secret"
	case UnknownScheme:
		return "unknown encryption scheme"
	case InvalidPseudonym:
		return "invalid pseudonym"
	default:
		return "unknown crypto error"
	}
}

// CryptoError is the single error type returned across package boundaries
// in this module.
type CryptoError struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *CryptoError) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *CryptoError) Unwrap() error { return e.Err }

// Is reports whether target is a CryptoError of the same Kind, so callers
// can write errors.Is(err, errs.New(errs.InvalidProof, "")).
func (e *CryptoError) Is(target error) bool {
	var other *CryptoError
	if errors.As(target, &other) {
		return other.Kind == e.Kind
	}
	return false
}

// New constructs a CryptoError with no wrapped cause.
func New(kind Kind, msg string) *CryptoError {
	return &CryptoError{Kind: kind, Msg: msg}
}

// Wrap constructs a CryptoError wrapping a lower-level cause.
func Wrap(kind Kind, msg string, err error) *CryptoError {
	return &CryptoError{Kind: kind, Msg: msg, Err: err}
}

// KindOf reports the Kind of err if it is (or wraps) a CryptoError, and ok=false
// otherwise.
func KindOf(err error) (Kind, bool) {
	var ce *CryptoError
	if errors.As(err, &ce) {
		return ce.Kind, true
	}
	return 0, false
}
