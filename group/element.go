package group

import (
	"crypto/subtle"

	"github.com/gtank/ristretto255"
	"golang.org/x/crypto/sha3"

	"github.com/pep-project/crypto-core/errs"
)

// ElementPackedBytes is the canonical encoding length of a GroupElement.
const ElementPackedBytes = 32

// GroupElement is a point of the prime-order group, always held in both its
// packed and unpacked representation.
//
// The original C++ CurvePoint postpones packing/unpacking and exposes
// EnsurePacked/EnsureThreadSafe so callers materialize both forms before
// sharing a value across threads (see spec §4.1, §9). This Go port takes
// the alternative the spec's own design notes recommend: representation is
// always eager and GroupElement is immutable, which makes a GroupElement
// trivially safe to share across goroutines by construction. EnsurePacked
// and EnsureThreadSafe are kept as no-ops purely so code written against
// the spec's vocabulary compiles and reads the same; they do no work here.
type GroupElement struct {
	packed []byte
	inner  *ristretto255.Element
}

func wrapElement(e *ristretto255.Element) GroupElement {
	return GroupElement{
		packed: e.Encode(make([]byte, 0, ElementPackedBytes)),
		inner:  e,
	}
}

// Identity returns the group's identity element, computed as 0*G so it
// does not depend on any assumption about ristretto255's zero-value
// representation.
func Identity() GroupElement {
	return wrapElement(ristretto255.NewElement().ScalarBaseMult(ristretto255.NewScalar().Zero()))
}

// BaseMult computes s*G for the group's fixed generator, using the
// constant-time fixed-base multiplication ristretto255 provides. This is
// the one operation that MUST be constant-time against secret scalars, per
// spec §4.1.
func BaseMult(s Scalar) GroupElement {
	return wrapElement(ristretto255.NewElement().ScalarBaseMult(s.inner))
}

// HashToPoint deterministically maps arbitrary bytes to a group element via
// Elligator2 (SHA3-512 of the input feeds the map), matching the teacher's
// FromUniformBytes usage. It never lands on the identity for any input seen
// in practice; the result is not checked against the identity.
func HashToPoint(data []byte) GroupElement {
	wide := sha3.Sum512(data)
	return wrapElement(ristretto255.NewElement().FromUniformBytes(wide[:]))
}

// DecodeElement decodes a canonical 32-byte point encoding.
func DecodeElement(b []byte) (GroupElement, error) {
	if len(b) != ElementPackedBytes {
		return GroupElement{}, errs.New(errs.BadEncoding, "group element requires 32 packed bytes")
	}
	e := ristretto255.NewElement()
	if err := e.Decode(b); err != nil {
		return GroupElement{}, errs.Wrap(errs.BadEncoding, "non-canonical group element encoding", err)
	}
	return wrapElement(e), nil
}

// Encode returns the canonical packed form.
func (e GroupElement) Encode() []byte {
	out := make([]byte, len(e.packed))
	copy(out, e.packed)
	return out
}

// EnsurePacked is a documented no-op; see the GroupElement doc comment.
func (e GroupElement) EnsurePacked() {}

// EnsureThreadSafe is a documented no-op; see the GroupElement doc comment.
func (e GroupElement) EnsureThreadSafe() {}

// Add returns e + o.
func (e GroupElement) Add(o GroupElement) GroupElement {
	return wrapElement(ristretto255.NewElement().Add(e.inner, o.inner))
}

// Sub returns e - o.
func (e GroupElement) Sub(o GroupElement) GroupElement {
	return wrapElement(ristretto255.NewElement().Subtract(e.inner, o.inner))
}

// Negate returns -e.
func (e GroupElement) Negate() GroupElement {
	return wrapElement(ristretto255.NewElement().Negate(e.inner))
}

// Mult returns s*e using the constant-time variable-base multiplication.
// Use this whenever s may be secret.
func (e GroupElement) Mult(s Scalar) GroupElement {
	return wrapElement(ristretto255.NewElement().ScalarMult(s.inner, e.inner))
}

// PublicMult returns s*e. It is exposed as a distinct name from Mult purely
// to flag verifier-side call sites where s is always public (e.g. a Fiat-
// Shamir challenge); ristretto255's ScalarMult is already safe to use with
// public scalars, so this simply delegates.
func (e GroupElement) PublicMult(s Scalar) GroupElement {
	return e.Mult(s)
}

// Equal reports whether e and o encode the same point.
func (e GroupElement) Equal(o GroupElement) bool {
	return e.inner.Equal(o.inner) == 1
}

// IsIdentity reports whether e is the group identity. Ristretto's canonical
// encoding of the identity element is 32 zero bytes.
func (e GroupElement) IsIdentity() bool {
	return e.Equal(Identity())
}

// constantTimeSelectElement returns a if bit == 1 and b if bit == 0, in
// constant time with respect to bit. Used by ScalarMultTable.Mult.
func constantTimeSelectElement(bit int, a, b GroupElement) GroupElement {
	out := make([]byte, ElementPackedBytes)
	copy(out, b.packed)
	subtle.ConstantTimeCopy(bit, out, a.packed)
	ge, err := DecodeElement(out)
	if err != nil {
		// out is always either a.packed or b.packed, both valid encodings.
		panic("group: impossible decode failure in constant-time select")
	}
	return ge
}
