// Package pseudonym implements the wrapper types around elgamal.Encryption
// and group.GroupElement that give PEP's curve points their domain meaning:
// polymorphic and local pseudonyms, and the encrypted symmetric keys used to
// protect data payloads. Grounded on
// original_source/cpp/pep/rsk-pep/Pseudonyms.cpp.
package pseudonym

import (
	"github.com/pep-project/crypto-core/elgamal"
	"github.com/pep-project/crypto-core/errs"
	"github.com/pep-project/crypto-core/group"
)

// PolymorphicPseudonym is an ElGamal encryption, under the system's master
// public key, of a curve point derived from an identifier. It carries no
// meaning on its own: only after translation to a LocalPseudonym for a
// specific recipient does it identify a data subject to that recipient.
type PolymorphicPseudonym struct {
	enc elgamal.Encryption
}

// FromIdentifier derives the polymorphic pseudonym for identifier under
// masterPublicKey: Encrypt(masterPublicKey, HashToPoint(identifier)).
// Ported from PolymorphicPseudonym::FromIdentifier.
func FromIdentifier(masterPublicKey group.GroupElement, identifier string) (PolymorphicPseudonym, error) {
	enc, err := elgamal.Encrypt(masterPublicKey, group.HashToPoint([]byte(identifier)))
	if err != nil {
		return PolymorphicPseudonym{}, err
	}
	return PolymorphicPseudonym{enc: enc}, nil
}

// PolymorphicPseudonymFromEncryption wraps an existing encryption as a
// polymorphic pseudonym, rejecting a zero recipient key.
func PolymorphicPseudonymFromEncryption(enc elgamal.Encryption) (PolymorphicPseudonym, error) {
	if enc.Y.IsIdentity() {
		return PolymorphicPseudonym{}, errs.New(errs.ZeroPublicKey, "polymorphic pseudonym has zero public key")
	}
	return PolymorphicPseudonym{enc: enc}, nil
}

// Encryption exposes the underlying ElGamal ciphertext, e.g. for
// translation by rsk.RSK or transport over the wire.
func (p PolymorphicPseudonym) Encryption() elgamal.Encryption {
	return p.enc
}

// Encode returns the canonical 96-byte encoding of the underlying
// encryption.
func (p PolymorphicPseudonym) Encode() []byte {
	return p.enc.Encode()
}

// DecodePolymorphicPseudonym parses the canonical 96-byte encoding.
func DecodePolymorphicPseudonym(b []byte) (PolymorphicPseudonym, error) {
	enc, err := elgamal.Decode(b)
	if err != nil {
		return PolymorphicPseudonym{}, err
	}
	return PolymorphicPseudonymFromEncryption(enc)
}

// LocalPseudonym is a bare curve point: the plaintext a PolymorphicPseudonym
// decrypts to once fully translated to one recipient's local domain. Never
// the identity point (FromIdentifier's hash-to-point and Random both avoid
// it with overwhelming probability; a zero point here indicates corrupt
// input, not a valid subject).
type LocalPseudonym struct {
	point group.GroupElement
}

// LocalPseudonymFromPoint wraps point as a local pseudonym, rejecting the
// identity point. Ported from LocalPseudonym's constructor in
// Pseudonyms.cpp.
func LocalPseudonymFromPoint(point group.GroupElement) (LocalPseudonym, error) {
	if point.IsIdentity() {
		return LocalPseudonym{}, errs.New(errs.InvalidPseudonym, "local pseudonym cannot be the identity point")
	}
	return LocalPseudonym{point: point}, nil
}

// RandomLocalPseudonym returns a local pseudonym for a freshly generated
// random curve point, for tests and synthetic subject creation.
func RandomLocalPseudonym() LocalPseudonym {
	return LocalPseudonym{point: group.BaseMult(group.RandomScalar())}
}

// Point returns the underlying curve point.
func (p LocalPseudonym) Point() group.GroupElement {
	return p.point
}

// Encrypt encrypts the local pseudonym under recipientKey, producing an
// EncryptedLocalPseudonym ready to be sent to that recipient.
func (p LocalPseudonym) Encrypt(recipientKey group.GroupElement) (EncryptedLocalPseudonym, error) {
	enc, err := elgamal.Encrypt(recipientKey, p.point)
	if err != nil {
		return EncryptedLocalPseudonym{}, err
	}
	return EncryptedLocalPseudonym{enc: enc}, nil
}

// Equal reports whether two local pseudonyms are the same point.
func (p LocalPseudonym) Equal(o LocalPseudonym) bool {
	return p.point.Equal(o.point)
}

// Encode returns the canonical 32-byte encoding of the underlying point.
func (p LocalPseudonym) Encode() []byte {
	return p.point.Encode()
}

// DecodeLocalPseudonym parses the canonical 32-byte encoding.
func DecodeLocalPseudonym(b []byte) (LocalPseudonym, error) {
	point, err := group.DecodeElement(b)
	if err != nil {
		return LocalPseudonym{}, err
	}
	return LocalPseudonymFromPoint(point)
}

// EncryptedLocalPseudonym is a PolymorphicPseudonym after full translation
// (reshuffle + rekey) to one recipient: an ElGamal encryption, under that
// recipient's key, of their LocalPseudonym. Ported from
// Pseudonyms.cpp's EncryptedPseudonym.
type EncryptedLocalPseudonym struct {
	enc elgamal.Encryption
}

// EncryptedLocalPseudonymFromEncryption wraps enc, rejecting a zero
// recipient key.
func EncryptedLocalPseudonymFromEncryption(enc elgamal.Encryption) (EncryptedLocalPseudonym, error) {
	if enc.Y.IsIdentity() {
		return EncryptedLocalPseudonym{}, errs.New(errs.ZeroPublicKey, "encrypted local pseudonym has zero public key")
	}
	return EncryptedLocalPseudonym{enc: enc}, nil
}

// Encryption exposes the underlying ElGamal ciphertext.
func (p EncryptedLocalPseudonym) Encryption() elgamal.Encryption {
	return p.enc
}

// Decrypt recovers the LocalPseudonym using the recipient's private key.
func (p EncryptedLocalPseudonym) Decrypt(sk group.Scalar) (LocalPseudonym, error) {
	return LocalPseudonymFromPoint(p.enc.Decrypt(sk))
}

// Encode returns the canonical 96-byte encoding.
func (p EncryptedLocalPseudonym) Encode() []byte {
	return p.enc.Encode()
}

// DecodeEncryptedLocalPseudonym parses the canonical 96-byte encoding.
func DecodeEncryptedLocalPseudonym(b []byte) (EncryptedLocalPseudonym, error) {
	enc, err := elgamal.Decode(b)
	if err != nil {
		return EncryptedLocalPseudonym{}, err
	}
	return EncryptedLocalPseudonymFromEncryption(enc)
}

// EncryptedKey is an ElGamal encryption of a symmetric data-encryption key,
// represented as a curve point. It goes through the same reshuffle+blind+
// rekey pipeline as pseudonyms (see the translator package's DataTranslator)
// but decrypts to a 32-byte AES key rather than an identifier.
type EncryptedKey struct {
	enc elgamal.Encryption
}

// EncryptedKeyFromEncryption wraps enc, rejecting a zero recipient key.
func EncryptedKeyFromEncryption(enc elgamal.Encryption) (EncryptedKey, error) {
	if enc.Y.IsIdentity() {
		return EncryptedKey{}, errs.New(errs.ZeroPublicKey, "encrypted key has zero public key")
	}
	return EncryptedKey{enc: enc}, nil
}

// Encryption exposes the underlying ElGamal ciphertext.
func (k EncryptedKey) Encryption() elgamal.Encryption {
	return k.enc
}

// Decrypt recovers the symmetric key's curve-point representation and packs
// it to 32 bytes for use as an AES-256 key. Callers that need the point
// itself (e.g. to feed back into another translation step) should use
// k.Encryption().Decrypt(sk) directly instead.
func (k EncryptedKey) Decrypt(sk group.Scalar) ([32]byte, error) {
	point := k.enc.Decrypt(sk)
	if point.IsIdentity() {
		return [32]byte{}, errs.New(errs.InvalidPseudonym, "decrypted key is the identity point")
	}
	var out [32]byte
	copy(out[:], point.Encode())
	return out, nil
}

// Encode returns the canonical 96-byte encoding.
func (k EncryptedKey) Encode() []byte {
	return k.enc.Encode()
}

// DecodeEncryptedKey parses the canonical 96-byte encoding.
func DecodeEncryptedKey(b []byte) (EncryptedKey, error) {
	enc, err := elgamal.Decode(b)
	if err != nil {
		return EncryptedKey{}, err
	}
	return EncryptedKeyFromEncryption(enc)
}
