// Package elgamal implements the ElGamal encryption primitive over the
// group package: a triple (B, C, Y) encoding a message under a public key
// Y, with rerandomize, reshuffle and rekey operations and their
// composition (RSK, in the sibling rsk package). Grounded on spec §4.2 and
// original_source/cpp/pep/rsk-pep/Pseudonyms.cpp's EncryptedPseudonym.
package elgamal

import (
	"github.com/pep-project/crypto-core/errs"
	"github.com/pep-project/crypto-core/group"
)

// PublicKey is a recipient's ElGamal public key, Y = sk*G.
type PublicKey = group.GroupElement

// PrivateKey is the scalar sk such that PublicKey = sk*G.
type PrivateKey = group.Scalar

// Encryption is the ElGamal ciphertext triple (B, C, Y) = (rG, M+rY, Y).
type Encryption struct {
	B group.GroupElement
	C group.GroupElement
	Y group.GroupElement
}

// Encrypt encrypts msg under pk with fresh randomness r.
func Encrypt(pk PublicKey, msg group.GroupElement) (Encryption, error) {
	if pk.IsIdentity() {
		return Encryption{}, errs.New(errs.ZeroPublicKey, "cannot encrypt under zero public key")
	}
	r := group.RandomScalar()
	return Encryption{
		B: group.BaseMult(r),
		C: msg.Add(pk.Mult(r)),
		Y: pk,
	}, nil
}

// checkValid rejects an Encryption whose public key is the identity,
// mirroring RskTranslator.cpp's CheckValidEncryption.
func checkValid(e Encryption) error {
	if e.Y.IsIdentity() {
		return errs.New(errs.ZeroPublicKey, "encryption has zero public key")
	}
	return nil
}

// Rerandomize returns (B + r'G, C + r'Y, Y) for fresh r'.
func (e Encryption) Rerandomize() (Encryption, error) {
	if err := checkValid(e); err != nil {
		return Encryption{}, err
	}
	r := group.RandomScalar()
	return Encryption{
		B: e.B.Add(group.BaseMult(r)),
		C: e.C.Add(e.Y.Mult(r)),
		Y: e.Y,
	}, nil
}

// Reshuffle multiplies the underlying plaintext by s: (sB, sC, Y).
func (e Encryption) Reshuffle(s group.Scalar) (Encryption, error) {
	if err := checkValid(e); err != nil {
		return Encryption{}, err
	}
	return Encryption{
		B: e.B.Mult(s),
		C: e.C.Mult(s),
		Y: e.Y,
	}, nil
}

// Rekey changes the recipient key to k*Y while preserving the plaintext:
// (B/k, C, kY).
func (e Encryption) Rekey(k group.Scalar) (Encryption, error) {
	if err := checkValid(e); err != nil {
		return Encryption{}, err
	}
	return Encryption{
		B: e.B.Mult(k.Invert()),
		C: e.C,
		Y: e.Y.Mult(k),
	}, nil
}

// Decrypt returns C - sk*B as a bare GroupElement.
func (e Encryption) Decrypt(sk PrivateKey) group.GroupElement {
	return e.C.Sub(e.B.Mult(sk))
}

// Equal reports whether two encryptions are byte-identical (not whether
// they decrypt to the same plaintext: ElGamal ciphertexts for the same
// plaintext differ with overwhelming probability by design).
func (e Encryption) Equal(o Encryption) bool {
	return e.B.Equal(o.B) && e.C.Equal(o.C) && e.Y.Equal(o.Y)
}

// Encode returns the canonical 96-byte encoding B‖C‖Y.
func (e Encryption) Encode() []byte {
	out := make([]byte, 0, 96)
	out = append(out, e.B.Encode()...)
	out = append(out, e.C.Encode()...)
	out = append(out, e.Y.Encode()...)
	return out
}

// Decode parses the canonical 96-byte encoding.
func Decode(b []byte) (Encryption, error) {
	if len(b) != 96 {
		return Encryption{}, errs.New(errs.BadEncoding, "encryption requires 96 packed bytes")
	}
	bEl, err := group.DecodeElement(b[0:32])
	if err != nil {
		return Encryption{}, err
	}
	cEl, err := group.DecodeElement(b[32:64])
	if err != nil {
		return Encryption{}, err
	}
	yEl, err := group.DecodeElement(b[64:96])
	if err != nil {
		return Encryption{}, err
	}
	return Encryption{B: bEl, C: cEl, Y: yEl}, nil
}
