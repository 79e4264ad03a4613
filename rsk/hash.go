package rsk

import (
	"golang.org/x/crypto/sha3"

	"github.com/pep-project/crypto-core/group"
)

// shortHashScalar maps bytes to a scalar for Fiat-Shamir challenges: it
// keeps only the first 16 bytes (128-bit equivalent) of a SHA3-512 digest,
// zero-extended to 64 bytes before the wide reduction. 128 bits of
// challenge is ample soundness for a discrete-log proof while keeping the
// hash short, per spec §4.4 and the Open Question in spec §9.
func shortHashScalar(data []byte) group.Scalar {
	digest := sha3.Sum512(data)
	wide := make([]byte, 64)
	copy(wide, digest[:16])
	s, err := group.ScalarFrom64Bytes(wide)
	if err != nil {
		panic("rsk: impossible scalar reduction failure: " + err.Error())
	}
	return s
}

// DeriveBlindingFactor computes the scalar a DataTranslator blinds or
// unblinds a data ciphertext's plaintext with: ShortHash(secret ∥
// additionalData). Ported verbatim from spec §4.6's `b =
// ShortHash(blinding_secret ∥ additional_data)`.
func DeriveBlindingFactor(secret KeyFactorSecret, additionalData []byte) group.Scalar {
	packed := make([]byte, 0, KeyFactorSecretBytes+len(additionalData))
	packed = append(packed, secret.Bytes()...)
	packed = append(packed, additionalData...)
	return shortHashScalar(packed)
}

// fullHashScalar maps bytes to a scalar using the entire SHA3-512 digest.
// Nothing in this module calls it (the V1 metadata digest is SHA-256 in the
// metadata package); it is kept distinct from shortHashScalar per spec §9's
// note that the two hash-to-scalar variants must not be conflated.
func fullHashScalar(data []byte) group.Scalar {
	digest := sha3.Sum512(data)
	s, err := group.ScalarFrom64Bytes(digest[:])
	if err != nil {
		panic("rsk: impossible scalar reduction failure: " + err.Error())
	}
	return s
}
