package rsk

import (
	"io"

	"github.com/pep-project/crypto-core/elgamal"
	"github.com/pep-project/crypto-core/errs"
	"github.com/pep-project/crypto-core/group"
)

func checkValidEncryption(e elgamal.Encryption) error {
	if e.Y.IsIdentity() {
		return errs.New(errs.ZeroPublicKey, "encryption has zero public key")
	}
	return nil
}

// RSK rerandomizes, reshuffles and rekeys encryption with reshuffle factor
// z and rekey factor k, without producing a proof. Ported from
// RskTranslator::rsk / RSKProof::certifiedRSK's transform half.
func RSK(encryption elgamal.Encryption, z, k group.Scalar) (elgamal.Encryption, error) {
	out, _, _, _, _, err := rskTransform(encryption, z, k, nil)
	return out, err
}

// rskTransform performs the (z,k)-RSK transform and returns the
// intermediate values a certified proof needs alongside the result, so
// CertifiedRSK does not recompute anything RSK already did.
func rskTransform(in elgamal.Encryption, z, k group.Scalar, rng io.Reader) (
	out elgamal.Encryption, zOverK group.Scalar, r group.Scalar, ry, rB group.GroupElement, err error,
) {
	if err = checkValidEncryption(in); err != nil {
		return
	}
	zOverK = z.Multiply(k.Invert())
	r, err = randomNonce(rng)
	if err != nil {
		return
	}
	ry = in.Y.Mult(r)
	rB = group.BaseMult(r)
	out = elgamal.Encryption{
		B: in.B.Add(rB).Mult(zOverK),
		C: in.C.Add(ry).Mult(z),
		Y: in.Y.Mult(k),
	}
	return
}

// RK rerandomizes and rekeys encryption, leaving the plaintext untouched.
// Ported from RskTranslator::rk; this is what the Transcryptor uses for a
// rekey-only translate step in DataTranslator (spec §4.6).
func RK(encryption elgamal.Encryption, k group.Scalar) (elgamal.Encryption, error) {
	rerandomized, err := encryption.Rerandomize()
	if err != nil {
		return elgamal.Encryption{}, err
	}
	return rerandomized.Rekey(k)
}

// RS rerandomizes and reshuffles encryption, leaving the recipient key
// untouched. Ported from RskTranslator::rs.
func RS(encryption elgamal.Encryption, z group.Scalar) (elgamal.Encryption, error) {
	rerandomized, err := encryption.Rerandomize()
	if err != nil {
		return elgamal.Encryption{}, err
	}
	return rerandomized.Reshuffle(z)
}

// CertifiedRSK performs the same transform as RSK and additionally returns
// an RSKProof that the transform was performed honestly. Pass a non-nil rng
// for deterministic testing; production callers pass nil to use
// crypto/rand.
func CertifiedRSK(encryption elgamal.Encryption, z, k group.Scalar, rng io.Reader) (elgamal.Encryption, RSKProof, error) {
	out, zOverK, r, ry, rB, err := rskTransform(encryption, z, k, rng)
	if err != nil {
		return elgamal.Encryption{}, RSKProof{}, err
	}
	proof, err := createRSKProof(
		encryption, out,
		z, group.BaseMult(z),
		zOverK, group.BaseMult(zOverK),
		r, ry, rB,
		rng,
	)
	if err != nil {
		return elgamal.Encryption{}, RSKProof{}, err
	}
	return out, proof, nil
}
