// Package rsk implements the RSK (rerandomize-shuffle-key) composite
// ElGamal translation, its Fiat-Shamir zero-knowledge proof, a verifier
// precomputation cache, and the long-lived HMAC secret type translators
// use to derive key factors. Grounded on
// original_source/cpp/pep/rsk/{Proofs,RskTranslator}.{hpp,cpp}.
package rsk

import (
	"io"

	"github.com/pep-project/crypto-core/elgamal"
	"github.com/pep-project/crypto-core/errs"
	"github.com/pep-project/crypto-core/group"
)

// ScalarMultProof proves knowledge of x such that A = x*G and N = x*M,
// without revealing x. Ported verbatim from
// original_source/cpp/pep/rsk/Proofs.cpp.
type ScalarMultProof struct {
	CB group.GroupElement
	CM group.GroupElement
	S  group.Scalar
}

func scalarMultChallenge(a, m, n, cb, cm group.GroupElement) group.Scalar {
	packed := make([]byte, 0, group.ElementPackedBytes*5)
	packed = append(packed, a.Encode()...)
	packed = append(packed, m.Encode()...)
	packed = append(packed, n.Encode()...)
	packed = append(packed, cb.Encode()...)
	packed = append(packed, cm.Encode()...)
	return shortHashScalar(packed)
}

// CreateScalarMultProof constructs a proof that A = x*G and N = x*M, using
// rng for the nonce. Pass nil to use the package's default CPRNG
// (crypto/rand via group.RandomScalar).
func CreateScalarMultProof(a, m, n group.GroupElement, x group.Scalar, rng io.Reader) (ScalarMultProof, error) {
	nonce, err := randomNonce(rng)
	if err != nil {
		return ScalarMultProof{}, err
	}
	cb := group.BaseMult(nonce)
	cm := m.Mult(nonce)
	challenge := scalarMultChallenge(a, m, n, cb, cm)
	return ScalarMultProof{
		CB: cb,
		CM: cm,
		S:  nonce.Add(challenge.Multiply(x)),
	}, nil
}

func randomNonce(rng io.Reader) (group.Scalar, error) {
	if rng == nil {
		return group.RandomScalar(), nil
	}
	return group.RandomScalarFrom(rng)
}

// Verify checks the proof against the public statement (A, M, N).
func (p ScalarMultProof) Verify(a, m, n group.GroupElement) error {
	return p.verifyWithTable(a, nil, m, n)
}

// verifyWithTable is Verify, but multiplies a by the challenge through
// aTable (if non-nil) instead of a.PublicMult, for callers that have a
// precomputed fixed-base table for the recurring point a.
func (p ScalarMultProof) verifyWithTable(a group.GroupElement, aTable *group.ScalarMultTable, m, n group.GroupElement) error {
	challenge := scalarMultChallenge(a, m, n, p.CB, p.CM)
	lhs1 := group.BaseMult(p.S)
	var aMult group.GroupElement
	if aTable != nil {
		aMult = aTable.PublicMult(challenge)
	} else {
		aMult = a.PublicMult(challenge)
	}
	rhs1 := aMult.Add(p.CB)
	lhs2 := m.PublicMult(p.S)
	rhs2 := n.PublicMult(challenge).Add(p.CM)
	if !lhs1.Equal(rhs1) || !lhs2.Equal(rhs2) {
		return errs.New(errs.InvalidProof, "scalar-mult proof challenge mismatch")
	}
	return nil
}

// RSKVerifiers precomputes the three fixed points a recipient's RSK proofs
// verify against: (Z/K)*G, Z*G and K*Y_master. Computing these once per
// recipient (rather than per proof) is the whole point of the RSK cache.
type RSKVerifiers struct {
	ZOverKG group.GroupElement
	ZG      group.GroupElement
	KY      group.GroupElement
}

// ComputeRSKVerifiers computes the verifiers for reshuffle factor z, rekey
// factor k and master public key y.
func ComputeRSKVerifiers(z, k group.Scalar, y group.GroupElement) RSKVerifiers {
	zOverK := z.Multiply(k.Invert())
	return RSKVerifiers{
		ZOverKG: group.BaseMult(zOverK),
		ZG:      group.BaseMult(z),
		KY:      y.Mult(k),
	}
}

// Equal reports whether two RSKVerifiers are identical.
func (v RSKVerifiers) Equal(o RSKVerifiers) bool {
	return v.ZOverKG.Equal(o.ZOverKG) && v.ZG.Equal(o.ZG) && v.KY.Equal(o.KY)
}

// RSKProof proves that post is the (z,k)-RSK of pre, without revealing z,
// k, or the rerandomizer r. Ported verbatim from
// original_source/cpp/pep/rsk/Proofs.cpp.
type RSKProof struct {
	RY group.GroupElement
	RB group.GroupElement
	RP ScalarMultProof // knowledge of r: RB = r*G, RY = r*Y_pre
	BP ScalarMultProof // knowledge of z/k: B_post = (z/k)*(B_pre + RB)
	CP ScalarMultProof // knowledge of z: C_post = z*(C_pre + RY)
}

// createRSKProof builds the proof given all the intermediate values a
// certified RSK computation already produced.
func createRSKProof(
	pre, post elgamal.Encryption,
	z group.Scalar, zG group.GroupElement,
	zOverK group.Scalar, zOverKG group.GroupElement,
	r group.Scalar, ry, rB group.GroupElement,
	rng io.Reader,
) (RSKProof, error) {
	rp, err := CreateScalarMultProof(rB, pre.Y, ry, r, rng)
	if err != nil {
		return RSKProof{}, err
	}
	bp, err := CreateScalarMultProof(zOverKG, pre.B.Add(rB), post.B, zOverK, rng)
	if err != nil {
		return RSKProof{}, err
	}
	cp, err := CreateScalarMultProof(zG, pre.C.Add(ry), post.C, z, rng)
	if err != nil {
		return RSKProof{}, err
	}
	return RSKProof{RY: ry, RB: rB, RP: rp, BP: bp, CP: cp}, nil
}

// Verify checks the proof that post is the RSK of pre under the recipient
// described by verifiers.
func (p RSKProof) Verify(pre, post elgamal.Encryption, verifiers RSKVerifiers) error {
	return p.verifyWithTables(pre, post, verifiers, nil)
}

// verifyWithTables is Verify, but routes the BP/CP sub-proof checks through
// tables' precomputed fixed-base tables when available (RSKCache's job).
// The RP sub-proof checks RB, which varies per proof and so is never
// table-backed.
func (p RSKProof) verifyWithTables(pre, post elgamal.Encryption, verifiers RSKVerifiers, tables *rskVerifierTables) error {
	if err := p.RP.Verify(p.RB, pre.Y, p.RY); err != nil {
		return err
	}
	var zOverKGTable, zGTable *group.ScalarMultTable
	if tables != nil {
		zOverKGTable = tables.zOverKG
		zGTable = tables.zG
	}
	if err := p.BP.verifyWithTable(verifiers.ZOverKG, zOverKGTable, pre.B.Add(p.RB), post.B); err != nil {
		return err
	}
	if err := p.CP.verifyWithTable(verifiers.ZG, zGTable, pre.C.Add(p.RY), post.C); err != nil {
		return err
	}
	if !post.Y.Equal(verifiers.KY) {
		return errs.New(errs.InvalidProof, "post.Y does not match K*Y_pre")
	}
	return nil
}
