package translator

import (
	"github.com/pep-project/crypto-core/elgamal"
	"github.com/pep-project/crypto-core/group"
	"github.com/pep-project/crypto-core/rsk"
)

// PseudonymTranslationKeys are the long-lived secrets one party holds to
// translate polymorphic pseudonyms: a pseudonymization (reshuffle) secret,
// an encryption (rekey) secret, and this party's share of the master
// private encryption key. Ported from PseudonymTranslationKeys in
// rsk-pep/tests/PseudonymTranslator.test.cpp.
type PseudonymTranslationKeys struct {
	EncryptionKeyFactorSecret       rsk.KeyFactorSecret
	PseudonymizationKeyFactorSecret rsk.KeyFactorSecret
	MasterPrivateEncryptionKeyShare group.Scalar
}

// PseudonymTranslator performs one party's translation step in the
// multi-party RSK chain that turns a PolymorphicPseudonym into a
// LocalPseudonym for one recipient. Ported from RskTranslator and exercised
// through PseudonymTranslator's test cases.
type PseudonymTranslator struct {
	keys  PseudonymTranslationKeys
	cache *rsk.RSKCache
}

// NewPseudonymTranslator builds a translator over keys with its own RSK
// verifier cache.
func NewPseudonymTranslator(keys PseudonymTranslationKeys) *PseudonymTranslator {
	return &PseudonymTranslator{keys: keys, cache: rsk.NewRSKCache()}
}

func (t *PseudonymTranslator) keyFactors(r PseudonymRecipient) (reshuffle, rekey group.Scalar) {
	reshuffle = rsk.GenerateKeyFactor(t.keys.PseudonymizationKeyFactorSecret, domainPseudonym, uint32(r.Type), []byte(r.Reshuffle))
	rekey = rsk.GenerateKeyFactor(t.keys.EncryptionKeyFactorSecret, domainPseudonym, uint32(r.Type), []byte(r.Rekey))
	return
}

// TranslateStep performs this translator's RSK step for recipient, without
// a proof.
func (t *PseudonymTranslator) TranslateStep(encryption elgamal.Encryption, recipient PseudonymRecipient) (elgamal.Encryption, error) {
	z, k := t.keyFactors(recipient)
	return rsk.RSK(encryption, z, k)
}

// CertifiedTranslateStep performs this translator's RSK step for recipient
// and additionally returns a proof that it did so honestly.
func (t *PseudonymTranslator) CertifiedTranslateStep(encryption elgamal.Encryption, recipient PseudonymRecipient) (elgamal.Encryption, rsk.RSKProof, error) {
	z, k := t.keyFactors(recipient)
	return t.cache.CertifiedRSK(encryption, z, k, nil)
}

// ComputeTranslationProofVerifiers computes the RSKVerifiers that a
// CertifiedTranslateStep proof for recipient must verify against.
func (t *PseudonymTranslator) ComputeTranslationProofVerifiers(recipient PseudonymRecipient, masterPublicEncryptionKey group.GroupElement) rsk.RSKVerifiers {
	z, k := t.keyFactors(recipient)
	return t.cache.Verifiers(z, k, masterPublicEncryptionKey)
}

// CheckTranslationProof verifies that post is the honest translation of pre
// for recipient, given verifiers from ComputeTranslationProofVerifiers.
func (t *PseudonymTranslator) CheckTranslationProof(pre, post elgamal.Encryption, proof rsk.RSKProof, verifiers rsk.RSKVerifiers) error {
	return proof.Verify(pre, post, verifiers)
}

// GenerateKeyComponent returns this translator's contribution to the final
// decryption key for recipient. Once every translator in the chain has
// performed its TranslateStep, multiplying all of their key components
// together yields the private key that decrypts the fully translated
// pseudonym.
func (t *PseudonymTranslator) GenerateKeyComponent(recipient PseudonymRecipient) group.Scalar {
	_, rekey := t.keyFactors(recipient)
	return rekey.Multiply(t.keys.MasterPrivateEncryptionKeyShare)
}
