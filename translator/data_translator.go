package translator

import (
	"github.com/pep-project/crypto-core/elgamal"
	"github.com/pep-project/crypto-core/errs"
	"github.com/pep-project/crypto-core/group"
	"github.com/pep-project/crypto-core/rsk"
)

// DataTranslationKeys are the long-lived secrets one party holds to
// translate data ciphertexts: an encryption (rekey) secret, this party's
// share of the master private data-encryption key, and — only for the
// Access Manager — a blinding secret used to bind a ciphertext to
// request-specific additional data before the Transcryptor ever sees it.
// Ported from DataTranslator::Keys in
// rsk-pep/tests/DataTranslator.test.cpp.
type DataTranslationKeys struct {
	EncryptionKeyFactorSecret       rsk.KeyFactorSecret
	BlindingKeySecret               *rsk.KeyFactorSecret // nil for parties that never blind, e.g. the Transcryptor
	MasterPrivateEncryptionKeyShare group.Scalar
}

// DataTranslator performs one party's translation step for a data
// ciphertext: a rekey-only TranslateStep for parties without a blinding
// secret, or a Blind/UnblindAndTranslate pair for the party that does.
type DataTranslator struct {
	keys  DataTranslationKeys
	cache *rsk.RSKCache
}

// NewDataTranslator builds a translator over keys with its own RSK
// verifier cache.
func NewDataTranslator(keys DataTranslationKeys) *DataTranslator {
	return &DataTranslator{keys: keys, cache: rsk.NewRSKCache()}
}

func (t *DataTranslator) rekeyFactor(r DataRecipient) group.Scalar {
	return rsk.GenerateKeyFactor(t.keys.EncryptionKeyFactorSecret, domainData, uint32(r.Type), []byte(r.Payload))
}

// TranslateStep performs this translator's rekey-only step, for a party
// with no blinding secret (the Transcryptor).
func (t *DataTranslator) TranslateStep(encryption elgamal.Encryption, recipient DataRecipient) (elgamal.Encryption, error) {
	return rsk.RK(encryption, t.rekeyFactor(recipient))
}

// Blind multiplies encryption's plaintext by the blinding factor derived
// from additionalData (or its inverse, if invert is set). Only the party
// holding a blinding secret can call this.
func (t *DataTranslator) Blind(encryption elgamal.Encryption, additionalData []byte, invert bool) (elgamal.Encryption, error) {
	if t.keys.BlindingKeySecret == nil {
		return elgamal.Encryption{}, errs.New(errs.MissingSecret, "blinding key secret is not set")
	}
	b := rsk.DeriveBlindingFactor(*t.keys.BlindingKeySecret, additionalData)
	if invert {
		b = b.Invert()
	}
	return rsk.RS(encryption, b)
}

// UnblindAndTranslate reverses Blind's blinding factor and performs this
// translator's rekey step for recipient in a single RSK pass. invert must
// match the value passed to the corresponding Blind call.
func (t *DataTranslator) UnblindAndTranslate(encryption elgamal.Encryption, additionalData []byte, invert bool, recipient DataRecipient) (elgamal.Encryption, error) {
	if t.keys.BlindingKeySecret == nil {
		return elgamal.Encryption{}, errs.New(errs.MissingSecret, "blinding key secret is not set")
	}
	b := rsk.DeriveBlindingFactor(*t.keys.BlindingKeySecret, additionalData)
	// Blind applied b (or b^-1 if invert); undo exactly that here.
	if !invert {
		b = b.Invert()
	}
	return rsk.RSK(encryption, b, t.rekeyFactor(recipient))
}

// GenerateKeyComponent returns this translator's contribution to the final
// decryption key for recipient.
func (t *DataTranslator) GenerateKeyComponent(recipient DataRecipient) group.Scalar {
	return t.rekeyFactor(recipient).Multiply(t.keys.MasterPrivateEncryptionKeyShare)
}
