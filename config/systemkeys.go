// Package config decodes the SystemKeys document spec §6 names: the
// hex-encoded long-lived secrets one party process holds, turned into the
// translator.PseudonymTranslationKeys / translator.DataTranslationKeys a
// PseudonymTranslator or DataTranslator is constructed from. Loading a
// config *file* (watching it, merging environment variables, wiring a CLI
// flag) is explicitly out of scope per spec §1's Non-goals; this package
// only owns the document's data shape and its decode-time validation.
package config

import (
	"encoding/hex"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/pep-project/crypto-core/errs"
	"github.com/pep-project/crypto-core/group"
	"github.com/pep-project/crypto-core/rsk"
	"github.com/pep-project/crypto-core/translator"
)

// SystemKeys is the document spec §6 describes (field names illustrative
// there; kept verbatim here for fidelity). A party that never constructs a
// PseudonymTranslator or DataTranslator locally may simply never call the
// corresponding conversion method below. A nil DataBlindingSecret marks the
// data translator as transcryptor-class; a nil PseudonymBlindingSecret makes
// PseudonymTranslationKeys fail with MissingSecret.
type SystemKeys struct {
	PseudonymKeyFactorSecret       string  `yaml:"pseudonym_key_factor_secret"`
	PseudonymBlindingSecret        *string `yaml:"pseudonym_blinding_secret,omitempty"`
	PseudonymMasterPrivateKeyShare string  `yaml:"pseudonym_master_private_key_share"`
	DataKeyFactorSecret            string  `yaml:"data_key_factor_secret"`
	DataBlindingSecret             *string `yaml:"data_blinding_secret,omitempty"`
	DataMasterPrivateKeyShare      string  `yaml:"data_master_private_key_share"`
}

// Load decodes a SystemKeys document from r. It performs no hex or field
// validation beyond YAML structure; call PseudonymTranslationKeys /
// DataTranslationKeys to validate and decode the secrets themselves.
func Load(r io.Reader) (*SystemKeys, error) {
	var sk SystemKeys
	if err := yaml.NewDecoder(r).Decode(&sk); err != nil {
		return nil, errs.Wrap(errs.BadEncoding, "decoding SystemKeys document", err)
	}
	return &sk, nil
}

func decodeKeyFactorSecret(field, hexStr string) (rsk.KeyFactorSecret, error) {
	b, err := hex.DecodeString(hexStr)
	if err != nil {
		return rsk.KeyFactorSecret{}, errs.Wrap(errs.BadEncoding, field+" is not valid hex", err)
	}
	s, err := rsk.NewKeyFactorSecret(b)
	if err != nil {
		return rsk.KeyFactorSecret{}, err
	}
	return s, nil
}

func decodeMasterKeyShare(field, hexStr string) (group.Scalar, error) {
	b, err := hex.DecodeString(hexStr)
	if err != nil {
		return group.Scalar{}, errs.Wrap(errs.BadEncoding, field+" is not valid hex", err)
	}
	s, err := group.DecodeScalar(b)
	if err != nil {
		return group.Scalar{}, err
	}
	return s, nil
}

// PseudonymTranslationKeys decodes the fields a PseudonymTranslator needs.
// Per spec §4.5 a PseudonymTranslator's state is never partial — every
// party translating pseudonyms reshuffles and rekeys — so a missing
// pseudonym_blinding_secret is a MissingSecret configuration error here,
// not an optional transcryptor-class degradation (that degradation is
// DataTranslator-only, per §4.6).
func (sk *SystemKeys) PseudonymTranslationKeys() (translator.PseudonymTranslationKeys, error) {
	rekey, err := decodeKeyFactorSecret("pseudonym_key_factor_secret", sk.PseudonymKeyFactorSecret)
	if err != nil {
		return translator.PseudonymTranslationKeys{}, err
	}
	if sk.PseudonymBlindingSecret == nil {
		return translator.PseudonymTranslationKeys{}, errs.New(errs.MissingSecret, "pseudonym_blinding_secret is required to construct a PseudonymTranslator")
	}
	reshuffle, err := decodeKeyFactorSecret("pseudonym_blinding_secret", *sk.PseudonymBlindingSecret)
	if err != nil {
		return translator.PseudonymTranslationKeys{}, err
	}
	share, err := decodeMasterKeyShare("pseudonym_master_private_key_share", sk.PseudonymMasterPrivateKeyShare)
	if err != nil {
		return translator.PseudonymTranslationKeys{}, err
	}
	return translator.PseudonymTranslationKeys{
		EncryptionKeyFactorSecret:       rekey,
		PseudonymizationKeyFactorSecret: reshuffle,
		MasterPrivateEncryptionKeyShare: share,
	}, nil
}

// DataTranslationKeys decodes the fields a DataTranslator needs. Absence of
// data_blinding_secret is valid: it marks this party as transcryptor-class
// (§4.6), so TranslateStep works but Blind/UnblindAndTranslate return
// MissingSecret.
func (sk *SystemKeys) DataTranslationKeys() (translator.DataTranslationKeys, error) {
	rekey, err := decodeKeyFactorSecret("data_key_factor_secret", sk.DataKeyFactorSecret)
	if err != nil {
		return translator.DataTranslationKeys{}, err
	}
	share, err := decodeMasterKeyShare("data_master_private_key_share", sk.DataMasterPrivateKeyShare)
	if err != nil {
		return translator.DataTranslationKeys{}, err
	}
	keys := translator.DataTranslationKeys{
		EncryptionKeyFactorSecret:       rekey,
		MasterPrivateEncryptionKeyShare: share,
	}
	if sk.DataBlindingSecret != nil {
		blinding, err := decodeKeyFactorSecret("data_blinding_secret", *sk.DataBlindingSecret)
		if err != nil {
			return translator.DataTranslationKeys{}, err
		}
		keys.BlindingKeySecret = &blinding
	}
	return keys, nil
}
