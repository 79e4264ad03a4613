package rsk

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"

	"github.com/pep-project/crypto-core/errs"
	"github.com/pep-project/crypto-core/group"
)

// KeyFactorSecretBytes is the length of a KeyFactorSecret.
const KeyFactorSecretBytes = 64

// KeyFactorSecret is a long-lived HMAC key from which a translator derives
// deterministic per-recipient key factors. Held once per translator for the
// lifetime of the process (spec §3 Lifecycles).
type KeyFactorSecret struct {
	key [KeyFactorSecretBytes]byte
}

// NewKeyFactorSecret copies b into a KeyFactorSecret.
func NewKeyFactorSecret(b []byte) (KeyFactorSecret, error) {
	if len(b) != KeyFactorSecretBytes {
		return KeyFactorSecret{}, errs.New(errs.BadEncoding, "key factor secret requires 64 bytes")
	}
	var s KeyFactorSecret
	copy(s.key[:], b)
	return s, nil
}

// Bytes returns the raw HMAC key.
func (s KeyFactorSecret) Bytes() []byte {
	return s.key[:]
}

// Zeroize overwrites the secret in place. Go cannot guarantee a value type
// is scrubbed from every copy the runtime made (stack slots, GC-moved
// memory), but this mirrors the teacher's best-effort `clear` helper and
// the spec §5 zeroize-on-drop policy for whatever reference the caller
// still holds.
func (s *KeyFactorSecret) Zeroize() {
	for i := range s.key {
		s.key[i] = 0
	}
}

// GenerateKeyFactor derives the deterministic scalar a translator uses as a
// reshuffle or rekey factor for one recipient: HMAC-SHA512 under secret,
// over SHA256(domain ‖ recipientType ‖ recipientPayload), reduced into a
// scalar. Ported from RskTranslator::generateKeyFactor in
// original_source/cpp/pep/rsk/RskTranslator.cpp. The caller (translator
// package) owns turning a Recipient value into (domain, recipientType,
// recipientPayload); this function only owns the hash-then-HMAC-then-reduce
// pipeline.
func GenerateKeyFactor(secret KeyFactorSecret, domain uint32, recipientType uint32, recipientPayload []byte) group.Scalar {
	h := sha256.New()
	var be [4]byte
	binary.BigEndian.PutUint32(be[:], domain)
	h.Write(be[:])
	binary.BigEndian.PutUint32(be[:], recipientType)
	h.Write(be[:])
	h.Write(recipientPayload)
	digest := h.Sum(nil)

	mac := hmac.New(sha512.New, secret.Bytes())
	mac.Write(digest)
	wide := mac.Sum(nil)

	s, err := group.ScalarFrom64Bytes(wide)
	if err != nil {
		panic("rsk: impossible scalar reduction failure: " + err.Error())
	}
	return s
}
