package metadata

import (
	"crypto/aes"
	"crypto/cipher"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/sha3"

	"github.com/pep-project/crypto-core/errs"
)

const (
	aesKeySize   = 32
	gcmNonceSize = 12
)

// deriveEntryKeyNonce derives a per-entry AES-256 key and GCM nonce from the
// page's AES key and the entry's name, via HKDF-SHA3-512. Ported from the
// teacher's deriveHKDFKeys (hkdf.New(sha3.New512, secret, nil, info)) in
// _examples/avahowell-occlude/crypto.go, generalized from a fixed
// auth/cipher key pair to an arbitrary-length read so the entry name can
// serve as HKDF's info parameter and domain-separate every entry's key
// material from every other's under the same page key.
func deriveEntryKeyNonce(aesKey []byte, entryName string) (cipherKey, nonce []byte, err error) {
	kdf := hkdf.New(sha3.New512, aesKey, nil, []byte(entryName))
	cipherKey = make([]byte, aesKeySize)
	if _, err = io.ReadFull(kdf, cipherKey); err != nil {
		return nil, nil, errs.Wrap(errs.BadEncoding, "could not derive entry cipher key", err)
	}
	nonce = make([]byte, gcmNonceSize)
	if _, err = io.ReadFull(kdf, nonce); err != nil {
		return nil, nil, errs.Wrap(errs.BadEncoding, "could not derive entry nonce", err)
	}
	return cipherKey, nonce, nil
}

// encryptEntry seals plaintext under aesKey, AEAD-binding it to entryName.
func encryptEntry(aesKey []byte, entryName string, plaintext []byte) ([]byte, error) {
	cipherKey, nonce, err := deriveEntryKeyNonce(aesKey, entryName)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(cipherKey)
	if err != nil {
		return nil, errs.Wrap(errs.BadEncoding, "could not construct AES cipher", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errs.Wrap(errs.BadEncoding, "could not construct AES-GCM", err)
	}
	return gcm.Seal(nil, nonce, plaintext, []byte(entryName)), nil
}

// decryptEntry opens ciphertext previously produced by encryptEntry.
func decryptEntry(aesKey []byte, entryName string, ciphertext []byte) ([]byte, error) {
	cipherKey, nonce, err := deriveEntryKeyNonce(aesKey, entryName)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(cipherKey)
	if err != nil {
		return nil, errs.Wrap(errs.BadEncoding, "could not construct AES cipher", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errs.Wrap(errs.BadEncoding, "could not construct AES-GCM", err)
	}
	plaintext, err := gcm.Open(nil, nonce, ciphertext, []byte(entryName))
	if err != nil {
		return nil, errs.Wrap(errs.BadEncoding, "metadata entry authentication failed", err)
	}
	return plaintext, nil
}
