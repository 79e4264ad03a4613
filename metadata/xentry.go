package metadata

import (
	"github.com/pep-project/crypto-core/errs"
)

// MetadataXEntry is one named extra metadata entry, held either as
// plaintext or as an AES-GCM ciphertext depending on isEncrypted. Ported
// from MetadataXEntry in original_source/cpp/pep/morphing/Metadata.{hpp,cpp}.
type MetadataXEntry struct {
	payload        []byte
	storeEncrypted bool
	isEncrypted    bool
	bound          bool
}

// FromStored reconstructs an entry as it was read from storage: payload is
// ciphertext if encrypted is true.
func FromStored(payload []byte, encrypted, bound bool) MetadataXEntry {
	return MetadataXEntry{
		payload:        payload,
		storeEncrypted: encrypted,
		isEncrypted:    encrypted,
		bound:          bound,
	}
}

// FromPlaintext constructs an entry from plaintext, to be encrypted on
// write only if storeEncrypted is set.
func FromPlaintext(plaintext []byte, storeEncrypted, bound bool) MetadataXEntry {
	return MetadataXEntry{
		payload:        plaintext,
		storeEncrypted: storeEncrypted,
		isEncrypted:    false,
		bound:          bound,
	}
}

// StoreEncrypted reports whether this entry should be encrypted at rest.
func (e MetadataXEntry) StoreEncrypted() bool { return e.storeEncrypted }

// IsEncrypted reports whether payload currently holds ciphertext.
func (e MetadataXEntry) IsEncrypted() bool { return e.isEncrypted }

// Bound reports whether this entry is folded into the key-blinding
// additional data (see Metadata.ComputeKeyBlindingAdditionalData).
func (e MetadataXEntry) Bound() bool { return e.bound }

// PayloadForStore returns the payload to write to storage. Requires
// PrepareForStore to have been called first if StoreEncrypted is set.
func (e MetadataXEntry) PayloadForStore() ([]byte, error) {
	if e.storeEncrypted && !e.isEncrypted {
		return nil, errs.New(errs.BadEncoding, "metadata entry is not encrypted yet")
	}
	return e.payload, nil
}

// Plaintext returns the decrypted payload. Requires PreparePlaintext to
// have been called first if the entry currently holds ciphertext.
func (e MetadataXEntry) Plaintext() ([]byte, error) {
	if e.isEncrypted {
		return nil, errs.New(errs.BadEncoding, "metadata entry is not decrypted yet")
	}
	return e.payload, nil
}

// PrepareForStore returns a copy of e with its payload encrypted under
// aesKey and name, if StoreEncrypted requires it and it is not encrypted
// already.
func (e MetadataXEntry) PrepareForStore(aesKey []byte, name string) (MetadataXEntry, error) {
	if !e.storeEncrypted || e.isEncrypted {
		return e, nil
	}
	ciphertext, err := encryptEntry(aesKey, name, e.payload)
	if err != nil {
		return MetadataXEntry{}, err
	}
	result := e
	result.payload = ciphertext
	result.isEncrypted = true
	return result, nil
}

// PreparePlaintext returns a copy of e with its payload decrypted under
// aesKey and name, if it currently holds ciphertext.
func (e MetadataXEntry) PreparePlaintext(aesKey []byte, name string) (MetadataXEntry, error) {
	if !e.isEncrypted {
		return e, nil
	}
	plaintext, err := decryptEntry(aesKey, name, e.payload)
	if err != nil {
		return MetadataXEntry{}, err
	}
	result := e
	result.payload = plaintext
	result.isEncrypted = false
	return result, nil
}

// FileExtensionEntry builds the conventional "fileExtension" entry, ported
// from MetadataXEntry::MakeFileExtension.
func FileExtensionEntry(extension string) (string, MetadataXEntry) {
	return "fileExtension", FromPlaintext([]byte(extension), false, false)
}
