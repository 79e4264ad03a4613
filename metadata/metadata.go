// Package metadata implements the per-page Metadata document and the
// key-blinding additional data derived from it: the bytes a translator
// folds into a data ciphertext's blinding factor so that page content
// cannot be unblinded without also supplying the metadata it was written
// under. Grounded on
// original_source/cpp/pep/morphing/Metadata.{hpp,cpp}.
package metadata

import (
	"crypto/sha256"
	"encoding/binary"
	"sort"
	"time"

	"github.com/pep-project/crypto-core/errs"
	"github.com/pep-project/crypto-core/pseudonym"
)

// KeyBlindingAdditionalData is the byte string a translator hashes into a
// blinding key factor, plus whether the translator should use that
// factor's inverse (V3 moved the inversion here from the unblinding side;
// see original_source issue references #719/#720 in Metadata.hpp).
type KeyBlindingAdditionalData struct {
	Content         []byte
	InvertComponent bool
}

// Metadata describes how one stored page was encrypted: under which
// scheme, tagged with what, as of what blinding timestamp, plus any extra
// named entries. Ported from Metadata in
// original_source/cpp/pep/morphing/Metadata.hpp.
type Metadata struct {
	blindingTimestamp      time.Time
	tag                    string
	scheme                 EncryptionScheme
	originalPayloadEntryID *string
	extra                  map[string]MetadataXEntry
}

// New constructs a Metadata tagged tag, blinded as of blindingTimestamp,
// under scheme.
func New(tag string, blindingTimestamp time.Time, scheme EncryptionScheme) *Metadata {
	return &Metadata{
		blindingTimestamp: blindingTimestamp,
		tag:               tag,
		scheme:            scheme,
		extra:             make(map[string]MetadataXEntry),
	}
}

// BlindingTimestamp returns the timestamp this metadata was blinded at.
func (m *Metadata) BlindingTimestamp() time.Time { return m.blindingTimestamp }

// SetBlindingTimestamp updates the blinding timestamp.
func (m *Metadata) SetBlindingTimestamp(ts time.Time) { m.blindingTimestamp = ts }

// Tag returns the metadata's tag.
func (m *Metadata) Tag() string { return m.tag }

// SetTag updates the tag.
func (m *Metadata) SetTag(tag string) { m.tag = tag }

// Scheme returns the encryption scheme.
func (m *Metadata) Scheme() EncryptionScheme { return m.scheme }

// SetScheme updates the encryption scheme.
func (m *Metadata) SetScheme(scheme EncryptionScheme) { m.scheme = scheme }

// OriginalPayloadEntryID returns the id of the payload entry this metadata
// was originally stored alongside, if any.
func (m *Metadata) OriginalPayloadEntryID() (string, bool) {
	if m.originalPayloadEntryID == nil {
		return "", false
	}
	return *m.originalPayloadEntryID, true
}

// SetOriginalPayloadEntryID sets the original payload entry id.
func (m *Metadata) SetOriginalPayloadEntryID(id string) { m.originalPayloadEntryID = &id }

// Extra returns the live map of extra named entries. Callers must not rely
// on iteration order from range over this map: ComputeKeyBlindingAdditionalData
// sorts by name internally for its own purposes.
func (m *Metadata) Extra() map[string]MetadataXEntry {
	if m.extra == nil {
		m.extra = make(map[string]MetadataXEntry)
	}
	return m.extra
}

// Decrypt returns a copy of m with every extra entry's payload decrypted
// under aesKey.
func (m *Metadata) Decrypt(aesKey []byte) (*Metadata, error) {
	result := *m
	result.extra = make(map[string]MetadataXEntry, len(m.extra))
	for name, xentry := range m.extra {
		plain, err := xentry.PreparePlaintext(aesKey, name)
		if err != nil {
			return nil, err
		}
		result.extra[name] = plain
	}
	return &result, nil
}

// GetBound returns a copy of m containing only the fields and extra
// entries that are cryptographically bound: the tag, timestamp, scheme,
// and every entry with Bound() set. Ported from Metadata::getBound.
func (m *Metadata) GetBound() *Metadata {
	result := &Metadata{
		blindingTimestamp: m.blindingTimestamp,
		tag:               m.tag,
		scheme:            m.scheme,
		extra:             make(map[string]MetadataXEntry),
	}
	for name, xentry := range m.extra {
		if xentry.Bound() {
			result.extra[name] = xentry
		}
	}
	return result
}

func packUint64BE(v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return b[:]
}

// ComputeKeyBlindingAdditionalData computes the additional data a
// translator binds a data ciphertext's blinding factor to, for the subject
// identified by localPseudonym. Ported verbatim from
// Metadata::computeKeyBlindingAdditionalData.
func (m *Metadata) ComputeKeyBlindingAdditionalData(localPseudonym pseudonym.LocalPseudonym) (KeyBlindingAdditionalData, error) {
	switch m.scheme {
	case SchemeV1:
		return m.keyBlindingAdditionalDataV1(localPseudonym), nil
	case SchemeV2:
		return m.keyBlindingAdditionalDataV2(), nil
	case SchemeV3:
		return m.keyBlindingAdditionalDataV3(localPseudonym)
	default:
		return KeyBlindingAdditionalData{}, errs.New(errs.UnknownScheme, "unknown blinding encryption scheme")
	}
}

// keyBlindingAdditionalDataV1 is a frozen, accept-only reconstruction of
// the legacy scheme: the original hashed a protobuf serialization of
// Metadata, which is not stable and is unavailable here. It exists so
// V1-tagged data already in storage can still be read back; New takes the
// scheme explicitly and does not reject SchemeV1, so producing V1 only for
// reads is up to the caller (SchemeLatest names the scheme for new writes).
// See DESIGN.md's Open Question resolution.
func (m *Metadata) keyBlindingAdditionalDataV1(localPseudonym pseudonym.LocalPseudonym) KeyBlindingAdditionalData {
	h := sha256.New()
	h.Write(localPseudonym.Point().Encode())
	h.Write(packUint64BE(uint64(SchemeV1)))
	h.Write(packUint64BE(uint64(m.blindingTimestamp.UnixMilli())))
	h.Write([]byte(m.tag))
	return KeyBlindingAdditionalData{Content: h.Sum(nil), InvertComponent: false}
}

func (m *Metadata) keyBlindingAdditionalDataV2() KeyBlindingAdditionalData {
	var buf []byte
	buf = append(buf, packUint64BE(uint64(SchemeV2))...)
	buf = append(buf, packUint64BE(uint64(m.blindingTimestamp.UnixMilli()))...)
	buf = append(buf, packUint64BE(uint64(len(m.tag)))...)
	buf = append(buf, []byte(m.tag)...)
	return KeyBlindingAdditionalData{Content: buf, InvertComponent: false}
}

// keyBlindingAdditionalDataV3 additionally binds the local pseudonym and
// every bound extra entry, in ascending name order so the result is
// independent of map iteration order. For backwards compatibility, nothing
// is appended beyond the pseudonym when there are no bound entries.
func (m *Metadata) keyBlindingAdditionalDataV3(localPseudonym pseudonym.LocalPseudonym) (KeyBlindingAdditionalData, error) {
	var buf []byte
	buf = append(buf, packUint64BE(uint64(SchemeV3))...)
	buf = append(buf, packUint64BE(uint64(m.blindingTimestamp.UnixMilli()))...)
	buf = append(buf, packUint64BE(uint64(len(m.tag)))...)
	buf = append(buf, []byte(m.tag)...)
	buf = append(buf, localPseudonym.Point().Encode()...)

	names := make([]string, 0, len(m.extra))
	for name := range m.extra {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		xentry := m.extra[name]
		if !xentry.Bound() {
			continue
		}
		payload, err := xentry.PayloadForStore()
		if err != nil {
			return KeyBlindingAdditionalData{}, err
		}
		buf = append(buf, packUint64BE(uint64(len(name)))...)
		buf = append(buf, []byte(name)...)
		buf = append(buf, packUint64BE(uint64(len(payload)))...)
		buf = append(buf, payload...)
		if xentry.StoreEncrypted() {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
	}

	return KeyBlindingAdditionalData{Content: buf, InvertComponent: true}, nil
}
