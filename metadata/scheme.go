package metadata

// EncryptionScheme selects how a stored page's metadata is serialized and
// cryptographically bound to the key-blinding step, and therefore how page
// content is (un)blinded on read. Ported from EncryptionScheme in
// original_source/cpp/pep/morphing/Metadata.hpp.
type EncryptionScheme int

const (
	// SchemeV1 serializes metadata with an unstable (protobuf-shaped)
	// encoding and does not bind extra entries at all. Frozen: this
	// implementation only ever consumes V1 data written by older code, it
	// never produces it.
	SchemeV1 EncryptionScheme = iota
	// SchemeV2 uses a stable encoding of the tag and timestamp, still
	// without binding extra entries.
	SchemeV2
	// SchemeV3 additionally binds the local pseudonym and every bound
	// extra entry, and inverts the blinding component rather than the
	// unblinding component.
	SchemeV3

	// SchemeLatest is an alias for the scheme new writes should use.
	SchemeLatest = SchemeV3
)

func (s EncryptionScheme) String() string {
	switch s {
	case SchemeV1:
		return "v1"
	case SchemeV2:
		return "v2"
	case SchemeV3:
		return "v3"
	default:
		return "unknown"
	}
}
