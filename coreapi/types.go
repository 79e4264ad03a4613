// Package coreapi defines the Go-native shapes of the interfaces spec §6
// names between the cryptographic core and its two collaborators: the RPC
// layer (inbound requests) and the authorization layer (outbound recipient
// resolution). It implements no transport, no certificate parsing, and no
// wire encoding — those are explicitly out of scope per spec §1's
// Non-goals; this package only wires translator/pseudonym/rsk operations
// behind the call shapes §6 describes in prose.
package coreapi

import (
	"github.com/google/uuid"

	"github.com/pep-project/crypto-core/group"
	"github.com/pep-project/crypto-core/pseudonym"
	"github.com/pep-project/crypto-core/rsk"
	"github.com/pep-project/crypto-core/translator"
)

// Certificate is an opaque, already-verified signatory handed to the core
// by the RPC layer. The core never parses it; it is passed straight
// through to AuthorizationPolicy.RecipientFor.
type Certificate any

// Recipient is what an AuthorizationPolicy resolves a certificate to: the
// pseudonym recipient descriptor this caller is always entitled to, plus a
// data recipient descriptor when (and only when) the policy also grants
// data access. A nil Data field is the "data access?" decision from §6
// resolving to no.
type Recipient struct {
	Pseudonym translator.PseudonymRecipient
	Data      *translator.DataRecipient
}

// AuthorizationPolicy resolves a verified certificate to the Recipient
// descriptor the core should translate toward. Implementations live in the
// RPC/authorization layer; the core only calls this interface.
type AuthorizationPolicy interface {
	RecipientFor(cert Certificate) (Recipient, error)
}

// KeyComponentRequest carries the caller's verified certificate chain,
// addressed by RequestID for correlation across the RPC boundary.
type KeyComponentRequest struct {
	RequestID   uuid.UUID
	Certificate Certificate
}

// KeyComponentResponse carries the translator's pseudonym key component for
// the resolved recipient, plus the data key component when the
// AuthorizationPolicy granted data access. Each component is the
// translator's rekey factor for the recipient times its master key share.
type KeyComponentResponse struct {
	RequestID          uuid.UUID
	PseudonymComponent group.Scalar
	DataComponent      *group.Scalar
}

// VerifiersResponse bundles the RSKVerifiers each of the three
// pseudonym-translation parties computes and publishes once at startup, so
// a caller verifying a CertifiedTranslateStep proof from any of them does
// not need per-request verifier computation.
type VerifiersResponse struct {
	AccessManager   rsk.RSKVerifiers
	StorageFacility rsk.RSKVerifiers
	Transcryptor    rsk.RSKVerifiers
}

// TicketTranslationRequest carries a batch of EncryptedLocalPseudonyms
// produced by a prior translator in the chain, plus the recipient this
// party should translate them toward. Batch order is preserved in the
// corresponding TicketTranslationResult slice.
type TicketTranslationRequest struct {
	RequestID uuid.UUID
	Batch     []pseudonym.EncryptedLocalPseudonym
	Recipient translator.PseudonymRecipient
}

// TicketTranslationResult is one batch element's outcome. Per spec §7, "a
// single failed proof on a batch invalidates only that batch element" — a
// failing element carries Err and a zero Translated value rather than
// aborting the rest of the batch.
type TicketTranslationResult struct {
	Translated pseudonym.EncryptedLocalPseudonym
	Err        error
}
