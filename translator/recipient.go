// Package translator implements the multi-party translation protocols
// built on top of rsk.RSK: PseudonymTranslator moves a polymorphic
// pseudonym through a chain of parties until it becomes a local pseudonym
// for one recipient; DataTranslator does the same for an encrypted data
// key, plus a blind/unblind step the Access Manager uses to bind a
// ciphertext to request-specific additional data before the Transcryptor
// ever sees it. Grounded on original_source/cpp/pep/rsk/RskTranslator.{hpp,cpp}
// and the two rsk-pep/tests/*Translator.test.cpp files, which are the only
// surviving specification of the call shape (DataTranslator.{hpp,cpp}
// itself was not present in the retrieved source).
package translator

// PartyKind identifies the category of party a key factor is generated
// for: user, Access Manager, Transcryptor, Storage Facility, Registration
// Server, Key Server. A closed, small enum rather than a free-form string
// so a recipient payload collision between party kinds can never happen.
type PartyKind uint32

const (
	PartyUser PartyKind = iota + 1
	PartyAccessManager
	PartyTranscryptor
	PartyStorageFacility
	PartyRegistrationServer
	PartyKeyServer
)

// Key-factor domains distinguish pseudonym key factors from data key
// factors, per spec §4.5: "Domain tags distinguish pseudonym vs. data key
// factors; recipient-type tags distinguish user groups from servers." One
// domain tag per translator, shared by both its reshuffle and rekey key
// factor derivations.
const (
	domainPseudonym uint32 = 1
	domainData      uint32 = 2
)

// PseudonymRecipient names a target for a full (reshuffle+rekey) pseudonym
// translation step. Reshuffle moves the pseudonym into a new shuffling
// domain (e.g. a study group); Rekey moves it to the party that will
// ultimately decrypt it. Ported from PseudonymTranslator::Recipient in
// rsk-pep/tests/PseudonymTranslator.test.cpp.
type PseudonymRecipient struct {
	Type      PartyKind
	Reshuffle string
	Rekey     string
}

// DataRecipient names a target for a data (rekey-only) translation step.
// Ported from DataTranslator::Recipient in
// rsk-pep/tests/DataTranslator.test.cpp.
type DataRecipient struct {
	Type    PartyKind
	Payload string
}
