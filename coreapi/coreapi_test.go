package coreapi

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pep-project/crypto-core/errs"
	"github.com/pep-project/crypto-core/group"
	"github.com/pep-project/crypto-core/pseudonym"
	"github.com/pep-project/crypto-core/rsk"
	"github.com/pep-project/crypto-core/translator"
)

func newTranslators(t *testing.T) (*translator.PseudonymTranslator, *translator.DataTranslator, group.GroupElement) {
	t.Helper()
	pseudonymSecret1, err := rsk.NewKeyFactorSecret(make([]byte, rsk.KeyFactorSecretBytes))
	require.NoError(t, err)
	pseudonymSecret2, err := rsk.NewKeyFactorSecret(append(make([]byte, rsk.KeyFactorSecretBytes-1), 1))
	require.NoError(t, err)

	share := group.RandomScalar()
	pt := translator.NewPseudonymTranslator(translator.PseudonymTranslationKeys{
		EncryptionKeyFactorSecret:       pseudonymSecret1,
		PseudonymizationKeyFactorSecret: pseudonymSecret2,
		MasterPrivateEncryptionKeyShare: share,
	})

	blindingSecret, err := rsk.NewKeyFactorSecret(append(make([]byte, rsk.KeyFactorSecretBytes-1), 2))
	require.NoError(t, err)
	dataShare := group.RandomScalar()
	dt := translator.NewDataTranslator(translator.DataTranslationKeys{
		EncryptionKeyFactorSecret:       pseudonymSecret1,
		BlindingKeySecret:               &blindingSecret,
		MasterPrivateEncryptionKeyShare: dataShare,
	})

	return pt, dt, group.BaseMult(share)
}

type staticPolicy struct {
	recipient Recipient
	err       error
}

func (p staticPolicy) RecipientFor(Certificate) (Recipient, error) {
	return p.recipient, p.err
}

func TestKeyComponentHandlerGrantsPseudonymOnly(t *testing.T) {
	pt, dt, _ := newTranslators(t)
	recipient := Recipient{Pseudonym: translator.PseudonymRecipient{Type: translator.PartyUser, Reshuffle: "G", Rekey: "U1"}}

	h := &KeyComponentHandler{Pseudonym: pt, Data: dt, Policy: staticPolicy{recipient: recipient}}
	resp, err := h.Handle(KeyComponentRequest{RequestID: uuid.New()})
	require.NoError(t, err)
	require.Nil(t, resp.DataComponent)
	require.False(t, resp.PseudonymComponent.Equal(group.One()))
}

func TestKeyComponentHandlerGrantsDataAccessWhenAuthorized(t *testing.T) {
	pt, dt, _ := newTranslators(t)
	dataRecipient := translator.DataRecipient{Type: translator.PartyUser, Payload: "U1"}
	recipient := Recipient{
		Pseudonym: translator.PseudonymRecipient{Type: translator.PartyUser, Reshuffle: "G", Rekey: "U1"},
		Data:      &dataRecipient,
	}

	h := &KeyComponentHandler{Pseudonym: pt, Data: dt, Policy: staticPolicy{recipient: recipient}}
	resp, err := h.Handle(KeyComponentRequest{RequestID: uuid.New()})
	require.NoError(t, err)
	require.NotNil(t, resp.DataComponent)
}

func TestKeyComponentHandlerRejectsDataAccessWithoutDataTranslator(t *testing.T) {
	pt, _, _ := newTranslators(t)
	dataRecipient := translator.DataRecipient{Type: translator.PartyUser, Payload: "U1"}
	recipient := Recipient{
		Pseudonym: translator.PseudonymRecipient{Type: translator.PartyUser, Reshuffle: "G", Rekey: "U1"},
		Data:      &dataRecipient,
	}

	h := &KeyComponentHandler{Pseudonym: pt, Data: nil, Policy: staticPolicy{recipient: recipient}}
	_, err := h.Handle(KeyComponentRequest{RequestID: uuid.New()})
	require.Error(t, err)
	kind, ok := errs.KindOf(err)
	require.True(t, ok)
	require.Equal(t, errs.MissingSecret, kind)
}

func TestKeyComponentHandlerPropagatesPolicyError(t *testing.T) {
	pt, dt, _ := newTranslators(t)
	h := &KeyComponentHandler{Pseudonym: pt, Data: dt, Policy: staticPolicy{err: errs.New(errs.InvalidPseudonym, "unknown certificate")}}
	_, err := h.Handle(KeyComponentRequest{RequestID: uuid.New()})
	require.Error(t, err)
}

func TestTicketTranslationHandlerTranslatesBatchIndependently(t *testing.T) {
	pt, _, masterPub := newTranslators(t)
	recipient := translator.PseudonymRecipient{Type: translator.PartyUser, Reshuffle: "G", Rekey: "U1"}

	good1, err := pseudonym.FromIdentifier(masterPub, "PEP1")
	require.NoError(t, err)
	good2, err := pseudonym.FromIdentifier(masterPub, "PEP2")
	require.NoError(t, err)

	batch := []pseudonym.EncryptedLocalPseudonym{
		mustWrap(t, good1),
		mustWrap(t, good2),
	}

	h := &TicketTranslationHandler{Translator: pt}
	results := h.Handle(TicketTranslationRequest{RequestID: uuid.New(), Batch: batch, Recipient: recipient})
	require.Len(t, results, 2)
	for _, r := range results {
		require.NoError(t, r.Err)
	}
	require.False(t, results[0].Translated.Encryption().Equal(batch[0].Encryption()))
}

func mustWrap(t *testing.T, pp pseudonym.PolymorphicPseudonym) pseudonym.EncryptedLocalPseudonym {
	t.Helper()
	wrapped, err := pseudonym.EncryptedLocalPseudonymFromEncryption(pp.Encryption())
	require.NoError(t, err)
	return wrapped
}
