package translator

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pep-project/crypto-core/elgamal"
	"github.com/pep-project/crypto-core/group"
	"github.com/pep-project/crypto-core/pseudonym"
	"github.com/pep-project/crypto-core/rsk"
)

func randKeyFactorSecret(t *testing.T) rsk.KeyFactorSecret {
	t.Helper()
	b := make([]byte, rsk.KeyFactorSecretBytes)
	_, err := rand.Read(b)
	require.NoError(t, err)
	secret, err := rsk.NewKeyFactorSecret(b)
	require.NoError(t, err)
	return secret
}

func newTestPseudonymTranslators(t *testing.T, n int) ([]*PseudonymTranslator, group.GroupElement) {
	t.Helper()
	masterSK := group.One()
	translators := make([]*PseudonymTranslator, n)
	for i := 0; i < n; i++ {
		share := group.RandomScalar()
		masterSK = masterSK.Multiply(share)
		translators[i] = NewPseudonymTranslator(PseudonymTranslationKeys{
			EncryptionKeyFactorSecret:       randKeyFactorSecret(t),
			PseudonymizationKeyFactorSecret: randKeyFactorSecret(t),
			MasterPrivateEncryptionKeyShare: share,
		})
	}
	return translators, group.BaseMult(masterSK)
}

func translatePseudonymChain(t *testing.T, translators []*PseudonymTranslator, masterPub group.GroupElement, recipient PseudonymRecipient, certified bool) pseudonym.LocalPseudonym {
	t.Helper()
	pp, err := pseudonym.FromIdentifier(masterPub, "PEP1234")
	require.NoError(t, err)

	current := pp.Encryption()
	for i, tr := range translators {
		if i == 0 && certified {
			next, proof, err := tr.CertifiedTranslateStep(current, recipient)
			require.NoError(t, err)
			verifiers := tr.ComputeTranslationProofVerifiers(recipient, masterPub)
			require.NoError(t, tr.CheckTranslationProof(current, next, proof, verifiers))
			current = next
		} else {
			next, err := tr.TranslateStep(current, recipient)
			require.NoError(t, err)
			current = next
		}
	}

	sk := group.One()
	for _, tr := range translators {
		comp := tr.GenerateKeyComponent(recipient)
		require.False(t, comp.Equal(group.One()))
		sk = sk.Multiply(comp)
	}

	encrypted, err := pseudonym.EncryptedLocalPseudonymFromEncryption(current)
	require.NoError(t, err)
	local, err := encrypted.Decrypt(sk)
	require.NoError(t, err)
	return local
}

func TestPseudonymTranslationIsStableAcrossRuns(t *testing.T) {
	translators, masterPub := newTestPseudonymTranslators(t, 2)
	recipient := PseudonymRecipient{Type: PartyUser, Reshuffle: "GroupA", Rekey: "User1"}

	first := translatePseudonymChain(t, translators, masterPub, recipient, false)
	second := translatePseudonymChain(t, translators, masterPub, recipient, false)
	require.True(t, first.Equal(second))
}

func TestCertifiedPseudonymTranslationMatchesUncertified(t *testing.T) {
	translators, masterPub := newTestPseudonymTranslators(t, 2)
	recipient := PseudonymRecipient{Type: PartyUser, Reshuffle: "GroupA", Rekey: "User1"}

	uncertified := translatePseudonymChain(t, translators, masterPub, recipient, false)
	certified := translatePseudonymChain(t, translators, masterPub, recipient, true)
	require.True(t, uncertified.Equal(certified))
}

func TestCertifiedTranslateStepRejectsTamperedProofScalar(t *testing.T) {
	translators, masterPub := newTestPseudonymTranslators(t, 1)
	recipient := PseudonymRecipient{Type: PartyUser, Reshuffle: "GroupA", Rekey: "User1"}
	tr := translators[0]

	pp, err := pseudonym.FromIdentifier(masterPub, "PEP1234")
	require.NoError(t, err)

	next, proof, err := tr.CertifiedTranslateStep(pp.Encryption(), recipient)
	require.NoError(t, err)
	verifiers := tr.ComputeTranslationProofVerifiers(recipient, masterPub)
	require.NoError(t, tr.CheckTranslationProof(pp.Encryption(), next, proof, verifiers))

	proof.CP.S = proof.CP.S.Add(group.One())
	require.Error(t, tr.CheckTranslationProof(pp.Encryption(), next, proof, verifiers))
}

func newTestDataTranslators(t *testing.T) (am *DataTranslator, ts *DataTranslator, masterPub group.GroupElement) {
	t.Helper()
	masterSK := group.One()

	amShare := group.RandomScalar()
	masterSK = masterSK.Multiply(amShare)
	blindingSecret := randKeyFactorSecret(t)
	am = NewDataTranslator(DataTranslationKeys{
		EncryptionKeyFactorSecret:       randKeyFactorSecret(t),
		BlindingKeySecret:               &blindingSecret,
		MasterPrivateEncryptionKeyShare: amShare,
	})

	tsShare := group.RandomScalar()
	masterSK = masterSK.Multiply(tsShare)
	ts = NewDataTranslator(DataTranslationKeys{
		EncryptionKeyFactorSecret:       randKeyFactorSecret(t),
		BlindingKeySecret:               nil,
		MasterPrivateEncryptionKeyShare: tsShare,
	})

	return am, ts, group.BaseMult(masterSK)
}

func testDataTranslation(t *testing.T, invert bool) {
	am, ts, masterPub := newTestDataTranslators(t)
	recipient := DataRecipient{Type: PartyUser, Payload: "User1"}
	additionalData := []byte("AD_A")

	data := group.BaseMult(group.RandomScalar())
	encrypted, err := elgamal.Encrypt(masterPub, data)
	require.NoError(t, err)

	blinded, err := am.Blind(encrypted, additionalData, invert)
	require.NoError(t, err)
	require.False(t, blinded.Equal(encrypted))

	translated1, err := am.UnblindAndTranslate(blinded, additionalData, invert, recipient)
	require.NoError(t, err)
	require.False(t, translated1.Equal(blinded))

	translated2, err := ts.TranslateStep(translated1, recipient)
	require.NoError(t, err)
	require.False(t, translated2.Equal(translated1))
	require.False(t, translated2.Equal(encrypted))

	sk1 := am.GenerateKeyComponent(recipient).Multiply(ts.GenerateKeyComponent(recipient))
	require.False(t, sk1.Equal(group.One()))

	decrypted := translated2.Decrypt(sk1)
	require.True(t, decrypted.Equal(data))
}

func TestDataTranslationInvertedBlindKey(t *testing.T) {
	testDataTranslation(t, true)
}

func TestDataTranslationNonInvertedBlindKey(t *testing.T) {
	testDataTranslation(t, false)
}

func TestDataTranslatorWithoutBlindingSecretRejectsBlind(t *testing.T) {
	_, ts, masterPub := newTestDataTranslators(t)
	encrypted, err := elgamal.Encrypt(masterPub, group.BaseMult(group.RandomScalar()))
	require.NoError(t, err)

	_, err = ts.Blind(encrypted, []byte("AD_A"), true)
	require.Error(t, err)

	recipient := DataRecipient{Type: PartyUser, Payload: "User1"}
	_, err = ts.UnblindAndTranslate(encrypted, []byte("AD_A"), true, recipient)
	require.Error(t, err)
}
