package pseudonym

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pep-project/crypto-core/elgamal"
	"github.com/pep-project/crypto-core/group"
	"github.com/pep-project/crypto-core/rsk"
)

func TestFromIdentifierDeterministicPlaintext(t *testing.T) {
	masterSK := group.RandomScalar()
	masterPK := group.BaseMult(masterSK)

	a, err := FromIdentifier(masterPK, "PEP1234")
	require.NoError(t, err)
	b, err := FromIdentifier(masterPK, "PEP1234")
	require.NoError(t, err)
	require.False(t, a.Encryption().Equal(b.Encryption()), "fresh randomness must differ")

	require.True(t, a.Encryption().Decrypt(masterSK).Equal(b.Encryption().Decrypt(masterSK)))

	other, err := FromIdentifier(masterPK, "PEP5678")
	require.NoError(t, err)
	require.False(t, a.Encryption().Decrypt(masterSK).Equal(other.Encryption().Decrypt(masterSK)))
}

func TestLocalPseudonymRejectsIdentity(t *testing.T) {
	_, err := LocalPseudonymFromPoint(group.Identity())
	require.Error(t, err)
}

func TestLocalPseudonymEncryptDecryptRoundTrip(t *testing.T) {
	lp := RandomLocalPseudonym()
	sk := group.RandomScalar()
	pk := group.BaseMult(sk)

	enc, err := lp.Encrypt(pk)
	require.NoError(t, err)
	decrypted, err := enc.Decrypt(sk)
	require.NoError(t, err)
	require.True(t, lp.Equal(decrypted))
}

func TestPolymorphicPseudonymTranslatesToStableLocalPseudonym(t *testing.T) {
	// Simulates the S1 end-to-end translation scenario from spec: two
	// independent full translations (reshuffle to a local domain, rekey to
	// a recipient) of the same identifier must decrypt to the same local
	// pseudonym, even though the polymorphic and intermediate encryptions
	// differ each time thanks to fresh rerandomization.
	masterSK := group.RandomScalar()
	masterPK := group.BaseMult(masterSK)

	z := group.RandomScalar() // reshuffle factor for this (group, user) pair
	k := group.RandomScalar() // rekey factor for the recipient

	translateOnce := func() LocalPseudonym {
		pp, err := FromIdentifier(masterPK, "PEP1234")
		require.NoError(t, err)
		translated, err := rsk.RSK(pp.Encryption(), z, k)
		require.NoError(t, err)
		encrypted, err := EncryptedLocalPseudonymFromEncryption(translated)
		require.NoError(t, err)
		lp, err := encrypted.Decrypt(masterSK.Multiply(k))
		require.NoError(t, err)
		return lp
	}

	first := translateOnce()
	second := translateOnce()
	require.True(t, first.Equal(second))
}

func TestEncryptedKeyDecryptRoundTrip(t *testing.T) {
	sk := group.RandomScalar()
	pk := group.BaseMult(sk)
	keyPoint := group.BaseMult(group.RandomScalar())

	rawEnc, err := elgamal.Encrypt(pk, keyPoint)
	require.NoError(t, err)
	enc, err := EncryptedKeyFromEncryption(rawEnc)
	require.NoError(t, err)

	bytes, err := enc.Decrypt(sk)
	require.NoError(t, err)
	require.Equal(t, keyPoint.Encode(), bytes[:])
}
