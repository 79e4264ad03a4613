package metadata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pep-project/crypto-core/pseudonym"
)

func TestXEntryPrepareForStoreAndBackRoundTrip(t *testing.T) {
	aesKey := make([]byte, 32)
	for i := range aesKey {
		aesKey[i] = byte(i)
	}

	entry := FromPlaintext([]byte("hello"), true, true)
	stored, err := entry.PrepareForStore(aesKey, "note")
	require.NoError(t, err)
	require.True(t, stored.IsEncrypted())

	payload, err := stored.PayloadForStore()
	require.NoError(t, err)
	require.NotEqual(t, []byte("hello"), payload)

	decrypted, err := stored.PreparePlaintext(aesKey, "note")
	require.NoError(t, err)
	plain, err := decrypted.Plaintext()
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), plain)
}

func TestXEntryPayloadForStoreRejectsUnencrypted(t *testing.T) {
	entry := FromPlaintext([]byte("hello"), true, false)
	_, err := entry.PayloadForStore()
	require.Error(t, err)
}

func TestGetBoundKeepsOnlyBoundEntries(t *testing.T) {
	m := New("tag", time.UnixMilli(1700000000000), SchemeV3)
	m.Extra()["bound"] = FromPlaintext([]byte("a"), false, true)
	m.Extra()["unbound"] = FromPlaintext([]byte("b"), false, false)

	bound := m.GetBound()
	require.Len(t, bound.Extra(), 1)
	_, ok := bound.Extra()["bound"]
	require.True(t, ok)
}

func TestV2AdditionalDataChangesWithTag(t *testing.T) {
	ts := time.UnixMilli(1700000000000)
	a := New("t1", ts, SchemeV2)
	b := New("t2", ts, SchemeV2)

	lp := pseudonym.RandomLocalPseudonym()
	adA, err := a.ComputeKeyBlindingAdditionalData(lp)
	require.NoError(t, err)
	adB, err := b.ComputeKeyBlindingAdditionalData(lp)
	require.NoError(t, err)

	require.False(t, adA.InvertComponent)
	require.NotEqual(t, adA.Content, adB.Content)
}

func TestV3AdditionalDataBindsLocalPseudonym(t *testing.T) {
	ts := time.UnixMilli(1700000000000)
	m := New("t", ts, SchemeV3)

	lpA := pseudonym.RandomLocalPseudonym()
	lpB := pseudonym.RandomLocalPseudonym()

	adA, err := m.ComputeKeyBlindingAdditionalData(lpA)
	require.NoError(t, err)
	adB, err := m.ComputeKeyBlindingAdditionalData(lpB)
	require.NoError(t, err)

	require.True(t, adA.InvertComponent)
	require.NotEqual(t, adA.Content, adB.Content)
}

func TestV3AdditionalDataChangesWithBoundEntryPayload(t *testing.T) {
	ts := time.UnixMilli(1700000000000)
	lp := pseudonym.RandomLocalPseudonym()

	m1 := New("t", ts, SchemeV3)
	m1.Extra()["note"] = FromPlaintext([]byte("hello"), false, true)
	ad1, err := m1.ComputeKeyBlindingAdditionalData(lp)
	require.NoError(t, err)

	m2 := New("t", ts, SchemeV3)
	m2.Extra()["note"] = FromPlaintext([]byte("hELLO"), false, true)
	ad2, err := m2.ComputeKeyBlindingAdditionalData(lp)
	require.NoError(t, err)

	require.NotEqual(t, ad1.Content, ad2.Content)
}

func TestV3AdditionalDataIgnoresUnboundEntries(t *testing.T) {
	ts := time.UnixMilli(1700000000000)
	lp := pseudonym.RandomLocalPseudonym()

	m1 := New("t", ts, SchemeV3)
	ad1, err := m1.ComputeKeyBlindingAdditionalData(lp)
	require.NoError(t, err)

	m2 := New("t", ts, SchemeV3)
	m2.Extra()["note"] = FromPlaintext([]byte("hello"), false, false)
	ad2, err := m2.ComputeKeyBlindingAdditionalData(lp)
	require.NoError(t, err)

	require.Equal(t, ad1.Content, ad2.Content, "unbound entries must not affect the binding, for backwards compatibility")
}

func TestUnknownSchemeRejected(t *testing.T) {
	m := New("t", time.Now(), EncryptionScheme(99))
	_, err := m.ComputeKeyBlindingAdditionalData(pseudonym.RandomLocalPseudonym())
	require.Error(t, err)
}
