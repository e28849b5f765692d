package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSigningSeed(b byte) [32]byte {
	var seed [32]byte
	for i := range seed {
		seed[i] = b
	}
	return seed
}

func TestSignVerifyRoundTrip(t *testing.T) {
	kp, err := GenerateSigningKeyPair(testSigningSeed(0x11))
	require.NoError(t, err)

	msg := []byte("assistance request: 4 people, northeast region")
	sig := kp.Sign(msg)

	assert.True(t, Verify(msg, sig, kp.Public))
}

func TestVerifyRejectsTamperedMessage(t *testing.T) {
	kp, err := GenerateSigningKeyPair(testSigningSeed(0x12))
	require.NoError(t, err)

	sig := kp.Sign([]byte("original message"))
	assert.False(t, Verify([]byte("different message"), sig, kp.Public))
}

func TestVerifyRejectsWrongPublicKey(t *testing.T) {
	alice, err := GenerateSigningKeyPair(testSigningSeed(0x13))
	require.NoError(t, err)
	bob, err := GenerateSigningKeyPair(testSigningSeed(0x14))
	require.NoError(t, err)

	msg := []byte("hello")
	sig := alice.Sign(msg)
	assert.False(t, Verify(msg, sig, bob.Public))
}

func TestFingerprintOfIsStableAndDistinguishing(t *testing.T) {
	alice, err := GenerateSigningKeyPair(testSigningSeed(0x15))
	require.NoError(t, err)
	bob, err := GenerateSigningKeyPair(testSigningSeed(0x16))
	require.NoError(t, err)

	a1 := FingerprintOf(alice.Public)
	a2 := FingerprintOf(alice.Public)
	b := FingerprintOf(bob.Public)

	assert.Equal(t, a1, a2)
	assert.NotEqual(t, a1, b)
	assert.Len(t, a1.Hex(), 64)
}

func TestVerificationWordsAreThreeAndStable(t *testing.T) {
	kp, err := GenerateSigningKeyPair(testSigningSeed(0x17))
	require.NoError(t, err)
	fp := FingerprintOf(kp.Public)

	words1 := fp.VerificationWords()
	words2 := fp.VerificationWords()
	assert.Equal(t, words1, words2)
	for _, w := range words1 {
		assert.NotEmpty(t, w)
	}
}
