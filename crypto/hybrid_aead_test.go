package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateTestHybridKeyPair(t *testing.T, seedByte byte) *HybridKeyPair {
	t.Helper()
	var seed [32]byte
	for i := range seed {
		seed[i] = seedByte
	}
	kp, err := GenerateHybridKeyPair(seed)
	require.NoError(t, err)
	return kp
}

// TestHybridEncryptDecryptRoundTrip covers S2: Alice's plaintext decrypts
// back to the exact original bytes under Bob's hybrid key.
func TestHybridEncryptDecryptRoundTrip(t *testing.T) {
	bob := generateTestHybridKeyPair(t, 0x01)
	plaintext := []byte("meet at green door 19:00")

	ct, err := Encrypt(plaintext, bob.Public())
	require.NoError(t, err)

	got, err := Decrypt(ct, bob)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

// TestHybridDecryptTamperedCiphertextFails flips a bit inside the
// ciphertext and expects the opaque decryption-failed error.
func TestHybridDecryptTamperedCiphertextFails(t *testing.T) {
	bob := generateTestHybridKeyPair(t, 0x02)
	plaintext := []byte("meet at green door 19:00")

	ct, err := Encrypt(plaintext, bob.Public())
	require.NoError(t, err)
	require.Greater(t, len(ct.Ciphertext), 10)

	ct.Ciphertext[9] ^= 1 << 7 // flip bit 7 of the 10th byte

	_, err = Decrypt(ct, bob)
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestHybridDecryptTamperedNonceFails(t *testing.T) {
	bob := generateTestHybridKeyPair(t, 0x03)
	ct, err := Encrypt([]byte("hello"), bob.Public())
	require.NoError(t, err)

	ct.Nonce[0] ^= 1

	_, err = Decrypt(ct, bob)
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestHybridDecryptTamperedEphemeralFails(t *testing.T) {
	bob := generateTestHybridKeyPair(t, 0x04)
	ct, err := Encrypt([]byte("hello"), bob.Public())
	require.NoError(t, err)

	ct.EphemeralClassical[0] ^= 1

	_, err = Decrypt(ct, bob)
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

// TestHybridDecryptWrongKeyFails covers wrong-key isolation: decrypting
// with any non-matching hybrid secret fails.
func TestHybridDecryptWrongKeyFails(t *testing.T) {
	bob := generateTestHybridKeyPair(t, 0x05)
	eve := generateTestHybridKeyPair(t, 0x06)

	ct, err := Encrypt([]byte("hello"), bob.Public())
	require.NoError(t, err)

	_, err = Decrypt(ct, eve)
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestHybridEncryptProducesFreshNonceAndEphemeral(t *testing.T) {
	bob := generateTestHybridKeyPair(t, 0x07)

	a, err := Encrypt([]byte("same message"), bob.Public())
	require.NoError(t, err)
	b, err := Encrypt([]byte("same message"), bob.Public())
	require.NoError(t, err)

	assert.NotEqual(t, a.Nonce, b.Nonce)
	assert.NotEqual(t, a.EphemeralClassical, b.EphemeralClassical)
	assert.NotEqual(t, a.Ciphertext, b.Ciphertext)
}
