// Package crypto implements the cryptographic core of the
// underground-railroad system: a passphrase-derived key hierarchy,
// Ed25519 signing keys, hybrid classical+post-quantum encryption keys,
// and the hybrid message AEAD built from them.
//
// # Key hierarchy
//
//	master, _  := crypto.DeriveMasterKey(passphrase, salt)
//	subKeys, _ := crypto.DeriveSubKeys(master)
//	seeds, _   := crypto.ExpandIdentitySeed(subKeys.IdentitySeed)
//	signing, _ := crypto.GenerateSigningKeyPair(seeds.SigningSeed)
//	hybrid, _  := crypto.GenerateHybridKeyPair(seeds.EncryptionSeed)
//
// Every derivation is deterministic: the same passphrase and salt always
// yield the same master key, sub-keys, and keypairs.
//
// # Hybrid encryption
//
//	ct, _ := crypto.Encrypt(plaintext, recipientHybridKeyPair.Public())
//	pt, _ := crypto.Decrypt(ct, recipientHybridKeyPair)
//
// Encrypt combines an ephemeral X25519 exchange with a lattice-KEM
// encapsulation (ML-KEM-768) into one ChaCha20-Poly1305 AEAD key, so
// breaking either the classical or the lattice scheme alone leaves
// confidentiality intact.
//
// # Secure memory
//
// Key material and sealed payloads use [SealedBuffer] or are zeroised
// directly with [ZeroBytes]; their String/GoString methods always print
// "[redacted]" so they cannot leak through logging or %v formatting.
package crypto
