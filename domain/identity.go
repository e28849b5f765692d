package domain

import (
	"github.com/underground-railroad/railroad/crypto"
	"github.com/underground-railroad/railroad/types"
)

// Identity is a local user identity: its signing and hybrid encryption
// keypairs, its published fingerprint, and the mailbox it has published
// to peers, if any. Created at setup or recovered deterministically from
// a passphrase; mutated only via name change, mailbox binding, or a
// primary-flag move.
type Identity struct {
	ID                types.PersonId
	Name              string
	Signing           *crypto.SigningKeyPair
	Hybrid            *crypto.HybridKeyPair
	Fingerprint       crypto.Fingerprint
	CreatedAt         types.CoarseTimestamp
	IsPrimary         bool
	MailboxDescriptor []byte // nil until the mailbox DHT record is created
}

// Destroy zeroises both keypairs.
func (i *Identity) Destroy() {
	if i == nil {
		return
	}
	i.Signing.Destroy()
	i.Hybrid.Destroy()
}

// Rename changes the identity's display name; it has no effect on keys,
// fingerprint, or mailbox.
func (i *Identity) Rename(name string) {
	i.Name = name
}

// BindMailbox records the DHT descriptor this identity publishes to
// peers as its mailbox handle.
func (i *Identity) BindMailbox(descriptor []byte) {
	i.MailboxDescriptor = append([]byte(nil), descriptor...)
}
