package domain

import (
	"github.com/underground-railroad/railroad/crypto"
	"github.com/underground-railroad/railroad/types"
)

// Contact is a peer's locally-held record: their fingerprint, signing
// and hybrid encryption public keys, a sealed mailbox handle, and the
// metadata used to route and filter messages to them. The peer's
// private keys never appear here — SigningPublicKey and HybridPublic are
// the published halves, exchanged via a contact card at connection time;
// SigningPublicKey authenticates mailbox envelopes the fingerprint alone
// cannot, since a fingerprint is a one-way digest.
type Contact struct {
	ID               types.PersonId
	Name             string
	Fingerprint      crypto.Fingerprint
	SigningPublicKey [32]byte
	HybridPublic     crypto.PublicKey
	MailboxHandle    *crypto.SealedBuffer // sealed route/mailbox descriptor
	TrustLevel       types.TrustLevel
	Languages        []string
	Capabilities     []string
	Tags             []string
	IntroducedBy     *types.PersonId
	AddedAt          types.CoarseTimestamp
	LastContact      *types.CoarseTimestamp
	Notes            *crypto.SealedBuffer // sealed free-text notes
	Available        bool
}

// Destroy zeroises the sealed mailbox handle and notes.
func (c *Contact) Destroy() {
	if c == nil {
		return
	}
	if c.MailboxHandle != nil {
		c.MailboxHandle.Destroy()
	}
	if c.Notes != nil {
		c.Notes.Destroy()
	}
}

// TouchContact records a successful interaction at now.
func (c *Contact) TouchContact(now types.CoarseTimestamp) {
	c.LastContact = &now
}

// TrustEdge is a directed trust relationship: at most one per ordered
// (truster, trustee) pair.
type TrustEdge struct {
	Truster            types.PersonId
	Trustee            types.PersonId
	Level              types.TrustLevel
	VerificationMethod string
	EstablishedAt      types.CoarseTimestamp
	UpdatedAt          types.CoarseTimestamp
	IntroducedBy       *types.PersonId
}
