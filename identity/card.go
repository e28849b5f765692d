package identity

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/underground-railroad/railroad/crypto"
	"github.com/underground-railroad/railroad/limits"
	"github.com/underground-railroad/railroad/railerr"
	"github.com/underground-railroad/railroad/types"
)

// cardVersion is the contact card wire format version. Bumping it is a
// breaking change for any peer decoding an older or newer version.
const cardVersion = 1

// contactURLPrefix is the scheme+host a decoded contact card's URL form
// carries; a card embedded in a QR code round-trips through this form.
const contactURLPrefix = "railroad://contact/"

// Card is the information exchanged to bootstrap trust with a peer: a
// name, a stable identifier, the signing public key and fingerprint
// needed to verify that identifier's future messages, the hybrid public
// key needed to address messages to it, and an optional mailbox handle
// to send to it immediately.
type Card struct {
	Name                  string
	PersonID              types.PersonId
	SigningPublicKey      [32]byte
	Fingerprint           crypto.Fingerprint
	HybridClassicalPublic [32]byte
	HybridLatticePublic   []byte
	MailboxDescriptor     []byte
	ExpiresAt             *types.CoarseTimestamp
}

// HybridPublic assembles the card's hybrid encryption public key in the
// form crypto.Encrypt expects.
func (c *Card) HybridPublic() crypto.PublicKey {
	return crypto.PublicKey{Classical: c.HybridClassicalPublic, Lattice: c.HybridLatticePublic}
}

// Encode packs a Card into a compact length-prefixed binary form: every
// byte here ends up in a QR code, so this avoids the overhead a
// self-describing format like JSON would add.
func (c *Card) Encode() ([]byte, error) {
	const op = "identity.Card.Encode"
	if len(c.Name) > 255 {
		return nil, railerr.New(railerr.KindInvalid, op, "name too long for card")
	}
	if len(c.MailboxDescriptor) > 0xFFFF {
		return nil, railerr.New(railerr.KindInvalid, op, "mailbox descriptor too long for card")
	}
	if len(c.HybridLatticePublic) > 0xFFFF {
		return nil, railerr.New(railerr.KindInvalid, op, "hybrid lattice public key too long for card")
	}

	var buf bytes.Buffer
	buf.WriteByte(cardVersion)
	buf.WriteByte(byte(len(c.Name)))
	buf.WriteString(c.Name)
	buf.Write(c.PersonID.Bytes())
	buf.Write(c.SigningPublicKey[:])
	buf.Write(c.Fingerprint[:])
	buf.Write(c.HybridClassicalPublic[:])

	var latticeLen [2]byte
	binary.BigEndian.PutUint16(latticeLen[:], uint16(len(c.HybridLatticePublic)))
	buf.Write(latticeLen[:])
	buf.Write(c.HybridLatticePublic)

	var descLen [2]byte
	binary.BigEndian.PutUint16(descLen[:], uint16(len(c.MailboxDescriptor)))
	buf.Write(descLen[:])
	buf.Write(c.MailboxDescriptor)

	if c.ExpiresAt != nil {
		buf.WriteByte(1)
		var exp [8]byte
		binary.BigEndian.PutUint64(exp[:], uint64(int64(*c.ExpiresAt)))
		buf.Write(exp[:])
	} else {
		buf.WriteByte(0)
	}

	payload := buf.Bytes()
	if err := limits.ValidateContactCard(payload); err != nil {
		return nil, railerr.Wrap(railerr.KindInvalid, op, "card size", err)
	}
	return payload, nil
}

// DecodeCard reverses Encode, rejecting a card whose ExpiresAt has
// already passed relative to now.
func DecodeCard(payload []byte, now types.CoarseTimestamp) (*Card, error) {
	const op = "identity.DecodeCard"

	r := bytes.NewReader(payload)
	version, err := r.ReadByte()
	if err != nil {
		return nil, railerr.Wrap(railerr.KindSerialization, op, "read version", err)
	}
	if version != cardVersion {
		return nil, railerr.New(railerr.KindSerialization, op, fmt.Sprintf("unsupported card version %d", version))
	}

	nameLen, err := r.ReadByte()
	if err != nil {
		return nil, railerr.Wrap(railerr.KindSerialization, op, "read name length", err)
	}
	name := make([]byte, nameLen)
	if _, err := readFull(r, name); err != nil {
		return nil, railerr.Wrap(railerr.KindSerialization, op, "read name", err)
	}

	idBytes := make([]byte, 16)
	if _, err := readFull(r, idBytes); err != nil {
		return nil, railerr.Wrap(railerr.KindSerialization, op, "read person id", err)
	}
	personID, err := types.ParsePersonId(idBytes)
	if err != nil {
		return nil, railerr.Wrap(railerr.KindSerialization, op, "parse person id", err)
	}

	var signingPub [32]byte
	if _, err := readFull(r, signingPub[:]); err != nil {
		return nil, railerr.Wrap(railerr.KindSerialization, op, "read signing public key", err)
	}

	var fingerprint crypto.Fingerprint
	if _, err := readFull(r, fingerprint[:]); err != nil {
		return nil, railerr.Wrap(railerr.KindSerialization, op, "read fingerprint", err)
	}

	var hybridClassicalPub [32]byte
	if _, err := readFull(r, hybridClassicalPub[:]); err != nil {
		return nil, railerr.Wrap(railerr.KindSerialization, op, "read hybrid classical public key", err)
	}

	var latticeLen [2]byte
	if _, err := readFull(r, latticeLen[:]); err != nil {
		return nil, railerr.Wrap(railerr.KindSerialization, op, "read hybrid lattice public key length", err)
	}
	hybridLatticePub := make([]byte, binary.BigEndian.Uint16(latticeLen[:]))
	if _, err := readFull(r, hybridLatticePub); err != nil {
		return nil, railerr.Wrap(railerr.KindSerialization, op, "read hybrid lattice public key", err)
	}

	var descLen [2]byte
	if _, err := readFull(r, descLen[:]); err != nil {
		return nil, railerr.Wrap(railerr.KindSerialization, op, "read descriptor length", err)
	}
	descriptor := make([]byte, binary.BigEndian.Uint16(descLen[:]))
	if _, err := readFull(r, descriptor); err != nil {
		return nil, railerr.Wrap(railerr.KindSerialization, op, "read descriptor", err)
	}

	hasExpiry, err := r.ReadByte()
	if err != nil {
		return nil, railerr.Wrap(railerr.KindSerialization, op, "read expiry flag", err)
	}
	var expiresAt *types.CoarseTimestamp
	if hasExpiry == 1 {
		var exp [8]byte
		if _, err := readFull(r, exp[:]); err != nil {
			return nil, railerr.Wrap(railerr.KindSerialization, op, "read expiry", err)
		}
		ts := types.CoarseTimestamp(int64(binary.BigEndian.Uint64(exp[:])))
		if ts.Before(now) {
			return nil, railerr.New(railerr.KindInvalid, op, "contact card expired")
		}
		expiresAt = &ts
	}

	card := &Card{
		Name:                  string(name),
		PersonID:              personID,
		SigningPublicKey:      signingPub,
		Fingerprint:           fingerprint,
		HybridClassicalPublic: hybridClassicalPub,
		HybridLatticePublic:   hybridLatticePub,
		MailboxDescriptor:     descriptor,
		ExpiresAt:             expiresAt,
	}
	if len(descriptor) == 0 {
		card.MailboxDescriptor = nil
	}
	if len(hybridLatticePub) == 0 {
		card.HybridLatticePublic = nil
	}
	return card, nil
}

func readFull(r *bytes.Reader, buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	return io.ReadFull(r, buf)
}

// EncodeURL wraps Encode's payload in the railroad://contact/ URL form
// meant for QR codes and in-band sharing.
func (c *Card) EncodeURL() (string, error) {
	payload, err := c.Encode()
	if err != nil {
		return "", err
	}
	return contactURLPrefix + base64.URLEncoding.EncodeToString(payload), nil
}

// DecodeCardURL reverses EncodeURL.
func DecodeCardURL(url string, now types.CoarseTimestamp) (*Card, error) {
	const op = "identity.DecodeCardURL"
	if !strings.HasPrefix(url, contactURLPrefix) {
		return nil, railerr.New(railerr.KindInvalid, op, "not a contact card URL")
	}
	payload, err := base64.URLEncoding.DecodeString(strings.TrimPrefix(url, contactURLPrefix))
	if err != nil {
		return nil, railerr.Wrap(railerr.KindSerialization, op, "decode base64 payload", err)
	}
	return DecodeCard(payload, now)
}
