package store

import (
	"context"
	"database/sql"

	"github.com/underground-railroad/railroad/crypto"
	"github.com/underground-railroad/railroad/domain"
	"github.com/underground-railroad/railroad/railerr"
	"github.com/underground-railroad/railroad/types"
)

// ContactRepository persists domain.Contact records.
type ContactRepository struct {
	db *DB
}

// Contacts constructs a ContactRepository over db.
func (d *DB) Contacts() *ContactRepository { return &ContactRepository{db: d} }

// Put inserts or replaces a contact.
func (r *ContactRepository) Put(ctx context.Context, c *domain.Contact) error {
	const op = "store.Contacts.Put"

	languages, err := encodeStrings(op, c.Languages)
	if err != nil {
		return err
	}
	capabilities, err := encodeStrings(op, c.Capabilities)
	if err != nil {
		return err
	}
	tags, err := encodeStrings(op, c.Tags)
	if err != nil {
		return err
	}

	var introducedBy []byte
	if c.IntroducedBy != nil {
		introducedBy = c.IntroducedBy.Bytes()
	}
	var lastContact *int64
	if c.LastContact != nil {
		v := int64(*c.LastContact)
		lastContact = &v
	}

	_, err = r.db.conn.ExecContext(ctx, `
		INSERT INTO contacts (id, name, fingerprint, signing_public_key, hybrid_classical_pub, hybrid_lattice_pub, mailbox_handle, trust_level, languages, capabilities, tags, introduced_by, added_at, last_contact, notes, available)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name, fingerprint=excluded.fingerprint, signing_public_key=excluded.signing_public_key,
			hybrid_classical_pub=excluded.hybrid_classical_pub, hybrid_lattice_pub=excluded.hybrid_lattice_pub,
			mailbox_handle=excluded.mailbox_handle,
			trust_level=excluded.trust_level, languages=excluded.languages, capabilities=excluded.capabilities,
			tags=excluded.tags, introduced_by=excluded.introduced_by, last_contact=excluded.last_contact,
			notes=excluded.notes, available=excluded.available`,
		c.ID.Bytes(), c.Name, c.Fingerprint[:], c.SigningPublicKey[:], c.HybridPublic.Classical[:], c.HybridPublic.Lattice, sealedOrNil(c.MailboxHandle), int(c.TrustLevel),
		languages, capabilities, tags, introducedBy, int64(c.AddedAt), lastContact, sealedOrNil(c.Notes), c.Available,
	)
	if err != nil {
		return wrapStorageErr(op, "insert contact", err)
	}
	return nil
}

// Get fetches a single contact by ID.
func (r *ContactRepository) Get(ctx context.Context, id types.PersonId) (*domain.Contact, error) {
	const op = "store.Contacts.Get"
	row := r.db.conn.QueryRowContext(ctx, `
		SELECT id, name, fingerprint, signing_public_key, hybrid_classical_pub, hybrid_lattice_pub, mailbox_handle, trust_level, languages, capabilities, tags, introduced_by, added_at, last_contact, notes, available
		FROM contacts WHERE id = ?`, id.Bytes())
	c, err := scanContact(op, row)
	if err == sql.ErrNoRows {
		return nil, railerr.New(railerr.KindNotFound, op, "contact not found")
	}
	return c, err
}

// List returns every contact, ordered by trust level descending.
func (r *ContactRepository) List(ctx context.Context) ([]*domain.Contact, error) {
	const op = "store.Contacts.List"
	rows, err := r.db.conn.QueryContext(ctx, `
		SELECT id, name, fingerprint, signing_public_key, hybrid_classical_pub, hybrid_lattice_pub, mailbox_handle, trust_level, languages, capabilities, tags, introduced_by, added_at, last_contact, notes, available
		FROM contacts ORDER BY trust_level DESC`)
	if err != nil {
		return nil, wrapStorageErr(op, "query contacts", err)
	}
	defer rows.Close()

	var out []*domain.Contact
	for rows.Next() {
		c, err := scanContact(op, rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Delete removes a contact by ID.
func (r *ContactRepository) Delete(ctx context.Context, id types.PersonId) error {
	const op = "store.Contacts.Delete"
	if _, err := r.db.conn.ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, id.Bytes()); err != nil {
		return wrapStorageErr(op, "delete contact", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanContact(op string, row rowScanner) (*domain.Contact, error) {
	var (
		idBytes, fingerprintBytes, signingPublicKey, hybridClassicalPub, hybridLatticePub, mailboxHandle, introducedBy, notes []byte
		name, languagesJSON, capabilitiesJSON, tagsJSON                                                                       string
		trustLevel                                                                                                            int
		addedAt                                                                                                               int64
		lastContact                                                                                                           *int64
		available                                                                                                             bool
	)
	if err := row.Scan(&idBytes, &name, &fingerprintBytes, &signingPublicKey, &hybridClassicalPub, &hybridLatticePub, &mailboxHandle, &trustLevel, &languagesJSON, &capabilitiesJSON, &tagsJSON, &introducedBy, &addedAt, &lastContact, &notes, &available); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, wrapStorageErr(op, "scan contact", err)
	}

	id, err := types.ParsePersonId(idBytes)
	if err != nil {
		return nil, railerr.Wrap(railerr.KindSerialization, op, "parse contact id", err)
	}
	var fingerprint crypto.Fingerprint
	copy(fingerprint[:], fingerprintBytes)

	var hybridPublic crypto.PublicKey
	copy(hybridPublic.Classical[:], hybridClassicalPub)
	hybridPublic.Lattice = hybridLatticePub

	languages, err := decodeStrings(op, languagesJSON)
	if err != nil {
		return nil, err
	}
	capabilities, err := decodeStrings(op, capabilitiesJSON)
	if err != nil {
		return nil, err
	}
	tags, err := decodeStrings(op, tagsJSON)
	if err != nil {
		return nil, err
	}

	c := &domain.Contact{
		ID:           id,
		Name:         name,
		Fingerprint:  fingerprint,
		HybridPublic: hybridPublic,
		TrustLevel:   types.TrustLevel(trustLevel),
		Languages:    languages,
		Capabilities: capabilities,
		Tags:         tags,
		AddedAt:      types.CoarseTimestamp(addedAt),
		Available:    available,
	}
	copy(c.SigningPublicKey[:], signingPublicKey)
	if mailboxHandle != nil {
		c.MailboxHandle = crypto.Seal(mailboxHandle)
	}
	if notes != nil {
		c.Notes = crypto.Seal(notes)
	}
	if introducedBy != nil {
		pid, err := types.ParsePersonId(introducedBy)
		if err != nil {
			return nil, railerr.Wrap(railerr.KindSerialization, op, "parse introduced_by", err)
		}
		c.IntroducedBy = &pid
	}
	if lastContact != nil {
		ts := types.CoarseTimestamp(*lastContact)
		c.LastContact = &ts
	}
	return c, nil
}

// sealedOrNil returns the exposed bytes of a SealedBuffer for storage, or
// nil if the buffer is unset.
func sealedOrNil(s *crypto.SealedBuffer) []byte {
	if s == nil {
		return nil
	}
	return s.Expose()
}
