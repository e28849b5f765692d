package store

import (
	"context"
	"database/sql"

	"github.com/underground-railroad/railroad/domain"
	"github.com/underground-railroad/railroad/railerr"
	"github.com/underground-railroad/railroad/types"
)

// MessageRepository persists domain.Message records, including their
// mailbox-delivery status for resend and dedup bookkeeping.
type MessageRepository struct {
	db *DB
}

// Messages constructs a MessageRepository over db.
func (d *DB) Messages() *MessageRepository { return &MessageRepository{db: d} }

// Put inserts or replaces a message.
func (r *MessageRepository) Put(ctx context.Context, m *domain.Message) error {
	const op = "store.Messages.Put"
	body, err := encodeJSON(op, m.Body)
	if err != nil {
		return err
	}
	var expiresAt *int64
	if m.ExpiresAt != nil {
		v := int64(*m.ExpiresAt)
		expiresAt = &v
	}
	_, err = r.db.conn.ExecContext(ctx, `
		INSERT INTO messages (id, sender, recipient, body_kind, body, created_at, expires_at, status, hop_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status=excluded.status, hop_count=excluded.hop_count`,
		m.ID.Bytes(), m.Sender.Bytes(), m.Recipient.Bytes(), int(m.Body.Kind), body,
		int64(m.CreatedAt), expiresAt, int(m.Status), m.HopCount,
	)
	if err != nil {
		return wrapStorageErr(op, "insert message", err)
	}
	return nil
}

// Exists reports whether a message with this ID has already been seen,
// for mailbox-receive dedup.
func (r *MessageRepository) Exists(ctx context.Context, id types.MessageId) (bool, error) {
	const op = "store.Messages.Exists"
	var n int
	row := r.db.conn.QueryRowContext(ctx, `SELECT COUNT(1) FROM messages WHERE id = ?`, id.Bytes())
	if err := row.Scan(&n); err != nil {
		return false, wrapStorageErr(op, "check message existence", err)
	}
	return n > 0, nil
}

// ListByRecipientStatus returns every message addressed to recipient in
// the given status, oldest first.
func (r *MessageRepository) ListByRecipientStatus(ctx context.Context, recipient types.PersonId, status domain.MessageStatus) ([]*domain.Message, error) {
	const op = "store.Messages.ListByRecipientStatus"
	rows, err := r.db.conn.QueryContext(ctx, `
		SELECT id, sender, recipient, body, created_at, expires_at, status, hop_count
		FROM messages WHERE recipient = ? AND status = ? ORDER BY created_at ASC`, recipient.Bytes(), int(status))
	if err != nil {
		return nil, wrapStorageErr(op, "query messages", err)
	}
	defer rows.Close()

	var out []*domain.Message
	for rows.Next() {
		m, err := scanMessage(op, rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// UpdateStatus sets a message's status in place.
func (r *MessageRepository) UpdateStatus(ctx context.Context, id types.MessageId, status domain.MessageStatus) error {
	const op = "store.Messages.UpdateStatus"
	if _, err := r.db.conn.ExecContext(ctx, `UPDATE messages SET status = ? WHERE id = ?`, int(status), id.Bytes()); err != nil {
		return wrapStorageErr(op, "update message status", err)
	}
	return nil
}

func scanMessage(op string, row rowScanner) (*domain.Message, error) {
	var (
		idBytes, senderBytes, recipientBytes []byte
		bodyJSON                              string
		createdAt                             int64
		expiresAt                             *int64
		status, hopCount                      int
	)
	if err := row.Scan(&idBytes, &senderBytes, &recipientBytes, &bodyJSON, &createdAt, &expiresAt, &status, &hopCount); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, wrapStorageErr(op, "scan message", err)
	}

	id, err := types.ParseMessageId(idBytes)
	if err != nil {
		return nil, railerr.Wrap(railerr.KindSerialization, op, "parse message id", err)
	}
	sender, err := types.ParsePersonId(senderBytes)
	if err != nil {
		return nil, railerr.Wrap(railerr.KindSerialization, op, "parse sender id", err)
	}
	recipient, err := types.ParsePersonId(recipientBytes)
	if err != nil {
		return nil, railerr.Wrap(railerr.KindSerialization, op, "parse recipient id", err)
	}
	var body domain.MessageBody
	if err := decodeJSON(op, bodyJSON, &body); err != nil {
		return nil, err
	}

	m := &domain.Message{
		ID:        id,
		Sender:    sender,
		Recipient: recipient,
		Body:      body,
		CreatedAt: types.CoarseTimestamp(createdAt),
		Status:    domain.MessageStatus(status),
		HopCount:  hopCount,
	}
	if expiresAt != nil {
		ts := types.CoarseTimestamp(*expiresAt)
		m.ExpiresAt = &ts
	}
	return m, nil
}
