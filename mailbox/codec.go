package mailbox

import (
	"encoding/json"

	"github.com/underground-railroad/railroad/domain"
	"github.com/underground-railroad/railroad/railerr"
)

// encodeMessage serialises a Message to the plaintext bytes that get
// hybrid-encrypted for the wire. JSON round-trips domain.MessageBody's
// tagged union (including nested sealed fields, via SealedBuffer's own
// MarshalJSON) without a bespoke binary layout.
func encodeMessage(m *domain.Message) ([]byte, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, railerr.Wrap(railerr.KindSerialization, "mailbox.encodeMessage", "marshal message", err)
	}
	if err := limitPlaintext(b); err != nil {
		return nil, err
	}
	return b, nil
}

// decodeMessage reverses encodeMessage.
func decodeMessage(b []byte) (*domain.Message, error) {
	var m domain.Message
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, railerr.Wrap(railerr.KindSerialization, "mailbox.decodeMessage", "unmarshal message", err)
	}
	return &m, nil
}
