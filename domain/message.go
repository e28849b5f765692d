package domain

import (
	"github.com/underground-railroad/railroad/types"
)

// MessageStatus is the closed state machine a Message moves through.
// Transitions are monotone: Draft -> Queued -> Sending -> Sent ->
// Delivered -> Read, with Failed or Expired reachable as terminal
// alternatives from any earlier non-terminal state.
type MessageStatus int

const (
	MessageDraft MessageStatus = iota
	MessageQueued
	MessageSending
	MessageSent
	MessageDelivered
	MessageRead
	MessageFailed
	MessageExpired
)

func (s MessageStatus) String() string {
	switch s {
	case MessageDraft:
		return "draft"
	case MessageQueued:
		return "queued"
	case MessageSending:
		return "sending"
	case MessageSent:
		return "sent"
	case MessageDelivered:
		return "delivered"
	case MessageRead:
		return "read"
	case MessageFailed:
		return "failed"
	case MessageExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// messageStatusRank orders the non-terminal progression so Advance can
// reject backward or skipped transitions.
var messageStatusRank = map[MessageStatus]int{
	MessageDraft:     0,
	MessageQueued:    1,
	MessageSending:   2,
	MessageSent:      3,
	MessageDelivered: 4,
	MessageRead:      5,
}

func (s MessageStatus) isTerminal() bool {
	return s == MessageRead || s == MessageFailed || s == MessageExpired
}

// BodyKind discriminates the closed set of Message payload shapes.
type BodyKind int

const (
	BodyText BodyKind = iota
	BodyEmergency
	BodyEmergencyResponse
	BodyIntelligence
	BodyConnectionRequest
	BodyConnectionAccepted
	BodyConnectionRejected
	BodyShelterUpdate
	BodyRelay
	BodyReadReceipt
	BodyDeliveryConfirmation
)

// MessageBody is the tagged union of a Message's payload. Exactly one of
// the typed fields is meaningful, selected by Kind; this mirrors a
// wire encoding of tag + length-prefixed payload.
type MessageBody struct {
	Kind BodyKind

	Text                string
	Emergency           *Emergency
	EmergencyResponseTo types.EmergencyId
	Intelligence        *IntelligenceReport
	ConnectionRequest   *ConnectionRequest
	ShelterUpdate       *ShelterUpdate
	RelayPayload        []byte
	ReadReceiptFor      types.MessageId
	DeliveryConfirmFor  types.MessageId
}

// ConnectionRequest carries the information needed to propose a trust
// relationship.
type ConnectionRequest struct {
	From             types.PersonId
	Fingerprint      [32]byte
	IntroducedBy     *types.PersonId
	ProposedLevel    types.TrustLevel
}

// ShelterUpdate carries a shelter occupancy or status change to
// interested contacts.
type ShelterUpdate struct {
	ShelterID types.ShelterId
	Status    ShelterStatus
	Occupancy int
}

// Message is a single unit of mailbox-delivered communication.
type Message struct {
	ID        types.MessageId
	Sender    types.PersonId
	Recipient types.PersonId
	Body      MessageBody
	CreatedAt types.CoarseTimestamp
	ExpiresAt *types.CoarseTimestamp
	Status    MessageStatus
	HopCount  int
}

// NewMessage creates a Draft message with the given body.
func NewMessage(id types.MessageId, sender, recipient types.PersonId, body MessageBody, now types.CoarseTimestamp) *Message {
	return &Message{
		ID:        id,
		Sender:    sender,
		Recipient: recipient,
		Body:      body,
		CreatedAt: now,
		Status:    MessageDraft,
	}
}

// Advance moves Status forward to next. It is a no-op once the message
// is in a terminal state, and rejects any target that is not a later
// step in the monotone progression (Fail/Expire are always permitted
// from a non-terminal state).
func (m *Message) Advance(next MessageStatus) bool {
	if m.Status.isTerminal() {
		return false
	}
	if next == MessageFailed || next == MessageExpired {
		m.Status = next
		return true
	}
	curRank, curOK := messageStatusRank[m.Status]
	nextRank, nextOK := messageStatusRank[next]
	if !curOK || !nextOK || nextRank != curRank+1 {
		return false
	}
	m.Status = next
	return true
}

// PriorityScore ranks a Message for outbound send sequencing.
func (m *Message) PriorityScore() int {
	switch m.Body.Kind {
	case BodyEmergency:
		if m.Body.Emergency != nil {
			return m.Body.Emergency.Urgency.Score()
		}
		return 0
	case BodyEmergencyResponse:
		return 3000
	case BodyIntelligence:
		if m.Body.Intelligence != nil {
			return int(m.Body.Intelligence.Urgency) * 100
		}
		return 0
	case BodyConnectionRequest:
		return 500
	case BodyConnectionAccepted:
		return 400
	default:
		return 100
	}
}
