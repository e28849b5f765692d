package types

import (
	"github.com/google/uuid"
)

// PersonId identifies an Identity or a Contact's underlying person.
// Distinct id kinds are distinct Go types so a ShelterId can never be
// passed where a PersonId is expected, even though both wrap a uuid.UUID.
type PersonId uuid.UUID

// EmergencyId identifies an Emergency record.
type EmergencyId uuid.UUID

// ShelterId identifies a Shelter record.
type ShelterId uuid.UUID

// TransportId identifies a TransportOffer or TransportRequest record.
type TransportId uuid.UUID

// MessageId identifies a Message; senders assign it, receivers dedup on it.
type MessageId uuid.UUID

// IntelReportId identifies an IntelligenceReport.
type IntelReportId uuid.UUID

// NewPersonId generates a fresh random PersonId.
func NewPersonId() PersonId { return PersonId(uuid.New()) }

// NewEmergencyId generates a fresh random EmergencyId.
func NewEmergencyId() EmergencyId { return EmergencyId(uuid.New()) }

// NewShelterId generates a fresh random ShelterId.
func NewShelterId() ShelterId { return ShelterId(uuid.New()) }

// NewTransportId generates a fresh random TransportId.
func NewTransportId() TransportId { return TransportId(uuid.New()) }

// NewMessageId generates a fresh random MessageId.
func NewMessageId() MessageId { return MessageId(uuid.New()) }

// NewIntelReportId generates a fresh random IntelReportId.
func NewIntelReportId() IntelReportId { return IntelReportId(uuid.New()) }

func (id PersonId) String() string      { return uuid.UUID(id).String() }
func (id EmergencyId) String() string   { return uuid.UUID(id).String() }
func (id ShelterId) String() string     { return uuid.UUID(id).String() }
func (id TransportId) String() string   { return uuid.UUID(id).String() }
func (id MessageId) String() string     { return uuid.UUID(id).String() }
func (id IntelReportId) String() string { return uuid.UUID(id).String() }

// Bytes returns the 16 raw bytes of the identifier, the form persisted
// as a blob column in the encrypted store.
func (id PersonId) Bytes() []byte { u := uuid.UUID(id); return u[:] }
func (id EmergencyId) Bytes() []byte { u := uuid.UUID(id); return u[:] }
func (id ShelterId) Bytes() []byte { u := uuid.UUID(id); return u[:] }
func (id TransportId) Bytes() []byte { u := uuid.UUID(id); return u[:] }
func (id MessageId) Bytes() []byte { u := uuid.UUID(id); return u[:] }
func (id IntelReportId) Bytes() []byte { u := uuid.UUID(id); return u[:] }

// ParsePersonId parses 16 raw bytes (as stored in the database) into a PersonId.
func ParsePersonId(b []byte) (PersonId, error) {
	u, err := uuid.FromBytes(b)
	return PersonId(u), err
}

// ParseEmergencyId parses 16 raw bytes into an EmergencyId.
func ParseEmergencyId(b []byte) (EmergencyId, error) {
	u, err := uuid.FromBytes(b)
	return EmergencyId(u), err
}

// ParseShelterId parses 16 raw bytes into a ShelterId.
func ParseShelterId(b []byte) (ShelterId, error) {
	u, err := uuid.FromBytes(b)
	return ShelterId(u), err
}

// ParseTransportId parses 16 raw bytes into a TransportId.
func ParseTransportId(b []byte) (TransportId, error) {
	u, err := uuid.FromBytes(b)
	return TransportId(u), err
}

// ParseMessageId parses 16 raw bytes into a MessageId.
func ParseMessageId(b []byte) (MessageId, error) {
	u, err := uuid.FromBytes(b)
	return MessageId(u), err
}

// ParseIntelReportId parses 16 raw bytes into an IntelReportId.
func ParseIntelReportId(b []byte) (IntelReportId, error) {
	u, err := uuid.FromBytes(b)
	return IntelReportId(u), err
}
