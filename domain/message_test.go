package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/underground-railroad/railroad/types"
)

func TestMessageAdvanceFollowsMonotoneOrder(t *testing.T) {
	now := types.Now()
	m := NewMessage(types.NewMessageId(), types.NewPersonId(), types.NewPersonId(), MessageBody{Kind: BodyText, Text: "hi"}, now)

	assert.True(t, m.Advance(MessageQueued))
	assert.True(t, m.Advance(MessageSending))
	assert.True(t, m.Advance(MessageSent))
	assert.True(t, m.Advance(MessageDelivered))
	assert.True(t, m.Advance(MessageRead))
	assert.Equal(t, MessageRead, m.Status)
}

func TestMessageAdvanceRejectsSkippedStep(t *testing.T) {
	now := types.Now()
	m := NewMessage(types.NewMessageId(), types.NewPersonId(), types.NewPersonId(), MessageBody{Kind: BodyText}, now)

	assert.False(t, m.Advance(MessageSent)) // skips Queued, Sending
	assert.Equal(t, MessageDraft, m.Status)
}

func TestMessageAdvanceAllowsFailFromAnyNonTerminalState(t *testing.T) {
	now := types.Now()
	m := NewMessage(types.NewMessageId(), types.NewPersonId(), types.NewPersonId(), MessageBody{Kind: BodyText}, now)
	m.Advance(MessageQueued)
	m.Advance(MessageSending)

	assert.True(t, m.Advance(MessageFailed))
	assert.Equal(t, MessageFailed, m.Status)
}

func TestMessageAdvanceIsNoOpOnceTerminal(t *testing.T) {
	now := types.Now()
	m := NewMessage(types.NewMessageId(), types.NewPersonId(), types.NewPersonId(), MessageBody{Kind: BodyText}, now)
	m.Advance(MessageFailed)

	assert.False(t, m.Advance(MessageQueued))
	assert.Equal(t, MessageFailed, m.Status)
}

func TestMessagePriorityScoreByBodyKind(t *testing.T) {
	now := types.Now()

	emergency := &Emergency{Urgency: types.UrgencyCritical}
	emergencyMsg := NewMessage(types.NewMessageId(), types.NewPersonId(), types.NewPersonId(),
		MessageBody{Kind: BodyEmergency, Emergency: emergency}, now)
	assert.Equal(t, types.UrgencyCritical.Score(), emergencyMsg.PriorityScore())

	respMsg := NewMessage(types.NewMessageId(), types.NewPersonId(), types.NewPersonId(),
		MessageBody{Kind: BodyEmergencyResponse}, now)
	assert.Equal(t, 3000, respMsg.PriorityScore())

	intel := &IntelligenceReport{Urgency: types.UrgencyHigh}
	intelMsg := NewMessage(types.NewMessageId(), types.NewPersonId(), types.NewPersonId(),
		MessageBody{Kind: BodyIntelligence, Intelligence: intel}, now)
	assert.Equal(t, int(types.UrgencyHigh)*100, intelMsg.PriorityScore())

	connReq := NewMessage(types.NewMessageId(), types.NewPersonId(), types.NewPersonId(),
		MessageBody{Kind: BodyConnectionRequest}, now)
	assert.Equal(t, 500, connReq.PriorityScore())

	connAccepted := NewMessage(types.NewMessageId(), types.NewPersonId(), types.NewPersonId(),
		MessageBody{Kind: BodyConnectionAccepted}, now)
	assert.Equal(t, 400, connAccepted.PriorityScore())

	readReceipt := NewMessage(types.NewMessageId(), types.NewPersonId(), types.NewPersonId(),
		MessageBody{Kind: BodyReadReceipt}, now)
	assert.Equal(t, 100, readReceipt.PriorityScore())
}
