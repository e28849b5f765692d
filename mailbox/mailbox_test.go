package mailbox

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/underground-railroad/railroad/crypto"
	"github.com/underground-railroad/railroad/domain"
	"github.com/underground-railroad/railroad/railerr"
	gotesting "github.com/underground-railroad/railroad/testing"
	"github.com/underground-railroad/railroad/types"
)

func seed(b byte) [32]byte {
	var s [32]byte
	for i := range s {
		s[i] = b
	}
	return s
}

func newTestIdentity(t *testing.T, b byte) (types.PersonId, *crypto.SigningKeyPair, *crypto.HybridKeyPair) {
	t.Helper()
	signing, err := crypto.GenerateSigningKeyPair(seed(b))
	require.NoError(t, err)
	hybrid, err := crypto.GenerateHybridKeyPair(seed(b + 1))
	require.NoError(t, err)
	return types.NewPersonId(), signing, hybrid
}

func TestSendPollRoundTrip(t *testing.T) {
	hub := gotesting.NewHub()
	senderClient := gotesting.NewSimulatedOverlayClient(hub, []byte("sender"))
	recipientClient := gotesting.NewSimulatedOverlayClient(hub, []byte("recipient"))

	ctx := context.Background()
	require.NoError(t, senderClient.Start(ctx))
	require.NoError(t, recipientClient.Start(ctx))

	senderID, senderSigning, _ := newTestIdentity(t, 1)
	recipientID, _, recipientHybrid := newTestIdentity(t, 10)

	recipientRctx, err := recipientClient.RoutingContext()
	require.NoError(t, err)
	descriptor, err := recipientClient.CreateMailbox(ctx, [][]byte{senderID.Bytes(), recipientID.Bytes()})
	require.NoError(t, err)

	senderRctx, err := senderClient.RoutingContext()
	require.NoError(t, err)

	body := domain.MessageBody{Kind: domain.BodyText, Text: "leaving at dawn"}
	msg := domain.NewMessage(types.NewMessageId(), senderID, recipientID, body, types.Now())

	require.NoError(t, Send(ctx, senderRctx, descriptor, senderID, senderSigning, recipientHybrid.Public(), msg))

	verify := func(sender types.PersonId) ([32]byte, bool) {
		if sender != senderID {
			return [32]byte{}, false
		}
		return senderSigning.Public, true
	}

	drained, err := Poll(ctx, recipientRctx, descriptor, recipientHybrid, verify)
	require.NoError(t, err)
	require.Len(t, drained, 1)
	assert.Equal(t, "leaving at dawn", drained[0].Message.Body.Text)
	assert.Equal(t, msg.ID, drained[0].Message.ID)

	// Re-polling finds nothing: the subkey was tombstoned.
	drained, err = Poll(ctx, recipientRctx, descriptor, recipientHybrid, verify)
	require.NoError(t, err)
	assert.Len(t, drained, 0)
}

func TestSendRejectsUnknownSenderOnPoll(t *testing.T) {
	hub := gotesting.NewHub()
	client := gotesting.NewSimulatedOverlayClient(hub, []byte("solo"))
	ctx := context.Background()
	require.NoError(t, client.Start(ctx))

	senderID, senderSigning, _ := newTestIdentity(t, 2)
	recipientID, _, recipientHybrid := newTestIdentity(t, 20)

	rctx, err := client.RoutingContext()
	require.NoError(t, err)
	descriptor, err := client.CreateMailbox(ctx, [][]byte{senderID.Bytes(), recipientID.Bytes()})
	require.NoError(t, err)

	body := domain.MessageBody{Kind: domain.BodyText, Text: "hi"}
	msg := domain.NewMessage(types.NewMessageId(), senderID, recipientID, body, types.Now())
	require.NoError(t, Send(ctx, rctx, descriptor, senderID, senderSigning, recipientHybrid.Public(), msg))

	neverVerifies := func(types.PersonId) ([32]byte, bool) { return [32]byte{}, false }
	drained, err := Poll(ctx, rctx, descriptor, recipientHybrid, neverVerifies)
	require.NoError(t, err)
	assert.Len(t, drained, 0)

	// The subkey was left untouched, so it's still readable next poll.
	senderKnown := func(types.PersonId) ([32]byte, bool) { return senderSigning.Public, true }
	drained, err = Poll(ctx, rctx, descriptor, recipientHybrid, senderKnown)
	require.NoError(t, err)
	require.Len(t, drained, 1)
}

func TestSendMailboxFull(t *testing.T) {
	hub := gotesting.NewHub()
	client := gotesting.NewSimulatedOverlayClient(hub, []byte("full"))
	ctx := context.Background()
	require.NoError(t, client.Start(ctx))

	senderID, senderSigning, _ := newTestIdentity(t, 3)
	recipientID, _, recipientHybrid := newTestIdentity(t, 30)

	rctx, err := client.RoutingContext()
	require.NoError(t, err)
	descriptor, err := client.CreateMailbox(ctx, [][]byte{senderID.Bytes(), recipientID.Bytes()})
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		require.NoError(t, rctx.SetDHTValue(ctx, descriptor, i, []byte("occupied"), nil))
	}

	body := domain.MessageBody{Kind: domain.BodyText, Text: "overflow"}
	msg := domain.NewMessage(types.NewMessageId(), senderID, recipientID, body, types.Now())
	err = Send(ctx, rctx, descriptor, senderID, senderSigning, recipientHybrid.Public(), msg)
	require.Error(t, err)
	assert.True(t, railerr.Is(err, railerr.KindNetwork))

	// Tombstone subkey 7; the next send lands there.
	require.NoError(t, rctx.SetDHTValue(ctx, descriptor, 7, nil, nil))
	require.NoError(t, Send(ctx, rctx, descriptor, senderID, senderSigning, recipientHybrid.Public(), msg))
}
