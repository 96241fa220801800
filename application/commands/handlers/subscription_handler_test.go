package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"askbox-backend/application/commands"
	"askbox-backend/domain/events"
	pkgerrors "askbox-backend/pkg/errors"
)

func subscribeCmd(userID, endpoint string) commands.SubscribeCommand {
	return commands.SubscribeCommand{
		UserID:   userID,
		Endpoint: endpoint,
		P256dh:   "BPk...",
		Auth:     "4vQ...",
	}
}

func TestSubscribe(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	publisher := &fakePublisher{}
	handler := NewSubscriptionHandler(repo, publisher, zap.NewNop())

	id, err := handler.Subscribe(context.Background(), subscribeCmd("alice", "https://push.example.com/ep1"))
	require.NoError(t, err)
	assert.False(t, id.IsZero())

	subs, err := handler.ListActive(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "https://push.example.com/ep1", subs[0].Endpoint())

	assert.Equal(t, []string{events.TypeSubscriptionRegistered}, publisher.types())
}

func TestSubscribeTwiceKeepsStableID(t *testing.T) {
	handler := NewSubscriptionHandler(newFakeSubscriptionRepo(), &fakePublisher{}, zap.NewNop())

	first, err := handler.Subscribe(context.Background(), subscribeCmd("alice", "https://push.example.com/ep1"))
	require.NoError(t, err)

	second, err := handler.Subscribe(context.Background(), subscribeCmd("alice", "https://push.example.com/ep1"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSubscribeTransfersOwnership(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	handler := NewSubscriptionHandler(repo, &fakePublisher{}, zap.NewNop())

	_, err := handler.Subscribe(context.Background(), subscribeCmd("alice", "https://push.example.com/shared-device"))
	require.NoError(t, err)

	// Same browser, new account: the endpoint must follow the new user
	_, err = handler.Subscribe(context.Background(), subscribeCmd("carol", "https://push.example.com/shared-device"))
	require.NoError(t, err)

	aliceSubs, err := handler.ListActive(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, aliceSubs)

	carolSubs, err := handler.ListActive(context.Background(), "carol")
	require.NoError(t, err)
	assert.Len(t, carolSubs, 1)
}

func TestUnsubscribe(t *testing.T) {
	handler := NewSubscriptionHandler(newFakeSubscriptionRepo(), &fakePublisher{}, zap.NewNop())

	_, err := handler.Subscribe(context.Background(), subscribeCmd("alice", "https://push.example.com/ep1"))
	require.NoError(t, err)

	err = handler.Unsubscribe(context.Background(), commands.UnsubscribeCommand{
		UserID:   "alice",
		Endpoint: "https://push.example.com/ep1",
	})
	require.NoError(t, err)

	subs, err := handler.ListActive(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestUnsubscribeAbsentEndpointIsNoOp(t *testing.T) {
	handler := NewSubscriptionHandler(newFakeSubscriptionRepo(), &fakePublisher{}, zap.NewNop())

	err := handler.Unsubscribe(context.Background(), commands.UnsubscribeCommand{
		UserID:   "alice",
		Endpoint: "https://push.example.com/never-registered",
	})
	assert.NoError(t, err)
}

func TestUnsubscribeDoesNotRemoveTransferredEndpoint(t *testing.T) {
	handler := NewSubscriptionHandler(newFakeSubscriptionRepo(), &fakePublisher{}, zap.NewNop())

	_, err := handler.Subscribe(context.Background(), subscribeCmd("alice", "https://push.example.com/ep1"))
	require.NoError(t, err)
	_, err = handler.Subscribe(context.Background(), subscribeCmd("carol", "https://push.example.com/ep1"))
	require.NoError(t, err)

	// Alice's stale unsubscribe must not tear down Carol's registration
	err = handler.Unsubscribe(context.Background(), commands.UnsubscribeCommand{
		UserID:   "alice",
		Endpoint: "https://push.example.com/ep1",
	})
	require.NoError(t, err)

	carolSubs, err := handler.ListActive(context.Background(), "carol")
	require.NoError(t, err)
	assert.Len(t, carolSubs, 1)
}

func TestSubscribeValidation(t *testing.T) {
	handler := NewSubscriptionHandler(newFakeSubscriptionRepo(), &fakePublisher{}, zap.NewNop())

	cmd := subscribeCmd("alice", "https://push.example.com/ep1")
	cmd.Auth = ""
	_, err := handler.Subscribe(context.Background(), cmd)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeValidation))

	_, err = handler.Subscribe(context.Background(), subscribeCmd("", "https://push.example.com/ep1"))
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeValidation))
}
