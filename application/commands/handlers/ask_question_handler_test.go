package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"askbox-backend/application/commands"
	"askbox-backend/domain/core/entities"
	"askbox-backend/domain/events"
	pkgerrors "askbox-backend/pkg/errors"
)

func TestAskQuestionStoresAndPublishes(t *testing.T) {
	questionRepo := newFakeQuestionRepo()
	userRepo := newFakeUserRepo()
	publisher := &fakePublisher{}
	handler := NewAskQuestionHandler(questionRepo, userRepo, publisher, zap.NewNop())

	q, err := handler.Handle(context.Background(), commands.AskQuestionCommand{
		RecipientID: "bob",
		SenderID:    "alice",
		Content:     "what's your favorite book?",
	})
	require.NoError(t, err)

	stored, err := questionRepo.GetByID(context.Background(), q.ID())
	require.NoError(t, err)
	assert.Equal(t, "bob", stored.RecipientID())
	assert.Equal(t, "alice", stored.VisibleSenderID())

	assert.Equal(t, []string{events.TypeQuestionAsked}, publisher.types())
}

func TestAskQuestionCreatesRecipientLazily(t *testing.T) {
	questionRepo := newFakeQuestionRepo()
	userRepo := newFakeUserRepo()
	handler := NewAskQuestionHandler(questionRepo, userRepo, &fakePublisher{}, zap.NewNop())

	_, err := handler.Handle(context.Background(), commands.AskQuestionCommand{
		RecipientID: "never-seen-before",
		Content:     "first!",
	})
	require.NoError(t, err)

	_, err = userRepo.GetByID(context.Background(), "never-seen-before")
	assert.NoError(t, err)
}

func TestAskQuestionAnonymousKeepsStoredSender(t *testing.T) {
	questionRepo := newFakeQuestionRepo()
	handler := NewAskQuestionHandler(questionRepo, newFakeUserRepo(), &fakePublisher{}, zap.NewNop())

	q, err := handler.Handle(context.Background(), commands.AskQuestionCommand{
		RecipientID: "bob",
		SenderID:    "alice",
		Content:     "who do you like?",
		Anonymous:   true,
	})
	require.NoError(t, err)

	assert.Equal(t, "alice", q.StoredSenderID())
	assert.Empty(t, q.VisibleSenderID())
}

func TestAskQuestionRejectsStrangerForSignedInOnlyInbox(t *testing.T) {
	userRepo := newFakeUserRepo()
	bob, err := userRepo.GetOrCreate(context.Background(), "bob")
	require.NoError(t, err)
	require.NoError(t, bob.SetVisibility(entities.VisibilitySignedIn))

	handler := NewAskQuestionHandler(newFakeQuestionRepo(), userRepo, &fakePublisher{}, zap.NewNop())

	_, err = handler.Handle(context.Background(), commands.AskQuestionCommand{
		RecipientID: "bob",
		Content:     "anonymous drive-by",
	})
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeForbidden))

	// The same question with a signed-in sender goes through
	_, err = handler.Handle(context.Background(), commands.AskQuestionCommand{
		RecipientID: "bob",
		SenderID:    "alice",
		Content:     "signed-in hello",
	})
	assert.NoError(t, err)
}

func TestAskQuestionValidation(t *testing.T) {
	handler := NewAskQuestionHandler(newFakeQuestionRepo(), newFakeUserRepo(), &fakePublisher{}, zap.NewNop())

	_, err := handler.Handle(context.Background(), commands.AskQuestionCommand{Content: "no recipient"})
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeValidation))

	_, err = handler.Handle(context.Background(), commands.AskQuestionCommand{RecipientID: "bob"})
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeValidation))
}

func TestAskQuestionPublishFailureDoesNotFailWrite(t *testing.T) {
	questionRepo := newFakeQuestionRepo()
	publisher := &fakePublisher{err: errors.New("bus unreachable")}
	handler := NewAskQuestionHandler(questionRepo, newFakeUserRepo(), publisher, zap.NewNop())

	q, err := handler.Handle(context.Background(), commands.AskQuestionCommand{
		RecipientID: "bob",
		Content:     "still lands in the inbox",
	})
	require.NoError(t, err)

	_, err = questionRepo.GetByID(context.Background(), q.ID())
	assert.NoError(t, err)
}
