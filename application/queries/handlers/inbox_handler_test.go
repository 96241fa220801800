package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"askbox-backend/application/queries"
	pkgerrors "askbox-backend/pkg/errors"
)

func TestHandleInboxReturnsUnansweredOnly(t *testing.T) {
	repo := &fakeQuestionRepo{}
	seedQuestion(t, repo, "bob", "alice", false, false)
	seedQuestion(t, repo, "bob", "carol", false, true)
	seedQuestion(t, repo, "someone-else", "alice", false, false)

	handler := NewInboxHandler(repo, zap.NewNop())
	views, err := handler.HandleInbox(context.Background(), queries.InboxQuery{UserID: "bob"})
	require.NoError(t, err)

	require.Len(t, views, 1)
	assert.Equal(t, "alice", views[0].SenderID)
	assert.Nil(t, views[0].Answer)
}

func TestHandleInboxHidesAnonymousSender(t *testing.T) {
	repo := &fakeQuestionRepo{}
	seedQuestion(t, repo, "bob", "alice", true, false)

	handler := NewInboxHandler(repo, zap.NewNop())
	views, err := handler.HandleInbox(context.Background(), queries.InboxQuery{UserID: "bob"})
	require.NoError(t, err)

	require.Len(t, views, 1)
	assert.Empty(t, views[0].SenderID)
	assert.True(t, views[0].Anonymous)
}

func TestHandleQuestionAnsweredIsPublic(t *testing.T) {
	repo := &fakeQuestionRepo{}
	q := seedQuestion(t, repo, "bob", "alice", false, true)

	handler := NewInboxHandler(repo, zap.NewNop())
	view, err := handler.HandleQuestion(context.Background(), queries.QuestionQuery{
		QuestionID: q.ID().String(),
	})
	require.NoError(t, err)
	require.NotNil(t, view.Answer)
	assert.Equal(t, "seed answer", view.Answer.Content)
}

func TestHandleQuestionUnansweredVisibleToRecipientOnly(t *testing.T) {
	repo := &fakeQuestionRepo{}
	q := seedQuestion(t, repo, "bob", "alice", false, false)
	handler := NewInboxHandler(repo, zap.NewNop())

	_, err := handler.HandleQuestion(context.Background(), queries.QuestionQuery{
		QuestionID: q.ID().String(),
	})
	assert.True(t, pkgerrors.IsNotFound(err))

	// Even the asker cannot see it before it is answered
	_, err = handler.HandleQuestion(context.Background(), queries.QuestionQuery{
		QuestionID:  q.ID().String(),
		RequesterID: "alice",
	})
	assert.True(t, pkgerrors.IsNotFound(err))

	view, err := handler.HandleQuestion(context.Background(), queries.QuestionQuery{
		QuestionID:  q.ID().String(),
		RequesterID: "bob",
	})
	require.NoError(t, err)
	assert.Equal(t, q.ID().String(), view.ID)
}

func TestHandleProfileFeedReturnsAnsweredPairs(t *testing.T) {
	repo := &fakeQuestionRepo{}
	seedQuestion(t, repo, "bob", "alice", false, true)
	seedQuestion(t, repo, "bob", "carol", true, true)
	seedQuestion(t, repo, "bob", "dave", false, false)

	handler := NewInboxHandler(repo, zap.NewNop())
	views, err := handler.HandleProfileFeed(context.Background(), queries.ProfileFeedQuery{UserID: "bob"})
	require.NoError(t, err)

	require.Len(t, views, 2)
	for _, v := range views {
		assert.NotNil(t, v.Answer)
	}
}

func TestHandleInboxRequiresUser(t *testing.T) {
	handler := NewInboxHandler(&fakeQuestionRepo{}, zap.NewNop())
	_, err := handler.HandleInbox(context.Background(), queries.InboxQuery{})
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeValidation))
}
