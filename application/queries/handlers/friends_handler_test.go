package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"askbox-backend/application/queries"
	"askbox-backend/domain/services"
)

func newTestFriendsHandler(repo *fakeQuestionRepo) *FriendsHandler {
	return NewFriendsHandler(repo, services.NewFriendshipService(), zap.NewNop())
}

func TestHandleFriendsDerivesFromAnsweredAttributedQuestions(t *testing.T) {
	repo := &fakeQuestionRepo{}
	seedQuestion(t, repo, "bob", "alice", false, true)   // alice -> bob, answered
	seedQuestion(t, repo, "carol", "bob", false, true)   // bob -> carol, answered
	seedQuestion(t, repo, "bob", "dave", false, false)   // unanswered
	seedQuestion(t, repo, "bob", "erin", true, true)     // anonymous
	seedQuestion(t, repo, "frank", "grace", false, true) // unrelated

	handler := newTestFriendsHandler(repo)
	friends, err := handler.HandleFriends(context.Background(), queries.FriendsQuery{UserID: "bob"})
	require.NoError(t, err)

	assert.Equal(t, []string{"alice", "carol"}, friends)
}

func TestHandleFriendsEmptyForNewUser(t *testing.T) {
	handler := newTestFriendsHandler(&fakeQuestionRepo{})
	friends, err := handler.HandleFriends(context.Background(), queries.FriendsQuery{UserID: "newcomer"})
	require.NoError(t, err)
	assert.Empty(t, friends)
}

func TestHandleFriendsCachesDerivation(t *testing.T) {
	repo := &fakeQuestionRepo{}
	seedQuestion(t, repo, "bob", "alice", false, true)

	handler := newTestFriendsHandler(repo)

	_, err := handler.HandleFriends(context.Background(), queries.FriendsQuery{UserID: "bob"})
	require.NoError(t, err)
	afterFirst := repo.queryCount()

	_, err = handler.HandleFriends(context.Background(), queries.FriendsQuery{UserID: "bob"})
	require.NoError(t, err)

	assert.Equal(t, afterFirst, repo.queryCount())
}

func TestHandleFriendsFeed(t *testing.T) {
	repo := &fakeQuestionRepo{}
	seedQuestion(t, repo, "bob", "alice", false, true)  // alice is bob's friend
	seedQuestion(t, repo, "alice", "zoe", false, true)  // on alice's profile
	seedQuestion(t, repo, "alice", "yan", false, true)  // on alice's profile
	seedQuestion(t, repo, "alice", "uma", false, false) // unanswered, not in feed

	handler := newTestFriendsHandler(repo)
	feed, err := handler.HandleFriendsFeed(context.Background(), queries.FriendsFeedQuery{UserID: "bob"})
	require.NoError(t, err)

	require.Len(t, feed, 2)
	for _, item := range feed {
		assert.Equal(t, "alice", item.FriendID)
		assert.NotNil(t, item.Question.Answer)
	}
}
