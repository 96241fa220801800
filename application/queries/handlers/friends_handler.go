package handlers

import (
	"context"
	"sort"
	"sync"
	"time"

	"askbox-backend/application/ports"
	"askbox-backend/application/queries"
	"askbox-backend/domain/core/entities"
	"askbox-backend/domain/services"
	pkgerrors "askbox-backend/pkg/errors"

	"go.uber.org/zap"
)

// FriendsHandler answers FriendsQuery and FriendsFeedQuery. It fetches the
// two directions of question history concurrently - they have no ordering
// dependency - and hands both slices to the pure derivation service.
type FriendsHandler struct {
	questionRepo ports.QuestionRepository
	friendship   *services.FriendshipService
	cache        *friendsCache
	logger       *zap.Logger
}

// NewFriendsHandler creates a new friends query handler
func NewFriendsHandler(
	questionRepo ports.QuestionRepository,
	friendship *services.FriendshipService,
	logger *zap.Logger,
) *FriendsHandler {
	return &FriendsHandler{
		questionRepo: questionRepo,
		friendship:   friendship,
		cache:        newFriendsCache(30 * time.Second),
		logger:       logger,
	}
}

// HandleFriends derives the friend set for the user. An empty set is
// normal for new users, not an error.
func (h *FriendsHandler) HandleFriends(ctx context.Context, query queries.FriendsQuery) ([]string, error) {
	if err := query.Validate(); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	if friends, ok := h.cache.get(query.UserID); ok {
		return friends, nil
	}

	received, sent, err := h.fetchHistory(ctx, query.UserID)
	if err != nil {
		return nil, err
	}

	friends := h.friendship.DeriveFriends(query.UserID, received, sent)
	sort.Strings(friends) // stable responses for the same history
	h.cache.set(query.UserID, friends)
	return friends, nil
}

// HandleFriendsFeed returns answered pairs from each derived friend's
// profile, newest first per friend
func (h *FriendsHandler) HandleFriendsFeed(ctx context.Context, query queries.FriendsFeedQuery) ([]queries.FriendsFeedItem, error) {
	if err := query.Validate(); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	friends, err := h.HandleFriends(ctx, queries.FriendsQuery{UserID: query.UserID})
	if err != nil {
		return nil, err
	}

	perFriend := query.Limit
	if perFriend <= 0 {
		perFriend = 20
	}

	answered := true
	feed := make([]queries.FriendsFeedItem, 0, len(friends)*perFriend)
	for _, friendID := range friends {
		qs, err := h.questionRepo.GetByRecipient(ctx, friendID, ports.QuestionFilter{
			Answered: &answered,
			Limit:    perFriend,
		})
		if err != nil {
			// One unreadable profile should not empty the whole feed
			h.logger.Warn("failed to load friend feed entries",
				zap.String("friendID", friendID),
				zap.Error(err),
			)
			continue
		}
		for _, q := range qs {
			feed = append(feed, queries.FriendsFeedItem{
				FriendID: friendID,
				Question: queries.NewQuestionView(q),
			})
		}
	}
	return feed, nil
}

// fetchHistory runs the two derivation queries concurrently. The filter
// narrows server-side to answered, attributed questions; the domain
// service re-checks every exclusion anyway, so an over-broad store result
// cannot widen the friend set.
func (h *FriendsHandler) fetchHistory(ctx context.Context, userID string) (received, sent []*entities.Question, err error) {
	answered := true
	filter := ports.QuestionFilter{Answered: &answered, AttributedOnly: true}

	var wg sync.WaitGroup
	var receivedErr, sentErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		received, receivedErr = h.questionRepo.GetByRecipient(ctx, userID, filter)
	}()
	go func() {
		defer wg.Done()
		sent, sentErr = h.questionRepo.GetBySender(ctx, userID, filter)
	}()
	wg.Wait()

	if receivedErr != nil {
		return nil, nil, receivedErr
	}
	if sentErr != nil {
		return nil, nil, sentErr
	}
	return received, sent, nil
}
