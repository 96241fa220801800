package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"askbox-backend/application/queries"
	qryhandlers "askbox-backend/application/queries/handlers"
	"askbox-backend/pkg/auth"
	"askbox-backend/pkg/common"
	pkgerrors "askbox-backend/pkg/errors"
)

// FriendsHandler serves the derived friend set and the friends feed. There
// is no follow button anywhere in the API: the friend relation exists only
// as a consequence of answered, attributed questions.
type FriendsHandler struct {
	friendsHandler *qryhandlers.FriendsHandler
	errHandler     *pkgerrors.HTTPHandler
	logger         *zap.Logger
}

// NewFriendsHandler creates a new friends handler
func NewFriendsHandler(friendsHandler *qryhandlers.FriendsHandler, logger *zap.Logger) *FriendsHandler {
	return &FriendsHandler{
		friendsHandler: friendsHandler,
		errHandler:     pkgerrors.NewHTTPHandler(logger),
		logger:         logger,
	}
}

// Friends handles GET /friends: the caller's derived friend identifiers
func (h *FriendsHandler) Friends(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errHandler.Handle(w, r, pkgerrors.NewUnauthorizedError("authentication required"))
		return
	}

	friends, err := h.friendsHandler.HandleFriends(r.Context(), queries.FriendsQuery{
		UserID: user.UserID,
	})
	if err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"friends": friends,
		"count":   len(friends),
	})
}

// FriendsFeed handles GET /friends/feed: answered pairs from the caller's
// derived friends, newest first
func (h *FriendsHandler) FriendsFeed(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errHandler.Handle(w, r, pkgerrors.NewUnauthorizedError("authentication required"))
		return
	}

	items, err := h.friendsHandler.HandleFriendsFeed(r.Context(), queries.FriendsFeedQuery{
		UserID: user.UserID,
		Limit:  limitParam(r),
	})
	if err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"count": len(items),
	})
}
