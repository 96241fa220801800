package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"askbox-backend/application/commands"
	cmdhandlers "askbox-backend/application/commands/handlers"
	"askbox-backend/pkg/auth"
	"askbox-backend/pkg/common"
	pkgerrors "askbox-backend/pkg/errors"
)

// SubscriptionHandler serves the push subscription registry
type SubscriptionHandler struct {
	subscriptions *cmdhandlers.SubscriptionHandler
	errHandler    *pkgerrors.HTTPHandler
	logger        *zap.Logger
}

// NewSubscriptionHandler creates a new subscription handler
func NewSubscriptionHandler(subscriptions *cmdhandlers.SubscriptionHandler, logger *zap.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptions: subscriptions,
		errHandler:    pkgerrors.NewHTTPHandler(logger),
		logger:        logger,
	}
}

// subscribeRequest is the browser push manager's registration payload
type subscribeRequest struct {
	Endpoint string `json:"endpoint"`
	Keys     struct {
		P256dh string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
}

// Subscribe handles POST /subscriptions. Re-registering an endpoint is
// idempotent and returns the same subscription ID.
func (h *SubscriptionHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errHandler.Handle(w, r, pkgerrors.NewUnauthorizedError("authentication required"))
		return
	}

	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errHandler.Handle(w, r, pkgerrors.NewValidationError("invalid request body"))
		return
	}

	id, err := h.subscriptions.Subscribe(r.Context(), commands.SubscribeCommand{
		UserID:   user.UserID,
		Endpoint: req.Endpoint,
		P256dh:   req.Keys.P256dh,
		Auth:     req.Keys.Auth,
	})
	if err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"subscription_id": id.String(),
	})
}

type unsubscribeRequest struct {
	Endpoint string `json:"endpoint"`
}

// Unsubscribe handles DELETE /subscriptions. Unsubscribing an endpoint
// that is already gone succeeds.
func (h *SubscriptionHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errHandler.Handle(w, r, pkgerrors.NewUnauthorizedError("authentication required"))
		return
	}

	var req unsubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errHandler.Handle(w, r, pkgerrors.NewValidationError("invalid request body"))
		return
	}

	if err := h.subscriptions.Unsubscribe(r.Context(), commands.UnsubscribeCommand{
		UserID:   user.UserID,
		Endpoint: req.Endpoint,
	}); err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// subscriptionInfo is the read model for a registered device
type subscriptionInfo struct {
	ID          string    `json:"id"`
	Endpoint    string    `json:"endpoint"`
	CreatedAt   time.Time `json:"created_at"`
	LastValidAt time.Time `json:"last_valid_at"`
}

// List handles GET /subscriptions: the caller's registered devices
func (h *SubscriptionHandler) List(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errHandler.Handle(w, r, pkgerrors.NewUnauthorizedError("authentication required"))
		return
	}

	subs, err := h.subscriptions.ListActive(r.Context(), user.UserID)
	if err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}

	infos := make([]subscriptionInfo, 0, len(subs))
	for _, sub := range subs {
		infos = append(infos, subscriptionInfo{
			ID:          sub.ID().String(),
			Endpoint:    sub.Endpoint(),
			CreatedAt:   sub.CreatedAt(),
			LastValidAt: sub.LastValidAt(),
		})
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"subscriptions": infos,
		"count":         len(infos),
	})
}
