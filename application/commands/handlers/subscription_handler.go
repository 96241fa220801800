package handlers

import (
	"context"
	"fmt"
	"time"

	"askbox-backend/application/commands"
	"askbox-backend/application/ports"
	"askbox-backend/domain/core/entities"
	"askbox-backend/domain/core/valueobjects"
	"askbox-backend/domain/events"
	pkgerrors "askbox-backend/pkg/errors"

	"go.uber.org/zap"
)

// SubscriptionHandler is the push subscription registry: it owns the
// PushSubscription lifecycle. The endpoint-keyed upsert makes every
// operation idempotent, so callers may safely retry after an Unavailable
// error without the registry retrying internally.
type SubscriptionHandler struct {
	subscriptionRepo ports.SubscriptionRepository
	eventBus         ports.EventPublisher
	logger           *zap.Logger
}

// NewSubscriptionHandler creates a new subscription registry handler
func NewSubscriptionHandler(
	subscriptionRepo ports.SubscriptionRepository,
	eventBus ports.EventPublisher,
	logger *zap.Logger,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionRepo: subscriptionRepo,
		eventBus:         eventBus,
		logger:           logger,
	}
}

// Subscribe upserts a registration keyed by endpoint and returns its stable
// ID. Re-subscribing an endpoint registered to another user transfers
// ownership instead of duplicating: a device reused after an account switch
// must notify its current user only.
func (h *SubscriptionHandler) Subscribe(ctx context.Context, cmd commands.SubscribeCommand) (valueobjects.SubscriptionID, error) {
	if err := cmd.Validate(); err != nil {
		return valueobjects.SubscriptionID{}, pkgerrors.NewValidationError(err.Error())
	}

	sub, err := entities.NewPushSubscription(cmd.UserID, cmd.Endpoint, entities.SubscriptionKeys{
		P256dh: cmd.P256dh,
		Auth:   cmd.Auth,
	})
	if err != nil {
		return valueobjects.SubscriptionID{}, err
	}

	// Upsert rewrites sub's ID to the prior record's stable ID when the
	// endpoint was already registered.
	if err := h.subscriptionRepo.Upsert(ctx, sub); err != nil {
		return valueobjects.SubscriptionID{}, fmt.Errorf("failed to upsert subscription: %w", err)
	}

	if err := h.eventBus.Publish(ctx, events.NewSubscriptionRegistered(sub.ID(), cmd.UserID, time.Now().UTC())); err != nil {
		h.logger.Warn("failed to publish subscription event",
			zap.String("subscriptionID", sub.ID().String()),
			zap.Error(err),
		)
	}

	h.logger.Info("subscription registered",
		zap.String("subscriptionID", sub.ID().String()),
		zap.String("userID", cmd.UserID),
	)

	return sub.ID(), nil
}

// Unsubscribe removes the registration for the endpoint. Absent records,
// and endpoints whose ownership has since transferred to another user, are
// a no-op.
func (h *SubscriptionHandler) Unsubscribe(ctx context.Context, cmd commands.UnsubscribeCommand) error {
	if err := cmd.Validate(); err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}

	if err := h.subscriptionRepo.Delete(ctx, cmd.UserID, cmd.Endpoint); err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}

	h.logger.Info("subscription removed",
		zap.String("userID", cmd.UserID),
	)
	return nil
}

// ListActive returns all current subscriptions for a user in no particular
// order
func (h *SubscriptionHandler) ListActive(ctx context.Context, userID string) ([]*entities.PushSubscription, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("user ID is required")
	}
	return h.subscriptionRepo.GetByOwner(ctx, userID)
}
