package entities

import (
	"net/url"
	"time"

	"askbox-backend/domain/core/valueobjects"
	pkgerrors "askbox-backend/pkg/errors"
)

// SubscriptionKeys are the client-generated encryption keys handed out by
// the browser's push manager. They are opaque to this service.
type SubscriptionKeys struct {
	P256dh string
	Auth   string
}

// PushSubscription registers a device endpoint for out-of-band notification
// delivery. The endpoint is the identity: re-subscribing the same endpoint
// replaces the prior record, including across owner changes when a device
// is reused after an account switch.
type PushSubscription struct {
	id          valueobjects.SubscriptionID
	ownerID     string
	endpoint    string
	keys        SubscriptionKeys
	createdAt   time.Time
	lastValidAt time.Time
}

// NewPushSubscription creates a subscription for ownerID at endpoint
func NewPushSubscription(ownerID, endpoint string, keys SubscriptionKeys) (*PushSubscription, error) {
	if ownerID == "" {
		return nil, pkgerrors.NewValidationError("ownerID cannot be empty")
	}
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, pkgerrors.NewValidationError("endpoint must be a valid URI")
	}
	if keys.P256dh == "" || keys.Auth == "" {
		return nil, pkgerrors.NewValidationError("subscription keys are incomplete")
	}
	now := time.Now().UTC()
	return &PushSubscription{
		id:          valueobjects.NewSubscriptionID(),
		ownerID:     ownerID,
		endpoint:    endpoint,
		keys:        keys,
		createdAt:   now,
		lastValidAt: now,
	}, nil
}

// ReconstructPushSubscription rebuilds a subscription from persistence
func ReconstructPushSubscription(
	id valueobjects.SubscriptionID,
	ownerID, endpoint string,
	keys SubscriptionKeys,
	createdAt, lastValidAt time.Time,
) *PushSubscription {
	return &PushSubscription{
		id:          id,
		ownerID:     ownerID,
		endpoint:    endpoint,
		keys:        keys,
		createdAt:   createdAt,
		lastValidAt: lastValidAt,
	}
}

// ID returns the stable subscription identifier
func (s *PushSubscription) ID() valueobjects.SubscriptionID { return s.id }

// OwnerID returns the identity the endpoint currently belongs to
func (s *PushSubscription) OwnerID() string { return s.ownerID }

// Endpoint returns the opaque push relay URI
func (s *PushSubscription) Endpoint() string { return s.endpoint }

// Keys returns the client encryption keys
func (s *PushSubscription) Keys() SubscriptionKeys { return s.keys }

// CreatedAt returns the registration timestamp
func (s *PushSubscription) CreatedAt() time.Time { return s.createdAt }

// LastValidAt returns when the endpoint last accepted a delivery
func (s *PushSubscription) LastValidAt() time.Time { return s.lastValidAt }

// Renew carries the stable ID and creation time of a prior registration of
// the same endpoint onto this record, transferring ownership to the new
// owner. Last-write-wins under concurrent renewals.
func (s *PushSubscription) Renew(prior *PushSubscription) {
	if prior == nil {
		return
	}
	s.id = prior.id
	s.createdAt = prior.createdAt
}

// MarkValid records a successful delivery to the endpoint
func (s *PushSubscription) MarkValid(at time.Time) {
	s.lastValidAt = at.UTC()
}
