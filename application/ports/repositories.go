package ports

import (
	"context"
	"time"

	"askbox-backend/domain/core/entities"
	"askbox-backend/domain/core/valueobjects"
	"askbox-backend/domain/events"
)

// QuestionFilter narrows question history queries. Zero values mean "any".
type QuestionFilter struct {
	// Answered filters on the presence of an answer when non-nil
	Answered *bool
	// AttributedOnly keeps only non-anonymous questions with a stored sender
	AttributedOnly bool
	// Limit caps the result size; 0 means no cap
	Limit int
}

// QuestionRepository defines the interface for question persistence.
// This is a port in hexagonal architecture - the application doesn't know
// about the implementation. The store is assumed to provide indexed
// equality lookups and per-document atomic conditional writes.
type QuestionRepository interface {
	// Save persists a new question
	Save(ctx context.Context, question *entities.Question) error

	// GetByID retrieves a question by its ID
	GetByID(ctx context.Context, id valueobjects.QuestionID) (*entities.Question, error)

	// GetByRecipient retrieves questions addressed to userID, newest first
	GetByRecipient(ctx context.Context, userID string, filter QuestionFilter) ([]*entities.Question, error)

	// GetBySender retrieves questions whose stored sender is userID,
	// newest first
	GetBySender(ctx context.Context, userID string, filter QuestionFilter) ([]*entities.Question, error)

	// AttachAnswer commits the answer and the question's answer link in a
	// single conditional write. Returns a Conflict error when the question
	// already carries an answer.
	AttachAnswer(ctx context.Context, question *entities.Question, answer *entities.Answer) error
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Save persists a user (create or update)
	Save(ctx context.Context, user *entities.User) error

	// GetByID retrieves a user by their externally issued identity ID
	GetByID(ctx context.Context, id string) (*entities.User, error)

	// GetOrCreate returns the user, creating a bare profile on first
	// reference from an external identity
	GetOrCreate(ctx context.Context, id string) (*entities.User, error)
}

// SubscriptionRepository defines the interface for push subscription
// persistence. The endpoint is the record identity: the store keeps a
// unique index on it so upserts need no application-level locking.
type SubscriptionRepository interface {
	// Upsert writes the subscription keyed by endpoint, replacing any prior
	// record for that endpoint regardless of owner (last write wins on the
	// owner attribute). The passed subscription's ID is rewritten to the
	// prior record's stable ID when one exists.
	Upsert(ctx context.Context, sub *entities.PushSubscription) error

	// GetByEndpoint retrieves the subscription registered for endpoint
	GetByEndpoint(ctx context.Context, endpoint string) (*entities.PushSubscription, error)

	// GetByOwner retrieves all current subscriptions for a user
	GetByOwner(ctx context.Context, ownerID string) ([]*entities.PushSubscription, error)

	// Delete removes the record for endpoint when ownerID still owns it;
	// absent records and transferred endpoints are a no-op
	Delete(ctx context.Context, ownerID, endpoint string) error

	// DeleteByEndpoint removes the record for endpoint unconditionally.
	// Used when the push relay reports the endpoint permanently gone.
	DeleteByEndpoint(ctx context.Context, endpoint string) error

	// TouchValid records a successful delivery to endpoint. Best effort;
	// a missing record is not an error.
	TouchValid(ctx context.Context, endpoint string, at time.Time) error
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}
