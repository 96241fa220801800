package events

import (
	"time"

	"askbox-backend/domain/core/valueobjects"
)

// Source identifies this service on the event bus
const Source = "askbox.backend"

// Event type names as they appear on the bus
const (
	TypeQuestionAsked          = "question.asked"
	TypeQuestionAnswered       = "question.answered"
	TypeSubscriptionRegistered = "subscription.registered"
	TypeSubscriptionRemoved    = "subscription.removed"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

// QuestionAsked is raised when a new question lands in an inbox.
// It deliberately omits the sender: notification consumers never need it,
// and an anonymous sender must not leak through the bus.
type QuestionAsked struct {
	BaseEvent
	QuestionID  valueobjects.QuestionID `json:"question_id"`
	RecipientID string                  `json:"recipient_id"`
}

// NewQuestionAsked creates a QuestionAsked event
func NewQuestionAsked(questionID valueobjects.QuestionID, recipientID string, timestamp time.Time) QuestionAsked {
	return QuestionAsked{
		BaseEvent: BaseEvent{
			AggregateID: questionID.String(),
			EventType:   TypeQuestionAsked,
			Timestamp:   timestamp,
			Version:     1,
		},
		QuestionID:  questionID,
		RecipientID: recipientID,
	}
}

// QuestionAnswered is raised when the recipient answers a question.
// AskerID is the stored sender identity, present even for anonymous
// questions: anonymity hides the sender from the recipient, not the fact of
// an answer from the asker. WasAnonymous lets consumers keep that rule.
type QuestionAnswered struct {
	BaseEvent
	QuestionID   valueobjects.QuestionID `json:"question_id"`
	AnswerID     valueobjects.AnswerID   `json:"answer_id"`
	AskerID      string                  `json:"asker_id,omitempty"`
	WasAnonymous bool                    `json:"was_anonymous"`
}

// NewQuestionAnswered creates a QuestionAnswered event
func NewQuestionAnswered(
	questionID valueobjects.QuestionID,
	answerID valueobjects.AnswerID,
	askerID string,
	wasAnonymous bool,
	timestamp time.Time,
) QuestionAnswered {
	return QuestionAnswered{
		BaseEvent: BaseEvent{
			AggregateID: questionID.String(),
			EventType:   TypeQuestionAnswered,
			Timestamp:   timestamp,
			Version:     1,
		},
		QuestionID:   questionID,
		AnswerID:     answerID,
		AskerID:      askerID,
		WasAnonymous: wasAnonymous,
	}
}

// SubscriptionRegistered is raised when an endpoint is registered or renewed
type SubscriptionRegistered struct {
	BaseEvent
	SubscriptionID valueobjects.SubscriptionID `json:"subscription_id"`
	OwnerID        string                      `json:"owner_id"`
}

// NewSubscriptionRegistered creates a SubscriptionRegistered event
func NewSubscriptionRegistered(id valueobjects.SubscriptionID, ownerID string, timestamp time.Time) SubscriptionRegistered {
	return SubscriptionRegistered{
		BaseEvent: BaseEvent{
			AggregateID: id.String(),
			EventType:   TypeSubscriptionRegistered,
			Timestamp:   timestamp,
			Version:     1,
		},
		SubscriptionID: id,
		OwnerID:        ownerID,
	}
}

// SubscriptionRemoved is raised when an endpoint is unsubscribed or pruned
// after the push relay reported it permanently gone
type SubscriptionRemoved struct {
	BaseEvent
	OwnerID string `json:"owner_id"`
	Reason  string `json:"reason"` // "unsubscribed" or "expired"
}

// NewSubscriptionRemoved creates a SubscriptionRemoved event
func NewSubscriptionRemoved(id valueobjects.SubscriptionID, ownerID, reason string, timestamp time.Time) SubscriptionRemoved {
	return SubscriptionRemoved{
		BaseEvent: BaseEvent{
			AggregateID: id.String(),
			EventType:   TypeSubscriptionRemoved,
			Timestamp:   timestamp,
			Version:     1,
		},
		OwnerID: ownerID,
		Reason:  reason,
	}
}
