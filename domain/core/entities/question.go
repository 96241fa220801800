package entities

import (
	"time"

	"askbox-backend/domain/core/valueobjects"
	"askbox-backend/domain/events"
	pkgerrors "askbox-backend/pkg/errors"
)

// Question is the central entity: a short text sent to a recipient's inbox,
// anonymously or attributed. A question carries at most one answer; answering
// twice is a conflict, never an overwrite.
//
// Anonymity is a property of the question, fixed at creation. The sender
// identity may still be stored (for abuse handling), but it must never be
// exposed through the recipient's view or through friend derivation.
type Question struct {
	id          valueobjects.QuestionID
	recipientID string
	senderID    string // empty when the sender was not authenticated
	content     valueobjects.Text
	anonymous   bool
	answer      *Answer
	createdAt   time.Time

	// Domain events recorded during this entity's lifetime
	events []events.DomainEvent
}

// NewQuestion creates a question addressed to recipientID. senderID may be
// empty for unauthenticated senders; anonymous marks the sender identity as
// withheld even when it is known.
func NewQuestion(recipientID, senderID string, content valueobjects.Text, anonymous bool) (*Question, error) {
	if recipientID == "" {
		return nil, pkgerrors.NewValidationError("recipientID cannot be empty")
	}
	if content.IsZero() {
		return nil, pkgerrors.NewValidationError("question content cannot be empty")
	}

	q := &Question{
		id:          valueobjects.NewQuestionID(),
		recipientID: recipientID,
		senderID:    senderID,
		content:     content,
		anonymous:   anonymous,
		createdAt:   time.Now().UTC(),
	}

	q.recordEvent(events.NewQuestionAsked(q.id, recipientID, q.createdAt))
	return q, nil
}

// ReconstructQuestion rebuilds a question from persistence without raising
// events or re-validating creation invariants.
func ReconstructQuestion(
	id valueobjects.QuestionID,
	recipientID, senderID string,
	content valueobjects.Text,
	anonymous bool,
	answer *Answer,
	createdAt time.Time,
) *Question {
	return &Question{
		id:          id,
		recipientID: recipientID,
		senderID:    senderID,
		content:     content,
		anonymous:   anonymous,
		answer:      answer,
		createdAt:   createdAt,
	}
}

// ID returns the question identifier
func (q *Question) ID() valueobjects.QuestionID { return q.id }

// RecipientID returns the identity the question was addressed to
func (q *Question) RecipientID() string { return q.recipientID }

// IsAnonymous reports whether the sender identity is withheld
func (q *Question) IsAnonymous() bool { return q.anonymous }

// Content returns the question text
func (q *Question) Content() valueobjects.Text { return q.content }

// CreatedAt returns the creation timestamp
func (q *Question) CreatedAt() time.Time { return q.createdAt }

// Answer returns the attached answer, or nil when unanswered
func (q *Question) Answer() *Answer { return q.answer }

// IsAnswered reports whether the question carries an answer
func (q *Question) IsAnswered() bool { return q.answer != nil }

// StoredSenderID returns the sender identity as stored, ignoring the
// anonymity flag. Only infrastructure and the dispatcher's asker-side
// resolution may call this; recipient-facing code must use VisibleSenderID.
func (q *Question) StoredSenderID() string { return q.senderID }

// VisibleSenderID returns the sender identity as the recipient is allowed
// to see it: empty for anonymous questions regardless of what is stored.
func (q *Question) VisibleSenderID() string {
	if q.anonymous {
		return ""
	}
	return q.senderID
}

// IsSelfAddressed reports whether sender and recipient are the same user
func (q *Question) IsSelfAddressed() bool {
	return q.senderID != "" && q.senderID == q.recipientID
}

// Reply attaches an answer authored by byUserID. Only the recipient may
// answer, and only once.
func (q *Question) Reply(byUserID string, content valueobjects.Text) (*Answer, error) {
	if byUserID != q.recipientID {
		return nil, pkgerrors.NewForbiddenError("only the recipient can answer a question")
	}
	if q.answer != nil {
		return nil, pkgerrors.NewConflictError("question is already answered")
	}

	answer, err := NewAnswer(q.id, content)
	if err != nil {
		return nil, err
	}

	q.answer = answer
	q.recordEvent(events.NewQuestionAnswered(q.id, answer.ID(), q.senderID, q.anonymous, answer.CreatedAt()))
	return answer, nil
}

// ContributesToFriendship reports whether this question establishes the
// derived friend relation between its sender and recipient: it must be
// answered, attributed, and not self-addressed. Anonymity is read from the
// stored flag every time; a hypothetical later reveal changes nothing.
func (q *Question) ContributesToFriendship() bool {
	return q.IsAnswered() && !q.anonymous && q.senderID != "" && !q.IsSelfAddressed()
}

// Events returns and clears the recorded domain events
func (q *Question) Events() []events.DomainEvent {
	evts := q.events
	q.events = nil
	return evts
}

func (q *Question) recordEvent(e events.DomainEvent) {
	q.events = append(q.events, e)
}
