package entities

import (
	"time"

	"askbox-backend/domain/core/valueobjects"
	pkgerrors "askbox-backend/pkg/errors"
)

// Answer is the recipient's reply to a question. It exists only as part of
// its question: the store commits the answer and the question's answer link
// in one write, so an orphan answer is never observable.
type Answer struct {
	id         valueobjects.AnswerID
	questionID valueobjects.QuestionID
	content    valueobjects.Text
	createdAt  time.Time
}

// NewAnswer creates an answer for the given question
func NewAnswer(questionID valueobjects.QuestionID, content valueobjects.Text) (*Answer, error) {
	if questionID.IsZero() {
		return nil, pkgerrors.NewValidationError("questionID cannot be empty")
	}
	if content.IsZero() {
		return nil, pkgerrors.NewValidationError("answer content cannot be empty")
	}
	return &Answer{
		id:         valueobjects.NewAnswerID(),
		questionID: questionID,
		content:    content,
		createdAt:  time.Now().UTC(),
	}, nil
}

// ReconstructAnswer rebuilds an answer from persistence
func ReconstructAnswer(
	id valueobjects.AnswerID,
	questionID valueobjects.QuestionID,
	content valueobjects.Text,
	createdAt time.Time,
) *Answer {
	return &Answer{
		id:         id,
		questionID: questionID,
		content:    content,
		createdAt:  createdAt,
	}
}

// ID returns the answer identifier
func (a *Answer) ID() valueobjects.AnswerID { return a.id }

// QuestionID returns the owning question's identifier
func (a *Answer) QuestionID() valueobjects.QuestionID { return a.questionID }

// Content returns the answer text
func (a *Answer) Content() valueobjects.Text { return a.content }

// CreatedAt returns the creation timestamp
func (a *Answer) CreatedAt() time.Time { return a.createdAt }
