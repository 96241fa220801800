package commands

import (
	"errors"
)

// AskQuestionCommand represents the command to drop a question into a
// recipient's inbox
type AskQuestionCommand struct {
	RecipientID string `json:"recipient_id" validate:"required"`
	// SenderID is the authenticated sender, empty for unauthenticated ones
	SenderID string `json:"sender_id,omitempty"`
	Content  string `json:"content" validate:"required,max=500"`
	// Anonymous withholds the sender identity from the recipient even when
	// SenderID is known
	Anonymous bool `json:"anonymous"`
}

// Validate checks command invariants
func (c AskQuestionCommand) Validate() error {
	if c.RecipientID == "" {
		return errors.New("recipient_id is required")
	}
	if c.Content == "" {
		return errors.New("content is required")
	}
	return nil
}

// AnswerQuestionCommand represents the recipient answering a question
type AnswerQuestionCommand struct {
	QuestionID string `json:"question_id" validate:"required,uuid4"`
	UserID     string `json:"user_id" validate:"required"`
	Content    string `json:"content" validate:"required,max=2000"`
}

// Validate checks command invariants
func (c AnswerQuestionCommand) Validate() error {
	if c.QuestionID == "" {
		return errors.New("question_id is required")
	}
	if c.UserID == "" {
		return errors.New("user_id is required")
	}
	if c.Content == "" {
		return errors.New("content is required")
	}
	return nil
}
