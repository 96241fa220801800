package queries

import (
	"errors"
	"time"

	"askbox-backend/domain/core/entities"
)

// InboxQuery lists a user's unanswered inbound questions
type InboxQuery struct {
	UserID string
	Limit  int
}

// Validate checks query invariants
func (q InboxQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user_id is required")
	}
	return nil
}

// ProfileFeedQuery lists a user's answered question/answer pairs
type ProfileFeedQuery struct {
	UserID string
	Limit  int
}

// Validate checks query invariants
func (q ProfileFeedQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user_id is required")
	}
	return nil
}

// QuestionQuery fetches a single question. RequesterID is the viewer's
// identity, empty for unauthenticated viewers; unanswered questions are
// visible to their recipient only.
type QuestionQuery struct {
	QuestionID  string
	RequesterID string
}

// Validate checks query invariants
func (q QuestionQuery) Validate() error {
	if q.QuestionID == "" {
		return errors.New("question_id is required")
	}
	return nil
}

// FriendsQuery derives the implicit friend set for a user
type FriendsQuery struct {
	UserID string
}

// Validate checks query invariants
func (q FriendsQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user_id is required")
	}
	return nil
}

// FriendsFeedQuery lists answered pairs from the user's derived friends
type FriendsFeedQuery struct {
	UserID string
	Limit  int
}

// Validate checks query invariants
func (q FriendsFeedQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user_id is required")
	}
	return nil
}

// AnswerView is the read model for an answer
type AnswerView struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// QuestionView is the read model for a question. SenderID is already
// anonymity-filtered: it is empty for anonymous questions no matter what
// the store holds, so leaking it further down the response path is
// impossible.
type QuestionView struct {
	ID          string      `json:"id"`
	RecipientID string      `json:"recipient_id"`
	SenderID    string      `json:"sender_id,omitempty"`
	Anonymous   bool        `json:"anonymous"`
	Content     string      `json:"content"`
	CreatedAt   time.Time   `json:"created_at"`
	Answer      *AnswerView `json:"answer,omitempty"`
}

// NewQuestionView maps a question entity to its read model
func NewQuestionView(q *entities.Question) QuestionView {
	view := QuestionView{
		ID:          q.ID().String(),
		RecipientID: q.RecipientID(),
		SenderID:    q.VisibleSenderID(),
		Anonymous:   q.IsAnonymous(),
		Content:     q.Content().String(),
		CreatedAt:   q.CreatedAt(),
	}
	if answer := q.Answer(); answer != nil {
		view.Answer = &AnswerView{
			ID:        answer.ID().String(),
			Content:   answer.Content().String(),
			CreatedAt: answer.CreatedAt(),
		}
	}
	return view
}

// FriendsFeedItem pairs a friend's identity with one of their answered
// questions
type FriendsFeedItem struct {
	FriendID string       `json:"friend_id"`
	Question QuestionView `json:"question"`
}
