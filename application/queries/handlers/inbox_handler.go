package handlers

import (
	"context"

	"askbox-backend/application/ports"
	"askbox-backend/application/queries"
	"askbox-backend/domain/core/valueobjects"
	pkgerrors "askbox-backend/pkg/errors"

	"go.uber.org/zap"
)

// InboxHandler answers InboxQuery and ProfileFeedQuery
type InboxHandler struct {
	questionRepo ports.QuestionRepository
	logger       *zap.Logger
}

// NewInboxHandler creates a new inbox query handler
func NewInboxHandler(questionRepo ports.QuestionRepository, logger *zap.Logger) *InboxHandler {
	return &InboxHandler{questionRepo: questionRepo, logger: logger}
}

// HandleInbox returns the user's unanswered inbound questions, newest
// first. Sender identities are anonymity-filtered in the view mapping.
func (h *InboxHandler) HandleInbox(ctx context.Context, query queries.InboxQuery) ([]queries.QuestionView, error) {
	if err := query.Validate(); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	unanswered := false
	qs, err := h.questionRepo.GetByRecipient(ctx, query.UserID, ports.QuestionFilter{
		Answered: &unanswered,
		Limit:    query.Limit,
	})
	if err != nil {
		return nil, err
	}

	views := make([]queries.QuestionView, 0, len(qs))
	for _, q := range qs {
		views = append(views, queries.NewQuestionView(q))
	}
	return views, nil
}

// HandleQuestion returns one question by ID. Answered questions are
// public; an unanswered question exists only for its recipient, and
// everyone else gets NotFound rather than a hint that it exists.
func (h *InboxHandler) HandleQuestion(ctx context.Context, query queries.QuestionQuery) (queries.QuestionView, error) {
	if err := query.Validate(); err != nil {
		return queries.QuestionView{}, pkgerrors.NewValidationError(err.Error())
	}

	id, err := valueobjects.NewQuestionIDFromString(query.QuestionID)
	if err != nil {
		return queries.QuestionView{}, pkgerrors.NewValidationError(err.Error())
	}

	q, err := h.questionRepo.GetByID(ctx, id)
	if err != nil {
		return queries.QuestionView{}, err
	}
	if !q.IsAnswered() && q.RecipientID() != query.RequesterID {
		return queries.QuestionView{}, pkgerrors.NewNotFoundError("question not found: " + query.QuestionID)
	}

	return queries.NewQuestionView(q), nil
}

// HandleProfileFeed returns the user's answered pairs, newest first
func (h *InboxHandler) HandleProfileFeed(ctx context.Context, query queries.ProfileFeedQuery) ([]queries.QuestionView, error) {
	if err := query.Validate(); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	answered := true
	qs, err := h.questionRepo.GetByRecipient(ctx, query.UserID, ports.QuestionFilter{
		Answered: &answered,
		Limit:    query.Limit,
	})
	if err != nil {
		return nil, err
	}

	views := make([]queries.QuestionView, 0, len(qs))
	for _, q := range qs {
		views = append(views, queries.NewQuestionView(q))
	}
	return views, nil
}
