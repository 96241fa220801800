package handlers

import (
	"context"
	"fmt"

	"askbox-backend/application/commands"
	"askbox-backend/application/ports"
	"askbox-backend/domain/core/entities"
	"askbox-backend/domain/core/valueobjects"
	pkgerrors "askbox-backend/pkg/errors"

	"go.uber.org/zap"
)

// AnswerQuestionHandler handles the AnswerQuestionCommand
type AnswerQuestionHandler struct {
	questionRepo ports.QuestionRepository
	eventBus     ports.EventPublisher
	logger       *zap.Logger
}

// NewAnswerQuestionHandler creates a new handler instance
func NewAnswerQuestionHandler(
	questionRepo ports.QuestionRepository,
	eventBus ports.EventPublisher,
	logger *zap.Logger,
) *AnswerQuestionHandler {
	return &AnswerQuestionHandler{
		questionRepo: questionRepo,
		eventBus:     eventBus,
		logger:       logger,
	}
}

// Handle executes the answer question command. The answer text and the
// question's answer link are committed in one conditional write; a second
// answer attempt surfaces as a Conflict from either the entity or the
// store's condition check, whichever sees it first.
func (h *AnswerQuestionHandler) Handle(ctx context.Context, cmd commands.AnswerQuestionCommand) (*entities.Answer, error) {
	if err := cmd.Validate(); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	questionID, err := valueobjects.NewQuestionIDFromString(cmd.QuestionID)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	content, err := valueobjects.NewAnswerText(cmd.Content)
	if err != nil {
		return nil, err
	}

	question, err := h.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}

	answer, err := question.Reply(cmd.UserID, content)
	if err != nil {
		return nil, err
	}

	if err := h.questionRepo.AttachAnswer(ctx, question, answer); err != nil {
		return nil, fmt.Errorf("failed to attach answer: %w", err)
	}

	if err := h.eventBus.PublishBatch(ctx, question.Events()); err != nil {
		h.logger.Warn("failed to publish answer events",
			zap.String("questionID", cmd.QuestionID),
			zap.Error(err),
		)
	}

	h.logger.Info("question answered",
		zap.String("questionID", cmd.QuestionID),
		zap.String("answerID", answer.ID().String()),
	)

	return answer, nil
}
