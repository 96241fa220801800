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

// AskQuestionHandler handles the AskQuestionCommand
type AskQuestionHandler struct {
	questionRepo ports.QuestionRepository
	userRepo     ports.UserRepository
	eventBus     ports.EventPublisher
	logger       *zap.Logger
}

// NewAskQuestionHandler creates a new handler instance
func NewAskQuestionHandler(
	questionRepo ports.QuestionRepository,
	userRepo ports.UserRepository,
	eventBus ports.EventPublisher,
	logger *zap.Logger,
) *AskQuestionHandler {
	return &AskQuestionHandler{
		questionRepo: questionRepo,
		userRepo:     userRepo,
		eventBus:     eventBus,
		logger:       logger,
	}
}

// Handle executes the ask question command
func (h *AskQuestionHandler) Handle(ctx context.Context, cmd commands.AskQuestionCommand) (*entities.Question, error) {
	if err := cmd.Validate(); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	content, err := valueobjects.NewQuestionText(cmd.Content)
	if err != nil {
		return nil, err
	}

	// The recipient is created lazily on first reference; external identity
	// issuance already vouched for the ID.
	recipient, err := h.userRepo.GetOrCreate(ctx, cmd.RecipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve recipient: %w", err)
	}

	if !recipient.AcceptsQuestionFrom(cmd.SenderID) {
		return nil, pkgerrors.NewForbiddenError("recipient only accepts questions from signed-in users")
	}

	question, err := entities.NewQuestion(cmd.RecipientID, cmd.SenderID, content, cmd.Anonymous)
	if err != nil {
		return nil, err
	}

	if err := h.questionRepo.Save(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to save question: %w", err)
	}

	// Best effort: a failed notification must never fail the write that
	// triggered it. The dispatcher picks the event up off the bus.
	if err := h.eventBus.PublishBatch(ctx, question.Events()); err != nil {
		h.logger.Warn("failed to publish question events",
			zap.String("questionID", question.ID().String()),
			zap.Error(err),
		)
	}

	h.logger.Info("question created",
		zap.String("questionID", question.ID().String()),
		zap.String("recipientID", cmd.RecipientID),
		zap.Bool("anonymous", cmd.Anonymous),
	)

	return question, nil
}
