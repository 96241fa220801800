package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"askbox-backend/application/notify"
	"askbox-backend/domain/core/entities"
	"askbox-backend/domain/core/valueobjects"
	domainevents "askbox-backend/domain/events"
	"askbox-backend/infrastructure/config"
	"askbox-backend/infrastructure/di"
	pkgerrors "askbox-backend/pkg/errors"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"
)

// previewLimit caps notification body length in runes
const previewLimit = 120

var container *di.Container

func init() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err = di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
}

type questionAskedDetail struct {
	QuestionID  string `json:"question_id"`
	RecipientID string `json:"recipient_id"`
}

type questionAnsweredDetail struct {
	QuestionID   string `json:"question_id"`
	AskerID      string `json:"asker_id"`
	WasAnonymous bool   `json:"was_anonymous"`
}

// handle consumes one bus event and fans it out as push notifications.
// Unknown event types are acknowledged without work so a widened bus rule
// never wedges the worker in a retry loop.
func handle(ctx context.Context, event events.CloudWatchEvent) error {
	logger := container.Logger

	var notifyEvent notify.Event
	var err error

	switch event.DetailType {
	case domainevents.TypeQuestionAsked:
		notifyEvent, err = buildQuestionAsked(ctx, event.Detail)
	case domainevents.TypeQuestionAnswered:
		notifyEvent, err = buildQuestionAnswered(ctx, event.Detail)
	default:
		logger.Debug("Ignoring event type", zap.String("detail_type", event.DetailType))
		return nil
	}
	if err != nil {
		return err
	}

	var report notify.Report
	err = container.Tracer.TraceFunction(ctx, "dispatch", func(ctx context.Context) error {
		var dispatchErr error
		report, dispatchErr = container.Dispatcher.Dispatch(ctx, notifyEvent)
		return dispatchErr
	})
	if err != nil {
		return fmt.Errorf("dispatch failed for %s: %w", event.DetailType, err)
	}

	container.Metrics.RecordDispatch(ctx, event.DetailType, report.Sent, report.FailedTransient, report.RemovedExpired)

	logger.Info("Dispatch complete",
		zap.String("detail_type", event.DetailType),
		zap.String("target", report.Target),
		zap.Bool("no_subscribers", report.NoSubscribers),
		zap.Int("sent", report.Sent),
		zap.Int("failed_transient", report.FailedTransient),
		zap.Int("removed_expired", report.RemovedExpired),
	)
	return nil
}

func buildQuestionAsked(ctx context.Context, detail json.RawMessage) (notify.Event, error) {
	var d questionAskedDetail
	if err := json.Unmarshal(detail, &d); err != nil {
		return nil, fmt.Errorf("malformed question.asked detail: %w", err)
	}

	preview, err := questionPreview(ctx, d.QuestionID)
	if err != nil {
		return nil, err
	}

	return notify.NewQuestion{
		QuestionID:      d.QuestionID,
		RecipientID:     d.RecipientID,
		Preview:         preview,
		SuppressPreview: suppressPreviewFor(ctx, d.RecipientID),
	}, nil
}

func buildQuestionAnswered(ctx context.Context, detail json.RawMessage) (notify.Event, error) {
	var d questionAnsweredDetail
	if err := json.Unmarshal(detail, &d); err != nil {
		return nil, fmt.Errorf("malformed question.answered detail: %w", err)
	}

	preview, err := answerPreview(ctx, d.QuestionID)
	if err != nil {
		return nil, err
	}

	return notify.NewAnswer{
		QuestionID:      d.QuestionID,
		AskerID:         d.AskerID,
		WasAnonymous:    d.WasAnonymous,
		Preview:         preview,
		SuppressPreview: suppressPreviewFor(ctx, d.AskerID),
	}, nil
}

func questionPreview(ctx context.Context, questionID string) (string, error) {
	q, err := loadQuestion(ctx, questionID)
	if err != nil || q == nil {
		return "", err
	}
	return q.Content().Preview(previewLimit), nil
}

func answerPreview(ctx context.Context, questionID string) (string, error) {
	q, err := loadQuestion(ctx, questionID)
	if err != nil || q == nil || q.Answer() == nil {
		return "", err
	}
	return q.Answer().Content().Preview(previewLimit), nil
}

// loadQuestion returns nil without error when the question is gone: a
// deleted question still produces a contentless notification rather than
// an endless retry.
func loadQuestion(ctx context.Context, questionID string) (*entities.Question, error) {
	id, err := valueobjects.NewQuestionIDFromString(questionID)
	if err != nil {
		return nil, fmt.Errorf("invalid question ID on bus: %w", err)
	}
	q, err := container.QuestionRepository.GetByID(ctx, id)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return q, nil
}

// suppressPreviewFor is best effort: if the profile cannot be read the
// notification falls back to a contentless banner, never a dropped one
func suppressPreviewFor(ctx context.Context, userID string) bool {
	if userID == "" {
		return false
	}
	user, err := container.UserRepository.GetByID(ctx, userID)
	if err != nil {
		if !pkgerrors.IsNotFound(err) {
			container.Logger.Warn("Failed to load profile for preview policy",
				zap.String("user_id", userID),
				zap.Error(err),
			)
			return true
		}
		return false
	}
	return user.SuppressPreview()
}

func main() {
	lambda.Start(handle)
}
