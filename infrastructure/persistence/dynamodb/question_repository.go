// Package dynamodb implements the persistence ports on a single-table
// DynamoDB layout. Questions live under their recipient's partition with
// the answer embedded in the same item, so answering is one conditional
// write. Subscriptions are keyed by endpoint.
package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"askbox-backend/application/ports"
	"askbox-backend/domain/core/entities"
	"askbox-backend/domain/core/valueobjects"
	pkgerrors "askbox-backend/pkg/errors"
)

// sortableTime is a fixed-width RFC3339 layout so SK values sort
// chronologically as strings
const sortableTime = "2006-01-02T15:04:05.000Z"

// QuestionRepository implements ports.QuestionRepository using DynamoDB
type QuestionRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewQuestionRepository creates a new QuestionRepository
func NewQuestionRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.QuestionRepository {
	return &QuestionRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// questionItem represents the DynamoDB item structure for a question.
// The answer fields are part of the question item: an answer never exists
// without its question and the pair commits in one write.
type questionItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	GSI1PK     string `dynamodbav:"GSI1PK,omitempty"` // For lookups by sender
	GSI1SK     string `dynamodbav:"GSI1SK,omitempty"`
	GSI2PK     string `dynamodbav:"GSI2PK"` // For direct lookup by question ID
	GSI2SK     string `dynamodbav:"GSI2SK"`
	EntityType string `dynamodbav:"EntityType"`
	QuestionID string `dynamodbav:"QuestionID"`
	Recipient  string `dynamodbav:"RecipientID"`
	SenderID   string `dynamodbav:"SenderID,omitempty"`
	Content    string `dynamodbav:"Content"`
	Anonymous  bool   `dynamodbav:"Anonymous"`
	CreatedAt  string `dynamodbav:"CreatedAt"`

	AnswerID        string `dynamodbav:"AnswerID,omitempty"`
	AnswerContent   string `dynamodbav:"AnswerContent,omitempty"`
	AnswerCreatedAt string `dynamodbav:"AnswerCreatedAt,omitempty"`
}

func questionKey(q *entities.Question) (pk, sk string) {
	pk = fmt.Sprintf("USER#%s", q.RecipientID())
	sk = fmt.Sprintf("QUESTION#%s#%s", q.CreatedAt().UTC().Format(sortableTime), q.ID().String())
	return pk, sk
}

// Save persists a new question
func (r *QuestionRepository) Save(ctx context.Context, question *entities.Question) error {
	pk, sk := questionKey(question)

	item := questionItem{
		PK:         pk,
		SK:         sk,
		GSI2PK:     fmt.Sprintf("QUESTIONID#%s", question.ID().String()),
		GSI2SK:     "METADATA",
		EntityType: "QUESTION",
		QuestionID: question.ID().String(),
		Recipient:  question.RecipientID(),
		SenderID:   question.StoredSenderID(),
		Content:    question.Content().String(),
		Anonymous:  question.IsAnonymous(),
		CreatedAt:  question.CreatedAt().UTC().Format(time.RFC3339Nano),
	}
	if question.StoredSenderID() != "" {
		item.GSI1PK = fmt.Sprintf("SENDER#%s", question.StoredSenderID())
		item.GSI1SK = sk
	}
	if answer := question.Answer(); answer != nil {
		item.AnswerID = answer.ID().String()
		item.AnswerContent = answer.Content().String()
		item.AnswerCreatedAt = answer.CreatedAt().UTC().Format(time.RFC3339Nano)
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal question: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		r.logger.Error("Failed to save question",
			zap.Error(err),
			zap.String("questionID", question.ID().String()),
		)
		return pkgerrors.NewDatabaseError("save question", err)
	}

	r.logger.Debug("Question saved",
		zap.String("questionID", question.ID().String()),
		zap.String("recipientID", question.RecipientID()),
		zap.Bool("anonymous", question.IsAnonymous()),
	)
	return nil
}

// GetByID retrieves a question by its ID via GSI2
func (r *QuestionRepository) GetByID(ctx context.Context, id valueobjects.QuestionID) (*entities.Question, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("GSI2"),
		KeyConditionExpression: aws.String("GSI2PK = :pk AND GSI2SK = :sk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: fmt.Sprintf("QUESTIONID#%s", id.String())},
			":sk": &types.AttributeValueMemberS{Value: "METADATA"},
		},
		Limit: aws.Int32(1),
	}

	result, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("query question", err)
	}
	if len(result.Items) == 0 {
		return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("question not found: %s", id.String()))
	}

	var item questionItem
	if err := attributevalue.UnmarshalMap(result.Items[0], &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal question: %w", err)
	}
	return reconstructQuestion(item)
}

// GetByRecipient retrieves questions addressed to userID, newest first
func (r *QuestionRepository) GetByRecipient(ctx context.Context, userID string, filter ports.QuestionFilter) ([]*entities.Question, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: fmt.Sprintf("USER#%s", userID)},
			":sk": &types.AttributeValueMemberS{Value: "QUESTION#"},
		},
		ScanIndexForward: aws.Bool(false), // newest first
	}

	return r.queryQuestions(ctx, input, filter)
}

// GetBySender retrieves questions whose stored sender is userID, newest
// first, via GSI1. Questions from unauthenticated senders have no GSI1
// entry and never appear here.
func (r *QuestionRepository) GetBySender(ctx context.Context, userID string, filter ports.QuestionFilter) ([]*entities.Question, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("GSI1"),
		KeyConditionExpression: aws.String("GSI1PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: fmt.Sprintf("SENDER#%s", userID)},
		},
		ScanIndexForward: aws.Bool(false),
	}

	return r.queryQuestions(ctx, input, filter)
}

func (r *QuestionRepository) queryQuestions(ctx context.Context, input *dynamodb.QueryInput, filter ports.QuestionFilter) ([]*entities.Question, error) {
	questions := make([]*entities.Question, 0)

	paginator := dynamodb.NewQueryPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("query questions", err)
		}

		for _, raw := range page.Items {
			var item questionItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				r.logger.Warn("Failed to unmarshal question item", zap.Error(err))
				continue
			}

			question, err := reconstructQuestion(item)
			if err != nil {
				r.logger.Warn("Failed to reconstruct question",
					zap.String("questionID", item.QuestionID),
					zap.Error(err),
				)
				continue
			}
			if !matchesFilter(question, filter) {
				continue
			}

			questions = append(questions, question)
			if filter.Limit > 0 && len(questions) >= filter.Limit {
				return questions, nil
			}
		}
	}

	return questions, nil
}

func matchesFilter(q *entities.Question, filter ports.QuestionFilter) bool {
	if filter.Answered != nil && q.IsAnswered() != *filter.Answered {
		return false
	}
	if filter.AttributedOnly && (q.IsAnonymous() || q.StoredSenderID() == "") {
		return false
	}
	return true
}

// AttachAnswer commits the answer and the question's answer link in one
// conditional write. The condition makes answer-once atomic: a concurrent
// second answer loses at the store, not in application code.
func (r *QuestionRepository) AttachAnswer(ctx context.Context, question *entities.Question, answer *entities.Answer) error {
	pk, sk := questionKey(question)

	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: pk},
			"SK": &types.AttributeValueMemberS{Value: sk},
		},
		UpdateExpression:    aws.String("SET AnswerID = :id, AnswerContent = :content, AnswerCreatedAt = :createdAt"),
		ConditionExpression: aws.String("attribute_exists(PK) AND attribute_not_exists(AnswerID)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":id":        &types.AttributeValueMemberS{Value: answer.ID().String()},
			":content":   &types.AttributeValueMemberS{Value: answer.Content().String()},
			":createdAt": &types.AttributeValueMemberS{Value: answer.CreatedAt().UTC().Format(time.RFC3339Nano)},
		},
	}

	if _, err := r.client.UpdateItem(ctx, input); err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return pkgerrors.NewConflictError("question is already answered")
		}
		r.logger.Error("Failed to attach answer",
			zap.Error(err),
			zap.String("questionID", question.ID().String()),
		)
		return pkgerrors.NewDatabaseError("attach answer", err)
	}

	r.logger.Debug("Answer attached",
		zap.String("questionID", question.ID().String()),
		zap.String("answerID", answer.ID().String()),
	)
	return nil
}

func reconstructQuestion(item questionItem) (*entities.Question, error) {
	id, err := valueobjects.NewQuestionIDFromString(item.QuestionID)
	if err != nil {
		return nil, fmt.Errorf("invalid question ID: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, item.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid question timestamp: %w", err)
	}

	var answer *entities.Answer
	if item.AnswerID != "" {
		answerID, err := valueobjects.NewAnswerIDFromString(item.AnswerID)
		if err != nil {
			return nil, fmt.Errorf("invalid answer ID: %w", err)
		}
		answeredAt, err := time.Parse(time.RFC3339Nano, item.AnswerCreatedAt)
		if err != nil {
			return nil, fmt.Errorf("invalid answer timestamp: %w", err)
		}
		answer = entities.ReconstructAnswer(answerID, id, valueobjects.ReconstructText(item.AnswerContent), answeredAt)
	}

	return entities.ReconstructQuestion(
		id,
		item.Recipient,
		item.SenderID,
		valueobjects.ReconstructText(item.Content),
		item.Anonymous,
		answer,
		createdAt,
	), nil
}
