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
	pkgerrors "askbox-backend/pkg/errors"
)

// UserRepository implements ports.UserRepository using DynamoDB
type UserRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.UserRepository {
	return &UserRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// userItem represents the DynamoDB item structure for a user profile
type userItem struct {
	PK             string   `dynamodbav:"PK"`
	SK             string   `dynamodbav:"SK"`
	EntityType     string   `dynamodbav:"EntityType"`
	UserID         string   `dynamodbav:"UserID"`
	DisplayName    string   `dynamodbav:"DisplayName"`
	AvatarURL      string   `dynamodbav:"AvatarURL,omitempty"`
	Bio            string   `dynamodbav:"Bio,omitempty"`
	SocialLinks    []string `dynamodbav:"SocialLinks,omitempty"`
	SignatureColor string   `dynamodbav:"SignatureColor"`
	Visibility     string   `dynamodbav:"Visibility"`
	CreatedAt      string   `dynamodbav:"CreatedAt"`
	UpdatedAt      string   `dynamodbav:"UpdatedAt"`
}

func userProfileKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("USER#%s", id)},
		"SK": &types.AttributeValueMemberS{Value: "PROFILE"},
	}
}

// Save persists a user profile (create or update)
func (r *UserRepository) Save(ctx context.Context, user *entities.User) error {
	item := userItem{
		PK:             fmt.Sprintf("USER#%s", user.ID()),
		SK:             "PROFILE",
		EntityType:     "USER",
		UserID:         user.ID(),
		DisplayName:    user.DisplayName(),
		AvatarURL:      user.AvatarURL(),
		Bio:            user.Bio(),
		SocialLinks:    user.SocialLinks(),
		SignatureColor: user.SignatureColor(),
		Visibility:     string(user.Visibility()),
		CreatedAt:      user.CreatedAt().UTC().Format(time.RFC3339Nano),
		UpdatedAt:      user.UpdatedAt().UTC().Format(time.RFC3339Nano),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		r.logger.Error("Failed to save user", zap.Error(err), zap.String("userID", user.ID()))
		return pkgerrors.NewDatabaseError("save user", err)
	}
	return nil
}

// GetByID retrieves a user profile by identity ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       userProfileKey(id),
	}

	result, err := r.client.GetItem(ctx, input)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get user", err)
	}
	if result.Item == nil {
		return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("user not found: %s", id))
	}

	var item userItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return reconstructUser(item)
}

// GetOrCreate returns the user, creating a bare profile the first time an
// external identity shows up. The conditional put handles the race where
// two requests reference a new identity at once: the loser re-reads.
func (r *UserRepository) GetOrCreate(ctx context.Context, id string) (*entities.User, error) {
	user, err := r.GetByID(ctx, id)
	if err == nil {
		return user, nil
	}
	if !pkgerrors.IsNotFound(err) {
		return nil, err
	}

	user, err = entities.NewUser(id, "")
	if err != nil {
		return nil, err
	}

	item := userItem{
		PK:             fmt.Sprintf("USER#%s", user.ID()),
		SK:             "PROFILE",
		EntityType:     "USER",
		UserID:         user.ID(),
		DisplayName:    user.DisplayName(),
		SignatureColor: user.SignatureColor(),
		Visibility:     string(user.Visibility()),
		CreatedAt:      user.CreatedAt().UTC().Format(time.RFC3339Nano),
		UpdatedAt:      user.UpdatedAt().UTC().Format(time.RFC3339Nano),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal user: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return r.GetByID(ctx, id)
		}
		return nil, pkgerrors.NewDatabaseError("create user", err)
	}

	r.logger.Info("User profile created", zap.String("userID", id))
	return user, nil
}

func reconstructUser(item userItem) (*entities.User, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, item.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid user timestamp: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, item.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid user timestamp: %w", err)
	}

	return entities.ReconstructUser(
		item.UserID,
		item.DisplayName,
		item.AvatarURL,
		item.Bio,
		item.SocialLinks,
		item.SignatureColor,
		entities.VisibilityLevel(item.Visibility),
		createdAt,
		updatedAt,
	), nil
}
