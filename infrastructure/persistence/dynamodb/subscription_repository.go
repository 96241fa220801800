package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"askbox-backend/application/ports"
	"askbox-backend/domain/core/entities"
	"askbox-backend/domain/core/valueobjects"
	pkgerrors "askbox-backend/pkg/errors"
)

// SubscriptionRepository implements ports.SubscriptionRepository using
// DynamoDB. The endpoint is the partition key, which gives the registry's
// one-record-per-endpoint invariant for free.
type SubscriptionRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewSubscriptionRepository creates a new SubscriptionRepository
func NewSubscriptionRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.SubscriptionRepository {
	return &SubscriptionRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// subscriptionItem represents the DynamoDB item structure for a push
// subscription
type subscriptionItem struct {
	PK             string `dynamodbav:"PK"`
	SK             string `dynamodbav:"SK"`
	GSI1PK         string `dynamodbav:"GSI1PK"` // For lookups by owner
	GSI1SK         string `dynamodbav:"GSI1SK"`
	EntityType     string `dynamodbav:"EntityType"`
	SubscriptionID string `dynamodbav:"SubscriptionID"`
	OwnerID        string `dynamodbav:"OwnerID"`
	Endpoint       string `dynamodbav:"Endpoint"`
	P256dh         string `dynamodbav:"P256dh"`
	AuthSecret     string `dynamodbav:"AuthSecret"`
	CreatedAt      string `dynamodbav:"CreatedAt"`
	LastValidAt    string `dynamodbav:"LastValidAt"`
}

func subscriptionKeyOf(endpoint string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("ENDPOINT#%s", endpoint)},
		"SK": &types.AttributeValueMemberS{Value: "SUBSCRIPTION"},
	}
}

// Upsert writes the subscription keyed by endpoint. A prior record for the
// same endpoint donates its stable ID and creation time; everything else,
// including the owner, is replaced. Last write wins under concurrent
// renewals of the same endpoint.
func (r *SubscriptionRepository) Upsert(ctx context.Context, sub *entities.PushSubscription) error {
	prior, err := r.GetByEndpoint(ctx, sub.Endpoint())
	if err != nil && !pkgerrors.IsNotFound(err) {
		return err
	}
	if prior != nil {
		if prior.OwnerID() != sub.OwnerID() {
			r.logger.Info("Subscription endpoint changed owner",
				zap.String("subscriptionID", prior.ID().String()),
				zap.String("previousOwner", prior.OwnerID()),
				zap.String("newOwner", sub.OwnerID()),
			)
		}
		sub.Renew(prior)
	}

	item := subscriptionItem{
		PK:             fmt.Sprintf("ENDPOINT#%s", sub.Endpoint()),
		SK:             "SUBSCRIPTION",
		GSI1PK:         fmt.Sprintf("USER#%s", sub.OwnerID()),
		GSI1SK:         fmt.Sprintf("ENDPOINT#%s", sub.Endpoint()),
		EntityType:     "SUBSCRIPTION",
		SubscriptionID: sub.ID().String(),
		OwnerID:        sub.OwnerID(),
		Endpoint:       sub.Endpoint(),
		P256dh:         sub.Keys().P256dh,
		AuthSecret:     sub.Keys().Auth,
		CreatedAt:      sub.CreatedAt().UTC().Format(time.RFC3339Nano),
		LastValidAt:    sub.LastValidAt().UTC().Format(time.RFC3339Nano),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal subscription: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		r.logger.Error("Failed to upsert subscription",
			zap.Error(err),
			zap.String("ownerID", sub.OwnerID()),
		)
		return pkgerrors.NewDatabaseError("upsert subscription", err)
	}

	r.logger.Debug("Subscription upserted",
		zap.String("subscriptionID", sub.ID().String()),
		zap.String("ownerID", sub.OwnerID()),
	)
	return nil
}

// GetByEndpoint retrieves the subscription registered for endpoint
func (r *SubscriptionRepository) GetByEndpoint(ctx context.Context, endpoint string) (*entities.PushSubscription, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       subscriptionKeyOf(endpoint),
	}

	result, err := r.client.GetItem(ctx, input)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get subscription", err)
	}
	if result.Item == nil {
		return nil, pkgerrors.NewNotFoundError("subscription not found")
	}

	var item subscriptionItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal subscription: %w", err)
	}
	return reconstructSubscription(item)
}

// GetByOwner retrieves all current subscriptions for a user via GSI1
func (r *SubscriptionRepository) GetByOwner(ctx context.Context, ownerID string) ([]*entities.PushSubscription, error) {
	keyCond := expression.Key("GSI1PK").Equal(expression.Value(fmt.Sprintf("USER#%s", ownerID)))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build query expression: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("GSI1"),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	result, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("query subscriptions", err)
	}

	subs := make([]*entities.PushSubscription, 0, len(result.Items))
	for _, raw := range result.Items {
		var item subscriptionItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			r.logger.Warn("Failed to unmarshal subscription item", zap.Error(err))
			continue
		}
		sub, err := reconstructSubscription(item)
		if err != nil {
			r.logger.Warn("Failed to reconstruct subscription",
				zap.String("subscriptionID", item.SubscriptionID),
				zap.Error(err),
			)
			continue
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

// Delete removes the record for endpoint when ownerID still owns it. An
// absent record or an endpoint that transferred to another account is a
// no-op: the caller's intent, this device stops receiving for me, already
// holds.
func (r *SubscriptionRepository) Delete(ctx context.Context, ownerID, endpoint string) error {
	cond := expression.Name("OwnerID").Equal(expression.Value(ownerID))
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return fmt.Errorf("failed to build delete expression: %w", err)
	}

	input := &dynamodb.DeleteItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       subscriptionKeyOf(endpoint),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	if _, err := r.client.DeleteItem(ctx, input); err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return nil
		}
		return pkgerrors.NewDatabaseError("delete subscription", err)
	}

	r.logger.Debug("Subscription deleted", zap.String("ownerID", ownerID))
	return nil
}

// DeleteByEndpoint removes the record for endpoint unconditionally
func (r *SubscriptionRepository) DeleteByEndpoint(ctx context.Context, endpoint string) error {
	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       subscriptionKeyOf(endpoint),
	}

	if _, err := r.client.DeleteItem(ctx, input); err != nil {
		return pkgerrors.NewDatabaseError("delete subscription", err)
	}
	return nil
}

// TouchValid records a successful delivery to endpoint. A record pruned
// between send and touch is not an error.
func (r *SubscriptionRepository) TouchValid(ctx context.Context, endpoint string, at time.Time) error {
	input := &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 subscriptionKeyOf(endpoint),
		UpdateExpression:    aws.String("SET LastValidAt = :at"),
		ConditionExpression: aws.String("attribute_exists(PK)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":at": &types.AttributeValueMemberS{Value: at.UTC().Format(time.RFC3339Nano)},
		},
	}

	if _, err := r.client.UpdateItem(ctx, input); err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return nil
		}
		return pkgerrors.NewDatabaseError("touch subscription", err)
	}
	return nil
}

func reconstructSubscription(item subscriptionItem) (*entities.PushSubscription, error) {
	id, err := valueobjects.NewSubscriptionIDFromString(item.SubscriptionID)
	if err != nil {
		return nil, fmt.Errorf("invalid subscription ID: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, item.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid subscription timestamp: %w", err)
	}
	lastValidAt, err := time.Parse(time.RFC3339Nano, item.LastValidAt)
	if err != nil {
		return nil, fmt.Errorf("invalid subscription timestamp: %w", err)
	}

	return entities.ReconstructPushSubscription(
		id,
		item.OwnerID,
		item.Endpoint,
		entities.SubscriptionKeys{P256dh: item.P256dh, Auth: item.AuthSecret},
		createdAt,
		lastValidAt,
	), nil
}
