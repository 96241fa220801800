package di

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-xray-sdk-go/instrumentation/awsv2"

	cmdhandlers "askbox-backend/application/commands/handlers"
	"askbox-backend/application/notify"
	"askbox-backend/application/ports"
	qryhandlers "askbox-backend/application/queries/handlers"
	"askbox-backend/domain/services"
	"askbox-backend/infrastructure/config"
	dynamorepo "askbox-backend/infrastructure/persistence/dynamodb"

	ebpublisher "askbox-backend/infrastructure/messaging/eventbridge"
	"askbox-backend/infrastructure/push/webpush"
	"askbox-backend/infrastructure/push/websocket"
	resthandlers "askbox-backend/interfaces/http/rest/handlers"
	"askbox-backend/interfaces/http/rest/middleware"

	"askbox-backend/interfaces/http/rest"
	"askbox-backend/pkg/auth"
	"askbox-backend/pkg/observability"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error

	if cfg.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return logger, nil
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	if cfg.EnableTracing {
		awsv2.AWSV2Instrumentor(&awsCfg.APIOptions)
	}
	return awsCfg, nil
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *dynamodb.Client {
	return dynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *eventbridge.Client {
	return eventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client, or nil when metrics
// are disabled so emission becomes a no-op
func ProvideCloudWatchClient(cfg *config.Config, awsCfg aws.Config) *cloudwatch.Client {
	if !cfg.EnableMetrics {
		return nil
	}
	return cloudwatch.NewFromConfig(awsCfg)
}

// ProvideMetrics creates the metrics emitter
func ProvideMetrics(client *cloudwatch.Client) *observability.Metrics {
	return observability.NewMetrics("askbox", client)
}

// ProvideTracer creates the X-Ray tracer
func ProvideTracer() *observability.Tracer {
	return observability.NewTracer("askbox-backend")
}

// ProvideQuestionRepository creates the question repository
func ProvideQuestionRepository(client *dynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.QuestionRepository {
	return dynamorepo.NewQuestionRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideUserRepository creates the user repository
func ProvideUserRepository(client *dynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.UserRepository {
	return dynamorepo.NewUserRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideSubscriptionRepository creates the push subscription registry
func ProvideSubscriptionRepository(client *dynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.SubscriptionRepository {
	return dynamorepo.NewSubscriptionRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideEventPublisher creates the EventBridge event publisher
func ProvideEventPublisher(client *eventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	return ebpublisher.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvidePushSender creates the push relay. Environments fronted by an API
// Gateway WebSocket stage deliver over the management API; everything else
// uses Web Push with the configured VAPID keys.
func ProvidePushSender(cfg *config.Config, awsCfg aws.Config, logger *zap.Logger) ports.PushSender {
	if cfg.WebSocketEndpoint != "" {
		return websocket.NewSender(awsCfg, cfg.WebSocketEndpoint, logger)
	}
	return webpush.NewSender(cfg.VAPIDSubscriber, cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey, cfg.PushTTLSeconds, logger)
}

// ProvideFriendshipService creates the friendship derivation service
func ProvideFriendshipService() *services.FriendshipService {
	return services.NewFriendshipService()
}

// ProvideDispatcher creates the notification dispatcher
func ProvideDispatcher(
	subscriptionRepo ports.SubscriptionRepository,
	sender ports.PushSender,
	logger *zap.Logger,
) *notify.Dispatcher {
	return notify.NewDispatcher(subscriptionRepo, sender, logger)
}

// ProvideAskQuestionHandler creates the ask question command handler
func ProvideAskQuestionHandler(
	questionRepo ports.QuestionRepository,
	userRepo ports.UserRepository,
	eventBus ports.EventPublisher,
	logger *zap.Logger,
) *cmdhandlers.AskQuestionHandler {
	return cmdhandlers.NewAskQuestionHandler(questionRepo, userRepo, eventBus, logger)
}

// ProvideAnswerQuestionHandler creates the answer question command handler
func ProvideAnswerQuestionHandler(
	questionRepo ports.QuestionRepository,
	eventBus ports.EventPublisher,
	logger *zap.Logger,
) *cmdhandlers.AnswerQuestionHandler {
	return cmdhandlers.NewAnswerQuestionHandler(questionRepo, eventBus, logger)
}

// ProvideSubscriptionCommandHandler creates the subscription registry handler
func ProvideSubscriptionCommandHandler(
	subscriptionRepo ports.SubscriptionRepository,
	eventBus ports.EventPublisher,
	logger *zap.Logger,
) *cmdhandlers.SubscriptionHandler {
	return cmdhandlers.NewSubscriptionHandler(subscriptionRepo, eventBus, logger)
}

// ProvideUpdateProfileHandler creates the profile command handler
func ProvideUpdateProfileHandler(userRepo ports.UserRepository, logger *zap.Logger) *cmdhandlers.UpdateProfileHandler {
	return cmdhandlers.NewUpdateProfileHandler(userRepo, logger)
}

// ProvideInboxHandler creates the inbox query handler
func ProvideInboxHandler(questionRepo ports.QuestionRepository, logger *zap.Logger) *qryhandlers.InboxHandler {
	return qryhandlers.NewInboxHandler(questionRepo, logger)
}

// ProvideFriendsQueryHandler creates the friends query handler
func ProvideFriendsQueryHandler(
	questionRepo ports.QuestionRepository,
	friendship *services.FriendshipService,
	logger *zap.Logger,
) *qryhandlers.FriendsHandler {
	return qryhandlers.NewFriendsHandler(questionRepo, friendship, logger)
}

// ProvideJWTValidator creates the bearer token validator
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	return auth.NewJWTValidator(auth.JWTConfig{
		SigningMethod: "HS256",
		SecretKey:     cfg.JWTSecret,
		Issuer:        cfg.JWTIssuer,
	})
}

// ProvideAuthMiddleware creates the authentication middleware
func ProvideAuthMiddleware(validator *auth.JWTValidator, logger *zap.Logger) *middleware.Auth {
	return middleware.NewAuth(validator, logger)
}

// ProvideQuestionHTTPHandler creates the question HTTP handler
func ProvideQuestionHTTPHandler(
	askHandler *cmdhandlers.AskQuestionHandler,
	answerHandler *cmdhandlers.AnswerQuestionHandler,
	inboxHandler *qryhandlers.InboxHandler,
	logger *zap.Logger,
) *resthandlers.QuestionHandler {
	return resthandlers.NewQuestionHandler(askHandler, answerHandler, inboxHandler, logger)
}

// ProvideSubscriptionHTTPHandler creates the subscription HTTP handler
func ProvideSubscriptionHTTPHandler(
	subscriptions *cmdhandlers.SubscriptionHandler,
	logger *zap.Logger,
) *resthandlers.SubscriptionHandler {
	return resthandlers.NewSubscriptionHandler(subscriptions, logger)
}

// ProvideFriendsHTTPHandler creates the friends HTTP handler
func ProvideFriendsHTTPHandler(
	friendsHandler *qryhandlers.FriendsHandler,
	logger *zap.Logger,
) *resthandlers.FriendsHandler {
	return resthandlers.NewFriendsHandler(friendsHandler, logger)
}

// ProvideProfileHTTPHandler creates the profile HTTP handler
func ProvideProfileHTTPHandler(
	updateHandler *cmdhandlers.UpdateProfileHandler,
	logger *zap.Logger,
) *resthandlers.ProfileHandler {
	return resthandlers.NewProfileHandler(updateHandler, logger)
}

// ProvideRouter creates the HTTP router
func ProvideRouter(
	cfg *config.Config,
	authMiddleware *middleware.Auth,
	questionHandler *resthandlers.QuestionHandler,
	subscriptionHandler *resthandlers.SubscriptionHandler,
	friendsHandler *resthandlers.FriendsHandler,
	profileHandler *resthandlers.ProfileHandler,
	logger *zap.Logger,
) *rest.Router {
	return rest.NewRouter(cfg, authMiddleware, questionHandler, subscriptionHandler, friendsHandler, profileHandler, logger)
}
