//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"askbox-backend/infrastructure/config"
)

// SuperSet is the complete provider set for the application
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideCloudWatchClient,
	ProvideMetrics,
	ProvideTracer,
	ProvideQuestionRepository,
	ProvideUserRepository,
	ProvideSubscriptionRepository,
	ProvideEventPublisher,
	ProvidePushSender,
	ProvideFriendshipService,
	ProvideDispatcher,
	ProvideAskQuestionHandler,
	ProvideAnswerQuestionHandler,
	ProvideSubscriptionCommandHandler,
	ProvideUpdateProfileHandler,
	ProvideInboxHandler,
	ProvideFriendsQueryHandler,
	ProvideJWTValidator,
	ProvideAuthMiddleware,
	ProvideQuestionHTTPHandler,
	ProvideSubscriptionHTTPHandler,
	ProvideFriendsHTTPHandler,
	ProvideProfileHTTPHandler,
	ProvideRouter,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer builds the full dependency graph
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil
}
