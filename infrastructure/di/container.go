package di

import (
	"go.uber.org/zap"

	cmdhandlers "askbox-backend/application/commands/handlers"
	"askbox-backend/application/notify"
	"askbox-backend/application/ports"
	qryhandlers "askbox-backend/application/queries/handlers"
	"askbox-backend/infrastructure/config"
	"askbox-backend/interfaces/http/rest"
	"askbox-backend/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *observability.Metrics
	Tracer  *observability.Tracer

	QuestionRepository     ports.QuestionRepository
	UserRepository         ports.UserRepository
	SubscriptionRepository ports.SubscriptionRepository
	EventPublisher         ports.EventPublisher
	PushSender             ports.PushSender

	Dispatcher *notify.Dispatcher

	AskQuestionHandler    *cmdhandlers.AskQuestionHandler
	AnswerQuestionHandler *cmdhandlers.AnswerQuestionHandler
	SubscriptionHandler   *cmdhandlers.SubscriptionHandler
	UpdateProfileHandler  *cmdhandlers.UpdateProfileHandler
	InboxHandler          *qryhandlers.InboxHandler
	FriendsHandler        *qryhandlers.FriendsHandler

	Router *rest.Router
}

// Shutdown flushes buffered log entries
func (c *Container) Shutdown() {
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}
}
