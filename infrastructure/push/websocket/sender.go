// Package websocket delivers notification payloads over API Gateway
// WebSocket connections, for clients that keep the app open instead of
// registering a browser push endpoint. A subscription's endpoint holds the
// connection ID; a GoneException from the management API is reported as
// ports.ErrEndpointGone so the registry prunes it like an expired push
// endpoint.
package websocket

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
	apigwTypes "github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi/types"
	"go.uber.org/zap"

	"askbox-backend/application/ports"
	"askbox-backend/domain/core/entities"
)

// Sender implements ports.PushSender over API Gateway WebSocket connections
type Sender struct {
	client *apigatewaymanagementapi.Client
	logger *zap.Logger
}

// NewSender creates a WebSocket sender for the given management endpoint
func NewSender(cfg aws.Config, managementEndpoint string, logger *zap.Logger) ports.PushSender {
	client := apigatewaymanagementapi.NewFromConfig(cfg, func(o *apigatewaymanagementapi.Options) {
		o.BaseEndpoint = aws.String(managementEndpoint)
	})
	return &Sender{client: client, logger: logger}
}

// Send posts one payload to one connection
func (s *Sender) Send(ctx context.Context, sub *entities.PushSubscription, payload []byte) error {
	input := &apigatewaymanagementapi.PostToConnectionInput{
		ConnectionId: aws.String(sub.Endpoint()),
		Data:         payload,
	}

	if _, err := s.client.PostToConnection(ctx, input); err != nil {
		var gone *apigwTypes.GoneException
		if errors.As(err, &gone) {
			return ports.ErrEndpointGone
		}
		return fmt.Errorf("failed to post to connection: %w", err)
	}

	s.logger.Debug("Message posted to connection",
		zap.String("subscriptionID", sub.ID().String()),
	)
	return nil
}
