// Package webpush sends notification payloads to browser push endpoints
// using the Web Push protocol with VAPID authentication.
package webpush

import (
	"context"
	"fmt"
	"io"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"
	"go.uber.org/zap"

	"askbox-backend/application/ports"
	"askbox-backend/domain/core/entities"
)

// Sender implements ports.PushSender over the Web Push protocol. The relay
// is the browser vendor's push service; it answers 404 or 410 once a
// device unsubscribed or the endpoint rotated, which callers see as
// ports.ErrEndpointGone.
type Sender struct {
	subscriber      string
	vapidPublicKey  string
	vapidPrivateKey string
	ttl             int
	logger          *zap.Logger
}

// NewSender creates a Web Push sender. subscriber is the contact address
// required by VAPID (a mailto: or https: URI identifying this service).
func NewSender(subscriber, vapidPublicKey, vapidPrivateKey string, ttlSeconds int, logger *zap.Logger) ports.PushSender {
	return &Sender{
		subscriber:      subscriber,
		vapidPublicKey:  vapidPublicKey,
		vapidPrivateKey: vapidPrivateKey,
		ttl:             ttlSeconds,
		logger:          logger,
	}
}

// Send delivers one payload to one subscription's endpoint
func (s *Sender) Send(ctx context.Context, sub *entities.PushSubscription, payload []byte) error {
	target := &webpush.Subscription{
		Endpoint: sub.Endpoint(),
		Keys: webpush.Keys{
			P256dh: sub.Keys().P256dh,
			Auth:   sub.Keys().Auth,
		},
	}

	resp, err := webpush.SendNotificationWithContext(ctx, payload, target, &webpush.Options{
		Subscriber:      s.subscriber,
		VAPIDPublicKey:  s.vapidPublicKey,
		VAPIDPrivateKey: s.vapidPrivateKey,
		TTL:             s.ttl,
	})
	if err != nil {
		return fmt.Errorf("web push request failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return ports.ErrEndpointGone
	case resp.StatusCode >= 400:
		return fmt.Errorf("push relay rejected delivery: status %d", resp.StatusCode)
	}

	s.logger.Debug("Push delivered",
		zap.String("subscriptionID", sub.ID().String()),
		zap.Int("status", resp.StatusCode),
	)
	return nil
}
