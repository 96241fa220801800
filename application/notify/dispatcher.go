package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"askbox-backend/application/ports"
	"askbox-backend/domain/core/entities"

	"go.uber.org/zap"
)

// Report aggregates the per-subscription outcomes of one dispatch. Delivery
// failures live here instead of in an error: a failed notification must
// never fail the content write that triggered it.
type Report struct {
	Target string `json:"target"`
	// NoSubscribers is set when the target had no registered devices;
	// no network call is made in that case
	NoSubscribers bool `json:"no_subscribers"`
	// Sent counts successful relay handoffs
	Sent int `json:"sent"`
	// FailedTransient counts relay errors worth retrying at a higher
	// layer; this core schedules no retries itself
	FailedTransient int `json:"failed_transient"`
	// RemovedExpired counts endpoints the relay reported permanently gone,
	// which were pruned from the registry
	RemovedExpired int `json:"removed_expired"`
}

// Dispatcher fans one domain event out to every registered device of its
// target user. Sends run in parallel and are isolated: one dead or slow
// endpoint cannot block or abort delivery to the others.
type Dispatcher struct {
	subscriptionRepo ports.SubscriptionRepository
	sender           ports.PushSender
	logger           *zap.Logger
}

// NewDispatcher creates a dispatcher over the given registry and relay
func NewDispatcher(
	subscriptionRepo ports.SubscriptionRepository,
	sender ports.PushSender,
	logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		subscriptionRepo: subscriptionRepo,
		sender:           sender,
		logger:           logger,
	}
}

// Dispatch delivers event to all of its target's subscriptions. The
// returned error covers resolution failures only (registry unreachable);
// delivery outcomes are in the report.
func (d *Dispatcher) Dispatch(ctx context.Context, event Event) (Report, error) {
	target := event.TargetUserID()
	report := Report{Target: target}

	if target == "" {
		// A question with no stored sender has nobody to tell
		report.NoSubscribers = true
		return report, nil
	}

	subs, err := d.subscriptionRepo.GetByOwner(ctx, target)
	if err != nil {
		return report, fmt.Errorf("failed to resolve subscriptions: %w", err)
	}
	if len(subs) == 0 {
		report.NoSubscribers = true
		return report, nil
	}

	payload, err := event.Payload().Encode()
	if err != nil {
		return report, fmt.Errorf("failed to encode payload: %w", err)
	}

	outcomes := make([]outcome, len(subs))
	var wg sync.WaitGroup
	for i, sub := range subs {
		wg.Add(1)
		go func(i int, sub *entities.PushSubscription) {
			defer wg.Done()
			outcomes[i] = d.sendOne(ctx, sub, payload)
		}(i, sub)
	}
	wg.Wait()

	for _, o := range outcomes {
		switch o {
		case outcomeSent:
			report.Sent++
		case outcomeTransient:
			report.FailedTransient++
		case outcomeRemoved:
			report.RemovedExpired++
		}
	}

	d.logger.Info("dispatch complete",
		zap.String("target", target),
		zap.Int("sent", report.Sent),
		zap.Int("failedTransient", report.FailedTransient),
		zap.Int("removedExpired", report.RemovedExpired),
	)
	return report, nil
}

type outcome int

const (
	outcomeSent outcome = iota
	outcomeTransient
	outcomeRemoved
)

// sendOne performs a single best-effort delivery attempt. Endpoints the
// relay reports permanently gone are pruned immediately so stale device
// tokens never accumulate; transient failures are only counted, the
// higher layer may redrive the event.
func (d *Dispatcher) sendOne(ctx context.Context, sub *entities.PushSubscription, payload []byte) outcome {
	err := d.sender.Send(ctx, sub, payload)
	if err == nil {
		// Best effort bookkeeping; a failed touch is not a failed send
		if touchErr := d.subscriptionRepo.TouchValid(ctx, sub.Endpoint(), time.Now().UTC()); touchErr != nil {
			d.logger.Debug("failed to record delivery timestamp",
				zap.String("subscriptionID", sub.ID().String()),
				zap.Error(touchErr),
			)
		}
		return outcomeSent
	}

	if ports.IsEndpointGone(err) {
		if delErr := d.subscriptionRepo.DeleteByEndpoint(ctx, sub.Endpoint()); delErr != nil {
			d.logger.Error("failed to prune expired subscription",
				zap.String("subscriptionID", sub.ID().String()),
				zap.Error(delErr),
			)
			// Still report it as expired; the next dispatch will retry
			// the prune
		}
		d.logger.Info("pruned expired subscription",
			zap.String("subscriptionID", sub.ID().String()),
			zap.String("owner", sub.OwnerID()),
		)
		return outcomeRemoved
	}

	d.logger.Warn("push delivery failed",
		zap.String("subscriptionID", sub.ID().String()),
		zap.Error(err),
	)
	return outcomeTransient
}
