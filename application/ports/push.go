package ports

import (
	"context"
	"errors"

	"askbox-backend/domain/core/entities"
)

// ErrEndpointGone is returned by a PushSender when the relay reports the
// endpoint permanently invalid (404/410 class). The dispatcher reacts by
// deleting the subscription; it is never surfaced to a user.
var ErrEndpointGone = errors.New("push endpoint permanently gone")

// PushSender delivers one encrypted payload to one subscription endpoint.
// A send is a single best-effort attempt: no retry, no queueing. Errors
// other than ErrEndpointGone are transient and left to the caller's report.
type PushSender interface {
	Send(ctx context.Context, sub *entities.PushSubscription, payload []byte) error
}

// IsEndpointGone reports whether err marks a permanently dead endpoint
func IsEndpointGone(err error) bool {
	return errors.Is(err, ErrEndpointGone)
}
