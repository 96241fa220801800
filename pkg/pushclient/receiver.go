// Package pushclient implements the background receiver that turns incoming
// push messages into displayed notifications and routes notification clicks
// back into the application. It holds no state of its own: everything it
// needs arrives in the trigger or lives in the platform.
package pushclient

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"askbox-backend/application/notify"
)

// Notification is a displayed notification the user can interact with
type Notification interface {
	// TargetURL is the in-app destination stored when the notification
	// was shown
	TargetURL() string
	Close()
}

// DisplayOptions carries everything the platform needs to show one
// notification. TargetURL is the only structured data attached.
type DisplayOptions struct {
	Title     string
	Body      string
	Icon      string
	Badge     string
	Tag       string
	TargetURL string
}

// NotificationSurface is the platform's notification display
type NotificationSurface interface {
	Show(ctx context.Context, opts DisplayOptions) error
}

// Window is one open application window
type Window interface {
	URL() string
	Focus(ctx context.Context) error
	Navigate(ctx context.Context, url string) error
}

// WindowRegistry enumerates and opens application windows
type WindowRegistry interface {
	OpenWindows(ctx context.Context) ([]Window, error)
	OpenWindow(ctx context.Context, url string) error
}

// Lifecycle is the platform's worker lifecycle control
type Lifecycle interface {
	// Claim takes control of all application windows immediately,
	// without waiting for a previous worker instance to retire
	Claim(ctx context.Context) error
}

// Receiver handles the push, click, and activate triggers. Construct one
// per worker invocation; it carries no state across triggers.
type Receiver struct {
	origin  string
	surface NotificationSurface
	windows WindowRegistry
	life    Lifecycle
	logger  *zap.Logger
}

// NewReceiver creates a receiver scoped to the given application origin
func NewReceiver(
	origin string,
	surface NotificationSurface,
	windows WindowRegistry,
	life Lifecycle,
	logger *zap.Logger,
) *Receiver {
	return &Receiver{
		origin:  strings.TrimSuffix(origin, "/"),
		surface: surface,
		windows: windows,
		life:    life,
		logger:  logger,
	}
}

// HandlePush decodes an incoming push payload and displays it. A missing
// or unparseable payload is ignored without error: the platform delivers
// empty wake-ups and a bad payload must not crash the worker.
func (r *Receiver) HandlePush(ctx context.Context, raw []byte) error {
	if len(raw) == 0 {
		r.logger.Debug("empty push wake-up ignored")
		return nil
	}

	var p notify.Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		r.logger.Debug("unparseable push payload ignored", zap.Error(err))
		return nil
	}

	opts := DisplayOptions{
		Title:     p.Title,
		Body:      p.Body,
		Icon:      p.Icon,
		Badge:     p.Badge,
		Tag:       p.Tag,
		TargetURL: p.URL,
	}
	if opts.Icon == "" {
		opts.Icon = notify.DefaultIcon
	}
	if opts.Badge == "" {
		opts.Badge = notify.DefaultBadge
	}
	if opts.Tag == "" {
		// The platform collapses notifications sharing a tag, so even
		// untagged payloads replace each other instead of piling up
		opts.Tag = notify.DefaultTag
	}

	return r.surface.Show(ctx, opts)
}

// HandleClick closes the clicked notification and routes the user to its
// stored URL, reusing an already-open application window when one exists.
func (r *Receiver) HandleClick(ctx context.Context, n Notification) error {
	n.Close()

	target := n.TargetURL()
	if target == "" {
		target = "/"
	}

	open, err := r.windows.OpenWindows(ctx)
	if err != nil {
		r.logger.Warn("failed to enumerate windows, opening new", zap.Error(err))
		open = nil
	}

	for _, w := range open {
		if !r.sameOrigin(w.URL()) {
			continue
		}
		if err := w.Focus(ctx); err != nil {
			r.logger.Warn("failed to focus window", zap.Error(err))
			continue
		}
		return w.Navigate(ctx, target)
	}

	return r.windows.OpenWindow(ctx, target)
}

// HandleActivate claims all windows so the new worker takes effect
// without the user restarting the application shell
func (r *Receiver) HandleActivate(ctx context.Context) error {
	return r.life.Claim(ctx)
}

func (r *Receiver) sameOrigin(url string) bool {
	if url == "" {
		return false
	}
	return strings.HasPrefix(url, r.origin+"/") || url == r.origin
}
