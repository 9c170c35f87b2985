// Package ui opens the terminal navigation host.
package ui

import (
	"context"

	"go.uber.org/zap"

	"tableflip.dev/sidenav/pkg/collapse"
	"tableflip.dev/sidenav/pkg/events"
	"tableflip.dev/sidenav/pkg/logging"
	"tableflip.dev/sidenav/pkg/metric"
	"tableflip.dev/sidenav/pkg/prefs"
	"tableflip.dev/sidenav/pkg/push"
	"tableflip.dev/sidenav/pkg/tui"
)

// UI holds what the terminal host needs.
type UI struct {
	Settings  *prefs.Settings
	ServerURL string
	StartPath string
	// Collapse holds collapse modifiers; when set they replace the configured
	// duration.
	Collapse  []string
	Logger    *zap.Logger
}

// Options resolves the tui options. The returned bus is shared with any push
// client.
func (u *UI) Options(ctx context.Context) tui.Options {
	log := logging.OrNop(u.Logger)
	cfg := collapse.Config{DurationMs: u.Settings.CollapseDuration}
	if len(u.Collapse) > 0 {
		cfg = collapse.ParseModifiers(u.Collapse)
	}
	return tui.Options{
		Context:   ctx,
		Store:     prefs.Open(u.Settings, prefs.WithLogger(log)),
		Bus:       events.NewBus(),
		Collapse:  cfg,
		StartPath: u.StartPath,
		Logger:    log,
		Metrics:   metric.NewSet(),
	}
}

// Do runs the program until the user quits. When a server URL is set, layout
// events are forwarded to it and relayed changes are applied locally.
func (u *UI) Do(ctx context.Context) error {
	log := logging.OrNop(u.Logger)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts := u.Options(ctx)

	url := u.ServerURL
	if url == "" {
		url = u.Settings.ServerURL
	}
	if url == "" {
		return tui.Run(opts, nil)
	}

	client, err := push.Dial(ctx, url, log)
	if err != nil {
		// The host works without the push channel.
		log.Warn("push channel unavailable", zap.String("url", url), zap.Error(err))
		return tui.Run(opts, nil)
	}
	defer client.Close()
	client.Forward(opts.Bus)

	remote := make(chan push.Message, 16)
	go func() {
		defer close(remote)
		err := client.Receive(ctx, func(m push.Message) {
			select {
			case remote <- m:
			case <-ctx.Done():
			}
		})
		if err != nil {
			log.Debug("push channel closed", zap.Error(err))
		}
	}()
	return tui.Run(opts, remote)
}
