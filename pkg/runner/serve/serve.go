// Package serve runs the preference API and push channel server.
package serve

import (
	"context"

	"go.uber.org/zap"

	"tableflip.dev/sidenav/pkg/logging"
	"tableflip.dev/sidenav/pkg/metric"
	"tableflip.dev/sidenav/pkg/prefs"
	"tableflip.dev/sidenav/pkg/server"
)

// Serve holds the resolved settings for a server run.
type Serve struct {
	Settings *prefs.Settings
	Addr     string
	AllowAll bool
	Logger   *zap.Logger
}

// Build opens the store with write counting and wires the server.
func (s *Serve) Build() *server.Server {
	log := logging.OrNop(s.Logger)
	metrics := metric.NewSet()
	store := prefs.Open(s.Settings, prefs.WithLogger(log), prefs.WithWriteCounter(metrics.PreferenceWrites))

	addr := s.Addr
	if addr == "" {
		addr = s.Settings.ServerAddr
	}
	return server.New(server.Config{Addr: addr, AllowAll: s.AllowAll}, store, metrics, log)
}

// Do serves until ctx is done.
func (s *Serve) Do(ctx context.Context) error {
	log := logging.OrNop(s.Logger)
	srv := s.Build()
	log.Info("serving preferences", zap.String("path", s.Settings.BasePath()))
	return srv.Run(ctx)
}
