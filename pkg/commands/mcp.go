package commands

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tableflip.dev/sidenav/pkg/commands/options"
	"tableflip.dev/sidenav/pkg/events"
	"tableflip.dev/sidenav/pkg/prefs"
	"tableflip.dev/sidenav/pkg/push"
	"tableflip.dev/sidenav/pkg/runner/mcp"
)

func addMCP(topLevel *cobra.Command) {
	so := &options.ServerOptions{}
	var (
		httpAddr string
		stdio    bool
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Expose preferences and path matching over the Model Context Protocol.",
		Example: `
sidenav mcp --stdio
sidenav mcp --http 127.0.0.1:8087
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			settings, log, err := load()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			bus := events.NewBus()
			url := so.URL
			if url == "" {
				url = settings.ServerURL
			}
			if url != "" {
				client, err := push.Dial(ctx, url, log)
				if err != nil {
					log.Warn("push channel unavailable", zap.String("url", url), zap.Error(err))
				} else {
					defer client.Close()
					client.Forward(bus)
				}
			}

			r := mcp.Runner{
				Store:          prefs.Open(settings, prefs.WithLogger(log)),
				Bus:            bus,
				Version:        version,
				Logger:         log,
				Transport:      mcp.TransportHTTP,
				HTTPListenAddr: httpAddr,
				OnHTTPListening: func(a net.Addr) {
					fmt.Fprintf(cmd.ErrOrStderr(), "MCP listening on http://%s%s\n", a, mcp.DefaultEndpoint)
				},
			}
			if stdio {
				r.Transport = mcp.TransportStdio
			}
			return r.Do(ctx)
		},
	}

	cmd.Flags().StringVar(&httpAddr, "http", mcp.DefaultListenAddr, "Listen address for the streamable HTTP transport.")
	cmd.Flags().BoolVar(&stdio, "stdio", false, "Serve over stdio instead of HTTP.")
	options.AddServerURLArgs(cmd, so)

	topLevel.AddCommand(cmd)
}
