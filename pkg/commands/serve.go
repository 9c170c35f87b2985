package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tableflip.dev/sidenav/pkg/commands/options"
	"tableflip.dev/sidenav/pkg/runner/serve"
)

func addServe(topLevel *cobra.Command) {
	so := &options.ServerOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the preference API and push channel.",
		Example: `
sidenav serve
sidenav serve --addr :9000 --allow-all-origins
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

			s := serve.Serve{
				Settings: settings,
				Addr:     so.Addr,
				AllowAll: so.AllowAll,
				Logger:   log,
			}
			return s.Do(ctx)
		},
	}

	options.AddServeArgs(cmd, so)

	topLevel.AddCommand(cmd)
}
