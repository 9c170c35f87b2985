package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/sidenav/pkg/commands/options"
	"tableflip.dev/sidenav/pkg/runner/ui"
)

func addUI(topLevel *cobra.Command) {
	so := &options.ServerOptions{}
	no := &options.NavOptions{}

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the terminal navigation",
		Example: `
sidenav ui
sidenav ui --path /settings/profile
sidenav ui --collapse duration.600ms
sidenav ui --server http://localhost:8086
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, log, err := load()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			i := ui.UI{
				Settings:  settings,
				ServerURL: so.URL,
				StartPath: no.Path,
				Collapse:  no.Collapse,
				Logger:    log,
			}
			return i.Do(context.Background())
		},
	}

	options.AddServerURLArgs(cmd, so)
	options.AddStartPathArgs(cmd, no)
	options.AddCollapseArgs(cmd, no)

	topLevel.AddCommand(cmd)
}
