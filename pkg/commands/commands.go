package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/sidenav/pkg/commands/options"
	"tableflip.dev/sidenav/pkg/logging"
	"tableflip.dev/sidenav/pkg/prefs"
)

var (
	output = &options.OutputOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "sidenav",
		Short: base.Wrap80("Navigation state, collapsible sections and layout preferences for the terminal and the web."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addServe(topLevel)
	addPrefs(topLevel)
	addMatch(topLevel)
	addMCP(topLevel)
	addCompletions(topLevel)
	addVersion(topLevel)
}

// load resolves config and the logger every command shares.
func load() (*prefs.Settings, *zap.Logger, error) {
	settings, err := prefs.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	return settings, logging.New(settings.LogLevel), nil
}
