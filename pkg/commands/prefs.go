package commands

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tableflip.dev/sidenav/pkg/commands/options"
	"tableflip.dev/sidenav/pkg/events"
	"tableflip.dev/sidenav/pkg/prefs"
	"tableflip.dev/sidenav/pkg/push"
	runner "tableflip.dev/sidenav/pkg/runner/prefs"
)

func addPrefs(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Read and write stored preferences.",
		Example: `
sidenav prefs list
sidenav prefs get layout
sidenav prefs set sidebarCollapsed true
`,
	}

	addPrefsGet(cmd)
	addPrefsSet(cmd)
	addPrefsList(cmd)

	topLevel.AddCommand(cmd)
}

func completeKey(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return keyCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
}

func openStore() (*prefs.Store, *prefs.Settings, *zap.Logger, error) {
	settings, log, err := load()
	if err != nil {
		return nil, nil, nil, err
	}
	return prefs.Open(settings, prefs.WithLogger(log)), settings, log, nil
}

func addPrefsGet(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:               "get <key>",
		Short:             "Print one preference.",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeKey,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			store, _, _, err := openStore()
			if err != nil {
				return output.HandleError(err)
			}
			g := runner.Get{Store: store, Key: args[0], JSON: output.JSON, Out: cmd.OutOrStdout()}
			return output.HandleError(g.Do(context.Background()))
		},
	}

	options.AddOutputArg(cmd, output)

	parent.AddCommand(cmd)
}

func addPrefsSet(parent *cobra.Command) {
	i := &options.InteractiveOptions{}
	so := &options.ServerOptions{}

	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store one preference.",
		Long: `Store one preference. Values are read as JSON literals where possible:
true, false, null, numbers and quoted strings. Anything else is stored as a
string. Setting layout or sidebarCollapsed notifies the push channel server
when --server is given.`,
		Example: `
sidenav prefs set layout horizontal
sidenav prefs set sidebarCollapsed true --server http://localhost:8086
sidenav prefs set -i
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if i.Interactive {
				if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
					return errors.New("-i needs an interactive terminal")
				}
				return nil
			}
			if len(args) != 2 {
				return errors.New("expected <key> <value>")
			}
			return nil
		},
		ValidArgsFunction: completeKey,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			store, settings, log, err := openStore()
			if err != nil {
				return err
			}
			s := &runner.Set{Store: store, Bus: events.NewBus(), Out: cmd.OutOrStdout()}
			if i.Interactive {
				if err := runner.Prompt(s, io.NopCloser(cmd.InOrStdin()), nopWriteCloser{cmd.OutOrStdout()}); err != nil {
					return err
				}
			} else {
				s.Key, s.Value = args[0], args[1]
			}

			url := so.URL
			if url == "" {
				url = settings.ServerURL
			}
			if url != "" {
				client, err := push.Dial(context.Background(), url, log)
				if err != nil {
					log.Warn("push channel unavailable", zap.String("url", url), zap.Error(err))
				} else {
					defer client.Close()
					client.Forward(s.Bus)
				}
			}
			return s.Do(context.Background())
		},
	}

	options.AddInteractiveArgs(cmd, i)
	options.AddServerURLArgs(cmd, so)

	parent.AddCommand(cmd)
}

func addPrefsList(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print every stored preference.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			store, _, _, err := openStore()
			if err != nil {
				return output.HandleError(err)
			}
			l := runner.List{Store: store, JSON: output.JSON, Out: cmd.OutOrStdout()}
			return output.HandleError(l.Do(context.Background()))
		},
	}

	options.AddOutputArg(cmd, output)

	parent.AddCommand(cmd)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
