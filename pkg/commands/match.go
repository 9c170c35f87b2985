package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/sidenav/pkg/commands/options"
	"tableflip.dev/sidenav/pkg/runner/match"
)

func addMatch(topLevel *cobra.Command) {
	no := &options.NavOptions{}

	cmd := &cobra.Command{
		Use:   "match <current-path> <item-path>...",
		Short: "Report which item paths are active for a path.",
		Example: `
sidenav match /projects/42 /projects /reports
sidenav match --exact /projects/ /projects
`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			m := match.Match{
				Current: args[0],
				Items:   args[1:],
				Exact:   no.Exact,
				JSON:    output.JSON,
				Out:     cmd.OutOrStdout(),
			}
			return output.HandleError(m.Do(context.Background()))
		},
	}

	options.AddExactArgs(cmd, no)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
