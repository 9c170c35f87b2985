package commands

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/sidenav/pkg/runner/prefs"
)

func addCompletions(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generates bash completion scripts",
		Long: `To load completion run

. <(sidenav completion)

To configure your bash shell to load completions for each session add to your bashrc

# ~/.bashrc or ~/.profile
. <(sidenav completion)
`,
		Run: func(cmd *cobra.Command, args []string) {
			_ = topLevel.GenBashCompletion(os.Stdout)
		},
	}

	topLevel.AddCommand(cmd)
}

func keyCompletions(toComplete string) []string {
	var keys []string
	for _, c := range prefs.Choices() {
		if strings.HasPrefix(c.Key, toComplete) {
			keys = append(keys, c.Key)
		}
	}
	return keys
}
