package options

import (
	"github.com/spf13/cobra"
)

// NavOptions
type NavOptions struct {
	Path     string
	Exact    bool
	Collapse []string
}

func AddStartPathArgs(cmd *cobra.Command, o *NavOptions) {
	cmd.Flags().StringVar(&o.Path, "path", "/",
		"Path the navigation starts at.")
}

func AddCollapseArgs(cmd *cobra.Command, o *NavOptions) {
	cmd.Flags().StringSliceVar(&o.Collapse, "collapse", nil,
		"Collapse modifiers, e.g. duration.500ms. Overrides collapse.duration_ms.")
}

func AddExactArgs(cmd *cobra.Command, o *NavOptions) {
	cmd.Flags().BoolVar(&o.Exact, "exact", false,
		"Only match the item path itself, not its children.")
}
