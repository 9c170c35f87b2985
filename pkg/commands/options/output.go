package options

import (
	"encoding/json"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// OutputOptions selects machine readable output.
type OutputOptions struct {
	JSON bool
}

func AddOutputArg(cmd *cobra.Command, po *OutputOptions) {
	cmd.Flags().BoolVar(&po.JSON, "json", false,
		"Output as JSON.")
}

// HandleError reports err as a JSON object when JSON output is on, so
// scripts always get a parseable line. Otherwise err is returned to cobra.
func (o *OutputOptions) HandleError(err error) error {
	if !o.JSON || err == nil {
		return err
	}
	if encErr := json.NewEncoder(color.Output).Encode(map[string]string{"error": err.Error()}); encErr != nil {
		return encErr
	}
	return nil
}
