package options

import (
	"github.com/spf13/cobra"
)

// ServerOptions
type ServerOptions struct {
	Addr     string
	URL      string
	AllowAll bool
}

// AddServeArgs registers the listen flags for serve.
func AddServeArgs(cmd *cobra.Command, o *ServerOptions) {
	cmd.Flags().StringVar(&o.Addr, "addr", "",
		"Listen address, defaults to server.addr from config.")
	cmd.Flags().BoolVar(&o.AllowAll, "allow-all-origins", false,
		"Allow any CORS origin.")
}

// AddServerURLArgs registers the push channel flag for clients.
func AddServerURLArgs(cmd *cobra.Command, o *ServerOptions) {
	cmd.Flags().StringVar(&o.URL, "server", "",
		`Push channel server, example: --server="http://localhost:8086".`)
}
