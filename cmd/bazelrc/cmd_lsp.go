package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/bazelrc/workspace"
)

func newLSPCmd(opts *rootOptions) *cobra.Command {
	var transport string
	var address string

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("transport") {
				transport = opts.config.LSP.Transport
			}
			if !cmd.Flags().Changed("address") {
				address = opts.config.LSP.Address
			}
			server := workspace.NewLSPServer(version, opts.config)
			return server.Run(transport, address)
		},
	}

	cmd.Flags().StringVar(&transport, "transport", "stdio",
		"transport to serve on ("+strings.Join(workspace.Transports, ", ")+")")
	cmd.Flags().StringVar(&address, "address", "", "listen address for tcp and websocket")

	return cmd
}
