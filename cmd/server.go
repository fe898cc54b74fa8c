package cmd

import (
	"multipiste/server"

	"github.com/spf13/cobra"
)

func newServerCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the HTTP server: track listing API, sound downloads and the static web client.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return server.Start(cmd.Context(), a.cfg)
		},
	}
}
