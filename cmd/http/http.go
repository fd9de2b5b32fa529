package http

import (
	"github.com/spf13/cobra"
)

func NewHTTPCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "http",
		Short: "Manage the MedFlow HTTP API server",
	}

	cmd.AddCommand(NewStartCommand())

	return cmd
}
