package main

import (
	"fmt"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage cart session ids",
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "new",
		Short:   "Print a fresh session id",
		Example: `  export STOREFRONT_SESSION=$(storefront session new)`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), uuid.NewString())
			return err
		},
	})

	return cmd
}
