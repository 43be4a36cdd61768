package main

import (
	"fmt"
	"github.com/nikolayk812/storefront-cart/internal/session"
	"github.com/spf13/cobra"
)

// The panel flag lives only as long as the session value, so these commands
// report the state they leave behind in this process.
func (c *cli) newPanelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "panel",
		Short: "Open, close or toggle the cart panel",
	}

	cmd.AddCommand(
		c.newPanelActionCmd("open", "Open the cart panel", (*session.Session).OpenPanel),
		c.newPanelActionCmd("close", "Close the cart panel", (*session.Session).ClosePanel),
		c.newPanelActionCmd("toggle", "Toggle the cart panel", (*session.Session).TogglePanel),
	)

	return cmd
}

func (c *cli) newPanelActionCmd(use, short string, fn func(*session.Session)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), func(_ *app, s *session.Session) error {
				fn(s)

				state := "closed"
				if s.IsPanelOpen() {
					state = "open"
				}

				_, err := fmt.Fprintf(cmd.OutOrStdout(), "panel %s, %d items\n", state, s.Count())
				return err
			})
		},
	}
}
