package main

import (
	"fmt"
	"github.com/nikolayk812/storefront-cart/internal/session"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (c *cli) newCheckoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkout",
		Short: "Create a platform checkout from the cart and print its payable URL",
		Long: `Creates a fresh checkout on the commerce platform from the current cart
and prints the URL where the shopper pays. The cart is kept; run
"storefront cart clear" after payment.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			return c.withSession(ctx, func(_ *app, s *session.Session) error {
				url, err := s.CreateCheckout(ctx)
				if err != nil {
					return err
				}

				if url == "" {
					_, err := fmt.Fprintln(cmd.OutOrStdout(), "cart is empty, nothing to check out")
					return err
				}

				c.logger.Info("checkout created", zap.String("checkout_id", s.RemoteCheckoutID()))
				_, err = fmt.Fprintln(cmd.OutOrStdout(), url)
				return err
			})
		},
	}
}
