package main

import (
	"fmt"
	"github.com/nikolayk812/storefront-cart/internal/cart"
	"github.com/nikolayk812/storefront-cart/internal/catalog"
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/session"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"io"
	"strconv"
	"text/tabwriter"
)

func (c *cli) newCartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Inspect and change the cart",
	}

	cmd.AddCommand(
		c.newCartShowCmd(),
		c.newCartAddCmd(),
		c.newCartRemoveCmd(),
		c.newCartSetCmd(),
		c.newCartClearCmd(),
	)

	return cmd
}

func (c *cli) newCartShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the cart lines, item count and total",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), func(_ *app, s *session.Session) error {
				return printCart(cmd.OutOrStdout(), s)
			})
		},
	}
}

func (c *cli) newCartAddCmd() *cobra.Command {
	var quantity int

	cmd := &cobra.Command{
		Use:   "add <product-handle> <variant-id>",
		Short: "Add a product variant to the cart",
		Example: `  storefront cart add burn-hoodie burn-hoodie-M
  storefront cart add ember-tee ember-tee-L --quantity 2`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			return c.withSession(ctx, func(a *app, s *session.Session) error {
				product, err := a.catalog.ByHandle(ctx, args[0])
				if err != nil {
					return err
				}

				item, err := catalog.LineItemFor(product, args[1])
				if err != nil {
					return err
				}

				if err := s.AddToCart(ctx, item, quantity); err != nil {
					return err
				}

				return printCart(cmd.OutOrStdout(), s)
			})
		},
	}

	cmd.Flags().IntVarP(&quantity, "quantity", "q", 1, "quantity to add")

	return cmd
}

func (c *cli) newCartRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <variant-id>",
		Short: "Remove a variant from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			return c.withSession(ctx, func(_ *app, s *session.Session) error {
				if err := s.RemoveFromCart(ctx, args[0]); err != nil {
					return err
				}
				return printCart(cmd.OutOrStdout(), s)
			})
		},
	}
}

func (c *cli) newCartSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <variant-id> <quantity>",
		Short: "Set the quantity of a variant; 0 removes it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			quantity, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("quantity[%s] is not a number", args[1])
			}

			return c.withSession(ctx, func(_ *app, s *session.Session) error {
				if err := s.UpdateQuantity(ctx, args[0], quantity); err != nil {
					return err
				}
				return printCart(cmd.OutOrStdout(), s)
			})
		},
	}
}

func (c *cli) newCartClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart and forget the remote checkout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			return c.withSession(ctx, func(_ *app, s *session.Session) error {
				if err := s.ClearCart(ctx); err != nil {
					return err
				}
				return printCart(cmd.OutOrStdout(), s)
			})
		},
	}
}

func printCart(w io.Writer, s *session.Session) error {
	c := s.Cart()
	if len(c.Items) == 0 {
		_, err := fmt.Fprintln(w, "cart is empty")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "VARIANT\tTITLE\tOPTION\tQTY\tPRICE\tLINE")
	for _, it := range c.Items {
		line := domain.Money{
			Amount:   it.UnitPrice.Amount.Mul(decimal.NewFromInt(int64(it.Quantity))),
			Currency: it.UnitPrice.Currency,
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			it.VariantID, it.Title, it.VariantLabel, it.Quantity, it.UnitPrice, line)
	}
	fmt.Fprintf(tw, "\t\t\t%d\t\t%s\n", cart.Count(c.Items), domain.Money{
		Amount:   cart.Total(c.Items),
		Currency: c.Items[0].UnitPrice.Currency,
	})

	if c.RemoteCheckoutID != "" {
		fmt.Fprintf(tw, "checkout: %s\n", c.RemoteCheckoutID)
	}

	return tw.Flush()
}
