package main

import (
	"fmt"
	"github.com/spf13/cobra"
	"strings"
	"text/tabwriter"
)

func (c *cli) newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse the storefront catalog",
	}

	cmd.AddCommand(c.newCatalogListCmd(), c.newCatalogShowCmd())

	return cmd
}

func (c *cli) newCatalogListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			return c.withApp(ctx, func(a *app) error {
				products, err := a.catalog.List(ctx, limit)
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "HANDLE\tTITLE\tVENDOR\tFROM")
				for _, p := range products {
					from := ""
					if len(p.Variants) > 0 {
						from = p.Variants[0].Price.String()
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Handle, p.Title, p.Vendor, from)
				}
				return tw.Flush()
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum products to list (default 20, max 250)")

	return cmd
}

func (c *cli) newCatalogShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <handle>...",
		Short: "Show products with their variants",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			return c.withApp(ctx, func(a *app) error {
				products, err := a.catalog.ByHandles(ctx, args)
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				for _, p := range products {
					fmt.Fprintf(tw, "%s (%s)\n", p.Title, p.Handle)
					if len(p.Tags) > 0 {
						fmt.Fprintf(tw, "tags: %s\n", strings.Join(p.Tags, ", "))
					}
					for _, v := range p.Variants {
						status := "available"
						if !v.Available {
							status = "sold out"
						}
						compare := ""
						if v.CompareAtPrice != nil {
							compare = "was " + v.CompareAtPrice.String()
						}
						fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\n", v.ID, v.Title, v.Price, compare, status)
					}
				}
				return tw.Flush()
			})
		},
	}
}
