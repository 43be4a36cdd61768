package main

import (
	"context"
	"fmt"
	"github.com/nikolayk812/storefront-cart/internal/config"
	"github.com/nikolayk812/storefront-cart/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"os"
	"os/signal"
	"syscall"
)

// cli carries the flags and the wiring shared by one command tree.
type cli struct {
	configPath string
	sessionID  string

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "storefront",
		Short: "Storefront cart session",
		Long: `storefront manages one shopper's cart against a hosted commerce platform.

The cart is persisted locally and mirrored to a platform checkout once one
has been created with "storefront checkout".`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			c.cfg, err = config.Load(c.configPath)
			if err != nil {
				return fmt.Errorf("config.Load: %w", err)
			}

			c.logger, err = logging.New(c.cfg.Log.Level, c.cfg.Log.Format)
			if err != nil {
				return fmt.Errorf("logging.New: %w", err)
			}
			c.logger = c.logger.With(zap.String("env", c.cfg.Env))

			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "storefront.yaml", "path to the YAML config file")
	root.PersistentFlags().StringVar(&c.sessionID, "session", os.Getenv("STOREFRONT_SESSION"), "cart session id")

	root.AddCommand(
		c.newCartCmd(),
		c.newCheckoutCmd(),
		c.newPanelCmd(),
		c.newCatalogCmd(),
		newSessionCmd(),
	)

	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
