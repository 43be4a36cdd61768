package main

import (
	"context"
	"errors"
	"fmt"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront-cart/internal/catalog"
	"github.com/nikolayk812/storefront-cart/internal/checkout"
	"github.com/nikolayk812/storefront-cart/internal/commerce/memory"
	"github.com/nikolayk812/storefront-cart/internal/commerce/shopify"
	"github.com/nikolayk812/storefront-cart/internal/config"
	"github.com/nikolayk812/storefront-cart/internal/port"
	"github.com/nikolayk812/storefront-cart/internal/repository"
	"github.com/nikolayk812/storefront-cart/internal/session"
	"go.uber.org/zap"
)

// app holds the wired components for one command invocation.
type app struct {
	store    port.SnapshotStore
	platform port.CommercePlatform
	bridge   *checkout.Bridge
	catalog  *catalog.Service

	closers []func()
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	a := &app{}

	if err := a.openStore(ctx, cfg, logger); err != nil {
		return nil, err
	}

	platform, err := newPlatform(cfg, logger)
	if err != nil {
		a.close()
		return nil, err
	}
	a.platform = platform

	timeout, err := cfg.RemoteTimeout()
	if err != nil {
		a.close()
		return nil, err
	}

	a.bridge = checkout.NewBridge(platform,
		checkout.WithLogger(logger.Named("checkout")),
		checkout.WithTimeout(timeout))
	a.catalog = catalog.New(platform, logger.Named("catalog"))

	return a, nil
}

func (a *app) openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	storeLogger := logger.Named("store")

	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.Store.DSN)
		if err != nil {
			return fmt.Errorf("pgxpool.New: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		a.store = repository.NewPostgresSnapshots(pool, storeLogger)

	case config.DriverSQLite:
		sqlDB, err := repository.OpenSQLite(ctx, cfg.Store.DSN)
		if err != nil {
			return fmt.Errorf("repository.OpenSQLite: %w", err)
		}
		a.closers = append(a.closers, func() { _ = sqlDB.Close() })
		a.store = repository.NewSQLiteSnapshots(sqlDB, storeLogger)

	default:
		a.store = repository.NewMemorySnapshots(storeLogger)
	}

	return nil
}

func newPlatform(cfg *config.Config, logger *zap.Logger) (port.CommercePlatform, error) {
	if cfg.Platform() == config.PlatformMemory {
		return memory.New(memory.DemoCatalog()...), nil
	}

	client, err := shopify.New(shopify.Config{
		Domain:      cfg.Shopify.Domain,
		AccessToken: cfg.Shopify.AccessToken,
		APIVersion:  cfg.Shopify.APIVersion,
	}, logger.Named("shopify"))
	if err != nil {
		return nil, fmt.Errorf("shopify.New: %w", err)
	}

	return client, nil
}

func (a *app) openSession(ctx context.Context, cfg *config.Config, logger *zap.Logger, id string) (*session.Session, error) {
	if id == "" {
		return nil, errors.New("session id is empty, pass --session or set STOREFRONT_SESSION")
	}

	unit, err := cfg.CartCurrency()
	if err != nil {
		return nil, err
	}

	s, err := session.New(ctx, id, a.store, a.bridge,
		session.WithLogger(logger.Named("session")),
		session.WithCurrency(unit))
	if err != nil {
		return nil, fmt.Errorf("session.New: %w", err)
	}

	return s, nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// withApp wires the components for one command and closes them after fn.
func (c *cli) withApp(ctx context.Context, fn func(*app) error) error {
	a, err := newApp(ctx, c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer a.close()

	return fn(a)
}

// withSession wires the app, opens the --session cart and runs fn on it.
func (c *cli) withSession(ctx context.Context, fn func(*app, *session.Session) error) error {
	a, err := newApp(ctx, c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer a.close()

	s, err := a.openSession(ctx, c.cfg, c.logger, c.sessionID)
	if err != nil {
		return err
	}

	return fn(a, s)
}
