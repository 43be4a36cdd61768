package config

import (
	"errors"
	"fmt"
	"golang.org/x/text/currency"
	"gopkg.in/yaml.v3"
	"os"
	"strings"
	"time"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"

	PlatformShopify = "shopify"
	PlatformMemory  = "memory"

	DefaultRemoteTimeout = 15 * time.Second
)

type Config struct {
	Env     string        `yaml:"env"`
	Log     LogConfig     `yaml:"log"`
	Store   StoreConfig   `yaml:"store"`
	Shopify ShopifyConfig `yaml:"shopify"`
	Remote  RemoteConfig  `yaml:"remote"`
	Cart    CartConfig    `yaml:"cart"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

type StoreConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// ShopifyConfig selects the Shopify storefront. With an empty domain the
// in-process demo platform is used instead.
type ShopifyConfig struct {
	Domain      string `yaml:"domain"`
	AccessToken string `yaml:"access_token"`
	APIVersion  string `yaml:"api_version"`
}

type RemoteConfig struct {
	Timeout string `yaml:"timeout"`
}

type CartConfig struct {
	Currency string `yaml:"currency"`
}

func Default() *Config {
	return &Config{
		Env: "dev",
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Store: StoreConfig{
			Driver: DriverSQLite,
			DSN:    "storefront.db",
		},
		Shopify: ShopifyConfig{
			APIVersion: "2025-01",
		},
		Remote: RemoteConfig{
			Timeout: DefaultRemoteTimeout.String(),
		},
		Cart: CartConfig{
			Currency: "USD",
		},
	}
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides. A missing file or an empty path yields defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("os.ReadFile: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("yaml.Unmarshal: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("cfg.Validate: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	c.Env = getEnv("APP_ENV", c.Env)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
	c.Store.Driver = getEnv("STORE_DRIVER", c.Store.Driver)
	c.Store.DSN = getEnv("STORE_DSN", c.Store.DSN)
	c.Shopify.Domain = getEnv("SHOPIFY_DOMAIN", c.Shopify.Domain)
	c.Shopify.AccessToken = getEnv("SHOPIFY_STOREFRONT_ACCESS_TOKEN", c.Shopify.AccessToken)
	c.Shopify.APIVersion = getEnv("SHOPIFY_API_VERSION", c.Shopify.APIVersion)
	c.Remote.Timeout = getEnv("REMOTE_TIMEOUT", c.Remote.Timeout)
	c.Cart.Currency = getEnv("CART_CURRENCY", c.Cart.Currency)
}

func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverPostgres, DriverSQLite:
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn is empty for driver %s", c.Store.Driver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("store.driver[%s] is not supported", c.Store.Driver)
	}

	if c.Shopify.Domain != "" && c.Shopify.AccessToken == "" {
		return fmt.Errorf("shopify.access_token is empty")
	}

	if _, err := c.RemoteTimeout(); err != nil {
		return err
	}

	if _, err := c.CartCurrency(); err != nil {
		return err
	}

	return nil
}

func (c *Config) Platform() string {
	if c.Shopify.Domain != "" {
		return PlatformShopify
	}
	return PlatformMemory
}

func (c *Config) RemoteTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.Remote.Timeout)
	if err != nil {
		return 0, fmt.Errorf("remote.timeout: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("remote.timeout[%s] is not positive", c.Remote.Timeout)
	}
	return d, nil
}

func (c *Config) CartCurrency() (currency.Unit, error) {
	unit, err := currency.ParseISO(strings.ToUpper(c.Cart.Currency))
	if err != nil {
		return currency.Unit{}, fmt.Errorf("cart.currency: %w", err)
	}
	return unit, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
