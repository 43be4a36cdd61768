// Package shopify talks to the Shopify Storefront GraphQL API. Checkout
// sessions are Storefront carts; their checkoutUrl is the payable URL.
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/port"
	"go.uber.org/zap"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultAPIVersion = "2025-01"

	tokenHeader  = "X-Shopify-Storefront-Access-Token"
	maxBodyBytes = 4 << 20
)

type Config struct {
	Domain      string
	AccessToken string
	APIVersion  string

	// Endpoint overrides the URL derived from Domain and APIVersion.
	Endpoint   string
	HTTPClient *http.Client
}

type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

var _ port.CommercePlatform = (*Client)(nil)

func New(cfg Config, logger *zap.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.AccessToken) == "" {
		return nil, fmt.Errorf("access token is empty")
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		domainName := strings.TrimSpace(cfg.Domain)
		if domainName == "" {
			return nil, fmt.Errorf("domain is empty")
		}

		version := cfg.APIVersion
		if version == "" {
			version = DefaultAPIVersion
		}

		endpoint = fmt.Sprintf("https://%s/api/%s/graphql.json", domainName, version)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		endpoint:   endpoint,
		token:      cfg.AccessToken,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

type gqlError struct {
	Message string `json:"message"`
}

// do posts a GraphQL document and decodes its data into out. Every failure is
// reported as *domain.RemoteServiceError tagged with op.
func (c *Client) do(ctx context.Context, op, query string, vars map[string]any, out any) error {
	remoteErr := func(status int, err error) error {
		return &domain.RemoteServiceError{Op: op, StatusCode: status, Err: err}
	}

	body, err := json.Marshal(gqlRequest{Query: query, Variables: vars})
	if err != nil {
		return remoteErr(0, fmt.Errorf("json.Marshal: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return remoteErr(0, fmt.Errorf("http.NewRequestWithContext: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(tokenHeader, c.token)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return remoteErr(0, fmt.Errorf("httpClient.Do: %w", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return remoteErr(resp.StatusCode, fmt.Errorf("io.ReadAll: %w", err))
	}

	c.logger.Debug("storefront request",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return remoteErr(resp.StatusCode, fmt.Errorf("unexpected response: %s", snippet(raw)))
	}

	var envelope gqlResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return remoteErr(resp.StatusCode, fmt.Errorf("malformed response: %w", err))
	}

	if len(envelope.Errors) > 0 {
		msgs := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			msgs = append(msgs, e.Message)
		}
		return remoteErr(resp.StatusCode, errors.New(strings.Join(msgs, "; ")))
	}

	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return remoteErr(resp.StatusCode, errors.New("malformed response: no data"))
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return remoteErr(resp.StatusCode, fmt.Errorf("malformed response: %w", err))
	}

	return nil
}

func snippet(b []byte) string {
	const limit = 200

	s := strings.TrimSpace(string(b))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
