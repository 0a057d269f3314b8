package bank

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bank-assist/internal/cache"
	"bank-assist/internal/metrics"
)

const (
	defaultFeeCacheTTL = 5 * time.Minute

	providerTransactions = "transactions"
	providerFees         = "fee_prediction"
)

// Client provides typed access to the bank data API.
type Client struct {
	logger  *slog.Logger
	baseURL string
	apiKey  string
	http    *http.Client
	metrics *metrics.Metrics
	cache   *cache.Redis
	feeTTL  time.Duration
}

// Config holds bank API client configuration.
type Config struct {
	BaseURL     string
	APIKey      string
	Timeout     time.Duration
	FeeCacheTTL time.Duration
}

// New creates a bank API client.
func New(cfg Config, logger *slog.Logger, metrics *metrics.Metrics, redis *cache.Redis) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	feeTTL := cfg.FeeCacheTTL
	if feeTTL <= 0 {
		feeTTL = defaultFeeCacheTTL
	}
	return &Client{
		logger:  logger.With("component", "bank_api"),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
		metrics: metrics,
		cache:   redis,
		feeTTL:  feeTTL,
	}
}

// Transactions fetches the account's transaction history.
func (c *Client) Transactions(ctx context.Context) ([]Transaction, error) {
	var transactions []Transaction
	if err := c.getJSON(ctx, "/v1/transactions", nil, &transactions); err != nil {
		c.metrics.ProviderRequests.WithLabelValues(providerTransactions, "error").Inc()
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}
	c.metrics.ProviderRequests.WithLabelValues(providerTransactions, "success").Inc()
	return transactions, nil
}

// PredictedFee fetches the transfer-fee forecast for a currency pair,
// cached in Redis when a cache is configured.
func (c *Client) PredictedFee(ctx context.Context, from, to string) (*FeePrediction, error) {
	cacheKey := fmt.Sprintf("bank:fee:%s:%s", from, to)
	if c.cache != nil {
		var cached FeePrediction
		ok, err := c.cache.GetJSON(ctx, cacheKey, &cached)
		if err != nil {
			c.logger.Warn("read fee prediction cache failed", "error", err)
		} else if ok {
			c.metrics.ProviderRequests.WithLabelValues(providerFees, "cache_hit").Inc()
			return &cached, nil
		}
	}

	query := url.Values{}
	query.Set("from", from)
	query.Set("to", to)

	var prediction FeePrediction
	if err := c.getJSON(ctx, "/v1/fees/prediction", query, &prediction); err != nil {
		c.metrics.ProviderRequests.WithLabelValues(providerFees, "error").Inc()
		return nil, fmt.Errorf("fetch fee prediction: %w", err)
	}
	c.metrics.ProviderRequests.WithLabelValues(providerFees, "success").Inc()

	if c.cache != nil {
		if err := c.cache.SetJSON(ctx, cacheKey, prediction, c.feeTTL); err != nil {
			c.logger.Warn("set fee prediction cache failed", "error", err)
		}
	}
	return &prediction, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, dest any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
