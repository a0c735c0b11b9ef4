package coingecko

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/LavaJover/shvark-cashout-service/internal/domain"
	"github.com/LavaJover/shvark-cashout-service/internal/infrastructure/feedcache"
	"github.com/LavaJover/shvark-cashout-service/internal/infrastructure/metrics"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://api.coingecko.com/api/v3"

	simplePricePath = "/simple/price"
	pingPath        = "/ping"
	apiKeyHeader    = "x-cg-demo-api-key"
	maxBodyBytes    = 1 << 20
)

var errThrottled = fmt.Errorf("%w: outbound rate limit reached", domain.ErrFeedUnavailable)

type Options struct {
	BaseURL           string
	APIKey            string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	Cache             feedcache.Cache
	Metrics           *metrics.QuoteMetrics
}

// Client talks to the CoinGecko simple price API.
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
	limiter *rate.Limiter
	cache   feedcache.Cache
	metrics *metrics.QuoteMetrics
}

func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.Cache == nil {
		opts.Cache = feedcache.Nop{}
	}
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	return &Client{
		client: &http.Client{
			Timeout: opts.Timeout,
		},
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		apiKey:  opts.APIKey,
		limiter: rate.NewLimiter(limit, opts.Burst),
		cache:   opts.Cache,
		metrics: opts.Metrics,
	}
}

// SimplePrice fetches every requested id in every requested currency. Any
// failure to obtain a well-formed 2xx response wraps domain.ErrFeedUnavailable.
func (c *Client) SimplePrice(ctx context.Context, req domain.PriceRequest) (domain.PriceTable, error) {
	if len(req.IDs) == 0 || len(req.VsCurrencies) == 0 {
		return nil, fmt.Errorf("%w: empty price request", domain.ErrInvalidInput)
	}
	endpoint := c.simplePriceURL(req)

	if body, ok := c.cache.Get(ctx, endpoint, req.MaxAge); ok {
		c.recordCacheLookup(true)
		return decodeSimplePrice(body, req), nil
	}
	c.recordCacheLookup(false)

	body, err := c.get(ctx, "simple_price", endpoint, true)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsObject() {
		return nil, fmt.Errorf("%w: malformed simple price response", domain.ErrFeedUnavailable)
	}

	c.cache.Set(ctx, endpoint, body)
	return decodeSimplePrice(body, req), nil
}

// Ping checks that the API answers at all.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.get(ctx, "ping", c.baseURL+pingPath, false)
	return err
}

func (c *Client) simplePriceURL(req domain.PriceRequest) string {
	ids := make([]string, 0, len(req.IDs))
	seenID := make(map[domain.AssetID]bool, len(req.IDs))
	for _, id := range req.IDs {
		if !seenID[id] {
			seenID[id] = true
			ids = append(ids, string(id))
		}
	}
	currencies := make([]string, 0, len(req.VsCurrencies))
	seenCurrency := make(map[domain.CurrencyCode]bool, len(req.VsCurrencies))
	for _, cur := range req.VsCurrencies {
		if !seenCurrency[cur] {
			seenCurrency[cur] = true
			currencies = append(currencies, string(cur))
		}
	}

	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	q.Set("vs_currencies", strings.Join(currencies, ","))
	return c.baseURL + simplePricePath + "?" + q.Encode()
}

// get fails fast with errThrottled once the outbound budget is spent; it never
// waits for a token. Health pings are not throttled.
func (c *Client) get(ctx context.Context, name, endpoint string, throttled bool) ([]byte, error) {
	if throttled && !c.limiter.Allow() {
		c.recordFeedRequest(name, "throttled", 0)
		return nil, errThrottled
	}

	start := time.Now()
	body, err := c.doGet(ctx, endpoint)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.recordFeedRequest(name, outcome, time.Since(start).Seconds())
	return body, err
}

func (c *Client) recordFeedRequest(name, outcome string, seconds float64) {
	if c.metrics != nil {
		c.metrics.RecordFeedRequest(name, outcome, seconds)
	}
}

func (c *Client) doGet(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", domain.ErrFeedUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFeedUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: coingecko returned status %d", domain.ErrFeedUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", domain.ErrFeedUnavailable, err)
	}
	return body, nil
}

func (c *Client) recordCacheLookup(hit bool) {
	if c.metrics != nil {
		c.metrics.RecordCacheLookup(hit)
	}
}
