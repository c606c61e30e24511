package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/vetdesign/checkout-api/internal/resilience"
)

// Product is the storefront projection of an upstream product. Price arrives
// from the store API as a string and is parsed into an exact decimal.
type Product struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image,omitempty"`
}

// Fetcher retrieves products from the upstream store API.
type Fetcher interface {
	FetchProducts(ctx context.Context) ([]Product, error)
	FetchProduct(ctx context.Context, id int64) (Product, error)
}

// WooClient talks to a WooCommerce REST API using consumer key/secret
// basic auth. Calls go through a retrying circuit-breaker client so a dead
// upstream degrades fast instead of piling up timeouts.
type WooClient struct {
	baseURL        string
	consumerKey    string
	consumerSecret string
	httpClient     resilience.HTTPClient
}

// WooConfig groups WooClient settings.
type WooConfig struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	Timeout        time.Duration
	Logger         zerolog.Logger
}

// NewWooClient constructs a client with a traced HTTP transport.
func NewWooClient(cfg WooConfig) *WooClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WooClient{
		baseURL:        cfg.BaseURL,
		consumerKey:    cfg.ConsumerKey,
		consumerSecret: cfg.ConsumerSecret,
		httpClient: resilience.HTTPClient{
			Client: &http.Client{
				Timeout:   timeout,
				Transport: otelhttp.NewTransport(http.DefaultTransport),
			},
			Breaker:     resilience.NewBreaker(5, 0.6, 30*time.Second).WithTarget("woocommerce").WithLogger(cfg.Logger),
			BaseBackoff: 200 * time.Millisecond,
			MaxAttempts: 3,
			Jitter:      0.2,
		},
	}
}

// wooProduct is the wire shape of the upstream product payload, reduced to
// the fields the storefront uses.
type wooProduct struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Price  string `json:"price"`
	Images []struct {
		Src string `json:"src"`
	} `json:"images"`
}

// FetchProducts implements Fetcher.
func (c *WooClient) FetchProducts(ctx context.Context) ([]Product, error) {
	var rows []wooProduct
	if err := c.get(ctx, "/wp-json/wc/v3/products", url.Values{"per_page": {"100"}}, &rows); err != nil {
		return nil, err
	}
	out := make([]Product, 0, len(rows))
	for _, row := range rows {
		p, err := projectProduct(row)
		if err != nil {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// FetchProduct implements Fetcher.
func (c *WooClient) FetchProduct(ctx context.Context, id int64) (Product, error) {
	var row wooProduct
	if err := c.get(ctx, "/wp-json/wc/v3/products/"+strconv.FormatInt(id, 10), nil, &row); err != nil {
		return Product{}, err
	}
	return projectProduct(row)
}

func (c *WooClient) get(ctx context.Context, path string, query url.Values, dst any) error {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("catalog: parse url: %w", err)
	}
	if query != nil {
		u.RawQuery = query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("catalog: build request: %w", err)
	}
	req.SetBasicAuth(c.consumerKey, c.consumerSecret)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("catalog: fetch %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog: fetch %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("catalog: decode %s: %w", path, err)
	}
	return nil
}

func projectProduct(row wooProduct) (Product, error) {
	price, err := decimal.NewFromString(row.Price)
	if err != nil {
		return Product{}, fmt.Errorf("catalog: product %d has unparseable price %q: %w", row.ID, row.Price, err)
	}
	p := Product{ID: row.ID, Name: row.Name, Price: price}
	if len(row.Images) > 0 {
		p.Image = row.Images[0].Src
	}
	return p, nil
}
