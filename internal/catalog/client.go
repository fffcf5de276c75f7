package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultTimeout = 8 * time.Second

// Observer receives one call per outbound request (op, outcome).
type Observer interface {
	CatalogCall(op, outcome string)
}

// Client talks to the public products API. Every call is a fresh request.
type Client struct {
	baseURL   string
	http      *http.Client
	pageLimit int
	obs       Observer
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}
func WithPageLimit(n int) Option    { return func(c *Client) { c.pageLimit = n } }
func WithObserver(o Observer) Option { return func(c *Client) { c.obs = o } }

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type listPayload struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
}

// ListProducts returns the listing for category, or every product when
// category is empty. Upstream order is preserved.
func (c *Client) ListProducts(ctx context.Context, category string) ([]Product, error) {
	segs := []string{"products"}
	op := "list_products"
	if category = strings.TrimSpace(category); category != "" {
		segs = append(segs, "category", category)
		op = "list_category"
	}
	endpoint, err := c.endpoint(segs...)
	if err != nil {
		return nil, &NetworkError{Op: op, URL: c.baseURL, Err: err}
	}
	if c.pageLimit > 0 {
		endpoint += "?limit=" + strconv.Itoa(c.pageLimit)
	}

	raw, err := c.get(ctx, op, endpoint)
	if err != nil {
		return nil, err
	}

	// {products: [...]} is the documented shape; a bare array is accepted too.
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		var items []Product
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, c.decodeErr(op, endpoint, err)
		}
		return items, nil
	}
	var p listPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, c.decodeErr(op, endpoint, err)
	}
	if p.Products == nil {
		p.Products = []Product{}
	}
	return p.Products, nil
}

func (c *Client) GetProduct(ctx context.Context, id int) (Product, error) {
	const op = "get_product"
	endpoint, err := c.endpoint("products", strconv.Itoa(id))
	if err != nil {
		return Product{}, &NetworkError{Op: op, URL: c.baseURL, Err: err}
	}
	raw, err := c.get(ctx, op, endpoint)
	if err != nil {
		return Product{}, err
	}
	var p Product
	if err := json.Unmarshal(raw, &p); err != nil {
		return Product{}, c.decodeErr(op, endpoint, err)
	}
	return p, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	const op = "list_categories"
	endpoint, err := c.endpoint("products", "category-list")
	if err != nil {
		return nil, &NetworkError{Op: op, URL: c.baseURL, Err: err}
	}
	raw, err := c.get(ctx, op, endpoint)
	if err != nil {
		return nil, err
	}
	var out []Category
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, c.decodeErr(op, endpoint, err)
	}
	return out, nil
}

func (c *Client) endpoint(segs ...string) (string, error) {
	if c.baseURL == "" {
		return "", fmt.Errorf("catalog base url not configured")
	}
	return url.JoinPath(c.baseURL, segs...)
}

func (c *Client) get(ctx context.Context, op, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.observe(op, "error")
		return nil, &NetworkError{Op: op, URL: endpoint, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(op, "error")
		return nil, &NetworkError{Op: op, URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.observe(op, "status_"+strconv.Itoa(resp.StatusCode))
		return nil, &NetworkError{
			Op:     op,
			URL:    endpoint,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("%w: %s", errStatus, drainError(resp.Body)),
		}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.observe(op, "error")
		return nil, &NetworkError{Op: op, URL: endpoint, Status: resp.StatusCode, Err: err}
	}
	c.observe(op, "ok")
	return raw, nil
}

func (c *Client) decodeErr(op, endpoint string, err error) error {
	return &NetworkError{Op: op, URL: endpoint, Err: fmt.Errorf("decode: %w", err)}
}

func (c *Client) observe(op, outcome string) {
	if c.obs != nil {
		c.obs.CatalogCall(op, outcome)
	}
}

func drainError(r io.Reader) string {
	if r == nil {
		return ""
	}
	b, _ := io.ReadAll(io.LimitReader(r, 256))
	return strings.TrimSpace(string(b))
}
