package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"layerlabs.io/support-chat/internal/metrics"
)

const (
	DefaultTimeout = 20 * time.Second

	// MaxProducts bounds every product search.
	MaxProducts = 6

	ModeGraphQL   = "graphql"
	ModeSubstring = "substring"

	maxResponseBytes = 4 << 20
)

type Options struct {
	StoreURL    string // e.g. https://yourstore.myshopify.com
	AccessToken string
	APIVersion  string
	SearchMode  string
	Timeout     time.Duration
}

// Client talks to the Shopify Admin API. It is safe for concurrent use and
// holds no per-request state.
type Client struct {
	baseURL    string
	token      string
	version    string
	searchMode string
	timeout    time.Duration
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(opts Options, logger *zap.Logger) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	mode := opts.SearchMode
	if mode == "" {
		mode = ModeGraphQL
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.StoreURL, "/"),
		token:      opts.AccessToken,
		version:    opts.APIVersion,
		searchMode: mode,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.Named("catalog"),
	}
}

// SearchProducts returns at most MaxProducts products matching text.
func (c *Client) SearchProducts(ctx context.Context, text string) ([]Product, error) {
	if c.searchMode == ModeSubstring {
		return c.searchProductsSubstring(ctx, text)
	}

	var resp productsResponse
	if err := c.graphQL(ctx, "search_products", productsQuery, map[string]any{"q": text}, &resp); err != nil {
		return nil, err
	}
	if err := graphQLErrors("search_products", resp.Errors); err != nil {
		return nil, err
	}

	products := make([]Product, 0, len(resp.Data.Products.Edges))
	for _, e := range resp.Data.Products.Edges {
		products = append(products, e.Node.toProduct())
		if len(products) == MaxProducts {
			break
		}
	}
	c.logger.Debug("product search", zap.String("query", text), zap.Int("results", len(products)))
	return products, nil
}

// FindOrder looks an order up by name or number, narrowed by email when given.
// It returns nil, nil when no order matches.
func (c *Client) FindOrder(ctx context.Context, nameOrNumber, email string) (*Order, error) {
	var resp ordersResponse
	if err := c.graphQL(ctx, "find_order", ordersQuery, map[string]any{"q": OrderQuery(nameOrNumber, email)}, &resp); err != nil {
		return nil, err
	}
	if err := graphQLErrors("find_order", resp.Errors); err != nil {
		return nil, err
	}

	nodes := resp.Data.Orders.Nodes
	if len(nodes) == 0 {
		return nil, nil
	}
	order := nodes[0].toOrder()
	return &order, nil
}

// OrderQuery builds the Shopify search syntax for an order lookup.
func OrderQuery(nameOrNumber, email string) string {
	q := "name:" + nameOrNumber
	if email != "" {
		q += " AND email:" + email
	}
	return q
}

func (c *Client) searchProductsSubstring(ctx context.Context, text string) ([]Product, error) {
	const op = "search_products"
	var resp restProductsResponse
	if err := c.do(ctx, op, http.MethodGet, c.apiURL("products.json?limit=250"), nil, &resp); err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(text))
	var products []Product
	for _, p := range resp.Products {
		if needle != "" && !strings.Contains(strings.ToLower(p.Title), needle) {
			continue
		}
		product := Product{
			ID:          strconv.FormatInt(p.ID, 10),
			Title:       p.Title,
			Handle:      p.Handle,
			Description: PlainText(p.BodyHTML),
			Vendor:      p.Vendor,
			Tags:        splitTags(p.Tags),
		}
		for _, img := range p.Images {
			product.Images = append(product.Images, img.Src)
		}
		for _, v := range p.Variants {
			product.Variants = append(product.Variants, Variant{SKU: v.SKU, Price: NormalizeAmount(v.Price)})
		}
		products = append(products, product)
		if len(products) == MaxProducts {
			break
		}
	}
	return products, nil
}

func (c *Client) apiURL(path string) string {
	return fmt.Sprintf("%s/admin/api/%s/%s", c.baseURL, c.version, path)
}

func (c *Client) graphQL(ctx context.Context, op, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return &Error{Op: op, Err: fmt.Errorf("marshaling request: %w", err)}
	}
	return c.do(ctx, op, http.MethodPost, c.apiURL("graphql.json"), body, out)
}

// do issues exactly one request; there are no retries.
func (c *Client) do(ctx context.Context, op, method, url string, body []byte, out any) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveUpstream("catalog", op, start, err) }()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return &Error{Op: op, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("X-Shopify-Access-Token", c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Op: op, Err: fmt.Errorf("executing request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("catalog call failed",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
		)
		return &Error{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("unexpected response: %s", strings.TrimSpace(string(snippet)))}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return &Error{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

func graphQLErrors(op string, errs []graphQLError) error {
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Message
	}
	return &Error{Op: op, StatusCode: http.StatusOK, Err: errors.New(strings.Join(msgs, "; "))}
}

func (n productNode) toProduct() Product {
	p := Product{
		ID:          n.ID,
		Title:       n.Title,
		Handle:      n.Handle,
		Description: PlainText(n.DescriptionHTML),
		Vendor:      n.Vendor,
		Tags:        n.Tags,
	}
	for _, e := range n.Images.Edges {
		p.Images = append(p.Images, e.Node.URL)
	}
	for _, e := range n.Variants.Edges {
		p.Variants = append(p.Variants, Variant{SKU: e.Node.SKU, Price: NormalizeAmount(e.Node.Price)})
	}
	return p
}

func (n orderNode) toOrder() Order {
	o := Order{
		ID:                n.ID,
		Name:              n.Name,
		Email:             n.Email,
		ProcessedAt:       n.ProcessedAt,
		FulfillmentStatus: n.FulfillmentStatus,
		FinancialStatus:   n.FinancialStatus,
		TotalAmount:       NormalizeAmount(n.TotalPriceSet.ShopMoney.Amount),
		Currency:          n.TotalPriceSet.ShopMoney.CurrencyCode,
		ShippingAddress:   n.ShippingAddress,
	}
	switch v := n.OrderNumber.(type) {
	case float64:
		o.OrderNumber = strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		o.OrderNumber = v
	}
	for _, e := range n.LineItems.Edges {
		o.LineItems = append(o.LineItems, e.Node)
	}
	return o
}

func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
