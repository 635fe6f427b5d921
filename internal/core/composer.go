package core

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"layerlabs.io/support-chat/internal/catalog"
	"layerlabs.io/support-chat/internal/intent"
)

const (
	GreetingReply = "Hi! I'm LayerLabs support - I can help with product details, order status, and tracking. How can I help?"

	MissingOrderNumberReply = "Please provide your order number (and the email used for the order) so I can look it up."

	OrderNotFoundReply = "I couldn't find that order. Double-check the order number and email, or type just the order number without '#'."

	ProductReplyGenerate = "generate"
	ProductReplyTemplate = "template"

	maxWordsProductReply = 120
	shortDescriptionLen  = 160
)

// Catalog is the subset of the catalog client the composer needs.
type Catalog interface {
	SearchProducts(ctx context.Context, text string) ([]catalog.Product, error)
	FindOrder(ctx context.Context, nameOrNumber, email string) (*catalog.Order, error)
}

// TextGenerator produces free-form text for a prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type ComposerOptions struct {
	ProductReplyMode string
	StoreURL         string // used for "View product" links in templated replies
}

// Composer turns a classified message into the reply text. Each intent maps
// to exactly one branch and no branch is retried.
type Composer struct {
	catalog     Catalog
	gen         TextGenerator
	productMode string
	storeURL    string
	logger      *zap.Logger
}

func NewComposer(cat Catalog, gen TextGenerator, opts ComposerOptions, logger *zap.Logger) *Composer {
	mode := opts.ProductReplyMode
	if mode == "" {
		mode = ProductReplyGenerate
	}
	return &Composer{
		catalog:     cat,
		gen:         gen,
		productMode: mode,
		storeURL:    strings.TrimRight(opts.StoreURL, "/"),
		logger:      logger.Named("composer"),
	}
}

func (c *Composer) Compose(ctx context.Context, utterance string, res intent.Result) (string, error) {
	switch res.Intent {
	case intent.ProductInfo:
		return c.productReply(ctx, utterance, res.Entities)
	case intent.OrderStatus, intent.OrderTracking:
		return c.orderReply(ctx, res.Entities)
	case intent.Greeting:
		return GreetingReply, nil
	default:
		return c.fallbackReply(ctx, utterance)
	}
}

func (c *Composer) productReply(ctx context.Context, utterance string, e intent.Entities) (string, error) {
	query := e.Product
	if query == "" {
		query = utterance
	}

	products, err := c.catalog.SearchProducts(ctx, query)
	if err != nil {
		return "", fmt.Errorf("searching products: %w", err)
	}
	if len(products) == 0 {
		return fmt.Sprintf("Sorry, I couldn't find products matching \"%s\". Can you try the exact product name?", query), nil
	}

	p := products[0]
	if c.productMode == ProductReplyTemplate {
		return FormatProductReply(p, c.storeURL), nil
	}

	prompt, err := productPrompt(p)
	if err != nil {
		return "", err
	}
	text, err := c.gen.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("composing product reply: %w", err)
	}
	return text, nil
}

func (c *Composer) orderReply(ctx context.Context, e intent.Entities) (string, error) {
	if e.OrderNumber == "" {
		return MissingOrderNumberReply, nil
	}

	order, err := c.catalog.FindOrder(ctx, e.OrderNumber, e.Email)
	if err != nil {
		return "", fmt.Errorf("looking up order: %w", err)
	}
	if order == nil {
		c.logger.Info("order not found", zap.String("order_number", e.OrderNumber))
		return OrderNotFoundReply, nil
	}
	return FormatOrderReply(order), nil
}

func (c *Composer) fallbackReply(ctx context.Context, utterance string) (string, error) {
	text, err := c.gen.Generate(ctx, utterance)
	if err != nil {
		return "", fmt.Errorf("composing fallback reply: %w", err)
	}
	return text, nil
}

func productPrompt(p catalog.Product) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encoding product for prompt: %w", err)
	}
	return fmt.Sprintf("Create a short, friendly product reply to a customer based on this product JSON:\n\n%s\n\n"+
		"Include title, short description, price/variants if available, and a CTA (e.g., 'View product'). "+
		"Keep it under %d words.", data, maxWordsProductReply), nil
}

// FormatProductReply renders a product deterministically. The reply always
// contains the exact title and the normalised price when one is known.
func FormatProductReply(p catalog.Product, storeURL string) string {
	var b strings.Builder
	b.WriteString(p.Title)
	if d := shorten(p.Description, shortDescriptionLen); d != "" {
		b.WriteString(": ")
		b.WriteString(d)
	}
	if !strings.HasSuffix(b.String(), ".") {
		b.WriteString(".")
	}
	if price := p.Price(); price != "" {
		fmt.Fprintf(&b, " Price: %s.", price)
	}
	if storeURL != "" && p.Handle != "" {
		fmt.Fprintf(&b, " View product: %s/products/%s", storeURL, p.Handle)
	}
	return b.String()
}

// FormatOrderReply renders the order status message.
func FormatOrderReply(o *catalog.Order) string {
	status := o.FulfillmentStatus
	if status == "" {
		status = "Not fulfilled yet"
	}
	total := strings.TrimSpace(o.TotalAmount + " " + o.Currency)
	if total == "" {
		total = "unknown"
	}
	return fmt.Sprintf("Order %s (%s) - status: %s. Total: %s. If you'd like tracking details, reply 'tracking' and I'll fetch more info.",
		o.Name, o.OrderNumber, status, total)
}

// shorten cuts s at a word boundary so it is at most n bytes, marking the cut
// with an ellipsis.
func shorten(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := strings.LastIndex(s[:n], " ")
	if cut <= 0 {
		cut = n
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
	}
	return strings.TrimRight(s[:cut], " ,;:") + "..."
}
