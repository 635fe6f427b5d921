package core

import (
	"context"

	"layerlabs.io/support-chat/internal/catalog"
)

type fakeCatalog struct {
	products  []catalog.Product
	order     *catalog.Order
	err       error
	searches  []string
	lookups   []string
	lookupsBy []string
}

func (f *fakeCatalog) SearchProducts(ctx context.Context, text string) ([]catalog.Product, error) {
	f.searches = append(f.searches, text)
	return f.products, f.err
}

func (f *fakeCatalog) FindOrder(ctx context.Context, nameOrNumber, email string) (*catalog.Order, error) {
	f.lookups = append(f.lookups, nameOrNumber)
	f.lookupsBy = append(f.lookupsBy, email)
	return f.order, f.err
}

type fakeGenerator struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

// GenerateJSON lets the same fake drive the model classifier.
func (f *fakeGenerator) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

var hoodie = catalog.Product{
	ID:          "gid://shopify/Product/1",
	Title:       "Blue Hoodie",
	Handle:      "blue-hoodie",
	Description: "Soft and warm brushed fleece.",
	Variants:    []catalog.Variant{{SKU: "HD-BLU-M", Price: "49.90"}},
}
