package catalog

// Product is the normalised view of a catalog product.
type Product struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Handle      string    `json:"handle"`
	Description string    `json:"description"`
	Vendor      string    `json:"vendor"`
	Tags        []string  `json:"tags"`
	Images      []string  `json:"images"`
	Variants    []Variant `json:"variants"`
}

type Variant struct {
	SKU   string `json:"sku"`
	Price string `json:"price"` // decimal currency units, two places
}

// Price returns the first variant price, or "" when the product has none.
func (p Product) Price() string {
	for _, v := range p.Variants {
		if v.Price != "" {
			return v.Price
		}
	}
	return ""
}

type Order struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	OrderNumber       string           `json:"orderNumber"`
	Email             string           `json:"email"`
	ProcessedAt       string           `json:"processedAt"`
	FulfillmentStatus string           `json:"fulfillmentStatus"`
	FinancialStatus   string           `json:"financialStatus"`
	TotalAmount       string           `json:"totalAmount"`
	Currency          string           `json:"currency"`
	LineItems         []LineItem       `json:"lineItems"`
	ShippingAddress   *ShippingAddress `json:"shippingAddress,omitempty"`
}

type LineItem struct {
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
}

type ShippingAddress struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address1  string `json:"address1"`
	City      string `json:"city"`
	Province  string `json:"province"`
	Country   string `json:"country"`
	Zip       string `json:"zip"`
	Phone     string `json:"phone"`
}
