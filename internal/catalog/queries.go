package catalog

const productsQuery = `
query($q: String!) {
  products(first: 6, query: $q) {
    edges {
      node {
        id
        title
        handle
        descriptionHtml
        vendor
        tags
        images(first: 3) { edges { node { url } } }
        variants(first: 5) { edges { node { sku price } } }
      }
    }
  }
}`

const ordersQuery = `
query($q: String!) {
  orders(first: 1, query: $q) {
    nodes {
      id
      name
      orderNumber: number
      email
      processedAt
      fulfillmentStatus: displayFulfillmentStatus
      financialStatus: displayFinancialStatus
      totalPriceSet { shopMoney { amount currencyCode } }
      lineItems(first: 10) { edges { node { title quantity } } }
      shippingAddress { firstName lastName address1 city province country zip phone }
    }
  }
}`

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type productsResponse struct {
	Data struct {
		Products struct {
			Edges []struct {
				Node productNode `json:"node"`
			} `json:"edges"`
		} `json:"products"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

type productNode struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Handle          string   `json:"handle"`
	DescriptionHTML string   `json:"descriptionHtml"`
	Vendor          string   `json:"vendor"`
	Tags            []string `json:"tags"`
	Images          struct {
		Edges []struct {
			Node struct {
				URL string `json:"url"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"images"`
	Variants struct {
		Edges []struct {
			Node struct {
				SKU   string `json:"sku"`
				Price string `json:"price"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"variants"`
}

type ordersResponse struct {
	Data struct {
		Orders struct {
			Nodes []orderNode `json:"nodes"`
		} `json:"orders"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

type orderNode struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	OrderNumber       any    `json:"orderNumber"`
	Email             string `json:"email"`
	ProcessedAt       string `json:"processedAt"`
	FulfillmentStatus string `json:"fulfillmentStatus"`
	FinancialStatus   string `json:"financialStatus"`
	TotalPriceSet     struct {
		ShopMoney struct {
			Amount       string `json:"amount"`
			CurrencyCode string `json:"currencyCode"`
		} `json:"shopMoney"`
	} `json:"totalPriceSet"`
	LineItems struct {
		Edges []struct {
			Node LineItem `json:"node"`
		} `json:"edges"`
	} `json:"lineItems"`
	ShippingAddress *ShippingAddress `json:"shippingAddress"`
}

// restProductsResponse is the REST products.json payload used by substring search.
type restProductsResponse struct {
	Products []struct {
		ID       int64  `json:"id"`
		Title    string `json:"title"`
		Handle   string `json:"handle"`
		BodyHTML string `json:"body_html"`
		Vendor   string `json:"vendor"`
		Tags     string `json:"tags"`
		Images   []struct {
			Src string `json:"src"`
		} `json:"images"`
		Variants []struct {
			SKU   string `json:"sku"`
			Price string `json:"price"`
		} `json:"variants"`
	} `json:"products"`
}
