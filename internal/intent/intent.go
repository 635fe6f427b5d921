package intent

type Intent string

const (
	ProductInfo   Intent = "product_info"
	OrderStatus   Intent = "order_status"
	OrderTracking Intent = "order_tracking"
	Greeting      Intent = "greeting"
	Fallback      Intent = "fallback"
)

// Known lists every intent the classifier may emit.
var Known = []Intent{ProductInfo, OrderStatus, OrderTracking, Greeting, Fallback}

// Source records which path produced a classification.
type Source string

const (
	SourceModel    Source = "model"
	SourceRules    Source = "rules"
	SourceShortcut Source = "shortcut"
)

type Entities struct {
	Product     string `json:"product,omitempty"`
	OrderNumber string `json:"order_number,omitempty"`
	Email       string `json:"email,omitempty"`
}

type Result struct {
	Intent   Intent   `json:"intent"`
	Entities Entities `json:"entities"`
	Source   Source   `json:"source"`
}
