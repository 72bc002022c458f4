package advisory

import "context"

// Insight is a non-authoritative observation about the current stock
// position, produced by the advisory backend for display on the dashboard.
type Insight struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Insight kinds produced by the gateway
const (
	InsightKindWarning    = "warning"
	InsightKindSuggestion = "suggestion"
	InsightKindInfo       = "info"
)

// ItemSummary is the slice of item state handed to the advisory backend.
// Prices and serial data stay out of the prompt context.
type ItemSummary struct {
	SKU           string `json:"sku"`
	Name          string `json:"name"`
	Category      string `json:"category"`
	Quantity      int64  `json:"quantity"`
	MinStockLevel int64  `json:"min_stock_level"`
	Location      string `json:"location"`
}

// LineSummary describes an order line for packaging suggestions
type LineSummary struct {
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
}

// ProductDraft is the gateway's guess at a new item from a product photo
type ProductDraft struct {
	Name        string `json:"name"`
	SKU         string `json:"sku"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// Gateway is the advisory backend contract. Implementations may fail or
// hang; callers own the fallback behavior and never let a gateway error
// reach order or inventory state.
type Gateway interface {
	// SuggestLocation proposes a putaway bin code for a received item
	SuggestLocation(ctx context.Context, item ItemSummary) (string, error)
	// SuggestPackaging proposes a carton description for a set of lines
	SuggestPackaging(ctx context.Context, lines []LineSummary) (string, error)
	// SummarizeInsights reviews the stock position and returns observations
	SummarizeInsights(ctx context.Context, items []ItemSummary) ([]Insight, error)
	// Chat answers a free-form warehouse question with inventory context
	Chat(ctx context.Context, message string, items []ItemSummary) (string, error)
	// IdentifyProduct drafts item fields from a base64-encoded product photo
	IdentifyProduct(ctx context.Context, imageData, mimeType string) (*ProductDraft, error)
}
