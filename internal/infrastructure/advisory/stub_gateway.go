package advisory

import (
	"context"
	"errors"
	"fmt"

	appadvisory "github.com/wms/backend/internal/application/advisory"
)

// ErrIdentifyUnavailable is returned by the stub for product identification,
// which has no meaningful offline answer.
var ErrIdentifyUnavailable = errors.New("advisory: product identification requires the advisory backend")

// StubGateway is a deterministic offline Gateway used when the advisory
// backend is disabled or unconfigured. Suggestions follow the same zone
// conventions the backend is prompted with.
type StubGateway struct{}

// NewStubGateway creates a new StubGateway
func NewStubGateway() *StubGateway {
	return &StubGateway{}
}

// SuggestLocation maps the item's category to its zone's first bin
func (g *StubGateway) SuggestLocation(_ context.Context, item appadvisory.ItemSummary) (string, error) {
	zone := "D"
	switch item.Category {
	case "Electronics":
		zone = "A"
	case "Furniture":
		zone = "B"
	case "Office Supplies":
		zone = "C"
	}
	return zone + "-01-01", nil
}

// SuggestPackaging sizes the carton by total unit count
func (g *StubGateway) SuggestPackaging(_ context.Context, lines []appadvisory.LineSummary) (string, error) {
	var total int64
	for _, line := range lines {
		total += line.Quantity
	}
	switch {
	case total <= 3:
		return "Small Box", nil
	case total <= 15:
		return "Medium Box", nil
	case total <= 40:
		return "Large Box", nil
	default:
		return "Pallet", nil
	}
}

// SummarizeInsights reports each item at or below its minimum stock level
func (g *StubGateway) SummarizeInsights(_ context.Context, items []appadvisory.ItemSummary) ([]appadvisory.Insight, error) {
	insights := make([]appadvisory.Insight, 0)
	for _, item := range items {
		if item.Quantity <= item.MinStockLevel {
			insights = append(insights, appadvisory.Insight{
				Kind: appadvisory.InsightKindWarning,
				Message: fmt.Sprintf("%s (%s) is at %d units, at or below its minimum of %d. Consider restocking.",
					item.Name, item.SKU, item.Quantity, item.MinStockLevel),
			})
		}
	}
	if len(insights) == 0 {
		insights = append(insights, appadvisory.Insight{
			Kind:    appadvisory.InsightKindInfo,
			Message: "All items are above their minimum stock levels.",
		})
	}
	return insights, nil
}

// Chat answers with a fixed stock overview
func (g *StubGateway) Chat(_ context.Context, _ string, items []appadvisory.ItemSummary) (string, error) {
	var totalUnits int64
	for _, item := range items {
		totalUnits += item.Quantity
	}
	return fmt.Sprintf("The warehouse currently tracks %d items totalling %d units. Connect the advisory backend for detailed answers.",
		len(items), totalUnits), nil
}

// IdentifyProduct is unavailable offline
func (g *StubGateway) IdentifyProduct(_ context.Context, _, _ string) (*appadvisory.ProductDraft, error) {
	return nil, ErrIdentifyUnavailable
}

var _ appadvisory.Gateway = (*StubGateway)(nil)
