package advisory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	appadvisory "github.com/wms/backend/internal/application/advisory"
)

// maxGeminiResponseSize limits the response body size to prevent memory
// exhaustion
const maxGeminiResponseSize = 10 * 1024 * 1024 // 10MB max response

// GeminiAdapter implements the advisory Gateway against the Gemini
// generateContent REST API.
type GeminiAdapter struct {
	config     *GeminiConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewGeminiAdapter creates a new Gemini adapter with the given configuration
func NewGeminiAdapter(config *GeminiConfig, logger *zap.Logger) (*GeminiAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &GeminiAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger,
	}, nil
}

// SuggestLocation proposes a putaway bin code for a received item
func (a *GeminiAdapter) SuggestLocation(ctx context.Context, item appadvisory.ItemSummary) (string, error) {
	itemJSON, err := json.Marshal(item)
	if err != nil {
		return "", fmt.Errorf("gemini: failed to marshal item: %w", err)
	}

	prompt := fmt.Sprintf(`Suggest a warehouse location code for a new item.
Item: %s

Format: Return ONLY the location code string (e.g. "A-05-01").
Logic: Electronics in Zone A, Furniture in Zone B, Office Supplies in Zone C.`, itemJSON)

	text, err := a.generateText(ctx, prompt, nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// SuggestPackaging proposes a carton description for a set of lines
func (a *GeminiAdapter) SuggestPackaging(ctx context.Context, lines []appadvisory.LineSummary) (string, error) {
	linesJSON, err := json.Marshal(lines)
	if err != nil {
		return "", fmt.Errorf("gemini: failed to marshal lines: %w", err)
	}

	prompt := fmt.Sprintf(`Recommend the best shipping box size for these items:
%s
Options: Small Box (10x10x10), Medium Box (14x14x14), Large Box (20x20x20), Pallet.
Return just the box name and brief reason.`, linesJSON)

	text, err := a.generateText(ctx, prompt, nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// SummarizeInsights reviews the stock position and returns observations
func (a *GeminiAdapter) SummarizeInsights(ctx context.Context, items []appadvisory.ItemSummary) ([]appadvisory.Insight, error) {
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to marshal inventory: %w", err)
	}

	prompt := fmt.Sprintf(`Analyze this inventory data and provide 3 key insights or actionable recommendations.
Respond with a JSON array of objects with fields "type" (one of "warning", "suggestion", "info") and "message".
Data: %s`, itemsJSON)

	text, err := a.generateText(ctx, prompt, &geminiGenerationConfig{
		ResponseMimeType: "application/json",
	})
	if err != nil {
		return nil, err
	}

	var payload []insightPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, fmt.Errorf("gemini: failed to parse insights: %w", err)
	}

	insights := make([]appadvisory.Insight, 0, len(payload))
	for _, p := range payload {
		insights = append(insights, appadvisory.Insight{Kind: p.Type, Message: p.Message})
	}
	return insights, nil
}

// Chat answers a free-form warehouse question with inventory context
func (a *GeminiAdapter) Chat(ctx context.Context, message string, items []appadvisory.ItemSummary) (string, error) {
	contextLines := make([]string, 0, len(items))
	for _, item := range items {
		contextLines = append(contextLines,
			fmt.Sprintf("%s (ID: %s): %d in stock (Loc: %s)", item.Name, item.SKU, item.Quantity, item.Location))
	}

	system := fmt.Sprintf(`You are Nexus, a helpful Warehouse AI Assistant.
You have access to the following current inventory data:
%s
Answer questions about stock levels, locations, and item details strictly based on this data.
If asked to perform actions, explain that you can guide them but they must use the UI.`, strings.Join(contextLines, "\n"))

	req := geminiRequest{
		SystemInstruction: &geminiContent{
			Parts: []geminiPart{{Text: system}},
		},
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: message}}},
		},
	}

	text, err := a.doRequest(ctx, req)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// IdentifyProduct drafts item fields from a base64-encoded product photo
func (a *GeminiAdapter) IdentifyProduct(ctx context.Context, imageData, mimeType string) (*appadvisory.ProductDraft, error) {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	req := geminiRequest{
		Contents: []geminiContent{
			{
				Role: "user",
				Parts: []geminiPart{
					{InlineData: &geminiInlineData{MimeType: mimeType, Data: imageData}},
					{Text: `Analyze this image for a warehouse inventory system. Identify the item name, a likely category (Electronics, Furniture, Office Supplies, Apparel, Industrial, Other), a short description, and a suggested SKU. Respond with a JSON object with fields "name", "sku", "category", "description".`},
				},
			},
		},
		GenerationConfig: &geminiGenerationConfig{
			ResponseMimeType: "application/json",
		},
	}

	text, err := a.doRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	var payload draftPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, fmt.Errorf("gemini: failed to parse product draft: %w", err)
	}

	return &appadvisory.ProductDraft{
		Name:        payload.Name,
		SKU:         payload.SKU,
		Category:    payload.Category,
		Description: payload.Description,
	}, nil
}

// generateText sends a single-turn text prompt and returns the response text
func (a *GeminiAdapter) generateText(ctx context.Context, prompt string, genConfig *geminiGenerationConfig) (string, error) {
	req := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: genConfig,
	}
	return a.doRequest(ctx, req)
}

// doRequest performs a generateContent call and extracts the first
// candidate's text
func (a *GeminiAdapter) doRequest(ctx context.Context, request geminiRequest) (string, error) {
	bodyBytes, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("gemini: failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", a.config.BaseURL, a.config.Model)

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("gemini: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", a.config.APIKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxGeminiResponseSize))
	if err != nil {
		return "", fmt.Errorf("gemini: failed to read response: %w", err)
	}

	a.logger.Debug("gemini call completed",
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	var parsed geminiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("gemini: failed to parse response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("gemini: API error %d (%s): %s", parsed.Error.Code, parsed.Error.Status, parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini: unexpected status %d", resp.StatusCode)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: empty response")
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

var _ appadvisory.Gateway = (*GeminiAdapter)(nil)
