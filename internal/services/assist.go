package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/jaatdharmendra53-star/Svbh-help/internal/models"
)

// assistCategories are the categories the refiner may suggest. Mess is
// excluded: mess complaints are selected by location, not by free text.
var assistCategories = []string{
	models.CategoryElectrical, models.CategoryPlumbing,
	models.CategoryCleanliness, models.CategoryOther,
}

// AssistService rewrites complaint descriptions through the Gemini
// generateContent API and suggests a category. It is strictly best-effort:
// a disabled key, transport failure, malformed JSON, or out-of-range
// category all degrade to returning the description unchanged.
type AssistService struct {
	client *resty.Client
	logger *zap.SugaredLogger
	apiKey string
	model  string
}

// NewAssistService creates an assist service. baseURL points at the
// generative-language API host; an empty apiKey disables the service.
func NewAssistService(baseURL, apiKey, model string, logger *zap.SugaredLogger) *AssistService {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second).
		SetHeader("Content-Type", "application/json")
	return &AssistService{client: client, logger: logger, apiKey: apiKey, model: model}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Refine asks the model to categorize and professionally rewrite a
// description. Never returns an error: any failure leaves the description
// unchanged with no suggested category.
func (s *AssistService) Refine(ctx context.Context, description string) models.AssistResult {
	unchanged := models.AssistResult{RefinedDescription: description}
	if s.apiKey == "" || len(description) < 5 {
		return unchanged
	}

	prompt := fmt.Sprintf(
		`Hostel Problem: %q. Categorize (Electrical, Plumbing, Cleanliness, Other) and rewrite professionally for a warden. `+
			`Respond with only a JSON object: {"suggestedCategory": "...", "refinedDescription": "..."}`,
		description,
	)

	var out geminiResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("key", s.apiKey).
		SetBody(geminiRequest{Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}}}).
		SetResult(&out).
		Post(fmt.Sprintf("/v1beta/models/%s:generateContent", s.model))
	if err != nil {
		s.logger.Warnw("AI assist request failed", "error", err)
		return unchanged
	}
	if resp.IsError() {
		s.logger.Warnw("AI assist non-2xx", "status", resp.StatusCode())
		return unchanged
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return unchanged
	}

	var parsed models.AssistResult
	text := stripCodeFence(out.Candidates[0].Content.Parts[0].Text)
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		s.logger.Warnw("AI assist returned malformed JSON", "error", err)
		return unchanged
	}

	result := unchanged
	if parsed.RefinedDescription != "" {
		result.RefinedDescription = parsed.RefinedDescription
	}
	for _, c := range assistCategories {
		if parsed.SuggestedCategory == c {
			result.SuggestedCategory = c
			break
		}
	}
	return result
}

// stripCodeFence removes a markdown ```json fence the model sometimes
// wraps its output in.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
