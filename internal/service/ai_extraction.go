package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/lawrns/flavatix/internal/domain"
	"github.com/lawrns/flavatix/internal/prompts"
)

// AIExtractionConfig holds configuration for the AI extraction adapter.
type AIExtractionConfig struct {
	Provider  string
	Model     string
	APIKey    string
	BaseURL   string
	Timeout   time.Duration
	MaxTokens int
}

// AIExtractionService calls an external text-analysis provider to extract
// structured descriptors from free text. It has no retry policy and raises
// on any provider error; the orchestrator owns the keyword fallback.
type AIExtractionService struct {
	client    *resty.Client
	model     string
	endpoint  string
	maxTokens int
	apiKey    string
}

// NewAIExtractionService creates a new AI extraction adapter.
// Parameters:
//   - cfg: provider configuration including model, API key, and timeout.
// Returns:
//   - *AIExtractionService: initialized adapter; unconfigured when no API key is set.
func NewAIExtractionService(cfg *AIExtractionConfig) *AIExtractionService {
	client := resty.New()
	client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")

	// An explicit timeout so a stuck provider call fails into the keyword
	// fallback instead of stalling the whole extraction request
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client.SetTimeout(timeout)

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1000
	}

	return &AIExtractionService{
		client:    client,
		model:     cfg.Model,
		endpoint:  baseURL + "/chat/completions",
		maxTokens: maxTokens,
		apiKey:    cfg.APIKey,
	}
}

// IsConfigured reports whether an API credential is set. Callers must not
// invoke ExtractDescriptors when this is false.
func (s *AIExtractionService) IsConfigured() bool {
	return s != nil && s.apiKey != ""
}

// GetModel returns the model name being used.
func (s *AIExtractionService) GetModel() string {
	return s.model
}

// OpenAI-compatible Chat Completion API request/response structures
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float32       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// extractionPayload is the structured shape the model is instructed to emit.
type extractionPayload struct {
	Descriptors []ExtractedDescriptor `json:"descriptors"`
}

// AIExtractionResult carries the extracted descriptors plus provider usage
// metadata for the extraction log.
type AIExtractionResult struct {
	Descriptors  []ExtractedDescriptor
	Model        string
	TokensUsed   int
	ProcessingMs int64
	RawResponse  string
}

// ExtractDescriptors calls the provider with the tasting note and optional
// taxonomy context and parses the structured descriptor list from its reply.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - text: combined tasting note text (must be non-empty).
//   - category: optional tasted-item category name.
//   - taxonomy: optional cached taxonomy payload for the category.
// Returns:
//   - *AIExtractionResult: descriptors and usage metadata.
//   - error: non-nil on provider error, timeout, or a malformed reply.
func (s *AIExtractionService) ExtractDescriptors(ctx context.Context, text, category string, taxonomy *domain.TaxonomyPayload) (*AIExtractionResult, error) {
	userPrompt := buildExtractionPrompt(text, category, taxonomy)

	req := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: prompts.ExtractionSystemPrompt},
			{Role: "user", Content: userPrompt},
		},
		MaxTokens:   s.maxTokens,
		Temperature: 0.2,
	}

	start := time.Now()

	var resp chatResponse
	httpResp, err := s.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		Post(s.endpoint)

	elapsed := time.Since(start).Milliseconds()

	if err != nil {
		return nil, fmt.Errorf("failed to call extraction API: %w", err)
	}

	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		errorMsg := fmt.Sprintf("HTTP %d", httpResp.StatusCode())
		if resp.Error != nil {
			errorMsg = fmt.Sprintf("HTTP %d: %s", httpResp.StatusCode(), resp.Error.Message)
		} else if len(httpResp.Body()) > 0 {
			errorMsg = fmt.Sprintf("HTTP %d: %s", httpResp.StatusCode(), string(httpResp.Body()))
		}
		return nil, fmt.Errorf("extraction API returned error: %s", errorMsg)
	}

	if resp.Error != nil {
		return nil, fmt.Errorf("extraction API error: %s", resp.Error.Message)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("no response from extraction API (status: %d)", httpResp.StatusCode())
	}

	content := resp.Choices[0].Message.Content
	payload, err := parseExtractionContent(content)
	if err != nil {
		return nil, err
	}

	return &AIExtractionResult{
		Descriptors:  sanitizeDescriptors(payload.Descriptors),
		Model:        s.model,
		TokensUsed:   resp.Usage.TotalTokens,
		ProcessingMs: elapsed,
		RawResponse:  content,
	}, nil
}

// buildExtractionPrompt assembles the user message from the note text and
// optional taxonomy context.
func buildExtractionPrompt(text, category string, taxonomy *domain.TaxonomyPayload) string {
	var b strings.Builder
	if category != "" {
		b.WriteString("Category: ")
		b.WriteString(category)
		b.WriteString("\n")
	}
	if taxonomy != nil && !taxonomy.IsEmpty() {
		if ctx, err := json.Marshal(taxonomy); err == nil {
			b.WriteString(prompts.ExtractionTaxonomyContext)
			b.WriteString("\n")
			b.Write(ctx)
			b.WriteString("\n\n")
		}
	}
	b.WriteString(prompts.ExtractionUserPrompt)
	b.WriteString("\n")
	b.WriteString(text)
	return b.String()
}

// parseExtractionContent extracts the JSON object from the model reply and
// decodes the descriptor payload.
func parseExtractionContent(content string) (*extractionPayload, error) {
	jsonStr, err := extractJSONObject(content)
	if err != nil {
		return nil, err
	}

	var payload extractionPayload
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse extraction JSON: %w", err)
	}
	return &payload, nil
}

// sanitizeDescriptors drops empty terms, defaults unknown types to "other",
// and clamps confidences into [0, 1].
func sanitizeDescriptors(in []ExtractedDescriptor) []ExtractedDescriptor {
	out := make([]ExtractedDescriptor, 0, len(in))
	for _, d := range in {
		d.Text = strings.TrimSpace(d.Text)
		if d.Text == "" {
			continue
		}
		if !d.Type.Valid() {
			d.Type = domain.TypeOther
		}
		if d.Confidence <= 0 || d.Confidence > 1 {
			d.Confidence = 1.0
		}
		out = append(out, d)
	}
	return out
}

// extractJSONObject finds the first balanced JSON object in model output.
// Models occasionally wrap the object in prose despite instructions.
func extractJSONObject(content string) (string, error) {
	jsonStart := strings.Index(content, "{")
	if jsonStart == -1 {
		return "", fmt.Errorf("no JSON found in response")
	}

	braceCount := 0
	jsonEnd := -1
findJSON:
	for i := jsonStart; i < len(content); i++ {
		switch content[i] {
		case '{':
			braceCount++
		case '}':
			braceCount--
			if braceCount == 0 {
				jsonEnd = i + 1
				break findJSON
			}
		}
	}

	if jsonEnd == -1 {
		return "", fmt.Errorf("incomplete JSON in response")
	}

	return content[jsonStart:jsonEnd], nil
}
