package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lawrns/flavatix/internal/domain"
)

func newChatServer(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); !strings.HasPrefix(auth, "Bearer ") {
			t.Errorf("missing bearer auth, got %q", auth)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
			"usage": map[string]int{"total_tokens": 42},
		})
	}))
}

func TestAIExtractionService_NotConfigured(t *testing.T) {
	svc := NewAIExtractionService(&AIExtractionConfig{Model: "gpt-4o-mini"})
	if svc.IsConfigured() {
		t.Error("expected service without API key to be unconfigured")
	}

	var nilSvc *AIExtractionService
	if nilSvc.IsConfigured() {
		t.Error("expected nil service to be unconfigured")
	}
}

func TestAIExtractionService_ExtractDescriptors(t *testing.T) {
	content := `Here is the result:
{"descriptors":[
  {"text":"citrus","type":"aroma","category":"fruity","confidence":0.9},
  {"text":"","type":"aroma","confidence":0.5},
  {"text":"weird","type":"nonsense","confidence":2.5}
]}`
	server := newChatServer(t, http.StatusOK, content)
	defer server.Close()

	svc := NewAIExtractionService(&AIExtractionConfig{
		Model:   "gpt-4o-mini",
		APIKey:  "test-key",
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	})

	result, err := svc.ExtractDescriptors(context.Background(), "bright citrus", "coffee", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Descriptors) != 2 {
		t.Fatalf("expected 2 descriptors after sanitizing, got %d: %+v", len(result.Descriptors), result.Descriptors)
	}

	citrus := result.Descriptors[0]
	if citrus.Text != "citrus" || citrus.Type != domain.TypeAroma || citrus.Category != "fruity" {
		t.Errorf("unexpected first descriptor: %+v", citrus)
	}
	if citrus.Confidence != 0.9 {
		t.Errorf("expected confidence 0.9, got %v", citrus.Confidence)
	}

	weird := result.Descriptors[1]
	if weird.Type != domain.TypeOther {
		t.Errorf("expected unknown type defaulted to other, got %s", weird.Type)
	}
	if weird.Confidence != 1.0 {
		t.Errorf("expected out-of-range confidence clamped to 1.0, got %v", weird.Confidence)
	}

	if result.TokensUsed != 42 {
		t.Errorf("expected 42 tokens, got %d", result.TokensUsed)
	}
	if result.Model != "gpt-4o-mini" {
		t.Errorf("unexpected model: %s", result.Model)
	}
	if result.RawResponse == "" {
		t.Error("expected raw response to be recorded")
	}
}

func TestAIExtractionService_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := NewAIExtractionService(&AIExtractionConfig{
		Model:   "gpt-4o-mini",
		APIKey:  "test-key",
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	})

	_, err := svc.ExtractDescriptors(context.Background(), "bright citrus", "", nil)
	if err == nil {
		t.Fatal("expected error for HTTP 500")
	}
}

func TestAIExtractionService_MalformedReply(t *testing.T) {
	server := newChatServer(t, http.StatusOK, "I could not produce JSON, sorry.")
	defer server.Close()

	svc := NewAIExtractionService(&AIExtractionConfig{
		Model:   "gpt-4o-mini",
		APIKey:  "test-key",
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	})

	_, err := svc.ExtractDescriptors(context.Background(), "bright citrus", "", nil)
	if err == nil {
		t.Fatal("expected error for a reply without JSON")
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		wantErr bool
	}{
		{
			name:    "bare object",
			content: `{"descriptors":[]}`,
			want:    `{"descriptors":[]}`,
		},
		{
			name:    "object wrapped in prose",
			content: "Sure! ```json\n{\"a\":{\"b\":1}}\n```",
			want:    `{"a":{"b":1}}`,
		},
		{
			name:    "no JSON",
			content: "nothing here",
			wantErr: true,
		},
		{
			name:    "unbalanced braces",
			content: `{"a": 1`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractJSONObject(tt.content)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildExtractionPrompt(t *testing.T) {
	taxonomy := &domain.TaxonomyPayload{
		BaseTemplate:    "coffee",
		AromaCategories: []string{"floral", "fruity"},
	}

	prompt := buildExtractionPrompt("bright citrus", "Ethiopian coffee", taxonomy)
	if !strings.Contains(prompt, "Ethiopian coffee") {
		t.Error("expected category in prompt")
	}
	if !strings.Contains(prompt, "floral") {
		t.Error("expected taxonomy context in prompt")
	}
	if !strings.Contains(prompt, "bright citrus") {
		t.Error("expected note text in prompt")
	}

	bare := buildExtractionPrompt("bright citrus", "", nil)
	if strings.Contains(bare, "Category:") {
		t.Error("expected no category line without a category")
	}
}
