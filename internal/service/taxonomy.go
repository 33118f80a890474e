package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/lawrns/flavatix/internal/domain"
	"github.com/lawrns/flavatix/internal/lexicon"
	"github.com/lawrns/flavatix/internal/logger"
	"github.com/lawrns/flavatix/internal/prompts"
	"github.com/lawrns/flavatix/internal/repository"
	"gorm.io/gorm"
)

// TaxonomyConfig holds configuration for the taxonomy resolver.
type TaxonomyConfig struct {
	Model     string
	APIKey    string
	BaseURL   string
	Timeout   time.Duration
	CacheSize int
	CacheTTL  time.Duration
}

// ResolveResult carries a resolved taxonomy and whether it was freshly
// generated on this request or retrieved from cache/store.
type ResolveResult struct {
	Taxonomy  *domain.CategoryTaxonomy
	Generated bool
}

// TaxonomyService resolves a free-text category name to a cached flavor
// taxonomy, generating one lazily on first reference. Generation prefers the
// AI path and degrades to template matching on any AI failure.
type TaxonomyService struct {
	repo     *repository.TaxonomyRepository
	client   *resty.Client
	model    string
	endpoint string
	apiKey   string
	cache    *taxonomyCache
}

// NewTaxonomyService creates a new TaxonomyService with an explicitly
// injected, size- and TTL-bounded in-process cache.
// Parameters:
//   - repo: taxonomy persistence.
//   - cfg: resolver configuration; empty API key disables the AI path.
// Returns:
//   - *TaxonomyService: initialized resolver.
func NewTaxonomyService(repo *repository.TaxonomyRepository, cfg *TaxonomyConfig) *TaxonomyService {
	client := resty.New()
	client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client.SetTimeout(timeout)

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	cacheSize := cfg.CacheSize
	if cacheSize <= 0 {
		cacheSize = 100
	}
	cacheTTL := cfg.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}

	return &TaxonomyService{
		repo:     repo,
		client:   client,
		model:    cfg.Model,
		endpoint: baseURL + "/chat/completions",
		apiKey:   cfg.APIKey,
		cache:    newTaxonomyCache(cacheSize, cacheTTL),
	}
}

// Resolve returns the taxonomy for a category name, generating and
// persisting one on a miss. Concurrent misses for the same normalized name
// may both generate; the first committed row wins and both callers receive
// it without error.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - name: category name as entered by the user.
// Returns:
//   - *ResolveResult: taxonomy plus freshly-generated flag.
//   - error: ErrInvalidInput-wrapped for a blank name; store errors otherwise.
func (s *TaxonomyService) Resolve(ctx context.Context, name string) (*ResolveResult, error) {
	normalized := domain.NormalizeCategoryName(name)
	if normalized == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrInvalidInput)
	}

	if cached, ok := s.cache.Get(normalized); ok {
		return &ResolveResult{Taxonomy: cached, Generated: false}, nil
	}

	existing, err := s.repo.GetByNormalizedName(ctx, normalized)
	if err == nil {
		s.cache.Set(normalized, existing)
		return &ResolveResult{Taxonomy: existing, Generated: false}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up taxonomy: %w", err)
	}

	payload, modelName := s.generate(ctx, name)

	taxonomy := &domain.CategoryTaxonomy{
		ID:             uuid.New().String(),
		CategoryName:   strings.TrimSpace(name),
		NormalizedName: normalized,
		Payload:        payload,
		ModelName:      modelName,
		GeneratedAt:    time.Now(),
	}

	if err := s.repo.CreateIfAbsent(ctx, taxonomy); err != nil {
		return nil, fmt.Errorf("failed to persist taxonomy: %w", err)
	}

	// Re-read so a concurrent generator's first-committed row wins over ours
	stored, err := s.repo.GetByNormalizedName(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to read back taxonomy: %w", err)
	}

	s.cache.Set(normalized, stored)
	return &ResolveResult{Taxonomy: stored, Generated: true}, nil
}

// Regenerate rebuilds the taxonomy for a category name, overwriting any
// stored row. The normalized name keeps its identity: an existing row keeps
// its ID and gets fresh vocabulary, so cached wheel artifacts referencing the
// category stay valid.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - name: category name as entered by the user.
// Returns:
//   - *ResolveResult: replacement taxonomy, always freshly generated.
//   - error: ErrInvalidInput-wrapped for a blank name; store errors otherwise.
func (s *TaxonomyService) Regenerate(ctx context.Context, name string) (*ResolveResult, error) {
	normalized := domain.NormalizeCategoryName(name)
	if normalized == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrInvalidInput)
	}

	payload, modelName := s.generate(ctx, name)

	taxonomy := &domain.CategoryTaxonomy{
		ID:             uuid.New().String(),
		CategoryName:   strings.TrimSpace(name),
		NormalizedName: normalized,
		Payload:        payload,
		ModelName:      modelName,
		GeneratedAt:    time.Now(),
	}

	if err := s.repo.Replace(ctx, taxonomy); err != nil {
		return nil, fmt.Errorf("failed to replace taxonomy: %w", err)
	}

	// Re-read: on conflict the existing row keeps its ID and takes the new
	// vocabulary, and the cache must carry what the store holds
	stored, err := s.repo.GetByNormalizedName(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to read back taxonomy: %w", err)
	}

	s.cache.Set(normalized, stored)
	return &ResolveResult{Taxonomy: stored, Generated: true}, nil
}

// generate synthesizes a taxonomy payload, via the AI path when configured
// and falling back to base-template matching on any failure.
func (s *TaxonomyService) generate(ctx context.Context, name string) (domain.TaxonomyPayload, string) {
	if s.apiKey != "" {
		payload, err := s.generateWithAI(ctx, name)
		if err == nil {
			return payload, s.model
		}
		logger.CtxWarn(ctx, "AI taxonomy generation failed, using template: %v", err)
	}
	return s.generateFromTemplate(name), ""
}

// generateFromTemplate matches the category against the base templates.
func (s *TaxonomyService) generateFromTemplate(name string) domain.TaxonomyPayload {
	tpl := lexicon.MatchTemplate(domain.NormalizeCategoryName(name))
	return domain.TaxonomyPayload{
		BaseTemplate:       tpl.Name,
		AromaCategories:    tpl.AromaCategories,
		FlavorCategories:   tpl.FlavorCategories,
		TypicalDescriptors: tpl.TypicalDescriptors,
		TextureNotes:       tpl.TextureNotes,
	}
}

// generateWithAI asks the provider to classify the category against the base
// templates and produce its vocabulary lists.
func (s *TaxonomyService) generateWithAI(ctx context.Context, name string) (domain.TaxonomyPayload, error) {
	systemPrompt := prompts.TaxonomySystemPrompt +
		"\n\nBase templates: " + strings.Join(lexicon.TemplateNames(), ", ")

	req := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompts.TaxonomyUserPrompt + " " + name},
		},
		MaxTokens:   500,
		Temperature: 0.3,
	}

	var resp chatResponse
	httpResp, err := s.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		Post(s.endpoint)

	if err != nil {
		return domain.TaxonomyPayload{}, fmt.Errorf("failed to call taxonomy API: %w", err)
	}

	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		return domain.TaxonomyPayload{}, fmt.Errorf("taxonomy API returned HTTP %d", httpResp.StatusCode())
	}

	if resp.Error != nil {
		return domain.TaxonomyPayload{}, fmt.Errorf("taxonomy API error: %s", resp.Error.Message)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return domain.TaxonomyPayload{}, fmt.Errorf("no response from taxonomy API")
	}

	jsonStr, err := extractJSONObject(resp.Choices[0].Message.Content)
	if err != nil {
		return domain.TaxonomyPayload{}, err
	}

	var payload domain.TaxonomyPayload
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		return domain.TaxonomyPayload{}, fmt.Errorf("failed to parse taxonomy JSON: %w", err)
	}

	return fillFromTemplate(payload), nil
}

// fillFromTemplate backfills any list the model left empty from the nearest
// base template, so a half-formed reply still yields a usable vocabulary.
func fillFromTemplate(payload domain.TaxonomyPayload) domain.TaxonomyPayload {
	tpl := lexicon.TemplateByName(payload.BaseTemplate)
	payload.BaseTemplate = tpl.Name
	if len(payload.AromaCategories) == 0 {
		payload.AromaCategories = tpl.AromaCategories
	}
	if len(payload.FlavorCategories) == 0 {
		payload.FlavorCategories = tpl.FlavorCategories
	}
	if len(payload.TypicalDescriptors) == 0 {
		payload.TypicalDescriptors = tpl.TypicalDescriptors
	}
	if len(payload.TextureNotes) == 0 {
		payload.TextureNotes = tpl.TextureNotes
	}
	return payload
}

// ============================================================================
// taxonomyCache - LRU cache with TTL
// ============================================================================

type cachedTaxonomy struct {
	taxonomy  *domain.CategoryTaxonomy
	timestamp time.Time
}

type taxonomyCache struct {
	mu      sync.RWMutex
	cache   map[string]*cachedTaxonomy
	ttl     time.Duration
	maxSize int
	order   []string // LRU order (oldest first)
}

func newTaxonomyCache(maxSize int, ttl time.Duration) *taxonomyCache {
	return &taxonomyCache{
		cache:   make(map[string]*cachedTaxonomy),
		ttl:     ttl,
		maxSize: maxSize,
		order:   make([]string, 0, maxSize),
	}
}

func (c *taxonomyCache) Get(key string) (*domain.CategoryTaxonomy, bool) {
	c.mu.RLock()
	cached, ok := c.cache[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if time.Since(cached.timestamp) > c.ttl {
		c.mu.Lock()
		delete(c.cache, key)
		c.removeFromOrder(key)
		c.mu.Unlock()
		return nil, false
	}

	// Move to end of order (most recently used)
	c.mu.Lock()
	c.removeFromOrder(key)
	c.order = append(c.order, key)
	c.mu.Unlock()

	return cached.taxonomy, true
}

func (c *taxonomyCache) Set(key string, taxonomy *domain.CategoryTaxonomy) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Evict oldest if at capacity
	for len(c.cache) >= c.maxSize && len(c.order) > 0 {
		oldestKey := c.order[0]
		delete(c.cache, oldestKey)
		c.order = c.order[1:]
	}

	c.cache[key] = &cachedTaxonomy{
		taxonomy:  taxonomy,
		timestamp: time.Now(),
	}

	c.removeFromOrder(key)
	c.order = append(c.order, key)
}

func (c *taxonomyCache) removeFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
