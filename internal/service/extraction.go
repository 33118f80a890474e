package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lawrns/flavatix/internal/domain"
	"github.com/lawrns/flavatix/internal/logger"
	"github.com/lawrns/flavatix/internal/repository"
)

// ErrInvalidInput marks caller-input errors that must be rejected before any
// extraction work begins. Handlers map it to a 400 response.
var ErrInvalidInput = errors.New("invalid input")

// ItemContext carries the name/category of the tasted item, persisted with
// each descriptor for item- and category-scoped wheels.
type ItemContext struct {
	Name     string `json:"name,omitempty"`
	Category string `json:"category,omitempty"`
}

// ExtractRequest is the input to the extraction pipeline. Text and Notes may
// both be supplied; Text takes precedence and Notes is then used only as a
// fallback input, never merged.
type ExtractRequest struct {
	UserID     string            `json:"user_id"`
	SourceType domain.SourceType `json:"source_type"`
	SourceID   string            `json:"source_id"`
	Text       string            `json:"text,omitempty"`
	Notes      *StructuredNotes  `json:"notes,omitempty"`
	Item       *ItemContext      `json:"item,omitempty"`
	Category   string            `json:"category,omitempty"`
	UseAI      *bool             `json:"use_ai,omitempty"` // default true
}

// ExtractResult is the output of the extraction pipeline.
type ExtractResult struct {
	Descriptors  []ExtractedDescriptor   `json:"descriptors"`
	SavedCount   int                     `json:"saved_count"`
	Method       domain.ExtractionMethod `json:"method"`
	TokensUsed   int                     `json:"tokens_used,omitempty"`
	ProcessingMs int64                   `json:"processing_ms,omitempty"`
}

// ExtractionService orchestrates descriptor extraction: it picks the AI or
// keyword strategy, falls back on any AI failure, normalizes terms, and
// upserts descriptor rows keyed by (user, normalized term, semantic type).
type ExtractionService struct {
	descriptorRepo *repository.DescriptorRepository
	logRepo        *repository.ExtractionLogRepository
	keyword        *KeywordExtractor
	ai             *AIExtractionService
	taxonomy       *TaxonomyService
	aiEnabled      bool
}

// NewExtractionService creates a new ExtractionService.
// Parameters:
//   - descriptorRepo: descriptor persistence.
//   - logRepo: extraction audit log persistence.
//   - keyword: deterministic extraction strategy.
//   - ai: AI extraction adapter; may be unconfigured.
//   - taxonomy: taxonomy resolver used for AI context.
//   - aiEnabled: global AI feature flag from configuration.
// Returns:
//   - *ExtractionService: initialized orchestrator.
func NewExtractionService(
	descriptorRepo *repository.DescriptorRepository,
	logRepo *repository.ExtractionLogRepository,
	keyword *KeywordExtractor,
	ai *AIExtractionService,
	taxonomy *TaxonomyService,
	aiEnabled bool,
) *ExtractionService {
	return &ExtractionService{
		descriptorRepo: descriptorRepo,
		logRepo:        logRepo,
		keyword:        keyword,
		ai:             ai,
		taxonomy:       taxonomy,
		aiEnabled:      aiEnabled,
	}
}

// Extract runs the full pipeline for one request. AI failures are recovered
// by the keyword fallback and never surface to the caller; store failures
// propagate.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - req: extraction request.
// Returns:
//   - *ExtractResult: descriptor list, persisted count, and method metadata.
//   - error: ErrInvalidInput-wrapped for bad input; store errors otherwise.
func (s *ExtractionService) Extract(ctx context.Context, req *ExtractRequest) (*ExtractResult, error) {
	if err := validateExtractRequest(req); err != nil {
		return nil, err
	}

	ctx = logger.SetUserID(ctx, req.UserID)
	ctx = logger.SetSourceID(ctx, req.SourceID)

	text := strings.TrimSpace(req.Text)
	if text == "" && req.Notes != nil {
		text = req.Notes.Combined()
	}

	useAI := s.aiEnabled && s.ai.IsConfigured() && text != ""
	if req.UseAI != nil && !*req.UseAI {
		useAI = false
	}

	result := &ExtractResult{Method: domain.MethodKeyword}
	var extracted []ExtractedDescriptor

	if useAI {
		extracted = s.tryAIExtraction(ctx, req, text, result)
	}

	if result.Method == domain.MethodKeyword {
		// Raw text takes precedence over structured notes, matching the text
		// the AI path analyzes
		if strings.TrimSpace(req.Text) == "" && req.Notes != nil && !req.Notes.IsEmpty() {
			extracted = s.keyword.ExtractFromNotes(req.Notes)
		} else {
			extracted = s.keyword.ExtractFromText(text)
		}
	}

	saved, err := s.persistDescriptors(ctx, req, extracted, result.Method)
	if err != nil {
		return nil, err
	}

	result.Descriptors = extracted
	result.SavedCount = saved

	logger.With(logger.Fields{
		logger.FieldCount:  len(extracted),
		logger.FieldMethod: string(result.Method),
	}).WithTokens(result.TokensUsed).Info(ctx,
		"Extraction completed: source=%s/%s, saved=%d", req.SourceType, req.SourceID, saved)

	return result, nil
}

// tryAIExtraction runs the AI path, records the attempt in the extraction
// log, and on success marks the result method as AI. On any failure it
// leaves the method as keyword so the caller falls back.
func (s *ExtractionService) tryAIExtraction(ctx context.Context, req *ExtractRequest, text string, result *ExtractResult) []ExtractedDescriptor {
	var taxonomy *domain.TaxonomyPayload
	if req.Category != "" {
		if resolved, err := s.taxonomy.Resolve(ctx, req.Category); err == nil {
			taxonomy = &resolved.Taxonomy.Payload
		} else {
			logger.CtxWarn(ctx, "Taxonomy resolution failed, extracting without context: %v", err)
		}
	}

	aiResult, err := s.ai.ExtractDescriptors(ctx, text, req.Category, taxonomy)

	entry := &domain.ExtractionLog{
		ID:            uuid.New().String(),
		UserID:        req.UserID,
		SourceID:      req.SourceID,
		SourceType:    req.SourceType,
		InputText:     text,
		InputCategory: req.Category,
		ModelName:     s.ai.GetModel(),
	}

	if err != nil {
		logger.CtxWarn(ctx, "AI extraction failed, falling back to keyword: %v", err)
		entry.RawResponse = err.Error()
	} else {
		entry.TokensUsed = aiResult.TokensUsed
		entry.ProcessingMs = aiResult.ProcessingMs
		entry.DescriptorCount = len(aiResult.Descriptors)
		entry.Success = true
		entry.RawResponse = aiResult.RawResponse
	}

	// The log is monitoring data; losing a row must not fail the request
	if logErr := s.logRepo.Create(ctx, entry); logErr != nil {
		logger.CtxWarn(ctx, "Failed to write extraction log: %v", logErr)
	}

	if err != nil {
		return nil
	}

	result.Method = domain.MethodAI
	result.TokensUsed = aiResult.TokensUsed
	result.ProcessingMs = aiResult.ProcessingMs
	return aiResult.Descriptors
}

// persistDescriptors normalizes and upserts the extracted descriptors.
// Descriptors that normalize to the same (term, type) within one batch
// collapse to the last occurrence before hitting the store.
func (s *ExtractionService) persistDescriptors(ctx context.Context, req *ExtractRequest, extracted []ExtractedDescriptor, method domain.ExtractionMethod) (int, error) {
	itemName, itemCategory := "", req.Category
	if req.Item != nil {
		itemName = req.Item.Name
		if req.Item.Category != "" {
			itemCategory = req.Item.Category
		}
	}

	batch := make(map[string]*domain.Descriptor, len(extracted))
	order := make([]string, 0, len(extracted))

	now := time.Now()
	for _, d := range extracted {
		normalized := domain.NormalizeTerm(d.Text)
		if normalized == "" || !d.Type.Valid() {
			continue
		}
		key := normalized + "|" + string(d.Type)
		if _, ok := batch[key]; !ok {
			order = append(order, key)
		}
		batch[key] = &domain.Descriptor{
			ID:           uuid.New().String(),
			UserID:       req.UserID,
			SourceType:   req.SourceType,
			SourceID:     req.SourceID,
			RawText:      d.Text,
			Normalized:   normalized,
			SemanticType: d.Type,
			Category:     d.Category,
			Subcategory:  d.Subcategory,
			Confidence:   d.Confidence,
			Intensity:    d.Intensity,
			ItemName:     itemName,
			ItemCategory: itemCategory,
			AIGenerated:  method == domain.MethodAI,
			ModelName:    s.modelNameFor(method),
			UpdatedAt:    now,
		}
	}

	saved := 0
	for _, key := range order {
		if err := s.descriptorRepo.Upsert(ctx, batch[key]); err != nil {
			return saved, fmt.Errorf("failed to persist descriptor %q: %w", batch[key].Normalized, err)
		}
		saved++
	}
	return saved, nil
}

func (s *ExtractionService) modelNameFor(method domain.ExtractionMethod) string {
	if method == domain.MethodAI {
		return s.ai.GetModel()
	}
	return ""
}

// validateExtractRequest rejects requests missing required identifiers or
// carrying neither raw text nor structured notes.
func validateExtractRequest(req *ExtractRequest) error {
	if req == nil {
		return fmt.Errorf("%w: empty request", ErrInvalidInput)
	}
	if strings.TrimSpace(req.UserID) == "" {
		return fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.SourceID) == "" {
		return fmt.Errorf("%w: source_id is required", ErrInvalidInput)
	}
	if !req.SourceType.Valid() {
		return fmt.Errorf("%w: unknown source_type %q", ErrInvalidInput, req.SourceType)
	}
	if strings.TrimSpace(req.Text) == "" && req.Notes == nil {
		return fmt.Errorf("%w: either text or notes must be provided", ErrInvalidInput)
	}
	return nil
}
