package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/lawrns/flavatix/internal/domain"
	"github.com/lawrns/flavatix/internal/logger"
	"github.com/lawrns/flavatix/internal/repository"
	"gorm.io/gorm"
)

// uncategorizedBucket collects descriptors with no category label.
const uncategorizedBucket = "other"

// emptyWheelWarning is returned alongside a cached-but-empty artifact so
// callers can surface a "no data yet" hint instead of treating it as failure.
const emptyWheelWarning = "No descriptors recorded for this scope yet"

// GenerateWheelRequest is the input to wheel generation.
type GenerateWheelRequest struct {
	WheelType       domain.WheelType   `json:"wheel_type"`
	ScopeType       domain.ScopeType   `json:"scope_type"`
	ScopeFilter     domain.ScopeFilter `json:"scope_filter"`
	ForceRegenerate bool               `json:"force_regenerate,omitempty"`
}

// GenerateWheelResult is the output of wheel generation.
type GenerateWheelResult struct {
	Wheel    *domain.FlavorWheel `json:"wheel"`
	CacheHit bool                `json:"cache_hit"`
	Warning  string              `json:"warning,omitempty"`
}

// WheelService aggregates descriptors into cached flavor wheels. Wheel node
// values are plain mention counts of contributing descriptor rows.
type WheelService struct {
	descriptorRepo *repository.DescriptorRepository
	wheelRepo      *repository.WheelRepository
}

// NewWheelService creates a new WheelService.
// Parameters:
//   - descriptorRepo: descriptor reads for aggregation.
//   - wheelRepo: cached artifact persistence.
// Returns:
//   - *WheelService: initialized aggregator.
func NewWheelService(descriptorRepo *repository.DescriptorRepository, wheelRepo *repository.WheelRepository) *WheelService {
	return &WheelService{
		descriptorRepo: descriptorRepo,
		wheelRepo:      wheelRepo,
	}
}

// GenerateWheel returns the cached wheel for the request key, recomputing it
// on a miss or after forced invalidation. An empty result set is a valid,
// cacheable artifact with zero categories.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - req: wheel type, scope, filter, and force flag.
// Returns:
//   - *GenerateWheelResult: artifact, cache-hit indicator, and optional warning.
//   - error: ErrInvalidInput-wrapped for bad type/scope/filter; store errors otherwise.
func (s *WheelService) GenerateWheel(ctx context.Context, req *GenerateWheelRequest) (*GenerateWheelResult, error) {
	if err := validateWheelRequest(req); err != nil {
		return nil, err
	}

	scopeKey := req.ScopeFilter.Key()

	if req.ForceRegenerate {
		if err := s.wheelRepo.DeleteByKey(ctx, req.WheelType, req.ScopeType, scopeKey); err != nil {
			return nil, fmt.Errorf("failed to invalidate cached wheel: %w", err)
		}
	}

	cached, err := s.wheelRepo.GetByKey(ctx, req.WheelType, req.ScopeType, scopeKey)
	if err == nil {
		return &GenerateWheelResult{
			Wheel:    cached,
			CacheHit: true,
			Warning:  warningFor(cached.Payload),
		}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up cached wheel: %w", err)
	}

	descriptors, err := s.descriptorRepo.List(ctx, scopeToFilter(req))
	if err != nil {
		return nil, err
	}

	payload := buildWheelPayload(descriptors)

	filterJSON, _ := json.Marshal(req.ScopeFilter)
	wheel := &domain.FlavorWheel{
		ID:          uuid.New().String(),
		WheelType:   req.WheelType,
		ScopeType:   req.ScopeType,
		ScopeKey:    scopeKey,
		ScopeFilter: string(filterJSON),
		Payload:     payload,
		GeneratedAt: time.Now(),
	}

	if err := s.wheelRepo.Upsert(ctx, wheel); err != nil {
		return nil, fmt.Errorf("failed to persist wheel: %w", err)
	}

	logger.With(logger.Fields{
		logger.FieldWheelType: string(req.WheelType),
		logger.FieldScopeType: string(req.ScopeType),
		logger.FieldCount:     payload.Total,
	}).Info(ctx, "Wheel generated: key=%q, categories=%d", scopeKey, len(payload.Categories))

	return &GenerateWheelResult{
		Wheel:    wheel,
		CacheHit: false,
		Warning:  warningFor(payload),
	}, nil
}

// scopeToFilter translates the request scope into a descriptor query filter.
func scopeToFilter(req *GenerateWheelRequest) repository.DescriptorFilter {
	filter := repository.DescriptorFilter{
		SemanticTypes: req.WheelType.SemanticTypes(),
	}
	switch req.ScopeType {
	case domain.ScopePersonal:
		filter.UserID = req.ScopeFilter.UserID
	case domain.ScopeItem:
		filter.ItemName = req.ScopeFilter.ItemName
		filter.ItemCategory = req.ScopeFilter.ItemCategory
	case domain.ScopeCategory:
		filter.ItemCategory = req.ScopeFilter.ItemCategory
	case domain.ScopeTasting:
		filter.SourceID = req.ScopeFilter.TastingID
	}
	// universal: no filter beyond the wheel type's semantic types
	return filter
}

// buildWheelPayload groups descriptors into the two-level category tree.
// Each leaf counts the descriptor rows mentioning its normalized term; each
// category's value is the number of rows contributing to it. Ordering is by
// descending value with name as tiebreak so equal inputs produce equal trees.
func buildWheelPayload(descriptors []domain.Descriptor) domain.WheelPayload {
	type leafKey struct {
		text string
		typ  domain.SemanticType
	}
	byCategory := make(map[string]map[leafKey]int)

	for _, d := range descriptors {
		category := d.Category
		if category == "" {
			category = uncategorizedBucket
		}
		if byCategory[category] == nil {
			byCategory[category] = make(map[leafKey]int)
		}
		byCategory[category][leafKey{text: d.Normalized, typ: d.SemanticType}]++
	}

	categories := make([]domain.WheelCategory, 0, len(byCategory))
	total := 0
	for name, leaves := range byCategory {
		wc := domain.WheelCategory{
			Name:        name,
			Descriptors: make([]domain.WheelDescriptor, 0, len(leaves)),
		}
		for key, count := range leaves {
			wc.Descriptors = append(wc.Descriptors, domain.WheelDescriptor{
				Text:  key.text,
				Type:  key.typ,
				Count: count,
			})
			wc.Value += count
		}
		sort.Slice(wc.Descriptors, func(i, j int) bool {
			if wc.Descriptors[i].Count != wc.Descriptors[j].Count {
				return wc.Descriptors[i].Count > wc.Descriptors[j].Count
			}
			return wc.Descriptors[i].Text < wc.Descriptors[j].Text
		})
		total += wc.Value
		categories = append(categories, wc)
	}

	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Value != categories[j].Value {
			return categories[i].Value > categories[j].Value
		}
		return categories[i].Name < categories[j].Name
	})

	return domain.WheelPayload{Categories: categories, Total: total}
}

func warningFor(payload domain.WheelPayload) string {
	if len(payload.Categories) == 0 {
		return emptyWheelWarning
	}
	return ""
}

// validateWheelRequest rejects unknown types and scope filters missing the
// fields their scope requires.
func validateWheelRequest(req *GenerateWheelRequest) error {
	if req == nil {
		return fmt.Errorf("%w: empty request", ErrInvalidInput)
	}
	if !req.WheelType.Valid() {
		return fmt.Errorf("%w: unknown wheel_type %q", ErrInvalidInput, req.WheelType)
	}
	if !req.ScopeType.Valid() {
		return fmt.Errorf("%w: unknown scope_type %q", ErrInvalidInput, req.ScopeType)
	}
	if err := req.ScopeFilter.Validate(req.ScopeType); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}
