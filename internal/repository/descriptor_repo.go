package repository

import (
	"context"
	"fmt"

	"github.com/lawrns/flavatix/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DescriptorRepository handles flavor descriptor data operations.
type DescriptorRepository struct {
	db *gorm.DB
}

// NewDescriptorRepository creates a new DescriptorRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *DescriptorRepository: repository instance bound to db.
func NewDescriptorRepository(db *gorm.DB) *DescriptorRepository {
	return &DescriptorRepository{db: db}
}

// Upsert creates or updates a descriptor keyed by (user_id, normalized,
// semantic_type). On conflict the incoming row's fields overwrite the stored
// row (last-write-wins, not merge); the store's uniqueness constraint is the
// only concurrency control.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - desc: descriptor record to create or update.
// Returns:
//   - error: non-nil if the upsert fails.
func (r *DescriptorRepository) Upsert(ctx context.Context, desc *domain.Descriptor) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "normalized"}, {Name: "semantic_type"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"source_type", "source_id", "raw_text", "category", "subcategory",
			"confidence", "intensity", "item_name", "item_category",
			"ai_generated", "model_name", "updated_at",
		}),
	}).Create(desc).Error
}

// GetByUserTerm retrieves a descriptor by its dedup key.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: owning user identifier.
//   - normalized: normalized term.
//   - semanticType: sensory dimension of the term.
// Returns:
//   - *domain.Descriptor: descriptor record if found.
//   - error: non-nil if lookup fails.
func (r *DescriptorRepository) GetByUserTerm(ctx context.Context, userID, normalized string, semanticType domain.SemanticType) (*domain.Descriptor, error) {
	var desc domain.Descriptor
	if err := r.db.WithContext(ctx).
		First(&desc, "user_id = ? AND normalized = ? AND semantic_type = ?", userID, normalized, semanticType).Error; err != nil {
		return nil, err
	}
	return &desc, nil
}

// DescriptorFilter narrows descriptor queries for wheel aggregation and
// listing. Zero-valued fields are ignored.
type DescriptorFilter struct {
	UserID        string
	SourceID      string
	ItemName      string
	ItemCategory  string
	SemanticTypes []domain.SemanticType
	Limit         int
	Offset        int
}

// List retrieves descriptors matching the filter.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - filter: query filter; zero-valued fields are ignored.
// Returns:
//   - []domain.Descriptor: matching descriptor records.
//   - error: non-nil if the query fails.
func (r *DescriptorRepository) List(ctx context.Context, filter DescriptorFilter) ([]domain.Descriptor, error) {
	query := r.db.WithContext(ctx).Model(&domain.Descriptor{})
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.SourceID != "" {
		query = query.Where("source_id = ?", filter.SourceID)
	}
	if filter.ItemName != "" {
		query = query.Where("item_name = ?", filter.ItemName)
	}
	if filter.ItemCategory != "" {
		query = query.Where("item_category = ?", filter.ItemCategory)
	}
	if len(filter.SemanticTypes) > 0 {
		query = query.Where("semantic_type IN ?", filter.SemanticTypes)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var descriptors []domain.Descriptor
	if err := query.Order("created_at DESC").Find(&descriptors).Error; err != nil {
		return nil, fmt.Errorf("failed to list descriptors: %w", err)
	}
	return descriptors, nil
}

// CountByUser counts descriptors owned by a user.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: owning user identifier.
// Returns:
//   - int64: number of matching records.
//   - error: non-nil if the query fails.
func (r *DescriptorRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Descriptor{}).
		Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByType counts all descriptors grouped by semantic type.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - map[domain.SemanticType]int64: per-type counts.
//   - error: non-nil if the query fails.
func (r *DescriptorRepository) CountByType(ctx context.Context) (map[domain.SemanticType]int64, error) {
	type row struct {
		SemanticType domain.SemanticType
		Count        int64
	}
	var rows []row
	if err := r.db.WithContext(ctx).Model(&domain.Descriptor{}).
		Select("semantic_type, count(*) as count").
		Group("semantic_type").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[domain.SemanticType]int64, len(rows))
	for _, r := range rows {
		counts[r.SemanticType] = r.Count
	}
	return counts, nil
}

// Count counts all descriptor rows.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - int64: number of records.
//   - error: non-nil if the query fails.
func (r *DescriptorRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Descriptor{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
