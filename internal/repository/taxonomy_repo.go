package repository

import (
	"context"

	"github.com/lawrns/flavatix/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TaxonomyRepository handles category taxonomy data operations.
type TaxonomyRepository struct {
	db *gorm.DB
}

// NewTaxonomyRepository creates a new TaxonomyRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *TaxonomyRepository: repository instance bound to db.
func NewTaxonomyRepository(db *gorm.DB) *TaxonomyRepository {
	return &TaxonomyRepository{db: db}
}

// GetByNormalizedName retrieves a taxonomy by its normalized category name.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - normalized: lowercased, trimmed category name.
// Returns:
//   - *domain.CategoryTaxonomy: taxonomy record if found.
//   - error: gorm.ErrRecordNotFound on a miss, other non-nil on failure.
func (r *TaxonomyRepository) GetByNormalizedName(ctx context.Context, normalized string) (*domain.CategoryTaxonomy, error) {
	var taxonomy domain.CategoryTaxonomy
	if err := r.db.WithContext(ctx).
		First(&taxonomy, "normalized_name = ?", normalized).Error; err != nil {
		return nil, err
	}
	return &taxonomy, nil
}

// CreateIfAbsent persists a freshly generated taxonomy unless a row for the
// same normalized name was committed first. Concurrent generators race on the
// unique index; the first committed row wins and the loser's write is silently
// dropped, so no error surfaces either way.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - taxonomy: taxonomy record to persist.
// Returns:
//   - error: non-nil only if the write fails for a reason other than the
//     unique-key conflict.
func (r *TaxonomyRepository) CreateIfAbsent(ctx context.Context, taxonomy *domain.CategoryTaxonomy) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "normalized_name"}},
		DoNothing: true,
	}).Create(taxonomy).Error
}

// Replace overwrites the taxonomy for a normalized name (regeneration).
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - taxonomy: taxonomy record to persist.
// Returns:
//   - error: non-nil if the upsert fails.
func (r *TaxonomyRepository) Replace(ctx context.Context, taxonomy *domain.CategoryTaxonomy) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "normalized_name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"category_name", "payload", "model_name", "generated_at",
		}),
	}).Create(taxonomy).Error
}

// Count counts all taxonomy rows.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - int64: number of records.
//   - error: non-nil if the query fails.
func (r *TaxonomyRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.CategoryTaxonomy{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
