package repository

import (
	"context"

	"github.com/lawrns/flavatix/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WheelRepository handles cached flavor wheel artifacts.
type WheelRepository struct {
	db *gorm.DB
}

// NewWheelRepository creates a new WheelRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *WheelRepository: repository instance bound to db.
func NewWheelRepository(db *gorm.DB) *WheelRepository {
	return &WheelRepository{db: db}
}

// GetByKey retrieves the cached wheel for a (wheel type, scope type, scope
// key) combination.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - wheelType: wheel type.
//   - scopeType: scope type.
//   - scopeKey: canonical scope filter serialization.
// Returns:
//   - *domain.FlavorWheel: cached artifact if found.
//   - error: gorm.ErrRecordNotFound on a miss, other non-nil on failure.
func (r *WheelRepository) GetByKey(ctx context.Context, wheelType domain.WheelType, scopeType domain.ScopeType, scopeKey string) (*domain.FlavorWheel, error) {
	var wheel domain.FlavorWheel
	if err := r.db.WithContext(ctx).
		First(&wheel, "wheel_type = ? AND scope_type = ? AND scope_key = ?", wheelType, scopeType, scopeKey).Error; err != nil {
		return nil, err
	}
	return &wheel, nil
}

// Upsert persists a wheel artifact keyed by (wheel_type, scope_type,
// scope_key). Concurrent regenerations of the same key both write; the last
// write wins, which is acceptable since both computed from the same rows.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - wheel: wheel artifact to persist.
// Returns:
//   - error: non-nil if the upsert fails.
func (r *WheelRepository) Upsert(ctx context.Context, wheel *domain.FlavorWheel) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "wheel_type"}, {Name: "scope_type"}, {Name: "scope_key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"scope_filter", "payload", "generated_at", "updated_at",
		}),
	}).Create(wheel).Error
}

// DeleteByKey removes the cached wheel for a key, if any. Used for forced
// regeneration; deleting a missing row is not an error.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - wheelType: wheel type.
//   - scopeType: scope type.
//   - scopeKey: canonical scope filter serialization.
// Returns:
//   - error: non-nil if the delete fails.
func (r *WheelRepository) DeleteByKey(ctx context.Context, wheelType domain.WheelType, scopeType domain.ScopeType, scopeKey string) error {
	return r.db.WithContext(ctx).
		Where("wheel_type = ? AND scope_type = ? AND scope_key = ?", wheelType, scopeType, scopeKey).
		Delete(&domain.FlavorWheel{}).Error
}

// Count counts all cached wheel rows.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - int64: number of records.
//   - error: non-nil if the query fails.
func (r *WheelRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.FlavorWheel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
