package repository

import (
	"context"

	"github.com/lawrns/flavatix/internal/domain"
	"gorm.io/gorm"
)

// ExtractionLogRepository handles extraction audit records.
type ExtractionLogRepository struct {
	db *gorm.DB
}

// NewExtractionLogRepository creates a new ExtractionLogRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *ExtractionLogRepository: repository instance bound to db.
func NewExtractionLogRepository(db *gorm.DB) *ExtractionLogRepository {
	return &ExtractionLogRepository{db: db}
}

// Create appends an extraction log record. Logs are append-only.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - entry: log record to persist.
// Returns:
//   - error: non-nil if the insert fails.
func (r *ExtractionLogRepository) Create(ctx context.Context, entry *domain.ExtractionLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListByUser retrieves extraction logs for a user, newest first.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: owning user identifier.
//   - limit: maximum number of records to return.
// Returns:
//   - []domain.ExtractionLog: matching log records.
//   - error: non-nil if the query fails.
func (r *ExtractionLogRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.ExtractionLog, error) {
	var logs []domain.ExtractionLog
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
