package domain

import "time"

// ExtractionLog is an append-only audit record of one AI extraction attempt.
// A row is written whether the provider call succeeded or failed; a request
// that falls back to keyword extraction still logs the attempted AI call.
type ExtractionLog struct {
	ID              string     `gorm:"type:text;primaryKey" json:"id"`
	UserID          string     `gorm:"type:text;not null;index:idx_extraction_logs_user" json:"user_id"`
	SourceID        string     `gorm:"type:text;not null;index:idx_extraction_logs_source" json:"source_id"`
	SourceType      SourceType `gorm:"type:text;not null" json:"source_type"`
	InputText       string     `gorm:"type:text" json:"input_text"`
	InputCategory   string     `gorm:"type:text" json:"input_category,omitempty"`
	ModelName       string     `gorm:"type:text" json:"model_name"`
	TokensUsed      int        `gorm:"default:0" json:"tokens_used"`
	ProcessingMs    int64      `gorm:"default:0" json:"processing_ms"`
	DescriptorCount int        `gorm:"default:0" json:"descriptor_count"`
	Success         bool       `gorm:"default:false" json:"success"`
	RawResponse     string     `gorm:"type:text" json:"raw_response,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// TableName returns the database table name for ExtractionLog.
func (ExtractionLog) TableName() string {
	return "extraction_logs"
}
