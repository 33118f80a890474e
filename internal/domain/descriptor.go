package domain

import (
	"strings"
	"time"
)

// SourceType identifies what kind of record a descriptor was extracted from.
// Values include SourceQuickTasting, SourceReview, and SourceProseReview.
type SourceType string

const (
	SourceQuickTasting SourceType = "quick_tasting"
	SourceReview       SourceType = "review"
	SourceProseReview  SourceType = "prose_review"
)

// Valid reports whether the source type is one of the known values.
func (s SourceType) Valid() bool {
	switch s {
	case SourceQuickTasting, SourceReview, SourceProseReview:
		return true
	}
	return false
}

// SemanticType is the sensory dimension a descriptor belongs to.
// Values include TypeAroma, TypeFlavor, TypeTexture, and TypeOther.
type SemanticType string

const (
	TypeAroma   SemanticType = "aroma"
	TypeFlavor  SemanticType = "flavor"
	TypeTexture SemanticType = "texture"
	TypeOther   SemanticType = "other"
)

// Valid reports whether the semantic type is one of the known values.
func (t SemanticType) Valid() bool {
	switch t {
	case TypeAroma, TypeFlavor, TypeTexture, TypeOther:
		return true
	}
	return false
}

// ExtractionMethod identifies which strategy produced a descriptor.
type ExtractionMethod string

const (
	MethodAI      ExtractionMethod = "ai"
	MethodKeyword ExtractionMethod = "keyword"
)

// Descriptor represents one normalized flavor/aroma/texture term attributed
// to a user and a source record. The tuple (user_id, normalized, semantic_type)
// is unique; repeated extraction of the same term updates the existing row.
type Descriptor struct {
	ID           string       `gorm:"type:text;primaryKey" json:"id"`
	UserID       string       `gorm:"type:text;not null;uniqueIndex:idx_descriptors_user_term;index:idx_descriptors_user" json:"user_id"`
	SourceType   SourceType   `gorm:"type:text;not null" json:"source_type"`
	SourceID     string       `gorm:"type:text;not null;index:idx_descriptors_source" json:"source_id"`
	RawText      string       `gorm:"type:text;not null" json:"text"`
	Normalized   string       `gorm:"type:text;not null;uniqueIndex:idx_descriptors_user_term" json:"normalized"`
	SemanticType SemanticType `gorm:"type:text;not null;uniqueIndex:idx_descriptors_user_term" json:"type"`
	Category     string       `gorm:"type:text;index:idx_descriptors_category" json:"category,omitempty"`
	Subcategory  string       `gorm:"type:text" json:"subcategory,omitempty"`
	Confidence   float64      `gorm:"default:1.0" json:"confidence"`
	Intensity    *float64     `json:"intensity,omitempty"`
	ItemName     string       `gorm:"type:text;index:idx_descriptors_item" json:"item_name,omitempty"`
	ItemCategory string       `gorm:"type:text;index:idx_descriptors_item_category" json:"item_category,omitempty"`
	AIGenerated  bool         `gorm:"default:false" json:"ai_generated"`
	ModelName    string       `gorm:"type:text" json:"model_name,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// TableName returns the database table name for Descriptor.
// Parameters: none.
// Returns:
//   - string: table name for GORM mapping.
func (Descriptor) TableName() string {
	return "flavor_descriptors"
}

// NormalizeTerm computes the dedup key for a raw descriptor term.
// Parameters:
//   - raw: descriptor text as extracted.
//
// Returns:
//   - string: lowercased, whitespace-trimmed form.
func NormalizeTerm(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
