package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// TaxonomyPayload is the flavor vocabulary generated for a tasting category.
// It is stored as a JSON column with an explicit schema rather than an
// untyped map, and validated where it crosses the store boundary.
type TaxonomyPayload struct {
	BaseTemplate       string   `json:"base_template"`
	AromaCategories    []string `json:"aroma_categories"`
	FlavorCategories   []string `json:"flavor_categories"`
	TypicalDescriptors []string `json:"typical_descriptors"`
	TextureNotes       []string `json:"texture_notes"`
}

// Value implements the driver.Valuer interface for database serialization.
// Parameters: none.
// Returns:
//   - driver.Value: JSON-encoded payload.
//   - error: non-nil if marshaling fails.
func (p TaxonomyPayload) Value() (driver.Value, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
// Parameters:
//   - value: raw database value to decode.
//
// Returns:
//   - error: non-nil if decoding fails or the type is unexpected.
func (p *TaxonomyPayload) Scan(value interface{}) error {
	if value == nil {
		*p = TaxonomyPayload{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan TaxonomyPayload")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, p)
}

// IsEmpty reports whether the payload carries no vocabulary at all.
func (p TaxonomyPayload) IsEmpty() bool {
	return len(p.AromaCategories) == 0 &&
		len(p.FlavorCategories) == 0 &&
		len(p.TypicalDescriptors) == 0 &&
		len(p.TextureNotes) == 0
}

// CategoryTaxonomy is a cached flavor vocabulary for a free-text category
// name. normalized_name is the lookup key; at most one row is authoritative
// per normalized name at a time.
type CategoryTaxonomy struct {
	ID             string          `gorm:"type:text;primaryKey" json:"id"`
	CategoryName   string          `gorm:"type:text;not null" json:"category_name"`
	NormalizedName string          `gorm:"type:text;not null;uniqueIndex:idx_taxonomies_normalized" json:"normalized_name"`
	Payload        TaxonomyPayload `gorm:"type:text;not null" json:"payload"`
	ModelName      string          `gorm:"type:text" json:"model_name,omitempty"`
	GeneratedAt    time.Time       `json:"generated_at"`
	CreatedAt      time.Time       `json:"created_at"`
}

// TableName returns the database table name for CategoryTaxonomy.
func (CategoryTaxonomy) TableName() string {
	return "category_taxonomies"
}

// NormalizeCategoryName computes the lookup key for a category name.
// Parameters:
//   - name: category name as entered by the user.
//
// Returns:
//   - string: lowercased, whitespace-trimmed key.
func NormalizeCategoryName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
