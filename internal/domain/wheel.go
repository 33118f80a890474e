package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// WheelType selects which sensory dimensions contribute to a wheel.
// Values include WheelAroma, WheelFlavor, WheelCombined, and WheelMetaphor.
type WheelType string

const (
	WheelAroma    WheelType = "aroma"
	WheelFlavor   WheelType = "flavor"
	WheelCombined WheelType = "combined"
	WheelMetaphor WheelType = "metaphor"
)

// Valid reports whether the wheel type is one of the known values.
func (t WheelType) Valid() bool {
	switch t {
	case WheelAroma, WheelFlavor, WheelCombined, WheelMetaphor:
		return true
	}
	return false
}

// SemanticTypes returns the descriptor semantic types aggregated into this
// wheel type.
func (t WheelType) SemanticTypes() []SemanticType {
	switch t {
	case WheelAroma:
		return []SemanticType{TypeAroma}
	case WheelFlavor:
		return []SemanticType{TypeFlavor}
	case WheelMetaphor:
		return []SemanticType{TypeOther}
	default:
		return []SemanticType{TypeAroma, TypeFlavor, TypeTexture}
	}
}

// ScopeType selects the filter dimension over which descriptors are
// aggregated. Values include ScopePersonal, ScopeUniversal, ScopeItem,
// ScopeCategory, and ScopeTasting.
type ScopeType string

const (
	ScopePersonal  ScopeType = "personal"
	ScopeUniversal ScopeType = "universal"
	ScopeItem      ScopeType = "item"
	ScopeCategory  ScopeType = "category"
	ScopeTasting   ScopeType = "tasting"
)

// Valid reports whether the scope type is one of the known values.
func (t ScopeType) Valid() bool {
	switch t {
	case ScopePersonal, ScopeUniversal, ScopeItem, ScopeCategory, ScopeTasting:
		return true
	}
	return false
}

// ScopeFilter narrows the descriptor rows contributing to a wheel. Which
// fields are required depends on the scope type.
type ScopeFilter struct {
	UserID       string `json:"user_id,omitempty"`
	ItemName     string `json:"item_name,omitempty"`
	ItemCategory string `json:"item_category,omitempty"`
	TastingID    string `json:"tasting_id,omitempty"`
}

// Key returns the canonical serialization of the filter used as part of the
// wheel cache key. Fields are emitted in a fixed order so that equal filters
// always produce equal keys.
// Parameters: none.
// Returns:
//   - string: canonical "k:v|k:v" form; empty for an empty filter.
func (f ScopeFilter) Key() string {
	pairs := make([]string, 0, 4)
	if f.UserID != "" {
		pairs = append(pairs, "user:"+f.UserID)
	}
	if f.ItemName != "" {
		pairs = append(pairs, "item:"+f.ItemName)
	}
	if f.ItemCategory != "" {
		pairs = append(pairs, "item_category:"+f.ItemCategory)
	}
	if f.TastingID != "" {
		pairs = append(pairs, "tasting:"+f.TastingID)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, "|")
}

// Validate checks that the filter carries the fields the scope type requires.
// Parameters:
//   - scope: scope type the filter is used with.
//
// Returns:
//   - error: non-nil if a required field is missing.
func (f ScopeFilter) Validate(scope ScopeType) error {
	switch scope {
	case ScopePersonal:
		if f.UserID == "" {
			return fmt.Errorf("personal scope requires user_id")
		}
	case ScopeItem:
		if f.ItemName == "" && f.ItemCategory == "" {
			return fmt.Errorf("item scope requires item_name or item_category")
		}
	case ScopeCategory:
		if f.ItemCategory == "" {
			return fmt.Errorf("category scope requires item_category")
		}
	case ScopeTasting:
		if f.TastingID == "" {
			return fmt.Errorf("tasting scope requires tasting_id")
		}
	}
	return nil
}

// WheelDescriptor is one leaf of the wheel tree: a normalized term with the
// number of descriptor rows that mention it.
type WheelDescriptor struct {
	Text  string       `json:"text"`
	Type  SemanticType `json:"type"`
	Count int          `json:"count"`
}

// WheelCategory is one top-level segment of the wheel.
type WheelCategory struct {
	Name        string            `json:"name"`
	Value       int               `json:"value"`
	Descriptors []WheelDescriptor `json:"descriptors"`
}

// WheelPayload is the full aggregation tree stored with a cached wheel.
type WheelPayload struct {
	Categories []WheelCategory `json:"categories"`
	Total      int             `json:"total"`
}

// Value implements the driver.Valuer interface for database serialization.
func (p WheelPayload) Value() (driver.Value, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
func (p *WheelPayload) Scan(value interface{}) error {
	if value == nil {
		*p = WheelPayload{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan WheelPayload")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, p)
}

// FlavorWheel is a cached, precomputed aggregation of descriptors for one
// (wheel type, scope type, scope key) combination. At most one live row
// exists per key; forced regeneration deletes the prior row first.
type FlavorWheel struct {
	ID          string       `gorm:"type:text;primaryKey" json:"id"`
	WheelType   WheelType    `gorm:"type:text;not null;uniqueIndex:idx_wheels_key" json:"wheel_type"`
	ScopeType   ScopeType    `gorm:"type:text;not null;uniqueIndex:idx_wheels_key" json:"scope_type"`
	ScopeKey    string       `gorm:"type:text;not null;uniqueIndex:idx_wheels_key" json:"scope_key"`
	ScopeFilter string       `gorm:"type:text" json:"scope_filter,omitempty"`
	Payload     WheelPayload `gorm:"type:text;not null" json:"payload"`
	GeneratedAt time.Time    `json:"generated_at"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// TableName returns the database table name for FlavorWheel.
func (FlavorWheel) TableName() string {
	return "flavor_wheels"
}
