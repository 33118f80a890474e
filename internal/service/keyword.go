package service

import (
	"strings"
	"unicode"

	"github.com/lawrns/flavatix/internal/domain"
	"github.com/lawrns/flavatix/internal/lexicon"
)

// ExtractedDescriptor is one descriptor produced by either extraction
// strategy, before normalization and persistence.
type ExtractedDescriptor struct {
	Text        string              `json:"text"`
	Type        domain.SemanticType `json:"type"`
	Category    string              `json:"category,omitempty"`
	Subcategory string              `json:"subcategory,omitempty"`
	Confidence  float64             `json:"confidence"`
	Intensity   *float64            `json:"intensity,omitempty"`
}

// StructuredNotes carries the separate note fields of a structured review.
// Intensities are on a 0-10 scale and override modifier-word inference for
// their field.
type StructuredNotes struct {
	Aroma           string   `json:"aroma,omitempty"`
	Flavor          string   `json:"flavor,omitempty"`
	Texture         string   `json:"texture,omitempty"`
	Other           string   `json:"other,omitempty"`
	AromaIntensity  *float64 `json:"aroma_intensity,omitempty"`
	FlavorIntensity *float64 `json:"flavor_intensity,omitempty"`
}

// Combined joins the note fields into one text blob for the AI path.
// Parameters: none.
// Returns:
//   - string: non-empty fields joined by ". "; empty when all fields are empty.
func (n *StructuredNotes) Combined() string {
	parts := make([]string, 0, 4)
	for _, f := range []string{n.Aroma, n.Flavor, n.Texture, n.Other} {
		if s := strings.TrimSpace(f); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ". ")
}

// IsEmpty reports whether every note field is blank.
func (n *StructuredNotes) IsEmpty() bool {
	return n == nil || n.Combined() == ""
}

// KeywordExtractor is the deterministic, lexicon-driven extraction strategy.
// It never fails and never calls external services; it is the mandatory
// fallback when the AI path is disabled or errors.
type KeywordExtractor struct{}

// NewKeywordExtractor creates a new KeywordExtractor.
func NewKeywordExtractor() *KeywordExtractor {
	return &KeywordExtractor{}
}

// ExtractFromText scans free text for lexicon terms and returns matched
// descriptors with intensities estimated from adjacent modifier words.
// Parameters:
//   - text: free-text tasting note.
// Returns:
//   - []ExtractedDescriptor: matched descriptors; empty, never nil, for no matches.
func (e *KeywordExtractor) ExtractFromText(text string) []ExtractedDescriptor {
	tokens := tokenize(text)
	results := make([]ExtractedDescriptor, 0)
	seen := make(map[string]bool)

	i := 0
	for i < len(tokens) {
		// Prefer the two-word lexicon term when one matches at this position
		matched := 0
		var entries []lexicon.Entry
		if i+1 < len(tokens) {
			if es := lexicon.Lookup(tokens[i] + " " + tokens[i+1]); len(es) > 0 {
				entries = es
				matched = 2
			}
		}
		if matched == 0 {
			if es := lexicon.Lookup(tokens[i]); len(es) > 0 {
				entries = es
				matched = 1
			}
		}
		if matched == 0 {
			i++
			continue
		}

		entry := entries[0]
		key := strings.ToLower(entry.Term) + "|" + entry.Type
		if !seen[key] {
			seen[key] = true
			intensity := modifierIntensity(tokens, i)
			results = append(results, ExtractedDescriptor{
				Text:       entry.Term,
				Type:       domain.SemanticType(entry.Type),
				Category:   entry.Category,
				Confidence: 1.0,
				Intensity:  intensity,
			})
		}
		i += matched
	}

	return results
}

// ExtractFromNotes extracts descriptors from structured note fields. Each
// field's terms are attributed to that field's semantic type, and the field's
// explicit intensity number is used when present instead of inferring one
// from modifiers.
// Parameters:
//   - notes: structured note fields; nil yields no descriptors.
// Returns:
//   - []ExtractedDescriptor: descriptors attributed per field.
func (e *KeywordExtractor) ExtractFromNotes(notes *StructuredNotes) []ExtractedDescriptor {
	if notes == nil {
		return []ExtractedDescriptor{}
	}

	fields := []struct {
		text      string
		fieldType domain.SemanticType
		intensity *float64
	}{
		{notes.Aroma, domain.TypeAroma, notes.AromaIntensity},
		{notes.Flavor, domain.TypeFlavor, notes.FlavorIntensity},
		{notes.Texture, domain.TypeTexture, nil},
		{notes.Other, domain.TypeOther, nil},
	}

	results := make([]ExtractedDescriptor, 0)
	seen := make(map[string]bool)

	for _, f := range fields {
		for _, d := range e.extractField(f.text, f.fieldType, f.intensity) {
			key := strings.ToLower(d.Text) + "|" + string(d.Type)
			if seen[key] {
				continue
			}
			seen[key] = true
			results = append(results, d)
		}
	}

	return results
}

// extractField splits one note field into descriptors of the field's type.
// Short comma-separated chunks are taken verbatim as descriptor terms; long
// chunks fall back to a lexicon scan.
func (e *KeywordExtractor) extractField(text string, fieldType domain.SemanticType, fieldIntensity *float64) []ExtractedDescriptor {
	results := make([]ExtractedDescriptor, 0)
	for _, chunk := range splitChunks(text) {
		tokens := tokenize(chunk)
		if len(tokens) == 0 {
			continue
		}

		if len(tokens) > 3 {
			// Prose-like chunk: scan for lexicon terms, keep the field's type
			for _, d := range e.ExtractFromText(chunk) {
				d.Type = fieldType
				if fieldIntensity != nil {
					d.Intensity = fieldIntensity
				}
				results = append(results, d)
			}
			continue
		}

		// Leading modifier words set intensity and are stripped from the term
		intensity := fieldIntensity
		for len(tokens) > 1 {
			v, ok := lexicon.IntensityModifiers[tokens[0]]
			if !ok {
				break
			}
			if intensity == nil {
				intensity = &v
			}
			tokens = tokens[1:]
		}

		term := strings.Join(tokens, " ")
		d := ExtractedDescriptor{
			Text:       term,
			Type:       fieldType,
			Confidence: 1.0,
			Intensity:  intensity,
		}
		if entry, ok := bestEntry(term, fieldType); ok {
			d.Category = entry.Category
		}
		results = append(results, d)
	}
	return results
}

// bestEntry returns the lexicon entry for a term, preferring one whose type
// matches the field the term came from.
func bestEntry(term string, fieldType domain.SemanticType) (lexicon.Entry, bool) {
	entries := lexicon.Lookup(term)
	if len(entries) == 0 {
		return lexicon.Entry{}, false
	}
	for _, e := range entries {
		if e.Type == string(fieldType) {
			return e, true
		}
	}
	return entries[0], true
}

// modifierIntensity inspects up to two tokens before a match for an
// intensity modifier word.
func modifierIntensity(tokens []string, matchIdx int) *float64 {
	for back := 1; back <= 2; back++ {
		j := matchIdx - back
		if j < 0 {
			break
		}
		if v, ok := lexicon.IntensityModifiers[tokens[j]]; ok {
			return &v
		}
	}
	return nil
}

// splitChunks splits a note field on list separators.
func splitChunks(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ';' || r == '/' || r == '\n'
	})
}

// tokenize lowercases text and splits it into word tokens, keeping hyphens
// inside words ("full-bodied").
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '-'
	})
}
