package service

import (
	"testing"

	"github.com/lawrns/flavatix/internal/domain"
)

func findDescriptor(descs []ExtractedDescriptor, text string, typ domain.SemanticType) *ExtractedDescriptor {
	for i := range descs {
		if descs[i].Text == text && descs[i].Type == typ {
			return &descs[i]
		}
	}
	return nil
}

func TestKeywordExtractor_ExtractFromText(t *testing.T) {
	e := NewKeywordExtractor()

	tests := []struct {
		name string
		text string
		want []struct {
			text string
			typ  domain.SemanticType
		}
	}{
		{
			name: "coffee tasting note",
			text: "Bright citrus, floral jasmine, honey sweetness",
			want: []struct {
				text string
				typ  domain.SemanticType
			}{
				{"citrus", domain.TypeAroma},
				{"jasmine", domain.TypeAroma},
				{"honey", domain.TypeAroma},
			},
		},
		{
			name: "two-word term preferred over single word",
			text: "notes of dark chocolate on the finish",
			want: []struct {
				text string
				typ  domain.SemanticType
			}{
				{"dark chocolate", domain.TypeFlavor},
			},
		},
		{
			name: "texture term",
			text: "a silky mouthfeel",
			want: []struct {
				text string
				typ  domain.SemanticType
			}{
				{"silky", domain.TypeTexture},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.ExtractFromText(tt.text)
			for _, w := range tt.want {
				if findDescriptor(got, w.text, w.typ) == nil {
					t.Errorf("expected descriptor %q/%s in %+v", w.text, w.typ, got)
				}
			}
		})
	}
}

func TestKeywordExtractor_ExtractFromText_Empty(t *testing.T) {
	e := NewKeywordExtractor()

	got := e.ExtractFromText("")
	if got == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(got) != 0 {
		t.Errorf("expected no descriptors, got %+v", got)
	}

	got = e.ExtractFromText("the quick brown fox")
	if len(got) != 0 {
		t.Errorf("expected no descriptors for non-sensory text, got %+v", got)
	}
}

func TestKeywordExtractor_ExtractFromText_Deduplication(t *testing.T) {
	e := NewKeywordExtractor()

	got := e.ExtractFromText("citrus at first, then more citrus late")
	count := 0
	for _, d := range got {
		if d.Text == "citrus" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected one citrus descriptor, got %d", count)
	}
}

func TestKeywordExtractor_ModifierIntensity(t *testing.T) {
	e := NewKeywordExtractor()

	got := e.ExtractFromText("very silky body with slightly citrus notes")

	silky := findDescriptor(got, "silky", domain.TypeTexture)
	if silky == nil {
		t.Fatal("expected silky descriptor")
	}
	if silky.Intensity == nil || *silky.Intensity != 8 {
		t.Errorf("expected intensity 8 for 'very silky', got %v", silky.Intensity)
	}

	citrus := findDescriptor(got, "citrus", domain.TypeAroma)
	if citrus == nil {
		t.Fatal("expected citrus descriptor")
	}
	if citrus.Intensity == nil || *citrus.Intensity != 2 {
		t.Errorf("expected intensity 2 for 'slightly citrus', got %v", citrus.Intensity)
	}

	honey := e.ExtractFromText("honey finish")
	if len(honey) == 0 {
		t.Fatal("expected honey descriptor")
	}
	if honey[0].Intensity != nil {
		t.Errorf("expected nil intensity without modifier, got %v", *honey[0].Intensity)
	}
}

func TestKeywordExtractor_ExtractFromNotes(t *testing.T) {
	e := NewKeywordExtractor()
	aromaIntensity := 7.0

	notes := &StructuredNotes{
		Aroma:          "jasmine, honey",
		Flavor:         "dark chocolate",
		Texture:        "silky",
		AromaIntensity: &aromaIntensity,
	}

	got := e.ExtractFromNotes(notes)

	jasmine := findDescriptor(got, "jasmine", domain.TypeAroma)
	if jasmine == nil {
		t.Fatalf("expected jasmine aroma in %+v", got)
	}
	if jasmine.Intensity == nil || *jasmine.Intensity != 7 {
		t.Errorf("expected field intensity 7, got %v", jasmine.Intensity)
	}
	if jasmine.Category != "floral" {
		t.Errorf("expected floral category, got %q", jasmine.Category)
	}

	if findDescriptor(got, "dark chocolate", domain.TypeFlavor) == nil {
		t.Errorf("expected dark chocolate flavor in %+v", got)
	}
	if findDescriptor(got, "silky", domain.TypeTexture) == nil {
		t.Errorf("expected silky texture in %+v", got)
	}
}

func TestKeywordExtractor_ExtractFromNotes_FieldTypeWins(t *testing.T) {
	e := NewKeywordExtractor()

	// "citrus" is an aroma in the lexicon but the flavor field owns the type
	notes := &StructuredNotes{Flavor: "citrus"}
	got := e.ExtractFromNotes(notes)

	if findDescriptor(got, "citrus", domain.TypeFlavor) == nil {
		t.Errorf("expected citrus attributed to flavor field, got %+v", got)
	}
}

func TestKeywordExtractor_ExtractFromNotes_UnknownTermKept(t *testing.T) {
	e := NewKeywordExtractor()

	// Short chunks are taken verbatim even when the lexicon has no entry
	notes := &StructuredNotes{Aroma: "wet cardboard"}
	got := e.ExtractFromNotes(notes)

	d := findDescriptor(got, "wet cardboard", domain.TypeAroma)
	if d == nil {
		t.Fatalf("expected verbatim term in %+v", got)
	}
	if d.Category != "" {
		t.Errorf("expected no category for unknown term, got %q", d.Category)
	}
}

func TestKeywordExtractor_ExtractFromNotes_LeadingModifierStripped(t *testing.T) {
	e := NewKeywordExtractor()

	notes := &StructuredNotes{Aroma: "very jasmine"}
	got := e.ExtractFromNotes(notes)

	d := findDescriptor(got, "jasmine", domain.TypeAroma)
	if d == nil {
		t.Fatalf("expected modifier stripped from term, got %+v", got)
	}
	if d.Intensity == nil || *d.Intensity != 8 {
		t.Errorf("expected intensity 8 from stripped modifier, got %v", d.Intensity)
	}
}

func TestKeywordExtractor_ExtractFromNotes_Nil(t *testing.T) {
	e := NewKeywordExtractor()

	got := e.ExtractFromNotes(nil)
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty slice for nil notes, got %+v", got)
	}
}

func TestStructuredNotes_Combined(t *testing.T) {
	notes := &StructuredNotes{Aroma: "jasmine", Flavor: "chocolate"}
	combined := notes.Combined()
	if combined != "jasmine. chocolate" {
		t.Errorf("unexpected combined text: %q", combined)
	}

	empty := &StructuredNotes{}
	if !empty.IsEmpty() {
		t.Error("expected empty notes to report IsEmpty")
	}
	if notes.IsEmpty() {
		t.Error("expected populated notes to not report IsEmpty")
	}
}
