package lexicon

import "strings"

// Entry is one recognizable lexicon term with its sensory dimension and the
// wheel category it rolls up into.
type Entry struct {
	Term     string
	Type     string // aroma | flavor | texture | other
	Category string
}

// Terms is the shared descriptor lexicon used by the keyword extractor. The
// same term may appear under more than one type (e.g. "citrus" is both a
// smell and a taste); the extractor attributes it per matched field.
var Terms = []Entry{
	// Aromas - floral
	{"floral", "aroma", "floral"},
	{"jasmine", "aroma", "floral"},
	{"rose", "aroma", "floral"},
	{"lavender", "aroma", "floral"},
	{"violet", "aroma", "floral"},
	{"orange blossom", "aroma", "floral"},
	{"honeysuckle", "aroma", "floral"},

	// Aromas - fruity
	{"citrus", "aroma", "fruity"},
	{"lemon", "aroma", "fruity"},
	{"lime", "aroma", "fruity"},
	{"orange", "aroma", "fruity"},
	{"grapefruit", "aroma", "fruity"},
	{"bergamot", "aroma", "fruity"},
	{"berry", "aroma", "fruity"},
	{"strawberry", "aroma", "fruity"},
	{"raspberry", "aroma", "fruity"},
	{"blackberry", "aroma", "fruity"},
	{"blueberry", "aroma", "fruity"},
	{"cherry", "aroma", "fruity"},
	{"apple", "aroma", "fruity"},
	{"pear", "aroma", "fruity"},
	{"peach", "aroma", "fruity"},
	{"apricot", "aroma", "fruity"},
	{"tropical", "aroma", "fruity"},
	{"mango", "aroma", "fruity"},
	{"pineapple", "aroma", "fruity"},
	{"banana", "aroma", "fruity"},
	{"raisin", "aroma", "fruity"},
	{"fig", "aroma", "fruity"},
	{"prune", "aroma", "fruity"},

	// Aromas - sweet
	{"honey", "aroma", "sweet"},
	{"vanilla", "aroma", "sweet"},
	{"caramel", "aroma", "sweet"},
	{"toffee", "aroma", "sweet"},
	{"butterscotch", "aroma", "sweet"},
	{"molasses", "aroma", "sweet"},
	{"maple", "aroma", "sweet"},

	// Aromas - spice
	{"cinnamon", "aroma", "spice"},
	{"clove", "aroma", "spice"},
	{"nutmeg", "aroma", "spice"},
	{"pepper", "aroma", "spice"},
	{"anise", "aroma", "spice"},
	{"ginger", "aroma", "spice"},
	{"cardamom", "aroma", "spice"},

	// Aromas - roasted / earthy
	{"roasted", "aroma", "roasted"},
	{"smoky", "aroma", "roasted"},
	{"smoke", "aroma", "roasted"},
	{"toasted", "aroma", "roasted"},
	{"charred", "aroma", "roasted"},
	{"coffee", "aroma", "roasted"},
	{"cocoa", "aroma", "roasted"},
	{"earthy", "aroma", "earthy"},
	{"mushroom", "aroma", "earthy"},
	{"forest floor", "aroma", "earthy"},
	{"leather", "aroma", "earthy"},
	{"tobacco", "aroma", "earthy"},
	{"musty", "aroma", "earthy"},

	// Aromas - herbal / vegetal
	{"herbal", "aroma", "herbal"},
	{"grassy", "aroma", "herbal"},
	{"mint", "aroma", "herbal"},
	{"eucalyptus", "aroma", "herbal"},
	{"thyme", "aroma", "herbal"},
	{"sage", "aroma", "herbal"},
	{"hay", "aroma", "herbal"},
	{"vegetal", "aroma", "herbal"},

	// Aromas - nutty / woody
	{"nutty", "aroma", "nutty"},
	{"almond", "aroma", "nutty"},
	{"hazelnut", "aroma", "nutty"},
	{"walnut", "aroma", "nutty"},
	{"peanut", "aroma", "nutty"},
	{"oak", "aroma", "woody"},
	{"cedar", "aroma", "woody"},
	{"pine", "aroma", "woody"},
	{"sandalwood", "aroma", "woody"},

	// Flavors
	{"chocolate", "flavor", "sweet"},
	{"dark chocolate", "flavor", "sweet"},
	{"sweet", "flavor", "sweet"},
	{"sweetness", "flavor", "sweet"},
	{"bitter", "flavor", "bitter"},
	{"bitterness", "flavor", "bitter"},
	{"sour", "flavor", "sour"},
	{"tart", "flavor", "sour"},
	{"acidic", "flavor", "sour"},
	{"bright", "flavor", "sour"},
	{"zesty", "flavor", "sour"},
	{"salty", "flavor", "salty"},
	{"saline", "flavor", "salty"},
	{"briny", "flavor", "salty"},
	{"umami", "flavor", "savory"},
	{"savory", "flavor", "savory"},
	{"meaty", "flavor", "savory"},
	{"malty", "flavor", "grain"},
	{"biscuit", "flavor", "grain"},
	{"bready", "flavor", "grain"},
	{"cereal", "flavor", "grain"},
	{"spicy", "flavor", "spice"},
	{"peppery", "flavor", "spice"},
	{"minerally", "flavor", "mineral"},
	{"mineral", "flavor", "mineral"},
	{"flinty", "flavor", "mineral"},
	{"metallic", "flavor", "mineral"},

	// Textures
	{"creamy", "texture", "body"},
	{"smooth", "texture", "body"},
	{"silky", "texture", "body"},
	{"velvety", "texture", "body"},
	{"buttery", "texture", "body"},
	{"oily", "texture", "body"},
	{"syrupy", "texture", "body"},
	{"thin", "texture", "body"},
	{"watery", "texture", "body"},
	{"full-bodied", "texture", "body"},
	{"light-bodied", "texture", "body"},
	{"astringent", "texture", "mouthfeel"},
	{"drying", "texture", "mouthfeel"},
	{"tannic", "texture", "mouthfeel"},
	{"chalky", "texture", "mouthfeel"},
	{"grippy", "texture", "mouthfeel"},
	{"effervescent", "texture", "mouthfeel"},
	{"fizzy", "texture", "mouthfeel"},
	{"crisp", "texture", "mouthfeel"},
	{"chewy", "texture", "mouthfeel"},
	{"warming", "texture", "finish"},
	{"lingering", "texture", "finish"},
	{"clean", "texture", "finish"},
	{"short", "texture", "finish"},

	// Metaphor / other
	{"elegant", "other", "metaphor"},
	{"rustic", "other", "metaphor"},
	{"austere", "other", "metaphor"},
	{"opulent", "other", "metaphor"},
	{"brooding", "other", "metaphor"},
	{"vibrant", "other", "metaphor"},
	{"delicate", "other", "metaphor"},
	{"bold", "other", "metaphor"},
	{"complex", "other", "metaphor"},
	{"balanced", "other", "metaphor"},
	{"harsh", "other", "metaphor"},
	{"funky", "other", "metaphor"},
}

// IntensityModifiers maps modifier words adjacent to a matched term to an
// estimated intensity on the 0-10 scale (5 is neutral; the extractor uses
// these only when no explicit intensity number was supplied).
var IntensityModifiers = map[string]float64{
	"overwhelming": 10,
	"intense":      9,
	"intensely":    9,
	"very":         8,
	"strong":       8,
	"strongly":     8,
	"pronounced":   8,
	"heavy":        7,
	"rich":         7,
	"noticeable":   6,
	"moderate":     5,
	"moderately":   5,
	"mild":         4,
	"mildly":       4,
	"light":        3,
	"lightly":      3,
	"soft":         3,
	"slight":       2,
	"slightly":     2,
	"subtle":       2,
	"faint":        2,
	"hint":         1,
	"touch":        1,
	"trace":        1,
}

// byTerm is the lookup index over Terms, keyed by lowercased term.
var byTerm = func() map[string][]Entry {
	m := make(map[string][]Entry, len(Terms))
	for _, e := range Terms {
		key := strings.ToLower(e.Term)
		m[key] = append(m[key], e)
	}
	return m
}()

// Lookup returns the lexicon entries for a term, if any.
// Parameters:
//   - term: candidate term (matched case-insensitively).
// Returns:
//   - []Entry: entries for the term; empty when unknown.
func Lookup(term string) []Entry {
	return byTerm[strings.ToLower(strings.TrimSpace(term))]
}
